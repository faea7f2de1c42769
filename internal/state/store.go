package state

import (
	"fmt"
	"sync"
	"time"

	"vantage/internal/api"
)

// Snapshot represents the latest data available to the UI.
type Snapshot struct {
	Pods                []api.Pod
	Jobs                []api.JobRun
	LastUpdated         time.Time
	LastError           error
	ConsecutiveFailures int // Number of consecutive poll failures
}

// IsOffline returns true when the API has been unreachable for multiple polls.
func (s Snapshot) IsOffline() bool {
	return s.ConsecutiveFailures >= 2
}

// Store coordinates concurrent updates to the snapshot.
type Store struct {
	mu       sync.RWMutex
	snapshot Snapshot
}

// Update replaces the stored snapshot. When err is non-nil the previous data
// is kept but the error is recorded for visibility.
func (s *Store) Update(pods []api.Pod, jobs []api.JobRun, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err != nil {
		s.snapshot.LastError = err
		s.snapshot.LastUpdated = time.Now()
		s.snapshot.ConsecutiveFailures++
		return
	}

	s.snapshot.Pods = clonePods(pods)
	s.snapshot.Jobs = cloneJobs(jobs)
	s.snapshot.LastError = nil
	s.snapshot.LastUpdated = time.Now()
	s.snapshot.ConsecutiveFailures = 0
}

// Snapshot returns a copy of the current snapshot.
func (s *Store) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()

	snap := s.snapshot
	snap.Pods = clonePods(s.snapshot.Pods)
	snap.Jobs = cloneJobs(s.snapshot.Jobs)
	if s.snapshot.LastError != nil {
		snap.LastError = fmt.Errorf("%w", s.snapshot.LastError)
	}
	return snap
}

func clonePods(pods []api.Pod) []api.Pod {
	if len(pods) == 0 {
		return nil
	}
	dup := make([]api.Pod, len(pods))
	copy(dup, pods)
	return dup
}

func cloneJobs(jobs []api.JobRun) []api.JobRun {
	if len(jobs) == 0 {
		return nil
	}
	dup := make([]api.JobRun, len(jobs))
	copy(dup, jobs)
	return dup
}
