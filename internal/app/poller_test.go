package app

import (
	"context"
	"errors"
	"testing"
	"time"

	"vantage/internal/api"
	"vantage/internal/logging"
	"vantage/internal/state"
)

func TestCalculateBackoff(t *testing.T) {
	baseInterval := 2 * time.Second

	tests := []struct {
		name     string
		failures int
		want     time.Duration
	}{
		{"zero failures", 0, 2 * time.Second},
		{"negative failures", -1, 2 * time.Second},
		{"one failure", 1, 4 * time.Second},
		{"two failures", 2, 8 * time.Second},
		{"three failures", 3, 16 * time.Second},
		{"four failures capped", 4, 30 * time.Second}, // Would be 32s, capped to 30s
		{"many failures capped", 10, 30 * time.Second},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := calculateBackoff(tt.failures, baseInterval)
			if got != tt.want {
				t.Errorf("calculateBackoff(%d, %v) = %v, want %v", tt.failures, baseInterval, got, tt.want)
			}
		})
	}
}

func TestCalculateBackoff_MaxCap(t *testing.T) {
	baseInterval := 2 * time.Second
	for failures := 0; failures <= 20; failures++ {
		got := calculateBackoff(failures, baseInterval)
		if got > maxBackoff {
			t.Errorf("calculateBackoff(%d, %v) = %v, exceeds maxBackoff %v", failures, baseInterval, got, maxBackoff)
		}
	}
}

// stubFetcher implements api.Fetcher with canned responses.
type stubFetcher struct {
	pods    []api.Pod
	jobs    []api.JobRun
	podsErr error
	jobsErr error
}

func (f *stubFetcher) FetchPods(ctx context.Context) ([]api.Pod, error) {
	return f.pods, f.podsErr
}

func (f *stubFetcher) FetchJobs(ctx context.Context) ([]api.JobRun, error) {
	return f.jobs, f.jobsErr
}

func (f *stubFetcher) FetchJob(ctx context.Context, name string) (*api.JobRun, error) {
	return nil, errors.New("not implemented")
}

func TestRefresh_PopulatesStore(t *testing.T) {
	store := &state.Store{}
	fetcher := &stubFetcher{
		pods: []api.Pod{{Name: "train-0"}},
		jobs: []api.JobRun{{Name: "train"}},
	}

	refresh(context.Background(), store, fetcher, logging.Discard())

	snap := store.Snapshot()
	if len(snap.Pods) != 1 || len(snap.Jobs) != 1 {
		t.Fatalf("snapshot = %+v, want 1 pod and 1 job", snap)
	}
	if snap.LastError != nil {
		t.Fatalf("LastError = %v", snap.LastError)
	}
}

func TestRefresh_RecordsError(t *testing.T) {
	store := &state.Store{}
	fetcher := &stubFetcher{podsErr: errors.New("unreachable")}

	refresh(context.Background(), store, fetcher, logging.Discard())

	snap := store.Snapshot()
	if snap.LastError == nil {
		t.Fatal("LastError = nil, want poll failure")
	}
	if snap.ConsecutiveFailures != 1 {
		t.Fatalf("ConsecutiveFailures = %d, want 1", snap.ConsecutiveFailures)
	}
}

func TestRefresh_JobsErrorRecorded(t *testing.T) {
	store := &state.Store{}
	fetcher := &stubFetcher{
		pods:    []api.Pod{{Name: "train-0"}},
		jobsErr: errors.New("jobs endpoint down"),
	}

	refresh(context.Background(), store, fetcher, logging.Discard())

	snap := store.Snapshot()
	if snap.LastError == nil {
		t.Fatal("LastError = nil, want jobs failure")
	}
	if len(snap.Pods) != 0 {
		t.Fatalf("pods stored despite failed refresh: %+v", snap.Pods)
	}
}
