package app

import (
	"context"
	"log/slog"
	"time"

	"vantage/internal/api"
	"vantage/internal/state"
)

const (
	defaultPollInterval = 2 * time.Second
	maxBackoff          = 30 * time.Second
)

// StartPoller launches a background goroutine that refreshes the store at a
// fixed cadence, backing off while the API is unreachable. It returns
// immediately.
func StartPoller(ctx context.Context, store *state.Store, client api.Fetcher, interval time.Duration, logger *slog.Logger) {
	if interval <= 0 {
		interval = defaultPollInterval
	}
	go func() {
		for {
			refresh(ctx, store, client, logger)

			wait := calculateBackoff(store.Snapshot().ConsecutiveFailures, interval)
			timer := time.NewTimer(wait)
			select {
			case <-ctx.Done():
				timer.Stop()
				return
			case <-timer.C:
			}
		}
	}()
}

// calculateBackoff doubles the base interval per consecutive failure, capped
// at maxBackoff. Zero failures means the base interval.
func calculateBackoff(failures int, base time.Duration) time.Duration {
	if failures <= 0 {
		return base
	}
	wait := base
	for i := 0; i < failures; i++ {
		wait *= 2
		if wait >= maxBackoff {
			return maxBackoff
		}
	}
	return wait
}

func refresh(ctx context.Context, store *state.Store, client api.Fetcher, logger *slog.Logger) {
	pods, err := client.FetchPods(ctx)
	if err != nil {
		store.Update(nil, nil, err)
		logger.Warn("pod poll failed", "error", err)
		return
	}
	jobs, err := client.FetchJobs(ctx)
	if err != nil {
		store.Update(nil, nil, err)
		logger.Warn("job poll failed", "error", err)
		return
	}
	store.Update(pods, jobs, nil)
}
