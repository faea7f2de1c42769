package app

import (
	"context"
	"fmt"
	"time"

	"vantage/internal/api"
	"vantage/internal/config"
	"vantage/internal/logging"
	"vantage/internal/prefs"
	"vantage/internal/state"
	"vantage/internal/ui"
)

// Options configure the vantage application.
type Options struct {
	ConfigPath string
	PrefsPath  string // empty uses default ~/.config/vantage/prefs.toml
	PollEvery  int    // seconds; zero uses the config value
}

// Run boots the vantage TUI until the context is cancelled.
func Run(ctx context.Context, opts Options) error {
	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	userPrefs, err := prefs.Load(opts.PrefsPath)
	if err != nil {
		return fmt.Errorf("load prefs: %w", err)
	}

	logger, closeLog, err := logging.New(logging.Options{
		Level: cfg.LogLevel,
		Path:  cfg.DebugLogPath(),
	})
	if err != nil {
		// A broken debug log should not keep the console from starting.
		logger = logging.Discard()
		closeLog = func() error { return nil }
	}
	defer func() { _ = closeLog() }()

	client, err := api.NewClient(cfg.APIURL, cfg.Token)
	if err != nil {
		return fmt.Errorf("init api client: %w", err)
	}

	store := &state.Store{}

	interval := time.Duration(cfg.PollEvery) * time.Second
	if opts.PollEvery > 0 {
		interval = time.Duration(opts.PollEvery) * time.Second
	}

	StartPoller(ctx, store, client, interval, logger)

	// Populate the store once before the UI starts.
	refresh(ctx, store, client, logger)

	uiOpts := ui.Options{
		Context:    ctx,
		Client:     client,
		Store:      store,
		Config:     &cfg,
		Logger:     logger,
		PollTick:   interval,
		ThemeName:  userPrefs.Theme,
		FollowLogs: userPrefs.FollowLogs,
		PrefsPath:  opts.PrefsPath,
	}
	return ui.Run(uiOpts)
}
