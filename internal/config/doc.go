// Package config loads vantage's TOML configuration: the platform API
// endpoint, the auth token (inline or via token_path), log window bounds,
// and poll cadence.
package config
