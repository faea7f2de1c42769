package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	toml "github.com/pelletier/go-toml/v2"
)

// Config captures the settings vantage needs to reach the platform.
type Config struct {
	APIURL    string
	Token     string
	MaxLines  int
	PollEvery int // seconds
	LogDir    string
	LogLevel  string
}

const (
	defaultConfigPath = "~/.config/vantage/config.toml"
	defaultLogDir     = "~/.local/share/vantage/logs"
	defaultAPIURL     = "127.0.0.1:8600"
	defaultMaxLines   = 500
	defaultPollEvery  = 2
)

// Load locates and parses the vantage config, falling back to defaults when
// the file is missing. A token_path entry is resolved to the file's trimmed
// contents; an inline token wins when both are present.
func Load(path string) (Config, error) {
	resolved, err := resolvePath(path)
	if err != nil {
		return Config{}, err
	}

	cfg := Config{
		APIURL:    defaultAPIURL,
		MaxLines:  defaultMaxLines,
		PollEvery: defaultPollEvery,
		LogDir:    mustExpand(defaultLogDir),
		LogLevel:  "info",
	}

	file, err := os.Open(resolved)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return Config{}, fmt.Errorf("open config: %w", err)
	}
	defer file.Close()

	bytes, err := io.ReadAll(file)
	if err != nil {
		return Config{}, fmt.Errorf("read config: %w", err)
	}

	var raw struct {
		APIURL    string `toml:"api_url"`
		Token     string `toml:"token"`
		TokenPath string `toml:"token_path"`
		MaxLines  int    `toml:"max_lines"`
		PollEvery int    `toml:"poll_seconds"`
		LogDir    string `toml:"log_dir"`
		LogLevel  string `toml:"log_level"`
	}
	if err := toml.Unmarshal(bytes, &raw); err != nil {
		return Config{}, fmt.Errorf("parse config: %w", err)
	}

	if v := strings.TrimSpace(raw.APIURL); v != "" {
		cfg.APIURL = v
	}
	cfg.Token = strings.TrimSpace(raw.Token)
	if cfg.Token == "" && strings.TrimSpace(raw.TokenPath) != "" {
		token, err := readTokenFile(mustExpand(raw.TokenPath))
		if err != nil {
			return Config{}, err
		}
		cfg.Token = token
	}
	if raw.MaxLines != 0 {
		cfg.MaxLines = raw.MaxLines
	}
	if cfg.MaxLines <= 0 {
		return Config{}, fmt.Errorf("max_lines must be positive, got %d", cfg.MaxLines)
	}
	if raw.PollEvery > 0 {
		cfg.PollEvery = raw.PollEvery
	}
	if v := strings.TrimSpace(raw.LogDir); v != "" {
		cfg.LogDir = mustExpand(v)
	}
	if v := strings.TrimSpace(raw.LogLevel); v != "" {
		cfg.LogLevel = v
	}

	return cfg, nil
}

// DebugLogPath returns the path of vantage's own debug log.
func (c Config) DebugLogPath() string {
	if strings.TrimSpace(c.LogDir) == "" {
		return mustExpand(defaultLogDir + "/vantage.log")
	}
	return filepath.Join(c.LogDir, "vantage.log")
}

func readTokenFile(path string) (string, error) {
	bytes, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("read token file: %w", err)
	}
	token := strings.TrimSpace(string(bytes))
	if token == "" {
		return "", fmt.Errorf("token file %q is empty", path)
	}
	return token, nil
}

func resolvePath(path string) (string, error) {
	if strings.TrimSpace(path) == "" {
		return expandPath(defaultConfigPath)
	}
	return expandPath(path)
}

func mustExpand(path string) string {
	expanded, err := expandPath(path)
	if err != nil {
		return path
	}
	return expanded
}

func expandPath(path string) (string, error) {
	trimmed := strings.TrimSpace(path)
	if trimmed == "" {
		return "", fmt.Errorf("path is empty")
	}
	if strings.HasPrefix(trimmed, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home dir: %w", err)
		}
		trimmed = filepath.Join(home, strings.TrimPrefix(trimmed, "~"))
	}
	return filepath.Abs(trimmed)
}
