// Package config handles configuration file loading and parsing.
package config

import (
	"errors"
	"os"
	"path/filepath"

	"github.com/pelletier/go-toml/v2"
)

// Default configuration values.
const (
	DefaultPackRoot    = "packs"
	DefaultPackAuthor  = "packforge"
	DefaultSearchLimit = 10
	DefaultFFmpeg      = "ffmpeg"
)

// Environment variables carrying provider credentials. Credentials are
// never read from the config file.
const (
	EnvPixabayKey     = "PIXABAY_API_KEY"
	EnvFreesoundKey   = "FREESOUND_API_KEY"
	EnvFreesoundOAuth = "FREESOUND_OAUTH_TOKEN"
)

// Config represents the packforge configuration.
type Config struct {
	Pack       PackConfig                 `toml:"pack"`
	RateLimits map[string]RateLimitConfig `toml:"rate_limits"`
	Transcode  TranscodeConfig            `toml:"transcode"`
	Log        LogConfig                  `toml:"log"`
}

// PackConfig holds defaults applied to assembled packs.
type PackConfig struct {
	OutputRoot  string `toml:"output_root"` // Where packs are written
	Author      string `toml:"author"`
	Description string `toml:"description"`
}

// RateLimitConfig is one provider's request budget. The effective delay
// between requests is ceil(interval_seconds / max_requests).
type RateLimitConfig struct {
	MaxRequests     int `toml:"max_requests"`
	IntervalSeconds int `toml:"interval_seconds"`
}

// TranscodeConfig holds external encoder settings.
type TranscodeConfig struct {
	FFmpegPath string `toml:"ffmpeg_path"` // Binary name or absolute path
}

// LogConfig holds process log file settings.
type LogConfig struct {
	File string `toml:"file"` // Empty = default state-dir location
}

// Credentials holds provider API credentials sourced from the
// environment at startup.
type Credentials struct {
	PixabayKey     string
	FreesoundKey   string
	FreesoundOAuth string
}

// CredentialsFromEnv reads provider credentials from the environment.
func CredentialsFromEnv() Credentials {
	return Credentials{
		PixabayKey:     os.Getenv(EnvPixabayKey),
		FreesoundKey:   os.Getenv(EnvFreesoundKey),
		FreesoundOAuth: os.Getenv(EnvFreesoundOAuth),
	}
}

// DefaultConfig returns a Config with default values. The rate-limit
// budgets track the providers' published free-tier limits.
func DefaultConfig() *Config {
	return &Config{
		Pack: PackConfig{
			OutputRoot:  DefaultPackRoot,
			Author:      DefaultPackAuthor,
			Description: "Curated notification sound pack",
		},
		RateLimits: map[string]RateLimitConfig{
			"pixabay":   {MaxRequests: 100, IntervalSeconds: 60},
			"freesound": {MaxRequests: 60, IntervalSeconds: 60},
		},
		Transcode: TranscodeConfig{
			FFmpegPath: DefaultFFmpeg,
		},
		Log: LogConfig{
			File: "",
		},
	}
}

// ConfigPath returns the path to the config file.
// Uses XDG_CONFIG_HOME if set, otherwise ~/.config.
func ConfigPath() string {
	configHome := os.Getenv("XDG_CONFIG_HOME")
	if configHome == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return ""
		}
		configHome = filepath.Join(home, ".config")
	}
	return filepath.Join(configHome, "packforge", "config.toml")
}

// StatePath returns the path to the state directory.
// Uses XDG_STATE_HOME if set, otherwise ~/.local/state.
func StatePath() string {
	stateHome := os.Getenv("XDG_STATE_HOME")
	if stateHome == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return ""
		}
		stateHome = filepath.Join(home, ".local", "state")
	}
	return filepath.Join(stateHome, "packforge")
}

// LogPath returns the path to the process log file.
func LogPath() string {
	return filepath.Join(StatePath(), "packforge.log")
}

// EnsureStateDir creates the state directory if it doesn't exist.
func EnsureStateDir() error {
	path := StatePath()
	if path == "" {
		return errors.New("cannot determine state directory")
	}
	return os.MkdirAll(path, 0755)
}

// LoadConfig loads configuration from the specified path.
// If path is empty, uses the default config path.
// Returns default config if file doesn't exist.
func LoadConfig(path string) (*Config, error) {
	if path == "" {
		path = ConfigPath()
	}

	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return nil, err
	}

	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

// RateLimit returns the configured budget for a provider, falling back
// to a conservative one-request-per-second budget when unconfigured.
func (c *Config) RateLimit(provider string) RateLimitConfig {
	if rl, ok := c.RateLimits[provider]; ok && rl.MaxRequests > 0 && rl.IntervalSeconds > 0 {
		return rl
	}
	return RateLimitConfig{MaxRequests: 1, IntervalSeconds: 1}
}
