package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	assert.Equal(t, "packs", cfg.Pack.OutputRoot)
	assert.Equal(t, "packforge", cfg.Pack.Author)
	assert.Equal(t, "ffmpeg", cfg.Transcode.FFmpegPath)
	assert.Equal(t, 100, cfg.RateLimits["pixabay"].MaxRequests)
	assert.Equal(t, 60, cfg.RateLimits["pixabay"].IntervalSeconds)
	assert.Equal(t, 60, cfg.RateLimits["freesound"].MaxRequests)
	assert.Empty(t, cfg.Log.File)
}

func TestLoadConfig_DefaultsWhenNoFile(t *testing.T) {
	cfg, err := LoadConfig("/nonexistent/path/config.toml")
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig().Pack.OutputRoot, cfg.Pack.OutputRoot)
}

func TestLoadConfig_ParsesTOML(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")

	content := `
[pack]
output_root = "/srv/packs"
author = "curation-bot"

[rate_limits.pixabay]
max_requests = 10
interval_seconds = 30

[transcode]
ffmpeg_path = "/opt/ffmpeg/bin/ffmpeg"

[log]
file = "/var/log/packforge.log"
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, "/srv/packs", cfg.Pack.OutputRoot)
	assert.Equal(t, "curation-bot", cfg.Pack.Author)
	assert.Equal(t, 10, cfg.RateLimits["pixabay"].MaxRequests)
	assert.Equal(t, 30, cfg.RateLimits["pixabay"].IntervalSeconds)
	// Unlisted providers keep their defaults.
	assert.Equal(t, 60, cfg.RateLimits["freesound"].MaxRequests)
	assert.Equal(t, "/opt/ffmpeg/bin/ffmpeg", cfg.Transcode.FFmpegPath)
	assert.Equal(t, "/var/log/packforge.log", cfg.Log.File)
}

func TestLoadConfig_InvalidTOML(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	require.NoError(t, os.WriteFile(path, []byte("not [valid toml"), 0644))

	_, err := LoadConfig(path)
	assert.Error(t, err)
}

func TestRateLimit_Fallback(t *testing.T) {
	cfg := DefaultConfig()

	rl := cfg.RateLimit("pixabay")
	assert.Equal(t, 100, rl.MaxRequests)

	rl = cfg.RateLimit("unknown-provider")
	assert.Equal(t, 1, rl.MaxRequests)
	assert.Equal(t, 1, rl.IntervalSeconds)
}

func TestCredentialsFromEnv(t *testing.T) {
	t.Setenv(EnvPixabayKey, "pix-key")
	t.Setenv(EnvFreesoundKey, "fs-key")
	t.Setenv(EnvFreesoundOAuth, "fs-oauth")

	creds := CredentialsFromEnv()
	assert.Equal(t, "pix-key", creds.PixabayKey)
	assert.Equal(t, "fs-key", creds.FreesoundKey)
	assert.Equal(t, "fs-oauth", creds.FreesoundOAuth)
}
