package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"clickclock/internal/config"
)

// chdir moves into an empty directory so no stray clickclock.yaml is picked up.
func chdir(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Chdir(dir)
	t.Setenv("HOME", dir)
	return dir
}

func TestLoad_defaults(t *testing.T) {
	chdir(t)

	cfg, err := config.Load(config.New(), "")

	require.NoError(t, err)
	require.Equal(t, "https://clickclock-service.onrender.com", cfg.ServiceURL)
	require.Equal(t, 10*time.Second, cfg.RequestTimeout)
	require.Equal(t, 2, cfg.Retries)
	require.Equal(t, 2*time.Second, cfg.CopyReset)
	require.Equal(t, 10*time.Millisecond, cfg.Tick)
	require.Equal(t, "clickclock.db", cfg.DB)
	require.Empty(t, cfg.LogFile)
	require.Equal(t, "info", cfg.LogLevel)
}

func TestLoad_envOverrides(t *testing.T) {
	chdir(t)
	t.Setenv("CLICKCLOCK_SERVICE_URL", "http://localhost:8080")
	t.Setenv("CLICKCLOCK_COPY_RESET", "1500ms")
	t.Setenv("CLICKCLOCK_RETRIES", "0")
	t.Setenv("CLICKCLOCK_LOG_LEVEL", "DEBUG")

	cfg, err := config.Load(config.New(), "")

	require.NoError(t, err)
	require.Equal(t, "http://localhost:8080", cfg.ServiceURL)
	require.Equal(t, 1500*time.Millisecond, cfg.CopyReset)
	require.Zero(t, cfg.Retries)
	require.Equal(t, "debug", cfg.LogLevel)
}

func TestLoad_file(t *testing.T) {
	dir := chdir(t)
	path := filepath.Join(dir, "custom.yaml")
	require.NoError(t, os.WriteFile(path, []byte("service_url: http://time.internal\ntick: 50ms\ndb: \"\"\n"), 0o644))

	cfg, err := config.Load(config.New(), path)

	require.NoError(t, err)
	require.Equal(t, "http://time.internal", cfg.ServiceURL)
	require.Equal(t, 50*time.Millisecond, cfg.Tick)
	require.Empty(t, cfg.DB)
}

func TestLoad_missingExplicitFile(t *testing.T) {
	dir := chdir(t)

	_, err := config.Load(config.New(), filepath.Join(dir, "nope.yaml"))

	require.ErrorContains(t, err, "read config")
}

func TestLoad_invalid(t *testing.T) {
	chdir(t)
	t.Setenv("CLICKCLOCK_SERVICE_URL", "localhost:8080")
	t.Setenv("CLICKCLOCK_TICK", "0s")
	t.Setenv("CLICKCLOCK_LOG_LEVEL", "loud")

	_, err := config.Load(config.New(), "")

	require.ErrorContains(t, err, config.KeyServiceURL)
	require.ErrorContains(t, err, config.KeyTick)
	require.ErrorContains(t, err, config.KeyLogLevel)
}
