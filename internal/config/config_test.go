package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDefaultConfig(t *testing.T) {
	cfg := Default()
	require.Equal(t, ":4000", cfg.TelnetAddr)
	require.Equal(t, ":8080", cfg.WebAddr)
	require.Equal(t, "data/world.json", cfg.ContentPath)
	require.Equal(t, "info", cfg.Log.Level)
	require.False(t, cfg.TLS.Enabled)
	require.False(t, cfg.Redis.Enabled)
}

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)
	require.Equal(t, Default(), cfg)
}

func TestLoadYAMLFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	data := `
telnet_addr: ":5000"
data_dir: /var/emberveil
lock_wait: 500ms
log:
  level: debug
  format: json
redis:
  enabled: true
  addr: redis:6379
  db: 3
archive:
  enabled: true
  path: /var/emberveil/archive
`
	require.NoError(t, os.WriteFile(path, []byte(data), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, ":5000", cfg.TelnetAddr)
	require.Equal(t, "/var/emberveil", cfg.DataDir)
	require.Equal(t, "500ms", cfg.LockWait.String())
	require.Equal(t, "debug", cfg.Log.Level)
	require.Equal(t, "json", cfg.Log.Format)
	require.True(t, cfg.Redis.Enabled)
	require.Equal(t, "redis:6379", cfg.Redis.Addr)
	require.Equal(t, 3, cfg.Redis.DB)
	require.True(t, cfg.Archive.Enabled)
	// Settings absent from the file keep their defaults.
	require.Equal(t, ":8080", cfg.WebAddr)
}

func TestLoadRejectsMalformedYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("telnet_addr: [\n"), 0o644))

	_, err := Load(path)
	require.Error(t, err)
}

func TestEnvOverridesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("telnet_addr: \":5000\"\n"), 0o644))

	t.Setenv("EMBERVEIL_TELNET_ADDR", ":6000")
	t.Setenv("EMBERVEIL_TLS_ENABLED", "true")
	t.Setenv("EMBERVEIL_REDIS_DB", "7")
	t.Setenv("EMBERVEIL_LOG_LEVEL", "warn")

	cfg, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, ":6000", cfg.TelnetAddr)
	require.True(t, cfg.TLS.Enabled)
	require.Equal(t, 7, cfg.Redis.DB)
	require.Equal(t, "warn", cfg.Log.Level)
}

func TestEnvIgnoresUnparseableValues(t *testing.T) {
	t.Setenv("EMBERVEIL_TLS_ENABLED", "maybe")
	t.Setenv("EMBERVEIL_REDIS_DB", "several")

	cfg, err := Load("")
	require.NoError(t, err)
	require.False(t, cfg.TLS.Enabled)
	require.Equal(t, 0, cfg.Redis.DB)
}
