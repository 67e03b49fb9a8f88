package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err) // explicit path that does not exist is an error

	cfg, err = Load("")
	require.NoError(t, err)
	require.Equal(t, "0.0.0.0:8080", cfg.Server.Addr())
	require.Equal(t, 30*time.Second, cfg.Server.ReadTimeout)
	require.Equal(t, "./data/files", cfg.Storage.Root)
	require.Empty(t, cfg.Storage.Prefix)
	require.Equal(t, "info", cfg.Logging.Level)
	require.True(t, cfg.Metrics.Enabled)
	require.Equal(t, "/metrics", cfg.Metrics.Path)
}

func TestLoadFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := `
server:
  port: 9000
storage:
  root: /srv/files
  prefix: https://cdn.example.com/uploads/
logging:
  level: debug
  format: console
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, 9000, cfg.Server.Port)
	require.Equal(t, "/srv/files", cfg.Storage.Root)
	require.Equal(t, "https://cdn.example.com/uploads/", cfg.Storage.Prefix)
	require.Equal(t, "debug", cfg.Logging.Level)
	require.Equal(t, "console", cfg.Logging.Format)
}

func TestLoadEnvOverride(t *testing.T) {
	t.Setenv("SHARDSTORE_SERVER_PORT", "9999")
	t.Setenv("SHARDSTORE_STORAGE_ROOT", "/tmp/env-root")

	cfg, err := Load("")
	require.NoError(t, err)
	require.Equal(t, 9999, cfg.Server.Port)
	require.Equal(t, "/tmp/env-root", cfg.Storage.Root)
}

func TestValidate(t *testing.T) {
	valid := func() *Config {
		return &Config{
			Server:  ServerConfig{Port: 8080},
			Storage: StorageConfig{Root: "./data"},
			Logging: LoggingConfig{Level: "info", Format: "json"},
			Metrics: MetricsConfig{Enabled: true, Path: "/metrics"},
		}
	}

	require.NoError(t, valid().Validate())

	bad := valid()
	bad.Server.Port = 0
	require.Error(t, bad.Validate())

	bad = valid()
	bad.Storage.Root = ""
	require.Error(t, bad.Validate())

	bad = valid()
	bad.Logging.Level = "verbose"
	require.Error(t, bad.Validate())

	bad = valid()
	bad.Logging.Format = "xml"
	require.Error(t, bad.Validate())

	bad = valid()
	bad.Metrics.Path = "metrics"
	require.Error(t, bad.Validate())
}
