package main

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func clearConfigEnv(t *testing.T) {
	t.Helper()
	for _, name := range []string{"CONFIG", "HOST", "PORT", "PATH", "HEARTBEAT", "RESTART_BACKOFF", "DEVICE", "LOG_FILE", "LOG_LEVEL"} {
		t.Setenv(envPrefix+name, "")
		require.NoError(t, os.Unsetenv(envPrefix+name))
	}
}

func TestLoadConfigDefaults(t *testing.T) {
	clearConfigEnv(t)

	cfg, err := loadConfig()
	require.NoError(t, err)
	require.Equal(t, defaultConfig(), cfg)
	require.Equal(t, 8765, cfg.Port)
	require.Equal(t, "/", cfg.Path)
	require.Equal(t, time.Second, cfg.Heartbeat)
	require.Equal(t, 5*time.Second, cfg.RestartBackoff)
}

func TestLoadConfigFileThenEnv(t *testing.T) {
	clearConfigEnv(t)
	path := filepath.Join(t.TempDir(), "levelremote.yaml")
	require.NoError(t, os.WriteFile(path, []byte("host: 10.0.0.5\nport: 9000\nrestartBackoff: 2s\ndevice: dummy\nlogLevel: debug\n"), 0o600))
	t.Setenv(configPathEnv, path)
	t.Setenv(envPrefix+"PORT", "9100")

	cfg, err := loadConfig()
	require.NoError(t, err)
	require.Equal(t, "10.0.0.5", cfg.Host)
	require.Equal(t, 9100, cfg.Port)
	require.Equal(t, 2*time.Second, cfg.RestartBackoff)
	require.Equal(t, time.Second, cfg.Heartbeat)
	require.Equal(t, "dummy", cfg.Device)
	require.Equal(t, "debug", cfg.LogLevel)
}

func TestLoadConfigRejectsUnknownKeys(t *testing.T) {
	clearConfigEnv(t)
	path := filepath.Join(t.TempDir(), "levelremote.yaml")
	require.NoError(t, os.WriteFile(path, []byte("prot: 9000\n"), 0o600))
	t.Setenv(configPathEnv, path)

	_, err := loadConfig()
	require.ErrorContains(t, err, "could not parse config file")
}

func TestLoadConfigMissingFile(t *testing.T) {
	clearConfigEnv(t)
	t.Setenv(configPathEnv, filepath.Join(t.TempDir(), "missing.yaml"))

	_, err := loadConfig()
	require.ErrorIs(t, err, os.ErrNotExist)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*appConfig)
		want   string
	}{
		{"port", func(c *appConfig) { c.Port = 0 }, "invalid port 0"},
		{"path", func(c *appConfig) { c.Path = "ws" }, `path "ws" must start with /`},
		{"heartbeat", func(c *appConfig) { c.Heartbeat = 0 }, "heartbeat must be positive, got 0s"},
		{"backoff", func(c *appConfig) { c.RestartBackoff = -time.Second }, "restart backoff must be positive, got -1s"},
		{"device", func(c *appConfig) { c.Device = "serial" }, `unknown device backend "serial"`},
		{"log level", func(c *appConfig) { c.LogLevel = "loud" }, `unknown log level "loud"`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := defaultConfig()
			tt.mutate(&cfg)
			require.EqualError(t, cfg.validate(), tt.want)
		})
	}
}

func TestBindAddress(t *testing.T) {
	cfg := defaultConfig()
	addr, err := cfg.bindAddress(func() (string, error) { return "192.168.1.10", nil })
	require.NoError(t, err)
	require.Equal(t, "192.168.1.10:8765", addr)

	cfg.Host = "0.0.0.0"
	addr, err = cfg.bindAddress(func() (string, error) {
		t.Fatal("resolve must not be called when host is set")
		return "", nil
	})
	require.NoError(t, err)
	require.Equal(t, "0.0.0.0:8765", addr)

	cfg.Host = ""
	_, err = cfg.bindAddress(func() (string, error) { return "", errNoIPv4 })
	require.True(t, errors.Is(err, errNoIPv4))
}
