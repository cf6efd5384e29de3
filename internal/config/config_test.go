package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

// Тесты загрузки конфигурации: YAML, ENV, приоритет источников, валидация.

const validYAML = `
env: dev
http:
  host: 127.0.0.1
  port: "9090"
guardian:
  base_url: https://content.example.com
  api_key: test-key
cache:
  ttl: 10m
  sweep_interval: 2m
limits:
  daily: 100
  per_second: 2
aggregate:
  prefetch_factor: 2
  pace_interval: 600ms
timeouts:
  service: 20s
  upstream: 5s
`

func writeConfig(t *testing.T, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	return path
}

func TestLoad_FromExplicitPath(t *testing.T) {
	path := writeConfig(t, validYAML)

	cfg, err := Load(path)
	require.NoError(t, err)

	require.Equal(t, "dev", cfg.Env)
	require.Equal(t, "127.0.0.1:9090", cfg.HTTP.Addr())
	require.Equal(t, "https://content.example.com", cfg.Guardian.BaseURL)
	require.Equal(t, "test-key", cfg.Guardian.APIKey)
	require.Equal(t, 10*time.Minute, cfg.Cache.TTL)
	require.Equal(t, 2*time.Minute, cfg.Cache.SweepInterval)
	require.Equal(t, 100, cfg.Limits.Daily)
	require.Equal(t, 2, cfg.Limits.PerSecond)
	require.False(t, cfg.Limits.Lenient)
	require.Equal(t, 2, cfg.Aggregate.PrefetchFactor)
	require.Equal(t, 600*time.Millisecond, cfg.Aggregate.PaceInterval)
	require.Equal(t, 20*time.Second, cfg.Timeouts.Service)
	require.Equal(t, 5*time.Second, cfg.Timeouts.Upstream)
}

func TestLoad_MissingExplicitPath(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.Error(t, err)
}

func TestLoad_FromConfigPathEnv(t *testing.T) {
	path := writeConfig(t, validYAML)
	t.Setenv("CONFIG_PATH", path)

	cfg, err := Load("")
	require.NoError(t, err)
	require.Equal(t, "dev", cfg.Env)
}

func TestLoad_EnvOnly(t *testing.T) {
	t.Setenv("GUARDIAN_API_KEY", "env-key")

	// CONFIG_PATH не задан, local.yaml в тестовой директории нет:
	// конфигурация собирается из ENV и env-default.
	cwd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(t.TempDir()))
	t.Cleanup(func() { _ = os.Chdir(cwd) })

	cfg, err := Load("")
	require.NoError(t, err)

	require.Equal(t, "local", cfg.Env)
	require.Equal(t, "env-key", cfg.Guardian.APIKey)
	require.Equal(t, 15*time.Minute, cfg.Cache.TTL)
	require.Equal(t, 500, cfg.Limits.Daily)
	require.Equal(t, 1, cfg.Limits.PerSecond)
	require.Equal(t, 3, cfg.Aggregate.PrefetchFactor)
	require.Equal(t, 1100*time.Millisecond, cfg.Aggregate.PaceInterval)
}

func TestValidate(t *testing.T) {
	base := func() Config {
		cfg := Config{}
		cfg.Guardian.BaseURL = "https://content.example.com"
		cfg.Guardian.APIKey = "k"
		cfg.Cache.TTL = 15 * time.Minute
		cfg.Cache.SweepInterval = 5 * time.Minute
		cfg.Limits.Daily = 500
		cfg.Limits.PerSecond = 1
		cfg.Aggregate.PrefetchFactor = 3
		cfg.Aggregate.PaceInterval = 1100 * time.Millisecond
		cfg.Timeouts.Service = 30 * time.Second
		cfg.Timeouts.Upstream = 10 * time.Second
		return cfg
	}

	valid := base()
	require.NoError(t, valid.validate())

	tests := []struct {
		name   string
		modify func(*Config)
	}{
		{"missing_api_key", func(c *Config) { c.Guardian.APIKey = "" }},
		{"missing_base_url", func(c *Config) { c.Guardian.BaseURL = "" }},
		{"zero_ttl", func(c *Config) { c.Cache.TTL = 0 }},
		{"zero_sweep", func(c *Config) { c.Cache.SweepInterval = 0 }},
		{"zero_daily", func(c *Config) { c.Limits.Daily = 0 }},
		{"zero_per_second", func(c *Config) { c.Limits.PerSecond = 0 }},
		{"lenient_without_threshold", func(c *Config) { c.Limits.Lenient = true; c.Limits.LenientFactor = 10 }},
		{"lenient_with_unit_factor", func(c *Config) {
			c.Limits.Lenient = true
			c.Limits.LenientThreshold = 400
			c.Limits.LenientFactor = 1
		}},
		{"prefetch_below_one", func(c *Config) { c.Aggregate.PrefetchFactor = 0 }},
		{"zero_pace", func(c *Config) { c.Aggregate.PaceInterval = 0 }},
		{"zero_service_timeout", func(c *Config) { c.Timeouts.Service = 0 }},
		{"zero_upstream_timeout", func(c *Config) { c.Timeouts.Upstream = 0 }},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			cfg := base()
			tc.modify(&cfg)
			require.Error(t, cfg.validate())
		})
	}
}
