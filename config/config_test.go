package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfigFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)
	require.NotNil(t, cfg)

	assert.Equal(t, "", cfg.Server.Host)
	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Empty(t, cfg.Server.AllowedOrigins)
	assert.Equal(t, 15*time.Second, cfg.Server.ReadTimeout)
	assert.Equal(t, 15*time.Second, cfg.Server.WriteTimeout)
	assert.Equal(t, 60*time.Second, cfg.Server.IdleTimeout)
	assert.Equal(t, 30*time.Second, cfg.Server.ShutdownTimeout)
	assert.Equal(t, "compare.db", cfg.Store.Path)
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.Equal(t, "json", cfg.Logging.Format)
	assert.Zero(t, cfg.Engine.TieEpsilon)
	assert.Zero(t, cfg.Engine.MaxPolicies)
	assert.Equal(t, 7*24*time.Hour, cfg.Sessions.TTL)
	assert.True(t, cfg.Janitor.Enabled)
	assert.Equal(t, time.Hour, cfg.Janitor.Interval)
}

func TestLoad_FromYAMLFile(t *testing.T) {
	path := writeConfigFile(t, `
server:
  host: 127.0.0.1
  port: 9000
  allowed_origins:
    - https://compare.example.com
store:
  path: /var/lib/compare/compare.db
logging:
  level: debug
  format: console
engine:
  tie_epsilon: 0.05
  max_policies: 6
sessions:
  ttl: 48h
janitor:
  enabled: false
  interval: 15m
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "127.0.0.1", cfg.Server.Host)
	assert.Equal(t, 9000, cfg.Server.Port)
	assert.Equal(t, []string{"https://compare.example.com"}, cfg.Server.AllowedOrigins)
	assert.Equal(t, "/var/lib/compare/compare.db", cfg.Store.Path)
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.Equal(t, "console", cfg.Logging.Format)
	assert.Equal(t, 0.05, cfg.Engine.TieEpsilon)
	assert.Equal(t, 6, cfg.Engine.MaxPolicies)
	assert.Equal(t, 48*time.Hour, cfg.Sessions.TTL)
	assert.False(t, cfg.Janitor.Enabled)
	assert.Equal(t, 15*time.Minute, cfg.Janitor.Interval)

	// Unset keys keep their defaults
	assert.Equal(t, 15*time.Second, cfg.Server.ReadTimeout)
}

func TestLoad_EnvOverrides(t *testing.T) {
	path := writeConfigFile(t, `
server:
  port: 9000
`)

	t.Setenv("COMPARE_SERVER_PORT", "9090")
	t.Setenv("COMPARE_LOGGING_LEVEL", "warn")
	t.Setenv("COMPARE_SESSIONS_TTL", "2h")

	cfg, err := Load(path)
	require.NoError(t, err)

	// Environment beats the file
	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, "warn", cfg.Logging.Level)
	assert.Equal(t, 2*time.Hour, cfg.Sessions.TTL)
}

func TestLoad_MissingExplicitFile(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "does-not-exist.yaml"))
	assert.Error(t, err)
	assert.Nil(t, cfg)
}

func TestLoad_RejectsInvalidValues(t *testing.T) {
	tests := []struct {
		name    string
		yaml    string
		wantErr string
	}{
		{
			name:    "port out of range",
			yaml:    "server:\n  port: 70000\n",
			wantErr: "server.port",
		},
		{
			name:    "unknown log level",
			yaml:    "logging:\n  level: loud\n",
			wantErr: "logging.level",
		},
		{
			name:    "unknown log format",
			yaml:    "logging:\n  format: xml\n",
			wantErr: "logging.format",
		},
		{
			name:    "negative tie epsilon",
			yaml:    "engine:\n  tie_epsilon: -0.5\n",
			wantErr: "engine.tie_epsilon",
		},
		{
			name:    "non-positive session ttl",
			yaml:    "sessions:\n  ttl: -1h\n",
			wantErr: "sessions.ttl",
		},
		{
			name:    "non-positive janitor interval",
			yaml:    "janitor:\n  interval: 0s\n",
			wantErr: "janitor.interval",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeConfigFile(t, tt.yaml)
			cfg, err := Load(path)
			require.Error(t, err)
			assert.Nil(t, cfg)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestServerConfig_Addr(t *testing.T) {
	s := ServerConfig{Port: 8080}
	assert.Equal(t, ":8080", s.Addr())

	s.Host = "127.0.0.1"
	assert.Equal(t, "127.0.0.1:8080", s.Addr())
}
