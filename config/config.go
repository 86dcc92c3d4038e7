/*
config.go - Service configuration

PURPOSE:
  Central configuration for the comparison service: HTTP server, SQLite
  path, logging, session retention, and the cleanup janitor. Values come
  from built-in defaults, an optional YAML file, and COMPARE_*
  environment variables, later sources winning.

SOURCES (lowest to highest precedence):
 1. Built-in defaults
 2. YAML file: an explicit -config path, or config.yaml in the working
    directory when no path is given
 3. Environment: COMPARE_SERVER_PORT=9090 overrides server.port

EXAMPLE FILE:

	server:
	  port: 8080
	  allowed_origins:
	    - http://localhost:5173
	store:
	  path: compare.db
	logging:
	  level: info
	  format: json
	engine:
	  tie_epsilon: 0.01
	  max_policies: 10
	sessions:
	  ttl: 168h
	janitor:
	  enabled: true
	  interval: 1h

SEE ALSO:
  - cmd/server/main.go: flag handling and wiring
  - api/janitor.go: consumes the janitor block
*/
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config is the root of the service configuration tree.
type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Store    StoreConfig    `mapstructure:"store"`
	Logging  LoggingConfig  `mapstructure:"logging"`
	Engine   EngineConfig   `mapstructure:"engine"`
	Sessions SessionsConfig `mapstructure:"sessions"`
	Janitor  JanitorConfig  `mapstructure:"janitor"`
}

// ServerConfig controls the HTTP listener.
type ServerConfig struct {
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port"`
	AllowedOrigins  []string      `mapstructure:"allowed_origins"`
	ReadTimeout     time.Duration `mapstructure:"read_timeout"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout"`
	IdleTimeout     time.Duration `mapstructure:"idle_timeout"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
}

// Addr formats the listen address. An empty host binds all interfaces.
func (s ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

// StoreConfig locates the SQLite database.
type StoreConfig struct {
	Path string `mapstructure:"path"`
}

// LoggingConfig selects zap level and encoding.
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// EngineConfig overrides selected engine options. Zero values keep the
// engine's standard defaults.
type EngineConfig struct {
	TieEpsilon  float64 `mapstructure:"tie_epsilon"`
	MaxPolicies int     `mapstructure:"max_policies"`
}

// SessionsConfig controls how long saved comparisons stay replayable.
type SessionsConfig struct {
	TTL time.Duration `mapstructure:"ttl"`
}

// JanitorConfig controls the expired-session sweeper.
type JanitorConfig struct {
	Enabled  bool          `mapstructure:"enabled"`
	Interval time.Duration `mapstructure:"interval"`
}

// Load reads the configuration. An explicit path must exist; otherwise a
// config.yaml in the working directory is used when present.
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return nil, fmt.Errorf("read config: %w", err)
			}
		}
	}

	v.SetEnvPrefix("COMPARE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.host", "")
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.allowed_origins", []string{})
	v.SetDefault("server.read_timeout", 15*time.Second)
	v.SetDefault("server.write_timeout", 15*time.Second)
	v.SetDefault("server.idle_timeout", 60*time.Second)
	v.SetDefault("server.shutdown_timeout", 30*time.Second)

	v.SetDefault("store.path", "compare.db")

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "json")

	v.SetDefault("engine.tie_epsilon", 0.0)
	v.SetDefault("engine.max_policies", 0)

	v.SetDefault("sessions.ttl", 7*24*time.Hour)

	v.SetDefault("janitor.enabled", true)
	v.SetDefault("janitor.interval", time.Hour)
}

// Validate rejects values the service cannot run with.
func (c *Config) Validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port must be between 1 and 65535, got %d", c.Server.Port)
	}

	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("logging.level must be debug, info, warn, or error, got %q", c.Logging.Level)
	}

	switch c.Logging.Format {
	case "json", "console":
	default:
		return fmt.Errorf("logging.format must be json or console, got %q", c.Logging.Format)
	}

	if c.Store.Path == "" {
		return errors.New("store.path is required")
	}
	if c.Engine.TieEpsilon < 0 {
		return errors.New("engine.tie_epsilon must not be negative")
	}
	if c.Engine.MaxPolicies < 0 {
		return errors.New("engine.max_policies must not be negative")
	}
	if c.Sessions.TTL <= 0 {
		return errors.New("sessions.ttl must be positive")
	}
	if c.Janitor.Interval <= 0 {
		return errors.New("janitor.interval must be positive")
	}
	return nil
}
