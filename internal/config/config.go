package config

import (
	"fmt"

	"github.com/kelseyhightower/envconfig"
)

// Config holds all host configuration.
type Config struct {
	Server    ServerConfig
	Corpus    CorpusConfig
	Session   SessionConfig
	Plot      PlotConfig
	Logging   LogConfig
	RateLimit RateLimitConfig
}

// ServerConfig holds HTTP server configuration.
type ServerConfig struct {
	Port string `envconfig:"PORT" default:"8400"`
	Host string `envconfig:"HOST" default:"0.0.0.0"`
}

// CorpusConfig holds score corpus configuration.
type CorpusConfig struct {
	Root string `envconfig:"CORPUS_ROOT" default:"./corpus"`
}

// SessionConfig holds session persistence configuration.
type SessionConfig struct {
	Dir          string `envconfig:"SESSION_DIR" default:"/tmp/cantus-sessions"`
	AutosaveName string `envconfig:"SESSION_AUTOSAVE_NAME" default:"default"`
}

// PlotConfig holds figure rendering configuration.
type PlotConfig struct {
	Format  string `envconfig:"PLOT_FORMAT" default:"png"`
	BaseDPI int    `envconfig:"PLOT_BASE_DPI" default:"96"`
}

// LogConfig holds logging configuration.
type LogConfig struct {
	Level       string `envconfig:"LOG_LEVEL" default:"info"`
	Development bool   `envconfig:"LOG_DEV" default:"false"`
}

// RateLimitConfig holds rate limiting configuration.
type RateLimitConfig struct {
	RequestsPerSecond int  `envconfig:"RATE_LIMIT_RPS" default:"100"`
	Burst             int  `envconfig:"RATE_LIMIT_BURST" default:"200"`
	Enabled           bool `envconfig:"RATE_LIMIT_ENABLED" default:"true"`
}

// Load loads configuration from environment variables.
func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	return &cfg, nil
}

// LoadOrDefault loads configuration from environment or returns default.
func LoadOrDefault() *Config {
	cfg, err := Load()
	if err != nil {
		return Default()
	}
	return cfg
}

// Default returns default configuration.
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Port: "8400",
			Host: "0.0.0.0",
		},
		Corpus: CorpusConfig{
			Root: "./corpus",
		},
		Session: SessionConfig{
			Dir:          "/tmp/cantus-sessions",
			AutosaveName: "default",
		},
		Plot: PlotConfig{
			Format:  "png",
			BaseDPI: 96,
		},
		Logging: LogConfig{
			Level:       "info",
			Development: false,
		},
		RateLimit: RateLimitConfig{
			RequestsPerSecond: 100,
			Burst:             200,
			Enabled:           true,
		},
	}
}
