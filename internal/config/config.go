// Package config loads the service configuration from an optional .env file,
// TOML files, and CHORUS_* environment variables.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"time"

	"github.com/pelletier/go-toml/v2"
	"github.com/subosito/gotenv"

	"github.com/JaimeStill/chorus/pkg/database"
	"github.com/JaimeStill/chorus/pkg/logging"
	"github.com/JaimeStill/chorus/pkg/sentiment"
	"github.com/JaimeStill/chorus/pkg/storage"
	"github.com/JaimeStill/chorus/pkg/youtube"
)

const (
	BaseConfigFile       = "config.toml"
	OverlayConfigPattern = "config.%s.toml"
	DefaultEnvFile       = ".env"

	EnvChorusEnv             = "CHORUS_ENV"
	EnvChorusEnvFile         = "CHORUS_ENV_FILE"
	EnvChorusShutdownTimeout = "CHORUS_SHUTDOWN_TIMEOUT"
	EnvChorusVersion         = "CHORUS_VERSION"
)

var databaseEnv = &database.Env{
	Host:            "CHORUS_DB_HOST",
	Port:            "CHORUS_DB_PORT",
	Name:            "CHORUS_DB_NAME",
	User:            "CHORUS_DB_USER",
	Password:        "CHORUS_DB_PASSWORD",
	SSLMode:         "CHORUS_DB_SSL_MODE",
	MaxOpenConns:    "CHORUS_DB_MAX_OPEN_CONNS",
	MaxIdleConns:    "CHORUS_DB_MAX_IDLE_CONNS",
	ConnMaxLifetime: "CHORUS_DB_CONN_MAX_LIFETIME",
	ConnTimeout:     "CHORUS_DB_CONN_TIMEOUT",
}

var storageEnv = &storage.Env{
	Enabled:          "CHORUS_STORAGE_ENABLED",
	ContainerName:    "CHORUS_STORAGE_CONTAINER_NAME",
	ConnectionString: "CHORUS_STORAGE_CONNECTION_STRING",
}

var youtubeEnv = &youtube.Env{
	APIKey:     "CHORUS_YOUTUBE_API_KEY",
	VideoID:    "CHORUS_YOUTUBE_VIDEO_ID",
	BaseURL:    "CHORUS_YOUTUBE_BASE_URL",
	MaxResults: "CHORUS_YOUTUBE_MAX_RESULTS",
	MaxPages:   "CHORUS_YOUTUBE_MAX_PAGES",
	Timeout:    "CHORUS_YOUTUBE_TIMEOUT",
}

var sentimentEnv = &sentiment.Env{
	PositiveThreshold: "CHORUS_SENTIMENT_POSITIVE_THRESHOLD",
	NegativeThreshold: "CHORUS_SENTIMENT_NEGATIVE_THRESHOLD",
}

var loggingEnv = &logging.Env{
	Level:  "CHORUS_LOG_LEVEL",
	Format: "CHORUS_LOG_FORMAT",
}

// Config is the root configuration for the chorus service and CLIs.
type Config struct {
	Server          ServerConfig     `toml:"server"`
	Database        database.Config  `toml:"database"`
	Storage         storage.Config   `toml:"storage"`
	API             APIConfig        `toml:"api"`
	YouTube         youtube.Config   `toml:"youtube"`
	Sentiment       sentiment.Config `toml:"sentiment"`
	Logging         logging.Config   `toml:"logging"`
	Analysis        AnalysisConfig   `toml:"analysis"`
	Ingestion       IngestionConfig  `toml:"ingestion"`
	ShutdownTimeout string           `toml:"shutdown_timeout"`
	Version         string           `toml:"version"`
}

// Env returns the CHORUS_ENV value, defaulting to "local".
func (c *Config) Env() string {
	if env := os.Getenv(EnvChorusEnv); env != "" {
		return env
	}
	return "local"
}

// ShutdownTimeoutDuration returns ShutdownTimeout as a time.Duration.
func (c *Config) ShutdownTimeoutDuration() time.Duration {
	d, _ := time.ParseDuration(c.ShutdownTimeout)
	return d
}

// Load reads the .env file and base config (if present), applies any
// environment overlay, and finalizes all values. Without any files,
// defaults and environment variables provide all configuration.
func Load() (*Config, error) {
	if err := loadDotEnv(); err != nil {
		return nil, err
	}

	cfg := &Config{}

	if _, err := os.Stat(BaseConfigFile); err == nil {
		loaded, err := load(BaseConfigFile)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}

	if path := overlayPath(); path != "" {
		overlay, err := load(path)
		if err != nil {
			return nil, fmt.Errorf("load overlay %s: %w", path, err)
		}
		cfg.Merge(overlay)
	}

	if err := cfg.Finalize(); err != nil {
		return nil, fmt.Errorf("finalize config: %w", err)
	}

	return cfg, nil
}

// Merge overwrites non-zero fields from overlay across all sub-configs.
func (c *Config) Merge(overlay *Config) {
	if overlay.ShutdownTimeout != "" {
		c.ShutdownTimeout = overlay.ShutdownTimeout
	}
	if overlay.Version != "" {
		c.Version = overlay.Version
	}
	c.Server.Merge(&overlay.Server)
	c.Database.Merge(&overlay.Database)
	c.Storage.Merge(&overlay.Storage)
	c.API.Merge(&overlay.API)
	c.YouTube.Merge(&overlay.YouTube)
	c.Sentiment.Merge(&overlay.Sentiment)
	c.Logging.Merge(&overlay.Logging)
	c.Analysis.Merge(&overlay.Analysis)
	c.Ingestion.Merge(&overlay.Ingestion)
}

// Finalize applies defaults, environment variable overrides, and validation
// to every section.
func (c *Config) Finalize() error {
	c.loadDefaults()
	c.loadEnv()

	if err := c.validate(); err != nil {
		return err
	}

	sections := []struct {
		name     string
		finalize func() error
	}{
		{"server", c.Server.Finalize},
		{"database", func() error { return c.Database.Finalize(databaseEnv) }},
		{"storage", func() error { return c.Storage.Finalize(storageEnv) }},
		{"api", c.API.Finalize},
		{"youtube", func() error { return c.YouTube.Finalize(youtubeEnv) }},
		{"sentiment", func() error { return c.Sentiment.Finalize(sentimentEnv) }},
		{"logging", func() error { return c.Logging.Finalize(loggingEnv) }},
		{"analysis", c.Analysis.Finalize},
		{"ingestion", c.Ingestion.Finalize},
	}

	for _, s := range sections {
		if err := s.finalize(); err != nil {
			return fmt.Errorf("%s: %w", s.name, err)
		}
	}
	return nil
}

func (c *Config) loadDefaults() {
	if c.ShutdownTimeout == "" {
		c.ShutdownTimeout = "30s"
	}
	if c.Version == "" {
		c.Version = "0.1.0"
	}
}

func (c *Config) loadEnv() {
	if v := os.Getenv(EnvChorusShutdownTimeout); v != "" {
		c.ShutdownTimeout = v
	}
	if v := os.Getenv(EnvChorusVersion); v != "" {
		c.Version = v
	}
}

func (c *Config) validate() error {
	if _, err := time.ParseDuration(c.ShutdownTimeout); err != nil {
		return fmt.Errorf("invalid shutdown_timeout: %w", err)
	}
	return nil
}

// loadDotEnv populates unset environment variables from the .env file.
// Variables already present in the environment win.
func loadDotEnv() error {
	path := os.Getenv(EnvChorusEnvFile)
	if path == "" {
		path = DefaultEnvFile
	}

	err := gotenv.Load(path)
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("load %s: %w", path, err)
	}
	return nil
}

func load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	var cfg Config
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	return &cfg, nil
}

func overlayPath() string {
	if env := os.Getenv(EnvChorusEnv); env != "" {
		path := fmt.Sprintf(OverlayConfigPattern, env)
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}
