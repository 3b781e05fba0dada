package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/JaimeStill/chorus/pkg/middleware"
	"github.com/JaimeStill/chorus/pkg/pagination"
)

var corsEnv = &middleware.CORSEnv{
	Enabled:          "CHORUS_CORS_ENABLED",
	Origins:          "CHORUS_CORS_ORIGINS",
	AllowedMethods:   "CHORUS_CORS_ALLOWED_METHODS",
	AllowedHeaders:   "CHORUS_CORS_ALLOWED_HEADERS",
	AllowCredentials: "CHORUS_CORS_ALLOW_CREDENTIALS",
	MaxAge:           "CHORUS_CORS_MAX_AGE",
}

var paginationEnv = &pagination.ConfigEnv{
	DefaultPageSize: "CHORUS_PAGINATION_DEFAULT_PAGE_SIZE",
	MaxPageSize:     "CHORUS_PAGINATION_MAX_PAGE_SIZE",
}

const (
	EnvAPIBasePath     = "CHORUS_API_BASE_PATH"
	EnvAPIMaxBodyBytes = "CHORUS_API_MAX_BODY_BYTES"
)

// APIConfig holds API routing, request limits, CORS, and pagination settings.
type APIConfig struct {
	BasePath     string                `toml:"base_path"`
	MaxBodyBytes int64                 `toml:"max_body_bytes"`
	CORS         middleware.CORSConfig `toml:"cors"`
	Pagination   pagination.Config     `toml:"pagination"`
}

// Finalize applies defaults, environment variable overrides, and validation
// for the API config and its nested CORS and pagination configs.
func (c *APIConfig) Finalize() error {
	c.loadDefaults()
	c.loadEnv()

	if c.MaxBodyBytes < 1 {
		return fmt.Errorf("max_body_bytes must be positive: %d", c.MaxBodyBytes)
	}
	if err := c.CORS.Finalize(corsEnv); err != nil {
		return fmt.Errorf("cors: %w", err)
	}
	if err := c.Pagination.Finalize(paginationEnv); err != nil {
		return fmt.Errorf("pagination: %w", err)
	}
	return nil
}

// Merge overwrites non-zero fields from overlay across nested configs.
func (c *APIConfig) Merge(overlay *APIConfig) {
	if overlay.BasePath != "" {
		c.BasePath = overlay.BasePath
	}
	if overlay.MaxBodyBytes != 0 {
		c.MaxBodyBytes = overlay.MaxBodyBytes
	}

	c.CORS.Merge(&overlay.CORS)
	c.Pagination.Merge(&overlay.Pagination)
}

func (c *APIConfig) loadDefaults() {
	if c.BasePath == "" {
		c.BasePath = "/api"
	}
	if c.MaxBodyBytes == 0 {
		c.MaxBodyBytes = 1 << 20
	}
}

func (c *APIConfig) loadEnv() {
	if v := os.Getenv(EnvAPIBasePath); v != "" {
		c.BasePath = v
	}
	if v := os.Getenv(EnvAPIMaxBodyBytes); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			c.MaxBodyBytes = n
		}
	}
}
