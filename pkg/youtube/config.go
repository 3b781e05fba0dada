package youtube

import (
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"
)

// MaxResultsCap is the largest page size commentThreads.list accepts.
const MaxResultsCap = 100

// Config holds the Data API credential, the default video, and paging bounds.
type Config struct {
	APIKey     string `toml:"api_key"`
	VideoID    string `toml:"video_id"`
	BaseURL    string `toml:"base_url"`
	MaxResults int    `toml:"max_results"`
	MaxPages   int    `toml:"max_pages"`
	Timeout    string `toml:"timeout"`
}

// Env maps config fields to environment variable names for override injection.
type Env struct {
	APIKey     string
	VideoID    string
	BaseURL    string
	MaxResults string
	MaxPages   string
	Timeout    string
}

// TimeoutDuration returns Timeout as a time.Duration.
func (c *Config) TimeoutDuration() time.Duration {
	d, _ := time.ParseDuration(c.Timeout)
	return d
}

// Finalize applies defaults, environment variable overrides, and validation.
func (c *Config) Finalize(env *Env) error {
	c.loadDefaults()
	if env != nil {
		c.loadEnv(env)
	}
	if !strings.HasSuffix(c.BaseURL, "/") {
		c.BaseURL += "/"
	}
	return c.validate()
}

// Merge overwrites non-zero fields from overlay.
func (c *Config) Merge(overlay *Config) {
	if overlay.APIKey != "" {
		c.APIKey = overlay.APIKey
	}
	if overlay.VideoID != "" {
		c.VideoID = overlay.VideoID
	}
	if overlay.BaseURL != "" {
		c.BaseURL = overlay.BaseURL
	}
	if overlay.MaxResults != 0 {
		c.MaxResults = overlay.MaxResults
	}
	if overlay.MaxPages != 0 {
		c.MaxPages = overlay.MaxPages
	}
	if overlay.Timeout != "" {
		c.Timeout = overlay.Timeout
	}
}

func (c *Config) loadDefaults() {
	if c.BaseURL == "" {
		c.BaseURL = "https://www.googleapis.com/"
	}
	if c.MaxResults == 0 {
		c.MaxResults = MaxResultsCap
	}
	if c.MaxPages == 0 {
		c.MaxPages = 1
	}
	if c.Timeout == "" {
		c.Timeout = "30s"
	}
}

func (c *Config) loadEnv(env *Env) {
	if env.APIKey != "" {
		if v := os.Getenv(env.APIKey); v != "" {
			c.APIKey = v
		}
	}
	if env.VideoID != "" {
		if v := os.Getenv(env.VideoID); v != "" {
			c.VideoID = v
		}
	}
	if env.BaseURL != "" {
		if v := os.Getenv(env.BaseURL); v != "" {
			c.BaseURL = v
		}
	}
	if env.MaxResults != "" {
		if v := os.Getenv(env.MaxResults); v != "" {
			if n, err := strconv.Atoi(v); err == nil {
				c.MaxResults = n
			}
		}
	}
	if env.MaxPages != "" {
		if v := os.Getenv(env.MaxPages); v != "" {
			if n, err := strconv.Atoi(v); err == nil {
				c.MaxPages = n
			}
		}
	}
	if env.Timeout != "" {
		if v := os.Getenv(env.Timeout); v != "" {
			c.Timeout = v
		}
	}
}

func (c *Config) validate() error {
	if c.MaxResults < 1 || c.MaxResults > MaxResultsCap {
		return fmt.Errorf("max_results must be between 1 and %d: %d", MaxResultsCap, c.MaxResults)
	}
	if c.MaxPages < 1 {
		return fmt.Errorf("max_pages must be positive: %d", c.MaxPages)
	}
	if _, err := time.ParseDuration(c.Timeout); err != nil {
		return fmt.Errorf("invalid timeout: %w", err)
	}
	u, err := url.Parse(c.BaseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("invalid base_url: %q", c.BaseURL)
	}
	return nil
}
