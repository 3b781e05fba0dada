package config

import (
	"fmt"
	"os"
	"strconv"
)

const (
	EnvAnalysisMaxRows         = "CHORUS_ANALYSIS_MAX_ROWS"
	EnvIngestionMaxConcurrency = "CHORUS_INGESTION_MAX_CONCURRENCY"
	EnvIngestionArchive        = "CHORUS_INGESTION_ARCHIVE"
)

// AnalysisConfig bounds a single annotation sweep.
// MaxRows of zero annotates the whole backlog.
type AnalysisConfig struct {
	MaxRows int `toml:"max_rows"`
}

// Finalize applies environment variable overrides and validation.
func (c *AnalysisConfig) Finalize() error {
	if v := os.Getenv(EnvAnalysisMaxRows); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.MaxRows = n
		}
	}
	if c.MaxRows < 0 {
		return fmt.Errorf("max_rows cannot be negative: %d", c.MaxRows)
	}
	return nil
}

// Merge overwrites non-zero fields from overlay.
func (c *AnalysisConfig) Merge(overlay *AnalysisConfig) {
	if overlay.MaxRows != 0 {
		c.MaxRows = overlay.MaxRows
	}
}

// IngestionConfig controls how multi-video ingestion requests fan out
// and whether raw API pages are archived to blob storage.
type IngestionConfig struct {
	MaxConcurrency int   `toml:"max_concurrency"`
	Archive        *bool `toml:"archive"`
}

// ArchiveEnabled reports whether raw pages should be archived. Defaults to true.
func (c *IngestionConfig) ArchiveEnabled() bool {
	return c.Archive == nil || *c.Archive
}

// Finalize applies defaults, environment variable overrides, and validation.
func (c *IngestionConfig) Finalize() error {
	if c.MaxConcurrency == 0 {
		c.MaxConcurrency = 4
	}
	if v := os.Getenv(EnvIngestionMaxConcurrency); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.MaxConcurrency = n
		}
	}
	if v := os.Getenv(EnvIngestionArchive); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			c.Archive = &b
		}
	}
	if c.MaxConcurrency < 1 {
		return fmt.Errorf("max_concurrency must be positive: %d", c.MaxConcurrency)
	}
	return nil
}

// Merge overwrites non-zero fields from overlay.
func (c *IngestionConfig) Merge(overlay *IngestionConfig) {
	if overlay.MaxConcurrency != 0 {
		c.MaxConcurrency = overlay.MaxConcurrency
	}
	if overlay.Archive != nil {
		c.Archive = overlay.Archive
	}
}
