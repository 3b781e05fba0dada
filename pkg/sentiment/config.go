package sentiment

import (
	"errors"
	"fmt"
	"os"
	"strconv"
)

// ErrInvalidLabel indicates a string that is not a known Label.
var ErrInvalidLabel = errors.New("invalid sentiment label")

// Default compound-score thresholds.
const (
	DefaultPositiveThreshold = 0.05
	DefaultNegativeThreshold = -0.05
)

// Config holds the compound-score thresholds. Nil fields take the defaults,
// so an explicit 0 is kept.
type Config struct {
	PositiveThreshold *float64 `toml:"positive_threshold"`
	NegativeThreshold *float64 `toml:"negative_threshold"`
}

// Env maps config fields to environment variable names for override injection.
type Env struct {
	PositiveThreshold string
	NegativeThreshold string
}

// Positive returns the positive threshold, or the default when unset.
func (c *Config) Positive() float64 {
	if c.PositiveThreshold == nil {
		return DefaultPositiveThreshold
	}
	return *c.PositiveThreshold
}

// Negative returns the negative threshold, or the default when unset.
func (c *Config) Negative() float64 {
	if c.NegativeThreshold == nil {
		return DefaultNegativeThreshold
	}
	return *c.NegativeThreshold
}

// Finalize applies defaults, environment variable overrides, and validation.
func (c *Config) Finalize(env *Env) error {
	c.loadDefaults()
	if env != nil {
		if err := c.loadEnv(env); err != nil {
			return err
		}
	}
	return c.validate()
}

// Merge overwrites fields the overlay sets.
func (c *Config) Merge(overlay *Config) {
	if overlay.PositiveThreshold != nil {
		v := *overlay.PositiveThreshold
		c.PositiveThreshold = &v
	}
	if overlay.NegativeThreshold != nil {
		v := *overlay.NegativeThreshold
		c.NegativeThreshold = &v
	}
}

func (c *Config) loadDefaults() {
	if c.PositiveThreshold == nil {
		v := DefaultPositiveThreshold
		c.PositiveThreshold = &v
	}
	if c.NegativeThreshold == nil {
		v := DefaultNegativeThreshold
		c.NegativeThreshold = &v
	}
}

func (c *Config) loadEnv(env *Env) error {
	vars := []struct {
		name   string
		target **float64
	}{
		{env.PositiveThreshold, &c.PositiveThreshold},
		{env.NegativeThreshold, &c.NegativeThreshold},
	}

	for _, ev := range vars {
		if ev.name == "" {
			continue
		}
		v := os.Getenv(ev.name)
		if v == "" {
			continue
		}
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return fmt.Errorf("invalid %s: %w", ev.name, err)
		}
		*ev.target = &f
	}
	return nil
}

func (c *Config) validate() error {
	pos, neg := c.Positive(), c.Negative()
	if pos < -1 || pos > 1 {
		return fmt.Errorf("positive_threshold out of range [-1, 1]: %v", pos)
	}
	if neg < -1 || neg > 1 {
		return fmt.Errorf("negative_threshold out of range [-1, 1]: %v", neg)
	}
	if neg >= pos {
		return fmt.Errorf("negative_threshold (%v) must be below positive_threshold (%v)", neg, pos)
	}
	return nil
}
