// Package config loads pixelator settings from PIXELATOR_* environment variables.
package config

import (
	"fmt"

	"github.com/kelseyhightower/envconfig"

	"github.com/jmylchreest/pixelator/internal/colour"
	"github.com/jmylchreest/pixelator/internal/image"
	"github.com/jmylchreest/pixelator/internal/seed"
)

// Prefix is prepended to every environment variable name.
const Prefix = "PIXELATOR"

// Config holds the settings that command-line flags default from.
type Config struct {
	Colours      int              `envconfig:"COLOURS" default:"8"`
	Algorithm    colour.Algorithm `envconfig:"ALGORITHM" default:"kmeans-lab"`
	SampleStep   int              `envconfig:"SAMPLE_STEP" default:"4"`
	MaxDimension int              `envconfig:"MAX_DIMENSION" default:"200"`
	Store        string           `envconfig:"STORE"`
	Workers      int              `envconfig:"WORKERS" default:"4"`
	SeedMode     seed.Mode        `envconfig:"SEED_MODE" default:"content"`
	CacheDir     string           `envconfig:"CACHE_DIR"`
}

// Default returns the configuration used when no environment is set.
func Default() Config {
	ec := colour.DefaultExtractorConfig()
	return Config{
		Colours:      ec.ColorCount,
		Algorithm:    ec.Algorithm,
		SampleStep:   ec.SampleStep,
		MaxDimension: image.DefaultMaxDimension,
		Workers:      4,
		SeedMode:     seed.ModeContent,
	}
}

// Load reads the environment and validates the result.
func Load() (Config, error) {
	var c Config
	if err := envconfig.Process(Prefix, &c); err != nil {
		return Config{}, fmt.Errorf("failed to read environment: %w", err)
	}
	if err := c.Validate(); err != nil {
		return Config{}, err
	}
	return c, nil
}

// Validate checks the configured values.
func (c Config) Validate() error {
	if err := c.Extractor().Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	if c.MaxDimension < 0 {
		return fmt.Errorf("invalid configuration: max dimension must not be negative, got %d", c.MaxDimension)
	}
	if c.Workers < 1 {
		return fmt.Errorf("invalid configuration: workers must be at least 1, got %d", c.Workers)
	}
	return nil
}

// Extractor returns the extraction settings.
func (c Config) Extractor() colour.ExtractorConfig {
	return colour.ExtractorConfig{
		Algorithm:  c.Algorithm,
		ColorCount: c.Colours,
		SampleStep: c.SampleStep,
	}
}
