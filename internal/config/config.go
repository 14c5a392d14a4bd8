// Package config loads session configuration from a YAML file, filling in
// defaults for anything unset.
package config

import (
	"bytes"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/pulselab/cadence/internal/validate"
)

// Config holds session-wide generation settings.
type Config struct {
	// ZScore is the outlier-rejection threshold.
	ZScore float64 `yaml:"zscore"`

	// ValidPercent is the minimum surviving-interval percentage for the
	// validity gate, in [0, 100].
	ValidPercent float64 `yaml:"valid_percent"`

	// Blocks sets how many blocks of each type a session should plan.
	Blocks Blocks `yaml:"blocks"`

	// Database is the path of the session store; empty disables
	// persistence.
	Database string `yaml:"database"`
}

// Blocks holds per-type block counts for session planning.
type Blocks struct {
	Baseline     int `yaml:"baseline"`
	Synchronous  int `yaml:"synchronous"`
	Isochronous  int `yaml:"isochronous"`
	Asynchronous int `yaml:"asynchronous"`
}

// Total returns the session's total block count.
func (b Blocks) Total() int {
	return b.Baseline + b.Synchronous + b.Isochronous + b.Asynchronous
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		ZScore:       4.0,
		ValidPercent: 60,
		Blocks: Blocks{
			Baseline:     1,
			Synchronous:  1,
			Isochronous:  1,
			Asynchronous: 1,
		},
	}
}

// Load reads a YAML config file, applies defaults for unset fields, and
// validates the result. Unknown keys are rejected.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("read config: %w", err)
	}

	cfg := Default()
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil {
		return Config{}, fmt.Errorf("decode config %s: %w", path, err)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

// Validate checks threshold ranges and block counts.
func (c Config) Validate() error {
	if err := validate.Positive("zscore", c.ZScore); err != nil {
		return err
	}
	if err := validate.Percent("valid_percent", c.ValidPercent); err != nil {
		return err
	}
	for name, n := range map[string]int{
		"blocks.baseline":     c.Blocks.Baseline,
		"blocks.synchronous":  c.Blocks.Synchronous,
		"blocks.isochronous":  c.Blocks.Isochronous,
		"blocks.asynchronous": c.Blocks.Asynchronous,
	} {
		if n < 0 {
			return fmt.Errorf("%s must not be negative, got %d", name, n)
		}
	}
	return nil
}
