package cli

import (
	"github.com/pulselab/cadence/internal/config"
)

// loadConfig resolves the effective configuration: the file named by
// --config when given, built-in defaults otherwise.
func loadConfig(opts *RootOptions) (config.Config, error) {
	if opts.Config == "" {
		return config.Default(), nil
	}
	return config.Load(opts.Config)
}
