// Package commands provides the command-line interface for the mkencbox tool.
//
// It implements commands for:
//   - encryption
//   - decryption
//   - automatic direction detection
//   - exclude pattern checks
//   - key file generation
//
// The package handles command-line parsing, configuration validation,
// and environment variable binding through cobra and viper. Flags win over
// the environment.
package commands

import (
	"github.com/spf13/cobra"

	"github.com/idelchi/gogen/pkg/cobraext"
	"github.com/idelchi/mkencbox/internal/config"
)

// preRun returns a PreRunE handler that stores the mode and positional args in cfg,
// loads flags and MKENCBOX_* environment variables and validates the configuration.
func preRun(cfg *config.Config, mode config.Mode) func(*cobra.Command, []string) error {
	return func(_ *cobra.Command, args []string) error {
		cfg.Mode = mode
		cfg.Files = args

		return cobraext.Validate(cfg, cfg)
	}
}
