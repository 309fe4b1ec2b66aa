package commands

import (
	"github.com/spf13/cobra"

	"github.com/idelchi/mkencbox/internal/config"
	"github.com/idelchi/mkencbox/internal/logic"
)

// NewCheckCommand creates a new cobra command for the check subcommand.
func NewCheckCommand(cfg *config.Config) *cobra.Command {
	return &cobra.Command{
		Use:     "check [flags] paths...",
		Short:   "Validate that exclude patterns match entries of the given directories",
		Args:    cobra.MinimumNArgs(1),
		PreRunE: preRun(cfg, config.ModeCheck),
		RunE: func(_ *cobra.Command, _ []string) error {
			return logic.RunCheck(cfg)
		},
	}
}
