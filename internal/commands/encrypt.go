package commands

import (
	"github.com/spf13/cobra"

	"github.com/idelchi/mkencbox/internal/config"
	"github.com/idelchi/mkencbox/internal/logic"
)

// NewEncryptCommand creates a new cobra command for the encrypt subcommand.
func NewEncryptCommand(cfg *config.Config) *cobra.Command {
	return &cobra.Command{
		Use:     "encrypt [flags] paths...",
		Aliases: []string{"enc"},
		Short:   "Encrypt files and directories",
		Args:    cobra.MinimumNArgs(1),
		PreRunE: preRun(cfg, config.ModeEncrypt),
		RunE: func(cmd *cobra.Command, _ []string) error {
			return logic.Run(cmd.Context(), cfg)
		},
	}
}
