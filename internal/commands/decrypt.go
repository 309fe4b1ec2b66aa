package commands

import (
	"github.com/spf13/cobra"

	"github.com/idelchi/mkencbox/internal/config"
	"github.com/idelchi/mkencbox/internal/logic"
)

// NewDecryptCommand creates a new cobra command for the decrypt subcommand.
func NewDecryptCommand(cfg *config.Config) *cobra.Command {
	return &cobra.Command{
		Use:     "decrypt [flags] paths...",
		Aliases: []string{"dec"},
		Short:   "Decrypt files and restore directories",
		Args:    cobra.MinimumNArgs(1),
		PreRunE: preRun(cfg, config.ModeDecrypt),
		RunE: func(cmd *cobra.Command, _ []string) error {
			return logic.Run(cmd.Context(), cfg)
		},
	}
}

// NewAutoCommand creates a new cobra command for the auto subcommand.
func NewAutoCommand(cfg *config.Config) *cobra.Command {
	return &cobra.Command{
		Use:   "auto [flags] paths...",
		Short: "Decrypt inputs that start with a salt header and encrypt everything else",
		Long: `Decrypts regular files starting with the "Salted__" header written by cbc
encryption with a generated salt, and encrypts all other inputs.
Output encrypted with a caller supplied salt or with chacha20 has no header
and is therefore encrypted again.`,
		Args:    cobra.MinimumNArgs(1),
		PreRunE: preRun(cfg, config.ModeAuto),
		RunE: func(cmd *cobra.Command, _ []string) error {
			return logic.Run(cmd.Context(), cfg)
		},
	}
}
