package commands

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/idelchi/gogen/pkg/key"
)

// defaultKeySize is the number of random bytes in a generated key file, before hex encoding.
const defaultKeySize = 64

// NewKeygenCommand creates a new cobra command for the keygen subcommand.
func NewKeygenCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "keygen [flags] path",
		Aliases: []string{"gen"},
		Short:   "Generate a new random key file",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			size, err := cmd.Flags().GetInt("size")
			if err != nil {
				return err
			}

			if size < 1 {
				return fmt.Errorf("--size must be positive, got %d", size)
			}

			return writeKey(args[0], size)
		},
	}

	cmd.Flags().IntP("size", "n", defaultKeySize, "Number of random bytes in the key, written hex encoded")

	return cmd
}

// writeKey creates path holding size random bytes as lowercase hex.
// An existing file is never overwritten.
func writeKey(path string, size int) error {
	generated, err := key.New(size)
	if err != nil {
		return fmt.Errorf("generating key: %w", err)
	}

	file, err := os.OpenFile(filepath.Clean(path), os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0o600)
	if err != nil {
		return fmt.Errorf("creating key file: %w", err)
	}

	if _, err := file.WriteString(generated.AsHex()); err != nil {
		file.Close()
		os.Remove(path) //nolint:errcheck // best-effort cleanup

		return fmt.Errorf("writing key file: %w", err)
	}

	return file.Close()
}
