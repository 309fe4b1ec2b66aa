package commands

import (
	"runtime"

	"github.com/spf13/cobra"

	"github.com/idelchi/gogen/pkg/cobraext"
	"github.com/idelchi/mkencbox/internal/archive"
	"github.com/idelchi/mkencbox/internal/config"
	"github.com/idelchi/mkencbox/internal/encryption"
)

// NewRootCommand creates the root command with common configuration.
// The environment prefix MKENCBOX is derived from the command name.
func NewRootCommand(cfg *config.Config, version string) *cobra.Command {
	root := cobraext.NewDefaultRootCommand(version)

	root.Use = "mkencbox [flags] command [flags]"
	root.Short = "Key file based file and directory encryption"
	root.Long = `Encrypts files and directories with a key derived from a key file and an optional salt.
Directories are archived before encryption and restored on decryption.`

	flags := root.PersistentFlags()

	flags.Bool("show", false, "Show the configuration and exit")
	flags.StringP("key-file", "k", "", "Path to the key file the encryption key is derived from")
	flags.StringP("salt", "s", "", "Salt, hex encoded for cbc. Omit for a random salt stored in the output (cbc only)")
	flags.StringP("algorithm", "a", string(encryption.Algorithms[0]), "Cipher: cbc or chacha20")
	flags.String("archive", string(archive.Formats[0]), "Directory archive format: tar or targz")
	flags.StringSlice("exclude", nil, "Pattern (find -path syntax) of directory entries to leave out, repeatable")
	flags.String("exclude-from", "", "JSONC file with a list of exclude patterns")
	flags.StringP("output", "o", "", "Output path, only with a single input")
	flags.String("temp-dir", "", "Directory for intermediate files, defaults to the system temp directory")
	flags.Bool("lenient-padding", false, "Keep the final block unmodified when its padding is invalid (cbc)")
	flags.Bool("preserve-timestamps", false, "Give the output the modification time of the input")
	flags.BoolP("progress", "p", false, "Show a progress bar for a single input on a terminal")
	flags.IntP("parallel", "j", runtime.NumCPU(), "Number of parallel workers, defaults to number of CPUs")
	flags.BoolP("quiet", "q", false, "Suppress non-error output")
	flags.Bool("stats", false, "Print a summary when done")
	flags.String("log-level", "info", "Log level: trace, debug, info, warn or error")

	root.AddCommand(
		NewEncryptCommand(cfg),
		NewDecryptCommand(cfg),
		NewAutoCommand(cfg),
		NewCheckCommand(cfg),
		NewKeygenCommand(),
	)

	return root
}
