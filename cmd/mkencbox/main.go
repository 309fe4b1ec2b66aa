// Command mkencbox encrypts and decrypts files and directories with a key file.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"

	"github.com/idelchi/gogen/pkg/cobraext"
	"github.com/idelchi/mkencbox/internal/commands"
	"github.com/idelchi/mkencbox/internal/config"
)

// version is set at build time with -ldflags "-X main.version=...".
//
//nolint:gochecknoglobals
var version = "unknown - unofficial & generated by unknown"

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)

	var cfg config.Config

	err := commands.NewRootCommand(&cfg, version).ExecuteContext(ctx)

	stop()

	if errors.Is(err, cobraext.ErrExitGracefully) {
		return
	}

	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
