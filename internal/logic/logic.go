// Package logic implements the core business logic for encryption and decryption runs.
package logic

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/idelchi/mkencbox/internal/archive"
	"github.com/idelchi/mkencbox/internal/config"
	"github.com/idelchi/mkencbox/internal/pipeline"
)

// Run processes every input of cfg as an independent job on a bounded worker pool.
//
//nolint:cyclop // parallel processing pipeline with printer goroutine
func Run(ctx context.Context, cfg *config.Config) error {
	start := time.Now()
	logger := NewLogger(cfg)

	excludes, err := resolveExcludes(cfg)
	if err != nil {
		return err
	}

	// Fail on bad patterns before any job starts.
	if _, err := archive.New(archive.Format(cfg.Archive), excludes); err != nil {
		return err
	}

	showProgress := cfg.Progress && len(cfg.Files) == 1 && interactive()
	if cfg.Progress && !showProgress {
		logger.Debug("progress bar needs a single input and an interactive terminal")
	}

	logger.WithFields(logrus.Fields{
		"inputs":    len(cfg.Files),
		"mode":      cfg.Mode,
		"algorithm": cfg.Algorithm,
		"archive":   cfg.Archive,
		"parallel":  cfg.Parallel,
	}).Debug("starting run")

	results := make(chan Result, len(cfg.Files))

	group := errgroup.Group{}
	group.SetLimit(cfg.Parallel)

	printed := make(chan struct{})

	var processed, errored int

	var totalSize int64

	go func() {
		defer close(printed)

		for res := range results {
			if res.Error != nil {
				errored++

				fmt.Fprintf(os.Stderr, "Error processing %q: %v\n", res.Input, res.Error)

				continue
			}

			processed++

			totalSize += res.OutputSize

			if !cfg.Quiet {
				fmt.Printf("%s %q -> %q\n", verb(res), res.Input, res.Output) //nolint:forbidigo
			}
		}
	}()

	for _, file := range cfg.Files {
		group.Go(func() error {
			res := process(ctx, cfg, file, excludes, logger, showProgress)
			results <- res

			return res.Error
		})
	}

	err = group.Wait()

	close(results)

	<-printed

	if cfg.Stats {
		printStats(len(cfg.Files), processed, errored, totalSize, time.Since(start))
	}

	if err != nil {
		return fmt.Errorf("running logic: %w", err)
	}

	return nil
}

func verb(res Result) string {
	if res.Direction == pipeline.Decrypt {
		return "Decrypted"
	}

	return "Encrypted"
}

func printStats(inputs, processed, errored int, totalSize int64, duration time.Duration) {
	fmt.Fprintf(os.Stderr, "\nStats\n")
	fmt.Fprintf(os.Stderr, "  Inputs:    %d\n", inputs)
	fmt.Fprintf(os.Stderr, "  Processed: %d\n", processed)
	fmt.Fprintf(os.Stderr, "  Errors:    %d\n", errored)
	//nolint:gosec // totalSize is always non-negative (sum of file sizes)
	fmt.Fprintf(os.Stderr, "  Size:      %s\n", humanize.IBytes(uint64(max(0, totalSize))))
	fmt.Fprintf(os.Stderr, "  Duration:  %s\n", duration.Round(time.Millisecond))
}
