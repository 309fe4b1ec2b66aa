package logic

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/idelchi/mkencbox/internal/archive"
	"github.com/idelchi/mkencbox/internal/config"
	"github.com/idelchi/mkencbox/internal/encryption"
	"github.com/idelchi/mkencbox/internal/fileutil"
	"github.com/idelchi/mkencbox/internal/pipeline"
)

const (
	// encryptedSuffix is appended to encrypted outputs.
	encryptedSuffix = ".enc"
	// decryptedSuffix is appended to decrypted outputs whose input has no extension.
	decryptedSuffix = ".dec"
)

// process runs one pipeline job for input. Every job gets its own codecs.
func process(ctx context.Context, cfg *config.Config, input string, excludes []string, logger logrus.FieldLogger, showProgress bool) Result {
	result := Result{Input: input}

	direction, err := resolveDirection(cfg.Mode, input)
	if err != nil {
		result.Error = err

		return result
	}

	result.Direction = direction

	result.Output = cfg.Output
	if result.Output == "" {
		result.Output = outputPath(input, direction)
	}

	info, err := os.Stat(input)
	if err != nil {
		result.Error = fmt.Errorf("inspecting input: %w", err)

		return result
	}

	archiver, err := archive.New(archive.Format(cfg.Archive), excludes)
	if err != nil {
		result.Error = err

		return result
	}

	cipher, err := encryption.New(encryption.Algorithm(cfg.Algorithm), encryption.Options{
		KeyFile:        cfg.KeyFile,
		Salt:           cfg.Salt,
		LenientPadding: cfg.LenientPadding,
	})
	if err != nil {
		result.Error = err

		return result
	}

	opts := []pipeline.Option{
		pipeline.WithTempDir(cfg.TempDir),
		pipeline.WithLogger(logger.WithField("job", uuid.NewString())),
	}

	var rendered chan struct{}

	if showProgress {
		progress := make(chan uint8, 1)
		rendered = make(chan struct{})

		go func() {
			defer close(rendered)

			renderProgress(progress, filepath.Base(input))
		}()

		opts = append(opts, pipeline.WithProgress(progress))
	}

	err = pipeline.New(direction, archiver, cipher, input, result.Output, opts...).Execute(ctx)

	if rendered != nil {
		<-rendered
	}

	if err != nil {
		result.Error = err

		return result
	}

	result.OutputSize, err = fileutil.FinalizeOutput(result.Output, cfg.PreserveTimestamps, info.ModTime())
	if err != nil {
		result.Error = fmt.Errorf("finalizing output: %w", err)
	}

	return result
}

// resolveDirection maps the mode onto a direction for input. In auto mode a
// regular file starting with the salt header is decrypted and anything else is encrypted.
func resolveDirection(mode config.Mode, input string) (pipeline.Direction, error) {
	switch mode {
	case config.ModeDecrypt:
		return pipeline.Decrypt, nil
	case config.ModeAuto:
	default:
		return pipeline.Encrypt, nil
	}

	info, err := os.Stat(input)
	if err != nil || !info.Mode().IsRegular() {
		return pipeline.Encrypt, nil //nolint:nilerr // the pipeline reports a missing input
	}

	file, err := os.Open(filepath.Clean(input))
	if err != nil {
		return pipeline.Encrypt, fmt.Errorf("opening %q: %w", input, err)
	}
	defer file.Close()

	salted, err := encryption.Salted(file)
	if err != nil {
		return pipeline.Encrypt, fmt.Errorf("detecting direction of %q: %w", input, err)
	}

	if salted {
		return pipeline.Decrypt, nil
	}

	return pipeline.Encrypt, nil
}

// outputPath derives the default output path. Encryption appends ".enc".
// Decryption strips the last extension, or appends ".dec" when there is none.
func outputPath(input string, direction pipeline.Direction) string {
	clean := filepath.Clean(input)

	if direction == pipeline.Encrypt {
		return clean + encryptedSuffix
	}

	base := filepath.Base(clean)
	ext := filepath.Ext(base)

	if ext == "" || ext == base {
		return clean + decryptedSuffix
	}

	return strings.TrimSuffix(clean, ext)
}
