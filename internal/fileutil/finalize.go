// Package fileutil provides shared file operation helpers.
package fileutil

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"
)

// RemoveOnError removes path if the operation reporting through errp failed.
// Callers defer it right after creating path.
func RemoveOnError(errp *error, path string) {
	if *errp != nil {
		os.RemoveAll(path) //nolint:errcheck // best-effort cleanup
	}
}

// FinalizeOutput optionally preserves timestamps and returns the output size.
// The size of a directory is the sum of the regular files below it.
func FinalizeOutput(outPath string, preserveTimestamps bool, modTime time.Time) (int64, error) {
	if preserveTimestamps {
		if err := os.Chtimes(outPath, modTime, modTime); err != nil {
			return 0, fmt.Errorf("preserving timestamps: %w", err)
		}
	}

	size, err := Size(outPath)
	if err != nil {
		return 0, fmt.Errorf("stat output %q: %w", outPath, err)
	}

	return size, nil
}

// Size returns the size of a regular file, or the summed size of all regular
// files below a directory. Symlinks below the root are not followed and
// unreadable subdirectories are skipped.
func Size(path string) (int64, error) {
	info, err := os.Stat(path)
	if err != nil {
		return 0, err
	}

	if !info.IsDir() {
		return info.Size(), nil
	}

	var total int64

	err = filepath.WalkDir(path, func(_ string, entry fs.DirEntry, err error) error {
		if err != nil {
			if entry != nil && entry.IsDir() {
				return filepath.SkipDir
			}

			return nil
		}

		if !entry.Type().IsRegular() {
			return nil
		}

		if info, err := entry.Info(); err == nil {
			total += info.Size()
		}

		return nil
	})
	if err != nil && !errors.Is(err, filepath.SkipDir) {
		return 0, err
	}

	return total, nil
}
