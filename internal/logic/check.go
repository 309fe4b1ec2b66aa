package logic

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/idelchi/mkencbox/internal/archive"
	"github.com/idelchi/mkencbox/internal/config"
)

// RunCheck validates that every exclude pattern matches at least one entry in
// the directories that would be archived. Plain file inputs are stored as-is
// and never filtered, so they are not considered.
func RunCheck(cfg *config.Config) error {
	excludes, err := resolveExcludes(cfg)
	if err != nil {
		return err
	}

	if len(excludes) == 0 {
		return errors.New("no exclude patterns to check")
	}

	candidates, err := collectEntries(cfg.Files)
	if err != nil {
		return err
	}

	if failures := checkPatterns(excludes, candidates, cfg.Quiet); failures > 0 {
		return fmt.Errorf("%d pattern(s) matched nothing", failures)
	}

	return nil
}

// resolveExcludes merges patterns given on the command line with those from the patterns file.
func resolveExcludes(cfg *config.Config) ([]string, error) {
	excludes := append([]string{}, cfg.Exclude...)

	if cfg.ExcludeFrom != "" {
		patterns, err := archive.LoadPatterns(cfg.ExcludeFrom)
		if err != nil {
			return nil, fmt.Errorf("loading exclude patterns: %w", err)
		}

		excludes = append(excludes, patterns...)
	}

	return excludes, nil
}

// collectEntries walks every directory input and returns the entry names as
// the archive sees them: slash separated and relative to the input.
func collectEntries(inputs []string) ([]string, error) {
	var entries []string

	for _, input := range inputs {
		root := filepath.Clean(input)

		info, err := os.Stat(root)
		if err != nil {
			return nil, fmt.Errorf("stat %q: %w", root, err)
		}

		if !info.IsDir() {
			continue
		}

		err = filepath.WalkDir(root, func(path string, _ fs.DirEntry, err error) error {
			if err != nil {
				return err
			}

			if path == root {
				return nil
			}

			rel, err := filepath.Rel(root, path)
			if err != nil {
				return err
			}

			entries = append(entries, filepath.ToSlash(rel))

			return nil
		})
		if err != nil {
			return nil, fmt.Errorf("walking %q: %w", root, err)
		}
	}

	return entries, nil
}

// checkPatterns tests each pattern individually against candidates.
// Returns the number of patterns that matched zero entries.
func checkPatterns(patterns, candidates []string, quiet bool) int {
	var failures int

	for _, pattern := range patterns {
		matcher, err := archive.NewMatcher([]string{pattern})
		if err != nil {
			fmt.Fprintf(os.Stderr, "exclude: %s: invalid pattern: %v\n", pattern, err)

			failures++

			continue
		}

		var count int

		for _, path := range candidates {
			if matcher.Match(path) {
				count++
			}
		}

		if count == 0 {
			fmt.Fprintf(os.Stderr, "exclude: %s: 0 entries (ERROR)\n", pattern)

			failures++
		} else if !quiet {
			fmt.Fprintf(os.Stderr, "exclude: %s: %d entries\n", pattern, count)
		}
	}

	return failures
}
