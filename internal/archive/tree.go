package archive

import (
	"archive/tar"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"slices"
	"strings"
	"time"
)

// ErrUnsafePath is returned when an archive entry would be written outside the destination.
var ErrUnsafePath = errors.New("unsafe path in archive")

// readBufferSize is the read-ahead used when parsing an archive stream.
const readBufferSize = 1 << 20

// copyFile writes the content of the plain file at src to w.
func copyFile(src string, w io.Writer) error {
	file, err := os.Open(filepath.Clean(src))
	if err != nil {
		return fmt.Errorf("opening %q: %w", src, err)
	}
	defer file.Close()

	if _, err := io.Copy(w, file); err != nil {
		return fmt.Errorf("copying %q: %w", src, err)
	}

	return nil
}

// writeTree adds every entry below root to tw, with names relative to root.
func writeTree(tw *tar.Writer, root string, exclude *Matcher) error {
	return filepath.WalkDir(root, func(current string, entry fs.DirEntry, err error) error {
		if err != nil {
			return err
		}

		if current == root {
			return nil
		}

		rel, err := filepath.Rel(root, current)
		if err != nil {
			return err
		}

		name := filepath.ToSlash(rel)

		if exclude.Match(name) {
			if entry.IsDir() {
				return filepath.SkipDir
			}

			return nil
		}

		info, err := entry.Info()
		if err != nil {
			return err
		}

		return writeEntry(tw, current, name, info)
	})
}

func writeEntry(tw *tar.Writer, current, name string, info fs.FileInfo) error {
	var link string

	switch mode := info.Mode(); {
	case mode.IsRegular(), mode.IsDir():
	case mode&fs.ModeSymlink != 0:
		target, err := os.Readlink(current)
		if err != nil {
			return fmt.Errorf("reading link %q: %w", current, err)
		}

		link = target
	default:
		// Devices, sockets and pipes have no portable content.
		return nil
	}

	header, err := tar.FileInfoHeader(info, link)
	if err != nil {
		return fmt.Errorf("building header for %q: %w", current, err)
	}

	header.Name = name
	if info.IsDir() {
		header.Name += "/"
	}

	if err := tw.WriteHeader(header); err != nil {
		return fmt.Errorf("writing header for %q: %w", current, err)
	}

	if !info.Mode().IsRegular() {
		return nil
	}

	return copyFile(current, tw)
}

// writeRaw stores r as a single plain file at dst.
func writeRaw(r io.Reader, dst string) error {
	file, err := os.OpenFile(filepath.Clean(dst), os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("creating %q: %w", dst, err)
	}

	if _, err := io.Copy(file, r); err != nil {
		file.Close()

		return fmt.Errorf("writing %q: %w", dst, err)
	}

	if err := file.Close(); err != nil {
		return fmt.Errorf("closing %q: %w", dst, err)
	}

	return nil
}

// rewind seeks r back to its start.
func rewind(r io.Seeker) error {
	if _, err := r.Seek(0, io.SeekStart); err != nil {
		return fmt.Errorf("rewinding stream: %w", err)
	}

	return nil
}

type dirTimes struct {
	path  string
	mtime time.Time
}

// extract unpacks every entry of tr into dst, starting with the already read header.
func extract(tr *tar.Reader, header *tar.Header, dst string) error {
	if err := os.MkdirAll(dst, 0o755); err != nil {
		return fmt.Errorf("creating %q: %w", dst, err)
	}

	var dirs []dirTimes

	for {
		target, err := entryPath(dst, header.Name)
		if err != nil {
			return err
		}

		switch header.Typeflag {
		case tar.TypeDir:
			if err := os.MkdirAll(target, header.FileInfo().Mode().Perm()|0o700); err != nil {
				return fmt.Errorf("creating directory %q: %w", target, err)
			}

			dirs = append(dirs, dirTimes{path: target, mtime: header.ModTime})
		case tar.TypeReg:
			if err := extractFile(tr, header, target); err != nil {
				return err
			}
		case tar.TypeSymlink:
			if err := extractSymlink(header, target, dst); err != nil {
				return err
			}
		}

		header, err = tr.Next()
		if errors.Is(err, io.EOF) {
			break
		}

		if err != nil {
			return fmt.Errorf("reading archive: %w", err)
		}
	}

	// Children update their parent's mtime, so directories are stamped last and deepest first.
	for _, dir := range slices.Backward(dirs) {
		_ = os.Chtimes(dir.path, dir.mtime, dir.mtime)
	}

	return nil
}

// entryPath resolves an archive entry name below dst, refusing names that escape it
// lexically or pass through a link extracted earlier.
func entryPath(dst, name string) (string, error) {
	local := filepath.FromSlash(path.Clean(name))
	if !filepath.IsLocal(local) {
		return "", fmt.Errorf("%w: %q", ErrUnsafePath, name)
	}

	current := dst

	for _, part := range strings.Split(local, string(filepath.Separator)) {
		current = filepath.Join(current, part)

		info, err := os.Lstat(current)
		if errors.Is(err, fs.ErrNotExist) {
			break
		}

		if err != nil {
			return "", fmt.Errorf("inspecting %q: %w", current, err)
		}

		if info.Mode()&fs.ModeSymlink != 0 {
			return "", fmt.Errorf("%w: %q crosses link %q", ErrUnsafePath, name, current)
		}
	}

	return filepath.Join(dst, local), nil
}

func extractFile(r io.Reader, header *tar.Header, target string) error {
	if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
		return fmt.Errorf("creating parent of %q: %w", target, err)
	}

	file, err := os.OpenFile(target, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, header.FileInfo().Mode().Perm())
	if err != nil {
		return fmt.Errorf("creating %q: %w", target, err)
	}

	if _, err := io.Copy(file, r); err != nil {
		file.Close()

		return fmt.Errorf("writing %q: %w", target, err)
	}

	if err := file.Close(); err != nil {
		return fmt.Errorf("closing %q: %w", target, err)
	}

	_ = os.Chtimes(target, header.ModTime, header.ModTime)

	return nil
}

// extractSymlink recreates a link whose target stays inside dst.
func extractSymlink(header *tar.Header, target, dst string) error {
	rel, err := filepath.Rel(dst, filepath.Dir(target))
	if err != nil {
		return fmt.Errorf("%w: %q", ErrUnsafePath, header.Name)
	}

	if filepath.IsAbs(header.Linkname) || !filepath.IsLocal(filepath.Join(rel, filepath.FromSlash(header.Linkname))) {
		return fmt.Errorf("%w: link %q -> %q", ErrUnsafePath, header.Name, header.Linkname)
	}

	if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
		return fmt.Errorf("creating parent of %q: %w", target, err)
	}

	if err := os.Symlink(header.Linkname, target); err != nil {
		return fmt.Errorf("creating link %q: %w", target, err)
	}

	return nil
}
