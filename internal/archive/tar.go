package archive

import (
	"archive/tar"
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
)

const (
	// blockSize is the tar record unit.
	blockSize = 512
	// emptyArchiveSize is the size of a tar stream holding only the end-of-archive marker.
	emptyArchiveSize = 2 * blockSize
)

// Tar packs directories as uncompressed tar and plain files as their raw bytes.
type Tar struct {
	Exclude *Matcher
}

// Compress writes src to w.
func (t *Tar) Compress(src string, w io.Writer) error {
	info, err := os.Stat(src)
	if err != nil {
		return fmt.Errorf("inspecting %q: %w", src, err)
	}

	if !info.IsDir() {
		return copyFile(src, w)
	}

	tw := tar.NewWriter(w)

	if err := writeTree(tw, src, t.Exclude); err != nil {
		return fmt.Errorf("archiving %q: %w", src, err)
	}

	if err := tw.Close(); err != nil {
		return fmt.Errorf("finishing archive: %w", err)
	}

	return nil
}

// Decompress restores r at dst. A stream without tar framing is written as a plain file.
//
// A stream of exactly 1024 zero bytes is the encoding of an empty directory and
// is restored as one, so a plain file with that content does not round trip.
func (t *Tar) Decompress(r io.ReadSeeker, dst string) error {
	size, err := r.Seek(0, io.SeekEnd)
	if err != nil {
		return fmt.Errorf("sizing stream: %w", err)
	}

	if err := rewind(r); err != nil {
		return err
	}

	// Too short to hold a header and the end marker.
	if size < emptyArchiveSize {
		return writeRaw(r, dst)
	}

	tr := tar.NewReader(bufio.NewReaderSize(r, readBufferSize))

	header, err := tr.Next()

	switch {
	case err == nil:
		return extract(tr, header, dst)
	case errors.Is(err, io.EOF) && size == emptyArchiveSize:
		if err := os.Mkdir(dst, 0o755); err != nil {
			return fmt.Errorf("creating %q: %w", dst, err)
		}

		return nil
	case errors.Is(err, io.EOF), errors.Is(err, tar.ErrHeader):
		if err := rewind(r); err != nil {
			return err
		}

		return writeRaw(r, dst)
	default:
		return fmt.Errorf("reading archive: %w", err)
	}
}
