package archive

import (
	"archive/tar"
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/klauspost/compress/gzip"
)

// TarGz packs directories as gzip compressed tar and plain files as their raw bytes.
type TarGz struct {
	Exclude *Matcher
	// Level is the gzip level, zero selects gzip.DefaultCompression.
	Level int
}

// Compress writes src to w.
func (t *TarGz) Compress(src string, w io.Writer) error {
	info, err := os.Stat(src)
	if err != nil {
		return fmt.Errorf("inspecting %q: %w", src, err)
	}

	if !info.IsDir() {
		return copyFile(src, w)
	}

	level := t.Level
	if level == 0 {
		level = gzip.DefaultCompression
	}

	gz, err := gzip.NewWriterLevel(w, level)
	if err != nil {
		return fmt.Errorf("creating gzip writer: %w", err)
	}

	tw := tar.NewWriter(gz)

	if err := writeTree(tw, src, t.Exclude); err != nil {
		return fmt.Errorf("archiving %q: %w", src, err)
	}

	if err := tw.Close(); err != nil {
		return fmt.Errorf("finishing archive: %w", err)
	}

	if err := gz.Close(); err != nil {
		return fmt.Errorf("finishing gzip stream: %w", err)
	}

	return nil
}

// Decompress restores r at dst. A stream that is not a gzip compressed tar archive
// is written as a plain file. A stream that decompresses to exactly the tar end
// marker becomes an empty directory.
func (t *TarGz) Decompress(r io.ReadSeeker, dst string) error {
	if err := rewind(r); err != nil {
		return err
	}

	gz, err := gzip.NewReader(bufio.NewReaderSize(r, readBufferSize))
	if err != nil {
		if errors.Is(err, gzip.ErrHeader) || errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
			if err := rewind(r); err != nil {
				return err
			}

			return writeRaw(r, dst)
		}

		return fmt.Errorf("reading gzip header: %w", err)
	}
	defer gz.Close()

	counter := &countingReader{r: gz}
	tr := tar.NewReader(counter)

	header, err := tr.Next()

	switch {
	case err == nil:
		return extract(tr, header, dst)
	case errors.Is(err, io.EOF) && counter.n == emptyArchiveSize && drained(counter):
		if err := os.Mkdir(dst, 0o755); err != nil {
			return fmt.Errorf("creating %q: %w", dst, err)
		}

		return nil
	case errors.Is(err, io.EOF), errors.Is(err, io.ErrUnexpectedEOF), errors.Is(err, tar.ErrHeader):
		// A gzip file stored as a single plain file.
		if err := rewind(r); err != nil {
			return err
		}

		return writeRaw(r, dst)
	default:
		return fmt.Errorf("reading archive: %w", err)
	}
}

// countingReader counts the bytes read through it.
type countingReader struct {
	r io.Reader
	n int64
}

func (c *countingReader) Read(p []byte) (int, error) {
	n, err := c.r.Read(p)
	c.n += int64(n)

	return n, err
}

// drained reports whether r has nothing left to read.
func drained(r io.Reader) bool {
	n, err := io.CopyN(io.Discard, r, 1)

	return n == 0 && errors.Is(err, io.EOF)
}
