package archive

import (
	"fmt"
	"io"
)

// Codec packs a path into a stream and unpacks a stream into a path.
type Codec interface {
	// Compress writes the file or directory at src to w.
	Compress(src string, w io.Writer) error
	// Decompress materializes the stream r at dst, which must not exist.
	// r is seekable so that a stream which turns out not to be an archive
	// can be re-read from the start as plain file content.
	Decompress(r io.ReadSeeker, dst string) error
}

// Format selects the archive codec.
type Format string

const (
	// FormatTar writes directories as uncompressed tar.
	FormatTar Format = "tar"
	// FormatTarGz writes directories as gzip compressed tar.
	FormatTarGz Format = "targz"
)

// Formats lists the supported formats, default first.
//
//nolint:gochecknoglobals
var Formats = []Format{FormatTar, FormatTarGz}

// New returns the codec for format. Paths matching any of the exclude patterns
// are left out when packing a directory.
func New(format Format, excludes []string) (Codec, error) {
	matcher, err := NewMatcher(excludes)
	if err != nil {
		return nil, fmt.Errorf("compiling exclude patterns: %w", err)
	}

	switch format {
	case FormatTar:
		return &Tar{Exclude: matcher}, nil
	case FormatTarGz:
		return &TarGz{Exclude: matcher}, nil
	default:
		return nil, fmt.Errorf("unknown archive format %q", format)
	}
}
