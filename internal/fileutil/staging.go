package fileutil

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
)

// BufferSize is the buffering applied around staged streams.
const BufferSize = 8 * 1024 * 1024

// Staging is a scratch file holding the intermediate stream between two stages.
type Staging struct {
	file *os.File
}

// NewStaging creates an empty staging file in dir, or in the default temp
// directory when dir is empty.
func NewStaging(dir string) (*Staging, error) {
	file, err := os.CreateTemp(dir, ".mkencbox-*")
	if err != nil {
		return nil, fmt.Errorf("creating temporary file: %w", err)
	}

	return &Staging{file: file}, nil
}

// Name returns the path of the staging file.
func (s *Staging) Name() string {
	return s.file.Name()
}

// File returns the underlying file, positioned wherever the last operation left it.
func (s *Staging) File() *os.File {
	return s.file
}

// Fill runs write against a buffered writer on the staging file, flushes it and
// rewinds the file so it can be read back from the start.
func (s *Staging) Fill(write func(w io.Writer) error) error {
	buffered := bufio.NewWriterSize(s.file, BufferSize)

	if err := write(buffered); err != nil {
		return err
	}

	if err := buffered.Flush(); err != nil {
		return fmt.Errorf("flushing %q: %w", s.Name(), err)
	}

	if _, err := s.file.Seek(0, io.SeekStart); err != nil {
		return fmt.Errorf("rewinding %q: %w", s.Name(), err)
	}

	return nil
}

// Size returns the number of bytes staged so far.
func (s *Staging) Size() (int64, error) {
	info, err := s.file.Stat()
	if err != nil {
		return 0, fmt.Errorf("stat %q: %w", s.Name(), err)
	}

	return info.Size(), nil
}

// Remove closes and deletes the staging file. It is safe to call more than once.
func (s *Staging) Remove() error {
	if err := s.file.Close(); err != nil && !errors.Is(err, os.ErrClosed) {
		return fmt.Errorf("closing %q: %w", s.Name(), err)
	}

	if err := os.Remove(s.Name()); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("removing %q: %w", s.Name(), err)
	}

	return nil
}
