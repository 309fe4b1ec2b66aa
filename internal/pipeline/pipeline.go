package pipeline

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"math"
	"os"
	"path/filepath"
	"sync/atomic"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/idelchi/mkencbox/internal/archive"
	"github.com/idelchi/mkencbox/internal/encryption"
	"github.com/idelchi/mkencbox/internal/fileutil"
)

// Direction selects which way a job runs.
type Direction int

const (
	// Encrypt archives the source and encrypts the archive.
	Encrypt Direction = iota
	// Decrypt decrypts the source and unpacks the result.
	Decrypt
)

func (d Direction) String() string {
	switch d {
	case Encrypt:
		return "encrypt"
	case Decrypt:
		return "decrypt"
	default:
		return fmt.Sprintf("Direction(%d)", int(d))
	}
}

// Pipeline is a single encryption or decryption job. It runs once.
type Pipeline struct {
	direction Direction
	archive   archive.Codec
	cipher    encryption.Codec
	src       string
	dst       string

	progress chan<- uint8
	tempDir  string
	logger   logrus.FieldLogger

	consumed atomic.Bool
}

// New creates a job moving src to dst in the given direction.
func New(direction Direction, archiver archive.Codec, cipher encryption.Codec, src, dst string, opts ...Option) *Pipeline {
	p := &Pipeline{
		direction: direction,
		archive:   archiver,
		cipher:    cipher,
		src:       src,
		dst:       dst,
		logger:    logrus.StandardLogger(),
	}

	for _, opt := range opts {
		opt(p)
	}

	return p
}

// Execute runs the job. It fails with ErrAlreadyExists before doing any work
// if the destination exists. Temporary files are removed whatever the outcome,
// and a destination created by a failed run is removed.
//
// When progress reporting is enabled, the progress channel is closed on return,
// after a final 255 on success.
func (p *Pipeline) Execute(ctx context.Context) error {
	if p.consumed.Swap(true) {
		return ErrConsumed
	}

	if p.progress != nil {
		defer close(p.progress)
	}

	if _, err := os.Lstat(p.dst); err == nil {
		return fmt.Errorf("%w: %q", ErrAlreadyExists, p.dst)
	} else if !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("checking destination %q: %w", p.dst, err)
	}

	logger := p.logger.WithFields(logrus.Fields{
		"direction": p.direction,
		"src":       p.src,
		"dst":       p.dst,
	})

	group, gctx := errgroup.WithContext(ctx)
	estimatorCtx, stopEstimator := context.WithCancel(gctx)

	defer stopEstimator()

	phases := make(chan phase, phaseCapacity)

	if p.progress != nil {
		group.Go(func() error {
			estimate(estimatorCtx, phases, p.progress)

			return nil
		})
	}

	group.Go(func() error {
		defer stopEstimator()

		return p.run(gctx, logger, phases)
	})

	if err := group.Wait(); err != nil {
		logger.WithError(err).Debug("job failed")

		return err
	}

	logger.Debug("job completed")

	if p.progress != nil {
		select {
		case p.progress <- math.MaxUint8:
		case <-ctx.Done():
		}
	}

	return nil
}

// run executes both stages sequentially on the calling goroutine.
func (p *Pipeline) run(ctx context.Context, logger logrus.FieldLogger, phases chan<- phase) (err error) {
	staging, err := fileutil.NewStaging(p.tempDir)
	if err != nil {
		return err
	}

	defer func() {
		if removeErr := staging.Remove(); removeErr != nil {
			logger.WithError(removeErr).Warn("removing temporary file")
		}
	}()

	logger.WithField("staging", staging.Name()).Debug("stage 1 started")

	switch p.direction {
	case Encrypt:
		return p.encrypt(ctx, logger, staging, phases)
	case Decrypt:
		return p.decrypt(ctx, logger, staging, phases)
	default:
		return fmt.Errorf("unknown direction %v", p.direction)
	}
}

func (p *Pipeline) encrypt(ctx context.Context, logger logrus.FieldLogger, staging *fileutil.Staging, phases chan<- phase) (err error) {
	p.announce(ctx, phases, staging.Name(), p.src)

	err = staging.Fill(func(w io.Writer) error {
		return p.archive.Compress(p.src, w)
	})
	if err != nil {
		return fmt.Errorf("archiving %q: %w", p.src, err)
	}

	if err := ctx.Err(); err != nil {
		return err
	}

	logger.Debug("stage 2 started")
	p.announce(ctx, phases, p.dst, staging.Name())

	dst, err := os.OpenFile(filepath.Clean(p.dst), os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0o600)
	if err != nil {
		if errors.Is(err, fs.ErrExist) {
			return fmt.Errorf("%w: %q", ErrAlreadyExists, p.dst)
		}

		return fmt.Errorf("creating %q: %w", p.dst, err)
	}

	defer fileutil.RemoveOnError(&err, p.dst)

	buffered := bufio.NewWriterSize(dst, fileutil.BufferSize)
	reader := bufio.NewReaderSize(staging.File(), fileutil.BufferSize)

	if err := p.cipher.Encrypt(reader, buffered); err != nil {
		dst.Close()

		return fmt.Errorf("encrypting %q: %w", p.src, err)
	}

	if err := buffered.Flush(); err != nil {
		dst.Close()

		return fmt.Errorf("writing %q: %w", p.dst, err)
	}

	if err := dst.Close(); err != nil {
		return fmt.Errorf("closing %q: %w", p.dst, err)
	}

	return nil
}

func (p *Pipeline) decrypt(ctx context.Context, logger logrus.FieldLogger, staging *fileutil.Staging, phases chan<- phase) (err error) {
	src, err := os.Open(filepath.Clean(p.src))
	if err != nil {
		return fmt.Errorf("opening %q: %w", p.src, err)
	}
	defer src.Close()

	p.announce(ctx, phases, staging.Name(), p.src)

	err = staging.Fill(func(w io.Writer) error {
		return p.cipher.Decrypt(bufio.NewReaderSize(src, fileutil.BufferSize), w)
	})
	if err != nil {
		return fmt.Errorf("decrypting %q: %w", p.src, err)
	}

	if err := ctx.Err(); err != nil {
		return err
	}

	logger.Debug("stage 2 started")
	p.announce(ctx, phases, p.dst, staging.Name())

	if _, err := os.Lstat(p.dst); err == nil {
		return fmt.Errorf("%w: %q", ErrAlreadyExists, p.dst)
	}

	defer fileutil.RemoveOnError(&err, p.dst)

	if err := p.archive.Decompress(staging.File(), p.dst); err != nil {
		return fmt.Errorf("unpacking into %q: %w", p.dst, err)
	}

	return nil
}

// announce tells the estimator that a stage writing target has started and is
// expected to grow to the size of the path reference.
func (p *Pipeline) announce(ctx context.Context, phases chan<- phase, target, reference string) {
	if p.progress == nil {
		return
	}

	expected, err := fileutil.Size(reference)
	if err != nil {
		expected = 1
	}

	select {
	case phases <- phase{target: target, expected: expected}:
	case <-ctx.Done():
	}
}
