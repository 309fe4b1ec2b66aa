package pipeline

import (
	"errors"
	"fmt"
	"io/fs"
)

var (
	// ErrAlreadyExists is returned when the destination is present before any work starts.
	// It matches fs.ErrExist.
	ErrAlreadyExists = fmt.Errorf("destination %w", fs.ErrExist)
	// ErrConsumed is returned when Execute is called on a job that already ran.
	ErrConsumed = errors.New("pipeline already executed")
)
