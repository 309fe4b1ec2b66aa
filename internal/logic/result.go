package logic

import "github.com/idelchi/mkencbox/internal/pipeline"

// Result represents the outcome of processing a single input.
type Result struct {
	// Input path
	Input string

	// Output path
	Output string

	// Direction the input was processed in
	Direction pipeline.Direction

	// Output size in bytes, summed over all files for a directory
	OutputSize int64

	// Any error that occurred during processing
	Error error
}
