package pipeline

import (
	"context"
	"math"
	"time"

	"github.com/idelchi/mkencbox/internal/fileutil"
)

const (
	// pollInterval is how often the estimator samples the size of the current target.
	pollInterval = 100 * time.Millisecond
	// phaseCapacity bounds the phase-start channel between worker and estimator.
	phaseCapacity = 4
	// completionRatio lets a stage reach its full half slightly before byte parity,
	// absorbing padding and framing overhead.
	completionRatio = 0.98
	// secondHalf is the first value reported for the second stage.
	secondHalf = 128
)

// phase announces the start of a stage: the path it writes and the size it is expected to reach.
type phase struct {
	target   string
	expected int64
}

// percent maps observed against expected onto the half of the 0-255 scale
// owned by the stage: 0-127 for the first stage and 128-255 for the second.
func percent(stage int, observed, expected int64) uint8 {
	need := float64(max(expected, 1)) * completionRatio
	ratio := min(float64(max(observed, 0))/need, 1)
	half := uint8(math.Round(ratio*math.MaxUint8) / 2) //nolint:gosec // ratio is clamped to [0,1]

	if stage == 0 {
		return half
	}

	return secondHalf + half
}

// estimate polls the target of the current phase until ctx is done and sends
// a value on progress whenever it grows. Sends never outlive ctx.
func estimate(ctx context.Context, phases <-chan phase, progress chan<- uint8) {
	ticker := time.NewTicker(pollInterval)
	defer ticker.Stop()

	var (
		current phase
		stage   = -1
		last    uint8
		sent    bool
	)

	for {
		select {
		case <-ctx.Done():
			return
		case next, ok := <-phases:
			if !ok {
				phases = nil

				continue
			}

			current = next
			stage++
		case <-ticker.C:
			if stage < 0 {
				continue
			}

			observed, err := fileutil.Size(current.target)
			if err != nil {
				// Not created yet.
				observed = 0
			}

			value := max(percent(stage, observed, current.expected), last)
			if sent && value == last {
				continue
			}

			select {
			case progress <- value:
				last, sent = value, true
			case <-ctx.Done():
				return
			}
		}
	}
}
