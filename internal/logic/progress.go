package logic

import (
	"math"
	"os"

	"github.com/schollz/progressbar/v3"
	"golang.org/x/term"
)

// progressSteps is the resolution of the rendered bar.
const progressSteps = 100

// interactive reports whether stderr is a terminal the bar can be drawn on.
func interactive() bool {
	return term.IsTerminal(int(os.Stderr.Fd())) //nolint:gosec // descriptor fits in int
}

// renderProgress draws values on the 0-255 scale as a percentage bar until the channel is closed.
func renderProgress(values <-chan uint8, description string) {
	bar := progressbar.NewOptions(
		progressSteps,
		progressbar.OptionSetWriter(os.Stderr),
		progressbar.OptionSetDescription(description),
		progressbar.OptionSetWidth(40),
		progressbar.OptionShowCount(),
		progressbar.OptionClearOnFinish(),
		progressbar.OptionSetTheme(progressbar.ThemeASCII),
	)

	for value := range values {
		_ = bar.Set(scale(value))
	}

	_ = bar.Finish()
}

// scale converts a 0-255 progress value into a 0-100 step.
func scale(value uint8) int {
	return int(math.Ceil(float64(value) / math.MaxUint8 * progressSteps))
}
