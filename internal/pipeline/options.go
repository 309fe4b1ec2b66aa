package pipeline

import "github.com/sirupsen/logrus"

// Option configures a Pipeline.
type Option func(*Pipeline)

// WithProgress enables the progress estimator. Values are sent on progress,
// which is closed when Execute returns. The caller must keep receiving until then.
func WithProgress(progress chan<- uint8) Option {
	return func(p *Pipeline) {
		p.progress = progress
	}
}

// WithTempDir places the staging file in dir instead of the default temp directory.
func WithTempDir(dir string) Option {
	return func(p *Pipeline) {
		p.tempDir = dir
	}
}

// WithLogger sets the logger used for stage events.
func WithLogger(logger logrus.FieldLogger) Option {
	return func(p *Pipeline) {
		p.logger = logger
	}
}
