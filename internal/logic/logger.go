package logic

import (
	"os"

	"github.com/sirupsen/logrus"

	"github.com/idelchi/mkencbox/internal/config"
)

// NewLogger returns a text logger on stderr at the configured level.
func NewLogger(cfg *config.Config) *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(os.Stderr)
	logger.SetFormatter(&logrus.TextFormatter{DisableTimestamp: true})
	logger.SetLevel(cfg.Level())

	return logger
}
