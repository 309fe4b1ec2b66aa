// Package config holds the command line configuration and its validation.
package config

import (
	"errors"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/idelchi/gogen/pkg/validator"
)

// Mode selects what a run does with its inputs.
type Mode string

const (
	// ModeEncrypt encrypts every input.
	ModeEncrypt Mode = "encrypt"
	// ModeDecrypt decrypts every input.
	ModeDecrypt Mode = "decrypt"
	// ModeAuto decrypts inputs starting with a salt header and encrypts the rest.
	ModeAuto Mode = "auto"
	// ModeCheck reports exclude patterns that match nothing in the inputs.
	ModeCheck Mode = "check"
)

// Config is populated from flags and MKENCBOX_* environment variables.
type Config struct {
	// Show prints the configuration and exits
	Show bool

	// Key derivation
	KeyFile   string `label:"--key-file"  mapstructure:"key-file" validate:"required_unless=Mode check"`
	Salt      string `label:"--salt"      mask:"fixed"              validate:"omitempty,hexsalt=Algorithm"`
	Algorithm string `label:"--algorithm" validate:"oneof=cbc chacha20"`

	// Packing
	Archive     string   `label:"--archive"      validate:"oneof=tar targz"`
	Exclude     []string `label:"--exclude"`
	ExcludeFrom string   `label:"--exclude-from" mapstructure:"exclude-from" validate:"omitempty,file"`

	// Output
	Output             string `label:"--output"   validate:"omitempty,single=Files"`
	TempDir            string `label:"--temp-dir" mapstructure:"temp-dir"       validate:"omitempty,dir"`
	LenientPadding     bool   `mapstructure:"lenient-padding"`
	PreserveTimestamps bool   `mapstructure:"preserve-timestamps"`

	// Reporting
	Progress bool
	Parallel int `label:"--parallel" validate:"min=1"`
	Quiet    bool
	Stats    bool
	LogLevel string `label:"--log-level" mapstructure:"log-level" validate:"oneof=trace debug info warn error"`

	// Set by the command
	Mode Mode `mapstructure:"-"`

	// Positional arguments
	Files []string `label:"paths" mapstructure:"-" validate:"min=1,dive,required"`
}

// Display reports whether the configuration should be printed instead of run.
func (c *Config) Display() bool {
	return c.Show
}

// Validate checks config against its struct tags and joins the messages of all failing fields.
func (c *Config) Validate(config any) error {
	validator := validator.NewValidator()

	if err := registerValidations(validator); err != nil {
		return err
	}

	return errors.Join(validator.Validate(config)...)
}

// Level returns the parsed log level.
func (c *Config) Level() logrus.Level {
	level, err := logrus.ParseLevel(strings.ToLower(c.LogLevel))
	if err != nil {
		return logrus.InfoLevel
	}

	return level
}
