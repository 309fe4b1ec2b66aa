package config

import (
	"encoding/hex"
	"fmt"
	"reflect"
	"strings"

	"github.com/idelchi/gogen/pkg/validator"
)

// registerValidations adds the custom tags used by Config together with their
// messages, and names fields by their label tag.
func registerValidations(validator *validator.Validator) error {
	if err := validator.RegisterValidationAndTranslation(
		"hexsalt",
		validateHexSalt,
		"{0} must be hex encoded for the cbc algorithm",
	); err != nil {
		return fmt.Errorf("registering hexsalt validation: %w", err)
	}

	if err := validator.RegisterValidationAndTranslation(
		"single",
		validateSingle,
		"{0} can only be used with a single input",
	); err != nil {
		return fmt.Errorf("registering single validation: %w", err)
	}

	validator.Validator().RegisterTagNameFunc(func(fld reflect.StructField) string {
		const splitSize = 2

		name := strings.SplitN(fld.Tag.Get("label"), ",", splitSize)[0]
		if name == "" || name == "-" {
			return fld.Name
		}

		return name
	})

	return nil
}

// validateHexSalt requires a hex salt when the algorithm field named by the
// parameter is cbc. Other algorithms use the salt as raw text.
func validateHexSalt(fl validator.FieldLevel) bool {
	algorithm := fl.Parent().FieldByName(fl.Param())
	if !algorithm.IsValid() || algorithm.Kind() != reflect.String || algorithm.String() != "cbc" {
		return true
	}

	_, err := hex.DecodeString(fl.Field().String())

	return err == nil
}

// validateSingle fails a non-empty field when the slice field named by the
// parameter holds more than one element.
func validateSingle(fl validator.FieldLevel) bool {
	other := fl.Parent().FieldByName(fl.Param())
	if !other.IsValid() || other.Kind() != reflect.Slice {
		return true
	}

	return other.Len() <= 1
}
