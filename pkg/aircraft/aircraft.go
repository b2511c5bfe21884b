// Package aircraft describes the aircraft configurations that directives are
// evaluated against, and parses fleet files listing them.
package aircraft

import (
	"errors"
	"fmt"
	"reflect"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/go-playground/validator/v10/non-standard/validators"
)

// ErrInvalidAircraft is returned when an aircraft configuration fails
// validation.
var ErrInvalidAircraft = errors.New("invalid aircraft configuration")

var validate = newValidate()

func newValidate() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())

	err := v.RegisterValidation("notblank", validators.NotBlank)
	if err != nil {
		panic(fmt.Errorf("register notblank validation: %w", err))
	}

	// Report fields by their serialized names.
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}

		return name
	})

	return v
}

// Configuration is the state of a single aircraft: its model, manufacturer
// serial number (MSN) and the modifications or service bulletins applied to
// it.
type Configuration struct {
	// Extra holds further details such as flight hours or cycles. It is
	// carried through to reports and never evaluated.
	Extra map[string]any `json:"additional_info,omitempty"`
	// Model is the aircraft model designation, e.g. "A320-214".
	Model string `json:"aircraft_model" validate:"notblank"`
	// Modifications are free-text modification descriptors, e.g.
	// "SB A320-57-1089 Rev 04".
	Modifications []string `json:"modifications,omitempty"`
	// Serial is the manufacturer serial number.
	Serial int `json:"msn" validate:"gte=0"`
}

// Identity returns the (model, serial) pair that identifies the aircraft.
func (c Configuration) Identity() Identity {
	return Identity{Model: c.Model, Serial: c.Serial}
}

// Validate checks that the configuration is well formed.
func (c Configuration) Validate() error {
	err := validate.Struct(c)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return fmt.Errorf("%w: %w", ErrInvalidAircraft, err)
	}

	return &FieldError{Field: fieldErrs[0].Field(), Err: fieldError(fieldErrs[0])}
}

func fieldError(fe validator.FieldError) error {
	switch fe.Tag() {
	case "notblank":
		return fmt.Errorf("%w: %s must not be blank", ErrInvalidAircraft, fe.Field())
	case "gte":
		return fmt.Errorf("%w: %s must be at least %s", ErrInvalidAircraft, fe.Field(), fe.Param())
	}

	return fmt.Errorf("%w: %s failed %q validation", ErrInvalidAircraft, fe.Field(), fe.Tag())
}

// FieldError is a validation failure of a single [Configuration] field.
type FieldError struct {
	Err   error
	Field string
}

func (e *FieldError) Error() string {
	return e.Err.Error()
}

func (e *FieldError) Unwrap() error {
	return e.Err
}

// Identity identifies an aircraft by model and serial number.
type Identity struct {
	Model  string
	Serial int
}

// String returns the "MODEL-SERIAL" form, e.g. "A320-214-5234".
func (id Identity) String() string {
	return id.Model + "-" + strconv.Itoa(id.Serial)
}
