// Package validator provides a Validator type for accumulating field-level
// validation errors, plus struct validation backed by go-playground/validator.
package validator

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"slices"
	"strings"

	playground "github.com/go-playground/validator/v10"
)

// Validator holds a map of field names to their validation error messages.
// A Validator with an empty Errors map is considered valid.
type Validator struct {
	Errors map[string][]string
}

// New creates and returns a fresh, empty Validator.
func New() *Validator {
	return &Validator{Errors: make(map[string][]string)}
}

// Valid returns true if the Errors map contains no entries.
func (v *Validator) Valid() bool {
	return len(v.Errors) == 0
}

// AddError records message against key. A message already recorded for the
// same key is not repeated, so each failure is reported once.
func (v *Validator) AddError(key, message string) {
	if slices.Contains(v.Errors[key], message) {
		return
	}
	v.Errors[key] = append(v.Errors[key], message)
}

// Check adds an error for key with message only when ok is false.
//
//	v.Check(len(title) > 0, "title", "must be provided")
func (v *Validator) Check(ok bool, key, message string) {
	if !ok {
		v.AddError(key, message)
	}
}

// Merge copies every message from errs into v.
func (v *Validator) Merge(errs map[string][]string) {
	for key, messages := range errs {
		for _, message := range messages {
			v.AddError(key, message)
		}
	}
}

// Get returns the messages recorded for key.
func (v *Validator) Get(key string) []string {
	return v.Errors[key]
}

// In returns true if value is present in the list slice.
func In(value string, list ...string) bool {
	return slices.Contains(list, value)
}

// Matches returns true if value matches the provided compiled regexp.
func Matches(value string, rx *regexp.Regexp) bool {
	return rx.MatchString(value)
}

var structValidator = newStructValidator()

func newStructValidator() *playground.Validate {
	validate := playground.New(playground.WithRequiredStructEnabled())
	// Report errors under the same names the forms use.
	validate.RegisterTagNameFunc(func(field reflect.StructField) string {
		name, _, _ := strings.Cut(field.Tag.Get("form"), ",")
		if name == "-" {
			return ""
		}
		if name == "" {
			return field.Name
		}
		return name
	})
	return validate
}

// Struct validates the `validate` tags on s and returns the failures keyed by
// the `form` tag of each field. A nil map means s is valid.
func Struct(s any) (map[string][]string, error) {
	err := structValidator.Struct(s)
	if err == nil {
		return nil, nil
	}

	var fieldErrs playground.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return nil, err
	}

	v := New()
	for _, fe := range fieldErrs {
		v.AddError(fe.Field(), message(fe))
	}
	return v.Errors, nil
}

func message(fe playground.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "This field is required."
	case "max":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("Ensure this value has at most %s characters (it has %d).",
				fe.Param(), len([]rune(fmt.Sprint(fe.Value()))))
		}
		return fmt.Sprintf("Ensure this value is less than or equal to %s.", fe.Param())
	case "min":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("Ensure this value has at least %s characters.", fe.Param())
		}
		return fmt.Sprintf("Ensure this value is greater than or equal to %s.", fe.Param())
	case "oneof":
		return fmt.Sprintf("Value %q is not a valid choice.", fmt.Sprint(fe.Value()))
	default:
		return fmt.Sprintf("Failed the %q check.", fe.Tag())
	}
}
