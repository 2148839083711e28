package forms

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/aoideee/bootstrap-forms/internal/validator"
)

// Validator checks a cleaned, non-empty field value.
type Validator func(value any) error

// ValidationError is a user-facing validation failure.
type ValidationError struct {
	Code    string
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

// RegexValidator rejects values that do not match pattern.
func RegexValidator(pattern, message string) Validator {
	rx := regexp.MustCompile(pattern)
	return func(value any) error {
		if !validator.Matches(formatValue(value), rx) {
			return &ValidationError{Code: "invalid", Message: message}
		}
		return nil
	}
}

// MinValueValidator rejects integers below limit.
func MinValueValidator(limit int) Validator {
	return func(value any) error {
		n, ok := value.(int)
		if !ok {
			return &ValidationError{Code: "invalid", Message: MsgInvalidInteger}
		}
		if n < limit {
			return &ValidationError{
				Code:    "min_value",
				Message: fmt.Sprintf("Ensure this value is greater than or equal to %d.", limit),
			}
		}
		return nil
	}
}

func prohibitNullCharacters(value any) error {
	if strings.ContainsRune(formatValue(value), '\x00') {
		return &ValidationError{Code: "null_characters_not_allowed", Message: MsgNullCharacters}
	}
	return nil
}

func errorMessage(err error) string {
	var verr *ValidationError
	if errors.As(err, &verr) {
		return verr.Message
	}
	return err.Error()
}
