package forms

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/aoideee/bootstrap-forms/internal/validator"
)

// Error messages shared by every field kind.
const (
	MsgRequired       = "This field is required."
	MsgInvalidInteger = "Enter a whole number."
	MsgNullCharacters = "Null characters are not allowed."
	msgInvalidChoice  = "Select a valid choice. %s is not one of the available choices."
)

// Kind selects how a field converts submitted text into a Go value.
type Kind int

const (
	KindChar Kind = iota
	KindInteger
	KindBoolean
	KindTypedChoice
)

// Field is a form field definition: how to clean a value and how to present
// it. Declared fields are prototypes; every form works on its own clone.
type Field struct {
	Kind         Kind
	Label        string
	HelpText     string
	Required     bool
	Initial      any
	Widget       *Widget
	LabelAttrs   Attrs
	WrapperAttrs Attrs
	Template     string
	Validators   []Validator

	// Choices, Coerce and EmptyValue apply to KindTypedChoice only.
	Choices    []Choice
	Coerce     func(string) (any, error)
	EmptyValue any
}

// Clone returns a deep copy of f.
func (f *Field) Clone() *Field {
	out := *f
	out.Widget = f.Widget.Clone()
	out.LabelAttrs = f.LabelAttrs.Clone()
	out.WrapperAttrs = f.WrapperAttrs.Clone()
	if f.Validators != nil {
		out.Validators = append([]Validator(nil), f.Validators...)
	}
	if f.Choices != nil {
		out.Choices = append([]Choice(nil), f.Choices...)
	}
	return &out
}

// Clean converts a raw value (submitted string, checkbox bool or initial
// value) into the field's Go value and validates it. Validators run only on
// non-empty values, and every failing validator contributes a message. Text
// fields always reject NUL characters.
func (f *Field) Clean(raw any) (any, []string) {
	value, err := f.toValue(raw)
	if err != nil {
		return nil, []string{errorMessage(err)}
	}

	if f.Required && f.isEmpty(value) {
		return nil, []string{MsgRequired}
	}

	if f.Kind == KindTypedChoice {
		if value, err = f.coerceChoice(value.(string)); err != nil {
			return nil, []string{errorMessage(err)}
		}
	}

	if f.isEmpty(value) && f.Kind != KindBoolean {
		return value, nil
	}

	var messages []string
	if f.Kind == KindChar {
		if err := prohibitNullCharacters(value); err != nil {
			messages = append(messages, errorMessage(err))
		}
	}
	for _, validate := range f.Validators {
		if err := validate(value); err != nil {
			messages = append(messages, errorMessage(err))
		}
	}
	if len(messages) > 0 {
		return nil, messages
	}
	return value, nil
}

func (f *Field) toValue(raw any) (any, error) {
	switch f.Kind {
	case KindInteger:
		switch v := raw.(type) {
		case nil:
			return nil, nil
		case int:
			return v, nil
		case int64:
			return int(v), nil
		}
		s := strings.TrimSpace(formatValue(raw))
		if s == "" {
			return nil, nil
		}
		n, err := strconv.Atoi(s)
		if err != nil {
			return nil, &ValidationError{Code: "invalid", Message: MsgInvalidInteger}
		}
		return n, nil

	case KindBoolean:
		switch v := raw.(type) {
		case nil:
			return false, nil
		case bool:
			return v, nil
		case string:
			switch strings.ToLower(v) {
			case "", "false", "0":
				return false, nil
			}
			return true, nil
		}
		return true, nil

	case KindTypedChoice:
		return formatValue(raw), nil

	default:
		return strings.TrimSpace(formatValue(raw)), nil
	}
}

func (f *Field) isEmpty(value any) bool {
	switch v := value.(type) {
	case nil:
		return true
	case string:
		return v == ""
	case bool:
		return !v
	}
	if f.Kind == KindTypedChoice {
		return value == f.EmptyValue
	}
	return false
}

func (f *Field) coerceChoice(value string) (any, error) {
	if value == "" {
		if f.EmptyValue != nil {
			return f.EmptyValue, nil
		}
		return "", nil
	}

	values := make([]string, 0, len(f.Choices))
	for _, choice := range f.Choices {
		values = append(values, choice.Value)
	}
	if !validator.In(value, values...) {
		return nil, &ValidationError{Code: "invalid_choice", Message: fmt.Sprintf(msgInvalidChoice, value)}
	}

	if f.Coerce == nil {
		return value, nil
	}
	coerced, err := f.Coerce(value)
	if err != nil {
		return nil, &ValidationError{Code: "invalid_choice", Message: fmt.Sprintf(msgInvalidChoice, value)}
	}
	return coerced, nil
}
