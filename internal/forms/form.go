// Package forms binds submitted request data to typed, validated values and
// renders each field through a template with Bootstrap-style attributes.
package forms

import (
	"errors"
	"net/url"

	"github.com/aoideee/bootstrap-forms/internal/validator"
)

// NonFieldErrors is the error key for messages not tied to one field.
const NonFieldErrors = "__all__"

// Renderer renders a named template with the given data.
type Renderer interface {
	RenderTemplate(name string, data map[string]any) (string, error)
}

// Declared names a field prototype in declaration order.
type Declared struct {
	Name  string
	Field *Field
}

// Option configures a Form.
type Option func(*Form)

// WithData binds the form to submitted data.
func WithData(data url.Values) Option {
	return func(f *Form) {
		f.data = data
		f.bound = data != nil
	}
}

// WithInitial sets initial values; they take precedence over each field's
// own Initial.
func WithInitial(initial map[string]any) Option {
	return func(f *Form) {
		f.initial = initial
	}
}

// WithRenderer sets the template renderer used by BoundField.Render.
func WithRenderer(r Renderer) Option {
	return func(f *Form) {
		f.renderer = r
	}
}

// WithLabelAttrs overrides label attributes per field name. Override keys
// replace the field's own label attributes; other keys are kept.
func WithLabelAttrs(overrides map[string]Attrs) Option {
	return func(f *Form) {
		f.labelAttrs = overrides
	}
}

// WithLabelSuffix sets the text appended to labels. Defaults to ":".
func WithLabelSuffix(suffix string) Option {
	return func(f *Form) {
		f.labelSuffix = suffix
	}
}

// WithOmittedFromInitial makes fields missing from the submitted data use
// their initial value instead of being treated as empty.
func WithOmittedFromInitial() Option {
	return func(f *Form) {
		f.omittedFromInitial = true
	}
}

// WithCleanHook registers fn to run after every field has been cleaned.
// Hooks may inspect CleanedData and call AddError.
func WithCleanHook(fn func(*Form)) Option {
	return func(f *Form) {
		if fn != nil {
			f.hooks = append(f.hooks, fn)
		}
	}
}

// Form is one instance of a set of fields, optionally bound to submitted data.
type Form struct {
	order  []string
	fields map[string]*Field
	boundF map[string]*BoundField

	data               url.Values
	bound              bool
	initial            map[string]any
	renderer           Renderer
	labelAttrs         map[string]Attrs
	labelSuffix        string
	omittedFromInitial bool
	hooks              []func(*Form)

	errors  *validator.Validator
	cleaned map[string]any
}

// New builds a form from declared field prototypes. Each prototype is cloned,
// so nothing done to this form leaks into other forms.
func New(declared []Declared, opts ...Option) *Form {
	f := &Form{
		fields:      make(map[string]*Field, len(declared)),
		boundF:      make(map[string]*BoundField, len(declared)),
		labelSuffix: ":",
	}
	for _, d := range declared {
		if d.Field == nil || d.Name == "" {
			continue
		}
		if _, dup := f.fields[d.Name]; !dup {
			f.order = append(f.order, d.Name)
		}
		f.fields[d.Name] = d.Field.Clone()
	}
	for _, opt := range opts {
		if opt != nil {
			opt(f)
		}
	}
	return f
}

// IsBound reports whether the form carries submitted data.
func (f *Form) IsBound() bool { return f.bound }

// IsValid reports whether the form is bound and has no errors.
func (f *Form) IsValid() bool {
	return f.bound && len(f.Errors()) == 0
}

// Errors returns field errors keyed by field name; non-field errors use
// NonFieldErrors. An unbound form has no errors.
func (f *Form) Errors() map[string][]string {
	f.fullClean()
	return f.errors.Errors
}

// NonFieldErrors returns the errors not tied to a single field.
func (f *Form) NonFieldErrors() []string {
	return f.Errors()[NonFieldErrors]
}

// AddError records message against field, or against the form when field is
// empty, and drops field from the cleaned data.
func (f *Form) AddError(field, message string) {
	f.fullClean()
	if field == "" {
		field = NonFieldErrors
	}
	f.errors.AddError(field, message)
	delete(f.cleaned, field)
}

// CleanedData returns the cleaned values of every field that validated.
func (f *Form) CleanedData() map[string]any {
	f.fullClean()
	return f.cleaned
}

// Names returns the field names in declaration order.
func (f *Form) Names() []string {
	return append([]string(nil), f.order...)
}

// Field returns the bound field for name, or nil when there is none.
func (f *Form) Field(name string) *BoundField {
	field, ok := f.fields[name]
	if !ok {
		return nil
	}
	if bf, ok := f.boundF[name]; ok {
		return bf
	}
	bf := newBoundField(f, field, name)
	f.boundF[name] = bf
	return bf
}

// BoundFields returns every bound field in declaration order.
func (f *Form) BoundFields() []*BoundField {
	out := make([]*BoundField, 0, len(f.order))
	for _, name := range f.order {
		out = append(out, f.Field(name))
	}
	return out
}

// Submitted reports whether the bound data carries a value for name.
func (f *Form) Submitted(name string) bool {
	field, ok := f.fields[name]
	if !ok || !f.bound {
		return false
	}
	return !field.Widget.ValueOmitted(f.data, name)
}

// RenderFields renders every field through its template.
func (f *Form) RenderFields() ([]string, error) {
	out := make([]string, 0, len(f.order))
	for _, bf := range f.BoundFields() {
		html, err := bf.Render()
		if err != nil {
			return nil, err
		}
		out = append(out, html)
	}
	return out, nil
}

// InitialValue returns the form-level initial value for name, falling back
// to the field's own Initial.
func (f *Form) InitialValue(name string) any {
	if value, ok := f.initial[name]; ok {
		return value
	}
	if field, ok := f.fields[name]; ok {
		return field.Initial
	}
	return nil
}

func (f *Form) rawValue(name string) any {
	field := f.fields[name]
	if f.omittedFromInitial && field.Widget.ValueOmitted(f.data, name) {
		return f.InitialValue(name)
	}
	return field.Widget.ValueFromData(f.data, name)
}

func (f *Form) fullClean() {
	if f.errors != nil {
		return
	}
	f.errors = validator.New()
	f.cleaned = make(map[string]any, len(f.order))
	if !f.bound {
		return
	}

	for _, name := range f.order {
		value, messages := f.fields[name].Clean(f.rawValue(name))
		if len(messages) > 0 {
			for _, message := range messages {
				f.errors.AddError(name, message)
			}
			continue
		}
		f.cleaned[name] = value
	}

	for _, hook := range f.hooks {
		hook(f)
	}
}

var errNoRenderer = errors.New("forms: no renderer configured")
