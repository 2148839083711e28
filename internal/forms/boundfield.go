package forms

import (
	"fmt"
	"html"
	"log/slog"
	"strings"
	"unicode"
	"unicode/utf8"
)

// Validation-state classes added to a widget once its form is bound.
const (
	ClassValid   = "is-valid"
	ClassInvalid = "is-invalid"
)

// BoundField is a field paired with one form: its data, its errors and the
// attributes it renders with. LabelAttrs and WrapperAttrs are copies and may
// be changed freely.
type BoundField struct {
	form         *Form
	Field        *Field
	Name         string
	LabelAttrs   Attrs
	WrapperAttrs Attrs
	Template     string
}

func newBoundField(form *Form, field *Field, name string) *BoundField {
	labelAttrs := field.LabelAttrs.Clone()
	if labelAttrs == nil {
		labelAttrs = field.Widget.LabelAttrs.Clone()
	}
	if override, ok := form.labelAttrs[name]; ok {
		labelAttrs = labelAttrs.Merge(override)
	}
	if labelAttrs == nil {
		labelAttrs = Attrs{}
	}

	wrapperAttrs := field.WrapperAttrs.Clone()
	if wrapperAttrs == nil {
		wrapperAttrs = Attrs{}
	}

	return &BoundField{
		form:         form,
		Field:        field,
		Name:         name,
		LabelAttrs:   labelAttrs,
		WrapperAttrs: wrapperAttrs,
		Template:     field.Template,
	}
}

// HTMLName is the name attribute of the control.
func (bf *BoundField) HTMLName() string { return bf.Name }

// IDForLabel is the id of the control, used by the label's for attribute.
func (bf *BoundField) IDForLabel() string {
	if id := bf.Field.Widget.Attrs["id"]; id != "" {
		return id
	}
	return "id_" + bf.Name
}

// Label returns the field label, then the widget label, then a label derived
// from the field name.
func (bf *BoundField) Label() string {
	if bf.Field.Label != "" {
		return bf.Field.Label
	}
	if bf.Field.Widget.Label != "" {
		return bf.Field.Widget.Label
	}
	return prettyName(bf.Name)
}

func (bf *BoundField) HelpText() string { return bf.Field.HelpText }

// Errors returns the field's validation messages.
func (bf *BoundField) Errors() []string {
	return bf.form.Errors()[bf.Name]
}

// Value is the submitted value when the form is bound, otherwise the initial
// value.
func (bf *BoundField) Value() any {
	if bf.form.bound {
		return bf.form.rawValue(bf.Name)
	}
	return bf.form.InitialValue(bf.Name)
}

// ValidationClass returns ClassInvalid or ClassValid for a bound form and ""
// for an unbound one.
func (bf *BoundField) ValidationClass() string {
	if !bf.form.bound {
		return ""
	}
	if len(bf.Errors()) > 0 {
		return ClassInvalid
	}
	return ClassValid
}

// WidgetAttrs returns the attributes the widget renders with: the widget's
// own attributes, the control id, required, and exactly one validation-state
// class once the form is bound. The field's widget is left untouched.
func (bf *BoundField) WidgetAttrs() Attrs {
	attrs := bf.Field.Widget.Attrs.Clone()
	if attrs == nil {
		attrs = Attrs{}
	}
	attrs["id"] = bf.IDForLabel()
	if bf.Field.Required {
		attrs["required"] = ""
	}

	classes := make([]string, 0, 4)
	for _, class := range attrs.Classes() {
		if class == ClassValid || class == ClassInvalid {
			continue
		}
		classes = append(classes, class)
	}
	if state := bf.ValidationClass(); state != "" {
		classes = append(classes, state)
		if state == ClassInvalid {
			attrs["aria-invalid"] = "true"
		}
	}
	return withClasses(attrs, classes)
}

// AsWidget renders the control.
func (bf *BoundField) AsWidget() string {
	return bf.Field.Widget.Render(bf.HTMLName(), bf.Value(), bf.WidgetAttrs())
}

// LabelTag renders the <label> element with the label attributes.
func (bf *BoundField) LabelTag() string {
	text := bf.Label()
	if suffix := bf.form.labelSuffix; suffix != "" && !strings.ContainsAny(lastRune(text), ":?.!") {
		text += suffix
	}
	attrs := bf.LabelAttrs.Merge(Attrs{"for": bf.IDForLabel()})
	return "<label" + attrs.HTML() + ">" + html.EscapeString(text) + "</label>"
}

// Context is the template data for the field's template.
func (bf *BoundField) Context() map[string]any {
	return map[string]any{
		"name":             bf.HTMLName(),
		"id_for_label":     bf.IDForLabel(),
		"label":            bf.Label(),
		"label_tag":        bf.LabelTag(),
		"label_attrs":      bf.LabelAttrs.HTML(),
		"wrapper_attrs":    bf.WrapperAttrs.HTML(),
		"widget":           bf.AsWidget(),
		"help_text":        bf.HelpText(),
		"errors":           bf.Errors(),
		"validation_class": bf.ValidationClass(),
		"is_checkbox":      bf.Field.Widget.Kind == WidgetCheckbox,
	}
}

// Render renders the field through its template, or DefaultFieldTemplate
// when it has none.
func (bf *BoundField) Render() (string, error) {
	if bf.form.renderer == nil {
		return "", errNoRenderer
	}
	name := bf.Template
	if name == "" {
		name = DefaultFieldTemplate
	}
	out, err := bf.form.renderer.RenderTemplate(name, map[string]any{"field": bf.Context()})
	if err != nil {
		return "", fmt.Errorf("forms: render field %q: %w", bf.Name, err)
	}
	return out, nil
}

// LogValue implements slog.LogValuer.
func (bf *BoundField) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("name", bf.Name),
		slog.String("template", bf.Template),
		slog.String("widget", string(bf.Field.Widget.Kind)),
		slog.String("class", bf.WidgetAttrs()["class"]),
		slog.Any("errors", bf.Errors()),
	)
}

func prettyName(name string) string {
	if name == "" {
		return ""
	}
	name = strings.ReplaceAll(name, "_", " ")
	r, size := utf8.DecodeRuneInString(name)
	return string(unicode.ToUpper(r)) + name[size:]
}

func lastRune(s string) string {
	if s == "" {
		return ""
	}
	r, _ := utf8.DecodeLastRuneInString(s)
	return string(r)
}
