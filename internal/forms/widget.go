package forms

import (
	"fmt"
	"html"
	"net/url"
	"strings"
)

// WidgetKind names the HTML control a widget renders.
type WidgetKind string

const (
	WidgetText     WidgetKind = "text"
	WidgetNumber   WidgetKind = "number"
	WidgetTextarea WidgetKind = "textarea"
	WidgetCheckbox WidgetKind = "checkbox"
	WidgetSelect   WidgetKind = "select"
)

// Choice is one option of a select widget or choice field.
type Choice struct {
	Value string
	Label string
}

// Widget is the HTML input representation of a field. Label and LabelAttrs
// are optional; a bound field falls back to them when its field has none.
type Widget struct {
	Kind       WidgetKind
	Attrs      Attrs
	Choices    []Choice
	Label      string
	LabelAttrs Attrs
}

func TextInput(attrs Attrs) *Widget     { return &Widget{Kind: WidgetText, Attrs: attrs.Clone()} }
func NumberInput(attrs Attrs) *Widget   { return &Widget{Kind: WidgetNumber, Attrs: attrs.Clone()} }
func Textarea(attrs Attrs) *Widget      { return &Widget{Kind: WidgetTextarea, Attrs: attrs.Clone()} }
func CheckboxInput(attrs Attrs) *Widget { return &Widget{Kind: WidgetCheckbox, Attrs: attrs.Clone()} }
func Select(attrs Attrs) *Widget        { return &Widget{Kind: WidgetSelect, Attrs: attrs.Clone()} }

// Clone returns a deep copy of w. Cloning nil yields nil.
func (w *Widget) Clone() *Widget {
	if w == nil {
		return nil
	}
	out := *w
	out.Attrs = w.Attrs.Clone()
	out.LabelAttrs = w.LabelAttrs.Clone()
	if w.Choices != nil {
		out.Choices = append([]Choice(nil), w.Choices...)
	}
	return &out
}

// ValueFromData extracts the submitted value for name. Checkboxes yield a
// bool (an unchecked box is absent from the submission); other widgets yield
// the first submitted string, or nil when name was not submitted.
func (w *Widget) ValueFromData(data url.Values, name string) any {
	if w.Kind == WidgetCheckbox {
		if !data.Has(name) {
			return false
		}
		switch strings.ToLower(data.Get(name)) {
		case "true":
			return true
		case "false":
			return false
		default:
			return data.Get(name) != ""
		}
	}
	if !data.Has(name) {
		return nil
	}
	return data.Get(name)
}

// ValueOmitted reports whether the submission carries no value for name.
// A checkbox is never omitted since its absence means false.
func (w *Widget) ValueOmitted(data url.Values, name string) bool {
	if w.Kind == WidgetCheckbox {
		return false
	}
	return !data.Has(name)
}

// Render writes the control markup for name with the given value and the
// final attribute set.
func (w *Widget) Render(name string, value any, attrs Attrs) string {
	var b strings.Builder

	switch w.Kind {
	case WidgetTextarea:
		final := Attrs{"cols": "40", "rows": "10"}.Merge(attrs)
		b.WriteString(`<textarea name="`)
		b.WriteString(html.EscapeString(name))
		b.WriteByte('"')
		b.WriteString(final.HTML())
		b.WriteString(">\n")
		b.WriteString(html.EscapeString(formatValue(value)))
		b.WriteString("</textarea>")

	case WidgetCheckbox:
		final := attrs.Clone()
		if final == nil {
			final = Attrs{}
		}
		if isChecked(value) {
			final["checked"] = ""
		}
		b.WriteString(`<input type="checkbox" name="`)
		b.WriteString(html.EscapeString(name))
		b.WriteByte('"')
		b.WriteString(final.HTML())
		b.WriteByte('>')

	case WidgetSelect:
		selected := formatValue(value)
		b.WriteString(`<select name="`)
		b.WriteString(html.EscapeString(name))
		b.WriteByte('"')
		b.WriteString(attrs.HTML())
		b.WriteString(">\n")
		for _, choice := range w.Choices {
			b.WriteString(`  <option value="`)
			b.WriteString(html.EscapeString(choice.Value))
			b.WriteByte('"')
			if choice.Value == selected {
				b.WriteString(" selected")
			}
			b.WriteByte('>')
			b.WriteString(html.EscapeString(choice.Label))
			b.WriteString("</option>\n")
		}
		b.WriteString("</select>")

	default:
		kind := w.Kind
		if kind == "" {
			kind = WidgetText
		}
		b.WriteString(`<input type="`)
		b.WriteString(string(kind))
		b.WriteString(`" name="`)
		b.WriteString(html.EscapeString(name))
		b.WriteByte('"')
		if v := formatValue(value); v != "" {
			b.WriteString(` value="`)
			b.WriteString(html.EscapeString(v))
			b.WriteByte('"')
		}
		b.WriteString(attrs.HTML())
		b.WriteByte('>')
	}

	return b.String()
}

func formatValue(value any) string {
	switch v := value.(type) {
	case nil:
		return ""
	case string:
		return v
	case fmt.Stringer:
		return v.String()
	default:
		return fmt.Sprint(v)
	}
}

func isChecked(value any) bool {
	switch v := value.(type) {
	case nil:
		return false
	case bool:
		return v
	case string:
		return v != ""
	default:
		return true
	}
}
