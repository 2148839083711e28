package forms

import (
	"html"
	"slices"
	"strings"
)

// Attrs is a set of HTML attributes. An empty value renders the bare
// attribute name (required, checked).
type Attrs map[string]string

// Clone returns a copy of a. Cloning nil yields nil.
func (a Attrs) Clone() Attrs {
	if a == nil {
		return nil
	}
	out := make(Attrs, len(a))
	for key, value := range a {
		out[key] = value
	}
	return out
}

// Merge returns a copy of a with every entry of extra applied on top.
func (a Attrs) Merge(extra Attrs) Attrs {
	out := make(Attrs, len(a)+len(extra))
	for key, value := range a {
		out[key] = value
	}
	for key, value := range extra {
		out[key] = value
	}
	return out
}

// Classes splits the class attribute into its tokens.
func (a Attrs) Classes() []string {
	return strings.Fields(a["class"])
}

// HTML renders the attributes with a leading space, sorted by name, so the
// result can be written straight after a tag name.
func (a Attrs) HTML() string {
	if len(a) == 0 {
		return ""
	}
	keys := make([]string, 0, len(a))
	for key := range a {
		if strings.TrimSpace(key) == "" {
			continue
		}
		keys = append(keys, key)
	}
	slices.Sort(keys)

	var b strings.Builder
	for _, key := range keys {
		b.WriteByte(' ')
		b.WriteString(html.EscapeString(key))
		if value := a[key]; value != "" {
			b.WriteString(`="`)
			b.WriteString(html.EscapeString(value))
			b.WriteByte('"')
		}
	}
	return b.String()
}

func withClasses(a Attrs, classes []string) Attrs {
	if len(classes) == 0 {
		delete(a, "class")
		return a
	}
	a["class"] = strings.Join(classes, " ")
	return a
}
