package forms

// Field templates shipped with the render package.
const (
	TemplateLabelField   = "include/form_elements/label_field.html"
	TemplateFieldLabel   = "include/form_elements/field_label.html"
	DefaultFieldTemplate = "forms/field.html"
)

// Options are the caller-supplied settings of a field. Zero values mean
// "use the default": a nil Widget, nil attribute maps, an empty Template and
// a nil Required all fall back to the field family's defaults.
type Options struct {
	Label        string
	HelpText     string
	Required     *bool
	Initial      any
	Widget       *Widget
	LabelAttrs   Attrs
	WrapperAttrs Attrs
	Template     string
	Validators   []Validator
	Choices      []Choice
	Coerce       func(string) (any, error)
	EmptyValue   any
}

// Bool returns a pointer to v, for Options.Required.
func Bool(v bool) *bool { return &v }

// Defaults is the configuration a family of fields starts from.
type Defaults struct {
	Widget       *Widget
	LabelAttrs   Attrs
	WrapperAttrs Attrs
	Template     string
	Required     *bool
}

// Merge returns o completed with d. Caller values take precedence; the
// defaults are copied so fields never share widgets or attribute maps.
func (d Defaults) Merge(o Options) Options {
	if o.Widget == nil {
		o.Widget = d.Widget.Clone()
	}
	if o.LabelAttrs == nil {
		o.LabelAttrs = d.LabelAttrs.Clone()
	}
	if o.WrapperAttrs == nil {
		o.WrapperAttrs = d.WrapperAttrs.Clone()
	}
	if o.Template == "" {
		o.Template = d.Template
	}
	if o.Required == nil && d.Required != nil {
		o.Required = Bool(*d.Required)
	}
	return o
}

// Bootstrap field families.
var (
	BootstrapInput = Defaults{
		Widget:       TextInput(Attrs{"class": "form-control"}),
		LabelAttrs:   Attrs{"class": "form-label"},
		WrapperAttrs: Attrs{"class": "mb-3"},
		Template:     TemplateLabelField,
	}
	BootstrapTextarea = Defaults{
		Widget:       Textarea(Attrs{"class": "form-control"}),
		LabelAttrs:   Attrs{"class": "form-label"},
		WrapperAttrs: Attrs{"class": "mb-3"},
		Template:     TemplateLabelField,
	}
	BootstrapNumber = Defaults{
		Widget:       NumberInput(Attrs{"class": "form-control"}),
		LabelAttrs:   Attrs{"class": "form-label"},
		WrapperAttrs: Attrs{"class": "mb-3"},
		Template:     TemplateLabelField,
	}
	BootstrapCheckbox = Defaults{
		Widget:       CheckboxInput(Attrs{"class": "form-check-input"}),
		LabelAttrs:   Attrs{"class": "form-check-label"},
		WrapperAttrs: Attrs{"class": "mb-3"},
		Template:     TemplateFieldLabel,
		Required:     Bool(false),
	}
	BootstrapSelect = Defaults{
		Widget:       Select(Attrs{"class": "form-select"}),
		LabelAttrs:   Attrs{"class": "form-label"},
		WrapperAttrs: Attrs{"class": "mb-3"},
		Template:     TemplateLabelField,
	}
)

// CharField is a text field without styling defaults.
func CharField(o Options) *Field { return newField(KindChar, TextInput(nil), o) }

// IntegerField is a whole-number field without styling defaults.
func IntegerField(o Options) *Field { return newField(KindInteger, NumberInput(nil), o) }

// BooleanField is a checkbox field without styling defaults. Like every
// field it is required unless told otherwise, meaning it must be checked.
func BooleanField(o Options) *Field { return newField(KindBoolean, CheckboxInput(nil), o) }

// TypedChoiceField is a select field whose value is passed through Coerce.
func TypedChoiceField(o Options) *Field { return newField(KindTypedChoice, Select(nil), o) }

func BootstrapCharField(o Options) *Field     { return CharField(BootstrapInput.Merge(o)) }
func BootstrapTextareaField(o Options) *Field { return CharField(BootstrapTextarea.Merge(o)) }
func BootstrapIntegerField(o Options) *Field  { return IntegerField(BootstrapNumber.Merge(o)) }
func BootstrapBooleanField(o Options) *Field  { return BooleanField(BootstrapCheckbox.Merge(o)) }

func BootstrapTypedChoiceField(o Options) *Field {
	return TypedChoiceField(BootstrapSelect.Merge(o))
}

func newField(kind Kind, widget *Widget, o Options) *Field {
	if o.Widget != nil {
		widget = o.Widget.Clone()
	}
	required := true
	if o.Required != nil {
		required = *o.Required
	}

	f := &Field{
		Kind:         kind,
		Label:        o.Label,
		HelpText:     o.HelpText,
		Required:     required,
		Initial:      o.Initial,
		Widget:       widget,
		LabelAttrs:   o.LabelAttrs.Clone(),
		WrapperAttrs: o.WrapperAttrs.Clone(),
		Template:     o.Template,
		Choices:      append([]Choice(nil), o.Choices...),
		Coerce:       o.Coerce,
		EmptyValue:   o.EmptyValue,
	}
	if o.Validators != nil {
		f.Validators = append([]Validator(nil), o.Validators...)
	}
	if kind == KindTypedChoice {
		f.Widget.Choices = append([]Choice(nil), f.Choices...)
	}
	return f
}
