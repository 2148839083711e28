// Package books declares the Book form: the fields shown when creating or
// editing a book and how their cleaned values map onto a data.Book.
package books

import (
	"log/slog"
	"net/url"

	"github.com/aoideee/bootstrap-forms/internal/data"
	"github.com/aoideee/bootstrap-forms/internal/forms"
)

const (
	msgTitleStart = "This field should starts with an upper case letter."
	msgTitleEnd   = "This field should ends with a lower case letter."

	blankChoiceLabel = "---------"
	minYear          = 2000
)

// Field names, in display order.
const (
	FieldTitle       = "title"
	FieldAuthor      = "author"
	FieldYear        = "year"
	FieldIsAvailable = "is_available"
	FieldCategory    = "category"
	FieldDescription = "description"
)

var declared = []forms.Declared{
	{Name: FieldTitle, Field: forms.CharField(forms.Options{
		Widget:       forms.TextInput(forms.Attrs{"class": "form-control"}),
		LabelAttrs:   forms.Attrs{"class": "form-label"},
		WrapperAttrs: forms.Attrs{"class": "mb-3"},
		Template:     forms.TemplateLabelField,
		Validators: []forms.Validator{
			forms.RegexValidator("^[A-Z]", msgTitleStart),
			forms.RegexValidator("[a-z]$", msgTitleEnd),
		},
	})},
	{Name: FieldAuthor, Field: forms.BootstrapCharField(forms.Options{
		HelpText: "the author",
	})},
	{Name: FieldYear, Field: forms.BootstrapIntegerField(forms.Options{
		HelpText:   "the year",
		Validators: []forms.Validator{forms.MinValueValidator(minYear)},
		Initial:    minYear,
	})},
	{Name: FieldIsAvailable, Field: forms.BootstrapBooleanField(forms.Options{
		Label: "is available for borrowing",
	})},
	{Name: FieldCategory, Field: forms.BootstrapTypedChoiceField(forms.Options{
		Label:      "category",
		Choices:    categoryChoices(),
		Required:   forms.Bool(false),
		Coerce:     func(s string) (any, error) { return data.Category(s), nil },
		EmptyValue: data.CategoryUnset,
	})},
	{Name: FieldDescription, Field: forms.BootstrapTextareaField(forms.Options{
		Required: forms.Bool(false),
	})},
}

var labelAttrs = map[string]forms.Attrs{
	FieldYear: {"class": "more foo bar"},
}

func categoryChoices() []forms.Choice {
	choices := []forms.Choice{{Value: "", Label: blankChoiceLabel}}
	for _, c := range data.CategoryChoices {
		choices = append(choices, forms.Choice{Value: string(c.Value), Label: c.Label})
	}
	return choices
}

// Form is a Book form bound to one instance. Validation covers both the
// field rules and the model's own column constraints.
type Form struct {
	*forms.Form

	instance *data.Book
	partial  bool
}

// NewCreateForm returns a form for a new book. A nil values leaves the form
// unbound.
func NewCreateForm(values url.Values, r forms.Renderer) *Form {
	return newForm(values, &data.Book{}, false, r)
}

// NewUpdateForm returns a form editing book. Fields missing from values keep
// the stored value, except the checkbox whose absence means unchecked.
func NewUpdateForm(values url.Values, book *data.Book, r forms.Renderer) *Form {
	return newForm(values, book, true, r)
}

func newForm(values url.Values, book *data.Book, partial bool, r forms.Renderer) *Form {
	instance := *book
	f := &Form{instance: &instance, partial: partial}

	opts := []forms.Option{
		forms.WithData(values),
		forms.WithRenderer(r),
		forms.WithLabelAttrs(labelAttrs),
		forms.WithCleanHook(f.clean),
	}
	if partial {
		opts = append(opts, forms.WithInitial(initialFrom(book)), forms.WithOmittedFromInitial())
	}
	f.Form = forms.New(declared, opts...)
	return f
}

func initialFrom(b *data.Book) map[string]any {
	return map[string]any{
		FieldTitle:       b.Title,
		FieldAuthor:      b.Author,
		FieldYear:        b.Year,
		FieldIsAvailable: b.IsAvailable,
		FieldCategory:    string(b.Category),
		FieldDescription: b.Description,
	}
}

// Book returns the instance with the cleaned values applied. On an update
// form only submitted fields are applied.
func (f *Form) Book() *data.Book {
	f.IsValid()
	return f.instance
}

// LogFields writes every bound field to logger at debug level.
func (f *Form) LogFields(logger *slog.Logger, msg string) {
	for _, bf := range f.BoundFields() {
		logger.Debug(msg, "field", bf)
	}
}

func (f *Form) clean(form *forms.Form) {
	for name, value := range form.CleanedData() {
		if f.partial && !form.Submitted(name) {
			continue
		}
		apply(f.instance, name, value)
	}

	errs, err := f.instance.Validate()
	if err != nil {
		form.AddError("", err.Error())
		return
	}
	for name, messages := range errs {
		if form.Field(name) == nil {
			name = ""
		}
		for _, message := range messages {
			form.AddError(name, message)
		}
	}
}

func apply(b *data.Book, name string, value any) {
	switch name {
	case FieldTitle:
		b.Title, _ = value.(string)
	case FieldAuthor:
		b.Author, _ = value.(string)
	case FieldYear:
		b.Year, _ = value.(int)
	case FieldIsAvailable:
		b.IsAvailable, _ = value.(bool)
	case FieldCategory:
		b.Category, _ = value.(data.Category)
	case FieldDescription:
		b.Description, _ = value.(string)
	}
}
