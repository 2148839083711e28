package books_test

import (
	"net/url"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"

	"github.com/aoideee/bootstrap-forms/internal/books"
	"github.com/aoideee/bootstrap-forms/internal/data"
	"github.com/aoideee/bootstrap-forms/internal/forms"
)

func validValues() url.Values {
	return url.Values{
		"title":        {"Dune"},
		"author":       {"Frank Herbert"},
		"year":         {"2005"},
		"is_available": {"on"},
		"category":     {"FI"},
		"description":  {"Spice."},
	}
}

var ignoreTimestamps = cmpopts.IgnoreFields(data.Book{}, "CreatedAt", "UpdatedAt")

func TestCreateForm_Valid(t *testing.T) {
	form := books.NewCreateForm(validValues(), nil)
	if !form.IsValid() {
		t.Fatalf("expected valid form, errors: %v", form.Errors())
	}

	want := &data.Book{
		Title:       "Dune",
		Author:      "Frank Herbert",
		Year:        2005,
		IsAvailable: true,
		Category:    data.CategoryFiction,
		Description: "Spice.",
	}
	if diff := cmp.Diff(want, form.Book(), ignoreTimestamps); diff != "" {
		t.Fatalf("book mismatch (-want +got):\n%s", diff)
	}
}

func TestCreateForm_FieldErrors(t *testing.T) {
	cases := []struct {
		name  string
		field string
		value string
		want  []string
	}{
		{"title lower start", "title", "dune", []string{"This field should starts with an upper case letter."}},
		{"title upper end", "title", "DunE", []string{"This field should ends with a lower case letter."}},
		{"title both", "title", "dunE", []string{
			"This field should starts with an upper case letter.",
			"This field should ends with a lower case letter.",
		}},
		{"title missing", "title", "", []string{forms.MsgRequired}},
		{"year too early", "year", "1999", []string{"Ensure this value is greater than or equal to 2000."}},
		{"year not a number", "year", "soon", []string{forms.MsgInvalidInteger}},
		{"unknown category", "category", "XX", []string{"Select a valid choice. XX is not one of the available choices."}},
		{"title null character", "title", "Du\x00ne", []string{forms.MsgNullCharacters}},
		{"description null character", "description", "Spice\x00.", []string{forms.MsgNullCharacters}},
		{"year out of integer range", "year", "3000000000", []string{"Ensure this value is less than or equal to 2147483647."}},
		{"title too long", "title", "A" + strings.Repeat("a", 255), []string{"Ensure this value has at most 255 characters (it has 256)."}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			values := validValues()
			values.Set(tc.field, tc.value)

			form := books.NewCreateForm(values, nil)
			if form.IsValid() {
				t.Fatalf("expected invalid form")
			}
			if diff := cmp.Diff(tc.want, form.Field(tc.field).Errors()); diff != "" {
				t.Fatalf("errors mismatch (-want +got):\n%s", diff)
			}
			if got := form.Field(tc.field).ValidationClass(); got != forms.ClassInvalid {
				t.Fatalf("validation class = %q", got)
			}
		})
	}
}

func TestCreateForm_OptionalFields(t *testing.T) {
	values := validValues()
	values.Del("is_available")
	values.Set("category", "")
	values.Del("description")

	form := books.NewCreateForm(values, nil)
	if !form.IsValid() {
		t.Fatalf("expected valid form, errors: %v", form.Errors())
	}
	book := form.Book()
	if book.IsAvailable || book.Category != data.CategoryUnset || book.Description != "" {
		t.Fatalf("unexpected optional values: %+v", book)
	}
}

func TestCreateForm_ValidationMarkers(t *testing.T) {
	values := validValues()
	values.Set("year", "1990")
	form := books.NewCreateForm(values, nil)
	form.IsValid()

	for _, bf := range form.BoundFields() {
		class := bf.WidgetAttrs()["class"]
		want := forms.ClassValid
		if bf.Name == "year" {
			want = forms.ClassInvalid
		}
		if !strings.HasSuffix(class, " "+want) {
			t.Fatalf("%s class = %q, want suffix %q", bf.Name, class, want)
		}
		if strings.Contains(class, forms.ClassValid) && strings.Contains(class, forms.ClassInvalid) {
			t.Fatalf("%s carries both markers: %q", bf.Name, class)
		}
	}

	unbound := books.NewCreateForm(nil, nil)
	for _, bf := range unbound.BoundFields() {
		if got := bf.ValidationClass(); got != "" {
			t.Fatalf("unbound %s has class %q", bf.Name, got)
		}
	}
}

func TestCreateForm_Presentation(t *testing.T) {
	form := books.NewCreateForm(nil, nil)

	if diff := cmp.Diff(
		[]string{"title", "author", "year", "is_available", "category", "description"},
		form.Names(),
	); diff != "" {
		t.Fatalf("field order mismatch (-want +got):\n%s", diff)
	}
	if got := form.Field("year").LabelAttrs["class"]; got != "more foo bar" {
		t.Fatalf("year label class = %q", got)
	}
	if got := form.Field("author").LabelAttrs["class"]; got != "form-label" {
		t.Fatalf("author label class = %q", got)
	}
	if got := form.Field("year").Value(); got != 2000 {
		t.Fatalf("year initial = %v", got)
	}
	if got := form.Field("is_available").Label(); got != "is available for borrowing" {
		t.Fatalf("is_available label = %q", got)
	}
	if got := form.Field("title").Template; got != forms.TemplateLabelField {
		t.Fatalf("title template = %q", got)
	}
	if got := form.Field("description").Field.Widget.Kind; got != forms.WidgetTextarea {
		t.Fatalf("description widget = %q", got)
	}
	options := form.Field("category").AsWidget()
	for _, want := range []string{`<option value="">---------</option>`, `<option value="FI">fiction</option>`, `<option value="NF">non-fiction</option>`} {
		if !strings.Contains(options, want) {
			t.Fatalf("category select missing %q:\n%s", want, options)
		}
	}
}

func TestUpdateForm_ChangesOnlySubmittedFields(t *testing.T) {
	stored := &data.Book{
		ID:          7,
		Title:       "Dune",
		Author:      "Frank Herbert",
		Year:        2005,
		IsAvailable: true,
		Category:    data.CategoryFiction,
		Description: "Spice.",
	}

	form := books.NewUpdateForm(url.Values{"author": {"F. Herbert"}, "is_available": {"on"}}, stored, nil)
	if !form.IsValid() {
		t.Fatalf("expected valid form, errors: %v", form.Errors())
	}

	want := *stored
	want.Author = "F. Herbert"
	if diff := cmp.Diff(&want, form.Book(), ignoreTimestamps); diff != "" {
		t.Fatalf("book mismatch (-want +got):\n%s", diff)
	}
	if stored.Author != "Frank Herbert" {
		t.Fatalf("stored instance was modified")
	}

	unchecked := books.NewUpdateForm(url.Values{"title": {"Dune"}}, stored, nil)
	if !unchecked.IsValid() {
		t.Fatalf("expected valid form, errors: %v", unchecked.Errors())
	}
	if unchecked.Book().IsAvailable {
		t.Fatalf("omitted checkbox must clear availability")
	}
}

func TestUpdateForm_UnboundShowsInstance(t *testing.T) {
	stored := &data.Book{ID: 1, Title: "Emma", Author: "Jane Austen", Year: 2003, Category: data.CategoryNonFiction}
	form := books.NewUpdateForm(nil, stored, nil)

	if got := form.Field("title").Value(); got != "Emma" {
		t.Fatalf("title value = %v", got)
	}
	if got := form.Field("year").Value(); got != 2003 {
		t.Fatalf("year value = %v", got)
	}
	if !strings.Contains(form.Field("category").AsWidget(), `<option value="NF" selected>`) {
		t.Fatalf("stored category not selected")
	}
}
