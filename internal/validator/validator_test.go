package validator_test

import (
	"regexp"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/aoideee/bootstrap-forms/internal/validator"
)

func TestValidator_AddErrorKeepsEveryDistinctMessage(t *testing.T) {
	v := validator.New()
	v.AddError("title", "first")
	v.AddError("title", "second")
	v.AddError("title", "first")
	v.Check(true, "year", "never recorded")
	v.Check(false, "year", "too small")

	want := map[string][]string{
		"title": {"first", "second"},
		"year":  {"too small"},
	}
	if diff := cmp.Diff(want, v.Errors); diff != "" {
		t.Fatalf("errors mismatch (-want +got):\n%s", diff)
	}
	if v.Valid() {
		t.Fatalf("expected validator to be invalid")
	}
}

func TestValidator_Merge(t *testing.T) {
	v := validator.New()
	v.AddError("title", "a")
	v.Merge(map[string][]string{"title": {"a", "b"}, "author": {"c"}})

	if diff := cmp.Diff([]string{"a", "b"}, v.Get("title")); diff != "" {
		t.Fatalf("title mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"c"}, v.Get("author")); diff != "" {
		t.Fatalf("author mismatch (-want +got):\n%s", diff)
	}
}

func TestHelpers(t *testing.T) {
	if !validator.In("FI", "FI", "NF") {
		t.Fatalf("expected FI to be in list")
	}
	if validator.In("XX", "FI", "NF") {
		t.Fatalf("did not expect XX to be in list")
	}
	if !validator.Matches("Dune", regexp.MustCompile(`^[A-Z]`)) {
		t.Fatalf("expected match")
	}
}

type record struct {
	Title    string `form:"title" validate:"required,max=5"`
	Category string `form:"category" validate:"omitempty,oneof=FI NF"`
	Internal string `form:"-" validate:"max=1"`
}

func TestStruct(t *testing.T) {
	errs, err := validator.Struct(record{Title: "Dune"})
	if err != nil {
		t.Fatalf("struct: %v", err)
	}
	if errs != nil {
		t.Fatalf("expected no errors, got %v", errs)
	}

	errs, err = validator.Struct(record{Title: strings.Repeat("x", 7), Category: "XX"})
	if err != nil {
		t.Fatalf("struct: %v", err)
	}
	want := map[string][]string{
		"title":    {"Ensure this value has at most 5 characters (it has 7)."},
		"category": {`Value "XX" is not a valid choice.`},
	}
	if diff := cmp.Diff(want, errs); diff != "" {
		t.Fatalf("errors mismatch (-want +got):\n%s", diff)
	}

	errs, err = validator.Struct(record{})
	if err != nil {
		t.Fatalf("struct: %v", err)
	}
	if diff := cmp.Diff([]string{"This field is required."}, errs["title"]); diff != "" {
		t.Fatalf("required mismatch (-want +got):\n%s", diff)
	}
}
