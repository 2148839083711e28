package render_test

import (
	"bytes"
	"net/url"
	"strings"
	"testing"
	"testing/fstest"

	"github.com/aoideee/bootstrap-forms/internal/forms"
	"github.com/aoideee/bootstrap-forms/internal/render"
)

func newEngine(t *testing.T, opts ...render.Option) *render.Engine {
	t.Helper()
	engine, err := render.New(opts...)
	if err != nil {
		t.Fatalf("new engine: %v", err)
	}
	return engine
}

func TestEngine_RenderTemplateFromFS(t *testing.T) {
	files := fstest.MapFS{
		"hello.html": {Data: []byte(`Hello {{ name }} from {{ site }}`)},
	}
	engine := newEngine(t, render.WithFS(files), render.WithGlobalData(map[string]any{"site": "books"}))

	got, err := engine.RenderTemplate("hello.html", map[string]any{"name": "Ada"})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if want := "Hello Ada from books"; got != want {
		t.Fatalf("render mismatch\nwant: %q\n got: %q", want, got)
	}
}

func TestEngine_AutoescapesAndSanitizes(t *testing.T) {
	files := fstest.MapFS{
		"escape.html":   {Data: []byte(`{{ value }}`)},
		"sanitize.html": {Data: []byte(`{{ value|linebreaksbr|sanitize }}`)},
	}
	engine := newEngine(t, render.WithFS(files))
	input := "<b>bold</b>\n<script>alert(1)</script>"

	escaped, err := engine.RenderTemplate("escape.html", map[string]any{"value": input})
	if err != nil {
		t.Fatalf("render escape: %v", err)
	}
	if strings.Contains(escaped, "<b>") {
		t.Fatalf("expected autoescaped output, got %q", escaped)
	}

	sanitized, err := engine.RenderTemplate("sanitize.html", map[string]any{"value": input})
	if err != nil {
		t.Fatalf("render sanitize: %v", err)
	}
	if !strings.Contains(sanitized, "<b>bold</b>") {
		t.Fatalf("expected safe markup to survive, got %q", sanitized)
	}
	if strings.Contains(sanitized, "<script") {
		t.Fatalf("expected script to be stripped, got %q", sanitized)
	}
	if !strings.Contains(sanitized, "<br") {
		t.Fatalf("expected line break, got %q", sanitized)
	}
}

func TestSanitize(t *testing.T) {
	if got := render.Sanitize(`<a href="javascript:alert(1)">x</a><i>ok</i>`); strings.Contains(got, "javascript") || !strings.Contains(got, "<i>ok</i>") {
		t.Fatalf("unexpected sanitized output %q", got)
	}
	if got := render.Sanitize("   "); got != "" {
		t.Fatalf("expected empty output, got %q", got)
	}
}

func TestEngine_MissingTemplate(t *testing.T) {
	engine := newEngine(t, render.WithFS(fstest.MapFS{}))

	var buf bytes.Buffer
	if err := engine.Render(&buf, "missing.html", nil); err == nil {
		t.Fatalf("expected error for missing template")
	}
	if buf.Len() != 0 {
		t.Fatalf("expected nothing written, got %q", buf.String())
	}
}

func TestEngine_EmbeddedTemplatesParse(t *testing.T) {
	engine := newEngine(t)

	pages := map[string]map[string]any{
		"landing/book_list.html": {"books": nil, "metadata": map[string]any{}},
		"landing/book_form.html": {"heading": "Add book", "action": "/new/", "fields": []string{"<input>"}},
		"errors/error.html":      {"status": 404, "status_text": "Not Found", "message": "gone"},
	}
	for name, data := range pages {
		out, err := engine.RenderTemplate(name, data)
		if err != nil {
			t.Fatalf("render %s: %v", name, err)
		}
		if !strings.Contains(out, "<!doctype html>") {
			t.Fatalf("%s does not extend the base layout", name)
		}
	}
}

func TestEngine_RendersBootstrapFields(t *testing.T) {
	engine := newEngine(t)
	declared := []forms.Declared{
		{Name: "author", Field: forms.BootstrapCharField(forms.Options{HelpText: "the author"})},
		{Name: "is_available", Field: forms.BootstrapBooleanField(forms.Options{})},
	}

	unbound := forms.New(declared, forms.WithRenderer(engine))
	fields, err := unbound.RenderFields()
	if err != nil {
		t.Fatalf("render unbound: %v", err)
	}
	author := fields[0]
	for _, want := range []string{
		`<div class="mb-3">`,
		`<label class="form-label" for="id_author">Author:</label>`,
		`class="form-control"`,
		`<div class="form-text">the author</div>`,
	} {
		if !strings.Contains(author, want) {
			t.Fatalf("author field missing %q:\n%s", want, author)
		}
	}
	if strings.Contains(author, forms.ClassValid) || strings.Contains(author, forms.ClassInvalid) {
		t.Fatalf("unbound field carries a validation class:\n%s", author)
	}
	if !strings.Contains(fields[1], `<div class="form-check">`) {
		t.Fatalf("checkbox not wrapped in form-check:\n%s", fields[1])
	}

	bound := forms.New(declared, forms.WithRenderer(engine), forms.WithData(url.Values{}))
	fields, err = bound.RenderFields()
	if err != nil {
		t.Fatalf("render bound: %v", err)
	}
	if !strings.Contains(fields[0], `class="form-control is-invalid"`) {
		t.Fatalf("expected invalid author:\n%s", fields[0])
	}
	if !strings.Contains(fields[0], `<div class="invalid-feedback">This field is required.</div>`) {
		t.Fatalf("expected required message:\n%s", fields[0])
	}
	if !strings.Contains(fields[1], `class="form-check-input is-valid"`) {
		t.Fatalf("expected valid checkbox:\n%s", fields[1])
	}
}
