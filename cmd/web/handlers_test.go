package main

import (
	"context"
	"database/sql"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"

	"github.com/aoideee/bootstrap-forms/internal/data"
	"github.com/aoideee/bootstrap-forms/internal/render"
)

func newTestApplication(t *testing.T) *applicationDependencies {
	t.Helper()

	dialect, err := data.DialectFor("sqlite3")
	if err != nil {
		t.Fatal(err)
	}
	db, err := sql.Open("sqlite3", ":memory:")
	if err != nil {
		t.Fatal(err)
	}
	// Every connection to :memory: is its own database.
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { db.Close() })

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	if err := data.MigrateUp(db, dialect, logger); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	templates, err := render.New()
	if err != nil {
		t.Fatalf("templates: %v", err)
	}

	return &applicationDependencies{
		logger:    logger,
		models:    data.NewModels(db, dialect),
		templates: templates,
	}
}

func do(t *testing.T, h http.Handler, method, target string, form url.Values) *httptest.ResponseRecorder {
	t.Helper()
	var body io.Reader
	if form != nil {
		body = strings.NewReader(form.Encode())
	}
	req := httptest.NewRequest(method, target, body)
	if form != nil {
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	}
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	return rr
}

func validBook() url.Values {
	return url.Values{
		"title":        {"Dune"},
		"author":       {"Frank Herbert"},
		"year":         {"2005"},
		"is_available": {"on"},
		"category":     {"FI"},
		"description":  {"Spice <b>must</b> flow."},
	}
}

var ignoreTimestamps = cmpopts.IgnoreFields(data.Book{}, "CreatedAt", "UpdatedAt")

func TestListBooks_Empty(t *testing.T) {
	app := newTestApplication(t)

	rr := do(t, app.routes(), http.MethodGet, "/", nil)
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d", rr.Code)
	}
	if !strings.Contains(rr.Body.String(), "No books yet.") {
		t.Fatalf("unexpected body:\n%s", rr.Body.String())
	}
	if rr.Header().Get("X-Request-ID") == "" {
		t.Fatalf("missing request id header")
	}
}

func TestNewBookForm(t *testing.T) {
	app := newTestApplication(t)

	rr := do(t, app.routes(), http.MethodGet, "/new/", nil)
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d", rr.Code)
	}
	body := rr.Body.String()
	for _, want := range []string{
		`<label class="more foo bar" for="id_year">Year:</label>`,
		`<input type="number" name="year" value="2000"`,
		`<label class="form-check-label" for="id_is_available">is available for borrowing:</label>`,
		`<option value="">---------</option>`,
		`<textarea name="description"`,
		`<div class="form-text">the author</div>`,
	} {
		if !strings.Contains(body, want) {
			t.Fatalf("form page missing %q:\n%s", want, body)
		}
	}
	if strings.Contains(body, "is-valid") || strings.Contains(body, "is-invalid") {
		t.Fatalf("unbound form carries validation classes")
	}
}

func TestCreateBook(t *testing.T) {
	app := newTestApplication(t)
	routes := app.routes()

	rr := do(t, routes, http.MethodPost, "/new/", validBook())
	if rr.Code != http.StatusSeeOther {
		t.Fatalf("status = %d, body:\n%s", rr.Code, rr.Body.String())
	}
	if got := rr.Header().Get("Location"); got != "/" {
		t.Fatalf("location = %q", got)
	}

	got, err := app.models.Books.Get(context.Background(), 1)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	want := &data.Book{
		ID:          1,
		Title:       "Dune",
		Author:      "Frank Herbert",
		Year:        2005,
		IsAvailable: true,
		Category:    data.CategoryFiction,
		Description: "Spice <b>must</b> flow.",
	}
	if diff := cmp.Diff(want, got, ignoreTimestamps); diff != "" {
		t.Fatalf("stored book mismatch (-want +got):\n%s", diff)
	}

	list := do(t, routes, http.MethodGet, "/", nil)
	body := list.Body.String()
	for _, want := range []string{"<td>Dune</td>", "<td>fiction</td>", "Spice <b>must</b> flow.", `href="/edit/1/"`} {
		if !strings.Contains(body, want) {
			t.Fatalf("list missing %q:\n%s", want, body)
		}
	}
}

func TestCreateBook_Invalid(t *testing.T) {
	cases := []struct {
		name    string
		field   string
		value   string
		message string
	}{
		{"title start", "title", "dune", "This field should starts with an upper case letter."},
		{"title end", "title", "DunE", "This field should ends with a lower case letter."},
		{"year", "year", "1999", "Ensure this value is greater than or equal to 2000."},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			app := newTestApplication(t)
			values := validBook()
			values.Set(tc.field, tc.value)

			rr := do(t, app.routes(), http.MethodPost, "/new/", values)
			if rr.Code != http.StatusUnprocessableEntity {
				t.Fatalf("status = %d", rr.Code)
			}
			body := rr.Body.String()
			if !strings.Contains(body, tc.message) {
				t.Fatalf("missing error message %q:\n%s", tc.message, body)
			}
			if !strings.Contains(body, `id="id_`+tc.field+`"`) || !strings.Contains(body, "is-invalid") {
				t.Fatalf("missing invalid marker:\n%s", body)
			}
			if !strings.Contains(body, `class="form-control is-valid" id="id_author"`) {
				t.Fatalf("valid field lacks valid marker:\n%s", body)
			}

			if _, err := app.models.Books.Get(context.Background(), 1); err == nil {
				t.Fatalf("invalid submission was stored")
			}
		})
	}
}

func TestUpdateBook_ChangesOnlySubmittedFields(t *testing.T) {
	app := newTestApplication(t)
	routes := app.routes()

	if rr := do(t, routes, http.MethodPost, "/new/", validBook()); rr.Code != http.StatusSeeOther {
		t.Fatalf("create status = %d", rr.Code)
	}

	edit := do(t, routes, http.MethodGet, "/edit/1/", nil)
	if edit.Code != http.StatusOK || !strings.Contains(edit.Body.String(), `value="Dune"`) {
		t.Fatalf("edit page status %d:\n%s", edit.Code, edit.Body.String())
	}

	rr := do(t, routes, http.MethodPost, "/edit/1/", url.Values{"author": {"F. Herbert"}, "is_available": {"on"}})
	if rr.Code != http.StatusSeeOther {
		t.Fatalf("update status = %d:\n%s", rr.Code, rr.Body.String())
	}

	got, err := app.models.Books.Get(context.Background(), 1)
	if err != nil {
		t.Fatal(err)
	}
	want := &data.Book{
		ID:          1,
		Title:       "Dune",
		Author:      "F. Herbert",
		Year:        2005,
		IsAvailable: true,
		Category:    data.CategoryFiction,
		Description: "Spice <b>must</b> flow.",
	}
	if diff := cmp.Diff(want, got, ignoreTimestamps); diff != "" {
		t.Fatalf("stored book mismatch (-want +got):\n%s", diff)
	}

	invalid := do(t, routes, http.MethodPost, "/edit/1/", url.Values{"year": {"1999"}})
	if invalid.Code != http.StatusUnprocessableEntity {
		t.Fatalf("invalid update status = %d", invalid.Code)
	}
}

func TestErrorPages(t *testing.T) {
	app := newTestApplication(t)
	routes := app.routes()

	cases := []struct {
		method string
		target string
		status int
	}{
		{http.MethodGet, "/edit/42/", http.StatusNotFound},
		{http.MethodPost, "/edit/42/", http.StatusNotFound},
		{http.MethodGet, "/edit/abc/", http.StatusBadRequest},
		{http.MethodGet, "/missing", http.StatusNotFound},
		{http.MethodDelete, "/", http.StatusMethodNotAllowed},
	}
	for _, tc := range cases {
		rr := do(t, routes, tc.method, tc.target, nil)
		if rr.Code != tc.status {
			t.Fatalf("%s %s status = %d, want %d", tc.method, tc.target, rr.Code, tc.status)
		}
		if !strings.Contains(rr.Body.String(), http.StatusText(tc.status)) {
			t.Fatalf("%s %s body lacks status text:\n%s", tc.method, tc.target, rr.Body.String())
		}
	}
}

func TestRateLimit(t *testing.T) {
	app := newTestApplication(t)
	app.config.limiter.enabled = true
	app.config.limiter.rps = 0.001
	app.config.limiter.burst = 1
	routes := app.routes()

	if rr := do(t, routes, http.MethodGet, "/", nil); rr.Code != http.StatusOK {
		t.Fatalf("first request status = %d", rr.Code)
	}
	if rr := do(t, routes, http.MethodGet, "/", nil); rr.Code != http.StatusTooManyRequests {
		t.Fatalf("second request status = %d", rr.Code)
	}
}

func TestRecoverPanic(t *testing.T) {
	app := newTestApplication(t)
	h := app.recoverPanic(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		panic("boom")
	}))

	rr := do(t, h, http.MethodGet, "/", nil)
	if rr.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d", rr.Code)
	}
	if rr.Header().Get("Connection") != "close" {
		t.Fatalf("expected Connection: close")
	}
}

func TestLoadConfig(t *testing.T) {
	t.Setenv("PORT", "8080")
	t.Setenv("DB_DRIVER", "postgres")
	t.Setenv("LIMITER_ENABLED", "false")

	cfg, err := loadConfig([]string{"-port", "9090"})
	if err != nil {
		t.Fatal(err)
	}
	if cfg.port != 9090 {
		t.Fatalf("flag should win over env, port = %d", cfg.port)
	}
	if cfg.db.Driver != "postgres" {
		t.Fatalf("driver = %q", cfg.db.Driver)
	}
	if cfg.limiter.enabled {
		t.Fatalf("limiter should be disabled")
	}
	if cfg.limiter.burst != 4 || cfg.environment != "development" {
		t.Fatalf("unexpected defaults: %+v", cfg)
	}
}
