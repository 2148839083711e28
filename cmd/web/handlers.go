// cmd/web/handlers.go
// This file contains all HTTP request handlers for the books pages.
// Each handler is a method on *applicationDependencies so it has access
// to the logger, the database models and the templates.
package main

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/aoideee/bootstrap-forms/internal/books"
	"github.com/aoideee/bootstrap-forms/internal/data"
)

// bookRow is one line of the list page.
type bookRow struct {
	ID          int64
	Title       string
	Author      string
	Year        int
	IsAvailable bool
	Category    string
	Description string
}

// listBooksHandler handles GET /.
// It reads ?page, ?page_size and ?sort from the query string and renders one
// page of books.
func (app *applicationDependencies) listBooksHandler(w http.ResponseWriter, r *http.Request) {
	qs := r.URL.Query()
	filters := data.Filters{
		Page:         app.readInt(qs, "page", 1),
		PageSize:     app.readInt(qs, "page_size", 25),
		Sort:         app.readString(qs, "sort", "id"),
		SortSafeList: data.BookSortSafeList,
	}

	list, metadata, err := app.models.Books.GetAll(r.Context(), filters)
	if err != nil {
		app.serverErrorResponse(w, r, err)
		return
	}

	rows := make([]bookRow, 0, len(list))
	for _, b := range list {
		rows = append(rows, bookRow{
			ID:          b.ID,
			Title:       b.Title,
			Author:      b.Author,
			Year:        b.Year,
			IsAvailable: b.IsAvailable,
			Category:    b.Category.Label(),
			Description: b.Description,
		})
	}

	app.render(w, r, http.StatusOK, "landing/book_list.html", map[string]any{
		"books": rows,
		"sort":  filters.Sort,
		"metadata": map[string]any{
			"current_page":  metadata.CurrentPage,
			"last_page":     metadata.LastPage,
			"total_records": metadata.TotalRecords,
			"has_previous":  metadata.HasPrevious(),
			"has_next":      metadata.HasNext(),
			"previous_page": metadata.CurrentPage - 1,
			"next_page":     metadata.CurrentPage + 1,
		},
	})
}

// newBookHandler handles GET /new/ by rendering an unbound creation form.
func (app *applicationDependencies) newBookHandler(w http.ResponseWriter, r *http.Request) {
	form := books.NewCreateForm(nil, app.templates)
	app.renderBookForm(w, r, http.StatusOK, form, "Add book", "/new/")
}

// createBookHandler handles POST /new/.
// A valid submission is inserted and the client is redirected to the list;
// an invalid one is rendered again with its errors and a 422 status.
func (app *applicationDependencies) createBookHandler(w http.ResponseWriter, r *http.Request) {
	values, err := app.readForm(w, r)
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	form := books.NewCreateForm(values, app.templates)
	if !form.IsValid() {
		app.renderBookForm(w, r, http.StatusUnprocessableEntity, form, "Add book", "/new/")
		return
	}

	book := form.Book()
	if err := app.models.Books.Insert(r.Context(), book); err != nil {
		app.serverErrorResponse(w, r, err)
		return
	}

	app.logger.Info("book created", "id", book.ID, "request_id", requestIDFromContext(r.Context()))
	app.redirect(w, r, "/")
}

// editBookHandler handles GET /edit/:id/ by rendering the update form filled
// with the stored book. Responds 404 if the book does not exist.
func (app *applicationDependencies) editBookHandler(w http.ResponseWriter, r *http.Request) {
	book, ok := app.bookFromRequest(w, r)
	if !ok {
		return
	}

	form := books.NewUpdateForm(nil, book, app.templates)
	app.renderBookForm(w, r, http.StatusOK, form, "Edit book", editPath(book.ID))
}

// updateBookHandler handles POST /edit/:id/.
// Only submitted fields change; the rest keep their stored values.
func (app *applicationDependencies) updateBookHandler(w http.ResponseWriter, r *http.Request) {
	book, ok := app.bookFromRequest(w, r)
	if !ok {
		return
	}

	values, err := app.readForm(w, r)
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	form := books.NewUpdateForm(values, book, app.templates)
	if !form.IsValid() {
		app.renderBookForm(w, r, http.StatusUnprocessableEntity, form, "Edit book", editPath(book.ID))
		return
	}

	err = app.models.Books.Update(r.Context(), form.Book())
	if err != nil {
		switch {
		case errors.Is(err, data.ErrRecordNotFound):
			app.notFoundResponse(w, r)
		default:
			app.serverErrorResponse(w, r, err)
		}
		return
	}

	app.logger.Info("book updated", "id", book.ID, "request_id", requestIDFromContext(r.Context()))
	app.redirect(w, r, "/")
}

// bookFromRequest loads the book named by the :id parameter. It writes the
// error response itself and reports false when there is nothing to work on.
func (app *applicationDependencies) bookFromRequest(w http.ResponseWriter, r *http.Request) (*data.Book, bool) {
	id, err := app.readIDParam(r)
	if err != nil {
		app.badRequestResponse(w, r, err)
		return nil, false
	}

	book, err := app.models.Books.Get(r.Context(), id)
	if err != nil {
		switch {
		case errors.Is(err, data.ErrRecordNotFound):
			app.notFoundResponse(w, r)
		default:
			app.serverErrorResponse(w, r, err)
		}
		return nil, false
	}
	return book, true
}

// renderBookForm renders every field of form through its own template and
// places the result in the form page.
func (app *applicationDependencies) renderBookForm(w http.ResponseWriter, r *http.Request, status int, form *books.Form, heading, action string) {
	form.LogFields(app.logger, "bound field")

	fields, err := form.RenderFields()
	if err != nil {
		app.serverErrorResponse(w, r, err)
		return
	}

	app.render(w, r, status, "landing/book_form.html", map[string]any{
		"heading":          heading,
		"action":           action,
		"fields":           fields,
		"non_field_errors": form.NonFieldErrors(),
	})
}

func editPath(id int64) string {
	return fmt.Sprintf("/edit/%d/", id)
}
