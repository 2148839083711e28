// cmd/web/routes.go
package main

import (
	"net/http"

	"github.com/julienschmidt/httprouter"
)

// routes registers all HTTP endpoints and returns the configured router wrapped
// in the recoverPanic, logRequest and rateLimit middlewares.
//
// Middleware chain (outermost → innermost):
//
//	recoverPanic → logRequest → rateLimit → router
//
// Current endpoints:
//
//	GET    /            – list books (paginated, sortable)
//	GET    /new/        – show the book creation form
//	POST   /new/        – create a book
//	GET    /edit/:id/   – show the book update form
//	POST   /edit/:id/   – update a book
func (app *applicationDependencies) routes() http.Handler {
	router := httprouter.New()

	// Override the default httprouter error handlers to render HTML error pages.
	router.NotFound = http.HandlerFunc(app.notFoundResponse)
	router.MethodNotAllowed = http.HandlerFunc(app.methodNotAllowedResponse)

	router.HandlerFunc(http.MethodGet, "/", app.listBooksHandler)
	router.HandlerFunc(http.MethodGet, "/new/", app.newBookHandler)
	router.HandlerFunc(http.MethodPost, "/new/", app.createBookHandler)
	router.HandlerFunc(http.MethodGet, "/edit/:id/", app.editBookHandler)
	router.HandlerFunc(http.MethodPost, "/edit/:id/", app.updateBookHandler)

	return app.recoverPanic(app.logRequest(app.rateLimit(router)))
}
