package data

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"math"
	"strings"
	"time"
)

// Models is a top-level container that groups all database model types together.
type Models struct {
	Books BookModel
}

// NewModels constructs a Models value wired up to the given database
// connection pool and dialect.
func NewModels(db *sql.DB, dialect Dialect) Models {
	return Models{
		Books: BookModel{DB: db, Dialect: dialect},
	}
}

// ErrRecordNotFound is returned when a query finds no matching row.
var ErrRecordNotFound = errors.New("record not found")

// BookSortSafeList holds the sort values accepted by the list page.
var BookSortSafeList = []string{"id", "title", "author", "year", "-id", "-title", "-author", "-year"}

// Filters holds pagination and sorting parameters extracted from URL query strings.
type Filters struct {
	Page         int      // Current page number (1-indexed)
	PageSize     int      // Number of records per page
	Sort         string   // Column name to sort by (prefix with "-" for DESC)
	SortSafeList []string // Allowed sort columns to prevent SQL injection
}

// Normalize clamps Page and PageSize into usable ranges.
func (f *Filters) Normalize() {
	if f.Page < 1 {
		f.Page = 1
	}
	if f.Page > 10_000_000 {
		f.Page = 10_000_000
	}
	if f.PageSize < 1 || f.PageSize > 100 {
		f.PageSize = 25
	}
}

// sortColumn returns the validated column name for ORDER BY, defaulting to id.
func (f Filters) sortColumn() string {
	for _, safe := range f.SortSafeList {
		if f.Sort == safe {
			return strings.TrimPrefix(f.Sort, "-")
		}
	}
	return "id"
}

// sortDirection returns "ASC" or "DESC" based on the Sort prefix.
func (f Filters) sortDirection() string {
	if strings.HasPrefix(f.Sort, "-") {
		return "DESC"
	}
	return "ASC"
}

func (f Filters) limit() int  { return f.PageSize }
func (f Filters) offset() int { return (f.Page - 1) * f.PageSize }

// Metadata contains pagination information returned alongside list results.
type Metadata struct {
	CurrentPage  int `json:"current_page,omitempty"`
	PageSize     int `json:"page_size,omitempty"`
	FirstPage    int `json:"first_page,omitempty"`
	LastPage     int `json:"last_page,omitempty"`
	TotalRecords int `json:"total_records,omitempty"`
}

// HasPrevious reports whether a page before CurrentPage exists.
func (m Metadata) HasPrevious() bool { return m.CurrentPage > m.FirstPage }

// HasNext reports whether a page after CurrentPage exists.
func (m Metadata) HasNext() bool { return m.CurrentPage < m.LastPage }

func calculateMetadata(totalRecords, page, pageSize int) Metadata {
	if totalRecords == 0 {
		return Metadata{}
	}
	return Metadata{
		CurrentPage:  page,
		PageSize:     pageSize,
		FirstPage:    1,
		LastPage:     int(math.Ceil(float64(totalRecords) / float64(pageSize))),
		TotalRecords: totalRecords,
	}
}

// BookModel wraps a *sql.DB connection and provides methods for
// creating, reading and updating book records.
type BookModel struct {
	DB      *sql.DB
	Dialect Dialect
}

const bookColumns = `id, title, author, year, is_available, category, description, created_at, updated_at`

// Insert adds a new book record to the database. The generated id and the
// timestamps are written back into book.
func (m BookModel) Insert(ctx context.Context, book *Book) error {
	now := time.Now().UTC().Truncate(time.Second)

	query := `
		INSERT INTO books (title, author, year, is_available, category, description, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`
	args := []any{
		book.Title,
		book.Author,
		book.Year,
		book.IsAvailable,
		book.Category,
		book.Description,
		now,
		now,
	}

	if m.Dialect.returning {
		err := m.DB.QueryRowContext(ctx, m.Dialect.Rebind(query+` RETURNING id`), args...).Scan(&book.ID)
		if err != nil {
			return fmt.Errorf("insert book: %w", err)
		}
	} else {
		result, err := m.DB.ExecContext(ctx, m.Dialect.Rebind(query), args...)
		if err != nil {
			return fmt.Errorf("insert book: %w", err)
		}
		book.ID, err = result.LastInsertId()
		if err != nil {
			return fmt.Errorf("insert book: last insert id: %w", err)
		}
	}

	book.CreatedAt = now
	book.UpdatedAt = now
	return nil
}

// Get retrieves a single book by its primary key.
// Returns ErrRecordNotFound if no book with the given id exists.
func (m BookModel) Get(ctx context.Context, id int64) (*Book, error) {
	if id < 1 {
		return nil, ErrRecordNotFound
	}

	query := `SELECT ` + bookColumns + ` FROM books WHERE id = ?`

	var book Book
	err := m.DB.QueryRowContext(ctx, m.Dialect.Rebind(query), id).Scan(
		&book.ID,
		&book.Title,
		&book.Author,
		&book.Year,
		&book.IsAvailable,
		&book.Category,
		&book.Description,
		&book.CreatedAt,
		&book.UpdatedAt,
	)
	if err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			return nil, ErrRecordNotFound
		default:
			return nil, fmt.Errorf("get book %d: %w", id, err)
		}
	}
	return &book, nil
}

// GetAll retrieves a paginated, sorted list of books.
// It uses a COUNT(*) OVER() window function so only one round-trip is needed.
func (m BookModel) GetAll(ctx context.Context, filters Filters) ([]*Book, Metadata, error) {
	filters.Normalize()

	query := fmt.Sprintf(`
		SELECT count(*) OVER(), %s
		FROM books
		ORDER BY %s %s, id ASC
		LIMIT ? OFFSET ?`, bookColumns, filters.sortColumn(), filters.sortDirection())

	rows, err := m.DB.QueryContext(ctx, m.Dialect.Rebind(query), filters.limit(), filters.offset())
	if err != nil {
		return nil, Metadata{}, fmt.Errorf("list books: %w", err)
	}
	defer rows.Close()

	totalRecords := 0
	books := []*Book{}

	for rows.Next() {
		var book Book
		err := rows.Scan(
			&totalRecords,
			&book.ID,
			&book.Title,
			&book.Author,
			&book.Year,
			&book.IsAvailable,
			&book.Category,
			&book.Description,
			&book.CreatedAt,
			&book.UpdatedAt,
		)
		if err != nil {
			return nil, Metadata{}, fmt.Errorf("list books: scan: %w", err)
		}
		books = append(books, &book)
	}

	if err = rows.Err(); err != nil {
		return nil, Metadata{}, fmt.Errorf("list books: %w", err)
	}

	metadata := calculateMetadata(totalRecords, filters.Page, filters.PageSize)
	return books, metadata, nil
}

// Update saves every column of book back to the database and refreshes
// UpdatedAt. Returns ErrRecordNotFound when no row has book.ID.
func (m BookModel) Update(ctx context.Context, book *Book) error {
	now := time.Now().UTC().Truncate(time.Second)

	query := `
		UPDATE books
		SET title = ?, author = ?, year = ?, is_available = ?, category = ?,
		    description = ?, updated_at = ?
		WHERE id = ?`

	args := []any{
		book.Title,
		book.Author,
		book.Year,
		book.IsAvailable,
		book.Category,
		book.Description,
		now,
		book.ID,
	}

	result, err := m.DB.ExecContext(ctx, m.Dialect.Rebind(query), args...)
	if err != nil {
		return fmt.Errorf("update book %d: %w", book.ID, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("update book %d: %w", book.ID, err)
	}
	// MySQL reports zero affected rows when nothing changed, so confirm the
	// row exists before calling it missing.
	if rowsAffected == 0 {
		if _, err := m.Get(ctx, book.ID); err != nil {
			return err
		}
	}

	book.UpdatedAt = now
	return nil
}
