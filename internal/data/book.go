// Package data provides the data models and database interaction logic
// for the book catalogue.
package data

import (
	"database/sql/driver"
	"fmt"
	"time"

	"github.com/aoideee/bootstrap-forms/internal/validator"
)

// Category is the enumerated genre of a book. The zero value means unset and
// is stored as NULL.
type Category string

const (
	CategoryUnset      Category = ""
	CategoryFiction    Category = "FI"
	CategoryNonFiction Category = "NF"
)

// CategoryChoice pairs a stored category code with its display label.
type CategoryChoice struct {
	Value Category
	Label string
}

// CategoryChoices lists the selectable categories in display order.
var CategoryChoices = []CategoryChoice{
	{Value: CategoryFiction, Label: "fiction"},
	{Value: CategoryNonFiction, Label: "non-fiction"},
}

// Label returns the human readable name of c, or "" when c is unset or unknown.
func (c Category) Label() string {
	for _, choice := range CategoryChoices {
		if choice.Value == c {
			return choice.Label
		}
	}
	return ""
}

// Value implements driver.Valuer.
func (c Category) Value() (driver.Value, error) {
	if c == CategoryUnset {
		return nil, nil
	}
	return string(c), nil
}

// Scan implements sql.Scanner.
func (c *Category) Scan(src any) error {
	switch v := src.(type) {
	case nil:
		*c = CategoryUnset
	case string:
		*c = Category(v)
	case []byte:
		*c = Category(v)
	default:
		return fmt.Errorf("data: cannot scan %T into Category", src)
	}
	return nil
}

// Book represents a single book record stored in the database.
// It maps directly to a row in the "books" table.
type Book struct {
	ID          int64     `json:"id"           form:"-"`
	Title       string    `json:"title"        form:"title"        validate:"max=255"`
	Author      string    `json:"author"       form:"author"       validate:"max=255"`
	Year        int       `json:"year"         form:"year"         validate:"min=-2147483648,max=2147483647"`
	IsAvailable bool      `json:"is_available" form:"is_available"`
	Category    Category  `json:"category"     form:"category"     validate:"omitempty,oneof=FI NF"`
	Description string    `json:"description"  form:"description"`
	CreatedAt   time.Time `json:"created_at"   form:"-"`
	UpdatedAt   time.Time `json:"updated_at"   form:"-"`
}

// Validate checks the column-level constraints of the books table. Failures
// are keyed by form field name; a nil map means b can be stored.
func (b *Book) Validate() (map[string][]string, error) {
	return validator.Struct(b)
}
