package data

import (
	"context"
	"errors"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"
)

// BookFixture is the YAML shape of one seeded book.
type BookFixture struct {
	Title       string   `yaml:"title"`
	Author      string   `yaml:"author"`
	Year        int      `yaml:"year"`
	IsAvailable bool     `yaml:"is_available"`
	Category    Category `yaml:"category"`
	Description string   `yaml:"description"`
}

type fixtureFile struct {
	Books []BookFixture `yaml:"books"`
}

// LoadFixtures decodes a YAML document of the form
//
//	books:
//	  - title: Dune
//	    author: Frank Herbert
//	    year: 2005
//	    category: FI
//
// and returns the books it describes. Each book must pass Validate.
func LoadFixtures(r io.Reader) ([]*Book, error) {
	var file fixtureFile
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&file); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("decode fixtures: %w", err)
	}

	books := make([]*Book, 0, len(file.Books))
	for i, fx := range file.Books {
		book := &Book{
			Title:       fx.Title,
			Author:      fx.Author,
			Year:        fx.Year,
			IsAvailable: fx.IsAvailable,
			Category:    fx.Category,
			Description: fx.Description,
		}
		errs, err := book.Validate()
		if err != nil {
			return nil, fmt.Errorf("fixture %d: %w", i, err)
		}
		if errs != nil {
			return nil, fmt.Errorf("fixture %d (%q): invalid: %v", i, fx.Title, errs)
		}
		books = append(books, book)
	}
	return books, nil
}

// Seed inserts books in order and returns how many were stored.
func (m BookModel) Seed(ctx context.Context, books []*Book) (int, error) {
	for i, book := range books {
		if err := m.Insert(ctx, book); err != nil {
			return i, err
		}
	}
	return len(books), nil
}
