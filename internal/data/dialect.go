package data

import (
	"fmt"
	"strconv"
	"strings"
)

// Dialect captures the SQL differences between the supported drivers.
// Queries are written with "?" placeholders and rebound per dialect.
type Dialect struct {
	// Driver is the database/sql driver name: "postgres", "sqlite3" or "mysql".
	Driver string
	// numbered placeholders ($1, $2, ...) instead of "?".
	numbered bool
	// returning reports whether INSERT ... RETURNING is used for new ids.
	returning bool
}

var dialects = map[string]Dialect{
	"postgres": {Driver: "postgres", numbered: true, returning: true},
	"sqlite3":  {Driver: "sqlite3"},
	"mysql":    {Driver: "mysql"},
}

// DialectFor returns the Dialect registered for a database/sql driver name.
func DialectFor(driver string) (Dialect, error) {
	d, ok := dialects[strings.ToLower(strings.TrimSpace(driver))]
	if !ok {
		return Dialect{}, fmt.Errorf("data: unsupported driver %q", driver)
	}
	return d, nil
}

// Rebind rewrites "?" placeholders into the dialect's bind style.
func (d Dialect) Rebind(query string) string {
	if !d.numbered {
		return query
	}

	var b strings.Builder
	b.Grow(len(query) + 8)
	n := 0
	for _, r := range query {
		if r != '?' {
			b.WriteRune(r)
			continue
		}
		n++
		b.WriteByte('$')
		b.WriteString(strconv.Itoa(n))
	}
	return b.String()
}
