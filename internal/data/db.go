package data

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database"
	migratemysql "github.com/golang-migrate/migrate/v4/database/mysql"
	migratepostgres "github.com/golang-migrate/migrate/v4/database/postgres"
	migratesqlite "github.com/golang-migrate/migrate/v4/database/sqlite3"
	"github.com/golang-migrate/migrate/v4/source/iofs"
)

//go:embed migrations
var migrationsFS embed.FS

// DBConfig describes the connection pool. Zero values leave the
// database/sql defaults in place.
type DBConfig struct {
	Driver       string
	DSN          string
	MaxOpenConns int
	MaxIdleConns int
	MaxIdleTime  time.Duration
}

// OpenDB opens a connection pool for cfg, then pings the database with a
// 5-second timeout to confirm it is reachable.
func OpenDB(cfg DBConfig) (*sql.DB, Dialect, error) {
	dialect, err := DialectFor(cfg.Driver)
	if err != nil {
		return nil, Dialect{}, err
	}

	// sql.Open only validates the DSN format; it does not actually connect yet.
	db, err := sql.Open(dialect.Driver, cfg.DSN)
	if err != nil {
		return nil, Dialect{}, err
	}

	if cfg.MaxOpenConns > 0 {
		db.SetMaxOpenConns(cfg.MaxOpenConns)
	}
	if cfg.MaxIdleConns > 0 {
		db.SetMaxIdleConns(cfg.MaxIdleConns)
	}
	if cfg.MaxIdleTime > 0 {
		db.SetConnMaxIdleTime(cfg.MaxIdleTime)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, Dialect{}, err
	}

	return db, dialect, nil
}

// NewMigrator returns a migrate instance over the embedded migrations for
// dialect. Closing it also closes db.
func NewMigrator(db *sql.DB, dialect Dialect, logger *slog.Logger) (*migrate.Migrate, error) {
	source, err := iofs.New(migrationsFS, "migrations/"+dialect.Driver)
	if err != nil {
		return nil, fmt.Errorf("migrations source: %w", err)
	}

	var driver database.Driver
	switch dialect.Driver {
	case "postgres":
		driver, err = migratepostgres.WithInstance(db, &migratepostgres.Config{})
	case "sqlite3":
		driver, err = migratesqlite.WithInstance(db, &migratesqlite.Config{})
	case "mysql":
		driver, err = migratemysql.WithInstance(db, &migratemysql.Config{})
	default:
		err = fmt.Errorf("no migration driver for %q", dialect.Driver)
	}
	if err != nil {
		return nil, fmt.Errorf("migrations database: %w", err)
	}

	m, err := migrate.NewWithInstance("iofs", source, dialect.Driver, driver)
	if err != nil {
		return nil, fmt.Errorf("migrations: %w", err)
	}
	if logger != nil {
		m.Log = &migrateLogger{logger: logger}
	}
	return m, nil
}

// MigrateUp applies every pending migration. The migrator is left open
// because closing it would close db.
func MigrateUp(db *sql.DB, dialect Dialect, logger *slog.Logger) error {
	m, err := NewMigrator(db, dialect, logger)
	if err != nil {
		return err
	}
	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("migrations up: %w", err)
	}
	return nil
}

type migrateLogger struct {
	logger *slog.Logger
}

func (l *migrateLogger) Printf(format string, v ...any) {
	l.logger.Info(fmt.Sprintf(format, v...))
}

func (l *migrateLogger) Verbose() bool { return false }
