// Package main is the entry point for the book catalogue web server.
// It wires together configuration, the database connection, the template
// engine and the HTTP router.
package main

import (
	"errors"
	"flag"
	"log/slog"
	"os"

	"github.com/joho/godotenv"

	"github.com/aoideee/bootstrap-forms/internal/data"
	"github.com/aoideee/bootstrap-forms/internal/render"

	_ "github.com/go-sql-driver/mysql" // Register the MySQL driver with database/sql.
	_ "github.com/lib/pq"              // Register the PostgreSQL driver with database/sql.
	_ "github.com/mattn/go-sqlite3"    // Register the SQLite driver with database/sql.
)

// appVersion is the current version of the server, shown in logs.
const appVersion = "1.0.0"

// applicationDependencies bundles every shared resource that HTTP handlers need.
// A pointer to this struct is passed as the receiver on all handler and route methods.
type applicationDependencies struct {
	config    serverConfig   // Server configuration loaded from flags and the environment
	logger    *slog.Logger   // Structured logger that writes to stdout
	models    data.Models    // Database model layer for all tables
	templates *render.Engine // Page and form-field templates
}

// main is the application entry point.
// It loads configuration, opens the database, wires up dependencies, and starts the HTTP server.
func main() {
	// A missing .env file is fine; the process environment is used as-is.
	envErr := godotenv.Load()

	settings, err := loadConfig(os.Args[1:])
	if errors.Is(err, flag.ErrHelp) {
		os.Exit(0)
	}
	if err != nil {
		os.Exit(2) // The flag set has already printed the problem.
	}

	logger := newLogger(settings)
	if envErr == nil {
		logger.Debug("loaded .env file")
	}

	if err := run(settings, logger); err != nil {
		logger.Error(err.Error())
		os.Exit(1)
	}
}

// run opens the database, optionally applies migrations, and serves until shutdown.
func run(settings serverConfig, logger *slog.Logger) error {
	db, dialect, err := data.OpenDB(settings.db)
	if err != nil {
		return err
	}
	defer db.Close() // Close the pool cleanly when run() returns.

	logger.Info("database connection pool established", "driver", dialect.Driver)

	if settings.migrate {
		if err := data.MigrateUp(db, dialect, logger); err != nil {
			return err
		}
		logger.Info("database migrations applied")
	}

	templates, err := newTemplates(settings)
	if err != nil {
		return err
	}

	app := &applicationDependencies{
		config:    settings,
		logger:    logger,
		models:    data.NewModels(db, dialect),
		templates: templates,
	}

	return app.serve()
}

// newLogger creates a structured logger. Debug mode lowers the level so the
// per-request field dumps are visible.
func newLogger(settings serverConfig) *slog.Logger {
	level := slog.LevelInfo
	if settings.debug {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: level})).
		With("version", appVersion)
}

// newTemplates builds the template engine. A templates directory, when set,
// overrides the embedded templates file by file.
func newTemplates(settings serverConfig) (*render.Engine, error) {
	opts := []render.Option{
		render.WithDebug(settings.debug),
		render.WithGlobalData(map[string]any{
			"app_name":    "Books",
			"environment": settings.environment,
		}),
	}
	if settings.templatesDir != "" {
		opts = append(opts, render.WithDir(settings.templatesDir))
	}
	return render.New(opts...)
}
