// Command bookctl manages the book catalogue database from the command line:
// schema migrations, YAML seeding and interactive entry of single books.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"

	"github.com/golang-migrate/migrate/v4"
	"github.com/joho/godotenv"

	"github.com/aoideee/bootstrap-forms/internal/data"

	_ "github.com/go-sql-driver/mysql"
	_ "github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"
)

var errUsage = errors.New("usage")

func main() {
	_ = godotenv.Load()
	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))

	err := run(context.Background(), os.Args[1:], os.Stdout, logger, newSurveyPrompter())
	switch {
	case err == nil:
	case errors.Is(err, errUsage), errors.Is(err, flag.ErrHelp):
		usage()
		os.Exit(2)
	default:
		logger.Error(err.Error())
		os.Exit(1)
	}
}

func run(ctx context.Context, args []string, out io.Writer, logger *slog.Logger, p prompter) error {
	var cfg data.DBConfig

	fs := flag.NewFlagSet("bookctl", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	fs.StringVar(&cfg.Driver, "db-driver", envString("DB_DRIVER", "sqlite3"), "Database driver (postgres|sqlite3|mysql)")
	fs.StringVar(&cfg.DSN, "db-dsn", envString("DB_DSN", "file:books.db?_foreign_keys=on"), "Database DSN")
	if err := fs.Parse(args); err != nil {
		return err
	}
	args = fs.Args()
	if len(args) == 0 {
		return errUsage
	}

	db, dialect, err := data.OpenDB(cfg)
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	defer db.Close()

	switch args[0] {
	case "migrate":
		m, err := data.NewMigrator(db, dialect, logger)
		if err != nil {
			return err
		}
		return runMigrate(m, args[1:], out, logger)

	case "seed":
		return runSeed(ctx, data.NewModels(db, dialect), args[1:], out)

	case "add":
		book, err := askBook(p, out)
		if err != nil {
			return err
		}
		if err := data.NewModels(db, dialect).Books.Insert(ctx, book); err != nil {
			return err
		}
		fmt.Fprintf(out, "added book %d: %s\n", book.ID, book.Title)
		return nil

	default:
		return errUsage
	}
}

// runMigrate does not close m: closing it would close the shared pool.
func runMigrate(m *migrate.Migrate, args []string, out io.Writer, logger *slog.Logger) error {
	if len(args) == 0 {
		return errUsage
	}

	switch args[0] {
	case "up":
		if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
			return fmt.Errorf("up failed: %w", err)
		}
		logger.Info("migrations: up completed")

	case "down":
		steps := 1
		if len(args) > 1 {
			n, err := strconv.Atoi(args[1])
			if err != nil || n < 1 {
				return fmt.Errorf("down: invalid steps argument %q", args[1])
			}
			steps = n
		}
		if err := m.Steps(-steps); err != nil && !errors.Is(err, migrate.ErrNoChange) {
			return fmt.Errorf("down failed: %w", err)
		}
		logger.Info("migrations: down completed", "steps", steps)

	case "version":
		v, dirty, err := m.Version()
		if err != nil && !errors.Is(err, migrate.ErrNilVersion) {
			return fmt.Errorf("version failed: %w", err)
		}
		fmt.Fprintf(out, "version: %d  dirty: %v\n", v, dirty)

	default:
		return errUsage
	}
	return nil
}

func runSeed(ctx context.Context, models data.Models, args []string, out io.Writer) error {
	fs := flag.NewFlagSet("seed", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	file := fs.String("file", "books.yaml", "YAML fixtures file")
	if err := fs.Parse(args); err != nil {
		return err
	}

	f, err := os.Open(*file)
	if err != nil {
		return err
	}
	defer f.Close()

	fixtures, err := data.LoadFixtures(f)
	if err != nil {
		return fmt.Errorf("%s: %w", *file, err)
	}
	n, err := models.Books.Seed(ctx, fixtures)
	if err != nil {
		return fmt.Errorf("seed stopped after %d books: %w", n, err)
	}
	fmt.Fprintf(out, "seeded %d books\n", n)
	return nil
}

func envString(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func usage() {
	fmt.Fprintln(os.Stderr, `Usage: bookctl [flags] <command> [args]

Commands:
  migrate up          Apply all pending migrations
  migrate down [N]    Roll back N migrations (default: 1)
  migrate version     Print the current migration version
  seed -file F        Insert the books listed in a YAML file
  add                 Enter a single book interactively

Flags:
  -db-driver   postgres, sqlite3 or mysql (env DB_DRIVER, default sqlite3)
  -db-dsn      Database DSN (env DB_DSN)`)
}
