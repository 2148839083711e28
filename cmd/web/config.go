// cmd/web/config.go
// This file defines the server configuration. Every flag takes its default
// from an environment variable so the same binary runs locally with a .env
// file and in containers with plain environment variables.
package main

import (
	"flag"
	"os"
	"strconv"
	"time"

	"github.com/aoideee/bootstrap-forms/internal/data"
)

// serverConfig holds all the values that can be tweaked at startup.
type serverConfig struct {
	port         int           // TCP port the HTTP server listens on (default 4000)
	environment  string        // Runtime environment: development, staging, or production
	debug        bool          // Debug logging and template reloading
	templatesDir string        // Optional directory overriding the embedded templates
	migrate      bool          // Apply pending migrations on startup
	db           data.DBConfig // Driver, DSN and pool settings
	limiter      struct {
		rps     float64 // Requests per second allowed per client IP
		burst   int     // Maximum burst per client IP
		enabled bool    // Turn the limiter off for load tests
	}
}

// loadConfig parses args into a serverConfig. Defaults come from the
// environment, so flags always win over environment variables.
func loadConfig(args []string) (serverConfig, error) {
	var cfg serverConfig

	fs := flag.NewFlagSet("web", flag.ContinueOnError)

	fs.IntVar(&cfg.port, "port", envInt("PORT", 4000), "Server port")
	fs.StringVar(&cfg.environment, "env", envString("ENV", "development"), "Environment (development|staging|production)")
	fs.BoolVar(&cfg.debug, "debug", envBool("DEBUG", false), "Debug logging and template reloading")
	fs.StringVar(&cfg.templatesDir, "templates-dir", envString("TEMPLATES_DIR", ""), "Directory overriding the embedded templates")
	fs.BoolVar(&cfg.migrate, "migrate", envBool("MIGRATE", true), "Apply pending migrations on startup")

	fs.StringVar(&cfg.db.Driver, "db-driver", envString("DB_DRIVER", "sqlite3"), "Database driver (postgres|sqlite3|mysql)")
	fs.StringVar(&cfg.db.DSN, "db-dsn", envString("DB_DSN", "file:books.db?_foreign_keys=on"), "Database DSN")
	fs.IntVar(&cfg.db.MaxOpenConns, "db-max-open-conns", envInt("DB_MAX_OPEN_CONNS", 25), "Database max open connections")
	fs.IntVar(&cfg.db.MaxIdleConns, "db-max-idle-conns", envInt("DB_MAX_IDLE_CONNS", 25), "Database max idle connections")
	fs.DurationVar(&cfg.db.MaxIdleTime, "db-max-idle-time", envDuration("DB_MAX_IDLE_TIME", 15*time.Minute), "Database max connection idle time")

	fs.Float64Var(&cfg.limiter.rps, "limiter-rps", envFloat("LIMITER_RPS", 2), "Rate limiter maximum requests per second")
	fs.IntVar(&cfg.limiter.burst, "limiter-burst", envInt("LIMITER_BURST", 4), "Rate limiter maximum burst")
	fs.BoolVar(&cfg.limiter.enabled, "limiter-enabled", envBool("LIMITER_ENABLED", true), "Enable rate limiter")

	if err := fs.Parse(args); err != nil {
		return serverConfig{}, err
	}
	return cfg, nil
}

func envString(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if n, err := strconv.Atoi(os.Getenv(key)); err == nil {
		return n
	}
	return fallback
}

func envFloat(key string, fallback float64) float64 {
	if f, err := strconv.ParseFloat(os.Getenv(key), 64); err == nil {
		return f
	}
	return fallback
}

func envBool(key string, fallback bool) bool {
	if b, err := strconv.ParseBool(os.Getenv(key)); err == nil {
		return b
	}
	return fallback
}

func envDuration(key string, fallback time.Duration) time.Duration {
	if d, err := time.ParseDuration(os.Getenv(key)); err == nil {
		return d
	}
	return fallback
}
