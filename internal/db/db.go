package db

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	_ "github.com/lib/pq"
	_ "modernc.org/sqlite"
)

const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

// Open connects to the credential database and makes sure the schema exists.
// For sqlite the dsn is a file path; for postgres it is a connection URL
// (DATABASE_URL style).
func Open(ctx context.Context, driver, dsn string) (*sql.DB, error) {
	driver = strings.ToLower(strings.TrimSpace(driver))
	if dsn == "" {
		return nil, fmt.Errorf("database dsn is not set")
	}

	switch driver {
	case DriverSQLite:
		if dsn != ":memory:" {
			if err := os.MkdirAll(filepath.Dir(dsn), 0o755); err != nil {
				return nil, fmt.Errorf("failed to create database directory: %w", err)
			}
		}
	case DriverPostgres:
	default:
		return nil, fmt.Errorf("unsupported database driver %q", driver)
	}

	conn, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if driver == DriverSQLite {
		// a single connection keeps ":memory:" databases alive and serializes writers
		conn.SetMaxOpenConns(1)
	}

	if err := conn.PingContext(ctx); err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	// One row per stored credential, keyed by a fixed identifier.
	_, err = conn.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS credentials (
			name TEXT PRIMARY KEY,
			value TEXT NOT NULL,
			updated_at BIGINT NOT NULL
		)
	`)
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to create credentials table: %w", err)
	}

	return conn, nil
}

// Placeholder returns the n-th (1-based) bind parameter for the driver.
func Placeholder(driver string, n int) string {
	if driver == DriverPostgres {
		return fmt.Sprintf("$%d", n)
	}
	return "?"
}
