package credential

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/ternarybob/arbor"

	"loa-character-lookup/internal/db"
)

// SQLStore keeps the credential in the credentials table created by db.Open.
type SQLStore struct {
	conn   *sql.DB
	driver string
	logger arbor.ILogger
}

// NewSQLStore wraps an open connection. driver selects the placeholder dialect.
func NewSQLStore(conn *sql.DB, driver string, logger arbor.ILogger) *SQLStore {
	return &SQLStore{conn: conn, driver: strings.ToLower(strings.TrimSpace(driver)), logger: logger}
}

func (s *SQLStore) Read(ctx context.Context) (string, error) {
	var value string
	query := fmt.Sprintf(`SELECT value FROM credentials WHERE name = %s`, db.Placeholder(s.driver, 1))
	err := s.conn.QueryRowContext(ctx, query, StorageKey).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("failed to read credential: %w", err)
	}
	return value, nil
}

func (s *SQLStore) Write(ctx context.Context, value string) error {
	query := fmt.Sprintf(`
		INSERT INTO credentials (name, value, updated_at)
		VALUES (%s, %s, %s)
		ON CONFLICT (name)
		DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at
	`, db.Placeholder(s.driver, 1), db.Placeholder(s.driver, 2), db.Placeholder(s.driver, 3))

	if _, err := s.conn.ExecContext(ctx, query, StorageKey, value, time.Now().Unix()); err != nil {
		return fmt.Errorf("failed to write credential: %w", err)
	}
	if s.logger != nil {
		s.logger.Debug().Str("key", StorageKey).Msg("Stored API key")
	}
	return nil
}

func (s *SQLStore) Clear(ctx context.Context) error {
	query := fmt.Sprintf(`DELETE FROM credentials WHERE name = %s`, db.Placeholder(s.driver, 1))
	if _, err := s.conn.ExecContext(ctx, query, StorageKey); err != nil {
		return fmt.Errorf("failed to clear credential: %w", err)
	}
	if s.logger != nil {
		s.logger.Debug().Str("key", StorageKey).Msg("Cleared API key")
	}
	return nil
}
