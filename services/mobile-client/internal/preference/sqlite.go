package preference

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite"
)

const preferencesSchema = `
CREATE TABLE IF NOT EXISTS preferences (
	pref_key   TEXT PRIMARY KEY,
	pref_value TEXT NOT NULL,
	updated_at INTEGER NOT NULL
)`

// SQLiteStore persists preferences in an on-device SQLite database.
type SQLiteStore struct {
	sqlDB *sql.DB
}

// OpenSQLite opens (creating if needed) the preference database at path.
func OpenSQLite(path string) (*SQLiteStore, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("storage path is required")
	}

	dsn := filepath.Clean(path) + "?_journal_mode=WAL&_busy_timeout=5000&_synchronous=NORMAL"
	sqlDB, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}

	if err := sqlDB.Ping(); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("ping sqlite db: %w", err)
	}

	if _, err := sqlDB.Exec(preferencesSchema); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("create preferences table: %w", err)
	}

	return &SQLiteStore{sqlDB: sqlDB}, nil
}

// Close releases the underlying SQLite connection.
func (s *SQLiteStore) Close() error {
	if s == nil || s.sqlDB == nil {
		return nil
	}
	return s.sqlDB.Close()
}

func (s *SQLiteStore) Get(ctx context.Context, key string) (string, bool, error) {
	if s == nil || s.sqlDB == nil {
		return "", false, unavailable("get preference", errors.New("storage is not configured"))
	}

	var value string
	err := s.sqlDB.QueryRowContext(
		ctx,
		`SELECT pref_value FROM preferences WHERE pref_key = ?`,
		strings.TrimSpace(key),
	).Scan(&value)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", false, nil
		}
		return "", false, unavailable("get preference", err)
	}

	return value, true, nil
}

func (s *SQLiteStore) Set(ctx context.Context, key, value string) error {
	if s == nil || s.sqlDB == nil {
		return unavailable("set preference", errors.New("storage is not configured"))
	}

	_, err := s.sqlDB.ExecContext(
		ctx,
		`INSERT INTO preferences (pref_key, pref_value, updated_at) VALUES (?, ?, ?)
		 ON CONFLICT(pref_key) DO UPDATE SET pref_value = excluded.pref_value, updated_at = excluded.updated_at`,
		strings.TrimSpace(key),
		value,
		time.Now().UTC().UnixMilli(),
	)
	if err != nil {
		return unavailable("set preference", err)
	}

	return nil
}
