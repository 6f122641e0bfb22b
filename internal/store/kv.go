package store

import (
	"context"
	"database/sql"
	"errors"
)

// SetKV stores a value under key, replacing any previous value. Failures
// are wrapped in *ErrStorageWrite so callers can log and continue.
func (s *Store) SetKV(ctx context.Context, key, value string) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO kv (key, value) VALUES (?, ?)
		 ON CONFLICT(key) DO UPDATE SET value = excluded.value`,
		key, value)
	if err != nil {
		return &ErrStorageWrite{Op: "set " + key, Err: err}
	}
	return nil
}

// GetKV returns the value for key. A missing key returns ("", false, nil).
func (s *Store) GetKV(ctx context.Context, key string) (string, bool, error) {
	var value string
	err := s.db.QueryRowContext(ctx, `SELECT value FROM kv WHERE key = ?`, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return value, true, nil
}
