package store

import (
	"context"
	"fmt"
	"time"
)

// ResultRecord is one persisted session result row.
type ResultRecord struct {
	ID              int64
	SessionID       string
	Language        string
	StartedAt       time.Time
	DurationMs      int64
	TotalChars      int
	CorrectChars    int
	AccuracyPercent float64
	JudgmentValue   float64
	Rank            string
	Synced          bool
	CreatedAt       time.Time
}

// InsertResult appends a session result to the local buffer, unsynced.
// Failures are wrapped in *ErrStorageWrite.
func (s *Store) InsertResult(ctx context.Context, rec ResultRecord) (int64, error) {
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO typing_results
			(session_id, language, started_at, duration_ms, total_chars, correct_chars,
			 accuracy_percent, judgment_value, rank, synced, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, 0, ?)`,
		rec.SessionID,
		rec.Language,
		rec.StartedAt.Format(time.RFC3339Nano),
		rec.DurationMs,
		rec.TotalChars,
		rec.CorrectChars,
		rec.AccuracyPercent,
		rec.JudgmentValue,
		rec.Rank,
		time.Now().Format(time.RFC3339Nano),
	)
	if err != nil {
		return 0, &ErrStorageWrite{Op: "insert result", Err: err}
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, &ErrStorageWrite{Op: "insert result", Err: err}
	}
	return id, nil
}

// MarkSynced flags a buffered result as forwarded to the backend.
func (s *Store) MarkSynced(ctx context.Context, id int64) error {
	if _, err := s.db.ExecContext(ctx,
		`UPDATE typing_results SET synced = 1 WHERE id = ?`, id); err != nil {
		return &ErrStorageWrite{Op: "mark synced", Err: err}
	}
	return nil
}

// ListUnsynced returns buffered results not yet forwarded, oldest first.
func (s *Store) ListUnsynced(ctx context.Context) ([]ResultRecord, error) {
	return s.queryResults(ctx,
		`SELECT id, session_id, language, started_at, duration_ms, total_chars, correct_chars,
			accuracy_percent, judgment_value, rank, synced, created_at
		 FROM typing_results WHERE synced = 0 ORDER BY started_at ASC`)
}

// ListRecent returns the most recent results, newest first. limit <= 0
// returns everything.
func (s *Store) ListRecent(ctx context.Context, limit int) ([]ResultRecord, error) {
	query := `SELECT id, session_id, language, started_at, duration_ms, total_chars, correct_chars,
			accuracy_percent, judgment_value, rank, synced, created_at
		 FROM typing_results ORDER BY started_at DESC`
	if limit > 0 {
		return s.queryResults(ctx, query+` LIMIT ?`, limit)
	}
	return s.queryResults(ctx, query)
}

func (s *Store) queryResults(ctx context.Context, query string, args ...any) ([]ResultRecord, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query results: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var records []ResultRecord
	for rows.Next() {
		var rec ResultRecord
		var startedAt, createdAt string
		var synced int
		if err := rows.Scan(
			&rec.ID, &rec.SessionID, &rec.Language, &startedAt, &rec.DurationMs,
			&rec.TotalChars, &rec.CorrectChars, &rec.AccuracyPercent,
			&rec.JudgmentValue, &rec.Rank, &synced, &createdAt,
		); err != nil {
			return nil, fmt.Errorf("scan result: %w", err)
		}
		rec.Synced = synced != 0
		if t, err := time.Parse(time.RFC3339Nano, startedAt); err == nil {
			rec.StartedAt = t
		}
		if t, err := time.Parse(time.RFC3339Nano, createdAt); err == nil {
			rec.CreatedAt = t
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate results: %w", err)
	}
	return records, nil
}
