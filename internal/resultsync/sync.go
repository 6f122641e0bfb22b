// Package resultsync persists session results local-first and forwards
// them to the backend on a best-effort basis.
package resultsync

import (
	"context"
	"log/slog"
	"strings"

	"github.com/rnakai/typedrill/internal/backend"
	"github.com/rnakai/typedrill/internal/session"
	"github.com/rnakai/typedrill/internal/store"
)

// LastLanguageKey is the KV key caching the most recently practiced
// language.
const LastLanguageKey = "last-language"

// Syncer saves results to the local store first, then tries to forward
// them. A backend failure never loses the result; it stays buffered
// unsynced for a later flush.
type Syncer struct {
	Store  *store.Store
	Client backend.Client
	Logger *slog.Logger
}

var _ session.ResultSink = (*Syncer)(nil)

// NewSyncer wires a Syncer. Client may be nil for offline use.
func NewSyncer(st *store.Store, client backend.Client, logger *slog.Logger) *Syncer {
	if logger == nil {
		logger = slog.Default()
	}
	return &Syncer{Store: st, Client: client, Logger: logger}
}

// Persist writes the result locally and then attempts one backend
// forward. The returned outcome reports both halves independently; an
// error is only returned when the local write itself failed.
func (s *Syncer) Persist(ctx context.Context, result session.Result) (session.SyncOutcome, error) {
	id, err := s.Store.InsertResult(ctx, store.ResultRecord{
		SessionID:       result.SessionID,
		Language:        result.Language,
		StartedAt:       result.StartedAt,
		DurationMs:      result.DurationMs,
		TotalChars:      result.TotalCharacters,
		CorrectChars:    result.CorrectCharacters,
		AccuracyPercent: result.AccuracyPercent,
		JudgmentValue:   result.JudgmentValue,
		Rank:            result.Rank.String(),
	})
	if err != nil {
		s.Logger.Error("local result write failed", "session", result.SessionID, "reason", err.Error())
		return session.SyncOutcome{}, err
	}
	outcome := session.SyncOutcome{SavedLocally: true}

	// Remember the last practiced language so the next session can
	// default to it. Multi-language sessions record a joined name that is
	// no use as a default, so only single-language runs are cached. Best
	// effort either way.
	if !strings.Contains(result.Language, ",") {
		if err := s.Store.SetKV(ctx, LastLanguageKey, result.Language); err != nil {
			s.Logger.Warn("last-language cache write failed", "reason", err.Error())
		}
	}

	if s.Client == nil {
		return outcome, nil
	}

	if err := s.Client.PostResult(ctx, payloadFor(result)); err != nil {
		s.Logger.Warn("result sync deferred", "session", result.SessionID, "reason", err.Error())
		return outcome, nil
	}
	if err := s.Store.MarkSynced(ctx, id); err != nil {
		// The backend has the result; the local flag catches up on the
		// next flush at worst.
		s.Logger.Warn("mark synced failed", "session", result.SessionID, "reason", err.Error())
	}
	outcome.Synced = true
	return outcome, nil
}

// FlushUnsynced forwards every buffered unsynced result, oldest first.
// It stops at the first backend failure and returns how many were
// forwarded this call.
func (s *Syncer) FlushUnsynced(ctx context.Context) (int, error) {
	records, err := s.Store.ListUnsynced(ctx)
	if err != nil {
		return 0, err
	}
	if s.Client == nil || len(records) == 0 {
		return 0, nil
	}

	flushed := 0
	for _, rec := range records {
		payload := backend.ResultPayload{
			StartedAt:    rec.StartedAt,
			DurationMs:   rec.DurationMs,
			TotalChars:   rec.TotalChars,
			CorrectChars: rec.CorrectChars,
			Language:     rec.Language,
			Score:        rec.JudgmentValue,
		}
		if err := s.Client.PostResult(ctx, payload); err != nil {
			s.Logger.Warn("flush stopped", "flushed", flushed, "remaining", len(records)-flushed, "reason", err.Error())
			return flushed, err
		}
		if err := s.Store.MarkSynced(ctx, rec.ID); err != nil {
			return flushed, err
		}
		flushed++
	}
	return flushed, nil
}

func payloadFor(result session.Result) backend.ResultPayload {
	return backend.ResultPayload{
		StartedAt:    result.StartedAt,
		DurationMs:   result.DurationMs,
		TotalChars:   result.TotalCharacters,
		CorrectChars: result.CorrectCharacters,
		Language:     result.Language,
		Score:        result.JudgmentValue,
	}
}
