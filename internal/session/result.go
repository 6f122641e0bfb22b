package session

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/rnakai/typedrill/internal/scoring"
)

// Result is the outcome of a completed session. Created once at
// completion and immutable afterwards.
type Result struct {
	SessionID         string
	Language          string
	StartedAt         time.Time
	DurationMs        int64
	TotalCharacters   int
	CorrectCharacters int
	AccuracyPercent   float64
	JudgmentValue     float64
	Rank              scoring.Rank
}

// NewResult builds and validates a Result from aggregate counts.
func NewResult(sessionID, language string, startedAt time.Time, durationMs int64, totalChars, correctChars int, judgmentValue float64) (Result, error) {
	if totalChars < 0 || correctChars < 0 {
		return Result{}, fmt.Errorf("negative character counts: total=%d correct=%d", totalChars, correctChars)
	}
	if correctChars > totalChars {
		return Result{}, fmt.Errorf("correct characters (%d) exceed total characters (%d)", correctChars, totalChars)
	}
	if judgmentValue < 0 {
		judgmentValue = 0
	}

	return Result{
		SessionID:         sessionID,
		Language:          language,
		StartedAt:         startedAt,
		DurationMs:        durationMs,
		TotalCharacters:   totalChars,
		CorrectCharacters: correctChars,
		AccuracyPercent:   accuracyPercent(correctChars, totalChars),
		JudgmentValue:     judgmentValue,
		Rank:              scoring.RankFor(judgmentValue),
	}, nil
}

// accuracyPercent computes correct/total*100 rounded to two decimals,
// with a full score reported as exactly 100.
func accuracyPercent(correct, total int) float64 {
	if total == 0 {
		return 0
	}
	if correct == total {
		return 100
	}
	pct := float64(correct) / float64(total) * 100
	return math.Round(pct*100) / 100
}

// SyncOutcome reports where a result ended up after persistence.
type SyncOutcome struct {
	SavedLocally bool
	Synced       bool
}

// ResultSink persists a completed session result. Implemented by the
// resultsync package; the session layer only depends on the contract.
type ResultSink interface {
	Persist(ctx context.Context, result Result) (SyncOutcome, error)
}
