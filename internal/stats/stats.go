// Package stats aggregates persisted session results into summary
// figures for the stats command.
package stats

import (
	"math"
	"time"

	"github.com/rnakai/typedrill/internal/store"
)

// Summary is the aggregate view over a set of session results.
type Summary struct {
	Sessions        int
	TotalChars      int
	CorrectChars    int
	TotalDuration   time.Duration
	AvgAccuracy     float64
	BestJudgment    float64
	BestRank        string
	LatestJudgment  float64
	LatestRank      string
	LatestStartedAt time.Time
	Unsynced        int
}

// Summarize reduces records to a Summary. Records may be in any order;
// "latest" is decided by StartedAt.
func Summarize(records []store.ResultRecord) Summary {
	var s Summary
	if len(records) == 0 {
		return s
	}

	var accuracySum float64
	var latest store.ResultRecord
	for _, rec := range records {
		s.Sessions++
		s.TotalChars += rec.TotalChars
		s.CorrectChars += rec.CorrectChars
		s.TotalDuration += time.Duration(rec.DurationMs) * time.Millisecond
		accuracySum += rec.AccuracyPercent
		if !rec.Synced {
			s.Unsynced++
		}
		if rec.JudgmentValue > s.BestJudgment || s.BestRank == "" {
			s.BestJudgment = rec.JudgmentValue
			s.BestRank = rec.Rank
		}
		if rec.StartedAt.After(latest.StartedAt) || latest.SessionID == "" {
			latest = rec
		}
	}

	s.AvgAccuracy = math.Round(accuracySum/float64(s.Sessions)*100) / 100
	s.LatestJudgment = latest.JudgmentValue
	s.LatestRank = latest.Rank
	s.LatestStartedAt = latest.StartedAt
	return s
}

// ByLanguage groups records by language and summarizes each group.
func ByLanguage(records []store.ResultRecord) map[string]Summary {
	groups := make(map[string][]store.ResultRecord)
	for _, rec := range records {
		groups[rec.Language] = append(groups[rec.Language], rec)
	}
	out := make(map[string]Summary, len(groups))
	for lang, recs := range groups {
		out[lang] = Summarize(recs)
	}
	return out
}
