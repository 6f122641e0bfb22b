package stats

import (
	"testing"
	"time"

	"github.com/rnakai/typedrill/internal/store"
)

func record(id, lang string, startedAt time.Time, judgment, accuracy float64, rank string, synced bool) store.ResultRecord {
	return store.ResultRecord{
		SessionID:       id,
		Language:        lang,
		StartedAt:       startedAt,
		DurationMs:      60000,
		TotalChars:      100,
		CorrectChars:    90,
		AccuracyPercent: accuracy,
		JudgmentValue:   judgment,
		Rank:            rank,
		Synced:          synced,
	}
}

func TestSummarize_Empty(t *testing.T) {
	s := Summarize(nil)
	if s.Sessions != 0 || s.TotalChars != 0 {
		t.Errorf("empty summary = %+v", s)
	}
}

func TestSummarize_Aggregates(t *testing.T) {
	base := time.Date(2025, time.May, 1, 9, 0, 0, 0, time.UTC)
	records := []store.ResultRecord{
		record("s1", "HTML", base, 40, 90, "Pre-2", true),
		record("s2", "HTML", base.Add(2*time.Hour), 65, 95, "Pre-1", false),
		record("s3", "CSS", base.Add(time.Hour), 30, 85, "Grade 3", true),
	}

	s := Summarize(records)
	if s.Sessions != 3 {
		t.Errorf("sessions = %d, want 3", s.Sessions)
	}
	if s.TotalChars != 300 || s.CorrectChars != 270 {
		t.Errorf("chars = %d/%d, want 270/300", s.CorrectChars, s.TotalChars)
	}
	if s.TotalDuration != 3*time.Minute {
		t.Errorf("duration = %v, want 3m", s.TotalDuration)
	}
	if s.AvgAccuracy != 90 {
		t.Errorf("avg accuracy = %v, want 90", s.AvgAccuracy)
	}
	if s.BestJudgment != 65 || s.BestRank != "Pre-1" {
		t.Errorf("best = %v (%s), want 65 (Pre-1)", s.BestJudgment, s.BestRank)
	}
	if s.LatestJudgment != 65 {
		t.Errorf("latest judgment = %v, want 65 from s2", s.LatestJudgment)
	}
	if s.Unsynced != 1 {
		t.Errorf("unsynced = %d, want 1", s.Unsynced)
	}
}

func TestSummarize_LatestByStartTimeNotOrder(t *testing.T) {
	base := time.Date(2025, time.May, 1, 9, 0, 0, 0, time.UTC)
	records := []store.ResultRecord{
		record("newest", "HTML", base.Add(time.Hour), 50, 92, "Grade 2", true),
		record("oldest", "HTML", base, 70, 98, "Grade 1", true),
	}

	s := Summarize(records)
	if s.LatestJudgment != 50 {
		t.Errorf("latest judgment = %v, want 50 from the newest session", s.LatestJudgment)
	}
	if s.BestJudgment != 70 {
		t.Errorf("best judgment = %v, want 70", s.BestJudgment)
	}
}

func TestByLanguage(t *testing.T) {
	base := time.Date(2025, time.May, 1, 9, 0, 0, 0, time.UTC)
	records := []store.ResultRecord{
		record("s1", "HTML", base, 40, 90, "Pre-2", true),
		record("s2", "HTML", base.Add(time.Hour), 50, 92, "Grade 2", true),
		record("s3", "CSS", base, 30, 85, "Grade 3", true),
	}

	groups := ByLanguage(records)
	if len(groups) != 2 {
		t.Fatalf("got %d groups, want 2", len(groups))
	}
	if groups["HTML"].Sessions != 2 || groups["CSS"].Sessions != 1 {
		t.Errorf("groups = %+v", groups)
	}
	if groups["HTML"].BestJudgment != 50 {
		t.Errorf("HTML best = %v, want 50", groups["HTML"].BestJudgment)
	}
}
