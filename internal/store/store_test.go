package store

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func sampleRecord(sessionID string, startedAt time.Time) ResultRecord {
	return ResultRecord{
		SessionID:       sessionID,
		Language:        "HTML",
		StartedAt:       startedAt,
		DurationMs:      600000,
		TotalChars:      250,
		CorrectChars:    240,
		AccuracyPercent: 96,
		JudgmentValue:   24,
		Rank:            "Grade 4",
	}
}

func TestInsertAndListResults(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()
	base := time.Date(2025, time.May, 1, 9, 0, 0, 0, time.UTC)

	for i, id := range []string{"s1", "s2", "s3"} {
		if _, err := s.InsertResult(ctx, sampleRecord(id, base.Add(time.Duration(i)*time.Hour))); err != nil {
			t.Fatalf("insert %s: %v", id, err)
		}
	}

	recent, err := s.ListRecent(ctx, 2)
	if err != nil {
		t.Fatalf("list recent: %v", err)
	}
	if len(recent) != 2 {
		t.Fatalf("got %d records, want 2", len(recent))
	}
	if recent[0].SessionID != "s3" || recent[1].SessionID != "s2" {
		t.Errorf("order %s, %s; want s3, s2", recent[0].SessionID, recent[1].SessionID)
	}
	if !recent[0].StartedAt.Equal(base.Add(2 * time.Hour)) {
		t.Errorf("startedAt = %v, want %v", recent[0].StartedAt, base.Add(2*time.Hour))
	}
	if recent[0].Synced {
		t.Error("fresh record marked synced")
	}
}

func TestInsertResult_DuplicateSessionRejected(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	rec := sampleRecord("dup", time.Now().UTC())
	if _, err := s.InsertResult(ctx, rec); err != nil {
		t.Fatalf("first insert: %v", err)
	}
	_, err := s.InsertResult(ctx, rec)

	var write *ErrStorageWrite
	if !errors.As(err, &write) {
		t.Fatalf("got %v, want *ErrStorageWrite", err)
	}
}

func TestMarkSyncedAndListUnsynced(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()
	base := time.Date(2025, time.May, 1, 9, 0, 0, 0, time.UTC)

	id1, err := s.InsertResult(ctx, sampleRecord("s1", base))
	if err != nil {
		t.Fatal(err)
	}
	if _, err := s.InsertResult(ctx, sampleRecord("s2", base.Add(time.Hour))); err != nil {
		t.Fatal(err)
	}

	if err := s.MarkSynced(ctx, id1); err != nil {
		t.Fatalf("mark synced: %v", err)
	}

	unsynced, err := s.ListUnsynced(ctx)
	if err != nil {
		t.Fatalf("list unsynced: %v", err)
	}
	if len(unsynced) != 1 || unsynced[0].SessionID != "s2" {
		t.Errorf("unsynced = %+v, want only s2", unsynced)
	}
}

func TestKV_RoundTripAndMissing(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	if _, found, err := s.GetKV(ctx, "absent"); err != nil || found {
		t.Errorf("missing key: found=%v err=%v", found, err)
	}

	if err := s.SetKV(ctx, "last-language", "HTML"); err != nil {
		t.Fatalf("set: %v", err)
	}
	if err := s.SetKV(ctx, "last-language", "CSS"); err != nil {
		t.Fatalf("overwrite: %v", err)
	}

	value, found, err := s.GetKV(ctx, "last-language")
	if err != nil || !found {
		t.Fatalf("get: found=%v err=%v", found, err)
	}
	if value != "CSS" {
		t.Errorf("value = %q, want CSS", value)
	}
}
