package history

import (
	"context"
	"fmt"
	"path/filepath"
	"testing"
	"time"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	path := filepath.Join(t.TempDir(), "history.db")
	db, err := OpenDatabaseWithDefaults(path)
	if err != nil {
		t.Fatalf("open database: %v", err)
	}
	if err := Migrate(db); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	s := NewStore(db, nil)
	t.Cleanup(func() { s.Close() })
	return s
}

func entryAt(i int, outcome Outcome) Entry {
	return Entry{
		Timestamp: time.Date(2024, 5, 1, 10, 0, i, 0, time.UTC).Format(time.RFC3339Nano),
		Outcome:   outcome,
		Original:  fmt.Sprintf("file%03d.jpg", i),
		Renamed:   fmt.Sprintf("renamed%03d.jpg", i),
		Caption:   "a caption",
		FileType:  "image",
		Source:    "example.com",
	}
}

func TestRecordAndRecent(t *testing.T) {
	s := newTestStore(t)

	for i := 0; i < 3; i++ {
		if err := s.recordSync(entryAt(i, OutcomeSuccess)); err != nil {
			t.Fatalf("recordSync: %v", err)
		}
	}

	entries, err := s.Recent(context.Background(), 10)
	if err != nil {
		t.Fatalf("Recent: %v", err)
	}
	if len(entries) != 3 {
		t.Fatalf("len(entries) = %d, want 3", len(entries))
	}
	// Newest first.
	if entries[0].Original != "file002.jpg" {
		t.Errorf("entries[0].Original = %q, want file002.jpg", entries[0].Original)
	}
	if entries[0].Outcome != OutcomeSuccess {
		t.Errorf("outcome = %q, want success", entries[0].Outcome)
	}
	if entries[0].Caption != "a caption" {
		t.Errorf("caption = %q", entries[0].Caption)
	}
}

func TestRetentionCap(t *testing.T) {
	s := newTestStore(t)

	for i := 0; i < MaxEntries+20; i++ {
		if err := s.recordSync(entryAt(i, OutcomeSuccess)); err != nil {
			t.Fatalf("recordSync: %v", err)
		}
	}

	entries, err := s.Recent(context.Background(), 0)
	if err != nil {
		t.Fatalf("Recent: %v", err)
	}
	if len(entries) != MaxEntries {
		t.Fatalf("len(entries) = %d, want %d", len(entries), MaxEntries)
	}
	// Oldest surviving entry is number 20; entries 0..19 were evicted.
	oldest := entries[len(entries)-1]
	if oldest.Original != "file020.jpg" {
		t.Errorf("oldest entry = %q, want file020.jpg", oldest.Original)
	}

	// Counters survive eviction.
	stats, err := s.Stats(context.Background())
	if err != nil {
		t.Fatalf("Stats: %v", err)
	}
	if stats.TotalRenames != MaxEntries+20 {
		t.Errorf("TotalRenames = %d, want %d", stats.TotalRenames, MaxEntries+20)
	}
}

func TestStatsPerOutcome(t *testing.T) {
	s := newTestStore(t)

	outcomes := []Outcome{
		OutcomeSuccess, OutcomeSuccess, OutcomeSuccess,
		OutcomeFailure, OutcomeFailure,
		OutcomeSkipped,
	}
	for i, o := range outcomes {
		if err := s.recordSync(entryAt(i, o)); err != nil {
			t.Fatalf("recordSync: %v", err)
		}
	}

	stats, err := s.Stats(context.Background())
	if err != nil {
		t.Fatalf("Stats: %v", err)
	}
	if stats.TotalRenames != 6 || stats.Successful != 3 || stats.Failed != 2 || stats.Skipped != 1 {
		t.Errorf("stats = %+v, want 6/3/2/1", stats)
	}
	if stats.BySource["example.com"] != 6 {
		t.Errorf("BySource[example.com] = %d, want 6", stats.BySource["example.com"])
	}
}

func TestRecordAsyncDrainsOnClose(t *testing.T) {
	path := filepath.Join(t.TempDir(), "history.db")
	db, err := OpenDatabaseWithDefaults(path)
	if err != nil {
		t.Fatalf("open database: %v", err)
	}
	if err := Migrate(db); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	s := NewStore(db, nil)

	for i := 0; i < 10; i++ {
		s.Record(entryAt(i, OutcomeSuccess))
	}
	if err := s.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	// Reopen and verify every queued entry was flushed.
	db2, err := OpenDatabaseWithDefaults(path)
	if err != nil {
		t.Fatalf("reopen database: %v", err)
	}
	s2 := NewStore(db2, nil)
	defer s2.Close()

	entries, err := s2.Recent(context.Background(), 0)
	if err != nil {
		t.Fatalf("Recent: %v", err)
	}
	if len(entries) != 10 {
		t.Errorf("len(entries) = %d, want 10", len(entries))
	}
}

func TestRecordFillsTimestamp(t *testing.T) {
	s := newTestStore(t)

	s.Record(Entry{Outcome: OutcomeSkipped, Original: "x.pdf", FileType: "pdf"})
	s.writer.stop() // force drain before reading

	entries, err := s.Recent(context.Background(), 1)
	if err != nil {
		t.Fatalf("Recent: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("len(entries) = %d, want 1", len(entries))
	}
	if _, err := time.Parse(time.RFC3339Nano, entries[0].Timestamp); err != nil {
		t.Errorf("timestamp %q is not RFC3339: %v", entries[0].Timestamp, err)
	}
}

func TestRecentLimit(t *testing.T) {
	s := newTestStore(t)
	for i := 0; i < 8; i++ {
		if err := s.recordSync(entryAt(i, OutcomeSuccess)); err != nil {
			t.Fatalf("recordSync: %v", err)
		}
	}

	entries, err := s.Recent(context.Background(), 5)
	if err != nil {
		t.Fatalf("Recent: %v", err)
	}
	if len(entries) != 5 {
		t.Errorf("len(entries) = %d, want 5", len(entries))
	}
}
