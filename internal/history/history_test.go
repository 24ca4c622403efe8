package history

import (
	"path/filepath"
	"testing"
	"time"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := New(filepath.Join(t.TempDir(), "history.db"))
	if err != nil {
		t.Fatalf("Failed to open store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestInsertAndRecent(t *testing.T) {
	s := newTestStore(t)
	base := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

	entries := []Record{
		{CreatedAt: base, Origin: "camera", Class: "Apple", Confidence: 3.5, Predictions: map[string]float32{"Apple": 3.5, "Banana": 1, "Orange": 0}},
		{CreatedAt: base.Add(time.Minute), Origin: "gallery", Class: "Banana", Confidence: 7, Predictions: map[string]float32{"Apple": 0, "Banana": 7, "Orange": 2}},
		{CreatedAt: base.Add(2 * time.Minute), Origin: "gallery", Class: "Apple", Confidence: 1, Predictions: map[string]float32{"Apple": 1}},
	}
	for i := range entries {
		id, err := s.Insert(&entries[i])
		if err != nil {
			t.Fatalf("Insert %d failed: %v", i, err)
		}
		if id == 0 || entries[i].ID != id {
			t.Errorf("Expected record ID to be set, got %d / %d", id, entries[i].ID)
		}
	}

	recent, err := s.Recent(2)
	if err != nil {
		t.Fatalf("Recent failed: %v", err)
	}
	if len(recent) != 2 {
		t.Fatalf("Expected 2 records, got %d", len(recent))
	}
	if recent[0].ID != entries[2].ID || recent[1].ID != entries[1].ID {
		t.Errorf("Expected newest first, got IDs %d, %d", recent[0].ID, recent[1].ID)
	}
	if recent[1].Predictions["Banana"] != 7 {
		t.Errorf("Expected predictions to round-trip, got %v", recent[1].Predictions)
	}
	if recent[1].Origin != "gallery" {
		t.Errorf("Expected origin gallery, got %q", recent[1].Origin)
	}

	counts, err := s.Count()
	if err != nil {
		t.Fatalf("Count failed: %v", err)
	}
	if counts["Apple"] != 2 || counts["Banana"] != 1 {
		t.Errorf("Unexpected counts: %v", counts)
	}
}

func TestInsert_DefaultsTimestamp(t *testing.T) {
	s := newTestStore(t)

	rec := &Record{Origin: "camera", Class: "Orange", Predictions: map[string]float32{}}
	if _, err := s.Insert(rec); err != nil {
		t.Fatal(err)
	}
	if rec.CreatedAt.IsZero() {
		t.Error("Expected CreatedAt to be filled in")
	}
}

func TestRecent_Empty(t *testing.T) {
	s := newTestStore(t)

	recent, err := s.Recent(0)
	if err != nil {
		t.Fatal(err)
	}
	if len(recent) != 0 {
		t.Errorf("Expected no records, got %d", len(recent))
	}
}
