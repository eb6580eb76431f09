package csvbackend

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/FranksOps/sift/internal/storage"
)

func TestSaveAndQueryRoundtrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "runs.csv")
	ctx := context.Background()

	b, err := New(path)
	if err != nil {
		t.Fatalf("failed to open backend: %v", err)
	}
	defer b.Close()

	rec := &storage.SelectionRecord{
		ID:             "run-1",
		Topic:          "autoclave",
		Questions:      []string{"question with, a comma?", "高壓滅菌器怎麼保養？"},
		CandidateCount: 12,
		SelectedCount:  2,
		Duration:       250 * time.Millisecond,
		CreatedAt:      time.Date(2026, 8, 20, 9, 30, 0, 0, time.UTC),
	}
	if err := b.Save(ctx, rec); err != nil {
		t.Fatalf("save failed: %v", err)
	}

	got, err := b.Query(ctx, storage.Filter{})
	if err != nil {
		t.Fatalf("query failed: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("got %d records, want 1", len(got))
	}

	r := got[0]
	if r.ID != rec.ID || r.Topic != rec.Topic {
		t.Errorf("identity mismatch: %+v", r)
	}
	if len(r.Questions) != 2 || r.Questions[0] != rec.Questions[0] || r.Questions[1] != rec.Questions[1] {
		t.Errorf("questions mismatch: %v", r.Questions)
	}
	if r.Duration != rec.Duration {
		t.Errorf("duration = %v", r.Duration)
	}
	if !r.CreatedAt.Equal(rec.CreatedAt) {
		t.Errorf("created_at = %v, want %v", r.CreatedAt, rec.CreatedAt)
	}
}

func TestHeaderWrittenOnce(t *testing.T) {
	path := filepath.Join(t.TempDir(), "runs.csv")
	ctx := context.Background()

	b, err := New(path)
	if err != nil {
		t.Fatal(err)
	}
	_ = b.Save(ctx, &storage.SelectionRecord{ID: "run-1", Topic: "t", CreatedAt: time.Now()})
	_ = b.Close()

	// Reopening an existing file must not duplicate the header row.
	b, err = New(path)
	if err != nil {
		t.Fatal(err)
	}
	_ = b.Save(ctx, &storage.SelectionRecord{ID: "run-2", Topic: "t", CreatedAt: time.Now()})
	_ = b.Close()

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if n := strings.Count(string(data), "questions_json"); n != 1 {
		t.Errorf("header appears %d times, want 1", n)
	}
}
