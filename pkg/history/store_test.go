package history

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/nodewee/doc-highlight/pkg/utils"
)

func openMemory(t *testing.T) *Store {
	t.Helper()
	s, err := Open(":memory:")
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestRecordAndRecent(t *testing.T) {
	s := openMemory(t)
	ctx := context.Background()
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	for i, q := range []string{"first", "second", "third"} {
		e := &Entry{
			Timestamp:  base.Add(time.Duration(i) * time.Minute),
			Input:      "in.pdf",
			Output:     "out.pdf",
			Query:      q,
			Kind:       "pdf",
			Strategy:   "pdf-overlay",
			MatchCount: i,
			Duration:   1500 * time.Microsecond,
		}
		if err := s.Record(ctx, e); err != nil {
			t.Fatal(err)
		}
		if e.ID == "" {
			t.Error("Record did not assign an ID")
		}
	}

	got, err := s.Recent(ctx, 2)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 2 {
		t.Fatalf("got %d entries, want 2", len(got))
	}
	if got[0].Query != "third" || got[1].Query != "second" {
		t.Errorf("order = %s, %s", got[0].Query, got[1].Query)
	}
	if got[0].MatchCount != 2 || got[0].Duration != 1500*time.Microsecond || !got[0].Timestamp.Equal(base.Add(2*time.Minute)) {
		t.Errorf("entry = %+v", got[0])
	}
}

func TestRecordKeepsFailures(t *testing.T) {
	s := openMemory(t)
	ctx := context.Background()

	if err := s.Record(ctx, &Entry{Input: "a.docx", Output: "a.pdf", Query: "x", FallbackUsed: true, Error: "missing_dependency: no converter"}); err != nil {
		t.Fatal(err)
	}
	got, err := s.Recent(ctx, 10)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 1 || !got[0].FallbackUsed || got[0].Error == "" {
		t.Errorf("entries = %+v", got)
	}
}

func TestRecentRejectsBadLimit(t *testing.T) {
	if _, err := openMemory(t).Recent(context.Background(), 0); !errors.Is(err, utils.ErrValidation) {
		t.Errorf("err = %v", err)
	}
}

func TestOpenFileCreatesParentAndPersists(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "history.db")
	s, err := Open(path)
	if err != nil {
		t.Fatal(err)
	}
	if err := s.Record(context.Background(), &Entry{Input: "i", Output: "o", Query: "q"}); err != nil {
		t.Fatal(err)
	}
	s.Close()

	s, err = Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer s.Close()
	got, err := s.Recent(context.Background(), 5)
	if err != nil || len(got) != 1 {
		t.Errorf("reopened history = %v, %v", got, err)
	}
}
