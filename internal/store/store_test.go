package store

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"
)

func openTestStore(t *testing.T) *AnswerStore {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "answers.db"))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestRecordAndLatest(t *testing.T) {
	ctx := context.Background()
	s := openTestStore(t)

	first, err := s.Record(ctx, Answer{Day: 1, Part: 1, Value: "24000", Duration: 15 * time.Microsecond, InputHash: "abc"})
	if err != nil {
		t.Fatalf("Record: %v", err)
	}
	if first.ID == 0 || first.CreatedAt.IsZero() {
		t.Errorf("Record should fill ID and CreatedAt: %+v", first)
	}

	if _, err := s.Record(ctx, Answer{Day: 1, Part: 1, Value: "70369", InputHash: "def"}); err != nil {
		t.Fatalf("Record: %v", err)
	}

	latest, err := s.Latest(ctx, 1, 1)
	if err != nil {
		t.Fatalf("Latest: %v", err)
	}
	if latest.Value != "70369" || latest.InputHash != "def" {
		t.Errorf("Latest = %+v, want the second answer", latest)
	}
}

func TestLatestNotFound(t *testing.T) {
	s := openTestStore(t)

	if _, err := s.Latest(context.Background(), 1, 2); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestHistory(t *testing.T) {
	ctx := context.Background()
	s := openTestStore(t)

	for _, a := range []Answer{
		{Day: 1, Part: 1, Value: "a", Duration: time.Millisecond},
		{Day: 1, Part: 2, Value: "b"},
		{Day: 2, Part: 1, Value: "c"},
		{Day: 1, Part: 1, Value: "d"},
	} {
		if _, err := s.Record(ctx, a); err != nil {
			t.Fatalf("Record: %v", err)
		}
	}

	all, err := s.History(ctx, 0, 0)
	if err != nil {
		t.Fatalf("History: %v", err)
	}
	if len(all) != 4 || all[0].Value != "d" {
		t.Errorf("History(all) = %+v", all)
	}

	day1, err := s.History(ctx, 1, 2)
	if err != nil {
		t.Fatalf("History: %v", err)
	}
	if len(day1) != 2 || day1[0].Value != "d" || day1[1].Value != "b" {
		t.Errorf("History(day 1, limit 2) = %+v", day1)
	}

	oldest := all[len(all)-1]
	if oldest.Duration != time.Millisecond {
		t.Errorf("Duration round trip = %v, want 1ms", oldest.Duration)
	}

	none, err := s.History(ctx, 9, 0)
	if err != nil || len(none) != 0 {
		t.Errorf("History(day 9) = %v, %v; want empty", none, err)
	}
}

func TestReopenKeepsHistory(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "answers.db")

	s, err := Open(path)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := s.Record(ctx, Answer{Day: 1, Part: 2, Value: "45000"}); err != nil {
		t.Fatal(err)
	}
	s.Close()

	s, err = Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer s.Close()

	latest, err := s.Latest(ctx, 1, 2)
	if err != nil || latest.Value != "45000" {
		t.Errorf("Latest after reopen = %+v, %v", latest, err)
	}
}
