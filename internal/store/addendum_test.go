package store

import (
	"context"
	"testing"
	"time"

	"github.com/roach88/thehand/internal/journal"
)

func TestAddendumAdd(t *testing.T) {
	s, clock := openTestStore(t)
	ctx := context.Background()

	entryID := mustCreateEntry(t, s, journal.TypeBuilt, "the work")
	clock.Advance(time.Hour)

	id, err := s.Addenda().Add(ctx, entryID, "forgot to mention the docs")
	if err != nil {
		t.Fatalf("Add() failed: %v", err)
	}
	if id == 0 {
		t.Error("expected a non-zero addendum id")
	}

	addenda, err := s.Addenda().ForEntry(ctx, entryID)
	if err != nil {
		t.Fatalf("ForEntry() failed: %v", err)
	}
	if len(addenda) != 1 {
		t.Fatalf("got %d addenda, expected 1", len(addenda))
	}
	if addenda[0].Content != "forgot to mention the docs" {
		t.Errorf("content = %q", addenda[0].Content)
	}
	if !addenda[0].CreatedAt.Equal(baseTime.Add(time.Hour)) {
		t.Errorf("createdAt = %v", addenda[0].CreatedAt)
	}
}

func TestAddendumAdd_LockedEntry(t *testing.T) {
	s, clock := openTestStore(t)
	ctx := context.Background()

	entryID := mustCreateEntry(t, s, journal.TypeBuilt, "will lock")
	clock.Advance(journal.EditWindow + time.Hour)

	// The entry is past its edit window, but the addendum log does not
	// care: appending context to a locked entry is the whole point.
	if _, err := s.Addenda().Add(ctx, entryID, "a later reflection"); err != nil {
		t.Fatalf("Add() to locked entry failed: %v", err)
	}

	e, err := s.Entries().Get(ctx, entryID)
	if err != nil {
		t.Fatalf("Get() failed: %v", err)
	}
	if !e.IsLocked {
		t.Fatal("entry should be locked by now")
	}
}

func TestAddendumAdd_Validation(t *testing.T) {
	s, _ := openTestStore(t)
	ctx := context.Background()

	entryID := mustCreateEntry(t, s, journal.TypeBuilt, "the work")

	_, err := s.Addenda().Add(ctx, entryID, "  \t ")
	if !journal.IsValidation(err) {
		t.Errorf("blank content: expected ValidationError, got %v", err)
	}
}

func TestAddendumAdd_MissingEntry(t *testing.T) {
	s, _ := openTestStore(t)

	_, err := s.Addenda().Add(context.Background(), 404, "into the void")
	if !journal.IsNotFound(err) {
		t.Errorf("expected NotFoundError, got %v", err)
	}
}

func TestAddendumForEntry_OldestFirst(t *testing.T) {
	s, clock := openTestStore(t)
	ctx := context.Background()

	entryID := mustCreateEntry(t, s, journal.TypeBuilt, "the work")

	first, err := s.Addenda().Add(ctx, entryID, "first thought")
	if err != nil {
		t.Fatalf("Add() failed: %v", err)
	}
	clock.Advance(time.Minute)
	second, err := s.Addenda().Add(ctx, entryID, "second thought")
	if err != nil {
		t.Fatalf("Add() failed: %v", err)
	}

	addenda, err := s.Addenda().ForEntry(ctx, entryID)
	if err != nil {
		t.Fatalf("ForEntry() failed: %v", err)
	}
	if len(addenda) != 2 {
		t.Fatalf("got %d addenda, expected 2", len(addenda))
	}
	if addenda[0].ID != first || addenda[1].ID != second {
		t.Errorf("wrong order: %d, %d", addenda[0].ID, addenda[1].ID)
	}
}

func TestAddendumForEntry_EmptyIsNotNil(t *testing.T) {
	s, _ := openTestStore(t)

	addenda, err := s.Addenda().ForEntry(context.Background(), 1)
	if err != nil {
		t.Fatalf("ForEntry() failed: %v", err)
	}
	if addenda == nil {
		t.Error("expected empty slice, got nil")
	}
}

func TestAddendumCount(t *testing.T) {
	s, _ := openTestStore(t)
	ctx := context.Background()

	a := mustCreateEntry(t, s, journal.TypeBuilt, "one")
	b := mustCreateEntry(t, s, journal.TypeHelped, "two")
	for _, entryID := range []int64{a, a, b} {
		if _, err := s.Addenda().Add(ctx, entryID, "note"); err != nil {
			t.Fatalf("Add() failed: %v", err)
		}
	}

	count, err := s.Addenda().Count(ctx)
	if err != nil {
		t.Fatalf("Count() failed: %v", err)
	}
	if count != 3 {
		t.Errorf("count = %d, expected 3", count)
	}
}
