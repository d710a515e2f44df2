package store

import (
	"context"
	"testing"
	"time"

	"github.com/roach88/thehand/internal/journal"
)

func TestEntryCreate(t *testing.T) {
	s, _ := openTestStore(t)
	ctx := context.Background()

	id, err := s.Entries().Create(ctx, journal.TypeBuilt, "Shipped the export pipeline", "Two late nights", "Started smaller", nil)
	if err != nil {
		t.Fatalf("Create() failed: %v", err)
	}

	e, err := s.Entries().Get(ctx, id)
	if err != nil {
		t.Fatalf("Get() failed: %v", err)
	}
	if e.Type != journal.TypeBuilt {
		t.Errorf("type = %q, expected BUILT", e.Type)
	}
	if e.WhoWhat != "Shipped the export pipeline" {
		t.Errorf("whoWhat = %q", e.WhoWhat)
	}
	if !e.CreatedAt.Equal(baseTime) {
		t.Errorf("createdAt = %v, expected %v", e.CreatedAt, baseTime)
	}
	if !e.UpdatedAt.Equal(baseTime) {
		t.Errorf("updatedAt = %v, expected %v", e.UpdatedAt, baseTime)
	}
	if e.IsLocked {
		t.Error("new entry must start open")
	}
	if e.ThreadID != nil {
		t.Errorf("threadID = %v, expected nil", *e.ThreadID)
	}
}

func TestEntryCreate_Validation(t *testing.T) {
	s, _ := openTestStore(t)
	ctx := context.Background()

	_, err := s.Entries().Create(ctx, journal.TypeBuilt, "   ", "", "", nil)
	if !journal.IsValidation(err) {
		t.Errorf("blank whoWhat: expected ValidationError, got %v", err)
	}

	_, err = s.Entries().Create(ctx, journal.EntryType("SHIPPED"), "something", "", "", nil)
	if err == nil {
		t.Error("unknown type: expected error")
	}
}

func TestEntryUpdate_InsideWindow(t *testing.T) {
	s, clock := openTestStore(t)
	ctx := context.Background()

	id := mustCreateEntry(t, s, journal.TypeBuilt, "first draft")
	clock.Advance(2 * time.Hour)

	e, err := s.Entries().Get(ctx, id)
	if err != nil {
		t.Fatalf("Get() failed: %v", err)
	}
	e.WhoWhat = "second draft"
	e.WhatCost = "an evening"
	if err := s.Entries().Update(ctx, e); err != nil {
		t.Fatalf("Update() failed: %v", err)
	}

	got, err := s.Entries().Get(ctx, id)
	if err != nil {
		t.Fatalf("Get() failed: %v", err)
	}
	if got.WhoWhat != "second draft" || got.WhatCost != "an evening" {
		t.Errorf("fields not updated: %+v", got)
	}
	if !got.CreatedAt.Equal(baseTime) {
		t.Error("createdAt must never move on update")
	}
	if !got.UpdatedAt.Equal(baseTime.Add(2 * time.Hour)) {
		t.Errorf("updatedAt = %v, expected createdAt+2h", got.UpdatedAt)
	}
}

func TestEntryUpdate_AfterWindowLocks(t *testing.T) {
	s, clock := openTestStore(t)
	ctx := context.Background()

	id := mustCreateEntry(t, s, journal.TypeBuilt, "original text")
	clock.Advance(journal.EditWindow + time.Second)

	e := journal.Entry{ID: id, Type: journal.TypeBuilt, WhoWhat: "tampered text"}
	err := s.Entries().Update(ctx, e)
	if !journal.IsLocked(err) {
		t.Fatalf("expected LockedError, got %v", err)
	}

	got, err := s.Entries().Get(ctx, id)
	if err != nil {
		t.Fatalf("Get() failed: %v", err)
	}
	if got.WhoWhat != "original text" {
		t.Errorf("locked entry was modified: %q", got.WhoWhat)
	}
	if !got.IsLocked {
		t.Error("expired entry must read as locked")
	}
}

func TestEntryUpdate_ExactBoundary(t *testing.T) {
	s, clock := openTestStore(t)
	ctx := context.Background()

	id := mustCreateEntry(t, s, journal.TypeLearned, "boundary case")
	clock.Advance(journal.EditWindow)

	e := journal.Entry{ID: id, Type: journal.TypeLearned, WhoWhat: "too late"}
	err := s.Entries().Update(ctx, e)
	if !journal.IsLocked(err) {
		t.Errorf("update at exactly +24h: expected LockedError, got %v", err)
	}
}

func TestEntryUpdate_NotFound(t *testing.T) {
	s, _ := openTestStore(t)

	e := journal.Entry{ID: 999, Type: journal.TypeBuilt, WhoWhat: "ghost"}
	err := s.Entries().Update(context.Background(), e)
	if !journal.IsNotFound(err) {
		t.Errorf("expected NotFoundError, got %v", err)
	}
}

func TestEntryLockPersists(t *testing.T) {
	s, clock := openTestStore(t)
	ctx := context.Background()

	id := mustCreateEntry(t, s, journal.TypeHelped, "will lock")
	clock.Advance(journal.EditWindow)

	// Any read path resolves the due transition.
	if _, err := s.Entries().All(ctx); err != nil {
		t.Fatalf("All() failed: %v", err)
	}

	var locked int
	err := s.db.QueryRow("SELECT is_locked FROM entries WHERE id = ?", id).Scan(&locked)
	if err != nil {
		t.Fatalf("query failed: %v", err)
	}
	if locked != 1 {
		t.Error("lock transition was not persisted")
	}
}

func TestEntryDelete_CascadesAddenda(t *testing.T) {
	s, clock := openTestStore(t)
	ctx := context.Background()

	id := mustCreateEntry(t, s, journal.TypeBuilt, "doomed")
	if _, err := s.Addenda().Add(ctx, id, "a note"); err != nil {
		t.Fatalf("Add() failed: %v", err)
	}

	// Deletion works even on a locked entry.
	clock.Advance(journal.EditWindow + time.Hour)
	if err := s.Entries().Delete(ctx, id); err != nil {
		t.Fatalf("Delete() failed: %v", err)
	}

	var count int
	if err := s.db.QueryRow("SELECT COUNT(*) FROM addendums").Scan(&count); err != nil {
		t.Fatalf("query failed: %v", err)
	}
	if count != 0 {
		t.Errorf("addenda survived the cascade: %d rows", count)
	}

	_, err := s.Entries().Get(ctx, id)
	if !journal.IsNotFound(err) {
		t.Errorf("expected NotFoundError after delete, got %v", err)
	}
}

func TestEntryAll_Ordering(t *testing.T) {
	s, clock := openTestStore(t)
	ctx := context.Background()

	first := mustCreateEntry(t, s, journal.TypeBuilt, "oldest")
	clock.Advance(time.Hour)
	second := mustCreateEntry(t, s, journal.TypeHelped, "middle")
	clock.Advance(time.Hour)
	third := mustCreateEntry(t, s, journal.TypeLearned, "newest")

	entries, err := s.Entries().All(ctx)
	if err != nil {
		t.Fatalf("All() failed: %v", err)
	}
	if len(entries) != 3 {
		t.Fatalf("got %d entries, expected 3", len(entries))
	}
	if entries[0].ID != third || entries[1].ID != second || entries[2].ID != first {
		t.Errorf("wrong recency order: %d, %d, %d", entries[0].ID, entries[1].ID, entries[2].ID)
	}
}

func TestEntryAll_EmptyIsNotNil(t *testing.T) {
	s, _ := openTestStore(t)

	entries, err := s.Entries().All(context.Background())
	if err != nil {
		t.Fatalf("All() failed: %v", err)
	}
	if entries == nil {
		t.Error("expected empty slice, got nil")
	}
	if len(entries) != 0 {
		t.Errorf("got %d entries, expected 0", len(entries))
	}
}

func TestEntryByType(t *testing.T) {
	s, _ := openTestStore(t)
	ctx := context.Background()

	mustCreateEntry(t, s, journal.TypeBuilt, "a build")
	mustCreateEntry(t, s, journal.TypeHelped, "a hand")
	mustCreateEntry(t, s, journal.TypeBuilt, "another build")

	built, err := s.Entries().ByType(ctx, journal.TypeBuilt)
	if err != nil {
		t.Fatalf("ByType() failed: %v", err)
	}
	if len(built) != 2 {
		t.Errorf("got %d BUILT entries, expected 2", len(built))
	}
	for _, e := range built {
		if e.Type != journal.TypeBuilt {
			t.Errorf("stray %q entry in BUILT result", e.Type)
		}
	}
}

func TestEntryByThread(t *testing.T) {
	s, _ := openTestStore(t)
	ctx := context.Background()

	threadID, err := s.Threads().Create(ctx, "the big push", "")
	if err != nil {
		t.Fatalf("Create() failed: %v", err)
	}

	in, err := s.Entries().Create(ctx, journal.TypeBuilt, "threaded", "", "", &threadID)
	if err != nil {
		t.Fatalf("Create() failed: %v", err)
	}
	mustCreateEntry(t, s, journal.TypeBuilt, "unthreaded")

	entries, err := s.Entries().ByThread(ctx, threadID)
	if err != nil {
		t.Fatalf("ByThread() failed: %v", err)
	}
	if len(entries) != 1 || entries[0].ID != in {
		t.Errorf("ByThread() = %+v, expected only the threaded entry", entries)
	}
}

func TestEntryByThread_SurvivesThreadDelete(t *testing.T) {
	s, _ := openTestStore(t)
	ctx := context.Background()

	threadID, err := s.Threads().Create(ctx, "ephemeral", "")
	if err != nil {
		t.Fatalf("Create() failed: %v", err)
	}
	id, err := s.Entries().Create(ctx, journal.TypeBuilt, "orphaned soon", "", "", &threadID)
	if err != nil {
		t.Fatalf("Create() failed: %v", err)
	}

	if err := s.Threads().Delete(ctx, threadID); err != nil {
		t.Fatalf("Delete() failed: %v", err)
	}

	// The entry keeps its reference; deleting the thread is not a write
	// against entries.
	entries, err := s.Entries().ByThread(ctx, threadID)
	if err != nil {
		t.Fatalf("ByThread() failed: %v", err)
	}
	if len(entries) != 1 || entries[0].ID != id {
		t.Errorf("dangling thread reference lost: %+v", entries)
	}
}

func TestEntryByMonth(t *testing.T) {
	s, clock := openTestStore(t)
	ctx := context.Background()

	feb := mustCreateEntry(t, s, journal.TypeBuilt, "february work")
	clock.Set(time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC))
	mar := mustCreateEntry(t, s, journal.TypeBuilt, "march work")

	febEntries, err := s.Entries().ByMonth(ctx, "2026-02")
	if err != nil {
		t.Fatalf("ByMonth() failed: %v", err)
	}
	if len(febEntries) != 1 || febEntries[0].ID != feb {
		t.Errorf("ByMonth(2026-02) = %+v", febEntries)
	}

	marEntries, err := s.Entries().ByMonth(ctx, "2026-03")
	if err != nil {
		t.Fatalf("ByMonth() failed: %v", err)
	}
	if len(marEntries) != 1 || marEntries[0].ID != mar {
		t.Errorf("ByMonth(2026-03) = %+v", marEntries)
	}
}

func TestEntryInRange_HalfOpen(t *testing.T) {
	s, clock := openTestStore(t)
	ctx := context.Background()

	inside := mustCreateEntry(t, s, journal.TypeBuilt, "inside")
	end := baseTime.Add(time.Hour)
	clock.Set(end)
	mustCreateEntry(t, s, journal.TypeBuilt, "at the end boundary")

	entries, err := s.Entries().InRange(ctx, baseTime, end)
	if err != nil {
		t.Fatalf("InRange() failed: %v", err)
	}
	if len(entries) != 1 || entries[0].ID != inside {
		t.Errorf("half-open range violated: %+v", entries)
	}
}

func TestEntryTypeDistribution(t *testing.T) {
	s, clock := openTestStore(t)
	ctx := context.Background()

	now := baseTime.Add(40 * 24 * time.Hour)

	clock.Set(now.Add(-24 * time.Hour))
	mustCreateEntry(t, s, journal.TypeBuilt, "yesterday")
	clock.Set(now.Add(-8 * 24 * time.Hour))
	mustCreateEntry(t, s, journal.TypeHelped, "last week")
	clock.Set(now.Add(-31 * 24 * time.Hour))
	mustCreateEntry(t, s, journal.TypeLearned, "last month")
	clock.Set(now)

	week, err := s.Entries().TypeDistribution(ctx, now.Add(-7*24*time.Hour), now)
	if err != nil {
		t.Fatalf("TypeDistribution() failed: %v", err)
	}
	if week[journal.TypeBuilt] != 1 || week[journal.TypeHelped] != 0 || week[journal.TypeLearned] != 0 {
		t.Errorf("7-day window = %v, expected only the BUILT entry", week)
	}

	month, err := s.Entries().TypeDistribution(ctx, now.Add(-30*24*time.Hour), now)
	if err != nil {
		t.Fatalf("TypeDistribution() failed: %v", err)
	}
	if month[journal.TypeBuilt] != 1 || month[journal.TypeHelped] != 1 || month[journal.TypeLearned] != 0 {
		t.Errorf("30-day window = %v, expected BUILT and HELPED", month)
	}
}

func TestEntryCountByType(t *testing.T) {
	s, _ := openTestStore(t)
	ctx := context.Background()

	mustCreateEntry(t, s, journal.TypeLearned, "one")
	mustCreateEntry(t, s, journal.TypeLearned, "two")

	count, err := s.Entries().CountByType(ctx, journal.TypeLearned)
	if err != nil {
		t.Fatalf("CountByType() failed: %v", err)
	}
	if count != 2 {
		t.Errorf("count = %d, expected 2", count)
	}
}
