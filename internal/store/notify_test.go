package store

import (
	"context"
	"testing"
	"time"

	"github.com/roach88/thehand/internal/journal"
)

func TestNotify_SignalOnWrite(t *testing.T) {
	s, _ := openTestStore(t)

	ch, cancel := s.Notifier().Subscribe(TopicEntries)
	defer cancel()

	mustCreateEntry(t, s, journal.TypeBuilt, "wake the watchers")
	assertSignal(t, ch, TopicEntries)
}

func TestNotify_TopicIsolation(t *testing.T) {
	s, _ := openTestStore(t)

	entries, cancelEntries := s.Notifier().Subscribe(TopicEntries)
	defer cancelEntries()
	threads, cancelThreads := s.Notifier().Subscribe(TopicThreads)
	defer cancelThreads()

	mustCreateEntry(t, s, journal.TypeBuilt, "entry write")
	assertSignal(t, entries, TopicEntries)
	assertNoSignal(t, threads, TopicThreads)
}

func TestNotify_Coalescing(t *testing.T) {
	s, _ := openTestStore(t)

	ch, cancel := s.Notifier().Subscribe(TopicEntries)
	defer cancel()

	// A burst of writes while the subscriber is idle collapses into a
	// single pending signal.
	mustCreateEntry(t, s, journal.TypeBuilt, "one")
	mustCreateEntry(t, s, journal.TypeBuilt, "two")
	mustCreateEntry(t, s, journal.TypeBuilt, "three")

	assertSignal(t, ch, TopicEntries)
	assertNoSignal(t, ch, TopicEntries)
}

func TestNotify_DeleteSignalsAddenda(t *testing.T) {
	s, _ := openTestStore(t)
	ctx := context.Background()

	id := mustCreateEntry(t, s, journal.TypeBuilt, "doomed")
	if _, err := s.Addenda().Add(ctx, id, "a note"); err != nil {
		t.Fatalf("Add() failed: %v", err)
	}

	ch, cancel := s.Notifier().Subscribe(TopicAddendums)
	defer cancel()

	// Entry deletion cascades to addenda, so addendum watchers must wake.
	if err := s.Entries().Delete(ctx, id); err != nil {
		t.Fatalf("Delete() failed: %v", err)
	}
	assertSignal(t, ch, TopicAddendums)
}

func TestNotify_LockResolutionSignals(t *testing.T) {
	s, clock := openTestStore(t)
	ctx := context.Background()

	mustCreateEntry(t, s, journal.TypeBuilt, "about to lock")

	ch, cancel := s.Notifier().Subscribe(TopicEntries)
	defer cancel()
	drain(ch)

	clock.Advance(journal.EditWindow + time.Second)

	// The read that resolves the due lock transition counts as a write.
	if _, err := s.Entries().All(ctx); err != nil {
		t.Fatalf("All() failed: %v", err)
	}
	assertSignal(t, ch, TopicEntries)

	// A second read finds nothing left to resolve.
	if _, err := s.Entries().All(ctx); err != nil {
		t.Fatalf("All() failed: %v", err)
	}
	assertNoSignal(t, ch, TopicEntries)
}

func TestNotify_CancelStopsSignals(t *testing.T) {
	s, _ := openTestStore(t)

	ch, cancel := s.Notifier().Subscribe(TopicEntries)
	cancel()

	// The channel is closed on cancel; writes after that reach nobody.
	mustCreateEntry(t, s, journal.TypeBuilt, "unobserved")

	select {
	case _, ok := <-ch:
		if ok {
			t.Error("expected closed channel after cancel, got a signal")
		}
	default:
		t.Error("expected closed channel after cancel")
	}
}

func TestNotify_CancelTwice(t *testing.T) {
	s, _ := openTestStore(t)

	_, cancel := s.Notifier().Subscribe(TopicEntries)
	cancel()
	cancel() // Must be safe to call again.
}

func TestNotify_CloseDropsSubscribers(t *testing.T) {
	s, _ := openTestStore(t)

	ch, cancel := s.Notifier().Subscribe(TopicEntries)
	defer cancel()

	s.Notifier().close()

	if _, ok := <-ch; ok {
		t.Error("expected closed channel after notifier close")
	}
}
