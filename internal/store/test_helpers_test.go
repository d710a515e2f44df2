package store

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/roach88/thehand/internal/journal"
	"github.com/roach88/thehand/internal/testutil"
)

// baseTime is a fixed instant well clear of any month boundary.
var baseTime = time.Date(2026, 2, 3, 10, 15, 30, 0, time.UTC)

// openTestStore opens a fresh store in a temp dir on a manual clock.
func openTestStore(t *testing.T) (*Store, *testutil.ManualClock) {
	t.Helper()

	clock := testutil.NewManualClock(baseTime)
	s, err := OpenWithClock(filepath.Join(t.TempDir(), "journal.db"), clock)
	if err != nil {
		t.Fatalf("OpenWithClock() failed: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s, clock
}

// mustCreateEntry creates an entry or fails the test.
func mustCreateEntry(t *testing.T, s *Store, typ journal.EntryType, whoWhat string) int64 {
	t.Helper()

	id, err := s.Entries().Create(context.Background(), typ, whoWhat, "", "", nil)
	if err != nil {
		t.Fatalf("Create() failed: %v", err)
	}
	return id
}

// drain empties a subscription channel's pending signal, if any.
func drain(ch <-chan struct{}) {
	select {
	case <-ch:
	default:
	}
}

// assertSignal fails unless a signal is already pending. Publishes are
// synchronous with the write, so no waiting is involved.
func assertSignal(t *testing.T, ch <-chan struct{}, topic Topic) {
	t.Helper()

	select {
	case <-ch:
	default:
		t.Fatalf("no signal on topic %q", topic)
	}
}

// assertNoSignal fails if a signal is pending.
func assertNoSignal(t *testing.T, ch <-chan struct{}, topic Topic) {
	t.Helper()

	select {
	case <-ch:
		t.Fatalf("unexpected signal on topic %q", topic)
	default:
	}
}
