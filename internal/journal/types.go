package journal

import (
	"fmt"
	"time"
)

// EntryType classifies what an entry records.
// The enumeration is closed; stored as its string name.
type EntryType string

const (
	TypeBuilt   EntryType = "BUILT"
	TypeHelped  EntryType = "HELPED"
	TypeLearned EntryType = "LEARNED"
)

// EntryTypes lists all valid entry types in display order.
var EntryTypes = []EntryType{TypeBuilt, TypeHelped, TypeLearned}

// Valid reports whether t is one of the closed enumeration values.
func (t EntryType) Valid() bool {
	switch t {
	case TypeBuilt, TypeHelped, TypeLearned:
		return true
	}
	return false
}

// ParseEntryType converts a stored or user-supplied name to an EntryType.
func ParseEntryType(s string) (EntryType, error) {
	t := EntryType(s)
	if !t.Valid() {
		return "", fmt.Errorf("unknown entry type %q", s)
	}
	return t, nil
}

// EditWindow is how long an entry stays editable after creation.
// Once the window passes, the entry is Locked for good.
const EditWindow = 24 * time.Hour

// Entry is a single journal record.
//
// CreatedAt is immutable. UpdatedAt moves on every successful edit and
// never precedes CreatedAt. IsLocked transitions false→true only, and
// only because EditWindow elapsed. ThreadID is an optional reference
// with no enforced referential action: deleting a thread leaves the
// value dangling, and readers resolve a dangling reference as
// "no thread".
type Entry struct {
	ID              int64
	Type            EntryType
	WhoWhat         string
	WhatCost        string
	WhatDifferently string
	CreatedAt       time.Time
	UpdatedAt       time.Time
	IsLocked        bool
	ThreadID        *int64
}

// CanEdit reports whether the entry is editable at the given instant.
// Callers must pass a freshly sampled now; a stale instant can claim an
// edit window that has already closed.
func (e Entry) CanEdit(now time.Time) bool {
	return !e.IsLocked && now.Before(e.CreatedAt.Add(EditWindow))
}

// LockDue reports whether the entry's persisted lock flag is behind the
// clock: still Open while the edit window has passed.
func (e Entry) LockDue(now time.Time) bool {
	return !e.IsLocked && !now.Before(e.CreatedAt.Add(EditWindow))
}

// Addendum is an append-only note attached to an entry. Addenda are
// insertable regardless of the entry's lock state, never edited or
// individually deleted, and die only with their entry.
type Addendum struct {
	ID        int64
	EntryID   int64
	Content   string
	CreatedAt time.Time
}

// Thread is a named grouping for long-running work.
// ClosedAt is non-nil iff IsClosed is true.
type Thread struct {
	ID          int64
	Name        string
	Description string
	CreatedAt   time.Time
	ClosedAt    *time.Time
	IsClosed    bool
}

// MaxTrustedHands bounds the live trusted-hand contact list.
const MaxTrustedHands = 3

// TrustedHand is a local contact record for a designated witness.
// Pure address-book storage; nothing is ever delivered to it.
type TrustedHand struct {
	ID         int64
	Name       string
	Identifier string
	AddedAt    time.Time
}

// SharedEntry records that an entry was marked as shared with a trusted
// hand. It is a witness log, not a toggle: the same pair may appear any
// number of times, and records are never pruned when the referenced
// entry or hand is deleted.
type SharedEntry struct {
	ID            int64
	EntryID       int64
	TrustedHandID int64
	Reason        string
	SharedAt      time.Time
}
