// Package export renders the full journal into deterministic text and
// JSON documents. Both formats are pure functions of a point-in-time
// snapshot: the same snapshot always serializes to identical bytes.
package export

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/roach88/thehand/internal/journal"
	"github.com/roach88/thehand/internal/store"
)

// Version is the JSON export document version.
const Version = "1.0.0"

// ruleWidth is the fixed separator width of the text report.
const ruleWidth = 50

// Snapshot is a point-in-time capture of the journal. Entries arrive
// lock-resolved and in recency order from the store read; the addendum
// count summarizes the audit trail (neither wire format renders
// addenda).
type Snapshot struct {
	Entries       []journal.Entry
	AddendumCount int
	TakenAt       time.Time
}

// Serializer renders snapshots. It holds its collaborators and a
// location for local-time rendering, nothing else: no hidden state
// leaks into the output.
type Serializer struct {
	entries *store.EntryStore
	addenda *store.AddendumStore
	clock   store.Clock
	loc     *time.Location
}

// New creates a serializer over the given stores. A nil clock defaults
// to the system clock; a nil location defaults to time.Local. The
// location governs the text report's date rendering only - JSON
// instants are always UTC.
func New(entries *store.EntryStore, addenda *store.AddendumStore, clock store.Clock, loc *time.Location) *Serializer {
	if clock == nil {
		clock = store.SystemClock()
	}
	if loc == nil {
		loc = time.Local
	}
	return &Serializer{entries: entries, addenda: addenda, clock: clock, loc: loc}
}

// Snapshot captures the journal at this instant: all entries by
// recency (lock-resolved by the store) plus the addendum count.
func (s *Serializer) Snapshot(ctx context.Context) (Snapshot, error) {
	entries, err := s.entries.All(ctx)
	if err != nil {
		return Snapshot{}, fmt.Errorf("export snapshot: %w", err)
	}
	count, err := s.addenda.Count(ctx)
	if err != nil {
		return Snapshot{}, fmt.Errorf("export snapshot: %w", err)
	}
	return Snapshot{Entries: entries, AddendumCount: count, TakenAt: s.clock.Now()}, nil
}

// Text renders the fixed-layout report. Zero entries still yields a
// valid, well-formed document.
func (s *Serializer) Text(snap Snapshot) string {
	rule := strings.Repeat("=", ruleWidth)
	dash := strings.Repeat("-", ruleWidth)

	var b strings.Builder
	b.WriteString("THE HAND\n")
	b.WriteString("Private Ledger Export\n")
	b.WriteString(rule + "\n")
	b.WriteString("\n")
	fmt.Fprintf(&b, "Total Entries: %d\n", len(snap.Entries))
	fmt.Fprintf(&b, "Exported: %s\n", snap.TakenAt.In(s.loc).Format("2006-01-02T15:04:05"))
	b.WriteString("\n")
	b.WriteString(rule + "\n")
	b.WriteString("\n")

	for _, e := range snap.Entries {
		b.WriteString("\n")
		b.WriteString(dash + "\n")
		fmt.Fprintf(&b, "Type: %s\n", e.Type)
		fmt.Fprintf(&b, "Date: %s\n", e.CreatedAt.In(s.loc).Format("2006-01-02 15:04"))
		b.WriteString("\n")
		b.WriteString("Who or what was affected?\n")
		b.WriteString(e.WhoWhat + "\n")
		b.WriteString("\n")

		if strings.TrimSpace(e.WhatCost) != "" {
			b.WriteString("What did it cost you?\n")
			b.WriteString(e.WhatCost + "\n")
			b.WriteString("\n")
		}

		if strings.TrimSpace(e.WhatDifferently) != "" {
			b.WriteString("What would you do differently?\n")
			b.WriteString(e.WhatDifferently + "\n")
			b.WriteString("\n")
		}

		if e.IsLocked {
			b.WriteString("[Locked]\n")
		}
		b.WriteString(dash + "\n")
	}

	b.WriteString("\n")
	b.WriteString("\n")
	b.WriteString(rule + "\n")
	b.WriteString("End of Export\n")
	return b.String()
}

// jsonEntry is one element of the JSON document's entries array.
// Field order here fixes the serialized key order.
type jsonEntry struct {
	ID              int64  `json:"id"`
	Type            string `json:"type"`
	WhoWhat         string `json:"who_what"`
	WhatCost        string `json:"what_cost"`
	WhatDifferently string `json:"what_differently"`
	CreatedAt       string `json:"created_at"`
	UpdatedAt       string `json:"updated_at"`
	IsLocked        bool   `json:"is_locked"`
	ThreadID        *int64 `json:"thread_id,omitempty"`
}

type jsonDocument struct {
	ExportedAt   string      `json:"exported_at"`
	Version      string      `json:"version"`
	TotalEntries int         `json:"total_entries"`
	Entries      []jsonEntry `json:"entries"`
}

// JSON renders the structured document: 2-space indentation, entries
// in recency order, thread_id present only when non-null, instants as
// RFC 3339 UTC strings.
func (s *Serializer) JSON(snap Snapshot) ([]byte, error) {
	doc := jsonDocument{
		ExportedAt:   snap.TakenAt.UTC().Format(time.RFC3339),
		Version:      Version,
		TotalEntries: len(snap.Entries),
		Entries:      make([]jsonEntry, 0, len(snap.Entries)),
	}
	for _, e := range snap.Entries {
		doc.Entries = append(doc.Entries, jsonEntry{
			ID:              e.ID,
			Type:            string(e.Type),
			WhoWhat:         e.WhoWhat,
			WhatCost:        e.WhatCost,
			WhatDifferently: e.WhatDifferently,
			CreatedAt:       e.CreatedAt.UTC().Format(time.RFC3339),
			UpdatedAt:       e.UpdatedAt.UTC().Format(time.RFC3339),
			IsLocked:        e.IsLocked,
			ThreadID:        e.ThreadID,
		})
	}

	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal export: %w", err)
	}
	return data, nil
}
