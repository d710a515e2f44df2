package view

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/roach88/thehand/internal/journal"
	"github.com/roach88/thehand/internal/store"
)

// Projector computes derived views over the entry store.
//
// It holds no state of its own: every view is recomputed from a fresh
// store read, and the store's read path resolves lock expiry first, so
// a projected lock badge is never stale.
type Projector struct {
	entries  *store.EntryStore
	notifier *store.Notifier
	clock    store.Clock
	loc      *time.Location
}

// New creates a projector over the given entry store and notifier.
// A nil clock defaults to the system clock; a nil location defaults to
// time.Local. The location governs archive month bucketing only.
func New(entries *store.EntryStore, notifier *store.Notifier, clock store.Clock, loc *time.Location) *Projector {
	if clock == nil {
		clock = store.SystemClock()
	}
	if loc == nil {
		loc = time.Local
	}
	return &Projector{entries: entries, notifier: notifier, clock: clock, loc: loc}
}

// Ledger returns the recency list, optionally narrowed to one type.
func (p *Projector) Ledger(ctx context.Context, filter *journal.EntryType) ([]journal.Entry, error) {
	if filter == nil {
		return p.entries.All(ctx)
	}
	return p.entries.ByType(ctx, *filter)
}

// WatchLedger emits the current ledger immediately, then a fresh one
// after every write affecting entries. The channel closes when ctx is
// done; stopping a watch has no effect on stored data.
func (p *Projector) WatchLedger(ctx context.Context, filter *journal.EntryType) (<-chan []journal.Entry, error) {
	signals, cancel := p.notifier.Subscribe(store.TopicEntries)

	initial, err := p.Ledger(ctx, filter)
	if err != nil {
		cancel()
		return nil, err
	}

	out := make(chan []journal.Entry, 1)
	out <- initial

	go func() {
		defer cancel()
		defer close(out)
		for {
			select {
			case <-ctx.Done():
				return
			case _, ok := <-signals:
				if !ok {
					return
				}
				entries, err := p.Ledger(ctx, filter)
				if err != nil {
					return
				}
				select {
				case out <- entries:
				case <-ctx.Done():
					return
				}
			}
		}
	}()
	return out, nil
}

// MonthGroup is one archive bucket: all entries created in a single
// calendar year-month of the projector's location.
type MonthGroup struct {
	Year    int
	Month   time.Month
	Label   string
	Entries []journal.Entry
	Count   int
}

// Archive partitions all entries by the calendar year-month of their
// creation, newest month first. Entries inside a group keep recency
// order. An empty journal yields an empty, well-formed slice.
func (p *Projector) Archive(ctx context.Context) ([]MonthGroup, error) {
	entries, err := p.entries.All(ctx)
	if err != nil {
		return nil, err
	}

	type yearMonth struct {
		year  int
		month time.Month
	}
	buckets := make(map[yearMonth]*MonthGroup)
	order := []yearMonth{}
	for _, e := range entries {
		local := e.CreatedAt.In(p.loc)
		ym := yearMonth{local.Year(), local.Month()}
		g, ok := buckets[ym]
		if !ok {
			g = &MonthGroup{
				Year:  ym.year,
				Month: ym.month,
				Label: fmt.Sprintf("%s %d", ym.month, ym.year),
			}
			buckets[ym] = g
			order = append(order, ym)
		}
		g.Entries = append(g.Entries, e)
		g.Count++
	}

	sort.Slice(order, func(i, j int) bool {
		if order[i].year != order[j].year {
			return order[i].year > order[j].year
		}
		return order[i].month > order[j].month
	})

	groups := make([]MonthGroup, 0, len(order))
	for _, ym := range order {
		groups = append(groups, *buckets[ym])
	}
	return groups, nil
}

// PatternData is the per-type count for one window.
type PatternData struct {
	Built   int
	Helped  int
	Learned int
	Total   int
}

// Patterns holds the weekly (7-day) and monthly (30-day) windows,
// both anchored at now.
type Patterns struct {
	Weekly  PatternData
	Monthly PatternData
}

// Patterns computes type distributions for the half-open windows
// [now-7d, now) and [now-30d, now): an entry created exactly N days
// ago is the oldest one inside the N-day window. Empty input yields
// zero counts.
func (p *Projector) Patterns(ctx context.Context) (Patterns, error) {
	now := p.clock.Now()

	weekly, err := p.window(ctx, now.Add(-7*24*time.Hour), now)
	if err != nil {
		return Patterns{}, err
	}
	monthly, err := p.window(ctx, now.Add(-30*24*time.Hour), now)
	if err != nil {
		return Patterns{}, err
	}
	return Patterns{Weekly: weekly, Monthly: monthly}, nil
}

func (p *Projector) window(ctx context.Context, start, end time.Time) (PatternData, error) {
	dist, err := p.entries.TypeDistribution(ctx, start, end)
	if err != nil {
		return PatternData{}, err
	}
	d := PatternData{
		Built:   dist[journal.TypeBuilt],
		Helped:  dist[journal.TypeHelped],
		Learned: dist[journal.TypeLearned],
	}
	d.Total = d.Built + d.Helped + d.Learned
	return d, nil
}
