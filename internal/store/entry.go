package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/roach88/thehand/internal/journal"
)

// lockAfterSeconds mirrors journal.EditWindow in the integer-seconds
// domain the entries table stores.
const lockAfterSeconds = int64(journal.EditWindow / time.Second)

// EntryStore owns the entry lifecycle and is the single source of
// truth for mutability decisions.
type EntryStore struct {
	s *Store
}

const entryColumns = "id, type, who_what, what_cost, what_differently, created_at, updated_at, is_locked, thread_id"

// resolveExpired persists every due Open→Locked transition as of now.
// Every read and write path runs this first, so no caller ever sees or
// mutates a record with a stale lock flag.
func (es *EntryStore) resolveExpired(ctx context.Context, now time.Time) error {
	result, err := es.s.db.ExecContext(ctx, `
		UPDATE entries
		SET is_locked = 1
		WHERE is_locked = 0 AND created_at + ? <= ?
	`, lockAfterSeconds, now.Unix())
	if err != nil {
		return fmt.Errorf("resolve expired locks: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("resolve expired locks: rows affected: %w", err)
	}
	if rows > 0 {
		// Lock transitions change derived views (ledger badges,
		// export), so they count as writes for subscribers.
		es.s.notifier.publish(TopicEntries)
	}
	return nil
}

// Create inserts a new entry. WhoWhat is required; the other free-text
// fields may be blank. Returns the assigned id.
func (es *EntryStore) Create(ctx context.Context, typ journal.EntryType, whoWhat, whatCost, whatDifferently string, threadID *int64) (int64, error) {
	if !typ.Valid() {
		return 0, fmt.Errorf("create entry: unknown entry type %q", typ)
	}
	if strings.TrimSpace(whoWhat) == "" {
		return 0, journal.NewValidationError("whoWhat")
	}

	now := es.s.clock.Now().Unix()
	result, err := es.s.db.ExecContext(ctx, `
		INSERT INTO entries
		(type, who_what, what_cost, what_differently, created_at, updated_at, is_locked, thread_id)
		VALUES (?, ?, ?, ?, ?, ?, 0, ?)
	`, string(typ), whoWhat, whatCost, whatDifferently, now, now, threadID)
	if err != nil {
		return 0, fmt.Errorf("create entry: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("create entry: last insert id: %w", err)
	}

	es.s.notifier.publish(TopicEntries)
	return id, nil
}

// Update edits an entry's mutable fields and stamps updated_at.
//
// The guard re-evaluates lock expiry against a freshly sampled now in
// the UPDATE itself: a row qualifies only while is_locked = 0 AND the
// 24h window is still open. A caller holding a view fetched seconds
// before the boundary therefore cannot sneak in an edit after expiry.
// Returns LockedError for a locked (or just-expired) entry and
// NotFoundError for a missing one.
func (es *EntryStore) Update(ctx context.Context, e journal.Entry) error {
	if !e.Type.Valid() {
		return fmt.Errorf("update entry: unknown entry type %q", e.Type)
	}
	if strings.TrimSpace(e.WhoWhat) == "" {
		return journal.NewValidationError("whoWhat")
	}

	now := es.s.clock.Now()
	if err := es.resolveExpired(ctx, now); err != nil {
		return err
	}

	result, err := es.s.db.ExecContext(ctx, `
		UPDATE entries
		SET type = ?, who_what = ?, what_cost = ?, what_differently = ?, updated_at = ?, thread_id = ?
		WHERE id = ? AND is_locked = 0 AND created_at + ? > ?
	`, string(e.Type), e.WhoWhat, e.WhatCost, e.WhatDifferently, now.Unix(), e.ThreadID,
		e.ID, lockAfterSeconds, now.Unix())
	if err != nil {
		return fmt.Errorf("update entry: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("update entry: rows affected: %w", err)
	}
	if rows == 0 {
		// Disambiguate: missing row vs locked row.
		var exists int
		err := es.s.db.QueryRowContext(ctx,
			"SELECT COUNT(*) FROM entries WHERE id = ?", e.ID).Scan(&exists)
		if err != nil {
			return fmt.Errorf("update entry: %w", err)
		}
		if exists == 0 {
			return journal.NewNotFoundError("entry", e.ID)
		}
		return journal.NewLockedError(e.ID)
	}

	es.s.notifier.publish(TopicEntries)
	return nil
}

// Delete removes an entry regardless of lock state. Its addenda go
// with it via the CASCADE constraint.
func (es *EntryStore) Delete(ctx context.Context, id int64) error {
	result, err := es.s.db.ExecContext(ctx, "DELETE FROM entries WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("delete entry: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete entry: rows affected: %w", err)
	}
	if rows == 0 {
		return journal.NewNotFoundError("entry", id)
	}

	es.s.notifier.publish(TopicEntries, TopicAddendums)
	return nil
}

// Get retrieves a single entry by id, lock-resolved.
func (es *EntryStore) Get(ctx context.Context, id int64) (journal.Entry, error) {
	if err := es.resolveExpired(ctx, es.s.clock.Now()); err != nil {
		return journal.Entry{}, err
	}

	row := es.s.db.QueryRowContext(ctx,
		"SELECT "+entryColumns+" FROM entries WHERE id = ?", id)
	e, err := scanEntryRow(row)
	if errors.Is(err, sql.ErrNoRows) {
		return journal.Entry{}, journal.NewNotFoundError("entry", id)
	}
	return e, err
}

// All returns every entry by recency (created_at descending, id
// descending as the deterministic tie-break).
func (es *EntryStore) All(ctx context.Context) ([]journal.Entry, error) {
	return es.query(ctx, `
		SELECT `+entryColumns+` FROM entries
		ORDER BY created_at DESC, id DESC
	`)
}

// ByType returns entries of one type by recency.
func (es *EntryStore) ByType(ctx context.Context, typ journal.EntryType) ([]journal.Entry, error) {
	return es.query(ctx, `
		SELECT `+entryColumns+` FROM entries
		WHERE type = ?
		ORDER BY created_at DESC, id DESC
	`, string(typ))
}

// ByThread returns entries referencing a thread by recency. The thread
// itself need not exist; dangling references still list here.
func (es *EntryStore) ByThread(ctx context.Context, threadID int64) ([]journal.Entry, error) {
	return es.query(ctx, `
		SELECT `+entryColumns+` FROM entries
		WHERE thread_id = ?
		ORDER BY created_at DESC, id DESC
	`, threadID)
}

// ByMonth returns entries created in the given "YYYY-MM" calendar
// month (UTC, as the epoch-seconds column renders in SQLite).
func (es *EntryStore) ByMonth(ctx context.Context, yearMonth string) ([]journal.Entry, error) {
	return es.query(ctx, `
		SELECT `+entryColumns+` FROM entries
		WHERE strftime('%Y-%m', created_at, 'unixepoch') = ?
		ORDER BY created_at DESC, id DESC
	`, yearMonth)
}

// InRange returns entries with created_at in the half-open interval
// [start, end), by recency.
func (es *EntryStore) InRange(ctx context.Context, start, end time.Time) ([]journal.Entry, error) {
	return es.query(ctx, `
		SELECT `+entryColumns+` FROM entries
		WHERE created_at >= ? AND created_at < ?
		ORDER BY created_at DESC, id DESC
	`, start.Unix(), end.Unix())
}

// TypeDistribution counts entries per type created within [start, end).
// Types with no entries in the window are absent from the map.
func (es *EntryStore) TypeDistribution(ctx context.Context, start, end time.Time) (map[journal.EntryType]int, error) {
	if err := es.resolveExpired(ctx, es.s.clock.Now()); err != nil {
		return nil, err
	}

	rows, err := es.s.db.QueryContext(ctx, `
		SELECT type, COUNT(*)
		FROM entries
		WHERE created_at >= ? AND created_at < ?
		GROUP BY type
	`, start.Unix(), end.Unix())
	if err != nil {
		return nil, fmt.Errorf("query type distribution: %w", err)
	}
	defer rows.Close()

	dist := make(map[journal.EntryType]int)
	for rows.Next() {
		var typ string
		var count int
		if err := rows.Scan(&typ, &count); err != nil {
			return nil, fmt.Errorf("scan type distribution: %w", err)
		}
		dist[journal.EntryType(typ)] = count
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate type distribution: %w", err)
	}
	return dist, nil
}

// CountByType counts all entries of one type, window-free.
func (es *EntryStore) CountByType(ctx context.Context, typ journal.EntryType) (int, error) {
	var count int
	err := es.s.db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM entries WHERE type = ?", string(typ)).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count by type: %w", err)
	}
	return count, nil
}

// query resolves due locks, runs one of the entry SELECTs above, and
// scans the result. Returns an empty slice, not nil, on no rows.
func (es *EntryStore) query(ctx context.Context, q string, args ...any) ([]journal.Entry, error) {
	if err := es.resolveExpired(ctx, es.s.clock.Now()); err != nil {
		return nil, err
	}

	rows, err := es.s.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("query entries: %w", err)
	}
	defer rows.Close()

	entries := []journal.Entry{}
	for rows.Next() {
		e, err := scanEntry(rows)
		if err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate entries: %w", err)
	}
	return entries, nil
}

// scanTarget is satisfied by both *sql.Row and *sql.Rows.
type scanTarget interface {
	Scan(dest ...any) error
}

func scanEntryInto(t scanTarget) (journal.Entry, error) {
	var (
		e         journal.Entry
		typ       string
		createdAt int64
		updatedAt int64
		locked    int
		threadID  sql.NullInt64
	)
	err := t.Scan(&e.ID, &typ, &e.WhoWhat, &e.WhatCost, &e.WhatDifferently,
		&createdAt, &updatedAt, &locked, &threadID)
	if err != nil {
		return journal.Entry{}, err
	}

	e.Type = journal.EntryType(typ)
	e.CreatedAt = time.Unix(createdAt, 0).UTC()
	e.UpdatedAt = time.Unix(updatedAt, 0).UTC()
	e.IsLocked = locked != 0
	if threadID.Valid {
		id := threadID.Int64
		e.ThreadID = &id
	}
	return e, nil
}

func scanEntry(rows *sql.Rows) (journal.Entry, error) {
	e, err := scanEntryInto(rows)
	if err != nil {
		return journal.Entry{}, fmt.Errorf("scan entry: %w", err)
	}
	return e, nil
}

func scanEntryRow(row *sql.Row) (journal.Entry, error) {
	e, err := scanEntryInto(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return journal.Entry{}, err
		}
		return journal.Entry{}, fmt.Errorf("scan entry: %w", err)
	}
	return e, nil
}
