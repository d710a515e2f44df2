package store

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/roach88/thehand/internal/journal"
)

// AddendumStore owns the append-only addendum log.
//
// Addenda are the sanctioned way to add context to a Locked entry, so
// nothing here ever consults is_locked. There is no update or delete
// surface; rows die only via the entry CASCADE.
type AddendumStore struct {
	s *Store
}

// Add appends an addendum to an entry. Content is required, the entry
// must exist, and the entry's lock state is deliberately not checked.
func (as *AddendumStore) Add(ctx context.Context, entryID int64, content string) (int64, error) {
	if strings.TrimSpace(content) == "" {
		return 0, journal.NewValidationError("content")
	}

	// Existence check and insert share a transaction so the entry
	// cannot vanish between them.
	tx, err := as.s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("add addendum: begin tx: %w", err)
	}
	defer tx.Rollback() // No-op if committed

	var exists int
	err = tx.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM entries WHERE id = ?", entryID).Scan(&exists)
	if err != nil {
		return 0, fmt.Errorf("add addendum: %w", err)
	}
	if exists == 0 {
		return 0, journal.NewNotFoundError("entry", entryID)
	}

	result, err := tx.ExecContext(ctx, `
		INSERT INTO addendums (entry_id, content, created_at)
		VALUES (?, ?, ?)
	`, entryID, content, as.s.clock.Now().Unix())
	if err != nil {
		return 0, fmt.Errorf("add addendum: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("add addendum: last insert id: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("add addendum: commit: %w", err)
	}

	as.s.notifier.publish(TopicAddendums)
	return id, nil
}

// ForEntry returns an entry's addenda, oldest first (created_at
// ascending, id ascending as the tie-break).
func (as *AddendumStore) ForEntry(ctx context.Context, entryID int64) ([]journal.Addendum, error) {
	rows, err := as.s.db.QueryContext(ctx, `
		SELECT id, entry_id, content, created_at
		FROM addendums
		WHERE entry_id = ?
		ORDER BY created_at ASC, id ASC
	`, entryID)
	if err != nil {
		return nil, fmt.Errorf("query addendums: %w", err)
	}
	defer rows.Close()

	addenda := []journal.Addendum{}
	for rows.Next() {
		var (
			a         journal.Addendum
			createdAt int64
		)
		if err := rows.Scan(&a.ID, &a.EntryID, &a.Content, &createdAt); err != nil {
			return nil, fmt.Errorf("scan addendum: %w", err)
		}
		a.CreatedAt = time.Unix(createdAt, 0).UTC()
		addenda = append(addenda, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate addendums: %w", err)
	}
	return addenda, nil
}

// Count returns the total number of addenda across all entries.
func (as *AddendumStore) Count(ctx context.Context) (int, error) {
	var count int
	err := as.s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM addendums").Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count addendums: %w", err)
	}
	return count, nil
}
