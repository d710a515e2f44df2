package store

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/roach88/thehand/internal/journal"
)

// TrustedHandStore owns the capacity-bounded witness contact list and
// the shared-entry witness log. Purely local bookkeeping; nothing is
// ever transported anywhere.
type TrustedHandStore struct {
	s *Store
}

// Add inserts a trusted hand. Fails with CapacityError once the live
// count reaches journal.MaxTrustedHands. The count is re-verified
// inside the insert transaction, so concurrent adds cannot exceed the
// limit.
func (hs *TrustedHandStore) Add(ctx context.Context, name, identifier string) (int64, error) {
	if strings.TrimSpace(name) == "" {
		return 0, journal.NewValidationError("name")
	}
	if strings.TrimSpace(identifier) == "" {
		return 0, journal.NewValidationError("identifier")
	}

	tx, err := hs.s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("add trusted hand: begin tx: %w", err)
	}
	defer tx.Rollback() // No-op if committed

	var count int
	if err := tx.QueryRowContext(ctx, "SELECT COUNT(*) FROM trusted_hands").Scan(&count); err != nil {
		return 0, fmt.Errorf("add trusted hand: count: %w", err)
	}
	if count >= journal.MaxTrustedHands {
		return 0, journal.NewCapacityError()
	}

	result, err := tx.ExecContext(ctx, `
		INSERT INTO trusted_hands (name, identifier, added_at)
		VALUES (?, ?, ?)
	`, name, identifier, hs.s.clock.Now().Unix())
	if err != nil {
		return 0, fmt.Errorf("add trusted hand: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("add trusted hand: last insert id: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("add trusted hand: commit: %w", err)
	}

	hs.s.notifier.publish(TopicHands)
	return id, nil
}

// Remove deletes a trusted hand. Share records referencing it stay put
// as inert history.
func (hs *TrustedHandStore) Remove(ctx context.Context, id int64) error {
	result, err := hs.s.db.ExecContext(ctx, "DELETE FROM trusted_hands WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("remove trusted hand: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("remove trusted hand: rows affected: %w", err)
	}
	if rows == 0 {
		return journal.NewNotFoundError("trusted hand", id)
	}

	hs.s.notifier.publish(TopicHands)
	return nil
}

// Hands returns the live contact list, most recently added first.
func (hs *TrustedHandStore) Hands(ctx context.Context) ([]journal.TrustedHand, error) {
	rows, err := hs.s.db.QueryContext(ctx, `
		SELECT id, name, identifier, added_at
		FROM trusted_hands
		ORDER BY added_at DESC, id DESC
	`)
	if err != nil {
		return nil, fmt.Errorf("query trusted hands: %w", err)
	}
	defer rows.Close()

	hands := []journal.TrustedHand{}
	for rows.Next() {
		var (
			h       journal.TrustedHand
			addedAt int64
		)
		if err := rows.Scan(&h.ID, &h.Name, &h.Identifier, &addedAt); err != nil {
			return nil, fmt.Errorf("scan trusted hand: %w", err)
		}
		h.AddedAt = time.Unix(addedAt, 0).UTC()
		hands = append(hands, h)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate trusted hands: %w", err)
	}
	return hands, nil
}

// Count returns the live trusted-hand count.
func (hs *TrustedHandStore) Count(ctx context.Context) (int, error) {
	var count int
	err := hs.s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM trusted_hands").Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count trusted hands: %w", err)
	}
	return count, nil
}

// Share appends a witness-log record. Pure append: no uniqueness
// constraint (sharing twice is two records), no existence checks, and
// records are never pruned when the entry or hand goes away.
func (hs *TrustedHandStore) Share(ctx context.Context, entryID, handID int64, reason string) (int64, error) {
	result, err := hs.s.db.ExecContext(ctx, `
		INSERT INTO shared_entries (entry_id, trusted_hand_id, reason, shared_at)
		VALUES (?, ?, ?, ?)
	`, entryID, handID, reason, hs.s.clock.Now().Unix())
	if err != nil {
		return 0, fmt.Errorf("share entry: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("share entry: last insert id: %w", err)
	}

	hs.s.notifier.publish(TopicShares)
	return id, nil
}

// SharesForEntry returns the witness log for one entry, oldest first.
// The entry need not exist anymore; the log is informational.
func (hs *TrustedHandStore) SharesForEntry(ctx context.Context, entryID int64) ([]journal.SharedEntry, error) {
	return hs.queryShares(ctx, `
		SELECT id, entry_id, trusted_hand_id, reason, shared_at
		FROM shared_entries
		WHERE entry_id = ?
		ORDER BY shared_at ASC, id ASC
	`, entryID)
}

// ListShares returns the full witness log, oldest first, verbatim -
// including records whose entry or hand has since been deleted.
func (hs *TrustedHandStore) ListShares(ctx context.Context) ([]journal.SharedEntry, error) {
	return hs.queryShares(ctx, `
		SELECT id, entry_id, trusted_hand_id, reason, shared_at
		FROM shared_entries
		ORDER BY shared_at ASC, id ASC
	`)
}

func (hs *TrustedHandStore) queryShares(ctx context.Context, q string, args ...any) ([]journal.SharedEntry, error) {
	rows, err := hs.s.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("query shared entries: %w", err)
	}
	defer rows.Close()

	shares := []journal.SharedEntry{}
	for rows.Next() {
		var (
			se       journal.SharedEntry
			sharedAt int64
		)
		if err := rows.Scan(&se.ID, &se.EntryID, &se.TrustedHandID, &se.Reason, &sharedAt); err != nil {
			return nil, fmt.Errorf("scan shared entry: %w", err)
		}
		se.SharedAt = time.Unix(sharedAt, 0).UTC()
		shares = append(shares, se)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate shared entries: %w", err)
	}
	return shares, nil
}
