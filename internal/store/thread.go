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

// ThreadStore owns thread groupings. Threads are loosely coupled to
// entries: deleting a thread never touches the entries referencing it.
type ThreadStore struct {
	s *Store
}

const threadColumns = "id, name, description, created_at, closed_at, is_closed"

// Create inserts a new open thread. Name is required.
func (ts *ThreadStore) Create(ctx context.Context, name, description string) (int64, error) {
	if strings.TrimSpace(name) == "" {
		return 0, journal.NewValidationError("name")
	}

	result, err := ts.s.db.ExecContext(ctx, `
		INSERT INTO threads (name, description, created_at, closed_at, is_closed)
		VALUES (?, ?, ?, NULL, 0)
	`, name, description, ts.s.clock.Now().Unix())
	if err != nil {
		return 0, fmt.Errorf("create thread: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("create thread: last insert id: %w", err)
	}

	ts.s.notifier.publish(TopicThreads)
	return id, nil
}

// Close marks a thread closed and stamps closed_at, preserving the
// invariant that closed_at is set iff is_closed.
func (ts *ThreadStore) Close(ctx context.Context, id int64) error {
	return ts.setClosed(ctx, id, true)
}

// Reopen clears both the closed flag and closed_at.
func (ts *ThreadStore) Reopen(ctx context.Context, id int64) error {
	return ts.setClosed(ctx, id, false)
}

func (ts *ThreadStore) setClosed(ctx context.Context, id int64, closed bool) error {
	var result sql.Result
	var err error
	if closed {
		result, err = ts.s.db.ExecContext(ctx, `
			UPDATE threads SET is_closed = 1, closed_at = ? WHERE id = ?
		`, ts.s.clock.Now().Unix(), id)
	} else {
		result, err = ts.s.db.ExecContext(ctx, `
			UPDATE threads SET is_closed = 0, closed_at = NULL WHERE id = ?
		`, id)
	}
	if err != nil {
		return fmt.Errorf("update thread: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("update thread: rows affected: %w", err)
	}
	if rows == 0 {
		return journal.NewNotFoundError("thread", id)
	}

	ts.s.notifier.publish(TopicThreads)
	return nil
}

// Delete removes a thread. Entries referencing it keep their thread_id
// in storage; readers resolve the dangling value as "no thread".
func (ts *ThreadStore) Delete(ctx context.Context, id int64) error {
	result, err := ts.s.db.ExecContext(ctx, "DELETE FROM threads WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("delete thread: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete thread: rows affected: %w", err)
	}
	if rows == 0 {
		return journal.NewNotFoundError("thread", id)
	}

	ts.s.notifier.publish(TopicThreads)
	return nil
}

// Get retrieves a single thread by id.
func (ts *ThreadStore) Get(ctx context.Context, id int64) (journal.Thread, error) {
	row := ts.s.db.QueryRowContext(ctx,
		"SELECT "+threadColumns+" FROM threads WHERE id = ?", id)
	t, err := scanThread(row)
	if errors.Is(err, sql.ErrNoRows) {
		return journal.Thread{}, journal.NewNotFoundError("thread", id)
	}
	return t, err
}

// Active returns open threads, newest first.
func (ts *ThreadStore) Active(ctx context.Context) ([]journal.Thread, error) {
	return ts.query(ctx, `
		SELECT `+threadColumns+` FROM threads
		WHERE is_closed = 0
		ORDER BY created_at DESC, id DESC
	`)
}

// Closed returns closed threads, most recently closed first.
func (ts *ThreadStore) Closed(ctx context.Context) ([]journal.Thread, error) {
	return ts.query(ctx, `
		SELECT `+threadColumns+` FROM threads
		WHERE is_closed = 1
		ORDER BY closed_at DESC, id DESC
	`)
}

// All returns every thread, newest first.
func (ts *ThreadStore) All(ctx context.Context) ([]journal.Thread, error) {
	return ts.query(ctx, `
		SELECT `+threadColumns+` FROM threads
		ORDER BY created_at DESC, id DESC
	`)
}

func (ts *ThreadStore) query(ctx context.Context, q string) ([]journal.Thread, error) {
	rows, err := ts.s.db.QueryContext(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("query threads: %w", err)
	}
	defer rows.Close()

	threads := []journal.Thread{}
	for rows.Next() {
		t, err := scanThread(rows)
		if err != nil {
			return nil, err
		}
		threads = append(threads, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate threads: %w", err)
	}
	return threads, nil
}

func scanThread(t scanTarget) (journal.Thread, error) {
	var (
		th        journal.Thread
		createdAt int64
		closedAt  sql.NullInt64
		closed    int
	)
	err := t.Scan(&th.ID, &th.Name, &th.Description, &createdAt, &closedAt, &closed)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return journal.Thread{}, err
		}
		return journal.Thread{}, fmt.Errorf("scan thread: %w", err)
	}

	th.CreatedAt = time.Unix(createdAt, 0).UTC()
	th.IsClosed = closed != 0
	if closedAt.Valid {
		at := time.Unix(closedAt.Int64, 0).UTC()
		th.ClosedAt = &at
	}
	return th, nil
}
