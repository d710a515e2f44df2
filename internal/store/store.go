package store

import (
	"database/sql"
	_ "embed"
	"fmt"

	_ "github.com/mattn/go-sqlite3"
)

//go:embed schema.sql
var schemaSQL string

// Schema version tracking:
// 0 - Initial schema (pre-migration)
// 1 - Added index on shared_entries.entry_id
const currentSchemaVersion = 1

// Store owns the journal database and hands out the per-relation
// stores. All of them share one connection and one Notifier, so writes
// are serialized and every committed write reaches subscribers.
type Store struct {
	db       *sql.DB
	clock    Clock
	notifier *Notifier

	entries  *EntryStore
	addenda  *AddendumStore
	threads  *ThreadStore
	hands    *TrustedHandStore
}

// Open creates or opens a SQLite database at the given path using the
// system clock. Applies required pragmas and migrations automatically.
//
// This function is idempotent - safe to call multiple times.
func Open(path string) (*Store, error) {
	return OpenWithClock(path, SystemClock())
}

// OpenWithClock is Open with an injected clock. Every lock-expiry
// decision samples this clock, so tests can pin or advance time.
func OpenWithClock(path string, clock Clock) (*Store, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	// SQLite only supports one writer at a time, so limit connections.
	// The single connection also makes check-then-write sequences
	// (capacity check, lock guard) behave as critical sections.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	if err := applyPragmas(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to apply pragmas: %w", err)
	}

	if err := applySchema(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to apply schema: %w", err)
	}

	s := &Store{
		db:       db,
		clock:    clock,
		notifier: newNotifier(),
	}
	s.entries = &EntryStore{s: s}
	s.addenda = &AddendumStore{s: s}
	s.threads = &ThreadStore{s: s}
	s.hands = &TrustedHandStore{s: s}
	return s, nil
}

// Close closes the database connection and drops all subscriptions.
func (s *Store) Close() error {
	if s.notifier != nil {
		s.notifier.close()
	}
	if s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Entries returns the entry store.
func (s *Store) Entries() *EntryStore { return s.entries }

// Addenda returns the addendum store.
func (s *Store) Addenda() *AddendumStore { return s.addenda }

// Threads returns the thread store.
func (s *Store) Threads() *ThreadStore { return s.threads }

// Hands returns the trusted-hand store.
func (s *Store) Hands() *TrustedHandStore { return s.hands }

// Notifier returns the subscription hub shared by all stores.
func (s *Store) Notifier() *Notifier { return s.notifier }

// Clock returns the clock all lock-expiry decisions sample.
func (s *Store) Clock() Clock { return s.clock }

// applyPragmas sets required SQLite configuration.
func applyPragmas(db *sql.DB) error {
	pragmas := []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA synchronous = NORMAL",
		"PRAGMA busy_timeout = 5000",
		"PRAGMA foreign_keys = ON",
	}

	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			return fmt.Errorf("failed to execute %q: %w", pragma, err)
		}
	}

	return nil
}

// applySchema creates tables if they don't exist and runs migrations.
// This function is idempotent.
func applySchema(db *sql.DB) error {
	if _, err := db.Exec(schemaSQL); err != nil {
		return fmt.Errorf("failed to execute schema: %w", err)
	}

	if err := runMigrations(db); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	return nil
}

// runMigrations applies incremental schema migrations based on user_version.
func runMigrations(db *sql.DB) error {
	var version int
	if err := db.QueryRow("PRAGMA user_version").Scan(&version); err != nil {
		return fmt.Errorf("get user_version: %w", err)
	}

	if version < 1 {
		if err := migrateToV1(db); err != nil {
			return err
		}
		version = 1
	}

	if _, err := db.Exec(fmt.Sprintf("PRAGMA user_version = %d", currentSchemaVersion)); err != nil {
		return fmt.Errorf("set user_version: %w", err)
	}

	return nil
}

// migrateToV1 adds the shared_entries lookup index for databases
// created before the index landed in schema.sql.
func migrateToV1(db *sql.DB) error {
	// CREATE INDEX IF NOT EXISTS is safe - no-op if index exists
	_, err := db.Exec(`
		CREATE INDEX IF NOT EXISTS idx_shared_entries_entry
		ON shared_entries(entry_id)
	`)
	if err != nil {
		return fmt.Errorf("migrate to v1: %w", err)
	}
	return nil
}

// verifyPragma checks that a pragma is set to the expected value.
// Used for testing.
func (s *Store) verifyPragma(name, expected string) error {
	var value string
	query := fmt.Sprintf("PRAGMA %s", name)
	if err := s.db.QueryRow(query).Scan(&value); err != nil {
		return fmt.Errorf("failed to query %s: %w", name, err)
	}
	if value != expected {
		return fmt.Errorf("%s = %q, expected %q", name, value, expected)
	}
	return nil
}
