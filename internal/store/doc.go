// Package store provides SQLite-backed durable storage for The Hand
// journal.
//
// The store owns five relations:
//   - Entries: journal records with the 24h edit-lock lifecycle
//   - Addendums: append-only notes, CASCADE-deleted with their entry
//   - Threads: long-running groupings, independently active/closed
//   - Trusted Hands: capacity-bounded (3) witness contacts
//   - Shared Entries: append-only witness log, never pruned
//
// # Lock resolution
//
// There is no background timer. Every read and write path calls
// resolveExpired with a freshly sampled now, which persists any due
// Open→Locked transition before a record is exposed or mutated. A
// caller holding a view fetched before the 24h boundary can therefore
// never sneak an edit in after it.
//
// # Reactivity
//
// Every committed write publishes to the Notifier topic(s) whose result
// sets it could affect. Subscribers receive coalescing signals and
// re-query, which gives read-your-writes within the process.
//
// # Database configuration
//
//   - WAL mode: concurrent reads during writes
//   - synchronous=NORMAL: balance durability/performance
//   - busy_timeout=5000: wait for locks up to 5 seconds
//   - foreign_keys=ON: enforce the addendum CASCADE
//
// A single write connection (MaxOpenConns=1) serializes store
// operations, so the lock check and the guarded UPDATE in EntryStore
// behave as a per-entity critical section.
package store
