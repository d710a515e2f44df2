// Package view derives read-only projections over the entry store:
// the filtered ledger, the month-bucketed archive, and the weekly and
// monthly type-distribution patterns.
//
// Projections are pure and recomputed on demand, never persisted. The
// Watch variants subscribe to the store's notifier and re-emit a fresh
// result after every write that could affect them.
package view
