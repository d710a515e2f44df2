// Package journal defines the domain model for The Hand, a private
// local-only ledger of things built, people helped, and lessons learned.
//
// The package holds pure types and policy only. Persistence lives in
// internal/store, derived views in internal/view, and export in
// internal/export.
//
// # Lock lifecycle
//
// An Entry starts Open (editable) and becomes Locked exactly 24 hours
// after creation. The transition is one-way and derived purely from
// elapsed time; no API sets the lock directly. Locked entries remain
// readable, deletable, and accept append-only addenda.
package journal
