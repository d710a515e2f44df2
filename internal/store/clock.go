package store

import "time"

// Clock supplies the current instant for lock-expiry decisions.
//
// Every check samples the clock fresh; nothing in the store caches a
// now. This keeps the lazy Open→Locked transition honest even when the
// process slept across the 24h boundary.
type Clock interface {
	Now() time.Time
}

// SystemClock returns the wall clock.
func SystemClock() Clock { return systemClock{} }

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now() }
