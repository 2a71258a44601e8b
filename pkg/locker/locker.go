// Package locker provides keyed mutual exclusion. The engine takes a lock
// per campaign id so concurrent recalculations of the same campaign
// serialize instead of racing their persisted snapshots.
package locker

import "context"

// Locker serializes work per key.
type Locker interface {
	// Acquire blocks until the key lock is held or ctx is done. The
	// returned release func must be called exactly once.
	Acquire(ctx context.Context, key string) (release func(), err error)
}
