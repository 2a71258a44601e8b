package locker

import (
	"context"
	"sync"
)

type lockEntry struct {
	ch   chan struct{}
	refs int
}

type localLocker struct {
	mu    sync.Mutex
	locks map[string]*lockEntry
}

// NewLocal returns an in-process Locker. Entries are reference counted and
// removed once the last holder or waiter releases, so the map does not grow
// with the number of campaigns ever seen.
func NewLocal() Locker {
	return &localLocker{locks: map[string]*lockEntry{}}
}

func (l *localLocker) Acquire(ctx context.Context, key string) (func(), error) {
	l.mu.Lock()
	e, ok := l.locks[key]
	if !ok {
		e = &lockEntry{ch: make(chan struct{}, 1)}
		l.locks[key] = e
	}
	e.refs++
	l.mu.Unlock()

	select {
	case e.ch <- struct{}{}:
		return func() {
			<-e.ch
			l.put(key, e)
		}, nil
	case <-ctx.Done():
		l.put(key, e)
		return nil, ctx.Err()
	}
}

func (l *localLocker) put(key string, e *lockEntry) {
	l.mu.Lock()
	e.refs--
	if e.refs == 0 {
		delete(l.locks, key)
	}
	l.mu.Unlock()
}
