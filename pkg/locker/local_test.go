package locker

import (
	"context"
	"sync"
	"testing"
	"time"
)

func TestLocalLocker_MutualExclusion(t *testing.T) {
	l := NewLocal()

	var (
		mu      sync.Mutex
		holders int
		maxSeen int
	)

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			release, err := l.Acquire(context.Background(), "camp-1")
			if err != nil {
				t.Errorf("Acquire: %v", err)
				return
			}
			mu.Lock()
			holders++
			if holders > maxSeen {
				maxSeen = holders
			}
			mu.Unlock()

			time.Sleep(time.Millisecond)

			mu.Lock()
			holders--
			mu.Unlock()
			release()
		}()
	}
	wg.Wait()

	if maxSeen != 1 {
		t.Errorf("saw %d concurrent holders, want 1", maxSeen)
	}
}

func TestLocalLocker_IndependentKeys(t *testing.T) {
	l := NewLocal()

	release1, err := l.Acquire(context.Background(), "camp-1")
	if err != nil {
		t.Fatalf("Acquire camp-1: %v", err)
	}
	defer release1()

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	release2, err := l.Acquire(ctx, "camp-2")
	if err != nil {
		t.Fatalf("a different key must not block: %v", err)
	}
	release2()
}

func TestLocalLocker_ContextCancelled(t *testing.T) {
	l := NewLocal()

	release, err := l.Acquire(context.Background(), "camp-1")
	if err != nil {
		t.Fatalf("Acquire: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	if _, err := l.Acquire(ctx, "camp-1"); err != context.DeadlineExceeded {
		t.Errorf("err = %v, want DeadlineExceeded", err)
	}

	release()

	// The key must be usable again after the cancelled waiter gave up.
	release, err = l.Acquire(context.Background(), "camp-1")
	if err != nil {
		t.Fatalf("re-Acquire: %v", err)
	}
	release()

	ll := l.(*localLocker)
	ll.mu.Lock()
	remaining := len(ll.locks)
	ll.mu.Unlock()
	if remaining != 0 {
		t.Errorf("%d lock entries leaked", remaining)
	}
}
