package service

import (
	"context"
	"fmt"
	"sync"

	"golang.org/x/sync/semaphore"
)

// ownerLocks serializes work per cart owner. Entries are dropped once no caller holds or waits on them.
type ownerLocks struct {
	mu    sync.Mutex
	locks map[string]*ownerLock
}

type ownerLock struct {
	sem  *semaphore.Weighted
	refs int
}

func newOwnerLocks() *ownerLocks {
	return &ownerLocks{locks: make(map[string]*ownerLock)}
}

// lock blocks until ownerID is free or ctx ends. The returned func releases the lock.
func (l *ownerLocks) lock(ctx context.Context, ownerID string) (func(), error) {
	l.mu.Lock()
	ol, ok := l.locks[ownerID]
	if !ok {
		ol = &ownerLock{sem: semaphore.NewWeighted(1)}
		l.locks[ownerID] = ol
	}
	ol.refs++
	l.mu.Unlock()

	if err := ol.sem.Acquire(ctx, 1); err != nil {
		l.release(ownerID, ol, false)
		return nil, fmt.Errorf("sem.Acquire: %w", err)
	}

	return func() { l.release(ownerID, ol, true) }, nil
}

func (l *ownerLocks) release(ownerID string, ol *ownerLock, held bool) {
	if held {
		ol.sem.Release(1)
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	ol.refs--
	if ol.refs == 0 {
		delete(l.locks, ownerID)
	}
}
