package services

import (
	"context"
	"sync"
)

// ownerLocks is a keyed mutex. Entries exist only while held or awaited.
type ownerLocks struct {
	mu    sync.Mutex
	locks map[string]*ownerLock
}

// ownerLock is held while its one-slot channel is full.
type ownerLock struct {
	sem  chan struct{}
	refs int
}

func newOwnerLocks() *ownerLocks {
	return &ownerLocks{locks: make(map[string]*ownerLock)}
}

// lock blocks until key is free or ctx is done. On success it returns the
// matching unlock; otherwise it returns ctx.Err().
func (l *ownerLocks) lock(ctx context.Context, key string) (unlock func(), err error) {
	l.mu.Lock()
	ol, ok := l.locks[key]
	if !ok {
		ol = &ownerLock{sem: make(chan struct{}, 1)}
		l.locks[key] = ol
	}
	ol.refs++
	l.mu.Unlock()

	select {
	case ol.sem <- struct{}{}:
	case <-ctx.Done():
		l.release(key, ol)
		return nil, ctx.Err()
	}

	return func() {
		<-ol.sem
		l.release(key, ol)
	}, nil
}

func (l *ownerLocks) release(key string, ol *ownerLock) {
	l.mu.Lock()
	defer l.mu.Unlock()
	ol.refs--
	if ol.refs == 0 {
		delete(l.locks, key)
	}
}

func (l *ownerLocks) len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.locks)
}
