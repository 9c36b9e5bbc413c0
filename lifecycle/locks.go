// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package lifecycle

import "sync"

// pollLocks hands out one mutex per poll id. Entries are dropped once no
// caller holds or waits on them, so the map only grows with in-flight polls.
type pollLocks struct {
	mu    sync.Mutex
	locks map[string]*pollLock
}

type pollLock struct {
	mu   sync.Mutex
	refs int
}

func newPollLocks() *pollLocks {
	return &pollLocks{locks: make(map[string]*pollLock)}
}

// Lock blocks until the poll's mutex is held and returns its release func.
func (l *pollLocks) Lock(pollID string) (unlock func()) {
	l.mu.Lock()
	pl, ok := l.locks[pollID]
	if !ok {
		pl = &pollLock{}
		l.locks[pollID] = pl
	}
	pl.refs++
	l.mu.Unlock()

	pl.mu.Lock()
	return func() {
		pl.mu.Unlock()

		l.mu.Lock()
		pl.refs--
		if pl.refs == 0 {
			delete(l.locks, pollID)
		}
		l.mu.Unlock()
	}
}

// held reports how many poll ids currently have a lock entry.
func (l *pollLocks) held() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.locks)
}
