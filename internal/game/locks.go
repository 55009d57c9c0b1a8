package game

import (
	"sort"
	"time"
)

// DefaultLockWait bounds how long a command waits for entity locks before the
// operation is abandoned and reported as transient contention.
const DefaultLockWait = 2 * time.Second

// entityLock serialises access to a single entity's mutable fields. It is a
// channel-based mutex so acquisition can carry a deadline.
type entityLock struct {
	ch chan struct{}
}

func newEntityLock() entityLock {
	return entityLock{ch: make(chan struct{}, 1)}
}

func (l *entityLock) acquire(wait time.Duration) bool {
	select {
	case l.ch <- struct{}{}:
		return true
	default:
	}
	timer := time.NewTimer(wait)
	defer timer.Stop()
	select {
	case l.ch <- struct{}{}:
		return true
	case <-timer.C:
		return false
	}
}

func (l *entityLock) release() {
	select {
	case <-l.ch:
	default:
		panic("game: release of unheld entity lock")
	}
}

// locker is implemented by every entity guarded by a per-entity lock. Lock
// identifiers carry a kind prefix (p:/r:/n:) so ordering is total across
// entity kinds.
type locker interface {
	lockID() string
	lock() *entityLock
}

// acquireAll takes every entity lock in the set, in ascending lockID order,
// within the overall wait budget. Duplicates are acquired once. On timeout all
// locks taken so far are released and ErrContended is returned.
//
// The world's registry mutex and entity locks never nest: callers take the
// registry lock only in a separate phase, with no entity lock held.
func acquireAll(wait time.Duration, ents ...locker) (release func(), err error) {
	sorted := make([]locker, 0, len(ents))
	seen := make(map[string]struct{}, len(ents))
	for _, e := range ents {
		if e == nil {
			continue
		}
		if _, dup := seen[e.lockID()]; dup {
			continue
		}
		seen[e.lockID()] = struct{}{}
		sorted = append(sorted, e)
	}
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].lockID() < sorted[j].lockID()
	})

	deadline := time.Now().Add(wait)
	held := make([]locker, 0, len(sorted))
	for _, e := range sorted {
		remaining := time.Until(deadline)
		if remaining <= 0 || !e.lock().acquire(remaining) {
			for i := len(held) - 1; i >= 0; i-- {
				held[i].lock().release()
			}
			return nil, ErrContended
		}
		held = append(held, e)
	}
	return func() {
		for i := len(held) - 1; i >= 0; i-- {
			held[i].lock().release()
		}
	}, nil
}
