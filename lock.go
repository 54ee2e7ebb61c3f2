package geldb

import (
	"sync"
	"sync/atomic"
)

// owner identifies the holder of a lock. Owners are compared by pointer.
type owner struct {
	id uint64
}

var lastOwnerID atomic.Uint64

func newOwner() *owner {
	return &owner{id: lastOwnerID.Add(1)}
}

// lock is a reentrant mutex that tracks its owner. The zero value is
// unlocked.
type lock struct {
	mu    sync.Mutex
	cond  *sync.Cond
	owner *owner
	depth int
}

// acquire blocks until o holds the lock. If o already holds it the depth
// is incremented.
func (l *lock) acquire(o *owner) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.owner == o {
		l.depth++
		return
	}
	for l.owner != nil {
		if l.cond == nil {
			l.cond = sync.NewCond(&l.mu)
		}
		l.cond.Wait()
	}
	l.owner, l.depth = o, 1
}

// tryReenter takes the lock again if o already holds it, and reports
// whether it did. It never blocks.
func (l *lock) tryReenter(o *owner) bool {
	if o == nil {
		return false
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.owner != o {
		return false
	}
	l.depth++
	return true
}

// release undoes one acquire or tryReenter by o.
func (l *lock) release(o *owner) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.owner != o || l.depth == 0 {
		panic("geldb: release of unowned lock")
	}
	l.depth--
	if l.depth > 0 {
		return
	}
	l.owner = nil
	if l.cond != nil {
		l.cond.Signal()
	}
}

func (l *lock) owned(o *owner) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return o != nil && l.owner == o
}
