package session

import (
	"sync"

	"github.com/puzpuzpuz/xsync/v4"

	"github.com/mcoot/cardwar/internal/model"
)

// sessionLock serializes mutations of one session. refs counts the
// registration pin, the current holder and every queued waiter; it is only
// read or written inside lockTable.locks.Compute.
type sessionLock struct {
	mu   sync.Mutex
	refs int
}

// lockTable hands out per-session locks. An entry lives while anyone
// references it and is removed when the count drops to zero.
type lockTable struct {
	locks *xsync.Map[model.SessionID, *sessionLock]
}

func newLockTable() *lockTable {
	return &lockTable{
		locks: xsync.NewMap[model.SessionID, *sessionLock](),
	}
}

// retain gets or creates the lock for id and takes a reference to it
func (t *lockTable) retain(id model.SessionID) *sessionLock {
	l, _ := t.locks.Compute(id, func(l *sessionLock, loaded bool) (*sessionLock, xsync.ComputeOp) {
		if !loaded {
			l = &sessionLock{}
		}
		l.refs++
		return l, xsync.UpdateOp
	})
	return l
}

// drop gives back a reference, deleting the lock at zero
func (t *lockTable) drop(id model.SessionID) {
	t.locks.Compute(id, func(l *sessionLock, loaded bool) (*sessionLock, xsync.ComputeOp) {
		if !loaded {
			return l, xsync.CancelOp
		}
		l.refs--
		if l.refs <= 0 {
			return nil, xsync.DeleteOp
		}
		return l, xsync.UpdateOp
	})
}

// acquire blocks until the caller holds the lock for id. The returned func
// releases it and must be called exactly once.
func (t *lockTable) acquire(id model.SessionID) (release func()) {
	l := t.retain(id)
	l.mu.Lock()
	return func() {
		l.mu.Unlock()
		t.drop(id)
	}
}

// pin keeps the lock for a registered session alive between operations
func (t *lockTable) pin(id model.SessionID) {
	t.retain(id)
}

// unpin undoes pin once the session is deregistered
func (t *lockTable) unpin(id model.SessionID) {
	t.drop(id)
}

// refs reports the reference count for id, zero when no lock exists
func (t *lockTable) refs(id model.SessionID) int {
	n := 0
	t.locks.Compute(id, func(l *sessionLock, loaded bool) (*sessionLock, xsync.ComputeOp) {
		if loaded {
			n = l.refs
		}
		return l, xsync.CancelOp
	})
	return n
}

// size reports how many locks exist
func (t *lockTable) size() int {
	return t.locks.Size()
}
