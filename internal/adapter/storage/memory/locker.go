package memory

import "sync"

// UserLocker hands out one mutex per user id, the in-memory analogue of
// row-level locking: the ledger runs each read-check-write sequence for
// a user under that user's lock while other users proceed concurrently.
// Locks are created on first use and never released back; the set of
// users is bounded by process lifetime like the rest of the ledger state.
type UserLocker struct {
	locks sync.Map // userID -> *sync.Mutex
}

// NewUserLocker creates an empty lock manager.
func NewUserLocker() *UserLocker {
	return &UserLocker{}
}

// WithUser runs fn while holding the user's lock.
func (l *UserLocker) WithUser(userID string, fn func() error) error {
	v, _ := l.locks.LoadOrStore(userID, &sync.Mutex{})
	mu := v.(*sync.Mutex)
	mu.Lock()
	defer mu.Unlock()
	return fn()
}
