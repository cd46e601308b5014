package services

import "sync"

// propertyLocks serializes booking and reservation writes per property.
// SQLite has no row-level SELECT FOR UPDATE, so concurrent requests for the
// same property are funneled through an in-process mutex before the
// transaction re-checks for conflicts.
var propertyLocks = struct {
	mu    sync.Mutex
	locks map[string]*sync.Mutex
}{locks: make(map[string]*sync.Mutex)}

// lockProperty acquires the mutex for a property and returns its unlock func.
func lockProperty(propertyID string) func() {
	propertyLocks.mu.Lock()
	l, ok := propertyLocks.locks[propertyID]
	if !ok {
		l = &sync.Mutex{}
		propertyLocks.locks[propertyID] = l
	}
	propertyLocks.mu.Unlock()

	l.Lock()
	return l.Unlock
}
