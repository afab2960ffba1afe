package shared

import (
	"fmt"
	"sync"

	"github.com/google/uuid"
)

// RecalcLockKey names the per-user recalculation critical section.
func RecalcLockKey(userID uuid.UUID) string {
	return fmt.Sprintf("pricing:user:%s:lock", userID)
}

// KeyedMutex serializes work per string key. Cross-product allocation math
// requires a consistent snapshot of a user's data, so recalculation passes
// for the same user must never overlap.
type KeyedMutex struct {
	mu    sync.Mutex
	locks map[string]*keyedLock
}

type keyedLock struct {
	mu   sync.Mutex
	refs int
}

// NewKeyedMutex constructs a KeyedMutex.
func NewKeyedMutex() *KeyedMutex {
	return &KeyedMutex{locks: make(map[string]*keyedLock)}
}

// Lock acquires the mutex for key, blocking until it is available.
func (k *KeyedMutex) Lock(key string) {
	k.mu.Lock()
	entry, ok := k.locks[key]
	if !ok {
		entry = &keyedLock{}
		k.locks[key] = entry
	}
	entry.refs++
	k.mu.Unlock()

	entry.mu.Lock()
}

// Unlock releases the mutex for key. Entries with no waiters are evicted.
func (k *KeyedMutex) Unlock(key string) {
	k.mu.Lock()
	entry, ok := k.locks[key]
	if !ok {
		k.mu.Unlock()
		panic("shared: unlock of unknown key " + key)
	}
	entry.refs--
	if entry.refs == 0 {
		delete(k.locks, key)
	}
	k.mu.Unlock()

	entry.mu.Unlock()
}
