// internal/core/services/keyed_lock.go
package services

import (
	"sync"

	"github.com/google/uuid"
)

// keyedLock serializes movements per product while leaving different products
// free to proceed in parallel. A global lock here would turn every warehouse
// terminal into a queue behind one mutex.
type keyedLock struct {
	mu    sync.Mutex
	locks map[uuid.UUID]*productLock
}

type productLock struct {
	mu   sync.Mutex
	refs int
}

func newKeyedLock() *keyedLock {
	return &keyedLock{locks: make(map[uuid.UUID]*productLock)}
}

// Lock acquires the per-product mutex, creating it on first use. Entries are
// reference counted and removed again once the last holder releases, so the
// map does not grow with the catalog.
func (k *keyedLock) Lock(key uuid.UUID) {
	k.mu.Lock()
	l, ok := k.locks[key]
	if !ok {
		l = &productLock{}
		k.locks[key] = l
	}
	l.refs++
	k.mu.Unlock()

	l.mu.Lock()
}

// Unlock releases the per-product mutex acquired by Lock.
func (k *keyedLock) Unlock(key uuid.UUID) {
	k.mu.Lock()
	l := k.locks[key]
	l.refs--
	if l.refs == 0 {
		delete(k.locks, key)
	}
	k.mu.Unlock()

	l.mu.Unlock()
}
