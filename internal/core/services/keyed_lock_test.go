// internal/core/services/keyed_lock_test.go
package services

import (
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestKeyedLock_SerializesSameKey(t *testing.T) {
	locks := newKeyedLock()
	key := uuid.New()

	const iterations = 200
	counter := 0

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < iterations; j++ {
				locks.Lock(key)
				counter++
				locks.Unlock(key)
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 8*iterations, counter)
}

func TestKeyedLock_IndependentKeysDoNotBlock(t *testing.T) {
	locks := newKeyedLock()
	first, second := uuid.New(), uuid.New()

	locks.Lock(first)

	done := make(chan struct{})
	go func() {
		locks.Lock(second)
		locks.Unlock(second)
		close(done)
	}()

	// A different product's lock must be acquirable while first is held.
	<-done
	locks.Unlock(first)
}

func TestKeyedLock_ReleasesEntries(t *testing.T) {
	locks := newKeyedLock()

	keys := make([]uuid.UUID, 50)
	for i := range keys {
		keys[i] = uuid.New()
	}

	var wg sync.WaitGroup
	for _, key := range keys {
		wg.Add(1)
		go func(k uuid.UUID) {
			defer wg.Done()
			locks.Lock(k)
			locks.Unlock(k)
		}(key)
	}
	wg.Wait()

	locks.mu.Lock()
	defer locks.mu.Unlock()
	assert.Empty(t, locks.locks, "released entries must not accumulate")
}
