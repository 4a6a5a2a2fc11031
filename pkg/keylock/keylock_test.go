package keylock

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLockSerializesSameKey(t *testing.T) {
	kl := New()

	counter := 0
	var wg sync.WaitGroup
	for i := 0; i < 100; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			kl.Lock("p1|To Do")
			counter++
			kl.Unlock("p1|To Do")
		}()
	}
	wg.Wait()

	assert.Equal(t, 100, counter)
}

func TestLockOverlappingKeySets(t *testing.T) {
	kl := New()

	// Two goroutines locking the same pair in opposite order must not
	// deadlock; Lock sorts keys before acquiring.
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			kl.Lock("p1|To Do", "p1|In Progress")
			kl.Unlock("p1|To Do", "p1|In Progress")
		}()
		go func() {
			defer wg.Done()
			kl.Lock("p1|In Progress", "p1|To Do")
			kl.Unlock("p1|In Progress", "p1|To Do")
		}()
	}
	wg.Wait()
}

func TestLockDuplicateKeys(t *testing.T) {
	kl := New()
	// same-column move passes the same key twice
	kl.Lock("p1|Done", "p1|Done")
	kl.Unlock("p1|Done", "p1|Done")

	kl.mu.Lock()
	defer kl.mu.Unlock()
	assert.Empty(t, kl.locks, "entries should be reclaimed once released")
}
