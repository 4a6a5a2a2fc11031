package keylock

import (
	"sort"
	"sync"
)

// KeyLock provides mutual exclusion per string key. Reorder operations use it
// to serialize multi-step order shifts on a (project, column) pair, which would
// otherwise interleave under concurrent moves.
type KeyLock struct {
	mu    sync.Mutex
	locks map[string]*entry
}

type entry struct {
	mu   sync.Mutex
	refs int
}

func New() *KeyLock {
	return &KeyLock{locks: make(map[string]*entry)}
}

// Lock acquires the mutex for every key. Keys are deduplicated and locked in
// sorted order so two callers locking overlapping key sets cannot deadlock.
func (k *KeyLock) Lock(keys ...string) {
	for _, key := range sortedUnique(keys) {
		k.mu.Lock()
		e, ok := k.locks[key]
		if !ok {
			e = &entry{}
			k.locks[key] = e
		}
		e.refs++
		k.mu.Unlock()

		e.mu.Lock()
	}
}

// Unlock releases the mutex for every key previously passed to Lock.
func (k *KeyLock) Unlock(keys ...string) {
	unique := sortedUnique(keys)
	// release in reverse acquisition order
	for i := len(unique) - 1; i >= 0; i-- {
		key := unique[i]

		k.mu.Lock()
		e, ok := k.locks[key]
		if !ok {
			k.mu.Unlock()
			continue
		}
		e.refs--
		if e.refs == 0 {
			delete(k.locks, key)
		}
		k.mu.Unlock()

		e.mu.Unlock()
	}
}

func sortedUnique(keys []string) []string {
	if len(keys) <= 1 {
		return keys
	}
	out := make([]string, 0, len(keys))
	seen := make(map[string]bool, len(keys))
	for _, key := range keys {
		if !seen[key] {
			seen[key] = true
			out = append(out, key)
		}
	}
	sort.Strings(out)
	return out
}
