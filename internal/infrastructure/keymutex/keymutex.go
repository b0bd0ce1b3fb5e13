// Package keymutex provides per-key mutual exclusion. Locks for distinct
// keys are fully independent, so a holder of one key can acquire another
// key without deadlock. The posting engine relies on that: it takes its
// period lock first and the sequence locks inside it, on one shared
// instance.
package keymutex

import "sync"

// KeyMutex hands out one mutex per live key. Idle keys hold no memory;
// their entries are dropped once the last holder or waiter releases.
type KeyMutex struct {
	mu      sync.Mutex
	entries map[string]*entry
}

type entry struct {
	mu sync.Mutex
	// refs counts the holder plus all waiters, so the entry is only
	// reclaimed when nobody references it anymore.
	refs int
}

// New creates an empty KeyMutex.
func New() *KeyMutex {
	return &KeyMutex{entries: make(map[string]*entry)}
}

// Lock acquires the mutex for key and returns the unlock function.
func (m *KeyMutex) Lock(key string) func() {
	m.mu.Lock()
	e, ok := m.entries[key]
	if !ok {
		e = &entry{}
		m.entries[key] = e
	}
	e.refs++
	m.mu.Unlock()

	e.mu.Lock()

	return func() {
		e.mu.Unlock()

		m.mu.Lock()
		e.refs--
		if e.refs == 0 {
			delete(m.entries, key)
		}
		m.mu.Unlock()
	}
}
