// Package rotation hands out Torn API keys round-robin so that repeated
// fetches spread their call load across every configured key.
package rotation

import (
	"errors"
	"strings"
	"sync"
)

var (
	ErrNoKeys       = errors.New("no API keys configured")
	ErrDuplicateKey = errors.New("API key already exists")
	ErrKeyNotFound  = errors.New("API key does not exist")
)

// Store is the persistence surface the rotator needs. *storage.DB
// satisfies it.
type Store interface {
	SaveAPIKeys(keys []string) error
}

// Rotator owns an ordered list of API keys and a cursor pointing at the
// next key to issue. Every mutation is written through to the store
// before it is acknowledged; a failed write rolls the in-memory list
// back so memory and disk never diverge.
type Rotator struct {
	mu     sync.Mutex
	store  Store
	keys   []string
	cursor int
}

func New(store Store, keys []string) *Rotator {
	return &Rotator{store: store, keys: append([]string(nil), keys...)}
}

// Next returns the key at the cursor and advances it, wrapping at the
// end of the list.
func (r *Rotator) Next() (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.keys) == 0 {
		return "", ErrNoKeys
	}
	key := r.keys[r.cursor]
	r.cursor = (r.cursor + 1) % len(r.keys)
	return key, nil
}

// Add appends a new key and persists the list, returning the new count.
func (r *Rotator) Add(key string) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, k := range r.keys {
		if k == key {
			return 0, ErrDuplicateKey
		}
	}
	r.keys = append(r.keys, key)
	if err := r.store.SaveAPIKeys(r.keys); err != nil {
		r.keys = r.keys[:len(r.keys)-1]
		return 0, err
	}
	return len(r.keys), nil
}

// Remove deletes a key and persists the list, returning the new count.
// The cursor is re-clamped so it stays in range after the list shrinks.
func (r *Rotator) Remove(key string) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	idx := -1
	for i, k := range r.keys {
		if k == key {
			idx = i
			break
		}
	}
	if idx == -1 {
		return 0, ErrKeyNotFound
	}

	oldKeys := r.keys
	oldCursor := r.cursor

	keys := make([]string, 0, len(r.keys)-1)
	keys = append(keys, r.keys[:idx]...)
	keys = append(keys, r.keys[idx+1:]...)
	r.keys = keys
	if len(r.keys) > 0 {
		r.cursor = r.cursor % len(r.keys)
	} else {
		r.cursor = 0
	}

	if err := r.store.SaveAPIKeys(r.keys); err != nil {
		r.keys = oldKeys
		r.cursor = oldCursor
		return 0, err
	}
	return len(r.keys), nil
}

// Len returns the number of configured keys.
func (r *Rotator) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.keys)
}

// Masked returns every key in display-safe form: the first and last four
// characters with at most eight asterisks in between. Keys too short to
// keep a prefix and suffix are masked entirely. Masked values are for
// display only, never for comparison.
func (r *Rotator) Masked() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, len(r.keys))
	for i, k := range r.keys {
		out[i] = maskKey(k)
	}
	return out
}

func maskKey(key string) string {
	if len(key) <= 8 {
		return strings.Repeat("*", len(key))
	}
	middle := len(key) - 8
	if middle > 8 {
		middle = 8
	}
	return key[:4] + strings.Repeat("*", middle) + key[len(key)-4:]
}
