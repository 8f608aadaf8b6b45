package crimes

import (
	"encoding/json"
	"fmt"
	"sync/atomic"
)

// Store is the persistence surface the cache needs. *storage.DB
// satisfies it.
type Store interface {
	SaveSnapshot(data []byte) error
	LoadSnapshot() ([]byte, bool, error)
}

// Cache holds the latest crime snapshot. Readers always get a complete
// snapshot: Replace persists first and only then swaps the pointer, so a
// failed fetch or a failed write never tears down what readers see.
type Cache struct {
	store Store
	cur   atomic.Pointer[Snapshot]
}

func NewCache(store Store) *Cache {
	c := &Cache{store: store}
	c.cur.Store(&Snapshot{})
	return c
}

// Load reads the persisted snapshot into the cache. A missing blob is
// not an error: the cache simply starts empty.
func (c *Cache) Load() error {
	data, ok, err := c.store.LoadSnapshot()
	if err != nil {
		return fmt.Errorf("loading snapshot: %w", err)
	}
	if !ok {
		return nil
	}
	var snap Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return fmt.Errorf("decoding snapshot: %w", err)
	}
	c.cur.Store(&snap)
	return nil
}

// Current returns the latest snapshot. Never nil.
func (c *Cache) Current() *Snapshot {
	return c.cur.Load()
}

// Replace persists the new snapshot and swaps it in. On persistence
// failure the previous snapshot stays current.
func (c *Cache) Replace(snap *Snapshot) error {
	data, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("encoding snapshot: %w", err)
	}
	if err := c.store.SaveSnapshot(data); err != nil {
		return fmt.Errorf("persisting snapshot: %w", err)
	}
	c.cur.Store(snap)
	return nil
}
