// Package thresholds owns the per-difficulty minimum CPR table. Every
// mutation clamps into [0,100], applies atomically and is written
// through to the store before it is acknowledged.
package thresholds

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"sort"
	"sync"
)

var ErrUnknownLevel = errors.New("unknown difficulty level")

// Level is one row of the threshold table.
type Level struct {
	Name   string `json:"name"`
	MinCPR int    `json:"min_cpr"`
}

// Change records a single before/after value for audit display.
type Change struct {
	From int
	To   int
}

// defaultLevels is the compiled-in table. Reset restores it verbatim.
var defaultLevels = map[int]Level{
	1:  {Name: "Mob Mentality / Pet Project", MinCPR: 10},
	2:  {Name: "Cash Me If You Can / Best Of The Lot", MinCPR: 20},
	3:  {Name: "Smoke And Wing Mirrors / Market Forces", MinCPR: 30},
	4:  {Name: "Snow Blind / Stage Fright", MinCPR: 40},
	5:  {Name: "Leave No Trace", MinCPR: 50},
	6:  {Name: "Honey Trap", MinCPR: 60},
	7:  {Name: "Blast From The Past", MinCPR: 70},
	8:  {Name: "Break The Bank", MinCPR: 80},
	9:  {Name: "???", MinCPR: 90},
	10: {Name: "??", MinCPR: 100},
}

// Store is the persistence surface the registry needs. *storage.DB
// satisfies it.
type Store interface {
	SaveThresholds(data []byte) error
	LoadThresholds() ([]byte, bool, error)
}

// Registry maps difficulty level to its display name and minimum CPR.
// All ten levels are always present once constructed. Reads may run
// concurrently with each other and always observe a fully applied table,
// never a half-finished bulk adjustment.
type Registry struct {
	mu     sync.RWMutex
	store  Store
	levels map[int]Level
}

func New(store Store) *Registry {
	return &Registry{store: store, levels: copyLevels(defaultLevels)}
}

// Load overlays persisted minimums onto the default table. Persisted
// entries for levels that no longer exist are dropped; missing levels
// keep their defaults, so the table never has gaps.
func (r *Registry) Load() error {
	data, ok, err := r.store.LoadThresholds()
	if err != nil {
		return fmt.Errorf("loading thresholds: %w", err)
	}
	if !ok {
		return nil
	}
	var saved map[int]Level
	if err := json.Unmarshal(data, &saved); err != nil {
		return fmt.Errorf("decoding thresholds: %w", err)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	for level, entry := range saved {
		if cur, exists := r.levels[level]; exists {
			cur.MinCPR = clamp(entry.MinCPR)
			r.levels[level] = cur
		}
	}
	return nil
}

// Get returns the minimum CPR for a level, or 0 when the level is not
// registered. An unknown level is a configuration gap, not a caller
// bug, so lookups never fail.
func (r *Registry) Get(level int) int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.levels[level].MinCPR
}

// Name returns the display name for a level, or "" when unknown.
func (r *Registry) Name(level int) string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.levels[level].Name
}

// Levels returns every registered difficulty level in ascending order.
func (r *Registry) Levels() []int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return sortedLevels(r.levels)
}

// SetMinimum stores a clamped minimum CPR for one level and persists the
// table, returning the previous value.
func (r *Registry) SetMinimum(level, value int) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	entry, ok := r.levels[level]
	if !ok {
		return 0, fmt.Errorf("%w: %d", ErrUnknownLevel, level)
	}
	old := entry.MinCPR
	entry.MinCPR = clamp(value)
	r.levels[level] = entry
	if err := r.persistLocked(); err != nil {
		entry.MinCPR = old
		r.levels[level] = entry
		return 0, err
	}
	return old, nil
}

// SetAll stores the same clamped minimum for every level.
func (r *Registry) SetAll(value int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	old := copyLevels(r.levels)
	v := clamp(value)
	for level, entry := range r.levels {
		entry.MinCPR = v
		r.levels[level] = entry
	}
	if err := r.persistLocked(); err != nil {
		r.levels = old
		return err
	}
	return nil
}

// AdjustAll scales every minimum by pct percent, rounding and clamping,
// and returns the before/after values per level. The adjustment is
// all-or-nothing: if the write fails the prior table stays in place.
func (r *Registry) AdjustAll(pct int) (map[int]Change, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	old := copyLevels(r.levels)
	changes := make(map[int]Change, len(r.levels))
	for level, entry := range r.levels {
		from := entry.MinCPR
		entry.MinCPR = clamp(int(math.Round(float64(from) * (1 + float64(pct)/100))))
		r.levels[level] = entry
		changes[level] = Change{From: from, To: entry.MinCPR}
	}
	if err := r.persistLocked(); err != nil {
		r.levels = old
		return nil, err
	}
	return changes, nil
}

// Reset restores the compiled-in defaults and persists them.
func (r *Registry) Reset() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	old := r.levels
	r.levels = copyLevels(defaultLevels)
	if err := r.persistLocked(); err != nil {
		r.levels = old
		return err
	}
	return nil
}

// View is an immutable copy of the table taken under a single read lock,
// so an evaluation pass works against one consistent set of minimums.
type View struct {
	levels map[int]Level
	order  []int
}

func (r *Registry) View() View {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return View{levels: copyLevels(r.levels), order: sortedLevels(r.levels)}
}

// Get returns the minimum CPR for a level, 0 when unknown.
func (v View) Get(level int) int { return v.levels[level].MinCPR }

// Name returns the display name for a level, "" when unknown.
func (v View) Name(level int) string { return v.levels[level].Name }

// Levels returns the registered levels in ascending order.
func (v View) Levels() []int { return v.order }

func (r *Registry) persistLocked() error {
	data, err := json.Marshal(r.levels)
	if err != nil {
		return err
	}
	return r.store.SaveThresholds(data)
}

func clamp(v int) int {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}

func copyLevels(src map[int]Level) map[int]Level {
	dst := make(map[int]Level, len(src))
	for k, v := range src {
		dst[k] = v
	}
	return dst
}

func sortedLevels(m map[int]Level) []int {
	out := make([]int, 0, len(m))
	for level := range m {
		out = append(out, level)
	}
	sort.Ints(out)
	return out
}
