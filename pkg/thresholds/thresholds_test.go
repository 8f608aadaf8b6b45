package thresholds

import (
	"encoding/json"
	"errors"
	"testing"
)

type fakeStore struct {
	data  []byte
	fail  bool
	saves int
}

func (f *fakeStore) SaveThresholds(data []byte) error {
	if f.fail {
		return errors.New("disk full")
	}
	f.data = append([]byte(nil), data...)
	f.saves++
	return nil
}

func (f *fakeStore) LoadThresholds() ([]byte, bool, error) {
	if f.data == nil {
		return nil, false, nil
	}
	return f.data, true, nil
}

func TestDefaultsCoverAllLevels(t *testing.T) {
	r := New(&fakeStore{})
	levels := r.Levels()
	if len(levels) != 10 {
		t.Fatalf("registry has %d levels, want 10", len(levels))
	}
	for i, level := range levels {
		if level != i+1 {
			t.Fatalf("Levels()[%d] = %d, want %d (ascending, no gaps)", i, level, i+1)
		}
		if want := (i + 1) * 10; r.Get(level) != want {
			t.Fatalf("default Get(%d) = %d, want %d", level, r.Get(level), want)
		}
	}
}

func TestGetUnknownLevelFallsBackToZero(t *testing.T) {
	r := New(&fakeStore{})
	if got := r.Get(42); got != 0 {
		t.Fatalf("Get(42) = %d, want 0", got)
	}
}

func TestSetMinimumClamps(t *testing.T) {
	r := New(&fakeStore{})

	if _, err := r.SetMinimum(5, 150); err != nil {
		t.Fatalf("SetMinimum returned error: %v", err)
	}
	if got := r.Get(5); got != 100 {
		t.Fatalf("Get(5) = %d after setting 150, want 100", got)
	}

	if _, err := r.SetMinimum(5, -5); err != nil {
		t.Fatalf("SetMinimum returned error: %v", err)
	}
	if got := r.Get(5); got != 0 {
		t.Fatalf("Get(5) = %d after setting -5, want 0", got)
	}
}

func TestSetMinimumUnknownLevel(t *testing.T) {
	store := &fakeStore{}
	r := New(store)
	if _, err := r.SetMinimum(11, 50); !errors.Is(err, ErrUnknownLevel) {
		t.Fatalf("SetMinimum(11) returned %v, want ErrUnknownLevel", err)
	}
	if store.saves != 0 {
		t.Fatalf("failed SetMinimum persisted %d time(s), want 0", store.saves)
	}
}

func TestSetMinimumRollbackOnPersistFailure(t *testing.T) {
	store := &fakeStore{fail: true}
	r := New(store)
	if _, err := r.SetMinimum(5, 99); err == nil {
		t.Fatal("SetMinimum should surface the persistence error")
	}
	if got := r.Get(5); got != 50 {
		t.Fatalf("Get(5) = %d after failed persist, want 50 (rolled back)", got)
	}
}

func TestAdjustAllZeroIsNoOp(t *testing.T) {
	r := New(&fakeStore{})
	changes, err := r.AdjustAll(0)
	if err != nil {
		t.Fatalf("AdjustAll(0) returned error: %v", err)
	}
	for level, ch := range changes {
		if ch.From != ch.To {
			t.Fatalf("AdjustAll(0) changed level %d: %d -> %d", level, ch.From, ch.To)
		}
	}
}

func TestAdjustAllMinusHundredZeroesEverything(t *testing.T) {
	r := New(&fakeStore{})
	if _, err := r.AdjustAll(-100); err != nil {
		t.Fatalf("AdjustAll(-100) returned error: %v", err)
	}
	for _, level := range r.Levels() {
		if got := r.Get(level); got != 0 {
			t.Fatalf("Get(%d) = %d after -100%% adjust, want 0", level, got)
		}
	}
}

func TestAdjustAllRoundsAndClamps(t *testing.T) {
	r := New(&fakeStore{})
	changes, err := r.AdjustAll(25)
	if err != nil {
		t.Fatalf("AdjustAll(25) returned error: %v", err)
	}
	// 10 * 1.25 = 12.5 rounds to 13; 90 * 1.25 = 112.5 clamps to 100.
	if ch := changes[1]; ch.To != 13 {
		t.Fatalf("level 1 adjusted to %d, want 13", ch.To)
	}
	if ch := changes[9]; ch.To != 100 {
		t.Fatalf("level 9 adjusted to %d, want 100 (clamped)", ch.To)
	}
}

func TestAdjustAllAtomicRollback(t *testing.T) {
	store := &fakeStore{fail: true}
	r := New(store)
	if _, err := r.AdjustAll(50); err == nil {
		t.Fatal("AdjustAll should surface the persistence error")
	}
	for i, level := range r.Levels() {
		if want := (i + 1) * 10; r.Get(level) != want {
			t.Fatalf("Get(%d) = %d after failed adjust, want %d (no partial application)", level, r.Get(level), want)
		}
	}
}

func TestSetAll(t *testing.T) {
	r := New(&fakeStore{})
	if err := r.SetAll(75); err != nil {
		t.Fatalf("SetAll returned error: %v", err)
	}
	for _, level := range r.Levels() {
		if got := r.Get(level); got != 75 {
			t.Fatalf("Get(%d) = %d after SetAll(75), want 75", level, got)
		}
	}
}

func TestResetRestoresDefaults(t *testing.T) {
	r := New(&fakeStore{})
	if err := r.SetAll(1); err != nil {
		t.Fatalf("SetAll returned error: %v", err)
	}
	if err := r.Reset(); err != nil {
		t.Fatalf("Reset returned error: %v", err)
	}
	for i, level := range r.Levels() {
		if want := (i + 1) * 10; r.Get(level) != want {
			t.Fatalf("Get(%d) = %d after reset, want %d", level, r.Get(level), want)
		}
	}
}

func TestLoadOverlaysPersistedValues(t *testing.T) {
	saved, _ := json.Marshal(map[int]Level{
		5:  {Name: "Leave No Trace", MinCPR: 65},
		42: {Name: "ghost", MinCPR: 99}, // unknown level, must be dropped
	})
	store := &fakeStore{data: saved}

	r := New(store)
	if err := r.Load(); err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if got := r.Get(5); got != 65 {
		t.Fatalf("Get(5) = %d after load, want 65", got)
	}
	if got := r.Get(42); got != 0 {
		t.Fatalf("Get(42) = %d after load, want 0 (unknown levels dropped)", got)
	}
	if got := r.Get(3); got != 30 {
		t.Fatalf("Get(3) = %d after load, want default 30", got)
	}
	if len(r.Levels()) != 10 {
		t.Fatalf("registry has %d levels after load, want 10", len(r.Levels()))
	}
}

func TestViewIsConsistentCopy(t *testing.T) {
	r := New(&fakeStore{})
	v := r.View()
	if _, err := r.SetMinimum(5, 99); err != nil {
		t.Fatalf("SetMinimum returned error: %v", err)
	}
	if got := v.Get(5); got != 50 {
		t.Fatalf("view Get(5) = %d after registry mutation, want 50 (immutable copy)", got)
	}
	if got := r.Get(5); got != 99 {
		t.Fatalf("registry Get(5) = %d, want 99", got)
	}
}
