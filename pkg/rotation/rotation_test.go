package rotation

import (
	"errors"
	"testing"
)

// fakeStore records saved key lists and can be told to fail.
type fakeStore struct {
	saved [][]string
	fail  bool
}

func (f *fakeStore) SaveAPIKeys(keys []string) error {
	if f.fail {
		return errors.New("disk full")
	}
	f.saved = append(f.saved, append([]string(nil), keys...))
	return nil
}

func TestNextRoundRobin(t *testing.T) {
	r := New(&fakeStore{}, []string{"alpha", "beta", "gamma"})

	want := []string{"alpha", "beta", "gamma", "alpha", "beta", "gamma"}
	for i, w := range want {
		got, err := r.Next()
		if err != nil {
			t.Fatalf("Next() call %d returned error: %v", i, err)
		}
		if got != w {
			t.Fatalf("Next() call %d = %q, want %q", i, got, w)
		}
	}
}

func TestNextEmpty(t *testing.T) {
	r := New(&fakeStore{}, nil)
	if _, err := r.Next(); !errors.Is(err, ErrNoKeys) {
		t.Fatalf("Next() on empty rotator returned %v, want ErrNoKeys", err)
	}
}

func TestAddDuplicate(t *testing.T) {
	store := &fakeStore{}
	r := New(store, []string{"alpha"})

	if _, err := r.Add("alpha"); !errors.Is(err, ErrDuplicateKey) {
		t.Fatalf("Add(duplicate) returned %v, want ErrDuplicateKey", err)
	}
	if len(store.saved) != 0 {
		t.Fatalf("duplicate add persisted %d time(s), want 0", len(store.saved))
	}
	if r.Len() != 1 {
		t.Fatalf("key count = %d after duplicate add, want 1", r.Len())
	}
}

func TestAddPersistsAndCounts(t *testing.T) {
	store := &fakeStore{}
	r := New(store, nil)

	count, err := r.Add("alpha")
	if err != nil {
		t.Fatalf("Add returned error: %v", err)
	}
	if count != 1 {
		t.Fatalf("Add returned count %d, want 1", count)
	}
	if len(store.saved) != 1 || len(store.saved[0]) != 1 || store.saved[0][0] != "alpha" {
		t.Fatalf("unexpected persisted state: %#v", store.saved)
	}
}

func TestAddRollbackOnPersistFailure(t *testing.T) {
	store := &fakeStore{fail: true}
	r := New(store, []string{"alpha"})

	if _, err := r.Add("beta"); err == nil {
		t.Fatal("Add should surface the persistence error")
	}
	if r.Len() != 1 {
		t.Fatalf("key count = %d after failed add, want 1 (rolled back)", r.Len())
	}
}

func TestRemoveNotFound(t *testing.T) {
	r := New(&fakeStore{}, []string{"alpha"})
	if _, err := r.Remove("beta"); !errors.Is(err, ErrKeyNotFound) {
		t.Fatalf("Remove(absent) returned %v, want ErrKeyNotFound", err)
	}
}

func TestRemoveReclampsCursor(t *testing.T) {
	r := New(&fakeStore{}, []string{"alpha", "beta", "gamma"})

	// Advance cursor to the last slot.
	r.Next()
	r.Next()

	if _, err := r.Remove("gamma"); err != nil {
		t.Fatalf("Remove returned error: %v", err)
	}

	// Cursor pointed at index 2, list now has length 2; the next issue
	// must stay in range.
	got, err := r.Next()
	if err != nil {
		t.Fatalf("Next() after removal returned error: %v", err)
	}
	if got != "alpha" && got != "beta" {
		t.Fatalf("Next() after removal = %q, want a remaining key", got)
	}
}

func TestRemoveRollbackOnPersistFailure(t *testing.T) {
	store := &fakeStore{fail: true}
	r := New(store, []string{"alpha", "beta"})

	if _, err := r.Remove("alpha"); err == nil {
		t.Fatal("Remove should surface the persistence error")
	}
	if r.Len() != 2 {
		t.Fatalf("key count = %d after failed remove, want 2 (rolled back)", r.Len())
	}
}

func TestMasked(t *testing.T) {
	r := New(&fakeStore{}, []string{
		"abcd1234efgh5678ijkl", // long: 4 + 8 stars max + 4
		"abcdEFGHijkl",         // 12 chars: 4 + 4 stars + 4
		"short",                // too short to keep any cleartext
	})

	got := r.Masked()
	want := []string{
		"abcd********ijkl",
		"abcd****ijkl",
		"*****",
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("Masked()[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}
