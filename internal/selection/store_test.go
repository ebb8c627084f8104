package selection

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/framepick/framepick-agent/internal/catalog"
)

func setupStore(t *testing.T, relPaths ...string) *Store {
	t.Helper()
	dir := t.TempDir()
	for _, rel := range relPaths {
		full := filepath.Join(dir, filepath.FromSlash(rel))
		if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(full, []byte("x"), 0o644); err != nil {
			t.Fatal(err)
		}
	}

	c := catalog.New(dir, slog.New(slog.NewTextHandler(io.Discard, nil)))
	if _, err := c.Refresh(); err != nil {
		t.Fatalf("Refresh() error = %v", err)
	}
	return NewStore(c)
}

func TestStore_ToggleInvolution(t *testing.T) {
	store := setupStore(t, "a.jpg")

	on, err := store.Toggle("a.jpg")
	if err != nil {
		t.Fatalf("Toggle() error = %v", err)
	}
	if !on {
		t.Error("first toggle = false, want true")
	}

	off, err := store.Toggle("a.jpg")
	if err != nil {
		t.Fatalf("Toggle() error = %v", err)
	}
	if off {
		t.Error("second toggle = true, want false")
	}

	if store.Count() != 0 {
		t.Errorf("Count() = %d after involution, want 0", store.Count())
	}
}

func TestStore_ToggleUnknownPath(t *testing.T) {
	store := setupStore(t, "a.jpg")

	if _, err := store.Toggle("missing.jpg"); !errors.Is(err, ErrNotCataloged) {
		t.Errorf("Toggle(missing) error = %v, want ErrNotCataloged", err)
	}
}

func TestStore_ToggleTraversal(t *testing.T) {
	store := setupStore(t, "a.jpg")

	if _, err := store.Toggle("../../etc/passwd"); !errors.Is(err, catalog.ErrPathOutsideBase) {
		t.Errorf("Toggle(traversal) error = %v, want ErrPathOutsideBase", err)
	}
	if _, err := store.Toggle(""); !errors.Is(err, catalog.ErrEmptyPath) {
		t.Errorf("Toggle(empty) error = %v, want ErrEmptyPath", err)
	}
}

func TestStore_AllReturnsOnlySelected(t *testing.T) {
	store := setupStore(t, "a.jpg", "b.jpg", "c.jpg")

	store.Toggle("a.jpg")
	store.Toggle("b.jpg")
	store.Toggle("b.jpg")

	all := store.All()
	if len(all) != 1 || !all["a.jpg"] {
		t.Errorf("All() = %v, want only a.jpg", all)
	}

	all["z.jpg"] = true
	if store.Count() != 1 {
		t.Error("All() returned shared map, want a copy")
	}
}

func TestStore_ConcurrentToggles(t *testing.T) {
	const n = 32
	rels := make([]string, n)
	for i := range rels {
		rels[i] = fmt.Sprintf("frame_%02d.jpg", i)
	}
	store := setupStore(t, rels...)

	var wg sync.WaitGroup
	for _, rel := range rels {
		wg.Add(1)
		go func(rel string) {
			defer wg.Done()
			if _, err := store.Toggle(rel); err != nil {
				t.Errorf("Toggle(%q) error = %v", rel, err)
			}
		}(rel)
	}
	wg.Wait()

	if store.Count() != n {
		t.Errorf("Count() = %d after %d distinct toggles, want %d", store.Count(), n, n)
	}
}

func TestStore_ConcurrentSameKey(t *testing.T) {
	store := setupStore(t, "a.jpg")

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			store.Toggle("a.jpg")
		}()
	}
	wg.Wait()

	// An even number of serialized toggles lands back on unselected.
	if store.Count() != 0 {
		t.Errorf("Count() = %d after even toggle count, want 0", store.Count())
	}
}
