// Package selection tracks which images the operator has marked for
// export. The store is process-wide state, constructed once and injected
// into the handlers that mutate it.
package selection

import (
	"errors"
	"sync"

	"github.com/framepick/framepick-agent/internal/catalog"
)

// ErrNotCataloged rejects toggles on paths absent from the current catalog
// snapshot.
var ErrNotCataloged = errors.New("image not in catalog")

// Store is the concurrent-safe selection set. Only selected entries are
// stored; deselecting removes the key.
type Store struct {
	catalog *catalog.Catalog

	mu       sync.RWMutex
	selected map[string]bool
}

// NewStore creates an empty selection store validated against the catalog.
func NewStore(c *catalog.Catalog) *Store {
	return &Store{
		catalog:  c,
		selected: make(map[string]bool),
	}
}

// Toggle flips the selection state of one image and returns the new state.
// The path is checked for traversal before the catalog lookup, and the
// read-flip-write runs under the store's lock.
func (s *Store) Toggle(relPath string) (bool, error) {
	if _, err := catalog.ValidateRelPath(relPath); err != nil {
		return false, err
	}
	if _, ok := s.catalog.Find(relPath); !ok {
		return false, ErrNotCataloged
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.selected[relPath] {
		delete(s.selected, relPath)
		return false, nil
	}
	s.selected[relPath] = true
	return true, nil
}

// All returns a copy of the currently selected set.
func (s *Store) All() map[string]bool {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make(map[string]bool, len(s.selected))
	for k, v := range s.selected {
		out[k] = v
	}
	return out
}

// Count returns the number of selected images.
func (s *Store) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.selected)
}
