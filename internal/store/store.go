package store

import (
	"sync"

	"github.com/piwi3910/StowPlan/internal/model"
)

// Store guards the in-memory arrangement behind a mutex so background
// planning and the UI event loop can share it. Readers get value snapshots,
// writers replace the arrangement wholesale, and Save serializes under the
// same lock so the file always reflects a consistent state.
type Store struct {
	mu   sync.RWMutex
	path string
	arr  model.Arrangement
}

// New returns a store bound to path holding an empty arrangement. Nothing is
// written until the first Save.
func New(path string) *Store {
	return &Store{path: path, arr: model.NewArrangement()}
}

// Open loads the arrangement at path (or an empty one if the file does not
// exist) and returns a store bound to that path.
func Open(path string) (*Store, error) {
	arr, err := LoadState(path)
	if err != nil {
		return nil, err
	}
	return &Store{path: path, arr: arr}, nil
}

// Path returns the file path this store reads from and writes to.
func (s *Store) Path() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.path
}

// Snapshot returns a deep copy of the current arrangement.
func (s *Store) Snapshot() model.Arrangement {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return copyArrangement(s.arr)
}

// Replace swaps in a new arrangement.
func (s *Store) Replace(arr model.Arrangement) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.arr = copyArrangement(arr)
}

// Update applies fn to a copy of the arrangement and commits the result.
// fn runs under the write lock and must not call back into the store.
func (s *Store) Update(fn func(model.Arrangement) model.Arrangement) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.arr = fn(copyArrangement(s.arr))
}

// Save writes the current arrangement to the store's path.
func (s *Store) Save() error {
	s.mu.RLock()
	arr := copyArrangement(s.arr)
	path := s.path
	s.mu.RUnlock()
	return SaveState(path, arr)
}

// SaveAs writes to a new path and rebinds the store to it.
func (s *Store) SaveAs(path string) error {
	s.mu.Lock()
	arr := copyArrangement(s.arr)
	s.path = path
	s.mu.Unlock()
	return SaveState(path, arr)
}

func copyArrangement(arr model.Arrangement) model.Arrangement {
	out := arr
	out.Items = append([]model.Item(nil), arr.Items...)
	out.Containers = append([]model.Container(nil), arr.Containers...)
	out.Placements = append([]model.Placement(nil), arr.Placements...)
	return out
}
