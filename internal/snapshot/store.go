package snapshot

import (
	"errors"
	"sync/atomic"
)

// ErrNotReady is returned when no snapshot has been published yet.
var ErrNotReady = errors.New("snapshot not built yet")

// Store publishes snapshots atomically. Readers always see either the
// previous complete snapshot or the new one, never a partial rebuild.
type Store struct {
	current atomic.Pointer[Snapshot]
}

func NewStore() *Store {
	return &Store{}
}

// Current returns the latest published snapshot.
func (s *Store) Current() (*Snapshot, error) {
	snap := s.current.Load()
	if snap == nil {
		return nil, ErrNotReady
	}
	return snap, nil
}

// Publish swaps in a freshly built snapshot.
func (s *Store) Publish(snap *Snapshot) {
	s.current.Store(snap)
}

// Ready reports whether at least one snapshot has been published.
func (s *Store) Ready() bool {
	return s.current.Load() != nil
}
