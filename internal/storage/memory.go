package storage

import (
	"context"
	"sync"

	"github.com/cx-tal-miterani/flight-operations-manager/internal/airline"
)

// MemoryStore keeps the last saved snapshot in memory. It backs the "none"
// storage backend and tests.
type MemoryStore struct {
	mu    sync.Mutex
	snap  Snapshot
	saves int
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

func (s *MemoryStore) SaveAll(_ context.Context, flights []*airline.Flight) error {
	snap := NewSnapshot(flights)
	s.mu.Lock()
	defer s.mu.Unlock()
	s.snap = snap
	s.saves++
	return nil
}

func (s *MemoryStore) LoadAll(_ context.Context) ([]*airline.Flight, error) {
	s.mu.Lock()
	snap := s.snap
	s.mu.Unlock()
	return snap.Restore()
}

// Saves reports how many times SaveAll was called.
func (s *MemoryStore) Saves() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.saves
}

func (s *MemoryStore) Close() error { return nil }
