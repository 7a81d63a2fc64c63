package store

import (
	"context"
	"sync"
)

// MemoryStore holds the encoded snapshot in process. Round-tripping through
// the codec keeps it honest about what a real backend would return.
type MemoryStore struct {
	mu      sync.Mutex
	payload []byte
	saves   int
	SaveErr error
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

func (s *MemoryStore) Load(_ context.Context) (Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.payload == nil {
		return Snapshot{}, ErrNoSnapshot
	}
	return Decode(s.payload)
}

func (s *MemoryStore) Save(_ context.Context, snap Snapshot) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.SaveErr != nil {
		return s.SaveErr
	}
	payload, err := Encode(stamp(snap, "memory"), false)
	if err != nil {
		return err
	}
	s.payload = payload
	s.saves++
	return nil
}

// Saves reports how many snapshots were written successfully.
func (s *MemoryStore) Saves() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.saves
}

// SetPayload replaces the stored bytes verbatim.
func (s *MemoryStore) SetPayload(payload []byte) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.payload = payload
}
