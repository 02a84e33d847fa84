package store

import (
	"context"
	"sync"
)

// MemoryStore is an in-process Store used by tests and by local development
// without a Redis or Postgres instance. Safe for concurrent use.
type MemoryStore struct {
	mu      sync.RWMutex
	records map[string][]byte

	// FailGets, FailSets and FailPings make the matching operations
	// return failErr, letting tests exercise persistence-failure paths
	FailGets  bool
	FailSets  bool
	FailPings bool
	failErr   error
}

// NewMemoryStore creates an empty in-memory store
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{records: make(map[string][]byte)}
}

// FailWith installs the error returned by operations whose Fail flag is set
func (s *MemoryStore) FailWith(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failErr = err
}

// Get returns the raw record for key, or ErrNotFound
func (s *MemoryStore) Get(ctx context.Context, key string) ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.FailGets && s.failErr != nil {
		return nil, s.failErr
	}
	val, ok := s.records[key]
	if !ok {
		return nil, ErrNotFound
	}
	out := make([]byte, len(val))
	copy(out, val)
	return out, nil
}

// Set writes the full record for key
func (s *MemoryStore) Set(ctx context.Context, key string, value []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.FailSets && s.failErr != nil {
		return s.failErr
	}
	stored := make([]byte, len(value))
	copy(stored, value)
	s.records[key] = stored
	return nil
}

// Delete removes the record for key
func (s *MemoryStore) Delete(ctx context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.records, key)
	return nil
}

// Ping fails only when FailPings is set and an error has been armed
func (s *MemoryStore) Ping(ctx context.Context) error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.FailPings && s.failErr != nil {
		return s.failErr
	}
	return nil
}

// Close is a no-op
func (s *MemoryStore) Close() error {
	return nil
}
