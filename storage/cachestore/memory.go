package cachestore

import (
	"context"
	"sync"

	"github.com/alramz/cxdash/core/cache"
)

type MemoryStore struct {
	sync.RWMutex
	table map[string][]byte
}

var _ cache.Store = (*MemoryStore)(nil) // interface compliance check

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{table: make(map[string][]byte)}
}

func (s *MemoryStore) Get(_ context.Context, key string) ([]byte, error) {
	s.RLock()
	defer s.RUnlock()

	val, ok := s.table[key]
	if !ok {
		cache.RecordStoreOperation(BackendMemory, "get", "miss")
		return nil, cache.ErrMiss
	}
	cache.RecordStoreOperation(BackendMemory, "get", "hit")
	out := make([]byte, len(val))
	copy(out, val)
	return out, nil
}

func (s *MemoryStore) Set(_ context.Context, key string, value []byte) error {
	s.Lock()
	defer s.Unlock()

	val := make([]byte, len(value))
	copy(val, value)
	s.table[key] = val
	cache.RecordStoreOperation(BackendMemory, "set", "ok")
	return nil
}
