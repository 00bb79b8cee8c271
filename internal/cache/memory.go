package cache

import (
	"context"
	"sync"
	"time"

	"github.com/glidewallet/swap-engine/internal/domain"
	"github.com/glidewallet/swap-engine/internal/metrics"
)

type memoryEntry struct {
	value     *domain.CachedQuoteEntry
	expiresAt time.Time
}

// MemoryStore is the in-process fallback store. A single mutex guards the
// map; Claim's fetch-and-delete is atomic under it. Expired entries are
// dropped lazily on read and by a periodic sweep.
type MemoryStore struct {
	mu      sync.Mutex
	entries map[string]memoryEntry

	sweepEvery time.Duration
	stop       chan struct{}
	stopOnce   sync.Once
}

func NewMemoryStore(sweepEvery time.Duration) *MemoryStore {
	return &MemoryStore{
		entries:    make(map[string]memoryEntry),
		sweepEvery: sweepEvery,
		stop:       make(chan struct{}),
	}
}

func (s *MemoryStore) Put(_ context.Context, id string, entry *domain.CachedQuoteEntry, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[id] = memoryEntry{value: entry, expiresAt: time.Now().Add(ttl)}
	metrics.QuoteCacheSize.Set(float64(len(s.entries)))
	return nil
}

func (s *MemoryStore) Get(_ context.Context, id string) (*domain.CachedQuoteEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.entries[id]
	if !ok {
		return nil, nil
	}
	if time.Now().After(e.expiresAt) {
		s.removeLocked(id)
		return nil, nil
	}
	return e.value, nil
}

func (s *MemoryStore) Claim(_ context.Context, id string) (*domain.CachedQuoteEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.entries[id]
	if !ok {
		return nil, nil
	}
	s.removeLocked(id)
	if time.Now().After(e.expiresAt) {
		return nil, nil
	}
	return e.value, nil
}

func (s *MemoryStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.removeLocked(id)
	return nil
}

func (s *MemoryStore) removeLocked(id string) {
	delete(s.entries, id)
	metrics.QuoteCacheSize.Set(float64(len(s.entries)))
}

// StartJanitor sweeps expired entries until StopJanitor is called.
func (s *MemoryStore) StartJanitor() {
	go func() {
		ticker := time.NewTicker(s.sweepEvery)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				s.sweep()
			case <-s.stop:
				return
			}
		}
	}()
}

func (s *MemoryStore) StopJanitor() {
	s.stopOnce.Do(func() { close(s.stop) })
}

func (s *MemoryStore) sweep() {
	now := time.Now()
	s.mu.Lock()
	defer s.mu.Unlock()
	for id, e := range s.entries {
		if now.After(e.expiresAt) {
			delete(s.entries, id)
		}
	}
	metrics.QuoteCacheSize.Set(float64(len(s.entries)))
}

// Len reports the current entry count, expired or not.
func (s *MemoryStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries)
}
