// Package cache provides an in-process TTL store with singleflight loading,
// used for leaderboard and league table reads.
package cache

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/oakhurst-cc/playcricket-stats/internal/platform/resilience"
)

type record struct {
	value     any
	expiresAt time.Time
}

type Store struct {
	mu      sync.RWMutex
	records map[string]record
	ttl     time.Duration
	flight  resilience.SingleFlight
}

// NewStore builds a store whose entries expire after ttl. A non-positive ttl
// keeps entries until explicitly deleted.
func NewStore(ttl time.Duration) *Store {
	return &Store{
		records: make(map[string]record),
		ttl:     ttl,
	}
}

func (s *Store) Get(_ context.Context, key string) (any, bool) {
	if key == "" {
		return nil, false
	}

	s.mu.RLock()
	rec, ok := s.records[key]
	s.mu.RUnlock()
	if !ok {
		return nil, false
	}
	if s.ttl > 0 && !rec.expiresAt.After(time.Now()) {
		s.mu.Lock()
		delete(s.records, key)
		s.mu.Unlock()
		return nil, false
	}

	return rec.value, true
}

func (s *Store) Set(_ context.Context, key string, value any) {
	if key == "" {
		return
	}

	rec := record{value: value}
	if s.ttl > 0 {
		rec.expiresAt = time.Now().Add(s.ttl)
	}

	s.mu.Lock()
	s.records[key] = rec
	s.mu.Unlock()
}

func (s *Store) Delete(_ context.Context, key string) {
	if key == "" {
		return
	}

	s.mu.Lock()
	delete(s.records, key)
	s.mu.Unlock()
}

// DeletePrefix drops every key under the prefix; sync uses it to invalidate
// all cached leaderboards of a season at once.
func (s *Store) DeletePrefix(_ context.Context, prefix string) {
	if prefix == "" {
		return
	}

	s.mu.Lock()
	for key := range s.records {
		if strings.HasPrefix(key, prefix) {
			delete(s.records, key)
		}
	}
	s.mu.Unlock()
}

// GetOrLoad returns the cached value for key, or runs loader exactly once
// across concurrent callers and caches the result. Loader errors are never
// cached.
func (s *Store) GetOrLoad(ctx context.Context, key string, loader func(context.Context) (any, error)) (any, error) {
	if loader == nil {
		return nil, fmt.Errorf("loader is required")
	}
	if key == "" {
		return loader(ctx)
	}

	if value, ok := s.Get(ctx, key); ok {
		return value, nil
	}

	value, err, _ := s.flight.Do(key, func() (any, error) {
		if cached, ok := s.Get(ctx, key); ok {
			return cached, nil
		}

		loaded, loadErr := loader(ctx)
		if loadErr != nil {
			return nil, loadErr
		}
		s.Set(ctx, key, loaded)
		return loaded, nil
	})
	if err != nil {
		return nil, err
	}

	return value, nil
}
