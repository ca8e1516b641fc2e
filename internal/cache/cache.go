// Package cache provides a small TTL snapshot cache. The status
// endpoint uses it so liveness probes do not ping the database and
// redis on every request.
package cache

import (
	"sync"
	"time"
)

type Snapshot[T any] struct {
	mu  sync.RWMutex
	ttl time.Duration

	val T
	set bool
	exp time.Time
}

func NewSnapshot[T any](ttl time.Duration) *Snapshot[T] {
	if ttl <= 0 {
		ttl = 5 * time.Second
	}
	return &Snapshot[T]{ttl: ttl}
}

// Get returns the cached value and whether it is still fresh.
func (s *Snapshot[T]) Get() (T, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if !s.set || time.Now().After(s.exp) {
		var zero T
		return zero, false
	}
	return s.val, true
}

// Set stores val and restarts the TTL window.
func (s *Snapshot[T]) Set(val T) {
	s.mu.Lock()
	s.val = val
	s.set = true
	s.exp = time.Now().Add(s.ttl)
	s.mu.Unlock()
}

// Clear drops the cached value.
func (s *Snapshot[T]) Clear() {
	s.mu.Lock()
	s.set = false
	s.mu.Unlock()
}
