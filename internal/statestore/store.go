// Package statestore holds per-customer workflow state in memory, keyed by an
// opaque token and forgotten after a period of inactivity.
package statestore

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

type entry[T any] struct {
	value    T
	lastSeen time.Time
}

type Store[T any] struct {
	mu      sync.Mutex
	entries map[string]entry[T]
	ttl     time.Duration
	now     func() time.Time
}

type Option[T any] func(*Store[T])

// WithClock replaces time.Now, for tests.
func WithClock[T any](now func() time.Time) Option[T] {
	return func(s *Store[T]) {
		s.now = now
	}
}

func New[T any](ttl time.Duration, opts ...Option[T]) *Store[T] {
	s := &Store[T]{
		entries: make(map[string]entry[T]),
		ttl:     ttl,
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Add stores value under a fresh token and returns the token.
func (s *Store[T]) Add(value T) string {
	token := uuid.NewString()
	s.mu.Lock()
	s.entries[token] = entry[T]{value: value, lastSeen: s.now()}
	s.mu.Unlock()
	return token
}

// Get returns the value and marks it as recently used.
func (s *Store[T]) Get(token string) (T, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.entries[token]
	if !ok {
		var zero T
		return zero, false
	}
	e.lastSeen = s.now()
	s.entries[token] = e
	return e.value, true
}

func (s *Store[T]) Delete(token string) {
	s.mu.Lock()
	delete(s.entries, token)
	s.mu.Unlock()
}

func (s *Store[T]) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries)
}

// Sweep drops entries idle for longer than the ttl and returns how many went.
// A non-positive ttl disables expiry.
func (s *Store[T]) Sweep() int {
	if s.ttl <= 0 {
		return 0
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	deadline := s.now().Add(-s.ttl)
	removed := 0
	for token, e := range s.entries {
		if e.lastSeen.Before(deadline) {
			delete(s.entries, token)
			removed++
		}
	}
	return removed
}
