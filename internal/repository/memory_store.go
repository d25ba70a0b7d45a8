package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"sync"
)

type memoryDoc struct {
	id   string
	body json.RawMessage
}

// MemoryStore keeps documents in process memory with json-server style
// sequential ids. It backs the "memory" data backend used for demos and
// tests; nothing survives a restart.
type MemoryStore struct {
	mu     sync.RWMutex
	docs   map[string][]memoryDoc
	nextID int
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{docs: make(map[string][]memoryDoc)}
}

func (s *MemoryStore) List(_ context.Context, resource string) ([]json.RawMessage, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]json.RawMessage, 0, len(s.docs[resource]))
	for _, d := range s.docs[resource] {
		out = append(out, d.body)
	}
	return out, nil
}

func (s *MemoryStore) Create(_ context.Context, resource string, doc json.RawMessage) (json.RawMessage, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.nextID++
	id := strconv.Itoa(s.nextID)
	body, err := withID(doc, id)
	if err != nil {
		return nil, err
	}
	s.docs[resource] = append(s.docs[resource], memoryDoc{id: id, body: body})
	return body, nil
}

func (s *MemoryStore) Update(_ context.Context, resource, id string, doc json.RawMessage) (json.RawMessage, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, d := range s.docs[resource] {
		if d.id != id {
			continue
		}
		body, err := withID(doc, id)
		if err != nil {
			return nil, err
		}
		s.docs[resource][i].body = body
		return body, nil
	}
	return nil, fmt.Errorf("%s/%s: %w", resource, id, ErrNotFound)
}

func (s *MemoryStore) Delete(_ context.Context, resource, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	docs := s.docs[resource]
	for i, d := range docs {
		if d.id == id {
			s.docs[resource] = append(docs[:i], docs[i+1:]...)
			return nil
		}
	}
	return fmt.Errorf("%s/%s: %w", resource, id, ErrNotFound)
}

func (s *MemoryStore) Ping(context.Context) error {
	return nil
}

var _ DocumentStore = (*MemoryStore)(nil)
