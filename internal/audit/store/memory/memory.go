package memory

import (
	"context"
	"sync"

	"rollcall/internal/audit"
)

// InMemoryStore keeps audit events per activity. Intended for development
// and tests; production deployments add a Kafka sink for durability.
type InMemoryStore struct {
	mu     sync.RWMutex
	events map[string][]audit.Event
}

func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{events: make(map[string][]audit.Event)}
}

func (s *InMemoryStore) Append(_ context.Context, event audit.Event) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events[event.Activity] = append(s.events[event.Activity], event)
	return nil
}

func (s *InMemoryStore) ListByActivity(_ context.Context, activity string) ([]audit.Event, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]audit.Event{}, s.events[activity]...), nil
}
