// Package activity provides the directory stores. Stores are pure I/O with
// atomic roster mutations; they return sentinel errors and leave HTTP-facing
// error translation to the service.
package activity

import (
	"context"
	"sort"
	"strings"
	"sync"

	"rollcall/internal/activity/models"
	"rollcall/pkg/email"
	"rollcall/pkg/platform/sentinel"
)

// InMemory keeps the directory in a mutex-guarded map. It favors clarity over
// performance: the catalog is tens of activities, not thousands.
//
// Activity names are unique case-insensitively. All reads hand out deep
// copies so callers always observe a consistent snapshot.
type InMemory struct {
	mu         sync.RWMutex
	activities map[string]*models.Activity // keyed by lowercased name
}

// NewInMemory constructs an empty in-memory directory.
func NewInMemory() *InMemory {
	return &InMemory{activities: make(map[string]*models.Activity)}
}

func nameKey(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

// Create adds an activity if its name is available (case-insensitive).
func (s *InMemory) Create(_ context.Context, a *models.Activity) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := nameKey(a.Name)
	if _, exists := s.activities[key]; exists {
		return sentinel.ErrAlreadyUsed
	}
	s.activities[key] = a.Clone()
	return nil
}

// List returns a snapshot of every activity, ordered by name for stable
// display.
func (s *InMemory) List(_ context.Context) ([]*models.Activity, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*models.Activity, 0, len(s.activities))
	for _, a := range s.activities {
		out = append(out, a.Clone())
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

// FindByName returns a snapshot of one activity.
func (s *InMemory) FindByName(_ context.Context, name string) (*models.Activity, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	a, ok := s.activities[nameKey(name)]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	return a.Clone(), nil
}

// AddParticipant atomically adds an email to a roster. The uniqueness and
// capacity invariants are checked inside the lock, so concurrent signups for
// the same activity serialize correctly.
func (s *InMemory) AddParticipant(_ context.Context, name, addr string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	a, ok := s.activities[nameKey(name)]
	if !ok {
		return sentinel.ErrNotFound
	}
	if a.HasParticipant(addr) {
		return sentinel.ErrAlreadyUsed
	}
	if a.IsFull() {
		return sentinel.ErrFull
	}
	a.ApplySignup(addr)
	return nil
}

// RemoveParticipant atomically removes an email from a roster. Returns
// ErrNotFound when either the activity or the membership does not exist.
func (s *InMemory) RemoveParticipant(_ context.Context, name, addr string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	a, ok := s.activities[nameKey(name)]
	if !ok {
		return sentinel.ErrNotFound
	}
	if !a.HasParticipant(addr) {
		return sentinel.ErrNotFound
	}
	a.ApplyUnregister(email.Normalize(addr))
	return nil
}
