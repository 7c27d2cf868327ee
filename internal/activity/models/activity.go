package models

import (
	"strings"
	"time"

	"rollcall/pkg/email"

	dErrors "rollcall/pkg/domain-errors"
)

// Activity is the aggregate root for an extracurricular offering.
//
// Invariants:
//   - Name is non-empty, at most 128 characters, unique in the directory,
//     and immutable after creation
//   - MaxParticipants is positive and fixed at creation
//   - len(Participants) <= MaxParticipants at all times
//   - An email appears at most once in Participants (normalized comparison)
//   - Participants preserves signup order for display
//
// Uniqueness across activities is enforced by the store; everything about a
// single roster is enforced here through the Can/Apply pairs, so every
// backend mutates rosters through the same rules.
type Activity struct {
	Name            string    `json:"name"`
	Description     string    `json:"description"`
	Schedule        string    `json:"schedule"`
	MaxParticipants int       `json:"maxParticipants"`
	Participants    []string  `json:"participants"`
	CreatedAt       time.Time `json:"created_at"`
}

// NewActivity constructs an Activity, validating creation invariants.
func NewActivity(name, description, schedule string, maxParticipants int, now time.Time) (*Activity, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "activity name cannot be empty")
	}
	if len(name) > 128 {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "activity name must be 128 characters or less")
	}
	if strings.TrimSpace(description) == "" {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "activity description cannot be empty")
	}
	if strings.TrimSpace(schedule) == "" {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "activity schedule cannot be empty")
	}
	if maxParticipants <= 0 {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "max participants must be positive")
	}
	return &Activity{
		Name:            name,
		Description:     description,
		Schedule:        schedule,
		MaxParticipants: maxParticipants,
		Participants:    []string{},
		CreatedAt:       now,
	}, nil
}

// IsFull reports whether the roster is at capacity.
func (a *Activity) IsFull() bool {
	return len(a.Participants) >= a.MaxParticipants
}

// HasParticipant reports whether the normalized email is on the roster.
func (a *Activity) HasParticipant(addr string) bool {
	addr = email.Normalize(addr)
	for _, p := range a.Participants {
		if email.Normalize(p) == addr {
			return true
		}
	}
	return false
}

// CanSignup checks whether the email may join the roster. Returns an error
// describing the violated invariant. Use with ApplySignup inside the store's
// critical section.
func (a *Activity) CanSignup(addr string) error {
	if a.HasParticipant(addr) {
		return dErrors.New(dErrors.CodeInvariantViolation, "email is already signed up")
	}
	if a.IsFull() {
		return dErrors.New(dErrors.CodeInvariantViolation, "activity is full")
	}
	return nil
}

// ApplySignup appends the normalized email to the roster. Call CanSignup
// first to validate the transition.
func (a *Activity) ApplySignup(addr string) {
	a.Participants = append(a.Participants, email.Normalize(addr))
}

// CanUnregister checks whether the email can leave the roster.
func (a *Activity) CanUnregister(addr string) error {
	if !a.HasParticipant(addr) {
		return dErrors.New(dErrors.CodeInvariantViolation, "email is not registered")
	}
	return nil
}

// ApplyUnregister removes the normalized email, preserving the order of the
// remaining participants. Call CanUnregister first.
func (a *Activity) ApplyUnregister(addr string) {
	normalized := email.Normalize(addr)
	kept := a.Participants[:0]
	for _, p := range a.Participants {
		if email.Normalize(p) != normalized {
			kept = append(kept, p)
		}
	}
	a.Participants = kept
}

// Clone returns a deep copy so stores can hand out snapshots without
// exposing internal state.
func (a *Activity) Clone() *Activity {
	clone := *a
	clone.Participants = append([]string{}, a.Participants...)
	return &clone
}
