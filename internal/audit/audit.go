// Package audit captures roster changes as events. Events are emitted from
// domain logic and kept transport-agnostic so stores and sinks can fan out.
package audit

import (
	"context"
	"time"
)

// Event records one roster change.
type Event struct {
	Timestamp time.Time `json:"timestamp"`
	Action    string    `json:"action"`
	Activity  string    `json:"activity"`
	Email     string    `json:"email,omitempty"`
	RequestID string    `json:"request_id,omitempty"`
	ClientIP  string    `json:"client_ip,omitempty"`
}

// AuditEvent names the actions the roster service emits.
type AuditEvent string

const (
	EventSignupRecorded     AuditEvent = "signup_recorded"
	EventUnregisterRecorded AuditEvent = "unregister_recorded"
	EventActivityCreated    AuditEvent = "activity_created"
)

// Store persists audit events.
type Store interface {
	Append(ctx context.Context, event Event) error
	ListByActivity(ctx context.Context, activity string) ([]Event, error)
}

// Sink receives a copy of every event for out-of-process delivery (for
// example a Kafka topic). Sinks are fail-open: delivery errors are logged,
// never propagated to the roster operation.
type Sink interface {
	Publish(ctx context.Context, event Event) error
}
