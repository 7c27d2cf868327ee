// Package publisher delivers audit events to the configured store and sinks.
//
// Emission is synchronous by default. WithAsyncBuffer switches to a buffered
// channel drained by a background goroutine; Close drains the buffer before
// returning. Roster operations are never failed by audit delivery problems
// (operations category, fail-open).
package publisher

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"rollcall/internal/audit"
)

type Publisher struct {
	store  audit.Store
	sinks  []audit.Sink
	logger *slog.Logger

	inbox chan audit.Event
	wg    sync.WaitGroup
	once  sync.Once
}

// Option configures the Publisher.
type Option func(*Publisher)

// WithLogger sets a logger for delivery error reporting.
func WithLogger(logger *slog.Logger) Option {
	return func(p *Publisher) {
		p.logger = logger
	}
}

// WithSink adds an out-of-process delivery target.
func WithSink(sink audit.Sink) Option {
	return func(p *Publisher) {
		p.sinks = append(p.sinks, sink)
	}
}

// WithAsyncBuffer enables asynchronous emission with the given buffer size.
// When the buffer is full, Emit falls back to synchronous delivery rather
// than dropping the event.
func WithAsyncBuffer(size int) Option {
	return func(p *Publisher) {
		p.inbox = make(chan audit.Event, size)
	}
}

// NewPublisher creates a publisher writing to store and any configured sinks.
func NewPublisher(store audit.Store, opts ...Option) *Publisher {
	p := &Publisher{store: store}
	for _, opt := range opts {
		opt(p)
	}
	if p.inbox != nil {
		p.wg.Add(1)
		go p.run()
	}
	return p
}

// Emit delivers the event. Timestamp defaults to now when unset.
func (p *Publisher) Emit(ctx context.Context, event audit.Event) error {
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}

	if p.inbox != nil {
		select {
		case p.inbox <- event:
			return nil
		default:
			// Buffer full: deliver inline instead of dropping.
		}
	}
	p.deliver(ctx, event)
	return nil
}

// ListByActivity exposes the store's read path for handlers and tests.
func (p *Publisher) ListByActivity(ctx context.Context, activity string) ([]audit.Event, error) {
	return p.store.ListByActivity(ctx, activity)
}

// Close drains any buffered events and stops the background goroutine.
func (p *Publisher) Close() {
	p.once.Do(func() {
		if p.inbox != nil {
			close(p.inbox)
			p.wg.Wait()
		}
	})
}

func (p *Publisher) run() {
	defer p.wg.Done()
	for event := range p.inbox {
		p.deliver(context.Background(), event)
	}
}

func (p *Publisher) deliver(ctx context.Context, event audit.Event) {
	if err := p.store.Append(ctx, event); err != nil && p.logger != nil {
		p.logger.ErrorContext(ctx, "audit store append failed",
			"action", event.Action,
			"activity", event.Activity,
			"error", err,
		)
	}
	for _, sink := range p.sinks {
		if err := sink.Publish(ctx, event); err != nil && p.logger != nil {
			p.logger.ErrorContext(ctx, "audit sink publish failed",
				"action", event.Action,
				"activity", event.Activity,
				"error", err,
			)
		}
	}
}
