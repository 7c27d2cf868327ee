package service

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"rollcall/internal/activity/metrics"
	"rollcall/internal/activity/models"
	"rollcall/internal/audit"
	"rollcall/pkg/email"
	"rollcall/pkg/platform/sentinel"
	"rollcall/pkg/requestcontext"

	dErrors "rollcall/pkg/domain-errors"
)

// Store is the directory contract the service depends on. Mutations are
// atomic: the store enforces uniqueness and capacity inside its own critical
// section and reports violations as sentinel errors.
type Store interface {
	Create(ctx context.Context, a *models.Activity) error
	List(ctx context.Context) ([]*models.Activity, error)
	FindByName(ctx context.Context, name string) (*models.Activity, error)
	AddParticipant(ctx context.Context, name, addr string) error
	RemoveParticipant(ctx context.Context, name, addr string) error
}

// AuditPublisher receives roster-change events.
type AuditPublisher interface {
	Emit(ctx context.Context, event audit.Event) error
}

// Service orchestrates the activity directory: listing, signups,
// unregistrations, and admin catalog growth.
type Service struct {
	store          Store
	logger         *slog.Logger
	auditPublisher AuditPublisher
	metrics        *metrics.Metrics
	tracer         trace.Tracer
}

type Option func(s *Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

func WithAuditPublisher(publisher AuditPublisher) Option {
	return func(s *Service) {
		s.auditPublisher = publisher
	}
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) {
		s.metrics = m
	}
}

// New constructs a Service.
func New(store Store, opts ...Option) *Service {
	s := &Service{
		store:  store,
		tracer: otel.Tracer("rollcall/internal/activity"),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// ListActivities returns a consistent snapshot of the full directory.
func (s *Service) ListActivities(ctx context.Context) ([]*models.Activity, error) {
	ctx, span := s.tracer.Start(ctx, "activity.List")
	defer span.End()
	start := time.Now()

	list, err := s.store.List(ctx)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list activities")
	}

	s.observeList(start)
	return list, nil
}

// Signup adds an email to an activity's roster.
// Returns the updated activity snapshot.
func (s *Service) Signup(ctx context.Context, activityName, addr string) (*models.Activity, error) {
	ctx, span := s.tracer.Start(ctx, "activity.Signup",
		trace.WithAttributes(attribute.String("activity.name", activityName)))
	defer span.End()
	start := time.Now()

	addr = email.Normalize(addr)

	if err := s.store.AddParticipant(ctx, activityName, addr); err != nil {
		switch {
		case errors.Is(err, sentinel.ErrNotFound):
			s.rejectSignup("not_found")
			return nil, dErrors.New(dErrors.CodeNotFound, "activity not found")
		case errors.Is(err, sentinel.ErrAlreadyUsed):
			s.rejectSignup("duplicate")
			return nil, dErrors.New(dErrors.CodeBadRequest, "email is already signed up for this activity")
		case errors.Is(err, sentinel.ErrFull):
			s.rejectSignup("full")
			return nil, dErrors.New(dErrors.CodeConflict, "activity is full")
		default:
			return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to record signup")
		}
	}

	s.logAudit(ctx, audit.EventSignupRecorded, activityName, addr)
	if s.metrics != nil {
		s.metrics.IncrementSignups()
		s.metrics.ObserveSignup(start)
	}

	updated, err := s.store.FindByName(ctx, activityName)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load activity after signup")
	}
	return updated, nil
}

// Unregister removes an email from an activity's roster.
func (s *Service) Unregister(ctx context.Context, activityName, addr string) (*models.Activity, error) {
	ctx, span := s.tracer.Start(ctx, "activity.Unregister",
		trace.WithAttributes(attribute.String("activity.name", activityName)))
	defer span.End()

	addr = email.Normalize(addr)

	// Resolve the activity first so an unknown name and an absent membership
	// get distinct messages; the removal itself stays atomic.
	activity, err := s.store.FindByName(ctx, activityName)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.New(dErrors.CodeNotFound, "activity not found")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load activity")
	}

	if err := s.store.RemoveParticipant(ctx, activity.Name, addr); err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.New(dErrors.CodeNotFound, "email is not registered for this activity")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to record unregistration")
	}

	s.logAudit(ctx, audit.EventUnregisterRecorded, activity.Name, addr)
	if s.metrics != nil {
		s.metrics.IncrementUnregistrations()
	}

	updated, err := s.store.FindByName(ctx, activity.Name)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load activity after unregistration")
	}
	return updated, nil
}

// CreateActivity grows the catalog. Admin surface; the seed catalog covers
// normal operation.
func (s *Service) CreateActivity(ctx context.Context, name, description, schedule string, maxParticipants int) (*models.Activity, error) {
	ctx, span := s.tracer.Start(ctx, "activity.Create",
		trace.WithAttributes(attribute.String("activity.name", name)))
	defer span.End()

	a, err := models.NewActivity(name, description, schedule, maxParticipants, requestcontext.Now(ctx))
	if err != nil {
		// Surface invariant violations as validation errors on the admin API.
		if dErrors.HasCode(err, dErrors.CodeInvariantViolation) {
			return nil, dErrors.New(dErrors.CodeValidation, err.Error())
		}
		return nil, err
	}

	if err := s.store.Create(ctx, a); err != nil {
		if errors.Is(err, sentinel.ErrAlreadyUsed) {
			return nil, dErrors.New(dErrors.CodeConflict, "activity name must be unique")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to create activity")
	}

	s.logAudit(ctx, audit.EventActivityCreated, a.Name, "")
	return a, nil
}

func (s *Service) logAudit(ctx context.Context, event audit.AuditEvent, activityName, addr string) {
	requestID := requestcontext.RequestID(ctx)
	if s.logger != nil {
		s.logger.InfoContext(ctx, string(event),
			"event", string(event),
			"activity", activityName,
			"email", addr,
			"request_id", requestID,
			"log_type", "audit",
		)
	}
	if s.auditPublisher == nil {
		return
	}
	_ = s.auditPublisher.Emit(ctx, audit.Event{
		Timestamp: requestcontext.Now(ctx),
		Action:    string(event),
		Activity:  activityName,
		Email:     addr,
		RequestID: requestID,
		ClientIP:  requestcontext.ClientIP(ctx),
	})
}

func (s *Service) rejectSignup(reason string) {
	if s.metrics != nil {
		s.metrics.IncrementSignupRejections(reason)
	}
}

func (s *Service) observeList(start time.Time) {
	if s.metrics != nil {
		s.metrics.ObserveList(start)
	}
}
