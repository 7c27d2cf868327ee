package activity

import (
	"log/slog"

	"rollcall/internal/activity/handler"
	"rollcall/internal/activity/service"
)

// Service exposes activity directory orchestration.
type Service = service.Service

// Handler wires HTTP endpoints to the activity service.
type Handler = handler.Handler

// Service options re-exported for wiring convenience.
var (
	WithLogger         = service.WithLogger
	WithMetrics        = service.WithMetrics
	WithAuditPublisher = service.WithAuditPublisher
)

// NewService constructs the activity service with required dependencies.
func NewService(store service.Store, opts ...service.Option) *Service {
	return service.New(store, opts...)
}

// NewHandler constructs an HTTP handler for activity routes.
func NewHandler(s *Service, logger *slog.Logger) *Handler {
	return handler.New(s, logger)
}
