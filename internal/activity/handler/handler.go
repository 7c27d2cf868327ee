package handler

import (
	"context"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/go-chi/chi/v5"

	"rollcall/internal/activity/models"
	"rollcall/pkg/email"
	"rollcall/pkg/platform/httputil"
	"rollcall/pkg/requestcontext"

	dErrors "rollcall/pkg/domain-errors"
)

// Service defines the interface for activity directory operations.
type Service interface {
	ListActivities(ctx context.Context) ([]*models.Activity, error)
	Signup(ctx context.Context, activityName, addr string) (*models.Activity, error)
	Unregister(ctx context.Context, activityName, addr string) (*models.Activity, error)
	CreateActivity(ctx context.Context, name, description, schedule string, maxParticipants int) (*models.Activity, error)
}

// Handler wires activity endpoints to the activity service.
type Handler struct {
	service Service
	logger  *slog.Logger
}

// New constructs an activity handler with its dependencies.
func New(service Service, logger *slog.Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Register mounts the student-facing activity endpoints on the router.
func (h *Handler) Register(r chi.Router) {
	r.Get("/api/activities", h.HandleList)
	r.Post("/api/activities/{name}/signup", h.HandleSignup)
	r.Delete("/api/activities/{name}/unregister", h.HandleUnregister)
}

// RegisterAdmin mounts the catalog management endpoints. The caller is
// expected to wrap the router with admin token middleware.
func (h *Handler) RegisterAdmin(r chi.Router) {
	r.Post("/admin/activities", h.HandleCreate)
}

// ActivityDetails is the per-activity view in the catalog response.
type ActivityDetails struct {
	Description     string   `json:"description"`
	Schedule        string   `json:"schedule"`
	MaxParticipants int      `json:"maxParticipants"`
	Participants    []string `json:"participants"`
}

// HandleList handles GET /api/activities requests. The response is a map
// keyed by activity name so clients can look up activities directly.
func (h *Handler) HandleList(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	list, err := h.service.ListActivities(ctx)
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to list activities",
			"request_id", requestID,
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}

	catalog := make(map[string]ActivityDetails, len(list))
	for _, a := range list {
		participants := a.Participants
		if participants == nil {
			participants = []string{}
		}
		catalog[a.Name] = ActivityDetails{
			Description:     a.Description,
			Schedule:        a.Schedule,
			MaxParticipants: a.MaxParticipants,
			Participants:    participants,
		}
	}

	httputil.WriteJSON(w, http.StatusOK, catalog)
}

// HandleSignup handles POST /api/activities/{name}/signup requests.
func (h *Handler) HandleSignup(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)
	start := time.Now()

	name := activityName(r)

	req, ok := httputil.DecodeAndPrepare[SignupRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	updated, err := h.service.Signup(ctx, name, req.Email)
	if err != nil {
		h.logger.WarnContext(ctx, "signup rejected",
			"request_id", requestID,
			"activity", name,
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}

	h.logger.InfoContext(ctx, "signup recorded",
		"request_id", requestID,
		"activity", updated.Name,
		"email", req.Email,
		"roster_size", len(updated.Participants),
		"duration_ms", time.Since(start).Milliseconds(),
	)

	httputil.WriteJSON(w, http.StatusOK, map[string]string{
		"message": "Signed up " + req.Email + " for " + updated.Name,
	})
}

// HandleUnregister handles DELETE /api/activities/{name}/unregister requests.
// The email arrives as a query parameter since DELETE bodies are unreliable
// across proxies.
func (h *Handler) HandleUnregister(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	name := activityName(r)

	addr := email.Normalize(r.URL.Query().Get("email"))
	if addr == "" {
		httputil.WriteError(w, dErrors.New(dErrors.CodeValidation, "email query parameter is required"))
		return
	}
	if !email.IsValid(addr) {
		httputil.WriteError(w, dErrors.New(dErrors.CodeValidation, "email is not a valid address"))
		return
	}

	updated, err := h.service.Unregister(ctx, name, addr)
	if err != nil {
		h.logger.WarnContext(ctx, "unregistration rejected",
			"request_id", requestID,
			"activity", name,
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}

	h.logger.InfoContext(ctx, "unregistration recorded",
		"request_id", requestID,
		"activity", updated.Name,
		"email", addr,
		"roster_size", len(updated.Participants),
	)

	httputil.WriteJSON(w, http.StatusOK, map[string]string{
		"message": "Unregistered " + addr + " from " + updated.Name,
	})
}

// HandleCreate handles POST /admin/activities requests.
func (h *Handler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	req, ok := httputil.DecodeAndPrepare[CreateActivityRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	created, err := h.service.CreateActivity(ctx, req.Name, req.Description, req.Schedule, req.MaxParticipants)
	if err != nil {
		h.logger.WarnContext(ctx, "activity creation rejected",
			"request_id", requestID,
			"activity", req.Name,
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}

	h.logger.InfoContext(ctx, "activity created",
		"request_id", requestID,
		"activity", created.Name,
		"max_participants", created.MaxParticipants,
	)

	httputil.WriteJSON(w, http.StatusCreated, created)
}

// activityName extracts the activity name path segment. Names contain spaces,
// so the segment is percent-encoded on the wire.
func activityName(r *http.Request) string {
	raw := chi.URLParam(r, "name")
	if unescaped, err := url.PathUnescape(raw); err == nil {
		return unescaped
	}
	return raw
}
