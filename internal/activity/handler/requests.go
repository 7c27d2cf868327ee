package handler

import (
	"strings"

	"rollcall/pkg/email"

	dErrors "rollcall/pkg/domain-errors"
)

// SignupRequest is the HTTP request body for POST /api/activities/{name}/signup.
type SignupRequest struct {
	Email string `json:"email"`
}

// Validate validates and normalizes the request.
// Implements the Validatable interface for httputil.DecodeAndPrepare.
func (r *SignupRequest) Validate() error {
	if r == nil {
		return dErrors.New(dErrors.CodeBadRequest, "request body is required")
	}

	r.Email = email.Normalize(r.Email)
	if r.Email == "" {
		return dErrors.New(dErrors.CodeValidation, "email is required")
	}
	if !email.IsValid(r.Email) {
		return dErrors.New(dErrors.CodeValidation, "email is not a valid address")
	}
	return nil
}

// CreateActivityRequest is the HTTP request body for POST /admin/activities.
type CreateActivityRequest struct {
	Name            string `json:"name"`
	Description     string `json:"description"`
	Schedule        string `json:"schedule"`
	MaxParticipants int    `json:"maxParticipants"`
}

// Validate validates the request.
func (r *CreateActivityRequest) Validate() error {
	if r == nil {
		return dErrors.New(dErrors.CodeBadRequest, "request body is required")
	}

	r.Name = strings.TrimSpace(r.Name)
	if r.Name == "" {
		return dErrors.New(dErrors.CodeValidation, "name is required")
	}
	if len(r.Name) > 128 {
		return dErrors.New(dErrors.CodeValidation, "name must be at most 128 characters")
	}
	r.Description = strings.TrimSpace(r.Description)
	if r.Description == "" {
		return dErrors.New(dErrors.CodeValidation, "description is required")
	}
	r.Schedule = strings.TrimSpace(r.Schedule)
	if r.Schedule == "" {
		return dErrors.New(dErrors.CodeValidation, "schedule is required")
	}
	if r.MaxParticipants <= 0 {
		return dErrors.New(dErrors.CodeValidation, "maxParticipants must be positive")
	}
	return nil
}
