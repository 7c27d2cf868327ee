package handler

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	dErrors "rollcall/pkg/domain-errors"
)

func TestSignupRequestValidate(t *testing.T) {
	t.Run("normalizes email", func(t *testing.T) {
		req := &SignupRequest{Email: "  Michael@Mergington.EDU "}
		require.NoError(t, req.Validate())
		assert.Equal(t, "michael@mergington.edu", req.Email)
	})

	t.Run("rejects missing email", func(t *testing.T) {
		req := &SignupRequest{}
		err := req.Validate()
		require.Error(t, err)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeValidation))
	})

	t.Run("rejects malformed email", func(t *testing.T) {
		req := &SignupRequest{Email: "not-an-email"}
		err := req.Validate()
		require.Error(t, err)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeValidation))
	})
}

func TestCreateActivityRequestValidate(t *testing.T) {
	valid := func() *CreateActivityRequest {
		return &CreateActivityRequest{
			Name:            "Debate Team",
			Description:     "Weekly debate practice",
			Schedule:        "Tuesdays, 4:00 PM - 5:30 PM",
			MaxParticipants: 10,
		}
	}

	require.NoError(t, valid().Validate())

	cases := []struct {
		name   string
		mutate func(*CreateActivityRequest)
	}{
		{"missing name", func(r *CreateActivityRequest) { r.Name = "  " }},
		{"missing description", func(r *CreateActivityRequest) { r.Description = "" }},
		{"missing schedule", func(r *CreateActivityRequest) { r.Schedule = "" }},
		{"zero capacity", func(r *CreateActivityRequest) { r.MaxParticipants = 0 }},
		{"negative capacity", func(r *CreateActivityRequest) { r.MaxParticipants = -3 }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := valid()
			tc.mutate(req)
			err := req.Validate()
			require.Error(t, err)
			assert.True(t, dErrors.HasCode(err, dErrors.CodeValidation))
		})
	}
}
