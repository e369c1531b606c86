package validator

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type statusRequest struct {
	Status string `json:"status" validate:"required,is-application-status"`
}

type applicantRequest struct {
	Email  string `json:"email" validate:"required,email"`
	Gender string `json:"gender" validate:"omitempty,is-gender"`
	State  string `json:"scholarship_status" validate:"is-scholarship-status"`
}

func TestValidateApplicationStatus(t *testing.T) {
	v := New()

	assert.NoError(t, v.Validate(&statusRequest{Status: "Under Review"}))

	err := v.Validate(&statusRequest{Status: "Pending"})
	require.Error(t, err)
	vErr, ok := err.(*ValidationError)
	require.True(t, ok)
	assert.Contains(t, vErr.Errors["status"], "Under Review")
}

func TestValidateUsesJSONNames(t *testing.T) {
	v := New()

	err := v.Validate(&applicantRequest{Email: "nope", Gender: "robot", State: "Closed"})
	require.Error(t, err)
	vErr := err.(*ValidationError)

	assert.Equal(t, "Must be a valid email address", vErr.Errors["email"])
	assert.Contains(t, vErr.Errors, "gender")
	assert.Contains(t, vErr.Errors, "scholarship_status")
}

func TestValidateAcceptsCaseInsensitiveGender(t *testing.T) {
	assert.NoError(t, New().Validate(&applicantRequest{Email: "a@b.co", Gender: "FEMALE"}))
}
