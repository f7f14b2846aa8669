package validation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type signupRequest struct {
	DisplayName string `json:"display_name" validate:"required,min=2,max=50"`
	Email       string `json:"email" validate:"required,email"`
	Password    string `json:"password" validate:"required,min=8"`
}

func TestValidate_OK(t *testing.T) {
	v := New()
	err := v.Validate(signupRequest{
		DisplayName: "Ada",
		Email:       "ada@example.com",
		Password:    "correct-horse",
	})
	assert.NoError(t, err)
}

func TestValidate_FieldErrorsUseJSONNames(t *testing.T) {
	v := New()
	err := v.Validate(signupRequest{
		DisplayName: "A",
		Email:       "not-an-email",
		Password:    "short",
	})
	require.Error(t, err)

	var verr *ValidationError
	require.ErrorAs(t, err, &verr)

	assert.Equal(t, "must be at least 2 characters", verr.Fields["display_name"])
	assert.Equal(t, "must be a valid email address", verr.Fields["email"])
	assert.Equal(t, "must be at least 8 characters", verr.Fields["password"])
}

func TestValidate_OneOf(t *testing.T) {
	type req struct {
		Visibility string `json:"visibility" validate:"required,oneof=public private"`
	}

	v := New()
	err := v.Validate(req{Visibility: "friends"})
	require.Error(t, err)

	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "must be one of: public private", verr.Fields["visibility"])
}
