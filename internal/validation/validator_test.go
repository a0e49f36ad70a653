package validation_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/recipebox/recipebox-api/internal/validation"
)

type signupRequest struct {
	Email    string   `json:"email" validate:"required,email,max=255"`
	Password string   `json:"password" validate:"required,min=5"`
	Name     string   `json:"name,omitempty" validate:"max=255"`
	Price    *float64 `json:"price" validate:"omitnil,gte=0,lt=1000"`
}

func TestValidateSuccess(t *testing.T) {
	v := validation.New()

	err := v.Validate(signupRequest{Email: "test@gmail.com", Password: "test@123", Name: "Felix Afex"})
	assert.NoError(t, err)
}

func TestValidateFieldErrors(t *testing.T) {
	v := validation.New()
	tooExpensive := 1000.0

	tests := []struct {
		name      string
		req       signupRequest
		wantField string
		wantMsg   string
	}{
		{name: "missing email", req: signupRequest{Password: "test@123"}, wantField: "email", wantMsg: "is required"},
		{name: "bad email", req: signupRequest{Email: "nope", Password: "test@123"}, wantField: "email", wantMsg: "must be a valid email address"},
		{name: "short password", req: signupRequest{Email: "a@b.co", Password: "1234"}, wantField: "password", wantMsg: "must be at least 5 characters"},
		{name: "price out of range", req: signupRequest{Email: "a@b.co", Password: "12345", Price: &tooExpensive}, wantField: "price", wantMsg: "must be less than 1000"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := v.Validate(tt.req)
			require.Error(t, err)

			var verr *validation.Error
			require.True(t, errors.As(err, &verr))
			assert.Equal(t, tt.wantMsg, verr.Fields[tt.wantField])
			assert.ErrorIs(t, err, validation.ErrInvalid)
		})
	}
}

func TestFieldWrapsCause(t *testing.T) {
	cause := errors.New("email is required")

	err := validation.Field("email", "is required", cause)
	assert.ErrorIs(t, err, cause)
	assert.Equal(t, "validation failed: email is required", err.Error())

	plain := validation.Field("image", "must be a valid image", nil)
	assert.ErrorIs(t, plain, validation.ErrInvalid)
}
