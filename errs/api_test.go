package errs_test

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/devmo-app/devmo-backend/errs"
)

func TestConstructors_StatusCodesAndSentinels(t *testing.T) {
	cases := []struct {
		name       string
		err        *errs.ApiErr
		wantStatus int
		wantIs     error
	}{
		{"not found", errs.NewNotFound("project"), http.StatusNotFound, errs.ErrNotFound},
		{"already exists", errs.NewAlreadyExists("email"), http.StatusConflict, errs.ErrAlreadyExists},
		{"missing field", errs.NewMissingRequiredFieldError("image"), http.StatusBadRequest, errs.ErrMissingRequiredField},
		{"invalid field", errs.NewInvalidFieldError("password", "too short"), http.StatusBadRequest, errs.ErrInvalidField},
		{"validation", errs.NewValidationError(errors.New("name: cannot be blank")), http.StatusBadRequest, errs.ErrValidation},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.wantStatus, tc.err.StatusCode)
			assert.True(t, errors.Is(tc.err, tc.wantIs))
		})
	}

	assert.Equal(t, http.StatusBadRequest, errs.NewBadRequestError("bad").StatusCode)
	assert.Equal(t, http.StatusUnauthorized, errs.NewUnauthorizedError("nope").StatusCode)
	assert.Equal(t, http.StatusForbidden, errs.NewForbiddenError("not yours").StatusCode)
	assert.Equal(t, http.StatusInternalServerError, errs.NewInternalError("boom").StatusCode)
}

func TestErrorMessage_IncludesEntityAndDetails(t *testing.T) {
	err := errs.NewNotFound("project")
	assert.Equal(t, "project not found", err.Error())

	withDetails := errs.NewInvalidFieldError("password", "must contain a symbol")
	assert.Contains(t, withDetails.Error(), "password")
	assert.Equal(t, "password", withDetails.Field)
}

func TestCheckers_MatchThroughWrapping(t *testing.T) {
	wrapped := fmt.Errorf("handling request: %w", errs.NewNotFound("user"))
	assert.True(t, errs.IsNotFound(wrapped))
	assert.False(t, errs.IsConflict(wrapped))

	assert.True(t, errs.IsConflict(errs.NewAlreadyExists("email")))
	assert.True(t, errs.IsValidation(errs.NewMissingRequiredFieldError("image")))
	assert.True(t, errs.IsValidation(errs.NewInvalidFieldError("password", "weak")))
	assert.True(t, errs.IsValidation(errs.NewValidationError(errors.New("bad"))))
	assert.False(t, errs.IsValidation(errs.NewNotFound("project")))
}

func TestNewDatabaseError_MapsCausesToStatuses(t *testing.T) {
	cases := []struct {
		name       string
		cause      error
		wantStatus int
	}{
		{"duplicate key", errors.New(`duplicate key value violates unique constraint "idx_users_email"`), http.StatusConflict},
		{"record not found", errors.New("record not found"), http.StatusNotFound},
		{"connection refused", errors.New("dial tcp: connection refused"), http.StatusServiceUnavailable},
		{"anything else", errors.New("syntax error"), http.StatusInternalServerError},
		{"nil cause", nil, http.StatusInternalServerError},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := errs.NewDatabaseError("create", "user", tc.cause)
			assert.Equal(t, tc.wantStatus, err.StatusCode)
		})
	}

	dup := errs.NewDatabaseError("create", "user", errors.New("duplicate key"))
	assert.True(t, errs.IsConflict(dup))
}

func TestGetFullError_ChainsCauses(t *testing.T) {
	cause := errors.New("dial tcp: i/o timeout")
	err := errs.NewBlobStoreError("put", "0123456789abcdef0123456789abcdef", cause)

	full := err.GetFullError()
	assert.Contains(t, full, "blob store operation failed")
	assert.Contains(t, full, "i/o timeout")
	assert.True(t, errs.IsUpstreamIO(err))
}

func TestApiErr_UnwrapSupportsErrorsIs(t *testing.T) {
	err := errs.NewUnauthorizedError("invalid token")
	var apiErr *errs.ApiErr
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusUnauthorized, apiErr.StatusCode)
}
