package api

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/devmo-app/devmo-backend/services"
)

func newTestAuthMiddleware(t *testing.T) (authMiddleware, *services.TokenService) {
	t.Helper()
	tokens, err := services.NewTokenService("unit-test-secret-0123456789")
	require.NoError(t, err)
	return newAuthMiddleware(tokens), tokens
}

func TestAuthenticate_MissingHeaderIs401(t *testing.T) {
	middleware, _ := newTestAuthMiddleware(t)

	handler := middleware.authenticate(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler must not run without a token")
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/project", nil))

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAuthenticate_NonBearerSchemeIs401(t *testing.T) {
	middleware, _ := newTestAuthMiddleware(t)

	handler := middleware.authenticate(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler must not run without a bearer token")
	}))

	req := httptest.NewRequest(http.MethodPost, "/project", nil)
	req.Header.Set("Authorization", "Basic dXNlcjpwYXNz")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAuthenticate_InvalidTokenIs401(t *testing.T) {
	middleware, _ := newTestAuthMiddleware(t)

	handler := middleware.authenticate(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler must not run with an invalid token")
	}))

	req := httptest.NewRequest(http.MethodPost, "/project", nil)
	req.Header.Set("Authorization", "Bearer not-a-real-token")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAuthenticate_ValidTokenSetsPrincipal(t *testing.T) {
	middleware, tokens := newTestAuthMiddleware(t)

	userID := uuid.New()
	signed, err := tokens.Issue(userID)
	require.NoError(t, err)

	var gotPrincipal uuid.UUID
	handler := middleware.authenticate(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		principal, err := ctxGetUserID(r.Context())
		require.NoError(t, err)
		gotPrincipal = principal
		w.WriteHeader(http.StatusNoContent)
	}))

	req := httptest.NewRequest(http.MethodPost, "/project", nil)
	req.Header.Set("Authorization", "Bearer "+signed)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, userID, gotPrincipal)
}

func TestCtxGetUserID_MissingPrincipalIsUnauthorized(t *testing.T) {
	_, err := ctxGetUserID(context.Background())
	require.Error(t, err)
}

func TestLogInternalServerErrors_RecoversFromPanic(t *testing.T) {
	handler := LogInternalServerErrors(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("boom")
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/projects", nil))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}
