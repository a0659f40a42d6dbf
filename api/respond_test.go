package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/devmo-app/devmo-backend/errs"
)

func decodeErrorBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}

func TestWriteError_ClientErrorsExposeMessageAndField(t *testing.T) {
	responder := NewResponder(zerolog.Nop())

	rec := httptest.NewRecorder()
	responder.WriteError(rec, errs.NewNotFound("project"))
	assert.Equal(t, http.StatusNotFound, rec.Code)
	body := decodeErrorBody(t, rec)
	assert.Equal(t, "project not found", body["error"])
	assert.Equal(t, "error", body["status"])

	rec = httptest.NewRecorder()
	responder.WriteError(rec, errs.NewInvalidFieldError("password", "must contain a symbol"))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	body = decodeErrorBody(t, rec)
	assert.Equal(t, "password", body["field"])
}

func TestWriteError_UpstreamDetailsNeverReachTheClient(t *testing.T) {
	responder := NewResponder(zerolog.Nop())

	cause := errors.New(`pq: password authentication failed for user "devmo"`)
	rec := httptest.NewRecorder()
	responder.WriteError(rec, errs.NewDatabaseError("find", "project", cause))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.NotContains(t, rec.Body.String(), "password authentication")
	assert.NotContains(t, rec.Body.String(), "pq:")
	body := decodeErrorBody(t, rec)
	assert.Equal(t, "Internal Server Error", body["error"])
}

func TestWriteError_NonApiErrorIsOpaque500(t *testing.T) {
	responder := NewResponder(zerolog.Nop())

	rec := httptest.NewRecorder()
	responder.WriteError(rec, errors.New("gorm: broken pipe on conn 7"))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.NotContains(t, rec.Body.String(), "broken pipe")
}

func TestWriteJSON_SetsContentType(t *testing.T) {
	responder := NewResponder(zerolog.Nop())

	rec := httptest.NewRecorder()
	responder.WriteJSON(rec, map[string]string{"hello": "world"})

	assert.Equal(t, "application/json; charset=utf-8", rec.Header().Get("Content-Type"))
	assert.JSONEq(t, `{"hello":"world"}`, rec.Body.String())
}
