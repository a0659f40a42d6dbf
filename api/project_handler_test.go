package api

import (
	"bytes"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/devmo-app/devmo-backend/errs"
)

type formPart struct {
	name  string
	value string
}

func newMultipartRequest(t *testing.T, parts []formPart, image []byte) *http.Request {
	t.Helper()
	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	for _, part := range parts {
		require.NoError(t, writer.WriteField(part.name, part.value))
	}
	if image != nil {
		fw, err := writer.CreateFormFile("image", "project.png")
		require.NoError(t, err)
		_, err = fw.Write(image)
		require.NoError(t, err)
	}
	require.NoError(t, writer.Close())

	req := httptest.NewRequest(http.MethodPost, "/project", &body)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	return req
}

func newTestProjectHandler() projectHandler {
	return projectHandler{responder: NewResponder(zerolog.Nop()), logger: zerolog.Nop()}
}

func TestParseProjectForm_RepeatedTechnologyFields(t *testing.T) {
	h := newTestProjectHandler()
	req := newMultipartRequest(t, []formPart{
		{"name", "Devmo"},
		{"description", "A portfolio app"},
		{"projectUrl", "https://devmo.example.com"},
		{"technologies", "Go"},
		{"technologies", "Postgres"},
	}, []byte("fake image bytes"))

	fields, imageData, err := h.parseProjectForm(req, true)
	require.NoError(t, err)
	assert.Equal(t, "Devmo", fields.Name)
	assert.Equal(t, []string{"Go", "Postgres"}, fields.Technologies)
	assert.Equal(t, []byte("fake image bytes"), imageData)
	assert.Nil(t, fields.GithubRepo)
}

func TestParseProjectForm_CommaSeparatedTechnologies(t *testing.T) {
	h := newTestProjectHandler()
	req := newMultipartRequest(t, []formPart{
		{"name", "Devmo"},
		{"technologies", "Go, Postgres , S3,"},
	}, []byte("img"))

	fields, _, err := h.parseProjectForm(req, true)
	require.NoError(t, err)
	assert.Equal(t, []string{"Go", "Postgres", "S3"}, fields.Technologies)
}

func TestParseProjectForm_GithubRepoIsOptional(t *testing.T) {
	h := newTestProjectHandler()
	req := newMultipartRequest(t, []formPart{
		{"name", "Devmo"},
		{"githubRepo", "https://github.com/devmo-app/devmo-backend"},
	}, []byte("img"))

	fields, _, err := h.parseProjectForm(req, true)
	require.NoError(t, err)
	require.NotNil(t, fields.GithubRepo)
	assert.Equal(t, "https://github.com/devmo-app/devmo-backend", *fields.GithubRepo)
}

func TestParseProjectForm_MissingImage(t *testing.T) {
	h := newTestProjectHandler()
	parts := []formPart{{"name", "Devmo"}}

	// Required on create.
	_, _, err := h.parseProjectForm(newMultipartRequest(t, parts, nil), true)
	require.Error(t, err)
	assert.True(t, errs.IsValidation(err))

	// Optional on update.
	fields, imageData, err := h.parseProjectForm(newMultipartRequest(t, parts, nil), false)
	require.NoError(t, err)
	assert.Nil(t, imageData)
	assert.Equal(t, "Devmo", fields.Name)
}

func TestParseProjectForm_NonMultipartBodyIsBadRequest(t *testing.T) {
	h := newTestProjectHandler()
	req := httptest.NewRequest(http.MethodPost, "/project", bytes.NewBufferString(`{"name":"Devmo"}`))
	req.Header.Set("Content-Type", "application/json")

	_, _, err := h.parseProjectForm(req, true)
	require.Error(t, err)

	var apiErr *errs.ApiErr
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusBadRequest, apiErr.StatusCode)
}
