package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestGetString(t *testing.T) {
	c := map[string]string{"PORT": "9090", "EMPTY": ""}

	assert.Equal(t, "9090", GetString(c, "PORT", "8080"))
	assert.Equal(t, "", GetString(c, "EMPTY", "fallback"), "present but empty wins over the default")
	assert.Equal(t, "fallback", GetString(c, "MISSING", "fallback"))
	assert.Equal(t, "fallback", GetString(nil, "PORT", "fallback"))
}

func TestGetInt(t *testing.T) {
	c := map[string]string{"TIMEOUT": "30", "BAD": "thirty"}

	assert.Equal(t, 30, GetInt(c, "TIMEOUT", 10))
	assert.Equal(t, 10, GetInt(c, "BAD", 10))
	assert.Equal(t, 10, GetInt(c, "MISSING", 10))
	assert.Equal(t, 10, GetInt(nil, "TIMEOUT", 10))
}

func TestGetDuration(t *testing.T) {
	c := map[string]string{"SIGNED_URL_TTL_HOURS": "2"}

	assert.Equal(t, 2*time.Hour, GetDuration(c, "SIGNED_URL_TTL_HOURS", 6, time.Hour))
	assert.Equal(t, 6*time.Hour, GetDuration(c, "MISSING", 6, time.Hour))
}

func TestSplit(t *testing.T) {
	key, value := split("DATABASE_URL=postgres://u:p@host/db?sslmode=disable")
	assert.Equal(t, "DATABASE_URL", key)
	assert.Equal(t, "postgres://u:p@host/db?sslmode=disable", value)

	key, value = split("NOVALUE")
	assert.Equal(t, "NOVALUE", key)
	assert.Equal(t, "", value)
}
