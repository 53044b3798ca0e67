package apperror

import (
	"bytes"
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
)

func TestIsMatchesTypeAndCode(t *testing.T) {
	err := NewValidationError("age must not be negative")
	assert.True(t, errors.Is(err, ErrInvalidInput))
	assert.False(t, errors.Is(err, ErrNotFound))

	wrapped := fmt.Errorf("profile: %w", err)
	assert.True(t, errors.Is(wrapped, ErrInvalidInput))
}

func TestIsFallsBackToCause(t *testing.T) {
	cause := errors.New("connection refused")
	err := NewDatabaseError(cause)
	assert.True(t, errors.Is(err, cause))
	assert.ErrorIs(t, err, ErrDatabase)
}

func TestHTTPStatus(t *testing.T) {
	cases := []struct {
		err  *AppError
		want int
	}{
		{NewValidationError("x"), http.StatusBadRequest},
		{NewNotFoundError("x"), http.StatusNotFound},
		{ErrUnauthorized, http.StatusUnauthorized},
		{ErrRateLimited, http.StatusTooManyRequests},
		{NewExternalAPIError(errors.New("boom"), "Gemini"), http.StatusBadGateway},
		{NewDatabaseError(errors.New("boom")), http.StatusInternalServerError},
	}
	for _, c := range cases {
		assert.Equal(t, c.want, c.err.HTTPStatus(), c.err.Code)
	}
}

func TestFromWrapsUnknownErrors(t *testing.T) {
	plain := errors.New("unexpected")
	got := From(plain)
	assert.Equal(t, TypeInternal, got.Type)
	assert.Same(t, plain, got.Internal)

	known := NewNotFoundError("no readings")
	assert.Same(t, known, From(fmt.Errorf("wrap: %w", known)))
}

func TestLogEventIncludesContext(t *testing.T) {
	var buf bytes.Buffer
	l := zerolog.New(&buf)

	err := NewExternalAPIError(errors.New("quota"), "Gemini")
	err.LogEvent(l.Error()).Msg("narrative failed")

	out := buf.String()
	assert.Contains(t, out, `"error_type":"external_api"`)
	assert.Contains(t, out, `"api":"Gemini"`)
	assert.Contains(t, out, `"internal_error":"quota"`)
}
