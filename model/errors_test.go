package model

import (
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

// TestWrapErrorMessage will test function WrapErrorMessage
func TestWrapErrorMessage(t *testing.T) {
	t.Run("Short message untouched", func(t *testing.T) {
		assert.Equal(t, "Some fields are missing", WrapErrorMessage("Some fields are missing"))
	})

	t.Run("Long message folded and truncated", func(t *testing.T) {
		wrapped := WrapErrorMessage(strings.TrimSpace(strings.Repeat("lorem ipsum dolor sit amet ", 20)))
		lines := strings.Split(wrapped, "\n")

		assert.Len(t, lines, maxErrorMessageLines)
		assert.True(t, strings.HasSuffix(wrapped, "..."))

		for _, line := range lines[:maxErrorMessageLines-1] {
			assert.LessOrEqual(t, len(line), maxErrorMessageWidth)
		}
	})
}

// TestNewAPIError will test function NewAPIError
func TestNewAPIError(t *testing.T) {
	tests := []struct {
		name           string
		err            error
		expectedStatus int
		expectedCode   string
	}{
		{
			name:           "Missing parameter",
			err:            NewMissingParameterError("username"),
			expectedStatus: http.StatusBadRequest,
			expectedCode:   "MISSING_PARAMETER",
		},
		{
			name:           "User not found",
			err:            NewUserNotFoundError(""),
			expectedStatus: http.StatusNotFound,
			expectedCode:   "USER_NOT_FOUND",
		},
		{
			name:           "Rate limit reached",
			err:            NewRateLimitError(),
			expectedStatus: http.StatusTooManyRequests,
			expectedCode:   "RATE_LIMIT_REACHED",
		},
		{
			name:           "Upstream message",
			err:            NewUpstreamMessageError("Some fields are missing"),
			expectedStatus: http.StatusBadGateway,
			expectedCode:   "UPSTREAM_MESSAGE_ERROR",
		},
		{
			name:           "Generic graphql failure",
			err:            NewGraphQLError(),
			expectedStatus: http.StatusBadGateway,
			expectedCode:   "GRAPHQL_ERROR",
		},
		{
			name:           "Fetch failure",
			err:            NewFetchError(),
			expectedStatus: http.StatusBadGateway,
			expectedCode:   "FETCH_ERROR",
		},
		{
			name:           "Unknown error type",
			err:            assert.AnError,
			expectedStatus: http.StatusInternalServerError,
			expectedCode:   "GENERIC_ERROR",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, apiErr := NewAPIError(tt.err)

			assert.Equal(t, tt.expectedStatus, status)
			assert.Equal(t, tt.expectedCode, apiErr.Code)
			assert.NotEmpty(t, apiErr.Message)
		})
	}
}
