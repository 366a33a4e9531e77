package model

import (
	"errors"
	"net/http"
	"strings"

	"github.com/mitchellh/go-wordwrap"
)

type ErrorKind string

const (
	ErrorKindMissingParameter ErrorKind = "MISSING_PARAMETER"
	ErrorKindUserNotFound     ErrorKind = "USER_NOT_FOUND"
	ErrorKindUpstreamMessage  ErrorKind = "UPSTREAM_MESSAGE_ERROR"
	ErrorKindGraphQL          ErrorKind = "GRAPHQL_ERROR"
	ErrorKindRateLimitReached ErrorKind = "RATE_LIMIT_REACHED"
	ErrorKindFetchError       ErrorKind = "FETCH_ERROR"
)

// bounds used when surfacing raw upstream messages to the caller
const (
	maxErrorMessageWidth = 59
	maxErrorMessageLines = 3
)

// StatsError is the error type surfaced by the stats pipeline
// Kind is a stable machine readable code, Message is optional and human readable
type StatsError struct {
	Kind    ErrorKind
	Message string
}

func (e *StatsError) Error() string {
	if e.Message == "" {
		return string(e.Kind)
	}

	return string(e.Kind) + ": " + e.Message
}

func NewMissingParameterError(params ...string) error {
	return &StatsError{
		Kind:    ErrorKindMissingParameter,
		Message: "missing params \"" + strings.Join(params, "\", \"") + "\" make sure you pass the parameters in the request URL",
	}
}

func NewUserNotFoundError(message string) error {
	if message == "" {
		message = "Could not fetch user"
	}

	return &StatsError{Kind: ErrorKindUserNotFound, Message: message}
}

// NewUpstreamMessageError wraps a raw upstream message to a bounded
// line width before it can reach the caller
func NewUpstreamMessageError(message string) error {
	return &StatsError{Kind: ErrorKindUpstreamMessage, Message: WrapErrorMessage(message)}
}

func NewGraphQLError() error {
	return &StatsError{Kind: ErrorKindGraphQL, Message: "Something went wrong while processing the data"}
}

func NewRateLimitError() error {
	return &StatsError{Kind: ErrorKindRateLimitReached, Message: "github rate limit reached. consider using a token to increase the limit or wait few minutes and try again"}
}

func NewFetchError() error {
	return &StatsError{Kind: ErrorKindFetchError, Message: "unable to fetch data from github"}
}

// WrapErrorMessage folds a message to maxErrorMessageWidth columns and keeps
// at most maxErrorMessageLines lines, marking any truncation with an ellipsis
func WrapErrorMessage(message string) string {
	wrapped := wordwrap.WrapString(strings.TrimSpace(message), maxErrorMessageWidth)
	lines := strings.Split(wrapped, "\n")

	if len(lines) > maxErrorMessageLines {
		lines = lines[:maxErrorMessageLines]
		lines[maxErrorMessageLines-1] += "..."
	}

	return strings.Join(lines, "\n")
}

type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// NewAPIError converts any pipeline error to the JSON body returned
// to API consumers together with the matching HTTP status code
func NewAPIError(errReason error) (int, APIError) {
	var statsErr *StatsError

	if !errors.As(errReason, &statsErr) {
		return http.StatusInternalServerError, APIError{
			Code:    "GENERIC_ERROR",
			Message: "internal server error. contact our support with the reason code for assistance",
		}
	}

	apiErr := APIError{Code: string(statsErr.Kind), Message: statsErr.Message}

	switch statsErr.Kind {
	case ErrorKindMissingParameter:
		return http.StatusBadRequest, apiErr

	case ErrorKindUserNotFound:
		return http.StatusNotFound, apiErr

	case ErrorKindRateLimitReached:
		return http.StatusTooManyRequests, apiErr

	case ErrorKindUpstreamMessage, ErrorKindGraphQL, ErrorKindFetchError:
		return http.StatusBadGateway, apiErr

	default:
		return http.StatusInternalServerError, apiErr
	}
}
