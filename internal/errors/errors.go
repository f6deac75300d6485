// Package errors defines custom error types for better error handling and debugging.
// FetchError provides context-aware error reporting with type classification.
package errors

import (
	"errors"
	"fmt"
)

// FetchError represents errors that occur while talking to upstream APIs
type FetchError struct {
	Type    string
	Message string
	Cause   error
}

func (e *FetchError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s (caused by: %v)", e.Type, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Type, e.Message)
}

func (e *FetchError) Unwrap() error {
	return e.Cause
}

// Error type constants
const (
	ErrorTypeRateLimited       = "RATE_LIMITED"
	ErrorTypeUpstreamFailure   = "UPSTREAM_FAILURE"
	ErrorTypeNetworkFailure    = "NETWORK_FAILURE"
	ErrorTypeMalformedResponse = "MALFORMED_RESPONSE"
	ErrorTypeInvalidSeason     = "INVALID_SEASON"
)

// NewFetchError creates a new FetchError
func NewFetchError(errorType, message string, cause error) *FetchError {
	return &FetchError{
		Type:    errorType,
		Message: message,
		Cause:   cause,
	}
}

// NewRateLimitedError creates a rate-limit error for an upstream service
func NewRateLimitedError(message string, cause error) *FetchError {
	if message == "" {
		message = "rate limited by upstream, please wait"
	}
	return NewFetchError(ErrorTypeRateLimited, message, cause)
}

// NewUpstreamError creates an error for a non-retryable upstream response
func NewUpstreamError(message string, cause error) *FetchError {
	return NewFetchError(ErrorTypeUpstreamFailure, message, cause)
}

// NewNetworkError creates a transient network failure error
func NewNetworkError(message string, cause error) *FetchError {
	return NewFetchError(ErrorTypeNetworkFailure, message, cause)
}

// NewMalformedResponseError creates an error for an undecodable payload
func NewMalformedResponseError(message string, cause error) *FetchError {
	return NewFetchError(ErrorTypeMalformedResponse, message, cause)
}

// NewInvalidSeasonError creates an error for an unrecognized season name
func NewInvalidSeasonError(season string) *FetchError {
	return NewFetchError(ErrorTypeInvalidSeason, fmt.Sprintf("invalid season: %s", season), nil)
}

// IsRateLimited reports whether err is (or wraps) a rate-limit error.
func IsRateLimited(err error) bool {
	return isType(err, ErrorTypeRateLimited)
}

// IsRetryable reports whether err is a transient condition worth retrying
// (rate limit or network failure).
func IsRetryable(err error) bool {
	return isType(err, ErrorTypeRateLimited) || isType(err, ErrorTypeNetworkFailure)
}

func isType(err error, errorType string) bool {
	var fe *FetchError
	if errors.As(err, &fe) {
		return fe.Type == errorType
	}
	return false
}
