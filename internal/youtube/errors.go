package youtube

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"google.golang.org/api/googleapi"
)

// ErrInvalidInput is returned for a malformed playlist reference.
var ErrInvalidInput = errors.New("invalid playlist URL or ID")

// TransportError is a non-success, non-"not modified" API response.
type TransportError struct {
	StatusCode int
	Body       string
	// Reason is the first error reason reported by the API, e.g. "quotaExceeded".
	Reason string
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("youtube api %d: %s", e.StatusCode, e.Body)
}

// translateError maps google API errors onto TransportError and leaves
// everything else (network failures, context errors) untouched.
func translateError(err error) error {
	if err == nil {
		return nil
	}
	var gerr *googleapi.Error
	if !errors.As(err, &gerr) {
		return err
	}
	te := &TransportError{StatusCode: gerr.Code, Body: gerr.Body}
	if te.Body == "" {
		te.Body = gerr.Message
	}
	if len(gerr.Errors) > 0 {
		te.Reason = gerr.Errors[0].Reason
	}
	return te
}

// IsRetryable reports whether a failed call may succeed if repeated:
// rate limiting, server errors and network failures are, anything else
// the API rejected is not.
func IsRetryable(err error) bool {
	if err == nil || errors.Is(err, context.Canceled) || errors.Is(err, ErrInvalidInput) {
		return false
	}
	var te *TransportError
	if !errors.As(err, &te) {
		return true
	}
	switch te.StatusCode {
	case http.StatusTooManyRequests, http.StatusInternalServerError, http.StatusBadGateway,
		http.StatusServiceUnavailable, http.StatusGatewayTimeout:
		return true
	case http.StatusForbidden:
		return te.Reason == "rateLimitExceeded" || te.Reason == "userRateLimitExceeded"
	}
	return false
}
