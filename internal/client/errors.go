package client

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"syscall"
)

// ErrNotFound matches any *APIError carrying HTTP 404.
var ErrNotFound = errors.New("not found")

// APIError is returned for non-2xx responses.
type APIError struct {
	StatusCode int
	Endpoint   string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("API request failed: %d %s", e.StatusCode, http.StatusText(e.StatusCode))
}

// Is reports whether a 404 error is compared against ErrNotFound.
func (e *APIError) Is(target error) bool {
	return target == ErrNotFound && e.StatusCode == http.StatusNotFound
}

// IsConnectionError reports whether err means the origin could not be
// reached: DNS failure, refused, reset or unreachable connection.
// Timeouts are not connection errors.
func IsConnectionError(err error) bool {
	if err == nil {
		return false
	}

	if errors.Is(err, context.DeadlineExceeded) {
		return false
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return false
	}

	var dnsErr *net.DNSError
	if errors.As(err, &dnsErr) {
		return true
	}

	var opErr *net.OpError
	if errors.As(err, &opErr) && opErr.Op == "dial" {
		return true
	}

	return errors.Is(err, syscall.ECONNREFUSED) ||
		errors.Is(err, syscall.ECONNRESET) ||
		errors.Is(err, syscall.ENETUNREACH) ||
		errors.Is(err, syscall.EHOSTUNREACH)
}

// Request outcomes, used as the metric "outcome" attribute.
const (
	OutcomeOK               = "ok"
	OutcomeNotFound         = "not_found"
	OutcomeHTTPError        = "http_error"
	OutcomeConnectionFailed = "connection_failed"
	OutcomeError            = "error"
)

// Outcome classifies the result of a request.
func Outcome(err error) string {
	var apiErr *APIError
	switch {
	case err == nil:
		return OutcomeOK
	case errors.Is(err, ErrNotFound):
		return OutcomeNotFound
	case errors.As(err, &apiErr):
		return OutcomeHTTPError
	case IsConnectionError(err):
		return OutcomeConnectionFailed
	default:
		return OutcomeError
	}
}
