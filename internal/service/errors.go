package service

import (
	"context"
	"errors"
	"fmt"
	"net"
)

var (
	// ErrEmptyResponse is returned when a provider answers 2xx but the
	// payload carries no usable text.
	ErrEmptyResponse = errors.New("no response text from provider")

	// ErrRecipeNotFound is returned when the recipe provider has no recipe
	// for the requested ID.
	ErrRecipeNotFound = errors.New("recipe not found")

	// ErrSessionNotFound is returned when a session ID has no live transcript.
	ErrSessionNotFound = errors.New("session not found")
)

// UpstreamError is a non-success HTTP status from one of the providers. The
// body is truncated so it can be logged and surfaced safely.
type UpstreamError struct {
	Provider string
	Status   int
	Body     string
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("%s request failed with status %d: %s", e.Provider, e.Status, e.Body)
}

const maxErrorBody = 512

func newUpstreamError(provider string, status int, body []byte) *UpstreamError {
	msg := string(body)
	if len(msg) > maxErrorBody {
		msg = msg[:maxErrorBody]
	}
	return &UpstreamError{Provider: provider, Status: status, Body: msg}
}

// TransportError is a network-level failure talking to a provider, before any
// HTTP status was received.
type TransportError struct {
	Provider string
	Err      error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("%s request failed: %v", e.Provider, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// isTimeout reports whether err is a connect/read timeout. Only these are
// worth retrying; HTTP error statuses are not.
func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}
