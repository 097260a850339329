package service

import (
	"errors"
	"fmt"
)

// ErrAuthNotReady is returned when the identity subsystem has not been
// initialized yet (no token provider wired, e.g. before login).
var ErrAuthNotReady = errors.New("authentication not ready yet")

// ErrAuthTokenUnavailable is returned when token acquisition yields no
// credential. Fatal for the requesting operation.
var ErrAuthTokenUnavailable = errors.New("failed to get auth token")

// RemoteError is a non-2xx response from the remote service.
type RemoteError struct {
	Status int
}

func (e *RemoteError) Error() string {
	return fmt.Sprintf("remote error: status %d", e.Status)
}

// NetworkError is a transport-level failure: the request produced no
// HTTP response at all.
type NetworkError struct {
	Err error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("network failure: %v", e.Err)
}

func (e *NetworkError) Unwrap() error { return e.Err }
