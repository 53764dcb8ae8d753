package vpnapi

import (
	"fmt"

	"github.com/pkg/errors"
)

// ErrNotAuthenticated is returned when an authenticated call is attempted
// before a credential has been obtained. Calls fail fast, no request is sent.
var ErrNotAuthenticated = errors.New("vpnapi: no credential established")

// TransportError wraps a network-level failure (connection refused, timeout).
type TransportError struct {
	Cause error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("vpnapi: transport failure: %v", e.Cause)
}

func (e *TransportError) Unwrap() error { return e.Cause }

// RemoteError is a non-2xx HTTP response from the remote API.
type RemoteError struct {
	StatusCode int
	Body       string
}

func (e *RemoteError) Error() string {
	return fmt.Sprintf("vpnapi: remote error: status %d: %s", e.StatusCode, e.Body)
}

// ApplicationError is a 2xx response whose envelope carries success=false.
type ApplicationError struct {
	Message string
}

func (e *ApplicationError) Error() string {
	return fmt.Sprintf("vpnapi: application error: %s", e.Message)
}
