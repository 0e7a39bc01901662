package remote

import (
	"errors"
	"fmt"
)

// ValidationError is returned before any network call is attempted.
type ValidationError struct {
	Field  string
	Reason string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// NetworkError covers transport failures and unreadable response bodies.
type NetworkError struct {
	Op  string
	Err error
}

func (e NetworkError) Error() string {
	return fmt.Sprintf("%s: network error: %v", e.Op, e.Err)
}

func (e NetworkError) Unwrap() error { return e.Err }

// ServerError is a completed round trip with a non-2xx status. Callers that
// treat any failed round trip alike check IsNetwork(err) || IsServer(err).
type ServerError struct {
	Op         string
	StatusCode int
	Message    string
}

func (e ServerError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("%s: server returned %d: %s", e.Op, e.StatusCode, e.Message)
	}
	return fmt.Sprintf("%s: server returned %d", e.Op, e.StatusCode)
}

func IsValidation(err error) bool {
	var ve ValidationError
	return errors.As(err, &ve)
}

func IsNetwork(err error) bool {
	var ne NetworkError
	return errors.As(err, &ne)
}

func IsServer(err error) bool {
	var se ServerError
	return errors.As(err, &se)
}
