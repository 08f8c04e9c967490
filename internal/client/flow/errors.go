package flow

import (
	"errors"
	"fmt"

	"github.com/letteratech/identity-service/internal/client/api"
)

// ValidationError is a local, pre-network failure: the triggering action is
// blocked and no request is made.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Reason)
}

func validationErr(field, reason string) *ValidationError {
	return &ValidationError{Field: field, Reason: reason}
}

// RequestError is a network or server-reported failure. Message is the
// human-readable text from the collaborator; the state machine stays at its
// current step and nothing is retried automatically.
type RequestError struct {
	Message string
	Err     error
}

func (e *RequestError) Error() string {
	return e.Message
}

func (e *RequestError) Unwrap() error {
	return e.Err
}

// StateError marks an operation invoked from a state that does not permit
// it. It is a programming invariant violation, never user-facing.
type StateError struct {
	Op    string
	State string
}

func (e *StateError) Error() string {
	return fmt.Sprintf("%s not permitted in state %q", e.Op, e.State)
}

// requestErr wraps a client error, surfacing the server message when the
// failure carries one.
func requestErr(err error) *RequestError {
	var apiErr *api.APIError
	if errors.As(err, &apiErr) {
		return &RequestError{Message: apiErr.Message, Err: err}
	}
	return &RequestError{Message: err.Error(), Err: err}
}
