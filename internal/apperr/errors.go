package apperr

import "errors"

// ErrInvalid is returned when the input fails domain validation.
var ErrInvalid = errors.New("invalid input")

// ErrConflict indicates a uniqueness or state conflict (HTTP 409).
var ErrConflict = errors.New("conflict")

// ErrNotFound indicates that the requested resource does not exist.
var ErrNotFound = errors.New("not found")

// ErrUnauthorized means the caller is known but not allowed to act on the resource.
var ErrUnauthorized = errors.New("unauthorized")

// ErrUnauthenticated means the request carries no valid credentials.
var ErrUnauthenticated = errors.New("unauthenticated")

// ErrIllegalTransition is returned for status values the task state machine rejects.
var ErrIllegalTransition = errors.New("illegal status transition")

// ErrNoAgentAvailable is returned when every reservation attempt lost a race.
var ErrNoAgentAvailable = errors.New("no agent available")

// ErrDependency signals that an external collaborator failed or timed out.
var ErrDependency = errors.New("dependency failure")

// ErrIncompleteOrder is returned when the order collaborator omits required coordinates.
var ErrIncompleteOrder = errors.New("incomplete order data")

// Detailed carries a client-facing message and extra response fields on top of a sentinel.
type Detailed struct {
	Err     error
	Msg     string
	Details map[string]any
}

// WithDetails wraps err with a message and response details.
func WithDetails(err error, msg string, details map[string]any) error {
	return &Detailed{Err: err, Msg: msg, Details: details}
}

func (e *Detailed) Error() string {
	if e.Msg == "" {
		return e.Err.Error()
	}
	return e.Err.Error() + ": " + e.Msg
}

func (e *Detailed) Unwrap() error { return e.Err }
