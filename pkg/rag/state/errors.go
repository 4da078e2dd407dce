package state

import (
	"errors"
	"fmt"
)

var (
	// ErrClassificationParse downgrades a turn to the invalid route.
	ErrClassificationParse = errors.New("classification parse error")
	// ErrStrategyExecution marks an external call failure inside a strategy.
	ErrStrategyExecution = errors.New("strategy execution error")
	// ErrRouteValidation is logged when a route value is coerced.
	ErrRouteValidation = errors.New("route validation error")
	// ErrMissingPrerequisite is returned before any external call is made.
	ErrMissingPrerequisite = errors.New("missing prerequisite")
)

// Error carries a user-facing message while still matching its kind with
// errors.Is.
type Error struct {
	Kind    error
	Message string
}

func (e *Error) Error() string { return e.Message }

func (e *Error) Unwrap() error { return e.Kind }

func Errorf(kind error, format string, args ...any) error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}
