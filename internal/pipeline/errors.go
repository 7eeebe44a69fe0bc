package pipeline

import (
	"errors"
	"fmt"
)

// Kind classifies a pipeline failure so callers can map it to a transport
// response without string matching. Every kind is terminal for the attempt;
// nothing is retried.
type Kind int

const (
	KindInternal Kind = iota
	KindValidation
	KindNotFound
	KindDependency
)

// Error is a failure of one named pipeline step with its original cause.
type Error struct {
	Step  string
	Kind  Kind
	Cause error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Step, e.Cause)
	}
	return e.Step
}

func (e *Error) Unwrap() error {
	return e.Cause
}

func validationError(step string, cause error) *Error {
	return &Error{Step: step, Kind: KindValidation, Cause: cause}
}

func dependencyError(step string, cause error) *Error {
	return &Error{Step: step, Kind: KindDependency, Cause: cause}
}

// KindOf extracts the failure kind, defaulting to internal for foreign
// errors.
func KindOf(err error) Kind {
	var pe *Error
	if errors.As(err, &pe) {
		return pe.Kind
	}
	return KindInternal
}

// StepOf extracts the failing step name, empty for foreign errors.
func StepOf(err error) string {
	var pe *Error
	if errors.As(err, &pe) {
		return pe.Step
	}
	return ""
}
