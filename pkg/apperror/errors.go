package apperror

import (
	"errors"
	"fmt"
)

// ErrSummaryInFlight is returned when a summarization for the same session is already running.
var ErrSummaryInFlight = errors.New("summary already in flight for session")

// TransientProviderError marks a completion or embedding backend that is unreachable,
// rate-limited or otherwise failing in a way a later attempt may not.
type TransientProviderError struct {
	Provider string
	Err      error
}

func (e *TransientProviderError) Error() string {
	return fmt.Sprintf("provider %s unavailable: %v", e.Provider, e.Err)
}

func (e *TransientProviderError) Unwrap() error { return e.Err }

// DataIntegrityError means a store write failed and data may be lost.
type DataIntegrityError struct {
	Op  string
	Err error
}

func (e *DataIntegrityError) Error() string {
	return fmt.Sprintf("%s failed: %v", e.Op, e.Err)
}

func (e *DataIntegrityError) Unwrap() error { return e.Err }

type NotFoundError struct {
	Resource string
	Id       string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %q not found", e.Resource, e.Id)
}

// ValidationError is raised before any I/O happens.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return "validation failed: " + e.Reason
	}
	return fmt.Sprintf("validation failed on %s: %s", e.Field, e.Reason)
}

func NewTransient(provider string, err error) error {
	return &TransientProviderError{Provider: provider, Err: err}
}

func NewDataIntegrity(op string, err error) error {
	return &DataIntegrityError{Op: op, Err: err}
}

func NewValidation(field, reason string) error {
	return &ValidationError{Field: field, Reason: reason}
}

func NewNotFound(resource, id string) error {
	return &NotFoundError{Resource: resource, Id: id}
}

func IsTransient(err error) bool {
	var target *TransientProviderError
	return errors.As(err, &target)
}

func IsDataIntegrity(err error) bool {
	var target *DataIntegrityError
	return errors.As(err, &target)
}

func IsValidation(err error) bool {
	var target *ValidationError
	return errors.As(err, &target)
}

func IsNotFound(err error) bool {
	var target *NotFoundError
	return errors.As(err, &target)
}
