// Package apperr defines the error taxonomy shared by the clinic workflow
// services. Handlers translate these into HTTP responses; services branch on
// them to distinguish expected business outcomes from infrastructure faults.
package apperr

import (
	"errors"
	"fmt"
)

// ValidationError reports bad or missing input. It is surfaced immediately
// and never leaves partial effects behind.
type ValidationError struct {
	Msg string
}

func (e *ValidationError) Error() string { return e.Msg }

func Validation(format string, args ...interface{}) error {
	return &ValidationError{Msg: fmt.Sprintf(format, args...)}
}

func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

// NotFoundError reports that a referenced entity does not exist.
type NotFoundError struct {
	Resource string
	ID       string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %s not found", e.Resource, e.ID)
}

func NotFound(resource, id string) error {
	return &NotFoundError{Resource: resource, ID: id}
}

func IsNotFound(err error) bool {
	var nf *NotFoundError
	return errors.As(err, &nf)
}

// StateConflictError reports an operation that is invalid for the current
// status of its target, such as diagnosing a completed visit or re-paying a
// paid bill. It is a recoverable outcome, distinct from a validation failure.
type StateConflictError struct {
	Msg string
}

func (e *StateConflictError) Error() string { return e.Msg }

func StateConflict(format string, args ...interface{}) error {
	return &StateConflictError{Msg: fmt.Sprintf(format, args...)}
}

func IsStateConflict(err error) bool {
	var sc *StateConflictError
	return errors.As(err, &sc)
}

// InsufficientStockError is the one business-rule failure expected in normal
// operation. It carries the drug's display name so the operator can react.
type InsufficientStockError struct {
	DrugName  string
	Required  int
	Available int
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("insufficient stock for drug %q: required %d, available %d",
		e.DrugName, e.Required, e.Available)
}

// AsInsufficientStock unwraps err into an InsufficientStockError, if it is one.
func AsInsufficientStock(err error) (*InsufficientStockError, bool) {
	var is *InsufficientStockError
	if errors.As(err, &is) {
		return is, true
	}
	return nil, false
}
