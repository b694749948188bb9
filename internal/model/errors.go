package model

import "github.com/pkg/errors"

// ErrNotFound is returned (wrapped) when a referenced plan, task or template does not exist.
var ErrNotFound = errors.New("not found")

// NotFound wraps ErrNotFound with the missing entity, e.g. "plan not found".
func NotFound(entity string) error {
	return errors.WithMessage(ErrNotFound, entity)
}

// FieldError is used to indicate an error with a specific input field.
type FieldError struct {
	Field string `json:"field"`
	Error string `json:"error"`
}

// ValidationError rejects an input before anything is written.
type ValidationError struct {
	Err    error
	Fields []FieldError
}

func NewValidationError(msg string, flds ...FieldError) error {
	return &ValidationError{Err: errors.New(msg), Fields: flds}
}

func (err ValidationError) Error() string {
	if err.Err == nil {
		return "validation failed"
	}
	return err.Err.Error()
}

// IntegrityError signals a store response that breaks an invariant the code relies on.
type IntegrityError struct {
	msg string
}

func NewIntegrityError(msg string) error {
	return &IntegrityError{msg: msg}
}

func (err IntegrityError) Error() string {
	return "integrity: " + err.msg
}
