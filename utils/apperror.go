package utils

import (
	"errors"
	"fmt"
)

// ErrorKind classifies domain failures so the HTTP layer can map them to a status.
type ErrorKind string

const (
	KindValidation  ErrorKind = "validation"
	KindConflict    ErrorKind = "conflict"
	KindForbidden   ErrorKind = "forbidden"
	KindNotFound    ErrorKind = "not_found"
	KindIntegration ErrorKind = "integration"
	KindInternal    ErrorKind = "internal"
)

// Repository sentinels. Repositories wrap these so services can test with errors.Is.
var (
	ErrNotFound  = errors.New("record not found")
	ErrDuplicate = errors.New("duplicate record")
)

// AppError is the error type returned by the service layer.
type AppError struct {
	Kind    ErrorKind
	Code    string
	Message string
	Err     error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error { return e.Err }

func NewValidationError(code, msg string) error {
	return &AppError{Kind: KindValidation, Code: code, Message: msg}
}

func NewConflictError(code, msg string) error {
	return &AppError{Kind: KindConflict, Code: code, Message: msg}
}

func NewForbiddenError(code, msg string) error {
	return &AppError{Kind: KindForbidden, Code: code, Message: msg}
}

func NewNotFoundError(code, msg string) error {
	return &AppError{Kind: KindNotFound, Code: code, Message: msg}
}

// NewIntegrationError wraps a failure of an external collaborator (payments etc).
func NewIntegrationError(code, msg string, err error) error {
	return &AppError{Kind: KindIntegration, Code: code, Message: msg, Err: err}
}

// KindOf returns the kind of err, or KindInternal when err is not an AppError.
func KindOf(err error) ErrorKind {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Kind
	}
	return KindInternal
}

// CodeOf returns the machine-readable code carried by err, if any.
func CodeOf(err error) string {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Code
	}
	return ""
}
