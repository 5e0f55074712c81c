package models

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrorKind classifies failures so the HTTP layer can pick a status code
type ErrorKind string

const (
	KindValidation  ErrorKind = "VALIDATION_ERROR"
	KindGateway     ErrorKind = "GATEWAY_ERROR"
	KindPersistence ErrorKind = "PERSISTENCE_ERROR"
)

// AppError represents a classified application error
type AppError struct {
	Kind    ErrorKind
	Message string
	// Detail is written to the client as the error payload when set.
	Detail interface{}
	Err    error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// Status maps the error kind to an HTTP status code
func (e *AppError) Status() int {
	switch e.Kind {
	case KindValidation:
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// Payload is the value sent to the client under the "error" key
func (e *AppError) Payload() interface{} {
	if e.Detail != nil {
		return e.Detail
	}
	return e.Message
}

func NewValidationError(message string) *AppError {
	return &AppError{
		Kind:    KindValidation,
		Message: message,
	}
}

// NewGatewayError wraps a media host failure. The detail is passed through
// to the client unchanged.
func NewGatewayError(err error, detail interface{}) *AppError {
	return &AppError{
		Kind:    KindGateway,
		Message: "Media upload failed",
		Detail:  detail,
		Err:     err,
	}
}

// NewPersistenceError wraps a database failure. Only message reaches the
// client; err is for the server log.
func NewPersistenceError(message string, err error) *AppError {
	return &AppError{
		Kind:    KindPersistence,
		Message: message,
		Err:     err,
	}
}

// AsAppError returns the first *AppError in err's chain
func AsAppError(err error) (*AppError, bool) {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}
