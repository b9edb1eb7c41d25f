package api

import (
	"errors"
	"fmt"
)

// Common errors
var (
	// ErrNotFound indicates the requested resource was not found
	ErrNotFound = errors.New("not found")

	// ErrInvalidRequest indicates the request parameters are invalid
	ErrInvalidRequest = errors.New("invalid request")

	// ErrServerError indicates a server-side error
	ErrServerError = errors.New("server error")

	// ErrTimeout indicates the request timed out
	ErrTimeout = errors.New("request timed out")

	// ErrNoResults indicates no results were found
	ErrNoResults = errors.New("no results found")
)

// MsgInvalidStopCode is shown when the stop code is empty after normalization
const MsgInvalidStopCode = "Por favor, ingrese un código de parada válido."

// MsgInvalidCoordinates is shown when a location falls outside valid lat/lon ranges
const MsgInvalidCoordinates = "Las coordenadas ingresadas no son válidas."

// APIError represents a non-success HTTP status from one of the services
type APIError struct {
	StatusCode int
	Status     string
	Endpoint   string
	Body       []byte
}

func (e *APIError) Error() string {
	return fmt.Sprintf("API error %d: %s (endpoint: %s)", e.StatusCode, e.Status, e.Endpoint)
}

// Is implements errors.Is for APIError
func (e *APIError) Is(target error) bool {
	switch target {
	case ErrNotFound:
		return e.StatusCode == 404
	case ErrServerError:
		return e.StatusCode >= 500
	case ErrInvalidRequest:
		return e.StatusCode == 400
	}
	return false
}

// NewAPIError creates a new API error
func NewAPIError(statusCode int, status, endpoint string) *APIError {
	return &APIError{
		StatusCode: statusCode,
		Status:     status,
		Endpoint:   endpoint,
	}
}

// StatusError is an application-level failure: the HTTP exchange succeeded
// but the payload reports an error. Description is meant for the rider and
// is returned verbatim by Error.
type StatusError struct {
	Status      string
	Description string
	Endpoint    string
}

func (e *StatusError) Error() string {
	if e.Description == "" {
		return fmt.Sprintf("status %s (endpoint: %s)", e.Status, e.Endpoint)
	}
	return e.Description
}

// NewStatusError creates a new application-level error
func NewStatusError(status, description, endpoint string) *StatusError {
	return &StatusError{
		Status:      status,
		Description: description,
		Endpoint:    endpoint,
	}
}

// ValidationError represents a validation error for request parameters.
// Message is user-facing.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation error: %s - %s", e.Field, e.Message)
}

// Is implements errors.Is for ValidationError
func (e *ValidationError) Is(target error) bool {
	return target == ErrInvalidRequest
}

// NewValidationError creates a new validation error
func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{
		Field:   field,
		Message: message,
	}
}

// Common validation errors
func ErrMissingField(field string) error {
	return NewValidationError(field, "field is required")
}
