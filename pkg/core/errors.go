package core

import (
	"errors"
	"fmt"
	"net/http"
)

// Error represents an API error.
type Error struct {
	Type        ErrorType `json:"type"`
	Message     string    `json:"message"`
	Param       string    `json:"param,omitempty"`
	Engine      string    `json:"engine,omitempty"`
	RequestID   string    `json:"request_id,omitempty"`
	EngineError any       `json:"engine_error,omitempty"`

	// underlying keeps the wrapped error value for errors.Is/As;
	// EngineError carries its string form for the JSON envelope.
	underlying error
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Engine != "" {
		return fmt.Sprintf("%s: %s (engine: %s)", e.Type, e.Message, e.Engine)
	}
	return fmt.Sprintf("%s: %s", e.Type, e.Message)
}

// ErrorType categorizes errors.
type ErrorType string

const (
	ErrValidation        ErrorType = "validation_error"
	ErrEngineUnavailable ErrorType = "engine_unavailable_error"
	ErrUpstream          ErrorType = "upstream_error"
	ErrNotFound          ErrorType = "not_found_error"
	ErrAPI               ErrorType = "api_error"
)

// NewValidationError creates a validation error for malformed input.
func NewValidationError(message string) *Error {
	return &Error{
		Type:    ErrValidation,
		Message: message,
	}
}

// NewValidationErrorWithParam creates a validation error with a parameter.
func NewValidationErrorWithParam(message, param string) *Error {
	return &Error{
		Type:    ErrValidation,
		Message: message,
		Param:   param,
	}
}

// NewEngineUnavailableError reports that a required speech or language
// engine is not configured or not reachable at request time.
func NewEngineUnavailableError(engine string) *Error {
	return &Error{
		Type:    ErrEngineUnavailable,
		Message: fmt.Sprintf("%s engine is not available", engine),
		Engine:  engine,
	}
}

// NewUpstreamError wraps a failure from an engine collaborator mid-request.
func NewUpstreamError(engine string, underlying error) *Error {
	return &Error{
		Type:        ErrUpstream,
		Message:     fmt.Sprintf("%s: %v", engine, underlying),
		Engine:      engine,
		EngineError: underlying.Error(),
		underlying:  underlying,
	}
}

// NewNotFoundError creates a not found error.
func NewNotFoundError(message string) *Error {
	return &Error{
		Type:    ErrNotFound,
		Message: message,
	}
}

// NewAPIError creates a generic API error.
func NewAPIError(message string) *Error {
	return &Error{
		Type:    ErrAPI,
		Message: message,
	}
}

// HTTPStatus maps an error type to an HTTP status code.
func (e *Error) HTTPStatus() int {
	switch e.Type {
	case ErrValidation:
		return http.StatusBadRequest
	case ErrEngineUnavailable:
		return http.StatusServiceUnavailable
	case ErrNotFound:
		return http.StatusNotFound
	case ErrUpstream:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// Unwrap returns the underlying error for error wrapping.
func (e *Error) Unwrap() error {
	return e.underlying
}

// FromError normalizes any error into an *Error, attaching the request id.
func FromError(err error, requestID string) *Error {
	var coreErr *Error
	if errors.As(err, &coreErr) {
		if coreErr.RequestID == "" {
			coreErr.RequestID = requestID
		}
		return coreErr
	}
	return &Error{
		Type:      ErrAPI,
		Message:   err.Error(),
		RequestID: requestID,
	}
}

// Envelope is the JSON error envelope written by the HTTP layer.
type Envelope struct {
	Error *Error `json:"error"`
}
