/*
Package apperror defines the structured error taxonomy shared by the HTTP
layer, the data layer and the analysis engine.
*/
package apperror

import (
	"errors"
	"fmt"
	"net/http"
	"runtime"

	"github.com/rs/zerolog"
)

// ErrorType classifies an error for logging and HTTP mapping.
type ErrorType string

const (
	TypeValidation ErrorType = "validation"
	TypeNotFound   ErrorType = "not_found"
	TypeDatabase   ErrorType = "database"
	TypeExternal   ErrorType = "external_api"
	TypeInternal   ErrorType = "internal"
	TypePermission ErrorType = "permission"
	TypeRateLimit  ErrorType = "rate_limit"
)

// AppError carries a user-safe message alongside the internal cause.
type AppError struct {
	Type     ErrorType
	Code     string
	Message  string
	Internal error
	Context  map[string]interface{}
	Source   string
}

func (e *AppError) Error() string {
	if e.Internal != nil {
		return fmt.Sprintf("%s: %s (internal: %v)", e.Type, e.Message, e.Internal)
	}
	return fmt.Sprintf("%s: %s", e.Type, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Internal
}

// Is matches another AppError by type and code, otherwise defers to the cause.
func (e *AppError) Is(target error) bool {
	if t, ok := target.(*AppError); ok {
		return e.Type == t.Type && e.Code == t.Code
	}
	return errors.Is(e.Internal, target)
}

// WithContext attaches a structured field that is emitted by LogEvent.
func (e *AppError) WithContext(key string, value interface{}) *AppError {
	if e.Context == nil {
		e.Context = make(map[string]interface{})
	}
	e.Context[key] = value
	return e
}

// HTTPStatus maps the error type onto a response code.
func (e *AppError) HTTPStatus() int {
	switch e.Type {
	case TypeValidation:
		return http.StatusBadRequest
	case TypeNotFound:
		return http.StatusNotFound
	case TypePermission:
		return http.StatusUnauthorized
	case TypeRateLimit:
		return http.StatusTooManyRequests
	case TypeExternal:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// LogEvent decorates a zerolog event with the error's fields.
func (e *AppError) LogEvent(ev *zerolog.Event) *zerolog.Event {
	ev = ev.Str("error_type", string(e.Type)).
		Str("error_code", e.Code).
		Str("source", e.Source)
	if e.Internal != nil {
		ev = ev.AnErr("internal_error", e.Internal)
	}
	for k, v := range e.Context {
		ev = ev.Interface(k, v)
	}
	return ev
}

func caller() string {
	_, file, line, _ := runtime.Caller(2)
	return fmt.Sprintf("%s:%d", file, line)
}

// New creates an AppError without an underlying cause.
func New(errorType ErrorType, code, message string) *AppError {
	return &AppError{
		Type:    errorType,
		Code:    code,
		Message: message,
		Source:  caller(),
	}
}

// Wrap wraps err into an AppError.
func Wrap(err error, errorType ErrorType, code, message string) *AppError {
	return &AppError{
		Type:     errorType,
		Code:     code,
		Message:  message,
		Internal: err,
		Source:   caller(),
	}
}

// Predefined errors, usable as errors.Is targets.
var (
	ErrInvalidInput = New(TypeValidation, "INVALID_INPUT", "Invalid input provided")
	ErrNotFound     = New(TypeNotFound, "NOT_FOUND", "Resource not found")
	ErrUnauthorized = New(TypePermission, "UNAUTHORIZED", "Unauthorized access")
	ErrDatabase     = New(TypeDatabase, "DB_ERROR", "Database operation failed")
	ErrExternalAPI  = New(TypeExternal, "EXTERNAL_API", "External API error")
	ErrRateLimited  = New(TypeRateLimit, "RATE_LIMIT", "Too many requests, please try again later")
)

func NewValidationError(message string) *AppError {
	return New(TypeValidation, "INVALID_INPUT", message)
}

func NewNotFoundError(message string) *AppError {
	return New(TypeNotFound, "NOT_FOUND", message)
}

func NewDatabaseError(err error) *AppError {
	return Wrap(err, TypeDatabase, "DB_ERROR", "Database operation failed")
}

func NewExternalAPIError(err error, api string) *AppError {
	return Wrap(err, TypeExternal, "EXTERNAL_API", fmt.Sprintf("%s API error", api)).
		WithContext("api", api)
}

// From extracts an AppError from err, wrapping unknown errors as internal.
func From(err error) *AppError {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr
	}
	return Wrap(err, TypeInternal, "INTERNAL", "Internal server error")
}
