// Package apperror gives the error kinds of the external HTTP surface
// (validation, not-found, backend-unavailable, backend-error, internal) a
// single structured representation, with an HTTP status mapping instead of
// a gRPC one. A path search that finds nothing is not an error (see Error).
package apperror

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind is one of the error kinds the HTTP surface distinguishes.
type Kind string

const (
	KindValidation         Kind = "validation"
	KindNotFound           Kind = "not-found"
	KindBackendUnavailable Kind = "backend-unavailable"
	KindBackendError       Kind = "backend-error"
	KindInternal           Kind = "internal"
)

// Severity mirrors how alarming an error is, independent of its Kind.
type Severity int

const (
	SeverityWarning Severity = iota
	SeverityError
	SeverityCritical
)

func (s Severity) String() string {
	switch s {
	case SeverityWarning:
		return "warning"
	case SeverityCritical:
		return "critical"
	default:
		return "error"
	}
}

// Error is the structured error type returned by every internal package.
// "not-found-path" (spec §7) is deliberately NOT represented here: a search
// that legitimately found nothing is a normal *graphmodel.Path return
// with Found=false, never an *Error — so it can never be mistakenly
// surfaced as an HTTP error by a generic error-handling middleware.
type Error struct {
	Kind     Kind
	Message  string
	Field    string
	Details  map[string]any
	Cause    error
	Severity Severity
}

func (e *Error) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("[%s] %s (field: %s)", e.Kind, e.Message, e.Field)
	}
	return fmt.Sprintf("[%s] %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error { return e.Cause }

// New creates an *Error of Kind with SeverityError.
func New(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message, Details: map[string]any{}, Severity: SeverityError}
}

// NewField is like New but records which request field caused the error.
func NewField(kind Kind, message, field string) *Error {
	return &Error{Kind: kind, Message: message, Field: field, Details: map[string]any{}, Severity: SeverityError}
}

// Wrap attaches a Kind/message to an underlying cause.
func Wrap(cause error, kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message, Cause: cause, Details: map[string]any{}, Severity: SeverityError}
}

func (e *Error) WithDetails(key string, value any) *Error {
	e.Details[key] = value
	return e
}

func (e *Error) WithField(field string) *Error {
	e.Field = field
	return e
}

func (e *Error) WithSeverity(s Severity) *Error {
	e.Severity = s
	return e
}

// Is reports whether err is an *Error of the given Kind.
func Is(err error, kind Kind) bool {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Kind == kind
	}
	return false
}

// KindOf extracts the Kind from err, defaulting to KindInternal.
func KindOf(err error) Kind {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Kind
	}
	return KindInternal
}

// ToHTTP maps err to the status code and JSON body documented in spec.md §7
// ({"detail": string}).
func ToHTTP(err error) (status int, detail string) {
	if err == nil {
		return http.StatusOK, ""
	}
	var appErr *Error
	if !errors.As(err, &appErr) {
		return http.StatusInternalServerError, err.Error()
	}
	switch appErr.Kind {
	case KindValidation:
		return http.StatusBadRequest, appErr.Message
	case KindNotFound:
		return http.StatusNotFound, appErr.Message
	case KindBackendUnavailable:
		return http.StatusServiceUnavailable, appErr.Message
	case KindBackendError:
		return http.StatusInternalServerError, appErr.Message
	default:
		return http.StatusInternalServerError, appErr.Message
	}
}

// Predefined errors for common scenarios.
var (
	ErrNotFound           = New(KindNotFound, "resource not found")
	ErrBackendUnavailable = New(KindBackendUnavailable, "graph store unreachable")
)

// ValidationErrors accumulates request-validation failures so a handler can
// report all of them at once instead of failing fast on the first.
type ValidationErrors struct {
	Errors []*Error
}

func NewValidationErrors() *ValidationErrors {
	return &ValidationErrors{Errors: make([]*Error, 0)}
}

func (v *ValidationErrors) AddField(message, field string) {
	v.Errors = append(v.Errors, NewField(KindValidation, message, field))
}

func (v *ValidationErrors) HasErrors() bool { return len(v.Errors) > 0 }

// AsError returns a single combined *Error, or nil if there were none.
func (v *ValidationErrors) AsError() *Error {
	if !v.HasErrors() {
		return nil
	}
	msgs := make([]string, 0, len(v.Errors))
	for _, e := range v.Errors {
		msgs = append(msgs, e.Error())
	}
	combined := New(KindValidation, fmt.Sprintf("%d validation error(s)", len(v.Errors)))
	combined.Details["errors"] = msgs
	return combined
}
