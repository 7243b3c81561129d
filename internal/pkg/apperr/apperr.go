// Package apperr defines domain errors with stable string codes.
package apperr

import (
	"errors"
	"net/http"
)

// Error is a client-facing failure. Two errors match under errors.Is when their codes are equal.
type Error struct {
	Status  int
	Code    string
	Message string
}

func (e *Error) Error() string { return e.Code + ": " + e.Message }

func (e *Error) Is(target error) bool {
	var t *Error
	if !errors.As(target, &t) {
		return false
	}
	return t.Code == e.Code
}

// WithMessage returns a copy of e carrying msg.
func (e *Error) WithMessage(msg string) *Error {
	return &Error{Status: e.Status, Code: e.Code, Message: msg}
}

func New(status int, code, message string) *Error {
	return &Error{Status: status, Code: code, Message: message}
}

var (
	ErrUnauthenticated        = New(http.StatusUnauthorized, "UNAUTHENTICATED", "Not signed in")
	ErrInvalidCredentials     = New(http.StatusUnauthorized, "INVALID_CREDENTIALS", "Invalid email or password")
	ErrUserNotFound           = New(http.StatusUnauthorized, "USER_NOT_FOUND", "User not found")
	ErrUserDisabled           = New(http.StatusForbidden, "USER_DISABLED", "User is disabled")
	ErrNoTenant               = New(http.StatusForbidden, "NO_TENANT", "No active tenant")
	ErrForbidden              = New(http.StatusForbidden, "FORBIDDEN", "Forbidden")
	ErrInvalidCurrentPassword = New(http.StatusBadRequest, "INVALID_CURRENT_PASSWORD", "Current password is incorrect")
	ErrValidation             = New(http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request")
	ErrBadJSON                = New(http.StatusBadRequest, "BAD_JSON", "Invalid JSON body")
	ErrEmailInUse             = New(http.StatusConflict, "EMAIL_IN_USE", "Email already registered")
	ErrTenantSlugInUse        = New(http.StatusConflict, "TENANT_SLUG_IN_USE", "Tenant slug already in use")
	ErrClientCodeInUse        = New(http.StatusConflict, "CLIENT_CODE_IN_USE", "Client code already in use")
	ErrClientKeyInUse         = New(http.StatusConflict, "CLIENT_KEY_IN_USE", "Client key collision")
	ErrNoEnabledClients       = New(http.StatusConflict, "NO_ENABLED_CLIENTS", "No enabled clients")
	ErrNotFound               = New(http.StatusNotFound, "NOT_FOUND", "Not found")
	ErrSessionNotFound        = New(http.StatusNotFound, "SESSION_NOT_FOUND", "Session not found")
	ErrInvalidArchive         = New(http.StatusBadRequest, "INVALID_ARCHIVE", "Invalid zip archive")
	ErrNoMarkdownFiles        = New(http.StatusBadRequest, "NO_MARKDOWN_FILES", "Archive contains no markdown files")
	ErrRateLimited            = New(http.StatusTooManyRequests, "RATE_LIMITED", "Too many requests")
)

// Unauthenticated returns an UNAUTHENTICATED error with a diagnostic message.
func Unauthenticated(msg string) *Error {
	return ErrUnauthenticated.WithMessage(msg)
}

// Validation returns a VALIDATION_ERROR with msg.
func Validation(msg string) *Error {
	return ErrValidation.WithMessage(msg)
}

// As extracts an *Error from err.
func As(err error) (*Error, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e, true
	}
	return nil, false
}
