// Package common defines shared constants and sentinel errors used across
// the repository, service and transport layers. Callers should use errors.Is
// to match these values.
package common

import "errors"

var (
	// Repository-level errors.
	ErrorNotFound = errors.New("not found")

	// Error kinds. The transport layer maps each kind to a status code.
	ErrValidation   = errors.New("validation error")
	ErrUnauthorized = errors.New("unauthorized")
	ErrorInternal   = errors.New("internal error")

	// Auth errors (invalid or malformed token).
	ErrInvalidToken = errors.New("invalid token")
	ErrTokenExpired = errors.New("token expired")
)

// Error is a client-facing failure reason. Error returns the message shown
// to the caller; errors.Is matches both the value itself and its kind.
type Error struct {
	kind error
	msg  string
}

func newError(kind error, msg string) *Error {
	return &Error{kind: kind, msg: msg}
}

func (e *Error) Error() string { return e.msg }

// Is reports whether target is the kind of this error.
func (e *Error) Is(target error) bool { return target == e.kind }

// Kind returns the sentinel this error is classified under.
func (e *Error) Kind() error { return e.kind }

// Registration and update validation reasons.
var (
	ErrRequiredFields    = newError(ErrValidation, "All fields are required")
	ErrPasswordTooShort  = newError(ErrValidation, "Password is too short")
	ErrPasswordTooLong   = newError(ErrValidation, "Password is too long")
	ErrInvalidEmail      = newError(ErrValidation, "Email is not valid")
	ErrEmailInUse        = newError(ErrValidation, "Email address already in use")
	ErrEmailRequired     = newError(ErrValidation, "Email field is required")
	ErrCredentialsNeeded = newError(ErrValidation, "Email and password are required")
	ErrInvalidRestock    = newError(ErrValidation, "restock_date must be an ISO-8601 date")
)

// Lookup and authentication reasons.
var (
	ErrUserNotFound       = newError(ErrorNotFound, "User not found")
	ErrNoImage            = newError(ErrorNotFound, "Product has no image")
	ErrInvalidCredentials = newError(ErrUnauthorized, "Invalid email or password")
)

// Opaque server-side failures. The underlying cause is logged, never returned.
var (
	ErrRegisterFailed = newError(ErrorInternal, "Failed to register user. Please try again later.")
	ErrUpdateFailed   = newError(ErrorInternal, "Failed to update user. Please try again later.")
	ErrServerFailure  = newError(ErrorInternal, "Internal server error")
)
