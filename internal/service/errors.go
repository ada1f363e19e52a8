package service

import "errors"

// Sentinel errors returned by the service layer. Callers should use
// [errors.Is] to match against these values.
var (
	// ErrValidation is returned when a required field is missing or invalid
	// before a write is attempted.
	ErrValidation = errors.New("validation error")

	// ErrPermissionDenied is returned when notification permission was
	// refused, either now or by a previously recorded decision.
	ErrPermissionDenied = errors.New("notification permission denied")

	// ErrInvalidCredentials is returned on login with an unknown username
	// or wrong password.
	ErrInvalidCredentials = errors.New("invalid credentials")

	// ErrUserInactive is returned on login with a deactivated account.
	ErrUserInactive = errors.New("user is inactive")

	// ErrNoSession is returned when an operation requires a logged-in user
	// and none is recorded.
	ErrNoSession = errors.New("no active session")
)
