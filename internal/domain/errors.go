package domain

import "errors"

// ErrNotFound is returned by repo and service functions when the requested
// record does not exist in the store.
var ErrNotFound = errors.New("not found")

// ErrValidation is returned by service functions when input fails business
// rule validation (e.g. missing date, negative distance).
var ErrValidation = errors.New("validation error")

// ErrInvalidCredentials is returned on login when the email is unknown or
// the password does not match. The two cases are deliberately not
// distinguished to the caller.
var ErrInvalidCredentials = errors.New("invalid credentials")

// ErrEmailTaken is returned on registration when the email is already in
// use, compared case-insensitively.
var ErrEmailTaken = errors.New("email already registered")

// ErrInvalidToken is returned when a password-reset token is unknown,
// does not match, or has expired.
var ErrInvalidToken = errors.New("invalid or expired token")
