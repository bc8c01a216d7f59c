package errors

import (
	"errors"
)

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInvalidToken       = errors.New("invalid or expired token")
	ErrForbidden          = errors.New("superuser privileges required")
	ErrUserNotFound       = errors.New("user not found")
	ErrEmailAlreadyInUse  = errors.New("email already in use")
	ErrAlreadyVerified    = errors.New("email already verified")
	ErrInactiveUser       = errors.New("inactive user")
	ErrIncorrectPassword  = errors.New("incorrect password")
	ErrPasswordMismatch   = errors.New("passwords do not match")
	ErrSamePassword       = errors.New("new password must differ from the current one")
)
