package auth

import "errors"

var (
	ErrInvalidCredentials = errors.New("invalid pin")
	ErrInvalidToken       = errors.New("invalid or expired token")
	ErrTooManyAttempts    = errors.New("too many login attempts, try again later")
)
