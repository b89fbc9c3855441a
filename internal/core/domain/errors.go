package domain

import "errors"

var (
	ErrUserNotFound       = errors.New("user not found")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUserExists         = errors.New("user already exists")
	ErrMessageNotFound    = errors.New("message not found")
	ErrUnauthorized       = errors.New("missing access token")
	ErrForbidden          = errors.New("invalid or expired token")
)

// ErrInvalidInput marks a request the service refuses before touching storage.
var ErrInvalidInput = errors.New("invalid input")
