package auth

import "errors"

var (
	// ErrEmailAlreadyExists indicates the email is already registered.
	ErrEmailAlreadyExists = errors.New("email already exists")
	// ErrInvalidCredentials is returned when authentication fails.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrInvalidFullName is returned when registration omits a usable name.
	ErrInvalidFullName = errors.New("invalid full name")
	// ErrUserNotFound signals that the user could not be located.
	ErrUserNotFound = errors.New("user not found")
	// ErrInvalidRefreshToken is returned for unknown, expired or already used refresh tokens.
	ErrInvalidRefreshToken = errors.New("invalid refresh token")
	// ErrUnauthorized represents missing or invalid authentication tokens.
	ErrUnauthorized = errors.New("unauthorized")
)
