package domain

import "errors"

// Closed set of domain errors. Every core operation returns one of these (or
// wraps one); the HTTP boundary owns the translation to status codes.
var (
	// ErrUserExists signals a registration against an already-taken username.
	ErrUserExists = errors.New("user already exists")

	// ErrInvalidCredentials covers both an unknown username and a wrong
	// secret at login. The two cases are deliberately indistinguishable to
	// callers.
	ErrInvalidCredentials = errors.New("invalid credentials")

	// ErrUserNotFound is returned by the directory when a lookup misses.
	ErrUserNotFound = errors.New("user not found")

	// ErrInvalidToken covers malformed, mis-signed and expired tokens.
	ErrInvalidToken = errors.New("invalid token")

	// ErrUnauthenticated signals a protected route reached without any token,
	// or without an identity in context.
	ErrUnauthenticated = errors.New("authentication required")

	// ErrUnknownSubject signals a valid token whose subject no longer exists
	// in the directory.
	ErrUnknownSubject = errors.New("unknown token subject")

	// ErrForbidden signals an authenticated identity with an insufficient role.
	ErrForbidden = errors.New("access forbidden")

	// ErrDirectoryUnavailable wraps storage failures underneath the directory.
	ErrDirectoryUnavailable = errors.New("user directory unavailable")
)
