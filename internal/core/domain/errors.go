package domain

import "errors"

// Authentication errors. Every failure surfaced by the core wraps exactly one
// of these so the transport layer can map it with errors.Is.
var (
	ErrAlreadyExists        = errors.New("principal already exists")
	ErrUnknownPrincipal     = errors.New("unknown principal")
	ErrAuthenticationFailed = errors.New("authentication failed")
	ErrInvalidToken         = errors.New("invalid token")
	ErrTokenExpired         = errors.New("token expired")
	ErrIdentityNotFound     = errors.New("identity not found")
	ErrTooManyAttempts      = errors.New("too many failed login attempts")
)

var (
	ErrInvalidInput    = errors.New("invalid input")
	ErrForbidden       = errors.New("access forbidden")
	ErrProfileNotFound = errors.New("profile not found")
)
