package domain

import "errors"

var (
	// ErrWeakPassword is returned when a password fails one or more strength
	// rules. The concrete error aggregates every violated rule.
	ErrWeakPassword = errors.New("password does not meet strength requirements")

	// ErrEmailTaken is returned when registration hits an existing email.
	ErrEmailTaken = errors.New("email already registered")

	// ErrInvalidCredentials deliberately collapses "no such user" and
	// "wrong password" so callers cannot enumerate accounts.
	ErrInvalidCredentials = errors.New("invalid credentials")

	ErrUserNotFound = errors.New("user not found")

	ErrInvalidToken   = errors.New("invalid token")
	ErrExpiredToken   = errors.New("token expired")
	ErrWrongTokenType = errors.New("wrong token type")

	ErrRateLimited          = errors.New("rate limit exceeded")
	ErrPayloadTooLarge      = errors.New("request body too large")
	ErrUnsupportedMediaType = errors.New("unsupported media type")
)
