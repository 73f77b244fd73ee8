package leaderboardhttp

import "errors"

var (
	// ErrInvalidToken is returned when the token is malformed or invalid.
	ErrInvalidToken = errors.New("invalid token")

	// ErrExpiredToken is returned when the token has expired.
	ErrExpiredToken = errors.New("token has expired")

	// ErrInvalidSignature is returned when the token signature is invalid.
	ErrInvalidSignature = errors.New("invalid token signature")

	// ErrMissingSecret is returned when the provider has no signing key.
	ErrMissingSecret = errors.New("token signing secret is not configured")

	errMissingToken = errors.New("missing bearer token")
	errRateLimited  = errors.New("rate limit exceeded")
	errEmptyResult  = errors.New("service returned neither success nor failure")
)
