package auth

import "errors"

// Failure taxonomy surfaced by the authentication flows. Handlers map
// these onto HTTP status codes; nothing below is retried internally.
var (
	// ErrValidation covers malformed caller input.
	ErrValidation = errors.New("invalid input")
	// ErrEmailTaken is returned when registering an email that exists.
	ErrEmailTaken = errors.New("email already registered")
	// ErrNotFound is returned for lookups of unknown identities.
	ErrNotFound = errors.New("user not found")
	// ErrNotEnrolled is returned for iris logins before enrollment.
	ErrNotEnrolled = errors.New("user has not enrolled iris data")
	// ErrAuthenticationFailed is an iris non-match.
	ErrAuthenticationFailed = errors.New("iris verification failed")
	// ErrTemplateCorrupted means the stored sealed template failed its
	// integrity check. Data-at-rest corruption, not user error.
	ErrTemplateCorrupted = errors.New("stored iris template is corrupted")
	// ErrInvalidToken covers every magic-link verification failure,
	// including tokens for emails that no longer resolve.
	ErrInvalidToken = errors.New("invalid or expired token")
)
