package services

import "errors"

// Sentinel errors the handlers map onto HTTP statuses.
var (
	ErrQuotaExhausted     = errors.New("daily challenge quota exhausted")
	ErrChallengeNotFound  = errors.New("challenge not found")
	ErrInvalidDifficulty  = errors.New("difficulty must be easy, medium or hard")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrEmailTaken         = errors.New("email already registered")
	ErrAlreadyBookmarked  = errors.New("challenge already bookmarked")
	ErrBookmarkNotFound   = errors.New("bookmark not found")
	ErrUnauthenticated    = errors.New("no authenticated user in context")
)
