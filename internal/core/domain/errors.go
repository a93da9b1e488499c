package domain

import "errors"

// Sentinel errors for the auth and interaction flows. The API layer maps
// these to HTTP statuses in one place; services return them unwrapped or
// wrapped with %w.
var (
	ErrInvalidEmail       = errors.New("invalid email format")
	ErrWeakPassword       = errors.New("password must be at least 5 characters")
	ErrMissingCredentials = errors.New("email and password are required")
	ErrEmailTaken         = errors.New("email already registered")
	ErrBadCredentials     = errors.New("password does not match")
	ErrUserNotFound       = errors.New("user not found")
	ErrPostNotFound       = errors.New("post not found")
	ErrForbidden          = errors.New("not the owner of this post")
	ErrEmptyPost          = errors.New("post must have text or media")
	ErrEmptyComment       = errors.New("comment text is empty")
	ErrInvalidToken       = errors.New("invalid session token")
	ErrTokenExpired       = errors.New("session token expired")
)
