package shared

import "errors"

var (
	// ErrNotFound indicates resource not found.
	ErrNotFound = errors.New("not found")
	// ErrAlreadyExists indicates a unique constraint collision.
	ErrAlreadyExists = errors.New("already exists")
	// ErrInvalidCredentials indicates login failure.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrUserNotFound indicates the referenced user account does not exist.
	ErrUserNotFound = errors.New("user not found")
	// ErrInvalidToken indicates a malformed, tampered or wrong-type token.
	ErrInvalidToken = errors.New("invalid token")
	// ErrTokenExpired indicates a structurally valid token past its expiry.
	ErrTokenExpired = errors.New("token expired")
	// ErrPermissionDenied indicates the identity lacks a required permission.
	ErrPermissionDenied = errors.New("permission denied")
)
