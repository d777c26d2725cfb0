// Package usecase implements the business logic for the auth feature.
package usecase

import (
	"errors"

	"github.com/guilletomac/CS50-finance/internal/shared/apperror"
)

var (
	// ErrUserNotFound is returned when a user cannot be found by username or ID.
	ErrUserNotFound = errors.New("user not found")

	// ErrSessionNotFound is returned when a session cannot be found by ID.
	ErrSessionNotFound = errors.New("session not found")

	// ErrSessionRevoked is returned when attempting to use a revoked session.
	ErrSessionRevoked = errors.New("session has been revoked")

	// ErrSessionExpired is returned when attempting to use an expired session.
	ErrSessionExpired = errors.New("session has expired")
)

// Errors shown to the user on the apology page.
var (
	ErrUsernameTaken       = apperror.New(apperror.DuplicateUsername, "username already exists")
	ErrInvalidCredentials  = apperror.New(apperror.InvalidCredentials, "invalid username and/or password")
	ErrLoginMissingUser    = apperror.New(apperror.InvalidCredentials, "must provide username")
	ErrLoginMissingPass    = apperror.New(apperror.InvalidCredentials, "must provide password")
	ErrMissingUsername     = apperror.New(apperror.InvalidInput, "must provide username")
	ErrMissingPassword     = apperror.New(apperror.InvalidInput, "must provide password")
	ErrMissingConfirmation = apperror.New(apperror.InvalidInput, "must provide password confirmation")
	ErrPasswordMismatch    = apperror.New(apperror.InvalidInput, "Passwords do not match")
	ErrPasswordTooLong     = apperror.New(apperror.InvalidInput, "password must be at most 72 bytes long")
)
