// Package common defines shared constants and sentinel errors used across
// the payslip portal. Callers should use errors.Is to match these values.
package common

import "errors"

var (
	// Repository-level errors.
	ErrorNotFound = errors.New("not found")

	// Service-level errors (generic/internal flow control).
	ErrorInternal = errors.New("internal error")

	// Failure taxonomy surfaced to API callers.
	ErrorUnauthorized    = errors.New("unauthorized")
	ErrorForbidden       = errors.New("forbidden")
	ErrInvalidArgument   = errors.New("invalid argument")
	ErrDownstreamFailure = errors.New("downstream failure")
	ErrFileUnavailable   = errors.New("file unavailable")

	// Auth errors (invalid or malformed token).
	ErrInvalidToken = errors.New("invalid token")

	// Token lifecycle errors.
	ErrRefreshTokenExpired = errors.New("refresh token expired")
)
