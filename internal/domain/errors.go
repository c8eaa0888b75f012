package domain

import (
	"errors"
	"fmt"
)

// Sentinel errors shared across services. Controllers translate these to
// HTTP statuses; services wrap everything else as internal failures.
var (
	ErrEventNotFound        = errors.New("event not found")
	ErrRegistrationNotFound = errors.New("registration not found")
	ErrUserNotFound         = errors.New("user not found")
	ErrDuplicateEmail       = errors.New("email already in use")
	ErrInvalidCredentials   = errors.New("invalid email or password")
	ErrAlreadyRegistered    = errors.New("already registered for this event")
	ErrPaymentNotConfigured = errors.New("event is not configured for payment")
	ErrSignatureMismatch    = errors.New("invalid payment signature")
	ErrInvalidInput         = errors.New("invalid input")
	ErrForbidden            = errors.New("forbidden")
)

// Token verification errors. All of them surface as 401; the split exists so
// logs can tell an expired session from a forged one.
var (
	ErrTokenInvalid = errors.New("invalid token")
	ErrTokenExpired = errors.New("token expired")
)

// ProviderError wraps a failure from the payment provider. It is kept as a
// distinct type so callers can map gateway outages to a 5xx instead of the
// 4xx used for domain errors.
type ProviderError struct {
	Op  string
	Err error
}

func (e *ProviderError) Error() string {
	return fmt.Sprintf("payment provider: %s: %v", e.Op, e.Err)
}

func (e *ProviderError) Unwrap() error { return e.Err }
