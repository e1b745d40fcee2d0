package domain

import (
	"errors"
	"strings"
)

var (
	ErrValidation        = errors.New("validation failed")
	ErrUnauthorized      = errors.New("unauthorized")
	ErrReferralNotFound  = errors.New("referral not found")
	ErrResumeNotFound    = errors.New("resume not found")
	ErrDuplicateReferral = errors.New("a referral with this email already exists")
	ErrInvalidStatus     = errors.New("invalid status")
	ErrUpstreamStorage   = errors.New("upstream storage failure")

	ErrAccountExists         = errors.New("user already exists")
	ErrAccountNotFound       = errors.New("account not found")
	ErrNotRegistered         = errors.New("user not registered")
	ErrInvalidCredential     = errors.New("invalid credentials")
	ErrMissingToken          = errors.New("session expired, please log in")
	ErrInvalidOrExpiredToken = errors.New("invalid or expired token")
)

// ValidationError lists every rule a request violated.
type ValidationError struct {
	Messages []string
}

// NewValidationError builds a ValidationError from one or more messages.
func NewValidationError(msgs ...string) *ValidationError {
	return &ValidationError{Messages: msgs}
}

func (e *ValidationError) Error() string {
	if len(e.Messages) == 0 {
		return ErrValidation.Error()
	}
	return ErrValidation.Error() + ": " + strings.Join(e.Messages, "; ")
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}
