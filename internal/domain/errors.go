package domain

import (
	"errors"
	"fmt"
)

// Sentinel errors surfaced by services; the HTTP error handler maps
// them to status codes.
var (
	ErrNotFound   = errors.New("not found")
	ErrInvalidOTP = errors.New("invalid otp")
	ErrExpiredOTP = errors.New("otp expired")
	ErrForbidden  = errors.New("forbidden")
	ErrConflict   = errors.New("conflict")
	ErrBadCreds   = errors.New("invalid email or password")
	ErrLocked     = errors.New("account temporarily locked")
)

// ValidationError carries the offending field so handlers can log it.
type ValidationError struct {
	Field string
	Msg   string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Msg
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Msg)
}

func Invalid(field, msg string) error { return &ValidationError{Field: field, Msg: msg} }

func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
