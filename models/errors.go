package models

import "fmt"

// Error taxonomy shared across services and handlers. Each carries a short
// machine-stable code that ends up in the response envelope; the HTTP status
// mapping lives in the handlers package.

type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

func Invalid(format string, args ...any) error {
	return &ValidationError{Message: fmt.Sprintf(format, args...)}
}

type NotFoundError struct {
	Entity string
}

func (e *NotFoundError) Error() string { return e.Entity + " not found" }

func NotFound(entity string) error {
	return &NotFoundError{Entity: entity}
}

type ConflictError struct {
	Message string
}

func (e *ConflictError) Error() string { return e.Message }

func Conflict(format string, args ...any) error {
	return &ConflictError{Message: fmt.Sprintf(format, args...)}
}

type AuthError struct {
	Message string
}

func (e *AuthError) Error() string { return e.Message }

// PaymentErrorKind distinguishes processor rejections from outages: a
// rejection is the caller's problem (400), an outage is ours to retry (502).
type PaymentErrorKind string

const (
	PaymentRejectedKind    PaymentErrorKind = "rejected"
	PaymentUnavailableKind PaymentErrorKind = "unavailable"
)

type PaymentError struct {
	Kind    PaymentErrorKind
	Message string
}

func (e *PaymentError) Error() string {
	return "payment " + string(e.Kind) + ": " + e.Message
}
