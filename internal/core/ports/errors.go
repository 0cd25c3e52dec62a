package ports

import (
	"context"
	"errors"
	"fmt"
)

// ErrorKind classifies failures crossing the core's boundary. Each kind doubles
// as the stable machine-readable reason code surfaced to callers.
type ErrorKind string

const (
	KindValidation         ErrorKind = "validation"
	KindInvalidCredentials ErrorKind = "invalid_credentials"
	KindInvalidToken       ErrorKind = "invalid_token"
	KindInvalidCode        ErrorKind = "invalid_code"
	KindDuplicateEmail     ErrorKind = "duplicate_email"
	KindForbidden          ErrorKind = "forbidden"
	KindStorage            ErrorKind = "storage"
	KindTimeout            ErrorKind = "timeout"
	KindInternal           ErrorKind = "internal"
)

// DomainError is the typed error contract the application layer returns and
// infrastructure inspects. The message is safe to show to callers; the wrapped
// cause carries the internal detail for logging.
type DomainError struct {
	kind    ErrorKind
	message string
	cause   error
}

func (e *DomainError) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %v", e.message, e.cause)
	}
	return e.message
}

func (e *DomainError) Unwrap() error   { return e.cause }
func (e *DomainError) Kind() ErrorKind { return e.kind }
func (e *DomainError) Message() string { return e.message }
func (e *DomainError) Code() string    { return string(e.kind) }
func (e *DomainError) Retryable() bool { return e.kind == KindStorage }
func (e *DomainError) IsAuthFailure() bool {
	switch e.kind {
	case KindInvalidCredentials, KindInvalidToken, KindInvalidCode, KindForbidden:
		return true
	default:
		return false
	}
}

// ErrNotFound is the sentinel repositories wrap when a row or key simply does
// not exist. Services decide what absence means (invalid credentials, invalid
// code, 404); anything else a repository returns is a real storage failure and
// must never surface as an authentication outcome.
var ErrNotFound = errors.New("not found")

func newError(kind ErrorKind, message string, cause error) *DomainError {
	return &DomainError{kind: kind, message: message, cause: cause}
}

func NewValidationError(message string) *DomainError {
	return newError(KindValidation, message, nil)
}

// ErrInvalidCredentials is shared by wrong-password and unknown-email failures
// so the two are indistinguishable to callers.
func ErrInvalidCredentials() *DomainError {
	return newError(KindInvalidCredentials, "invalid credentials", nil)
}

// NewInvalidTokenError keeps the external shape fixed while recording the
// internal reason (expired, bad signature, wrong issuer) in the cause.
func NewInvalidTokenError(cause error) *DomainError {
	return newError(KindInvalidToken, "invalid token", cause)
}

// ErrInvalidCode covers unknown, expired and already-consumed codes alike.
func ErrInvalidCode() *DomainError {
	return newError(KindInvalidCode, "invalid or expired code", nil)
}

func NewDuplicateEmailError(email string) *DomainError {
	return newError(KindDuplicateEmail, fmt.Sprintf("email '%s' is already taken", email), nil)
}

func NewForbiddenError(message string) *DomainError {
	return newError(KindForbidden, message, nil)
}

// NewStorageError wraps a collaborator-store failure. Context deadline
// expiry is surfaced as a distinct timeout kind so callers never retry it
// transparently.
func NewStorageError(cause error) *DomainError {
	if errors.Is(cause, context.DeadlineExceeded) {
		return newError(KindTimeout, "storage operation timed out", cause)
	}
	return newError(KindStorage, "storage operation failed", cause)
}

// NewInternalError marks faults (signing key misconfiguration, hashing
// failure) that must never be reported as authentication failures.
func NewInternalError(message string, cause error) *DomainError {
	return newError(KindInternal, message, cause)
}

// KindOf returns the kind of err, or KindInternal for untyped errors.
func KindOf(err error) ErrorKind {
	var de *DomainError
	if errors.As(err, &de) {
		return de.Kind()
	}
	return KindInternal
}

// IsKind reports whether err carries the given kind.
func IsKind(err error, kind ErrorKind) bool {
	return KindOf(err) == kind
}
