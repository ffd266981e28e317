package domain

import (
	"errors"
	"fmt"
)

// ErrorKind tags every failure the core surfaces to its callers.
type ErrorKind string

const (
	KindValidation        ErrorKind = "validation_error"
	KindDuplicateCode     ErrorKind = "duplicate_code"
	KindDuplicateID       ErrorKind = "duplicate_id"
	KindNotFound          ErrorKind = "not_found"
	KindInvalidID         ErrorKind = "invalid_id"
	KindUnknownSKU        ErrorKind = "unknown_sku"
	KindInsufficientStock ErrorKind = "insufficient_stock"
	KindInvalidQuery      ErrorKind = "invalid_query"
	KindStorageFailure    ErrorKind = "storage_failure"
)

type Error struct {
	Kind    ErrorKind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Err
}

func NewError(kind ErrorKind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

func Errorf(kind ErrorKind, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

func WrapError(kind ErrorKind, message string, err error) *Error {
	return &Error{Kind: kind, Message: message, Err: err}
}

// CompensationError reports a rollback that itself failed. Both the
// original failure and the compensation failure stay reachable via Unwrap.
func CompensationError(message string, original, compensation error) *Error {
	return &Error{
		Kind:    KindStorageFailure,
		Message: fmt.Sprintf("%s (original: %v)", message, original),
		Err:     errors.Join(original, compensation),
	}
}

// KindOf returns the kind of err, or KindStorageFailure for any error
// that did not originate in the core.
func KindOf(err error) ErrorKind {
	var de *Error
	if errors.As(err, &de) {
		return de.Kind
	}
	return KindStorageFailure
}

func IsKind(err error, kind ErrorKind) bool {
	var de *Error
	if errors.As(err, &de) {
		return de.Kind == kind
	}
	return false
}
