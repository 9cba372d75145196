package models

import (
	"context"
	"errors"
	"fmt"
)

// ErrorKind tags every error crossing the tool boundary. The dispatcher
// surfaces the kind and message verbatim.
type ErrorKind string

const (
	// KindValidation marks bad or missing input. Caller-correctable,
	// never worth retrying as-is.
	KindValidation ErrorKind = "ValidationError"
	// KindNotFound marks a referenced id that does not exist.
	KindNotFound ErrorKind = "NotFoundError"
	// KindStorage marks connectivity, timeout, or constraint failures at
	// the store level. Possibly transient; the caller may retry the whole
	// operation.
	KindStorage ErrorKind = "StorageError"
)

// Error is the single error type returned by the ledger, report, and
// export layers.
type Error struct {
	Kind    ErrorKind
	Message string
	cause   error
}

func (e *Error) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.cause)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error { return e.cause }

// Validationf builds a ValidationError.
func Validationf(format string, args ...any) *Error {
	return &Error{Kind: KindValidation, Message: fmt.Sprintf(format, args...)}
}

// NotFoundf builds a NotFoundError.
func NotFoundf(format string, args ...any) *Error {
	return &Error{Kind: KindNotFound, Message: fmt.Sprintf(format, args...)}
}

// Storagef builds a StorageError wrapping the underlying store failure.
func Storagef(cause error, format string, args ...any) *Error {
	return &Error{Kind: KindStorage, Message: fmt.Sprintf(format, args...), cause: cause}
}

// WrapStorage classifies a raw store error as a StorageError. Context
// deadline expiry is called out in the message since it signals a bounded
// call that timed out rather than a hard failure. Already-classified
// errors pass through untouched.
func WrapStorage(err error, format string, args ...any) error {
	if err == nil {
		return nil
	}
	var appErr *Error
	if errors.As(err, &appErr) {
		return err
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return Storagef(err, "%s", "timed out: "+fmt.Sprintf(format, args...))
	}
	return Storagef(err, format, args...)
}

// KindOf extracts the error kind, defaulting unclassified errors to
// StorageError so no error leaves the engine untagged.
func KindOf(err error) ErrorKind {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Kind
	}
	return KindStorage
}
