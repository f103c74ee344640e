package engine

import (
	"errors"
	"fmt"
)

// CommitError represents an internal failure of the commit pipeline.
//
// A CommitError is NOT a validation rejection: rejections are ordinary
// punch.Outcome values. CommitError covers the faults a user cannot cause,
// like an out-of-order append or a durable-write failure.
type CommitError struct {
	// Code identifies the error category.
	Code CommitErrorCode

	// Message is a human-readable description.
	Message string

	// PunchID identifies the affected record, when one was built.
	PunchID string

	// Err is the underlying error, if any.
	Err error
}

// CommitErrorCode categorizes commit pipeline failures.
type CommitErrorCode string

const (
	// ErrCodeLedgerOrder indicates an append that violated the
	// strictly-increasing timestamp invariant. A programming error.
	ErrCodeLedgerOrder CommitErrorCode = "LEDGER_ORDER"

	// ErrCodeStoreWrite indicates the durable write failed; the punch was
	// not committed.
	ErrCodeStoreWrite CommitErrorCode = "STORE_WRITE"

	// ErrCodeInvalidType indicates a caller-forced punch type outside the
	// closed enumeration.
	ErrCodeInvalidType CommitErrorCode = "INVALID_TYPE"

	// ErrCodeCanceled indicates the context was canceled before the
	// commit point was reached. Nothing changed.
	ErrCodeCanceled CommitErrorCode = "CANCELED"
)

// Error implements the error interface.
func (e *CommitError) Error() string {
	if e.PunchID != "" {
		return fmt.Sprintf("%s: %s (punch=%s)", e.Code, e.Message, e.PunchID)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying error.
func (e *CommitError) Unwrap() error { return e.Err }

// IsCanceled reports whether err is a pre-commit cancellation.
// Uses errors.As to handle wrapped errors.
func IsCanceled(err error) bool {
	var ce *CommitError
	if errors.As(err, &ce) {
		return ce.Code == ErrCodeCanceled
	}
	return false
}

// NewCommitError creates a CommitError with the given code and message.
func NewCommitError(code CommitErrorCode, message string, err error) *CommitError {
	return &CommitError{Code: code, Message: message, Err: err}
}
