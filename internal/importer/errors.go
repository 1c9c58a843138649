package importer

// errors.go defines the import error taxonomy.
//
// Row-level failures (missing or malformed fields) are recovered locally:
// the row is skipped, the failure is appended to the outcome's error list,
// and processing continues. Malformed input and audit persistence failures
// are fatal to the whole invocation. Anything else that escapes a row is
// classified so callers can decide whether to retry, alert, or ignore.

import (
	"errors"
	"fmt"
)

// MalformedInputError reports an upload that could not be decoded as UTF-8
// text. It aborts the import before any row is processed.
type MalformedInputError struct {
	Reason string
}

func (e *MalformedInputError) Error() string {
	return fmt.Sprintf("malformed input: %s", e.Reason)
}

// MissingFieldError reports a required column absent from the header or
// empty in a row.
type MissingFieldError struct {
	Column string
}

func (e *MissingFieldError) Error() string {
	return fmt.Sprintf("missing required field %q", e.Column)
}

// FieldFormatError reports a value that could not be converted to the
// column's declared type.
type FieldFormatError struct {
	Column string
	Value  string
}

func (e *FieldFormatError) Error() string {
	return fmt.Sprintf("invalid value %q for field %q", e.Value, e.Column)
}

// FailureKind classifies why a row failed, so callers can tell recoverable
// data problems from infrastructure faults.
type FailureKind string

const (
	// KindValidation covers missing and malformed fields. The import
	// continues past these.
	KindValidation FailureKind = "validation"
	// KindStorage covers persistence failures. The import stops and keeps
	// the count accumulated so far.
	KindStorage FailureKind = "storage"
	// KindInternal covers everything else that escapes a row.
	KindInternal FailureKind = "internal"
)

// Classify maps an error to its FailureKind.
func Classify(err error) FailureKind {
	var missing *MissingFieldError
	var format *FieldFormatError
	switch {
	case errors.As(err, &missing), errors.As(err, &format):
		return KindValidation
	case errors.As(err, new(*StorageError)):
		return KindStorage
	default:
		return KindInternal
	}
}

// StorageError wraps a persistence failure encountered while applying a row.
type StorageError struct {
	Op  string
	Err error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *StorageError) Unwrap() error { return e.Err }

// RowError ties a failure to the 1-indexed line it occurred on (the header
// is line 1, so the first data row is line 2).
type RowError struct {
	Line int
	Kind FailureKind
	Err  error
}

func (e RowError) Error() string {
	return fmt.Sprintf("row %d: %v", e.Line, e.Err)
}

func (e RowError) Unwrap() error { return e.Err }
