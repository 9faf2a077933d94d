package domain

import "fmt"

// FormatError means the file as a whole is not importable: no schema
// matched its headers, or the CSV could not be read at all.
type FormatError struct {
	Reason string
}

func (e *FormatError) Error() string {
	return fmt.Sprintf("unrecognized format: %s", e.Reason)
}

// RowValidationError is a per-row normalization failure (bad date
// literal, unparsable number). It isolates to the offending row.
type RowValidationError struct {
	Field string
	Cause error
}

func (e *RowValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %v", e.Field, e.Cause)
}

func (e *RowValidationError) Unwrap() error { return e.Cause }

// ResolutionError is a per-row entity resolution failure.
type ResolutionError struct {
	Entity string
	Cause  error
}

func (e *ResolutionError) Error() string {
	return fmt.Sprintf("resolving %s: %v", e.Entity, e.Cause)
}

func (e *ResolutionError) Unwrap() error { return e.Cause }

// TransportError means the remote warehouse could not be reached even
// after retries. It fails the run before any row is processed.
type TransportError struct {
	Cause error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("warehouse unreachable: %v", e.Cause)
}

func (e *TransportError) Unwrap() error { return e.Cause }

// PersistenceError is a per-row database failure during upsert.
type PersistenceError struct {
	Cause error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("persisting fact: %v", e.Cause)
}

func (e *PersistenceError) Unwrap() error { return e.Cause }
