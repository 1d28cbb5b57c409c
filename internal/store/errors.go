package store

import (
	"fmt"
	"sort"
	"strings"
)

// ValidationError reports missing or malformed input fields. Fields maps the
// offending field name to a human-readable message.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	names := make([]string, 0, len(e.Fields))
	for name := range e.Fields {
		names = append(names, name)
	}
	sort.Strings(names)
	return "invalid input: " + strings.Join(names, ", ")
}

// NotFoundError reports that no row matched the requested id.
type NotFoundError struct {
	Resource string
	ID       int64
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %d not found", e.Resource, e.ID)
}

// OrderRef is a summary of an order involved in a referential-integrity
// conflict, enough for the frontend to list the blocking rows.
type OrderRef struct {
	ID   int64  `json:"id"`
	Date string `json:"date"`
}

// ConflictError reports a referential-integrity violation: either dangling
// references on a write (InvalidRefs) or dependent orders blocking a catalog
// delete (Dependents).
type ConflictError struct {
	Message     string
	InvalidRefs []string
	Dependents  []OrderRef
}

func (e *ConflictError) Error() string { return e.Message }

// StorageError wraps an unexpected backend failure. Callers surface it as a
// generic server error; the underlying cause goes to the log only.
type StorageError struct {
	Op  string
	Err error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("storage error during %s: %v", e.Op, e.Err)
}

func (e *StorageError) Unwrap() error { return e.Err }
