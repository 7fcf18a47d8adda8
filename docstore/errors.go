package docstore

import (
	"errors"
	"fmt"
)

// Error is a store error carrying an HTTP-like status.
type Error struct {
	Status int
	Name   string
	Reason string
}

func (e *Error) Error() string {
	return fmt.Sprintf("docstore: %s: %s", e.Name, e.Reason)
}

var (
	// ErrNotFound is returned when a document doesn't exist or was removed.
	ErrNotFound = &Error{Status: 404, Name: "not_found", Reason: "missing"}

	// ErrConflict is returned when a write carries a stale or missing revision.
	ErrConflict = &Error{Status: 409, Name: "conflict", Reason: "document update conflict"}

	// ErrMissingID is returned when a document is written without an id.
	ErrMissingID = &Error{Status: 400, Name: "bad_request", Reason: "document id is required"}

	// ErrUnknownView is returned when querying a view the store doesn't define.
	ErrUnknownView = errors.New("docstore: unknown view")

	// ErrNotObject is returned by ToDoc for values that are not object-like.
	ErrNotObject = errors.New("docstore: value is not an object")
)

// StatusCode returns the status carried by err, or 0 if err is not a store
// error.
func StatusCode(err error) int {
	var e *Error
	if errors.As(err, &e) {
		return e.Status
	}
	return 0
}
