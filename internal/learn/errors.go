package learn

import (
	"errors"
	"fmt"
)

// ErrNotFound is returned when a requested record does not exist.
var ErrNotFound = errors.New("not found")

// ConflictError is returned when a topic with the same title already
// exists. ExistingID is zero when the existing row could not be resolved.
type ConflictError struct {
	Title      string
	ExistingID int64
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("topic %q already exists", e.Title)
}

// IntegrityError describes a generated graph that would violate a data
// invariant, such as a correct answer letter with no matching choice.
type IntegrityError struct {
	Path    string
	Message string
}

func (e *IntegrityError) Error() string {
	if e.Path == "" {
		return "integrity: " + e.Message
	}
	return fmt.Sprintf("integrity: %s: %s", e.Path, e.Message)
}
