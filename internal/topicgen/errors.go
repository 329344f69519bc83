package topicgen

import "fmt"

// ValidationError reports generated output that cannot be used. Nothing
// derived from the output is persisted.
type ValidationError struct {
	// Field is a JSON pointer or dotted path to the offending value.
	Field   string
	Message string
	// Err is the underlying cause, e.g. a *learn.IntegrityError.
	Err error
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return "invalid generated topic: " + e.Message
	}
	return fmt.Sprintf("invalid generated topic: %s: %s", e.Field, e.Message)
}

func (e *ValidationError) Unwrap() error { return e.Err }

// ServiceError reports that the generation service could not produce an
// answer at all.
type ServiceError struct {
	Op  string
	Err error
}

func (e *ServiceError) Error() string {
	return fmt.Sprintf("%s: generation service failed: %v", e.Op, e.Err)
}

func (e *ServiceError) Unwrap() error { return e.Err }
