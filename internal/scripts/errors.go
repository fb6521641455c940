package scripts

import "errors"

// ErrValidation matches every *ValidationError via errors.Is.
var ErrValidation = errors.New("validation failed")

// ErrGenerationMismatch is returned by Open when an explicit generation
// disagrees with the table on disk.
var ErrGenerationMismatch = errors.New("scripts table generation mismatch")

// ValidationError rejects a request before it reaches storage.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Reason
	}
	return e.Field + ": " + e.Reason
}

func (e *ValidationError) Is(target error) bool { return target == ErrValidation }

func (e *ValidationError) ErrorKind() string { return "validation" }

func required(field string) error {
	return &ValidationError{Field: field, Reason: "required"}
}
