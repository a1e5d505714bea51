package errors

import (
	"errors"
	"fmt"
)

// Sentinel errors for common error conditions
var (
	// ErrNilSource is returned when the document sequence itself is
	// absent. This is the one data-shape problem that is fatal: a
	// missing corpus cannot be skipped the way a malformed line can.
	ErrNilSource = errors.New("document source is nil")

	// ErrAlreadyRun is returned when a pipeline builder is run a
	// second time after reaching its terminal state.
	ErrAlreadyRun = errors.New("pipeline already run")

	// ErrNotDone is returned when the result of a pipeline is
	// requested before the run has completed.
	ErrNotDone = errors.New("pipeline has not completed")

	// ErrJobNotFound is returned when a job is not found
	ErrJobNotFound = errors.New("job not found")

	// ErrNoCompletedBuild is returned when index stats are requested
	// before any build has completed.
	ErrNoCompletedBuild = errors.New("no completed build")

	// ErrInvalidInput is returned when input validation fails
	ErrInvalidInput = errors.New("invalid input")
)

// JobNotFoundError represents a job not found error with context
type JobNotFoundError struct {
	JobID string
}

func (e *JobNotFoundError) Error() string {
	return fmt.Sprintf("job with ID '%s' not found", e.JobID)
}

func (e *JobNotFoundError) Is(target error) bool {
	return target == ErrJobNotFound
}

// NewJobNotFoundError creates a new JobNotFoundError
func NewJobNotFoundError(jobID string) *JobNotFoundError {
	return &JobNotFoundError{JobID: jobID}
}

// ValidationError represents an input validation error with context
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("validation error for field '%s': %s", e.Field, e.Message)
	}
	return fmt.Sprintf("validation error: %s", e.Message)
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrInvalidInput
}

// NewValidationError creates a new ValidationError
func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{Field: field, Message: message}
}
