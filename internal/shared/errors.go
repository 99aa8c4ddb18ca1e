package shared

import "fmt"

var (
	ErrNotImplemented = fmt.Errorf("not implemented")

	// Configuration errors
	ErrMissingConfig = fmt.Errorf("configuration not found")
	ErrInvalidConfig = fmt.Errorf("invalid configuration")

	// API and transport errors
	ErrAPIRequest         = fmt.Errorf("API request failed")
	ErrServiceUnavailable = fmt.Errorf("service unavailable")
	ErrNotFound           = fmt.Errorf("not found")
	ErrCourseNotFound     = fmt.Errorf("course not found")
	ErrSessionNotFound    = fmt.Errorf("class session not found")

	// Draft and registration errors
	ErrEmptyRoster     = fmt.Errorf("no students enrolled in cohort")
	ErrUnknownStudent  = fmt.Errorf("student not in roster")
	ErrGradeRange      = fmt.Errorf("grade out of range")
	ErrNothingToCommit = fmt.Errorf("no attendance marked")
	ErrSessionCreate   = fmt.Errorf("class session creation failed")
	ErrPartialCommit   = fmt.Errorf("some attendance writes failed")

	// Input validation errors
	ErrInvalidInput    = fmt.Errorf("invalid input")
	ErrMissingArgument = fmt.Errorf("missing required argument")
	ErrInvalidArgument = fmt.Errorf("invalid argument")
	ErrInvalidFlag     = fmt.Errorf("invalid flag value")
)
