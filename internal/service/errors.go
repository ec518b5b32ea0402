package service

import (
	"errors"
	"fmt"
)

var (
	ErrFormNotFound       = errors.New("form not found")
	ErrEmptyExport        = errors.New("no responses to export")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrEmailTaken         = errors.New("email already registered")
	ErrInvalidToken       = errors.New("invalid or expired token")
	ErrRateLimited        = errors.New("too many submissions, try again later")
)

// Submission validation failure kinds; match with errors.Is against a *ValidationError
var (
	ErrMissingRequiredAnswer = errors.New("missing required answer")
	ErrInvalidOption         = errors.New("invalid option")
	ErrMalformedAnswer       = errors.New("malformed answer")
)

// ValidationError rejects a submission, naming the first offending question
type ValidationError struct {
	Kind         error
	QuestionID   string
	QuestionText string
	Value        string
}

func (e *ValidationError) Error() string {
	switch e.Kind {
	case ErrMissingRequiredAnswer:
		return fmt.Sprintf("Please answer: %s", e.QuestionText)
	case ErrInvalidOption:
		return fmt.Sprintf("%q is not a valid option for: %s", e.Value, e.QuestionText)
	case ErrMalformedAnswer:
		if e.QuestionText != "" {
			return fmt.Sprintf("Invalid answer format for: %s", e.QuestionText)
		}
		return "Invalid answers format"
	}
	return fmt.Sprintf("invalid answer for question %s", e.QuestionID)
}

func (e *ValidationError) Unwrap() error {
	return e.Kind
}

// SchemaError rejects a form definition
type SchemaError struct {
	Field   string
	Message string
}

func (e *SchemaError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return e.Field + ": " + e.Message
}
