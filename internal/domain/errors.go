package domain

import "fmt"

// DomainError represents a domain-specific error
type DomainError struct {
	Code    string
	Message string
	Err     error
}

// Error implements the error interface
func (e *DomainError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap returns the underlying error
func (e *DomainError) Unwrap() error {
	return e.Err
}

// NewDomainError creates a new DomainError
func NewDomainError(code, message string) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
		Err:     nil,
	}
}

// NewDomainErrorWithCause creates a new DomainError with an underlying cause
func NewDomainErrorWithCause(code, message string, err error) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

// Common domain error codes
const (
	ErrCodeValidation       = "VALIDATION_ERROR"
	ErrCodeNotFound         = "NOT_FOUND"
	ErrCodeUnavailable      = "UNAVAILABLE"
	ErrCodeInternalError    = "INTERNAL_ERROR"
	ErrCodeInvalidOperation = "INVALID_OPERATION"
)

// Validation errors
var (
	ErrInvalidAdvisorStatus     = NewDomainError(ErrCodeValidation, "invalid advisor status")
	ErrInvalidExperienceBracket = NewDomainError(ErrCodeValidation, "invalid experience bracket")
	ErrInvalidLimit             = NewDomainError(ErrCodeValidation, "limit must be a positive integer")
	ErrMissingRequiredField     = NewDomainError(ErrCodeValidation, "missing required field")
)

// Not found errors
var (
	ErrAdvisorNotFound = NewDomainError(ErrCodeNotFound, "advisor not found")
)

// Operation errors
var (
	ErrChatNotConfigured = NewDomainError(ErrCodeUnavailable, "persona chat is not configured")
)
