package services

import (
	"errors"
	"fmt"
)

// ErrorType represents the type/category of error
type ErrorType string

const (
	ErrorTypeCredentialMissing ErrorType = "credential_missing"
	ErrorTypeCredentialInvalid ErrorType = "credential_invalid"
	ErrorTypeForbidden         ErrorType = "forbidden"
	ErrorTypePathEscape        ErrorType = "path_escape"
	ErrorTypeNotFound          ErrorType = "not_found"
	ErrorTypeStreaming         ErrorType = "streaming"
	ErrorTypeInternal          ErrorType = "internal"
)

// DomainError represents a structured error with additional context
type DomainError struct {
	Type    ErrorType
	Message string
	Err     error
	Details map[string]interface{}
}

// Error implements the error interface
func (e *DomainError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s (%v)", e.Type, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Type, e.Message)
}

// Unwrap implements errors.Unwrap
func (e *DomainError) Unwrap() error {
	return e.Err
}

// Is implements errors.Is
func (e *DomainError) Is(target error) bool {
	t, ok := target.(*DomainError)
	if !ok {
		return false
	}
	return e.Type == t.Type
}

// WithDetail adds a detail to the error
func (e *DomainError) WithDetail(key string, value interface{}) *DomainError {
	if e.Details == nil {
		e.Details = make(map[string]interface{})
	}
	e.Details[key] = value
	return e
}

// NewDomainError creates a new domain error
func NewDomainError(errType ErrorType, message string, err error) *DomainError {
	return &DomainError{
		Type:    errType,
		Message: message,
		Err:     err,
		Details: make(map[string]interface{}),
	}
}

// Domain error variables

var (
	// Credential errors. Missing and invalid stay distinct: only
	// video-class requests treat either as fatal, and the auth gate
	// needs to tell "anonymous" apart from "rejected".
	ErrCredentialMissing = NewDomainError(ErrorTypeCredentialMissing, "no credential presented", nil)
	ErrCredentialInvalid = NewDomainError(ErrorTypeCredentialInvalid, "invalid or expired credential", nil)
	ErrUserInactive      = NewDomainError(ErrorTypeCredentialInvalid, "user account is deactivated", nil)

	// Authorization errors
	ErrForbidden          = NewDomainError(ErrorTypeForbidden, "access forbidden", nil)
	ErrCourseAccessDenied = NewDomainError(ErrorTypeForbidden, "not authorized for this course", nil)

	// Path errors. PathEscape is a security invariant, always fatal.
	ErrPathEscape = NewDomainError(ErrorTypePathEscape, "path resolves outside the asset root", nil)

	// Not found errors
	ErrAssetNotFound = NewDomainError(ErrorTypeNotFound, "asset not found", nil)
	ErrUserNotFound  = NewDomainError(ErrorTypeNotFound, "user not found", nil)

	// Streaming errors
	ErrStreamingFailed = NewDomainError(ErrorTypeStreaming, "streaming failed", nil)

	// Internal errors
	ErrInternal      = NewDomainError(ErrorTypeInternal, "internal server error", nil)
	ErrDatabaseError = NewDomainError(ErrorTypeInternal, "database error", nil)
)

// Error type checking helper functions

// IsCredentialMissingError checks if an error is a credential-missing error
func IsCredentialMissingError(err error) bool {
	var domainErr *DomainError
	if errors.As(err, &domainErr) {
		return domainErr.Type == ErrorTypeCredentialMissing
	}
	return false
}

// IsCredentialInvalidError checks if an error is a credential-invalid error
func IsCredentialInvalidError(err error) bool {
	var domainErr *DomainError
	if errors.As(err, &domainErr) {
		return domainErr.Type == ErrorTypeCredentialInvalid
	}
	return false
}

// IsCredentialError checks if an error is either credential error
func IsCredentialError(err error) bool {
	return IsCredentialMissingError(err) || IsCredentialInvalidError(err)
}

// IsForbiddenError checks if an error is a forbidden error
func IsForbiddenError(err error) bool {
	var domainErr *DomainError
	if errors.As(err, &domainErr) {
		return domainErr.Type == ErrorTypeForbidden
	}
	return false
}

// IsPathEscapeError checks if an error is a path-escape error
func IsPathEscapeError(err error) bool {
	var domainErr *DomainError
	if errors.As(err, &domainErr) {
		return domainErr.Type == ErrorTypePathEscape
	}
	return false
}

// IsNotFoundError checks if an error is a not found error
func IsNotFoundError(err error) bool {
	var domainErr *DomainError
	if errors.As(err, &domainErr) {
		return domainErr.Type == ErrorTypeNotFound
	}
	return false
}

// IsStreamingError checks if an error is a streaming error
func IsStreamingError(err error) bool {
	var domainErr *DomainError
	if errors.As(err, &domainErr) {
		return domainErr.Type == ErrorTypeStreaming
	}
	return false
}

// IsInternalError checks if an error is an internal error
func IsInternalError(err error) bool {
	var domainErr *DomainError
	if errors.As(err, &domainErr) {
		return domainErr.Type == ErrorTypeInternal
	}
	return false
}

// GetErrorType returns the ErrorType of a domain error, or empty string if not a domain error
func GetErrorType(err error) ErrorType {
	var domainErr *DomainError
	if errors.As(err, &domainErr) {
		return domainErr.Type
	}
	return ""
}

// GetErrorDetails returns the details map of a domain error, or nil if not a domain error
func GetErrorDetails(err error) map[string]interface{} {
	var domainErr *DomainError
	if errors.As(err, &domainErr) {
		return domainErr.Details
	}
	return nil
}

// WrapError wraps an error with additional context
func WrapError(errType ErrorType, message string, err error) error {
	return NewDomainError(errType, message, err)
}

// WrapInternal wraps an error as an internal error
func WrapInternal(message string, err error) error {
	return NewDomainError(ErrorTypeInternal, message, err)
}

// WrapStreaming wraps an error as a streaming error
func WrapStreaming(message string, err error) error {
	return NewDomainError(ErrorTypeStreaming, message, err)
}
