package errors

import (
	stderrors "errors"
	"fmt"
	"strings"
)

// ErrorType represents different types of errors in the system
type ErrorType string

const (
	// ErrorTypeNotFound indicates a resource was not found
	ErrorTypeNotFound ErrorType = "NOT_FOUND"

	// ErrorTypeValidation indicates a generic validation error
	ErrorTypeValidation ErrorType = "VALIDATION"

	// ErrorTypeMissingField indicates a request omitted a required field
	ErrorTypeMissingField ErrorType = "MISSING_FIELD"

	// ErrorTypeInvalidTimestamp indicates a slot that does not parse as an instant
	ErrorTypeInvalidTimestamp ErrorType = "INVALID_TIMESTAMP"

	// ErrorTypeInternal indicates an internal server error
	ErrorTypeInternal ErrorType = "INTERNAL"

	// ErrorTypeExternal indicates an error from external service
	ErrorTypeExternal ErrorType = "EXTERNAL"

	// ErrorTypeProviderUnavailable indicates the places provider could not serve the request
	ErrorTypeProviderUnavailable ErrorType = "PROVIDER_UNAVAILABLE"

	// ErrorTypeProviderMisconfigured indicates the places provider is not credentialed
	ErrorTypeProviderMisconfigured ErrorType = "PROVIDER_MISCONFIGURED"

	// ErrorTypeProviderTimeout indicates the places provider did not answer in time
	ErrorTypeProviderTimeout ErrorType = "PROVIDER_TIMEOUT"

	// ErrorTypeLocationUnavailable indicates the current position cannot be determined
	ErrorTypeLocationUnavailable ErrorType = "LOCATION_UNAVAILABLE"

	// ErrorTypeNetwork indicates a request/response exchange failed
	ErrorTypeNetwork ErrorType = "NETWORK_FAILURE"
)

// AppError represents an application error
type AppError struct {
	Type    ErrorType
	Message string
	Err     error
	// Fields lists offending request fields for MISSING_FIELD errors.
	Fields []string
}

// Error implements the error interface
func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Type, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Type, e.Message)
}

// Unwrap implements the unwrap interface
func (e *AppError) Unwrap() error {
	return e.Err
}

// As extracts the first *AppError in err's chain.
func As(err error) (*AppError, bool) {
	var appErr *AppError
	if stderrors.As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}

// IsType reports whether err carries an AppError of the given type.
func IsType(err error, t ErrorType) bool {
	appErr, ok := As(err)
	return ok && appErr.Type == t
}

// TypeOf returns the AppError type of err, or ErrorTypeInternal for foreign errors.
func TypeOf(err error) ErrorType {
	if appErr, ok := As(err); ok {
		return appErr.Type
	}
	return ErrorTypeInternal
}

// NewNotFoundError creates a new not found error
func NewNotFoundError(message string) *AppError {
	return &AppError{
		Type:    ErrorTypeNotFound,
		Message: message,
	}
}

// NewValidationError creates a new validation error
func NewValidationError(message string) *AppError {
	return &AppError{
		Type:    ErrorTypeValidation,
		Message: message,
	}
}

// NewMissingFieldError reports the required fields a request left absent or empty.
func NewMissingFieldError(fields ...string) *AppError {
	return &AppError{
		Type:    ErrorTypeMissingField,
		Message: strings.Join(fields, ", ") + " required",
		Fields:  fields,
	}
}

// NewInvalidTimestampError creates an error for a slot that is not a valid instant
func NewInvalidTimestampError(value string, err error) *AppError {
	return &AppError{
		Type:    ErrorTypeInvalidTimestamp,
		Message: fmt.Sprintf("slotISO %q is not a valid timestamp", value),
		Err:     err,
	}
}

// NewInternalError creates a new internal error
func NewInternalError(message string, err error) *AppError {
	return &AppError{
		Type:    ErrorTypeInternal,
		Message: message,
		Err:     err,
	}
}

// NewExternalError creates a new external service error
func NewExternalError(message string, err error) *AppError {
	return &AppError{
		Type:    ErrorTypeExternal,
		Message: message,
		Err:     err,
	}
}

// NewProviderUnavailableError creates an error for an unreachable or failing provider
func NewProviderUnavailableError(message string, err error) *AppError {
	return &AppError{
		Type:    ErrorTypeProviderUnavailable,
		Message: message,
		Err:     err,
	}
}

// NewProviderMisconfiguredError creates an error for a provider without usable credentials
func NewProviderMisconfiguredError(message string) *AppError {
	return &AppError{
		Type:    ErrorTypeProviderMisconfigured,
		Message: message,
	}
}

// NewProviderTimeoutError creates an error for a provider call that exceeded its deadline
func NewProviderTimeoutError(message string, err error) *AppError {
	return &AppError{
		Type:    ErrorTypeProviderTimeout,
		Message: message,
		Err:     err,
	}
}

// NewLocationUnavailableError creates an error for a position that cannot be resolved
func NewLocationUnavailableError(message string, err error) *AppError {
	return &AppError{
		Type:    ErrorTypeLocationUnavailable,
		Message: message,
		Err:     err,
	}
}

// NewNetworkError creates an error for a failed request/response exchange
func NewNetworkError(message string, err error) *AppError {
	return &AppError{
		Type:    ErrorTypeNetwork,
		Message: message,
		Err:     err,
	}
}
