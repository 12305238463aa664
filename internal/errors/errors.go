package errors

import (
	stderrors "errors"
	"fmt"
)

// ErrCode represents an error code
type ErrCode string

const (
	ErrCodeTransientUnavailable   ErrCode = "TRANSIENT_UNAVAILABLE"
	ErrCodeRequestFailed          ErrCode = "REQUEST_FAILED"
	ErrCodeTimeout                ErrCode = "TIMEOUT"
	ErrCodeMissingRequiredContext ErrCode = "MISSING_REQUIRED_CONTEXT"
	ErrCodeNotFound               ErrCode = "NOT_FOUND"
	ErrCodeBadRequest             ErrCode = "BAD_REQUEST"
	ErrCodeInternal               ErrCode = "INTERNAL_ERROR"
)

// AppError represents an application error
type AppError struct {
	Code       ErrCode
	Message    string
	StatusCode int    // upstream HTTP status, 0 when not applicable
	URL        string // upstream location, empty when not applicable
	Err        error
}

func (e *AppError) Error() string {
	msg := fmt.Sprintf("%s: %s", e.Code, e.Message)
	if e.StatusCode != 0 {
		msg = fmt.Sprintf("%s (status %d)", msg, e.StatusCode)
	}
	if e.Err != nil {
		msg = fmt.Sprintf("%s (%v)", msg, e.Err)
	}
	return msg
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// NewTransientUnavailableError reports a 202 "still computing" response
func NewTransientUnavailableError(url string) *AppError {
	return &AppError{
		Code:       ErrCodeTransientUnavailable,
		Message:    "data is still being generated",
		StatusCode: 202,
		URL:        url,
	}
}

// NewRequestFailedError reports a non-success upstream status or a transport failure
func NewRequestFailedError(url string, statusCode int, err error) *AppError {
	return &AppError{
		Code:       ErrCodeRequestFailed,
		Message:    fmt.Sprintf("request to %s failed", url),
		StatusCode: statusCode,
		URL:        url,
		Err:        err,
	}
}

// NewTimeoutError reports an exhausted retry budget
func NewTimeoutError(url string, attempts int) *AppError {
	return &AppError{
		Code:    ErrCodeTimeout,
		Message: fmt.Sprintf("%s still pending after %d retries", url, attempts),
		URL:     url,
	}
}

// NewMissingRequiredContextError reports an absent organization or repository
func NewMissingRequiredContextError(field string) *AppError {
	return &AppError{
		Code:    ErrCodeMissingRequiredContext,
		Message: fmt.Sprintf("%s is required", field),
	}
}

// NewNotFoundError creates a new not found error
func NewNotFoundError(resource string) *AppError {
	return &AppError{
		Code:    ErrCodeNotFound,
		Message: fmt.Sprintf("%s not found", resource),
	}
}

// NewBadRequestError creates a new bad request error
func NewBadRequestError(message string) *AppError {
	return &AppError{
		Code:    ErrCodeBadRequest,
		Message: message,
	}
}

// NewInternalError creates a new internal error
func NewInternalError(message string, err error) *AppError {
	return &AppError{
		Code:    ErrCodeInternal,
		Message: message,
		Err:     err,
	}
}

// CodeOf returns the code of the first AppError in err's chain, or "" if none
func CodeOf(err error) ErrCode {
	var appErr *AppError
	if stderrors.As(err, &appErr) {
		return appErr.Code
	}
	return ""
}

// IsTimeout checks if the error is a retry budget timeout
func IsTimeout(err error) bool {
	return CodeOf(err) == ErrCodeTimeout
}

// IsRequestFailed checks if the error is a failed upstream request
func IsRequestFailed(err error) bool {
	return CodeOf(err) == ErrCodeRequestFailed
}

// IsMissingRequiredContext checks if the error is a missing org/repo error
func IsMissingRequiredContext(err error) bool {
	return CodeOf(err) == ErrCodeMissingRequiredContext
}

// IsNotFound checks if the error is a not found error
func IsNotFound(err error) bool {
	return CodeOf(err) == ErrCodeNotFound
}
