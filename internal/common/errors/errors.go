// internal/common/errors/errors.go
package errors

import (
	"errors"
	"fmt"
	"time"
)

type ErrorCode string

const (
	ErrCodeNotFound         ErrorCode = "NOT_FOUND"
	ErrCodeRequestFailed    ErrorCode = "REQUEST_FAILED"
	ErrCodeMalformedPayload ErrorCode = "MALFORMED_PAYLOAD"
	ErrCodeEmptyInput       ErrorCode = "EMPTY_INPUT"
	ErrCodeInternal         ErrorCode = "INTERNAL_ERROR"
)

// ErrEmptyInput is returned when a flow is triggered with blank input.
// It is suppressed silently by every surface.
var ErrEmptyInput = &StandardError{
	Code:    ErrCodeEmptyInput,
	Message: "Input is empty",
}

type StandardError struct {
	Code       ErrorCode              `json:"code"`
	Message    string                 `json:"message"`
	Details    string                 `json:"details,omitempty"`
	StatusCode int                    `json:"statusCode,omitempty"`
	Retryable  bool                   `json:"retryable"`
	Metadata   map[string]interface{} `json:"metadata,omitempty"`
	Timestamp  time.Time              `json:"timestamp"`
	cause      error
}

func (e *StandardError) Error() string {
	if e.Details != "" {
		return fmt.Sprintf("StandardError[%s]: %s: %s", e.Code, e.Message, e.Details)
	}
	return fmt.Sprintf("StandardError[%s]: %s", e.Code, e.Message)
}

func (e *StandardError) Unwrap() error {
	return e.cause
}

// Is matches on code so callers can compare against ErrEmptyInput and friends.
func (e *StandardError) Is(target error) bool {
	var t *StandardError
	if errors.As(target, &t) {
		return t.Code == e.Code
	}
	return false
}

// NewNotFoundError reports that the backend answered 404 for a resource.
func NewNotFoundError(resource, key string) *StandardError {
	return &StandardError{
		Code:       ErrCodeNotFound,
		Message:    fmt.Sprintf("%s not found", resource),
		Details:    key,
		StatusCode: 404,
		Retryable:  false,
		Timestamp:  time.Now().UTC(),
	}
}

// NewStatusError reports a non-2xx answer other than a handled 404.
func NewStatusError(endpoint string, status int) *StandardError {
	return &StandardError{
		Code:       ErrCodeRequestFailed,
		Message:    "Backend request failed",
		Details:    fmt.Sprintf("%s returned %d", endpoint, status),
		StatusCode: status,
		Retryable:  status >= 500,
		Timestamp:  time.Now().UTC(),
	}
}

// NewTransportError wraps a network level failure.
func NewTransportError(endpoint string, err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeRequestFailed,
		Message:   "Backend unreachable",
		Details:   fmt.Sprintf("%s: %v", endpoint, err),
		Retryable: true,
		Timestamp: time.Now().UTC(),
		cause:     err,
	}
}

// NewMalformedPayloadError reports a 2xx body that could not be decoded or failed its schema.
func NewMalformedPayloadError(endpoint string, err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeMalformedPayload,
		Message:   "Malformed backend payload",
		Details:   fmt.Sprintf("%s: %v", endpoint, err),
		Retryable: false,
		Timestamp: time.Now().UTC(),
		cause:     err,
	}
}

// GetErrorCode classifies any error. Unknown errors are INTERNAL_ERROR, nil is "".
func GetErrorCode(err error) ErrorCode {
	if err == nil {
		return ""
	}
	var stdErr *StandardError
	if errors.As(err, &stdErr) {
		return stdErr.Code
	}
	return ErrCodeInternal
}

func IsNotFound(err error) bool {
	return GetErrorCode(err) == ErrCodeNotFound
}

func IsEmptyInput(err error) bool {
	return GetErrorCode(err) == ErrCodeEmptyInput
}

// IsRequestFailed is true for every failure that the user sees as a generic error:
// bad status, transport failure and malformed payloads.
func IsRequestFailed(err error) bool {
	switch GetErrorCode(err) {
	case ErrCodeRequestFailed, ErrCodeMalformedPayload:
		return true
	}
	return false
}
