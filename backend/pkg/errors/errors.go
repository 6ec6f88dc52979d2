package errors

import (
	"context"
	stderrors "errors"
	"fmt"
	"time"
)

// ErrorType represents the category of error
type ErrorType string

const (
	// ErrorTypeConfig represents configuration errors. These are never retried.
	ErrorTypeConfig ErrorType = "config"
	// ErrorTypeTransport represents failures surfaced by the HTTP transport
	ErrorTypeTransport ErrorType = "transport"
	// ErrorTypeDecode represents malformed or incomplete response bodies
	ErrorTypeDecode ErrorType = "decode"
	// ErrorTypeTool represents tool lookup and argument errors
	ErrorTypeTool ErrorType = "tool"
)

// BaseError is the base error type with common fields
type BaseError struct {
	Type      ErrorType
	Message   string
	Timestamp time.Time
	Err       error // Wrapped error
}

// Error implements the error interface
func (e *BaseError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Type, e.Message, e.Err)
	}
	return fmt.Sprintf("[%s] %s", e.Type, e.Message)
}

// Unwrap returns the wrapped error for error unwrapping
func (e *BaseError) Unwrap() error {
	return e.Err
}

// NewBaseError creates a new base error
func NewBaseError(errType ErrorType, message string, err error) *BaseError {
	return &BaseError{
		Type:      errType,
		Message:   message,
		Timestamp: time.Now(),
		Err:       err,
	}
}

// Config Errors

// ErrConfigMissingCredential is returned when a plain (non pre-scoped) transport
// is used without an API key. No request is sent.
type ErrConfigMissingCredential struct {
	*BaseError
	Resource string
}

func NewConfigMissingCredential(resource string) *ErrConfigMissingCredential {
	return &ErrConfigMissingCredential{
		BaseError: NewBaseError(ErrorTypeConfig, "the api key must be set when using a non pre-scoped http client", nil),
		Resource:  resource,
	}
}

// ErrConfigValidationFailed is returned when configuration validation fails
type ErrConfigValidationFailed struct {
	*BaseError
	Field  string
	Reason string
}

func NewConfigValidationFailed(field, reason string) *ErrConfigValidationFailed {
	return &ErrConfigValidationFailed{
		BaseError: NewBaseError(ErrorTypeConfig, fmt.Sprintf("config validation failed: %s - %s", field, reason), nil),
		Field:     field,
		Reason:    reason,
	}
}

// ErrConfigMissingRequired is returned when a required config value is missing
type ErrConfigMissingRequired struct {
	*BaseError
	Field string
}

func NewConfigMissingRequired(field string) *ErrConfigMissingRequired {
	return &ErrConfigMissingRequired{
		BaseError: NewBaseError(ErrorTypeConfig, fmt.Sprintf("missing required config: %s", field), nil),
		Field:     field,
	}
}

// Transport Errors

// ErrTransportFailed is returned when the outbound call fails. StatusCode is 0
// when no response was received; the underlying error stays reachable through
// errors.Is / errors.As (context.Canceled, context.DeadlineExceeded, ...).
type ErrTransportFailed struct {
	*BaseError
	Resource   string
	StatusCode int
}

func NewTransportFailed(resource string, err error) *ErrTransportFailed {
	return &ErrTransportFailed{
		BaseError: NewBaseError(ErrorTypeTransport, fmt.Sprintf("request to %s failed", resource), err),
		Resource:  resource,
	}
}

func NewTransportStatus(resource string, statusCode int, body string) *ErrTransportFailed {
	msg := fmt.Sprintf("request to %s returned status %d", resource, statusCode)
	if body != "" {
		msg = fmt.Sprintf("%s: %s", msg, body)
	}
	return &ErrTransportFailed{
		BaseError:  NewBaseError(ErrorTypeTransport, msg, nil),
		Resource:   resource,
		StatusCode: statusCode,
	}
}

// Decode Errors

// ErrDecodeFailed is returned when a response body is not valid JSON or lacks
// a required field. Field is empty for syntax errors.
type ErrDecodeFailed struct {
	*BaseError
	Resource string
	Field    string
}

func NewDecodeFailed(resource string, err error) *ErrDecodeFailed {
	return &ErrDecodeFailed{
		BaseError: NewBaseError(ErrorTypeDecode, fmt.Sprintf("failed to decode %s response", resource), err),
		Resource:  resource,
	}
}

func NewDecodeMissingField(resource, field string) *ErrDecodeFailed {
	return &ErrDecodeFailed{
		BaseError: NewBaseError(ErrorTypeDecode, fmt.Sprintf("%s response is missing field %q", resource, field), nil),
		Resource:  resource,
		Field:     field,
	}
}

// Tool Errors

// ErrToolNotFound is returned when a requested tool is not found
type ErrToolNotFound struct {
	*BaseError
	ToolName string
}

func NewToolNotFound(toolName string) *ErrToolNotFound {
	return &ErrToolNotFound{
		BaseError: NewBaseError(ErrorTypeTool, fmt.Sprintf("tool not found: %s", toolName), nil),
		ToolName:  toolName,
	}
}

// ErrToolInvalidArguments is returned when a tool call carries unusable arguments
type ErrToolInvalidArguments struct {
	*BaseError
	ToolName string
	Reason   string
}

func NewToolInvalidArguments(toolName, reason string) *ErrToolInvalidArguments {
	return &ErrToolInvalidArguments{
		BaseError: NewBaseError(ErrorTypeTool, fmt.Sprintf("invalid arguments for %s: %s", toolName, reason), nil),
		ToolName:  toolName,
		Reason:    reason,
	}
}

// Helper functions

// KindOf returns the ErrorType of the first BaseError in err's chain, or "".
func KindOf(err error) ErrorType {
	var typed interface{ errorType() ErrorType }
	if stderrors.As(err, &typed) {
		return typed.errorType()
	}
	return ""
}

// IsErrorType checks if an error is of a specific type
func IsErrorType(err error, errType ErrorType) bool {
	return err != nil && KindOf(err) == errType
}

// IsRetryable reports whether a host may reasonably retry the call.
// Only transport errors without a 4xx status qualify; cancellation never does.
func IsRetryable(err error) bool {
	if stderrors.Is(err, context.Canceled) {
		return false
	}
	var transportErr *ErrTransportFailed
	if !stderrors.As(err, &transportErr) {
		return false
	}
	if transportErr.StatusCode >= 400 && transportErr.StatusCode < 500 {
		return false
	}
	return true
}

func (e *BaseError) errorType() ErrorType {
	return e.Type
}
