// Package errors provides standardized error handling for the conversational console.
package errors

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// ==========================
// 1. Standard Error Types
// ==========================

// ErrorCode represents standardized internal error codes.
type ErrorCode string

const (
	// User input: recoverable, surfaced verbatim as a retry prompt.
	ErrCodeUserInputInvalid ErrorCode = "USER_INPUT_INVALID"

	// Configuration: no active provider or unusable credential.
	ErrCodeAINotConfigured ErrorCode = "AI_NOT_CONFIGURED"

	// Transport: network failure, timeout or non-2xx from a provider.
	ErrCodeAITransportFailed ErrorCode = "AI_TRANSPORT_FAILED"
	ErrCodeAITimeout         ErrorCode = "AI_TIMEOUT"

	// Integrity: duplicate unique field inside the same parent scope.
	ErrCodeDuplicateRecord ErrorCode = "DUPLICATE_RECORD"

	// Registry misuse: programming-level precondition violations.
	ErrCodeUnknownCommand ErrorCode = "UNKNOWN_COMMAND"
	ErrCodeUnknownStep    ErrorCode = "UNKNOWN_STEP"

	ErrCodeDatabaseConnectionFailed ErrorCode = "DATABASE_CONNECTION_FAILED"
	ErrCodeQueryExecutionFailed     ErrorCode = "QUERY_EXECUTION_FAILED"
	ErrCodeRecordNotFound           ErrorCode = "RECORD_NOT_FOUND"
	ErrCodeSessionStoreFailed       ErrorCode = "SESSION_STORE_FAILED"
	ErrCodeCredentialUnavailable    ErrorCode = "CREDENTIAL_UNAVAILABLE"
)

// StandardError represents a structured application error.
type StandardError struct {
	Code      ErrorCode              `json:"code"`
	Message   string                 `json:"message"`
	Details   string                 `json:"details,omitempty"`
	Retryable bool                   `json:"retryable"`
	Metadata  map[string]interface{} `json:"metadata,omitempty"`
	Timestamp time.Time              `json:"timestamp"`
}

func (e *StandardError) Error() string {
	return fmt.Sprintf("StandardError[%s]: %s", e.Code, e.Message)
}

// IsCode reports whether err is a StandardError carrying the given code.
func IsCode(err error, code ErrorCode) bool {
	var stdErr *StandardError
	if errors.As(err, &stdErr) {
		return stdErr.Code == code
	}
	return false
}

// ==========================
// 2. Error Constructors
// ==========================

// NewUserInputError creates a recoverable validation error. The message is
// shown to the user verbatim as a retry prompt.
func NewUserInputError(message string) *StandardError {
	return &StandardError{
		Code:      ErrCodeUserInputInvalid,
		Message:   message,
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewAINotConfiguredError creates a non-retryable configuration error.
// No network call is attempted when this is returned.
func NewAINotConfiguredError(details string) *StandardError {
	return &StandardError{
		Code:      ErrCodeAINotConfigured,
		Message:   "AI assistant is not configured. Select a provider and add a credential first.",
		Details:   details,
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewAITransportError creates a transport error. Details are for logs only
// and must never be echoed to the end user as the primary message.
func NewAITransportError(provider string, err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeAITransportFailed,
		Message:   "Sorry, I could not reach the AI service. Please try again.",
		Details:   fmt.Sprintf("provider: %s, error: %s", provider, err.Error()),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewAITimeoutError creates a provider timeout error.
func NewAITimeoutError(provider string) *StandardError {
	return &StandardError{
		Code:      ErrCodeAITimeout,
		Message:   "Sorry, the AI service took too long to answer. Please try again.",
		Details:   fmt.Sprintf("provider: %s exceeded call deadline", provider),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewDuplicateRecordError creates an integrity error naming the colliding
// sibling record.
func NewDuplicateRecordError(field, value, collidingName string) *StandardError {
	return &StandardError{
		Code:      ErrCodeDuplicateRecord,
		Message:   fmt.Sprintf("%s %q is already used by %s.", field, value, collidingName),
		Details:   fmt.Sprintf("field: %s, value: %s, collidesWith: %s", field, value, collidingName),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewUnknownCommandError creates a fatal registry precondition violation.
func NewUnknownCommandError(command string) *StandardError {
	return &StandardError{
		Code:      ErrCodeUnknownCommand,
		Message:   "Unknown wizard command",
		Details:   fmt.Sprintf("command: %s", command),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewUnknownStepError creates a fatal registry precondition violation.
func NewUnknownStepError(command, step string) *StandardError {
	return &StandardError{
		Code:      ErrCodeUnknownStep,
		Message:   "Unknown wizard step",
		Details:   fmt.Sprintf("command: %s, step: %s", command, step),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewDatabaseConnectionFailedError creates a retryable database connection error.
func NewDatabaseConnectionFailedError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeDatabaseConnectionFailed,
		Message:   "Database connection error",
		Details:   err.Error(),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewQueryExecutionFailedError creates a retryable query execution error.
func NewQueryExecutionFailedError(operation string, err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeQueryExecutionFailed,
		Message:   "Database query execution error",
		Details:   fmt.Sprintf("operation: %s, error: %s", operation, err.Error()),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewRecordNotFoundError creates a non-retryable lookup error.
func NewRecordNotFoundError(entity string, id int64) *StandardError {
	return &StandardError{
		Code:      ErrCodeRecordNotFound,
		Message:   fmt.Sprintf("%s not found", entity),
		Details:   fmt.Sprintf("entity: %s, id: %d", entity, id),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewSessionStoreFailedError creates a retryable session store error.
func NewSessionStoreFailedError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeSessionStoreFailed,
		Message:   "Session store error",
		Details:   err.Error(),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewCredentialUnavailableError creates a non-retryable credential error.
func NewCredentialUnavailableError(providerCode string) *StandardError {
	return &StandardError{
		Code:      ErrCodeCredentialUnavailable,
		Message:   "Provider credential unavailable",
		Details:   fmt.Sprintf("providerCode: %s", providerCode),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// ==========================
// 3. Utility Functions
// ==========================

// IsUserInputError reports whether err is a recoverable user-input error.
func IsUserInputError(err error) bool {
	return IsCode(err, ErrCodeUserInputInvalid)
}

// GetErrorCategory returns the category of the error code.
func GetErrorCategory(code ErrorCode) string {
	codeStr := string(code)
	switch {
	case strings.Contains(codeStr, "USER_INPUT"):
		return "USER_INPUT"
	case strings.Contains(codeStr, "AI_"):
		return "AI"
	case strings.Contains(codeStr, "DUPLICATE"):
		return "INTEGRITY"
	case strings.Contains(codeStr, "UNKNOWN"):
		return "REGISTRY"
	case strings.Contains(codeStr, "DATABASE") || strings.Contains(codeStr, "QUERY") || strings.Contains(codeStr, "RECORD"):
		return "DATABASE"
	case strings.Contains(codeStr, "SESSION"):
		return "SESSION"
	case strings.Contains(codeStr, "CREDENTIAL"):
		return "CREDENTIAL"
	default:
		return "OTHER"
	}
}
