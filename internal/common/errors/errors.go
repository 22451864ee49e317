// Package errors provides standardized error handling for BPMN workflow integration.
package errors

import (
	stderrors "errors"
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
	ErrCodeValidationFailed ErrorCode = "VALIDATION_FAILED"
	ErrCodeInvalidFramework ErrorCode = "INVALID_FRAMEWORK"

	ErrCodeBackendRateLimited     ErrorCode = "BACKEND_RATE_LIMITED"
	ErrCodeBackendErrorResponse   ErrorCode = "BACKEND_ERROR_RESPONSE"
	ErrCodeBackendTimeout         ErrorCode = "BACKEND_TIMEOUT"
	ErrCodeBackendUnavailable     ErrorCode = "BACKEND_UNAVAILABLE"
	ErrCodeBackendInvalidResponse ErrorCode = "BACKEND_INVALID_RESPONSE"

	ErrCodeAnalysisRequired ErrorCode = "ANALYSIS_REQUIRED"
	ErrCodeWhatIfLocked     ErrorCode = "WHATIF_LOCKED"
	ErrCodeUnknownModule    ErrorCode = "UNKNOWN_MODULE"

	ErrCodeReportStoreUnavailable ErrorCode = "REPORT_STORE_UNAVAILABLE"
	ErrCodeSnapshotArchiveFailed  ErrorCode = "SNAPSHOT_ARCHIVE_FAILED"
	ErrCodeSnapshotIndexFailed    ErrorCode = "SNAPSHOT_INDEX_FAILED"

	ErrCodeNotificationSendFailed ErrorCode = "NOTIFICATION_SEND_FAILED"

	ErrCodeInternal ErrorCode = "INTERNAL_ERROR"
)

// RateLimitMessage is shown to users when the backend answers 429.
const RateLimitMessage = "API rate limit exceeded. Please wait a moment and try again, or upgrade your plan for higher limits."

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

// WithMetadata attaches a key to the error and returns it.
func (e *StandardError) WithMetadata(key string, value interface{}) *StandardError {
	if e.Metadata == nil {
		e.Metadata = map[string]interface{}{}
	}
	e.Metadata[key] = value
	return e
}

// ==========================
// 2. BPMN Error Integration
// ==========================

// BPMNError represents an error that can be thrown to the Camunda workflow engine.
type BPMNError struct {
	Code           string                 `json:"code"`
	Message        string                 `json:"message"`
	Details        string                 `json:"details,omitempty"`
	Retryable      bool                   `json:"retryable"`
	Retries        int                    `json:"retries"`
	ErrorVariables map[string]interface{} `json:"errorVariables,omitempty"`
}

func (e *BPMNError) Error() string {
	return fmt.Sprintf("BPMNError[%s]: %s", e.Code, e.Message)
}

// ToErrorVariables returns a map suitable for setting Camunda job fail variables.
func (e *BPMNError) ToErrorVariables() map[string]interface{} {
	vars := map[string]interface{}{
		"errorCode":    e.Code,
		"errorMessage": e.Message,
		"errorDetails": e.Details,
		"retryable":    e.Retryable,
	}

	for k, v := range e.ErrorVariables {
		vars[k] = v
	}

	return vars
}

// ==========================
// 3. Error Constructors
// ==========================

func newError(code ErrorCode, message, details string, retryable bool) *StandardError {
	return &StandardError{
		Code:      code,
		Message:   message,
		Details:   details,
		Retryable: retryable,
		Timestamp: time.Now().UTC(),
	}
}

// NewValidationError creates a non-retryable input validation error.
func NewValidationError(details string) *StandardError {
	return newError(ErrCodeValidationFailed, "Input validation failed", details, false)
}

// NewInvalidFrameworkError is raised before any network call.
func NewInvalidFrameworkError(framework string) *StandardError {
	return newError(ErrCodeInvalidFramework, fmt.Sprintf("Invalid framework: %s", framework),
		"framework must be one of: general, medtech", false)
}

// NewBackendRateLimitedError carries the dedicated wait-and-retry message.
func NewBackendRateLimitedError(body string) *StandardError {
	return newError(ErrCodeBackendRateLimited, RateLimitMessage, body, false)
}

// NewBackendErrorResponse includes the response body for diagnostics.
func NewBackendErrorResponse(status int, body string) *StandardError {
	msg := fmt.Sprintf("Analysis failed: backend returned %d", status)
	if body != "" {
		msg = fmt.Sprintf("%s: %s", msg, body)
	}
	return newError(ErrCodeBackendErrorResponse, msg, body, false).WithMetadata("status", status)
}

func NewBackendTimeoutError(timeout time.Duration) *StandardError {
	return newError(ErrCodeBackendTimeout,
		fmt.Sprintf("Analysis failed: backend did not respond within %s", timeout),
		"request timed out", false)
}

func NewBackendUnavailableError(err error) *StandardError {
	return newError(ErrCodeBackendUnavailable,
		fmt.Sprintf("Analysis failed: %v", err), err.Error(), false)
}

func NewBackendInvalidResponseError(err error) *StandardError {
	return newError(ErrCodeBackendInvalidResponse,
		"Analysis failed: backend response could not be decoded", err.Error(), false)
}

// NewAnalysisRequiredError signals that What-If was entered without a report.
func NewAnalysisRequiredError(sessionKey string) *StandardError {
	return newError(ErrCodeAnalysisRequired, "No analysis data found; run an analysis first",
		fmt.Sprintf("sessionKey: %s", sessionKey), false)
}

func NewWhatIfLockedError(details string) *StandardError {
	return newError(ErrCodeWhatIfLocked, "What-If session is locked; run a fresh analysis to edit again",
		details, false)
}

func NewUnknownModuleError(module string) *StandardError {
	return newError(ErrCodeUnknownModule, "Unknown analysis module", fmt.Sprintf("module: %s", module), false)
}

func NewReportStoreError(op string, err error) *StandardError {
	return newError(ErrCodeReportStoreUnavailable, "Report store unavailable",
		fmt.Sprintf("op: %s, error: %s", op, err.Error()), true)
}

func NewSnapshotArchiveError(err error) *StandardError {
	return newError(ErrCodeSnapshotArchiveFailed, "Snapshot archive failed", err.Error(), true)
}

func NewSnapshotIndexError(err error) *StandardError {
	return newError(ErrCodeSnapshotIndexFailed, "Snapshot indexing failed", err.Error(), true)
}

// NewNotificationSendFailedError creates a retryable notification send error.
func NewNotificationSendFailedError(channel string, err error) *StandardError {
	return newError(ErrCodeNotificationSendFailed, "Notification delivery failed",
		fmt.Sprintf("channel: %s, error: %s", channel, err.Error()), true)
}

// Generic constructors

func NewExternalServiceError(service string, err error) *StandardError {
	return newError("EXTERNAL_SERVICE_ERROR", fmt.Sprintf("External service '%s' error", service), err.Error(), true)
}

func NewTimeoutError(service string, err error) *StandardError {
	return newError("TIMEOUT_ERROR", fmt.Sprintf("Service '%s' timeout", service), err.Error(), true)
}

func NewResourceNotFoundError(service, details string) *StandardError {
	return newError("RESOURCE_NOT_FOUND", fmt.Sprintf("Resource not found in %s", service), details, false)
}

func NewAuthenticationError(details string) *StandardError {
	return newError("AUTHENTICATION_ERROR", "Authentication failed", details, false)
}

// ==========================
// 4. Error Conversion to BPMN
// ==========================

// GetRetryCount returns the recommended retry count for a code. Backend
// failures are never retried by the worker; the process decides.
func GetRetryCount(code ErrorCode) int {
	switch code {
	case ErrCodeReportStoreUnavailable,
		ErrCodeSnapshotArchiveFailed,
		ErrCodeNotificationSendFailed,
		"EXTERNAL_SERVICE_ERROR":
		return 3

	case ErrCodeSnapshotIndexFailed,
		"TIMEOUT_ERROR":
		return 2

	default:
		return 0
	}
}

// ConvertToBPMNError converts a StandardError to a BPMNError for Camunda.
func ConvertToBPMNError(stdErr *StandardError) *BPMNError {
	retries := GetRetryCount(stdErr.Code)
	if !stdErr.Retryable {
		retries = 0
	}

	vars := map[string]interface{}{
		"originalErrorCode": string(stdErr.Code),
		"timestamp":         stdErr.Timestamp.Format(time.RFC3339),
	}
	for k, v := range stdErr.Metadata {
		vars[k] = v
	}

	return &BPMNError{
		Code:           string(stdErr.Code),
		Message:        stdErr.Message,
		Details:        stdErr.Details,
		Retryable:      stdErr.Retryable,
		Retries:        retries,
		ErrorVariables: vars,
	}
}

// ==========================
// 5. Utility Functions
// ==========================

// AsStandardError unwraps err into a StandardError, if one is in the chain.
func AsStandardError(err error) (*StandardError, bool) {
	var stdErr *StandardError
	if stderrors.As(err, &stdErr) {
		return stdErr, true
	}
	return nil, false
}

// HasCode reports whether err carries the given code.
func HasCode(err error, code ErrorCode) bool {
	stdErr, ok := AsStandardError(err)
	return ok && stdErr.Code == code
}

// IsRetryableErrorCode checks if an error code is retryable.
func IsRetryableErrorCode(code ErrorCode) bool {
	return GetRetryCount(code) > 0
}

// GetErrorCategory returns the category of the error code.
func GetErrorCategory(code ErrorCode) string {
	codeStr := string(code)
	switch {
	case strings.HasPrefix(codeStr, "BACKEND"):
		return "BACKEND"
	case strings.Contains(codeStr, "SNAPSHOT") || strings.Contains(codeStr, "STORE"):
		return "STORAGE"
	case strings.Contains(codeStr, "ANALYSIS") || strings.Contains(codeStr, "WHATIF"):
		return "WORKFLOW"
	case strings.Contains(codeStr, "NOTIFICATION"):
		return "NOTIFICATION"
	case strings.Contains(codeStr, "INVALID") || strings.Contains(codeStr, "VALIDATION") || strings.Contains(codeStr, "UNKNOWN"):
		return "VALIDATION"
	default:
		return "OTHER"
	}
}
