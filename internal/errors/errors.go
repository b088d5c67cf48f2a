// Package errors provides centralized error definitions and error handling utilities
// for chemviz. It defines domain-specific errors for the analysis service client,
// semantic error types, error constructors with context wrapping, and error
// classification helpers.
//
// # Error Types
//
// Domain-specific errors represent failures at a network boundary:
//   - APIError: the analysis service answered with a non-success status
//   - UploadError: a CSV upload could not be completed
//   - HistoryError: the upload history could not be refreshed
//   - ReportError: a PDF report could not be fetched or opened
//
// Semantic errors represent common error conditions:
//   - NotFoundError: resource not found
//   - ValidationError: invalid input or state
//   - TimeoutError: operation timed out
//
// # Usage
//
//	err := errors.NewUploadError("upload rejected", apiErr).WithFileName("pumps.csv")
//
//	if errors.Is(err, errors.ErrUnauthorized) { ... }
//
//	var apiErr *errors.APIError
//	if errors.As(err, &apiErr) { ... }
//
//	if errors.IsRetryable(err) { ... }
//	if errors.IsUserFacing(err) { ... }
//
// Only [ValidationError] messages are shown to the user verbatim. Network
// failures are collapsed into fixed banner strings by the workflow package and
// the cause goes to the operator log.
package errors

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"
)

// Re-export standard library functions for convenience.
// This allows callers to import only this package for all error handling.
var (
	Is     = errors.Is
	As     = errors.As
	Unwrap = errors.Unwrap
	New    = errors.New
	Join   = errors.Join
)

// Severity represents the severity level of an error.
type Severity int

const (
	// SeverityDebug is for errors that are useful for debugging but not critical.
	SeverityDebug Severity = iota
	// SeverityInfo is for informational errors that don't indicate a problem.
	SeverityInfo
	// SeverityWarning is for errors that might indicate a problem but aren't critical.
	SeverityWarning
	// SeverityError is for errors that indicate a real problem.
	SeverityError
	// SeverityCritical is for errors that require immediate attention.
	SeverityCritical
)

// String returns the string representation of the severity level.
func (s Severity) String() string {
	switch s {
	case SeverityDebug:
		return "debug"
	case SeverityInfo:
		return "info"
	case SeverityWarning:
		return "warning"
	case SeverityError:
		return "error"
	case SeverityCritical:
		return "critical"
	default:
		return "unknown"
	}
}

// -----------------------------------------------------------------------------
// Sentinel Errors
// -----------------------------------------------------------------------------

// Workflow sentinel errors
var (
	// ErrNoFileSelected indicates an upload was requested before a file was chosen.
	ErrNoFileSelected = New("no file selected")
	// ErrStaleResponse indicates a response arrived for a superseded request.
	ErrStaleResponse = New("response superseded by a newer request")
)

// Service sentinel errors
var (
	// ErrUnauthorized indicates the service rejected the credentials (401/403).
	ErrUnauthorized = New("unauthorized")
	// ErrUnexpectedStatus indicates any other non-success HTTP status.
	ErrUnexpectedStatus = New("unexpected status")
	// ErrInvalidPayload indicates a response body that could not be decoded
	// into the expected shape.
	ErrInvalidPayload = New("invalid payload")
	// ErrReportUnavailable indicates the report resource could not be retrieved.
	ErrReportUnavailable = New("report unavailable")
)

// General sentinel errors
var (
	// ErrTimeout indicates that an operation timed out.
	ErrTimeout = New("operation timed out")
	// ErrCanceled indicates that an operation was canceled.
	ErrCanceled = New("operation canceled")
	// ErrNotFound indicates a missing resource.
	ErrNotFound = New("not found")
)

// -----------------------------------------------------------------------------
// Base Error Interface
// -----------------------------------------------------------------------------

// ChemvizError is the base interface for all chemviz errors.
type ChemvizError interface {
	error

	// Unwrap returns the underlying error, if any.
	Unwrap() error

	// Is reports whether this error matches the target error.
	Is(target error) bool

	// Severity returns the severity level of this error.
	Severity() Severity

	// IsRetryable returns true if the error is transient and the operation
	// may succeed on retry.
	IsRetryable() bool

	// IsUserFacing returns true if the error message is safe to display
	// to end users.
	IsUserFacing() bool
}

// -----------------------------------------------------------------------------
// Base Error Implementation
// -----------------------------------------------------------------------------

type baseError struct {
	message    string
	cause      error
	severity   Severity
	retryable  bool
	userFacing bool
}

func (e *baseError) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %v", e.message, e.cause)
	}
	return e.message
}

func (e *baseError) Unwrap() error {
	return e.cause
}

func (e *baseError) Is(target error) bool {
	if e.cause != nil {
		return errors.Is(e.cause, target)
	}
	return false
}

func (e *baseError) Severity() Severity {
	return e.severity
}

func (e *baseError) IsRetryable() bool {
	return e.retryable
}

func (e *baseError) IsUserFacing() bool {
	return e.userFacing
}

// formatPrefixed renders "<kind> [k=v, ...]: message: cause".
func formatPrefixed(kind string, parts []string, message string, cause error) string {
	prefix := kind
	if len(parts) > 0 {
		prefix = fmt.Sprintf("%s [%s]", kind, strings.Join(parts, ", "))
	}
	if cause != nil {
		return fmt.Sprintf("%s: %s: %v", prefix, message, cause)
	}
	return fmt.Sprintf("%s: %s", prefix, message)
}

// -----------------------------------------------------------------------------
// Domain-Specific Errors
// -----------------------------------------------------------------------------

// APIError represents a non-success HTTP status returned by the analysis
// service. The response body is never parsed.
//
// Example:
//
//	err := errors.NewAPIError(http.MethodPost, "/api/upload-csv/", 401)
//	fmt.Println(err) // "api error [POST /api/upload-csv/, status=401]: unauthorized"
type APIError struct {
	baseError
	Method     string
	Endpoint   string
	StatusCode int
}

// NewAPIError creates an APIError for the given request and status. 5xx and
// 429 responses are marked retryable; 401 and 403 wrap ErrUnauthorized and
// everything else wraps ErrUnexpectedStatus.
func NewAPIError(method, endpoint string, status int) *APIError {
	cause := ErrUnexpectedStatus
	if status == http.StatusUnauthorized || status == http.StatusForbidden {
		cause = ErrUnauthorized
	}
	return &APIError{
		baseError: baseError{
			message:    http.StatusText(status),
			cause:      cause,
			severity:   SeverityError,
			retryable:  status >= 500 || status == http.StatusTooManyRequests,
			userFacing: false,
		},
		Method:     method,
		Endpoint:   endpoint,
		StatusCode: status,
	}
}

// Error returns the formatted error message.
func (e *APIError) Error() string {
	parts := []string{fmt.Sprintf("%s %s", e.Method, e.Endpoint), fmt.Sprintf("status=%d", e.StatusCode)}
	return formatPrefixed("api error", parts, e.cause.Error(), nil)
}

// Is checks if this error matches the target.
func (e *APIError) Is(target error) bool {
	if _, ok := target.(*APIError); ok {
		return true
	}
	return e.baseError.Is(target)
}

// UploadError represents a failed CSV upload.
//
// Example:
//
//	err := errors.NewUploadError("request failed", cause).WithFileName("plant.csv")
type UploadError struct {
	baseError
	FileName  string
	RequestID string
}

// NewUploadError creates a new UploadError.
func NewUploadError(message string, cause error) *UploadError {
	return &UploadError{
		baseError: baseError{
			message:    message,
			cause:      cause,
			severity:   SeverityError,
			retryable:  IsRetryable(cause),
			userFacing: false,
		},
	}
}

// WithFileName adds the uploaded file name to the error context.
func (e *UploadError) WithFileName(name string) *UploadError {
	e.FileName = name
	return e
}

// WithRequestID adds the upload request identity to the error context.
func (e *UploadError) WithRequestID(id string) *UploadError {
	e.RequestID = id
	return e
}

// Error returns the formatted error message.
func (e *UploadError) Error() string {
	var parts []string
	if e.FileName != "" {
		parts = append(parts, fmt.Sprintf("file=%s", e.FileName))
	}
	if e.RequestID != "" {
		parts = append(parts, fmt.Sprintf("request=%s", e.RequestID))
	}
	return formatPrefixed("upload error", parts, e.message, e.cause)
}

// Is checks if this error matches the target.
func (e *UploadError) Is(target error) bool {
	if _, ok := target.(*UploadError); ok {
		return true
	}
	return e.baseError.Is(target)
}

// HistoryError represents a failed history refresh. These are never shown
// to the user.
type HistoryError struct {
	baseError
	Sequence uint64
}

// NewHistoryError creates a new HistoryError.
func NewHistoryError(message string, cause error) *HistoryError {
	return &HistoryError{
		baseError: baseError{
			message:    message,
			cause:      cause,
			severity:   SeverityWarning,
			retryable:  IsRetryable(cause),
			userFacing: false,
		},
	}
}

// WithSequence records which fetch in the refresh sequence failed.
func (e *HistoryError) WithSequence(seq uint64) *HistoryError {
	e.Sequence = seq
	return e
}

// Error returns the formatted error message.
func (e *HistoryError) Error() string {
	var parts []string
	if e.Sequence > 0 {
		parts = append(parts, fmt.Sprintf("seq=%d", e.Sequence))
	}
	return formatPrefixed("history error", parts, e.message, e.cause)
}

// Is checks if this error matches the target.
func (e *HistoryError) Is(target error) bool {
	if _, ok := target.(*HistoryError); ok {
		return true
	}
	return e.baseError.Is(target)
}

// ReportError represents a failure to retrieve or open a PDF report.
type ReportError struct {
	baseError
	ReportID string
	URL      string
}

// NewReportError creates a new ReportError.
func NewReportError(message string, cause error) *ReportError {
	return &ReportError{
		baseError: baseError{
			message:    message,
			cause:      cause,
			severity:   SeverityWarning,
			retryable:  IsRetryable(cause),
			userFacing: false,
		},
	}
}

// WithReportID adds the report identifier to the error context.
func (e *ReportError) WithReportID(id string) *ReportError {
	e.ReportID = id
	return e
}

// WithURL adds the report URL to the error context.
func (e *ReportError) WithURL(url string) *ReportError {
	e.URL = url
	return e
}

// Error returns the formatted error message.
func (e *ReportError) Error() string {
	var parts []string
	if e.ReportID != "" {
		parts = append(parts, fmt.Sprintf("report=%s", e.ReportID))
	}
	if e.URL != "" {
		parts = append(parts, fmt.Sprintf("url=%s", e.URL))
	}
	return formatPrefixed("report error", parts, e.message, e.cause)
}

// Is checks if this error matches the target.
func (e *ReportError) Is(target error) bool {
	if _, ok := target.(*ReportError); ok {
		return true
	}
	if errors.Is(target, ErrReportUnavailable) {
		return true
	}
	return e.baseError.Is(target)
}

// -----------------------------------------------------------------------------
// Semantic Errors
// -----------------------------------------------------------------------------

// NotFoundError represents a resource that could not be found.
//
// Example:
//
//	err := errors.NewNotFoundError("file", "plant.csv")
//	fmt.Println(err) // "file 'plant.csv' not found"
type NotFoundError struct {
	baseError
	ResourceType string
	ResourceID   string
}

// NewNotFoundError creates a new NotFoundError.
func NewNotFoundError(resourceType, resourceID string) *NotFoundError {
	return &NotFoundError{
		baseError: baseError{
			message:    fmt.Sprintf("%s '%s' not found", resourceType, resourceID),
			severity:   SeverityWarning,
			retryable:  false,
			userFacing: true,
		},
		ResourceType: resourceType,
		ResourceID:   resourceID,
	}
}

// WithCause adds a cause to the error.
func (e *NotFoundError) WithCause(cause error) *NotFoundError {
	e.cause = cause
	return e
}

// Error returns the formatted error message.
func (e *NotFoundError) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s '%s' not found: %v", e.ResourceType, e.ResourceID, e.cause)
	}
	return fmt.Sprintf("%s '%s' not found", e.ResourceType, e.ResourceID)
}

// Is checks if this error matches the target.
func (e *NotFoundError) Is(target error) bool {
	if _, ok := target.(*NotFoundError); ok {
		return true
	}
	if errors.Is(target, ErrNotFound) {
		return true
	}
	return e.baseError.Is(target)
}

// ValidationError represents invalid input or state.
//
// Example:
//
//	err := errors.NewValidationError("Please select a CSV file first").WithField("file")
type ValidationError struct {
	baseError
	Field string
	Value any
}

// NewValidationError creates a new ValidationError.
func NewValidationError(message string) *ValidationError {
	return &ValidationError{
		baseError: baseError{
			message:    message,
			severity:   SeverityWarning,
			retryable:  false,
			userFacing: true,
		},
	}
}

// WithField adds a field name to the error context.
func (e *ValidationError) WithField(field string) *ValidationError {
	e.Field = field
	return e
}

// WithValue adds the invalid value to the error context.
func (e *ValidationError) WithValue(value any) *ValidationError {
	e.Value = value
	return e
}

// WithCause adds a cause to the error.
func (e *ValidationError) WithCause(cause error) *ValidationError {
	e.cause = cause
	return e
}

// Message returns the bare message without field context, suitable for a
// user-facing banner.
func (e *ValidationError) Message() string {
	return e.message
}

// Error returns the formatted error message.
func (e *ValidationError) Error() string {
	var parts []string
	if e.Field != "" {
		parts = append(parts, fmt.Sprintf("field=%s", e.Field))
	}
	if e.Value != nil {
		parts = append(parts, fmt.Sprintf("value=%v", e.Value))
	}
	return formatPrefixed("validation error", parts, e.message, e.cause)
}

// Is checks if this error matches the target.
func (e *ValidationError) Is(target error) bool {
	if _, ok := target.(*ValidationError); ok {
		return true
	}
	return e.baseError.Is(target)
}

// TimeoutError represents an operation that timed out.
//
// Example:
//
//	err := errors.NewTimeoutError("GET /api/history/", 30*time.Second)
//	fmt.Println(err) // "timeout error: GET /api/history/ (timeout: 30s)"
type TimeoutError struct {
	baseError
	Operation string
	Duration  time.Duration
}

// NewTimeoutError creates a new TimeoutError.
func NewTimeoutError(operation string, duration time.Duration) *TimeoutError {
	return &TimeoutError{
		baseError: baseError{
			message:    operation,
			severity:   SeverityWarning,
			retryable:  true,
			userFacing: true,
		},
		Operation: operation,
		Duration:  duration,
	}
}

// WithCause adds a cause to the error.
func (e *TimeoutError) WithCause(cause error) *TimeoutError {
	e.cause = cause
	return e
}

// Error returns the formatted error message.
func (e *TimeoutError) Error() string {
	base := fmt.Sprintf("timeout error: %s (timeout: %s)", e.Operation, e.Duration)
	if e.cause != nil {
		return fmt.Sprintf("%s: %v", base, e.cause)
	}
	return base
}

// Is checks if this error matches the target.
func (e *TimeoutError) Is(target error) bool {
	if _, ok := target.(*TimeoutError); ok {
		return true
	}
	if errors.Is(target, ErrTimeout) {
		return true
	}
	return e.baseError.Is(target)
}

// -----------------------------------------------------------------------------
// Error Classification Helpers
// -----------------------------------------------------------------------------

// IsRetryable returns true if the error represents a transient condition
// that may succeed on retry. This checks for:
//   - Errors implementing ChemvizError with IsRetryable() returning true
//   - Errors wrapping ErrTimeout
//
// Nothing in chemviz retries automatically; the flag only informs the log.
func IsRetryable(err error) bool {
	if err == nil {
		return false
	}

	var chemvizErr ChemvizError
	if As(err, &chemvizErr) {
		return chemvizErr.IsRetryable()
	}

	return Is(err, ErrTimeout)
}

// IsUserFacing returns true if the error message is safe to display to end users.
func IsUserFacing(err error) bool {
	if err == nil {
		return false
	}

	var chemvizErr ChemvizError
	if As(err, &chemvizErr) {
		return chemvizErr.IsUserFacing()
	}

	return false
}

// GetSeverity returns the severity level of the error.
// Returns SeverityError for errors that don't implement ChemvizError.
func GetSeverity(err error) Severity {
	if err == nil {
		return SeverityDebug
	}

	var chemvizErr ChemvizError
	if As(err, &chemvizErr) {
		return chemvizErr.Severity()
	}

	return SeverityError
}

// StatusCode extracts the HTTP status from an error chain, or 0 when the
// failure happened before a response was received.
func StatusCode(err error) int {
	var apiErr *APIError
	if As(err, &apiErr) {
		return apiErr.StatusCode
	}
	return 0
}

// -----------------------------------------------------------------------------
// Convenience Constructors
// -----------------------------------------------------------------------------

// Wrap wraps an error with additional context message.
//
// Example:
//
//	err := errors.Wrap(baseErr, "failed to open CSV")
func Wrap(err error, message string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", message, err)
}

// Wrapf wraps an error with a formatted context message.
func Wrapf(err error, format string, args ...any) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", fmt.Sprintf(format, args...), err)
}
