// Package errors provides centralized error definitions and error handling
// utilities for the ClipForge recording core. It defines domain-specific
// errors, semantic error types, error constructors with context wrapping, and
// error classification helpers.
//
// # Error Types
//
// The package provides two categories of errors:
//
// Domain-specific errors represent errors from specific subsystems:
//   - CaptureError: errors from the encoder subprocess (init and stop failures)
//   - CleanupError: errors from temp-file and resource cleanup
//   - PermissionError: a required OS permission was denied
//   - DiskSpaceError: the working directory lacks space for a recording
//   - HardwareError: a capture device is missing or busy
//   - DependencyError: an external binary (the encoder) is not installed
//
// Semantic errors represent common error conditions:
//   - ValidationError: invalid configuration or input
//   - TimeoutError: operation timed out
//
// # Usage
//
// Creating errors:
//
//	// Domain-specific error
//	err := errors.NewCaptureError("stop", "encoder ignored quit command", cause)
//
//	// With context
//	err := errors.NewCaptureError("init", "spawn failed", cause).WithOutputPath(path)
//
// Checking errors:
//
//	// Check for specific sentinel errors
//	if errors.Is(err, errors.ErrAlreadyRecording) { ... }
//
//	// Check for error types
//	var capErr *errors.CaptureError
//	if errors.As(err, &capErr) { ... }
//
//	// Use classification helpers
//	if errors.IsUserFacing(err) { ... }
//	if s := errors.RecoverySuggestion(err); s != "" { ... }
package errors

import (
	"errors"
	"fmt"
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

// Recording lifecycle sentinel errors
var (
	// ErrAlreadyRecording indicates a start was requested while a session is active.
	ErrAlreadyRecording = New("a recording is already in progress")
	// ErrNoActiveRecording indicates an operation that needs a session found none.
	ErrNoActiveRecording = New("no recording is currently active")
	// ErrInvalidTransition indicates the operation is not valid in the current status.
	ErrInvalidTransition = New("operation not valid in current recording status")
	// ErrCodecNotSupported indicates the configured codec is not usable.
	ErrCodecNotSupported = New("codec not supported")
)

// Encoder subprocess sentinel errors
var (
	// ErrEncoderNotStarted indicates an operation that needs a live encoder process.
	ErrEncoderNotStarted = New("encoder process not started")
	// ErrEncoderTerminated indicates the encoder process exited underneath a writer.
	// Writers observe this as a broken pipe and should stop the recording rather
	// than retry the write.
	ErrEncoderTerminated = New("encoder process terminated")
	// ErrFrameSizeMismatch indicates a raw frame buffer had the wrong length.
	ErrFrameSizeMismatch = New("frame buffer length does not match configured dimensions")
)

// General sentinel errors
var (
	// ErrTimeout indicates that an operation timed out.
	ErrTimeout = New("operation timed out")
	// ErrCanceled indicates that an operation was canceled.
	ErrCanceled = New("operation canceled")
	// ErrInvalidInput indicates that input validation failed.
	ErrInvalidInput = New("invalid input")
)

// -----------------------------------------------------------------------------
// Base Error Interface
// -----------------------------------------------------------------------------

// CoreError is the base interface for all ClipForge errors.
// It extends the standard error interface with additional methods for
// error handling and classification.
type CoreError interface {
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

// Suggester is implemented by errors that carry an actionable recovery
// suggestion for the user.
type Suggester interface {
	// Suggestion returns a short instruction the user can follow to recover.
	Suggestion() string
}

// -----------------------------------------------------------------------------
// Base Error Implementation
// -----------------------------------------------------------------------------

// baseError provides common functionality for all error types.
type baseError struct {
	message    string
	cause      error
	severity   Severity
	retryable  bool
	userFacing bool
}

// Error returns the error message.
func (e *baseError) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %v", e.message, e.cause)
	}
	return e.message
}

// Unwrap returns the underlying error.
func (e *baseError) Unwrap() error {
	return e.cause
}

// Is checks if this error matches the target.
func (e *baseError) Is(target error) bool {
	if e.cause != nil {
		return errors.Is(e.cause, target)
	}
	return false
}

// Severity returns the error severity.
func (e *baseError) Severity() Severity {
	return e.severity
}

// IsRetryable returns whether the error is retryable.
func (e *baseError) IsRetryable() bool {
	return e.retryable
}

// IsUserFacing returns whether the error is safe to show users.
func (e *baseError) IsUserFacing() bool {
	return e.userFacing
}

// -----------------------------------------------------------------------------
// Domain-Specific Errors
// -----------------------------------------------------------------------------

// CaptureError represents a failure of the encoder subprocess, either during
// startup ("init") or during the stop escalation ("stop").
//
// Example:
//
//	err := errors.NewCaptureError("stop", "output file is empty", nil)
//	err = err.WithRecordingID("rec_123").WithOutputPath("/tmp/rec_123.mp4")
type CaptureError struct {
	baseError
	Op          string // "init" or "stop"
	RecordingID string
	OutputPath  string
	ExitStatus  string // Captured encoder exit status, when known
}

// NewCaptureError creates a new CaptureError for the given operation.
func NewCaptureError(op, message string, cause error) *CaptureError {
	return &CaptureError{
		baseError: baseError{
			message:    message,
			cause:      cause,
			severity:   SeverityError,
			retryable:  false,
			userFacing: true,
		},
		Op: op,
	}
}

// WithRecordingID adds a recording ID to the error context.
func (e *CaptureError) WithRecordingID(id string) *CaptureError {
	e.RecordingID = id
	return e
}

// WithOutputPath adds the encoder's output path to the error context.
func (e *CaptureError) WithOutputPath(path string) *CaptureError {
	e.OutputPath = path
	return e
}

// WithExitStatus records the encoder's exit status.
func (e *CaptureError) WithExitStatus(status string) *CaptureError {
	e.ExitStatus = status
	return e
}

// Error returns the formatted error message.
func (e *CaptureError) Error() string {
	var parts []string
	if e.RecordingID != "" {
		parts = append(parts, fmt.Sprintf("recording=%s", e.RecordingID))
	}
	if e.ExitStatus != "" {
		parts = append(parts, fmt.Sprintf("exit=%s", e.ExitStatus))
	}

	prefix := fmt.Sprintf("capture %s error", e.Op)
	if len(parts) > 0 {
		prefix = fmt.Sprintf("capture %s error [%s]", e.Op, strings.Join(parts, ", "))
	}

	if e.cause != nil {
		return fmt.Sprintf("%s: %s: %v", prefix, e.message, e.cause)
	}
	return fmt.Sprintf("%s: %s", prefix, e.message)
}

// Is checks if this error matches the target.
func (e *CaptureError) Is(target error) bool {
	if _, ok := target.(*CaptureError); ok {
		return true
	}
	return e.baseError.Is(target)
}

// CleanupError represents a failure to remove one or more tracked resources.
// Per-file failures are aggregated, never fatal to the sweep that found them.
type CleanupError struct {
	baseError
	Paths []string
}

// NewCleanupError creates a new CleanupError. cause is typically a joined
// error aggregating every per-file failure.
func NewCleanupError(message string, cause error) *CleanupError {
	return &CleanupError{
		baseError: baseError{
			message:    message,
			cause:      cause,
			severity:   SeverityWarning,
			retryable:  true,
			userFacing: false,
		},
	}
}

// WithPaths records the paths that could not be removed.
func (e *CleanupError) WithPaths(paths ...string) *CleanupError {
	e.Paths = append(e.Paths, paths...)
	return e
}

// Error returns the formatted error message.
func (e *CleanupError) Error() string {
	prefix := "cleanup error"
	if len(e.Paths) > 0 {
		prefix = fmt.Sprintf("cleanup error [%d files]", len(e.Paths))
	}
	if e.cause != nil {
		return fmt.Sprintf("%s: %s: %v", prefix, e.message, e.cause)
	}
	return fmt.Sprintf("%s: %s", prefix, e.message)
}

// Is checks if this error matches the target.
func (e *CleanupError) Is(target error) bool {
	if _, ok := target.(*CleanupError); ok {
		return true
	}
	return e.baseError.Is(target)
}

// PermissionError indicates a required OS permission (screen recording,
// camera, microphone) was denied.
type PermissionError struct {
	baseError
	Resource string
}

// NewPermissionError creates a new PermissionError for the named resource.
func NewPermissionError(resource string) *PermissionError {
	return &PermissionError{
		baseError: baseError{
			message:    fmt.Sprintf("permission denied for %s", resource),
			severity:   SeverityError,
			retryable:  false,
			userFacing: true,
		},
		Resource: resource,
	}
}

// Suggestion returns the recovery instruction for a denied permission.
func (e *PermissionError) Suggestion() string {
	return fmt.Sprintf("Open your system privacy settings and grant %s access to ClipForge, then restart the app.", e.Resource)
}

// Is checks if this error matches the target.
func (e *PermissionError) Is(target error) bool {
	if _, ok := target.(*PermissionError); ok {
		return true
	}
	return e.baseError.Is(target)
}

// DiskSpaceError indicates the recording destination lacks space.
type DiskSpaceError struct {
	baseError
	AvailableMB uint64
	RequiredMB  uint64
}

// NewDiskSpaceError creates a new DiskSpaceError.
func NewDiskSpaceError(availableMB, requiredMB uint64) *DiskSpaceError {
	return &DiskSpaceError{
		baseError: baseError{
			message:    fmt.Sprintf("insufficient disk space: %d MB available, %d MB required", availableMB, requiredMB),
			severity:   SeverityError,
			retryable:  true,
			userFacing: true,
		},
		AvailableMB: availableMB,
		RequiredMB:  requiredMB,
	}
}

// Suggestion returns the recovery instruction for low disk space.
func (e *DiskSpaceError) Suggestion() string {
	return "Free up disk space or choose a different location for recordings."
}

// Is checks if this error matches the target.
func (e *DiskSpaceError) Is(target error) bool {
	if _, ok := target.(*DiskSpaceError); ok {
		return true
	}
	return e.baseError.Is(target)
}

// HardwareError indicates a capture device is absent, disconnected, or busy.
type HardwareError struct {
	baseError
	Device string
}

// NewHardwareError creates a new HardwareError for the named device.
func NewHardwareError(device string) *HardwareError {
	return &HardwareError{
		baseError: baseError{
			message:    fmt.Sprintf("%s is not available", device),
			severity:   SeverityError,
			retryable:  true,
			userFacing: true,
		},
		Device: device,
	}
}

// Suggestion returns the recovery instruction for unavailable hardware.
func (e *HardwareError) Suggestion() string {
	return "Check that the device is connected and not in use by another application."
}

// Is checks if this error matches the target.
func (e *HardwareError) Is(target error) bool {
	if _, ok := target.(*HardwareError); ok {
		return true
	}
	return e.baseError.Is(target)
}

// DependencyError indicates an external dependency (the encoder binary) is
// not installed or not found on PATH.
type DependencyError struct {
	baseError
	Name         string
	Instructions string
}

// NewDependencyError creates a new DependencyError with install instructions.
func NewDependencyError(name, instructions string) *DependencyError {
	return &DependencyError{
		baseError: baseError{
			message:    fmt.Sprintf("%s is not installed", name),
			severity:   SeverityCritical,
			retryable:  false,
			userFacing: true,
		},
		Name:         name,
		Instructions: instructions,
	}
}

// WithDetail appends detail to the error message, such as the path that
// was checked or the probe that failed.
func (e *DependencyError) WithDetail(detail string) *DependencyError {
	e.message = fmt.Sprintf("%s: %s", e.message, detail)
	return e
}

// Suggestion returns the install instructions.
func (e *DependencyError) Suggestion() string {
	return e.Instructions
}

// Is checks if this error matches the target.
func (e *DependencyError) Is(target error) bool {
	if _, ok := target.(*DependencyError); ok {
		return true
	}
	return e.baseError.Is(target)
}

// -----------------------------------------------------------------------------
// Semantic Errors
// -----------------------------------------------------------------------------

// ValidationError represents invalid configuration or input.
//
// Example:
//
//	err := errors.NewValidationError("frame rate must be between 1 and 120 fps")
//	err = err.WithField("frame_rate").WithValue(0)
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

// Error returns the formatted error message.
func (e *ValidationError) Error() string {
	var parts []string
	if e.Field != "" {
		parts = append(parts, fmt.Sprintf("field=%s", e.Field))
	}
	if e.Value != nil {
		parts = append(parts, fmt.Sprintf("value=%v", e.Value))
	}

	prefix := "validation error"
	if len(parts) > 0 {
		prefix = fmt.Sprintf("validation error [%s]", strings.Join(parts, ", "))
	}

	if e.cause != nil {
		return fmt.Sprintf("%s: %s: %v", prefix, e.message, e.cause)
	}
	return fmt.Sprintf("%s: %s", prefix, e.message)
}

// Is checks if this error matches the target.
func (e *ValidationError) Is(target error) bool {
	if _, ok := target.(*ValidationError); ok {
		return true
	}
	if errors.Is(target, ErrInvalidInput) {
		return true
	}
	return e.baseError.Is(target)
}

// TimeoutError represents an operation that timed out.
//
// Example:
//
//	err := errors.NewTimeoutError("waiting for encoder to exit", 5*time.Second)
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
			retryable:  true, // Timeouts are generally retryable
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
// that may succeed on retry.
func IsRetryable(err error) bool {
	if err == nil {
		return false
	}

	var coreErr CoreError
	if As(err, &coreErr) {
		return coreErr.IsRetryable()
	}

	if Is(err, ErrTimeout) {
		return true
	}

	return false
}

// IsUserFacing returns true if the error message is safe to display to end
// users. Transition sentinels are always user-facing: they are the direct
// answer to a command the user issued.
func IsUserFacing(err error) bool {
	if err == nil {
		return false
	}

	var coreErr CoreError
	if As(err, &coreErr) {
		return coreErr.IsUserFacing()
	}

	if Is(err, ErrAlreadyRecording) || Is(err, ErrNoActiveRecording) || Is(err, ErrInvalidTransition) {
		return true
	}

	return false
}

// GetSeverity returns the severity level of the error.
// Returns SeverityError for errors that don't implement CoreError.
func GetSeverity(err error) Severity {
	if err == nil {
		return SeverityDebug
	}

	var coreErr CoreError
	if As(err, &coreErr) {
		return coreErr.Severity()
	}

	return SeverityError
}

// RecoverySuggestion returns an actionable recovery instruction for the
// error, or "" when none applies.
func RecoverySuggestion(err error) string {
	if err == nil {
		return ""
	}

	var s Suggester
	if As(err, &s) {
		return s.Suggestion()
	}
	return ""
}

// -----------------------------------------------------------------------------
// Convenience Constructors
// -----------------------------------------------------------------------------

// Wrap wraps an error with additional context message.
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
