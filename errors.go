package delos

import (
	"errors"
	"fmt"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// ErrorCode represents a category of error for branching and logging.
type ErrorCode string

// Error codes for categorization.
const (
	ErrCodeCanceled             ErrorCode = "canceled"               // Call canceled by the caller
	ErrCodeDeadlineExceeded     ErrorCode = "deadline_exceeded"      // Deadline or configured timeout fired
	ErrCodeNotFound             ErrorCode = "not_found"              // Entity does not exist
	ErrCodeInvalidArgument      ErrorCode = "invalid_argument"       // Server rejected the request
	ErrCodePermissionDenied     ErrorCode = "permission_denied"      // Caller lacks permission
	ErrCodeUnauthenticated      ErrorCode = "unauthenticated"        // Missing or invalid credentials
	ErrCodeUnavailable          ErrorCode = "unavailable"            // Service unreachable
	ErrCodeInternal             ErrorCode = "internal"               // Server-side failure
	ErrCodeConversionFailed     ErrorCode = "conversion_failed"      // Payload conversion failure
	ErrCodeServiceNotRegistered ErrorCode = "service_not_registered" // Wire support missing
	ErrCodeUnknown              ErrorCode = "unknown"                // Anything else
)

// DelosError is the common interface for all SDK errors.
// Use it to handle errors generically while still accessing
// error-specific information.
//
// Example:
//
//	var delosErr DelosError
//	if errors.As(err, &delosErr) {
//	    log.Printf("error code: %s, retryable: %t", delosErr.ErrorCode(), delosErr.IsRetryable())
//	}
type DelosError interface {
	error

	// ErrorCode returns a machine-readable error code for categorization.
	ErrorCode() ErrorCode

	// IsRetryable returns true if the operation can be retried.
	IsRetryable() bool
}

// Sentinel errors.
var (
	// ErrServiceNotRegistered reports that no wire support is registered
	// for a service. RegistrationError unwraps to it.
	ErrServiceNotRegistered = errors.New("delos: service not registered")
)

// Sentinel RPCError values for use with errors.Is().
// These match on status code only.
var (
	ErrNotFound         = &RPCError{Code: codes.NotFound}
	ErrPermissionDenied = &RPCError{Code: codes.PermissionDenied}
	ErrUnauthenticated  = &RPCError{Code: codes.Unauthenticated}
	ErrUnavailable      = &RPCError{Code: codes.Unavailable}
	ErrDeadlineExceeded = &RPCError{Code: codes.DeadlineExceeded}
)

// RPCError represents a failed remote call. It carries the gRPC status
// code plus the service and method that produced it, and supports error
// wrapping via Unwrap() and comparison via Is().
type RPCError struct {
	// Service is the short service name, e.g. "prompt".
	Service string

	// Method is the bare method name, e.g. "GetPrompt".
	Method string

	// Code is the gRPC status code.
	Code codes.Code

	// Message is the status message reported by the server.
	Message string

	// Err is the underlying transport error.
	Err error
}

// Error implements the error interface.
func (e *RPCError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("delos: %s/%s: %s: %s", e.Service, e.Method, e.ErrorCode(), e.Message)
	}
	return fmt.Sprintf("delos: %s/%s: %s", e.Service, e.Method, e.ErrorCode())
}

// Unwrap returns the underlying error for error chain support.
func (e *RPCError) Unwrap() error {
	return e.Err
}

// Is implements error comparison for errors.Is().
// It matches on status code, allowing comparisons like:
//
//	if errors.Is(err, delos.ErrPermissionDenied) { ... }
func (e *RPCError) Is(target error) bool {
	t, ok := target.(*RPCError)
	if !ok {
		return false
	}
	return e.Code == t.Code
}

// ErrorCode returns the error code for the gRPC status code.
// Implements the DelosError interface.
func (e *RPCError) ErrorCode() ErrorCode {
	switch e.Code {
	case codes.Canceled:
		return ErrCodeCanceled
	case codes.DeadlineExceeded:
		return ErrCodeDeadlineExceeded
	case codes.NotFound:
		return ErrCodeNotFound
	case codes.InvalidArgument:
		return ErrCodeInvalidArgument
	case codes.PermissionDenied:
		return ErrCodePermissionDenied
	case codes.Unauthenticated:
		return ErrCodeUnauthenticated
	case codes.Unavailable:
		return ErrCodeUnavailable
	case codes.Internal:
		return ErrCodeInternal
	default:
		return ErrCodeUnknown
	}
}

// IsNotFound returns true if the server reported codes.NotFound.
func (e *RPCError) IsNotFound() bool {
	return e.Code == codes.NotFound
}

// IsTimeout returns true if the call deadline fired.
func (e *RPCError) IsTimeout() bool {
	return e.Code == codes.DeadlineExceeded
}

// IsRetryable returns true if the call can be retried.
// Implements the DelosError interface. The SDK itself never retries.
func (e *RPCError) IsRetryable() bool {
	switch e.Code {
	case codes.Unavailable, codes.DeadlineExceeded, codes.ResourceExhausted:
		return true
	default:
		return false
	}
}

// Ensure RPCError implements DelosError.
var _ DelosError = (*RPCError)(nil)

// wrapRPC converts a transport error into an *RPCError tagged with the
// originating service and method. nil passes through.
func wrapRPC(service, method string, err error) error {
	if err == nil {
		return nil
	}
	st, ok := status.FromError(err)
	if !ok {
		// Not a status error; classify context expiry, else unknown.
		st = status.FromContextError(err)
	}
	return &RPCError{
		Service: service,
		Method:  method,
		Code:    st.Code(),
		Message: st.Message(),
		Err:     err,
	}
}

// ConversionError reports a payload value that cannot cross the wire
// boundary in either direction.
type ConversionError struct {
	// Path locates the offending value inside the payload, e.g.
	// "input.scores[2]".
	Path string

	// Reason describes why the value was rejected.
	Reason string
}

// Error implements the error interface.
func (e *ConversionError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("delos: cannot convert value at %s: %s", e.Path, e.Reason)
	}
	return fmt.Sprintf("delos: cannot convert value: %s", e.Reason)
}

// ErrorCode returns the error code for the conversion error.
// Implements the DelosError interface.
func (e *ConversionError) ErrorCode() ErrorCode {
	return ErrCodeConversionFailed
}

// IsRetryable returns false; the payload must be fixed, not retried.
// Implements the DelosError interface.
func (e *ConversionError) IsRetryable() bool {
	return false
}

// Ensure ConversionError implements DelosError.
var _ DelosError = (*ConversionError)(nil)

// RegistrationError reports that wire support for a service is absent
// from the registry. It unwraps to ErrServiceNotRegistered.
type RegistrationError struct {
	// Service is the full wire service name that was looked up.
	Service string
}

// Error implements the error interface.
func (e *RegistrationError) Error() string {
	return fmt.Sprintf("delos: no wire support registered for service %q", e.Service)
}

// Unwrap returns ErrServiceNotRegistered for error chain support.
func (e *RegistrationError) Unwrap() error {
	return ErrServiceNotRegistered
}

// ErrorCode returns the error code for the registration error.
// Implements the DelosError interface.
func (e *RegistrationError) ErrorCode() ErrorCode {
	return ErrCodeServiceNotRegistered
}

// IsRetryable returns false; a missing service cannot appear by retrying.
// Implements the DelosError interface.
func (e *RegistrationError) IsRetryable() bool {
	return false
}

// Ensure RegistrationError implements DelosError.
var _ DelosError = (*RegistrationError)(nil)

// AsRPCError extracts an RPCError from the error chain.
// Returns the RPCError and true if found, nil and false otherwise.
// This follows Go's errors.As() convention.
//
// Example:
//
//	if rpcErr, ok := delos.AsRPCError(err); ok {
//	    log.Printf("%s/%s failed: %s", rpcErr.Service, rpcErr.Method, rpcErr.Message)
//	}
func AsRPCError(err error) (*RPCError, bool) {
	var rpcErr *RPCError
	if errors.As(err, &rpcErr) {
		return rpcErr, true
	}
	return nil, false
}

// AsConversionError extracts a ConversionError from the error chain.
// Returns the ConversionError and true if found, nil and false otherwise.
func AsConversionError(err error) (*ConversionError, bool) {
	var convErr *ConversionError
	if errors.As(err, &convErr) {
		return convErr, true
	}
	return nil, false
}

// IsRetryable returns true if the error represents a retryable condition.
// This works with any error type in the SDK.
func IsRetryable(err error) bool {
	if err == nil {
		return false
	}
	var delosErr DelosError
	if errors.As(err, &delosErr) {
		return delosErr.IsRetryable()
	}
	return false
}

// IsNotFound returns true if the error carries codes.NotFound.
// Note that Get-style operations report a missing entity as (nil, nil),
// so this mostly matters for mutation calls.
func IsNotFound(err error) bool {
	if rpcErr, ok := AsRPCError(err); ok {
		return rpcErr.IsNotFound()
	}
	return false
}

// IsTimeout returns true if the error reports an expired deadline.
func IsTimeout(err error) bool {
	if rpcErr, ok := AsRPCError(err); ok {
		return rpcErr.IsTimeout()
	}
	return false
}

// ErrorCodeOf returns the error code for an error, or ErrCodeUnknown for
// errors the SDK did not produce. Returns "" for nil.
func ErrorCodeOf(err error) ErrorCode {
	if err == nil {
		return ""
	}
	var delosErr DelosError
	if errors.As(err, &delosErr) {
		return delosErr.ErrorCode()
	}
	if errors.Is(err, ErrServiceNotRegistered) {
		return ErrCodeServiceNotRegistered
	}
	return ErrCodeUnknown
}
