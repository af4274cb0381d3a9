package httpclient

import (
	"errors"
	"fmt"

	apperrors "github.com/kbukum/httptargets/errors"
)

// ErrorCode classifies HTTP client errors.
type ErrorCode int

const (
	// ErrCodeTimeout indicates a request or connection timeout.
	ErrCodeTimeout ErrorCode = iota
	// ErrCodeConnection indicates a connection failure (refused, DNS, etc).
	ErrCodeConnection
	// ErrCodeAuth indicates an authentication/authorization failure (401/403).
	ErrCodeAuth
	// ErrCodeNotFound indicates the resource was not found (404).
	ErrCodeNotFound
	// ErrCodeRateLimit indicates rate limiting (429).
	ErrCodeRateLimit
	// ErrCodeValidation indicates a client-side validation error (4xx).
	ErrCodeValidation
	// ErrCodeServer indicates a server-side error (5xx).
	ErrCodeServer
	// ErrCodeUnknownTarget indicates a target name with no definition.
	ErrCodeUnknownTarget
	// ErrCodeUnknownAuthenticator indicates an authenticator name with no definition.
	ErrCodeUnknownAuthenticator
	// ErrCodeUnknownTrustStore indicates a trust store name with no definition.
	ErrCodeUnknownTrustStore
	// ErrCodeClientBuild indicates a client could not be constructed.
	ErrCodeClientBuild
	// ErrCodeInvalidConfig indicates a malformed configuration.
	ErrCodeInvalidConfig
	// ErrCodeDecode indicates a response entity could not be decoded.
	ErrCodeDecode
)

// String returns the error code name.
func (c ErrorCode) String() string {
	switch c {
	case ErrCodeTimeout:
		return "timeout"
	case ErrCodeConnection:
		return "connection"
	case ErrCodeAuth:
		return "auth"
	case ErrCodeNotFound:
		return "not_found"
	case ErrCodeRateLimit:
		return "rate_limit"
	case ErrCodeValidation:
		return "validation"
	case ErrCodeServer:
		return "server"
	case ErrCodeUnknownTarget:
		return "unknown_target"
	case ErrCodeUnknownAuthenticator:
		return "unknown_authenticator"
	case ErrCodeUnknownTrustStore:
		return "unknown_trust_store"
	case ErrCodeClientBuild:
		return "client_build"
	case ErrCodeInvalidConfig:
		return "invalid_config"
	case ErrCodeDecode:
		return "decode"
	default:
		return "unknown"
	}
}

// Error is a structured HTTP client error with classification.
type Error struct {
	// StatusCode is the HTTP status code (0 for non-HTTP errors).
	StatusCode int
	// Code classifies the error.
	Code ErrorCode
	// Message describes the error.
	Message string
	// Retryable indicates whether the operation can be retried.
	// This package never retries on its own.
	Retryable bool
	// Body is the original response body (may be nil).
	Body []byte
	// Err is the underlying error.
	Err error
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.StatusCode > 0 {
		return fmt.Sprintf("httpclient: %s (HTTP %d): %s", e.Code, e.StatusCode, e.Message)
	}
	if e.Err != nil && e.Err.Error() != e.Message {
		return fmt.Sprintf("httpclient: %s: %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("httpclient: %s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying error.
func (e *Error) Unwrap() error {
	return e.Err
}

// --- configuration errors ---

// NewUnknownTargetError reports a target name with no definition.
func NewUnknownTargetError(name string) *Error {
	return &Error{
		Code:    ErrCodeUnknownTarget,
		Message: fmt.Sprintf("no target named %q", name),
		Err:     apperrors.UnknownReference("target", name),
	}
}

// NewUnknownAuthenticatorError reports an authenticator name with no definition.
func NewUnknownAuthenticatorError(name string) *Error {
	return &Error{
		Code:    ErrCodeUnknownAuthenticator,
		Message: fmt.Sprintf("no authenticator named %q", name),
		Err:     apperrors.UnknownReference("authenticator", name),
	}
}

// NewUnknownTrustStoreError reports a trust store name with no definition.
func NewUnknownTrustStoreError(name string) *Error {
	return &Error{
		Code:    ErrCodeUnknownTrustStore,
		Message: fmt.Sprintf("no trust store named %q", name),
		Err:     apperrors.UnknownReference("trust store", name),
	}
}

// NewClientBuildError reports a failure to construct a client.
func NewClientBuildError(msg string, err error) *Error {
	return &Error{
		Code:    ErrCodeClientBuild,
		Message: msg,
		Err:     err,
	}
}

// NewInvalidConfigError wraps a configuration validation failure.
func NewInvalidConfigError(err error) *Error {
	return &Error{
		Code:    ErrCodeInvalidConfig,
		Message: err.Error(),
		Err:     err,
	}
}

// NewDecodeError reports a response entity that could not be decoded.
func NewDecodeError(err error) *Error {
	return &Error{
		Code:    ErrCodeDecode,
		Message: "decode response",
		Err:     err,
	}
}

// --- request errors ---

// NewTimeoutError creates a timeout error.
func NewTimeoutError(err error) *Error {
	return &Error{
		Code:      ErrCodeTimeout,
		Message:   err.Error(),
		Retryable: true,
		Err:       err,
	}
}

// NewConnectionError creates a connection error.
func NewConnectionError(err error) *Error {
	return &Error{
		Code:      ErrCodeConnection,
		Message:   err.Error(),
		Retryable: true,
		Err:       err,
	}
}

// NewAuthError reports a request that could not be authenticated.
func NewAuthError(err error) *Error {
	return &Error{
		Code:    ErrCodeAuth,
		Message: "authenticate request",
		Err:     err,
	}
}

// NewValidationError creates a client-side validation error.
func NewValidationError(msg string) *Error {
	return &Error{
		Code:    ErrCodeValidation,
		Message: msg,
	}
}

// ClassifyStatusCode converts an error status into a typed error.
// Returns nil below 400, so redirects that were not followed pass through.
func ClassifyStatusCode(statusCode int, body []byte) *Error {
	if statusCode < 400 {
		return nil
	}
	e := &Error{
		StatusCode: statusCode,
		Message:    fmt.Sprintf("HTTP %d", statusCode),
		Body:       body,
	}
	switch {
	case statusCode == 401 || statusCode == 403:
		e.Code = ErrCodeAuth
	case statusCode == 404:
		e.Code = ErrCodeNotFound
	case statusCode == 429:
		e.Code, e.Retryable = ErrCodeRateLimit, true
	case statusCode < 500:
		e.Code = ErrCodeValidation
	default:
		e.Code, e.Retryable = ErrCodeServer, true
	}
	return e
}

// HasCode reports whether err is an *Error with the given code.
func HasCode(err error, code ErrorCode) bool {
	var e *Error
	return errors.As(err, &e) && e.Code == code
}

// IsUnknownTarget checks if an error reports an undefined target.
func IsUnknownTarget(err error) bool { return HasCode(err, ErrCodeUnknownTarget) }

// IsUnknownAuthenticator checks if an error reports an undefined authenticator.
func IsUnknownAuthenticator(err error) bool { return HasCode(err, ErrCodeUnknownAuthenticator) }

// IsUnknownTrustStore checks if an error reports an undefined trust store.
func IsUnknownTrustStore(err error) bool { return HasCode(err, ErrCodeUnknownTrustStore) }

// IsClientBuild checks if an error is a client construction failure.
func IsClientBuild(err error) bool { return HasCode(err, ErrCodeClientBuild) }

// IsInvalidConfig checks if an error is a configuration validation failure.
func IsInvalidConfig(err error) bool { return HasCode(err, ErrCodeInvalidConfig) }

// IsTimeout checks if an error is a timeout error.
func IsTimeout(err error) bool { return HasCode(err, ErrCodeTimeout) }

// IsConnection checks if an error is a connection error.
func IsConnection(err error) bool { return HasCode(err, ErrCodeConnection) }

// IsAuth checks if an error is an authentication error.
func IsAuth(err error) bool { return HasCode(err, ErrCodeAuth) }

// IsNotFound checks if an error is a not-found error.
func IsNotFound(err error) bool { return HasCode(err, ErrCodeNotFound) }

// IsRateLimit checks if an error is a rate-limit error.
func IsRateLimit(err error) bool { return HasCode(err, ErrCodeRateLimit) }

// IsServerError checks if an error is a server error.
func IsServerError(err error) bool { return HasCode(err, ErrCodeServer) }

// IsRetryable checks if an error is retryable.
func IsRetryable(err error) bool {
	var e *Error
	return errors.As(err, &e) && e.Retryable
}
