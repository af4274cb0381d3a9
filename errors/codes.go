package errors

// ErrorCode represents a machine-readable error code.
type ErrorCode string

// Configuration errors
const (
	// ErrCodeInvalidConfig indicates a configuration value is invalid.
	ErrCodeInvalidConfig ErrorCode = "INVALID_CONFIG"
	// ErrCodeMissingField indicates a required configuration field is missing.
	ErrCodeMissingField ErrorCode = "MISSING_FIELD"
	// ErrCodeInvalidFormat indicates a configuration field has an invalid format.
	ErrCodeInvalidFormat ErrorCode = "INVALID_FORMAT"
)

// Reference errors
const (
	// ErrCodeUnknownReference indicates a named definition was not found.
	ErrCodeUnknownReference ErrorCode = "UNKNOWN_REFERENCE"
	// ErrCodeUnsupportedType indicates a type discriminator has no registered implementation.
	ErrCodeUnsupportedType ErrorCode = "UNSUPPORTED_TYPE"
)

// Internal errors
const (
	// ErrCodeInternal indicates an unexpected internal failure.
	ErrCodeInternal ErrorCode = "INTERNAL_ERROR"
)

// String returns the code as a string.
func (c ErrorCode) String() string {
	return string(c)
}
