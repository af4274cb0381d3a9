// Package errors provides the structured configuration error type shared by
// the httptargets packages. Errors carry a machine-readable code, a
// human-readable message, optional details and an underlying cause.
package errors
