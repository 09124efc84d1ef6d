// Package types defines shared types and error values for rawcheck
package types

import (
	"errors"
	"fmt"
)

// ErrCanceled indicates the run was interrupted before completion
var ErrCanceled = errors.New("run canceled")

// ConfigError represents an invalid runtime configuration: a missing root
// directory, a decoder binary that does not exist or is not executable, or
// a nonsensical worker count. It is always fatal and is raised before any
// validation work starts.
type ConfigError struct {
	// Reason is a human-readable description of what is misconfigured
	Reason string

	// Cause is the underlying error, if any
	Cause error
}

// Error implements the error interface
func (e *ConfigError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("configuration error: %s: %v", e.Reason, e.Cause)
	}
	return fmt.Sprintf("configuration error: %s", e.Reason)
}

// Unwrap returns the underlying error
func (e *ConfigError) Unwrap() error {
	return e.Cause
}

// NewConfigError creates a new ConfigError with a formatted reason
func NewConfigError(format string, args ...interface{}) *ConfigError {
	return &ConfigError{Reason: fmt.Sprintf(format, args...)}
}

// WrapConfigError creates a ConfigError carrying an underlying cause
func WrapConfigError(cause error, format string, args ...interface{}) *ConfigError {
	return &ConfigError{Reason: fmt.Sprintf(format, args...), Cause: cause}
}

// IsConfigError checks if an error is a configuration error
func IsConfigError(err error) bool {
	var ce *ConfigError
	return errors.As(err, &ce)
}
