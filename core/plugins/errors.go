package plugins

import "errors"

var (
	// ErrNotFound reports a lookup for a plugin name that was never loaded.
	ErrNotFound = errors.New("plugin not found")
	// ErrPermissionDenied reports a failed permission check.
	ErrPermissionDenied = errors.New("permission denied")
	// ErrInvalidConfig reports a manifest or configuration that failed
	// validation.
	ErrInvalidConfig = errors.New("invalid configuration")
	// ErrExecutionFailed reports a plugin that could not complete its work.
	ErrExecutionFailed = errors.New("execution failed")
)
