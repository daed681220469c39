package errors

import "errors"

// Domain errors
var (
	// Check errors
	ErrUnknownCheck   = errors.New("unknown check")
	ErrDuplicateCheck = errors.New("check already registered")
	ErrEmptyCheckName = errors.New("check name cannot be empty")

	// Report errors
	ErrEmptyReportsDir = errors.New("reports directory cannot be empty")
	ErrReportWrite     = errors.New("report write failed")

	// Plugin errors
	ErrInvalidPlugin  = errors.New("invalid plugin definition")
	ErrEmptyCommand   = errors.New("plugin command cannot be empty")
	ErrInvalidPattern = errors.New("invalid plugin pattern")

	// Validation errors
	ErrMissingRequired = errors.New("required flag not set")
	ErrNotDirectory    = errors.New("path is not a directory")
)
