package service

import "errors"

var (
	ErrParseFailed           = errors.New("failed to parse import file")
	ErrImportInProgress      = errors.New("another import is already running for this account")
	ErrUnsupportedReportType = errors.New("unsupported report type")
	ErrInvalidCredentials    = errors.New("invalid email or password")
	ErrEmailTaken            = errors.New("email is already registered")
	ErrTooManyRows           = errors.New("import file has too many rows")
)

var (
	ErrAsyncUnavailable = errors.New("background imports are not available")
	ErrInactiveUser     = errors.New("user account is inactive")
)

// ErrUnsupportedFormat is returned for unknown export formats.
var ErrUnsupportedFormat = errors.New("unsupported export format")

// ErrMissingRequiredFields marks an import row without product_id or name.
var ErrMissingRequiredFields = errors.New("missing required fields")
