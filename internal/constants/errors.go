package constants

import "errors"

// Configuration errors.
var (
	ErrNoHostConfigured  = errors.New("no API host configured, use 'stackla config set host <url>'")
	ErrNoStackConfigured = errors.New("no stack configured, use 'stackla config set stack <name>'")
	ErrNoTokenConfigured = errors.New("no api_key or access_token configured, use 'stackla config set api_key <key>' or 'stackla login'")
	ErrUnknownConfigKey  = errors.New("unknown configuration key")
)

// Validation errors.
var (
	ErrInvalidAssignment  = errors.New("invalid assignment, expected key=value")
	ErrInvalidOutput      = errors.New("invalid output format")
	ErrValidationFailed   = errors.New("validation failed")
	ErrNotAWidget         = errors.New("resource is not a widget")
	ErrDeleteNotConfirmed = errors.New("server did not confirm deletion")
)

// Schema errors.
var (
	ErrEmptyAttributeName = errors.New("attribute name is empty")
	ErrDuplicateAttribute = errors.New("attribute declared twice")
	ErrMissingIDAttribute = errors.New("schema does not declare an id attribute")
)
