package constants

import "time"

// File and directory permissions.
const (
	// ConfigDirPerm is the permission for configuration directories.
	ConfigDirPerm = 0750

	// ConfigFilePerm is the permission for configuration files.
	ConfigFilePerm = 0600

	// LogFilePerm is the permission for the request log file.
	LogFilePerm = 0640
)

// HTTP and network timeouts.
const (
	// DefaultHTTPTimeout is the default timeout for HTTP requests.
	DefaultHTTPTimeout = 30 * time.Second

	// ShortHTTPTimeout is used for token exchanges.
	ShortHTTPTimeout = 10 * time.Second
)

// Transport settings.
const (
	// DefaultUserAgent is sent when the config does not override it.
	DefaultUserAgent = "stackla-go/1.0"

	// QuerySeparator joins encoded query pairs.
	QuerySeparator = "&"

	// LogBodyLimit caps the request/response body excerpt written to the request log.
	LogBodyLimit = 1024

	// RedactedValue replaces credentials in logged URLs.
	RedactedValue = "[REDACTED]"
)

// Query and envelope keys.
const (
	ParamAPIKey         = "api_key"
	ParamAccessToken    = "access_token"
	ParamStack          = "stack"
	ParamAction         = "action"
	ParamPage           = "page"
	ParamResultsPerPage = "resultsPerPage"

	EnvelopeData   = "data"
	EnvelopeErrors = "errors"

	AttributeID = "id"
)

// Content types.
const (
	ContentTypeJSON = "application/json"
	ContentTypeForm = "application/x-www-form-urlencoded"
)

// OAuth2 endpoints, relative to the API host.
const (
	OAuthAuthorizePath = "oauth2/authorize"
	OAuthTokenPath     = "oauth2/token"
	OEMSessionPath     = "oemsession"

	GrantTypeExchangeToken = "exchange_token"
)

// Widget actions.
const (
	ActionClone  = "clone"
	ActionDerive = "derive"
)

// CLI defaults.
const (
	// ConfigDirName is the directory under $HOME holding the CLI config.
	ConfigDirName = ".stackla"

	// ConfigFileName is the CLI config file name without extension.
	ConfigFileName = "config"

	// RequestLogFileName is the request log written under the temp dir.
	RequestLogFileName = "stackla-request.log"

	// EnvPrefix prefixes environment variables read by the CLI.
	EnvPrefix = "STACKLA"

	// JSONIndentSize is the indent used by YAML output.
	JSONIndentSize = 2

	// StandardPageSize is the default page size of list commands.
	StandardPageSize = 25

	// AssignmentParts is the number of parts of a key=value flag.
	AssignmentParts = 2

	// TableValueWidth truncates long values in table output.
	TableValueWidth = 60
)

// Output formats.
const (
	OutputFormatJSON  = "json"
	OutputFormatYAML  = "yaml"
	OutputFormatTable = "table"
)
