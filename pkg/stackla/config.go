package stackla

import (
	"time"
)

// Logger interface for logging.
type Logger interface {
	Debug(msg string, fields map[string]interface{})
	Info(msg string, fields map[string]interface{})
	Warn(msg string, fields map[string]interface{})
	Error(msg string, fields map[string]interface{})
}

// Config represents client configuration for building a Stack.
//
// Host, Stack and Credentials are required. The same Credentials value may be
// shared by several Stacks; it is only read by the transport.
type Config struct {
	// Host: base URL of the API (e.g., "https://api.stackla.com/api").
	// stackclient.New adds "https://" when no scheme is present and trims
	// trailing slashes.
	Host string
	// Stack: tenant identifier sent as the "stack" query parameter.
	Stack string
	// Credentials: API key or OAuth2 access token.
	Credentials *Credentials

	// OAuth2 application settings used by the authorization code flow.
	ClientID     string
	ClientSecret string
	RedirectURL  string

	// Optional configurations
	// HTTPTimeout: per-request timeout of the underlying HTTP client. Zero
	// keeps the default.
	HTTPTimeout time.Duration
	// UserAgent: overrides the default User-Agent header.
	UserAgent string
	// Logger: optional request log. Every call is reported, failures at error
	// level. Logging never fails a request.
	Logger Logger
	// Debug: include response bodies of successful calls in the request log.
	Debug bool
}
