package stackla

import (
	"sync"
)

// AuthMode selects how the token is presented to the API.
type AuthMode int

const (
	// AuthAPIKey sends the token as the "api_key" query parameter.
	AuthAPIKey AuthMode = iota
	// AuthOAuth2 sends the token as the "access_token" query parameter.
	AuthOAuth2
)

// String implements fmt.Stringer.
func (m AuthMode) String() string {
	switch m {
	case AuthAPIKey:
		return "api_key"
	case AuthOAuth2:
		return "oauth2"
	default:
		return "unknown"
	}
}

// QueryParameter returns the query parameter carrying the token.
func (m AuthMode) QueryParameter() string {
	if m == AuthOAuth2 {
		return "access_token"
	}

	return "api_key"
}

// Credentials holds the auth mode and the current token. The mode is fixed at
// construction; the token may be replaced after an OAuth2 exchange.
type Credentials struct {
	mode  AuthMode
	host  string
	mutex sync.RWMutex
	token string
}

// NewAPIKeyCredentials creates credentials authenticating with an API key.
func NewAPIKeyCredentials(host, apiKey string) *Credentials {
	return &Credentials{mode: AuthAPIKey, host: host, token: apiKey}
}

// NewOAuth2Credentials creates credentials authenticating with an OAuth2
// access token. The token may be empty until GenerateToken succeeds.
func NewOAuth2Credentials(host, accessToken string) *Credentials {
	return &Credentials{mode: AuthOAuth2, host: host, token: accessToken}
}

// Mode returns the auth mode.
func (c *Credentials) Mode() AuthMode {
	return c.mode
}

// Host returns the host the credentials were issued for.
func (c *Credentials) Host() string {
	return c.host
}

// Token returns the current token.
func (c *Credentials) Token() string {
	c.mutex.RLock()
	defer c.mutex.RUnlock()

	return c.token
}

// SetToken replaces the token, e.g. after an OAuth2 code exchange.
func (c *Credentials) SetToken(token string) {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	c.token = token
}

// Validate reports ErrMissingToken when no token is set.
func (c *Credentials) Validate() error {
	if c.Token() == "" {
		return ErrMissingToken
	}

	return nil
}
