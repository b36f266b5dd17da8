package auth

import (
	"time"

	"golang.org/x/oauth2"
)

// Token is an access token issued by the authorization-code exchange.
type Token struct {
	AccessToken  string    `json:"access_token"            yaml:"access_token"`
	RefreshToken string    `json:"refresh_token,omitempty" yaml:"refresh_token,omitempty"`
	TokenType    string    `json:"token_type,omitempty"    yaml:"token_type,omitempty"`
	ExpiresAt    time.Time `json:"expires_at,omitempty"    yaml:"expires_at,omitempty"`
}

// Valid reports whether the token is set and not expired. A zero expiry
// never expires.
func (t *Token) Valid() bool {
	if t == nil || t.AccessToken == "" {
		return false
	}

	return t.ExpiresAt.IsZero() || time.Now().Before(t.ExpiresAt)
}

func fromOAuth2(token *oauth2.Token) *Token {
	return &Token{
		AccessToken:  token.AccessToken,
		RefreshToken: token.RefreshToken,
		TokenType:    token.TokenType,
		ExpiresAt:    token.Expiry,
	}
}
