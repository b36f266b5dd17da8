// Package auth implements the OAuth2 authorization-code flow used to obtain
// access tokens and the exchange of an access token for an OEM session.
package auth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/google/uuid"
	"golang.org/x/oauth2"

	"github.com/fivetwenty-io/stackla-go/internal/constants"
	stacklahttp "github.com/fivetwenty-io/stackla-go/internal/http"
	"github.com/fivetwenty-io/stackla-go/pkg/stackla"
)

// OAuth2Config holds the client registration used by the flow.
type OAuth2Config struct {
	Host         string
	Stack        string
	ClientID     string
	ClientSecret string
	RedirectURL  string
}

// TokenPersister stores a freshly exchanged token, e.g. in the CLI config.
type TokenPersister interface {
	SaveToken(host string, token *Token) error
}

// Flow drives the authorization-code exchange for one client registration.
// A successful exchange updates the shared credentials.
type Flow struct {
	config      *OAuth2Config
	oauth       *oauth2.Config
	credentials *stackla.Credentials
	httpClient  *http.Client
	persister   TokenPersister
	transport   []stacklahttp.Option
}

// FlowOption configures a Flow.
type FlowOption func(*Flow)

// WithHTTPClient sets the client used for the token endpoint.
func WithHTTPClient(client *http.Client) FlowOption {
	return func(f *Flow) {
		f.httpClient = client
	}
}

// WithPersister stores every exchanged token through persister.
func WithPersister(persister TokenPersister) FlowOption {
	return func(f *Flow) {
		f.persister = persister
	}
}

// WithTransportOptions configures the transport used for the session exchange.
func WithTransportOptions(opts ...stacklahttp.Option) FlowOption {
	return func(f *Flow) {
		f.transport = append(f.transport, opts...)
	}
}

// NewFlow creates a flow. credentials may be nil when only the access URI is
// needed.
func NewFlow(config *OAuth2Config, credentials *stackla.Credentials, opts ...FlowOption) (*Flow, error) {
	if config == nil || config.ClientID == "" || config.ClientSecret == "" || config.RedirectURL == "" {
		return nil, stackla.ErrOAuthClientRequired
	}

	if config.Host == "" {
		return nil, stackla.ErrHostRequired
	}

	host := strings.TrimRight(config.Host, "/")

	flow := &Flow{
		config: config,
		oauth: &oauth2.Config{
			ClientID:     config.ClientID,
			ClientSecret: config.ClientSecret,
			RedirectURL:  config.RedirectURL,
			Endpoint: oauth2.Endpoint{
				AuthURL:   host + "/" + constants.OAuthAuthorizePath,
				TokenURL:  host + "/" + constants.OAuthTokenPath,
				AuthStyle: oauth2.AuthStyleInParams,
			},
		},
		credentials: credentials,
	}

	for _, opt := range opts {
		opt(flow)
	}

	return flow, nil
}

// AccessURI returns the URL the user must visit to grant access, together
// with the random state that the callback must echo.
func (f *Flow) AccessURI() (string, string) {
	state := uuid.NewString()

	uri := f.oauth.AuthCodeURL(state, oauth2.SetAuthURLParam(constants.ParamStack, f.config.Stack))

	return uri, state
}

// Exchange trades an authorization code for an access token, stores it in
// the credentials and hands it to the persister.
func (f *Flow) Exchange(ctx context.Context, code string) (*Token, error) {
	if f.httpClient != nil {
		ctx = context.WithValue(ctx, oauth2.HTTPClient, f.httpClient)
	}

	oauthToken, err := f.oauth.Exchange(ctx, code, oauth2.SetAuthURLParam(constants.ParamStack, f.config.Stack))
	if err != nil {
		var retrieveErr *oauth2.RetrieveError
		if errors.As(err, &retrieveErr) && retrieveErr.Response != nil {
			return nil, fmt.Errorf("exchanging authorization code: %w",
				stackla.NewAPIError(retrieveErr.Response.StatusCode, http.StatusText(retrieveErr.Response.StatusCode), retrieveErr.Body))
		}

		return nil, fmt.Errorf("exchanging authorization code: %w", err)
	}

	token := fromOAuth2(oauthToken)

	if f.credentials != nil {
		f.credentials.SetToken(token.AccessToken)
	}

	if f.persister != nil {
		err = f.persister.SaveToken(f.config.Host, token)
		if err != nil {
			return token, fmt.Errorf("persisting access token: %w", err)
		}
	}

	return token, nil
}

// ExchangeSession trades an access token for an OEM session id.
func (f *Flow) ExchangeSession(ctx context.Context, accessToken string) (string, error) {
	if accessToken == "" {
		return "", stackla.ErrMissingToken
	}

	transport := stacklahttp.NewClient(f.config.Host, f.config.Stack,
		stackla.NewOAuth2Credentials(f.config.Host, accessToken), f.transport...)

	query := url.Values{}
	query.Set("grant_type", constants.GrantTypeExchangeToken)
	query.Set("client_id", f.config.ClientID)

	resp, err := transport.Post(ctx, constants.OEMSessionPath+"?"+query.Encode(), nil)
	if err != nil {
		return "", fmt.Errorf("exchanging session token: %w", err)
	}

	var envelope struct {
		Data json.RawMessage `json:"data"`
	}

	err = json.Unmarshal(resp.Body, &envelope)
	if err != nil {
		return "", fmt.Errorf("exchanging session token: %w: %w", stackla.ErrDeserialization, err)
	}

	var session string
	if json.Unmarshal(envelope.Data, &session) != nil || session == "" {
		return "", stackla.ErrNoSession
	}

	return session, nil
}
