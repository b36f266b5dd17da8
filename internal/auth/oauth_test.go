package auth_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fivetwenty-io/stackla-go/internal/auth"
	"github.com/fivetwenty-io/stackla-go/pkg/stackla"
)

type memoryPersister struct {
	host  string
	token *auth.Token
	err   error
}

func (p *memoryPersister) SaveToken(host string, token *auth.Token) error {
	p.host = host
	p.token = token

	return p.err
}

func newConfig(host string) *auth.OAuth2Config {
	return &auth.OAuth2Config{
		Host:         host,
		Stack:        "mystack",
		ClientID:     "client-id",
		ClientSecret: "client-secret",
		RedirectURL:  "https://app.example.com/callback",
	}
}

func TestNewFlow(t *testing.T) {
	t.Parallel()

	_, err := auth.NewFlow(nil, nil)
	require.ErrorIs(t, err, stackla.ErrOAuthClientRequired)

	config := newConfig("https://api.example.com/api")
	config.ClientSecret = ""
	_, err = auth.NewFlow(config, nil)
	require.ErrorIs(t, err, stackla.ErrOAuthClientRequired)

	_, err = auth.NewFlow(newConfig(""), nil)
	require.ErrorIs(t, err, stackla.ErrHostRequired)
}

func TestFlow_AccessURI(t *testing.T) {
	t.Parallel()

	flow, err := auth.NewFlow(newConfig("https://api.example.com/api/"), nil)
	require.NoError(t, err)

	uri, state := flow.AccessURI()
	require.NotEmpty(t, state)

	parsed, err := url.Parse(uri)
	require.NoError(t, err)

	assert.Equal(t, "/api/oauth2/authorize", parsed.Path)
	assert.Equal(t, "client-id", parsed.Query().Get("client_id"))
	assert.Equal(t, "code", parsed.Query().Get("response_type"))
	assert.Equal(t, "https://app.example.com/callback", parsed.Query().Get("redirect_uri"))
	assert.Equal(t, "mystack", parsed.Query().Get("stack"))
	assert.Equal(t, state, parsed.Query().Get("state"))

	_, other := flow.AccessURI()
	assert.NotEqual(t, state, other)
}

//nolint:funlen // Test functions can be longer for comprehensive testing
func TestFlow_Exchange(t *testing.T) {
	t.Parallel()

	t.Run("success updates credentials and persists", func(t *testing.T) {
		t.Parallel()

		server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			assert.Equal(t, "/oauth2/token", request.URL.Path)
			assert.Equal(t, http.MethodPost, request.Method)

			assert.NoError(t, request.ParseForm())
			assert.Equal(t, "authorization_code", request.Form.Get("grant_type"))
			assert.Equal(t, "the-code", request.Form.Get("code"))
			assert.Equal(t, "client-id", request.Form.Get("client_id"))
			assert.Equal(t, "client-secret", request.Form.Get("client_secret"))

			writer.Header().Set("Content-Type", "application/json")
			_ = json.NewEncoder(writer).Encode(map[string]interface{}{
				"access_token": "new-token",
				"token_type":   "bearer",
				"expires_in":   3600,
			})
		}))
		t.Cleanup(server.Close)

		credentials := stackla.NewOAuth2Credentials(server.URL, "")
		persister := &memoryPersister{}

		flow, err := auth.NewFlow(newConfig(server.URL), credentials,
			auth.WithHTTPClient(server.Client()),
			auth.WithPersister(persister),
		)
		require.NoError(t, err)

		token, err := flow.Exchange(context.Background(), "the-code")
		require.NoError(t, err)

		assert.Equal(t, "new-token", token.AccessToken)
		assert.True(t, token.Valid())
		assert.Equal(t, "new-token", credentials.Token())
		assert.Equal(t, server.URL, persister.host)
		assert.Equal(t, "new-token", persister.token.AccessToken)
	})

	t.Run("rejected code", func(t *testing.T) {
		t.Parallel()

		server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			writer.Header().Set("Content-Type", "application/json")
			writer.WriteHeader(http.StatusBadRequest)
			_, _ = writer.Write([]byte(`{"error":"invalid_grant"}`))
		}))
		t.Cleanup(server.Close)

		credentials := stackla.NewOAuth2Credentials(server.URL, "old")

		flow, err := auth.NewFlow(newConfig(server.URL), credentials, auth.WithHTTPClient(server.Client()))
		require.NoError(t, err)

		_, err = flow.Exchange(context.Background(), "bad")
		require.Error(t, err)
		assert.True(t, stackla.IsBadRequest(err))
		assert.Equal(t, "old", credentials.Token())
	})

	t.Run("persister failure is reported", func(t *testing.T) {
		t.Parallel()

		server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			writer.Header().Set("Content-Type", "application/json")
			_, _ = writer.Write([]byte(`{"access_token":"t","token_type":"bearer"}`))
		}))
		t.Cleanup(server.Close)

		persister := &memoryPersister{err: errors.New("disk full")}

		flow, err := auth.NewFlow(newConfig(server.URL), nil, auth.WithPersister(persister))
		require.NoError(t, err)

		token, err := flow.Exchange(context.Background(), "code")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "disk full")
		require.NotNil(t, token)
		assert.Equal(t, "t", token.AccessToken)
	})
}

func TestFlow_ExchangeSession(t *testing.T) {
	t.Parallel()

	t.Run("returns the session id", func(t *testing.T) {
		t.Parallel()

		server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			assert.Equal(t, http.MethodPost, request.Method)
			assert.Equal(t, "/oemsession", request.URL.Path)

			query := request.URL.Query()
			assert.Equal(t, "exchange_token", query.Get("grant_type"))
			assert.Equal(t, "short-token", query.Get("access_token"))
			assert.Equal(t, "mystack", query.Get("stack"))
			assert.Equal(t, "client-id", query.Get("client_id"))

			_, _ = writer.Write([]byte(`{"data":"session-123","errors":[]}`))
		}))
		t.Cleanup(server.Close)

		flow, err := auth.NewFlow(newConfig(server.URL), nil)
		require.NoError(t, err)

		session, err := flow.ExchangeSession(context.Background(), "short-token")
		require.NoError(t, err)
		assert.Equal(t, "session-123", session)
	})

	t.Run("empty data", func(t *testing.T) {
		t.Parallel()

		server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			_, _ = writer.Write([]byte(`{"data":[],"errors":[]}`))
		}))
		t.Cleanup(server.Close)

		flow, err := auth.NewFlow(newConfig(server.URL), nil)
		require.NoError(t, err)

		_, err = flow.ExchangeSession(context.Background(), "short-token")
		require.ErrorIs(t, err, stackla.ErrNoSession)
	})

	t.Run("missing token", func(t *testing.T) {
		t.Parallel()

		flow, err := auth.NewFlow(newConfig("https://api.example.com"), nil)
		require.NoError(t, err)

		_, err = flow.ExchangeSession(context.Background(), "")
		require.ErrorIs(t, err, stackla.ErrMissingToken)
	})
}
