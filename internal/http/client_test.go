package http_test

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	stacklahttp "github.com/fivetwenty-io/stackla-go/internal/http"
	"github.com/fivetwenty-io/stackla-go/pkg/stackla"
)

// MockLogger for testing.
type MockLogger struct {
	logs []map[string]interface{}
}

func (l *MockLogger) Debug(msg string, fields map[string]interface{}) {
	l.logs = append(l.logs, map[string]interface{}{"level": "debug", "msg": msg, "fields": fields})
}

func (l *MockLogger) Info(msg string, fields map[string]interface{}) {
	l.logs = append(l.logs, map[string]interface{}{"level": "info", "msg": msg, "fields": fields})
}

func (l *MockLogger) Warn(msg string, fields map[string]interface{}) {
	l.logs = append(l.logs, map[string]interface{}{"level": "warn", "msg": msg, "fields": fields})
}

func (l *MockLogger) Error(msg string, fields map[string]interface{}) {
	l.logs = append(l.logs, map[string]interface{}{"level": "error", "msg": msg, "fields": fields})
}

// PanickingLogger fails on every call.
type PanickingLogger struct{}

func (PanickingLogger) Debug(string, map[string]interface{}) { panic("log sink down") }
func (PanickingLogger) Info(string, map[string]interface{})  { panic("log sink down") }
func (PanickingLogger) Warn(string, map[string]interface{})  { panic("log sink down") }
func (PanickingLogger) Error(string, map[string]interface{}) { panic("log sink down") }

type recordingSink struct {
	calls  int
	errors []stackla.FieldError
}

func (s *recordingSink) RecordErrors(errors []stackla.FieldError) {
	s.calls++
	s.errors = errors
}

func TestClient_BuildURI(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name        string
		credentials *stackla.Credentials
		host        string
		endpoint    string
		query       stackla.Params
		expected    string
	}{
		{
			name:        "api key mode",
			credentials: stackla.NewAPIKeyCredentials("https://api.example.com/api", "secret"),
			host:        "https://api.example.com/api/",
			endpoint:    "/tags/",
			expected:    "https://api.example.com/api/tags?api_key=secret&stack=mystack",
		},
		{
			name:        "oauth2 mode",
			credentials: stackla.NewOAuth2Credentials("https://api.example.com/api", "token"),
			host:        "https://api.example.com/api",
			endpoint:    "tags/42",
			expected:    "https://api.example.com/api/tags/42?access_token=token&stack=mystack",
		},
		{
			name:        "endpoint already carries a query",
			credentials: stackla.NewAPIKeyCredentials("https://api.example.com/api", "secret"),
			host:        "https://api.example.com/api",
			endpoint:    "widgets/7?action=clone",
			expected:    "https://api.example.com/api/widgets/7?action=clone&api_key=secret&stack=mystack",
		},
		{
			name:        "query values are merged and encoded",
			credentials: stackla.NewAPIKeyCredentials("https://api.example.com/api", "secret"),
			host:        "https://api.example.com/api",
			endpoint:    "tags",
			query:       stackla.Params{"page": 2, "resultsPerPage": 10, "name": "summer sale"},
			expected:    "https://api.example.com/api/tags?api_key=secret&name=summer+sale&page=2&resultsPerPage=10&stack=mystack",
		},
		{
			name:        "empty values are preserved at every level",
			credentials: stackla.NewAPIKeyCredentials("https://api.example.com/api", "secret"),
			host:        "https://api.example.com/api",
			endpoint:    "tags",
			query: stackla.Params{
				"name":   "",
				"list":   []interface{}{},
				"filter": map[string]interface{}{"a": "", "b": "x", "c": nil},
			},
			expected: "https://api.example.com/api/tags?api_key=secret&filter%5Ba%5D=&filter%5Bb%5D=x&filter%5Bc%5D=&list=&name=&stack=mystack",
		},
	}

	for _, tt := range tests {
		tt := tt

		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			client := stacklahttp.NewClient(tt.host, "mystack", tt.credentials)
			assert.Equal(t, tt.expected, client.BuildURI(tt.endpoint, tt.query))
		})
	}
}

//nolint:funlen // Test functions can be longer for comprehensive testing
func TestClient_StatusMapping(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		status   int
		body     string
		sentinel error
		check    func(error) bool
	}{
		{name: "bad request", status: http.StatusBadRequest, body: `{"errors":[{"property":"tag","message":"required"}]}`, sentinel: stackla.ErrBadRequest, check: stackla.IsBadRequest},
		{name: "unauthorized", status: http.StatusUnauthorized, body: `invalid key`, sentinel: stackla.ErrUnauthorized, check: stackla.IsUnauthorized},
		{name: "rate limited", status: http.StatusForbidden, body: `slow down`, sentinel: stackla.ErrRateLimitExceeded, check: stackla.IsRateLimitExceeded},
		{name: "not found", status: http.StatusNotFound, body: `{"errors":[]}`, sentinel: stackla.ErrNotFound, check: stackla.IsNotFound},
		{name: "server error", status: http.StatusInternalServerError, body: `boom`, sentinel: stackla.ErrServerError, check: stackla.IsServerError},
		{name: "other failure", status: http.StatusBadGateway, body: `bad gateway`, sentinel: stackla.ErrServerError, check: stackla.IsServerError},
	}

	for _, tt := range tests {
		tt := tt

		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
				writer.WriteHeader(tt.status)
				_, _ = writer.Write([]byte(tt.body))
			}))
			t.Cleanup(server.Close)

			client := stacklahttp.NewClient(server.URL, "mystack", stackla.NewAPIKeyCredentials(server.URL, "key"))

			resp, err := client.Get(context.Background(), "tags", nil)
			require.Error(t, err)
			require.NotNil(t, resp)
			assert.Equal(t, tt.status, resp.StatusCode)
			assert.ErrorIs(t, err, tt.sentinel)
			assert.True(t, tt.check(err))

			apiErr := &stackla.APIError{}
			require.True(t, errors.As(err, &apiErr))
			assert.Equal(t, tt.status, apiErr.StatusCode)
			assert.Equal(t, tt.body, apiErr.Body)
		})
	}

	t.Run("success returns the raw body", func(t *testing.T) {
		t.Parallel()

		server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			_, _ = writer.Write([]byte(`{"data":{"id":1},"errors":[]}`))
		}))
		t.Cleanup(server.Close)

		client := stacklahttp.NewClient(server.URL, "mystack", stackla.NewAPIKeyCredentials(server.URL, "key"))

		resp, err := client.Get(context.Background(), "tags/1", nil)
		require.NoError(t, err)
		assert.Equal(t, http.StatusOK, resp.StatusCode)
		assert.Equal(t, "OK", resp.Reason)
		assert.JSONEq(t, `{"data":{"id":1},"errors":[]}`, string(resp.Body))
	})
}

//nolint:funlen // Test functions can be longer for comprehensive testing
func TestClient_Methods(t *testing.T) {
	t.Parallel()

	data := stackla.Params{"tag": "summer", "slug": ""}

	tests := []struct {
		name        string
		method      string
		dataInQuery bool
		fn          func(*stacklahttp.Client, context.Context) (*stacklahttp.Response, error)
	}{
		{
			name:        "GET",
			method:      http.MethodGet,
			dataInQuery: true,
			fn: func(c *stacklahttp.Client, ctx context.Context) (*stacklahttp.Response, error) {
				return c.Get(ctx, "tags", data)
			},
		},
		{
			name:   "POST",
			method: http.MethodPost,
			fn: func(c *stacklahttp.Client, ctx context.Context) (*stacklahttp.Response, error) {
				return c.Post(ctx, "tags", data)
			},
		},
		{
			name:        "PUT",
			method:      http.MethodPut,
			dataInQuery: true,
			fn: func(c *stacklahttp.Client, ctx context.Context) (*stacklahttp.Response, error) {
				return c.Put(ctx, "tags", data)
			},
		},
		{
			name:   "DELETE",
			method: http.MethodDelete,
			fn: func(c *stacklahttp.Client, ctx context.Context) (*stacklahttp.Response, error) {
				return c.Delete(ctx, "tags", data)
			},
		},
	}

	for _, testCase := range tests {
		testCase := testCase

		t.Run(testCase.name, func(t *testing.T) {
			t.Parallel()

			server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
				assert.Equal(t, testCase.method, request.Method)
				assert.Equal(t, "/tags", request.URL.Path)
				assert.Equal(t, "key", request.URL.Query().Get("api_key"))
				assert.Equal(t, "mystack", request.URL.Query().Get("stack"))

				body, err := io.ReadAll(request.Body)
				assert.NoError(t, err)

				if testCase.dataInQuery {
					assert.Equal(t, "summer", request.URL.Query().Get("tag"))
					assert.True(t, request.URL.Query().Has("slug"))
					assert.Empty(t, body)
				} else {
					assert.False(t, request.URL.Query().Has("tag"))
					assert.Equal(t, "application/x-www-form-urlencoded", request.Header.Get("Content-Type"))

					form, err := url.ParseQuery(string(body))
					assert.NoError(t, err)
					assert.Equal(t, "summer", form.Get("tag"))
					assert.True(t, form.Has("slug"))
				}

				writer.WriteHeader(http.StatusOK)
			}))
			t.Cleanup(server.Close)

			client := stacklahttp.NewClient(server.URL, "mystack", stackla.NewAPIKeyCredentials(server.URL, "key"))
			resp, err := testCase.fn(client, context.Background())
			require.NoError(t, err)
			assert.Equal(t, http.StatusOK, resp.StatusCode)
			assert.Equal(t, testCase.method, resp.Method)
		})
	}
}

func TestClient_JSONBody(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		assert.Equal(t, http.MethodPost, request.Method)
		assert.Equal(t, "application/json", request.Header.Get("Content-Type"))
		assert.Equal(t, "custom-value", request.Header.Get("X-Custom-Header"))

		body, _ := io.ReadAll(request.Body)
		assert.JSONEq(t, `{"tag":"summer","type":1}`, string(body))

		writer.WriteHeader(http.StatusOK)
	}))
	t.Cleanup(server.Close)

	client := stacklahttp.NewClient(server.URL, "mystack", stackla.NewAPIKeyCredentials(server.URL, "key"))

	_, err := client.Post(context.Background(), "tags", stackla.Params{"ignored": "yes"},
		stacklahttp.WithJSONBody(map[string]interface{}{"tag": "summer", "type": 1}),
		stacklahttp.WithHeader("X-Custom-Header", "custom-value"),
	)
	require.NoError(t, err)
}

func TestClient_ErrorSink(t *testing.T) {
	t.Parallel()

	t.Run("field errors reach the sink", func(t *testing.T) {
		t.Parallel()

		server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			writer.WriteHeader(http.StatusBadRequest)
			_, _ = writer.Write([]byte(`{"data":[],"errors":[{"property":"tag","message":"This value should not be blank."}]}`))
		}))
		t.Cleanup(server.Close)

		sink := &recordingSink{}
		client := stacklahttp.NewClient(server.URL, "mystack", stackla.NewAPIKeyCredentials(server.URL, "key"))

		_, err := client.Post(context.Background(), "tags", nil, stacklahttp.WithErrorSink(sink))
		require.Error(t, err)
		assert.Equal(t, 1, sink.calls)
		assert.Equal(t, []stackla.FieldError{{Property: "tag", Message: "This value should not be blank."}}, sink.errors)
	})

	t.Run("non JSON bodies leave the sink alone", func(t *testing.T) {
		t.Parallel()

		server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			writer.WriteHeader(http.StatusNotFound)
			_, _ = writer.Write([]byte(`not here`))
		}))
		t.Cleanup(server.Close)

		sink := &recordingSink{}
		client := stacklahttp.NewClient(server.URL, "mystack", stackla.NewAPIKeyCredentials(server.URL, "key"))

		_, err := client.Get(context.Background(), "tags/9", nil, stacklahttp.WithErrorSink(sink))
		require.Error(t, err)
		assert.Equal(t, 0, sink.calls)
	})
}

func TestClient_Logging(t *testing.T) {
	t.Parallel()

	t.Run("request and response are logged with credentials redacted", func(t *testing.T) {
		t.Parallel()

		server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			writer.WriteHeader(http.StatusNotFound)
		}))
		t.Cleanup(server.Close)

		logger := &MockLogger{}
		client := stacklahttp.NewClient(server.URL, "mystack", stackla.NewAPIKeyCredentials(server.URL, "key"), stacklahttp.WithLogger(logger))

		_, err := client.Get(context.Background(), "tags/1", nil)
		require.Error(t, err)

		require.Len(t, logger.logs, 2)
		assert.Equal(t, "HTTP Request", logger.logs[0]["msg"])
		assert.Equal(t, "HTTP Response", logger.logs[1]["msg"])
		assert.Equal(t, "error", logger.logs[1]["level"])

		fields, ok := logger.logs[1]["fields"].(map[string]interface{})
		require.True(t, ok)
		assert.Equal(t, http.StatusNotFound, fields["status"])
		assert.NotContains(t, fields["url"], "api_key=key")
	})

	t.Run("a failing logger never fails the request", func(t *testing.T) {
		t.Parallel()

		server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			writer.WriteHeader(http.StatusOK)
		}))
		t.Cleanup(server.Close)

		client := stacklahttp.NewClient(server.URL, "mystack", stackla.NewAPIKeyCredentials(server.URL, "key"), stacklahttp.WithLogger(PanickingLogger{}))

		resp, err := client.Get(context.Background(), "tags", nil)
		require.NoError(t, err)
		assert.Equal(t, http.StatusOK, resp.StatusCode)
	})
}

func TestClient_Failures(t *testing.T) {
	t.Parallel()

	t.Run("missing token", func(t *testing.T) {
		t.Parallel()

		calls := 0
		server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			calls++
		}))
		t.Cleanup(server.Close)

		client := stacklahttp.NewClient(server.URL, "mystack", stackla.NewOAuth2Credentials(server.URL, ""))

		_, err := client.Get(context.Background(), "tags", nil)
		require.ErrorIs(t, err, stackla.ErrMissingToken)
		assert.Equal(t, 0, calls)
	})

	t.Run("connection failure is not an API error", func(t *testing.T) {
		t.Parallel()

		server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {}))
		serverURL := server.URL
		server.Close()

		client := stacklahttp.NewClient(serverURL, "mystack", stackla.NewAPIKeyCredentials(serverURL, "key"))

		resp, err := client.Get(context.Background(), "tags", nil)
		require.Error(t, err)
		assert.Nil(t, resp)

		apiErr := &stackla.APIError{}
		assert.False(t, errors.As(err, &apiErr))
	})
}
