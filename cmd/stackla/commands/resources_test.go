package commands

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fivetwenty-io/stackla-go/internal/constants"
	"github.com/fivetwenty-io/stackla-go/pkg/stackla"
)

func TestParseAssignments(t *testing.T) {
	tests := []struct {
		name        string
		assignments []string
		expected    map[string]interface{}
		wantErr     bool
	}{
		{
			name:        "scalars",
			assignments: []string{"tag=summer sale", "type=1", "enabled=true", "score=1.5"},
			expected:    map[string]interface{}{"tag": "summer sale", "type": 1, "enabled": true, "score": 1.5},
		},
		{
			name:        "collections",
			assignments: []string{"networks=[twitter, instagram]", "style={width: 970}"},
			expected: map[string]interface{}{
				"networks": []interface{}{"twitter", "instagram"},
				"style":    map[string]interface{}{"width": 970},
			},
		},
		{
			name:        "empty value and equals in value",
			assignments: []string{"slug=", "custom_url=https://example.com/?a=b"},
			expected:    map[string]interface{}{"slug": "", "custom_url": "https://example.com/?a=b"},
		},
		{
			name:        "missing equals",
			assignments: []string{"tag"},
			wantErr:     true,
		},
		{
			name:        "missing key",
			assignments: []string{"=x"},
			wantErr:     true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			values, err := parseAssignments(tt.assignments)
			if tt.wantErr {
				require.ErrorIs(t, err, constants.ErrInvalidAssignment)

				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.expected, values)
		})
	}
}

func TestBuildStackConfig(t *testing.T) {
	_, err := buildStackConfig(&Config{Stack: "s", APIKey: "k"})
	require.ErrorIs(t, err, constants.ErrNoHostConfigured)

	_, err = buildStackConfig(&Config{Host: "h", APIKey: "k"})
	require.ErrorIs(t, err, constants.ErrNoStackConfigured)

	_, err = buildStackConfig(&Config{Host: "h", Stack: "s"})
	require.ErrorIs(t, err, constants.ErrNoTokenConfigured)

	config, err := buildStackConfig(&Config{Host: "h", Stack: "s", APIKey: "k", AccessToken: "t"})
	require.NoError(t, err)
	assert.Equal(t, stackla.AuthAPIKey, config.Credentials.Mode())
	assert.Equal(t, "k", config.Credentials.Token())

	config, err = buildStackConfig(&Config{Host: "h", Stack: "s", AccessToken: "t"})
	require.NoError(t, err)
	assert.Equal(t, stackla.AuthOAuth2, config.Credentials.Mode())
	assert.Equal(t, constants.DefaultHTTPTimeout, config.HTTPTimeout)
}

func TestKindsCommand(t *testing.T) {
	out, err := runCommand(t, NewKindsCommand())
	require.NoError(t, err)
	assert.Equal(t, "filter\ntag\nterm\ntile\nwidget\n", out)
}

func TestGetCommand(t *testing.T) {
	setupConfig(t)

	var listQuery url.Values

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "secret", r.URL.Query().Get("api_key"))
		assert.Equal(t, "mystack", r.URL.Query().Get("stack"))

		w.Header().Set("Content-Type", "application/json")

		switch r.URL.Path {
		case "/tags/7":
			_, _ = w.Write([]byte(`{"data":{"id":7,"tag":"summer","type":1},"errors":[]}`))
		case "/tags":
			listQuery = r.URL.Query()
			_, _ = w.Write([]byte(`{"data":[{"id":1,"tag":"a"},{"id":2,"tag":"b"}],"errors":[]}`))
		default:
			w.WriteHeader(http.StatusNotFound)
			_, _ = w.Write([]byte(`{"data":[],"errors":[{"message":"not found"}]}`))
		}
	}))
	t.Cleanup(server.Close)

	configureStack(server.URL)

	t.Run("one", func(t *testing.T) {
		out, err := runCommand(t, NewGetCommand(), "tag", "7")
		require.NoError(t, err)

		var item map[string]interface{}
		require.NoError(t, json.Unmarshal([]byte(out), &item))
		assert.InDelta(t, 7, item["id"], 0)
		assert.Equal(t, "summer", item["tag"])
	})

	t.Run("list", func(t *testing.T) {
		out, err := runCommand(t, NewGetCommand(), "tags", "--page", "2", "--filter", "name=competition")
		require.NoError(t, err)

		var items []map[string]interface{}
		require.NoError(t, json.Unmarshal([]byte(out), &items))
		require.Len(t, items, 2)
		assert.Equal(t, "b", items[1]["tag"])

		assert.Equal(t, "2", listQuery.Get("page"))
		assert.Equal(t, "competition", listQuery.Get("name"))
	})

	t.Run("list table", func(t *testing.T) {
		viper.Set(keyOutput, constants.OutputFormatTable)
		t.Cleanup(func() { viper.Set(keyOutput, constants.OutputFormatJSON) })

		out, err := runCommand(t, NewGetCommand(), "tag")
		require.NoError(t, err)
		assert.Contains(t, out, "TAG")
		assert.NotContains(t, out, "SLUG", "columns without values are dropped")

		assert.Equal(t, "1", listQuery.Get("page"))
		assert.Equal(t, "25", listQuery.Get("resultsPerPage"))
		assert.False(t, listQuery.Has("name"))
	})

	t.Run("not found", func(t *testing.T) {
		_, err := runCommand(t, NewGetCommand(), "tag", "404")
		require.Error(t, err)
		assert.True(t, stackla.IsNotFound(err))
	})

	t.Run("unknown kind", func(t *testing.T) {
		_, err := runCommand(t, NewGetCommand(), "gadget", "1")
		require.ErrorIs(t, err, stackla.ErrUnknownKind)
	})
}

func TestGetCommand_MissingConfig(t *testing.T) {
	setupConfig(t)

	_, err := runCommand(t, NewGetCommand(), "tag", "1")
	require.ErrorIs(t, err, constants.ErrNoHostConfigured)
}

func TestCreateCommand(t *testing.T) {
	setupConfig(t)

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/tags", r.URL.Path)

		body, err := io.ReadAll(r.Body)
		assert.NoError(t, err)

		var sent map[string]interface{}
		assert.NoError(t, json.Unmarshal(body, &sent))

		w.Header().Set("Content-Type", "application/json")

		if sent["tag"] == "taken" {
			w.WriteHeader(http.StatusBadRequest)
			_, _ = w.Write([]byte(`{"data":[],"errors":[{"property":"tag","message":"already in use"}]}`))

			return
		}

		_, _ = w.Write([]byte(`{"data":{"id":42,"tag":"summer","type":1},"errors":[]}`))
	}))
	t.Cleanup(server.Close)

	configureStack(server.URL)

	t.Run("success", func(t *testing.T) {
		out, err := runCommand(t, NewCreateCommand(), "tag", "--set", "tag=summer", "--set", "type=1")
		require.NoError(t, err)

		var item map[string]interface{}
		require.NoError(t, json.Unmarshal([]byte(out), &item))
		assert.InDelta(t, 42, item["id"], 0)
	})

	t.Run("server errors are printed", func(t *testing.T) {
		out, err := runCommand(t, NewCreateCommand(), "tag", "--set", "tag=taken", "--set", "type=1")
		require.Error(t, err)
		assert.True(t, stackla.IsBadRequest(err))
		assert.Contains(t, out, "already in use")
	})

	t.Run("read-only attribute", func(t *testing.T) {
		_, err := runCommand(t, NewCreateCommand(), "tag", "--set", "id=5")
		require.ErrorIs(t, err, stackla.ErrAccessorNotFound)
	})
}

func TestUpdateCommand(t *testing.T) {
	setupConfig(t)

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/tags/7", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")

		switch r.Method {
		case http.MethodGet:
			_, _ = w.Write([]byte(`{"data":{"id":7,"tag":"old","type":1},"errors":[]}`))
		case http.MethodPut:
			body, err := io.ReadAll(r.Body)
			assert.NoError(t, err)
			assert.JSONEq(t, `{"tag":"renamed"}`, string(body))

			_, _ = w.Write([]byte(`{"data":{"id":7,"tag":"renamed","type":1},"errors":[]}`))
		default:
			t.Errorf("unexpected method %s", r.Method)
		}
	}))
	t.Cleanup(server.Close)

	configureStack(server.URL)

	out, err := runCommand(t, NewUpdateCommand(), "tag", "7", "--set", "tag=renamed")
	require.NoError(t, err)
	assert.Contains(t, out, "renamed")

	t.Run("placeholder needs force", func(t *testing.T) {
		_, err := runCommand(t, NewUpdateCommand(), "tag", "7", "--no-fetch", "--set", "tag=renamed")
		require.ErrorIs(t, err, stackla.ErrStaleObject)

		_, err = runCommand(t, NewUpdateCommand(), "tag", "7", "--no-fetch", "--force", "--set", "tag=renamed")
		require.NoError(t, err)
	})
}

func TestDeleteCommand(t *testing.T) {
	setupConfig(t)

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodDelete, r.Method)
		w.Header().Set("Content-Type", "application/json")

		if r.URL.Path == "/tags/7" {
			_, _ = w.Write([]byte(`{"data":{"id":7},"errors":[]}`))

			return
		}

		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"data":[],"errors":[{"message":"not found"}]}`))
	}))
	t.Cleanup(server.Close)

	configureStack(server.URL)

	out, err := runCommand(t, NewDeleteCommand(), "tag", "7")
	require.NoError(t, err)
	assert.Equal(t, "Deleted tag 7\n", out)

	_, err = runCommand(t, NewDeleteCommand(), "tag", "8")
	require.Error(t, err)
	assert.True(t, stackla.IsNotFound(err))
}

func TestValidateCommand(t *testing.T) {
	setupConfig(t)
	viper.Set(keyOutput, constants.OutputFormatJSON)

	out, err := runCommand(t, NewValidateCommand(), "tag", "--set", "tag=summer", "--set", "type=1")
	require.NoError(t, err)
	assert.Equal(t, "Valid\n", out)

	out, err = runCommand(t, NewValidateCommand(), "tag", "--set", "type=5")
	require.ErrorIs(t, err, constants.ErrValidationFailed)

	var fieldErrors []stackla.FieldError
	require.NoError(t, json.Unmarshal([]byte(out), &fieldErrors))
	assert.Equal(t, []stackla.FieldError{
		{Property: "tag", Message: "This value should not be blank."},
		{Property: "type", Message: "The value you selected is not a valid choice."},
	}, fieldErrors)

	_, err = runCommand(t, NewValidateCommand(), "gadget")
	require.ErrorIs(t, err, stackla.ErrUnknownKind)
}

func TestRequestLog(t *testing.T) {
	path := filepath.Join(t.TempDir(), "request.log")

	logger, closeLog, err := openRequestLog(path)
	require.NoError(t, err)

	logger.Info("HTTP Request", map[string]interface{}{"method": "GET", "url": "https://api.example.com/api/tags"})
	logger.Error("HTTP Response", map[string]interface{}{"status": 404})
	closeLog()

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	require.Len(t, lines, 2)
	assert.Contains(t, lines[0], `"msg"="HTTP Request"`)
	assert.Contains(t, lines[0], `"method"="GET"`)
	assert.Contains(t, lines[1], `"status"=404`)
}

func TestFormatValue(t *testing.T) {
	assert.Empty(t, formatValue(nil))
	assert.Equal(t, "42", formatValue(int64(42)))
	assert.Equal(t, "a, b", formatValue([]interface{}{"a", "b"}))
	assert.Equal(t, "height=1, width=2", formatValue(map[string]interface{}{"width": int64(2), "height": int64(1)}))

	long := formatValue(strings.Repeat("x", constants.TableValueWidth+10))
	assert.Len(t, long, constants.TableValueWidth)
	assert.True(t, strings.HasSuffix(long, "..."))
}
