// Package http implements the transport used by every resource: URI
// construction with credentials and stack, verb dispatch, and mapping of HTTP
// status codes to stackla.APIError kinds.
package http

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	stdhttp "net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/hashicorp/go-retryablehttp"

	"github.com/fivetwenty-io/stackla-go/internal/constants"
	"github.com/fivetwenty-io/stackla-go/pkg/stackla"
)

// ErrorSink receives the field errors of a failed response. Resources pass
// themselves so that server-side validation problems land on the object that
// issued the call.
type ErrorSink interface {
	RecordErrors(errors []stackla.FieldError)
}

// Request describes a single API call.
type Request struct {
	Method   string
	Endpoint string
	// Data is encoded into the query string for GET and PUT and into a form
	// body for POST and DELETE.
	Data    stackla.Params
	Headers map[string]string
	// JSON, when set, is marshalled as the request body and takes precedence
	// over Data.
	JSON interface{}
	// Body, when set, is sent verbatim and takes precedence over JSON and Data.
	Body []byte
	Sink ErrorSink
}

// RequestOption customises a Request built by the verb helpers.
type RequestOption func(*Request)

// WithJSONBody sends value as a JSON body.
func WithJSONBody(value interface{}) RequestOption {
	return func(r *Request) {
		r.JSON = value
	}
}

// WithBody sends a pre-serialised body with the given content type.
func WithBody(contentType string, body []byte) RequestOption {
	return func(r *Request) {
		r.Body = body
		if r.Headers == nil {
			r.Headers = make(map[string]string)
		}

		r.Headers["Content-Type"] = contentType
	}
}

// WithHeader sets a request header.
func WithHeader(key, value string) RequestOption {
	return func(r *Request) {
		if r.Headers == nil {
			r.Headers = make(map[string]string)
		}

		r.Headers[key] = value
	}
}

// WithErrorSink routes field errors of a failed response to sink.
func WithErrorSink(sink ErrorSink) RequestOption {
	return func(r *Request) {
		r.Sink = sink
	}
}

// Response is the result of one call. It is owned by the caller; the client
// keeps no per-call state.
type Response struct {
	Method     string
	URL        string
	StatusCode int
	Reason     string
	Headers    stdhttp.Header
	Body       []byte
}

// Client performs authenticated requests against one stack.
type Client struct {
	host        string
	stack       string
	credentials *stackla.Credentials
	httpClient  *retryablehttp.Client
	logger      stackla.Logger
	debug       bool
	userAgent   string
}

// Option configures a Client.
type Option func(*Client)

// WithLogger sets the request log.
func WithLogger(logger stackla.Logger) Option {
	return func(c *Client) {
		c.logger = logger
	}
}

// WithDebug includes successful response bodies in the request log.
func WithDebug(debug bool) Option {
	return func(c *Client) {
		c.debug = debug
	}
}

// WithUserAgent overrides the User-Agent header.
func WithUserAgent(userAgent string) Option {
	return func(c *Client) {
		c.userAgent = userAgent
	}
}

// WithTimeout sets the per-request timeout.
func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		c.httpClient.HTTPClient.Timeout = timeout
	}
}

// WithHTTPClient replaces the underlying net/http client.
func WithHTTPClient(httpClient *stdhttp.Client) Option {
	return func(c *Client) {
		c.httpClient.HTTPClient = httpClient
	}
}

// NewClient creates a transport for host and stack. Requests are attempted
// once; retrying is left to the host application.
func NewClient(host, stack string, credentials *stackla.Credentials, opts ...Option) *Client {
	retryClient := retryablehttp.NewClient()
	retryClient.RetryMax = 0
	retryClient.Logger = nil
	retryClient.HTTPClient.Timeout = constants.DefaultHTTPTimeout
	retryClient.CheckRetry = func(ctx context.Context, resp *stdhttp.Response, err error) (bool, error) {
		return false, nil
	}
	retryClient.ErrorHandler = retryablehttp.PassthroughErrorHandler

	client := &Client{
		host:        strings.TrimRight(host, "/"),
		stack:       stack,
		credentials: credentials,
		httpClient:  retryClient,
		userAgent:   constants.DefaultUserAgent,
	}

	for _, opt := range opts {
		opt(client)
	}

	return client
}

// Host returns the API host.
func (c *Client) Host() string {
	return c.host
}

// Stack returns the stack identifier.
func (c *Client) Stack() string {
	return c.stack
}

// Credentials returns the shared credentials.
func (c *Client) Credentials() *stackla.Credentials {
	return c.credentials
}

// BuildURI concatenates host, endpoint and the encoded query. The auth
// parameter and the stack are merged in first so that query entries win.
func (c *Client) BuildURI(endpoint string, query stackla.Params) string {
	merged := map[string]interface{}{
		constants.ParamStack: c.stack,
	}

	if c.credentials != nil {
		merged[c.credentials.Mode().QueryParameter()] = c.credentials.Token()
	}

	for key, value := range query {
		merged[key] = value
	}

	separator := "?"
	if strings.Contains(endpoint, "?") {
		separator = "&"
	}

	return fmt.Sprintf("%s/%s%s%s", c.host, strings.Trim(endpoint, "/"), separator, EncodeQuery(PreserveEmpty(merged)))
}

// Get sends a GET request; data is encoded into the query string.
func (c *Client) Get(ctx context.Context, endpoint string, data stackla.Params, opts ...RequestOption) (*Response, error) {
	return c.Do(ctx, newRequest(stdhttp.MethodGet, endpoint, data, opts))
}

// Post sends a POST request; data is sent as a form body.
func (c *Client) Post(ctx context.Context, endpoint string, data stackla.Params, opts ...RequestOption) (*Response, error) {
	return c.Do(ctx, newRequest(stdhttp.MethodPost, endpoint, data, opts))
}

// Put sends a PUT request; data is encoded into the query string.
func (c *Client) Put(ctx context.Context, endpoint string, data stackla.Params, opts ...RequestOption) (*Response, error) {
	return c.Do(ctx, newRequest(stdhttp.MethodPut, endpoint, data, opts))
}

// Delete sends a DELETE request; data is sent as a form body.
func (c *Client) Delete(ctx context.Context, endpoint string, data stackla.Params, opts ...RequestOption) (*Response, error) {
	return c.Do(ctx, newRequest(stdhttp.MethodDelete, endpoint, data, opts))
}

func newRequest(method, endpoint string, data stackla.Params, opts []RequestOption) *Request {
	req := &Request{Method: method, Endpoint: endpoint, Data: data}
	for _, opt := range opts {
		opt(req)
	}

	return req
}

// Do sends req. A status of 400 or above yields a *stackla.APIError together
// with the response.
func (c *Client) Do(ctx context.Context, req *Request) (*Response, error) {
	if c.credentials == nil {
		return nil, stackla.ErrCredentialsRequired
	}

	err := c.credentials.Validate()
	if err != nil {
		return nil, fmt.Errorf("preparing %s %s: %w", req.Method, req.Endpoint, err)
	}

	uri := c.BuildURI(req.Endpoint, nil)
	if req.Method == stdhttp.MethodGet || req.Method == stdhttp.MethodPut {
		uri = c.BuildURI(req.Endpoint, req.Data)
	}

	body, contentType, err := requestBody(req)
	if err != nil {
		return nil, err
	}

	var rawBody interface{}
	if body != nil {
		rawBody = body
	}

	httpReq, err := retryablehttp.NewRequestWithContext(ctx, req.Method, uri, rawBody)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}

	httpReq.Header.Set("Accept", constants.ContentTypeJSON)
	httpReq.Header.Set("User-Agent", c.userAgent)

	if contentType != "" {
		httpReq.Header.Set("Content-Type", contentType)
	}

	for key, value := range req.Headers {
		httpReq.Header.Set(key, value)
	}

	c.logRequest(req.Method, uri, body)

	httpResp, err := c.httpClient.Do(httpReq)
	if err != nil {
		c.log(levelError, "HTTP Request Failed", map[string]interface{}{
			"method": req.Method,
			"url":    redactURL(uri),
			"error":  err.Error(),
		})

		return nil, fmt.Errorf("sending %s request: %w", req.Method, err)
	}

	defer func() {
		_ = httpResp.Body.Close()
	}()

	respBody, err := io.ReadAll(httpResp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading response body: %w", err)
	}

	resp := &Response{
		Method:     req.Method,
		URL:        uri,
		StatusCode: httpResp.StatusCode,
		Reason:     reasonPhrase(httpResp),
		Headers:    httpResp.Header,
		Body:       respBody,
	}

	if resp.StatusCode >= stdhttp.StatusBadRequest {
		apiErr := stackla.NewAPIError(resp.StatusCode, resp.Reason, respBody)
		if req.Sink != nil && apiErr.Errors != nil {
			req.Sink.RecordErrors(apiErr.Errors)
		}

		c.logResponse(levelError, resp)

		return resp, apiErr
	}

	c.logResponse(levelInfo, resp)

	return resp, nil
}

func requestBody(req *Request) ([]byte, string, error) {
	if req.Body != nil {
		return req.Body, "", nil
	}

	if req.JSON != nil {
		body, err := json.Marshal(req.JSON)
		if err != nil {
			return nil, "", fmt.Errorf("encoding request body: %w", err)
		}

		return body, constants.ContentTypeJSON, nil
	}

	if (req.Method == stdhttp.MethodPost || req.Method == stdhttp.MethodDelete) && len(req.Data) > 0 {
		return []byte(EncodeQuery(PreserveEmpty(req.Data))), constants.ContentTypeForm, nil
	}

	return nil, "", nil
}

func reasonPhrase(resp *stdhttp.Response) string {
	reason := strings.TrimSpace(strings.TrimPrefix(resp.Status, strconv.Itoa(resp.StatusCode)))
	if reason == "" {
		reason = stdhttp.StatusText(resp.StatusCode)
	}

	return reason
}

type logLevel int

const (
	levelDebug logLevel = iota
	levelInfo
	levelError
)

func (c *Client) logRequest(method, uri string, body []byte) {
	fields := map[string]interface{}{
		"method": method,
		"url":    redactURL(uri),
	}

	if method != stdhttp.MethodGet && len(body) > 0 {
		fields["body"] = truncate(body)
	}

	c.log(levelInfo, "HTTP Request", fields)
}

func (c *Client) logResponse(level logLevel, resp *Response) {
	fields := map[string]interface{}{
		"method": resp.Method,
		"url":    redactURL(resp.URL),
		"status": resp.StatusCode,
		"reason": resp.Reason,
	}

	if level == levelError || c.debug {
		fields["body"] = truncate(resp.Body)
	}

	c.log(level, "HTTP Response", fields)
}

// log writes to the request log. A panicking logger is contained so that
// logging can never fail a request.
func (c *Client) log(level logLevel, msg string, fields map[string]interface{}) {
	if c.logger == nil {
		return
	}

	defer func() {
		_ = recover()
	}()

	switch level {
	case levelDebug:
		c.logger.Debug(msg, fields)
	case levelInfo:
		c.logger.Info(msg, fields)
	case levelError:
		c.logger.Error(msg, fields)
	}
}

func truncate(body []byte) string {
	if len(body) > constants.LogBodyLimit {
		return string(body[:constants.LogBodyLimit]) + "..."
	}

	return string(body)
}

func redactURL(uri string) string {
	parsed, err := url.Parse(uri)
	if err != nil {
		return uri
	}

	query := parsed.Query()
	for _, key := range []string{constants.ParamAPIKey, constants.ParamAccessToken} {
		if query.Has(key) {
			query.Set(key, constants.RedactedValue)
		}
	}

	parsed.RawQuery = query.Encode()

	return parsed.String()
}
