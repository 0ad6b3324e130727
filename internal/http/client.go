// Package http provides the authenticated HTTP layer shared by all
// resource clients: bearer token, session (CSRF) token, JSON codec, and
// optional retries for transient failures.
package http

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/hashicorp/go-retryablehttp"

	"github.com/farmhand-io/farmos-client/internal/auth"
	"github.com/farmhand-io/farmos-client/internal/constants"
	"github.com/farmhand-io/farmos-client/pkg/farmos"
)

// Request represents an API request.
type Request struct {
	Method  string
	Path    string
	Query   url.Values
	Body    interface{}
	Headers map[string]string
}

// Response represents an API response.
type Response struct {
	StatusCode int
	Headers    http.Header
	Body       []byte
}

// Client issues authenticated requests against one farmOS host.
type Client struct {
	baseURL      string
	tokenManager auth.TokenManager
	csrfProvider *auth.CSRFProvider
	retryClient  *retryablehttp.Client
	logger       farmos.Logger
	debug        bool
	userAgent    string
}

// Option configures the client.
type Option func(*Client)

// WithLogger sets the structured logger.
func WithLogger(logger farmos.Logger) Option {
	return func(c *Client) {
		c.logger = logger
	}
}

// WithDebug enables request/response logging when a logger is present.
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

// WithRetryConfig enables retries for transient failures (>=500, 429,
// connection errors). 4xx responses are never retried.
func WithRetryConfig(retryMax int, waitMin, waitMax time.Duration) Option {
	return func(c *Client) {
		c.retryClient.RetryMax = retryMax
		c.retryClient.RetryWaitMin = waitMin
		c.retryClient.RetryWaitMax = waitMax
	}
}

// WithHTTPTimeout sets the per-request timeout.
func WithHTTPTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		c.retryClient.HTTPClient.Timeout = timeout
	}
}

// WithCSRFProvider attaches a session token provider. When set, every
// request carries an X-CSRF-Token header.
func WithCSRFProvider(provider *auth.CSRFProvider) Option {
	return func(c *Client) {
		c.csrfProvider = provider
	}
}

// NewClient creates a client for the given base URL. tokenManager may be
// nil for unauthenticated use.
func NewClient(baseURL string, tokenManager auth.TokenManager, opts ...Option) *Client {
	retryClient := retryablehttp.NewClient()
	retryClient.RetryMax = 0
	retryClient.RetryWaitMin = constants.DefaultRetryWaitMin
	retryClient.RetryWaitMax = constants.DefaultRetryWaitMax
	retryClient.HTTPClient.Timeout = constants.DefaultHTTPTimeout
	retryClient.Logger = nil

	client := &Client{
		baseURL:      strings.TrimSuffix(baseURL, "/"),
		tokenManager: tokenManager,
		retryClient:  retryClient,
		userAgent:    "farmos-client-go",
	}

	for _, opt := range opts {
		opt(client)
	}

	return client
}

// Do performs one authenticated request: obtain access token, obtain
// session token, issue the HTTP call with both attached, return the raw
// response. Errors from any step propagate unchanged; a non-2xx status
// yields both the response and a *farmos.APIError.
func (c *Client) Do(ctx context.Context, req *Request) (*Response, error) {
	fullURL := c.baseURL + req.Path
	if len(req.Query) > 0 {
		fullURL += "?" + req.Query.Encode()
	}

	var body []byte

	if req.Body != nil {
		data, err := json.Marshal(req.Body)
		if err != nil {
			return nil, fmt.Errorf("encoding request body: %w", err)
		}

		body = data
	}

	httpReq, err := retryablehttp.NewRequestWithContext(ctx, req.Method, fullURL, body)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}

	httpReq.Header.Set("Accept", "application/json")
	httpReq.Header.Set("User-Agent", c.userAgent)

	if req.Body != nil {
		httpReq.Header.Set("Content-Type", "application/json")
	}

	for name, value := range req.Headers {
		httpReq.Header.Set(name, value)
	}

	if err := c.attachAuth(ctx, httpReq); err != nil {
		return nil, err
	}

	c.logRequest(req, fullURL)

	httpResp, err := c.retryClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("%s %s: %w", req.Method, req.Path, err)
	}

	defer func() { _ = httpResp.Body.Close() }()

	respBody, err := io.ReadAll(httpResp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading response body: %w", err)
	}

	resp := &Response{
		StatusCode: httpResp.StatusCode,
		Headers:    httpResp.Header,
		Body:       respBody,
	}

	c.logResponse(req, resp)

	if httpResp.StatusCode >= http.StatusBadRequest {
		return resp, farmos.ParseAPIError(httpResp.StatusCode, respBody)
	}

	return resp, nil
}

// attachAuth adds the bearer and session token headers.
func (c *Client) attachAuth(ctx context.Context, httpReq *retryablehttp.Request) error {
	var accessToken string

	if c.tokenManager != nil {
		token, err := c.tokenManager.GetToken(ctx)
		if err != nil {
			return fmt.Errorf("getting access token: %w", err)
		}

		accessToken = token
		httpReq.Header.Set("Authorization", "Bearer "+accessToken)
	}

	if c.csrfProvider != nil {
		csrfToken, err := c.csrfProvider.Token(ctx, accessToken)
		if err != nil {
			return fmt.Errorf("getting session token: %w", err)
		}

		httpReq.Header.Set("X-CSRF-Token", csrfToken)
	}

	return nil
}

func (c *Client) logRequest(req *Request, fullURL string) {
	if c.logger == nil || !c.debug {
		return
	}

	c.logger.Debug("HTTP Request", map[string]interface{}{
		"method": req.Method,
		"url":    fullURL,
	})
}

func (c *Client) logResponse(req *Request, resp *Response) {
	if c.logger == nil || !c.debug {
		return
	}

	c.logger.Debug("HTTP Response", map[string]interface{}{
		"method": req.Method,
		"path":   req.Path,
		"status": resp.StatusCode,
		"bytes":  len(resp.Body),
	})
}

// Get performs a GET request.
func (c *Client) Get(ctx context.Context, path string, query url.Values) (*Response, error) {
	return c.Do(ctx, &Request{Method: http.MethodGet, Path: path, Query: query})
}

// Post performs a POST request with a JSON body.
func (c *Client) Post(ctx context.Context, path string, body interface{}) (*Response, error) {
	return c.Do(ctx, &Request{Method: http.MethodPost, Path: path, Body: body})
}

// Put performs a PUT request with a JSON body.
func (c *Client) Put(ctx context.Context, path string, body interface{}) (*Response, error) {
	return c.Do(ctx, &Request{Method: http.MethodPut, Path: path, Body: body})
}

// Delete performs a DELETE request.
func (c *Client) Delete(ctx context.Context, path string) (*Response, error) {
	return c.Do(ctx, &Request{Method: http.MethodDelete, Path: path})
}

// BaseURL returns the normalized base URL.
func (c *Client) BaseURL() string {
	return c.baseURL
}
