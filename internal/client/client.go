package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"worldbook/internal/logging"
	"worldbook/internal/version"

	"github.com/google/uuid"
)

const (
	// userAgentPrefix is followed by the CLI version in the User-Agent header.
	userAgentPrefix = "worldbook-cli/"

	contentTypeJSON = "application/json"
	headerRequestID = "X-Request-ID"

	// maxResponseBytes caps how much of a response body is read.
	maxResponseBytes = 10 << 20

	// API endpoint paths.
	pathSearch    = "/api/search"
	pathWorldbook = "/api/worldbook/"
)

// Endpoint names used in logs and metrics.
const (
	EndpointSearch    = "search"
	EndpointWorldbook = "worldbook"
)

// Client issues requests against the Worldbook API. Every request uses a
// fresh connection that is closed once the response has been read.
type Client struct {
	baseURL    string
	httpClient *http.Client
	userAgent  string
	logger     logging.ApplicationLogger
	metrics    *RequestMetrics
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the default HTTP client. A nil client is ignored.
func WithHTTPClient(httpClient *http.Client) Option {
	return func(c *Client) {
		if httpClient != nil {
			c.httpClient = httpClient
		}
	}
}

// WithLogger sets the logger used for request diagnostics.
func WithLogger(logger logging.ApplicationLogger) Option {
	return func(c *Client) {
		if logger != nil {
			c.logger = logger.WithComponent("client")
		}
	}
}

// WithMetrics sets the request instruments.
func WithMetrics(metrics *RequestMetrics) Option {
	return func(c *Client) {
		c.metrics = metrics
	}
}

// WithUserAgent overrides the User-Agent header.
func WithUserAgent(userAgent string) Option {
	return func(c *Client) {
		if userAgent != "" {
			c.userAgent = userAgent
		}
	}
}

// NewClient creates a new API client with the given configuration.
// Returns an error if the configuration is nil or invalid.
func NewClient(config *Config, opts ...Option) (*Client, error) {
	if config == nil {
		return nil, errors.New("config cannot be nil")
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	c := &Client{
		baseURL:    config.normalizedBaseURL(),
		httpClient: newHTTPClient(config.Timeout),
		userAgent:  userAgentPrefix + version.String(),
		logger:     logging.NewNopLogger(),
	}
	for _, opt := range opts {
		opt(c)
	}

	return c, nil
}

func newHTTPClient(timeout time.Duration) *http.Client {
	dialer := &net.Dialer{Timeout: timeout}
	return &http.Client{
		Timeout: timeout,
		Transport: &http.Transport{
			Proxy:               http.ProxyFromEnvironment,
			DialContext:         dialer.DialContext,
			TLSHandshakeTimeout: timeout,
			DisableKeepAlives:   true,
		},
	}
}

// BaseURL returns the normalized origin the client talks to.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// Search performs a fuzzy search for worldbooks.
func (c *Client) Search(ctx context.Context, query SearchQuery) (*SearchResponse, error) {
	params := url.Values{}
	params.Set("q", query.Query)
	params.Set("limit", strconv.Itoa(query.Limit))
	params.Set("offset", strconv.Itoa(query.Offset))
	params.Set("threshold", strconv.Itoa(query.Threshold))
	if query.Category != "" {
		params.Set("category", query.Category)
	}

	body, err := c.get(ctx, EndpointSearch, pathSearch, params)
	if err != nil {
		return nil, err
	}

	if err := validateJSON(body); err != nil {
		return nil, err
	}
	return &SearchResponse{Results: decodeSearchResults(body), Raw: body}, nil
}

// GetWorldbook retrieves the worldbook of a service.
// A 404 response yields an error matching ErrNotFound.
func (c *Client) GetWorldbook(ctx context.Context, service string) (*Worldbook, error) {
	if service == "" {
		return nil, errors.New("service name cannot be empty")
	}

	body, err := c.get(ctx, EndpointWorldbook, pathWorldbook+url.PathEscape(service), nil)
	if err != nil {
		return nil, err
	}

	if err := validateJSON(body); err != nil {
		return nil, err
	}
	return &Worldbook{Fields: decodeObject(body), Raw: body}, nil
}

// get performs a GET request and returns the body of a 2xx response.
// An empty body is returned as "{}".
func (c *Client) get(ctx context.Context, endpoint, path string, params url.Values) ([]byte, error) {
	fullURL := c.baseURL + path
	if len(params) > 0 {
		fullURL += "?" + params.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
	if err != nil {
		return nil, err
	}

	requestID := uuid.New().String()
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", contentTypeJSON)
	req.Header.Set(headerRequestID, requestID)
	req.Close = true

	fields := logging.Fields{
		"endpoint":   endpoint,
		"url":        fullURL,
		"request_id": requestID,
	}
	c.logger.Debug(ctx, "Sending request", fields)

	start := time.Now()
	body, err := c.do(req, endpoint)
	elapsed := time.Since(start)

	outcome := Outcome(err)
	c.metrics.Record(ctx, endpoint, outcome, elapsed)

	fields["outcome"] = outcome
	fields["duration_ms"] = elapsed.Milliseconds()
	switch outcome {
	case OutcomeOK:
		c.logger.Debug(ctx, "Request completed", fields)
	case OutcomeNotFound:
		c.logger.Info(ctx, "Resource not found", fields)
	default:
		fields["error"] = err.Error()
		c.logger.Warn(ctx, "Request failed", fields)
	}

	return body, err
}

func (c *Client) do(req *http.Request, endpoint string) ([]byte, error) {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxResponseBytes))
		return nil, &APIError{StatusCode: resp.StatusCode, Endpoint: endpoint}
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	if len(bytes.TrimSpace(body)) == 0 {
		return []byte("{}"), nil
	}
	return body, nil
}

// errInvalidJSON is returned for a 2xx body that is not a JSON document.
var errInvalidJSON = errors.New("failed to decode response: invalid JSON")

// validateJSON only checks the syntax of body. Its shape is not validated.
func validateJSON(body []byte) error {
	if !json.Valid(body) {
		return errInvalidJSON
	}
	return nil
}
