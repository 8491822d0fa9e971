// Package api implements the client for the persona chat backend.
package api

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"sync"
	"time"

	http "github.com/bogdanfinn/fhttp"
	tls_client "github.com/bogdanfinn/tls-client"
	"github.com/bogdanfinn/tls-client/profiles"
	"github.com/rs/zerolog"

	"github.com/diogo/personachat/internal/models"
)

// Doer is the part of tls_client.HttpClient the chat client needs
type Doer interface {
	Do(req *http.Request) (*http.Response, error)
}

// ChatClientInterface is what the widget controller needs from a backend
type ChatClientInterface interface {
	Send(ctx context.Context, req models.ChatRequest) (*models.ChatResponse, error)
}

// Client talks to the chat backend over HTTP
type Client struct {
	httpClient Doer
	baseURL    string
	timeout    time.Duration
	userAgent  string
	logger     zerolog.Logger
	mu         sync.RWMutex
	closed     bool
}

var _ ChatClientInterface = (*Client)(nil)

// ClientOption is a function that configures the client
type ClientOption func(*Client)

// WithTimeout sets an explicit request timeout. Zero keeps the transport default.
func WithTimeout(timeout time.Duration) ClientOption {
	return func(c *Client) {
		c.timeout = timeout
	}
}

// WithHTTPClient replaces the transport, mostly for tests
func WithHTTPClient(doer Doer) ClientOption {
	return func(c *Client) {
		c.httpClient = doer
	}
}

// WithLogger sets the diagnostic logger
func WithLogger(logger zerolog.Logger) ClientOption {
	return func(c *Client) {
		c.logger = logger
	}
}

// WithUserAgent overrides the User-Agent header
func WithUserAgent(userAgent string) ClientOption {
	return func(c *Client) {
		c.userAgent = userAgent
	}
}

// NewClient creates a client for the backend at baseURL
func NewClient(baseURL string, opts ...ClientOption) (*Client, error) {
	normalized, err := normalizeBaseURL(baseURL)
	if err != nil {
		return nil, err
	}

	client := &Client{
		baseURL:   normalized,
		userAgent: models.DefaultUserAgent,
		logger:    zerolog.Nop(),
	}

	for _, opt := range opts {
		opt(client)
	}

	if client.httpClient == nil {
		options := []tls_client.HttpClientOption{
			tls_client.WithClientProfile(profiles.Chrome_120),
		}
		if client.timeout > 0 {
			options = append(options, tls_client.WithTimeoutSeconds(int(client.timeout.Seconds())))
		}

		httpClient, err := tls_client.NewHttpClient(tls_client.NewNoopLogger(), options...)
		if err != nil {
			return nil, fmt.Errorf("failed to create HTTP client: %w", err)
		}
		client.httpClient = httpClient
	}

	return client, nil
}

// normalizeBaseURL validates the backend URL and strips trailing slashes
func normalizeBaseURL(raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", fmt.Errorf("backend URL cannot be empty")
	}

	u, err := url.Parse(raw)
	if err != nil {
		return "", fmt.Errorf("invalid backend URL: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return "", fmt.Errorf("invalid backend URL %q: scheme must be http or https", raw)
	}
	if u.Host == "" {
		return "", fmt.Errorf("invalid backend URL %q: missing host", raw)
	}

	return strings.TrimRight(raw, "/"), nil
}

// BaseURL returns the backend URL without trailing slash
func (c *Client) BaseURL() string {
	return c.baseURL
}

// ChatEndpoint returns the full URL of the chat endpoint
func (c *Client) ChatEndpoint() string {
	return c.baseURL + models.EndpointChat
}

// Close marks the client closed; later sends fail immediately
func (c *Client) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.closed = true
}

// IsClosed returns whether the client is closed
func (c *Client) IsClosed() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.closed
}

type requestIDKey struct{}

// WithRequestID attaches a correlation id that Send forwards as X-Request-ID
func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, requestIDKey{}, id)
}

// RequestIDFromContext returns the correlation id, or ""
func RequestIDFromContext(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey{}).(string)
	return id
}
