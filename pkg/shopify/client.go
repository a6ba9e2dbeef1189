package shopify

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync/atomic"
	"time"

	"github.com/chylers/storefront-api/pkg/config"
	"github.com/chylers/storefront-api/pkg/logger"
	"github.com/chylers/storefront-api/pkg/metrics"
)

const (
	accessTokenHeader = "X-Shopify-Access-Token"
	maxErrorBody      = 64 << 10
	defaultTimeout    = 15 * time.Second
)

var (
	errStoreNameRequired   = errors.New("shopify store name is required")
	errAccessTokenRequired = errors.New("shopify access token is required")
	errAPIVersionRequired  = errors.New("shopify api version is required")

	// ErrClosed is returned for calls made after Close.
	ErrClosed = errors.New("shopify client closed")
	// ErrNotFound is returned by lookups that filter a list and find nothing.
	ErrNotFound = errors.New("shopify resource not found")
)

// APIError carries a non-2xx response from the Admin API.
type APIError struct {
	Operation  string
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("shopify %s: status %d: %s", e.Operation, e.StatusCode, e.Body)
}

// IsClientError reports whether err is an Admin API rejection (4xx) rather than a
// transport or server failure.
func IsClientError(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.StatusCode >= 400 && apiErr.StatusCode < 500
}

// IsNotFound reports whether err means the requested resource does not exist.
func IsNotFound(err error) bool {
	if errors.Is(err, ErrNotFound) {
		return true
	}
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusNotFound
}

// Option customizes a Client.
type Option func(*Client)

// WithHTTPClient replaces the default HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.http = hc
		}
	}
}

// WithLogger enables request logging.
func WithLogger(logg *logger.Logger) Option {
	return func(c *Client) { c.logger = logg }
}

// WithMetrics records call latency and outcome.
func WithMetrics(m *metrics.RemoteCallMetrics) Option {
	return func(c *Client) { c.metrics = m }
}

// WithoutProbe skips the connectivity check performed by Open.
func WithoutProbe() Option {
	return func(c *Client) { c.skipProbe = true }
}

// Client talks to the Shopify REST Admin API.
type Client struct {
	http        *http.Client
	baseURL     string
	accessToken string
	logger      *logger.Logger
	metrics     *metrics.RemoteCallMetrics
	skipProbe   bool
	closed      atomic.Bool
}

// New validates the configuration and builds a client. Call Open before use.
func New(cfg config.ShopifyConfig, opts ...Option) (*Client, error) {
	store := strings.TrimSpace(cfg.StoreName)
	if store == "" && cfg.BaseURL == "" {
		return nil, errStoreNameRequired
	}
	token := strings.TrimSpace(cfg.AccessToken)
	if token == "" {
		return nil, errAccessTokenRequired
	}
	version := strings.TrimSpace(cfg.APIVersion)
	if version == "" {
		return nil, errAPIVersionRequired
	}

	baseURL := strings.TrimSuffix(cfg.BaseURL, "/")
	if baseURL == "" {
		baseURL = fmt.Sprintf("https://%s.myshopify.com", store)
	}
	baseURL = fmt.Sprintf("%s/admin/api/%s", baseURL, version)

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	c := &Client{
		http:        &http.Client{Timeout: timeout},
		baseURL:     baseURL,
		accessToken: token,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// Open verifies the credentials against /shop.json unless probing is disabled.
func (c *Client) Open(ctx context.Context) error {
	if c.closed.Load() {
		return ErrClosed
	}
	if c.skipProbe {
		return nil
	}
	var out struct {
		Shop struct {
			ID     int64  `json:"id"`
			Name   string `json:"name"`
			Domain string `json:"domain"`
		} `json:"shop"`
	}
	if err := c.do(ctx, "get_shop", http.MethodGet, "/shop.json", nil, nil, &out); err != nil {
		return fmt.Errorf("probing shopify: %w", err)
	}
	if c.logger != nil {
		c.logger.Info(c.logger.WithField(ctx, "shop", out.Shop.Domain), "shopify client ready")
	}
	return nil
}

// Close releases pooled connections. Further calls fail with ErrClosed.
func (c *Client) Close() error {
	if c.closed.Swap(true) {
		return nil
	}
	c.http.CloseIdleConnections()
	return nil
}

// BaseURL returns the versioned admin endpoint.
func (c *Client) BaseURL() string {
	return c.baseURL
}

func (c *Client) do(ctx context.Context, op, method, path string, query url.Values, body, out any) (err error) {
	if c.closed.Load() {
		return ErrClosed
	}
	started := time.Now()
	defer func() {
		c.metrics.Observe(op, time.Since(started), err)
	}()

	endpoint := c.baseURL + path
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}

	var reader io.Reader
	if body != nil {
		payload, merr := json.Marshal(body)
		if merr != nil {
			return fmt.Errorf("encoding %s request: %w", op, merr)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, reader)
	if err != nil {
		return fmt.Errorf("building %s request: %w", op, err)
	}
	req.Header.Set(accessTokenHeader, c.accessToken)
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	c.log(ctx, "request", op, map[string]any{"method": method, "path": path})

	resp, err := c.http.Do(req)
	if err != nil {
		c.log(ctx, "error", op, map[string]any{"error": err.Error()})
		return fmt.Errorf("shopify %s: %w", op, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		apiErr := &APIError{Operation: op, StatusCode: resp.StatusCode, Body: strings.TrimSpace(string(raw))}
		c.log(ctx, "error", op, map[string]any{"status": resp.StatusCode, "error": apiErr.Error()})
		return apiErr
	}

	c.log(ctx, "response", op, map[string]any{"status": resp.StatusCode})

	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil && !errors.Is(err, io.EOF) {
		return fmt.Errorf("decoding %s response: %w", op, err)
	}
	return nil
}

func (c *Client) log(ctx context.Context, phase, op string, fields map[string]any) {
	if c.logger == nil {
		return
	}
	logFields := map[string]any{
		"operation": op,
		"phase":     phase,
	}
	for k, v := range fields {
		logFields[k] = redact(k, v)
	}
	ctx = c.logger.WithFields(ctx, logFields)
	if phase == "error" {
		c.logger.Warn(ctx, fmt.Sprintf("shopify %s failed", op))
		return
	}
	c.logger.Debug(ctx, fmt.Sprintf("shopify %s", phase))
}

func redact(key string, value any) any {
	lower := strings.ToLower(key)
	for _, sensitive := range []string{"token", "secret", "email", "phone", "password"} {
		if strings.Contains(lower, sensitive) {
			return "[REDACTED]"
		}
	}
	return value
}
