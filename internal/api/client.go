// Package api implements the HTTP client for the workflow backend.
//
// The client covers the endpoints the dashboard needs:
// - /wf/ - list, fetch, create, delete and duplicate workflows
// - /wf/{id}/runs/ - recent runs of a workflow
// - /wf/paused_workflows/, /wf/process_pause_action/, /wf/cancel_workflow/ - paused runs
// - /templates/ - starter templates
// - /env-mgmt/ - API key records
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/chazuruo/spurdeck/internal/config"
	deckerrors "github.com/chazuruo/spurdeck/internal/errors"
	"github.com/chazuruo/spurdeck/internal/logger"
)

// DefaultTimeout is the default HTTP request timeout.
const DefaultTimeout = 10 * time.Second

// maxResponseSize limits response body reads to prevent memory exhaustion.
const maxResponseSize = 10 * 1024 * 1024 // 10MB

// RequestIDHeader carries the per-request correlation id.
const RequestIDHeader = "X-Request-ID"

// Client is the workflow backend HTTP client.
type Client struct {
	baseURL    string
	httpClient *http.Client
	token      string
	limiter    *rate.Limiter
	log        *zap.Logger
	newID      func() string
}

// Option configures a Client.
type Option func(*Client)

// WithToken sets the bearer token sent on every request.
func WithToken(token string) Option {
	return func(c *Client) { c.token = token }
}

// WithHTTPClient replaces the underlying http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithTimeout sets the per-request timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.httpClient.Timeout = d }
}

// WithRateLimit limits requests to perSecond with the given burst.
// A non-positive rate disables limiting.
func WithRateLimit(perSecond float64, burst int) Option {
	return func(c *Client) {
		if perSecond <= 0 {
			c.limiter = rate.NewLimiter(rate.Inf, 0)
			return
		}
		if burst < 1 {
			burst = 1
		}
		c.limiter = rate.NewLimiter(rate.Limit(perSecond), burst)
	}
}

// WithLogger sets the logger used for request tracing.
func WithLogger(l *zap.Logger) Option {
	return func(c *Client) { c.log = logger.OrNop(l) }
}

// WithRequestIDFunc overrides request id generation.
func WithRequestIDFunc(fn func() string) Option {
	return func(c *Client) { c.newID = fn }
}

// New creates a new client for the API rooted at baseURL.
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: DefaultTimeout,
		},
		limiter: rate.NewLimiter(rate.Inf, 0),
		log:     zap.NewNop(),
		newID:   func() string { return uuid.NewString() },
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// NewFromConfig creates a client from the [api] config section. The bearer
// token is read from the environment variable named by cfg.TokenEnv.
func NewFromConfig(cfg config.APIConfig, log *zap.Logger) *Client {
	opts := []Option{
		WithTimeout(time.Duration(cfg.TimeoutSeconds) * time.Second),
		WithRateLimit(cfg.RateLimit, cfg.RateBurst),
		WithLogger(log),
	}
	if cfg.TokenEnv != "" {
		if token := os.Getenv(cfg.TokenEnv); token != "" {
			opts = append(opts, WithToken(token))
		}
	}
	return New(cfg.BaseURL, opts...)
}

// BaseURL returns the API root the client talks to.
func (c *Client) BaseURL() string { return c.baseURL }

// Error is a non-2xx response from the backend.
type Error struct {
	StatusCode int
	Body       string
}

func (e *Error) Error() string {
	return fmt.Sprintf("API error (status %d): %s", e.StatusCode, strings.TrimSpace(e.Body))
}

// Is lets errors.Is match every API error as ErrNetwork and a 404 as ErrNotFound.
func (e *Error) Is(target error) bool {
	switch target {
	case deckerrors.ErrNetwork:
		return true
	case deckerrors.ErrNotFound:
		return e.StatusCode == http.StatusNotFound
	}
	return false
}

// get sends a GET request and decodes the JSON response.
func (c *Client) get(ctx context.Context, path string, query url.Values, respBody any) error {
	return c.do(ctx, http.MethodGet, path, query, nil, respBody)
}

// post sends a POST request with a JSON body and decodes the JSON response.
func (c *Client) post(ctx context.Context, path string, reqBody, respBody any) error {
	return c.do(ctx, http.MethodPost, path, nil, reqBody, respBody)
}

// delete sends a DELETE request; any response body is discarded.
func (c *Client) delete(ctx context.Context, path string) error {
	return c.do(ctx, http.MethodDelete, path, nil, nil, nil)
}

// do performs one request. Transport failures and non-2xx responses match
// ErrNetwork; undecodable bodies match ErrParse.
func (c *Client) do(ctx context.Context, method, path string, query url.Values, reqBody, respBody any) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return deckerrors.Mark(fmt.Errorf("rate limit %s %s: %w", method, path, err), deckerrors.ErrNetwork)
	}

	var body io.Reader
	if reqBody != nil {
		data, err := json.Marshal(reqBody)
		if err != nil {
			return fmt.Errorf("marshaling request: %w", err)
		}
		body = bytes.NewReader(data)
	}

	target := c.baseURL + path
	if len(query) > 0 {
		target += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, method, target, body)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if reqBody != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
	requestID := c.newID()
	req.Header.Set(RequestIDHeader, requestID)

	log := c.log.With(
		zap.String("method", method),
		zap.String("path", path),
		zap.String("request_id", requestID),
	)
	start := time.Now()

	resp, err := c.httpClient.Do(req)
	if err != nil {
		log.Debug("request failed", zap.Error(err), zap.Duration("duration", time.Since(start)))
		return deckerrors.Mark(fmt.Errorf("sending request: %w", err), deckerrors.ErrNetwork)
	}
	defer func() { _ = resp.Body.Close() }()

	// Read maxResponseSize+1 to detect oversized responses while still accepting
	// responses exactly at the limit.
	respBodyBytes, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize+1))
	if err != nil {
		return deckerrors.Mark(fmt.Errorf("reading response: %w", err), deckerrors.ErrNetwork)
	}
	if int64(len(respBodyBytes)) > maxResponseSize {
		return deckerrors.Mark(fmt.Errorf("response exceeds maximum size of %d bytes", maxResponseSize), deckerrors.ErrNetwork)
	}

	log.Debug("request completed",
		zap.Int("status", resp.StatusCode),
		zap.Duration("duration", time.Since(start)),
	)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return &Error{
			StatusCode: resp.StatusCode,
			Body:       string(respBodyBytes),
		}
	}

	if respBody == nil || len(bytes.TrimSpace(respBodyBytes)) == 0 {
		return nil
	}
	if err := json.Unmarshal(respBodyBytes, respBody); err != nil {
		return fmt.Errorf("%w: decoding response: %w", deckerrors.ErrParse, err)
	}

	return nil
}
