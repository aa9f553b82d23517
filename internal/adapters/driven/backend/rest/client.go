package rest

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/oauth2"

	"github.com/custodia-labs/kbhub-cli/internal/core/ports/driven"
	"github.com/custodia-labs/kbhub-cli/internal/logger"
)

// Ensure the factory and client implement the interfaces.
var (
	_ driven.BackendFactory = (*Factory)(nil)
	_ driven.Backend        = (*Client)(nil)
)

const (
	// DefaultTimeout is the default HTTP request timeout.
	DefaultTimeout = 30 * time.Second

	// HeaderRequestID correlates a request with backend logs.
	HeaderRequestID = "X-Request-ID"

	// maxErrorBody caps how much of an error response is read.
	maxErrorBody = 64 << 10
)

// Config holds configuration for the REST backend.
type Config struct {
	// BaseURL is the API root, e.g. https://kb.example.com.
	BaseURL string

	// Timeout is the per-request timeout (default: 30s).
	Timeout time.Duration

	// RequestsPerSecond and Burst configure the shared limiter.
	RequestsPerSecond float64
	Burst             int

	// Transport is the base round tripper (default: http.DefaultTransport).
	Transport http.RoundTripper
}

// Factory builds token-bound clients for one backend.
type Factory struct {
	cfg     Config
	limiter *RateLimiter
}

// NewFactory creates a factory for cfg.
func NewFactory(cfg Config) *Factory {
	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")
	if cfg.Timeout == 0 {
		cfg.Timeout = DefaultTimeout
	}
	if cfg.Transport == nil {
		cfg.Transport = http.DefaultTransport
	}
	return &Factory{
		cfg:     cfg,
		limiter: NewRateLimiter(cfg.RequestsPerSecond, cfg.Burst),
	}
}

// ForToken returns a client that sends token on every request.
func (f *Factory) ForToken(token string) driven.Backend {
	return f.Client(token)
}

// Client is ForToken with the concrete type.
func (f *Factory) Client(token string) *Client {
	transport := f.cfg.Transport
	if token != "" {
		transport = &oauth2.Transport{
			Source: oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token}),
			Base:   f.cfg.Transport,
		}
	}
	return &Client{
		http: &http.Client{
			Transport: transport,
			Timeout:   f.cfg.Timeout,
		},
		baseURL: f.cfg.BaseURL,
		limiter: f.limiter,
	}
}

// Client is the backend API bound to one bearer token.
type Client struct {
	http    *http.Client
	baseURL string
	limiter *RateLimiter
}

// request describes one API call.
type request struct {
	method string
	path   string
	query  url.Values
	body   any
}

// do sends req and decodes a JSON response into out when out is non-nil.
func (c *Client) do(ctx context.Context, req request, out any) error {
	resp, err := c.send(ctx, req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode %s %s: %w", req.method, req.path, err)
	}
	return nil
}

// send performs req and returns the response on 2xx. The caller closes
// the body. Any other status is returned as a *StatusError.
func (c *Client) send(ctx context.Context, req request) (*http.Response, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limit wait: %w", err)
	}

	target := c.baseURL + req.path
	if len(req.query) > 0 {
		target += "?" + req.query.Encode()
	}

	var body io.Reader
	if req.body != nil {
		data, err := json.Marshal(req.body)
		if err != nil {
			return nil, fmt.Errorf("marshal request: %w", err)
		}
		body = bytes.NewReader(data)
	}

	httpReq, err := http.NewRequestWithContext(ctx, req.method, target, body)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	requestID := uuid.NewString()
	httpReq.Header.Set(HeaderRequestID, requestID)
	httpReq.Header.Set("Accept", "application/json")
	if body != nil {
		httpReq.Header.Set("Content-Type", "application/json")
	}

	start := time.Now()
	resp, err := c.http.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("%s %s: %w", req.method, req.path, err)
	}
	logger.Logger().Debug().
		Str("method", req.method).
		Str("path", req.path).
		Int("status", resp.StatusCode).
		Dur("elapsed", time.Since(start)).
		Str("request_id", requestID).
		Msg("backend request")

	c.limiter.UpdateFromResponse(resp)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		defer resp.Body.Close()
		data, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return nil, newStatusError(req.method, req.path, resp, data)
	}
	return resp, nil
}

// escape encodes one path segment.
func escape(segment string) string {
	return url.PathEscape(segment)
}
