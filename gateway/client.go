// Package gateway is the REST client for the storefront backend. All remote
// calls the SDK makes go through here, so the bearer credential is attached
// uniformly and failures map onto one error taxonomy.
package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/jovincart/storefront/apperrors"
	"github.com/jovincart/storefront/credential"
)

// TokenSource supplies the current access credential, if any.
type TokenSource interface {
	Token() (string, bool)
}

// StoreTokenSource reads the access credential straight from a Store, so the
// header always reflects the latest login/refresh/logout.
type StoreTokenSource struct {
	Store credential.Store
}

func (s StoreTokenSource) Token() (string, bool) {
	tok, err := s.Store.Load(credential.AccessToken)
	if err != nil {
		return "", false
	}
	return tok, true
}

// Client talks to the storefront backend.
type Client struct {
	baseURL string
	http    *http.Client
	tokens  TokenSource
	limiter *rate.Limiter
	log     *zap.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithTokenSource attaches a bearer credential source. Without one, requests
// go out unauthenticated.
func WithTokenSource(ts TokenSource) Option {
	return func(c *Client) { c.tokens = ts }
}

// WithRateLimit caps outgoing requests; rapid UI-driven call bursts get
// smoothed instead of hammering the backend.
func WithRateLimit(perSecond float64, burst int) Option {
	return func(c *Client) { c.limiter = rate.NewLimiter(rate.Limit(perSecond), burst) }
}

// WithLogger sets the logger used for request failures.
func WithLogger(log *zap.Logger) Option {
	return func(c *Client) { c.log = log }
}

// WithHTTPClient overrides the underlying HTTP client (tests).
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

func NewClient(baseURL string, timeout time.Duration, opts ...Option) *Client {
	c := &Client{
		baseURL: baseURL,
		http: &http.Client{
			Timeout:   timeout,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		},
		limiter: rate.NewLimiter(rate.Limit(20), 40),
		log:     zap.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// do issues a JSON request and decodes a JSON reply into out (which may be
// nil when the body does not matter). Transport failures map to
// ErrNetworkUnavailable, non-2xx replies to ErrRemoteRejected.
func (c *Client) do(ctx context.Context, method, path string, body any, out any) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return err
	}

	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	c.attachAuth(req)

	resp, err := c.http.Do(req)
	if err != nil {
		c.log.Warn("request failed", zap.String("method", method), zap.String("path", path), zap.Error(err))
		return apperrors.ErrNetworkUnavailable.WithCause(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		c.log.Warn("request rejected",
			zap.String("method", method),
			zap.String("path", path),
			zap.Int("status", resp.StatusCode),
		)
		return apperrors.Remote(resp.StatusCode, string(msg))
	}

	if out == nil {
		return nil
	}
	return jsonDecode(resp.Body, out)
}

func jsonDecode(r io.Reader, out any) error {
	if err := json.NewDecoder(r).Decode(out); err != nil {
		return apperrors.ErrRemoteRejected.WithCause(fmt.Errorf("decode response: %w", err))
	}
	return nil
}

func (c *Client) attachAuth(req *http.Request) {
	if c.tokens == nil {
		return
	}
	if tok, ok := c.tokens.Token(); ok {
		req.Header.Set("Authorization", "Bearer "+tok)
	}
}

// statusEnvelope is the backend's generic {success, error} reply shape.
type statusEnvelope struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
}
