// Package commerce is the REST client for the upstream Commerce API.
package commerce

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	sessiondomain "github.com/Apurer/go-gin-storefront/internal/domains/session/domain"
)

// TokenHeader carries the session token on every call.
const TokenHeader = "x-auth-token"

// TokenSource resolves the token to send with a request.
type TokenSource interface {
	Token(ctx context.Context) (string, error)
}

// TokenSourceFunc adapts a function to TokenSource.
type TokenSourceFunc func(ctx context.Context) (string, error)

func (f TokenSourceFunc) Token(ctx context.Context) (string, error) { return f(ctx) }

// SessionTokens reads the token of the session carried by ctx.
var SessionTokens TokenSource = TokenSourceFunc(func(ctx context.Context) (string, error) {
	session, _ := sessiondomain.FromContext(ctx)
	return session.Token, nil
})

type tokenKey struct{}

// WithToken pins the token for calls made with ctx. It takes precedence over
// the client's TokenSource.
func WithToken(ctx context.Context, token string) context.Context {
	return context.WithValue(ctx, tokenKey{}, token)
}

func tokenFromContext(ctx context.Context) string {
	token, _ := ctx.Value(tokenKey{}).(string)
	return token
}

// Client talks to the Commerce API. It holds no per-user state.
type Client struct {
	baseURL    string
	httpClient *http.Client
	tokens     TokenSource
	logger     *slog.Logger
}

// Option configures the client.
type Option func(*Client)

// WithHTTPClient replaces the default instrumented client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.httpClient = hc
		}
	}
}

// WithTokenSource sets where tokens come from when the context carries none.
func WithTokenSource(ts TokenSource) Option {
	return func(c *Client) {
		c.tokens = ts
	}
}

// WithLogger sets the structured logger used for request tracing.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// NewClient builds a client for baseURL. The default transport is wrapped with
// otelhttp and has no timeout.
func NewClient(baseURL string, opts ...Option) (*Client, error) {
	baseURL = strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if baseURL == "" {
		return nil, errors.New("commerce base URL is required")
	}
	c := &Client{
		baseURL:    baseURL,
		httpClient: &http.Client{Transport: otelhttp.NewTransport(http.DefaultTransport)},
		logger:     slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(c)
		}
	}
	return c, nil
}

func (c *Client) token(ctx context.Context) (string, error) {
	if token := tokenFromContext(ctx); token != "" {
		return token, nil
	}
	if c.tokens == nil {
		return "", nil
	}
	return c.tokens.Token(ctx)
}

// do sends body as JSON and decodes a 2xx response into out (when non-nil).
func (c *Client) do(ctx context.Context, method, path string, body, out any) (http.Header, error) {
	op := method + " " + path
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("encode %s request: %w", op, err)
		}
		reader = bytes.NewReader(payload)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return nil, fmt.Errorf("build %s request: %w", op, err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	token, err := c.token(ctx)
	if err != nil {
		return nil, fmt.Errorf("resolve token: %w", err)
	}
	if token != "" {
		req.Header.Set(TokenHeader, token)
	}

	res, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.LogAttrs(ctx, slog.LevelWarn, "commerce request failed", slog.String("op", op), slog.String("error", err.Error()))
		return nil, &TransportError{Op: op, Err: err}
	}
	defer res.Body.Close()

	c.logger.LogAttrs(ctx, slog.LevelDebug, "commerce response", slog.String("op", op), slog.Int("status", res.StatusCode))
	if res.StatusCode >= http.StatusBadRequest {
		return res.Header, decodeAPIError(res)
	}
	if out == nil || res.StatusCode == http.StatusNoContent {
		_, _ = io.Copy(io.Discard, res.Body)
		return res.Header, nil
	}
	raw, err := io.ReadAll(res.Body)
	if err != nil {
		return res.Header, &TransportError{Op: op, Err: err}
	}
	if len(bytes.TrimSpace(raw)) == 0 {
		return res.Header, nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return res.Header, fmt.Errorf("decode %s response: %w", op, err)
	}
	return res.Header, nil
}
