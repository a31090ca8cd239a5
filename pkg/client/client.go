package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/go-resty/resty/v2"
	"github.com/google/uuid"

	"github.com/shiftline-hq/shiftline-client/pkg/api"
	"github.com/shiftline-hq/shiftline-client/pkg/httpclient"
)

const (
	DefaultTimeout = 15 * time.Second

	headerRequestID     = "X-Request-ID"
	headerAuthorization = "Authorization"
)

// ErrNoSession is returned by calls that need a stored session when none exists.
var ErrNoSession = errors.New("no active session")

// Client calls the workforce API described by an api.Config.
type Client struct {
	cfg      *api.Config
	http     httpclient.Client
	timeout  time.Duration
	sessions SessionStore
	log      Logger
	validate *validator.Validate
	newReqID func() string
}

// Option customizes a Client.
type Option func(*Client)

// WithHTTPClient replaces the resty transport.
func WithHTTPClient(h httpclient.Client) Option { return func(c *Client) { c.http = h } }

// WithResty sends requests through an already configured resty client
// (retries, proxies, TLS settings).
func WithResty(rc *resty.Client) Option { return WithHTTPClient(httpclient.WrapResty(rc)) }

// WithTimeout sets the per-request timeout of the default transport.
func WithTimeout(d time.Duration) Option { return func(c *Client) { c.timeout = d } }

// WithSessionStore persists tokens somewhere other than process memory.
func WithSessionStore(s SessionStore) Option { return func(c *Client) { c.sessions = s } }

func WithLogger(l Logger) Option { return func(c *Client) { c.log = l } }

// WithRequestIDFunc overrides the X-Request-ID generator.
func WithRequestIDFunc(fn func() string) Option { return func(c *Client) { c.newReqID = fn } }

// New builds a Client. cfg is required; everything else has a default.
func New(cfg *api.Config, opts ...Option) (*Client, error) {
	if cfg == nil {
		return nil, fmt.Errorf("%w: config must not be nil", api.ErrInvalidConfig)
	}

	c := &Client{
		cfg:      cfg,
		timeout:  DefaultTimeout,
		validate: newValidator(),
		newReqID: uuid.NewString,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(c)
		}
	}

	if c.timeout <= 0 {
		c.timeout = DefaultTimeout
	}
	if c.http == nil {
		c.http = httpclient.NewRestyClient(c.timeout)
	}
	if c.sessions == nil {
		c.sessions = NewMemorySessionStore()
	}
	if c.log == nil {
		c.log = noopLogger{}
	}
	if c.newReqID == nil {
		c.newReqID = uuid.NewString
	}
	return c, nil
}

// Config returns the descriptor the client was built from.
func (c *Client) Config() *api.Config { return c.cfg }

// Do sends one request to path (relative to the base URL) and decodes the reply
// into a Result. The error return is reserved for transport and decoding
// failures; API-level failures come back inside the Result.
func Do[T any](ctx context.Context, c *Client, method, path string, body any) (api.Result[T], error) {
	if c == nil {
		return api.Result[T]{}, errors.New("client is not initialized")
	}

	headers := c.cfg.Headers()
	reqID := c.newReqID()
	headers[headerRequestID] = reqID

	session, ok, err := c.sessions.LoadSession()
	if err != nil {
		return api.Result[T]{}, fmt.Errorf("load session: %w", err)
	}
	if ok && session.AccessToken != "" {
		headers[headerAuthorization] = bearer(session)
	}

	start := time.Now()
	resp, err := c.http.Do(ctx, httpclient.Request{
		Method:  method,
		URL:     c.cfg.URL(path),
		Headers: headers,
		Body:    body,
	})
	if err != nil {
		c.log.WarnObj("api request failed", "api_request_error", map[string]any{
			"method":     method,
			"path":       path,
			"request_id": reqID,
			"error":      err.Error(),
		})
		return api.Result[T]{}, fmt.Errorf("%s %s: %w", method, path, err)
	}

	c.log.DebugObj("api request completed", "api_request", map[string]any{
		"method":     method,
		"path":       path,
		"status":     resp.StatusCode(),
		"request_id": reqID,
		"elapsed_ms": time.Since(start).Milliseconds(),
	})

	return decodeResult[T](resp)
}

// decodeResult maps a 2xx reply onto api.Response and anything else onto api.Error.
func decodeResult[T any](resp httpclient.Response) (api.Result[T], error) {
	status := resp.StatusCode()
	body := bytes.TrimSpace(resp.Body())

	if status >= 200 && status < 300 {
		out := api.Response[T]{Status: status}
		if len(body) > 0 {
			if err := json.Unmarshal(body, &out); err != nil {
				return api.Result[T]{}, fmt.Errorf("decode response (status %d): %w", status, err)
			}
		}
		if out.Status == 0 {
			out.Status = status
		}
		return api.Success(out), nil
	}

	var apiErr api.Error
	if len(body) > 0 {
		if err := json.Unmarshal(body, &apiErr); err != nil {
			apiErr = api.Error{Message: responseSnippet(body)}
		}
	}
	if apiErr.Status == 0 {
		apiErr.Status = status
	}
	return api.Failure[T](api.NewError(apiErr.Status, apiErr.Message, apiErr.Errors)), nil
}

// call is Do with both error channels folded into one.
func call[T any](ctx context.Context, c *Client, method, path string, body any) (T, error) {
	res, err := Do[T](ctx, c, method, path, body)
	if err != nil {
		var zero T
		return zero, err
	}
	return res.Unwrap()
}

func bearer(s Session) string {
	typ := strings.TrimSpace(s.TokenType)
	if typ == "" || strings.EqualFold(typ, "bearer") {
		typ = "Bearer"
	}
	return typ + " " + s.AccessToken
}

func responseSnippet(body []byte) string {
	const maxLen = 512
	s := strings.TrimSpace(string(body))
	if len(s) > maxLen {
		return s[:maxLen] + "..."
	}
	return s
}
