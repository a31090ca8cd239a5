package api

import (
	"fmt"
	"net/url"
	"strings"
)

// DefaultBaseURL matches the VITE_API_URL value written by the setup command.
const DefaultBaseURL = "http://localhost:8000/api/v1"

// Config describes everything an HTTP client needs to reach the backend.
// It is built once at startup and never mutated; accessors hand out copies.
type Config struct {
	baseURL   string
	endpoints Endpoints
	headers   map[string]string
}

// DefaultHeaders returns the headers sent with every request.
func DefaultHeaders() map[string]string {
	return map[string]string{
		"Accept":       "application/json",
		"Content-Type": "application/json",
	}
}

// NewConfig validates and freezes a client descriptor. Any problem is reported
// here rather than on first request.
func NewConfig(baseURL string, endpoints Endpoints, headers map[string]string) (*Config, error) {
	baseURL = strings.TrimSpace(baseURL)
	if baseURL == "" {
		return nil, fmt.Errorf("%w: base url is required", ErrInvalidConfig)
	}
	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("%w: parse base url: %w", ErrInvalidConfig, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("%w: base url %q must use http or https", ErrInvalidConfig, baseURL)
	}
	if u.Host == "" {
		return nil, fmt.Errorf("%w: base url %q has no host", ErrInvalidConfig, baseURL)
	}

	if err := endpoints.Validate(); err != nil {
		return nil, err
	}

	return &Config{
		baseURL:   baseURL,
		endpoints: endpoints,
		headers:   sanitizeHeaders(headers),
	}, nil
}

// DefaultConfig pairs baseURL with the default route table and headers.
func DefaultConfig(baseURL string) (*Config, error) {
	return NewConfig(baseURL, DefaultEndpoints(), DefaultHeaders())
}

func (c *Config) BaseURL() string      { return c.baseURL }
func (c *Config) Endpoints() Endpoints { return c.endpoints }

// Headers returns a copy of the default request headers.
func (c *Config) Headers() map[string]string {
	out := make(map[string]string, len(c.headers))
	for k, v := range c.headers {
		out[k] = v
	}
	return out
}

// URL appends path to the base URL verbatim; slashes are not normalized.
func (c *Config) URL(path string) string {
	return c.baseURL + path
}

func sanitizeHeaders(headers map[string]string) map[string]string {
	out := make(map[string]string, len(headers))
	for k, v := range headers {
		key := strings.TrimSpace(k)
		val := strings.TrimSpace(v)
		if key == "" || val == "" {
			continue
		}
		out[key] = val
	}
	return out
}
