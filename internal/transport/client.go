package transport

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"adminconsole/internal/metrics"
)

// Credentials supplies the bearer token for each request. An empty token sends no
// Authorization header.
type Credentials interface {
	Token() string
}

// StaticToken is a fixed bearer token.
type StaticToken string

func (t StaticToken) Token() string { return string(t) }

type Config struct {
	BaseURL      string
	Credentials  Credentials
	Headers      map[string]string
	UserAgent    string
	HTTPClient   *http.Client
	MaxBodyBytes int64
	Logger       zerolog.Logger
	Metrics      *metrics.Metrics
}

// Client dispatches JSON requests against the admin API. It never retries.
type Client struct {
	cfg  Config
	base string
}

func New(cfg Config) (*Client, error) {
	base := strings.TrimSpace(cfg.BaseURL)
	if base == "" {
		return nil, fmt.Errorf("base url is empty")
	}
	u, err := url.Parse(base)
	if err != nil {
		return nil, fmt.Errorf("parse base url: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("base url must be http or https, got %q", u.Scheme)
	}
	if cfg.HTTPClient == nil {
		cfg.HTTPClient = &http.Client{Timeout: 30 * time.Second}
	}
	if cfg.MaxBodyBytes <= 0 {
		cfg.MaxBodyBytes = 8 << 20
	}
	return &Client{cfg: cfg, base: strings.TrimSuffix(u.String(), "/")}, nil
}

// BaseURL returns the normalized base URL without a trailing slash.
func (c *Client) BaseURL() string { return c.base }

// Request carries optional query parameters and an optional JSON body.
type Request struct {
	Params *Query
	Body   any
}

// Do sends one request and decodes a 2xx JSON response into out. out may be nil.
// Every failure is returned as *Error.
func (c *Client) Do(ctx context.Context, method, path string, req Request, out any) error {
	endpoint := c.base + "/" + strings.TrimPrefix(path, "/")
	if req.Params != nil {
		if qs := req.Params.Encode(); qs != "" {
			endpoint += "?" + qs
		}
	}

	var body io.Reader
	if req.Body != nil {
		b, err := json.Marshal(req.Body)
		if err != nil {
			return &Error{Method: method, Path: path, Err: fmt.Errorf("marshal request body: %w", err)}
		}
		body = bytes.NewReader(b)
	}

	httpReq, err := http.NewRequestWithContext(ctx, method, endpoint, body)
	if err != nil {
		return &Error{Method: method, Path: path, Err: fmt.Errorf("build request: %w", err)}
	}
	requestID := uuid.NewString()
	httpReq.Header.Set("Accept", "application/json")
	httpReq.Header.Set("X-Request-ID", requestID)
	if body != nil {
		httpReq.Header.Set("Content-Type", "application/json")
	}
	if c.cfg.UserAgent != "" {
		httpReq.Header.Set("User-Agent", c.cfg.UserAgent)
	}
	if c.cfg.Credentials != nil {
		if token := strings.TrimSpace(c.cfg.Credentials.Token()); token != "" {
			httpReq.Header.Set("Authorization", "Bearer "+token)
		}
	}
	for k, v := range c.cfg.Headers {
		httpReq.Header.Set(k, v)
	}

	started := time.Now()
	resp, err := c.cfg.HTTPClient.Do(httpReq)
	if err != nil {
		c.observe(method, path, 0, started, requestID)
		return &Error{Method: method, Path: path, Err: fmt.Errorf("request failed: %w", err)}
	}
	defer resp.Body.Close()
	c.observe(method, path, resp.StatusCode, started, requestID)

	respBody, err := io.ReadAll(io.LimitReader(resp.Body, c.cfg.MaxBodyBytes))
	if err != nil {
		return &Error{Method: method, Path: path, StatusCode: resp.StatusCode, Err: fmt.Errorf("read response body: %w", err)}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return newStatusError(method, path, resp.StatusCode, respBody)
	}

	if out == nil || resp.StatusCode == http.StatusNoContent || len(bytes.TrimSpace(respBody)) == 0 {
		return nil
	}
	if err := json.Unmarshal(respBody, out); err != nil {
		return &Error{Method: method, Path: path, StatusCode: resp.StatusCode, Body: respBody, Err: fmt.Errorf("decode response: %w", err)}
	}
	return nil
}

func (c *Client) Get(ctx context.Context, path string, params *Query, out any) error {
	return c.Do(ctx, http.MethodGet, path, Request{Params: params}, out)
}

func (c *Client) Post(ctx context.Context, path string, body any, out any) error {
	return c.Do(ctx, http.MethodPost, path, Request{Body: body}, out)
}

func (c *Client) Put(ctx context.Context, path string, body any, out any) error {
	return c.Do(ctx, http.MethodPut, path, Request{Body: body}, out)
}

func (c *Client) Patch(ctx context.Context, path string, body any, out any) error {
	return c.Do(ctx, http.MethodPatch, path, Request{Body: body}, out)
}

func (c *Client) Delete(ctx context.Context, path string, params *Query, out any) error {
	return c.Do(ctx, http.MethodDelete, path, Request{Params: params}, out)
}

func (c *Client) observe(method, path string, status int, started time.Time, requestID string) {
	elapsed := time.Since(started)
	c.cfg.Logger.Debug().
		Str("method", method).
		Str("path", path).
		Int("status", status).
		Dur("duration", elapsed).
		Str("request_id", requestID).
		Msg("api request")
	if c.cfg.Metrics == nil {
		return
	}
	c.cfg.Metrics.Requests.WithLabelValues(method, strconv.Itoa(status)).Inc()
	c.cfg.Metrics.RequestDuration.WithLabelValues(method).Observe(elapsed.Seconds())
}
