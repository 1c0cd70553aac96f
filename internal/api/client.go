// Package api talks to the finance backend's REST surface.
//
// Client is a thin wrapper over net/http: it resolves paths against a base
// URL, applies the backend's trailing-slash convention, sends and decodes
// JSON and turns failures into *Error values after logging them once.
// Service layers the typed resource operations on top.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"finboard/internal/log"
)

const maxErrorBody = 512

// Client performs JSON requests against a base URL.
type Client struct {
	base    *url.URL
	http    *http.Client
	headers http.Header
	timeout time.Duration
	logger  *log.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying *http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.http = hc
		}
	}
}

// WithHeader adds a static header sent on every request, e.g. a future
// Authorization token. Nothing in the client enforces authentication.
func WithHeader(key, value string) Option {
	return func(c *Client) { c.headers.Add(key, value) }
}

// WithTimeout bounds every request. Zero means no timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.timeout = d }
}

// WithLogger sets the logger used for request failures.
func WithLogger(l *log.Logger) Option {
	return func(c *Client) {
		if l != nil {
			c.logger = l.WithComponent(log.ComponentAPI)
		}
	}
}

// NewClient returns a client rooted at baseURL.
func NewClient(baseURL string, opts ...Option) (*Client, error) {
	u, err := url.Parse(strings.TrimSpace(baseURL))
	if err != nil {
		return nil, fmt.Errorf("parse base url: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("base url %q: scheme must be http or https", baseURL)
	}
	if u.Host == "" {
		return nil, fmt.Errorf("base url %q: missing host", baseURL)
	}
	u.Path = strings.TrimRight(u.Path, "/")
	u.RawQuery = ""

	c := &Client{
		base:    u,
		http:    &http.Client{},
		headers: make(http.Header),
		logger:  log.New(log.DefaultConfig()).WithComponent(log.ComponentAPI),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// BaseURL returns the configured base, without a trailing slash.
func (c *Client) BaseURL() string { return c.base.String() }

// NormalizePath appends a trailing slash to paths that have neither one nor
// a literal '.' (which would mark a file-like resource).
//
//	"accounts"           -> "accounts/"
//	"/accounts/1"        -> "/accounts/1/"
//	"/accounts/"         -> "/accounts/"
//	"logo.png"           -> "logo.png"
func NormalizePath(p string) string {
	if p == "" || strings.HasSuffix(p, "/") || strings.Contains(p, ".") {
		return p
	}
	return p + "/"
}

// Get decodes the response of a GET into out.
func (c *Client) Get(ctx context.Context, path string, query url.Values, out any) error {
	return c.Do(ctx, http.MethodGet, path, query, nil, out)
}

// Post sends body as JSON and decodes the response into out.
func (c *Client) Post(ctx context.Context, path string, body, out any) error {
	return c.Do(ctx, http.MethodPost, path, nil, body, out)
}

// Patch sends body as JSON and decodes the response into out.
func (c *Client) Patch(ctx context.Context, path string, body, out any) error {
	return c.Do(ctx, http.MethodPatch, path, nil, body, out)
}

// Delete issues a DELETE; any response body is discarded.
func (c *Client) Delete(ctx context.Context, path string) error {
	return c.Do(ctx, http.MethodDelete, path, nil, nil, nil)
}

// Do performs one request. body, when non-nil, is encoded as JSON; out, when
// non-nil, receives the decoded 2xx response. Non-2xx responses, transport
// failures and undecodable bodies are returned as *Error.
func (c *Client) Do(ctx context.Context, method, path string, query url.Values, body, out any) error {
	path = NormalizePath(path)

	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	var reader io.Reader
	if body != nil {
		buf, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode %s %s body: %w", method, path, err)
		}
		reader = bytes.NewReader(buf)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.resolve(path, query), reader)
	if err != nil {
		return fmt.Errorf("build %s %s: %w", method, path, err)
	}
	for k, vs := range c.headers {
		for _, v := range vs {
			req.Header.Add(k, v)
		}
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		return c.fail(ctx, &Error{Kind: KindNetwork, Method: method, Path: path, Err: err}, start)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return c.fail(ctx, &Error{
			Kind:       kindForStatus(resp.StatusCode),
			Method:     method,
			Path:       path,
			StatusCode: resp.StatusCode,
			Body:       strings.TrimSpace(string(snippet)),
		}, start)
	}

	if out == nil || resp.StatusCode == http.StatusNoContent {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		if errors.Is(err, io.EOF) {
			return nil
		}
		kind := KindDecode
		if ctx.Err() != nil {
			kind = KindNetwork
		}
		return c.fail(ctx, &Error{Kind: kind, Method: method, Path: path, Err: err}, start)
	}

	c.logger.DebugContext(ctx, "Backend request completed",
		log.FieldMethod, method,
		log.FieldPath, path,
		log.FieldStatusCode, resp.StatusCode,
		log.FieldDuration, time.Since(start).Milliseconds())
	return nil
}

// resolve joins the base and an already-escaped path.
func (c *Client) resolve(path string, query url.Values) string {
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	target := c.base.String() + path
	if len(query) > 0 {
		target += "?" + query.Encode()
	}
	return target
}

// fail logs the error category once and hands the error back unchanged.
// Cancellations are expected when a newer request supersedes an older one,
// so they are logged at debug level.
func (c *Client) fail(ctx context.Context, e *Error, start time.Time) error {
	level := slog.LevelError
	msg := "Backend request failed"
	switch e.Kind {
	case KindUnauthorized:
		msg = "Backend request unauthorized"
		level = slog.LevelWarn
	case KindNotFound:
		msg = "Backend resource not found"
		level = slog.LevelWarn
	case KindServer:
		msg = "Backend server error"
	case KindNetwork:
		msg = "Backend network error"
		if errors.Is(e.Err, context.Canceled) {
			level = slog.LevelDebug
		}
	}

	fields := log.NewFields().
		WithOperation(e.Method + " " + e.Path).
		WithErrorType(logErrorType(e.Kind)).
		WithError(e)
	if e.StatusCode != 0 {
		fields[log.FieldStatusCode] = e.StatusCode
	}
	if e.Body != "" {
		fields[log.FieldResponseBody] = e.Body
	}
	fields[log.FieldDuration] = time.Since(start).Milliseconds()

	c.logger.Log(ctx, level, msg, fields.ToSlice()...)
	return e
}
