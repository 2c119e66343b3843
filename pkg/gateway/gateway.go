// Package gateway is the HTTP boundary to the dispatch server. It owns
// timeouts, retries, the response envelope, and the couple of wire
// quirks (dual list shapes, Chinese audit verbs) so nothing above it
// has to know about them.
package gateway

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strings"
	"time"

	"github.com/tidwall/gjson"
)

var (
	// ErrSessionExpired reports a 401; the caller should send the user
	// back through login rather than retrying.
	ErrSessionExpired = errors.New("gateway: session expired")

	// ErrNotFound reports a 404 for a specific resource.
	ErrNotFound = errors.New("gateway: not found")
)

// APIError is a failure envelope from the server: success=false with a
// numeric business code. 4xxx codes are caller mistakes and are never
// retried.
type APIError struct {
	Code    int
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("gateway: server error %d: %s", e.Code, e.Message)
}

// CodeOf extracts the business code from an error chain, 0 if none.
func CodeOf(err error) int {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Code
	}
	return 0
}

const (
	defaultTimeout = 10 * time.Second
	defaultRetries = 3
	defaultBackoff = time.Second
)

// Client talks to one dispatch server. Construct with New; the zero
// value is not usable.
type Client struct {
	base    *url.URL
	http    *http.Client
	retries int
	backoff time.Duration
	cookie  string
}

// Option configures a Client.
type Option func(*Client)

// WithTimeout bounds each individual attempt, not the whole retry loop.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.http.Timeout = d
		}
	}
}

// WithRetries sets the total attempt budget, minimum 1.
func WithRetries(n int) Option {
	return func(c *Client) {
		if n >= 1 {
			c.retries = n
		}
	}
}

// WithBackoff sets the base delay; attempt n waits n times this.
func WithBackoff(d time.Duration) Option {
	return func(c *Client) {
		if d >= 0 {
			c.backoff = d
		}
	}
}

// WithCookie sends a raw Cookie header on every request, for reusing a
// browser login session.
func WithCookie(raw string) Option {
	return func(c *Client) {
		c.cookie = raw
	}
}

// WithHTTPClient swaps the underlying http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.http = hc
		}
	}
}

func New(baseURL string, opts ...Option) (*Client, error) {
	base, err := url.Parse(strings.TrimRight(baseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("gateway: bad base url %q: %w", baseURL, err)
	}
	if base.Scheme == "" || base.Host == "" {
		return nil, fmt.Errorf("gateway: base url %q needs a scheme and host", baseURL)
	}
	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, err
	}
	c := &Client{
		base:    base,
		http:    &http.Client{Timeout: defaultTimeout, Jar: jar},
		retries: defaultRetries,
		backoff: defaultBackoff,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// do runs one API call with the retry policy and returns the envelope's
// data field as raw JSON. Transport failures and 5xx responses are
// retried with linear backoff; any 4xx is terminal, 401 doubly so.
func (c *Client) do(ctx context.Context, method, path string, query url.Values, body []byte) (gjson.Result, error) {
	u := *c.base
	u.Path = strings.TrimRight(u.Path, "/") + path
	if query != nil {
		u.RawQuery = query.Encode()
	}

	var lastErr error
	for attempt := 1; attempt <= c.retries; attempt++ {
		if attempt > 1 {
			select {
			case <-ctx.Done():
				return gjson.Result{}, ctx.Err()
			case <-time.After(time.Duration(attempt-1) * c.backoff):
			}
		}

		req, err := http.NewRequestWithContext(ctx, method, u.String(), bytes.NewReader(body))
		if err != nil {
			return gjson.Result{}, err
		}
		req.Header.Set("Accept", "application/json")
		if body != nil {
			req.Header.Set("Content-Type", "application/json")
		}
		if c.cookie != "" {
			req.Header.Set("Cookie", c.cookie)
		}

		resp, err := c.http.Do(req)
		if err != nil {
			if ctx.Err() != nil {
				return gjson.Result{}, ctx.Err()
			}
			lastErr = fmt.Errorf("gateway: %s %s: %w", method, path, err)
			continue
		}

		payload, readErr := io.ReadAll(io.LimitReader(resp.Body, 4<<20))
		resp.Body.Close()

		switch {
		case resp.StatusCode == http.StatusUnauthorized:
			return gjson.Result{}, ErrSessionExpired
		case resp.StatusCode >= 400 && resp.StatusCode < 500:
			return gjson.Result{}, envelopeError(payload, resp.StatusCode)
		case resp.StatusCode >= 500:
			lastErr = fmt.Errorf("gateway: %s %s: server status %d", method, path, resp.StatusCode)
			continue
		}

		if readErr != nil {
			lastErr = fmt.Errorf("gateway: %s %s: reading response: %w", method, path, readErr)
			continue
		}
		env := gjson.ParseBytes(payload)
		if env.IsArray() {
			// A few endpoints answer with a bare array and no
			// envelope; the array is the data.
			return env, nil
		}
		if !env.Get("success").Bool() {
			return gjson.Result{}, envelopeError(payload, resp.StatusCode)
		}
		return env.Get("data"), nil
	}
	return gjson.Result{}, lastErr
}

// envelopeError maps a failure payload to an APIError, falling back to
// the HTTP status when the body is not the expected envelope.
func envelopeError(payload []byte, status int) error {
	env := gjson.ParseBytes(payload)
	code := int(env.Get("error.code").Int())
	msg := env.Get("error.message").String()
	// The server reuses code 4004 for both "task missing" and the
	// dispatch-number conflict; the HTTP status tells them apart.
	if status == http.StatusNotFound {
		if msg == "" {
			return ErrNotFound
		}
		return fmt.Errorf("%w: %s", ErrNotFound, msg)
	}
	if code == 0 && msg == "" {
		return &APIError{Code: status, Message: http.StatusText(status)}
	}
	return &APIError{Code: code, Message: msg}
}
