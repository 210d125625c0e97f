// Package rpc calls database procedures exposed over HTTPS at
// <base-url>/rest/v1/rpc/<name> (the PostgREST convention used by Supabase).
//
// A call is exactly one POST: no retry, no backoff. Non-2xx responses become
// a *StatusError carrying only the status code; the response body is drained
// and discarded so nothing the upstream echoes back can leak to callers.
package rpc

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/newrelic/go-agent/v3/newrelic"
	"github.com/pkg/errors"
)

const (
	rpcPath  = "/rest/v1/rpc/"
	restPath = "/rest/v1/"

	DefaultTimeout          = 10 * time.Second
	DefaultMaxResponseBytes = int64(1 << 20)
)

// HTTPDoer is the subset of *http.Client the client needs.
type HTTPDoer interface {
	Do(req *http.Request) (*http.Response, error)
}

// Options configures a Client.
type Options struct {
	BaseURL          string
	ServiceKey       string
	Timeout          time.Duration
	MaxResponseBytes int64

	// HTTPClient overrides the default client. Timeout is still applied per
	// call through the request context.
	HTTPClient HTTPDoer
}

// Client is safe for concurrent use. It holds no per-call state.
type Client struct {
	baseURL          string
	headers          http.Header
	timeout          time.Duration
	maxResponseBytes int64
	http             HTTPDoer
}

// NewClient builds a Client. The default transport is wrapped with the New
// Relic round tripper, which records an external segment when the request
// context carries a transaction and is a pass-through otherwise.
func NewClient(opts Options) *Client {
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	maxBytes := opts.MaxResponseBytes
	if maxBytes <= 0 {
		maxBytes = DefaultMaxResponseBytes
	}

	doer := opts.HTTPClient
	if doer == nil {
		doer = &http.Client{
			Timeout:   timeout,
			Transport: newrelic.NewRoundTripper(http.DefaultTransport),
		}
	}

	headers := http.Header{}
	headers.Set("apikey", opts.ServiceKey)
	headers.Set("Authorization", "Bearer "+opts.ServiceKey)
	headers.Set("Accept", "application/json")

	return &Client{
		baseURL:          strings.TrimRight(opts.BaseURL, "/"),
		headers:          headers,
		timeout:          timeout,
		maxResponseBytes: maxBytes,
		http:             doer,
	}
}

// StatusError reports an upstream response outside 2xx.
type StatusError struct {
	Function   string
	StatusCode int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("rpc %s returned status %d", e.Function, e.StatusCode)
}

// Call invokes the procedure fn with params as its JSON body and decodes the
// JSON response into out.
//
// Errors:
//   - *StatusError when the upstream answered with a non-2xx status;
//   - a wrapped transport/decoding error for everything else.
func (c *Client) Call(ctx context.Context, fn string, params any, out any) error {
	body, err := json.Marshal(params)
	if err != nil {
		return errors.Wrapf(err, "rpc %s: encode params", fn)
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.FunctionURL(fn), bytes.NewReader(body))
	if err != nil {
		return errors.Wrapf(err, "rpc %s: create request", fn)
	}
	c.setHeaders(req)
	req.Header.Set("Content-Type", "application/json")

	res, err := c.http.Do(req)
	if err != nil {
		return errors.Wrapf(err, "rpc %s: execute request", fn)
	}
	defer res.Body.Close()

	if res.StatusCode < 200 || res.StatusCode > 299 {
		// Drain so the connection can be reused; the content is never inspected.
		_, _ = io.Copy(io.Discard, io.LimitReader(res.Body, c.maxResponseBytes))
		return &StatusError{Function: fn, StatusCode: res.StatusCode}
	}

	data, err := io.ReadAll(io.LimitReader(res.Body, c.maxResponseBytes+1))
	if err != nil {
		return errors.Wrapf(err, "rpc %s: read response", fn)
	}
	if int64(len(data)) > c.maxResponseBytes {
		return errors.Errorf("rpc %s: response exceeds %d bytes", fn, c.maxResponseBytes)
	}

	if out == nil {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return errors.Wrapf(err, "rpc %s: decode response", fn)
	}

	return nil
}

// Ping checks the REST root is reachable with the configured credentials.
// Any status below 500 counts as reachable.
func (c *Client) Ping(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+restPath, nil)
	if err != nil {
		return errors.Wrap(err, "rpc ping: create request")
	}
	c.setHeaders(req)

	res, err := c.http.Do(req)
	if err != nil {
		return errors.Wrap(err, "rpc ping: execute request")
	}
	defer res.Body.Close()
	_, _ = io.Copy(io.Discard, io.LimitReader(res.Body, c.maxResponseBytes))

	if res.StatusCode >= http.StatusInternalServerError {
		return &StatusError{Function: "ping", StatusCode: res.StatusCode}
	}

	return nil
}

// FunctionURL returns the endpoint for procedure fn.
func (c *Client) FunctionURL(fn string) string {
	return c.baseURL + rpcPath + fn
}

func (c *Client) setHeaders(req *http.Request) {
	for key, values := range c.headers {
		for _, v := range values {
			req.Header.Add(key, v)
		}
	}
}
