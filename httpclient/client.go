package httpclient

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
)

// Client is an HTTP client built from an effective configuration. It is
// immutable and safe for concurrent use.
type Client struct {
	name      string
	http      *http.Client
	transport *http.Transport
	readers   []EntityReader
	config    EffectiveConfig
}

// Target binds the client to a base URL.
func (c *Client) Target(rawURL string) (*Target, error) {
	u, err := parseAbsoluteURL(rawURL)
	if err != nil {
		return nil, err
	}
	query := u.Query()
	u.RawQuery = ""
	return &Target{
		client:  c,
		name:    c.name,
		base:    u,
		query:   query,
		headers: make(http.Header),
	}, nil
}

// Do executes req. req.Path must be an absolute URL.
func (c *Client) Do(ctx context.Context, req Request) (*Response, error) {
	u, err := parseAbsoluteURL(req.Path)
	if err != nil {
		return nil, err
	}
	return c.execute(ctx, u, nil, req)
}

// HTTPClient returns the underlying *http.Client. Requests sent through it
// pass the same authentication, compression and feature pipeline.
func (c *Client) HTTPClient() *http.Client {
	return c.http
}

// Config returns the configuration the client was built from.
func (c *Client) Config() EffectiveConfig {
	return c.config
}

// Close releases idle connections.
func (c *Client) Close() error {
	c.transport.CloseIdleConnections()
	return nil
}

// execute sends req to u with the given base headers and reads the whole
// response. Status codes of 400 and above are returned as *Error together
// with the response.
func (c *Client) execute(ctx context.Context, u *url.URL, headers http.Header, req Request) (*Response, error) {
	method := req.Method
	if method == "" {
		method = http.MethodGet
	}

	target := *u
	if len(req.Query) > 0 {
		q := target.Query()
		for k, v := range req.Query {
			q.Set(k, v)
		}
		target.RawQuery = q.Encode()
	}

	body, contentType, err := encodeBody(req.Body)
	if err != nil {
		return nil, NewValidationError(err.Error())
	}
	httpReq, err := http.NewRequestWithContext(ctx, method, target.String(), body)
	if err != nil {
		return nil, NewValidationError(fmt.Sprintf("create request: %v", err))
	}
	for k, vs := range headers {
		httpReq.Header[k] = append([]string(nil), vs...)
	}
	for k, v := range req.Headers {
		httpReq.Header.Set(k, v)
	}
	if body != nil && contentType != "" && httpReq.Header.Get("Content-Type") == "" {
		httpReq.Header.Set("Content-Type", contentType)
	}

	resp, err := c.http.Do(httpReq)
	if err != nil {
		return nil, classifyTransportError(ctx, err)
	}
	defer func() { _ = resp.Body.Close() }()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, NewConnectionError(fmt.Errorf("read response body: %w", err))
	}

	result := &Response{
		StatusCode: resp.StatusCode,
		Headers:    resp.Header,
		Body:       data,
		readers:    c.readers,
	}
	if classErr := ClassifyStatusCode(resp.StatusCode, data); classErr != nil {
		return result, classErr
	}
	return result, nil
}

// classifyTransportError maps a failed round trip onto an *Error. Errors
// raised by the request pipeline keep their own classification.
func classifyTransportError(ctx context.Context, err error) *Error {
	var e *Error
	if errors.As(err, &e) {
		return e
	}
	var netErr net.Error
	if ctx.Err() != nil || (errors.As(err, &netErr) && netErr.Timeout()) {
		return NewTimeoutError(err)
	}
	return NewConnectionError(err)
}

func parseAbsoluteURL(raw string) (*url.URL, error) {
	u, err := url.Parse(raw)
	if err != nil {
		return nil, NewValidationError(fmt.Sprintf("invalid URL %q: %v", raw, err))
	}
	if !u.IsAbs() || u.Host == "" {
		return nil, NewValidationError(fmt.Sprintf("URL %q is not absolute", raw))
	}
	return u, nil
}
