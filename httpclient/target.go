package httpclient

import (
	"context"
	"net/http"
	"net/url"
	"strings"
)

// Target is a client bound to a base URL. It is immutable: Path, Query and
// Header return new targets and leave the receiver unchanged.
type Target struct {
	client  *Client
	name    string
	base    *url.URL
	query   url.Values
	headers http.Header
}

// Name returns the name of the target, empty for targets derived from an
// unbound client.
func (t *Target) Name() string {
	return t.name
}

// Client returns the client the target sends requests through.
func (t *Target) Client() *Client {
	return t.client
}

// Path returns a target whose URL has the segments appended.
func (t *Target) Path(segments ...string) *Target {
	parts := make([]string, 0, len(segments))
	for _, s := range segments {
		if s = strings.Trim(s, "/"); s != "" {
			parts = append(parts, s)
		}
	}
	cp := t.clone()
	if len(parts) > 0 {
		cp.base = t.base.JoinPath(parts...)
	}
	return cp
}

// Query returns a target that adds the query parameter to every request.
func (t *Target) Query(key, value string) *Target {
	cp := t.clone()
	cp.query.Add(key, value)
	return cp
}

// Header returns a target that sends the header with every request.
func (t *Target) Header(key, value string) *Target {
	cp := t.clone()
	cp.headers.Set(key, value)
	return cp
}

// URL returns the full URL of the target including query parameters.
func (t *Target) URL() string {
	return t.url().String()
}

// Do executes req against the target. A non-empty req.Path is appended to
// the target URL.
func (t *Target) Do(ctx context.Context, req Request) (*Response, error) {
	tt := t
	if req.Path != "" {
		tt = t.Path(req.Path)
	}
	return t.client.execute(ctx, tt.url(), t.headers, req)
}

// Get sends a GET request to the target.
func (t *Target) Get(ctx context.Context, opts ...RequestOption) (*Response, error) {
	return t.Do(ctx, newRequest(http.MethodGet, nil, opts))
}

// Post sends a POST request with body to the target.
func (t *Target) Post(ctx context.Context, body any, opts ...RequestOption) (*Response, error) {
	return t.Do(ctx, newRequest(http.MethodPost, body, opts))
}

// Put sends a PUT request with body to the target.
func (t *Target) Put(ctx context.Context, body any, opts ...RequestOption) (*Response, error) {
	return t.Do(ctx, newRequest(http.MethodPut, body, opts))
}

// Patch sends a PATCH request with body to the target.
func (t *Target) Patch(ctx context.Context, body any, opts ...RequestOption) (*Response, error) {
	return t.Do(ctx, newRequest(http.MethodPatch, body, opts))
}

// Delete sends a DELETE request to the target.
func (t *Target) Delete(ctx context.Context, opts ...RequestOption) (*Response, error) {
	return t.Do(ctx, newRequest(http.MethodDelete, nil, opts))
}

func (t *Target) url() *url.URL {
	u := *t.base
	u.RawQuery = t.query.Encode()
	return &u
}

func (t *Target) clone() *Target {
	cp := *t
	cp.query = url.Values{}
	for k, vs := range t.query {
		cp.query[k] = append([]string(nil), vs...)
	}
	cp.headers = t.headers.Clone()
	return &cp
}

func newRequest(method string, body any, opts []RequestOption) Request {
	req := Request{Method: method, Body: body}
	for _, opt := range opts {
		opt(&req)
	}
	return req
}
