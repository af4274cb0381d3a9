package httpclient

import (
	"context"
	"net/http"
)

// TypedResponse wraps a response with a decoded body of type T.
type TypedResponse[T any] struct {
	// StatusCode is the HTTP status code.
	StatusCode int
	// Headers are the response headers.
	Headers http.Header
	// Data is the decoded response body.
	Data T
}

// Get performs a GET request on path below t and decodes the response
// into type T.
func Get[T any](ctx context.Context, t *Target, path string, opts ...RequestOption) (*TypedResponse[T], error) {
	return doTyped[T](ctx, t, http.MethodGet, path, nil, opts...)
}

// Post performs a POST request with a JSON body and decodes the response
// into type T.
func Post[T any](ctx context.Context, t *Target, path string, body any, opts ...RequestOption) (*TypedResponse[T], error) {
	return doTyped[T](ctx, t, http.MethodPost, path, body, opts...)
}

// Put performs a PUT request with a JSON body and decodes the response
// into type T.
func Put[T any](ctx context.Context, t *Target, path string, body any, opts ...RequestOption) (*TypedResponse[T], error) {
	return doTyped[T](ctx, t, http.MethodPut, path, body, opts...)
}

// Patch performs a PATCH request with a JSON body and decodes the response
// into type T.
func Patch[T any](ctx context.Context, t *Target, path string, body any, opts ...RequestOption) (*TypedResponse[T], error) {
	return doTyped[T](ctx, t, http.MethodPatch, path, body, opts...)
}

// Delete performs a DELETE request and decodes the response into type T.
func Delete[T any](ctx context.Context, t *Target, path string, opts ...RequestOption) (*TypedResponse[T], error) {
	return doTyped[T](ctx, t, http.MethodDelete, path, nil, opts...)
}

// doTyped executes a request and decodes the body with Response.ReadEntity,
// so entity readers registered by features apply.
func doTyped[T any](ctx context.Context, t *Target, method, path string, body any, opts ...RequestOption) (*TypedResponse[T], error) {
	req := newRequest(method, body, opts)
	req.Path = path

	resp, err := t.Do(ctx, req)
	if err != nil {
		// Error responses are still decoded when the body fits T.
		if resp != nil {
			var data T
			if len(resp.Body) > 0 && resp.ReadEntity(&data) == nil {
				return &TypedResponse[T]{
					StatusCode: resp.StatusCode,
					Headers:    resp.Headers,
					Data:       data,
				}, err
			}
		}
		return nil, err
	}

	var data T
	if len(resp.Body) > 0 {
		if err := resp.ReadEntity(&data); err != nil {
			return nil, err
		}
	}

	return &TypedResponse[T]{
		StatusCode: resp.StatusCode,
		Headers:    resp.Headers,
		Data:       data,
	}, nil
}
