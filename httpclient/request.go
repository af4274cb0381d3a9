package httpclient

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
)

// Request describes an outbound HTTP request.
type Request struct {
	// Method is the HTTP method. Defaults to GET.
	Method string
	// Path is an absolute URL for Client.Do and a path relative to the
	// target URL for Target.Do.
	Path string
	// Headers override target and default headers.
	Headers map[string]string
	// Query parameters are added to those of the target.
	Query map[string]string
	// Body accepts io.Reader, []byte, string, or any value that will be
	// JSON-encoded.
	Body any
}

// RequestOption configures a single request.
type RequestOption func(*Request)

// WithHeader adds a header to the request.
func WithHeader(key, value string) RequestOption {
	return func(r *Request) {
		if r.Headers == nil {
			r.Headers = make(map[string]string)
		}
		r.Headers[key] = value
	}
}

// WithQueryParam adds a query parameter to the request.
func WithQueryParam(key, value string) RequestOption {
	return func(r *Request) {
		if r.Query == nil {
			r.Query = make(map[string]string)
		}
		r.Query[key] = value
	}
}

// Response is the result of an HTTP request. The body is fully read and,
// when compression is on, already decompressed.
type Response struct {
	// StatusCode is the HTTP status code.
	StatusCode int
	// Headers are the response headers.
	Headers http.Header
	// Body is the response body.
	Body []byte

	readers []EntityReader
}

// IsSuccess returns true if the status code is 2xx.
func (r *Response) IsSuccess() bool {
	return r.StatusCode >= 200 && r.StatusCode < 300
}

// IsRedirect returns true if the status code is 3xx.
func (r *Response) IsRedirect() bool {
	return r.StatusCode >= 300 && r.StatusCode < 400
}

// IsError returns true if the status code is 4xx or 5xx.
func (r *Response) IsError() bool {
	return r.StatusCode >= 400
}

// String returns the body as a string.
func (r *Response) String() string {
	return string(r.Body)
}

// ReadEntity decodes the body into v. Entity readers registered by
// features are tried first; then *string and *[]byte receive the raw body
// and anything else is decoded as JSON.
func (r *Response) ReadEntity(v any) error {
	for _, reader := range r.readers {
		handled, err := reader.ReadEntity(r, v)
		if err != nil {
			return NewDecodeError(err)
		}
		if handled {
			return nil
		}
	}

	switch dst := v.(type) {
	case *string:
		*dst = string(r.Body)
	case *[]byte:
		*dst = append([]byte(nil), r.Body...)
	default:
		if len(r.Body) == 0 {
			return NewDecodeError(errors.New("empty body"))
		}
		if err := json.Unmarshal(r.Body, v); err != nil {
			return NewDecodeError(err)
		}
	}
	return nil
}

// encodeBody converts a body value into an io.Reader and content type.
func encodeBody(body any) (io.Reader, string, error) {
	if body == nil {
		return nil, "", nil
	}
	switch v := body.(type) {
	case io.Reader:
		return v, "", nil
	case []byte:
		return bytes.NewReader(v), "", nil
	case string:
		return strings.NewReader(v), "text/plain", nil
	default:
		data, err := json.Marshal(v)
		if err != nil {
			return nil, "", fmt.Errorf("encode body: %w", err)
		}
		return bytes.NewReader(data), "application/json", nil
	}
}
