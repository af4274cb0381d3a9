package httpclient

import (
	"bytes"
	"io"
	"net/http"
	"strings"

	"github.com/klauspost/compress/gzip"
)

const encodingGzip = "gzip"

// pipeline is the outermost round tripper of a client. It runs, in order,
// default headers, the authenticator, compression negotiation and the
// feature filters before handing the request to the wrapped transport.
type pipeline struct {
	next            http.RoundTripper
	headers         http.Header
	auth            RequestFilter
	compression     bool
	requestFilters  []RequestFilter
	responseFilters []ResponseFilter
}

// RoundTrip implements http.RoundTripper.
func (p *pipeline) RoundTrip(req *http.Request) (*http.Response, error) {
	out := req.Clone(req.Context())
	for k, vs := range p.headers {
		if _, ok := out.Header[k]; !ok {
			out.Header[k] = append([]string(nil), vs...)
		}
	}

	if p.auth != nil && sameHost(out) {
		if err := p.auth(out); err != nil {
			closeBody(req)
			return nil, NewAuthError(err)
		}
	}

	negotiated := false
	if p.compression {
		if out.Header.Get("Accept-Encoding") == "" {
			out.Header.Set("Accept-Encoding", encodingGzip)
			negotiated = true
		}
		if strings.EqualFold(out.Header.Get("Content-Encoding"), encodingGzip) {
			if err := gzipRequestBody(out); err != nil {
				return nil, NewValidationError("compress request body: " + err.Error())
			}
		}
	}

	for _, f := range p.requestFilters {
		if err := f(out); err != nil {
			closeBody(req)
			return nil, err
		}
	}

	resp, err := p.next.RoundTrip(out)
	if err != nil {
		return nil, err
	}
	if negotiated {
		decodeGzipResponse(out, resp)
	}

	for _, f := range p.responseFilters {
		if err := f(out, resp); err != nil {
			_ = resp.Body.Close()
			return nil, err
		}
	}
	return resp, nil
}

// sameHost reports whether req goes to the host the redirect chain started
// at. Credentials are not sent across hosts.
func sameHost(req *http.Request) bool {
	first := req
	for first.Response != nil && first.Response.Request != nil {
		first = first.Response.Request
	}
	return strings.EqualFold(first.URL.Host, req.URL.Host)
}

func closeBody(req *http.Request) {
	if req.Body != nil {
		_ = req.Body.Close()
	}
}

// gzipRequestBody replaces the body of req with its gzip encoding.
func gzipRequestBody(req *http.Request) error {
	if req.Body == nil || req.Body == http.NoBody {
		return nil
	}
	raw, err := io.ReadAll(req.Body)
	_ = req.Body.Close()
	if err != nil {
		return err
	}

	var buf bytes.Buffer
	zw := gzip.NewWriter(&buf)
	if _, err := zw.Write(raw); err != nil {
		return err
	}
	if err := zw.Close(); err != nil {
		return err
	}

	data := buf.Bytes()
	req.Body = io.NopCloser(bytes.NewReader(data))
	req.ContentLength = int64(len(data))
	req.GetBody = func() (io.ReadCloser, error) {
		return io.NopCloser(bytes.NewReader(data)), nil
	}
	req.Header.Del("Content-Length")
	return nil
}

// decodeGzipResponse swaps a gzip body for a decompressing reader. The
// Content-Encoding header stays visible to callers.
func decodeGzipResponse(req *http.Request, resp *http.Response) {
	if req.Method == http.MethodHead || resp.Body == nil || resp.Body == http.NoBody {
		return
	}
	if resp.StatusCode == http.StatusNoContent || resp.StatusCode == http.StatusNotModified {
		return
	}
	if !strings.EqualFold(resp.Header.Get("Content-Encoding"), encodingGzip) {
		return
	}
	resp.Body = &gzipReader{body: resp.Body}
	resp.Header.Del("Content-Length")
	resp.ContentLength = -1
	resp.Uncompressed = true
}

// gzipReader decompresses lazily so an empty or unread body costs nothing.
type gzipReader struct {
	body io.ReadCloser
	zr   *gzip.Reader
	err  error
}

func (g *gzipReader) Read(p []byte) (int, error) {
	if g.zr == nil && g.err == nil {
		g.zr, g.err = gzip.NewReader(g.body)
	}
	if g.err != nil {
		return 0, g.err
	}
	return g.zr.Read(p)
}

func (g *gzipReader) Close() error {
	if g.zr != nil {
		_ = g.zr.Close()
	}
	return g.body.Close()
}
