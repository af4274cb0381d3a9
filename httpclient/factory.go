package httpclient

import (
	"crypto/tls"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"golang.org/x/net/http2"

	"github.com/kbukum/httptargets/di"
	"github.com/kbukum/httptargets/logger"
)

const dialKeepAlive = 30 * time.Second

// clientFactory turns effective configurations into clients. It owns the
// global transport settings and the registered features.
type clientFactory struct {
	global     Config
	features   []Feature
	components di.Container
	log        *logger.Logger
}

// build creates a client for ec. Every registered feature is applied.
func (f *clientFactory) build(ec EffectiveConfig) (*Client, error) {
	transport, err := f.newTransport(ec)
	if err != nil {
		return nil, NewClientBuildError("configure transport", err)
	}

	fc := &FeatureContext{
		Components: f.components,
		Logger:     f.log,
		Target:     ec.Target,
	}
	for _, feature := range f.features {
		if err := feature.Configure(fc); err != nil {
			transport.CloseIdleConnections()
			return nil, NewClientBuildError(fmt.Sprintf("configure feature %q", feature.Name()), err)
		}
	}

	var next http.RoundTripper = transport
	for i := len(fc.wrappers) - 1; i >= 0; i-- {
		next = fc.wrappers[i](next)
	}

	return &Client{
		name: ec.Target,
		http: &http.Client{
			Transport: &pipeline{
				next:            next,
				headers:         ec.Headers,
				auth:            ec.AuthFilter,
				compression:     ec.Compression,
				requestFilters:  fc.requestFilters,
				responseFilters: fc.responseFilters,
			},
			Timeout:       ec.Timeout,
			CheckRedirect: redirectPolicy(ec.FollowRedirects, f.global.MaxRedirects),
		},
		transport: transport,
		readers:   fc.readers,
		config:    ec,
	}, nil
}

// newTransport clones the default transport and applies the trust
// material, dial settings and HTTP/2 configuration.
func (f *clientFactory) newTransport(ec EffectiveConfig) (*http.Transport, error) {
	base, ok := http.DefaultTransport.(*http.Transport)
	if !ok {
		return nil, errors.New("http.DefaultTransport is not an *http.Transport")
	}
	t := base.Clone()

	dialer := &net.Dialer{
		Timeout:   f.global.ConnectTimeout,
		KeepAlive: dialKeepAlive,
	}
	t.DialContext = dialer.DialContext
	// Compression is negotiated by the pipeline so the header stays visible.
	t.DisableCompression = true
	if f.global.MaxIdleConnsPerHost > 0 {
		t.MaxIdleConnsPerHost = f.global.MaxIdleConnsPerHost
	}
	if ec.TLS != nil {
		t.TLSClientConfig = ec.TLS.Clone()
	}

	if f.global.HTTP2.Disabled {
		t.ForceAttemptHTTP2 = false
		t.TLSNextProto = map[string]func(string, *tls.Conn) http.RoundTripper{}
		return t, nil
	}

	t.TLSNextProto = nil
	h2, err := http2.ConfigureTransports(t)
	if err != nil {
		return nil, fmt.Errorf("configure http2: %w", err)
	}
	h2.ReadIdleTimeout = f.global.HTTP2.ReadIdleTimeout
	h2.PingTimeout = f.global.HTTP2.PingTimeout
	return t, nil
}

// redirectPolicy returns the CheckRedirect function for a client. When
// redirects are not followed the 3xx response is returned as is.
func redirectPolicy(follow bool, maxRedirects int) func(*http.Request, []*http.Request) error {
	if !follow {
		return func(*http.Request, []*http.Request) error {
			return http.ErrUseLastResponse
		}
	}
	if maxRedirects <= 0 {
		maxRedirects = defaultMaxRedirects
	}
	return func(_ *http.Request, via []*http.Request) error {
		if len(via) >= maxRedirects {
			return fmt.Errorf("stopped after %d redirects", maxRedirects)
		}
		return nil
	}
}
