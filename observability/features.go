package observability

import (
	"net/http"
	"strconv"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"

	"github.com/kbukum/httptargets/httpclient"
)

// Span and metric attribute keys.
const (
	AttrTarget         = "http.target.name"
	AttrHTTPMethod     = "http.request.method"
	AttrURL            = "url.full"
	AttrServerAddress  = "server.address"
	AttrHTTPStatusCode = "http.response.status_code"
	AttrStatus         = "status"
)

// FeatureOption configures TracingFeature and MetricsFeature.
type FeatureOption func(*featureOptions)

type featureOptions struct {
	tracerProvider trace.TracerProvider
	meterProvider  metric.MeterProvider
	propagator     propagation.TextMapPropagator
}

// WithTracerProvider sets the provider spans are created from.
// Defaults to the global provider.
func WithTracerProvider(tp trace.TracerProvider) FeatureOption {
	return func(o *featureOptions) { o.tracerProvider = tp }
}

// WithMeterProvider sets the provider instruments are created from.
// Defaults to the global provider.
func WithMeterProvider(mp metric.MeterProvider) FeatureOption {
	return func(o *featureOptions) { o.meterProvider = mp }
}

// WithPropagator sets the propagator used to inject trace context into
// outgoing headers. Defaults to the global propagator.
func WithPropagator(p propagation.TextMapPropagator) FeatureOption {
	return func(o *featureOptions) { o.propagator = p }
}

func newFeatureOptions(opts []FeatureOption) featureOptions {
	o := featureOptions{}
	for _, opt := range opts {
		opt(&o)
	}
	if o.tracerProvider == nil {
		o.tracerProvider = otel.GetTracerProvider()
	}
	if o.meterProvider == nil {
		o.meterProvider = otel.GetMeterProvider()
	}
	if o.propagator == nil {
		o.propagator = otel.GetTextMapPropagator()
	}
	return o
}

// TracingFeature starts a client span around every network round trip and
// propagates its context in the request headers. Redirect hops get one
// span each. The span ends once response headers arrive.
func TracingFeature(opts ...FeatureOption) httpclient.Feature {
	o := newFeatureOptions(opts)
	tracer := o.tracerProvider.Tracer(instrumentationName)

	return httpclient.NewFeature("tracing", func(fc *httpclient.FeatureContext) error {
		target := fc.Target
		fc.WrapTransport(func(next http.RoundTripper) http.RoundTripper {
			return roundTripperFunc(func(req *http.Request) (*http.Response, error) {
				attrs := []attribute.KeyValue{
					attribute.String(AttrHTTPMethod, req.Method),
					attribute.String(AttrURL, req.URL.Redacted()),
					attribute.String(AttrServerAddress, req.URL.Hostname()),
				}
				if target != "" {
					attrs = append(attrs, attribute.String(AttrTarget, target))
				}

				ctx, span := tracer.Start(req.Context(), "HTTP "+req.Method,
					trace.WithSpanKind(trace.SpanKindClient),
					trace.WithAttributes(attrs...),
				)
				defer span.End()

				req = req.Clone(ctx)
				o.propagator.Inject(ctx, propagation.HeaderCarrier(req.Header))

				resp, err := next.RoundTrip(req)
				if err != nil {
					span.RecordError(err)
					span.SetStatus(codes.Error, err.Error())
					return nil, err
				}

				span.SetAttributes(attribute.Int(AttrHTTPStatusCode, resp.StatusCode))
				if resp.StatusCode >= http.StatusBadRequest {
					span.SetStatus(codes.Error, http.StatusText(resp.StatusCode))
				}
				return resp, nil
			})
		})
		return nil
	})
}

// MetricsFeature records request count, duration and in-flight requests
// per target for every network round trip.
func MetricsFeature(opts ...FeatureOption) httpclient.Feature {
	o := newFeatureOptions(opts)

	return httpclient.NewFeature("metrics", func(fc *httpclient.FeatureContext) error {
		metrics, err := NewClientMetrics(o.meterProvider.Meter(instrumentationName))
		if err != nil {
			return err
		}

		target := fc.Target
		fc.WrapTransport(func(next http.RoundTripper) http.RoundTripper {
			return roundTripperFunc(func(req *http.Request) (*http.Response, error) {
				ctx := req.Context()
				metrics.RecordStart(ctx, target)
				start := time.Now()

				resp, err := next.RoundTrip(req)
				status := "error"
				if err == nil {
					status = strconv.Itoa(resp.StatusCode)
				}
				metrics.RecordEnd(ctx, target, req.Method, status, time.Since(start))
				return resp, err
			})
		})
		return nil
	})
}

type roundTripperFunc func(*http.Request) (*http.Response, error)

func (f roundTripperFunc) RoundTrip(req *http.Request) (*http.Response, error) {
	return f(req)
}
