package httpclient

import (
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/kbukum/httptargets/di"
	"github.com/kbukum/httptargets/logger"
)

// ResponseFilter inspects a response before it is returned to the caller.
// The body has already been decoded when compression is on.
type ResponseFilter func(req *http.Request, resp *http.Response) error

// TransportWrapper decorates the network round tripper of a client.
type TransportWrapper func(next http.RoundTripper) http.RoundTripper

// EntityReader converts a response body into v. It reports false when it
// does not handle the type of v.
type EntityReader interface {
	ReadEntity(resp *Response, v interface{}) (handled bool, err error)
}

// EntityReaderFunc adapts a function to EntityReader.
type EntityReaderFunc func(resp *Response, v interface{}) (bool, error)

// ReadEntity implements EntityReader.
func (f EntityReaderFunc) ReadEntity(resp *Response, v interface{}) (bool, error) {
	return f(resp, v)
}

// Feature is registered globally and configures every client built by an
// HTTPTargets instance.
type Feature interface {
	Name() string
	Configure(fc *FeatureContext) error
}

// FeatureContext collects what a Feature contributes to one client.
type FeatureContext struct {
	// Components is the application component registry.
	Components di.Container
	// Logger is the httpclient component logger.
	Logger *logger.Logger
	// Target is the target name, empty for unbound clients.
	Target string

	requestFilters  []RequestFilter
	responseFilters []ResponseFilter
	readers         []EntityReader
	wrappers        []TransportWrapper
}

// AddRequestFilter appends a filter run after authentication and
// compression negotiation.
func (fc *FeatureContext) AddRequestFilter(f RequestFilter) {
	fc.requestFilters = append(fc.requestFilters, f)
}

// AddResponseFilter appends a filter run on every response.
func (fc *FeatureContext) AddResponseFilter(f ResponseFilter) {
	fc.responseFilters = append(fc.responseFilters, f)
}

// AddEntityReader registers a reader consulted by Response.ReadEntity
// before the built-in decoding.
func (fc *FeatureContext) AddEntityReader(r EntityReader) {
	fc.readers = append(fc.readers, r)
}

// WrapTransport adds a round tripper decorator. The first wrapper added is
// the outermost.
func (fc *FeatureContext) WrapTransport(w TransportWrapper) {
	fc.wrappers = append(fc.wrappers, w)
}

type featureFunc struct {
	name      string
	configure func(*FeatureContext) error
}

func (f featureFunc) Name() string                       { return f.name }
func (f featureFunc) Configure(fc *FeatureContext) error { return f.configure(fc) }

// NewFeature creates a Feature from a configure function.
func NewFeature(name string, configure func(fc *FeatureContext) error) Feature {
	return featureFunc{name: name, configure: configure}
}

// DefaultRequestIDHeader is the header set by RequestIDFeature.
const DefaultRequestIDHeader = "X-Request-ID"

// RequestIDFeature sets a random request id on requests that carry none.
// An empty header uses DefaultRequestIDHeader.
func RequestIDFeature(header string) Feature {
	if header == "" {
		header = DefaultRequestIDHeader
	}
	return NewFeature("request-id", func(fc *FeatureContext) error {
		fc.AddRequestFilter(func(req *http.Request) error {
			if req.Header.Get(header) == "" {
				req.Header.Set(header, uuid.NewString())
			}
			return nil
		})
		return nil
	})
}

// LoggingFeature logs every exchange at debug level.
func LoggingFeature() Feature {
	return NewFeature("logging", func(fc *FeatureContext) error {
		log := fc.Logger
		if fc.Target != "" {
			log = log.WithFields(logger.Fields(logger.FieldTarget, fc.Target))
		}
		fc.WrapTransport(func(next http.RoundTripper) http.RoundTripper {
			return roundTripperFunc(func(req *http.Request) (*http.Response, error) {
				start := time.Now()
				resp, err := next.RoundTrip(req)
				fields := logger.Fields(
					logger.FieldMethod, req.Method,
					logger.FieldURL, req.URL.Redacted(),
					logger.FieldDuration, time.Since(start).Milliseconds(),
				)
				if err != nil {
					fields[logger.FieldError] = err.Error()
					log.Debug("request failed", fields)
					return nil, err
				}
				fields[logger.FieldStatus] = resp.StatusCode
				log.Debug("request completed", fields)
				return resp, nil
			})
		})
		return nil
	})
}

// roundTripperFunc adapts a function to http.RoundTripper.
type roundTripperFunc func(*http.Request) (*http.Response, error)

func (f roundTripperFunc) RoundTrip(req *http.Request) (*http.Response, error) {
	return f(req)
}
