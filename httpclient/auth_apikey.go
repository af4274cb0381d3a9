package httpclient

import (
	"net/http"

	"github.com/kbukum/httptargets/di"
)

const defaultAPIKeyName = "X-API-Key"

// APIKeyAuth sends a key in a header (default) or a query parameter.
type APIKeyAuth struct {
	Key string `mapstructure:"key" validate:"required"`
	// In is "header" or "query".
	In string `mapstructure:"in" validate:"omitempty,oneof=header query"`
	// Name is the header or query parameter name. Defaults to X-API-Key.
	Name string `mapstructure:"name"`
}

func newAPIKeyAuth(def AuthConfig) (Authenticator, error) {
	a := &APIKeyAuth{}
	if err := DecodeAuthParams(def, a); err != nil {
		return nil, err
	}
	if a.Name == "" {
		a.Name = defaultAPIKeyName
	}
	if a.In == "" {
		a.In = "header"
	}
	return a, nil
}

// Type implements Authenticator.
func (a *APIKeyAuth) Type() string { return AuthTypeAPIKey }

// Filter implements Authenticator.
func (a *APIKeyAuth) Filter(di.Container) (RequestFilter, error) {
	if a.In == "query" {
		return func(req *http.Request) error {
			q := req.URL.Query()
			q.Set(a.Name, a.Key)
			req.URL.RawQuery = q.Encode()
			return nil
		}, nil
	}
	return func(req *http.Request) error {
		req.Header.Set(a.Name, a.Key)
		return nil
	}, nil
}
