package httpclient

import (
	"net/http"

	"github.com/kbukum/httptargets/di"
)

// BasicAuth sends HTTP Basic credentials.
type BasicAuth struct {
	Username string `mapstructure:"username" validate:"required"`
	Password string `mapstructure:"password"`
}

func newBasicAuth(def AuthConfig) (Authenticator, error) {
	a := &BasicAuth{}
	if err := DecodeAuthParams(def, a); err != nil {
		return nil, err
	}
	return a, nil
}

// Type implements Authenticator.
func (a *BasicAuth) Type() string { return AuthTypeBasic }

// Filter implements Authenticator.
func (a *BasicAuth) Filter(di.Container) (RequestFilter, error) {
	return func(req *http.Request) error {
		req.SetBasicAuth(a.Username, a.Password)
		return nil
	}, nil
}
