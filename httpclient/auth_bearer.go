package httpclient

import (
	"net/http"

	"github.com/kbukum/httptargets/di"
)

// BearerAuth sends a static bearer token.
type BearerAuth struct {
	Token string `mapstructure:"token" validate:"required"`
}

func newBearerAuth(def AuthConfig) (Authenticator, error) {
	a := &BearerAuth{}
	if err := DecodeAuthParams(def, a); err != nil {
		return nil, err
	}
	return a, nil
}

// Type implements Authenticator.
func (a *BearerAuth) Type() string { return AuthTypeBearer }

// Filter implements Authenticator.
func (a *BearerAuth) Filter(di.Container) (RequestFilter, error) {
	value := "Bearer " + a.Token
	return func(req *http.Request) error {
		req.Header.Set("Authorization", value)
		return nil
	}, nil
}
