package httpclient

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/clientcredentials"

	"github.com/kbukum/httptargets/di"
)

// OAuth2Auth obtains access tokens with the client credentials grant and
// sends them as bearer tokens. Tokens are cached until shortly before
// they expire.
type OAuth2Auth struct {
	TokenURL     string            `mapstructure:"token_url" validate:"required,url"`
	ClientID     string            `mapstructure:"client_id" validate:"required"`
	ClientSecret string            `mapstructure:"client_secret"`
	Scopes       []string          `mapstructure:"scopes"`
	Params       map[string]string `mapstructure:"params"`
	// AuthStyle is "header" (HTTP Basic), "params" (form body) or empty to
	// auto-detect.
	AuthStyle string `mapstructure:"auth_style" validate:"omitempty,oneof=header params"`
	// TokenClient names an *http.Client in the component registry used to
	// call the token endpoint.
	TokenClient string `mapstructure:"token_client"`
}

func newOAuth2Auth(def AuthConfig) (Authenticator, error) {
	a := &OAuth2Auth{}
	if err := DecodeAuthParams(def, a); err != nil {
		return nil, err
	}
	return a, nil
}

// Type implements Authenticator.
func (a *OAuth2Auth) Type() string { return AuthTypeOAuth2 }

// Filter implements Authenticator. It resolves the token client from
// components when one is configured.
func (a *OAuth2Auth) Filter(components di.Container) (RequestFilter, error) {
	ctx := context.Background()
	if a.TokenClient != "" {
		client, err := di.Resolve[*http.Client](components, a.TokenClient)
		if err != nil {
			return nil, fmt.Errorf("oauth2 token client: %w", err)
		}
		ctx = context.WithValue(ctx, oauth2.HTTPClient, client)
	}

	cc := &clientcredentials.Config{
		ClientID:     a.ClientID,
		ClientSecret: a.ClientSecret,
		TokenURL:     a.TokenURL,
		Scopes:       a.Scopes,
		AuthStyle:    a.authStyle(),
	}
	if len(a.Params) > 0 {
		cc.EndpointParams = url.Values{}
		for k, v := range a.Params {
			cc.EndpointParams.Set(k, v)
		}
	}
	ts := cc.TokenSource(ctx)

	return func(req *http.Request) error {
		tok, err := ts.Token()
		if err != nil {
			return fmt.Errorf("oauth2: fetch token: %w", err)
		}
		tok.SetAuthHeader(req)
		return nil
	}, nil
}

func (a *OAuth2Auth) authStyle() oauth2.AuthStyle {
	switch a.AuthStyle {
	case "header":
		return oauth2.AuthStyleInHeader
	case "params":
		return oauth2.AuthStyleInParams
	default:
		return oauth2.AuthStyleAutoDetect
	}
}
