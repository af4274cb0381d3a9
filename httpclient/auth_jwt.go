package httpclient

import (
	"fmt"
	"net/http"
	"os"
	"sync"
	"time"

	gojwt "github.com/golang-jwt/jwt/v5"

	"github.com/kbukum/httptargets/di"
)

const (
	defaultJWTTTL    = 5 * time.Minute
	jwtRenewalLeeway = 30 * time.Second
)

// JWTAuth signs a short-lived service token and sends it as a bearer
// token. The signed token is reused until it is close to expiry.
type JWTAuth struct {
	// Method is HS256, HS384, HS512, RS256, RS384 or RS512.
	Method string `mapstructure:"method" validate:"omitempty,oneof=HS256 HS384 HS512 RS256 RS384 RS512"`
	// Secret is the HMAC key for HS* methods.
	Secret string `mapstructure:"secret"`
	// PrivateKeyFile is a PEM encoded RSA key for RS* methods.
	PrivateKeyFile string                 `mapstructure:"private_key_file"`
	Issuer         string                 `mapstructure:"issuer"`
	Subject        string                 `mapstructure:"subject"`
	Audience       []string               `mapstructure:"audience"`
	TTL            time.Duration          `mapstructure:"ttl" validate:"gte=0"`
	Claims         map[string]interface{} `mapstructure:"claims"`
	// Header carries the token. Defaults to Authorization with a Bearer prefix.
	Header string `mapstructure:"header"`

	method gojwt.SigningMethod
	key    interface{}
	now    func() time.Time

	mu      sync.Mutex
	token   string
	expires time.Time
}

func newJWTAuth(def AuthConfig) (Authenticator, error) {
	a := &JWTAuth{}
	if err := DecodeAuthParams(def, a); err != nil {
		return nil, err
	}
	if a.Method == "" {
		a.Method = "HS256"
	}
	if a.TTL == 0 {
		a.TTL = defaultJWTTTL
	}
	if a.Header == "" {
		a.Header = "Authorization"
	}
	a.now = time.Now
	a.method = gojwt.GetSigningMethod(a.Method)

	switch a.method.(type) {
	case *gojwt.SigningMethodHMAC:
		if a.Secret == "" {
			return nil, fmt.Errorf("jwt: secret is required for %s", a.Method)
		}
		a.key = []byte(a.Secret)
	case *gojwt.SigningMethodRSA:
		if a.PrivateKeyFile == "" {
			return nil, fmt.Errorf("jwt: private_key_file is required for %s", a.Method)
		}
		data, err := os.ReadFile(a.PrivateKeyFile)
		if err != nil {
			return nil, fmt.Errorf("jwt: read private key: %w", err)
		}
		key, err := gojwt.ParseRSAPrivateKeyFromPEM(data)
		if err != nil {
			return nil, fmt.Errorf("jwt: parse private key: %w", err)
		}
		a.key = key
	default:
		return nil, fmt.Errorf("jwt: unsupported method %s", a.Method)
	}
	return a, nil
}

// Type implements Authenticator.
func (a *JWTAuth) Type() string { return AuthTypeJWT }

// Filter implements Authenticator.
func (a *JWTAuth) Filter(di.Container) (RequestFilter, error) {
	return func(req *http.Request) error {
		token, err := a.current()
		if err != nil {
			return err
		}
		if a.Header == "Authorization" {
			token = "Bearer " + token
		}
		req.Header.Set(a.Header, token)
		return nil
	}, nil
}

// current returns the cached token or signs a new one.
func (a *JWTAuth) current() (string, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	now := a.now()
	if a.token != "" && now.Add(jwtRenewalLeeway).Before(a.expires) {
		return a.token, nil
	}

	expires := now.Add(a.TTL)
	claims := gojwt.MapClaims{}
	for k, v := range a.Claims {
		claims[k] = v
	}
	claims["iat"] = now.Unix()
	claims["exp"] = expires.Unix()
	if a.Issuer != "" {
		claims["iss"] = a.Issuer
	}
	if a.Subject != "" {
		claims["sub"] = a.Subject
	}
	if len(a.Audience) > 0 {
		claims["aud"] = a.Audience
	}

	signed, err := gojwt.NewWithClaims(a.method, claims).SignedString(a.key)
	if err != nil {
		return "", fmt.Errorf("jwt: sign token: %w", err)
	}
	a.token, a.expires = signed, expires
	return signed, nil
}
