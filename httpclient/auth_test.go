package httpclient

import (
	"crypto/rand"
	"crypto/rsa"
	"crypto/x509"
	"encoding/json"
	"encoding/pem"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	gojwt "github.com/golang-jwt/jwt/v5"

	"github.com/kbukum/httptargets/di"
)

func applyAuth(t *testing.T, def AuthConfig, components di.Container) *http.Request {
	t.Helper()
	factory, ok := NewAuthTypes().Lookup(def.Type())
	if !ok {
		t.Fatalf("no factory for %q", def.Type())
	}
	a, err := factory(def)
	if err != nil {
		t.Fatalf("factory error: %v", err)
	}
	if components == nil {
		components = di.NewContainer()
	}
	filter, err := a.Filter(components)
	if err != nil {
		t.Fatalf("Filter() error: %v", err)
	}
	req, _ := http.NewRequest(http.MethodGet, "http://example.com/path", nil)
	if err := filter(req); err != nil {
		t.Fatalf("filter error: %v", err)
	}
	return req
}

func TestBasicAuth(t *testing.T) {
	req := applyAuth(t, AuthConfig{"type": "basic", "username": "u", "password": "p"}, nil)
	if got := req.Header.Get("Authorization"); got != "Basic dTpw" {
		t.Errorf("expected Basic dTpw, got %q", got)
	}
}

func TestBearerAuth(t *testing.T) {
	req := applyAuth(t, AuthConfig{"type": "bearer", "token": "my-token"}, nil)
	if got := req.Header.Get("Authorization"); got != "Bearer my-token" {
		t.Errorf("expected 'Bearer my-token', got %q", got)
	}
}

func TestAPIKeyAuth_Header(t *testing.T) {
	req := applyAuth(t, AuthConfig{"type": "api_key", "key": "secret"}, nil)
	if got := req.Header.Get("X-API-Key"); got != "secret" {
		t.Errorf("expected X-API-Key=secret, got %q", got)
	}
}

func TestAPIKeyAuth_CustomHeader(t *testing.T) {
	req := applyAuth(t, AuthConfig{"type": "api_key", "key": "secret", "name": "X-Token"}, nil)
	if got := req.Header.Get("X-Token"); got != "secret" {
		t.Errorf("expected X-Token=secret, got %q", got)
	}
}

func TestAPIKeyAuth_Query(t *testing.T) {
	req := applyAuth(t, AuthConfig{"type": "api_key", "key": "secret", "name": "api_key", "in": "query"}, nil)
	if got := req.URL.Query().Get("api_key"); got != "secret" {
		t.Errorf("expected api_key=secret in query, got %q", got)
	}
}

func TestDecodeAuthParams_Errors(t *testing.T) {
	tests := []struct {
		name string
		def  AuthConfig
	}{
		{"unknown key", AuthConfig{"type": "basic", "username": "u", "user": "x"}},
		{"missing required", AuthConfig{"type": "bearer"}},
		{"bad enum", AuthConfig{"type": "api_key", "key": "k", "in": "cookie"}},
		{"bad token url", AuthConfig{"type": "oauth2", "token_url": "not a url", "client_id": "c"}},
	}
	types := NewAuthTypes()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			factory, _ := types.Lookup(tt.def.Type())
			if _, err := factory(tt.def); err == nil {
				t.Error("expected error")
			}
		})
	}
}

func newTokenServer(t *testing.T, calls *atomic.Int32) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		if err := r.ParseForm(); err != nil {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		if r.Form.Get("grant_type") != "client_credentials" {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		if id, secret, ok := r.BasicAuth(); !ok || id != "client" || secret != "s3cret" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]interface{}{
			"access_token": "access-" + r.Form.Get("scope"),
			"token_type":   "bearer",
			"expires_in":   3600,
		})
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestOAuth2Auth_ClientCredentials(t *testing.T) {
	var calls atomic.Int32
	srv := newTokenServer(t, &calls)

	a, err := newOAuth2Auth(AuthConfig{
		"type":          "oauth2",
		"token_url":     srv.URL + "/token",
		"client_id":     "client",
		"client_secret": "s3cret",
		"scopes":        "read",
		"auth_style":    "header",
	})
	if err != nil {
		t.Fatalf("factory error: %v", err)
	}
	filter, err := a.Filter(di.NewContainer())
	if err != nil {
		t.Fatal(err)
	}

	for i := 0; i < 3; i++ {
		req, _ := http.NewRequest(http.MethodGet, "http://example.com", nil)
		if err := filter(req); err != nil {
			t.Fatalf("filter error: %v", err)
		}
		if got := req.Header.Get("Authorization"); got != "Bearer access-read" {
			t.Errorf("expected Bearer access-read, got %q", got)
		}
	}
	if got := calls.Load(); got != 1 {
		t.Errorf("expected one token request, got %d", got)
	}
}

func TestOAuth2Auth_TokenClientFromComponents(t *testing.T) {
	var calls atomic.Int32
	srv := newTokenServer(t, &calls)

	var used atomic.Bool
	tokenClient := &http.Client{Transport: roundTripperFunc(func(req *http.Request) (*http.Response, error) {
		used.Store(true)
		return http.DefaultTransport.RoundTrip(req)
	})}
	components := di.NewContainer()
	if err := components.RegisterSingleton("token_http", tokenClient); err != nil {
		t.Fatal(err)
	}

	req := applyAuth(t, AuthConfig{
		"type":          "oauth2",
		"token_url":     srv.URL,
		"client_id":     "client",
		"client_secret": "s3cret",
		"auth_style":    "header",
		"token_client":  "token_http",
	}, components)

	if req.Header.Get("Authorization") == "" {
		t.Error("expected a bearer token")
	}
	if !used.Load() {
		t.Error("expected the registered token client to be used")
	}
}

func TestOAuth2Auth_MissingTokenClient(t *testing.T) {
	a, err := newOAuth2Auth(AuthConfig{
		"type":         "oauth2",
		"token_url":    "http://example.com/token",
		"client_id":    "client",
		"token_client": "missing",
	})
	if err != nil {
		t.Fatal(err)
	}
	if _, err := a.Filter(di.NewContainer()); err == nil {
		t.Fatal("expected error for an unregistered token client")
	}
}

func TestOAuth2Auth_TokenFailure(t *testing.T) {
	var calls atomic.Int32
	srv := newTokenServer(t, &calls)

	a, err := newOAuth2Auth(AuthConfig{
		"type":          "oauth2",
		"token_url":     srv.URL,
		"client_id":     "client",
		"client_secret": "wrong",
		"auth_style":    "header",
	})
	if err != nil {
		t.Fatal(err)
	}
	filter, err := a.Filter(di.NewContainer())
	if err != nil {
		t.Fatal(err)
	}
	req, _ := http.NewRequest(http.MethodGet, "http://example.com", nil)
	if err := filter(req); err == nil {
		t.Fatal("expected token request to fail")
	}
}

func TestJWTAuth_HMAC(t *testing.T) {
	a, err := newJWTAuth(AuthConfig{
		"type":     "jwt",
		"secret":   "signing-key",
		"issuer":   "httptargets",
		"subject":  "svc",
		"audience": "api",
		"ttl":      "10m",
		"claims":   map[string]interface{}{"role": "reader"},
	})
	if err != nil {
		t.Fatalf("factory error: %v", err)
	}
	filter, err := a.Filter(di.NewContainer())
	if err != nil {
		t.Fatal(err)
	}
	req, _ := http.NewRequest(http.MethodGet, "http://example.com", nil)
	if err := filter(req); err != nil {
		t.Fatal(err)
	}

	raw := req.Header.Get("Authorization")
	if len(raw) < 8 || raw[:7] != "Bearer " {
		t.Fatalf("expected bearer header, got %q", raw)
	}
	token, err := gojwt.Parse(raw[7:], func(*gojwt.Token) (interface{}, error) {
		return []byte("signing-key"), nil
	}, gojwt.WithValidMethods([]string{"HS256"}), gojwt.WithIssuer("httptargets"), gojwt.WithAudience("api"))
	if err != nil {
		t.Fatalf("token does not verify: %v", err)
	}
	claims := token.Claims.(gojwt.MapClaims)
	if claims["sub"] != "svc" || claims["role"] != "reader" {
		t.Errorf("unexpected claims %v", claims)
	}
	exp, _ := claims.GetExpirationTime()
	if d := time.Until(exp.Time); d < 9*time.Minute || d > 10*time.Minute {
		t.Errorf("expected ttl near 10m, got %v", d)
	}
}

func TestJWTAuth_CachesUntilExpiry(t *testing.T) {
	a, err := newJWTAuth(AuthConfig{"type": "jwt", "secret": "k", "ttl": "1m"})
	if err != nil {
		t.Fatal(err)
	}
	j := a.(*JWTAuth)
	now := time.Unix(1_700_000_000, 0)
	j.now = func() time.Time { return now }

	first, err := j.current()
	if err != nil {
		t.Fatal(err)
	}
	now = now.Add(20 * time.Second)
	second, err := j.current()
	if err != nil {
		t.Fatal(err)
	}
	if first != second {
		t.Error("expected cached token before the renewal window")
	}

	now = now.Add(20 * time.Second)
	third, err := j.current()
	if err != nil {
		t.Fatal(err)
	}
	if third == first {
		t.Error("expected a new token inside the renewal window")
	}
}

func TestJWTAuth_RSA(t *testing.T) {
	key, err := rsa.GenerateKey(rand.Reader, 2048)
	if err != nil {
		t.Fatal(err)
	}
	path := filepath.Join(t.TempDir(), "key.pem")
	data := pem.EncodeToMemory(&pem.Block{Type: "RSA PRIVATE KEY", Bytes: x509.MarshalPKCS1PrivateKey(key)})
	if err := os.WriteFile(path, data, 0o600); err != nil {
		t.Fatal(err)
	}

	req := applyAuth(t, AuthConfig{
		"type":             "jwt",
		"method":           "RS256",
		"private_key_file": path,
		"header":           "X-Service-Token",
	}, nil)

	raw := req.Header.Get("X-Service-Token")
	if _, err := gojwt.Parse(raw, func(*gojwt.Token) (interface{}, error) {
		return &key.PublicKey, nil
	}, gojwt.WithValidMethods([]string{"RS256"})); err != nil {
		t.Fatalf("token does not verify: %v", err)
	}
}

func TestJWTAuth_InvalidDefinitions(t *testing.T) {
	tests := []struct {
		name string
		def  AuthConfig
	}{
		{"missing secret", AuthConfig{"type": "jwt"}},
		{"missing rsa key", AuthConfig{"type": "jwt", "method": "RS256"}},
		{"unreadable rsa key", AuthConfig{"type": "jwt", "method": "RS256", "private_key_file": "/nonexistent/key.pem"}},
		{"unsupported method", AuthConfig{"type": "jwt", "method": "ES256", "secret": "k"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := newJWTAuth(tt.def); err == nil {
				t.Error("expected error")
			}
		})
	}
}
