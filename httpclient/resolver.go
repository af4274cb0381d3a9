package httpclient

import (
	"crypto/tls"
	"net/http"
	"time"

	"github.com/kbukum/httptargets/di"
)

// EffectiveConfig is the fully resolved configuration of one client. Every
// setting is concrete; nothing is left to inherit. A fresh value is
// produced by each resolution.
type EffectiveConfig struct {
	// Target is the target name, empty for unbound clients.
	Target string
	// URL is the target base URL, empty for unbound clients.
	URL string

	FollowRedirects bool
	Compression     bool
	Timeout         time.Duration

	// Auth is the authenticator name, empty when none applies.
	Auth string
	// AuthFilter is the bound authenticator, nil when Auth is empty.
	AuthFilter RequestFilter `json:"-"`

	// TrustStore is the trust store name, empty for platform roots.
	TrustStore string
	// TLS is the loaded trust material, nil for platform defaults.
	TLS *tls.Config `json:"-"`

	// Headers are the merged default headers.
	Headers http.Header
}

// Resolver merges global defaults with per-target overrides.
type Resolver struct {
	global     Config
	targets    *TargetRegistry
	auths      *AuthenticatorRegistry
	trust      *TrustStoreRegistry
	components di.Container
}

// NewResolver creates a resolver over the given registries. components is
// handed to authenticators when they are bound.
func NewResolver(global Config, targets *TargetRegistry, auths *AuthenticatorRegistry, trust *TrustStoreRegistry, components di.Container) *Resolver {
	if components == nil {
		components = di.NewContainer()
	}
	return &Resolver{
		global:     global,
		targets:    targets,
		auths:      auths,
		trust:      trust,
		components: components,
	}
}

// Resolve computes the effective configuration of the named target.
// A target value wins over the global value, which wins over the built-in
// default.
func (r *Resolver) Resolve(name string) (EffectiveConfig, error) {
	t, err := r.targets.Resolve(name)
	if err != nil {
		return EffectiveConfig{}, err
	}

	ec := EffectiveConfig{
		Target:          name,
		URL:             t.URL,
		FollowRedirects: t.FollowRedirects.Or(r.global.FollowRedirects).Resolve(defaultFollowRedirects),
		Compression:     t.Compression.Or(r.global.Compression).Resolve(defaultCompression),
		Timeout:         r.global.Timeout,
		Headers:         mergeHeaders(r.global.Headers, t.Headers),
	}
	if t.Timeout > 0 {
		ec.Timeout = t.Timeout
	}
	if err := r.bind(&ec, t.Auth, t.TrustStore); err != nil {
		return EffectiveConfig{}, err
	}
	return ec, nil
}

// ResolveUnbound computes the configuration of a client that is not bound
// to a target: global settings plus an optional authenticator and trust
// store. An empty trustStore falls back to the global trust store.
func (r *Resolver) ResolveUnbound(auth, trustStore string) (EffectiveConfig, error) {
	ec := EffectiveConfig{
		FollowRedirects: r.global.FollowRedirects.Resolve(defaultFollowRedirects),
		Compression:     r.global.Compression.Resolve(defaultCompression),
		Timeout:         r.global.Timeout,
		Headers:         mergeHeaders(r.global.Headers, nil),
	}
	if err := r.bind(&ec, auth, trustStore); err != nil {
		return EffectiveConfig{}, err
	}
	return ec, nil
}

// bind attaches the authenticator filter and trust material.
func (r *Resolver) bind(ec *EffectiveConfig, auth, trustStore string) error {
	if auth != "" {
		filter, err := r.auths.BuildFilter(auth, r.components)
		if err != nil {
			return err
		}
		ec.Auth, ec.AuthFilter = auth, filter
	}

	if trustStore == "" {
		trustStore = r.global.TrustStore
	}
	if trustStore != "" {
		tlsConfig, err := r.trust.TLSConfig(trustStore)
		if err != nil {
			return err
		}
		ec.TrustStore, ec.TLS = trustStore, tlsConfig
	}
	return nil
}

// mergeHeaders layers override over base into a new header set.
func mergeHeaders(base, override map[string]string) http.Header {
	h := make(http.Header, len(base)+len(override))
	for k, v := range base {
		h.Set(k, v)
	}
	for k, v := range override {
		h.Set(k, v)
	}
	return h
}
