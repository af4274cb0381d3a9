package httpclient

import (
	"crypto/tls"
	"fmt"

	"github.com/kbukum/httptargets/security"
)

// TrustStoreRegistry holds the named trust stores of a configuration. It is
// read-only after construction.
type TrustStoreRegistry struct {
	stores map[string]security.TrustStore
}

// NewTrustStoreRegistry validates every trust store definition. Trust
// material is loaded when a client needs it.
func NewTrustStoreRegistry(defs map[string]security.TrustStore) (*TrustStoreRegistry, error) {
	r := &TrustStoreRegistry{stores: make(map[string]security.TrustStore, len(defs))}
	for _, name := range sortedKeys(defs) {
		ts := defs[name]
		if err := ts.Validate(); err != nil {
			return nil, NewInvalidConfigError(fmt.Errorf("trust_stores.%s: %w", name, err))
		}
		r.stores[name] = ts
	}
	return r, nil
}

// Resolve returns the definition registered under name.
func (r *TrustStoreRegistry) Resolve(name string) (security.TrustStore, error) {
	ts, ok := r.stores[name]
	if !ok {
		return security.TrustStore{}, NewUnknownTrustStoreError(name)
	}
	return ts, nil
}

// TLSConfig loads the trust material of name. Unreadable material fails
// with ErrCodeClientBuild.
func (r *TrustStoreRegistry) TLSConfig(name string) (*tls.Config, error) {
	ts, err := r.Resolve(name)
	if err != nil {
		return nil, err
	}
	cfg, err := ts.Build()
	if err != nil {
		return nil, NewClientBuildError(fmt.Sprintf("load trust store %q", name), err)
	}
	return cfg, nil
}

// Names returns the registered trust store names, sorted.
func (r *TrustStoreRegistry) Names() []string {
	return sortedKeys(r.stores)
}
