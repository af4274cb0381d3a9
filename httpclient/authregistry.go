package httpclient

import (
	"fmt"
	"sort"

	"github.com/kbukum/httptargets/di"
	apperrors "github.com/kbukum/httptargets/errors"
)

// AuthenticatorRegistry holds the named authenticators of a configuration.
// It is read-only after construction.
type AuthenticatorRegistry struct {
	auths map[string]Authenticator
}

// NewAuthenticatorRegistry validates every definition and creates its
// authenticator through types. Definitions with no type tag, an unknown tag
// or bad parameters fail with ErrCodeInvalidConfig.
func NewAuthenticatorRegistry(defs map[string]AuthConfig, types *AuthTypes) (*AuthenticatorRegistry, error) {
	if types == nil {
		types = NewAuthTypes()
	}
	r := &AuthenticatorRegistry{auths: make(map[string]Authenticator, len(defs))}

	for _, name := range sortedKeys(defs) {
		def := defs[name]
		tag := def.Type()
		if tag == "" {
			return nil, NewInvalidConfigError(apperrors.MissingField(fmt.Sprintf("auth.%s.type", name)))
		}
		factory, ok := types.Lookup(tag)
		if !ok {
			return nil, NewInvalidConfigError(apperrors.UnsupportedType("authenticator", tag).
				WithDetail("name", name).
				WithDetail("supported", types.Tags()))
		}
		a, err := factory(def)
		if err != nil {
			return nil, NewInvalidConfigError(apperrors.InvalidConfig(fmt.Sprintf("auth.%s", name)).WithCause(err))
		}
		r.auths[name] = a
	}
	return r, nil
}

// Resolve returns the authenticator registered under name.
func (r *AuthenticatorRegistry) Resolve(name string) (Authenticator, error) {
	a, ok := r.auths[name]
	if !ok {
		return nil, NewUnknownAuthenticatorError(name)
	}
	return a, nil
}

// BuildFilter resolves name and binds it into a request filter.
func (r *AuthenticatorRegistry) BuildFilter(name string, components di.Container) (RequestFilter, error) {
	a, err := r.Resolve(name)
	if err != nil {
		return nil, err
	}
	filter, err := a.Filter(components)
	if err != nil {
		return nil, NewClientBuildError(fmt.Sprintf("bind authenticator %q", name), err)
	}
	return filter, nil
}

// Names returns the registered authenticator names, sorted.
func (r *AuthenticatorRegistry) Names() []string {
	return sortedKeys(r.auths)
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
