package httpclient

import (
	"fmt"
	"net/http"
	"sort"
	"sync"

	"github.com/go-viper/mapstructure/v2"

	"github.com/kbukum/httptargets/di"
	"github.com/kbukum/httptargets/validation"
)

// RequestFilter decorates an outgoing request. The request is already a
// private copy and may be modified in place.
type RequestFilter func(req *http.Request) error

// Authenticator is a validated authenticator definition.
type Authenticator interface {
	// Type returns the type tag the authenticator was created from.
	Type() string
	// Filter binds the authenticator into a request filter. components
	// supplies collaborators registered by the application and may be
	// empty but is never nil.
	Filter(components di.Container) (RequestFilter, error)
}

// AuthFactory creates an Authenticator from its definition. Factories must
// reject definitions with missing or malformed parameters.
type AuthFactory func(def AuthConfig) (Authenticator, error)

// Built-in authenticator type tags.
const (
	AuthTypeBasic  = "basic"
	AuthTypeBearer = "bearer"
	AuthTypeAPIKey = "api_key"
	AuthTypeOAuth2 = "oauth2"
	AuthTypeJWT    = "jwt"
)

// AuthTypes maps type tags to factories. New variants are added with
// Register without touching the resolver.
type AuthTypes struct {
	mu        sync.RWMutex
	factories map[string]AuthFactory
}

// NewAuthTypes returns a registry holding the built-in types.
func NewAuthTypes() *AuthTypes {
	t := &AuthTypes{factories: make(map[string]AuthFactory)}
	t.Register(AuthTypeBasic, newBasicAuth)
	t.Register(AuthTypeBearer, newBearerAuth)
	t.Register(AuthTypeAPIKey, newAPIKeyAuth)
	t.Register(AuthTypeOAuth2, newOAuth2Auth)
	t.Register(AuthTypeJWT, newJWTAuth)
	return t
}

// Register adds or replaces the factory for tag.
func (t *AuthTypes) Register(tag string, factory AuthFactory) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.factories[tag] = factory
}

// Lookup returns the factory for tag.
func (t *AuthTypes) Lookup(tag string) (AuthFactory, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	f, ok := t.factories[tag]
	return f, ok
}

// Tags returns the registered type tags, sorted.
func (t *AuthTypes) Tags() []string {
	t.mu.RLock()
	defer t.mu.RUnlock()
	tags := make([]string, 0, len(t.factories))
	for tag := range t.factories {
		tags = append(tags, tag)
	}
	sort.Strings(tags)
	return tags
}

// DecodeAuthParams decodes def into out, ignoring the "type" key, and runs
// struct tag validation on the result. Unknown keys are rejected. String
// values are converted weakly so environment overrides work.
func DecodeAuthParams(def AuthConfig, out interface{}) error {
	params := make(map[string]interface{}, len(def))
	for k, v := range def {
		if k != "type" {
			params[k] = v
		}
	}

	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		TagName:          "mapstructure",
		WeaklyTypedInput: true,
		ErrorUnused:      true,
		Result:           out,
		DecodeHook: mapstructure.ComposeDecodeHookFunc(
			mapstructure.StringToTimeDurationHookFunc(),
			mapstructure.StringToSliceHookFunc(","),
		),
	})
	if err != nil {
		return err
	}
	if err := dec.Decode(params); err != nil {
		return fmt.Errorf("decode %s parameters: %w", def.Type(), err)
	}
	return validation.Validate(out)
}
