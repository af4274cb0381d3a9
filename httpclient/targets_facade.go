package httpclient

import (
	"sync"

	"golang.org/x/sync/singleflight"

	"github.com/kbukum/httptargets/di"
	"github.com/kbukum/httptargets/logger"
)

// HTTPTargets creates clients and targets from configuration. Target
// clients are built on first use and cached by name.
type HTTPTargets struct {
	config   Config
	auths    *AuthenticatorRegistry
	targets  *TargetRegistry
	trust    *TrustStoreRegistry
	resolver *Resolver
	factory  *clientFactory
	log      *logger.Logger

	mu      sync.RWMutex
	clients map[string]*Client
	closed  bool
	group   singleflight.Group
}

// Option configures HTTPTargets.
type Option func(*options)

type options struct {
	features   []Feature
	components di.Container
	authTypes  map[string]AuthFactory
	log        *logger.Logger
}

// WithFeature registers features applied to every client.
func WithFeature(features ...Feature) Option {
	return func(o *options) {
		o.features = append(o.features, features...)
	}
}

// WithComponents sets the component registry handed to authenticators and
// features.
func WithComponents(c di.Container) Option {
	return func(o *options) {
		o.components = c
	}
}

// WithAuthType registers an additional authenticator type.
func WithAuthType(tag string, factory AuthFactory) Option {
	return func(o *options) {
		if o.authTypes == nil {
			o.authTypes = make(map[string]AuthFactory)
		}
		o.authTypes[tag] = factory
	}
}

// WithLogger sets the logger. Defaults to the "httpclient" component logger.
func WithLogger(l *logger.Logger) Option {
	return func(o *options) {
		o.log = l
	}
}

// New validates cfg and builds the registries. Definition errors surface
// here; references between definitions are checked when they are resolved.
func New(cfg Config, opts ...Option) (*HTTPTargets, error) {
	o := &options{}
	for _, opt := range opts {
		opt(o)
	}
	if o.components == nil {
		o.components = di.NewContainer()
	}
	if o.log == nil {
		o.log = logger.WithComponent("httpclient")
	}

	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, NewInvalidConfigError(err)
	}

	types := NewAuthTypes()
	for tag, factory := range o.authTypes {
		types.Register(tag, factory)
	}
	auths, err := NewAuthenticatorRegistry(cfg.Auth, types)
	if err != nil {
		return nil, err
	}
	targets, err := NewTargetRegistry(cfg.Targets)
	if err != nil {
		return nil, err
	}
	trust, err := NewTrustStoreRegistry(cfg.TrustStores)
	if err != nil {
		return nil, err
	}

	h := &HTTPTargets{
		config:   cfg,
		auths:    auths,
		targets:  targets,
		trust:    trust,
		resolver: NewResolver(cfg, targets, auths, trust, o.components),
		factory: &clientFactory{
			global:     cfg,
			features:   o.features,
			components: o.components,
			log:        o.log,
		},
		log:     o.log,
		clients: make(map[string]*Client),
	}
	o.log.Debug("http targets configured", logger.Fields(
		"targets", len(cfg.Targets),
		"auth", len(cfg.Auth),
		"trust_stores", len(cfg.TrustStores),
		"features", len(o.features),
	))
	return h, nil
}

// NewTarget returns the named target. Its client is built on first use
// and shared by later calls; concurrent first calls build it once.
func (h *HTTPTargets) NewTarget(name string) (*Target, error) {
	client, err := h.targetClient(name)
	if err != nil {
		return nil, err
	}
	return client.Target(client.config.URL)
}

func (h *HTTPTargets) targetClient(name string) (*Client, error) {
	h.mu.RLock()
	client, ok := h.clients[name]
	closed := h.closed
	h.mu.RUnlock()
	if closed {
		return nil, errClosed()
	}
	if ok {
		return client, nil
	}

	v, err, _ := h.group.Do(name, func() (interface{}, error) {
		h.mu.RLock()
		cached, ok := h.clients[name]
		h.mu.RUnlock()
		if ok {
			return cached, nil
		}

		ec, err := h.resolver.Resolve(name)
		if err != nil {
			h.log.Warn("target resolution failed", logger.Fields(
				logger.FieldTarget, name,
				logger.FieldError, err.Error(),
			))
			return nil, err
		}
		built, err := h.factory.build(ec)
		if err != nil {
			return nil, err
		}

		h.mu.Lock()
		defer h.mu.Unlock()
		if h.closed {
			_ = built.Close()
			return nil, errClosed()
		}
		h.clients[name] = built
		h.log.Debug("target client built", logger.Fields(
			logger.FieldTarget, name,
			logger.FieldURL, ec.URL,
			logger.FieldAuth, ec.Auth,
			logger.FieldTrustStore, ec.TrustStore,
			logger.FieldFollow, ec.FollowRedirects,
			logger.FieldCompression, ec.Compression,
		))
		return built, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*Client), nil
}

// NewClient returns an unbound client with the global defaults.
func (h *HTTPTargets) NewClient() (*Client, error) {
	return h.NewClientBuilder().Build()
}

// NewClientBuilder starts configuring an unbound client.
func (h *HTTPTargets) NewClientBuilder() *ClientBuilder {
	return &ClientBuilder{targets: h}
}

// NewAuthenticatedClient returns an unbound client using the named
// authenticator.
//
// Deprecated: use NewClientBuilder().Auth(auth).Build().
func (h *HTTPTargets) NewAuthenticatedClient(auth string) (*Client, error) {
	return h.NewClientBuilder().Auth(auth).Build()
}

// Resolve returns the effective configuration of the named target without
// building a client.
func (h *HTTPTargets) Resolve(name string) (EffectiveConfig, error) {
	return h.resolver.Resolve(name)
}

// Targets returns the configured target names, sorted.
func (h *HTTPTargets) Targets() []string {
	return h.targets.Names()
}

// Authenticators returns the configured authenticator names, sorted.
func (h *HTTPTargets) Authenticators() []string {
	return h.auths.Names()
}

// TrustStores returns the configured trust store names, sorted.
func (h *HTTPTargets) TrustStores() []string {
	return h.trust.Names()
}

// Close releases the cached target clients. Later NewTarget calls fail.
func (h *HTTPTargets) Close() error {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return nil
	}
	h.closed = true
	for name, c := range h.clients {
		_ = c.Close()
		delete(h.clients, name)
	}
	h.log.Debug("http targets closed")
	return nil
}

func errClosed() *Error {
	return NewClientBuildError("http targets closed", nil)
}
