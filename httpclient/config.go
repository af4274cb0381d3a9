package httpclient

import (
	"fmt"
	"time"

	"github.com/kbukum/httptargets/security"
	"github.com/kbukum/httptargets/validation"
)

const (
	defaultTimeout        = 30 * time.Second
	defaultConnectTimeout = 10 * time.Second
	defaultMaxRedirects   = 10

	// Built-in values used when neither the target nor the global
	// configuration sets a flag.
	defaultFollowRedirects = true
	defaultCompression     = true
)

// Config is the global HTTP client configuration. It holds the defaults
// every client inherits together with the named authenticators, targets and
// trust stores.
type Config struct {
	// FollowRedirects controls whether 3xx responses are followed.
	// Defaults to true.
	FollowRedirects Flag `yaml:"follow_redirects" mapstructure:"follow_redirects"`

	// Compression controls gzip negotiation. Defaults to true.
	Compression Flag `yaml:"compression" mapstructure:"compression"`

	// TrustStore names the trust store used when a target sets none.
	// Empty means the platform roots.
	TrustStore string `yaml:"trust_store" mapstructure:"trust_store"`

	// Timeout bounds a whole request including redirects. Defaults to 30s.
	Timeout time.Duration `yaml:"timeout" mapstructure:"timeout" validate:"gte=0"`

	// ConnectTimeout bounds dialing a connection. Defaults to 10s.
	ConnectTimeout time.Duration `yaml:"connect_timeout" mapstructure:"connect_timeout" validate:"gte=0"`

	// MaxRedirects is the number of redirects followed before giving up.
	// Defaults to 10.
	MaxRedirects int `yaml:"max_redirects" mapstructure:"max_redirects" validate:"gte=0"`

	// MaxIdleConnsPerHost overrides the transport default when positive.
	MaxIdleConnsPerHost int `yaml:"max_idle_conns_per_host" mapstructure:"max_idle_conns_per_host" validate:"gte=0"`

	// HTTP2 tunes the HTTP/2 transport.
	HTTP2 HTTP2Config `yaml:"http2" mapstructure:"http2"`

	// Headers are sent with every request unless the target or the request
	// sets the same header.
	Headers map[string]string `yaml:"headers" mapstructure:"headers"`

	// Auth holds the named authenticator definitions.
	Auth map[string]AuthConfig `yaml:"auth" mapstructure:"auth"`

	// Targets holds the named target definitions.
	Targets map[string]TargetConfig `yaml:"targets" mapstructure:"targets"`

	// TrustStores holds the named trust store definitions.
	TrustStores map[string]security.TrustStore `yaml:"trust_stores" mapstructure:"trust_stores"`
}

// HTTP2Config tunes the HTTP/2 transport.
type HTTP2Config struct {
	// Disabled turns off HTTP/2 negotiation.
	Disabled bool `yaml:"disabled" mapstructure:"disabled"`
	// ReadIdleTimeout sends a health-check ping after this long without
	// frames. Zero disables health checks.
	ReadIdleTimeout time.Duration `yaml:"read_idle_timeout" mapstructure:"read_idle_timeout" validate:"gte=0"`
	// PingTimeout closes the connection when a ping gets no reply in time.
	PingTimeout time.Duration `yaml:"ping_timeout" mapstructure:"ping_timeout" validate:"gte=0"`
}

// TargetConfig defines a named endpoint and its overrides of the global
// settings.
type TargetConfig struct {
	// URL is the absolute base URL of the target.
	URL string `yaml:"url" mapstructure:"url"`

	// FollowRedirects overrides Config.FollowRedirects when set.
	FollowRedirects Flag `yaml:"follow_redirects" mapstructure:"follow_redirects"`

	// Compression overrides Config.Compression when set.
	Compression Flag `yaml:"compression" mapstructure:"compression"`

	// Auth names the authenticator applied to every request.
	Auth string `yaml:"auth" mapstructure:"auth"`

	// TrustStore overrides Config.TrustStore when set.
	TrustStore string `yaml:"trust_store" mapstructure:"trust_store"`

	// Timeout overrides Config.Timeout when positive.
	Timeout time.Duration `yaml:"timeout" mapstructure:"timeout"`

	// Headers are merged over Config.Headers.
	Headers map[string]string `yaml:"headers" mapstructure:"headers"`
}

// AuthConfig is an authenticator definition: a "type" tag plus the
// parameters that type expects.
type AuthConfig map[string]interface{}

// Type returns the type tag of the definition.
func (a AuthConfig) Type() string {
	s, _ := a["type"].(string)
	return s
}

// ApplyDefaults fills in zero-value fields with sensible defaults.
func (c *Config) ApplyDefaults() {
	if c.Timeout <= 0 {
		c.Timeout = defaultTimeout
	}
	if c.ConnectTimeout <= 0 {
		c.ConnectTimeout = defaultConnectTimeout
	}
	if c.MaxRedirects <= 0 {
		c.MaxRedirects = defaultMaxRedirects
	}
}

// Validate checks the global settings. Targets, authenticators and trust
// stores are validated by their registries.
func (c *Config) Validate() error {
	return validation.Validate(c)
}

// Validate checks a single target definition registered under name.
func (t *TargetConfig) Validate(name string) error {
	field := fmt.Sprintf("targets.%s", name)
	v := validation.New()
	v.Required(field+".url", t.URL).AbsoluteURL(field+".url", t.URL, "http", "https")
	v.Custom(t.Timeout >= 0, field+".timeout", "must not be negative")
	if appErr := v.Validate(); appErr != nil {
		return appErr
	}
	return nil
}
