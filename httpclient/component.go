package httpclient

import (
	"context"
	"fmt"

	"github.com/kbukum/httptargets/component"
)

// ComponentName is the name the component registers under.
const ComponentName = "http-targets"

// Component wraps HTTPTargets with lifecycle management.
type Component struct {
	config  Config
	opts    []Option
	targets *HTTPTargets
}

// compile-time assertions
var _ component.Component = (*Component)(nil)
var _ component.Describable = (*Component)(nil)

// NewComponent creates a new HTTP targets component.
// HTTPTargets is created in Start().
func NewComponent(cfg Config, opts ...Option) *Component {
	return &Component{config: cfg, opts: opts}
}

// Name returns the component name.
func (c *Component) Name() string {
	return ComponentName
}

// Start validates the configuration and builds the registries.
func (c *Component) Start(_ context.Context) error {
	t, err := New(c.config, c.opts...)
	if err != nil {
		return err
	}
	c.targets = t
	return nil
}

// Stop closes the cached target clients.
func (c *Component) Stop(_ context.Context) error {
	if c.targets != nil {
		return c.targets.Close()
	}
	return nil
}

// Health reports unhealthy until the component has started.
func (c *Component) Health(_ context.Context) component.Health {
	if c.targets == nil {
		return component.Health{
			Name:    c.Name(),
			Status:  component.StatusUnhealthy,
			Message: "not started",
		}
	}
	return component.Health{
		Name:   c.Name(),
		Status: component.StatusHealthy,
	}
}

// Describe returns component description for the startup summary.
func (c *Component) Describe() component.Description {
	return component.Description{
		Name: c.Name(),
		Type: "http-targets",
		Details: fmt.Sprintf("targets=%d auth=%d trust_stores=%d",
			len(c.config.Targets), len(c.config.Auth), len(c.config.TrustStores)),
	}
}

// Targets returns the HTTPTargets instance. Must be called after Start().
func (c *Component) Targets() *HTTPTargets {
	return c.targets
}
