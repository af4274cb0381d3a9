package di

import (
	"context"
	stderrors "errors"
	"fmt"
	"reflect"
	"sort"
	"sync"

	"github.com/kbukum/httptargets/logger"
)

// RegistrationMode determines how a component is resolved.
type RegistrationMode int

const (
	Lazy      RegistrationMode = iota // Constructed on first resolve
	Singleton                         // Pre-created instance
)

// ErrNotRegistered is returned when a key has no registration.
var ErrNotRegistered = stderrors.New("component not registered")

// Container is the component registry handed to authenticators and client
// features that need collaborators from the host application.
type Container interface {
	Register(key string, constructor interface{}) error
	RegisterSingleton(key string, instance interface{}) error
	Resolve(key string) (interface{}, error)
	Has(key string) bool
	Close() error

	// Introspection
	Registrations() []RegistrationInfo
}

// RegistrationInfo describes a registered component for introspection.
type RegistrationInfo struct {
	Key         string
	Mode        RegistrationMode
	Initialized bool
}

// UnifiedContainer is the default Container implementation.
type UnifiedContainer struct {
	components map[string]*ComponentRegistration
	mutex      sync.RWMutex
}

// ComponentRegistration holds one registered component.
type ComponentRegistration struct {
	key         string
	constructor interface{}
	mode        RegistrationMode
	instance    interface{}
	mutex       sync.Mutex
	initialized bool
}

// NewContainer creates an empty container.
func NewContainer() Container {
	return &UnifiedContainer{
		components: make(map[string]*ComponentRegistration),
	}
}

// Register adds a constructor that runs on first Resolve. Supported
// signatures are func() T, func() (T, error), func(context.Context) (T, error)
// and func(Container) (T, error).
func (c *UnifiedContainer) Register(key string, constructor interface{}) error {
	if reflect.TypeOf(constructor) == nil || reflect.TypeOf(constructor).Kind() != reflect.Func {
		return fmt.Errorf("di: constructor for %q must be a function", key)
	}

	c.mutex.Lock()
	defer c.mutex.Unlock()
	c.components[key] = &ComponentRegistration{
		key:         key,
		constructor: constructor,
		mode:        Lazy,
	}
	return nil
}

// RegisterSingleton registers a pre-created instance.
func (c *UnifiedContainer) RegisterSingleton(key string, instance interface{}) error {
	c.mutex.Lock()
	defer c.mutex.Unlock()
	c.components[key] = &ComponentRegistration{
		key:         key,
		mode:        Singleton,
		instance:    instance,
		initialized: true,
	}
	return nil
}

// Has reports whether key is registered.
func (c *UnifiedContainer) Has(key string) bool {
	c.mutex.RLock()
	defer c.mutex.RUnlock()
	_, ok := c.components[key]
	return ok
}

// Resolve returns the component registered under key, constructing it on
// first use. A failed construction is retried on the next Resolve.
// Constructors must not resolve their own key.
func (c *UnifiedContainer) Resolve(key string) (interface{}, error) {
	c.mutex.RLock()
	registration, exists := c.components[key]
	c.mutex.RUnlock()

	if !exists {
		return nil, fmt.Errorf("%w: %s", ErrNotRegistered, key)
	}

	registration.mutex.Lock()
	defer registration.mutex.Unlock()

	if registration.initialized {
		return registration.instance, nil
	}
	instance, err := c.callConstructor(registration.constructor)
	if err != nil {
		logger.Debug("component initialization failed", logger.Fields(
			logger.FieldComponent, key,
			logger.FieldError, err.Error(),
		))
		return nil, fmt.Errorf("di: failed to initialize %s: %w", key, err)
	}

	registration.instance = instance
	registration.initialized = true
	logger.Debug("component initialized", logger.Fields(logger.FieldComponent, key))
	return instance, nil
}

func (c *UnifiedContainer) callConstructor(constructor interface{}) (interface{}, error) {
	fn := reflect.ValueOf(constructor)
	fnType := fn.Type()

	var args []reflect.Value
	switch fnType.NumIn() {
	case 0:
	case 1:
		switch in := fnType.In(0); {
		case in == reflect.TypeOf((*context.Context)(nil)).Elem():
			args = []reflect.Value{reflect.ValueOf(context.Background())}
		case in == reflect.TypeOf((*Container)(nil)).Elem():
			args = []reflect.Value{reflect.ValueOf(Container(c))}
		default:
			return nil, fmt.Errorf("unsupported constructor argument %s", in)
		}
	default:
		return nil, fmt.Errorf("constructor must take at most one argument")
	}

	results := fn.Call(args)
	switch len(results) {
	case 1:
		return results[0].Interface(), nil
	case 2:
		if err, _ := results[1].Interface().(error); err != nil {
			return nil, err
		}
		return results[0].Interface(), nil
	default:
		return nil, fmt.Errorf("constructor must return either (instance) or (instance, error)")
	}
}

// Registrations returns info about all registered components, sorted by key.
func (c *UnifiedContainer) Registrations() []RegistrationInfo {
	c.mutex.RLock()
	regs := make([]*ComponentRegistration, 0, len(c.components))
	for _, reg := range c.components {
		regs = append(regs, reg)
	}
	c.mutex.RUnlock()

	result := make([]RegistrationInfo, 0, len(regs))
	for _, reg := range regs {
		reg.mutex.Lock()
		result = append(result, RegistrationInfo{
			Key:         reg.key,
			Mode:        reg.mode,
			Initialized: reg.initialized,
		})
		reg.mutex.Unlock()
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Key < result[j].Key })
	return result
}

// Close closes every initialized component that implements io.Closer and
// returns the joined errors.
func (c *UnifiedContainer) Close() error {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	var errs []error
	for key, reg := range c.components {
		if !reg.initialized || reg.instance == nil {
			continue
		}
		if closer, ok := reg.instance.(interface{ Close() error }); ok {
			if err := closer.Close(); err != nil {
				errs = append(errs, fmt.Errorf("%s: %w", key, err))
			}
		}
	}
	return stderrors.Join(errs...)
}
