package di

import "fmt"

// MustResolve resolves a component with type safety, panics on error.
//
// Example:
//
//	targets := di.MustResolve[*httpclient.HTTPTargets](c, di.Keys.HTTPTargets)
func MustResolve[T any](c Container, key string) T {
	instance, err := c.Resolve(key)
	if err != nil {
		panic(fmt.Sprintf("di: failed to resolve %s: %v", key, err))
	}
	result, ok := instance.(T)
	if !ok {
		var zero T
		panic(fmt.Sprintf("di: component %s is %T, expected %T", key, instance, zero))
	}
	return result
}

// Resolve resolves a component with type safety, returns error on failure.
//
// Example:
//
//	client, err := di.Resolve[*http.Client](c, "token_client")
//	if err != nil {
//	    return fmt.Errorf("oauth2 token client: %w", err)
//	}
func Resolve[T any](c Container, key string) (T, error) {
	var zero T
	if c == nil {
		return zero, fmt.Errorf("di: failed to resolve %s: no container", key)
	}
	instance, err := c.Resolve(key)
	if err != nil {
		return zero, fmt.Errorf("di: failed to resolve %s: %w", key, err)
	}
	result, ok := instance.(T)
	if !ok {
		return zero, fmt.Errorf("di: component %s is %T, expected %T", key, instance, zero)
	}
	return result, nil
}

// TryResolve resolves a component, returns zero value and false if it is
// missing, fails to build or has another type. A nil container resolves
// nothing.
func TryResolve[T any](c Container, key string) (T, bool) {
	var zero T
	if c == nil {
		return zero, false
	}
	instance, err := c.Resolve(key)
	if err != nil {
		return zero, false
	}
	result, ok := instance.(T)
	if !ok {
		return zero, false
	}
	return result, true
}
