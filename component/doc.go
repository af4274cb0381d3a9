// Package component defines the lifecycle contract for long-lived
// infrastructure such as the HTTP target factory.
//
// Components are registered with a Registry, started in registration order
// and stopped in reverse order.
//
// # Interfaces
//
//   - Component: Core lifecycle interface (Start/Stop/Health)
//   - Describable: One-line summary for startup output
package component
