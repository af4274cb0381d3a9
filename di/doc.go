// Package di provides the component registry used to hand collaborators to
// authenticators and client features.
//
// Components are registered by key either as a pre-built instance or as a
// constructor that runs once on first resolution.
//
// # Registration
//
//	c := di.NewContainer()
//	_ = c.RegisterSingleton("counter", &Counter{})
//	_ = c.Register("token_client", func() (*http.Client, error) { return newTokenClient() })
//
// # Resolution
//
//	counter := di.MustResolve[*Counter](c, "counter")
//	if client, ok := di.TryResolve[*http.Client](c, "token_client"); ok { ... }
package di
