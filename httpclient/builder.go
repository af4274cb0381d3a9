package httpclient

// ClientBuilder configures an unbound client with global defaults plus an
// optional authenticator and trust store. Clients it builds are not cached
// and are owned by the caller.
type ClientBuilder struct {
	targets    *HTTPTargets
	auth       string
	trustStore string
}

// Auth selects the named authenticator.
func (b *ClientBuilder) Auth(name string) *ClientBuilder {
	b.auth = name
	return b
}

// TrustStore selects the named trust store in place of the global one.
func (b *ClientBuilder) TrustStore(name string) *ClientBuilder {
	b.trustStore = name
	return b
}

// Build resolves the references and creates the client.
func (b *ClientBuilder) Build() (*Client, error) {
	ec, err := b.targets.resolver.ResolveUnbound(b.auth, b.trustStore)
	if err != nil {
		return nil, err
	}
	return b.targets.factory.build(ec)
}
