// Package httpclient builds HTTP clients and named targets from
// configuration.
//
// Targets, authenticators and trust stores are declared once under the
// httpclient configuration key. Each target may override the global
// redirect, compression and trust store settings; an unset value inherits
// the global one and, failing that, the built-in default.
//
// # Configuration
//
//	httpclient:
//	  follow_redirects: true
//	  compression: true
//	  auth:
//	    a1: {type: basic, username: u, password: p}
//	  targets:
//	    t1: {url: "https://api.example.com/v1", follow_redirects: false, auth: a1}
//
// # Basic Usage
//
//	targets, err := httpclient.New(cfg.HTTPClient)
//	if err != nil {
//	    return err
//	}
//	defer targets.Close()
//
//	t, err := targets.NewTarget("t1")
//	if err != nil {
//	    return err
//	}
//	resp, err := t.Path("users", "123").Get(ctx)
//
// # Features
//
// Features registered with WithFeature configure every client. They can
// add request and response filters, entity readers and transport
// wrappers, and reach application components through the di.Container
// given with WithComponents.
//
// Authenticator types beyond basic, bearer, api_key, oauth2 and jwt are
// added with WithAuthType.
package httpclient
