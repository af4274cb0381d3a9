// Package security builds TLS client configuration from named trust store
// definitions.
//
// A trust store supplies the certificate authorities a client accepts when
// verifying servers, optionally together with a client certificate for mTLS.
// Trust material can come from a PEM file, inline PEM or a PKCS#12 archive.
//
//	ts := security.TrustStore{CAFile: "/etc/ssl/corp.pem", MinVersion: "1.2"}
//	tlsConfig, err := ts.Build()
package security
