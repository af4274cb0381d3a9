package security

import (
	"crypto/tls"
	"crypto/x509"
	"encoding/pem"
	"fmt"
	"os"

	"golang.org/x/crypto/pkcs12"

	"github.com/kbukum/httptargets/validation"
)

// TLS versions accepted by TrustStore.MinVersion.
var tlsVersions = map[string]uint16{
	"1.2": tls.VersionTLS12,
	"1.3": tls.VersionTLS13,
}

// TrustStore describes the trust material for verifying server certificates.
type TrustStore struct {
	// CAFile is the path to a PEM bundle of trusted certificate authorities.
	CAFile string `yaml:"ca_file" mapstructure:"ca_file"`

	// CAPEM holds trusted certificate authorities inline, PEM encoded.
	CAPEM string `yaml:"ca_pem" mapstructure:"ca_pem"`

	// PKCS12File is the path to a PKCS#12 archive whose certificates are
	// trusted.
	PKCS12File string `yaml:"pkcs12_file" mapstructure:"pkcs12_file"`

	// PKCS12Password unlocks PKCS12File.
	PKCS12Password string `yaml:"pkcs12_password" mapstructure:"pkcs12_password"`

	// IncludeSystemRoots adds the configured authorities to the platform
	// roots instead of replacing them.
	IncludeSystemRoots bool `yaml:"include_system_roots" mapstructure:"include_system_roots"`

	// CertFile and KeyFile hold the client certificate presented for mTLS.
	CertFile string `yaml:"cert_file" mapstructure:"cert_file"`
	KeyFile  string `yaml:"key_file" mapstructure:"key_file"`

	// ServerName overrides the server name used for certificate verification.
	ServerName string `yaml:"server_name" mapstructure:"server_name"`

	// MinVersion is the minimum TLS version, "1.2" (default) or "1.3".
	MinVersion string `yaml:"min_version" mapstructure:"min_version"`

	// SkipVerify disables server certificate verification.
	// Not recommended for production.
	SkipVerify bool `yaml:"skip_verify" mapstructure:"skip_verify"`
}

// Validate checks that the trust store definition is consistent. It does not
// read any files.
func (ts *TrustStore) Validate() error {
	if ts == nil {
		return nil
	}
	v := validation.New()
	v.Custom(ts.CAFile != "" || ts.CAPEM != "" || ts.PKCS12File != "" || ts.SkipVerify,
		"ca_file", "one of ca_file, ca_pem, pkcs12_file or skip_verify is required")
	v.Custom((ts.CertFile != "") == (ts.KeyFile != ""),
		"cert_file", "cert_file and key_file must be provided together")
	v.OneOf("min_version", ts.MinVersion, []string{"1.2", "1.3"})
	if appErr := v.Validate(); appErr != nil {
		return appErr
	}
	return nil
}

// Build loads the trust material and returns a client *tls.Config.
// A nil receiver returns nil, meaning the platform defaults apply.
func (ts *TrustStore) Build() (*tls.Config, error) {
	if ts == nil {
		return nil, nil
	}
	if err := ts.Validate(); err != nil {
		return nil, err
	}

	minVersion := uint16(tls.VersionTLS12)
	if v, ok := tlsVersions[ts.MinVersion]; ok {
		minVersion = v
	}
	cfg := &tls.Config{
		InsecureSkipVerify: ts.SkipVerify,
		ServerName:         ts.ServerName,
		MinVersion:         minVersion,
	}

	pool, err := ts.certPool()
	if err != nil {
		return nil, err
	}
	cfg.RootCAs = pool

	if ts.CertFile != "" {
		cert, err := tls.LoadX509KeyPair(ts.CertFile, ts.KeyFile)
		if err != nil {
			return nil, fmt.Errorf("security: failed to load client certificate: %w", err)
		}
		cfg.Certificates = []tls.Certificate{cert}
	}

	return cfg, nil
}

// certPool collects every configured authority. It returns nil when only
// SkipVerify is set.
func (ts *TrustStore) certPool() (*x509.CertPool, error) {
	if ts.CAFile == "" && ts.CAPEM == "" && ts.PKCS12File == "" {
		return nil, nil
	}

	pool := x509.NewCertPool()
	if ts.IncludeSystemRoots {
		if sys, err := x509.SystemCertPool(); err == nil {
			pool = sys
		}
	}

	if ts.CAFile != "" {
		data, err := os.ReadFile(ts.CAFile)
		if err != nil {
			return nil, fmt.Errorf("security: failed to read CA file: %w", err)
		}
		if !pool.AppendCertsFromPEM(data) {
			return nil, fmt.Errorf("security: no certificates found in %s", ts.CAFile)
		}
	}

	if ts.CAPEM != "" && !pool.AppendCertsFromPEM([]byte(ts.CAPEM)) {
		return nil, fmt.Errorf("security: no certificates found in ca_pem")
	}

	if ts.PKCS12File != "" {
		if err := appendPKCS12(pool, ts.PKCS12File, ts.PKCS12Password); err != nil {
			return nil, err
		}
	}

	return pool, nil
}

// appendPKCS12 adds every certificate in the archive at path to pool.
func appendPKCS12(pool *x509.CertPool, path, password string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("security: failed to read PKCS#12 file: %w", err)
	}
	blocks, err := pkcs12.ToPEM(data, password)
	if err != nil {
		return fmt.Errorf("security: failed to decode PKCS#12 file %s: %w", path, err)
	}

	added := 0
	for _, block := range blocks {
		if block.Type != "CERTIFICATE" {
			continue
		}
		if pool.AppendCertsFromPEM(pem.EncodeToMemory(block)) {
			added++
		}
	}
	if added == 0 {
		return fmt.Errorf("security: no certificates found in %s", path)
	}
	return nil
}
