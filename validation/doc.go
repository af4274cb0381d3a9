// Package validation checks configuration values before they are used to
// build clients.
//
// It supports both struct tag validation (using the validator library) and
// programmatic validation with error collection. Both report failures as
// *errors.AppError values carrying per-field details.
//
// # Struct Tag Validation
//
//	type TrustStore struct {
//	    CAFile string `mapstructure:"ca_file" validate:"required_without=CAPEM"`
//	}
//	err := validation.Validate(ts)
//
// # Programmatic Validation
//
//	v := validation.New()
//	v.Required("targets.t1.url", cfg.URL).AbsoluteURL("targets.t1.url", cfg.URL, "http", "https")
//	err := v.Validate()
package validation
