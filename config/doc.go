// Package config provides configuration loading and validation for
// httptargets applications.
//
// It uses Viper to load a YAML (or JSON/TOML) configuration file and godotenv
// to load an optional .env file. Environment variables override values that
// are present in the configuration file: with WithEnvPrefix("HTTPTARGETS"),
// HTTPTARGETS_HTTPCLIENT_TARGETS_BILLING_URL overrides
// httpclient.targets.billing.url.
//
// # Usage
//
//	var cfg AppConfig
//	err := config.LoadConfig("httptargets", &cfg,
//	    config.WithConfigFile("config.yml"),
//	    config.WithDecodeHook(httpclient.DecodeHook()),
//	)
package config
