// Package config provides configuration loading and validation for Stripfish.
//
// Configuration is loaded from a YAML file with three layers of precedence:
// hardcoded defaults, file values, then STRIPFISH_* environment variable
// overrides. The loaded Config is validated once at startup and treated as
// immutable afterwards; no component re-reads configuration at request time.
//
// # Usage
//
//	cfg, err := config.Load("configs/config.yaml")
//	if err != nil {
//	    log.Fatal(err)
//	}
//
// A missing config file is not fatal to the application: cmd/stripfish falls
// back to config.Default(), which is valid on its own.
package config
