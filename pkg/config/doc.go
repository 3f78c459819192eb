// Package config loads and validates the daemon configuration.
//
// Configuration comes from a YAML file, overridden by environment
// variables, overridden in turn by command-line flags. Validation
// creates missing working directories rather than failing on them.
package config
