// Package config loads versioned adcheck configuration files.
//
// A [Loader] decodes YAML or JSON into any [v1beta1.Object], validating the
// raw document against a JSON schema first so errors point at the offending
// source line.
package config
