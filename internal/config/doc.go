// Package config defines settings used by the filterwatch binaries and
// provides helpers to load, validate and save them in YAML format.
//
// The Config type holds the store DSN, the operator API listen address and
// the evaluation cadence.
package config
