// Package config defines the settings of a term-vector build as an explicit
// schema of named options with defaults and allowed values.
//
// Settings come from command line flags (Parse), from the header of a vector
// stream (ParseHeader) or from a YAML file (Load). Validate applies the
// coupling rules between options.
package config
