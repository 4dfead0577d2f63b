// Package config defines the format-agnostic configuration model for the
// application, along with the Parser interface implemented by each concrete
// document format and the Loader that discovers and merges documents.
//
// The `config.Model` is the single source of truth for the `commands`
// package. Concrete parsers, such as for XML or HCL, are provided in
// separate packages.
package config
