// Package config defines the format-agnostic configuration model of the
// pipeline, along with the Loader interface for reading it from a concrete
// format.
//
// The `config.Model` is the single source of truth for the `app` package.
// Concrete implementations of the Loader, such as for HCL, are provided in
// separate packages.
package config
