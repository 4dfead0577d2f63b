// Package registry provides the central "glue" between configuration and
// compiled code.
//
// The Registry stores mappings between the fully-qualified type names used in
// configuration documents (e.g. "github.com/.../commentsearch.Searcher") and
// the Go factories that build handlers and settings structs. Configuration
// can only reference types that a Module registered here; anything else is a
// resolution error at load time.
package registry
