package config

import "context"

// Parser is the interface for a format-specific configuration parser.
type Parser interface {
	// Extensions returns the file extensions (with the leading dot) the
	// parser understands.
	Extensions() []string

	// Parse translates a single document into the format-agnostic model.
	// filename is only used for error messages.
	Parse(ctx context.Context, src []byte, filename string) (*Model, error)
}
