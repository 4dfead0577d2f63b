package registry

import (
	"context"
	"io"
	"net/url"
)

// Handler executes a command once it has been resolved.
type Handler interface {
	// ValidateArguments checks the command-line arguments that follow the
	// command name.
	ValidateArguments(args []string) error

	// Invoke runs the command.
	Invoke(ctx context.Context, args []string) error
}

// Environment carries what every handler receives besides its settings.
type Environment struct {
	ServerURI *url.URL
	Out       io.Writer
	ErrOut    io.Writer
}

// HandlerFactory builds a handler from the environment and the typed
// settings produced for the command.
type HandlerFactory func(env Environment, settings any) (Handler, error)

// RegisteredHandler holds the compiled Go parts of a handler type.
type RegisteredHandler struct {
	// New builds a handler instance.
	New HandlerFactory
	// Settings is the fully-qualified name of the settings type the handler
	// expects. Empty accepts any settings type.
	Settings string
	// Description is shown in usage listings.
	Description string
}

// RegisteredSettings holds the explicit zero-value constructor of a settings
// type.
type RegisteredSettings struct {
	// New returns a pointer to a zero-valued settings struct.
	New func() any
}
