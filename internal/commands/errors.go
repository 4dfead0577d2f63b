package commands

import (
	"errors"
	"fmt"
)

// ErrDuplicateCommand is returned when two definitions share a name,
// compared case-insensitively.
var ErrDuplicateCommand = errors.New("duplicate command")

// ResolutionError reports a type reference in the configuration that no
// module registered.
type ResolutionError struct {
	// Kind is "handler" or "settings".
	Kind      string
	Reference string
	Command   string
	Source    string
	// Detail optionally explains why a registered type was rejected.
	Detail string
}

func (e *ResolutionError) Error() string {
	msg := fmt.Sprintf("command '%s': cannot resolve %s type '%s'", e.Command, e.Kind, e.Reference)
	if e.Detail != "" {
		msg += ": " + e.Detail
	}
	if e.Source != "" {
		msg += " (" + e.Source + ")"
	}
	return msg
}
