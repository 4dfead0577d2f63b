package testutil

import "github.com/specialistvlad/tfsutils/internal/registry"

// SimpleModule is a test helper for easily creating a mock module that
// registers a single handler and, optionally, its settings type.
type SimpleModule struct {
	HandlerName string
	Handler     *registry.RegisteredHandler

	// Settings is a prototype of the settings struct, registered under its
	// fully-qualified name.
	Settings any
}

// Register implements the registry.Module interface.
func (m *SimpleModule) Register(r *registry.Registry) {
	if m.Settings != nil {
		name := r.RegisterSettings(m.Settings)
		if m.Handler != nil && m.Handler.Settings == "" {
			m.Handler.Settings = name
		}
	}
	if m.HandlerName != "" && m.Handler != nil {
		r.RegisterHandler(m.HandlerName, m.Handler)
	}
}
