package testutil

import (
	"context"

	"github.com/specialistvlad/tfsutils/internal/registry"
)

// NoOpSettings is the settings type of NoOpHandler. Its fields cover the
// conversions tests commonly exercise.
type NoOpSettings struct {
	Message string
	Count   int
	Tags    []string
}

// NoOpHandler accepts any arguments and does nothing.
type NoOpHandler struct {
	Settings *NoOpSettings
}

// ValidateArguments implements registry.Handler.
func (h *NoOpHandler) ValidateArguments([]string) error { return nil }

// Invoke implements registry.Handler.
func (h *NoOpHandler) Invoke(context.Context, []string) error { return nil }

var (
	// NoOpType is the configuration name of NoOpHandler.
	NoOpType = registry.NameOf(NoOpHandler{})
	// NoOpSettingsType is the configuration name of NoOpSettings.
	NoOpSettingsType = registry.NameOf(NoOpSettings{})
)

// NoOpModule registers NoOpHandler and NoOpSettings. It is useful for tests
// that need valid configuration but no real command.
type NoOpModule struct{}

// Register implements the registry.Module interface.
func (m *NoOpModule) Register(r *registry.Registry) {
	r.RegisterSettings(NoOpSettings{})
	r.RegisterHandler(NoOpType, &registry.RegisteredHandler{
		New: func(_ registry.Environment, settings any) (registry.Handler, error) {
			return &NoOpHandler{Settings: settings.(*NoOpSettings)}, nil
		},
		Settings:    NoOpSettingsType,
		Description: "does nothing",
	})
}
