package commands

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/specialistvlad/tfsutils/internal/config"
	"github.com/specialistvlad/tfsutils/internal/ctxlog"
	"github.com/specialistvlad/tfsutils/internal/mapper"
	"github.com/specialistvlad/tfsutils/internal/registry"
	"golang.org/x/text/cases"
)

// Command is a fully resolved command: its handler type and typed settings.
type Command struct {
	Name         string
	HandlerType  string
	SettingsType string
	Settings     any

	handler *registry.RegisteredHandler
}

// Description returns the handler's usage description.
func (c *Command) Description() string {
	return c.handler.Description
}

// NewHandler builds a handler instance for the command.
func (c *Command) NewHandler(env registry.Environment) (registry.Handler, error) {
	h, err := c.handler.New(env, c.Settings)
	if err != nil {
		return nil, fmt.Errorf("command '%s': creating handler %s: %w", c.Name, c.HandlerType, err)
	}
	return h, nil
}

// Registry maps command names, case-insensitively, to resolved commands.
type Registry struct {
	serverURI *url.URL
	commands  map[string]*Command
	names     []string
}

// Build resolves every command in model against catalog, maps its settings
// with m and returns the finished registry. The first error aborts the
// build; no partial registry is returned.
func Build(ctx context.Context, model *config.Model, catalog *registry.Registry, m *mapper.Mapper) (*Registry, error) {
	logger := ctxlog.FromContext(ctx)
	logger.Debug("Building command registry.", "commands", len(model.Commands))

	serverURI, err := parseServerURI(model.ServerURI)
	if err != nil {
		return nil, err
	}

	reg := &Registry{
		serverURI: serverURI,
		commands:  make(map[string]*Command, len(model.Commands)),
	}

	for _, def := range model.Commands {
		cmd, err := resolve(ctx, def, catalog, m)
		if err != nil {
			return nil, err
		}
		key := foldName(cmd.Name)
		if prev, exists := reg.commands[key]; exists {
			return nil, fmt.Errorf("%w '%s' (%s and %s)", ErrDuplicateCommand, cmd.Name, prev.HandlerType, cmd.HandlerType)
		}
		reg.commands[key] = cmd
		reg.names = append(reg.names, cmd.Name)
		logger.Debug("Registered command.", "command", cmd.Name, "handler", cmd.HandlerType, "settings", cmd.SettingsType)
	}

	logger.Info("Command registry built.", "commands", len(reg.names))
	return reg, nil
}

func resolve(ctx context.Context, def *config.CommandDefinition, catalog *registry.Registry, m *mapper.Mapper) (*Command, error) {
	name := def.Name()
	if strings.TrimSpace(name) == "" {
		return nil, &ResolutionError{Kind: "handler", Reference: def.HandlerType, Command: name, Source: def.Source, Detail: "empty command name"}
	}

	handler, ok := catalog.Handler(def.HandlerType)
	if !ok {
		return nil, &ResolutionError{Kind: "handler", Reference: def.HandlerType, Command: name, Source: def.Source}
	}
	settingsType, ok := catalog.Settings(def.SettingsType)
	if !ok {
		return nil, &ResolutionError{Kind: "settings", Reference: def.SettingsType, Command: name, Source: def.Source}
	}
	if handler.Settings != "" && handler.Settings != def.SettingsType {
		return nil, &ResolutionError{
			Kind:      "settings",
			Reference: def.SettingsType,
			Command:   name,
			Source:    def.Source,
			Detail:    fmt.Sprintf("handler %s expects settings type %s", def.HandlerType, handler.Settings),
		}
	}

	settings := settingsType.New()
	if err := m.MapInto(ctx, def.Properties, settings); err != nil {
		return nil, fmt.Errorf("command '%s': mapping settings %s: %w", name, def.SettingsType, err)
	}

	return &Command{
		Name:         name,
		HandlerType:  def.HandlerType,
		SettingsType: def.SettingsType,
		Settings:     settings,
		handler:      handler,
	}, nil
}

func parseServerURI(raw string) (*url.URL, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, errors.New("server URI is required")
	}
	u, err := url.Parse(raw)
	if err != nil {
		return nil, fmt.Errorf("invalid server URI %q: %w", raw, err)
	}
	if !u.IsAbs() {
		return nil, fmt.Errorf("invalid server URI %q: must be absolute", raw)
	}
	return u, nil
}

// foldName returns the lookup key for a command name. Casers carry state,
// so a fresh one is used per call.
func foldName(name string) string {
	return cases.Fold().String(strings.TrimSpace(name))
}

// Resolve returns the command registered under name, ignoring case.
func (r *Registry) Resolve(name string) (*Command, bool) {
	if r == nil {
		return nil, false
	}
	cmd, ok := r.commands[foldName(name)]
	return cmd, ok
}

// Names returns the command names in configuration order.
func (r *Registry) Names() []string {
	if r == nil {
		return nil
	}
	out := make([]string, len(r.names))
	copy(out, r.names)
	return out
}

// Len returns the number of commands.
func (r *Registry) Len() int {
	if r == nil {
		return 0
	}
	return len(r.names)
}

// ServerURI returns the address of the versioning service.
func (r *Registry) ServerURI() *url.URL {
	if r == nil || r.serverURI == nil {
		return nil
	}
	u := *r.serverURI
	return &u
}
