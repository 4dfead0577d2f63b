package registry

import (
	"fmt"
	"log/slog"
	"reflect"
	"sort"
)

// Module is the interface that all command modules must implement to be
// registered.
type Module interface {
	Register(r *Registry)
}

// Registry holds all registered handler and settings types for a single
// application instance.
type Registry struct {
	handlers map[string]*RegisteredHandler
	settings map[string]*RegisteredSettings
}

// New creates and initializes a new Registry instance.
func New() *Registry {
	return &Registry{
		handlers: make(map[string]*RegisteredHandler),
		settings: make(map[string]*RegisteredSettings),
	}
}

// NameOf returns the fully-qualified name of the type of v ("pkgpath.Type"),
// looking through pointers.
func NameOf(v any) string {
	t := reflect.TypeOf(v)
	for t != nil && t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	if t == nil {
		return ""
	}
	if t.PkgPath() == "" {
		return t.Name()
	}
	return t.PkgPath() + "." + t.Name()
}

// RegisterHandler registers a handler type under name. It panics on a
// duplicate name or a nil factory, both programmer errors.
func (r *Registry) RegisterHandler(name string, handler *RegisteredHandler) {
	if handler == nil || handler.New == nil {
		panic(fmt.Sprintf("handler '%s' registered without a factory", name))
	}
	if _, exists := r.handlers[name]; exists {
		panic(fmt.Sprintf("handler with name '%s' already registered", name))
	}
	slog.Debug("Registering handler.", "name", name)
	r.handlers[name] = handler
}

// RegisterSettings registers the settings type of prototype under its
// fully-qualified name and returns that name. prototype must be a struct or
// a pointer to one; the factory always yields a fresh pointer.
func (r *Registry) RegisterSettings(prototype any) string {
	t := reflect.TypeOf(prototype)
	if t != nil && t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	if t == nil || t.Kind() != reflect.Struct {
		panic(fmt.Sprintf("settings prototype must be a struct, got %T", prototype))
	}
	name := NameOf(prototype)
	r.RegisterSettingsFactory(name, func() any { return reflect.New(t).Interface() })
	return name
}

// RegisterSettingsFactory registers an explicit zero-value constructor under
// name. It panics on a duplicate name.
func (r *Registry) RegisterSettingsFactory(name string, newFn func() any) {
	if newFn == nil {
		panic(fmt.Sprintf("settings '%s' registered without a factory", name))
	}
	if _, exists := r.settings[name]; exists {
		panic(fmt.Sprintf("settings with name '%s' already registered", name))
	}
	slog.Debug("Registering settings type.", "name", name)
	r.settings[name] = &RegisteredSettings{New: newFn}
}

// Handler returns the handler registered under name.
func (r *Registry) Handler(name string) (*RegisteredHandler, bool) {
	h, ok := r.handlers[name]
	return h, ok
}

// Settings returns the settings type registered under name.
func (r *Registry) Settings(name string) (*RegisteredSettings, bool) {
	s, ok := r.settings[name]
	return s, ok
}

// HandlerNames returns the sorted names of all registered handlers.
func (r *Registry) HandlerNames() []string {
	return sortedKeys(r.handlers)
}

// SettingsNames returns the sorted names of all registered settings types.
func (r *Registry) SettingsNames() []string {
	return sortedKeys(r.settings)
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
