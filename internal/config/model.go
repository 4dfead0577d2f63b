package config

import "strings"

// DefaultSection is the name of the section element that holds the command
// list in XML documents.
const DefaultSection = "TfsUtils"

// Model is the unified, format-agnostic representation of the configuration
// of every command known to the tool.
type Model struct {
	ServerURI string
	Commands  []*CommandDefinition
}

// CommandDefinition is the format-agnostic representation of a single
// `command` entry.
type CommandDefinition struct {
	// HandlerType is the fully-qualified name of the handler type.
	HandlerType string
	// Alias is the optional lookup name of the command.
	Alias string
	// SettingsType is the fully-qualified name of the settings type.
	SettingsType string
	// Properties holds the raw, unconverted settings values.
	Properties *Properties
	// Source describes where the definition was read from, for error messages.
	Source string
}

// Name returns the alias when it is set, otherwise the simple name of the
// handler type.
func (c *CommandDefinition) Name() string {
	if alias := strings.TrimSpace(c.Alias); alias != "" {
		return alias
	}
	return SimpleName(c.HandlerType)
}

// SimpleName returns the part of a fully-qualified type name after the last
// dot, e.g. "Searcher" for "example.com/modules/commentsearch.Searcher".
func SimpleName(typeName string) string {
	if i := strings.LastIndex(typeName, "."); i >= 0 {
		return typeName[i+1:]
	}
	return typeName
}
