// Package print provides the Printer command, which writes a configured
// message to the output. It needs no external service.
package print

import (
	"context"
	"fmt"
	"strings"

	"github.com/specialistvlad/tfsutils/internal/ctxlog"
	"github.com/specialistvlad/tfsutils/internal/registry"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Module implements the registry.Module interface for this package.
type Module struct{}

// Settings are the configured properties of a Printer command.
type Settings struct {
	// Message is printed when no arguments are given.
	Message   string
	Repeat    int
	Uppercase bool
	Tags      []string
}

// Printer prints its settings' message, or the command arguments.
type Printer struct {
	env      registry.Environment
	settings *Settings
}

// New is the handler factory registered for Printer.
func New(env registry.Environment, settings any) (registry.Handler, error) {
	s, ok := settings.(*Settings)
	if !ok {
		return nil, fmt.Errorf("unexpected settings type %T", settings)
	}
	return &Printer{env: env, settings: s}, nil
}

// ValidateArguments implements registry.Handler. Arguments are optional, but
// there must be something to print.
func (p *Printer) ValidateArguments(args []string) error {
	if len(args) == 0 && strings.TrimSpace(p.settings.Message) == "" {
		return fmt.Errorf("nothing to print: pass a message or configure Message")
	}
	return nil
}

// Invoke implements registry.Handler.
func (p *Printer) Invoke(ctx context.Context, args []string) error {
	logger := ctxlog.FromContext(ctx)

	msg := p.settings.Message
	if len(args) > 0 {
		msg = strings.Join(args, " ")
	}
	if p.settings.Uppercase {
		msg = cases.Upper(language.Und).String(msg)
	}
	if len(p.settings.Tags) > 0 {
		msg = fmt.Sprintf("[%s] %s", strings.Join(p.settings.Tags, ", "), msg)
	}

	repeat := max(p.settings.Repeat, 1)
	logger.Debug("Printing message.", "repeat", repeat)
	for range repeat {
		if _, err := fmt.Fprintln(p.env.Out, msg); err != nil {
			return err
		}
	}
	return nil
}

// Register registers the handler and its settings type.
func (m *Module) Register(r *registry.Registry) {
	settings := r.RegisterSettings(Settings{})
	r.RegisterHandler(registry.NameOf(Printer{}), &registry.RegisteredHandler{
		New:         New,
		Settings:    settings,
		Description: "print a message",
	})
}
