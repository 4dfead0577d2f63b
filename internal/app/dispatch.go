package app

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/specialistvlad/tfsutils/internal/commands"
	"github.com/specialistvlad/tfsutils/internal/ctxlog"
	"github.com/specialistvlad/tfsutils/internal/registry"
)

// CommandInfo describes a configured command for usage listings.
type CommandInfo struct {
	Name        string `json:"name"`
	Handler     string `json:"handler"`
	Description string `json:"description,omitempty"`
}

// UsageError is returned when the command line does not select a runnable
// command: no name, an unknown name, or arguments the handler rejects.
type UsageError struct {
	// Command is the requested command name, empty when none was given.
	Command  string
	Commands []CommandInfo
	// Err is the handler's argument validation error, if any.
	Err error
}

func (e *UsageError) Error() string {
	switch {
	case e.Err != nil:
		return fmt.Sprintf("invalid arguments for command '%s': %v", e.Command, e.Err)
	case e.Command == "":
		return "no command given"
	default:
		return fmt.Sprintf("unknown command '%s'", e.Command)
	}
}

// Unwrap returns the argument validation error.
func (e *UsageError) Unwrap() error {
	return e.Err
}

// WriteUsage prints the usage line and the configured commands.
func (e *UsageError) WriteUsage(w io.Writer, program string) {
	fmt.Fprintf(w, "Usage: %s [options] commandname [arguments]\n\n", program)
	if e.Err != nil {
		fmt.Fprintf(w, "%s: %v\n\n", e.Command, e.Err)
	}
	fmt.Fprintln(w, "command list:")
	for _, c := range e.Commands {
		if c.Description != "" {
			fmt.Fprintf(w, "\t%s\t%s\n", c.Name, c.Description)
		} else {
			fmt.Fprintf(w, "\t%s\n", c.Name)
		}
	}
}

// CommandList returns the published commands in configuration order.
func (a *App) CommandList() []CommandInfo {
	return commandList(a.store.Load())
}

func commandList(reg *commands.Registry) []CommandInfo {
	names := reg.Names()
	out := make([]CommandInfo, 0, len(names))
	for _, name := range names {
		cmd, _ := reg.Resolve(name)
		out = append(out, CommandInfo{Name: cmd.Name, Handler: cmd.HandlerType, Description: cmd.Description()})
	}
	return out
}

// Dispatch resolves name case-insensitively, builds its handler, validates
// args and invokes it.
func (a *App) Dispatch(ctx context.Context, name string, args []string) error {
	ctx = ctxlog.WithLogger(ctx, a.logger)
	reg := a.store.Load()

	name = strings.TrimSpace(name)
	if name == "" {
		return &UsageError{Commands: commandList(reg)}
	}
	cmd, ok := reg.Resolve(name)
	if !ok {
		a.logger.Debug("Command not found.", "command", name, "known", reg.Names())
		return &UsageError{Command: name, Commands: commandList(reg)}
	}

	logger := a.logger.With("command", cmd.Name)
	logger.Info("Initializing command.", "handler", cmd.HandlerType)

	handler, err := cmd.NewHandler(registry.Environment{
		ServerURI: reg.ServerURI(),
		Out:       a.outW,
		ErrOut:    a.errW,
	})
	if err != nil {
		return err
	}
	if err := handler.ValidateArguments(args); err != nil {
		return &UsageError{Command: cmd.Name, Commands: commandList(reg), Err: err}
	}

	if err := handler.Invoke(ctxlog.WithLogger(ctx, logger), args); err != nil {
		return fmt.Errorf("command '%s' failed: %w", cmd.Name, err)
	}
	logger.Debug("Command finished.")
	return nil
}
