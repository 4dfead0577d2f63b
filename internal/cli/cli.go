package cli

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/caarlos0/env/v11"
	"github.com/specialistvlad/tfsutils/internal/app"
)

// ExitError is a custom error type that includes a specific exit code.
type ExitError struct {
	Code    int
	Message string
}

// Error implements the error interface for ExitError.
func (e *ExitError) Error() string {
	return e.Message
}

// Parse processes command-line arguments. Settings are read from the
// environment first and flags override them. It returns a populated Config,
// a boolean indicating if the program should exit cleanly, or an ExitError.
func Parse(args []string, output io.Writer) (*app.Config, bool, error) {
	slog.Debug("CLI parser started.")

	var cfg app.Config
	if err := env.Parse(&cfg); err != nil {
		return nil, false, &ExitError{Code: 2, Message: fmt.Sprintf("parse env: %v", err)}
	}

	flagSet := flag.NewFlagSet("tfsutils", flag.ContinueOnError)
	flagSet.SetOutput(output)

	flagSet.Usage = func() {
		fmt.Fprint(output, `
TfsUtils - runs the commands declared in its configuration file.

Usage:
  tfsutils [options] COMMAND [ARGUMENTS...]
  tfsutils [options] -watch

Arguments:
  COMMAND
    Name of a configured command, matched case-insensitively. Run without a
    command to list the configured ones.

Options:
`)
		flagSet.PrintDefaults()
	}

	var configPaths []string
	addPath := func(p string) error {
		if strings.TrimSpace(p) == "" {
			return errors.New("path must not be empty")
		}
		configPaths = append(configPaths, p)
		return nil
	}
	flagSet.Func("config", "Path to a configuration file or directory. May be repeated. Default: <executable>.config", addPath)
	flagSet.Func("c", "Path to a configuration file or directory (shorthand).", addPath)
	flagSet.StringVar(&cfg.Section, "section", cfg.Section, "Name of the XML section that holds the commands.")
	flagSet.StringVar(&cfg.LogFormat, "log-format", cfg.LogFormat, "Log output format. Options: 'text' or 'json'.")
	flagSet.StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "Set the logging level. Options: 'debug', 'info', 'warn', 'error'.")
	flagSet.BoolVar(&cfg.Watch, "watch", cfg.Watch, "Keep running and reload the configuration when it changes.")
	flagSet.IntVar(&cfg.HealthcheckPort, "healthcheck-port", cfg.HealthcheckPort, "Port for the HTTP health check server in watch mode. 0 is disabled.")

	if err := flagSet.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return nil, true, nil
		}
		return nil, false, &ExitError{Code: 2, Message: err.Error()}
	}
	slog.Debug("Arguments parsed successfully.")

	if len(configPaths) > 0 {
		cfg.ConfigPaths = configPaths
	}
	if flagSet.NArg() > 0 {
		cfg.Command = flagSet.Arg(0)
		cfg.Args = flagSet.Args()[1:]
	}
	slog.Debug("Command determined.", "command", cfg.Command, "args", cfg.Args)

	cfg.LogFormat = strings.ToLower(cfg.LogFormat)
	if cfg.LogFormat != "text" && cfg.LogFormat != "json" {
		return nil, false, &ExitError{Code: 2, Message: "invalid log-format: must be 'text' or 'json'"}
	}

	cfg.LogLevel = strings.ToLower(cfg.LogLevel)
	switch cfg.LogLevel {
	case "debug", "info", "warn", "error":
		// valid
	default:
		return nil, false, &ExitError{Code: 2, Message: "invalid log-level: must be 'debug', 'info', 'warn', or 'error'"}
	}
	slog.Debug("CLI parameter validation complete.")

	config, err := app.NewConfig(cfg)
	if err != nil {
		return nil, false, &ExitError{Code: 2, Message: err.Error()}
	}

	slog.Debug("CLI parser finished successfully.", "config", config)
	return config, false, nil
}
