package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/specialistvlad/tfsutils/internal/app"
	"github.com/specialistvlad/tfsutils/internal/cli"
)

const programName = "tfsutils"

// main is the entrypoint for the tfsutils application.
func main() {
	// Use a minimal logger until the full one is configured.
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	})))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := run(ctx, os.Stdout, os.Stderr, os.Args[1:])
	stop()

	// The real main function handles errors and exit codes.
	if err != nil {
		var exitErr *cli.ExitError
		if errors.As(err, &exitErr) {
			fmt.Fprintln(os.Stderr, exitErr.Message)
			os.Exit(exitErr.Code)
		}
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// run encapsulates the main application logic for easier testing and error handling.
func run(ctx context.Context, outW, errW io.Writer, args []string) error {
	appConfig, shouldExit, err := cli.Parse(args, outW)
	if err != nil {
		return err
	}
	if shouldExit {
		return nil
	}

	tfsApp, err := app.NewApp(ctx, outW, errW, appConfig)
	if err != nil {
		return err
	}

	err = tfsApp.Run(ctx)
	var usageErr *app.UsageError
	if errors.As(err, &usageErr) {
		usageErr.WriteUsage(errW, programName)
		return &cli.ExitError{Code: 2, Message: usageErr.Error()}
	}
	return err
}
