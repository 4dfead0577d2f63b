package app

import (
	"context"
	"errors"

	"github.com/specialistvlad/tfsutils/internal/ctxlog"
	"github.com/specialistvlad/tfsutils/internal/watcher"
)

// Watch reloads the configuration whenever a watched file changes until ctx
// is cancelled. A failed reload is logged and the previous commands stay
// published.
func (a *App) Watch(ctx context.Context) error {
	ctx = ctxlog.WithLogger(ctx, a.logger)

	w, err := watcher.New(a.config.ConfigPaths, watcher.DefaultDebounce, a.loader.Extensions()...)
	if err != nil {
		return err
	}
	defer w.Close()

	if a.config.HealthcheckPort > 0 {
		a.startHealthcheckServer(a.config.HealthcheckPort)
		defer a.closeHealthcheckServer()
	}

	a.logger.Info("👀 Watching configuration for changes.", "paths", a.config.ConfigPaths, "commands", a.store.Load().Len())
	err = w.Run(ctx, func(ctx context.Context) {
		reg, err := a.Reload(ctx)
		if err != nil {
			a.logger.Error("Reload failed, keeping previous commands.", "error", err)
			return
		}
		a.logger.Info("Configuration reloaded.", "commands", reg.Names())
	})
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		a.logger.Debug("Watch stopped.")
		return nil
	}
	return err
}
