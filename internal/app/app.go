package app

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"github.com/specialistvlad/tfsutils/internal/commands"
	"github.com/specialistvlad/tfsutils/internal/config"
	"github.com/specialistvlad/tfsutils/internal/ctxlog"
	"github.com/specialistvlad/tfsutils/internal/hclconfig"
	"github.com/specialistvlad/tfsutils/internal/mapper"
	"github.com/specialistvlad/tfsutils/internal/registry"
	"github.com/specialistvlad/tfsutils/internal/tomlconfig"
	"github.com/specialistvlad/tfsutils/internal/xmlconfig"
	"github.com/specialistvlad/tfsutils/internal/yamlconfig"
)

// App encapsulates the application's dependencies, configuration, and lifecycle.
type App struct {
	outW       io.Writer
	errW       io.Writer
	logger     *slog.Logger
	config     *Config
	catalog    *registry.Registry
	loader     *config.Loader
	mapper     *mapper.Mapper
	store      *commands.Store
	httpServer *http.Server
}

// NewApp is the constructor for the main application. Command output goes to
// outW; logs and diagnostics go to errW. Without modules the core modules are
// registered. The configuration is loaded before NewApp returns.
func NewApp(ctx context.Context, outW, errW io.Writer, cfg *Config, modules ...registry.Module) (*App, error) {
	logger := newLogger(cfg.LogLevel, cfg.LogFormat, errW)
	ctx = ctxlog.WithLogger(ctx, logger)
	logger.Debug("Logger configured successfully.")

	catalog := registry.New()
	if len(modules) == 0 {
		modules = coreModules
	}
	for _, mod := range modules {
		mod.Register(catalog)
	}
	logger.Debug("All Go modules registered.", "count", len(modules))

	if err := catalog.Validate(ctx); err != nil {
		return nil, err
	}
	logger.Debug("Registry validation passed.")

	a := &App{
		outW:    outW,
		errW:    errW,
		logger:  logger,
		config:  cfg,
		catalog: catalog,
		loader: config.NewLoader(
			xmlconfig.NewParser(cfg.Section),
			hclconfig.NewParser(),
			yamlconfig.NewParser(),
			tomlconfig.NewParser(),
		),
		mapper: mapper.Default(),
		store:  commands.NewStore(nil),
	}

	if _, err := a.Reload(ctx); err != nil {
		return nil, err
	}
	return a, nil
}

// Reload loads the configuration again and publishes the resulting commands.
// On failure the previously published commands stay in effect.
func (a *App) Reload(ctx context.Context) (*commands.Registry, error) {
	ctx = ctxlog.WithLogger(ctx, a.logger)

	model, err := a.loader.Load(ctx, a.config.ConfigPaths...)
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}
	a.logger.Debug("Configuration loaded and translated into unified model.")

	reg, err := commands.Build(ctx, model, a.catalog, a.mapper)
	if err != nil {
		return nil, fmt.Errorf("failed to build commands: %w", err)
	}
	a.store.Publish(reg)
	return reg, nil
}

// Commands returns the currently published commands.
func (a *App) Commands() *commands.Registry {
	return a.store.Load()
}

// Catalog returns the registered handler and settings types. This is
// primarily for testing.
func (a *App) Catalog() *registry.Registry {
	return a.catalog
}

// Run dispatches the configured command, or watches the configuration when
// watch mode is enabled.
func (a *App) Run(ctx context.Context) error {
	if a.config.Watch {
		return a.Watch(ctx)
	}
	return a.Dispatch(ctx, a.config.Command, a.config.Args)
}
