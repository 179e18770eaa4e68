package app

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"sync/atomic"

	"github.com/vk/powerspec/internal/config"
	"github.com/vk/powerspec/internal/ctxlog"
	"github.com/vk/powerspec/internal/executable"
	"github.com/vk/powerspec/internal/pipeline"
	"github.com/vk/powerspec/internal/publish"
)

// StoreFactory opens the object store artifacts are published to.
type StoreFactory func(cfg publish.Config) (publish.Store, error)

// App encapsulates the application's dependencies, configuration, and lifecycle.
type App struct {
	outW     io.Writer
	logger   *slog.Logger
	config   *Config
	model    *config.Model
	runner   executable.Runner
	newStore StoreFactory
	newRunID func() string
	state    atomic.Value // pipeline.State
}

// Option customizes an App.
type Option func(*App)

// WithRunner replaces the process runner, which otherwise spawns real
// processes with output going to outW.
func WithRunner(r executable.Runner) Option {
	return func(a *App) { a.runner = r }
}

// WithStoreFactory replaces the MinIO backed object store.
func WithStoreFactory(fn StoreFactory) Option {
	return func(a *App) { a.newStore = fn }
}

// WithRunID replaces the run id generator of every pipeline run.
func WithRunID(fn func() string) Option {
	return func(a *App) { a.newRunID = fn }
}

// NewApp is the constructor for the main application. It loads the pipeline
// configuration through loader and returns a ready App with its own
// isolated logger.
func NewApp(outW io.Writer, appConfig *Config, loader config.Loader, opts ...Option) (*App, error) {
	logger := newLogger(appConfig.LogLevel, appConfig.LogFormat, outW)
	ctx := ctxlog.WithLogger(context.Background(), logger)
	logger.Debug("Logger configured successfully.")

	cfgModel, err := loader.Load(ctx, appConfig.ConfigPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}
	logger.Debug("Configuration loaded and translated into unified model.")

	a := &App{
		outW:     outW,
		logger:   logger,
		config:   appConfig,
		model:    cfgModel,
		runner:   &executable.ExecRunner{Stdout: outW, Stderr: outW},
		newStore: minioStore,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a, nil
}

// Model returns the loaded configuration model. This is primarily for testing.
func (a *App) Model() *config.Model {
	return a.model
}

// State is the state of the current or last pipeline run, or zero before
// the first transition.
func (a *App) State() pipeline.State {
	s, _ := a.state.Load().(pipeline.State)
	return s
}

func minioStore(cfg publish.Config) (publish.Store, error) {
	s, err := publish.NewMinioStore(cfg)
	if err != nil {
		return nil, err
	}
	return s, nil
}
