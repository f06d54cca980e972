// Package app wires the proseline components into a running editor:
// configuration, logging, schema and document loading, Lua handlers,
// metrics, schema reloading and the terminal view.
package app

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"sync"
	"sync/atomic"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/dshills/proseline/internal/config"
	"github.com/dshills/proseline/internal/engine"
	"github.com/dshills/proseline/internal/engine/schema"
	"github.com/dshills/proseline/internal/metrics"
	"github.com/dshills/proseline/internal/plugin"
	"github.com/dshills/proseline/internal/plugin/lua"
	"github.com/dshills/proseline/internal/view"
)

// Backend is a rendered view that also owns the input loop.
type Backend interface {
	view.Surface
	Init() error
	Shutdown()
	Run(ctx context.Context, dispatch func(plugin.Event)) error
}

// Options configures the application. Non-empty fields override the
// loaded configuration.
type Options struct {
	// ConfigPath is the TOML config file. Empty uses config.DefaultPath.
	ConfigPath string

	// SchemaPath is a YAML or TOML schema spec file.
	SchemaPath string

	// SnapshotPath is the state snapshot to open and save.
	SnapshotPath string

	// LogLevel sets the logging verbosity.
	LogLevel string

	// MetricsAddr serves Prometheus metrics when set.
	MetricsAddr string

	// HandlerPaths replaces the Lua handler search paths.
	HandlerPaths []string

	// NoHandlers skips loading Lua handlers.
	NoHandlers bool

	// SaveOnExit writes the snapshot when Run returns.
	SaveOnExit bool

	// LogOutput overrides the configured log destination.
	LogOutput io.Writer
}

// Application is the central coordinator for proseline components.
type Application struct {
	mu sync.Mutex

	opts   Options
	config *config.Config
	logger *slog.Logger

	logClose func() error

	schema   *schema.Schema
	initial  *engine.State
	registry *plugin.Registry
	handlers []*lua.Handler

	promReg *prometheus.Registry
	metrics *metrics.Metrics
	server  *http.Server

	watcher *config.Watcher

	backend    Backend
	controller *view.Controller

	running  atomic.Bool
	shutdown sync.Once
}

// New loads configuration and initializes every component except the
// backend.
func New(opts Options) (*Application, error) {
	app := &Application{opts: opts}
	if err := newBootstrapper(app).bootstrap(); err != nil {
		return nil, err
	}
	return app, nil
}

// Config returns the merged configuration.
func (app *Application) Config() *config.Config { return app.config }

// Logger returns the application logger.
func (app *Application) Logger() *slog.Logger { return app.logger }

// Registry returns the handler registry shared with the controller.
func (app *Application) Registry() *plugin.Registry { return app.registry }

// Metrics returns the controller metrics.
func (app *Application) Metrics() *metrics.Metrics { return app.metrics }

// Gatherer returns the registry metrics are collected on.
func (app *Application) Gatherer() prometheus.Gatherer { return app.promReg }

// State returns the current editor state: the controller's once a backend
// is set, the loaded one before that.
func (app *Application) State() *engine.State {
	app.mu.Lock()
	defer app.mu.Unlock()

	if app.controller != nil {
		return app.controller.State()
	}
	return app.initial
}
