package app

import (
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/dshills/proseline/internal/config"
	"github.com/dshills/proseline/internal/engine/schema"
	"github.com/dshills/proseline/internal/logging"
	"github.com/dshills/proseline/internal/metrics"
	"github.com/dshills/proseline/internal/plugin"
	"github.com/dshills/proseline/internal/plugin/lua"
)

// bootstrapper initializes components in dependency order and undoes the
// ones already started when a later step fails.
type bootstrapper struct {
	app       *Application
	opts      Options
	initOrder []string
}

func newBootstrapper(app *Application) *bootstrapper {
	return &bootstrapper{
		app:       app,
		opts:      app.opts,
		initOrder: make([]string, 0, 6),
	}
}

func (b *bootstrapper) bootstrap() error {
	steps := []struct {
		name string
		fn   func() error
	}{
		{"config", b.initConfig},
		{"logging", b.initLogging},
		{"metrics", b.initMetrics},
		{"document", b.initDocument},
		{"handlers", b.initHandlers},
		{"watcher", b.initWatcher},
	}
	for _, s := range steps {
		if err := s.fn(); err != nil {
			b.cleanup()
			return &InitError{Component: s.name, Err: err}
		}
		b.initOrder = append(b.initOrder, s.name)
	}
	return nil
}

func (b *bootstrapper) initConfig() error {
	path := b.opts.ConfigPath
	if path == "" {
		path = config.DefaultPath()
	}
	cfg, err := config.Load(path)
	if err != nil {
		return err
	}

	if b.opts.SchemaPath != "" {
		cfg.Schema = b.opts.SchemaPath
	}
	if b.opts.SnapshotPath != "" {
		cfg.Snapshot = b.opts.SnapshotPath
	}
	if b.opts.LogLevel != "" {
		cfg.Log.Level = b.opts.LogLevel
	}
	if b.opts.MetricsAddr != "" {
		cfg.Metrics.Addr = b.opts.MetricsAddr
	}
	if len(b.opts.HandlerPaths) > 0 {
		cfg.Handlers.Paths = b.opts.HandlerPaths
	}
	if b.opts.NoHandlers {
		cfg.Handlers.Disabled = true
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	b.app.config = cfg
	return nil
}

func (b *bootstrapper) initLogging() error {
	level, ok := logging.ParseLevel(b.app.config.Log.Level)
	if !ok {
		return fmt.Errorf("invalid log level %q", b.app.config.Log.Level)
	}

	w := b.opts.LogOutput
	closeFn := func() error { return nil }
	if w == nil {
		var err error
		w, closeFn, err = logging.OpenFile(b.app.config.Log.File)
		if err != nil {
			return err
		}
	}
	b.app.logger = logging.New(level, w)
	b.app.logClose = closeFn
	return nil
}

func (b *bootstrapper) initMetrics() error {
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector())
	b.app.promReg = reg
	b.app.metrics = metrics.New(reg)

	if addr := b.app.config.Metrics.Addr; addr != "" {
		srv, err := serveMetrics(addr, reg, logging.WithComponent(b.app.logger, "metrics"))
		if err != nil {
			return err
		}
		b.app.server = srv
	}
	return nil
}

func (b *bootstrapper) initDocument() error {
	sch := schema.Default()
	if path := b.app.config.Schema; path != "" {
		loaded, err := schema.Load(path)
		if err != nil {
			return err
		}
		sch = loaded
	}
	st, err := loadState(sch, b.app.config.Snapshot, b.app.config.Schema != "")
	if err != nil {
		return err
	}
	b.app.schema = st.Schema()
	b.app.initial = st
	return nil
}

func (b *bootstrapper) initHandlers() error {
	reg := plugin.NewRegistry()
	if err := plugin.RegisterBuiltins(reg); err != nil {
		return err
	}
	b.app.registry = reg
	if b.app.config.Handlers.Disabled {
		return nil
	}

	logger := logging.WithComponent(b.app.logger, "lua")
	loaderOpts := []lua.LoaderOption{
		lua.WithStateOptions(
			lua.WithExecutionTimeout(b.app.config.Handlers.Timeout()),
			lua.WithLogger(logger),
		),
	}
	if len(b.app.config.Handlers.Paths) > 0 {
		loaderOpts = append(loaderOpts, lua.WithPaths(b.app.config.Handlers.Paths...))
	}

	handlers, err := lua.NewLoader(loaderOpts...).Load()
	if err != nil {
		// a broken script does not stop the others
		logger.Warn("some handlers failed to load", "error", err)
	}
	for _, h := range handlers {
		if err := reg.Register(h); err != nil {
			logger.Warn("handler not registered", "handler", h.Name(), "path", h.Path(), "error", err)
			_ = h.Close()
			continue
		}
		b.app.handlers = append(b.app.handlers, h)
		logger.Info("handler loaded", "handler", h.Name(), "event", string(h.Event()), "path", h.Path())
	}
	return nil
}

func (b *bootstrapper) initWatcher() error {
	cfg := b.app.config
	if cfg.Schema == "" || !cfg.Editor.WatchSchema {
		return nil
	}
	w, err := config.NewWatcher(
		config.WithDebounce(time.Duration(cfg.Editor.DebounceMS)*time.Millisecond),
		config.WithWatcherLogger(logging.WithComponent(b.app.logger, "watcher")),
	)
	if err != nil {
		return err
	}
	if err := w.Watch(cfg.Schema, b.app.reloadSchema); err != nil {
		_ = w.Close()
		return err
	}
	b.app.watcher = w
	return nil
}

// cleanup releases the components started so far, newest first.
func (b *bootstrapper) cleanup() {
	for i := len(b.initOrder) - 1; i >= 0; i-- {
		switch b.initOrder[i] {
		case "handlers":
			b.app.closeHandlers()
		case "metrics":
			b.app.stopMetrics()
		case "logging":
			if b.app.logClose != nil {
				_ = b.app.logClose()
			}
		}
	}
}
