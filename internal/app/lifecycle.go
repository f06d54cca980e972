package app

import (
	"context"
	"errors"

	"github.com/dshills/proseline/internal/engine/schema"
	"github.com/dshills/proseline/internal/logging"
	"github.com/dshills/proseline/internal/plugin"
	"github.com/dshills/proseline/internal/view"
)

// SetBackend attaches the view and builds the controller on the loaded
// state. The backend must already be initialized.
func (app *Application) SetBackend(b Backend) error {
	app.mu.Lock()
	defer app.mu.Unlock()

	if app.running.Load() {
		return ErrAlreadyRunning
	}
	st := app.initial
	if app.controller != nil {
		st = app.controller.State()
	}
	c, err := view.New(st, b,
		view.WithLogger(app.logger),
		view.WithMetrics(app.metrics),
		view.WithRegistry(app.registry),
	)
	if err != nil {
		return err
	}
	app.backend = b
	app.controller = c
	return nil
}

// Run drives the backend's input loop until ctx is done or the user quits.
// A quit returns nil.
func (app *Application) Run(ctx context.Context) error {
	if app.backend == nil {
		return ErrNoBackend
	}
	if !app.running.CompareAndSwap(false, true) {
		return ErrAlreadyRunning
	}
	defer app.running.Store(false)

	app.logger.Info("editor started", "handlers", len(app.registry.Names()))
	err := app.backend.Run(ctx, app.handle)
	if errors.Is(err, ErrQuit) || errors.Is(err, context.Canceled) {
		err = nil
	}

	if app.opts.SaveOnExit && app.config.Snapshot != "" {
		if serr := app.Save(); serr != nil {
			app.logger.Error("save on exit failed", "path", app.config.Snapshot, "error", serr)
			err = errors.Join(err, serr)
		}
	}
	return err
}

// handle passes one view event to the controller.
func (app *Application) handle(ev plugin.Event) {
	app.mu.Lock()
	defer app.mu.Unlock()

	app.controller.HandleEvent(ev)
}

// Save writes the current state to the snapshot path.
func (app *Application) Save() error {
	path := app.config.Snapshot
	if path == "" {
		return ErrNoSnapshotPath
	}
	if err := saveState(app.State(), path); err != nil {
		return err
	}
	app.logger.Info("snapshot saved", "path", path)
	return nil
}

// reloadSchema is the schema file's watch handler.
func (app *Application) reloadSchema(path string) {
	logger := logging.WithComponent(app.logger, "watcher")
	sch, err := schema.Load(path)
	if err != nil {
		logger.Warn("schema reload failed", "path", path, "error", err)
		return
	}

	app.mu.Lock()
	defer app.mu.Unlock()

	if app.controller == nil {
		st, err := app.initial.Reconfigure(sch, nil)
		if err != nil {
			logger.Warn("schema rejected", "path", path, "error", err)
			return
		}
		app.initial = st
		app.schema = sch
		return
	}
	if err := app.controller.Reconfigure(sch); err != nil {
		logger.Warn("schema rejected", "path", path, "error", err)
		return
	}
	app.schema = sch
}

// Shutdown stops the watcher, handlers, metrics server and backend.
// It is safe to call more than once.
func (app *Application) Shutdown() {
	app.shutdown.Do(func() {
		if app.watcher != nil {
			_ = app.watcher.Close()
		}
		app.closeHandlers()
		app.stopMetrics()
		if app.backend != nil {
			app.backend.Shutdown()
		}
		if app.logClose != nil {
			_ = app.logClose()
		}
	})
}

func (app *Application) closeHandlers() {
	for _, h := range app.handlers {
		_ = h.Close()
	}
	app.handlers = nil
}
