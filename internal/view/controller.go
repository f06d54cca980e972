package view

import (
	"fmt"
	"log/slog"
	"runtime"
	"time"

	"github.com/dshills/proseline/internal/engine"
	"github.com/dshills/proseline/internal/engine/schema"
	"github.com/dshills/proseline/internal/engine/selection"
	"github.com/dshills/proseline/internal/engine/transaction"
	"github.com/dshills/proseline/internal/metrics"
	"github.com/dshills/proseline/internal/plugin"
)

// Controller routes view events to handlers and applies their
// transactions.
type Controller struct {
	state    *engine.State
	surface  Surface
	tracker  *selection.Tracker
	registry *plugin.Registry

	queue    []*transaction.Transaction
	flushing bool

	logger  *slog.Logger
	metrics *metrics.Metrics
	recover bool
}

// New creates a controller for st, rendering it in full onto surface.
func New(st *engine.State, surface Surface, opts ...Option) (*Controller, error) {
	if st == nil {
		return nil, ErrNilState
	}
	if surface == nil {
		return nil, ErrNilSurface
	}

	c := &Controller{
		state:   st,
		surface: surface,
		tracker: selection.NewTracker(st.Doc()),
		logger:  slog.Default(),
		recover: true,
	}
	for _, opt := range opts {
		opt(c)
	}
	c.logger = c.logger.With("component", "view")

	if c.registry == nil {
		c.registry = plugin.NewRegistry()
		if err := plugin.RegisterBuiltins(c.registry); err != nil {
			return nil, err
		}
	}

	if err := c.tracker.Sync(st.Doc(), st.Selection()); err != nil {
		return nil, err
	}
	if err := surface.Render(st.Doc(), nil); err != nil {
		return nil, fmt.Errorf("initial render: %w", err)
	}
	c.writeSelection()
	return c, nil
}

// State returns the current state.
func (c *Controller) State() *engine.State { return c.state }

// Tracker returns the selection tracker.
func (c *Controller) Tracker() *selection.Tracker { return c.tracker }

// Registry returns the handler registry.
func (c *Controller) Registry() *plugin.Registry { return c.registry }

// Surface returns the rendered view.
func (c *Controller) Surface() Surface { return c.surface }

// Pending returns the number of queued transactions.
func (c *Controller) Pending() int { return len(c.queue) }

// HandleEvent runs the handlers registered for ev's type in registration
// order. Each handler sees the state left by the one before it.
func (c *Controller) HandleEvent(ev plugin.Event) {
	for _, h := range c.registry.ForEvent(ev.Type) {
		tx, err := c.invoke(h, ev, c.context())
		if err != nil {
			c.logger.Warn("handler failed", "handler", h.Name(), "event", ev.String(), "error", err)
			c.metrics.RecordHandlerError(h.Name())
			continue
		}
		if tx != nil {
			c.Dispatch(tx)
		}
	}
}

// Dispatch queues tx and flushes the queue unless a flush is already
// running, in which case tx runs after the transactions ahead of it.
func (c *Controller) Dispatch(tx *transaction.Transaction) {
	if tx == nil {
		return
	}
	c.queue = append(c.queue, tx)
	c.metrics.SetQueueDepth(len(c.queue))
	if !c.flushing {
		c.Flush()
	}
}

// Flush applies queued transactions in order.
func (c *Controller) Flush() {
	c.flushing = true
	defer func() { c.flushing = false }()

	for len(c.queue) > 0 {
		tx := c.queue[0]
		c.queue[0] = nil
		c.queue = c.queue[1:]
		c.metrics.SetQueueDepth(len(c.queue))
		c.flush(tx)
	}
	c.queue = nil
}

func (c *Controller) flush(tx *transaction.Transaction) {
	start := time.Now()

	next, err := c.state.Apply(tx)
	if err != nil {
		c.logger.Warn("dropped transaction", "tx", tx.ID(), "error", err)
		c.metrics.RecordTransaction(metrics.ResultDropped, time.Since(start))
		return
	}
	c.state = next

	if err := c.tracker.Sync(next.Doc(), next.Selection()); err != nil {
		c.logger.Error("selection resync failed", "tx", tx.ID(), "error", err)
	}

	if changed, ok := tx.ChangedRange(); ok {
		if err := c.surface.Render(next.Doc(), &changed); err != nil {
			c.logger.Error("render failed", "tx", tx.ID(), "error", err)
		}
	}
	c.writeSelection()

	c.metrics.RecordTransaction(metrics.ResultApplied, time.Since(start))
	c.logger.Debug("applied transaction", "tx", tx.ID(), "steps", tx.Len(), "selection", next.Selection().String())

	for _, h := range c.registry.All() {
		if as, ok := h.(plugin.AfterSyncer); ok {
			c.afterSync(h.Name(), as, tx)
		}
	}
}

// writeSelection maps the state's selection into the view.
func (c *Controller) writeSelection() {
	sel := c.state.Selection()
	r, err := c.state.ViewRangeFrom(c.surface.Root(), sel.Start(), sel.End())
	if err != nil {
		c.logger.Debug("selection not mapped to view", "selection", sel.String(), "error", err)
		return
	}
	if sel.IsBackward() {
		r.Anchor, r.Focus = r.Focus, r.Anchor
	}
	c.surface.SetNativeSelection(r)
}

// SyncSelection reads the view's native selection into the tracker and
// the state.
func (c *Controller) SyncSelection() error {
	native, ok := c.surface.NativeSelection()
	if !ok {
		return nil
	}
	if err := c.tracker.UpdateFromView(c.surface.Root(), native); err != nil {
		return err
	}
	sel := c.tracker.Selection()
	if sel == c.state.Selection() {
		return nil
	}
	next, err := c.state.SetSelection(sel)
	if err != nil {
		return err
	}
	c.state = next
	return nil
}

// Reconfigure replaces the schema, keeping the document and selection,
// and renders the view in full. On error the current state is kept.
func (c *Controller) Reconfigure(sch *schema.Schema) error {
	next, err := c.state.Reconfigure(sch, nil)
	if err != nil {
		return err
	}
	c.state = next
	if err := c.tracker.Sync(next.Doc(), next.Selection()); err != nil {
		return err
	}
	if err := c.surface.Render(next.Doc(), nil); err != nil {
		return fmt.Errorf("render: %w", err)
	}
	c.writeSelection()
	c.logger.Info("schema reconfigured")
	return nil
}

func (c *Controller) context() plugin.Context {
	native, ok := c.surface.NativeSelection()
	return plugin.Context{
		State:     c.state,
		ViewRoot:  c.surface.Root(),
		Native:    native,
		HasNative: ok,
	}
}

// invoke runs h, turning a panic into an error when recovery is on.
func (c *Controller) invoke(h plugin.Handler, ev plugin.Event, ctx plugin.Context) (tx *transaction.Transaction, err error) {
	if c.recover {
		defer func() {
			if r := recover(); r != nil {
				tx, err = nil, panicError(h.Name(), r)
			}
		}()
	}
	return h.Handle(ev, ctx)
}

func (c *Controller) afterSync(name string, as plugin.AfterSyncer, tx *transaction.Transaction) {
	if c.recover {
		defer func() {
			if r := recover(); r != nil {
				c.logger.Warn("after-sync failed", "handler", name, "error", panicError(name, r))
				c.metrics.RecordHandlerError(name)
			}
		}()
	}
	as.AfterSync(tx, c.state)
}

func panicError(name string, r any) error {
	stack := make([]byte, 4096)
	n := runtime.Stack(stack, false)
	return fmt.Errorf("handler panic for %s: %v\n%s", name, r, stack[:n])
}
