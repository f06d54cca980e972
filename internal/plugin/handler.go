package plugin

import (
	"github.com/dshills/proseline/internal/engine"
	"github.com/dshills/proseline/internal/engine/mapping"
	"github.com/dshills/proseline/internal/engine/transaction"
)

// Context is what a handler sees of the editor.
type Context struct {
	// State is the current document state.
	State *engine.State

	// ViewRoot is the rendered view's root.
	ViewRoot mapping.ViewNode

	// Native is the rendered view's selection when HasNative is true.
	Native    mapping.ViewRange
	HasNative bool
}

// Handler turns view events into transactions.
type Handler interface {
	// Name identifies the handler in logs and metrics.
	Name() string

	// Event returns the event type the handler wants.
	Event() EventType

	// Handle returns a transaction for ev, or nil to ignore it.
	Handle(ev Event, ctx Context) (*transaction.Transaction, error)
}

// AfterSyncer is implemented by handlers that need to run after a
// transaction has been applied and the view resynchronized.
type AfterSyncer interface {
	AfterSync(tx *transaction.Transaction, st *engine.State)
}

// HandlerFunc adapts a function to Handler.
type HandlerFunc struct {
	name  string
	event EventType
	fn    func(Event, Context) (*transaction.Transaction, error)
}

// NewHandler creates a handler from fn.
func NewHandler(name string, event EventType, fn func(Event, Context) (*transaction.Transaction, error)) *HandlerFunc {
	return &HandlerFunc{name: name, event: event, fn: fn}
}

// Name implements Handler.
func (h *HandlerFunc) Name() string { return h.name }

// Event implements Handler.
func (h *HandlerFunc) Event() EventType { return h.event }

// Handle implements Handler.
func (h *HandlerFunc) Handle(ev Event, ctx Context) (*transaction.Transaction, error) {
	return h.fn(ev, ctx)
}
