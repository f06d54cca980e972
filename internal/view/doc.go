// Package view keeps a rendered view in step with the document state.
//
// A Controller owns the current engine.State, a selection Tracker and a
// Surface, the rendered-view adapter. View events go to the handlers
// registered for their type; each handler may return a transaction,
// which is dispatched onto a FIFO queue and flushed in order:
//
//  1. the transaction is applied, producing a new State with offsets
//     recomputed,
//  2. the tracker takes the new root and selection,
//  3. the Surface re-renders the changed range,
//  4. the selection is written back to the Surface as a native selection,
//  5. handlers implementing plugin.AfterSyncer run.
//
// A transaction that fails to apply is logged and dropped; the prior
// state stays current. Handler errors and panics are caught per
// invocation.
//
// The controller is not safe for concurrent use. Run it on the goroutine
// that owns the view.
package view
