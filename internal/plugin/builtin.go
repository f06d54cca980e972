package plugin

import (
	"golang.org/x/text/unicode/norm"

	"github.com/dshills/proseline/internal/engine/selection"
	"github.com/dshills/proseline/internal/engine/transaction"
)

// Built-in handler names.
const (
	NameInsertText     = "insert-text"
	NameDeleteBackward = "delete-backward"
	NameSplitBlock     = "split-block"
	NameCaretKeyUp     = "caret-sync-keyup"
	NameCaretMouseUp   = "caret-sync-mouseup"
)

// Builtins returns the default editing handlers in dispatch order.
func Builtins() []Handler {
	return []Handler{
		InsertText(),
		DeleteBackwardHandler(),
		SplitBlockHandler(),
		CaretSync(NameCaretKeyUp, EventKeyUp),
		CaretSync(NameCaretMouseUp, EventMouseUp),
	}
}

// RegisterBuiltins adds Builtins to r.
func RegisterBuiltins(r *Registry) error {
	for _, h := range Builtins() {
		if err := r.Register(h); err != nil {
			return err
		}
	}
	return nil
}

// InsertText replaces the selection with the event's text, normalized to
// NFC.
func InsertText() Handler {
	return NewHandler(NameInsertText, EventInput, func(ev Event, ctx Context) (*transaction.Transaction, error) {
		if ev.Text == "" {
			return nil, nil
		}
		tx := transaction.New(ctx.State)
		if err := ReplaceSelection(tx, ctx.State, norm.NFC.String(ev.Text)); err != nil {
			return nil, err
		}
		return tx, nil
	})
}

// DeleteBackwardHandler handles Backspace.
func DeleteBackwardHandler() Handler {
	return NewHandler(NameDeleteBackward, EventKeyDown, func(ev Event, ctx Context) (*transaction.Transaction, error) {
		if ev.Key != KeyBackspace {
			return nil, nil
		}
		tx := transaction.New(ctx.State)
		ok, err := DeleteBackward(tx, ctx.State)
		if err != nil || !ok {
			return nil, err
		}
		return tx, nil
	})
}

// SplitBlockHandler handles Enter.
func SplitBlockHandler() Handler {
	return NewHandler(NameSplitBlock, EventKeyDown, func(ev Event, ctx Context) (*transaction.Transaction, error) {
		if ev.Key != KeyEnter {
			return nil, nil
		}
		tx := transaction.New(ctx.State)
		if err := SplitBlock(tx, ctx.State); err != nil {
			return nil, err
		}
		return tx, nil
	})
}

// CaretSync copies the view's native selection into the state after the
// view has moved it on its own. The returned transaction has no steps.
func CaretSync(name string, et EventType) Handler {
	return NewHandler(name, et, func(_ Event, ctx Context) (*transaction.Transaction, error) {
		if !ctx.HasNative || ctx.ViewRoot == nil {
			return nil, nil
		}
		anchor, err := ctx.State.OffsetFromView(ctx.ViewRoot, ctx.Native.Anchor.Node, ctx.Native.Anchor.Offset)
		if err != nil {
			return nil, err
		}
		focus, err := ctx.State.OffsetFromView(ctx.ViewRoot, ctx.Native.Focus.Node, ctx.Native.Focus.Offset)
		if err != nil {
			return nil, err
		}
		sel := selection.New(anchor, focus)
		if sel == ctx.State.Selection() {
			return nil, nil
		}
		return transaction.New(ctx.State).SetSelection(sel), nil
	})
}
