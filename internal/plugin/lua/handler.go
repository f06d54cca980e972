package lua

import (
	"fmt"
	"path/filepath"
	"strings"

	lua "github.com/yuin/gopher-lua"

	"github.com/dshills/proseline/internal/engine"
	"github.com/dshills/proseline/internal/engine/node"
	"github.com/dshills/proseline/internal/engine/selection"
	"github.com/dshills/proseline/internal/engine/transaction"
	"github.com/dshills/proseline/internal/plugin"
)

// Handler is a plugin.Handler backed by a Lua script.
type Handler struct {
	name   string
	event  plugin.EventType
	path   string
	state  *State
	bridge *Bridge
}

var _ plugin.Handler = (*Handler)(nil)

// New loads a handler from source. A string global "name" in the script
// overrides name.
func New(name, source string, opts ...StateOption) (*Handler, error) {
	state := NewState(opts...)
	if err := state.DoString(source); err != nil {
		state.Close()
		return nil, fmt.Errorf("lua handler %s: %w", name, err)
	}
	return newHandler(name, "", state)
}

// LoadFile loads a handler from a .lua file, named after the file unless
// the script sets a name global.
func LoadFile(path string, opts ...StateOption) (*Handler, error) {
	name := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	state := NewState(opts...)
	if err := state.DoFile(path); err != nil {
		state.Close()
		return nil, fmt.Errorf("lua handler %s: %w", path, err)
	}
	return newHandler(name, path, state)
}

func newHandler(name, path string, state *State) (*Handler, error) {
	if s, ok := state.GetGlobal("name").(lua.LString); ok && s != "" {
		name = string(s)
	}

	es, _ := state.GetGlobal("event").(lua.LString)
	et, ok := plugin.ParseEventType(string(es))
	if !ok {
		state.Close()
		return nil, fmt.Errorf("lua handler %s: %w: %q", name, ErrInvalidEvent, string(es))
	}
	if state.GetGlobal("handle").Type() != lua.LTFunction {
		state.Close()
		return nil, fmt.Errorf("lua handler %s: %w", name, ErrNoHandle)
	}

	return &Handler{
		name:   name,
		event:  et,
		path:   path,
		state:  state,
		bridge: NewBridge(state.L),
	}, nil
}

// Name implements plugin.Handler.
func (h *Handler) Name() string { return h.name }

// Event implements plugin.Handler.
func (h *Handler) Event() plugin.EventType { return h.event }

// Path returns the script file, or "" for a handler loaded from source.
func (h *Handler) Path() string { return h.path }

// Close releases the script's interpreter.
func (h *Handler) Close() error { return h.state.Close() }

// Handle calls the script's handle function and turns the operations it
// returns into a transaction.
func (h *Handler) Handle(ev plugin.Event, ctx plugin.Context) (*transaction.Transaction, error) {
	results, err := h.state.Call("handle", h.bridge.EventTable(ev), h.bridge.DocTable(ctx.State))
	if err != nil {
		return nil, fmt.Errorf("lua handler %s: %w", h.name, err)
	}
	if len(results) == 0 || results[0] == lua.LNil {
		return nil, nil
	}
	ops, ok := results[0].(*lua.LTable)
	if !ok {
		return nil, fmt.Errorf("lua handler %s: %w: handle returned %s", h.name, ErrInvalidOp, results[0].Type())
	}
	if ops.Len() == 0 {
		return nil, nil
	}

	tx := transaction.New(ctx.State)
	for i := 1; i <= ops.Len(); i++ {
		op, ok := ops.RawGetInt(i).(*lua.LTable)
		if !ok {
			return nil, fmt.Errorf("lua handler %s: op %d: %w: not a table", h.name, i, ErrInvalidOp)
		}
		if err := h.apply(tx, ctx.State, op); err != nil {
			return nil, fmt.Errorf("lua handler %s: op %d: %w", h.name, i, err)
		}
	}
	return tx, nil
}

// apply registers one operation on tx.
func (h *Handler) apply(tx *transaction.Transaction, st *engine.State, op *lua.LTable) error {
	kind, _ := h.bridge.GetTableString(op, "op")
	switch kind {
	case "insert_text":
		text, ok := h.bridge.GetTableString(op, "text")
		if !ok {
			return fmt.Errorf("%w: insert_text needs text", ErrInvalidOp)
		}
		return plugin.ReplaceSelection(tx, st, text)

	case "delete_backward":
		_, err := plugin.DeleteBackward(tx, st)
		return err

	case "split_block":
		return plugin.SplitBlock(tx, st)

	case "add_paragraph":
		attrs, err := h.bridge.GetTableAttrs(op, "attrs")
		if err != nil {
			return err
		}
		var content []node.Content
		if text, _ := h.bridge.GetTableString(op, "text"); text != "" {
			content = append(content, node.Text(text))
		}
		return tx.AddNode(node.KindParagraph.String(), attrs, content...)

	case "set_attrs":
		index, ok := h.bridge.GetTableInt(op, "index")
		if !ok || index < 1 {
			return fmt.Errorf("%w: set_attrs needs a 1-based index", ErrInvalidOp)
		}
		attrs, err := h.bridge.GetTableAttrs(op, "attrs")
		if err != nil {
			return err
		}
		tx.UpdateNodeAttrs(index-1, attrs)
		return nil

	case "select":
		anchor, ok1 := h.bridge.GetTableInt(op, "anchor")
		head, ok2 := h.bridge.GetTableInt(op, "head")
		if !ok1 {
			return fmt.Errorf("%w: select needs an anchor", ErrInvalidOp)
		}
		if !ok2 {
			head = anchor
		}
		tx.SetSelection(selection.New(anchor, head))
		return nil

	default:
		return fmt.Errorf("%w: unknown op %q", ErrInvalidOp, kind)
	}
}
