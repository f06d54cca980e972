package lua

import (
	"fmt"

	lua "github.com/yuin/gopher-lua"

	"github.com/dshills/proseline/internal/engine"
	"github.com/dshills/proseline/internal/engine/node"
	"github.com/dshills/proseline/internal/plugin"
)

// Bridge converts between Go and Lua values.
type Bridge struct {
	L *lua.LState
}

// NewBridge creates a Bridge for L.
func NewBridge(L *lua.LState) *Bridge {
	return &Bridge{L: L}
}

// ToGoValue converts a Lua value. Whole numbers become int, sequences
// become []any and other tables map[string]any. Functions, and tables
// already being converted, become nil.
func (b *Bridge) ToGoValue(lv lua.LValue) any {
	return b.toGo(lv, make(map[*lua.LTable]bool))
}

func (b *Bridge) toGo(lv lua.LValue, visited map[*lua.LTable]bool) any {
	switch v := lv.(type) {
	case lua.LBool:
		return bool(v)
	case lua.LNumber:
		f := float64(v)
		if f == float64(int(f)) {
			return int(f)
		}
		return f
	case lua.LString:
		return string(v)
	case *lua.LTable:
		if visited[v] {
			return nil
		}
		visited[v] = true
		defer delete(visited, v)
		return b.tableToGo(v, visited)
	case *lua.LUserData:
		return v.Value
	default:
		return nil
	}
}

func (b *Bridge) tableToGo(t *lua.LTable, visited map[*lua.LTable]bool) any {
	n := t.Len()
	count := 0
	t.ForEach(func(_, _ lua.LValue) { count++ })

	if n > 0 && n == count {
		arr := make([]any, n)
		for i := 1; i <= n; i++ {
			arr[i-1] = b.toGo(t.RawGetInt(i), visited)
		}
		return arr
	}

	m := make(map[string]any, count)
	t.ForEach(func(k, v lua.LValue) {
		m[k.String()] = b.toGo(v, visited)
	})
	return m
}

// ToLuaValue converts a Go value. Unsupported types become their
// formatted string.
func (b *Bridge) ToLuaValue(v any) lua.LValue {
	switch val := v.(type) {
	case nil:
		return lua.LNil
	case bool:
		return lua.LBool(val)
	case int:
		return lua.LNumber(val)
	case int64:
		return lua.LNumber(val)
	case float64:
		return lua.LNumber(val)
	case string:
		return lua.LString(val)
	case []any:
		t := b.L.CreateTable(len(val), 0)
		for _, item := range val {
			t.Append(b.ToLuaValue(item))
		}
		return t
	case []string:
		t := b.L.CreateTable(len(val), 0)
		for _, item := range val {
			t.Append(lua.LString(item))
		}
		return t
	case map[string]any:
		return b.mapToTable(val)
	case node.Attrs:
		return b.mapToTable(val)
	case lua.LValue:
		return val
	default:
		return lua.LString(fmt.Sprint(val))
	}
}

func (b *Bridge) mapToTable(m map[string]any) *lua.LTable {
	t := b.L.CreateTable(0, len(m))
	for k, v := range m {
		t.RawSetString(k, b.ToLuaValue(v))
	}
	return t
}

// EventTable converts ev to the table handle receives.
func (b *Bridge) EventTable(ev plugin.Event) *lua.LTable {
	t := b.L.CreateTable(0, 8)
	t.RawSetString("type", lua.LString(ev.Type))
	t.RawSetString("key", lua.LString(ev.Key.String()))
	if ev.Rune != 0 {
		t.RawSetString("rune", lua.LString(string(ev.Rune)))
	}
	t.RawSetString("text", lua.LString(ev.Text))
	t.RawSetString("shift", lua.LBool(ev.Mod.Has(plugin.ModShift)))
	t.RawSetString("ctrl", lua.LBool(ev.Mod.Has(plugin.ModCtrl)))
	t.RawSetString("alt", lua.LBool(ev.Mod.Has(plugin.ModAlt)))
	return t
}

// DocTable converts st to the read-only snapshot handle receives:
//
//	{ selection = { anchor, head, start, finish }, length,
//	  blocks = { { type, attrs, text, start, finish }, ... } }
func (b *Bridge) DocTable(st *engine.State) *lua.LTable {
	doc := st.Doc()
	sel := st.Selection()

	s := b.L.CreateTable(0, 4)
	s.RawSetString("anchor", lua.LNumber(sel.Anchor))
	s.RawSetString("head", lua.LNumber(sel.Head))
	s.RawSetString("start", lua.LNumber(sel.Start()))
	s.RawSetString("finish", lua.LNumber(sel.End()))

	blocks := b.L.CreateTable(doc.ChildCount(), 0)
	for _, c := range doc.Content() {
		n, ok := c.(*node.Node)
		if !ok {
			continue
		}
		bt := b.L.CreateTable(0, 5)
		bt.RawSetString("type", lua.LString(n.Type()))
		bt.RawSetString("attrs", b.mapToTable(n.Attrs()))
		bt.RawSetString("text", lua.LString(n.TextContent()))
		bt.RawSetString("start", lua.LNumber(n.Start()))
		bt.RawSetString("finish", lua.LNumber(n.End()))
		blocks.Append(bt)
	}

	t := b.L.CreateTable(0, 3)
	t.RawSetString("selection", s)
	t.RawSetString("length", lua.LNumber(doc.End()))
	t.RawSetString("blocks", blocks)
	return t
}

// GetTableString returns t[key] when it is a string.
func (b *Bridge) GetTableString(t *lua.LTable, key string) (string, bool) {
	s, ok := t.RawGetString(key).(lua.LString)
	return string(s), ok
}

// GetTableInt returns t[key] when it is a whole number.
func (b *Bridge) GetTableInt(t *lua.LTable, key string) (int, bool) {
	n, ok := t.RawGetString(key).(lua.LNumber)
	if !ok || float64(n) != float64(int(n)) {
		return 0, false
	}
	return int(n), true
}

// GetTableAttrs returns t[key] as node attributes. A missing key gives
// nil.
func (b *Bridge) GetTableAttrs(t *lua.LTable, key string) (node.Attrs, error) {
	switch v := t.RawGetString(key).(type) {
	case *lua.LNilType:
		return nil, nil
	case *lua.LTable:
		attrs := node.Attrs{}
		var err error
		v.ForEach(func(k, val lua.LValue) {
			ks, ok := k.(lua.LString)
			if !ok {
				err = fmt.Errorf("%w: attribute key %s is not a string", ErrInvalidOp, k)
				return
			}
			attrs[string(ks)] = b.ToGoValue(val)
		})
		return attrs, err
	default:
		return nil, fmt.Errorf("%w: %s must be a table, got %s", ErrInvalidOp, key, v.Type())
	}
}
