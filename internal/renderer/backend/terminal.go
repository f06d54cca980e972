// Package backend renders documents on a terminal with tcell.
//
// Terminal implements view.Surface. The view tree is a dom element tree,
// so the mapping package resolves positions against it unchanged; the
// terminal lays the tree out as rows and keeps the native selection as a
// pair of view points shown with the terminal cursor.
package backend

import (
	"sync"

	"github.com/gdamore/tcell/v2"

	"github.com/dshills/proseline/internal/engine/mapping"
	"github.com/dshills/proseline/internal/engine/node"
	"github.com/dshills/proseline/internal/engine/transaction"
	"github.com/dshills/proseline/internal/view/dom"
)

// Terminal is a view.Surface on a tcell screen.
type Terminal struct {
	mu     sync.Mutex
	screen tcell.Screen
	view   *dom.Document
	lay    *screenLayout

	// first visible row
	top int
}

// NewTerminal creates a terminal on the process's tty.
func NewTerminal() (*Terminal, error) {
	screen, err := tcell.NewScreen()
	if err != nil {
		return nil, err
	}
	return NewTerminalWithScreen(screen), nil
}

// NewTerminalWithScreen creates a terminal on screen, such as a
// tcell.SimulationScreen.
func NewTerminalWithScreen(screen tcell.Screen) *Terminal {
	return &Terminal{screen: screen}
}

// Init initializes the screen with mouse and paste support.
func (t *Terminal) Init() error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if err := t.screen.Init(); err != nil {
		return err
	}
	t.screen.EnableMouse()
	t.screen.EnablePaste()
	return nil
}

// Shutdown restores the terminal.
func (t *Terminal) Shutdown() {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.screen.Fini()
}

// Size returns the screen size in cells.
func (t *Terminal) Size() (int, int) {
	t.mu.Lock()
	defer t.mu.Unlock()

	return t.screen.Size()
}

// Render implements view.Surface.
func (t *Terminal) Render(doc *node.Node, changed *transaction.Range) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.view == nil {
		t.view = dom.New(doc)
	} else if err := t.view.Render(doc, changed); err != nil {
		return err
	}
	t.lay = layoutView(t.view.Element())
	t.draw()
	return nil
}

// Root implements view.Surface.
func (t *Terminal) Root() mapping.ViewNode {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.view == nil {
		return nil
	}
	return t.view.Root()
}

// NativeSelection implements view.Surface.
func (t *Terminal) NativeSelection() (mapping.ViewRange, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.view == nil {
		return mapping.ViewRange{}, false
	}
	return t.view.NativeSelection()
}

// SetNativeSelection implements view.Surface.
func (t *Terminal) SetNativeSelection(r mapping.ViewRange) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.view == nil {
		return
	}
	t.view.SetNativeSelection(r)
	t.draw()
}

// Cursor returns the screen cell of the selection focus.
func (t *Terminal) Cursor() (x, y int, ok bool) {
	t.mu.Lock()
	defer t.mu.Unlock()

	_, focus, ok := t.selectionSlots()
	if !ok {
		return 0, 0, false
	}
	s := t.lay.slots[focus]
	return s.col, s.row - t.top, true
}

// Move moves the selection focus as a cursor key would. With extend the
// anchor stays put. It reports whether the focus moved.
func (t *Terminal) Move(dir Direction, extend bool) bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.lay == nil || len(t.lay.slots) == 0 {
		return false
	}
	anchor, focus, ok := t.selectionSlots()
	if !ok {
		anchor, focus = 0, 0
	}

	cur := t.lay.slots[focus]
	target := focus
	switch dir {
	case DirLeft:
		target = max(focus-1, 0)
	case DirRight:
		target = min(focus+1, len(t.lay.slots)-1)
	case DirUp:
		if cur.row > 0 {
			target = t.lay.nearest(cur.row-1, cur.col)
		}
	case DirDown:
		if cur.row+1 < t.lay.rows() {
			target = t.lay.nearest(cur.row+1, cur.col)
		}
	case DirHome:
		target, _ = t.lay.rowSlots(cur.row)
	case DirEnd:
		_, end := t.lay.rowSlots(cur.row)
		target = end - 1
	}
	if target == focus && ok {
		return false
	}
	if !extend {
		anchor = target
	}
	t.selectSlots(anchor, target)
	return true
}

// Click places a caret at the slot nearest screen cell (x, y).
func (t *Terminal) Click(x, y int) bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.lay == nil || t.lay.rows() == 0 {
		return false
	}
	row := min(max(y+t.top, 0), t.lay.rows()-1)
	i := t.lay.nearest(row, x)
	t.selectSlots(i, i)
	return true
}

func (t *Terminal) selectSlots(anchor, focus int) {
	a, f := t.lay.slots[anchor], t.lay.slots[focus]
	t.view.SetNativeSelection(mapping.ViewRange{
		Anchor: mapping.ViewPoint{Node: a.node, Offset: a.offset},
		Focus:  mapping.ViewPoint{Node: f.node, Offset: f.offset},
	})
	t.draw()
}

// selectionSlots returns the slots of the native selection's ends.
func (t *Terminal) selectionSlots() (anchor, focus int, ok bool) {
	if t.view == nil || t.lay == nil {
		return 0, 0, false
	}
	r, has := t.view.NativeSelection()
	if !has {
		return 0, 0, false
	}
	anchor, ok1 := t.lay.find(r.Anchor)
	focus, ok2 := t.lay.find(r.Focus)
	return anchor, focus, ok1 && ok2
}

// draw paints the layout, scrolled to keep the focus visible, with the
// selection reversed.
func (t *Terminal) draw() {
	if t.lay == nil {
		return
	}
	_, h := t.screen.Size()
	anchor, focus, hasSel := t.selectionSlots()

	if hasSel {
		row := t.lay.slots[focus].row
		if row < t.top {
			t.top = row
		} else if h > 0 && row >= t.top+h {
			t.top = row - h + 1
		}
	}

	var from, to slot
	highlight := hasSel && anchor != focus
	if highlight {
		from, to = t.lay.slots[anchor], t.lay.slots[focus]
		if before(to, from) {
			from, to = to, from
		}
	}

	t.screen.Clear()
	for _, c := range t.lay.cells {
		y := c.row - t.top
		if y < 0 || y >= h {
			continue
		}
		style := c.style
		at := slot{row: c.row, col: c.col}
		if highlight && !before(at, from) && before(at, to) {
			style = style.Reverse(true)
		}
		t.screen.SetContent(c.col, y, c.mainc, c.comb, style)
	}

	if hasSel {
		s := t.lay.slots[focus]
		t.screen.ShowCursor(s.col, s.row-t.top)
	} else {
		t.screen.HideCursor()
	}
	t.screen.Show()
}
