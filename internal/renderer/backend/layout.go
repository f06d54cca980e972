package backend

import (
	"fmt"
	"strings"

	"github.com/gdamore/tcell/v2"
	"github.com/rivo/uniseg"

	"github.com/dshills/proseline/internal/engine/mapping"
	"github.com/dshills/proseline/internal/view/dom"
)

// slot is a caret position on screen and the view point it stands for.
type slot struct {
	row, col int
	node     mapping.ViewNode
	offset   int
}

type pointKey struct {
	node   mapping.ViewNode
	offset int
}

type cell struct {
	row, col int
	mainc    rune
	comb     []rune
	style    tcell.Style
}

// screenLayout is the rendered view laid out as rows of cells. Every
// block with inline content gets one row; rows do not wrap.
type screenLayout struct {
	cells []cell
	slots []slot

	// rowStart[r] is the first slot of row r
	rowStart []int

	// index maps view points to slots, including points that share a
	// slot with the end of the run before them
	index map[pointKey]int
}

func (l *screenLayout) rows() int { return len(l.rowStart) }

// rowSlots returns the slot index range of row r.
func (l *screenLayout) rowSlots(r int) (int, int) {
	end := len(l.slots)
	if r+1 < len(l.rowStart) {
		end = l.rowStart[r+1]
	}
	return l.rowStart[r], end
}

// find returns the slot for p. A point inside a grapheme cluster maps to
// the cluster's start.
func (l *screenLayout) find(p mapping.ViewPoint) (int, bool) {
	if i, ok := l.index[pointKey{p.Node, p.Offset}]; ok {
		return i, true
	}
	best := -1
	for i, s := range l.slots {
		if s.node == p.Node && s.offset <= p.Offset {
			best = i
		}
	}
	return best, best >= 0
}

// nearest returns the slot in row r closest to col, preferring the one at
// or left of it.
func (l *screenLayout) nearest(r, col int) int {
	from, to := l.rowSlots(r)
	best := from
	for i := from; i < to; i++ {
		if l.slots[i].col <= col {
			best = i
		}
	}
	return best
}

func before(a, b slot) bool {
	return a.row < b.row || (a.row == b.row && a.col < b.col)
}

// layoutView lays out the element tree rooted at root.
func layoutView(root *dom.Element) *screenLayout {
	p := &painter{lay: &screenLayout{index: make(map[pointKey]int)}}
	p.block(root, tcell.StyleDefault)
	return p.lay
}

type painter struct {
	lay *screenLayout

	open   bool
	owner  *dom.Element
	row    int
	col    int
	indent int
	depth  int
	prefix string
}

// block lays out e's content. Inline children share a row; each block
// child starts its own.
func (p *painter) block(e *dom.Element, style tcell.Style) {
	laidOut := false
	for i := 0; i < e.Len(); i++ {
		c := e.Child(i)
		if isInline(c) {
			if !p.open {
				p.openRow(e)
			}
			p.inline(c, style)
			laidOut = true
			continue
		}
		p.closeRow()
		p.nested(e, i, c, style)
		laidOut = true
	}
	if !laidOut {
		p.openRow(e)
	}
	p.closeRow()
}

func (p *painter) nested(parent *dom.Element, i int, c *dom.Element, style tcell.Style) {
	switch c.Tag() {
	case "ul", "ol":
		p.depth++
		p.block(c, style)
		p.depth--
	case "li":
		bullet := "• "
		if parent.Tag() == "ol" {
			bullet = fmt.Sprintf("%d. ", i+1)
		}
		p.prefix = strings.Repeat("  ", max(p.depth-1, 0)) + bullet
		p.block(c, style)
	default:
		p.block(c, styleFor(c.Tag(), style))
	}
}

func (p *painter) inline(e *dom.Element, style tcell.Style) {
	if s, ok := e.Text(); ok {
		p.text(e, s, style)
		return
	}
	if e.Tag() == "img" {
		p.put('▣', nil, style)
		return
	}
	style = styleFor(e.Tag(), style)
	for i := 0; i < e.Len(); i++ {
		p.inline(e.Child(i), style)
	}
}

// text paints a run and records a slot at every grapheme boundary.
func (p *painter) text(e *dom.Element, s string, style tcell.Style) {
	p.addSlot(e, 0)
	offset := 0
	g := uniseg.NewGraphemes(s)
	for g.Next() {
		runes := g.Runes()
		w := g.Width()
		if w > 0 {
			p.put(runes[0], runes[1:], style)
			p.col += w - 1
		}
		offset += len(runes)
		p.addSlot(e, offset)
	}
}

func (p *painter) put(mainc rune, comb []rune, style tcell.Style) {
	p.lay.cells = append(p.lay.cells, cell{row: p.row, col: p.col, mainc: mainc, comb: comb, style: style})
	p.col++
}

// addSlot records a caret position at the current column. A position
// on the same column as the row's last slot shares it.
func (p *painter) addSlot(n *dom.Element, offset int) {
	key := pointKey{n, offset}
	if last := len(p.lay.slots) - 1; last >= p.lay.rowStart[p.row] {
		if s := p.lay.slots[last]; s.col == p.col {
			p.lay.index[key] = last
			return
		}
	}
	p.lay.index[key] = len(p.lay.slots)
	p.lay.slots = append(p.lay.slots, slot{row: p.row, col: p.col, node: n, offset: offset})
}

func (p *painter) openRow(owner *dom.Element) {
	p.open = true
	p.owner = owner
	p.row = len(p.lay.rowStart)
	p.col = 0
	p.lay.rowStart = append(p.lay.rowStart, len(p.lay.slots))
	for _, r := range p.prefix {
		p.put(r, nil, tcell.StyleDefault.Dim(true))
	}
	p.prefix = ""
	p.indent = p.col
}

// closeRow ends the open row. A row without text gets one slot on its
// owner so the caret can rest there.
func (p *painter) closeRow() {
	if !p.open {
		return
	}
	if len(p.lay.slots) == p.lay.rowStart[p.row] {
		col := p.col
		p.col = p.indent
		p.addSlot(p.owner, 0)
		p.col = col
	}
	p.open = false
}

func isInline(e *dom.Element) bool {
	if _, ok := e.Text(); ok {
		return true
	}
	switch e.Tag() {
	case "span", "b", "i", "img":
		return true
	default:
		return false
	}
}

func styleFor(tag string, base tcell.Style) tcell.Style {
	switch tag {
	case "b":
		return base.Bold(true)
	case "i":
		return base.Italic(true)
	case "h1", "h2", "h3", "h4", "h5", "h6":
		return base.Bold(true).Underline(true)
	default:
		return base
	}
}
