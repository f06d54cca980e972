package dom

import (
	"fmt"

	"github.com/dshills/proseline/internal/engine/mapping"
	"github.com/dshills/proseline/internal/engine/node"
	"github.com/dshills/proseline/internal/engine/transaction"
)

// Document is a rendered view with a native selection.
type Document struct {
	root     *Element
	sel      mapping.ViewRange
	hasSel   bool
	rendered int
}

// New creates a Document rendering doc.
func New(doc *node.Node) *Document {
	d := &Document{}
	_ = d.Render(doc, nil)
	return d
}

// Root returns the rendered root element.
func (d *Document) Root() mapping.ViewNode { return d.root }

// Element returns the rendered root as an *Element.
func (d *Document) Element() *Element { return d.root }

// Render brings the view in line with doc. When changed is non-nil only
// top-level blocks from changed.From onward are rebuilt; earlier blocks
// keep their elements. Rendering drops the native selection.
func (d *Document) Render(doc *node.Node, changed *transaction.Range) error {
	if doc == nil {
		return fmt.Errorf("dom: render nil document")
	}
	d.hasSel = false
	if d.root == nil || changed == nil || TagFor(doc) != d.root.tag {
		d.root = Render(doc)
		d.rendered = doc.ChildCount()
		return nil
	}

	from := min(max(changed.From, 0), doc.ChildCount(), len(d.root.children))
	kids := make([]*Element, from, doc.ChildCount())
	copy(kids, d.root.children[:from])
	for i := from; i < doc.ChildCount(); i++ {
		switch c := doc.ContentAt(i).(type) {
		case node.Text:
			kids = append(kids, &Element{isText: true, text: string(c), parent: d.root})
		case *node.Node:
			kids = append(kids, render(c, d.root))
		}
	}
	d.root.children = kids
	d.root.attrs = doc.Attrs()
	d.rendered = doc.ChildCount() - from
	return nil
}

// Rendered returns how many top-level blocks the last Render rebuilt.
func (d *Document) Rendered() int { return d.rendered }

// NativeSelection returns the view's selection, if any.
func (d *Document) NativeSelection() (mapping.ViewRange, bool) {
	return d.sel, d.hasSel
}

// SetNativeSelection replaces the view's selection.
func (d *Document) SetNativeSelection(r mapping.ViewRange) {
	d.sel = r
	d.hasSel = true
}

// Select places the native selection on text runs, as a user click or
// drag would.
func (d *Document) Select(anchor *Element, anchorOffset int, focus *Element, focusOffset int) {
	d.SetNativeSelection(mapping.ViewRange{
		Anchor: mapping.ViewPoint{Node: anchor, Offset: anchorOffset},
		Focus:  mapping.ViewPoint{Node: focus, Offset: focusOffset},
	})
}
