package plugin

import (
	"fmt"

	"github.com/rivo/uniseg"

	"github.com/dshills/proseline/internal/engine"
	"github.com/dshills/proseline/internal/engine/mapping"
	"github.com/dshills/proseline/internal/engine/node"
	"github.com/dshills/proseline/internal/engine/selection"
	"github.com/dshills/proseline/internal/engine/transaction"
)

// edit is the current selection collapsed onto one top-level block.
type edit struct {
	first, last int        // blocks covered by the selection
	block       *node.Node // first block with the selection removed, laid out from 0
	at          int        // caret inside block
	offset      int        // caret in the document
}

// collapse removes the selected range from st's document, merging the
// first and last covered blocks. ok is false for an empty document.
func collapse(st *engine.State) (e edit, ok bool, err error) {
	doc := st.Doc()
	if doc.ChildCount() == 0 {
		return edit{}, false, nil
	}
	sel := st.Selection()
	start, end := sel.Start(), sel.End()

	first, firstBlock, err := blockAt(st, start)
	if err != nil {
		return edit{}, false, err
	}
	last, lastBlock, err := blockAt(st, end)
	if err != nil {
		return edit{}, false, err
	}

	from := start - firstBlock.Start()
	to := end - lastBlock.Start()
	local := firstBlock.RecalculateOffsets()

	if first == last {
		return edit{first: first, last: last, block: cut(local, from, to).RecalculateOffsets(), at: from, offset: start}, true, nil
	}
	if !isTextBlock(firstBlock) || !isTextBlock(lastBlock) {
		return edit{}, false, fmt.Errorf("%w: selection joins %s and %s", ErrUnsupportedBlock, firstBlock.Type(), lastBlock.Type())
	}
	head := cut(local, from, local.End())
	tail := cut(lastBlock.RecalculateOffsets(), 0, to)
	merged := head.WithContent(append(head.Content(), tail.Content()...)...)
	return edit{first: first, last: last, block: merged.RecalculateOffsets(), at: from, offset: start}, true, nil
}

// commit registers the steps replacing the covered blocks with nb.
func (e edit) commit(tx *transaction.Transaction, nb *node.Node) {
	tx.ReplaceNode(e.first, nb)
	for k := e.first + 1; k <= e.last; k++ {
		tx.RemoveNode(e.first + 1)
	}
}

// ReplaceSelection registers steps on tx that replace st's selection with
// text and leave a caret after it.
func ReplaceSelection(tx *transaction.Transaction, st *engine.State, text string) error {
	e, ok, err := collapse(st)
	if err != nil {
		return err
	}
	if !ok {
		if text == "" {
			return nil
		}
		if err := tx.AddNode(node.KindParagraph.String(), nil, node.Text(text)); err != nil {
			return err
		}
		tx.SetSelection(selection.Caret(node.TextLen(text)))
		return nil
	}

	nb, err := insertText(e.block, e.at, text)
	if err != nil {
		return err
	}
	e.commit(tx, nb)
	tx.SetSelection(selection.Caret(e.offset + node.TextLen(text)))
	return nil
}

// DeleteBackward registers steps on tx that delete the selection, or the
// grapheme cluster before the caret. At the start of a block, including the
// end of a heading followed by another block, the block is merged into the
// previous one. It reports false when there is nothing to delete.
func DeleteBackward(tx *transaction.Transaction, st *engine.State) (bool, error) {
	sel := st.Selection()
	if !sel.IsCaret() {
		return true, ReplaceSelection(tx, st, "")
	}
	if st.Doc().ChildCount() == 0 {
		return false, nil
	}

	caret := sel.Head
	i, block, err := blockAt(st, caret)
	if err != nil {
		return false, err
	}
	// An undelimited block shares its end with the next block's start;
	// the caret there belongs to the start of the next block.
	if next, ok := st.Doc().Child(i + 1); ok && !block.Kind().Delimited() && next.Start() == caret {
		i, block = i+1, next
	}
	at := caret - block.Start()

	if at > 0 {
		local := block.RecalculateOffsets()
		n := 1
		if pos, err := mapping.ResolvePosition(local, at); err == nil && pos.ContentIndex >= 0 && pos.TextOffset > 0 {
			run := pos.Node.ContentAt(pos.ContentIndex).(node.Text)
			n = lastClusterLen(node.Slice(string(run), 0, pos.TextOffset))
		}
		nb := cut(local, at-n, at)
		if nb == local {
			return false, nil
		}
		tx.ReplaceNode(i, nb)
		tx.SetSelection(selection.Caret(caret - n))
		return true, nil
	}

	if i == 0 {
		return false, nil
	}
	prev, ok := st.Doc().Child(i - 1)
	if !ok {
		return false, fmt.Errorf("%w: text run before block %d", ErrUnsupportedBlock, i)
	}
	switch {
	case isTextBlock(prev) && isTextBlock(block):
		tx.ReplaceNode(i-1, prev.WithContent(append(prev.Content(), block.Content()...)...))
		tx.RemoveNode(i)
	case block.IsEmpty():
		tx.RemoveNode(i)
	default:
		return false, nil
	}
	tx.SetSelection(selection.Caret(prev.End()))
	return true, nil
}

// SplitBlock registers steps on tx that delete the selection and split the
// block at the caret. The new block is a paragraph unless the split block
// is one already, in which case it keeps the block's attributes.
func SplitBlock(tx *transaction.Transaction, st *engine.State) error {
	e, ok, err := collapse(st)
	if err != nil {
		return err
	}
	para := node.KindParagraph.String()
	if !ok {
		for range 2 {
			if err := tx.AddNode(para, nil); err != nil {
				return err
			}
		}
		tx.SetSelection(selection.Caret(node.Delimiter))
		return nil
	}

	left := cut(e.block, e.at, e.block.End())
	right := cut(e.block, 0, e.at)
	e.commit(tx, left)

	typ, attrs := para, node.Attrs(nil)
	if e.block.Kind() == node.KindParagraph {
		attrs = e.block.Attrs()
	}
	if err := tx.InsertNode(e.first+1, typ, attrs, right.Content()...); err != nil {
		return err
	}

	caret := e.offset
	if left.Kind().Delimited() {
		caret += node.Delimiter
	}
	tx.SetSelection(selection.Caret(caret))
	return nil
}

// blockAt returns the top-level block containing offset.
func blockAt(st *engine.State, offset int) (int, *node.Node, error) {
	i, err := st.ParagraphIndexFrom(offset, offset)
	if err != nil {
		return -1, nil, err
	}
	b, ok := st.Doc().Child(i)
	if !ok {
		return -1, nil, fmt.Errorf("%w: text run at top level", ErrUnsupportedBlock)
	}
	return i, b, nil
}

func isTextBlock(n *node.Node) bool {
	switch n.Kind() {
	case node.KindParagraph, node.KindHeading:
		return true
	default:
		return false
	}
}

// cut returns n without the text in [from, to). n must be laid out.
// Nodes keep their structure even when emptied; delimiters are never
// removed.
func cut(n *node.Node, from, to int) *node.Node {
	if from >= to {
		return n
	}
	out := make([]node.Content, 0, n.ChildCount())
	changed := false
	for i := 0; i < n.ChildCount(); i++ {
		start := n.ContentStart(i)
		switch c := n.ContentAt(i).(type) {
		case node.Text:
			end := start + c.Len()
			if end <= from || start >= to {
				out = append(out, c)
				continue
			}
			changed = true
			lo, hi := max(from, start)-start, min(to, end)-start
			if rest := node.Slice(string(c), 0, lo) + node.Slice(string(c), hi, c.Len()); rest != "" {
				out = append(out, node.Text(rest))
			}
		case *node.Node:
			if c.End() <= from || c.Start() >= to {
				out = append(out, c)
				continue
			}
			nc := cut(c, from, to)
			changed = changed || nc != c
			out = append(out, nc)
		}
	}
	if !changed {
		return n
	}
	return n.WithContent(out...)
}

// insertText inserts s at local offset at of the laid-out block n. Text
// joins the run the caret rests in, preferring the earlier run at a
// boundary; an empty container receives a new run.
func insertText(n *node.Node, at int, s string) (*node.Node, error) {
	if s == "" {
		return n, nil
	}
	pos, err := mapping.ResolvePosition(n, at)
	if err != nil {
		return nil, err
	}
	if pos.ContentIndex < 0 {
		return rewrite(n, pos.Path, func(c node.Content) node.Content {
			return c.(*node.Node).WithContent(node.Text(s))
		})
	}
	return rewrite(n, pos.Path, func(c node.Content) node.Content {
		run := string(c.(node.Text))
		return node.Text(node.Splice(run, pos.TextOffset, pos.TextOffset, s))
	})
}

// rewrite returns n with the element at path replaced by fn's result.
func rewrite(n *node.Node, path []int, fn func(node.Content) node.Content) (*node.Node, error) {
	if len(path) == 0 {
		out, ok := fn(n).(*node.Node)
		if !ok {
			return nil, fmt.Errorf("%w: root replaced by text", ErrUnsupportedBlock)
		}
		return out, nil
	}
	i := path[0]
	if len(path) == 1 {
		return n.ReplaceChild(i, fn(n.ContentAt(i)))
	}
	child, ok := n.Child(i)
	if !ok {
		return nil, fmt.Errorf("%w: path %v crosses a text run", ErrUnsupportedBlock, path)
	}
	nc, err := rewrite(child, path[1:], fn)
	if err != nil {
		return nil, err
	}
	return n.ReplaceChild(i, nc)
}

// lastClusterLen returns the code point length of the final grapheme
// cluster of s.
func lastClusterLen(s string) int {
	n := 1
	g := uniseg.NewGraphemes(s)
	for g.Next() {
		n = len(g.Runes())
	}
	return n
}
