package mapping

import (
	"fmt"

	"github.com/dshills/proseline/internal/engine/node"
)

// Measure describes how a traversal sizes the tree.
type Measure struct {
	// Leaf returns the length of a text run.
	Leaf func(text string) int

	// After returns the units consumed after leaving container n.
	// root is true for the traversal root.
	After func(n *node.Node, root bool) int
}

// Linear is the document's own measure: code points, plus one delimiter
// after every non-root paragraph.
var Linear = Measure{
	Leaf: node.TextLen,
	After: func(n *node.Node, root bool) int {
		if !root && n.Kind().Delimited() {
			return node.Delimiter
		}
		return 0
	},
}

// Action tells Walk how to continue after a visit.
type Action int

const (
	// Descend continues into the element's content.
	Descend Action = iota
	// Skip continues with the element's next sibling.
	Skip
	// Stop ends the traversal.
	Stop
)

// Entry is one element visited by Walk.
type Entry struct {
	// Node is set for containers.
	Node *node.Node

	// Text holds the run for text elements.
	Text   string
	IsText bool

	// Parent owns the element; nil for the root.
	Parent *node.Node

	// Index is the element's position in Parent's content; -1 for the root.
	Index int

	// Path holds the content indices leading from the root to the element.
	Path []int

	// Start and End are the element's measured range. ParentStart is the
	// measured start of Parent.
	Start       int
	End         int
	ParentStart int

	// View and ParentView are the parallel rendered nodes when walking with
	// a view; nil otherwise.
	View       ViewNode
	ParentView ViewNode
}

// Contains reports whether [start, end] lies within the entry's range.
func (e Entry) Contains(start, end int) bool {
	return e.Start <= start && end <= e.End
}

// Walk visits root and its content depth-first in document order.
func Walk(root *node.Node, m Measure, visit func(Entry) Action) {
	w := walker{measure: m, visit: visit}
	w.container(root, nil, nil, -1, 0, 0, nil, nil, true)
}

// WalkView walks root and viewRoot in lockstep, filling Entry.View.
// It fails with ErrViewMismatch when the two trees are not parallel along
// the visited path.
func WalkView(root *node.Node, viewRoot ViewNode, m Measure, visit func(Entry) Action) error {
	if viewRoot == nil {
		return fmt.Errorf("%w: nil view root", ErrViewMismatch)
	}
	w := walker{measure: m, visit: visit, withView: true}
	w.container(root, nil, nil, -1, 0, 0, viewRoot, nil, true)
	return w.err
}

type walker struct {
	measure  Measure
	visit    func(Entry) Action
	withView bool
	stopped  bool
	err      error
}

// size returns the measured length of n's content.
func (w *walker) size(n *node.Node) int {
	total := 0
	for i := 0; i < n.ChildCount(); i++ {
		switch c := n.ContentAt(i).(type) {
		case node.Text:
			total += w.measure.Leaf(string(c))
		case *node.Node:
			total += w.size(c) + w.measure.After(c, false)
		}
	}
	return total
}

// container visits n at start and returns the offset following it.
func (w *walker) container(n, parent *node.Node, path []int, index, start, parentStart int, view, parentView ViewNode, root bool) int {
	end := start + w.size(n)
	entry := Entry{
		Node:        n,
		Parent:      parent,
		Index:       index,
		Start:       start,
		End:         end,
		ParentStart: parentStart,
		Path:        path,
		View:        view,
		ParentView:  parentView,
	}

	var children []ViewNode
	if w.withView {
		if _, isText := view.Text(); isText {
			w.fail(fmt.Errorf("%w: %s at %v rendered as text", ErrViewMismatch, n.Type(), path))
			return end
		}
		children = view.Children()
		if len(children) != n.ChildCount() {
			w.fail(fmt.Errorf("%w: %s at %v has %d elements, view has %d",
				ErrViewMismatch, n.Type(), path, n.ChildCount(), len(children)))
			return end
		}
	}

	switch w.visit(entry) {
	case Stop:
		w.stopped = true
	case Descend:
		acc := start
		for i := 0; i < n.ChildCount() && !w.stopped; i++ {
			var cv ViewNode
			if w.withView {
				cv = children[i]
			}
			switch c := n.ContentAt(i).(type) {
			case node.Text:
				acc = w.text(string(c), n, extend(path, i), i, acc, start, cv, view)
			case *node.Node:
				acc = w.container(c, n, extend(path, i), i, acc, start, cv, view, false)
			}
		}
	}
	return end + w.measure.After(n, root)
}

func (w *walker) text(s string, parent *node.Node, path []int, index, start, parentStart int, view, parentView ViewNode) int {
	end := start + w.measure.Leaf(s)
	if w.withView {
		if _, isText := view.Text(); !isText {
			w.fail(fmt.Errorf("%w: text run %d of %s rendered as container", ErrViewMismatch, index, parent.Type()))
			return end
		}
	}
	entry := Entry{
		Text:        s,
		IsText:      true,
		Parent:      parent,
		Index:       index,
		Start:       start,
		End:         end,
		ParentStart: parentStart,
		Path:        path,
		View:        view,
		ParentView:  parentView,
	}
	if w.visit(entry) == Stop {
		w.stopped = true
	}
	return end
}

func (w *walker) fail(err error) {
	if w.err == nil {
		w.err = err
	}
	w.stopped = true
}

// extend returns a copy of path with i appended.
func extend(path []int, i int) []int {
	out := make([]int, len(path)+1)
	copy(out, path)
	out[len(path)] = i
	return out
}
