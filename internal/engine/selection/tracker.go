package selection

import (
	"fmt"

	"github.com/dshills/proseline/internal/engine/mapping"
	"github.com/dshills/proseline/internal/engine/node"
)

// Tracker holds the selection for one document root together with the
// nodes it resolves to.
type Tracker struct {
	root    *node.Node
	sel     Selection
	matched []*node.Node
}

// NewTracker creates a tracker with a caret at the start of root.
func NewTracker(root *node.Node) *Tracker {
	t := &Tracker{root: root}
	t.matched = t.resolve(t.sel)
	return t
}

// Root returns the tracked document root.
func (t *Tracker) Root() *node.Node {
	return t.root
}

// Selection returns the current selection.
func (t *Tracker) Selection() Selection {
	return t.sel
}

// Matched returns the nodes the selection touches, in document order.
func (t *Tracker) Matched() []*node.Node {
	out := make([]*node.Node, len(t.matched))
	copy(out, t.matched)
	return out
}

// Set replaces the selection. The tracker is unchanged on error.
func (t *Tracker) Set(sel Selection) error {
	if t.root == nil {
		return ErrNoRoot
	}
	if err := sel.Validate(t.root.End()); err != nil {
		return err
	}
	t.sel = sel
	t.matched = t.resolve(sel)
	return nil
}

// UpdateRoot swaps the tracked root and re-resolves the current selection
// against it. A selection that no longer fits fails without changing the
// tracker.
func (t *Tracker) UpdateRoot(root *node.Node) error {
	if root == nil {
		return ErrNoRoot
	}
	if err := t.sel.Validate(root.End()); err != nil {
		return err
	}
	t.root = root
	t.matched = t.resolve(t.sel)
	return nil
}

// Sync replaces both the root and the selection, as after a transaction
// has been applied. The tracker is unchanged on error.
func (t *Tracker) Sync(root *node.Node, sel Selection) error {
	if root == nil {
		return ErrNoRoot
	}
	if err := sel.Validate(root.End()); err != nil {
		return err
	}
	t.root = root
	t.sel = sel
	t.matched = t.resolve(sel)
	return nil
}

// UpdateFromView recomputes the selection from a native selection in the
// rendered view rooted at viewRoot.
func (t *Tracker) UpdateFromView(viewRoot mapping.ViewNode, r mapping.ViewRange) error {
	if t.root == nil {
		return ErrNoRoot
	}
	anchor, err := mapping.OffsetFromView(t.root, viewRoot, r.Anchor.Node, r.Anchor.Offset)
	if err != nil {
		return fmt.Errorf("selection anchor: %w", err)
	}
	head := anchor
	if !r.IsCollapsed() {
		if head, err = mapping.OffsetFromView(t.root, viewRoot, r.Focus.Node, r.Focus.Offset); err != nil {
			return fmt.Errorf("selection focus: %w", err)
		}
	}
	return t.Set(New(anchor, head))
}

// resolve finds the nodes touched by sel. A selection that resolves to
// nothing, such as one resting on the trailing delimiter, matches the root.
func (t *Tracker) resolve(sel Selection) []*node.Node {
	if t.root == nil {
		return nil
	}
	nodes, err := mapping.NodesInRange(t.root, sel.Start(), sel.End())
	if err != nil || len(nodes) == 0 {
		return []*node.Node{t.root}
	}
	return nodes
}
