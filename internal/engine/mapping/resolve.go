package mapping

import (
	"slices"

	"github.com/dshills/proseline/internal/engine/node"
)

// ResolvedPos is an offset resolved against a document.
type ResolvedPos struct {
	// Node owns the position: the parent of the text run containing the
	// offset, or an empty container starting at it.
	Node *node.Node

	// Path holds the content indices from the root to the text run, or to
	// Node when the position is inside an empty container.
	Path []int

	// Offset is the position relative to Node's start.
	Offset int

	// ContentIndex is the text run's index in Node's content, or -1 for an
	// empty container.
	ContentIndex int

	// TextOffset is the position within the text run.
	TextOffset int
}

// Depth returns the number of content steps from the root to Node.
func (p ResolvedPos) Depth() int {
	if p.ContentIndex < 0 {
		return len(p.Path)
	}
	return len(p.Path) - 1
}

// NodeContent is a text run located by NodeContentAt.
type NodeContent struct {
	Node         *node.Node
	Content      node.Text
	ContentIndex int
}

func checkRange(op string, root *node.Node, start, end int) error {
	if start < 0 || end < start || end > root.End() {
		return rangeErr(op, start, end, root.End(), ErrRangeOutOfBounds)
	}
	return nil
}

// emptyAt reports whether e is a container with no content whose range
// holds the collapsed range at offset.
func emptyAt(e Entry, start, end int) bool {
	return !e.IsText && e.Node.ChildCount() == 0 && start == end && e.Start == start
}

// emptyContainerAt returns the path of the first empty container starting
// at offset.
func emptyContainerAt(root *node.Node, offset int) ([]int, bool) {
	var (
		path  []int
		found bool
	)
	Walk(root, Linear, func(e Entry) Action {
		if e.IsText || !e.Contains(offset, offset) {
			return Skip
		}
		if emptyAt(e, offset, offset) {
			path, found = e.Path, true
			return Stop
		}
		return Descend
	})
	return path, found
}

// steer returns a filter that keeps a collapsed lookup at start on the
// way to an empty container starting there. It is nil for other ranges
// or when no such container exists.
func steer(root *node.Node, start, end int) func(Entry) bool {
	if start != end {
		return nil
	}
	target, ok := emptyContainerAt(root, start)
	if !ok {
		return nil
	}
	return func(e Entry) bool {
		return len(e.Path) <= len(target) && slices.Equal(e.Path, target[:len(e.Path)])
	}
}

// ResolvePosition resolves offset to the text run containing it. At a
// boundary between two runs the earlier run wins, unless an empty
// container starts there.
func ResolvePosition(root *node.Node, offset int) (ResolvedPos, error) {
	if err := checkRange("resolve position", root, offset, offset); err != nil {
		return ResolvedPos{}, err
	}

	var pos ResolvedPos
	found := false
	onPath := steer(root, offset, offset)
	Walk(root, Linear, func(e Entry) Action {
		if !e.Contains(offset, offset) || (onPath != nil && !onPath(e)) {
			return Skip
		}
		switch {
		case e.IsText:
			pos = ResolvedPos{
				Node:         e.Parent,
				Path:         e.Path,
				Offset:       offset - e.ParentStart,
				ContentIndex: e.Index,
				TextOffset:   offset - e.Start,
			}
		case emptyAt(e, offset, offset):
			pos = ResolvedPos{
				Node:         e.Node,
				Path:         e.Path,
				Offset:       0,
				ContentIndex: -1,
			}
		default:
			return Descend
		}
		found = true
		return Stop
	})
	if !found {
		return ResolvedPos{}, rangeErr("resolve position", offset, offset, root.End(), ErrOffsetOutOfBounds)
	}
	return pos, nil
}

// LocateNodeForRange returns the most specific node containing [start, end].
//
// When a text run contains the range its owner is returned, preferring the
// earlier run at a shared boundary. A caret at the start of an empty
// container resolves to the container even when a run ends there. A range
// that straddles runs or paragraphs resolves to their nearest common
// container.
func LocateNodeForRange(root *node.Node, start, end int) (*node.Node, error) {
	if err := checkRange("locate node", root, start, end); err != nil {
		return nil, err
	}

	var best *node.Node
	onPath := steer(root, start, end)
	Walk(root, Linear, func(e Entry) Action {
		if !e.Contains(start, end) || (onPath != nil && !onPath(e)) {
			return Skip
		}
		if e.IsText {
			best = e.Parent
			return Stop
		}
		best = e.Node
		if emptyAt(e, start, end) {
			return Stop
		}
		return Descend
	})
	if best == nil {
		return nil, rangeErr("locate node", start, end, root.End(), ErrRangeOutOfBounds)
	}
	return best, nil
}

// NodeContentAt returns the first text run containing [start, end].
func NodeContentAt(root *node.Node, start, end int) (NodeContent, error) {
	if err := checkRange("node content", root, start, end); err != nil {
		return NodeContent{}, err
	}

	var (
		out   NodeContent
		found bool
	)
	Walk(root, Linear, func(e Entry) Action {
		if !e.Contains(start, end) {
			return Skip
		}
		if !e.IsText {
			return Descend
		}
		out = NodeContent{Node: e.Parent, Content: node.Text(e.Text), ContentIndex: e.Index}
		found = true
		return Stop
	})
	if !found {
		return NodeContent{}, rangeErr("node content", start, end, root.End(), ErrRangeOutOfBounds)
	}
	return out, nil
}

// NodesInRange returns, in document order, the owners of every text run
// that overlaps [start, end]. A collapsed range returns the single node
// LocateNodeForRange selects.
func NodesInRange(root *node.Node, start, end int) ([]*node.Node, error) {
	if err := checkRange("nodes in range", root, start, end); err != nil {
		return nil, err
	}
	if start == end {
		n, err := LocateNodeForRange(root, start, end)
		if err != nil {
			return nil, err
		}
		return []*node.Node{n}, nil
	}

	var out []*node.Node
	seen := make(map[*node.Node]bool)
	Walk(root, Linear, func(e Entry) Action {
		if e.End < start || e.Start > end {
			return Skip
		}
		if !e.IsText {
			return Descend
		}
		if e.Start < end && e.End > start && !seen[e.Parent] {
			seen[e.Parent] = true
			out = append(out, e.Parent)
		}
		return Skip
	})
	if len(out) == 0 {
		n, err := LocateNodeForRange(root, start, end)
		if err != nil {
			return nil, err
		}
		out = append(out, n)
	}
	return out, nil
}
