package mapping

import (
	"fmt"
	"slices"

	"github.com/dshills/proseline/internal/engine/node"
)

// ViewNode is one node of a rendered view. Containers mirror document
// nodes and text runs mirror Text elements. Implementations must be
// comparable, typically pointers.
type ViewNode interface {
	// Parent returns the enclosing container, or nil at the view root.
	Parent() ViewNode

	// Children returns the container's nodes in order; nil for text runs.
	Children() []ViewNode

	// Text returns the run's text and true, or false for containers.
	Text() (string, bool)
}

// ViewPosition locates a range inside a rendered view.
type ViewPosition struct {
	// Container is the rendered container owning the range.
	Container ViewNode

	// Node is the rendered text run holding the range, or nil when the
	// range resolves to Container itself.
	Node ViewNode

	// ContentIndex is Node's index within Container, or -1.
	ContentIndex int

	// LocalStart and LocalEnd are relative to the start of Node, or of
	// Container when Node is nil.
	LocalStart int
	LocalEnd   int
}

// Target returns the node the local offsets refer to.
func (p ViewPosition) Target() ViewNode {
	if p.Node != nil {
		return p.Node
	}
	return p.Container
}

// ViewPoint is a single position in a rendered view.
type ViewPoint struct {
	Node   ViewNode
	Offset int
}

// ViewRange is a range between two view points, anchor first.
type ViewRange struct {
	Anchor ViewPoint
	Focus  ViewPoint
}

// IsCollapsed reports whether both ends are the same point.
func (r ViewRange) IsCollapsed() bool {
	return r.Anchor == r.Focus
}

// LocateViewPositionForRange maps [start, end] to the rendered view.
//
// A range inside one text run maps to that run, with the earlier run
// winning at a shared boundary. A caret in an empty container maps to the
// container at local offset 0, even when a run ends at the same offset.
// Any other range maps to the nearest rendered container holding both
// ends.
func LocateViewPositionForRange(root *node.Node, viewRoot ViewNode, start, end int) (ViewPosition, error) {
	const op = "locate view position"
	if err := checkRange(op, root, start, end); err != nil {
		return ViewPosition{}, err
	}

	var (
		pos   ViewPosition
		found bool
	)
	onPath := steer(root, start, end)
	err := WalkView(root, viewRoot, Linear, func(e Entry) Action {
		if !e.Contains(start, end) || (onPath != nil && !onPath(e)) {
			return Skip
		}
		found = true
		if e.IsText {
			pos = ViewPosition{
				Container:    e.ParentView,
				Node:         e.View,
				ContentIndex: e.Index,
				LocalStart:   start - e.Start,
				LocalEnd:     end - e.Start,
			}
			return Stop
		}
		pos = ViewPosition{
			Container:    e.View,
			ContentIndex: -1,
			LocalStart:   start - e.Start,
			LocalEnd:     end - e.Start,
		}
		if emptyAt(e, start, end) {
			return Stop
		}
		return Descend
	})
	if err != nil {
		return ViewPosition{}, rangeErr(op, start, end, root.End(), err)
	}
	if !found {
		return ViewPosition{}, rangeErr(op, start, end, root.End(), ErrRangeOutOfBounds)
	}
	return pos, nil
}

// LocateViewRange maps start and end to view points independently, so a
// range spanning several runs gets a precise point at each end.
func LocateViewRange(root *node.Node, viewRoot ViewNode, start, end int) (ViewRange, error) {
	if err := checkRange("locate view range", root, start, end); err != nil {
		return ViewRange{}, err
	}
	anchor, err := LocateViewPositionForRange(root, viewRoot, start, start)
	if err != nil {
		return ViewRange{}, err
	}
	focus := anchor
	if end != start {
		if focus, err = LocateViewPositionForRange(root, viewRoot, end, end); err != nil {
			return ViewRange{}, err
		}
	}
	return ViewRange{
		Anchor: ViewPoint{Node: anchor.Target(), Offset: anchor.LocalStart},
		Focus:  ViewPoint{Node: focus.Target(), Offset: focus.LocalStart},
	}, nil
}

// OffsetFromView converts a point in the rendered view back to a linear
// offset. local counts code points into a text run, or measured units from
// the start of a container.
func OffsetFromView(root *node.Node, viewRoot ViewNode, target ViewNode, local int) (int, error) {
	const op = "offset from view"
	path, err := viewPath(viewRoot, target)
	if err != nil {
		return 0, rangeErr(op, local, local, root.End(), err)
	}

	offset := -1
	limit := 0
	err = WalkView(root, viewRoot, Linear, func(e Entry) Action {
		depth := len(e.Path)
		if depth > 0 && e.Path[depth-1] != path[depth-1] {
			return Skip
		}
		if depth < len(path) {
			return Descend
		}
		offset = e.Start
		limit = e.End - e.Start
		return Stop
	})
	if err != nil {
		return 0, rangeErr(op, local, local, root.End(), err)
	}
	if offset < 0 {
		return 0, rangeErr(op, local, local, root.End(), fmt.Errorf("%w: path %v", ErrViewMismatch, path))
	}
	if local < 0 || local > limit {
		return 0, rangeErr(op, offset+local, offset+local, root.End(), ErrOffsetOutOfBounds)
	}
	return offset + local, nil
}

// viewPath returns the child indices leading from viewRoot to target.
func viewPath(viewRoot, target ViewNode) ([]int, error) {
	if target == nil {
		return nil, fmt.Errorf("%w: nil view node", ErrViewMismatch)
	}
	var path []int
	for cur := target; cur != viewRoot; {
		parent := cur.Parent()
		if parent == nil {
			return nil, fmt.Errorf("%w: node is outside the view root", ErrViewMismatch)
		}
		i := slices.Index(parent.Children(), cur)
		if i < 0 {
			return nil, fmt.Errorf("%w: node is not among its parent's children", ErrViewMismatch)
		}
		path = append(path, i)
		cur = parent
	}
	slices.Reverse(path)
	return path, nil
}
