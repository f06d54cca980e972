package engine

import (
	"github.com/dshills/proseline/internal/engine/mapping"
	"github.com/dshills/proseline/internal/engine/node"
)

// NodeFrom returns the most specific node containing [start, end].
func (s *State) NodeFrom(start, end int) (*node.Node, error) {
	return mapping.LocateNodeForRange(s.doc, start, end)
}

// NodeContentFrom returns the text run containing [start, end] with its
// owner and index.
func (s *State) NodeContentFrom(start, end int) (mapping.NodeContent, error) {
	return mapping.NodeContentAt(s.doc, start, end)
}

// SiblingContentFrom returns the content that follows the text run
// containing [start, end] within the run's owner.
func (s *State) SiblingContentFrom(start, end int) ([]node.Content, error) {
	c, err := mapping.NodeContentAt(s.doc, start, end)
	if err != nil {
		return nil, err
	}
	all := c.Node.Content()
	return all[c.ContentIndex+1:], nil
}

// ParagraphIndexFrom returns the index of the top-level block containing
// [start, end]. At a boundary shared by two blocks the earlier one wins,
// except that a caret prefers an empty block starting there.
func (s *State) ParagraphIndexFrom(start, end int) (int, error) {
	if start < 0 || end < start || end > s.doc.End() {
		return -1, &mapping.RangeError{Op: "paragraph index", Start: start, End: end, Limit: s.doc.End(), Err: mapping.ErrRangeOutOfBounds}
	}
	index := -1
	mapping.Walk(s.doc, mapping.Linear, func(e mapping.Entry) mapping.Action {
		switch len(e.Path) {
		case 0:
			return mapping.Descend
		case 1:
			if !e.Contains(start, end) {
				if index >= 0 {
					return mapping.Stop
				}
				return mapping.Skip
			}
			empty := !e.IsText && e.Node.ChildCount() == 0 && start == end
			if index < 0 || empty {
				index = e.Index
			}
			if empty {
				return mapping.Stop
			}
		}
		return mapping.Skip
	})
	if index < 0 {
		return -1, &mapping.RangeError{Op: "paragraph index", Start: start, End: end, Limit: s.doc.End(), Err: mapping.ErrRangeOutOfBounds}
	}
	return index, nil
}

// ResolvePosition resolves offset against the current root.
func (s *State) ResolvePosition(offset int) (mapping.ResolvedPos, error) {
	return mapping.ResolvePosition(s.doc, offset)
}

// ViewPositionFrom maps [start, end] into the rendered view at viewRoot.
func (s *State) ViewPositionFrom(viewRoot mapping.ViewNode, start, end int) (mapping.ViewPosition, error) {
	return mapping.LocateViewPositionForRange(s.doc, viewRoot, start, end)
}

// ViewRangeFrom maps both ends of [start, end] into the rendered view.
func (s *State) ViewRangeFrom(viewRoot mapping.ViewNode, start, end int) (mapping.ViewRange, error) {
	return mapping.LocateViewRange(s.doc, viewRoot, start, end)
}

// OffsetFromView converts a rendered position back to a linear offset.
func (s *State) OffsetFromView(viewRoot, target mapping.ViewNode, local int) (int, error) {
	return mapping.OffsetFromView(s.doc, viewRoot, target, local)
}
