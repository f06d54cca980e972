package selection

import (
	"fmt"
)

// Selection is a range of linear offsets. It is an immutable value type.
type Selection struct {
	Anchor int // Where the selection started
	Head   int // Where typing occurs
}

// New creates a selection from anchor to head.
func New(anchor, head int) Selection {
	return Selection{Anchor: anchor, Head: head}
}

// Caret creates a collapsed selection at offset.
func Caret(offset int) Selection {
	return Selection{Anchor: offset, Head: offset}
}

// IsCaret returns true if the selection has no extent.
func (s Selection) IsCaret() bool {
	return s.Anchor == s.Head
}

// Len returns the number of offsets covered.
func (s Selection) Len() int {
	return s.End() - s.Start()
}

// Start returns the lower bound of the selection.
func (s Selection) Start() int {
	return min(s.Anchor, s.Head)
}

// End returns the upper bound of the selection.
func (s Selection) End() int {
	return max(s.Anchor, s.Head)
}

// IsBackward returns true if the head precedes the anchor.
func (s Selection) IsBackward() bool {
	return s.Head < s.Anchor
}

// Contains returns true if offset lies within [Start, End).
// A caret contains nothing.
func (s Selection) Contains(offset int) bool {
	return offset >= s.Start() && offset < s.End()
}

// ContainsInclusive returns true if offset lies within [Start, End].
func (s Selection) ContainsInclusive(offset int) bool {
	return offset >= s.Start() && offset <= s.End()
}

// Collapse returns a caret at the head.
func (s Selection) Collapse() Selection {
	return Caret(s.Head)
}

// CollapseToStart returns a caret at the lower bound.
func (s Selection) CollapseToStart() Selection {
	return Caret(s.Start())
}

// MoveBy returns the selection shifted by delta.
func (s Selection) MoveBy(delta int) Selection {
	return Selection{Anchor: s.Anchor + delta, Head: s.Head + delta}
}

// Normalize returns a forward selection.
func (s Selection) Normalize() Selection {
	return Selection{Anchor: s.Start(), Head: s.End()}
}

// Validate checks the selection against a document ending at limit.
// Selections are never clamped.
func (s Selection) Validate(limit int) error {
	if s.Start() < 0 || s.End() > limit {
		return fmt.Errorf("%w: %s outside 0..%d", ErrOutOfBounds, s, limit)
	}
	return nil
}

// String returns a string representation of the selection.
func (s Selection) String() string {
	if s.IsCaret() {
		return fmt.Sprintf("Caret(%d)", s.Head)
	}
	dir := "→"
	if s.IsBackward() {
		dir = "←"
	}
	return fmt.Sprintf("Selection(%d%s%d)", s.Anchor, dir, s.Head)
}
