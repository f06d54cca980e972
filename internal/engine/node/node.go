package node

import (
	"maps"
	"slices"
	"strings"
)

// Attrs holds node attributes. Their meaning is opaque to the engine.
type Attrs map[string]any

// Clone returns a shallow copy of the attributes. A nil map clones to an
// empty one.
func (a Attrs) Clone() Attrs {
	out := make(Attrs, len(a))
	maps.Copy(out, a)
	return out
}

// Node is an element of the document tree.
//
// Start and End are linear offsets into the whole document. They are valid
// for nodes returned by New or RecalculateOffsets and for every node reached
// from such a root.
type Node struct {
	kind    Kind
	attrs   Attrs
	content []Content
	start   int
	end     int
}

// New creates a node and lays it out as a root starting at offset 0.
// Child nodes passed in are not modified; children whose offsets differ in
// the new layout are copied.
func New(kind Kind, attrs Attrs, content ...Content) *Node {
	n := build(kind, attrs, content)
	out, _ := layout(n, 0, true)
	return out
}

// build creates a node with stale offsets.
func build(kind Kind, attrs Attrs, content []Content) *Node {
	var cs []Content
	for _, c := range content {
		if c != nil {
			cs = append(cs, c)
		}
	}
	return &Node{
		kind:    kind,
		attrs:   attrs.Clone(),
		content: cs,
	}
}

// Kind returns the node's kind.
func (n *Node) Kind() Kind { return n.kind }

// Type returns the node's type name.
func (n *Node) Type() string { return n.kind.String() }

// Attrs returns a copy of the node's attributes.
func (n *Node) Attrs() Attrs { return n.attrs.Clone() }

// Attr returns a single attribute value.
func (n *Node) Attr(key string) (any, bool) {
	v, ok := n.attrs[key]
	return v, ok
}

// Start returns the linear offset where the node begins.
func (n *Node) Start() int { return n.start }

// End returns the linear offset where the node's content ends.
func (n *Node) End() int { return n.end }

// Contains reports whether [start, end] lies within the node's range.
func (n *Node) Contains(start, end int) bool {
	return n.start <= start && end <= n.end
}

// Len returns End - Start.
func (n *Node) Len() int { return n.end - n.start }

func (n *Node) isContent() {}

// ChildCount returns the number of content elements.
func (n *Node) ChildCount() int { return len(n.content) }

// ContentAt returns the content element at index i.
func (n *Node) ContentAt(i int) Content { return n.content[i] }

// Child returns the element at index i when it is a node.
func (n *Node) Child(i int) (*Node, bool) {
	if i < 0 || i >= len(n.content) {
		return nil, false
	}
	c, ok := n.content[i].(*Node)
	return c, ok
}

// Content returns a copy of the node's content elements.
func (n *Node) Content() []Content {
	return slices.Clone(n.content)
}

// IsEmpty reports whether the node has no content elements.
func (n *Node) IsEmpty() bool { return len(n.content) == 0 }

// TextContent returns the concatenated text of all runs below the node.
// Delimiters are not included.
func (n *Node) TextContent() string {
	var sb strings.Builder
	n.appendText(&sb)
	return sb.String()
}

func (n *Node) appendText(sb *strings.Builder) {
	for _, c := range n.content {
		switch c := c.(type) {
		case Text:
			sb.WriteString(string(c))
		case *Node:
			c.appendText(sb)
		}
	}
}

// ContentStart returns the linear offset at which content element i begins.
// Index ChildCount() yields the offset after the last element.
func (n *Node) ContentStart(i int) int {
	off := n.start
	for j := 0; j < i && j < len(n.content); j++ {
		off += elementSpan(n.content[j])
	}
	return off
}

// CalculateEndOffset returns Start plus the units of every content element,
// counting the delimiter after each paragraph child. It does not modify the
// node.
func (n *Node) CalculateEndOffset() int {
	return n.start + n.length()
}

func (n *Node) length() int {
	total := 0
	for _, c := range n.content {
		total += elementSpan(c)
	}
	return total
}

// WithAttrs returns a copy of n with its attributes replaced.
// The result has stale offsets.
func (n *Node) WithAttrs(attrs Attrs) *Node {
	out := build(n.kind, attrs, n.content)
	out.start, out.end = n.start, n.end
	return out
}

// WithContent returns a copy of n with its content replaced.
// The result has stale offsets.
func (n *Node) WithContent(content ...Content) *Node {
	out := build(n.kind, n.attrs, content)
	out.start = n.start
	out.end = out.CalculateEndOffset()
	return out
}

// InsertChild returns a copy of n with c inserted at index i.
// The result has stale offsets.
func (n *Node) InsertChild(i int, c Content) (*Node, error) {
	if i < 0 || i > len(n.content) {
		return nil, &IndexError{Index: i, Len: len(n.content)}
	}
	return n.WithContent(slices.Insert(slices.Clone(n.content), i, c)...), nil
}

// ReplaceChild returns a copy of n with the element at index i replaced.
// The result has stale offsets.
func (n *Node) ReplaceChild(i int, c Content) (*Node, error) {
	if i < 0 || i >= len(n.content) {
		return nil, &IndexError{Index: i, Len: len(n.content)}
	}
	cs := slices.Clone(n.content)
	cs[i] = c
	return n.WithContent(cs...), nil
}

// RemoveChild returns a copy of n without the element at index i.
// The result has stale offsets.
func (n *Node) RemoveChild(i int) (*Node, error) {
	if i < 0 || i >= len(n.content) {
		return nil, &IndexError{Index: i, Len: len(n.content)}
	}
	return n.WithContent(slices.Delete(slices.Clone(n.content), i, i+1)...), nil
}
