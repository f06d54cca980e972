package node

import "slices"

// RecalculateOffsets lays out the tree rooted at n starting from offset 0 and
// returns the laid-out root.
//
// The traversal is depth-first and pre-order: every node takes the running
// offset as its start, text runs advance the offset by their length, and a
// non-root paragraph advances it by one more Delimiter after its end is
// recorded. Subtrees whose offsets are already correct are returned as is;
// n itself is never modified.
func (n *Node) RecalculateOffsets() *Node {
	out, _ := layout(n, 0, true)
	return out
}

// layout places n at start and returns the placed node together with the
// offset that follows it, including its delimiter.
func layout(n *Node, start int, root bool) (*Node, int) {
	acc := start
	var moved []Content
	for i, c := range n.content {
		switch c := c.(type) {
		case Text:
			acc += c.Len()
		case *Node:
			placed, next := layout(c, acc, false)
			if placed != c {
				if moved == nil {
					moved = slices.Clone(n.content)
				}
				moved[i] = placed
			}
			acc = next
		}
	}

	out := n
	if moved != nil || n.start != start || n.end != acc {
		cs := moved
		if cs == nil {
			cs = slices.Clone(n.content)
		}
		out = &Node{
			kind:    n.kind,
			attrs:   n.attrs,
			content: cs,
			start:   start,
			end:     acc,
		}
	}

	if !root && n.kind.Delimited() {
		acc += Delimiter
	}
	return out, acc
}
