package node

import "reflect"

// ChangeType categorizes a structural difference between two trees.
type ChangeType uint8

const (
	// ChangeKind indicates the nodes have different kinds.
	ChangeKind ChangeType = iota
	// ChangeAttrs indicates the nodes have different attributes.
	ChangeAttrs
	// ChangeContent indicates the nodes' content differs.
	ChangeContent
)

// String returns the change type name.
func (t ChangeType) String() string {
	switch t {
	case ChangeKind:
		return "type"
	case ChangeAttrs:
		return "attributes"
	case ChangeContent:
		return "content"
	default:
		return "unknown"
	}
}

// Change is one difference reported by Diff. Node is the node from the
// newer tree.
type Change struct {
	Node *Node
	Type ChangeType
}

// Diff compares n with other and returns the differences in pre-order.
//
// A kind mismatch is reported without descending further. A content length
// mismatch is reported without comparing individual elements. Content of
// equal length is compared element by element: differing text runs or a text
// run paired with a node are reported as a content change of the parent, and
// node pairs are compared recursively.
func (n *Node) Diff(other *Node) []Change {
	var changes []Change
	diffInto(n, other, &changes)
	return changes
}

func diffInto(a, b *Node, changes *[]Change) {
	if a == b {
		return
	}
	if a.kind != b.kind {
		*changes = append(*changes, Change{Node: b, Type: ChangeKind})
		return
	}
	if !attrsEqual(a.attrs, b.attrs) {
		*changes = append(*changes, Change{Node: b, Type: ChangeAttrs})
	}
	if len(a.content) != len(b.content) {
		*changes = append(*changes, Change{Node: b, Type: ChangeContent})
		return
	}

	reported := false
	for i := range a.content {
		switch ac := a.content[i].(type) {
		case Text:
			bc, ok := b.content[i].(Text)
			if (!ok || ac != bc) && !reported {
				*changes = append(*changes, Change{Node: b, Type: ChangeContent})
				reported = true
			}
		case *Node:
			bc, ok := b.content[i].(*Node)
			if !ok {
				if !reported {
					*changes = append(*changes, Change{Node: b, Type: ChangeContent})
					reported = true
				}
				continue
			}
			diffInto(ac, bc, changes)
		}
	}
}

func attrsEqual(a, b Attrs) bool {
	if len(a) != len(b) {
		return false
	}
	for k, av := range a {
		bv, ok := b[k]
		if !ok || !reflect.DeepEqual(av, bv) {
			return false
		}
	}
	return true
}
