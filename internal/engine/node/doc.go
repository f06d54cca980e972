// Package node provides the document tree and its linear offset model.
//
// A document is a tree of Nodes. Each Node has a Kind, opaque attributes and
// an ordered list of content elements, where every element is either a Text
// run or a child Node. Flattening all text runs in document order, with one
// delimiter unit inserted after every paragraph that is not the root, yields
// the linear coordinate system used by every other engine package:
//
//	doc
//	├── paragraph "ABC"   offsets 0..3
//	└── paragraph "DEF"   offsets 4..7   (offset 3->4 crosses the delimiter)
//
// # Immutability
//
// Nodes are immutable once they are reachable from a published root. Edits
// go through the copy-on-write helpers (WithAttrs, WithContent, InsertChild,
// ReplaceChild, RemoveChild), which return new nodes whose offsets are stale
// until RecalculateOffsets is called on the new root. RecalculateOffsets
// returns a laid-out tree and shares every subtree whose offsets did not move,
// so older roots keep valid offsets.
//
// # Lengths
//
// Text length is counted in Unicode code points.
package node
