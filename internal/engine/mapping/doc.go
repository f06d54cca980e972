// Package mapping translates between the document's linear offsets and
// positions in a rendered view.
//
// Every lookup is built on Walk, a single depth-first traversal that sizes
// text runs and containers through a Measure. The rendered view is any tree
// of ViewNodes structurally parallel to the document: one container per
// node and one text run per Text element, in the same order.
//
// # Boundaries
//
// Adjacent text runs share an offset at their boundary. Lookups prefer the
// earlier run, so a caret at the end of a run stays there. Paragraph
// boundaries are never shared: the delimiter unit separates the end of one
// paragraph (N) from the start of the next (N+1), and each maps to its own
// rendered position. Blocks without a delimiter, such as headings, do share
// their end with the next block's start; a collapsed lookup there lands in
// the next block only when it is an empty container.
package mapping
