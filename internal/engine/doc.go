// Package engine provides the document state for the proseline editor.
//
// A State combines a schema, a laid-out document root and a selection into
// one immutable value. Edits never mutate a State: Apply folds a
// transaction over the root and returns a new State, leaving the old one
// valid, offsets included.
//
// # Architecture
//
// The engine is built on several sub-packages:
//
//   - node: the document tree and its linear offsets
//   - schema: the registry of node types, construction and decoding
//   - mapping: offset lookups and translation to and from a rendered view
//   - transaction: batched, atomic edits with a changed range
//   - selection: selection values and view-driven tracking
//
// # Thread Safety
//
// State values are immutable and safe to share between goroutines. Only
// the owner of the current State (normally the view controller) decides
// which State is authoritative.
//
// # Basic Usage
//
//	st, err := engine.New(schema.Default())
//	if err != nil {
//		return err
//	}
//
//	tx := transaction.New(st)
//	if err := tx.AddNode("paragraph", nil, node.Text("Hello, World!")); err != nil {
//		return err
//	}
//	st, err = st.Apply(tx)
//
// # Queries
//
// Every query is expressed in linear offsets and range-checked against the
// root before any traversal:
//
//	n, err := st.NodeFrom(3, 3)              // most specific node
//	c, err := st.NodeContentFrom(3, 3)       // text run and its index
//	i, err := st.ParagraphIndexFrom(3, 3)    // top-level block index
//	pos, err := st.ResolvePosition(3)        // owner and local offset
//
// # Snapshots
//
// A State serializes to {schema, doc, selection} JSON and is restored
// with FromJSON.
package engine
