// Package selection tracks the document range the user is working on.
//
// Selections use an anchor/head model where:
//   - Anchor: the linear offset where the selection started
//   - Head: the linear offset where typing occurs
//
// When Anchor == Head the selection is a caret. Start and End always return
// the ordered bounds, which is what the serialized snapshot records.
//
// A Tracker owns the current selection for one document root. It resolves
// the nodes the selection touches and recomputes the selection from the
// rendered view's native selection:
//
//	tr := selection.NewTracker(doc)
//	if err := tr.UpdateFromView(viewRoot, nativeRange); err != nil {
//		// the view and the document disagree; keep the old selection
//	}
//	sel := tr.Selection()
package selection
