// Package transaction batches document edits so they apply atomically.
//
// A Transaction is built against a Source (normally the current engine
// state). Each registration method validates what it can immediately, then
// records a Step: a function from one root to the next. Steps run strictly
// in registration order when the transaction is folded; if any step fails
// nothing is published.
//
// Every registration widens the changed range, a [From, To) span of the
// root's direct content that a view uses to limit resynchronization. The
// range is the union over all steps, not per step.
//
//	tx := transaction.New(state)
//	if err := tx.AddNode("paragraph", nil, node.Text("new text")); err != nil {
//		return err
//	}
//	next, err := state.Apply(tx)
package transaction
