package transaction

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/dshills/proseline/internal/engine/node"
	"github.com/dshills/proseline/internal/engine/schema"
	"github.com/dshills/proseline/internal/engine/selection"
)

// Step rewrites a document root into the next one. It must not mutate its
// argument.
type Step func(doc *node.Node) (*node.Node, error)

// Range is a [From, To) span of the root's direct content.
type Range struct {
	From int
	To   int
}

// Source is what a transaction is built against.
type Source interface {
	Schema() *schema.Schema
	Doc() *node.Node
	Selection() selection.Selection
}

// Transaction is an ordered batch of steps.
type Transaction struct {
	id      uuid.UUID
	schema  *schema.Schema
	steps   []Step
	changed Range
	touched bool

	// pending is the root's content length after every registered step.
	pending int

	selection selection.Selection
}

// New creates an empty transaction capturing src's schema, root length and
// selection.
func New(src Source) *Transaction {
	return &Transaction{
		id:        uuid.New(),
		schema:    src.Schema(),
		pending:   src.Doc().ChildCount(),
		selection: src.Selection(),
	}
}

// ID returns the transaction's unique identifier.
func (tx *Transaction) ID() uuid.UUID { return tx.id }

// Schema returns the schema captured at construction.
func (tx *Transaction) Schema() *schema.Schema { return tx.schema }

// Steps returns the registered steps in order.
func (tx *Transaction) Steps() []Step {
	out := make([]Step, len(tx.steps))
	copy(out, tx.steps)
	return out
}

// Len returns the number of registered steps.
func (tx *Transaction) Len() int { return len(tx.steps) }

// IsEmpty returns true if no steps are registered.
func (tx *Transaction) IsEmpty() bool { return len(tx.steps) == 0 }

// ChangedRange returns the union of every step's range. ok is false when
// no step has touched the root's content.
func (tx *Transaction) ChangedRange() (r Range, ok bool) {
	return tx.changed, tx.touched
}

// Selection returns the selection the transaction will publish.
func (tx *Transaction) Selection() selection.Selection { return tx.selection }

// SetSelection replaces the selection to publish once the steps land.
// It is validated against the new root when the transaction is applied.
func (tx *Transaction) SetSelection(sel selection.Selection) *Transaction {
	tx.selection = sel
	return tx
}

// AddStep registers a custom step touching [from, to) of the root's
// content.
func (tx *Transaction) AddStep(step Step, from, to int) error {
	if step == nil {
		return ErrNilStep
	}
	tx.push(step, from, to)
	return nil
}

// AddNode creates a node of the named type and appends it to the root.
func (tx *Transaction) AddNode(typ string, attrs node.Attrs, content ...node.Content) error {
	n, err := tx.schema.CreateNode(typ, attrs, content...)
	if err != nil {
		return err
	}
	at := tx.pending
	tx.pending++
	tx.push(func(doc *node.Node) (*node.Node, error) {
		return doc.InsertChild(doc.ChildCount(), n)
	}, at, at+1)
	return nil
}

// InsertNode creates a node of the named type and splices it into the root
// at index, shifting later content right.
func (tx *Transaction) InsertNode(index int, typ string, attrs node.Attrs, content ...node.Content) error {
	n, err := tx.schema.CreateNode(typ, attrs, content...)
	if err != nil {
		return err
	}
	tx.pending++
	tx.push(func(doc *node.Node) (*node.Node, error) {
		return doc.InsertChild(index, n)
	}, index, index+1)
	return nil
}

// UpdateNodeAttrs replaces the attributes of the root's child at index,
// keeping its content.
func (tx *Transaction) UpdateNodeAttrs(index int, attrs node.Attrs) {
	tx.push(func(doc *node.Node) (*node.Node, error) {
		child, err := childAt(doc, index)
		if err != nil {
			return nil, err
		}
		return doc.ReplaceChild(index, child.WithAttrs(attrs))
	}, index, index+1)
}

// UpdateNodeContents replaces the whole content of the root's child at
// index.
func (tx *Transaction) UpdateNodeContents(index int, content ...node.Content) {
	content = append([]node.Content(nil), content...)
	tx.push(func(doc *node.Node) (*node.Node, error) {
		child, err := childAt(doc, index)
		if err != nil {
			return nil, err
		}
		return doc.ReplaceChild(index, child.WithContent(content...))
	}, index, index+1)
}

// ReplaceNode swaps the root's child at index for n.
func (tx *Transaction) ReplaceNode(index int, n *node.Node) {
	tx.push(func(doc *node.Node) (*node.Node, error) {
		if n == nil {
			return nil, fmt.Errorf("%w: nil replacement at index %d", ErrNotNode, index)
		}
		return doc.ReplaceChild(index, n)
	}, index, index+1)
}

// RemoveNode deletes the root's child at index.
func (tx *Transaction) RemoveNode(index int) {
	tx.pending--
	tx.push(func(doc *node.Node) (*node.Node, error) {
		return doc.RemoveChild(index)
	}, index, index+1)
}

// Fold runs every step over doc in order and returns the laid-out result.
// doc is never modified; on error no partial root is returned.
func (tx *Transaction) Fold(doc *node.Node) (*node.Node, error) {
	cur := doc
	for i, step := range tx.steps {
		next, err := step(cur)
		if err != nil {
			return nil, fmt.Errorf("transaction %s: step %d: %w", tx.id, i, err)
		}
		cur = next
	}
	return cur.RecalculateOffsets(), nil
}

func (tx *Transaction) push(step Step, from, to int) {
	tx.steps = append(tx.steps, step)
	if !tx.touched {
		tx.changed = Range{From: from, To: to}
		tx.touched = true
		return
	}
	tx.changed.From = min(tx.changed.From, from)
	tx.changed.To = max(tx.changed.To, to)
}

func childAt(doc *node.Node, index int) (*node.Node, error) {
	if index < 0 || index >= doc.ChildCount() {
		return nil, &node.IndexError{Index: index, Len: doc.ChildCount()}
	}
	child, ok := doc.Child(index)
	if !ok {
		return nil, fmt.Errorf("%w: index %d", ErrNotNode, index)
	}
	return child, nil
}
