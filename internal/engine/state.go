package engine

import (
	"fmt"

	"github.com/dshills/proseline/internal/engine/mapping"
	"github.com/dshills/proseline/internal/engine/node"
	"github.com/dshills/proseline/internal/engine/schema"
	"github.com/dshills/proseline/internal/engine/selection"
	"github.com/dshills/proseline/internal/engine/transaction"
)

// State is an immutable document state: schema, root and selection.
type State struct {
	schema *schema.Schema
	doc    *node.Node
	sel    selection.Selection
}

var _ transaction.Source = (*State)(nil)

// New creates a State for sch with the given options. A nil schema means
// schema.Default(). Without WithDoc the root is an empty doc node.
func New(sch *schema.Schema, opts ...Option) (*State, error) {
	if sch == nil {
		sch = schema.Default()
	}
	s := &State{schema: sch}
	for _, opt := range opts {
		opt(s)
	}
	if s.doc == nil {
		doc, err := sch.CreateNode(node.KindDoc.String(), nil)
		if err != nil {
			return nil, err
		}
		s.doc = doc
	}
	return s.validated()
}

// Schema returns the state's schema.
func (s *State) Schema() *schema.Schema { return s.schema }

// Doc returns the document root.
func (s *State) Doc() *node.Node { return s.doc }

// Selection returns the current selection.
func (s *State) Selection() selection.Selection { return s.sel }

// Apply folds tx over the document and returns the resulting State with
// the transaction's selection. On error the receiver remains the current
// state; no partial result is returned.
func (s *State) Apply(tx *transaction.Transaction) (*State, error) {
	if tx == nil {
		return nil, ErrNilTransaction
	}
	doc, err := tx.Fold(s.doc)
	if err != nil {
		return nil, err
	}
	if err := tx.Selection().Validate(doc.End()); err != nil {
		return nil, fmt.Errorf("transaction %s: %w", tx.ID(), err)
	}
	return &State{schema: s.schema, doc: doc, sel: tx.Selection()}, nil
}

// SetSelection returns a State with sel as its selection.
func (s *State) SetSelection(sel selection.Selection) (*State, error) {
	if err := sel.Validate(s.doc.End()); err != nil {
		return nil, err
	}
	return &State{schema: s.schema, doc: s.doc, sel: sel}, nil
}

// Reconfigure returns a State with a new schema and root, keeping the
// selection. Nil arguments keep the current value.
func (s *State) Reconfigure(sch *schema.Schema, doc *node.Node) (*State, error) {
	next := &State{schema: s.schema, doc: s.doc, sel: s.sel}
	if sch != nil {
		next.schema = sch
	}
	if doc != nil {
		next.doc = doc
	}
	return next.validated()
}

// validated lays out the root and checks it against the schema and the
// selection.
func (s *State) validated() (*State, error) {
	s.doc = s.doc.RecalculateOffsets()
	if s.doc.Start() != 0 {
		return nil, ErrRootOffset
	}
	if err := checkTypes(s.schema, s.doc); err != nil {
		return nil, err
	}
	if err := s.sel.Validate(s.doc.End()); err != nil {
		return nil, err
	}
	return s, nil
}

// checkTypes verifies every node in doc has a type sch registers.
func checkTypes(sch *schema.Schema, doc *node.Node) error {
	var err error
	mapping.Walk(doc, mapping.Linear, func(e mapping.Entry) mapping.Action {
		if e.IsText {
			return mapping.Skip
		}
		if !sch.Has(e.Node.Type()) {
			err = fmt.Errorf("%w: %q at %v", schema.ErrUndefinedNodeType, e.Node.Type(), e.Path)
			return mapping.Stop
		}
		return mapping.Descend
	})
	return err
}
