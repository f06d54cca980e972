package engine

import (
	"github.com/dshills/proseline/internal/engine/node"
	"github.com/dshills/proseline/internal/engine/selection"
)

// Option configures a State during creation.
type Option func(*State)

// WithDoc sets the initial document root.
func WithDoc(doc *node.Node) Option {
	return func(s *State) {
		if doc != nil {
			s.doc = doc
		}
	}
}

// WithSelection sets the initial selection.
func WithSelection(sel selection.Selection) Option {
	return func(s *State) {
		s.sel = sel
	}
}
