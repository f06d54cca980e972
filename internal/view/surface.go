package view

import (
	"github.com/dshills/proseline/internal/engine/mapping"
	"github.com/dshills/proseline/internal/engine/node"
	"github.com/dshills/proseline/internal/engine/transaction"
)

// Surface is a rendered view parallel to the document.
type Surface interface {
	// Render brings the view in line with doc. A nil changed range asks
	// for a full render.
	Render(doc *node.Node, changed *transaction.Range) error

	// Root returns the rendered root.
	Root() mapping.ViewNode

	// NativeSelection returns the view's own selection, if it has one.
	NativeSelection() (mapping.ViewRange, bool)

	// SetNativeSelection moves the view's selection.
	SetNativeSelection(r mapping.ViewRange)
}
