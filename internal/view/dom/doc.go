// Package dom is an in-memory rendered view of a document.
//
// Render builds an Element tree structurally parallel to a document root:
// one container element per node and one text element per text run. The
// tree satisfies mapping.ViewNode, so every offset lookup works against it
// directly. A Document wraps the tree with a native selection and partial
// re-rendering, which makes it a complete surface for the view controller
// without a terminal.
package dom
