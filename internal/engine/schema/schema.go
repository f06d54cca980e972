// Package schema defines the registry of node types a document may contain.
//
// A Schema is built from a Spec, a mapping from type name to NodeSpec. Every
// name must resolve to a node.Kind; the resolution happens once, here, and
// the rest of the engine works with kinds. Declared content expressions and
// groups are kept for callers but are not enforced.
package schema

import (
	"fmt"
	"maps"
	"slices"

	"github.com/dshills/proseline/internal/engine/node"
)

// NodeSpec describes one registered node type.
type NodeSpec struct {
	// Group names the group the type belongs to (e.g. "block").
	Group string `json:"group,omitempty" yaml:"group,omitempty" toml:"group,omitempty"`

	// Attrs holds default attribute values applied by CreateNode.
	Attrs map[string]any `json:"attrs,omitempty" yaml:"attrs,omitempty" toml:"attrs,omitempty"`

	// Content is the content expression, e.g. "block+". Not enforced.
	Content string `json:"content,omitempty" yaml:"content,omitempty" toml:"content,omitempty"`
}

// Spec is the serializable schema definition.
type Spec struct {
	Nodes map[string]NodeSpec `json:"nodes" yaml:"nodes" toml:"nodes"`
}

// DefaultSpec returns a spec registering every node kind.
func DefaultSpec() Spec {
	return Spec{Nodes: map[string]NodeSpec{
		"doc":       {Content: "block+"},
		"paragraph": {Group: "block", Content: "inline*"},
		"heading":   {Group: "block", Content: "inline*", Attrs: map[string]any{"level": 1}},
		"div":       {Group: "block", Content: "block*"},
		"span":      {Group: "inline"},
		"bold":      {Group: "inline"},
		"italic":    {Group: "inline"},
		"image":     {Group: "inline", Attrs: map[string]any{"src": "", "alt": ""}},
		"ul":        {Group: "block", Content: "li+"},
		"ol":        {Group: "block", Content: "li+"},
		"li":        {Content: "paragraph block*"},
	}}
}

// Schema is an immutable registry of node types.
type Schema struct {
	spec  Spec
	kinds map[string]node.Kind
}

// New compiles a spec into a schema.
func New(spec Spec) (*Schema, error) {
	s := &Schema{
		spec:  Spec{Nodes: make(map[string]NodeSpec, len(spec.Nodes))},
		kinds: make(map[string]node.Kind, len(spec.Nodes)),
	}
	for name, ns := range spec.Nodes {
		kind, ok := node.ParseKind(name)
		if !ok {
			return nil, fmt.Errorf("%w: %q", ErrUnknownKind, name)
		}
		ns.Attrs = maps.Clone(ns.Attrs)
		s.spec.Nodes[name] = ns
		s.kinds[name] = kind
	}
	return s, nil
}

// MustNew is like New but panics on error.
func MustNew(spec Spec) *Schema {
	s, err := New(spec)
	if err != nil {
		panic(err)
	}
	return s
}

// Default returns a schema built from DefaultSpec.
func Default() *Schema {
	return MustNew(DefaultSpec())
}

// Spec returns a copy of the spec the schema was built from.
func (s *Schema) Spec() Spec {
	out := Spec{Nodes: make(map[string]NodeSpec, len(s.spec.Nodes))}
	for name, ns := range s.spec.Nodes {
		ns.Attrs = maps.Clone(ns.Attrs)
		out.Nodes[name] = ns
	}
	return out
}

// Names returns the registered type names in sorted order.
func (s *Schema) Names() []string {
	return slices.Sorted(maps.Keys(s.kinds))
}

// Has reports whether name is registered.
func (s *Schema) Has(name string) bool {
	_, ok := s.kinds[name]
	return ok
}

// Kind resolves a registered type name.
func (s *Schema) Kind(name string) (node.Kind, error) {
	k, ok := s.kinds[name]
	if !ok {
		return 0, fmt.Errorf("%w: %q", ErrUndefinedNodeType, name)
	}
	return k, nil
}

// NodeSpec returns the spec registered for name.
func (s *Schema) NodeSpec(name string) (NodeSpec, bool) {
	ns, ok := s.spec.Nodes[name]
	if ok {
		ns.Attrs = maps.Clone(ns.Attrs)
	}
	return ns, ok
}

// CreateNode constructs a node of a registered type. Default attributes
// from the type's spec are applied beneath attrs.
func (s *Schema) CreateNode(name string, attrs node.Attrs, content ...node.Content) (*node.Node, error) {
	kind, err := s.Kind(name)
	if err != nil {
		return nil, err
	}
	merged := node.Attrs{}
	maps.Copy(merged, s.spec.Nodes[name].Attrs)
	maps.Copy(merged, attrs)
	return node.New(kind, merged, content...), nil
}
