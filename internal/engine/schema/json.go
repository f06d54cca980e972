package schema

import (
	"encoding/json"
	"fmt"

	"github.com/dshills/proseline/internal/engine/node"
)

// NodeFromJSON rebuilds a node tree from its serialized form.
// Offsets are recomputed; default attributes are not applied.
func (s *Schema) NodeFromJSON(data []byte) (*node.Node, error) {
	var v any
	if err := json.Unmarshal(data, &v); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidJSON, err)
	}
	return s.NodeFromValue(v)
}

// NodeFromValue rebuilds a node tree from generic decoded values, as
// produced by encoding/json or yaml.v3: a map with "type", "attrs" and
// "content" keys, where content elements are strings or nested maps.
func (s *Schema) NodeFromValue(v any) (*node.Node, error) {
	return s.nodeFromValue(v, "doc")
}

func (s *Schema) nodeFromValue(v any, path string) (*node.Node, error) {
	m, ok := asMap(v)
	if !ok {
		return nil, fmt.Errorf("%w: %s: expected object, got %T", ErrInvalidJSON, path, v)
	}
	name, ok := m["type"].(string)
	if !ok {
		return nil, fmt.Errorf("%w: %s: missing type", ErrInvalidJSON, path)
	}
	kind, err := s.Kind(name)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	var attrs node.Attrs
	if raw, ok := asMap(m["attrs"]); ok {
		attrs = node.Attrs(raw)
	}

	var content []node.Content
	if items, ok := m["content"].([]any); ok {
		content = make([]node.Content, 0, len(items))
		for i, item := range items {
			switch item := item.(type) {
			case string:
				content = append(content, node.Text(item))
			default:
				child, err := s.nodeFromValue(item, fmt.Sprintf("%s.content[%d]", path, i))
				if err != nil {
					return nil, err
				}
				content = append(content, child)
			}
		}
	}
	return node.New(kind, attrs, content...), nil
}

// asMap accepts both map[string]any and the map[any]any some decoders emit.
func asMap(v any) (map[string]any, bool) {
	switch m := v.(type) {
	case map[string]any:
		return m, true
	case node.Attrs:
		return m, true
	case map[any]any:
		out := make(map[string]any, len(m))
		for k, val := range m {
			ks, ok := k.(string)
			if !ok {
				return nil, false
			}
			out[ks] = val
		}
		return out, true
	default:
		return nil, false
	}
}
