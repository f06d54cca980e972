package node

import "encoding/json"

// jsonNode is the serialized shape of a node. Offsets are not serialized;
// they are recomputed when a tree is rebuilt.
type jsonNode struct {
	Type    string            `json:"type"`
	Attrs   Attrs             `json:"attrs"`
	Content []json.RawMessage `json:"content"`
}

// MarshalJSON encodes the node as {"type", "attrs", "content"}, where text
// runs are JSON strings and child nodes are nested objects.
func (n *Node) MarshalJSON() ([]byte, error) {
	out := jsonNode{
		Type:    n.kind.String(),
		Attrs:   n.attrs,
		Content: make([]json.RawMessage, 0, len(n.content)),
	}
	if out.Attrs == nil {
		out.Attrs = Attrs{}
	}
	for _, c := range n.content {
		var (
			raw []byte
			err error
		)
		switch c := c.(type) {
		case Text:
			raw, err = json.Marshal(string(c))
		case *Node:
			raw, err = c.MarshalJSON()
		}
		if err != nil {
			return nil, err
		}
		out.Content = append(out.Content, raw)
	}
	return json.Marshal(out)
}
