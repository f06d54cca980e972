package engine

import (
	"encoding/json"
	"fmt"

	"github.com/dshills/proseline/internal/engine/node"
	"github.com/dshills/proseline/internal/engine/schema"
	"github.com/dshills/proseline/internal/engine/selection"
)

type snapshotSelection struct {
	Start int `json:"startOffset"`
	End   int `json:"endOffset"`
}

type snapshot struct {
	Schema    schema.Spec       `json:"schema"`
	Doc       *node.Node        `json:"doc"`
	Selection snapshotSelection `json:"selection"`
}

type rawSnapshot struct {
	Schema    *schema.Spec       `json:"schema"`
	Doc       json.RawMessage    `json:"doc"`
	Selection *snapshotSelection `json:"selection"`
}

// MarshalJSON serializes the state as {schema, doc, selection}.
func (s *State) MarshalJSON() ([]byte, error) {
	return json.Marshal(snapshot{
		Schema:    s.schema.Spec(),
		Doc:       s.doc,
		Selection: snapshotSelection{Start: s.sel.Start(), End: s.sel.End()},
	})
}

// FromJSON restores a State from a snapshot. A missing schema means the
// default schema; a missing selection means a caret at 0.
func FromJSON(data []byte) (*State, error) {
	var raw rawSnapshot
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidSnapshot, err)
	}
	if len(raw.Doc) == 0 {
		return nil, fmt.Errorf("%w: missing doc", ErrInvalidSnapshot)
	}

	sch := schema.Default()
	if raw.Schema != nil {
		var err error
		if sch, err = schema.New(*raw.Schema); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrInvalidSnapshot, err)
		}
	}

	doc, err := sch.NodeFromJSON(raw.Doc)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidSnapshot, err)
	}

	sel := selection.Caret(0)
	if raw.Selection != nil {
		sel = selection.New(raw.Selection.Start, raw.Selection.End)
	}
	return New(sch, WithDoc(doc), WithSelection(sel))
}
