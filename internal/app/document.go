package app

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/dshills/proseline/internal/engine"
	"github.com/dshills/proseline/internal/engine/node"
	"github.com/dshills/proseline/internal/engine/schema"
)

// loadState opens the snapshot at path, or starts a document holding one
// empty paragraph when path is empty or missing. A snapshot carries its own
// schema; override replaces it with sch.
func loadState(sch *schema.Schema, path string, override bool) (*engine.State, error) {
	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case err == nil:
			st, err := engine.FromJSON(data)
			if err != nil {
				return nil, fmt.Errorf("snapshot %s: %w", path, err)
			}
			if override {
				return st.Reconfigure(sch, nil)
			}
			return st, nil
		case errors.Is(err, os.ErrNotExist):
		default:
			return nil, err
		}
	}

	p, err := sch.CreateNode(node.KindParagraph.String(), nil)
	if err != nil {
		// schemas without paragraphs start from an empty doc
		return engine.New(sch)
	}
	doc, err := sch.CreateNode(node.KindDoc.String(), nil, p)
	if err != nil {
		return nil, err
	}
	return engine.New(sch, engine.WithDoc(doc))
}

// saveState writes st as a snapshot, replacing path atomically.
func saveState(st *engine.State, path string) error {
	data, err := st.MarshalJSON()
	if err != nil {
		return err
	}
	tmp, err := os.CreateTemp(filepath.Dir(path), ".proseline-*.json")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), path)
}
