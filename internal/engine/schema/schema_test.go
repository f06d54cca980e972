package schema

import (
	"encoding/json"
	"errors"
	"math/rand"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/dshills/proseline/internal/engine/node"
)

func testSpec() Spec {
	return Spec{Nodes: map[string]NodeSpec{
		"doc":       {Content: "block+"},
		"paragraph": {Group: "block"},
		"heading":   {Group: "block", Attrs: map[string]any{"level": 1}},
		"bold":      {Group: "inline"},
	}}
}

func TestNewRejectsUnknownKind(t *testing.T) {
	spec := testSpec()
	spec.Nodes["marquee"] = NodeSpec{}
	_, err := New(spec)
	if !errors.Is(err, ErrUnknownKind) {
		t.Errorf("expected ErrUnknownKind, got %v", err)
	}
}

func TestCreateNode(t *testing.T) {
	s := MustNew(testSpec())

	n, err := s.CreateNode("paragraph", nil, node.Text("Hello"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if n.Kind() != node.KindParagraph || n.End() != 5 {
		t.Errorf("unexpected node %s %d..%d", n.Type(), n.Start(), n.End())
	}

	_, err = s.CreateNode("italic", nil)
	if !errors.Is(err, ErrUndefinedNodeType) {
		t.Errorf("expected ErrUndefinedNodeType, got %v", err)
	}
}

func TestCreateNodeDefaultAttrs(t *testing.T) {
	s := MustNew(testSpec())

	h, err := s.CreateNode("heading", nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if v, _ := h.Attr("level"); v != 1 {
		t.Errorf("expected default level 1, got %v", v)
	}

	h, err = s.CreateNode("heading", node.Attrs{"level": 3})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if v, _ := h.Attr("level"); v != 3 {
		t.Errorf("expected level 3, got %v", v)
	}
}

func TestSpecIsCopied(t *testing.T) {
	spec := testSpec()
	s := MustNew(spec)
	spec.Nodes["heading"].Attrs["level"] = 9

	ns, _ := s.NodeSpec("heading")
	if ns.Attrs["level"] != 1 {
		t.Errorf("schema changed through caller's spec: %v", ns.Attrs["level"])
	}
}

func TestNodeFromJSON(t *testing.T) {
	s := MustNew(testSpec())
	data := `{"type":"doc","attrs":{"id":"x"},"content":[
		{"type":"paragraph","attrs":{},"content":["ABC ",{"type":"bold","content":["BOLD"]}]},
		{"type":"paragraph","content":["DEF"]}
	]}`

	doc, err := s.NodeFromJSON([]byte(data))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	p2, _ := doc.Child(1)
	if p2.Start() != 9 || p2.End() != 12 {
		t.Errorf("p2: expected 9..12, got %d..%d", p2.Start(), p2.End())
	}
	if doc.TextContent() != "ABC BOLDDEF" {
		t.Errorf("unexpected text %q", doc.TextContent())
	}
}

func TestNodeFromJSONErrors(t *testing.T) {
	s := MustNew(testSpec())
	tests := []struct {
		name string
		data string
		want error
	}{
		{"syntax", `{"type":`, ErrInvalidJSON},
		{"missing type", `{"content":[]}`, ErrInvalidJSON},
		{"unknown type", `{"type":"doc","content":[{"type":"table"}]}`, ErrUndefinedNodeType},
		{"bad element", `{"type":"doc","content":[42]}`, ErrInvalidJSON},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := s.NodeFromJSON([]byte(tt.data))
			if !errors.Is(err, tt.want) {
				t.Errorf("expected %v, got %v", tt.want, err)
			}
		})
	}
}

func TestNonArrayContentIsEmpty(t *testing.T) {
	s := MustNew(testSpec())
	n, err := s.NodeFromJSON([]byte(`{"type":"paragraph","content":"oops"}`))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !n.IsEmpty() {
		t.Errorf("expected empty content, got %d elements", n.ChildCount())
	}
}

func randomDoc(r *rand.Rand) *node.Node {
	var paras []node.Content
	for i := 0; i < 1+r.Intn(5); i++ {
		var runs []node.Content
		for j := 0; j < r.Intn(4); j++ {
			word := strings.Repeat("ab", r.Intn(4))
			if r.Intn(2) == 0 {
				runs = append(runs, node.New(node.KindBold, node.Attrs{"w": float64(j)}, node.Text(word)))
			} else {
				runs = append(runs, node.Text(word))
			}
		}
		paras = append(paras, node.New(node.KindParagraph, nil, runs...))
	}
	return node.New(node.KindDoc, node.Attrs{"id": "r"}, paras...)
}

func TestRoundTrip(t *testing.T) {
	s := MustNew(testSpec())
	r := rand.New(rand.NewSource(7))

	for i := 0; i < 100; i++ {
		doc := randomDoc(r)
		first, err := json.Marshal(doc)
		if err != nil {
			t.Fatalf("marshal: %v", err)
		}
		back, err := s.NodeFromJSON(first)
		if err != nil {
			t.Fatalf("decode: %v", err)
		}
		second, err := json.Marshal(back)
		if err != nil {
			t.Fatalf("marshal: %v", err)
		}
		if string(first) != string(second) {
			t.Fatalf("round trip mismatch:\n%s\n%s", first, second)
		}
		if back.End() != doc.End() {
			t.Fatalf("offsets differ: %d vs %d", back.End(), doc.End())
		}
	}
}

// ============================================================================
// Spec files
// ============================================================================

func TestLoadSpecFormats(t *testing.T) {
	dir := t.TempDir()
	files := map[string]string{
		"schema.yaml": "nodes:\n  doc:\n    content: block+\n  paragraph:\n    group: block\n  heading:\n    group: block\n    attrs:\n      level: 2\n",
		"schema.toml": "[nodes.doc]\ncontent = \"block+\"\n\n[nodes.paragraph]\ngroup = \"block\"\n\n[nodes.heading]\ngroup = \"block\"\n\n[nodes.heading.attrs]\nlevel = 2\n",
		"schema.json": `{"nodes":{"doc":{"content":"block+"},"paragraph":{"group":"block"},"heading":{"group":"block","attrs":{"level":2}}}}`,
	}
	for name, body := range files {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(dir, name)
			if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
				t.Fatal(err)
			}
			s, err := Load(path)
			if err != nil {
				t.Fatalf("load: %v", err)
			}
			if got := strings.Join(s.Names(), ","); got != "doc,heading,paragraph" {
				t.Errorf("unexpected names %s", got)
			}
			ns, _ := s.NodeSpec("heading")
			if ns.Group != "block" || ns.Attrs["level"] == nil {
				t.Errorf("unexpected heading spec %+v", ns)
			}
		})
	}
}

func TestLoadSpecUnsupported(t *testing.T) {
	if _, err := LoadSpec("schema.ini"); !errors.Is(err, ErrUnsupportedFormat) {
		t.Errorf("expected ErrUnsupportedFormat, got %v", err)
	}
}

func TestDefaultCoversEveryKind(t *testing.T) {
	s := Default()
	for _, k := range node.Kinds() {
		if !s.Has(k.String()) {
			t.Errorf("default schema misses %s", k)
		}
	}
}
