package main

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/dshills/proseline/internal/engine"
	"github.com/dshills/proseline/internal/engine/node"
	"github.com/dshills/proseline/internal/engine/schema"
	"github.com/dshills/proseline/internal/engine/selection"
)

func writeSnapshot(t *testing.T) string {
	t.Helper()
	doc := node.New(node.KindDoc, nil,
		node.New(node.KindParagraph, nil, node.Text("AB"), node.New(node.KindBold, nil, node.Text("C"))),
		node.New(node.KindHeading, node.Attrs{"level": 2}, node.Text("Title")),
	)
	st, err := engine.New(schema.Default(), engine.WithDoc(doc), engine.WithSelection(selection.Caret(1)))
	if err != nil {
		t.Fatal(err)
	}
	data, err := st.MarshalJSON()
	if err != nil {
		t.Fatal(err)
	}
	path := filepath.Join(t.TempDir(), "doc.json")
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

// ============================================================================
// Flags
// ============================================================================

func TestParseFlags(t *testing.T) {
	var stderr bytes.Buffer
	opts, _, ok := parseFlags([]string{"-schema", "s.yaml", "-handlers", "a, b,", "-save", "doc.json"}, &stderr)
	if !ok {
		t.Fatalf("parseFlags failed: %s", stderr.String())
	}
	if opts.SchemaPath != "s.yaml" || opts.SnapshotPath != "doc.json" || !opts.SaveOnExit {
		t.Errorf("opts = %+v", opts)
	}
	if len(opts.HandlerPaths) != 2 || opts.HandlerPaths[1] != "b" {
		t.Errorf("HandlerPaths = %v", opts.HandlerPaths)
	}
}

func TestParseFlagsExits(t *testing.T) {
	tests := []struct {
		name string
		args []string
		code int
	}{
		{"version", []string{"-version"}, 0},
		{"help", []string{"-h"}, 0},
		{"bad level", []string{"-log-level", "loud"}, 1},
		{"two files", []string{"a.json", "b.json"}, 2},
		{"unknown flag", []string{"-bogus"}, 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var stderr bytes.Buffer
			_, code, ok := parseFlags(tt.args, &stderr)
			if ok {
				t.Fatal("expected parseFlags to stop")
			}
			if code != tt.code {
				t.Errorf("code = %d, want %d", code, tt.code)
			}
		})
	}
}

// ============================================================================
// inspect
// ============================================================================

func TestInspectSummary(t *testing.T) {
	path := writeSnapshot(t)
	var stdout, stderr bytes.Buffer
	if code := run([]string{"inspect", path}, &stdout, &stderr); code != 0 {
		t.Fatalf("inspect exited %d: %s", code, stderr.String())
	}

	out := stdout.String()
	for _, want := range []string{
		"selection: 1..1",
		"blocks: 2",
		`0 paragraph "ABC"`,
		`1 heading "Title"`,
		"schema: bold, div, doc,",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("summary lacks %q:\n%s", want, out)
		}
	}
}

func TestInspectQuery(t *testing.T) {
	path := writeSnapshot(t)
	var stdout, stderr bytes.Buffer
	if code := run([]string{"inspect", "-query", "doc.content.1.attrs.level", path}, &stdout, &stderr); code != 0 {
		t.Fatalf("inspect exited %d: %s", code, stderr.String())
	}
	if got := strings.TrimSpace(stdout.String()); got != "2" {
		t.Errorf("query = %q, want 2", got)
	}

	stdout.Reset()
	if code := run([]string{"inspect", "-query", "doc.nothing", path}, &stdout, &stderr); code != 1 {
		t.Errorf("missing path exited %d, want 1", code)
	}
}

func TestInspectInvalidJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.json")
	if err := os.WriteFile(path, []byte("{"), 0o644); err != nil {
		t.Fatal(err)
	}
	var stdout, stderr bytes.Buffer
	if code := run([]string{"inspect", path}, &stdout, &stderr); code != 1 {
		t.Errorf("exit = %d, want 1", code)
	}
}

// ============================================================================
// select
// ============================================================================

func TestSelectRewritesSnapshot(t *testing.T) {
	path := writeSnapshot(t)
	var stdout, stderr bytes.Buffer
	if code := run([]string{"select", "-start", "4", "-end", "7", path}, &stdout, &stderr); code != 0 {
		t.Fatalf("select exited %d: %s", code, stderr.String())
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	st, err := engine.FromJSON(data)
	if err != nil {
		t.Fatalf("FromJSON failed: %v", err)
	}
	if st.Selection().Start() != 4 || st.Selection().End() != 7 {
		t.Errorf("selection = %v, want 4..7", st.Selection())
	}
	if got := st.Doc().TextContent(); got != "ABCTitle" {
		t.Errorf("document changed: %q", got)
	}
}

func TestSetSelectionOutOfRange(t *testing.T) {
	data, err := os.ReadFile(writeSnapshot(t))
	if err != nil {
		t.Fatal(err)
	}
	if _, err := setSelection(data, 0, 99); !errors.Is(err, errOutOfRange) {
		t.Errorf("setSelection = %v, want errOutOfRange", err)
	}
}

func TestSelectUsage(t *testing.T) {
	var stdout, stderr bytes.Buffer
	if code := run([]string{"select", "doc.json"}, &stdout, &stderr); code != 2 {
		t.Errorf("exit = %d, want 2", code)
	}
}
