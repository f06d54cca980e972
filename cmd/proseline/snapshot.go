package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"

	"github.com/dshills/proseline/internal/engine"
)

// runInspect prints a summary of a snapshot, or the value at -query.
func runInspect(args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("inspect", flag.ContinueOnError)
	fs.SetOutput(stderr)
	query := fs.String("query", "", "gjson path to print instead of the summary")
	if err := fs.Parse(args); err != nil {
		return 2
	}
	if fs.NArg() != 1 {
		fmt.Fprintln(stderr, "Usage: proseline inspect [-query path] snapshot.json")
		return 2
	}

	data, err := os.ReadFile(fs.Arg(0))
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}
	if !gjson.ValidBytes(data) {
		fmt.Fprintf(stderr, "Error: %s is not valid JSON\n", fs.Arg(0))
		return 1
	}

	if *query != "" {
		res := gjson.GetBytes(data, *query)
		if !res.Exists() {
			fmt.Fprintf(stderr, "Error: no value at %q\n", *query)
			return 1
		}
		fmt.Fprintln(stdout, res.String())
		return 0
	}

	writeSummary(stdout, data)
	return 0
}

// writeSummary lists the schema types, the selection and one line per
// top-level block.
func writeSummary(w io.Writer, data []byte) {
	var types []string
	gjson.GetBytes(data, "schema.nodes").ForEach(func(key, _ gjson.Result) bool {
		types = append(types, key.String())
		return true
	})
	sort.Strings(types)
	if len(types) > 0 {
		fmt.Fprintf(w, "schema: %s\n", strings.Join(types, ", "))
	}

	sel := gjson.GetBytes(data, "selection")
	fmt.Fprintf(w, "selection: %d..%d\n", sel.Get("startOffset").Int(), sel.Get("endOffset").Int())

	blocks := gjson.GetBytes(data, "doc.content")
	fmt.Fprintf(w, "blocks: %d\n", len(blocks.Array()))
	for i, b := range blocks.Array() {
		fmt.Fprintf(w, "  %d %s %q\n", i, b.Get("type").String(), textOf(b))
	}
}

// textOf concatenates the text runs under a node.
func textOf(n gjson.Result) string {
	var sb strings.Builder
	n.Get("content").ForEach(func(_, c gjson.Result) bool {
		if c.Type == gjson.String {
			sb.WriteString(c.String())
		} else if c.IsObject() {
			sb.WriteString(textOf(c))
		}
		return true
	})
	return sb.String()
}

// runSelect rewrites a snapshot's selection in place, checking the result
// still loads.
func runSelect(args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("select", flag.ContinueOnError)
	fs.SetOutput(stderr)
	start := fs.Int("start", -1, "selection start offset")
	end := fs.Int("end", -1, "selection end offset (defaults to start)")
	if err := fs.Parse(args); err != nil {
		return 2
	}
	if fs.NArg() != 1 || *start < 0 {
		fmt.Fprintln(stderr, "Usage: proseline select -start n [-end n] snapshot.json")
		return 2
	}
	if *end < 0 {
		*end = *start
	}

	path := fs.Arg(0)
	data, err := os.ReadFile(path)
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}
	out, err := setSelection(data, *start, *end)
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}
	if err := os.WriteFile(path, out, 0o644); err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}
	fmt.Fprintf(stdout, "selection: %d..%d\n", *start, *end)
	return 0
}

var errOutOfRange = errors.New("selection out of range")

// setSelection patches the selection offsets without decoding the document.
func setSelection(data []byte, start, end int) ([]byte, error) {
	out, err := sjson.SetBytes(data, "selection.startOffset", start)
	if err != nil {
		return nil, err
	}
	if out, err = sjson.SetBytes(out, "selection.endOffset", end); err != nil {
		return nil, err
	}
	if _, err := engine.FromJSON(out); err != nil {
		return nil, fmt.Errorf("%w: %v", errOutOfRange, err)
	}
	return out, nil
}
