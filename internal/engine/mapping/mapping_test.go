package mapping

import (
	"errors"
	"testing"

	"github.com/dshills/proseline/internal/engine/node"
)

// tview is a minimal rendered tree for exercising view lookups.
type tview struct {
	parent   *tview
	children []*tview
	text     string
	isText   bool
}

func (v *tview) Parent() ViewNode {
	if v.parent == nil {
		return nil
	}
	return v.parent
}

func (v *tview) Children() []ViewNode {
	if v.isText {
		return nil
	}
	out := make([]ViewNode, len(v.children))
	for i, c := range v.children {
		out[i] = c
	}
	return out
}

func (v *tview) Text() (string, bool) {
	return v.text, v.isText
}

func render(n *node.Node, parent *tview) *tview {
	v := &tview{parent: parent}
	for i := 0; i < n.ChildCount(); i++ {
		switch c := n.ContentAt(i).(type) {
		case node.Text:
			v.children = append(v.children, &tview{parent: v, text: string(c), isText: true})
		case *node.Node:
			v.children = append(v.children, render(c, v))
		}
	}
	return v
}

func para(content ...node.Content) *node.Node {
	return node.New(node.KindParagraph, nil, content...)
}

func bold(text string) *node.Node {
	return node.New(node.KindBold, nil, node.Text(text))
}

func doc(paras ...node.Content) *node.Node {
	return node.New(node.KindDoc, nil, paras...)
}

func child(t *testing.T, n *node.Node, i int) *node.Node {
	t.Helper()
	c, ok := n.Child(i)
	if !ok {
		t.Fatalf("content[%d] of %s is not a node", i, n.Type())
	}
	return c
}

func viewText(t *testing.T, v ViewNode) string {
	t.Helper()
	if v == nil {
		t.Fatal("nil view node")
	}
	s, ok := v.Text()
	if !ok {
		t.Fatal("expected a text run")
	}
	return s
}

// ============================================================================
// Walk
// ============================================================================

func TestWalkVisitsInDocumentOrder(t *testing.T) {
	d := doc(para(node.Text("AB"), bold("CD")), para(node.Text("EF")))

	var got []string
	Walk(d, Linear, func(e Entry) Action {
		if e.IsText {
			got = append(got, e.Text)
		}
		return Descend
	})

	want := []string{"AB", "CD", "EF"}
	if len(got) != len(want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("run %d: expected %q, got %q", i, want[i], got[i])
		}
	}
}

func TestWalkRangesMatchLayout(t *testing.T) {
	d := doc(para(node.Text("ABC"), bold("BOLD")), para(node.Text("DEF")), para())

	Walk(d, Linear, func(e Entry) Action {
		if !e.IsText {
			if e.Start != e.Node.Start() || e.End != e.Node.End() {
				t.Errorf("%s at %v: walked %d..%d, laid out %d..%d",
					e.Node.Type(), e.Path, e.Start, e.End, e.Node.Start(), e.Node.End())
			}
		}
		return Descend
	})
}

func TestWalkCustomMeasure(t *testing.T) {
	d := doc(para(node.Text("ABC"), bold("BOLD")), para(node.Text("DEF")))
	runs := Measure{
		Leaf:  func(string) int { return 1 },
		After: func(*node.Node, bool) int { return 0 },
	}

	var rootEnd int
	Walk(d, runs, func(e Entry) Action {
		if e.Parent == nil {
			rootEnd = e.End
		}
		return Descend
	})
	if rootEnd != 3 {
		t.Errorf("expected 3 runs, got %d", rootEnd)
	}
}

func TestWalkSkipAndStop(t *testing.T) {
	d := doc(para(node.Text("A")), para(node.Text("B")), para(node.Text("C")))

	var texts []string
	Walk(d, Linear, func(e Entry) Action {
		if e.IsText {
			texts = append(texts, e.Text)
			if e.Text == "B" {
				return Stop
			}
			return Descend
		}
		if len(e.Path) == 1 && e.Path[0] == 0 {
			return Skip
		}
		return Descend
	})
	if len(texts) != 1 || texts[0] != "B" {
		t.Errorf("expected [B], got %v", texts)
	}
}

// ============================================================================
// ResolvePosition
// ============================================================================

func TestResolvePosition(t *testing.T) {
	d := doc(para(node.Text("ABC")), para(node.Text("DEF")))
	p1, p2 := child(t, d, 0), child(t, d, 1)

	tests := []struct {
		offset     int
		node       *node.Node
		textOffset int
	}{
		{0, p1, 0},
		{3, p1, 3},
		{4, p2, 0},
		{7, p2, 3},
	}
	for _, tt := range tests {
		pos, err := ResolvePosition(d, tt.offset)
		if err != nil {
			t.Fatalf("ResolvePosition(%d): %v", tt.offset, err)
		}
		if pos.Node != tt.node {
			t.Errorf("offset %d: wrong owner", tt.offset)
		}
		if pos.TextOffset != tt.textOffset || pos.Offset != tt.textOffset {
			t.Errorf("offset %d: expected local %d, got text %d node %d",
				tt.offset, tt.textOffset, pos.TextOffset, pos.Offset)
		}
		if pos.ContentIndex != 0 {
			t.Errorf("offset %d: expected content index 0, got %d", tt.offset, pos.ContentIndex)
		}
	}
}

func TestResolvePositionNested(t *testing.T) {
	d := doc(para(node.Text("HIJ"), bold("KLM"), node.Text("NOP")))
	b := child(t, child(t, d, 0), 1)

	pos, err := ResolvePosition(d, 5)
	if err != nil {
		t.Fatal(err)
	}
	if pos.Node != b || pos.TextOffset != 2 || pos.Offset != 2 {
		t.Errorf("expected bold at local 2, got %s local %d", pos.Node.Type(), pos.TextOffset)
	}
	if len(pos.Path) != 3 || pos.Path[0] != 0 || pos.Path[1] != 1 || pos.Path[2] != 0 {
		t.Errorf("expected path [0 1 0], got %v", pos.Path)
	}
	if pos.Depth() != 2 {
		t.Errorf("expected depth 2, got %d", pos.Depth())
	}
}

func TestResolvePositionEmptyParagraph(t *testing.T) {
	d := doc(para(), para(node.Text("X")))
	p1 := child(t, d, 0)

	pos, err := ResolvePosition(d, 0)
	if err != nil {
		t.Fatal(err)
	}
	if pos.Node != p1 || pos.ContentIndex != -1 || pos.Offset != 0 {
		t.Errorf("expected empty paragraph at 0, got %+v", pos)
	}
}

func TestEmptyBlockAfterHeadingWinsBoundary(t *testing.T) {
	// Headings carry no delimiter, so the empty paragraph starts where
	// the heading ends.
	h := node.New(node.KindHeading, node.Attrs{"level": 1}, node.Text("AB"))
	d := doc(h, para(), para(node.Text("CD")))
	p2 := child(t, d, 1)
	v := render(d, nil)

	pos, err := ResolvePosition(d, 2)
	if err != nil {
		t.Fatal(err)
	}
	if pos.Node != p2 || pos.ContentIndex != -1 || len(pos.Path) != 1 || pos.Path[0] != 1 {
		t.Errorf("expected empty paragraph at path [1], got %s at %v", pos.Node.Type(), pos.Path)
	}

	n, err := LocateNodeForRange(d, 2, 2)
	if err != nil {
		t.Fatal(err)
	}
	if n != p2 {
		t.Errorf("expected empty paragraph, got %s", n.Type())
	}

	vp, err := LocateViewPositionForRange(d, v, 2, 2)
	if err != nil {
		t.Fatal(err)
	}
	if vp.Container != v.children[1] || vp.Node != nil || vp.LocalStart != 0 {
		t.Errorf("expected empty paragraph container at 0, got %+v", vp)
	}
	back, err := OffsetFromView(d, v, vp.Target(), vp.LocalStart)
	if err != nil || back != 2 {
		t.Errorf("expected 2 back, got %d (%v)", back, err)
	}

	// Non-empty neighbours still share the boundary with the earlier run.
	pos, err = ResolvePosition(d, 1)
	if err != nil {
		t.Fatal(err)
	}
	if pos.Node != h || pos.TextOffset != 1 {
		t.Errorf("offset 1: expected heading at 1, got %s at %d", pos.Node.Type(), pos.TextOffset)
	}

	// A range reaching the boundary is not steered.
	n, err = LocateNodeForRange(d, 0, 2)
	if err != nil {
		t.Fatal(err)
	}
	if n != h {
		t.Errorf("range [0,2]: expected heading, got %s", n.Type())
	}
}

func TestEmptyInlineAfterRunWinsBoundary(t *testing.T) {
	b := node.New(node.KindBold, nil)
	d := doc(para(node.Text("AB"), b))

	pos, err := ResolvePosition(d, 2)
	if err != nil {
		t.Fatal(err)
	}
	if pos.Node != b || pos.ContentIndex != -1 {
		t.Errorf("expected empty bold, got %s index %d", pos.Node.Type(), pos.ContentIndex)
	}
	if pos.Depth() != 2 {
		t.Errorf("expected depth 2, got %d", pos.Depth())
	}
}

func TestResolvePositionErrors(t *testing.T) {
	d := doc(para(node.Text("ABC")), para(node.Text("DEF")))

	// 8 is the trailing delimiter: in range, but no content covers it.
	if _, err := ResolvePosition(d, 8); !errors.Is(err, ErrOffsetOutOfBounds) {
		t.Errorf("offset 8: expected ErrOffsetOutOfBounds, got %v", err)
	}
	for _, off := range []int{-1, 9} {
		_, err := ResolvePosition(d, off)
		if !errors.Is(err, ErrRangeOutOfBounds) {
			t.Errorf("offset %d: expected ErrRangeOutOfBounds, got %v", off, err)
		}
		var re *RangeError
		if !errors.As(err, &re) || re.Limit != 8 {
			t.Errorf("offset %d: expected *RangeError with limit 8, got %v", off, err)
		}
	}
}

// ============================================================================
// Node lookups
// ============================================================================

func TestNodeContentAt(t *testing.T) {
	d := doc(para(node.Text("ABC_"), bold("BOLD"), node.Text("HELLO")))

	tests := []struct {
		start, end int
		text       string
		index      int
	}{
		{3, 3, "ABC_", 0},
		{4, 4, "ABC_", 0},
		{5, 6, "BOLD", 0},
		{10, 10, "HELLO", 2},
	}
	for _, tt := range tests {
		got, err := NodeContentAt(d, tt.start, tt.end)
		if err != nil {
			t.Fatalf("NodeContentAt(%d,%d): %v", tt.start, tt.end, err)
		}
		if string(got.Content) != tt.text || got.ContentIndex != tt.index {
			t.Errorf("(%d,%d): expected %q #%d, got %q #%d",
				tt.start, tt.end, tt.text, tt.index, got.Content, got.ContentIndex)
		}
	}

	if _, err := NodeContentAt(d, 2, 6); !errors.Is(err, ErrRangeOutOfBounds) {
		t.Errorf("straddling range: expected ErrRangeOutOfBounds, got %v", err)
	}
}

func TestLocateNodeForRange(t *testing.T) {
	d := doc(para(node.Text("ABC "), bold("BOLD")), para(node.Text("DEF")))
	p1 := child(t, d, 0)
	b := child(t, p1, 1)
	p2 := child(t, d, 1)

	tests := []struct {
		name       string
		start, end int
		want       *node.Node
	}{
		{"whole bold run", 4, 8, b},
		{"inside bold", 7, 7, b},
		{"boundary prefers earlier run", 4, 4, p1},
		{"straddles runs", 2, 6, p1},
		{"second paragraph start", 9, 9, p2},
		{"straddles paragraphs", 2, 10, d},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := LocateNodeForRange(d, tt.start, tt.end)
			if err != nil {
				t.Fatal(err)
			}
			if got != tt.want {
				t.Errorf("expected %s %d..%d, got %s %d..%d",
					tt.want.Type(), tt.want.Start(), tt.want.End(), got.Type(), got.Start(), got.End())
			}
		})
	}
}

func TestLocateNodeMiddleParagraph(t *testing.T) {
	d := doc(para(node.Text("ABC")), para(node.Text("DEFG")), para(node.Text("HIJ")))
	p2 := child(t, d, 1)

	for _, off := range []int{4, 6, 8} {
		got, err := LocateNodeForRange(d, off, off)
		if err != nil {
			t.Fatal(err)
		}
		if got != p2 {
			t.Errorf("offset %d: expected second paragraph, got %s %d..%d", off, got.Type(), got.Start(), got.End())
		}
	}
}

func TestLocateNodeForRangeInvalid(t *testing.T) {
	d := doc(para(node.Text("ABC")))
	for _, r := range [][2]int{{-1, 0}, {2, 1}, {0, 5}} {
		if _, err := LocateNodeForRange(d, r[0], r[1]); !errors.Is(err, ErrRangeOutOfBounds) {
			t.Errorf("%v: expected ErrRangeOutOfBounds, got %v", r, err)
		}
	}
}

func TestNodesInRange(t *testing.T) {
	d := doc(para(node.Text("A"), bold("B"), node.Text("C")), para(node.Text("DEF")))
	p1 := child(t, d, 0)
	b := child(t, p1, 1)
	p2 := child(t, d, 1)

	got, err := NodesInRange(d, 0, 3)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 2 || got[0] != p1 || got[1] != b {
		t.Errorf("expected [p1 bold], got %d nodes", len(got))
	}

	got, err = NodesInRange(d, 2, 6)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 2 || got[0] != p1 || got[1] != p2 {
		t.Errorf("expected [p1 p2], got %d nodes", len(got))
	}

	got, err = NodesInRange(d, 1, 1)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 1 || got[0] != p1 {
		t.Errorf("caret: expected [p1], got %d nodes", len(got))
	}
}

// ============================================================================
// View lookups
// ============================================================================

func TestLocateViewPositionBold(t *testing.T) {
	d := doc(para(node.Text("ABC "), bold("BOLD")), para(node.Text("DEF")))
	v := render(d, nil)

	for _, r := range [][2]int{{4, 8}, {7, 7}} {
		pos, err := LocateViewPositionForRange(d, v, r[0], r[1])
		if err != nil {
			t.Fatal(err)
		}
		if got := viewText(t, pos.Node); got != "BOLD" {
			t.Errorf("%v: expected BOLD run, got %q", r, got)
		}
		if pos.Container != v.children[0].children[1] {
			t.Errorf("%v: expected bold container", r)
		}
	}
}

func TestLocateViewPositionParagraphs(t *testing.T) {
	d := doc(para(node.Text("ABC"), bold("BOLD")), para(node.Text("DEF")))
	v := render(d, nil)

	pos, err := LocateViewPositionForRange(d, v, 8, 8)
	if err != nil {
		t.Fatal(err)
	}
	if got := viewText(t, pos.Node); got != "DEF" {
		t.Errorf("expected DEF, got %q", got)
	}
	if pos.LocalStart != 0 {
		t.Errorf("expected local 0, got %d", pos.LocalStart)
	}
}

func TestLocateViewPositionMiddleParagraph(t *testing.T) {
	d := doc(para(node.Text("ABC")), para(node.Text("DEFG")), para(node.Text("HIJ")))
	v := render(d, nil)

	tests := []struct {
		offset int
		local  int
	}{
		{8, 4},
		{4, 0},
		{6, 2},
	}
	for _, tt := range tests {
		pos, err := LocateViewPositionForRange(d, v, tt.offset, tt.offset)
		if err != nil {
			t.Fatal(err)
		}
		if got := viewText(t, pos.Node); got != "DEFG" {
			t.Errorf("offset %d: expected DEFG, got %q", tt.offset, got)
		}
		if pos.LocalStart != tt.local || pos.LocalEnd != tt.local {
			t.Errorf("offset %d: expected local %d, got %d,%d", tt.offset, tt.local, pos.LocalStart, pos.LocalEnd)
		}
	}
}

func TestLocalOffsets(t *testing.T) {
	d := doc(para(node.Text("ABCBOLD")), para(node.Text("DEF")))
	v := render(d, nil)

	tests := []struct {
		start, end           int
		localStart, localEnd int
	}{
		{0, 0, 0, 0},
		{7, 7, 7, 7},
		{8, 8, 0, 0},
		{11, 11, 3, 3},
		{3, 7, 3, 7},
	}
	for _, tt := range tests {
		pos, err := LocateViewPositionForRange(d, v, tt.start, tt.end)
		if err != nil {
			t.Fatalf("(%d,%d): %v", tt.start, tt.end, err)
		}
		if pos.LocalStart != tt.localStart || pos.LocalEnd != tt.localEnd {
			t.Errorf("(%d,%d): expected %d,%d, got %d,%d",
				tt.start, tt.end, tt.localStart, tt.localEnd, pos.LocalStart, pos.LocalEnd)
		}
	}
}

func TestParagraphBoundaryTieBreak(t *testing.T) {
	d := doc(para(node.Text("ABC")), para(node.Text("DEF")))
	v := render(d, nil)

	end, err := LocateViewPositionForRange(d, v, 3, 3)
	if err != nil {
		t.Fatal(err)
	}
	if viewText(t, end.Node) != "ABC" || end.LocalStart != 3 {
		t.Errorf("offset 3: expected end of ABC, got %q at %d", viewText(t, end.Node), end.LocalStart)
	}

	start, err := LocateViewPositionForRange(d, v, 4, 4)
	if err != nil {
		t.Fatal(err)
	}
	if viewText(t, start.Node) != "DEF" || start.LocalStart != 0 {
		t.Errorf("offset 4: expected start of DEF, got %q at %d", viewText(t, start.Node), start.LocalStart)
	}
}

func TestLocateViewPositionEmptyParagraph(t *testing.T) {
	d := doc(para(node.Text("ABC")), para())
	v := render(d, nil)

	pos, err := LocateViewPositionForRange(d, v, 4, 4)
	if err != nil {
		t.Fatal(err)
	}
	if pos.Node != nil || pos.Container != v.children[1] {
		t.Fatalf("expected the empty paragraph container, got %+v", pos)
	}
	if pos.LocalStart != 0 || pos.ContentIndex != -1 {
		t.Errorf("expected local 0 index -1, got %d index %d", pos.LocalStart, pos.ContentIndex)
	}
	if pos.Target() != v.children[1] {
		t.Error("Target should fall back to the container")
	}
}

func TestLocateViewPositionMismatch(t *testing.T) {
	d := doc(para(node.Text("ABC")), para(node.Text("DEF")))
	v := render(d, nil)
	v.children = v.children[:1]

	if _, err := LocateViewPositionForRange(d, v, 5, 5); !errors.Is(err, ErrViewMismatch) {
		t.Errorf("expected ErrViewMismatch, got %v", err)
	}
}

func TestLocateViewRange(t *testing.T) {
	d := doc(para(node.Text("AB"), bold("CD")), para(node.Text("EF")))
	v := render(d, nil)

	r, err := LocateViewRange(d, v, 1, 6)
	if err != nil {
		t.Fatal(err)
	}
	if viewText(t, r.Anchor.Node) != "AB" || r.Anchor.Offset != 1 {
		t.Errorf("anchor: got %q at %d", viewText(t, r.Anchor.Node), r.Anchor.Offset)
	}
	if viewText(t, r.Focus.Node) != "EF" || r.Focus.Offset != 1 {
		t.Errorf("focus: got %q at %d", viewText(t, r.Focus.Node), r.Focus.Offset)
	}
	if r.IsCollapsed() {
		t.Error("range should not be collapsed")
	}

	caret, err := LocateViewRange(d, v, 2, 2)
	if err != nil {
		t.Fatal(err)
	}
	if !caret.IsCollapsed() {
		t.Error("caret should be collapsed")
	}
}

// ============================================================================
// OffsetFromView
// ============================================================================

func TestOffsetFromView(t *testing.T) {
	d := doc(
		para(node.Text("ABC")),
		para(node.Text("DEF")),
		para(node.Text("HIJ"), bold("KLM"), node.Text("NOP")),
	)
	v := render(d, nil)

	tests := []struct {
		name   string
		target ViewNode
		local  int
		want   int
	}{
		{"first paragraph", v.children[0], 3, 3},
		{"second paragraph", v.children[1], 3, 7},
		{"bold in third paragraph", v.children[2].children[1], 2, 13},
		{"bold text run", v.children[2].children[1].children[0], 1, 12},
		{"trailing run", v.children[2].children[2], 0, 14},
		{"root", v, 0, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := OffsetFromView(d, v, tt.target, tt.local)
			if err != nil {
				t.Fatal(err)
			}
			if got != tt.want {
				t.Errorf("expected %d, got %d", tt.want, got)
			}
		})
	}
}

func TestOffsetFromViewErrors(t *testing.T) {
	d := doc(para(node.Text("ABC")))
	v := render(d, nil)

	if _, err := OffsetFromView(d, v, v.children[0].children[0], 4); !errors.Is(err, ErrOffsetOutOfBounds) {
		t.Errorf("local past run end: expected ErrOffsetOutOfBounds, got %v", err)
	}
	stranger := render(d, nil)
	if _, err := OffsetFromView(d, v, stranger.children[0], 0); !errors.Is(err, ErrViewMismatch) {
		t.Errorf("foreign node: expected ErrViewMismatch, got %v", err)
	}
	if _, err := OffsetFromView(d, v, nil, 0); !errors.Is(err, ErrViewMismatch) {
		t.Errorf("nil node: expected ErrViewMismatch, got %v", err)
	}
}

func TestViewRoundTrip(t *testing.T) {
	d := doc(
		para(node.Text("ABC"), bold("BOLD"), node.Text("xy")),
		para(),
		para(node.Text("안녕"), node.New(node.KindItalic, nil, bold("중첩"))),
		para(node.Text("END")),
	)
	v := render(d, nil)

	for off := 0; off <= d.End(); off++ {
		if _, err := ResolvePosition(d, off); err != nil {
			continue
		}
		pos, err := LocateViewPositionForRange(d, v, off, off)
		if err != nil {
			t.Fatalf("offset %d: %v", off, err)
		}
		back, err := OffsetFromView(d, v, pos.Target(), pos.LocalStart)
		if err != nil {
			t.Fatalf("offset %d: %v", off, err)
		}
		if back != off {
			t.Errorf("offset %d mapped back to %d", off, back)
		}
	}
}
