package node

import "unicode/utf8"

// Delimiter is the number of offset units consumed after a non-root paragraph.
const Delimiter = 1

// Content is a single element of a node's content: a Text run or a *Node.
type Content interface {
	// Len returns the number of offset units the element occupies,
	// excluding any trailing delimiter.
	Len() int

	isContent()
}

// Text is a raw text run.
type Text string

// Len returns the number of code points in the run.
func (t Text) Len() int {
	return utf8.RuneCountInString(string(t))
}

// String returns the run as a plain string.
func (t Text) String() string {
	return string(t)
}

func (Text) isContent() {}

// TextLen returns the length of s in offset units.
func TextLen(s string) int {
	return utf8.RuneCountInString(s)
}

// Slice returns the part of s between code point offsets from and to.
// Offsets are clamped to the string.
func Slice(s string, from, to int) string {
	if from < 0 {
		from = 0
	}
	if to < from {
		to = from
	}
	start, end := len(s), len(s)
	i := 0
	for pos := range s {
		if i == from {
			start = pos
		}
		if i == to {
			end = pos
			break
		}
		i++
	}
	if start > end {
		start = end
	}
	return s[start:end]
}

// Splice replaces the code points of s between from and to with insert.
func Splice(s string, from, to int, insert string) string {
	n := TextLen(s)
	return Slice(s, 0, from) + insert + Slice(s, to, n)
}

// Texts converts plain strings into content elements.
func Texts(runs ...string) []Content {
	out := make([]Content, len(runs))
	for i, r := range runs {
		out[i] = Text(r)
	}
	return out
}

// elementSpan returns the units consumed by c inside its parent, including
// the delimiter that follows a paragraph child.
func elementSpan(c Content) int {
	if n, ok := c.(*Node); ok {
		span := n.length()
		if n.kind.Delimited() {
			span += Delimiter
		}
		return span
	}
	return c.Len()
}
