package dom

import (
	"fmt"
	"strings"

	"github.com/dshills/proseline/internal/engine/mapping"
	"github.com/dshills/proseline/internal/engine/node"
)

// Element is one rendered container or text run.
type Element struct {
	tag      string
	attrs    node.Attrs
	text     string
	isText   bool
	parent   *Element
	children []*Element
}

var _ mapping.ViewNode = (*Element)(nil)

// Render builds the element tree for n.
func Render(n *node.Node) *Element {
	return render(n, nil)
}

func render(n *node.Node, parent *Element) *Element {
	el := &Element{tag: TagFor(n), attrs: n.Attrs(), parent: parent}
	el.children = make([]*Element, 0, n.ChildCount())
	for i := 0; i < n.ChildCount(); i++ {
		switch c := n.ContentAt(i).(type) {
		case node.Text:
			el.children = append(el.children, &Element{isText: true, text: string(c), parent: el})
		case *node.Node:
			el.children = append(el.children, render(c, el))
		}
	}
	return el
}

// TagFor returns the element tag used to render n.
func TagFor(n *node.Node) string {
	switch k := n.Kind(); k {
	case node.KindDoc, node.KindDiv:
		return "div"
	case node.KindParagraph:
		return "p"
	case node.KindHeading:
		level := 1
		switch v, _ := n.Attr("level"); l := v.(type) {
		case int:
			level = l
		case float64:
			level = int(l)
		}
		return fmt.Sprintf("h%d", min(max(level, 1), 6))
	case node.KindSpan:
		return "span"
	case node.KindBold:
		return "b"
	case node.KindItalic:
		return "i"
	case node.KindImage:
		return "img"
	case node.KindBulletList:
		return "ul"
	case node.KindOrderedList:
		return "ol"
	case node.KindListItem:
		return "li"
	default:
		panic(fmt.Sprintf("dom: unhandled kind %v", k))
	}
}

// Tag returns the element's tag, or "" for text runs.
func (e *Element) Tag() string { return e.tag }

// Attr returns the rendered attribute for key.
func (e *Element) Attr(key string) (any, bool) {
	v, ok := e.attrs[key]
	return v, ok
}

// Parent implements mapping.ViewNode.
func (e *Element) Parent() mapping.ViewNode {
	if e.parent == nil {
		return nil
	}
	return e.parent
}

// Children implements mapping.ViewNode.
func (e *Element) Children() []mapping.ViewNode {
	if e.isText {
		return nil
	}
	out := make([]mapping.ViewNode, len(e.children))
	for i, c := range e.children {
		out[i] = c
	}
	return out
}

// Text implements mapping.ViewNode.
func (e *Element) Text() (string, bool) {
	return e.text, e.isText
}

// Child returns the i-th child element, or nil.
func (e *Element) Child(i int) *Element {
	if i < 0 || i >= len(e.children) {
		return nil
	}
	return e.children[i]
}

// Len returns the number of child elements.
func (e *Element) Len() int { return len(e.children) }

// SetText replaces a text run's text, as direct user input would.
func (e *Element) SetText(s string) {
	if e.isText {
		e.text = s
	}
}

// TextContent returns the concatenated text under e.
func (e *Element) TextContent() string {
	if e.isText {
		return e.text
	}
	var sb strings.Builder
	for _, c := range e.children {
		sb.WriteString(c.TextContent())
	}
	return sb.String()
}

// String renders the element as markup.
func (e *Element) String() string {
	var sb strings.Builder
	e.write(&sb)
	return sb.String()
}

func (e *Element) write(sb *strings.Builder) {
	if e.isText {
		sb.WriteString(e.text)
		return
	}
	sb.WriteString("<" + e.tag + ">")
	for _, c := range e.children {
		c.write(sb)
	}
	sb.WriteString("</" + e.tag + ">")
}
