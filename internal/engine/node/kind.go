package node

import "fmt"

// Kind identifies the structural type of a Node.
type Kind uint8

// Node kinds. The set is closed; names are resolved once by the schema.
const (
	KindDoc Kind = iota
	KindParagraph
	KindHeading
	KindDiv
	KindSpan
	KindBold
	KindItalic
	KindImage
	KindBulletList
	KindOrderedList
	KindListItem

	kindCount
)

var kindNames = [kindCount]string{
	KindDoc:         "doc",
	KindParagraph:   "paragraph",
	KindHeading:     "heading",
	KindDiv:         "div",
	KindSpan:        "span",
	KindBold:        "bold",
	KindItalic:      "italic",
	KindImage:       "image",
	KindBulletList:  "ul",
	KindOrderedList: "ol",
	KindListItem:    "li",
}

// Kinds returns every defined kind in declaration order.
func Kinds() []Kind {
	out := make([]Kind, 0, kindCount)
	for k := Kind(0); k < kindCount; k++ {
		out = append(out, k)
	}
	return out
}

// String returns the registered type name of the kind.
func (k Kind) String() string {
	if k < kindCount {
		return kindNames[k]
	}
	return fmt.Sprintf("Kind(%d)", uint8(k))
}

// Valid reports whether k is one of the defined kinds.
func (k Kind) Valid() bool {
	return k < kindCount
}

// ParseKind resolves a type name to its Kind.
func ParseKind(name string) (Kind, bool) {
	for k, n := range kindNames {
		if n == name {
			return Kind(k), true
		}
	}
	return 0, false
}

// Delimited reports whether a node of this kind is followed by a delimiter
// unit when it is not the layout root.
func (k Kind) Delimited() bool {
	switch k {
	case KindParagraph:
		return true
	case KindDoc, KindHeading, KindDiv, KindSpan, KindBold, KindItalic,
		KindImage, KindBulletList, KindOrderedList, KindListItem:
		return false
	default:
		panic(fmt.Sprintf("node: unhandled kind %d", uint8(k)))
	}
}

// Inline reports whether the kind renders inside a text block.
func (k Kind) Inline() bool {
	switch k {
	case KindSpan, KindBold, KindItalic, KindImage:
		return true
	case KindDoc, KindParagraph, KindHeading, KindDiv, KindBulletList,
		KindOrderedList, KindListItem:
		return false
	default:
		panic(fmt.Sprintf("node: unhandled kind %d", uint8(k)))
	}
}
