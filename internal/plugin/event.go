package plugin

import "fmt"

// EventType names a class of view events.
type EventType string

// View event types.
const (
	// EventInput carries inserted text: typing, paste or composition.
	EventInput EventType = "input"
	// EventKeyDown is a key press that is not text input.
	EventKeyDown EventType = "keydown"
	// EventKeyUp follows every key press, after the view has moved its
	// own selection.
	EventKeyUp EventType = "keyup"
	// EventMouseUp ends a click or drag selection.
	EventMouseUp EventType = "mouseup"
)

// ParseEventType resolves an event type name.
func ParseEventType(s string) (EventType, bool) {
	switch et := EventType(s); et {
	case EventInput, EventKeyDown, EventKeyUp, EventMouseUp:
		return et, true
	default:
		return "", false
	}
}

// Key identifies a non-text key.
type Key int

// Keys reported by view adapters.
const (
	KeyNone Key = iota
	KeyRune
	KeyEnter
	KeyBackspace
	KeyDelete
	KeyLeft
	KeyRight
	KeyUp
	KeyDown
	KeyHome
	KeyEnd
	KeyEscape
	KeyTab
)

var keyNames = map[Key]string{
	KeyNone:      "None",
	KeyRune:      "Rune",
	KeyEnter:     "Enter",
	KeyBackspace: "Backspace",
	KeyDelete:    "Delete",
	KeyLeft:      "Left",
	KeyRight:     "Right",
	KeyUp:        "Up",
	KeyDown:      "Down",
	KeyHome:      "Home",
	KeyEnd:       "End",
	KeyEscape:    "Escape",
	KeyTab:       "Tab",
}

// String returns the key's name.
func (k Key) String() string {
	if name, ok := keyNames[k]; ok {
		return name
	}
	return fmt.Sprintf("Key(%d)", int(k))
}

// Modifier is a bit set of held modifier keys.
type Modifier uint8

// Modifier keys.
const (
	ModShift Modifier = 1 << iota
	ModCtrl
	ModAlt
)

// Has reports whether m includes mod.
func (m Modifier) Has(mod Modifier) bool {
	return m&mod != 0
}

// Event is one view event.
type Event struct {
	Type EventType
	Key  Key
	Rune rune
	Mod  Modifier

	// Text is the inserted text for EventInput.
	Text string

	// X and Y locate mouse events in view coordinates.
	X, Y int
}

// String returns a compact description for logs.
func (e Event) String() string {
	switch {
	case e.Type == EventInput:
		return fmt.Sprintf("%s(%q)", e.Type, e.Text)
	case e.Key == KeyRune:
		return fmt.Sprintf("%s(%q)", e.Type, e.Rune)
	case e.Key != KeyNone:
		return fmt.Sprintf("%s(%s)", e.Type, e.Key)
	default:
		return string(e.Type)
	}
}
