package backend

import (
	"context"

	"github.com/gdamore/tcell/v2"

	"github.com/dshills/proseline/internal/plugin"
)

// Direction is a caret movement.
type Direction uint8

// Caret movements.
const (
	DirLeft Direction = iota
	DirRight
	DirUp
	DirDown
	DirHome
	DirEnd
)

var moveKeys = map[tcell.Key]Direction{
	tcell.KeyLeft:  DirLeft,
	tcell.KeyRight: DirRight,
	tcell.KeyUp:    DirUp,
	tcell.KeyDown:  DirDown,
	tcell.KeyHome:  DirHome,
	tcell.KeyEnd:   DirEnd,
}

// Translate turns a tcell event into view events. Cursor keys and clicks
// move the native selection first, the way a browser moves its own
// selection before key and mouse handlers see the event.
func (t *Terminal) Translate(ev tcell.Event) []plugin.Event {
	switch e := ev.(type) {
	case *tcell.EventKey:
		mod := convertMod(e.Modifiers())
		if e.Key() == tcell.KeyRune {
			return []plugin.Event{{
				Type: plugin.EventInput,
				Key:  plugin.KeyRune,
				Rune: e.Rune(),
				Mod:  mod,
				Text: string(e.Rune()),
			}}
		}
		if dir, ok := moveKeys[e.Key()]; ok {
			t.Move(dir, mod.Has(plugin.ModShift))
		}
		key := convertKey(e.Key())
		if key == plugin.KeyNone {
			return nil
		}
		return []plugin.Event{
			{Type: plugin.EventKeyDown, Key: key, Mod: mod},
			{Type: plugin.EventKeyUp, Key: key, Mod: mod},
		}

	case *tcell.EventMouse:
		if e.Buttons()&tcell.Button1 == 0 {
			return nil
		}
		x, y := e.Position()
		if !t.Click(x, y) {
			return nil
		}
		return []plugin.Event{{
			Type: plugin.EventMouseUp,
			Mod:  convertMod(e.Modifiers()),
			X:    x,
			Y:    y,
		}}

	case *tcell.EventResize:
		t.mu.Lock()
		t.screen.Sync()
		t.draw()
		t.mu.Unlock()
		return nil

	default:
		return nil
	}
}

// IsQuit reports whether ev is the quit key, Ctrl+Q.
func IsQuit(ev tcell.Event) bool {
	k, ok := ev.(*tcell.EventKey)
	return ok && k.Key() == tcell.KeyCtrlQ
}

// Run polls the screen and passes translated events to dispatch until
// ctx is done or the quit key is pressed.
func (t *Terminal) Run(ctx context.Context, dispatch func(plugin.Event)) error {
	events := make(chan tcell.Event, 16)
	quit := make(chan struct{})
	defer close(quit)
	go t.screen.ChannelEvents(events, quit)

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case ev, ok := <-events:
			if !ok || IsQuit(ev) {
				return nil
			}
			for _, pe := range t.Translate(ev) {
				dispatch(pe)
			}
		}
	}
}

// convertKey maps the keys editing handlers care about.
func convertKey(k tcell.Key) plugin.Key {
	switch k {
	case tcell.KeyRune:
		return plugin.KeyRune
	case tcell.KeyEnter:
		return plugin.KeyEnter
	case tcell.KeyBackspace, tcell.KeyBackspace2:
		return plugin.KeyBackspace
	case tcell.KeyDelete:
		return plugin.KeyDelete
	case tcell.KeyLeft:
		return plugin.KeyLeft
	case tcell.KeyRight:
		return plugin.KeyRight
	case tcell.KeyUp:
		return plugin.KeyUp
	case tcell.KeyDown:
		return plugin.KeyDown
	case tcell.KeyHome:
		return plugin.KeyHome
	case tcell.KeyEnd:
		return plugin.KeyEnd
	case tcell.KeyEscape:
		return plugin.KeyEscape
	case tcell.KeyTab:
		return plugin.KeyTab
	default:
		return plugin.KeyNone
	}
}

// convertMod converts a tcell modifier mask.
func convertMod(m tcell.ModMask) plugin.Modifier {
	var result plugin.Modifier
	if m&tcell.ModShift != 0 {
		result |= plugin.ModShift
	}
	if m&tcell.ModCtrl != 0 {
		result |= plugin.ModCtrl
	}
	if m&tcell.ModAlt != 0 {
		result |= plugin.ModAlt
	}
	return result
}
