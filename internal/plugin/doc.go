// Package plugin defines input handlers for the proseline editor.
//
// A Handler registers interest in one event type. For every matching view
// event the controller calls Handle with the event and a Context holding
// the current state and rendered view; the handler returns zero or one
// transaction. Handlers never touch the view or the state directly: the
// controller applies the transaction, resynchronizes the selection and
// the view, then calls AfterSync on handlers that implement AfterSyncer.
//
// # Built-in Handlers
//
// Builtins returns the editing handlers every editor needs:
//
//   - InsertText: inserts typed or pasted text, NFC-normalized, replacing
//     the selected range
//   - DeleteBackward: removes the grapheme cluster before the caret, or
//     the selected range; at the start of a block it merges the block
//     into the previous one
//   - SplitParagraph: splits the current block at the caret
//   - CaretSync: copies the rendered view's selection into the state after
//     key-up and mouse-up
//
// Lua handlers live in the plugin/lua subpackage.
//
// # Registry
//
// A Registry holds handlers by name and returns them per event type in
// registration order:
//
//	reg := plugin.NewRegistry()
//	for _, h := range plugin.Builtins() {
//		if err := reg.Register(h); err != nil {
//			return err
//		}
//	}
//	handlers := reg.ForEvent(plugin.EventInput)
package plugin
