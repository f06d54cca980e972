// Package lua runs editing handlers written in Lua.
//
// A handler script declares the event it wants and a handle function:
//
//	event = "keydown"
//
//	function handle(ev, doc)
//	    if ev.key ~= "Tab" then
//	        return nil
//	    end
//	    return { { op = "insert_text", text = "    " } }
//	end
//
// handle receives the event and a read-only snapshot of the document and
// returns a list of operations, or nil to ignore the event. Operations
// are applied to the state the event arrived with:
//
//	insert_text    { text = "..." }           replace the selection with text
//	delete_backward {}                         as Backspace
//	split_block    {}                          as Enter
//	add_paragraph  { text = "...", attrs = {} } append a paragraph
//	set_attrs      { index = 1, attrs = {} }   replace a block's attributes
//	select         { anchor = 0, head = 0 }    set the selection
//
// Block indices are 1-based, as Lua tables are.
//
// # State
//
// Each handler owns a State: a gopher-lua interpreter with only the base,
// table, string and math libraries. The sandbox removes the file loading
// functions, restricts require to those libraries, and routes print to
// the handler's logger. Every call runs under a context deadline; a
// script that runs past it fails with ErrExecutionTimeout.
//
// A State is not safe for concurrent use from Lua's side; the mutex only
// serializes Go callers.
package lua
