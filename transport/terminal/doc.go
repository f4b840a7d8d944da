// Package terminal provides the two interactive frontends of the game.
//
// Screen takes over the terminal through tcell and redraws the board in
// place with a colour per tile value. Stream puts stdin in raw mode with
// x/term and prints every board below the previous one, which also works
// over plain pipes.
//
// Both report keys as strings: the typed character, engine.KeyArrowUp and
// friends for arrow keys, KeyEscape for Escape and Ctrl-C, and a
// bracketed name for anything else. Those strings are looked up in the
// preset's key bindings.
package terminal
