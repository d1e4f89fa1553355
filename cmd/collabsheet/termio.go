package main

import (
	"os"

	"golang.org/x/term"
)

// enableRawMode puts stdin into raw mode for single-keystroke hotkey
// entry, grounded on repl/server.go's enableClientRawMode. ok is false
// when stdin or stdout isn't a real terminal (piped input, CI), in which
// case the caller falls back to line-buffered command entry.
func enableRawMode(stdin, stdout *os.File) (restore func() error, ok bool) {
	if stdin == nil || stdout == nil {
		return nil, false
	}
	if !term.IsTerminal(int(stdin.Fd())) || !term.IsTerminal(int(stdout.Fd())) {
		return nil, false
	}
	state, err := term.MakeRaw(int(stdin.Fd()))
	if err != nil {
		return nil, false
	}
	return func() error {
		return term.Restore(int(stdin.Fd()), state)
	}, true
}

// readByte reads a single raw byte from a terminal already in raw mode.
func readByte(stdin *os.File) (byte, error) {
	buf := make([]byte, 1)
	if _, err := stdin.Read(buf); err != nil {
		return 0, err
	}
	return buf[0], nil
}
