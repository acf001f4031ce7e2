//go:build !linux && !darwin

package main

import "golang.org/x/term"

// enableRawMode puts the console into raw input mode. The returned func
// restores the previous state.
func enableRawMode(fd int) (func(), error) {
	if !term.IsTerminal(fd) {
		return func() {}, nil
	}

	oldState, err := term.MakeRaw(fd)
	if err != nil {
		return nil, err
	}
	return func() { term.Restore(fd, oldState) }, nil
}
