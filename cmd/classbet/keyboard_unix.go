//go:build linux || darwin

package main

import (
	"golang.org/x/sys/unix"
	"golang.org/x/term"
)

// enableRawMode switches the terminal to unbuffered, unechoed input so single
// key presses are delivered. Output processing stays enabled so "\n" still
// returns the carriage. The returned func restores the previous state.
func enableRawMode(fd int) (func(), error) {
	if !term.IsTerminal(fd) {
		return func() {}, nil
	}

	oldState, err := unix.IoctlGetTermios(fd, ioctlReadTermios)
	if err != nil {
		return nil, err
	}

	newState := *oldState
	newState.Lflag &^= unix.ICANON | unix.ECHO
	newState.Cc[unix.VMIN] = 1
	newState.Cc[unix.VTIME] = 0

	if err := unix.IoctlSetTermios(fd, ioctlWriteTermios, &newState); err != nil {
		return nil, err
	}
	return func() { unix.IoctlSetTermios(fd, ioctlWriteTermios, oldState) }, nil
}
