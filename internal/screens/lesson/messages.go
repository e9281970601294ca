package lesson

import "github.com/abhisek/masterreview/internal/library"

// loadedMsg carries the result of opening or regenerating the lesson. seq
// lets the screen drop results from a superseded request.
type loadedMsg struct {
	seq    int
	result library.Result
	err    error
}

type definedMsg struct {
	term       string
	definition string
	err        error
}

type savedMsg struct {
	err error
}

type visualMsg struct {
	section int
	path    string
	err     error
}
