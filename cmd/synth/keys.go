package main

import (
	"io"

	"github.com/justyntemme/synthgraph/pkg/framework/port"
)

// action is what one key press does.
type action struct {
	address string
	value   port.Value
	quit    bool
}

const ctrlC = 3

// keyAction maps a key to a control write. Digits 1-9 bend in ninths and 0
// lets go.
func keyAction(b byte) (action, bool) {
	switch {
	case b == 'k':
		return action{address: "kick:trigger", value: port.BoolValue(true)}, true
	case b == 's':
		return action{address: "snare:trigger", value: port.BoolValue(true)}, true
	case b == 'h':
		return action{address: "hihat:trigger", value: port.BoolValue(true)}, true
	case b >= '0' && b <= '9':
		return action{address: "bender:bend", value: port.FloatValue(float64(b-'0') / 9)}, true
	case b == 'q' || b == ctrlC:
		return action{quit: true}, true
	}
	return action{}, false
}

// crlf turns line feeds into carriage return plus line feed so that log lines
// stay aligned while the terminal is in raw mode.
type crlf struct {
	w io.Writer
}

func (c crlf) Write(p []byte) (int, error) {
	out := make([]byte, 0, len(p)+4)
	for _, b := range p {
		if b == '\n' {
			out = append(out, '\r')
		}
		out = append(out, b)
	}
	if _, err := c.w.Write(out); err != nil {
		return 0, err
	}
	return len(p), nil
}
