package main

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/justyntemme/synthgraph/pkg/framework/port"
)

func TestKeyAction(t *testing.T) {
	tests := []struct {
		key  byte
		want action
		ok   bool
	}{
		{'k', action{address: "kick:trigger", value: port.BoolValue(true)}, true},
		{'s', action{address: "snare:trigger", value: port.BoolValue(true)}, true},
		{'h', action{address: "hihat:trigger", value: port.BoolValue(true)}, true},
		{'9', action{address: "bender:bend", value: port.FloatValue(1)}, true},
		{'0', action{address: "bender:bend", value: port.FloatValue(0)}, true},
		{'q', action{quit: true}, true},
		{ctrlC, action{quit: true}, true},
		{'x', action{}, false},
	}
	for _, tt := range tests {
		got, ok := keyAction(tt.key)
		assert.Equal(t, tt.ok, ok, "key %q", tt.key)
		assert.Equal(t, tt.want, got, "key %q", tt.key)
	}

	a, _ := keyAction('3')
	f, _ := a.value.Float()
	assert.InDelta(t, 1.0/3, f, 1e-12)
}

func TestCRLF(t *testing.T) {
	var buf bytes.Buffer
	n, err := crlf{&buf}.Write([]byte("a\nb\n"))
	assert.NoError(t, err)
	assert.Equal(t, 4, n)
	assert.Equal(t, "a\r\nb\r\n", buf.String())
}
