// Package port describes the externally addressable surface of a plugin:
// its audio ports and its typed control ports.
package port

import (
	"fmt"
	"math"
)

// Kind is the role of a port.
type Kind int

const (
	AudioInput Kind = iota
	AudioOutput
	Control
)

// String returns the kind name.
func (k Kind) String() string {
	switch k {
	case AudioInput:
		return "audio-in"
	case AudioOutput:
		return "audio-out"
	case Control:
		return "control"
	default:
		return "unknown"
	}
}

// Type is the value type of a control port.
type Type int

const (
	Float Type = iota
	Int
	Bool
)

// String returns the type name.
func (t Type) String() string {
	switch t {
	case Float:
		return "float"
	case Int:
		return "int"
	case Bool:
		return "bool"
	default:
		return "unknown"
	}
}

// Value is a tagged control value. The zero Value is Float 0.
type Value struct {
	typ Type
	f   float64
	i   int64
	b   bool
}

// FloatValue tags v as a float.
func FloatValue(v float64) Value { return Value{typ: Float, f: v} }

// IntValue tags v as an integer.
func IntValue(v int64) Value { return Value{typ: Int, i: v} }

// BoolValue tags v as a boolean.
func BoolValue(v bool) Value { return Value{typ: Bool, b: v} }

// Type returns the tag.
func (v Value) Type() Type { return v.typ }

// Float returns the payload of a Float value.
func (v Value) Float() (float64, bool) { return v.f, v.typ == Float }

// Int returns the payload of an Int value.
func (v Value) Int() (int64, bool) { return v.i, v.typ == Int }

// Bool returns the payload of a Bool value.
func (v Value) Bool() (bool, bool) { return v.b, v.typ == Bool }

// Number returns the value as a float64 regardless of tag. Bool maps to 0/1.
func (v Value) Number() float64 {
	switch v.typ {
	case Int:
		return float64(v.i)
	case Bool:
		if v.b {
			return 1
		}
		return 0
	default:
		return v.f
	}
}

// FromNumber builds a value of type t from a plain number.
func FromNumber(t Type, n float64) Value {
	switch t {
	case Int:
		return IntValue(int64(math.Round(n)))
	case Bool:
		return BoolValue(n >= 0.5)
	default:
		return FloatValue(n)
	}
}

// String formats the value with its tag.
func (v Value) String() string {
	switch v.typ {
	case Int:
		return fmt.Sprintf("int(%d)", v.i)
	case Bool:
		return fmt.Sprintf("bool(%t)", v.b)
	default:
		return fmt.Sprintf("float(%g)", v.f)
	}
}

// Port is one entry of a plugin's immutable port list. The fields after Kind
// are meaningful for Control ports only. ReadOnly controls are monitoring
// outputs written by the plugin itself.
type Port struct {
	Index     int
	Symbol    string
	Name      string
	Kind      Kind
	Type      Type
	Default   Value
	Min       float64
	Max       float64
	AutoClamp bool
	Trigger   bool
	ReadOnly  bool
}

// Accepts reports whether v has the tag this port expects.
func (p Port) Accepts(v Value) bool {
	return p.Kind == Control && v.Type() == p.Type
}
