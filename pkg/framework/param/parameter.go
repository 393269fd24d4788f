// Package param provides control parameters with lock-free value storage and
// the smoothing primitives every synthesis component uses to avoid zipper
// noise.
package param

import (
	"fmt"
	"math"
	"sync/atomic"
)

// Parameter is a single control value. The value is stored as the bit
// pattern of a float64 so writers on any goroutine and the audio thread never
// contend on a lock.
type Parameter struct {
	Symbol  string
	Name    string
	Unit    string
	Min     float64
	Max     float64
	Default float64
	Steps   int32
	Flags   uint32

	value atomic.Uint64

	formatFunc func(float64) string
}

// Flags for parameters
const (
	IsReadOnly uint32 = 1 << iota
	IsClamped         // out-of-range writes clamp instead of failing
	IsTrigger         // writes count edges instead of storing a level
)

// Value returns the current plain value.
func (p *Parameter) Value() float64 {
	return math.Float64frombits(p.value.Load())
}

// Store writes v without range checks. Callers validate first.
func (p *Parameter) Store(v float64) {
	p.value.Store(math.Float64bits(v))
}

// Set writes a plain value. Values outside [Min, Max] are clamped when the
// parameter is flagged IsClamped and rejected otherwise. NaN is always
// rejected.
func (p *Parameter) Set(v float64) bool {
	if math.IsNaN(v) {
		return false
	}
	if v < p.Min || v > p.Max {
		if p.Flags&IsClamped == 0 {
			return false
		}
		v = p.Clamp(v)
	}
	if p.Steps > 0 {
		v = p.quantize(v)
	}
	p.Store(v)
	return true
}

// Add atomically adds delta to the stored value and returns the new value.
// Trigger parameters use it as an edge counter.
func (p *Parameter) Add(delta float64) float64 {
	for {
		old := p.value.Load()
		next := math.Float64frombits(old) + delta
		if p.value.CompareAndSwap(old, math.Float64bits(next)) {
			return next
		}
	}
}

// Reset restores the default value.
func (p *Parameter) Reset() {
	p.Store(p.Default)
}

// Clamp limits v to the parameter range.
func (p *Parameter) Clamp(v float64) float64 {
	if v < p.Min {
		return p.Min
	}
	if v > p.Max {
		return p.Max
	}
	return v
}

func (p *Parameter) quantize(v float64) float64 {
	if p.Max <= p.Min {
		return p.Min
	}
	step := (p.Max - p.Min) / float64(p.Steps)
	return p.Min + math.Round((v-p.Min)/step)*step
}

// Normalized returns the current value mapped to 0-1.
func (p *Parameter) Normalized() float64 {
	return p.Normalize(p.Value())
}

// SetNormalized writes a 0-1 value, mapped onto the parameter range.
func (p *Parameter) SetNormalized(n float64) bool {
	if math.IsNaN(n) {
		return false
	}
	n = math.Max(0, math.Min(1, n))
	return p.Set(p.Denormalize(n))
}

// Normalize converts plain value to normalized (0-1)
func (p *Parameter) Normalize(plain float64) float64 {
	if p.Max <= p.Min {
		return 0
	}
	normalized := (plain - p.Min) / (p.Max - p.Min)
	return math.Max(0, math.Min(1, normalized))
}

// Denormalize converts normalized (0-1) to plain value
func (p *Parameter) Denormalize(normalized float64) float64 {
	return p.Min + normalized*(p.Max-p.Min)
}

// Format returns the current value as display text.
func (p *Parameter) Format() string {
	v := p.Value()
	if p.formatFunc != nil {
		return p.formatFunc(v)
	}
	if p.Steps > 0 {
		return fmt.Sprintf("%.0f", v)
	}
	if p.Unit != "" {
		return fmt.Sprintf("%.3f %s", v, p.Unit)
	}
	return fmt.Sprintf("%.3f", v)
}
