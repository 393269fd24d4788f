// Package wavetable implements a three axis wavetable oscillator. x and y
// move within a bank of tables, z moves between banks, and playback
// differentiates pre-integrated tables to suppress aliasing.
package wavetable

import (
	"math"

	"github.com/justyntemme/synthgraph/pkg/dsp/distortion"
	"github.com/justyntemme/synthgraph/pkg/dsp/utility"
	"github.com/justyntemme/synthgraph/pkg/framework/param"
)

// Frequency limits in Hz.
const (
	MinFrequency = 1.0
	MaxFrequency = 8000.0
)

// Params are the oscillator controls.
type Params struct {
	Frequency float64 // Hz
	X, Y, Z   float64 // 0-MaxAxis
	Crush     float64 // 0-1, bit reduction of the aux output
	Level     float64 // 0-1
}

// DefaultParams returns a bright saw at 110 Hz.
func DefaultParams() Params {
	return Params{Frequency: 110, X: 0, Y: MaxAxis, Z: 0, Crush: 0.5, Level: 0.8}
}

// Quantize returns the effective z target. Above 3 the value is pulled
// toward the nearest bank, fully so from 4 on, and the second result is the
// blend amount.
func Quantize(z float64) (float64, float64) {
	z = utility.Clamp(z, 0, MaxAxis)
	q := utility.Clamp(z-3, 0, 1)
	return z + (math.Round(z)-z)*q, q
}

// Engine renders one wavetable voice. Not safe for concurrent use.
type Engine struct {
	sampleRate float64
	bank       *Bank

	target Params
	freq   param.Interpolator
	level  param.Interpolator
	last   Params

	x, y, z float64
	phase   float64
	prevW   float64
	primed  bool

	crusher *distortion.Bitcrusher
}

// New creates an engine reading from bank, or the shared default bank if
// bank is nil.
func New(sampleRate float64, bank *Bank) *Engine {
	if bank == nil {
		bank = DefaultBank()
	}
	return &Engine{
		sampleRate: sampleRate,
		bank:       bank,
		target:     DefaultParams(),
		crusher:    distortion.NewBitcrusher(),
	}
}

// SetParams sets the targets for the next block.
func (e *Engine) SetParams(p Params) {
	e.target = p
}

// Axes returns the smoothed axis positions.
func (e *Engine) Axes() (x, y, z float64) {
	return e.x, e.y, e.z
}

// Reset restarts the phase and snaps the axes at the next block.
func (e *Engine) Reset() {
	e.phase = 0
	e.primed = false
	e.crusher.Reset()
}

// Process renders len(out) samples. pitch is an optional per-sample offset
// in octaves; aux, when not nil, receives a bit-crushed copy.
func (e *Engine) Process(pitch, out, aux []float32) {
	n := len(out)
	if n == 0 {
		return
	}
	p := e.target
	p.Frequency = utility.Clamp(p.Frequency, MinFrequency, MaxFrequency)
	p.Level = utility.Clamp(p.Level, 0, 1)
	tx := utility.Clamp(p.X, 0, MaxAxis)
	ty := utility.Clamp(p.Y, 0, MaxAxis)
	tz, q := Quantize(p.Z)

	if !e.primed {
		e.last = p
		e.x, e.y, e.z = tx, ty, tz
		e.phase = 0
		e.prevW = e.bank.Lookup(e.x, e.y, e.z, 0)
		e.primed = true
	}
	e.freq.Init(e.last.Frequency, p.Frequency, n)
	e.level.Init(e.last.Level, p.Level, n)
	e.crusher.SetBitDepth(16 - 14*utility.Clamp(p.Crush, 0, 1))
	e.crusher.SetSampleRateReduction(1 + 15*utility.Clamp(p.Crush, 0, 1))

	nyquist := 0.45 * e.sampleRate
	for i := range out {
		hz := e.freq.Next()
		if pitch != nil {
			hz *= math.Exp2(float64(pitch[i]))
		}
		hz = utility.Clamp(hz, MinFrequency, nyquist)
		dphi := hz / e.sampleRate

		// Axis motion leaks into the differentiator scaled by 1/dphi, so the
		// axes glide over a fixed number of cycles. Quantized banks settle
		// faster.
		c := utility.Clamp(0.05*dphi*(1+3*q), 1e-7, 1)
		e.x += c * (tx - e.x)
		e.y += c * (ty - e.y)
		e.z += c * (tz - e.z)

		e.phase += dphi
		if e.phase >= 1 {
			e.phase -= math.Floor(e.phase)
		}
		w := e.bank.Lookup(e.x, e.y, e.z, e.phase)
		y := (w - e.prevW) / dphi
		e.prevW = w

		out[i] = float32(y * e.level.Next())
		if aux != nil {
			aux[i] = float32(e.crusher.Process(y))
		}
	}
	e.last = p
}
