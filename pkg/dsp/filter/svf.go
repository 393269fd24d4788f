// Package filter provides the zero-delay-feedback state variable filter and
// the one-pole low-pass used throughout the synthesis engines.
package filter

import "math"

// Cutoff and resonance limits. Cutoff is normalized to the sample rate.
const (
	MaxCutoff    = 0.497
	MinResonance = 0.01
)

// Outputs holds the three simultaneous filter taps.
type Outputs struct {
	Lowpass  float64
	Bandpass float64
	Highpass float64
}

// Tap selects a single filter output.
type Tap int

const (
	Lowpass Tap = iota
	Bandpass
	Highpass
)

// String returns the tap name.
func (t Tap) String() string {
	switch t {
	case Lowpass:
		return "lowpass"
	case Bandpass:
		return "bandpass"
	case Highpass:
		return "highpass"
	default:
		return "unknown"
	}
}

// SVF is a zero-delay-feedback state variable filter. One state update
// produces all taps.
type SVF struct {
	f         float64
	resonance float64

	g float64
	r float64
	h float64

	state1 float64
	state2 float64
}

// NewSVF creates a filter with the given normalized cutoff and resonance.
func NewSVF(f, resonance float64) *SVF {
	s := &SVF{}
	s.Set(f, resonance)
	return s
}

// Set updates normalized cutoff f (clamped to [0, MaxCutoff]) and resonance
// (clamped to at least MinResonance).
func (s *SVF) Set(f, resonance float64) {
	if math.IsNaN(f) || f < 0 {
		f = 0
	} else if f > MaxCutoff {
		f = MaxCutoff
	}
	if math.IsNaN(resonance) || resonance < MinResonance {
		resonance = MinResonance
	}
	s.f = f
	s.resonance = resonance
	s.g = math.Tan(math.Pi * f)
	s.r = 1 / resonance
	s.h = 1 / (1 + s.r*s.g + s.g*s.g)
}

// SetFrequency sets the cutoff in Hz, keeping the current resonance.
func (s *SVF) SetFrequency(hz, sampleRate float64) {
	s.Set(hz/sampleRate, s.resonance)
}

// Cutoff returns the clamped normalized cutoff.
func (s *SVF) Cutoff() float64 { return s.f }

// Resonance returns the clamped resonance.
func (s *SVF) Resonance() float64 { return s.resonance }

// G returns the prewarped integrator gain tan(πf).
func (s *SVF) G() float64 { return s.g }

// Reset zeroes both integrator states.
func (s *SVF) Reset() {
	s.state1 = 0
	s.state2 = 0
}

// Tick runs one sample and returns all three taps.
func (s *SVF) Tick(input float64) Outputs {
	g := s.g
	hp := (input - s.r*s.state1 - g*s.state1 - s.state2) * s.h
	bp := g*hp + s.state1
	s.state1 = g*hp + bp
	lp := g*bp + s.state2
	s.state2 = g*bp + lp
	return Outputs{Lowpass: lp, Bandpass: bp, Highpass: hp}
}

// TickTap runs one sample and returns the selected tap.
func (s *SVF) TickTap(input float64, tap Tap) float64 {
	o := s.Tick(input)
	switch tap {
	case Bandpass:
		return o.Bandpass
	case Highpass:
		return o.Highpass
	}
	return o.Lowpass
}

// Process filters buffer in place through the selected tap - no allocations
func (s *SVF) Process(buffer []float32, tap Tap) {
	for i, x := range buffer {
		buffer[i] = float32(s.TickTap(float64(x), tap))
	}
}

// TickMorph filters one sample, crossfading LP→BP→HP as morph goes from 0
// to 1.
func (s *SVF) TickMorph(input, morph float64) float64 {
	morph = math.Max(0, math.Min(1, morph))
	o := s.Tick(input)
	if morph < 0.5 {
		return o.Lowpass*(1-2*morph) + o.Bandpass*2*morph
	}
	return o.Bandpass*(2-2*morph) + o.Highpass*(2*morph-1)
}
