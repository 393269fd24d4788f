package engine

import (
	"github.com/justyntemme/synthgraph/pkg/dsp/envelope"
	"github.com/justyntemme/synthgraph/pkg/dsp/filter"
	"github.com/justyntemme/synthgraph/pkg/dsp/oscillator"
)

// Unit setters below run on the audio thread (from a Runner) or before
// Start. Cross-thread control goes through plugin ports.

// Oscillator generates a periodic waveform. The frequency input replaces the
// base frequency in Hz when connected; the pitch input transposes in octaves;
// the amplitude input scales the base amplitude.
type Oscillator interface {
	Unit
	SetWaveform(w oscillator.Waveform)
	SetFrequency(hz float64)
	SetAmplitude(a float64)
	Reset()
	Frequency() *Input
	Pitch() *Input
	Amplitude() *Input
}

// Filter is a state variable filter with one selected tap. The cutoff input
// adds to the normalized base cutoff.
type Filter interface {
	Unit
	SetCutoff(f float64)
	SetResonance(q float64)
	SetMode(mode filter.Tap)
	// SetMorph crossfades low-pass, band-pass and high-pass as m goes from
	// 0 to 1. SetMode returns to a single tap.
	SetMorph(m float64)
	Reset()
	In() *Input
	Cutoff() *Input
}

// Envelope renders a DAHDSR contour. It is gated by the gate input when
// connected and by Trigger/Release otherwise.
type Envelope interface {
	Unit
	SetTimes(t envelope.Times)
	Trigger()
	Release()
	Reset()
	// Level returns the last rendered value.
	Level() float64
	Gate() *Input
}

// Delay is a fractional delay with feedback and dry/wet mix.
type Delay interface {
	Unit
	SetTime(seconds float64)
	SetFeedback(fb float64)
	SetMix(mix float64)
	Reset()
	In() *Input
	Time() *Input
}

// VCA multiplies its input by a level and, when connected, a control signal.
type VCA interface {
	Unit
	SetLevel(level float64)
	In() *Input
	CV() *Input
}

// PeakFollower passes its input through and publishes a decaying peak that
// any goroutine may read.
type PeakFollower interface {
	Unit
	Peak() float64
	In() *Input
}

// Factory creates the primitive units for one audio backend.
type Factory interface {
	NewOscillator(cfg Config) Oscillator
	NewFilter(cfg Config) Filter
	NewEnvelope(cfg Config) Envelope
	NewDelay(cfg Config, maxSeconds float64) Delay
	NewVCA(cfg Config) VCA
	NewPeakFollower(cfg Config, halfLife float64) PeakFollower
}
