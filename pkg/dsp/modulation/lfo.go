// Package modulation provides low-frequency modulation sources.
package modulation

import (
	"math"
	"math/rand"
)

// Waveform represents the LFO waveform shape
type Waveform int

const (
	// WaveformSine produces a sine wave
	WaveformSine Waveform = iota
	// WaveformTriangle produces a triangle wave
	WaveformTriangle
	// WaveformRandom produces random values (sample & hold noise)
	WaveformRandom
	// WaveformSmoothRandom glides between random values each period
	WaveformSmoothRandom
)

// LFO implements a Low Frequency Oscillator for modulation
type LFO struct {
	sampleRate float64

	frequency float64
	phase     float64
	phaseInc  float64
	waveform  Waveform
	depth     float64

	prevRandom float64
	nextRandom float64
	rng        *rand.Rand
}

// NewLFO creates a new LFO with a seeded random source.
func NewLFO(sampleRate float64, seed int64) *LFO {
	lfo := &LFO{
		sampleRate: sampleRate,
		waveform:   WaveformSine,
		depth:      1.0,
		rng:        rand.New(rand.NewSource(seed)),
	}
	lfo.SetFrequency(1.0)
	lfo.nextRandom = lfo.random()
	return lfo
}

// SetFrequency sets the LFO frequency in Hz
func (l *LFO) SetFrequency(hz float64) {
	l.frequency = math.Max(0.01, math.Min(40.0, hz))
	l.phaseInc = l.frequency / l.sampleRate
}

// Frequency returns the clamped rate.
func (l *LFO) Frequency() float64 {
	return l.frequency
}

// SetWaveform sets the LFO waveform
func (l *LFO) SetWaveform(waveform Waveform) {
	l.waveform = waveform
}

// SetDepth sets the modulation depth (0-1)
func (l *LFO) SetDepth(depth float64) {
	l.depth = math.Max(0.0, math.Min(1.0, depth))
}

func (l *LFO) random() float64 {
	return 2.0*l.rng.Float64() - 1.0
}

func (l *LFO) generateWaveform() float64 {
	switch l.waveform {
	case WaveformTriangle:
		if l.phase < 0.5 {
			return 4.0*l.phase - 1.0
		}
		return 3.0 - 4.0*l.phase
	case WaveformRandom:
		return l.nextRandom
	case WaveformSmoothRandom:
		// cosine glide from the previous random value to the next
		w := 0.5 - 0.5*math.Cos(math.Pi*l.phase)
		return l.prevRandom + (l.nextRandom-l.prevRandom)*w
	}
	return math.Sin(2.0 * math.Pi * l.phase)
}

// Process generates the next LFO sample in [-depth, depth].
func (l *LFO) Process() float64 {
	out := l.generateWaveform() * l.depth

	l.phase += l.phaseInc
	if l.phase >= 1.0 {
		l.phase -= 1.0
		l.prevRandom = l.nextRandom
		l.nextRandom = l.random()
	}
	return out
}

// Phase returns the current phase (0-1)
func (l *LFO) Phase() float64 {
	return l.phase
}

// Reset restarts the phase and glides from zero.
func (l *LFO) Reset() {
	l.phase = 0.0
	l.prevRandom = 0
}
