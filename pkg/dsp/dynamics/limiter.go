// Package dynamics provides the master-bus limiter.
package dynamics

import (
	"math"

	"github.com/justyntemme/synthgraph/pkg/dsp/delay"
)

const maxLookahead = 0.010

// Limiter is a brick-wall peak limiter. The detector has instant attack, holds
// each peak for the lookahead time and then releases exponentially, so with a
// lookahead the output never exceeds the ceiling.
type Limiter struct {
	sampleRate float64

	threshold float64 // ceiling in dB
	ceiling   float64 // ceiling, linear
	release   float64
	lookahead float64

	releaseCoef  float64
	envelope     float64
	holdCount    int
	delaySamples int
	delay        *delay.Line

	gainReduction float64 // dB, last sample
}

// NewLimiter creates a new brick-wall limiter
func NewLimiter(sampleRate float64) *Limiter {
	l := &Limiter{
		sampleRate: sampleRate,
		delay:      delay.NewSeconds(maxLookahead, sampleRate),
	}
	l.SetThreshold(-0.3)
	l.SetRelease(0.050)
	l.SetLookahead(0.005)
	return l
}

// SetThreshold sets the limiter ceiling in dB
func (l *Limiter) SetThreshold(dB float64) {
	l.threshold = math.Min(0.0, dB)
	l.ceiling = math.Pow(10, l.threshold/20)
}

// Threshold returns the ceiling in dB.
func (l *Limiter) Threshold() float64 {
	return l.threshold
}

// SetRelease sets the release time in seconds
func (l *Limiter) SetRelease(seconds float64) {
	l.release = math.Max(0.001, seconds)
	l.releaseCoef = math.Exp(-1.0 / (l.release * l.sampleRate))
}

// SetLookahead sets the lookahead time in seconds, up to 10 ms.
func (l *Limiter) SetLookahead(seconds float64) {
	l.lookahead = math.Max(0.0, math.Min(maxLookahead, seconds))
	l.delaySamples = int(l.lookahead * l.sampleRate)
}

// LatencySamples returns the lookahead delay.
func (l *Limiter) LatencySamples() int {
	return l.delaySamples
}

// GainReduction returns the current gain reduction in dB
func (l *Limiter) GainReduction() float64 {
	return l.gainReduction
}

// Process processes a single sample
func (l *Limiter) Process(input float32) float32 {
	a := math.Abs(float64(input))
	switch {
	case a >= l.envelope:
		l.envelope = a
		l.holdCount = l.delaySamples
	case l.holdCount > 0:
		l.holdCount--
	default:
		l.envelope *= l.releaseCoef
	}

	out := input
	if l.delaySamples > 0 {
		out = l.delay.Process(input, float64(l.delaySamples))
	}

	if l.envelope <= l.ceiling {
		l.gainReduction = 0
		return out
	}
	gain := l.ceiling / l.envelope
	l.gainReduction = -20 * math.Log10(gain)
	return out * float32(gain)
}

// ProcessBuffer processes a buffer of samples
func (l *Limiter) ProcessBuffer(input, output []float32) {
	for i := range input {
		output[i] = l.Process(input[i])
	}
}

// Reset resets the limiter state
func (l *Limiter) Reset() {
	l.envelope = 0
	l.holdCount = 0
	l.gainReduction = 0
	l.delay.Reset()
}
