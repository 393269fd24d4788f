package analysis

import (
	"math"
	"sync/atomic"

	"github.com/tphakala/simd/f32"
)

// PeakFollower tracks |x| with instant attack and an exponential fall that
// halves every halfLife seconds.
type PeakFollower struct {
	sampleRate float64
	halfLife   float64
	coef       float64
	envelope   float64

	// published copy of envelope for readers on other goroutines
	peak atomic.Uint64
}

// NewPeakFollower creates a follower with the given half-life in seconds.
func NewPeakFollower(sampleRate, halfLife float64) *PeakFollower {
	pf := &PeakFollower{sampleRate: sampleRate}
	pf.SetHalfLife(halfLife)
	return pf
}

// SetHalfLife sets the decay half-life. Non-positive values make the
// follower drop to the current sample immediately.
func (pf *PeakFollower) SetHalfLife(seconds float64) {
	pf.halfLife = seconds
	if seconds <= 0 || math.IsNaN(seconds) {
		pf.coef = 0
		return
	}
	pf.coef = math.Pow(0.5, 1/(seconds*pf.sampleRate))
}

// HalfLife returns the configured half-life.
func (pf *PeakFollower) HalfLife() float64 {
	return pf.halfLife
}

// Tick follows one sample and returns the envelope.
func (pf *PeakFollower) Tick(x float32) float64 {
	a := math.Abs(float64(x))
	pf.envelope *= pf.coef
	if a > pf.envelope {
		pf.envelope = a
	}
	return pf.envelope
}

// Process follows input and writes the envelope to output when it is not
// nil. The peak is published once per call.
func (pf *PeakFollower) Process(input, output []float32) {
	for i, x := range input {
		e := pf.Tick(x)
		if output != nil {
			output[i] = float32(e)
		}
	}
	pf.peak.Store(math.Float64bits(pf.envelope))
}

// Peak returns the last published envelope. Safe from any goroutine.
func (pf *PeakFollower) Peak() float64 {
	return math.Float64frombits(pf.peak.Load())
}

// Reset clears the envelope.
func (pf *PeakFollower) Reset() {
	pf.envelope = 0
	pf.peak.Store(0)
}

// BlockRMS returns the RMS level of samples.
func BlockRMS(samples []float32) float64 {
	if len(samples) == 0 {
		return 0
	}
	sumSq := f32.DotProductUnsafe(samples, samples)
	return math.Sqrt(float64(sumSq) / float64(len(samples)))
}

// LinearToDB converts a linear level to decibels, -Inf for silence.
func LinearToDB(v float64) float64 {
	if v > 0 {
		return 20.0 * math.Log10(v)
	}
	return math.Inf(-1)
}

// PeakMeter measures peak signal levels with hold.
type PeakMeter struct {
	peak       float64
	hold       float64
	holdTime   float64
	decayRate  float64
	sampleRate float64
	holdCount  int
}

// NewPeakMeter creates a new peak meter
func NewPeakMeter(sampleRate float64) *PeakMeter {
	return &PeakMeter{
		sampleRate: sampleRate,
		holdTime:   3.0,
		decayRate:  20.0,
	}
}

// SetHoldTime sets the peak hold time in seconds
func (pm *PeakMeter) SetHoldTime(seconds float64) {
	pm.holdTime = seconds
}

// SetDecayRate sets the peak decay rate in dB/second
func (pm *PeakMeter) SetDecayRate(dbPerSecond float64) {
	pm.decayRate = dbPerSecond
}

// Process updates the peak meter with new samples
func (pm *PeakMeter) Process(samples []float32) {
	blockPeak := 0.0
	for _, sample := range samples {
		if a := math.Abs(float64(sample)); a > blockPeak {
			blockPeak = a
		}
	}

	decayPerSample := pm.decayRate / pm.sampleRate / 20.0 * math.Ln10
	pm.peak *= math.Exp(-decayPerSample * float64(len(samples)))
	if blockPeak > pm.peak {
		pm.peak = blockPeak
	}

	if blockPeak > pm.hold {
		pm.hold = blockPeak
		pm.holdCount = int(pm.holdTime * pm.sampleRate)
	} else {
		pm.holdCount -= len(samples)
		if pm.holdCount <= 0 {
			pm.hold = pm.peak
			pm.holdCount = 0
		}
	}
}

// Peak returns the current peak level (linear)
func (pm *PeakMeter) Peak() float64 {
	return pm.peak
}

// Hold returns the held peak level (linear)
func (pm *PeakMeter) Hold() float64 {
	return pm.hold
}

// Reset clears the peak and hold values
func (pm *PeakMeter) Reset() {
	pm.peak = 0
	pm.hold = 0
	pm.holdCount = 0
}
