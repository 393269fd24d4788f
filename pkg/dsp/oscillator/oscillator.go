// Package oscillator provides audio oscillators for synthesis
package oscillator

import "math"

// Waveform selects the oscillator shape.
type Waveform int

const (
	Sine Waveform = iota
	Triangle
	Saw
	Square
	// BLEPSaw and BLEPSquare are band-limited with a polynomial step
	// correction at each discontinuity.
	BLEPSaw
	BLEPSquare
)

// String returns the waveform name.
func (w Waveform) String() string {
	switch w {
	case Sine:
		return "sine"
	case Triangle:
		return "triangle"
	case Saw:
		return "saw"
	case Square:
		return "square"
	case BLEPSaw:
		return "blep-saw"
	case BLEPSquare:
		return "blep-square"
	}
	return "unknown"
}

// Oscillator generates periodic waveforms
type Oscillator struct {
	sampleRate float64
	frequency  float64
	phase      float64
	phaseInc   float64
	waveform   Waveform
}

// New creates a new oscillator
func New(sampleRate float64) *Oscillator {
	o := &Oscillator{sampleRate: sampleRate}
	o.SetFrequency(440.0)
	return o
}

// SetWaveform selects the generated shape.
func (o *Oscillator) SetWaveform(w Waveform) {
	o.waveform = w
}

// Waveform returns the current shape.
func (o *Oscillator) Waveform() Waveform {
	return o.waveform
}

// SetFrequency sets the oscillator frequency. Negative and non-finite values
// stop the phase.
func (o *Oscillator) SetFrequency(freq float64) {
	if math.IsNaN(freq) || math.IsInf(freq, 0) || freq < 0 {
		freq = 0
	}
	if nyquist := o.sampleRate / 2; freq > nyquist {
		freq = nyquist
	}
	o.frequency = freq
	o.phaseInc = freq / o.sampleRate
}

// Frequency returns the frequency in Hz.
func (o *Oscillator) Frequency() float64 {
	return o.frequency
}

// SetPhase sets the oscillator phase (0-1)
func (o *Oscillator) SetPhase(phase float64) {
	o.phase = phase - math.Floor(phase)
}

// Phase returns the phase in [0, 1).
func (o *Oscillator) Phase() float64 {
	return o.phase
}

// Reset resets the oscillator phase to 0
func (o *Oscillator) Reset() {
	o.phase = 0.0
}

func (o *Oscillator) updatePhase() {
	o.phase += o.phaseInc
	if o.phase >= 1.0 {
		o.phase -= math.Floor(o.phase)
	}
}

// Next generates one sample of the selected waveform.
func (o *Oscillator) Next() float64 {
	p := o.phase
	var v float64
	switch o.waveform {
	case Sine:
		v = math.Sin(2.0 * math.Pi * p)
	case Triangle:
		if p < 0.5 {
			v = 4.0*p - 1.0
		} else {
			v = 3.0 - 4.0*p
		}
	case Saw:
		v = 2.0*p - 1.0
	case Square:
		v = square(p)
	case BLEPSaw:
		v = 2.0*p - 1.0 - PolyBLEP(p, o.phaseInc)
	case BLEPSquare:
		v = square(p) + PolyBLEP(p, o.phaseInc)
		q := p + 0.5
		if q >= 1 {
			q--
		}
		v -= PolyBLEP(q, o.phaseInc)
	}
	o.updatePhase()
	return v
}

func square(p float64) float64 {
	if p < 0.5 {
		return 1
	}
	return -1
}

// Process fills buffer with the selected waveform - no allocations
func (o *Oscillator) Process(buffer []float32) {
	for i := range buffer {
		buffer[i] = float32(o.Next())
	}
}

// PolyBLEP returns the two-sample polynomial band-limited step residual for a
// unit discontinuity at phase 0, given the per-sample phase increment dt.
func PolyBLEP(phase, dt float64) float64 {
	if dt <= 0 {
		return 0
	}
	if phase < dt {
		t := phase / dt
		return t + t - t*t - 1
	}
	if phase > 1-dt {
		t := (phase - 1) / dt
		return t*t + t + t + 1
	}
	return 0
}
