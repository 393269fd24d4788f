package utility

import "math"

// DCBlocker removes DC offset with a first-order high-pass,
// y[n] = x[n] - x[n-1] + R·y[n-1].
type DCBlocker struct {
	x1, y1      float32
	coefficient float32
}

// NewDCBlocker creates a DC blocker with the given cutoff, typically 5-20 Hz.
func NewDCBlocker(cutoffHz, sampleRate float64) *DCBlocker {
	r := 1.0 - 2.0*math.Pi*cutoffHz/sampleRate
	r = math.Max(0.9, math.Min(0.9999, r))
	return &DCBlocker{coefficient: float32(r)}
}

// Process removes DC from a single sample.
func (dc *DCBlocker) Process(input float32) float32 {
	output := input - dc.x1 + dc.coefficient*dc.y1
	dc.x1 = input
	dc.y1 = output
	return output
}

// ProcessBuffer processes a buffer in-place.
func (dc *DCBlocker) ProcessBuffer(buffer []float32) {
	for i := range buffer {
		buffer[i] = dc.Process(buffer[i])
	}
}

// Reset clears the state.
func (dc *DCBlocker) Reset() {
	dc.x1 = 0
	dc.y1 = 0
}
