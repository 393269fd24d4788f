package filter

import "math"

// OnePole is a first-order low-pass, g = tan(πf)/(1+tan(πf)).
type OnePole struct {
	g     float64
	state float64
}

// NewOnePole creates a low-pass at normalized cutoff f.
func NewOnePole(f float64) *OnePole {
	op := &OnePole{}
	op.SetCutoff(f)
	return op
}

// SetCutoff sets the normalized cutoff, clamped to [0, MaxCutoff].
func (op *OnePole) SetCutoff(f float64) {
	if math.IsNaN(f) || f < 0 {
		f = 0
	} else if f > MaxCutoff {
		f = MaxCutoff
	}
	t := math.Tan(math.Pi * f)
	op.g = t / (1 + t)
}

// Coefficient returns g.
func (op *OnePole) Coefficient() float64 { return op.g }

// Tick filters one sample.
func (op *OnePole) Tick(input float64) float64 {
	op.state += op.g * (input - op.state)
	return op.state
}

// Process filters buffer in place - no allocations
func (op *OnePole) Process(buffer []float32) {
	for i, x := range buffer {
		buffer[i] = float32(op.Tick(float64(x)))
	}
}

// Reset zeroes the state.
func (op *OnePole) Reset() { op.state = 0 }

// Value returns the current state.
func (op *OnePole) Value() float64 { return op.state }
