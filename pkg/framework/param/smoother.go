package param

import (
	"math"
)

// Interpolator ramps linearly from the value held at the start of a block to
// the block's target. It is re-initialized every block and consumed exactly
// blockSize times.
type Interpolator struct {
	current   float64
	target    float64
	increment float64
}

// Init starts a new ramp and returns current. A blockSize of 0 settles on the
// target immediately.
func (ip *Interpolator) Init(current, target float64, blockSize int) float64 {
	ip.target = target
	if blockSize <= 0 {
		ip.current = target
		ip.increment = 0
		return target
	}
	ip.current = current
	ip.increment = (target - current) / float64(blockSize)
	return current
}

// Next returns the current value and advances by one increment.
func (ip *Interpolator) Next() float64 {
	v := ip.current
	ip.current += ip.increment
	return v
}

// Increment returns the per-sample step of the current ramp.
func (ip *Interpolator) Increment() float64 {
	return ip.increment
}

// FinalValue returns the settled target.
func (ip *Interpolator) FinalValue() float64 {
	return ip.target
}

// Coefficient bounds for OnePole.
const (
	MinOnePoleCoefficient = 1e-4
	MaxOnePoleCoefficient = 1.0
)

// OnePole is a persistent first-order exponential smoother for control
// signals whose updates do not line up with block boundaries.
type OnePole struct {
	state       float64
	coefficient float64
}

// NewOnePole creates a smoother with the given coefficient.
func NewOnePole(coefficient float64) *OnePole {
	op := &OnePole{}
	op.SetCoefficient(coefficient)
	return op
}

// SetCoefficient sets the per-call smoothing amount, clamped to
// [MinOnePoleCoefficient, MaxOnePoleCoefficient].
func (op *OnePole) SetCoefficient(c float64) {
	if math.IsNaN(c) || c < MinOnePoleCoefficient {
		c = MinOnePoleCoefficient
	} else if c > MaxOnePoleCoefficient {
		c = MaxOnePoleCoefficient
	}
	op.coefficient = c
}

// Coefficient returns the clamped coefficient.
func (op *OnePole) Coefficient() float64 {
	return op.coefficient
}

// Process moves the state toward target and returns it.
func (op *OnePole) Process(target float64) float64 {
	op.state += op.coefficient * (target - op.state)
	return op.state
}

// Immediate snaps the state to target with no smoothing.
func (op *OnePole) Immediate(target float64) {
	op.state = target
}

// Value returns the current state.
func (op *OnePole) Value() float64 {
	return op.state
}

// SmoothingType defines different parameter smoothing algorithms.
type SmoothingType int

const (
	// LinearSmoothing uses linear interpolation
	LinearSmoothing SmoothingType = iota
	// ExponentialSmoothing uses exponential smoothing (one-pole filter)
	ExponentialSmoothing
	// LogarithmicSmoothing uses logarithmic smoothing (better for frequency parameters)
	LogarithmicSmoothing
)

// Smoother is a per-sample smoother used by plugins for gain and frequency
// de-zippering.
type Smoother struct {
	smoothingType SmoothingType
	current       float64
	target        float64
	rate          float64
	threshold     float64
	isSmoothing   bool

	step float64

	logCurrent float64
	logTarget  float64
	logStep    float64
}

// NewSmoother creates a new parameter smoother.
// rate: smoothing rate (0.9-0.999 for exponential, samples for linear)
func NewSmoother(smoothingType SmoothingType, rate float64) *Smoother {
	return &Smoother{
		smoothingType: smoothingType,
		rate:          rate,
		threshold:     0.0001,
	}
}

// NewTimedSmoother creates a smoother that settles in roughly ms
// milliseconds at sampleRate.
func NewTimedSmoother(smoothingType SmoothingType, sampleRate, ms float64) *Smoother {
	s := NewSmoother(smoothingType, 0)
	s.SetTime(sampleRate, ms)
	return s
}

// SetTime converts a settling time into the rate for the smoother's type.
func (s *Smoother) SetTime(sampleRate, ms float64) {
	samples := math.Max(1, sampleRate*ms/1000.0)
	if s.smoothingType == ExponentialSmoothing {
		// -60dB in ms
		s.rate = math.Exp(-6.908 / samples)
		return
	}
	s.rate = samples
}

// SetTarget sets the target value for smoothing.
func (s *Smoother) SetTarget(target float64) {
	if math.Abs(target-s.target) < s.threshold {
		return
	}

	s.target = target
	s.isSmoothing = true

	switch s.smoothingType {
	case LinearSmoothing:
		if s.rate > 0 {
			s.step = (target - s.current) / s.rate
		} else {
			s.current = target
			s.isSmoothing = false
		}

	case LogarithmicSmoothing:
		const minVal = 0.001
		s.logCurrent = math.Log(math.Max(s.current, minVal))
		s.logTarget = math.Log(math.Max(target, minVal))
		if s.rate > 0 {
			s.logStep = (s.logTarget - s.logCurrent) / s.rate
		} else {
			s.current = target
			s.isSmoothing = false
		}
	}
}

// Next returns the next smoothed value.
func (s *Smoother) Next() float64 {
	if !s.isSmoothing {
		return s.current
	}

	switch s.smoothingType {
	case ExponentialSmoothing:
		s.current += (s.target - s.current) * (1.0 - s.rate)
		if math.Abs(s.current-s.target) < s.threshold {
			s.current = s.target
			s.isSmoothing = false
		}

	case LinearSmoothing:
		s.current += s.step
		if (s.step > 0 && s.current >= s.target) || (s.step < 0 && s.current <= s.target) || s.step == 0 {
			s.current = s.target
			s.isSmoothing = false
		}

	case LogarithmicSmoothing:
		s.logCurrent += s.logStep
		if (s.logStep > 0 && s.logCurrent >= s.logTarget) || (s.logStep < 0 && s.logCurrent <= s.logTarget) || s.logStep == 0 {
			s.current = s.target
			s.isSmoothing = false
		} else {
			s.current = math.Exp(s.logCurrent)
		}
	}

	return s.current
}

// Apply multiplies each sample of buffer by the next smoothed value.
func (s *Smoother) Apply(buffer []float32) {
	if !s.isSmoothing {
		g := float32(s.current)
		for i := range buffer {
			buffer[i] *= g
		}
		return
	}
	for i := range buffer {
		buffer[i] *= float32(s.Next())
	}
}

// IsSmoothing returns true if the smoother is currently smoothing.
func (s *Smoother) IsSmoothing() bool {
	return s.isSmoothing
}

// Reset resets the smoother to a specific value.
func (s *Smoother) Reset(value float64) {
	s.current = value
	s.target = value
	s.isSmoothing = false
}

// SetThreshold sets the threshold for considering smoothing complete.
func (s *Smoother) SetThreshold(threshold float64) {
	s.threshold = threshold
}
