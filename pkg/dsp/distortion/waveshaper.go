// Package distortion provides saturation and bit reduction.
package distortion

import (
	"math"
)

// CurveType represents different waveshaping transfer functions
type CurveType int

const (
	// CurveRational is x/(1+|x|): smooth, odd and strictly below unity.
	CurveRational CurveType = iota
	// CurveSoftClip applies soft clipping using tanh
	CurveSoftClip
	// CurveHardClip clips the signal at ±1
	CurveHardClip
	// CurveFoldback creates wave folding distortion
	CurveFoldback
)

// Saturate is the rational soft saturator x/(1+|x|), equivalently
// sign(x)·(1 − 1/(1+|x|)). |Saturate(x)| < 1 for every finite x.
func Saturate(x float64) float64 {
	return x / (1 + math.Abs(x))
}

// Waveshaper applies waveshaping distortion to audio signals
type Waveshaper struct {
	curveType CurveType
	drive     float64
	mix       float64
}

// NewWaveshaper creates a new waveshaper with the specified curve type
func NewWaveshaper(curveType CurveType) *Waveshaper {
	return &Waveshaper{
		curveType: curveType,
		drive:     1.0,
		mix:       1.0,
	}
}

// SetCurveType changes the waveshaping curve
func (w *Waveshaper) SetCurveType(curveType CurveType) {
	w.curveType = curveType
}

// SetDrive sets the distortion amount (typically 1.0 to 20.0)
func (w *Waveshaper) SetDrive(drive float64) {
	w.drive = math.Max(1.0, drive)
}

// SetMix sets the dry/wet mix (0.0 = dry, 1.0 = wet)
func (w *Waveshaper) SetMix(mix float64) {
	w.mix = math.Max(0.0, math.Min(1.0, mix))
}

// Process applies waveshaping to a single sample
func (w *Waveshaper) Process(input float64) float64 {
	driven := input * w.drive

	var shaped float64
	switch w.curveType {
	case CurveSoftClip:
		shaped = math.Tanh(driven)
	case CurveHardClip:
		shaped = math.Max(-1, math.Min(1, driven))
	case CurveFoldback:
		shaped = foldback(driven)
	default:
		shaped = Saturate(driven)
	}

	return input*(1.0-w.mix) + shaped*w.mix
}

// ProcessBuffer applies waveshaping in place.
func (w *Waveshaper) ProcessBuffer(buffer []float32) {
	for i, x := range buffer {
		buffer[i] = float32(w.Process(float64(x)))
	}
}

func foldback(x float64) float64 {
	normalized := (x + 1.0) / 4.0
	folded := normalized - math.Floor(normalized)
	// triangle over one fold period
	if folded < 0.5 {
		return folded*4.0 - 1.0
	}
	return 3.0 - folded*4.0
}
