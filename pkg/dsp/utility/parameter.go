package utility

import "math"

// ScaleParameter performs linear scaling of a normalized parameter value (0-1) to a target range.
func ScaleParameter(normalized, min, max float64) float64 {
	return min + normalized*(max-min)
}

// ScaleParameterExp performs exponential scaling of a normalized parameter value (0-1) to a target range.
// This is ideal for frequency, time, and other parameters where exponential scaling feels more natural.
func ScaleParameterExp(normalized, min, max float64) float64 {
	if min <= 0 || max <= 0 {
		return ScaleParameter(normalized, min, max)
	}
	return min * math.Pow(max/min, normalized)
}

// UnscaleParameterExp performs inverse exponential scaling from a target range back to normalized (0-1).
func UnscaleParameterExp(value, min, max float64) float64 {
	if min <= 0 || max <= 0 || max == min || value <= 0 {
		if max == min {
			return 0
		}
		return (value - min) / (max - min)
	}
	return math.Log(value/min) / math.Log(max/min)
}

// Clamp keeps value within [min, max]. NaN becomes min.
func Clamp(value, min, max float64) float64 {
	if value != value || value < min {
		return min
	}
	if value > max {
		return max
	}
	return value
}

// SemitonesToRatio converts a pitch offset to a frequency ratio.
func SemitonesToRatio(st float64) float64 {
	return math.Exp2(st / 12)
}

// MIDIToHz converts a MIDI note number to frequency (A4 = 69 = 440 Hz).
func MIDIToHz(note float64) float64 {
	return 440 * math.Exp2((note-69)/12)
}

// Sanitize replaces NaN and infinite samples with silence and reports whether
// anything was replaced.
func Sanitize(buffer []float32) bool {
	dirty := false
	for i, v := range buffer {
		if v != v || v > math.MaxFloat32 || v < -math.MaxFloat32 {
			buffer[i] = 0
			dirty = true
		}
	}
	return dirty
}
