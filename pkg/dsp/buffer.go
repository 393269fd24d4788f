// Package dsp provides buffer utilities shared by the engine and the
// synthesis units.
package dsp

import (
	"math"

	"github.com/tphakala/simd/f32"
)

// Clear zeroes a buffer - no allocations
func Clear(buffer []float32) {
	for i := range buffer {
		buffer[i] = 0
	}
}

// Add adds source to destination - no allocations
func Add(dst, src []float32) {
	n := len(dst)
	if len(src) < n {
		n = len(src)
	}
	for i := 0; i < n; i++ {
		dst[i] += src[i]
	}
}

// Scale writes src·scale into dst using the SIMD kernels. dst and src may
// be the same slice.
func Scale(dst, src []float32, scale float32) {
	if scale == 1 {
		if &dst[0] != &src[0] {
			copy(dst, src)
		}
		return
	}
	f32.Scale(dst, src, scale)
}

// Peak finds the maximum absolute value in a buffer
func Peak(buffer []float32) float32 {
	peak := float32(0)
	for _, sample := range buffer {
		if sample < 0 {
			sample = -sample
		}
		if sample > peak {
			peak = sample
		}
	}
	return peak
}

// DbToLinear converts decibels to a linear gain.
func DbToLinear(db float64) float64 {
	return math.Pow(10, db/20)
}
