// Package testutil provides reusable test helpers for rendered audio.
package testutil

import (
	"math"
	"math/cmplx"
	"testing"

	"github.com/stretchr/testify/assert"
	"gonum.org/v1/gonum/dsp/fourier"
	"gonum.org/v1/gonum/floats"
)

// ToFloat64 widens a float32 buffer for analysis.
func ToFloat64(buf []float32) []float64 {
	out := make([]float64, len(buf))
	for i, v := range buf {
		out[i] = float64(v)
	}
	return out
}

// Peak returns the largest absolute sample and its index.
func Peak(buf []float32) (float64, int) {
	if len(buf) == 0 {
		return 0, -1
	}
	abs := ToFloat64(buf)
	for i, v := range abs {
		abs[i] = math.Abs(v)
	}
	idx := floats.MaxIdx(abs)
	return abs[idx], idx
}

// RMS returns the root mean square of buf.
func RMS(buf []float32) float64 {
	if len(buf) == 0 {
		return 0
	}
	return floats.Norm(ToFloat64(buf), 2) / math.Sqrt(float64(len(buf)))
}

// AssertNoNaNOrInf verifies that no sample is NaN or Inf.
func AssertNoNaNOrInf(t *testing.T, buf []float32, msgAndArgs ...any) bool {
	t.Helper()
	for i, v := range buf {
		f := float64(v)
		if math.IsNaN(f) || math.IsInf(f, 0) {
			return assert.Fail(t, "found NaN or Inf", "buf[%d]=%v", i, v)
		}
	}
	return true
}

// AssertBounded verifies that every |sample| is at most limit.
func AssertBounded(t *testing.T, buf []float32, limit float64, msgAndArgs ...any) bool {
	t.Helper()
	for i, v := range buf {
		if math.Abs(float64(v)) > limit {
			return assert.Fail(t, "sample out of bounds",
				"|buf[%d]|=%f exceeds %f", i, math.Abs(float64(v)), limit)
		}
	}
	return true
}

// AssertSilent verifies that every sample is exactly zero.
func AssertSilent(t *testing.T, buf []float32, msgAndArgs ...any) bool {
	t.Helper()
	for i, v := range buf {
		if v != 0 {
			return assert.Fail(t, "expected silence", "buf[%d]=%v", i, v)
		}
	}
	return true
}

// DominantFrequency returns the frequency in Hz of the strongest FFT bin of
// buf, ignoring DC. The buffer is Hann windowed and zero padded to a power
// of two.
func DominantFrequency(buf []float32, sampleRate float64) float64 {
	n := 1
	for n < len(buf) {
		n *= 2
	}
	x := make([]float64, n)
	for i, v := range buf {
		w := 0.5 - 0.5*math.Cos(2*math.Pi*float64(i)/float64(len(buf)-1))
		x[i] = float64(v) * w
	}
	fft := fourier.NewFFT(n)
	coeffs := fft.Coefficients(nil, x)

	mags := make([]float64, len(coeffs))
	for i := 1; i < len(coeffs); i++ {
		mags[i] = cmplx.Abs(coeffs[i])
	}
	k := floats.MaxIdx(mags)
	return fft.Freq(k) * sampleRate
}

// MaxStep returns the largest absolute difference between adjacent samples.
func MaxStep(buf []float32) float64 {
	m := 0.0
	for i := 1; i < len(buf); i++ {
		if d := math.Abs(float64(buf[i] - buf[i-1])); d > m {
			m = d
		}
	}
	return m
}
