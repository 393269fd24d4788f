package testutil

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPeakAndRMS(t *testing.T) {
	buf := []float32{0.1, -0.8, 0.5}
	p, i := Peak(buf)
	assert.InDelta(t, 0.8, p, 1e-6)
	assert.Equal(t, 1, i)

	_, i = Peak(nil)
	assert.Equal(t, -1, i)

	assert.InDelta(t, 1.0, RMS([]float32{1, -1, 1, -1}), 1e-9)
	assert.InDelta(t, 0.5, MaxStep([]float32{0, 0.5, 0.25}), 1e-9)
}

func TestDominantFrequency(t *testing.T) {
	const sr = 48000.0
	buf := make([]float32, 8192)
	for i := range buf {
		buf[i] = float32(math.Sin(2 * math.Pi * 1000 * float64(i) / sr))
	}
	// Bin spacing is sr/8192, about 5.9 Hz.
	assert.InDelta(t, 1000, DominantFrequency(buf, sr), 6)
}
