package dynamics

import (
	"math"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLimiterDefaults(t *testing.T) {
	l := NewLimiter(48000)
	assert.Equal(t, -0.3, l.Threshold())
	assert.Equal(t, 240, l.LatencySamples())

	l.SetThreshold(3)
	assert.Equal(t, 0.0, l.Threshold())
}

func TestLimiterBrickWall(t *testing.T) {
	l := NewLimiter(48000)
	l.SetThreshold(-3.0)
	l.SetLookahead(0.0)

	testCases := []struct {
		inputDB    float64
		expectedDB float64
	}{
		{-10.0, -10.0},
		{-3.0, -3.0},
		{0.0, -3.0},
		{6.0, -3.0},
	}

	for _, tc := range testCases {
		input := float32(math.Pow(10.0, tc.inputDB/20.0))
		var output float32
		for i := 0; i < 100; i++ {
			output = l.Process(input)
		}
		outputDB := 20.0 * math.Log10(math.Abs(float64(output)))
		assert.InDelta(t, tc.expectedDB, outputDB, 0.1, "input %v dB", tc.inputDB)
	}
}

func TestLimiterLookaheadNeverExceedsCeiling(t *testing.T) {
	l := NewLimiter(44100)
	l.SetThreshold(-1)
	ceiling := math.Pow(10, -1.0/20)

	rng := rand.New(rand.NewSource(3))
	for i := 0; i < 44100; i++ {
		x := float32((rng.Float64()*2 - 1) * 4)
		if i%1000 < 500 {
			x *= 0.1
		}
		y := l.Process(x)
		require.LessOrEqual(t, math.Abs(float64(y)), ceiling+1e-6, "sample %d", i)
	}
	assert.Greater(t, l.GainReduction(), -1e-9)
}

func TestLimiterReset(t *testing.T) {
	l := NewLimiter(44100)
	for i := 0; i < 100; i++ {
		l.Process(2)
	}
	l.Reset()
	assert.Equal(t, 0.0, l.GainReduction())
	assert.Equal(t, float32(0), l.Process(0))
}
