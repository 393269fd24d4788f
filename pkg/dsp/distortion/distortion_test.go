package distortion

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSaturate(t *testing.T) {
	for _, x := range []float64{0, 0.1, 0.5, 1, 10, 1e6, -3, -1e9} {
		y := Saturate(x)
		assert.Less(t, math.Abs(y), 1.0, "x=%v", x)
		// matches sign(x)·(1 − 1/(1+|x|))
		s := 1.0
		if x < 0 {
			s = -1
		}
		assert.InDelta(t, s*(1-1/(1+math.Abs(x))), y, 1e-12)
	}
	assert.Equal(t, 0.5, Saturate(1))
}

func TestWaveshaperCurves(t *testing.T) {
	tests := []struct {
		name  string
		curve CurveType
		in    float64
		want  float64
	}{
		{"Rational", CurveRational, 3, 0.75},
		{"SoftClip", CurveSoftClip, 1, math.Tanh(1)},
		{"HardClip", CurveHardClip, 4, 1},
		{"FoldbackIdentity", CurveFoldback, 0.5, 0.5},
		{"FoldbackFolds", CurveFoldback, 1.5, 0.5},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := NewWaveshaper(tt.curve)
			assert.InDelta(t, tt.want, w.Process(tt.in), 1e-9)
		})
	}

	t.Run("DryMix", func(t *testing.T) {
		w := NewWaveshaper(CurveHardClip)
		w.SetMix(0)
		assert.Equal(t, 4.0, w.Process(4))
	})
}

func TestBitcrusher(t *testing.T) {
	t.Run("Quantizes", func(t *testing.T) {
		b := NewBitcrusher()
		b.SetBitDepth(2)
		// 4 levels: steps of 0.5
		assert.InDelta(t, 0.5, b.Process(0.4), 1e-12)
		assert.InDelta(t, 0.0, b.Process(0.1), 1e-12)
		assert.InDelta(t, -1.0, b.Process(-0.9), 1e-12)
	})

	t.Run("SampleHold", func(t *testing.T) {
		b := NewBitcrusher()
		b.SetBitDepth(32)
		b.SetSampleRateReduction(2)
		in := []float32{0.1, 0.2, 0.3, 0.4}
		out := make([]float32, 4)
		b.ProcessBuffer(in, out)
		assert.Equal(t, []float32{0.1, 0.1, 0.3, 0.3}, out)
	})

	t.Run("Clamp", func(t *testing.T) {
		b := NewBitcrusher()
		b.SetBitDepth(0)
		assert.Equal(t, 1.0, b.BitDepth())
	})
}
