package param

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInterpolator(t *testing.T) {
	t.Run("RampProperty", func(t *testing.T) {
		tests := []struct {
			name string
			a, b float64
			n    int
		}{
			{"Rising", 0, 1, 256},
			{"Falling", 1, -1, 64},
			{"Flat", 0.5, 0.5, 16},
			{"SingleSample", 0.2, 0.9, 1},
		}

		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				var ip Interpolator
				got := ip.Init(tt.a, tt.b, tt.n)
				assert.Equal(t, tt.a, got)

				inc := (tt.b - tt.a) / float64(tt.n)
				assert.InDelta(t, inc, ip.Increment(), 1e-15)

				prev := tt.a
				var last float64
				for i := 1; i <= tt.n; i++ {
					last = ip.Next()
					// monotonic toward b
					if tt.b >= tt.a {
						assert.GreaterOrEqual(t, last, prev-1e-12)
						assert.LessOrEqual(t, last, tt.b+1e-12)
					} else {
						assert.LessOrEqual(t, last, prev+1e-12)
						assert.GreaterOrEqual(t, last, tt.b-1e-12)
					}
					prev = last
				}
				assert.InDelta(t, tt.a+float64(tt.n-1)*inc, last, 1e-9)
				assert.Equal(t, tt.b, ip.FinalValue())
			})
		}
	})

	t.Run("ZeroBlockSize", func(t *testing.T) {
		var ip Interpolator
		got := ip.Init(0.1, 0.7, 0)
		assert.Equal(t, 0.7, got)
		assert.Equal(t, 0.7, ip.Next())
		assert.Equal(t, 0.7, ip.Next())
		assert.Equal(t, 0.7, ip.FinalValue())
		assert.False(t, math.IsNaN(ip.Increment()))
	})
}

func TestOnePole(t *testing.T) {
	t.Run("CoefficientClamp", func(t *testing.T) {
		assert.Equal(t, MinOnePoleCoefficient, NewOnePole(0).Coefficient())
		assert.Equal(t, MinOnePoleCoefficient, NewOnePole(-3).Coefficient())
		assert.Equal(t, MinOnePoleCoefficient, NewOnePole(math.NaN()).Coefficient())
		assert.Equal(t, MaxOnePoleCoefficient, NewOnePole(4).Coefficient())
		assert.Equal(t, 0.25, NewOnePole(0.25).Coefficient())
	})

	t.Run("Process", func(t *testing.T) {
		op := NewOnePole(0.5)
		assert.InDelta(t, 0.5, op.Process(1), 1e-12)
		assert.InDelta(t, 0.75, op.Process(1), 1e-12)
		assert.InDelta(t, 0.875, op.Process(1), 1e-12)
	})

	t.Run("Immediate", func(t *testing.T) {
		op := NewOnePole(0.01)
		op.Process(1)
		op.Immediate(440)
		assert.Equal(t, 440.0, op.Value())
		// Next step starts from the snapped value, no glide-in
		assert.InDelta(t, 440.0, op.Process(440), 1e-12)
	})

	t.Run("UnityCoefficientTracks", func(t *testing.T) {
		op := NewOnePole(1)
		assert.Equal(t, 3.0, op.Process(3))
		assert.Equal(t, -2.0, op.Process(-2))
	})
}

func TestSmoother(t *testing.T) {
	t.Run("LinearSmoothing", func(t *testing.T) {
		smoother := NewSmoother(LinearSmoothing, 10)
		smoother.Reset(0.0)
		smoother.SetTarget(1.0)

		for i := 0; i < 10; i++ {
			value := smoother.Next()
			assert.InDelta(t, float64(i+1)*0.1, value, 0.001, "sample %d", i)
		}

		assert.Equal(t, 1.0, smoother.Next())
		assert.False(t, smoother.IsSmoothing())
	})

	t.Run("ExponentialSmoothing", func(t *testing.T) {
		smoother := NewSmoother(ExponentialSmoothing, 0.9)
		smoother.Reset(0.0)
		smoother.SetTarget(1.0)

		prev := 0.0
		for i := 0; i < 50; i++ {
			value := smoother.Next()
			require.Greater(t, value, prev)
			require.Less(t, value, 1.0)
			prev = value
		}

		for i := 0; i < 200; i++ {
			smoother.Next()
		}
		assert.False(t, smoother.IsSmoothing())
	})

	t.Run("LogarithmicSmoothing", func(t *testing.T) {
		smoother := NewSmoother(LogarithmicSmoothing, 10)
		smoother.Reset(100.0)
		smoother.SetTarget(1000.0)

		values := make([]float64, 0, 10)
		for i := 0; i < 9; i++ {
			values = append(values, smoother.Next())
		}

		// Constant ratio between consecutive values
		ratio := values[1] / values[0]
		for i := 2; i < len(values); i++ {
			assert.InDelta(t, ratio, values[i]/values[i-1], 0.01)
		}
	})

	t.Run("Threshold", func(t *testing.T) {
		smoother := NewSmoother(ExponentialSmoothing, 0.9)
		smoother.SetThreshold(0.1)
		smoother.Reset(0.0)
		smoother.SetTarget(0.05)
		assert.False(t, smoother.IsSmoothing())
	})

	t.Run("TimedRates", func(t *testing.T) {
		lin := NewTimedSmoother(LinearSmoothing, 48000, 20)
		assert.Equal(t, 960.0, lin.rate)

		exp := NewTimedSmoother(ExponentialSmoothing, 48000, 20)
		assert.InDelta(t, math.Exp(-6.908/960), exp.rate, 1e-12)
	})

	t.Run("Apply", func(t *testing.T) {
		smoother := NewSmoother(LinearSmoothing, 5)
		smoother.Reset(0.0)
		smoother.SetTarget(1.0)

		buffer := []float32{1, 1, 1, 1, 1}
		smoother.Apply(buffer)

		expected := []float32{0.2, 0.4, 0.6, 0.8, 1.0}
		assert.InDeltaSlice(t, expected, buffer, 0.001)
	})
}

func BenchmarkSmoother(b *testing.B) {
	b.Run("LinearNext", func(b *testing.B) {
		smoother := NewSmoother(LinearSmoothing, 100)
		smoother.SetTarget(1.0)
		b.ResetTimer()

		for i := 0; i < b.N; i++ {
			_ = smoother.Next()
		}
	})

	b.Run("Interpolator", func(b *testing.B) {
		var ip Interpolator
		b.ResetTimer()

		for i := 0; i < b.N; i++ {
			ip.Init(0, 1, 256)
			for j := 0; j < 256; j++ {
				_ = ip.Next()
			}
		}
	})

	b.Run("OnePole", func(b *testing.B) {
		op := NewOnePole(0.01)
		b.ResetTimer()

		for i := 0; i < b.N; i++ {
			_ = op.Process(1)
		}
	})
}
