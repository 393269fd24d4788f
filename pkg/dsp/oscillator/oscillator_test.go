package oscillator

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOscillatorWaveforms(t *testing.T) {
	waves := []Waveform{Sine, Triangle, Saw, Square, BLEPSaw, BLEPSquare}
	for _, w := range waves {
		t.Run(w.String(), func(t *testing.T) {
			o := New(44100)
			o.SetWaveform(w)
			o.SetFrequency(441)
			buf := make([]float32, 4410)
			o.Process(buf)

			var sum float64
			for i, v := range buf {
				require.LessOrEqual(t, math.Abs(float64(v)), 1.1, "sample %d", i)
				sum += float64(v)
			}
			// 44 full cycles, so the mean is near zero
			assert.InDelta(t, 0, sum/float64(len(buf)), 0.05)
		})
	}
}

func TestOscillatorPhase(t *testing.T) {
	o := New(100)
	o.SetFrequency(10)
	for i := 0; i < 25; i++ {
		o.Next()
	}
	assert.InDelta(t, 0.5, o.Phase(), 1e-9)

	o.Reset()
	assert.Equal(t, 0.0, o.Phase())

	o.SetPhase(2.25)
	assert.InDelta(t, 0.25, o.Phase(), 1e-12)
}

func TestOscillatorFrequencyGuards(t *testing.T) {
	o := New(44100)
	o.SetFrequency(math.NaN())
	assert.Equal(t, 0.0, o.Frequency())
	o.SetFrequency(-5)
	assert.Equal(t, 0.0, o.Frequency())
	o.SetFrequency(1e9)
	assert.Equal(t, 22050.0, o.Frequency())
}

func TestPolyBLEP(t *testing.T) {
	assert.Equal(t, 0.0, PolyBLEP(0.5, 0.01))
	assert.InDelta(t, -1, PolyBLEP(0, 0.01), 1e-12)
	assert.InDelta(t, 0, PolyBLEP(0.01, 0.01), 1e-12)
	assert.Equal(t, 0.0, PolyBLEP(0.3, 0))
}

func BenchmarkOscillator(b *testing.B) {
	o := New(44100)
	o.SetWaveform(BLEPSaw)
	buf := make([]float32, 256)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		o.Process(buf)
	}
}
