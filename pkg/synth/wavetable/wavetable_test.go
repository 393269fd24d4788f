package wavetable

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/justyntemme/synthgraph/internal/testutil"
)

const sampleRate = 44100.0

func TestBankIndexMirrors(t *testing.T) {
	want := []int{0, 1, 2, 3, 3, 2, 1, 0}
	for z, w := range want {
		assert.Equal(t, w, BankIndex(z), "z=%d", z)
	}
}

func TestTablesAreZeroMean(t *testing.T) {
	b := DefaultBank()
	require.Greater(t, b.Peak(), 0.0)
	for bank := 0; bank < Banks; bank++ {
		sum := 0.0
		for _, v := range b.Table(bank, 3, 5) {
			sum += float64(v)
		}
		assert.InDelta(t, 0, sum/TableSize, 1e-6)
	}
}

func TestMorphIsContinuous(t *testing.T) {
	b := DefaultBank()
	const step = 1.0 / 256
	bound := 3*step*b.Peak() + 1e-6
	for _, z := range []float64{0, 1.5, 2.9} {
		for _, phase := range []float64{0, 0.13, 0.5, 0.77} {
			prev := b.Lookup(2.5, 0, z, phase)
			for y := step; y <= MaxAxis; y += step {
				v := b.Lookup(2.5, y, z, phase)
				require.LessOrEqual(t, math.Abs(v-prev), bound, "z=%v phase=%v y=%v", z, phase, y)
				prev = v
			}
		}
	}
}

func TestMirroredBanksMatch(t *testing.T) {
	b := DefaultBank()
	for _, z := range []float64{4, 4.25, 5.5, 6.75, 7} {
		for _, phase := range []float64{0, 0.2, 0.6, 0.95} {
			a := b.Lookup(3.3, 4.1, z, phase)
			m := b.Lookup(3.3, 4.1, MaxAxis-z, phase)
			assert.InDelta(t, a, m, 1e-6, "z=%v phase=%v", z, phase)
		}
	}
}

func TestLookupClampsAxes(t *testing.T) {
	b := DefaultBank()
	assert.Equal(t, b.Lookup(0, 0, 0, 0.3), b.Lookup(-5, math.NaN(), -1, 0.3))
	assert.Equal(t, b.Lookup(MaxAxis, MaxAxis, MaxAxis, 0.3), b.Lookup(99, 99, 99, 0.3))
}

func TestQuantize(t *testing.T) {
	tests := []struct {
		z, want, blend float64
	}{
		{2.4, 2.4, 0},
		{3, 3, 0},
		{3.5, 3.75, 0.5},
		{4.4, 4, 1},
		{6.6, 7, 1},
	}
	for _, tt := range tests {
		got, q := Quantize(tt.z)
		assert.InDelta(t, tt.want, got, 1e-12, "z=%v", tt.z)
		assert.InDelta(t, tt.blend, q, 1e-12, "z=%v", tt.z)
	}
}

func render(e *Engine, total int) ([]float32, []float32) {
	out := make([]float32, total)
	aux := make([]float32, total)
	for pos := 0; pos < total; pos += 256 {
		end := min(pos+256, total)
		e.Process(nil, out[pos:end], aux[pos:end])
	}
	return out, aux
}

func TestRendersPitch(t *testing.T) {
	e := New(sampleRate, nil)
	p := DefaultParams()
	p.Frequency = 220
	e.SetParams(p)
	out, aux := render(e, 8192)

	testutil.AssertNoNaNOrInf(t, out)
	testutil.AssertBounded(t, out, 1.5)
	testutil.AssertBounded(t, aux, 1.0)
	assert.InEpsilon(t, 220, testutil.DominantFrequency(out, sampleRate), 0.03)
}

func TestPitchInputShiftsOctave(t *testing.T) {
	e := New(sampleRate, nil)
	p := DefaultParams()
	p.Frequency = 110
	e.SetParams(p)
	pitch := make([]float32, 256)
	for i := range pitch {
		pitch[i] = 1
	}
	out := make([]float32, 8192)
	for pos := 0; pos < len(out); pos += 256 {
		e.Process(pitch, out[pos:pos+256], nil)
	}
	assert.InEpsilon(t, 220, testutil.DominantFrequency(out, sampleRate), 0.03)
}

func TestAxisSweepStaysSmooth(t *testing.T) {
	e := New(sampleRate, nil)
	p := DefaultParams()
	p.Frequency = 440
	out := make([]float32, 256)
	for i := 0; i < 200; i++ {
		p.X = float64(i%8) * 0.9
		p.Y = float64(i%5) * 1.4
		p.Z = float64(i%16) * 0.45
		e.SetParams(p)
		e.Process(nil, out, nil)
		testutil.AssertNoNaNOrInf(t, out)
		testutil.AssertBounded(t, out, 2)
	}
	x, y, z := e.Axes()
	for _, v := range []float64{x, y, z} {
		assert.GreaterOrEqual(t, v, 0.0)
		assert.LessOrEqual(t, v, MaxAxis)
	}
}

func TestFirstBlockSnapsAxes(t *testing.T) {
	e := New(sampleRate, nil)
	p := DefaultParams()
	p.X, p.Y, p.Z = 5, 2, 6.4
	e.SetParams(p)
	e.Process(nil, make([]float32, 16), nil)
	x, y, z := e.Axes()
	assert.InDelta(t, 5, x, 1e-9)
	assert.InDelta(t, 2, y, 1e-9)
	assert.InDelta(t, 6, z, 1e-9)
}

func BenchmarkProcess(b *testing.B) {
	e := New(sampleRate, nil)
	out := make([]float32, 256)
	aux := make([]float32, 256)
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		e.Process(nil, out, aux)
	}
}
