package bender

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/justyntemme/synthgraph/internal/testutil"
)

const (
	sampleRate = 44100.0
	block      = 256
)

type frame struct {
	pitch, timbre, wobble, audio []float32
}

func newFrame() frame {
	return frame{
		pitch:  make([]float32, block),
		timbre: make([]float32, block),
		wobble: make([]float32, block),
		audio:  make([]float32, block),
	}
}

func (f frame) run(e *Engine) {
	e.Process(f.pitch, f.timbre, f.wobble, f.audio)
}

func TestTensionCurve(t *testing.T) {
	tests := []struct {
		bend, want float64
	}{
		{0, 0},
		{0.5, 0.625},
		{1, 1.5},
		{-1, -1.5},
		{-0.2, -0.22},
	}
	for _, tt := range tests {
		assert.InDelta(t, tt.want, TensionCurve(tt.bend), 1e-12, "bend %v", tt.bend)
	}
	assert.InDelta(t, 0.25, PitchOctaves(1, 2), 1e-12)
}

func TestStateString(t *testing.T) {
	assert.Equal(t, "idle", Idle.String())
	assert.Equal(t, "bending", Bending.String())
	assert.Equal(t, "released", Released.String())
	assert.Equal(t, "unknown", State(9).String())
}

func TestBendGesture(t *testing.T) {
	e := New(sampleRate, 1)
	f := newFrame()
	p := DefaultParams()
	p.Range = 7

	p.Bend = 0
	e.SetParams(p)
	f.run(e)
	assert.Equal(t, Idle, e.State())

	// Rising edge: the drone arms, the spring does not.
	for _, b := range []float64{0.25, 0.5, 0.75, 1} {
		p.Bend = b
		e.SetParams(p)
		f.run(e)
		want := float32(TensionCurve(b) * p.Range / 12)
		assert.Equal(t, want, f.pitch[block-1], "bend %v", b)
		assert.InDelta(t, TensionCurve(b)*p.Range/12, e.Pitch(), 1e-12)
		assert.Equal(t, Bending, e.State())
		assert.Equal(t, 0, e.SpringCount(), "spring armed on rising edge at %v", b)
	}
	assert.Equal(t, 1, e.TensionCount())
	assert.InDelta(t, 1.5*7/12, f.pitch[block-1], 1e-6)

	// Falling edge: the spring arms exactly once.
	p.Bend = 0
	e.SetParams(p)
	f.run(e)
	assert.Equal(t, float32(0), f.pitch[block-1])
	assert.Equal(t, Released, e.State())
	assert.Equal(t, 1, e.SpringCount())
	peak, _ := testutil.Peak(f.audio)
	assert.Greater(t, peak, 0.05)

	for i := 0; i < 800; i++ {
		f.run(e)
	}
	assert.Equal(t, Idle, e.State())
	assert.Equal(t, 1, e.SpringCount())
	assert.Equal(t, 1, e.TensionCount())
}

func TestPitchRampsWithinBlock(t *testing.T) {
	e := New(sampleRate, 1)
	f := newFrame()
	p := DefaultParams()
	e.SetParams(p)
	f.run(e)

	p.Bend = 1
	e.SetParams(p)
	f.run(e)
	for i := 1; i < block; i++ {
		require.GreaterOrEqual(t, f.pitch[i], f.pitch[i-1])
	}
	assert.Less(t, f.pitch[0], f.pitch[block-1])
}

func TestDroneTracksBend(t *testing.T) {
	level := func(bend float64) float64 {
		e := New(sampleRate, 1)
		f := newFrame()
		p := DefaultParams()
		p.Bend = bend
		p.Spring = 0
		e.SetParams(p)
		for i := 0; i < 40; i++ {
			f.run(e)
		}
		return testutil.RMS(f.audio)
	}
	assert.Greater(t, level(1), level(0.3))
	assert.Equal(t, 0.0, level(0))
}

func TestWobbleScalesWithBend(t *testing.T) {
	e := New(sampleRate, 5)
	f := newFrame()
	e.SetParams(DefaultParams())
	f.run(e)
	testutil.AssertSilent(t, f.wobble)

	p := DefaultParams()
	p.Bend = -1
	p.Wobble = 1
	e.SetParams(p)
	for i := 0; i < 20; i++ {
		f.run(e)
	}
	testutil.AssertBounded(t, f.wobble, 1)
	peak, _ := testutil.Peak(f.wobble)
	assert.Greater(t, peak, 0.0)
	testutil.AssertBounded(t, f.timbre, 1)
	assert.InDelta(t, 1.0, f.timbre[block-1], 1e-6)
}

func TestNilOutputs(t *testing.T) {
	e := New(sampleRate, 1)
	e.Process(nil, nil, nil, nil)
	audio := make([]float32, block)
	e.Process(nil, nil, nil, audio)
	testutil.AssertNoNaNOrInf(t, audio)
}
