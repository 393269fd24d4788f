package granular

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/justyntemme/synthgraph/internal/testutil"
	"github.com/justyntemme/synthgraph/pkg/backend/native"
	"github.com/justyntemme/synthgraph/pkg/framework/engine"
	"github.com/justyntemme/synthgraph/pkg/framework/host"
	"github.com/justyntemme/synthgraph/pkg/framework/port"
	"github.com/justyntemme/synthgraph/pkg/plugins/wavetable"
	"github.com/justyntemme/synthgraph/pkg/synth/granular"
)

func newChain(t *testing.T) *host.Host {
	t.Helper()
	h, err := host.New(engine.Config{SampleRate: 48000, BlockSize: 256}, native.NewFactory())
	require.NoError(t, err)
	require.NoError(t, h.Add(wavetable.New()))
	require.NoError(t, h.Add(New()))
	require.NoError(t, h.Connect(wavetable.URI, "out", URI, "in"))
	require.NoError(t, h.ConnectMaster(URI, "out"))
	require.NoError(t, h.Start())
	return h
}

func TestModesProcessOscillator(t *testing.T) {
	for m := granular.Granular; m < granular.NumModes; m++ {
		t.Run(m.String(), func(t *testing.T) {
			h := newChain(t)
			require.True(t, h.Set("granular:mode", port.IntValue(int64(m))))
			require.True(t, h.Set("granular:drywet", port.FloatValue(1)))
			require.True(t, h.Set("granular:density", port.FloatValue(0.8)))

			out := make([]float32, 48000)
			h.Process(out)
			testutil.AssertNoNaNOrInf(t, out)
			testutil.AssertBounded(t, out, 6)
			assert.Greater(t, testutil.RMS(out[36000:]), 0.01)
		})
	}
}

func TestDryPassesInput(t *testing.T) {
	h := newChain(t)
	require.True(t, h.Set("granular:drywet", port.FloatValue(0)))
	require.True(t, h.Set("wavetable:frequency", port.FloatValue(300)))

	out := make([]float32, 24000)
	h.Process(out)
	assert.InDelta(t, 300, testutil.DominantFrequency(out[12000:], 48000), 5)
}

func TestControls(t *testing.T) {
	p := New()
	assert.True(t, p.SetPortValue("pitch", port.FloatValue(40)))
	v, _ := p.PortValue("pitch")
	assert.Equal(t, port.FloatValue(24), v)

	assert.True(t, p.SetPortValue("freeze", port.BoolValue(true)))
	v, _ = p.PortValue("freeze")
	assert.Equal(t, port.BoolValue(true), v)

	assert.False(t, p.SetPortValue("drywet", port.FloatValue(2)))
	assert.False(t, p.SetPortValue("mode", port.IntValue(3)))
}

func TestFreezeAndTriggerReachEngine(t *testing.T) {
	h := newChain(t)
	p, ok := h.Plugin(URI)
	require.True(t, ok)
	g := p.(*Plugin).unit.proc

	require.True(t, h.Set("granular:freeze", port.BoolValue(true)))
	require.True(t, h.Set("granular:density", port.FloatValue(0)))
	require.True(t, h.Set("granular:trigger", port.BoolValue(true)))
	out := make([]float32, 256)
	h.Process(out)
	assert.True(t, g.Frozen())
	assert.Positive(t, g.ActiveGrains())
}
