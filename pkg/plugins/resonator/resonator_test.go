package resonator

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/justyntemme/synthgraph/internal/testutil"
	"github.com/justyntemme/synthgraph/pkg/backend/native"
	"github.com/justyntemme/synthgraph/pkg/framework/engine"
	"github.com/justyntemme/synthgraph/pkg/framework/host"
	"github.com/justyntemme/synthgraph/pkg/framework/port"
	"github.com/justyntemme/synthgraph/pkg/plugins/drums"
	"github.com/justyntemme/synthgraph/pkg/synth/resonator"
)

func newHost(t *testing.T) *host.Host {
	t.Helper()
	h, err := host.New(engine.Config{SampleRate: 48000, BlockSize: 128}, native.NewFactory())
	require.NoError(t, err)
	return h
}

func TestStrikeRings(t *testing.T) {
	for m := resonator.Modal; m < resonator.NumModes; m++ {
		t.Run(m.String(), func(t *testing.T) {
			h := newHost(t)
			require.NoError(t, h.Add(New()))
			require.NoError(t, h.ConnectMaster(URI, "out"))
			require.NoError(t, h.Start())

			require.True(t, h.Set("resonator:mode", port.IntValue(int64(m))))
			require.True(t, h.Set("resonator:frequency", port.FloatValue(196)))
			require.True(t, h.Set("resonator:strike", port.BoolValue(true)))

			out := make([]float32, 12000)
			h.Process(out)
			testutil.AssertNoNaNOrInf(t, out)
			testutil.AssertBounded(t, out, 1.5)
			peak, _ := testutil.Peak(out)
			assert.Greater(t, peak, 0.01)
			assert.Greater(t, h.EstimatedLoad(), 0.0)
		})
	}
}

func TestDrumExcitesResonator(t *testing.T) {
	h := newHost(t)
	kick := drums.NewKick()
	require.NoError(t, h.Add(kick))
	require.NoError(t, h.Add(New()))
	require.NoError(t, h.Connect(drums.KickURI, "out", URI, "in"))
	require.NoError(t, h.ConnectMaster(URI, "out"))
	require.NoError(t, h.Start())

	out := make([]float32, 4096)
	h.Process(out)
	testutil.AssertSilent(t, out)

	require.True(t, h.Set("kick:trigger", port.BoolValue(true)))
	h.Process(out)
	peak, _ := testutil.Peak(out)
	assert.Greater(t, peak, 0.0)
	testutil.AssertNoNaNOrInf(t, out)
}

func TestFrequencyClamps(t *testing.T) {
	p := New()
	assert.True(t, p.SetPortValue("frequency", port.FloatValue(1e6)))
	v, _ := p.PortValue("frequency")
	assert.Equal(t, port.FloatValue(resonator.MaxFrequency), v)

	assert.False(t, p.SetPortValue("mode", port.IntValue(7)))
	assert.False(t, p.SetPortValue("mode", port.FloatValue(1)))
}
