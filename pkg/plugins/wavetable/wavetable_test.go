package wavetable

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/justyntemme/synthgraph/internal/testutil"
	"github.com/justyntemme/synthgraph/pkg/backend/native"
	"github.com/justyntemme/synthgraph/pkg/framework/engine"
	"github.com/justyntemme/synthgraph/pkg/framework/host"
	"github.com/justyntemme/synthgraph/pkg/framework/port"
)

const sampleRate = 48000

func newHost(t *testing.T, output string) *host.Host {
	t.Helper()
	h, err := host.New(engine.Config{SampleRate: sampleRate, BlockSize: 128}, native.NewFactory())
	require.NoError(t, err)
	require.NoError(t, h.Add(New()))
	require.NoError(t, h.ConnectMaster(URI, output))
	require.NoError(t, h.Start())
	return h
}

func TestRendersAtFrequency(t *testing.T) {
	h := newHost(t, "out")
	require.True(t, h.Set("wavetable:frequency", port.FloatValue(440)))
	require.True(t, h.Set("wavetable:level", port.FloatValue(0.5)))

	out := make([]float32, sampleRate/2)
	h.Process(out)
	testutil.AssertNoNaNOrInf(t, out)
	assert.InDelta(t, 440, testutil.DominantFrequency(out[sampleRate/4:], sampleRate), 5)
}

func TestAuxIsCrushedCopy(t *testing.T) {
	h := newHost(t, "aux")
	require.True(t, h.Set("wavetable:crush", port.FloatValue(1)))

	out := make([]float32, 4096)
	h.Process(out)
	testutil.AssertNoNaNOrInf(t, out)
	peak, _ := testutil.Peak(out)
	assert.Greater(t, peak, 0.05)

	// Full crush quantizes to 2 bits, so only a handful of levels remain.
	levels := map[float32]struct{}{}
	for _, v := range out[1024:] {
		levels[v] = struct{}{}
	}
	assert.LessOrEqual(t, len(levels), 8)
}

func TestAxesClampAndMorph(t *testing.T) {
	h := newHost(t, "out")
	require.True(t, h.Set("wavetable:x", port.FloatValue(100)))
	v, ok := h.Get("wavetable:x")
	require.True(t, ok)
	assert.Equal(t, port.FloatValue(7), v)

	out := make([]float32, 2048)
	for i := 0; i < 8; i++ {
		require.True(t, h.Set("wavetable:z", port.FloatValue(float64(i))))
		h.Process(out)
		testutil.AssertNoNaNOrInf(t, out)
		testutil.AssertBounded(t, out, 2)
	}
}
