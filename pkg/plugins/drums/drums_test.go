package drums

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/justyntemme/synthgraph/internal/testutil"
	"github.com/justyntemme/synthgraph/pkg/backend/native"
	"github.com/justyntemme/synthgraph/pkg/framework/engine"
	"github.com/justyntemme/synthgraph/pkg/framework/host"
	"github.com/justyntemme/synthgraph/pkg/framework/plugin"
	"github.com/justyntemme/synthgraph/pkg/framework/port"
	"github.com/justyntemme/synthgraph/pkg/synth/drum"
)

const sampleRate = 44100

func newKit(t *testing.T, plugins ...*Plugin) *host.Host {
	t.Helper()
	h, err := host.New(engine.Config{SampleRate: sampleRate, BlockSize: 256}, native.NewFactory())
	require.NoError(t, err)
	for _, p := range plugins {
		require.NoError(t, h.Add(p))
		require.NoError(t, h.ConnectMaster(p.URI(), "out"))
	}
	require.NoError(t, h.Start())
	return h
}

func TestKickScenario(t *testing.T) {
	h := newKit(t, NewKick())
	require.True(t, h.Set("kick:frequency", port.FloatValue(0.3)))
	require.True(t, h.Set("kick:tone", port.FloatValue(0.5)))
	require.True(t, h.Set("kick:decay", port.FloatValue(0.5)))
	require.True(t, h.Set("kick:accent", port.FloatValue(1)))
	require.True(t, h.Set("kick:trigger", port.BoolValue(true)))

	tau := drum.DecayTime(drum.Kick, 0.5)
	out := make([]float32, int(4*tau*sampleRate))
	h.Process(out)

	peak, at := testutil.Peak(out)
	assert.Less(t, at, 50)
	assert.Greater(t, peak, 0.3)
	testutil.AssertBounded(t, out, 1)

	settle := int(3 * tau * sampleRate)
	tail, _ := testutil.Peak(out[settle:])
	assert.Less(t, tail, 0.1*peak)
}

func TestPortsPerKind(t *testing.T) {
	kick := NewKick()
	_, ok := kick.PortValue("snappy")
	assert.False(t, ok, "the kick has no noise")

	snare := NewSnare()
	v, ok := snare.PortValue("snappy")
	require.True(t, ok)
	assert.Equal(t, port.FloatValue(drum.DefaultParams().Snappy), v)

	hat := NewHiHat()
	assert.Equal(t, HiHatURI, hat.URI())
	assert.Equal(t, drum.HiHat, hat.Kind())
	assert.Equal(t, plugin.CategoryDrum, hat.Info().Category)
}

func TestControlsRejectBadValues(t *testing.T) {
	p := NewSnare()
	assert.False(t, p.SetPortValue("decay", port.FloatValue(1.5)))
	assert.False(t, p.SetPortValue("decay", port.IntValue(1)))
	assert.False(t, p.SetPortValue("missing", port.FloatValue(0.5)))
	assert.True(t, p.SetPortValue("decay", port.FloatValue(0.25)))
	v, _ := p.PortValue("decay")
	assert.Equal(t, port.FloatValue(0.25), v)
}

func TestSilentUntilTriggered(t *testing.T) {
	h := newKit(t, NewKick(), NewSnare(), NewHiHat())
	out := make([]float32, 2048)
	h.Process(out)
	testutil.AssertSilent(t, out)
	assert.Zero(t, h.EstimatedLoad())

	require.True(t, h.Set("snare:trigger", port.BoolValue(true)))
	require.True(t, h.Set("hihat:trigger", port.BoolValue(true)))
	h.Process(out[:256])
	peak, _ := testutil.Peak(out[:256])
	assert.Greater(t, peak, 0.05)
	assert.Greater(t, h.EstimatedLoad(), 0.0)
}

func TestInitializeWithoutEngine(t *testing.T) {
	err := NewKick().Initialize(nil)
	assert.ErrorIs(t, err, plugin.ErrNoEngine)
}
