package main

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/justyntemme/synthgraph/internal/testutil"
	"github.com/justyntemme/synthgraph/pkg/backend/native"
	"github.com/justyntemme/synthgraph/pkg/driver"
	"github.com/justyntemme/synthgraph/pkg/framework/debug"
	"github.com/justyntemme/synthgraph/pkg/plugins/fx"
)

func TestDefaultPatchPlays(t *testing.T) {
	f, err := loadPatch("")
	require.NoError(t, err)
	h, err := f.Build(native.NewFactory())
	require.NoError(t, err)
	require.NoError(t, h.Start())

	for _, k := range []byte("kshk5") {
		a, ok := keyAction(k)
		require.True(t, ok)
		require.True(t, h.Set(a.address, a.value), "%s", a.address)
	}
	out := make([]float32, 22050)
	h.Process(out)
	testutil.AssertNoNaNOrInf(t, out)
	testutil.AssertBounded(t, out, 1)
	peak, _ := testutil.Peak(out)
	assert.Greater(t, peak, 0.1)

	p, ok := h.Plugin(fx.MasterURI)
	require.True(t, ok)
	master := p.(*fx.Master)
	assert.InDelta(t, peak, master.Hold(), 1e-6)

	var buf bytes.Buffer
	logStats(debug.New(&buf, "", 0), h, master)
	assert.Contains(t, buf.String(), "peak ")
	assert.NotContains(t, buf.String(), "hold -120.0 dBFS")
}

func TestDBFS(t *testing.T) {
	assert.Equal(t, -120.0, dbfs(0))
	assert.InDelta(t, 0, dbfs(1), 1e-9)
	assert.InDelta(t, -6.02, dbfs(0.5), 0.01)
}

func TestOpenDriver(t *testing.T) {
	d, err := openDriver("clock", &silence{}, driver.Options{SampleRate: 8000, Frames: 80})
	require.NoError(t, err)
	require.NoError(t, d.Start())
	require.NoError(t, d.Close())

	_, err = openDriver("alsa", &silence{}, driver.Options{})
	assert.Error(t, err)
}

type silence struct{}

func (silence) Process(dst []float32) { clear(dst) }
