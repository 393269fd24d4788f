package main

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/go-audio/wav"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const patch = `version: 1
engine: {sample_rate: 22050, block_size: 64}
plugins: [hihat, kick]
out: ["kick:out", "hihat:out"]
cues:
  - {at: 0.1, address: "kick:trigger"}
  - {at: 0.3, address: "hihat:trigger"}
`

func writePatch(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "kit.yaml")
	require.NoError(t, os.WriteFile(path, []byte(patch), 0o644))
	return path
}

func TestRenderWritesWAV(t *testing.T) {
	for _, bits := range []int{16, 24} {
		path := writePatch(t)
		out := outputPath(path, "")
		require.NoError(t, render(context.Background(), path, out, options{seconds: 0.5, bits: bits}))

		f, err := os.Open(out)
		require.NoError(t, err)
		defer f.Close()
		dec := wav.NewDecoder(f)
		require.True(t, dec.IsValidFile())
		buf, err := dec.FullPCMBuffer()
		require.NoError(t, err)

		assert.Equal(t, 22050, buf.Format.SampleRate)
		assert.Equal(t, 1, buf.Format.NumChannels)
		assert.Equal(t, bits, int(dec.BitDepth))
		require.Len(t, buf.Data, 11025)

		// Silent until the first cue.
		lead := int(0.1 * 22050)
		for _, v := range buf.Data[:lead-64] {
			require.Zero(t, v)
		}
		peak := 0
		for _, v := range buf.Data[lead:] {
			peak = max(peak, v, -v)
		}
		assert.Greater(t, peak, 1<<(bits-4))
	}
}

func TestRenderCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	path := writePatch(t)
	err := render(ctx, path, filepath.Join(t.TempDir(), "x.wav"), options{seconds: 1, bits: 16})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestOptions(t *testing.T) {
	assert.NoError(t, options{seconds: 1, bits: 24}.validate())
	assert.ErrorIs(t, options{seconds: 0, bits: 16}.validate(), errOptions)
	assert.ErrorIs(t, options{seconds: 1, bits: 8}.validate(), errOptions)
}

func TestOutputPath(t *testing.T) {
	assert.Equal(t, filepath.Join("patches", "kit.wav"), outputPath(filepath.Join("patches", "kit.yaml"), ""))
	assert.Equal(t, filepath.Join("out", "kit.wav"), outputPath("patches/kit.yaml", "out"))
}
