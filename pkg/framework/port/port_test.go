package port

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValueTags(t *testing.T) {
	f := FloatValue(0.25)
	got, ok := f.Float()
	assert.True(t, ok)
	assert.Equal(t, 0.25, got)
	_, ok = f.Int()
	assert.False(t, ok)

	i := IntValue(3)
	n, ok := i.Int()
	assert.True(t, ok)
	assert.Equal(t, int64(3), n)
	assert.Equal(t, 3.0, i.Number())

	b := BoolValue(true)
	bv, ok := b.Bool()
	assert.True(t, ok)
	assert.True(t, bv)
	assert.Equal(t, 1.0, b.Number())

	var zero Value
	assert.Equal(t, Float, zero.Type())
}

func TestFromNumber(t *testing.T) {
	assert.Equal(t, IntValue(2), FromNumber(Int, 1.6))
	assert.Equal(t, BoolValue(false), FromNumber(Bool, 0.2))
	assert.Equal(t, FloatValue(0.7), FromNumber(Float, 0.7))
}

func TestAccepts(t *testing.T) {
	p := Port{Symbol: "cutoff", Kind: Control, Type: Float}
	assert.True(t, p.Accepts(FloatValue(1)))
	assert.False(t, p.Accepts(IntValue(1)))

	audio := Port{Symbol: "out", Kind: AudioOutput}
	assert.False(t, audio.Accepts(FloatValue(1)))
	assert.Equal(t, "audio-out", audio.Kind.String())
}
