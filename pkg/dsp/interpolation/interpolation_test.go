package interpolation

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHermite(t *testing.T) {
	t.Run("Endpoints", func(t *testing.T) {
		assert.Equal(t, 2.0, Hermite(1, 2, 3, 4, 0))
		assert.InDelta(t, 3.0, Hermite(1, 2, 3, 4, 1), 1e-12)
	})

	t.Run("ExactOnLines", func(t *testing.T) {
		for _, frac := range []float64{0.1, 0.25, 0.5, 0.9} {
			assert.InDelta(t, 2+frac, Hermite(1, 2, 3, 4, frac), 1e-12)
		}
	})

	t.Run("WrapMatchesSine", func(t *testing.T) {
		table := make([]float32, 256)
		for i := range table {
			table[i] = float32(math.Sin(2 * math.Pi * float64(i) / 256))
		}
		for _, pos := range []float64{0, 10.3, 127.5, 255.7} {
			want := math.Sin(2 * math.Pi * pos / 256)
			assert.InDelta(t, want, HermiteWrap(table, pos), 1e-4, "pos %v", pos)
		}
		assert.Equal(t, 0.0, HermiteWrap(nil, 3))
	})
}

func TestLinear(t *testing.T) {
	assert.Equal(t, 1.5, Linear(1, 2, 0.5))
}

func TestAllPassUnityMagnitude(t *testing.T) {
	var ap AllPass
	ap.SetDelay(0.5)
	// Energy is preserved for a long impulse response
	var energy float64
	for i := 0; i < 4096; i++ {
		x := 0.0
		if i == 0 {
			x = 1
		}
		y := ap.Process(x)
		energy += y * y
	}
	assert.InDelta(t, 1.0, energy, 1e-6)
}
