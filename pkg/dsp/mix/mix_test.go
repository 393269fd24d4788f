package mix

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDryWet(t *testing.T) {
	assert.Equal(t, float32(1), DryWet(1, 3, 0))
	assert.Equal(t, float32(3), DryWet(1, 3, 1))
	assert.Equal(t, float32(2), DryWet(1, 3, 0.5))
}
