package plugins

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCatalog(t *testing.T) {
	uris := URIs()
	assert.Len(t, uris, 10)
	assert.IsIncreasing(t, uris)

	for _, uri := range uris {
		t.Run(uri, func(t *testing.T) {
			p, err := New(uri)
			require.NoError(t, err)
			assert.Equal(t, uri, p.Info().URI)
			assert.NotEmpty(t, p.Ports())

			// Every call returns a fresh instance.
			q, err := New(uri)
			require.NoError(t, err)
			assert.NotSame(t, p, q)
		})
	}
}

func TestUnknownURI(t *testing.T) {
	_, err := New("theremin")
	assert.ErrorIs(t, err, ErrUnknownURI)
}
