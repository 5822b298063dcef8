package scattering

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReadReferencePattern(t *testing.T) {
	t.Run("total only with header", func(t *testing.T) {
		rp, err := ReadReferencePattern(strings.NewReader("q,I_q\n0,100\n# comment\n1.5, 80.25\n"))
		require.NoError(t, err)
		assert.Equal(t, []float64{0, 1.5}, rp.Q)
		assert.Equal(t, []float64{100, 80.25}, rp.Total)
		assert.Nil(t, rp.Elastic)
		assert.Nil(t, rp.Inelastic)
	})

	t.Run("four columns without header", func(t *testing.T) {
		rp, err := ReadReferencePattern(strings.NewReader("0,100,100,0\n2,50,45,5\n"))
		require.NoError(t, err)
		assert.Equal(t, []float64{0, 2}, rp.Q)
		assert.Equal(t, []float64{100, 45}, rp.Elastic)
		assert.Equal(t, []float64{0, 5}, rp.Inelastic)
	})

	bad := map[string]string{
		"empty":         "",
		"header only":   "q,I_q\n",
		"three columns": "0,1,2\n",
		"ragged":        "0,1\n1,2,3,4\n",
		"non-numeric":   "q,I_q\n0,abc\n",
	}
	for name, src := range bad {
		t.Run(name, func(t *testing.T) {
			_, err := ReadReferencePattern(strings.NewReader(src))
			assert.Error(t, err)
		})
	}
}

func TestLoadReferencePattern(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ref.csv")
	require.NoError(t, os.WriteFile(path, []byte("q,I_q,I_q_elastic,I_q_inelastic\n1,3,2,1\n"), 0644))

	rp, err := LoadReferencePattern(path)
	require.NoError(t, err)
	assert.Equal(t, []float64{3}, rp.Total)

	_, err = LoadReferencePattern(filepath.Join(t.TempDir(), "missing.csv"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}
