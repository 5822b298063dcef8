package store

import (
	"database/sql"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bob-anderson-ok/IAMscattering/scattering"
)

func TestStoreRoundTrip(t *testing.T) {
	s, err := Open(filepath.Join(t.TempDir(), "results.db"))
	require.NoError(t, err)
	defer s.Close()

	runID, err := s.StartRun("water test", "inverse_angstrom", 3)
	require.NoError(t, err)

	p := &scattering.Pattern{
		Q:         []float64{0, 1.5, 3},
		Elastic:   []float64{99.98, 70.1, 30.25},
		Inelastic: []float64{0, 2.5, 6.75},
		Total:     []float64{99.98, 72.6, 37},
	}
	id, err := s.RecordPattern(runID, "water.xyz", 3, p)
	require.NoError(t, err)

	_, err = s.RecordPattern(runID, "ammonia.xyz", 4, p)
	require.NoError(t, err)

	recs, err := s.Patterns(runID)
	require.NoError(t, err)
	require.Len(t, recs, 2)
	assert.Equal(t, PatternRecord{ID: id, RunID: runID, Source: "water.xyz", AtomCount: 3}, recs[0])
	assert.Equal(t, "ammonia.xyz", recs[1].Source)

	got, err := s.LoadPattern(id)
	require.NoError(t, err)
	assert.Equal(t, p, got)

	_, err = s.LoadPattern(id + 100)
	assert.ErrorIs(t, err, sql.ErrNoRows)
}

func TestStoreReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "results.db")

	s, err := Open(path)
	require.NoError(t, err)
	runID, err := s.StartRun("", "atomic_units", 1)
	require.NoError(t, err)
	require.NoError(t, s.Close())

	s, err = Open(path)
	require.NoError(t, err)
	defer s.Close()

	next, err := s.StartRun("second", "atomic_units", 1)
	require.NoError(t, err)
	assert.Greater(t, next, runID)

	recs, err := s.Patterns(runID)
	require.NoError(t, err)
	assert.Empty(t, recs)
}
