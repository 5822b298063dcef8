package main

import (
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bob-anderson-ok/IAMscattering/scattering"
)

func samplePattern() *scattering.Pattern {
	return &scattering.Pattern{
		Q:         []float64{0, 1.8897261246257702, 3.7794522492515404},
		Elastic:   []float64{100, 81.5, 48.25},
		Inelastic: []float64{0, 1.5, 4.125},
		Total:     []float64{100, 83, 52.375},
	}
}

func TestOutputName(t *testing.T) {
	assert.Equal(t, filepath.Join("out", "water.csv"), outputName("out", filepath.Join("in", "water.xyz"), ".csv"))
	assert.Equal(t, filepath.Join("out", "mol.v2.png"), outputName("out", "mol.v2.xyz", ".png"))
}

func TestCheckOutputNames(t *testing.T) {
	assert.NoError(t, checkOutputNames([]string{"a/water.xyz", "a/water2.xyz", "b/ethanol.xyz"}))

	err := checkOutputNames([]string{"a/mol.xyz", "b/water.xyz", "b/mol.xyz"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "a/mol.xyz")
	assert.Contains(t, err.Error(), "b/mol.xyz")

	assert.Error(t, checkOutputNames([]string{"mol.xyz", "mol.txt"}))
}

func TestWritePatternCSV(t *testing.T) {
	path := filepath.Join(t.TempDir(), "water.csv")
	p := samplePattern()
	q := []float64{0, 1, 2} // atomic units

	require.NoError(t, writePatternCSV(path, q, p))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "q,I_q,I_q_elastic,I_q_inelastic\n"+
		"0,100,100,0\n"+
		"1,83,81.5,1.5\n"+
		"2,52.375,48.25,4.125\n", string(data))

	// the written file reads back as a reference pattern
	ref, err := scattering.LoadReferencePattern(path)
	require.NoError(t, err)
	assert.Equal(t, q, ref.Q)
	assert.Equal(t, p.Total, ref.Total)
	assert.Equal(t, p.Elastic, ref.Elastic)
	assert.Equal(t, p.Inelastic, ref.Inelastic)

	err = writePatternCSV(path, q[:2], p)
	assert.ErrorIs(t, err, scattering.ErrDimension)
}

func TestMakePatternPlot(t *testing.T) {
	p := samplePattern()
	ref := &scattering.ReferencePattern{Q: []float64{0, 1, 2}, Total: []float64{99, 84, 50}}

	img, err := makePatternPlot("water", "atomic_units", []float64{0, 1, 2}, p, ref, 600, 300)
	require.NoError(t, err)
	assert.Equal(t, 600, img.Bounds().Dx())
	assert.Equal(t, 300, img.Bounds().Dy())

	path := filepath.Join(t.TempDir(), "water.png")
	require.NoError(t, savePNG(path, img))

	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()
	_, err = png.Decode(f)
	assert.NoError(t, err)

	_, err = makePatternPlot("empty", "atomic_units", nil, &scattering.Pattern{}, nil, 600, 300)
	assert.Error(t, err)
}

func TestCurveSortsByQ(t *testing.T) {
	pts := curve([]float64{2, 0, 1, 0.5}, []float64{20, 0, 10, 5})
	require.Len(t, pts, 4)
	for i, want := range []float64{0, 0.5, 1, 2} {
		assert.Equal(t, want, pts[i].X)
		assert.Equal(t, 10*want, pts[i].Y)
	}
}

func TestMakePatternPlotUnsortedQ(t *testing.T) {
	p := samplePattern()
	img, err := makePatternPlot("water", "inverse_angstrom", []float64{2, 0, 1}, p, nil, 400, 200)
	require.NoError(t, err)
	assert.Equal(t, 400, img.Bounds().Dx())
}

func TestStepTicks(t *testing.T) {
	ticks := StepTicks{Step: 0.1, Format: "%.4g"}.Ticks(0, 0.35)
	require.Len(t, ticks, 4)
	assert.Equal(t, "0.3", ticks[3].Label)

	assert.Equal(t, 1.0, niceStep(0.7))
	assert.Equal(t, 2.0, niceStep(1.3))
	assert.Equal(t, 5.0, niceStep(4.2))
	assert.Equal(t, 10.0, niceStep(6))
	assert.Equal(t, 0.05, niceStep(0.031))
}
