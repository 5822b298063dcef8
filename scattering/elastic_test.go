package scattering

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testTables(t *testing.T) *Tables {
	t.Helper()
	tables, err := DefaultTables()
	require.NoError(t, err)
	return tables
}

func TestSinc(t *testing.T) {
	assert.Equal(t, 1.0, sinc(0))
	assert.InDelta(t, 0.0, sinc(1), 1e-15)
	assert.InDelta(t, 2/math.Pi, sinc(0.5), 1e-15)
	assert.InDelta(t, sinc(0.3), sinc(-0.3), 1e-15)
}

func TestFormFactorAtZeroIsCoefficientSum(t *testing.T) {
	coeffs := [9]float64{1, 2, 3, 4, 10, 20, 30, 40, 0.5}
	f := FormFactor(coeffs, []float64{0, 4 * math.Pi})
	assert.InDelta(t, 10.5, f[0], 1e-12)
	want := math.Exp(-10) + 2*math.Exp(-20) + 3*math.Exp(-30) + 4*math.Exp(-40) + 0.5
	assert.InDelta(t, want, f[1], 1e-12)
}

func TestElasticSingleAtomIsFormFactorSquared(t *testing.T) {
	tables := testTables(t)
	q := []float64{0, 0.5, 1, 2.5, 7, 20}

	coeffs, err := tables.FormFactors.Coefficients(6)
	require.NoError(t, err)
	f := FormFactor(coeffs, q)

	got, err := ElasticPattern(tables.FormFactors, []int{6}, [][3]float64{{1, -2, 3}}, q)
	require.NoError(t, err)
	require.Len(t, got, len(q))
	for k := range q {
		assert.InDelta(t, f[k]*f[k], got[k], 1e-9, "q=%v", q[k])
	}
}

func TestElasticCoincidentAtoms(t *testing.T) {
	tables := testTables(t)
	q := []float64{0, 1, 3, 9}

	coeffs, err := tables.FormFactors.Coefficients(8)
	require.NoError(t, err)
	f := FormFactor(coeffs, q)

	got, err := ElasticPattern(tables.FormFactors, []int{8, 8}, [][3]float64{{0.5, 0.5, 0.5}, {0.5, 0.5, 0.5}}, q)
	require.NoError(t, err)
	for k := range q {
		assert.InDelta(t, 4*f[k]*f[k], got[k], 1e-9, "q=%v", q[k])
	}
}

func TestElasticDiatomic(t *testing.T) {
	tables := testTables(t)
	const d = 1.1
	q := []float64{0, 1, 2}

	coeffs, err := tables.FormFactors.Coefficients(7)
	require.NoError(t, err)
	f := FormFactor(coeffs, q)

	got, err := ElasticPattern(tables.FormFactors, []int{7, 7}, [][3]float64{{0, 0, 0}, {0, 0, d}}, q)
	require.NoError(t, err)

	assert.InDelta(t, 4*f[0]*f[0], got[0], 1e-9)
	for k := 1; k < len(q); k++ {
		want := 2 * f[k] * f[k] * (1 + math.Sin(q[k]*d)/(q[k]*d))
		assert.InDelta(t, want, got[k], 1e-9, "q=%v", q[k])
	}
}

func TestElasticPermutationInvariance(t *testing.T) {
	tables := testTables(t)
	q := []float64{0, 0.7, 1.9, 4.2, 11}

	zs := []int{8, 1, 1, 6}
	coords := [][3]float64{
		{0, 0, 0.1173},
		{0, 0.7572, -0.4692},
		{0, -0.7572, -0.4692},
		{1.2, 0.3, 0.9},
	}
	want, err := ElasticPattern(tables.FormFactors, zs, coords, q)
	require.NoError(t, err)

	perm := []int{3, 1, 0, 2}
	pz := make([]int, len(perm))
	pc := make([][3]float64, len(perm))
	for i, p := range perm {
		pz[i], pc[i] = zs[p], coords[p]
	}
	got, err := ElasticPattern(tables.FormFactors, pz, pc, q)
	require.NoError(t, err)
	assert.InDeltaSlice(t, want, got, 1e-9)
}

func TestElasticMatchesPairSum(t *testing.T) {
	tables := testTables(t)
	q := []float64{0, 0.4, 1.3, 2.5, 6, 13}

	zs := []int{6, 8, 1, 1, 17, 6}
	coords := [][3]float64{
		{0, 0, 0},
		{1.21, 0, 0},
		{-0.54, 0.94, 0},
		{-0.54, -0.94, 0},
		{-0.3, 0.2, 1.75},
		{0, 0, 0},
	}
	got, err := ElasticPattern(tables.FormFactors, zs, coords, q)
	require.NoError(t, err)

	f := make([][]float64, len(zs))
	for i, z := range zs {
		coeffs, err := tables.FormFactors.Coefficients(z)
		require.NoError(t, err)
		f[i] = FormFactor(coeffs, q)
	}
	for k, qk := range q {
		var want float64
		for i := range zs {
			want += f[i][k] * f[i][k]
			for j := i + 1; j < len(zs); j++ {
				dx := coords[i][0] - coords[j][0]
				dy := coords[i][1] - coords[j][1]
				dz := coords[i][2] - coords[j][2]
				r := math.Sqrt(dx*dx + dy*dy + dz*dz)
				want += 2 * f[i][k] * f[j][k] * sinc(qk*r/math.Pi)
			}
		}
		assert.InDelta(t, want, got[k], 1e-9, "q=%v", qk)
	}
}

func TestElasticErrors(t *testing.T) {
	tables := testTables(t)
	q := []float64{0, 1}

	t.Run("dimension mismatch", func(t *testing.T) {
		_, err := ElasticPattern(tables.FormFactors, []int{1, 1}, [][3]float64{{0, 0, 0}}, q)
		require.ErrorIs(t, err, ErrDimension)
		var de *DimensionError
		require.ErrorAs(t, err, &de)
		assert.Equal(t, 1, de.Got)
		assert.Equal(t, 2, de.Want)
	})

	for _, z := range []int{0, 119, 100} {
		_, err := ElasticPattern(tables.FormFactors, []int{1, z}, [][3]float64{{0, 0, 0}, {1, 0, 0}}, q)
		require.ErrorIs(t, err, ErrOutOfRange, "Z=%d", z)
		var oe *OutOfRangeError
		require.ErrorAs(t, err, &oe)
		assert.Equal(t, z, oe.AtomicNumber)
	}
}

func TestElasticEmptyGrid(t *testing.T) {
	tables := testTables(t)
	got, err := ElasticPattern(tables.FormFactors, []int{1, 1}, [][3]float64{{0, 0, 0}, {0.74, 0, 0}}, nil)
	require.NoError(t, err)
	assert.Empty(t, got)
}
