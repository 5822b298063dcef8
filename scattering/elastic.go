package scattering

import (
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

// FormFactor evaluates the four-Gaussian approximation
//
//	f(q) = a1 exp(-b1 s²) + a2 exp(-b2 s²) + a3 exp(-b3 s²) + a4 exp(-b4 s²) + c,  s = q/4π
//
// at every q. coeffs is ordered a1..a4, b1..b4, c.
func FormFactor(coeffs [9]float64, q []float64) []float64 {
	f := make([]float64, len(q))
	for k, qk := range q {
		s := qk / (4 * math.Pi)
		s2 := s * s
		f[k] = coeffs[0]*math.Exp(-coeffs[4]*s2) +
			coeffs[1]*math.Exp(-coeffs[5]*s2) +
			coeffs[2]*math.Exp(-coeffs[6]*s2) +
			coeffs[3]*math.Exp(-coeffs[7]*s2) +
			coeffs[8]
	}
	return f
}

// sinc is the normalized sinc function sin(πx)/(πx), equal to 1 at x = 0.
func sinc(x float64) float64 {
	if x == 0 {
		return 1
	}
	px := math.Pi * x
	return math.Sin(px) / px
}

// formFactorMatrix returns one row of f(q) per atom, or nil when there are no
// atoms or no q values. Atoms of the same element share a single evaluation.
func formFactorMatrix(t *FormFactorTable, atomicNumbers []int, q []float64) (*mat.Dense, error) {
	rows := make([][]float64, len(atomicNumbers))
	byElement := make(map[int][]float64)
	for i, z := range atomicNumbers {
		f, ok := byElement[z]
		if !ok {
			coeffs, err := t.Coefficients(z)
			if err != nil {
				return nil, err
			}
			f = FormFactor(coeffs, q)
			byElement[z] = f
		}
		rows[i] = f
	}
	if len(rows) == 0 || len(q) == 0 {
		return nil, nil
	}

	ff := mat.NewDense(len(rows), len(q), nil)
	for i, f := range rows {
		ff.SetRow(i, f)
	}
	return ff, nil
}

// distanceMatrix returns the symmetric matrix of interatomic distances.
func distanceMatrix(coords [][3]float64) *mat.SymDense {
	n := len(coords)
	d := mat.NewSymDense(n, nil)
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			d.SetSym(i, j, floats.Distance(coords[i][:], coords[j][:], 2))
		}
	}
	return d
}

// ElasticPattern computes the coherent (Debye) intensity of the atoms at q:
//
//	I(q) = Σ_i f_i(q)² + Σ_{i<j} 2 f_i(q) f_j(q) sinc(q r_ij / π)
//
// Coincident atoms are allowed; they interfere fully since sinc(0) = 1.
func ElasticPattern(t *FormFactorTable, atomicNumbers []int, coords [][3]float64, q []float64) ([]float64, error) {
	if len(coords) != len(atomicNumbers) {
		return nil, &DimensionError{What: "coordinates", Got: len(coords), Want: len(atomicNumbers)}
	}

	ff, err := formFactorMatrix(t, atomicNumbers, q)
	if err != nil {
		return nil, err
	}

	n := len(atomicNumbers)
	pattern := make([]float64, len(q))
	if ff == nil {
		return pattern, nil
	}

	// Atomic (self-scattering) term.
	sq := make([]float64, len(q))
	for i := 0; i < n; i++ {
		fi := ff.RawRowView(i)
		floats.MulTo(sq, fi, fi)
		floats.Add(pattern, sq)
	}
	if n < 2 {
		return pattern, nil
	}

	// Molecular (interference) term, one upper-triangle block per atom i:
	// S[j,k] = f_j(q_k) sinc(q_k r_ij/π) for j > i, then pattern += 2 f_i ∘ Sᵀ1.
	dist := distanceMatrix(coords)
	nq := len(q)
	buf := make([]float64, (n-1)*nq)
	ones := make([]float64, n-1)
	for j := range ones {
		ones[j] = 1
	}
	w := mat.NewVecDense(nq, nil)
	for i := 0; i < n-1; i++ {
		m := n - 1 - i
		s := mat.NewDense(m, nq, buf[:m*nq])
		for j := i + 1; j < n; j++ {
			r := dist.At(i, j)
			row := s.RawRowView(j - i - 1)
			for k, qk := range q {
				row[k] = sinc(qk * r / math.Pi)
			}
		}
		s.MulElem(s, ff.Slice(i+1, n, 0, nq))
		w.MulVec(s.T(), mat.NewVecDense(m, ones[:m]))

		wi := w.RawVector().Data
		floats.Mul(wi, ff.RawRowView(i))
		floats.AddScaled(pattern, 2, wi)
	}

	return pattern, nil
}
