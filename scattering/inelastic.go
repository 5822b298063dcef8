package scattering

// InelasticPattern computes the incoherent (Compton) intensity of the atoms at q
// by summing the table rows of all atoms and interpolating the sum with a spline
// of the given degree. Outside the table grid the spline is extrapolated.
func InelasticPattern(t *ComptonTable, atomicNumbers []int, q []float64, degree int) ([]float64, error) {
	total := make([]float64, len(t.grid))
	for _, z := range atomicNumbers {
		if z < 1 || z > MaxAtomicNumber || t.rows[z-1] == nil {
			return nil, &OutOfRangeError{AtomicNumber: z, Table: "Compton"}
		}
		for k, v := range t.rows[z-1] {
			total[k] += v
		}
	}

	sp, err := NewSpline(t.grid, total, degree)
	if err != nil {
		return nil, err
	}
	return sp.PredictAll(q), nil
}
