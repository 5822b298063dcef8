package scattering

import (
	"fmt"
	"math"
	"slices"
	"sort"

	"gonum.org/v1/gonum/mat"
)

// Spline is an interpolating piecewise polynomial through a set of knots. Cubic
// splines use not-a-knot end conditions. Outside the knot range the end
// segments' polynomials are continued, so Predict extrapolates rather than clamps.
type Spline struct {
	x, y []float64
	m    []float64 // second derivative at each knot; all zero for a linear spline
}

// NewSpline fits a spline of the given degree (1 or 3) through the points
// (xs[i], ys[i]). The points need not be sorted but their x values must be
// distinct. With three points a cubic fit reduces to the interpolating
// parabola, with two to a line.
func NewSpline(xs, ys []float64, degree int) (*Spline, error) {
	if degree != 1 && degree != 3 {
		return nil, fmt.Errorf("spline degree %d not supported, want 1 or 3", degree)
	}
	if len(xs) != len(ys) {
		return nil, &DimensionError{What: "spline y values", Got: len(ys), Want: len(xs)}
	}
	n := len(xs)
	if n < 2 {
		return nil, &DegenerateInputError{Points: n, Reason: "need at least 2 points"}
	}

	idx := make([]int, n)
	for i := range idx {
		idx[i] = i
	}
	sort.Slice(idx, func(a, b int) bool { return xs[idx[a]] < xs[idx[b]] })

	s := &Spline{x: make([]float64, n), y: make([]float64, n), m: make([]float64, n)}
	for i, k := range idx {
		s.x[i], s.y[i] = xs[k], ys[k]
		if math.IsNaN(s.x[i]) || math.IsInf(s.x[i], 0) {
			return nil, &DegenerateInputError{Points: n, Reason: fmt.Sprintf("x value %v is not finite", s.x[i])}
		}
	}
	for i := 1; i < n; i++ {
		if s.x[i] == s.x[i-1] {
			return nil, &DegenerateInputError{Points: n, Reason: fmt.Sprintf("duplicate x value %v", s.x[i])}
		}
	}

	if degree == 3 && n > 2 {
		if err := s.solveSecondDerivatives(); err != nil {
			return nil, err
		}
	}
	return s, nil
}

// solveSecondDerivatives fills s.m from the continuity equations at the
// interior knots plus one end condition at each side.
func (s *Spline) solveSecondDerivatives() error {
	n := len(s.x)
	h := make([]float64, n-1)
	for i := range h {
		h[i] = s.x[i+1] - s.x[i]
	}

	a := mat.NewDense(n, n, nil)
	b := mat.NewVecDense(n, nil)
	for i := 1; i < n-1; i++ {
		a.Set(i, i-1, h[i-1])
		a.Set(i, i, 2*(h[i-1]+h[i]))
		a.Set(i, i+1, h[i])
		b.SetVec(i, 6*((s.y[i+1]-s.y[i])/h[i]-(s.y[i]-s.y[i-1])/h[i-1]))
	}

	if n == 3 {
		// Single parabola: constant second derivative.
		a.Set(0, 0, 1)
		a.Set(0, 1, -1)
		a.Set(2, 1, -1)
		a.Set(2, 2, 1)
	} else {
		// Not-a-knot: the third derivative is continuous at x[1] and x[n-2].
		a.Set(0, 0, h[1])
		a.Set(0, 1, -(h[0] + h[1]))
		a.Set(0, 2, h[0])
		a.Set(n-1, n-3, h[n-2])
		a.Set(n-1, n-2, -(h[n-3] + h[n-2]))
		a.Set(n-1, n-1, h[n-3])
	}

	var m mat.VecDense
	if err := m.SolveVec(a, b); err != nil {
		return &DegenerateInputError{Points: n, Reason: err.Error()}
	}
	for i := range s.m {
		s.m[i] = m.AtVec(i)
	}
	return nil
}

// Knots returns copies of the sorted knot coordinates.
func (s *Spline) Knots() (x, y []float64) {
	return slices.Clone(s.x), slices.Clone(s.y)
}

// Predict evaluates the spline at x.
func (s *Spline) Predict(x float64) float64 {
	i := sort.SearchFloat64s(s.x, x) - 1
	if i < 0 {
		i = 0
	}
	if i > len(s.x)-2 {
		i = len(s.x) - 2
	}

	x0, x1 := s.x[i], s.x[i+1]
	h := x1 - x0
	dl, dr := x1-x, x-x0
	return s.m[i]*dl*dl*dl/(6*h) + s.m[i+1]*dr*dr*dr/(6*h) +
		(s.y[i]/h-s.m[i]*h/6)*dl + (s.y[i+1]/h-s.m[i+1]*h/6)*dr
}

// PredictAll evaluates the spline at every x.
func (s *Spline) PredictAll(xs []float64) []float64 {
	out := make([]float64, len(xs))
	for k, x := range xs {
		out[k] = s.Predict(x)
	}
	return out
}
