// Package covar provides periodic seasonal covariate tables for transmission models.
package covar

import (
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/interp"
)

// gridPointsPerUnit is the resolution of the precomputed seasonal basis table.
const gridPointsPerUnit = 50

// Table is an immutable covariate lookup table. It maps a simulation time to
// a vector of covariate values by per-coordinate linear interpolation over a
// precomputed grid. Queries outside the grid clamp to the nearest grid time;
// for periodic tables the query time is first wrapped modulo the period.
type Table struct {
	dim    int
	period float64 // 0 means non-periodic
	interp []interp.PiecewiseLinear
}

// Seasonal builds a periodic covariate table from a cubic B-spline basis with
// nbasis functions over the given period. The basis functions form a
// partition of unity, so a constant transmission rate is exactly
// representable by equal coefficients.
func Seasonal(nbasis int, period float64) (*Table, error) {
	if nbasis < 4 {
		return nil, errors.New("covar: cubic periodic basis requires at least 4 functions")
	}
	if period <= 0 {
		return nil, errors.New("covar: period must be positive")
	}

	n := int(period*gridPointsPerUnit) + 1
	times := make([]float64, n)
	values := make([][]float64, n)
	for i := range times {
		t := period * float64(i) / float64(n-1)
		times[i] = t
		values[i] = basisEval(t, nbasis, period)
	}

	table, err := NewTable(times, values)
	if err != nil {
		return nil, err
	}
	table.period = period
	return table, nil
}

// NewTable builds a non-periodic covariate table from precomputed
// (time, vector) pairs. Times must be strictly increasing and every vector
// must have the same dimension.
func NewTable(times []float64, values [][]float64) (*Table, error) {
	if len(times) < 2 {
		return nil, errors.New("covar: table needs at least two grid points")
	}
	if len(times) != len(values) {
		return nil, errors.New("covar: times and values must have the same length")
	}

	dim := len(values[0])
	if dim == 0 {
		return nil, errors.New("covar: empty covariate vectors")
	}
	for i, v := range values {
		if len(v) != dim {
			return nil, fmt.Errorf("covar: vector %d has dimension %d, want %d", i, len(v), dim)
		}
	}

	t := &Table{dim: dim, interp: make([]interp.PiecewiseLinear, dim)}
	col := make([]float64, len(times))
	for k := 0; k < dim; k++ {
		for i := range values {
			col[i] = values[i][k]
		}
		if err := t.interp[k].Fit(times, col); err != nil {
			return nil, fmt.Errorf("covar: fitting coordinate %d: %w", k, err)
		}
		col = make([]float64, len(times))
	}
	return t, nil
}

// Dim returns the covariate vector dimension.
func (t *Table) Dim() int {
	return t.dim
}

// Period returns the table period, or 0 for a non-periodic table.
func (t *Table) Period() float64 {
	return t.period
}

// ValueAt returns the interpolated covariate vector at time tt.
func (t *Table) ValueAt(tt float64) []float64 {
	out := make([]float64, t.dim)
	t.ValueInto(out, tt)
	return out
}

// ValueInto fills dst with the interpolated covariate vector at time tt.
// dst must have length Dim. Called once per simulation step, so it avoids
// allocating.
func (t *Table) ValueInto(dst []float64, tt float64) {
	if t.period > 0 {
		tt = math.Mod(tt, t.period)
		if tt < 0 {
			tt += t.period
		}
	}
	// PiecewiseLinear clamps queries outside the fitted range to the
	// endpoint values, which is the wanted behavior when a trajectory
	// steps slightly past the declared grid.
	for k := 0; k < t.dim; k++ {
		dst[k] = t.interp[k].Predict(tt)
	}
}

// basisEval evaluates the nbasis periodic cubic B-spline basis functions at
// time tt. Each basis function is a shifted copy of the cardinal cubic
// B-spline on uniform knots spaced period/nbasis apart, wrapped modulo the
// period.
func basisEval(tt float64, nbasis int, period float64) []float64 {
	n := float64(nbasis)
	h := period / n

	v := math.Mod(tt/h, n)
	if v < 0 {
		v += n
	}

	out := make([]float64, nbasis)
	for j := range out {
		w := math.Mod(v-float64(j)+2*n, n)
		out[j] = bspline3(w)
	}
	return out
}

// bspline3 is the cardinal cubic B-spline with support [0, 4).
func bspline3(u float64) float64 {
	switch {
	case u < 0 || u >= 4:
		return 0
	case u < 1:
		return u * u * u / 6
	case u < 2:
		return (-3*u*u*u + 12*u*u - 12*u + 4) / 6
	case u < 3:
		return (3*u*u*u - 24*u*u + 60*u - 44) / 6
	default:
		return (4 - u) * (4 - u) * (4 - u) / 6
	}
}
