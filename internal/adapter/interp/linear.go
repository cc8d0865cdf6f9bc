package interp

import (
	"fmt"
	"math"

	gonuminterp "gonum.org/v1/gonum/interp"
)

// Linear is a 1-D piecewise linear interpolant. Queries below the first or
// above the last knot return the end values.
type Linear struct {
	pl    gonuminterp.PiecewiseLinear
	x0    float64
	xn    float64
	y0    float64
	yn    float64
	first bool // single knot: constant function
}

// NewLinear fits xs (strictly increasing) to ys.
func NewLinear(xs, ys []float64) (*Linear, error) {
	if len(xs) != len(ys) {
		return nil, fmt.Errorf("x has %d values, y has %d", len(xs), len(ys))
	}
	if len(xs) == 0 {
		return nil, fmt.Errorf("no knots to interpolate")
	}
	for i := 1; i < len(xs); i++ {
		if !(xs[i] > xs[i-1]) {
			return nil, fmt.Errorf("x values must be strictly increasing (index %d)", i)
		}
	}

	l := &Linear{x0: xs[0], xn: xs[len(xs)-1], y0: ys[0], yn: ys[len(ys)-1]}
	if len(xs) == 1 {
		l.first = true
		return l, nil
	}
	if err := l.pl.Fit(xs, ys); err != nil {
		return nil, fmt.Errorf("failed to fit linear interpolant: %w", err)
	}
	return l, nil
}

// At evaluates the interpolant at x.
func (l *Linear) At(x float64) float64 {
	switch {
	case math.IsNaN(x):
		return math.NaN()
	case l.first, x <= l.x0:
		return l.y0
	case x >= l.xn:
		return l.yn
	}
	return l.pl.Predict(x)
}

// AtAll evaluates the interpolant at every x, writing into out when it has the right length.
func (l *Linear) AtAll(xs []float64, out []float64) []float64 {
	if len(out) != len(xs) {
		out = make([]float64, len(xs))
	}
	for i, x := range xs {
		out[i] = l.At(x)
	}
	return out
}
