// Package remap moves boundary data from the source product's vertical and
// time axes onto the model's s-coordinate levels and master time axis.
package remap

import (
	"fmt"
	"math"

	"go.ngs.io/ocean-forcing/internal/adapter/interp"
	"go.ngs.io/ocean-forcing/internal/domain"
)

// Vertical remaps depth profiles onto rho levels of a fixed s-coordinate.
// It holds no mutable state and may be shared between goroutines.
type Vertical struct {
	coord *domain.VerticalCoordinate
	depth []float64
}

// NewVertical binds the model coordinate to the source depth axis (positive down).
func NewVertical(coord *domain.VerticalCoordinate, sourceDepth []float64) (*Vertical, error) {
	if len(sourceDepth) == 0 {
		return nil, fmt.Errorf("%w: empty source depth axis", domain.ErrShape)
	}
	for k := 1; k < len(sourceDepth); k++ {
		if !(sourceDepth[k] > sourceDepth[k-1]) {
			return nil, fmt.Errorf("%w: source depth must be strictly increasing, index %d", domain.ErrShape, k)
		}
	}
	return &Vertical{coord: coord, depth: append([]float64(nil), sourceDepth...)}, nil
}

// Levels returns the number of model levels produced per column.
func (v *Vertical) Levels() int {
	return v.coord.Spec().N
}

// Result is the output of Remap: Data[level][point] plus the state of each point.
type Result struct {
	Data    [][]float64
	Columns []domain.ColumnState
}

// Remap interpolates data[sourceLevel][point] onto the model levels at every point of a
// boundary line with bathymetry h and mask. Land points are NaN with state ColumnLand.
func (v *Vertical) Remap(h []float64, data [][]float64, mask []float64, valid domain.ValidRange) (Result, error) {
	if len(data) != len(v.depth) {
		return Result{}, fmt.Errorf("%w: data has %d source levels, depth axis %d", domain.ErrShape, len(data), len(v.depth))
	}
	if len(mask) != len(h) {
		return Result{}, fmt.Errorf("%w: mask has %d points, bathymetry %d", domain.ErrShape, len(mask), len(h))
	}
	for k, row := range data {
		if len(row) != len(h) {
			return Result{}, fmt.Errorf("%w: source level %d has %d points, expected %d", domain.ErrShape, k, len(row), len(h))
		}
	}

	n := v.Levels()
	res := Result{Data: make([][]float64, n), Columns: make([]domain.ColumnState, len(h))}
	for k := range res.Data {
		res.Data[k] = make([]float64, len(h))
	}

	profile := make([]float64, len(v.depth))
	query := make([]float64, n)
	values := make([]float64, n)
	for i := range h {
		if mask[i] == 0 {
			for k := 0; k < n; k++ {
				res.Data[k][i] = math.NaN()
			}
			res.Columns[i] = domain.ColumnLand
			continue
		}

		for k := range v.depth {
			profile[k] = data[k][i]
		}
		filled, ok := domain.FillInvalid(profile, valid)

		z := v.coord.RhoDepths(0, h[i])
		for k := range z {
			// Model depths are positive up, the source axis positive down.
			query[k] = -z[k]
		}

		lin, err := interp.NewLinear(v.depth, filled)
		if err != nil {
			return Result{}, fmt.Errorf("point %d: %w", i, err)
		}
		lin.AtAll(query, values)
		for k := 0; k < n; k++ {
			res.Data[k][i] = values[k]
		}

		if ok {
			res.Columns[i] = domain.ColumnComputed
		} else {
			res.Columns[i] = domain.ColumnUnfilled
		}
	}

	return res, nil
}
