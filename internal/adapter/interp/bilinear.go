// Package interp provides the horizontal and 1-D interpolants used to move
// source fields onto model boundary points.
package interp

import (
	"fmt"
	"math"
	"sort"
)

// cellWeights returns the corner weights for normalized coordinates t, u,
// ordered V00, V10, V01, V11.
func cellWeights(t, u float64) [4]float64 {
	// Clamp to [0, 1] to handle edge cases with floating point precision.
	t = math.Max(0, math.Min(1, t))
	u = math.Max(0, math.Min(1, u))
	return [4]float64{(1 - t) * (1 - u), t * (1 - u), (1 - t) * u, t * u}
}

// Axis is a strictly monotonic coordinate axis. Descending axes are stored
// reversed so that lookups always run on increasing values.
type Axis struct {
	values   []float64
	reversed bool
}

// NewAxis validates a monotonic axis of at least two values.
func NewAxis(values []float64) (*Axis, error) {
	if len(values) < 2 {
		return nil, fmt.Errorf("axis must have at least 2 values, got %d", len(values))
	}
	a := &Axis{values: append([]float64(nil), values...)}
	if values[len(values)-1] < values[0] {
		a.reversed = true
		for i, j := 0, len(a.values)-1; i < j; i, j = i+1, j-1 {
			a.values[i], a.values[j] = a.values[j], a.values[i]
		}
	}
	for i := 1; i < len(a.values); i++ {
		if !(a.values[i] > a.values[i-1]) {
			return nil, fmt.Errorf("axis values must be strictly monotonic (index %d)", i)
		}
	}
	return a, nil
}

// Len returns the number of axis values.
func (a *Axis) Len() int {
	return len(a.values)
}

// locate returns the lower native index of the interval containing v and the
// fractional position within it, or ok=false when v lies outside the axis.
func (a *Axis) locate(v float64) (lo, hi int, frac float64, ok bool) {
	n := len(a.values)
	if math.IsNaN(v) || v < a.values[0] || v > a.values[n-1] {
		return 0, 0, 0, false
	}
	// Binary search for the first value >= v.
	i := sort.SearchFloat64s(a.values, v)
	if i == 0 {
		i = 1
	}
	lo, hi = i-1, i
	frac = (v - a.values[lo]) / (a.values[hi] - a.values[lo])
	if a.reversed {
		lo, hi = n-1-lo, n-1-hi
	}
	return lo, hi, frac, true
}

// binding is the precomputed stencil of one target point.
type binding struct {
	idx    [4]int
	weight [4]float64
	inside bool
}

// Regridder is a bilinear interpolant bound to fixed source axes and target
// points. Cell lookups happen once in NewRegridder; Apply only combines values,
// so one Regridder serves every (time, depth) slice of a source field.
//
// Targets outside the source extent evaluate to NaN, and a NaN corner with a
// non-zero weight propagates to the result. Callers repair those values downstream.
type Regridder struct {
	nx, ny   int
	bindings []binding
}

// NewRegridder binds source axes lat (rows) and lon (columns) to target points.
// Target longitudes are shifted into 0..360 when the source axis uses that convention.
func NewRegridder(lat, lon, targetLat, targetLon []float64) (*Regridder, error) {
	if len(targetLat) != len(targetLon) {
		return nil, fmt.Errorf("target latitude (%d) and longitude (%d) lengths differ", len(targetLat), len(targetLon))
	}
	yAxis, err := NewAxis(lat)
	if err != nil {
		return nil, fmt.Errorf("invalid latitude axis: %w", err)
	}
	xAxis, err := NewAxis(lon)
	if err != nil {
		return nil, fmt.Errorf("invalid longitude axis: %w", err)
	}

	nx := xAxis.Len()
	wrap := lonAxisRequiresWrap(lon)
	r := &Regridder{nx: nx, ny: yAxis.Len(), bindings: make([]binding, len(targetLat))}
	for p := range targetLat {
		tlon := targetLon[p]
		if wrap {
			tlon = normalizeLon360(tlon)
		}
		x0, x1, t, okX := xAxis.locate(tlon)
		y0, y1, u, okY := yAxis.locate(targetLat[p])
		if !okX || !okY {
			continue
		}
		r.bindings[p] = binding{
			idx:    [4]int{y0*nx + x0, y0*nx + x1, y1*nx + x0, y1*nx + x1},
			weight: cellWeights(t, u),
			inside: true,
		}
	}
	return r, nil
}

// lonAxisRequiresWrap reports whether a longitude axis uses the 0..360 convention.
func lonAxisRequiresWrap(lons []float64) bool {
	minVal, maxVal := lons[0], lons[len(lons)-1]
	if minVal > maxVal {
		minVal, maxVal = maxVal, minVal
	}
	return minVal >= 0 && maxVal > 180
}

func normalizeLon360(lon float64) float64 {
	lon = math.Mod(lon, 360)
	if lon < 0 {
		lon += 360
	}
	return lon
}

// Len returns the number of target points.
func (r *Regridder) Len() int {
	return len(r.bindings)
}

// Outside returns how many targets lie outside the source extent.
func (r *Regridder) Outside() int {
	n := 0
	for _, b := range r.bindings {
		if !b.inside {
			n++
		}
	}
	return n
}

// Apply interpolates a row-major (lat, lon) field onto the targets. out is
// reused when it has the right length.
func (r *Regridder) Apply(field []float64, out []float64) ([]float64, error) {
	if len(field) != r.nx*r.ny {
		return nil, fmt.Errorf("field has %d values, source grid is %d x %d", len(field), r.ny, r.nx)
	}
	if len(out) != len(r.bindings) {
		out = make([]float64, len(r.bindings))
	}
	for p, b := range r.bindings {
		if !b.inside {
			out[p] = math.NaN()
			continue
		}
		var v float64
		for c := 0; c < 4; c++ {
			// Exact hits on a node ignore the other corners.
			if b.weight[c] == 0 {
				continue
			}
			v += b.weight[c] * field[b.idx[c]]
		}
		out[p] = v
	}
	return out, nil
}
