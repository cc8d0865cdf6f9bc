package domain

import (
	"fmt"
	"time"
)

// SourceField is one variable of the external ocean product on its native
// (time, depth, lat, lon) grid. Depth is positive down; surface fields carry a
// depth axis of length one.
type SourceField struct {
	Kind  string
	Time  []time.Time
	Depth []float64
	Lat   []float64
	Lon   []float64
	Data  []float64 // Flat, time-major: ((t*nz+k)*ny+j)*nx+i.
}

// Validate checks that Data matches the coordinate axes.
func (s *SourceField) Validate() error {
	if len(s.Time) == 0 {
		return fmt.Errorf("%w: %s has no time steps", ErrShape, s.Kind)
	}
	if len(s.Depth) == 0 {
		return fmt.Errorf("%w: %s has no depth axis", ErrShape, s.Kind)
	}
	if len(s.Lat) < 2 || len(s.Lon) < 2 {
		return fmt.Errorf("%w: %s needs at least 2 latitudes and longitudes, got %d x %d",
			ErrShape, s.Kind, len(s.Lat), len(s.Lon))
	}
	want := len(s.Time) * len(s.Depth) * len(s.Lat) * len(s.Lon)
	if len(s.Data) != want {
		return fmt.Errorf("%w: %s data has %d values, axes imply %d", ErrShape, s.Kind, len(s.Data), want)
	}
	for k := 1; k < len(s.Depth); k++ {
		if s.Depth[k] <= s.Depth[k-1] {
			return fmt.Errorf("%w: %s depth axis must be strictly increasing (positive down)", ErrShape, s.Kind)
		}
	}
	return nil
}

// Layer returns a read-only view of the (lat, lon) slice at time t and depth k.
func (s *SourceField) Layer(t, k int) []float64 {
	n := len(s.Lat) * len(s.Lon)
	start := (t*len(s.Depth) + k) * n
	return s.Data[start : start+n]
}
