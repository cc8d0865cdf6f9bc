package remap

import (
	"fmt"
	"time"

	"go.ngs.io/ocean-forcing/internal/adapter/interp"
	"go.ngs.io/ocean-forcing/internal/domain"
)

const secondsPerDay = 86400.0

// DaysSince converts timestamps to fractional days since offset. Timestamps are
// truncated to the minute first.
func DaysSince(times []time.Time, offset time.Time) []float64 {
	out := make([]float64, len(times))
	for i, t := range times {
		out[i] = t.Truncate(time.Minute).Sub(offset).Seconds() / secondsPerDay
	}
	return out
}

// Resample interpolates a flat time-major array (len(native) x inner) from the
// native time axis onto the master axis, independently for each inner index.
// Master times outside the native range take the nearest native sample.
func Resample(native, master []float64, data []float64, inner int) ([]float64, error) {
	if inner <= 0 {
		return nil, fmt.Errorf("%w: inner size must be positive, got %d", domain.ErrShape, inner)
	}
	if len(data) != len(native)*inner {
		return nil, fmt.Errorf("%w: data has %d values, expected %d x %d", domain.ErrShape, len(data), len(native), inner)
	}
	if sameAxis(native, master) {
		return append([]float64(nil), data...), nil
	}

	out := make([]float64, len(master)*inner)
	series := make([]float64, len(native))
	values := make([]float64, len(master))
	for i := 0; i < inner; i++ {
		for t := range native {
			series[t] = data[t*inner+i]
		}
		lin, err := interp.NewLinear(native, series)
		if err != nil {
			return nil, fmt.Errorf("native time axis: %w", err)
		}
		lin.AtAll(master, values)
		for t := range master {
			out[t*inner+i] = values[t]
		}
	}
	return out, nil
}

// ResampleSlice returns a copy of b on the master time axis.
func ResampleSlice(b *domain.BoundarySlice, master []float64) (*domain.BoundarySlice, error) {
	inner := b.Points
	if b.Levels > 0 {
		inner *= b.Levels
	}
	data, err := Resample(b.Times, master, b.Data, inner)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", b.Name(), err)
	}
	out := *b
	out.Times = append([]float64(nil), master...)
	out.Data = data
	out.Columns = append([]domain.ColumnState(nil), b.Columns...)
	return &out, nil
}

func sameAxis(a, b []float64) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
