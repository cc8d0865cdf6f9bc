package domain

import "math"

// ColumnState records what happened to one along-boundary index.
type ColumnState uint8

const (
	// ColumnPending means no computation was attempted.
	ColumnPending ColumnState = iota
	// ColumnLand means the point is masked as land.
	ColumnLand
	// ColumnComputed means the column holds interpolated ocean values.
	ColumnComputed
	// ColumnUnfilled means the source profile had no valid sample to borrow from.
	ColumnUnfilled
)

func (c ColumnState) String() string {
	switch c {
	case ColumnPending:
		return "pending"
	case ColumnLand:
		return "land"
	case ColumnComputed:
		return "computed"
	case ColumnUnfilled:
		return "unfilled"
	default:
		return "invalid"
	}
}

// BoundarySlice is the forcing of one variable on one side: (time, [level,] point).
// Land and pending cells hold NaN; Columns tells them apart.
type BoundarySlice struct {
	Variable string
	Side     Side
	Times    []float64 // Days since the run offset.
	Levels   int       // Zero for 2-D variables.
	Points   int
	Data     []float64
	Columns  []ColumnState
}

// NewBoundarySlice allocates a slice filled with NaN and pending columns.
func NewBoundarySlice(variable string, side Side, times []float64, levels, points int) *BoundarySlice {
	depth := levels
	if depth == 0 {
		depth = 1
	}
	data := make([]float64, len(times)*depth*points)
	for i := range data {
		data[i] = math.NaN()
	}
	return &BoundarySlice{
		Variable: variable,
		Side:     side,
		Times:    times,
		Levels:   levels,
		Points:   points,
		Data:     data,
		Columns:  make([]ColumnState, points),
	}
}

// Name returns the boundary file variable name, e.g. "temp_south".
func (b *BoundarySlice) Name() string {
	return b.Variable + "_" + string(b.Side)
}

// Shape returns the array dimensions in write order.
func (b *BoundarySlice) Shape() []int {
	if b.Levels == 0 {
		return []int{len(b.Times), b.Points}
	}
	return []int{len(b.Times), b.Levels, b.Points}
}

// Index returns the flat index of (t, k, i); k is ignored for 2-D slices.
func (b *BoundarySlice) Index(t, k, i int) int {
	if b.Levels == 0 {
		return t*b.Points + i
	}
	return (t*b.Levels+k)*b.Points + i
}

// At returns the value at (t, k, i).
func (b *BoundarySlice) At(t, k, i int) float64 {
	return b.Data[b.Index(t, k, i)]
}

// Count returns how many columns are in state c.
func (b *BoundarySlice) Count(c ColumnState) int {
	n := 0
	for _, s := range b.Columns {
		if s == c {
			n++
		}
	}
	return n
}
