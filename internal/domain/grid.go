package domain

import (
	"fmt"
	"strings"
)

// PointFamily is a staggered horizontal grid point family.
type PointFamily string

const (
	FamilyRho PointFamily = "rho"
	FamilyU   PointFamily = "u"
	FamilyV   PointFamily = "v"
	FamilyPsi PointFamily = "psi"
)

// Side is one edge of the model domain.
type Side string

const (
	South Side = "south"
	East  Side = "east"
	North Side = "north"
	West  Side = "west"
)

// ParseSide converts a side name into a Side.
func ParseSide(s string) (Side, error) {
	switch Side(strings.ToLower(strings.TrimSpace(s))) {
	case South:
		return South, nil
	case East:
		return East, nil
	case North:
		return North, nil
	case West:
		return West, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownSide, s)
	}
}

// OpenBoundarySet selects the boundary sides that receive forcing.
type OpenBoundarySet struct {
	South bool
	East  bool
	North bool
	West  bool
}

// ParseOpenBoundaries parses the CROCO "obc" flag string, e.g. "1101" for S/E/N/W.
func ParseOpenBoundaries(flags string) (OpenBoundarySet, error) {
	flags = strings.TrimSpace(flags)
	if len(flags) != 4 {
		return OpenBoundarySet{}, fmt.Errorf("open boundary flags must have 4 digits (S E N W), got %q", flags)
	}
	var out [4]bool
	for i, c := range flags {
		switch c {
		case '0':
		case '1':
			out[i] = true
		default:
			return OpenBoundarySet{}, fmt.Errorf("open boundary flag %d must be 0 or 1, got %q", i, c)
		}
	}
	return OpenBoundarySet{South: out[0], East: out[1], North: out[2], West: out[3]}, nil
}

// Sides returns the open sides in south, east, north, west order.
func (o OpenBoundarySet) Sides() []Side {
	sides := make([]Side, 0, 4)
	if o.South {
		sides = append(sides, South)
	}
	if o.East {
		sides = append(sides, East)
	}
	if o.North {
		sides = append(sides, North)
	}
	if o.West {
		sides = append(sides, West)
	}
	return sides
}

// PointGrid holds coordinates and mask of one point family, row-major Rows x Cols.
type PointGrid struct {
	Rows int
	Cols int
	Lon  []float64
	Lat  []float64
	Mask []float64
}

func (p PointGrid) validate(name string) error {
	n := p.Rows * p.Cols
	if p.Rows <= 0 || p.Cols <= 0 {
		return fmt.Errorf("%w: %s grid is %dx%d", ErrShape, name, p.Rows, p.Cols)
	}
	if len(p.Lon) != n || len(p.Lat) != n || len(p.Mask) != n {
		return fmt.Errorf("%w: %s grid expects %d points, got lon=%d lat=%d mask=%d",
			ErrShape, name, n, len(p.Lon), len(p.Lat), len(p.Mask))
	}
	for i, m := range p.Mask {
		if m != 0 && m != 1 {
			return fmt.Errorf("mask_%s[%d] = %v, expected 0 or 1", name, i, m)
		}
	}
	return nil
}

// Grid is the model grid: one PointGrid per family and bathymetry on rho points.
type Grid struct {
	Rho PointGrid
	U   PointGrid
	V   PointGrid
	Psi PointGrid
	H   []float64 // Positive down, Rho.Rows x Rho.Cols.
}

// Validate checks the grid invariants.
func (g *Grid) Validate() error {
	if err := g.Rho.validate("rho"); err != nil {
		return err
	}
	if len(g.H) != g.Rho.Rows*g.Rho.Cols {
		return fmt.Errorf("%w: h has %d values, expected %d", ErrShape, len(g.H), g.Rho.Rows*g.Rho.Cols)
	}
	for i, h := range g.H {
		if h < 0 {
			return fmt.Errorf("h[%d] = %v, bathymetry must be non-negative", i, h)
		}
	}
	if err := g.U.validate("u"); err != nil {
		return err
	}
	if g.U.Rows != g.Rho.Rows || g.U.Cols != g.Rho.Cols-1 {
		return fmt.Errorf("%w: u grid is %dx%d, expected %dx%d", ErrShape, g.U.Rows, g.U.Cols, g.Rho.Rows, g.Rho.Cols-1)
	}
	if err := g.V.validate("v"); err != nil {
		return err
	}
	if g.V.Rows != g.Rho.Rows-1 || g.V.Cols != g.Rho.Cols {
		return fmt.Errorf("%w: v grid is %dx%d, expected %dx%d", ErrShape, g.V.Rows, g.V.Cols, g.Rho.Rows-1, g.Rho.Cols)
	}
	return nil
}

// Points returns the PointGrid of a family.
func (g *Grid) Points(f PointFamily) (PointGrid, error) {
	switch f {
	case FamilyRho:
		return g.Rho, nil
	case FamilyU:
		return g.U, nil
	case FamilyV:
		return g.V, nil
	case FamilyPsi:
		return g.Psi, nil
	default:
		return PointGrid{}, fmt.Errorf("unknown point family %q", f)
	}
}

// Bathymetry returns h interpolated onto the family's points.
// U points average adjacent rho columns, V points adjacent rho rows.
func (g *Grid) Bathymetry(f PointFamily) ([]float64, error) {
	rows, cols := g.Rho.Rows, g.Rho.Cols
	switch f {
	case FamilyRho:
		return g.H, nil
	case FamilyU:
		out := make([]float64, rows*(cols-1))
		for j := 0; j < rows; j++ {
			for i := 0; i < cols-1; i++ {
				out[j*(cols-1)+i] = 0.5 * (g.H[j*cols+i] + g.H[j*cols+i+1])
			}
		}
		return out, nil
	case FamilyV:
		out := make([]float64, (rows-1)*cols)
		for j := 0; j < rows-1; j++ {
			for i := 0; i < cols; i++ {
				out[j*cols+i] = 0.5 * (g.H[j*cols+i] + g.H[(j+1)*cols+i])
			}
		}
		return out, nil
	default:
		return nil, fmt.Errorf("no bathymetry for point family %q", f)
	}
}

// BoundaryLine is the 1-D sequence of grid points along one side.
type BoundaryLine struct {
	Family PointFamily
	Side   Side
	Lon    []float64
	Lat    []float64
	Mask   []float64
	H      []float64
}

// Len returns the number of points on the line.
func (b BoundaryLine) Len() int {
	return len(b.Mask)
}

// Line extracts the boundary line of a family on one side.
func (g *Grid) Line(f PointFamily, side Side) (BoundaryLine, error) {
	pts, err := g.Points(f)
	if err != nil {
		return BoundaryLine{}, err
	}
	h, err := g.Bathymetry(f)
	if err != nil {
		return BoundaryLine{}, err
	}

	idx, err := edgeIndices(pts.Rows, pts.Cols, side)
	if err != nil {
		return BoundaryLine{}, err
	}

	line := BoundaryLine{
		Family: f,
		Side:   side,
		Lon:    make([]float64, len(idx)),
		Lat:    make([]float64, len(idx)),
		Mask:   make([]float64, len(idx)),
		H:      make([]float64, len(idx)),
	}
	for n, i := range idx {
		line.Lon[n] = pts.Lon[i]
		line.Lat[n] = pts.Lat[i]
		line.Mask[n] = pts.Mask[i]
		line.H[n] = h[i]
	}
	return line, nil
}

// edgeIndices returns the flat indices of one edge of a rows x cols array.
func edgeIndices(rows, cols int, side Side) ([]int, error) {
	var idx []int
	switch side {
	case South:
		for i := 0; i < cols; i++ {
			idx = append(idx, i)
		}
	case North:
		for i := 0; i < cols; i++ {
			idx = append(idx, (rows-1)*cols+i)
		}
	case West:
		for j := 0; j < rows; j++ {
			idx = append(idx, j*cols)
		}
	case East:
		for j := 0; j < rows; j++ {
			idx = append(idx, j*cols+cols-1)
		}
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownSide, side)
	}
	return idx, nil
}
