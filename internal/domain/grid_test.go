package domain

import (
	"errors"
	"testing"
)

// testGrid returns a 3x4 rho grid with lon = col, lat = row and h = 10*(row+1).
func testGrid() *Grid {
	rows, cols := 3, 4
	mk := func(r, c int, lonOff, latOff float64) PointGrid {
		p := PointGrid{Rows: r, Cols: c}
		for j := 0; j < r; j++ {
			for i := 0; i < c; i++ {
				p.Lon = append(p.Lon, float64(i)+lonOff)
				p.Lat = append(p.Lat, float64(j)+latOff)
				p.Mask = append(p.Mask, 1)
			}
		}
		return p
	}
	g := &Grid{
		Rho: mk(rows, cols, 0, 0),
		U:   mk(rows, cols-1, 0.5, 0),
		V:   mk(rows-1, cols, 0, 0.5),
		Psi: mk(rows-1, cols-1, 0.5, 0.5),
	}
	for j := 0; j < rows; j++ {
		for i := 0; i < cols; i++ {
			g.H = append(g.H, float64(10*(j+1)))
		}
	}
	return g
}

func TestGrid_Validate(t *testing.T) {
	g := testGrid()
	if err := g.Validate(); err != nil {
		t.Fatalf("Validate: %v", err)
	}

	bad := testGrid()
	bad.U.Cols = 4
	if err := bad.Validate(); !errors.Is(err, ErrShape) {
		t.Errorf("expected ErrShape for u grid size, got %v", err)
	}

	bad = testGrid()
	bad.Rho.Mask[0] = 0.5
	if err := bad.Validate(); err == nil {
		t.Errorf("expected error for fractional mask")
	}

	bad = testGrid()
	bad.H[2] = -1
	if err := bad.Validate(); err == nil {
		t.Errorf("expected error for negative bathymetry")
	}
}

func TestGrid_Line(t *testing.T) {
	g := testGrid()
	g.Rho.Mask[1] = 0

	tests := []struct {
		family  PointFamily
		side    Side
		wantLen int
		lon0    float64
		lat0    float64
		h0      float64
	}{
		{FamilyRho, South, 4, 0, 0, 10},
		{FamilyRho, North, 4, 0, 2, 30},
		{FamilyRho, West, 3, 0, 0, 10},
		{FamilyRho, East, 3, 3, 0, 10},
		{FamilyU, South, 3, 0.5, 0, 10},
		{FamilyU, East, 3, 2.5, 0, 10},
		{FamilyV, South, 4, 0, 0.5, 15},
		{FamilyV, North, 4, 0, 1.5, 25},
	}
	for _, tt := range tests {
		t.Run(string(tt.family)+"_"+string(tt.side), func(t *testing.T) {
			line, err := g.Line(tt.family, tt.side)
			if err != nil {
				t.Fatalf("Line: %v", err)
			}
			if line.Len() != tt.wantLen {
				t.Fatalf("expected %d points, got %d", tt.wantLen, line.Len())
			}
			if line.Lon[0] != tt.lon0 || line.Lat[0] != tt.lat0 {
				t.Errorf("first point: expected (%v, %v), got (%v, %v)", tt.lon0, tt.lat0, line.Lon[0], line.Lat[0])
			}
			if line.H[0] != tt.h0 {
				t.Errorf("first h: expected %v, got %v", tt.h0, line.H[0])
			}
		})
	}

	south, _ := g.Line(FamilyRho, South)
	if south.Mask[1] != 0 {
		t.Errorf("expected land point at south index 1")
	}
}

func TestGrid_LineUnknownSide(t *testing.T) {
	g := testGrid()
	if _, err := g.Line(FamilyRho, Side("up")); !errors.Is(err, ErrUnknownSide) {
		t.Errorf("expected ErrUnknownSide, got %v", err)
	}
}

func TestParseOpenBoundaries(t *testing.T) {
	obc, err := ParseOpenBoundaries("1101")
	if err != nil {
		t.Fatalf("ParseOpenBoundaries: %v", err)
	}
	sides := obc.Sides()
	want := []Side{South, East, West}
	if len(sides) != len(want) {
		t.Fatalf("expected %v, got %v", want, sides)
	}
	for i := range want {
		if sides[i] != want[i] {
			t.Errorf("index %d: expected %s, got %s", i, want[i], sides[i])
		}
	}

	for _, bad := range []string{"", "110", "11012", "1x01"} {
		if _, err := ParseOpenBoundaries(bad); err == nil {
			t.Errorf("ParseOpenBoundaries(%q): expected error", bad)
		}
	}
}

func TestParseSide(t *testing.T) {
	if s, err := ParseSide(" North "); err != nil || s != North {
		t.Errorf("expected north, got %v (%v)", s, err)
	}
	if _, err := ParseSide("up"); !errors.Is(err, ErrUnknownSide) {
		t.Errorf("expected ErrUnknownSide, got %v", err)
	}
}
