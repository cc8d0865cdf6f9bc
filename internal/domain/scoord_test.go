package domain

import (
	"errors"
	"math"
	"testing"
)

func mustCoord(t *testing.T, spec VerticalCoordinateSpec) *VerticalCoordinate {
	t.Helper()
	vc, err := NewVerticalCoordinate(spec)
	if err != nil {
		t.Fatalf("NewVerticalCoordinate(%+v): %v", spec, err)
	}
	return vc
}

func TestSigmaLevels(t *testing.T) {
	vc := mustCoord(t, VerticalCoordinateSpec{Transform: New2008, ThetaS: 5, ThetaB: 0.4, N: 4, Hc: 10})

	w := vc.Sigma(PointW)
	wantW := []float64{-1, -0.75, -0.5, -0.25, 0}
	if len(w) != len(wantW) {
		t.Fatalf("expected %d w levels, got %d", len(wantW), len(w))
	}
	for k := range wantW {
		if math.Abs(w[k]-wantW[k]) > 1e-12 {
			t.Errorf("sc_w[%d]: expected %v, got %v", k, wantW[k], w[k])
		}
	}

	r := vc.Sigma(PointRho)
	wantR := []float64{-0.875, -0.625, -0.375, -0.125}
	for k := range wantR {
		if math.Abs(r[k]-wantR[k]) > 1e-12 {
			t.Errorf("sc_r[%d]: expected %v, got %v", k, wantR[k], r[k])
		}
	}
}

func TestStretching_Bounds(t *testing.T) {
	specs := []VerticalCoordinateSpec{
		{Transform: New2008, ThetaS: 7, ThetaB: 2, N: 32, Hc: 200},
		{Transform: New2008, ThetaS: 5, ThetaB: 0, N: 20, Hc: 10},
		{Transform: Old1994, ThetaS: 6, ThetaB: 0, N: 32, Hc: 5},
		{Transform: Old1994, ThetaS: 3, ThetaB: 1, N: 10, Hc: 5},
	}
	for _, spec := range specs {
		t.Run(spec.Transform.String(), func(t *testing.T) {
			vc := mustCoord(t, spec)
			for _, p := range []VerticalPoint{PointRho, PointW} {
				for k, cs := range vc.Stretching(p) {
					if cs < -1-1e-6 || cs > 1e-6 {
						t.Errorf("Cs[%d] = %v outside [-1, 0]", k, cs)
					}
				}
			}
			w := vc.Stretching(PointW)
			if math.Abs(float64(w[0])+1) > 1e-6 {
				t.Errorf("Cs at sigma=-1: expected -1, got %v", w[0])
			}
			if math.Abs(float64(w[len(w)-1])) > 1e-6 {
				t.Errorf("Cs at sigma=0: expected 0, got %v", w[len(w)-1])
			}
		})
	}
}

func TestStretching_NoSurfaceStretching(t *testing.T) {
	vc := mustCoord(t, VerticalCoordinateSpec{Transform: New2008, ThetaS: 0, ThetaB: 0, N: 5, Hc: 10})
	sigma := vc.Sigma(PointRho)
	for k, cs := range vc.Stretching(PointRho) {
		want := -sigma[k] * sigma[k]
		if math.Abs(float64(cs)-want) > 1e-6 {
			t.Errorf("new2008 Cs_r[%d]: expected %v, got %v", k, want, cs)
		}
	}

	old := mustCoord(t, VerticalCoordinateSpec{Transform: Old1994, ThetaS: 0, ThetaB: 0.5, N: 5, Hc: 10})
	sigma = old.Sigma(PointRho)
	for k, cs := range old.Stretching(PointRho) {
		if math.Abs(float64(cs)-sigma[k]) > 1e-6 {
			t.Errorf("old1994 Cs_r[%d]: expected %v, got %v", k, sigma[k], cs)
		}
	}
}

func TestDepths_MonotonicAndBounded(t *testing.T) {
	h := []float64{5, 75, 1200, 4000}
	specs := []VerticalCoordinateSpec{
		{Transform: New2008, ThetaS: 7, ThetaB: 2, N: 32, Hc: 200, Dcrit: DefaultDcrit},
		{Transform: Old1994, ThetaS: 6, ThetaB: 0.2, N: 32, Hc: 3, Dcrit: DefaultDcrit},
	}
	for _, spec := range specs {
		t.Run(spec.Transform.String(), func(t *testing.T) {
			vc := mustCoord(t, spec)
			lv, err := vc.Depths(PointW, []float64{0}, h)
			if err != nil {
				t.Fatalf("Depths: %v", err)
			}
			if len(lv.Z) != spec.N+1 {
				t.Fatalf("expected %d w levels, got %d", spec.N+1, len(lv.Z))
			}
			for i, hi := range h {
				col := lv.Column(i)
				if math.Abs(col[0]+hi) > 1e-6 {
					t.Errorf("h=%v: bottom interface expected %v, got %v", hi, -hi, col[0])
				}
				if math.Abs(col[len(col)-1]) > 1e-6 {
					t.Errorf("h=%v: surface interface expected 0, got %v", hi, col[len(col)-1])
				}
				for k := 1; k < len(col); k++ {
					if !(col[k] > col[k-1]) {
						t.Errorf("h=%v: level %d (%v) not above level %d (%v)", hi, k, col[k], k-1, col[k-1])
					}
				}
			}

			rho, err := vc.Depths(PointRho, []float64{0}, h)
			if err != nil {
				t.Fatalf("Depths: %v", err)
			}
			for i, hi := range h {
				for k, z := range rho.Column(i) {
					if z < -hi || z > 0 {
						t.Errorf("h=%v: rho level %d at %v outside [-h, 0]", hi, k, z)
					}
				}
			}
		})
	}
}

func TestDepths_SeaSurfaceHeight(t *testing.T) {
	vc := mustCoord(t, VerticalCoordinateSpec{Transform: New2008, ThetaS: 5, ThetaB: 0.4, N: 10, Hc: 10, Dcrit: DefaultDcrit})
	lv, err := vc.Depths(PointW, []float64{0.5, -0.3}, []float64{100, 100})
	if err != nil {
		t.Fatalf("Depths: %v", err)
	}
	top := len(lv.Z) - 1
	if math.Abs(lv.Z[top][0]-0.5) > 1e-9 {
		t.Errorf("surface with zeta=0.5: got %v", lv.Z[top][0])
	}
	if math.Abs(lv.Z[top][1]+0.3) > 1e-9 {
		t.Errorf("surface with zeta=-0.3: got %v", lv.Z[top][1])
	}
	if math.Abs(lv.Z[0][0]+100) > 1e-9 {
		t.Errorf("bottom with zeta=0.5: got %v", lv.Z[0][0])
	}
}

func TestDepths_DryCellsStayFinite(t *testing.T) {
	for _, tr := range []Transform{New2008, Old1994} {
		t.Run(tr.String(), func(t *testing.T) {
			vc := mustCoord(t, VerticalCoordinateSpec{Transform: tr, ThetaS: 5, ThetaB: 0.4, N: 8, Hc: 10, Dcrit: DefaultDcrit})
			lv, err := vc.Depths(PointRho, []float64{-5}, []float64{0, 0.1, 2})
			if err != nil {
				t.Fatalf("Depths: %v", err)
			}
			for k := range lv.Z {
				for i, z := range lv.Z[k] {
					if math.IsNaN(z) || math.IsInf(z, 0) {
						t.Errorf("level %d point %d: non-finite depth %v", k, i, z)
					}
				}
			}
		})
	}
}

func TestDepths_ZeroHcDryPoint(t *testing.T) {
	vc := mustCoord(t, VerticalCoordinateSpec{Transform: New2008, ThetaS: 5, ThetaB: 0.4, N: 4, Hc: 0, Dcrit: DefaultDcrit})
	z := vc.RhoDepths(0, 0)
	for k, v := range z {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			t.Fatalf("level %d: expected finite depth, got %v", k, v)
		}
		// zeta is raised to Dcrit over zero bathymetry.
		if v < 0 || v > DefaultDcrit+1e-12 {
			t.Errorf("level %d: depth %v outside [0, %v]", k, v, DefaultDcrit)
		}
	}
	lv, err := vc.Depths(PointW, []float64{0}, []float64{0})
	if err != nil {
		t.Fatalf("Depths: %v", err)
	}
	for k := range lv.Z {
		if math.IsNaN(lv.Z[k][0]) {
			t.Errorf("w level %d: got NaN", k)
		}
	}
}

func TestDepths_ShapeError(t *testing.T) {
	vc := mustCoord(t, VerticalCoordinateSpec{Transform: New2008, ThetaS: 5, ThetaB: 0.4, N: 4, Hc: 10})
	if _, err := vc.Depths(PointRho, []float64{0, 0}, []float64{1, 2, 3}); !errors.Is(err, ErrShape) {
		t.Errorf("expected ErrShape, got %v", err)
	}
}

func TestRhoDepthsMatchesDepths(t *testing.T) {
	vc := mustCoord(t, VerticalCoordinateSpec{Transform: Old1994, ThetaS: 6, ThetaB: 0, N: 12, Hc: 5, Dcrit: DefaultDcrit})
	lv, err := vc.Depths(PointRho, []float64{0.2}, []float64{300})
	if err != nil {
		t.Fatalf("Depths: %v", err)
	}
	got := vc.RhoDepths(0.2, 300)
	for k := range got {
		if math.Abs(got[k]-lv.Z[k][0]) > 1e-12 {
			t.Errorf("level %d: RhoDepths %v, Depths %v", k, got[k], lv.Z[k][0])
		}
	}
}

func TestVerticalCoordinateSpec_Validate(t *testing.T) {
	tests := []struct {
		name string
		spec VerticalCoordinateSpec
		err  error
	}{
		{"unknown transform", VerticalCoordinateSpec{Transform: 3, N: 10, Hc: 10}, ErrUnknownTransform},
		{"zero levels", VerticalCoordinateSpec{Transform: New2008, N: 0, Hc: 10}, ErrInvalidSpec},
		{"negative hc", VerticalCoordinateSpec{Transform: New2008, N: 10, Hc: -1}, ErrInvalidSpec},
		{"negative theta", VerticalCoordinateSpec{Transform: New2008, N: 10, Hc: 1, ThetaS: -1}, ErrInvalidSpec},
		{"old1994 theta_b", VerticalCoordinateSpec{Transform: Old1994, N: 10, Hc: 1, ThetaB: 1.5}, ErrInvalidSpec},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := NewVerticalCoordinate(tt.spec); !errors.Is(err, tt.err) {
				t.Errorf("expected %v, got %v", tt.err, err)
			}
		})
	}
}

func TestParseTransform(t *testing.T) {
	tests := []struct {
		in   string
		want Transform
	}{
		{"new2008", New2008},
		{"NEW2008", New2008},
		{"2", New2008},
		{"old1994", Old1994},
		{" 1 ", Old1994},
	}
	for _, tt := range tests {
		got, err := ParseTransform(tt.in)
		if err != nil {
			t.Errorf("ParseTransform(%q): %v", tt.in, err)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseTransform(%q): expected %v, got %v", tt.in, tt.want, got)
		}
	}
	if _, err := ParseTransform("sigma"); !errors.Is(err, ErrUnknownTransform) {
		t.Errorf("expected ErrUnknownTransform, got %v", err)
	}
}
