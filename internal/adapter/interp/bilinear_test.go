package interp

import (
	"math"
	"testing"
)

// TestRegridder_Nodes checks that targets on source nodes return the node values.
func TestRegridder_Nodes(t *testing.T) {
	lat := []float64{0.0, 1.0, 2.0}
	lon := []float64{10.0, 11.0, 12.0}
	field := []float64{
		1, 2, 3, // lat=0
		4, 5, 6, // lat=1
		7, 8, 9, // lat=2
	}

	tests := []struct {
		lat, lon float64
		expected float64
	}{
		{0.0, 10.0, 1.0},
		{0.0, 11.0, 2.0},
		{0.0, 12.0, 3.0},
		{1.0, 10.0, 4.0},
		{1.0, 11.0, 5.0},
		{2.0, 12.0, 9.0},
		{0.5, 10.5, 3.0},
	}

	tLat := make([]float64, len(tests))
	tLon := make([]float64, len(tests))
	for i, tt := range tests {
		tLat[i], tLon[i] = tt.lat, tt.lon
	}

	rg, err := NewRegridder(lat, lon, tLat, tLon)
	if err != nil {
		t.Fatalf("NewRegridder: %v", err)
	}
	out, err := rg.Apply(field, nil)
	if err != nil {
		t.Fatalf("Apply: %v", err)
	}
	for i, tt := range tests {
		if math.Abs(out[i]-tt.expected) > 1e-9 {
			t.Errorf("At (%.1f, %.1f): expected %.10f, got %.10f", tt.lat, tt.lon, tt.expected, out[i])
		}
	}
}

// TestRegridder_DescendingLatitude checks that north-to-south axes give the same answer.
func TestRegridder_DescendingLatitude(t *testing.T) {
	lon := []float64{0, 1}
	ascending, err := NewRegridder([]float64{0, 1}, lon, []float64{0.25}, []float64{0.5})
	if err != nil {
		t.Fatalf("ascending: %v", err)
	}
	descending, err := NewRegridder([]float64{1, 0}, lon, []float64{0.25}, []float64{0.5})
	if err != nil {
		t.Fatalf("descending: %v", err)
	}

	a, _ := ascending.Apply([]float64{0, 2, 4, 6}, nil)
	// Same field with rows swapped.
	d, _ := descending.Apply([]float64{4, 6, 0, 2}, nil)
	if math.Abs(a[0]-d[0]) > 1e-12 {
		t.Fatalf("descending axis gave %v, ascending %v", d[0], a[0])
	}
	if math.Abs(a[0]-2.0) > 1e-12 {
		t.Fatalf("expected 2.0, got %v", a[0])
	}
}

// TestRegridder_OutsideIsNaN checks the documented out-of-extent behavior.
func TestRegridder_OutsideIsNaN(t *testing.T) {
	rg, err := NewRegridder([]float64{0, 1}, []float64{0, 1}, []float64{0.5, 2.0}, []float64{0.5, 0.5})
	if err != nil {
		t.Fatalf("NewRegridder: %v", err)
	}
	if rg.Outside() != 1 {
		t.Fatalf("expected 1 target outside, got %d", rg.Outside())
	}
	out, err := rg.Apply([]float64{1, 1, 1, 1}, nil)
	if err != nil {
		t.Fatalf("Apply: %v", err)
	}
	if out[0] != 1 {
		t.Errorf("inside target: expected 1, got %v", out[0])
	}
	if !math.IsNaN(out[1]) {
		t.Errorf("outside target: expected NaN, got %v", out[1])
	}
}

// TestRegridder_Lon360Source checks that negative target longitudes resolve on a 0..360 source axis.
func TestRegridder_Lon360Source(t *testing.T) {
	lat := []float64{50, 51}
	lon := []float64{352, 354, 356}
	rg, err := NewRegridder(lat, lon, []float64{50.5, 50.5}, []float64{-6, -5.5})
	if err != nil {
		t.Fatalf("NewRegridder: %v", err)
	}
	if rg.Outside() != 0 {
		t.Fatalf("expected all targets inside, got %d outside", rg.Outside())
	}
	field := []float64{352, 354, 356, 352, 354, 356}
	out, err := rg.Apply(field, nil)
	if err != nil {
		t.Fatalf("Apply: %v", err)
	}
	want := []float64{354, 354.5}
	for i := range want {
		if math.Abs(out[i]-want[i]) > 1e-9 {
			t.Errorf("target %d: expected %v, got %v", i, want[i], out[i])
		}
	}

	// A signed source axis keeps targets as given.
	rg, err = NewRegridder(lat, []float64{-8, -4}, []float64{50.5}, []float64{354})
	if err != nil {
		t.Fatalf("NewRegridder: %v", err)
	}
	if rg.Outside() != 1 {
		t.Errorf("expected 354 outside a signed axis, got %d outside", rg.Outside())
	}
}

// TestRegridder_NaNCorner checks that a NaN corner only matters when it has weight.
func TestRegridder_NaNCorner(t *testing.T) {
	rg, err := NewRegridder([]float64{0, 1}, []float64{0, 1}, []float64{0, 0.5}, []float64{0, 0.5})
	if err != nil {
		t.Fatalf("NewRegridder: %v", err)
	}
	out, err := rg.Apply([]float64{3, 3, 3, math.NaN()}, nil)
	if err != nil {
		t.Fatalf("Apply: %v", err)
	}
	if out[0] != 3 {
		t.Errorf("node target: expected 3, got %v", out[0])
	}
	if !math.IsNaN(out[1]) {
		t.Errorf("center target: expected NaN, got %v", out[1])
	}
}

func TestRegridder_Errors(t *testing.T) {
	tests := []struct {
		name     string
		lat, lon []float64
		tLat     []float64
		tLon     []float64
	}{
		{"too few latitudes", []float64{0}, []float64{0, 1}, []float64{0}, []float64{0}},
		{"non-monotonic longitude", []float64{0, 1}, []float64{0, 2, 1}, []float64{0}, []float64{0}},
		{"target length mismatch", []float64{0, 1}, []float64{0, 1}, []float64{0, 1}, []float64{0}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := NewRegridder(tt.lat, tt.lon, tt.tLat, tt.tLon); err == nil {
				t.Errorf("expected error")
			}
		})
	}

	rg, err := NewRegridder([]float64{0, 1}, []float64{0, 1}, []float64{0}, []float64{0})
	if err != nil {
		t.Fatalf("NewRegridder: %v", err)
	}
	if _, err := rg.Apply([]float64{1, 2, 3}, nil); err == nil {
		t.Errorf("expected error for wrong field size")
	}
}
