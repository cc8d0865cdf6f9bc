package domain

import (
	"fmt"
	"math"
	"strings"

	"gonum.org/v1/gonum/floats"
)

// Transform selects the s-coordinate formulation.
type Transform int

const (
	// Old1994 is the Song & Haidvogel (1994) transform (CROCO Vtransform=1).
	Old1994 Transform = iota + 1
	// New2008 is the Shchepetkin (2008) transform (CROCO Vtransform=2).
	New2008
)

// String returns the configuration name of the transform.
func (t Transform) String() string {
	switch t {
	case Old1994:
		return "old1994"
	case New2008:
		return "new2008"
	default:
		return fmt.Sprintf("Transform(%d)", int(t))
	}
}

// Vtransform returns the CROCO Vtransform code.
func (t Transform) Vtransform() int {
	return int(t)
}

// ParseTransform accepts "old1994", "new2008" or the CROCO codes "1" and "2".
func ParseTransform(s string) (Transform, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "old1994", "1":
		return Old1994, nil
	case "new2008", "2":
		return New2008, nil
	default:
		return 0, fmt.Errorf("%w: %q (expected old1994 or new2008)", ErrUnknownTransform, s)
	}
}

// VerticalPoint selects rho (layer centers) or w (layer interfaces) levels.
type VerticalPoint int

const (
	// PointRho selects the N layer centers.
	PointRho VerticalPoint = iota
	// PointW selects the N+1 layer interfaces.
	PointW
)

// DefaultDcrit is the minimum water column thickness in meters.
const DefaultDcrit = 0.2

// VerticalCoordinateSpec holds the s-coordinate parameters for a run.
type VerticalCoordinateSpec struct {
	Transform Transform
	ThetaS    float64 // Surface stretching parameter.
	ThetaB    float64 // Bottom stretching parameter.
	N         int     // Number of rho levels.
	Hc        float64 // Critical depth in meters.
	Dcrit     float64 // Wetting/drying threshold in meters.
}

// Validate checks the spec for configuration errors.
func (s VerticalCoordinateSpec) Validate() error {
	if s.Transform != Old1994 && s.Transform != New2008 {
		return fmt.Errorf("%w: %v", ErrUnknownTransform, s.Transform)
	}
	if s.N <= 0 {
		return fmt.Errorf("%w: N must be positive, got %d", ErrInvalidSpec, s.N)
	}
	if s.Hc < 0 || math.IsNaN(s.Hc) {
		return fmt.Errorf("%w: hc must be >= 0, got %v", ErrInvalidSpec, s.Hc)
	}
	if s.ThetaS < 0 || s.ThetaB < 0 {
		return fmt.Errorf("%w: theta_s and theta_b must be >= 0", ErrInvalidSpec)
	}
	if s.Transform == Old1994 && s.ThetaB > 1 {
		return fmt.Errorf("%w: old1994 requires 0 <= theta_b <= 1, got %v", ErrInvalidSpec, s.ThetaB)
	}
	return nil
}

// stretching is one s-coordinate formulation: a stretching curve and a depth reconstruction.
type stretching interface {
	curve(sigma float64) float64
	depth(sigma, cs, zeta, h float64) float64
	floor(h float64) float64
}

// shchepetkin2008 implements the new2008 transform.
type shchepetkin2008 struct {
	thetaS, thetaB, hc float64
}

func (s shchepetkin2008) curve(sigma float64) float64 {
	var csrf float64
	if s.thetaS > 0 {
		csrf = (1 - math.Cosh(s.thetaS*sigma)) / (math.Cosh(s.thetaS) - 1)
	} else {
		csrf = -sigma * sigma
	}
	if s.thetaB > 0 {
		return (math.Exp(s.thetaB*(csrf+1))-1)/(math.Exp(s.thetaB)-1) - 1
	}
	return csrf
}

func (s shchepetkin2008) depth(sigma, cs, zeta, h float64) float64 {
	ah := math.Abs(h)
	if ah+s.hc == 0 {
		// Limit of the ratio as |H| -> 0 with hc = 0.
		return zeta + (zeta+h)*cs
	}
	return zeta + (zeta+h)*(s.hc*sigma+cs*ah)/(ah+s.hc)
}

func (s shchepetkin2008) floor(h float64) float64 { return h }

// song1994 implements the old1994 transform.
type song1994 struct {
	thetaS, thetaB, hc float64
}

// minOldDepth replaces zero bathymetry so that 1/H stays finite.
const minOldDepth = 1e-2

func (s song1994) curve(sigma float64) float64 {
	if s.thetaS == 0 {
		// Both terms tend to sigma as theta_s -> 0.
		return sigma
	}
	surface := math.Sinh(s.thetaS*sigma) / math.Sinh(s.thetaS)
	bottom := 0.5*math.Tanh(s.thetaS*(sigma+0.5))/math.Tanh(0.5*s.thetaS) - 0.5
	return (1-s.thetaB)*surface + s.thetaB*bottom
}

func (s song1994) depth(sigma, cs, zeta, h float64) float64 {
	z0 := s.hc*(sigma-cs) + cs*h
	return z0 + zeta*(1+z0/h)
}

func (s song1994) floor(h float64) float64 {
	if h == 0 {
		return minOldDepth
	}
	return h
}

// VerticalCoordinate computes s-coordinate depths for a fixed spec.
// The stretching curves are evaluated once at construction.
type VerticalCoordinate struct {
	spec   VerticalCoordinateSpec
	impl   stretching
	sigmaR []float64
	sigmaW []float64
	csR    []float64
	csW    []float64
}

// NewVerticalCoordinate validates spec and binds the selected transform.
func NewVerticalCoordinate(spec VerticalCoordinateSpec) (*VerticalCoordinate, error) {
	if err := spec.Validate(); err != nil {
		return nil, err
	}

	var impl stretching
	switch spec.Transform {
	case New2008:
		impl = shchepetkin2008{thetaS: spec.ThetaS, thetaB: spec.ThetaB, hc: spec.Hc}
	case Old1994:
		impl = song1994{thetaS: spec.ThetaS, thetaB: spec.ThetaB, hc: spec.Hc}
	}

	n := float64(spec.N)
	vc := &VerticalCoordinate{
		spec:   spec,
		impl:   impl,
		sigmaW: make([]float64, spec.N+1),
		sigmaR: make([]float64, spec.N),
	}
	floats.Span(vc.sigmaW, -1, 0)
	for k := 1; k <= spec.N; k++ {
		vc.sigmaR[k-1] = (float64(k) - n - 0.5) / n
	}

	vc.csR = make([]float64, len(vc.sigmaR))
	for k, sc := range vc.sigmaR {
		vc.csR[k] = impl.curve(sc)
	}
	vc.csW = make([]float64, len(vc.sigmaW))
	for k, sc := range vc.sigmaW {
		vc.csW[k] = impl.curve(sc)
	}

	return vc, nil
}

// Spec returns the parameters the coordinate was built with.
func (vc *VerticalCoordinate) Spec() VerticalCoordinateSpec {
	return vc.spec
}

// Sigma returns the uniform sigma levels for the point type.
func (vc *VerticalCoordinate) Sigma(p VerticalPoint) []float64 {
	if p == PointW {
		return append([]float64(nil), vc.sigmaW...)
	}
	return append([]float64(nil), vc.sigmaR...)
}

// Stretching returns the stretching curve Cs for the point type as float32.
func (vc *VerticalCoordinate) Stretching(p VerticalPoint) []float32 {
	cs := vc.csR
	if p == PointW {
		cs = vc.csW
	}
	out := make([]float32, len(cs))
	for i, v := range cs {
		out[i] = float32(v)
	}
	return out
}

// Levels is the result of a depth computation.
type Levels struct {
	Z     [][]float64 // Z[level][point], meters, positive up, zero at rest sea level.
	Cs    []float32   // Stretching curve at each level.
	Sigma []float64   // Sigma coordinate at each level.
}

// Column returns the depths of every level at one horizontal point.
func (l Levels) Column(i int) []float64 {
	col := make([]float64, len(l.Z))
	for k := range l.Z {
		col[k] = l.Z[k][i]
	}
	return col
}

// Depths computes level depths for each bathymetry point h[i] and sea surface height zeta[i].
// zeta may have length 1 (broadcast) or len(h). h is positive down.
func (vc *VerticalCoordinate) Depths(p VerticalPoint, zeta, h []float64) (Levels, error) {
	if len(zeta) != 1 && len(zeta) != len(h) {
		return Levels{}, fmt.Errorf("%w: zeta has %d values, bathymetry %d", ErrShape, len(zeta), len(h))
	}

	sigma, cs := vc.sigmaR, vc.csR
	if p == PointW {
		sigma, cs = vc.sigmaW, vc.csW
	}

	z := make([][]float64, len(sigma))
	for k := range z {
		z[k] = make([]float64, len(h))
	}
	for i, hi := range h {
		zi := zeta[0]
		if len(zeta) > 1 {
			zi = zeta[i]
		}
		hi = vc.impl.floor(hi)
		if zi < vc.spec.Dcrit-hi {
			zi = vc.spec.Dcrit - hi
		}
		for k := range sigma {
			z[k][i] = vc.impl.depth(sigma[k], cs[k], zi, hi)
		}
	}

	return Levels{Z: z, Cs: vc.Stretching(p), Sigma: append([]float64(nil), sigma...)}, nil
}

// RhoDepths returns the N rho-level depths at a single point with sea surface height zeta.
func (vc *VerticalCoordinate) RhoDepths(zeta, h float64) []float64 {
	h = vc.impl.floor(h)
	if zeta < vc.spec.Dcrit-h {
		zeta = vc.spec.Dcrit - h
	}
	out := make([]float64, len(vc.sigmaR))
	for k := range vc.sigmaR {
		out[k] = vc.impl.depth(vc.sigmaR[k], vc.csR[k], zeta, h)
	}
	return out
}
