package usecase

import (
	"fmt"
	"math"

	"go.ngs.io/ocean-forcing/internal/domain"
)

// MaxScoordColumns bounds the number of columns computed per request.
const MaxScoordColumns = 10000

// ScoordRequest encapsulates a level depth query
type ScoordRequest struct {
	Spec   domain.VerticalCoordinateSpec
	Depths []float64 // Bathymetry h per column, positive down
	Zeta   []float64 // Sea surface height, length 1 (broadcast) or len(Depths); empty means 0
	Point  domain.VerticalPoint
}

// ScoordResponse contains the s-coordinate levels and the depth of every level per column
type ScoordResponse struct {
	Transform  string         `json:"transform"`
	Vtransform int            `json:"vtransform"`
	Point      string         `json:"point"`
	N          int            `json:"n"`
	Sigma      []float64      `json:"sigma"`
	Cs         []float32      `json:"cs"`
	Columns    []ScoordColumn `json:"columns"`
}

// ScoordColumn holds the level depths of one column, bottom first
type ScoordColumn struct {
	H    float64   `json:"h"`
	Zeta float64   `json:"zeta"`
	Z    []float64 `json:"z"`
}

// Validate checks if the request is valid
func (r *ScoordRequest) Validate() error {
	if err := r.Spec.Validate(); err != nil {
		return err
	}
	if len(r.Depths) == 0 {
		return fmt.Errorf("at least one depth must be provided")
	}
	if len(r.Depths) > MaxScoordColumns {
		return fmt.Errorf("too many columns (%d), at most %d", len(r.Depths), MaxScoordColumns)
	}
	for _, h := range r.Depths {
		if h < 0 || math.IsNaN(h) || math.IsInf(h, 0) {
			return fmt.Errorf("depth must be a finite non-negative number, got %v", h)
		}
	}
	if len(r.Zeta) > 1 && len(r.Zeta) != len(r.Depths) {
		return fmt.Errorf("zeta must have 1 or %d values, got %d", len(r.Depths), len(r.Zeta))
	}
	if r.Point != domain.PointRho && r.Point != domain.PointW {
		return fmt.Errorf("unknown vertical point %d", r.Point)
	}
	return nil
}

// ScoordUseCase computes s-coordinate level depths
type ScoordUseCase struct{}

// NewScoordUseCase creates a new s-coordinate use case
func NewScoordUseCase() *ScoordUseCase {
	return &ScoordUseCase{}
}

// Compute validates req and returns the level depths of every column
func (uc *ScoordUseCase) Compute(req ScoordRequest) (*ScoordResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, fmt.Errorf("invalid request: %w", err)
	}

	vc, err := domain.NewVerticalCoordinate(req.Spec)
	if err != nil {
		return nil, err
	}

	zeta := req.Zeta
	if len(zeta) == 0 {
		zeta = []float64{0}
	}
	levels, err := vc.Depths(req.Point, zeta, req.Depths)
	if err != nil {
		return nil, err
	}

	point := "rho"
	if req.Point == domain.PointW {
		point = "w"
	}
	resp := &ScoordResponse{
		Transform:  req.Spec.Transform.String(),
		Vtransform: req.Spec.Transform.Vtransform(),
		Point:      point,
		N:          req.Spec.N,
		Sigma:      levels.Sigma,
		Cs:         levels.Cs,
		Columns:    make([]ScoordColumn, len(req.Depths)),
	}
	for i, h := range req.Depths {
		z := zeta[0]
		if len(zeta) > 1 {
			z = zeta[i]
		}
		resp.Columns[i] = ScoordColumn{H: h, Zeta: z, Z: levels.Column(i)}
	}
	return resp, nil
}
