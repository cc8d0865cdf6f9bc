package domain

import (
	"fmt"
	"math"
	"sort"
)

// ValidRange is the physically plausible interval for a variable kind.
type ValidRange struct {
	Min float64
	Max float64
}

// Contains reports whether v lies in [Min, Max]. NaN is never contained.
func (r ValidRange) Contains(v float64) bool {
	return v >= r.Min && v <= r.Max
}

// VariableDescriptor describes how one forcing variable is processed.
type VariableDescriptor struct {
	Kind        string      // Model variable name, e.g. "temp".
	Family      PointFamily // Horizontal grid point family.
	Valid       ValidRange  // Range used by the gap filler.
	ThreeD      bool        // Has a vertical dimension.
	OwnTimeAxis bool        // Keeps its native time axis instead of the master one.
	TimeDim     string      // Time dimension name in the boundary file.
	Units       string
	LongName    string
	Offset      float64 // Added after interpolation.
	Factor      float64 // Multiplied after interpolation.
}

// Apply returns offset + v*factor, leaving NaN untouched.
func (d VariableDescriptor) Apply(v float64) float64 {
	if math.IsNaN(v) {
		return v
	}
	return d.Offset + v*d.Factor
}

var (
	rangeTracer   = ValidRange{Min: 0, Max: 40}
	rangeVelocity = ValidRange{Min: -5, Max: 5}
	rangeCarbon   = ValidRange{Min: 1, Max: 3}
	rangeNutrient = ValidRange{Min: 0, Max: 100}
	rangeOxygen   = ValidRange{Min: 0, Max: 400}
	rangePH       = ValidRange{Min: 7.5, Max: 8.5}
)

// builtinDescriptors lists the kinds the boundary file knows about.
var builtinDescriptors = []VariableDescriptor{
	{Kind: "zeta", Family: FamilyRho, Valid: rangeVelocity, TimeDim: "zeta_time", Units: "meter", LongName: "free-surface"},
	{Kind: "ubar", Family: FamilyU, Valid: rangeVelocity, TimeDim: "v2d_time", Units: "meter second-1", LongName: "vertically integrated u-momentum component"},
	{Kind: "vbar", Family: FamilyV, Valid: rangeVelocity, TimeDim: "v2d_time", Units: "meter second-1", LongName: "vertically integrated v-momentum component"},
	{Kind: "u", Family: FamilyU, Valid: rangeVelocity, ThreeD: true, TimeDim: "v3d_time", Units: "meter second-1", LongName: "u-momentum component"},
	{Kind: "v", Family: FamilyV, Valid: rangeVelocity, ThreeD: true, TimeDim: "v3d_time", Units: "meter second-1", LongName: "v-momentum component"},
	{Kind: "temp", Family: FamilyRho, Valid: rangeTracer, ThreeD: true, TimeDim: "temp_time", Units: "Celsius", LongName: "potential temperature"},
	{Kind: "salt", Family: FamilyRho, Valid: rangeTracer, ThreeD: true, TimeDim: "salt_time", Units: "PSU", LongName: "salinity"},
	{Kind: "DIC", Family: FamilyRho, Valid: rangeCarbon, ThreeD: true, OwnTimeAxis: true, TimeDim: "dic_time", Units: "mol m-3", LongName: "dissolved inorganic carbon"},
	{Kind: "TALK", Family: FamilyRho, Valid: rangeCarbon, ThreeD: true, OwnTimeAxis: true, TimeDim: "talk_time", Units: "mol m-3", LongName: "total alkalinity"},
	{Kind: "NO3", Family: FamilyRho, Valid: rangeNutrient, ThreeD: true, OwnTimeAxis: true, TimeDim: "no3_time", Units: "mmol m-3", LongName: "nitrate"},
	{Kind: "PO4", Family: FamilyRho, Valid: rangeNutrient, ThreeD: true, OwnTimeAxis: true, TimeDim: "po4_time", Units: "mmol m-3", LongName: "phosphate"},
	{Kind: "NH4", Family: FamilyRho, Valid: rangeNutrient, ThreeD: true, OwnTimeAxis: true, TimeDim: "nh4_time", Units: "mmol m-3", LongName: "ammonium"},
	{Kind: "Si", Family: FamilyRho, Valid: rangeNutrient, ThreeD: true, OwnTimeAxis: true, TimeDim: "si_time", Units: "mmol m-3", LongName: "silicate"},
	{Kind: "FER", Family: FamilyRho, Valid: rangeNutrient, ThreeD: true, OwnTimeAxis: true, TimeDim: "fer_time", Units: "mmol m-3", LongName: "dissolved iron"},
	{Kind: "O2", Family: FamilyRho, Valid: rangeOxygen, ThreeD: true, OwnTimeAxis: true, TimeDim: "o2_time", Units: "mmol m-3", LongName: "dissolved oxygen"},
	{Kind: "pH", Family: FamilyRho, Valid: rangePH, ThreeD: true, OwnTimeAxis: true, TimeDim: "ph_time", Units: "1", LongName: "pH"},
}

// Registry maps variable kinds to descriptors.
type Registry struct {
	byKind map[string]VariableDescriptor
}

// NewRegistry returns a registry holding the built-in descriptors with unit factor.
func NewRegistry() *Registry {
	r := &Registry{byKind: make(map[string]VariableDescriptor, len(builtinDescriptors))}
	for _, d := range builtinDescriptors {
		d.Factor = 1
		r.byKind[d.Kind] = d
	}
	return r
}

// Lookup returns the descriptor for kind.
func (r *Registry) Lookup(kind string) (VariableDescriptor, error) {
	d, ok := r.byKind[kind]
	if !ok {
		return VariableDescriptor{}, fmt.Errorf("%w: %q", ErrUnknownVariable, kind)
	}
	return d, nil
}

// Register adds or replaces a descriptor.
func (r *Registry) Register(d VariableDescriptor) error {
	if d.Kind == "" {
		return fmt.Errorf("%w: descriptor without kind", ErrUnknownVariable)
	}
	if d.Valid.Min > d.Valid.Max {
		return fmt.Errorf("variable %s: valid min %v exceeds max %v", d.Kind, d.Valid.Min, d.Valid.Max)
	}
	if d.TimeDim == "" {
		d.TimeDim = "bry_time"
	}
	r.byKind[d.Kind] = d
	return nil
}

// SetScaling overrides the offset and factor of an existing kind.
func (r *Registry) SetScaling(kind string, offset, factor float64) error {
	d, err := r.Lookup(kind)
	if err != nil {
		return err
	}
	d.Offset = offset
	d.Factor = factor
	r.byKind[kind] = d
	return nil
}

// SetValidRange overrides the gap-filler range of an existing kind.
func (r *Registry) SetValidRange(kind string, vr ValidRange) error {
	d, err := r.Lookup(kind)
	if err != nil {
		return err
	}
	if vr.Min > vr.Max {
		return fmt.Errorf("variable %s: valid min %v exceeds max %v", kind, vr.Min, vr.Max)
	}
	d.Valid = vr
	r.byKind[kind] = d
	return nil
}

// All returns every descriptor sorted by kind.
func (r *Registry) All() []VariableDescriptor {
	out := make([]VariableDescriptor, 0, len(r.byKind))
	for _, d := range r.byKind {
		out = append(out, d)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Kind < out[j].Kind })
	return out
}
