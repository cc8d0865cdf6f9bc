// Package bry writes CROCO open-boundary forcing files.
package bry

import (
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/fhs/go-netcdf/netcdf"
	"github.com/google/uuid"

	"go.ngs.io/ocean-forcing/internal/domain"
)

// FillValue marks land and never-computed cells in the file.
const FillValue = -999.9

// MasterTimeDim is the time dimension shared by the whole file.
const MasterTimeDim = "bry_time"

// Header carries everything the file needs besides the boundary slices.
type Header struct {
	Title       string
	RunID       string
	Offset      time.Time // Origin of every time axis, in days.
	Cycle       float64   // cycle_length attribute of the time axes.
	XiRho       int
	EtaRho      int
	Coordinate  *domain.VerticalCoordinate
	MasterTime  []float64
	Descriptors map[string]domain.VariableDescriptor
}

// Writer creates boundary files at a fixed path.
type Writer struct {
	path string
}

// NewWriter returns a writer for path. Existing files are overwritten.
func NewWriter(path string) *Writer {
	return &Writer{path: path}
}

// Path returns the output file path.
func (w *Writer) Path() string {
	return w.path
}

type dataVar struct {
	slice *domain.BoundarySlice
	v     netcdf.Var
}

// Write declares the schema for every slice and writes header and data.
// Slices sharing a time dimension must share the same time axis.
func (w *Writer) Write(h Header, slices []*domain.BoundarySlice) error {
	if h.Coordinate == nil {
		return fmt.Errorf("boundary header has no vertical coordinate")
	}
	if len(h.MasterTime) == 0 {
		return fmt.Errorf("boundary header has no master time axis")
	}
	if h.XiRho < 2 || h.EtaRho < 2 {
		return fmt.Errorf("%w: rho grid is %dx%d, need at least 2x2", domain.ErrShape, h.EtaRho, h.XiRho)
	}
	if h.RunID == "" {
		h.RunID = uuid.NewString()
	}

	axes, err := timeAxes(h, slices)
	if err != nil {
		return err
	}

	ds, err := netcdf.CreateFile(w.path, netcdf.CLOBBER)
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}
	defer func() { _ = ds.Close() }()

	spec := h.Coordinate.Spec()
	dims := make(map[string]netcdf.Dim)
	for _, d := range []struct {
		name string
		n    int
	}{
		{"one", 1},
		{"s_rho", spec.N},
		{"s_w", spec.N + 1},
		{"xi_rho", h.XiRho},
		{"eta_rho", h.EtaRho},
		{"xi_u", h.XiRho - 1},
		{"eta_v", h.EtaRho - 1},
	} {
		if dims[d.name], err = ds.AddDim(d.name, uint64(d.n)); err != nil { //nolint:gosec // G115: sizes are positive.
			return fmt.Errorf("failed to add dimension %s: %w", d.name, err)
		}
	}
	names := sortedKeys(axes)
	for _, name := range names {
		if dims[name], err = ds.AddDim(name, uint64(len(axes[name]))); err != nil {
			return fmt.Errorf("failed to add dimension %s: %w", name, err)
		}
	}

	if err := writeGlobalAttrs(ds, h); err != nil {
		return err
	}

	scalars := map[string]float64{
		"theta_s": spec.ThetaS,
		"theta_b": spec.ThetaB,
		"hc":      spec.Hc,
		"tstart":  h.MasterTime[0],
		"tend":    h.MasterTime[len(h.MasterTime)-1],
	}
	scalarVars := make(map[string]netcdf.Var, len(scalars))
	for _, name := range sortedKeys(scalars) {
		if scalarVars[name], err = ds.AddVar(name, netcdf.DOUBLE, []netcdf.Dim{dims["one"]}); err != nil {
			return fmt.Errorf("failed to add variable %s: %w", name, err)
		}
	}
	vtransform, err := ds.AddVar("Vtransform", netcdf.INT, []netcdf.Dim{dims["one"]})
	if err != nil {
		return fmt.Errorf("failed to add variable Vtransform: %w", err)
	}

	levels := map[string]struct {
		dim    string
		values []float64
	}{
		"sc_r": {"s_rho", h.Coordinate.Sigma(domain.PointRho)},
		"sc_w": {"s_w", h.Coordinate.Sigma(domain.PointW)},
		"Cs_r": {"s_rho", widen(h.Coordinate.Stretching(domain.PointRho))},
		"Cs_w": {"s_w", widen(h.Coordinate.Stretching(domain.PointW))},
	}
	levelVars := make(map[string]netcdf.Var, len(levels))
	for _, name := range sortedKeys(levels) {
		if levelVars[name], err = ds.AddVar(name, netcdf.DOUBLE, []netcdf.Dim{dims[levels[name].dim]}); err != nil {
			return fmt.Errorf("failed to add variable %s: %w", name, err)
		}
	}

	timeVars := make(map[string]netcdf.Var, len(axes))
	for _, name := range names {
		v, err := ds.AddVar(name, netcdf.DOUBLE, []netcdf.Dim{dims[name]})
		if err != nil {
			return fmt.Errorf("failed to add variable %s: %w", name, err)
		}
		if err := writeText(v.Attr("units"), "day"); err != nil {
			return err
		}
		if err := writeText(v.Attr("long_name"), "days since "+h.Offset.Format("2006-01-02")); err != nil {
			return err
		}
		if err := v.Attr("cycle_length").WriteFloat64s([]float64{h.Cycle}); err != nil {
			return fmt.Errorf("failed to write cycle_length: %w", err)
		}
		timeVars[name] = v
	}

	data := make([]dataVar, 0, len(slices))
	for _, s := range slices {
		desc := h.Descriptors[s.Variable]
		horiz := horizontalDim(desc.Family, s.Side)
		if n, _ := dims[horiz].Len(); int(n) != s.Points { //nolint:gosec // G115: dimension lengths fit in int.
			return fmt.Errorf("%w: %s has %d points, dimension %s has %d", domain.ErrShape, s.Name(), s.Points, horiz, n)
		}
		vdims := []netcdf.Dim{dims[desc.TimeDim]}
		if s.Levels > 0 {
			if s.Levels != spec.N {
				return fmt.Errorf("%w: %s has %d levels, expected %d", domain.ErrShape, s.Name(), s.Levels, spec.N)
			}
			vdims = append(vdims, dims["s_rho"])
		}
		vdims = append(vdims, dims[horiz])

		v, err := ds.AddVar(s.Name(), netcdf.FLOAT, vdims)
		if err != nil {
			return fmt.Errorf("failed to add variable %s: %w", s.Name(), err)
		}
		if err := v.Attr("_FillValue").WriteFloat32s([]float32{FillValue}); err != nil {
			return fmt.Errorf("failed to write _FillValue: %w", err)
		}
		if err := writeText(v.Attr("units"), desc.Units); err != nil {
			return err
		}
		if err := writeText(v.Attr("long_name"), desc.LongName+", "+string(s.Side)+" boundary"); err != nil {
			return err
		}
		data = append(data, dataVar{slice: s, v: v})
	}

	if err := ds.EndDef(); err != nil {
		return fmt.Errorf("failed to end define mode: %w", err)
	}

	for name, v := range scalarVars {
		if err := v.WriteFloat64s([]float64{scalars[name]}); err != nil {
			return fmt.Errorf("failed to write %s: %w", name, err)
		}
	}
	if err := vtransform.WriteInt32s([]int32{int32(spec.Transform.Vtransform())}); err != nil { //nolint:gosec // G115: 1 or 2.
		return fmt.Errorf("failed to write Vtransform: %w", err)
	}
	for name, v := range levelVars {
		if err := v.WriteFloat64s(levels[name].values); err != nil {
			return fmt.Errorf("failed to write %s: %w", name, err)
		}
	}
	for name, v := range timeVars {
		if err := v.WriteFloat64s(axes[name]); err != nil {
			return fmt.Errorf("failed to write %s: %w", name, err)
		}
	}
	for _, d := range data {
		if err := d.v.WriteFloat32s(packSlice(d.slice)); err != nil {
			return fmt.Errorf("failed to write %s: %w", d.slice.Name(), err)
		}
	}
	return nil
}

// timeAxes collects one time axis per time dimension, starting with bry_time.
func timeAxes(h Header, slices []*domain.BoundarySlice) (map[string][]float64, error) {
	axes := map[string][]float64{MasterTimeDim: h.MasterTime}
	for _, s := range slices {
		desc, ok := h.Descriptors[s.Variable]
		if !ok {
			return nil, fmt.Errorf("%w: %q has no descriptor", domain.ErrUnknownVariable, s.Variable)
		}
		if len(s.Times) == 0 {
			return nil, fmt.Errorf("%w: %s has no time steps", domain.ErrShape, s.Name())
		}
		prev, ok := axes[desc.TimeDim]
		if !ok {
			axes[desc.TimeDim] = s.Times
			continue
		}
		if !sameTimes(prev, s.Times) {
			return nil, fmt.Errorf("%s: time axis differs from other variables on %s", s.Name(), desc.TimeDim)
		}
	}
	return axes, nil
}

// horizontalDim returns the along-boundary dimension of a family on a side.
func horizontalDim(f domain.PointFamily, side domain.Side) string {
	switch side {
	case domain.South, domain.North:
		if f == domain.FamilyU {
			return "xi_u"
		}
		return "xi_rho"
	default:
		if f == domain.FamilyV {
			return "eta_v"
		}
		return "eta_rho"
	}
}

func writeGlobalAttrs(ds netcdf.Dataset, h Header) error {
	attrs := [][2]string{
		{"title", h.Title},
		{"type", "BOUNDARY file"},
		{"run_id", h.RunID},
		{"date", time.Now().UTC().Format("2006-Jan-02")},
		{"time_origin", h.Offset.Format("2006-01-02 15:04:05")},
	}
	for _, a := range attrs {
		if err := writeText(ds.Attr(a[0]), a[1]); err != nil {
			return err
		}
	}
	return nil
}

func writeText(a netcdf.Attr, s string) error {
	if s == "" {
		return nil
	}
	if err := a.WriteBytes([]byte(s)); err != nil {
		return fmt.Errorf("failed to write text attribute: %w", err)
	}
	return nil
}

// packSlice converts a slice to float32, replacing NaN with FillValue.
func packSlice(s *domain.BoundarySlice) []float32 {
	out := make([]float32, len(s.Data))
	for i, v := range s.Data {
		if math.IsNaN(v) {
			out[i] = FillValue
			continue
		}
		out[i] = float32(v)
	}
	return out
}

func widen(in []float32) []float64 {
	out := make([]float64, len(in))
	for i, v := range in {
		out[i] = float64(v)
	}
	return out
}

func sameTimes(a, b []float64) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if math.Abs(a[i]-b[i]) > 1e-9 {
			return false
		}
	}
	return true
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
