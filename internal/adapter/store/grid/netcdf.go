// Package grid reads the CROCO model grid from a NetCDF file.
package grid

import (
	"fmt"

	"github.com/fhs/go-netcdf/netcdf"

	"go.ngs.io/ocean-forcing/internal/domain"
)

// Store loads the model grid from a local NetCDF file.
type Store struct {
	path string
}

// NewStore creates a grid store for the file at path.
func NewStore(path string) *Store {
	return &Store{path: path}
}

// Load reads the grid and checks its invariants.
func (s *Store) Load() (*domain.Grid, error) {
	return Load(s.path)
}

// Load reads lon/lat/mask on rho, u, v and psi points plus the bathymetry h.
// Psi points are optional.
func Load(path string) (*domain.Grid, error) {
	nc, err := netcdf.OpenFile(path, netcdf.NOWRITE)
	if err != nil {
		return nil, fmt.Errorf("failed to open grid file: %w", err)
	}
	defer func() { _ = nc.Close() }()

	g := &domain.Grid{}
	if g.Rho, err = readPoints(nc, domain.FamilyRho); err != nil {
		return nil, err
	}
	if g.U, err = readPoints(nc, domain.FamilyU); err != nil {
		return nil, err
	}
	if g.V, err = readPoints(nc, domain.FamilyV); err != nil {
		return nil, err
	}
	if _, err := nc.Var("lon_psi"); err == nil {
		if g.Psi, err = readPoints(nc, domain.FamilyPsi); err != nil {
			return nil, err
		}
	}

	h, shape, err := readVar(nc, "h")
	if err != nil {
		return nil, err
	}
	if len(shape) != 2 || shape[0] != g.Rho.Rows || shape[1] != g.Rho.Cols {
		return nil, fmt.Errorf("%w: h is %v, rho grid is %dx%d", domain.ErrShape, shape, g.Rho.Rows, g.Rho.Cols)
	}
	g.H = h

	if err := g.Validate(); err != nil {
		return nil, fmt.Errorf("invalid grid %s: %w", path, err)
	}
	return g, nil
}

// readPoints reads lon_<f>, lat_<f> and mask_<f>. A missing mask means all water.
func readPoints(nc netcdf.Dataset, f domain.PointFamily) (domain.PointGrid, error) {
	lon, shape, err := readVar(nc, "lon_"+string(f))
	if err != nil {
		return domain.PointGrid{}, err
	}
	if len(shape) != 2 {
		return domain.PointGrid{}, fmt.Errorf("%w: lon_%s must be 2-D, got %dD", domain.ErrShape, f, len(shape))
	}
	lat, latShape, err := readVar(nc, "lat_"+string(f))
	if err != nil {
		return domain.PointGrid{}, err
	}
	if len(latShape) != 2 || latShape[0] != shape[0] || latShape[1] != shape[1] {
		return domain.PointGrid{}, fmt.Errorf("%w: lat_%s is %v, lon_%s is %v", domain.ErrShape, f, latShape, f, shape)
	}

	p := domain.PointGrid{Rows: shape[0], Cols: shape[1], Lon: lon, Lat: lat}
	if _, err := nc.Var("mask_" + string(f)); err != nil {
		p.Mask = make([]float64, len(lon))
		for i := range p.Mask {
			p.Mask[i] = 1
		}
		return p, nil
	}
	if p.Mask, _, err = readVar(nc, "mask_"+string(f)); err != nil {
		return domain.PointGrid{}, err
	}
	return p, nil
}

// readVar reads a whole variable as flat float64 values together with its shape.
func readVar(nc netcdf.Dataset, name string) ([]float64, []int, error) {
	v, err := nc.Var(name)
	if err != nil {
		return nil, nil, fmt.Errorf("variable %s not found: %w", name, err)
	}
	dims, err := v.Dims()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to get dimensions of %s: %w", name, err)
	}
	shape := make([]int, len(dims))
	total := 1
	for i, d := range dims {
		n, err := d.Len()
		if err != nil {
			return nil, nil, fmt.Errorf("failed to get dimension length of %s: %w", name, err)
		}
		shape[i] = int(n) //nolint:gosec // G115: dimension lengths fit in int.
		total *= shape[i]
	}
	data, err := readFloat64s(v, total)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read %s: %w", name, err)
	}
	return data, shape, nil
}

// readFloat64s reads n values of any numeric type as float64 and applies scale_factor.
func readFloat64s(v netcdf.Var, n int) ([]float64, error) {
	varType, err := v.Type()
	if err != nil {
		return nil, fmt.Errorf("failed to get variable type: %w", err)
	}

	flat := make([]float64, n)
	switch varType {
	case netcdf.DOUBLE:
		if err := v.ReadFloat64s(flat); err != nil {
			return nil, fmt.Errorf("failed to read float64: %w", err)
		}
	case netcdf.FLOAT:
		buf := make([]float32, n)
		if err := v.ReadFloat32s(buf); err != nil {
			return nil, fmt.Errorf("failed to read float32: %w", err)
		}
		for i, val := range buf {
			flat[i] = float64(val)
		}
	case netcdf.INT:
		buf := make([]int32, n)
		if err := v.ReadInt32s(buf); err != nil {
			return nil, fmt.Errorf("failed to read int32: %w", err)
		}
		for i, val := range buf {
			flat[i] = float64(val)
		}
	case netcdf.SHORT:
		buf := make([]int16, n)
		if err := v.ReadInt16s(buf); err != nil {
			return nil, fmt.Errorf("failed to read int16: %w", err)
		}
		for i, val := range buf {
			flat[i] = float64(val)
		}
	case netcdf.BYTE, netcdf.UBYTE, netcdf.CHAR, netcdf.USHORT, netcdf.UINT, netcdf.INT64, netcdf.UINT64, netcdf.STRING:
		return nil, fmt.Errorf("unsupported data type: %v (expected DOUBLE, FLOAT, INT, or SHORT)", varType)
	}

	if scale, ok := readScalarAttr(v, "scale_factor"); ok && scale != 0 {
		for i := range flat {
			flat[i] *= scale
		}
	}
	return flat, nil
}

// readScalarAttr returns the first value of a numeric attribute.
func readScalarAttr(v netcdf.Var, name string) (float64, bool) {
	a := v.Attr(name)
	if n, err := a.Len(); err != nil || n == 0 {
		return 0, false
	}
	buf64 := make([]float64, 1)
	if err := a.ReadFloat64s(buf64); err == nil {
		return buf64[0], true
	}
	buf32 := make([]float32, 1)
	if err := a.ReadFloat32s(buf32); err == nil {
		return float64(buf32[0]), true
	}
	bufi := make([]int32, 1)
	if err := a.ReadInt32s(bufi); err == nil {
		return float64(bufi[0]), true
	}
	return 0, false
}
