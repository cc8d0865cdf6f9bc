package grid

import (
	"path/filepath"
	"testing"

	"github.com/fhs/go-netcdf/netcdf"

	"go.ngs.io/ocean-forcing/internal/domain"
)

// createGridFile writes a rows x cols rho grid with staggered u/v points.
// Bathymetry is stored as int16 with a scale_factor to exercise unpacking.
func createGridFile(t *testing.T, path string, rows, cols int, withMask bool) {
	t.Helper()
	f, err := netcdf.CreateFile(path, netcdf.CLOBBER)
	if err != nil {
		t.Fatalf("create nc: %v", err)
	}
	defer func() { _ = f.Close() }()

	etaRho, _ := f.AddDim("eta_rho", uint64(rows))
	xiRho, _ := f.AddDim("xi_rho", uint64(cols))
	xiU, _ := f.AddDim("xi_u", uint64(cols-1))
	etaV, _ := f.AddDim("eta_v", uint64(rows-1))

	type family struct {
		name       string
		dims       []netcdf.Dim
		rows, cols int
		dlon, dlat float64
	}
	families := []family{
		{"rho", []netcdf.Dim{etaRho, xiRho}, rows, cols, 0, 0},
		{"u", []netcdf.Dim{etaRho, xiU}, rows, cols - 1, 0.5, 0},
		{"v", []netcdf.Dim{etaV, xiRho}, rows - 1, cols, 0, 0.5},
	}
	vars := make(map[string]netcdf.Var)
	for _, fam := range families {
		for _, prefix := range []string{"lon_", "lat_", "mask_"} {
			if prefix == "mask_" && !withMask {
				continue
			}
			v, err := f.AddVar(prefix+fam.name, netcdf.DOUBLE, fam.dims)
			if err != nil {
				t.Fatalf("add var: %v", err)
			}
			vars[prefix+fam.name] = v
		}
	}
	vh, _ := f.AddVar("h", netcdf.SHORT, []netcdf.Dim{etaRho, xiRho})
	if err := vh.Attr("scale_factor").WriteFloat64s([]float64{0.5}); err != nil {
		t.Fatalf("write scale_factor: %v", err)
	}

	if err := f.EndDef(); err != nil {
		t.Fatalf("enddef: %v", err)
	}

	for _, fam := range families {
		n := fam.rows * fam.cols
		lon := make([]float64, n)
		lat := make([]float64, n)
		mask := make([]float64, n)
		for j := 0; j < fam.rows; j++ {
			for i := 0; i < fam.cols; i++ {
				lon[j*fam.cols+i] = -10 + float64(i) + fam.dlon
				lat[j*fam.cols+i] = 50 + float64(j) + fam.dlat
				mask[j*fam.cols+i] = 1
			}
		}
		mask[0] = 0
		if err := vars["lon_"+fam.name].WriteFloat64s(lon); err != nil {
			t.Fatalf("write lon: %v", err)
		}
		if err := vars["lat_"+fam.name].WriteFloat64s(lat); err != nil {
			t.Fatalf("write lat: %v", err)
		}
		if withMask {
			if err := vars["mask_"+fam.name].WriteFloat64s(mask); err != nil {
				t.Fatalf("write mask: %v", err)
			}
		}
	}

	h := make([]int16, rows*cols)
	for j := 0; j < rows; j++ {
		for i := 0; i < cols; i++ {
			h[j*cols+i] = int16(20 * (j + 1))
		}
	}
	if err := vh.WriteInt16s(h); err != nil {
		t.Fatalf("write h: %v", err)
	}
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "croco_grd.nc")
	createGridFile(t, path, 4, 5, true)

	g, err := NewStore(path).Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if g.Rho.Rows != 4 || g.Rho.Cols != 5 {
		t.Errorf("rho grid: expected 4x5, got %dx%d", g.Rho.Rows, g.Rho.Cols)
	}
	if g.U.Cols != 4 || g.V.Rows != 3 {
		t.Errorf("staggered grids: u cols %d, v rows %d", g.U.Cols, g.V.Rows)
	}
	// Stored 20 with scale_factor 0.5.
	if g.H[0] != 10 || g.H[len(g.H)-1] != 40 {
		t.Errorf("unexpected bathymetry %v", g.H)
	}
	if g.Rho.Mask[0] != 0 || g.Rho.Mask[1] != 1 {
		t.Errorf("unexpected mask %v", g.Rho.Mask[:2])
	}
	if g.Psi.Rows != 0 {
		t.Errorf("expected no psi grid, got %dx%d", g.Psi.Rows, g.Psi.Cols)
	}

	line, err := g.Line(domain.FamilyV, domain.North)
	if err != nil {
		t.Fatalf("Line: %v", err)
	}
	// v points on the last row sit between rho rows 2 and 3: (30 + 40) / 2.
	if line.H[0] != 35 {
		t.Errorf("north v bathymetry: expected 35, got %v", line.H[0])
	}
}

func TestLoad_MissingMaskMeansWater(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nomask.nc")
	createGridFile(t, path, 3, 3, false)

	g, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	for i, m := range g.Rho.Mask {
		if m != 1 {
			t.Fatalf("mask[%d] = %v, expected 1", i, m)
		}
	}
}

func TestLoad_Errors(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "missing.nc")); err == nil {
		t.Errorf("expected error for missing file")
	}

	path := filepath.Join(t.TempDir(), "noh.nc")
	f, err := netcdf.CreateFile(path, netcdf.CLOBBER)
	if err != nil {
		t.Fatalf("create nc: %v", err)
	}
	eta, _ := f.AddDim("eta_rho", 2)
	xi, _ := f.AddDim("xi_rho", 3)
	vlon, _ := f.AddVar("lon_rho", netcdf.DOUBLE, []netcdf.Dim{eta, xi})
	vlat, _ := f.AddVar("lat_rho", netcdf.DOUBLE, []netcdf.Dim{eta, xi})
	if err := f.EndDef(); err != nil {
		t.Fatalf("enddef: %v", err)
	}
	_ = vlon.WriteFloat64s(make([]float64, 6))
	_ = vlat.WriteFloat64s(make([]float64, 6))
	_ = f.Close()

	if _, err := Load(path); err == nil {
		t.Errorf("expected error for grid without u points")
	}
}
