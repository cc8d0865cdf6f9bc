// Package main generates a synthetic CROCO grid and matching ocean product files
// for demos and end-to-end runs of bry.
package main

import (
	"flag"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"time"

	"github.com/fhs/go-netcdf/netcdf"
	"github.com/sirupsen/logrus"
)

// hours since this epoch, as in the CMEMS products.
var productEpoch = time.Date(1950, 1, 1, 0, 0, 0, 0, time.UTC)

// fillValue marks land in the product files.
const fillValue = float32(1e20)

// Region defines the model grid bounds and resolution
type Region struct {
	LatMin     float64
	LonMin     float64
	Rows       int
	Cols       int
	Resolution float64 // degrees
}

// lat and lon return the rho point coordinates of row j and column i.
func (r Region) lat(j float64) float64 { return r.LatMin + j*r.Resolution }
func (r Region) lon(i float64) float64 { return r.LonMin + i*r.Resolution }

// depth is the synthetic bathymetry: a shelf deepening towards the south-east.
func (r Region) depth(j, i float64) float64 {
	d := 10 + 490*(i/float64(r.Cols-1))*(1-0.5*j/float64(r.Rows-1))
	return d
}

// land reports whether a rho point lies in the north-west coastal wedge.
func (r Region) land(j, i float64) bool {
	return i < 0.2*float64(r.Cols) && j > 0.6*float64(r.Rows)
}

var levels = []float64{0.5, 5, 10, 20, 50, 100, 200, 300, 500, 750}

func main() {
	outDir := flag.String("out", "./data/synth", "Output directory for NetCDF files")
	latMin := flag.Float64("lat-min", 53.0, "Southern edge of the model grid")
	lonMin := flag.Float64("lon-min", -6.5, "Western edge of the model grid")
	rows := flag.Int("rows", 40, "Number of rho rows")
	cols := flag.Int("cols", 50, "Number of rho columns")
	resolution := flag.Float64("resolution", 0.02, "Model grid resolution in degrees")
	startStr := flag.String("start", "2024-01-01", "First product day (YYYY-MM-DD)")
	days := flag.Int("days", 5, "Number of daily product records")

	flag.Parse()

	log := logrus.New()

	start, err := time.Parse("2006-01-02", *startStr)
	if err != nil {
		log.Fatalf("Invalid start date: %v", err)
	}
	if *rows < 3 || *cols < 3 || *days < 1 {
		log.Fatalf("Need at least 3x3 points and one day, got %dx%d and %d", *rows, *cols, *days)
	}

	region := Region{LatMin: *latMin, LonMin: *lonMin, Rows: *rows, Cols: *cols, Resolution: *resolution}

	if err := os.MkdirAll(*outDir, 0755); err != nil {
		log.Fatalf("Failed to create output directory: %v", err)
	}

	gridPath := filepath.Join(*outDir, "croco_grd.nc")
	if err := writeGrid(gridPath, region); err != nil {
		log.Fatalf("Failed to write grid: %v", err)
	}
	log.WithField("path", gridPath).Info("Generated model grid")

	times := make([]float64, *days)
	for d := range times {
		times[d] = start.AddDate(0, 0, d).Sub(productEpoch).Hours()
	}

	for _, p := range products {
		path := filepath.Join(*outDir, fmt.Sprintf("cmems-%s-synth.nc", p.kind))
		if err := writeProduct(path, region, p, times); err != nil {
			log.WithError(err).Warnf("Failed to generate %s", p.kind)
			continue
		}
		log.WithFields(logrus.Fields{"variable": p.name, "path": path}).Info("Generated product file")
	}
}

// product describes one synthetic source variable.
type product struct {
	kind    string
	name    string
	units   string
	threeD  bool
	profile func(lat, lon, depth, day float64) float64
}

var products = []product{
	{"zeta", "zos", "m", false, func(lat, lon, _, day float64) float64 {
		return 0.3*math.Sin(2*math.Pi*day/2) + 0.05*(lat-53)
	}},
	{"temp", "thetao", "degrees_C", true, func(lat, lon, z, day float64) float64 {
		return 4 + 6*math.Exp(-z/150) - 0.2*(lat-53) + 0.1*day
	}},
	{"salt", "so", "1e-3", true, func(lat, lon, z, _ float64) float64 {
		return 34.5 + 0.8*(1-math.Exp(-z/300)) + 0.05*(lon+6)
	}},
	{"u", "uo", "m s-1", true, func(lat, _, z, day float64) float64 {
		return 0.2 * math.Exp(-z/100) * math.Cos(2*math.Pi*day/3)
	}},
	{"v", "vo", "m s-1", true, func(_, lon, z, day float64) float64 {
		return 0.1 * math.Exp(-z/100) * math.Sin(2*math.Pi*day/3)
	}},
}

// writeGrid writes rho, u, v and psi coordinates, masks and bathymetry.
func writeGrid(path string, r Region) error {
	ds, err := netcdf.CreateFile(path, netcdf.CLOBBER)
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}
	defer ds.Close()

	etaRho, err := ds.AddDim("eta_rho", uint64(r.Rows))
	if err != nil {
		return err
	}
	xiRho, err := ds.AddDim("xi_rho", uint64(r.Cols))
	if err != nil {
		return err
	}
	etaV, err := ds.AddDim("eta_v", uint64(r.Rows-1))
	if err != nil {
		return err
	}
	xiU, err := ds.AddDim("xi_u", uint64(r.Cols-1))
	if err != nil {
		return err
	}

	// Staggered families: offsets in grid cells from the rho points.
	families := []struct {
		name       string
		dims       []netcdf.Dim
		rows, cols int
		dj, di     float64
	}{
		{"rho", []netcdf.Dim{etaRho, xiRho}, r.Rows, r.Cols, 0, 0},
		{"u", []netcdf.Dim{etaRho, xiU}, r.Rows, r.Cols - 1, 0, 0.5},
		{"v", []netcdf.Dim{etaV, xiRho}, r.Rows - 1, r.Cols, 0.5, 0},
		{"psi", []netcdf.Dim{etaV, xiU}, r.Rows - 1, r.Cols - 1, 0.5, 0.5},
	}

	type field struct {
		v    netcdf.Var
		data []float64
	}
	var fields []field
	for _, f := range families {
		n := f.rows * f.cols
		lon := make([]float64, n)
		lat := make([]float64, n)
		mask := make([]float64, n)
		for j := 0; j < f.rows; j++ {
			for i := 0; i < f.cols; i++ {
				jj, ii := float64(j)+f.dj, float64(i)+f.di
				idx := j*f.cols + i
				lat[idx] = r.lat(jj)
				lon[idx] = r.lon(ii)
				if !r.land(jj, ii) {
					mask[idx] = 1
				}
			}
		}
		for _, v := range []struct {
			prefix string
			data   []float64
		}{{"lon_", lon}, {"lat_", lat}, {"mask_", mask}} {
			nv, err := ds.AddVar(v.prefix+f.name, netcdf.DOUBLE, f.dims)
			if err != nil {
				return err
			}
			fields = append(fields, field{nv, v.data})
		}
	}

	h := make([]float64, r.Rows*r.Cols)
	for j := 0; j < r.Rows; j++ {
		for i := 0; i < r.Cols; i++ {
			h[j*r.Cols+i] = r.depth(float64(j), float64(i))
		}
	}
	hv, err := ds.AddVar("h", netcdf.DOUBLE, []netcdf.Dim{etaRho, xiRho})
	if err != nil {
		return err
	}
	if err := hv.Attr("units").WriteBytes([]byte("meter")); err != nil {
		return err
	}
	fields = append(fields, field{hv, h})

	if err := ds.EndDef(); err != nil {
		return err
	}
	for _, f := range fields {
		if err := f.v.WriteFloat64s(f.data); err != nil {
			return err
		}
	}
	return nil
}

// writeProduct writes one product variable on a coarse regular grid that covers
// the model grid with a margin of two source cells.
func writeProduct(path string, r Region, p product, times []float64) error {
	step := 2 * r.Resolution
	nLat := int(float64(r.Rows)*r.Resolution/step) + 5
	nLon := int(float64(r.Cols)*r.Resolution/step) + 5
	lat := make([]float32, nLat)
	for j := range lat {
		lat[j] = float32(r.LatMin + float64(j-2)*step)
	}
	lon := make([]float32, nLon)
	for i := range lon {
		lon[i] = float32(r.LonMin + float64(i-2)*step)
	}
	depth := []float64{0}
	if p.threeD {
		depth = levels
	}

	ds, err := netcdf.CreateFile(path, netcdf.CLOBBER)
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}
	defer ds.Close()

	tDim, err := ds.AddDim("time", uint64(len(times)))
	if err != nil {
		return err
	}
	yDim, err := ds.AddDim("latitude", uint64(nLat))
	if err != nil {
		return err
	}
	xDim, err := ds.AddDim("longitude", uint64(nLon))
	if err != nil {
		return err
	}
	dims := []netcdf.Dim{tDim, yDim, xDim}

	var zVar netcdf.Var
	if p.threeD {
		zDim, err := ds.AddDim("depth", uint64(len(depth)))
		if err != nil {
			return err
		}
		dims = []netcdf.Dim{tDim, zDim, yDim, xDim}
		if zVar, err = ds.AddVar("depth", netcdf.FLOAT, []netcdf.Dim{zDim}); err != nil {
			return err
		}
		if err := zVar.Attr("positive").WriteBytes([]byte("down")); err != nil {
			return err
		}
	}

	tVar, err := ds.AddVar("time", netcdf.DOUBLE, []netcdf.Dim{tDim})
	if err != nil {
		return err
	}
	if err := tVar.Attr("units").WriteBytes([]byte("hours since 1950-01-01 00:00:00")); err != nil {
		return err
	}
	yVar, err := ds.AddVar("latitude", netcdf.FLOAT, []netcdf.Dim{yDim})
	if err != nil {
		return err
	}
	xVar, err := ds.AddVar("longitude", netcdf.FLOAT, []netcdf.Dim{xDim})
	if err != nil {
		return err
	}
	dVar, err := ds.AddVar(p.name, netcdf.FLOAT, dims)
	if err != nil {
		return err
	}
	if err := dVar.Attr("units").WriteBytes([]byte(p.units)); err != nil {
		return err
	}
	if err := dVar.Attr("_FillValue").WriteFloat32s([]float32{fillValue}); err != nil {
		return err
	}

	if err := ds.EndDef(); err != nil {
		return err
	}

	if err := tVar.WriteFloat64s(times); err != nil {
		return err
	}
	if err := yVar.WriteFloat32s(lat); err != nil {
		return err
	}
	if err := xVar.WriteFloat32s(lon); err != nil {
		return err
	}
	if p.threeD {
		z := make([]float32, len(depth))
		for k, d := range depth {
			z[k] = float32(d)
		}
		if err := zVar.WriteFloat32s(z); err != nil {
			return err
		}
	}

	data := make([]float32, 0, len(times)*len(depth)*nLat*nLon)
	for t := range times {
		day := (times[t] - times[0]) / 24
		for _, z := range depth {
			for j := 0; j < nLat; j++ {
				for i := 0; i < nLon; i++ {
					// Source land and the sea floor near the coast are fill values.
					jj := (float64(lat[j]) - r.LatMin) / r.Resolution
					ii := (float64(lon[i]) - r.LonMin) / r.Resolution
					if r.land(jj, ii) || z > r.depth(clamp(jj, 0, float64(r.Rows-1)), clamp(ii, 0, float64(r.Cols-1)))+50 {
						data = append(data, fillValue)
						continue
					}
					data = append(data, float32(p.profile(float64(lat[j]), float64(lon[i]), z, day)))
				}
			}
		}
	}
	return dVar.WriteFloat32s(data)
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}
