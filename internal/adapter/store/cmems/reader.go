// Package cmems reads downloaded ocean product files (one variable per file,
// named cmems-<kind>-*.nc) into domain source fields.
package cmems

import (
	"fmt"
	"math"
	"path/filepath"
	"reflect"
	"sort"
	"strings"

	"github.com/batchatco/go-native-netcdf/netcdf"
	"github.com/batchatco/go-native-netcdf/netcdf/api"

	"go.ngs.io/ocean-forcing/internal/domain"
)

// DefaultVariableNames maps model kinds to the product's variable names.
var DefaultVariableNames = map[string]string{
	"zeta": "zos",
	"ubar": "ubar",
	"vbar": "vbar",
	"u":    "uo",
	"v":    "vo",
	"temp": "thetao",
	"salt": "so",
	"DIC":  "dissic",
	"TALK": "talk",
	"NO3":  "no3",
	"PO4":  "po4",
	"NH4":  "nh4",
	"Si":   "si",
	"FER":  "fe",
	"O2":   "o2",
	"pH":   "ph",
}

// Reader loads source fields from a download directory.
type Reader struct {
	dir   string
	names map[string]string
}

// NewReader creates a reader for dir. names overrides DefaultVariableNames per kind.
func NewReader(dir string, names map[string]string) *Reader {
	merged := make(map[string]string, len(DefaultVariableNames)+len(names))
	for k, v := range DefaultVariableNames {
		merged[k] = v
	}
	for k, v := range names {
		merged[k] = v
	}
	return &Reader{dir: dir, names: merged}
}

// Path returns the product file for kind. The first match in lexical order wins.
func (r *Reader) Path(kind string) (string, error) {
	pattern := filepath.Join(r.dir, "cmems-"+kind+"-*.nc")
	matches, err := filepath.Glob(pattern)
	if err != nil {
		return "", fmt.Errorf("invalid file pattern %s: %w", pattern, err)
	}
	if len(matches) == 0 {
		return "", fmt.Errorf("no product file for %s (pattern %s)", kind, pattern)
	}
	sort.Strings(matches)
	return matches[0], nil
}

// Load reads the product variable for kind with its time, depth, latitude and
// longitude axes. Packed values are unpacked and fill values become NaN.
func (r *Reader) Load(kind string) (*domain.SourceField, error) {
	name, ok := r.names[kind]
	if !ok {
		return nil, fmt.Errorf("%w: %q has no product variable", domain.ErrUnknownVariable, kind)
	}
	path, err := r.Path(kind)
	if err != nil {
		return nil, err
	}

	nc, err := netcdf.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer nc.Close()

	vg, err := nc.GetVarGetter(name)
	if err != nil {
		return nil, fmt.Errorf("variable %s not found in %s: %w", name, path, err)
	}

	field := &domain.SourceField{Kind: kind, Depth: []float64{0}}
	var timeDim string
	for _, dim := range vg.Dimensions() {
		lower := strings.ToLower(dim)
		switch {
		case strings.Contains(lower, "time"):
			timeDim = dim
		case strings.Contains(lower, "depth"):
			if field.Depth, err = coordValues(nc, dim); err != nil {
				return nil, err
			}
		case strings.Contains(lower, "lat"):
			if field.Lat, err = coordValues(nc, dim); err != nil {
				return nil, err
			}
		case strings.Contains(lower, "lon"):
			if field.Lon, err = coordValues(nc, dim); err != nil {
				return nil, err
			}
		default:
			return nil, fmt.Errorf("%w: unexpected dimension %q on %s", domain.ErrShape, dim, name)
		}
	}
	if timeDim == "" || field.Lat == nil || field.Lon == nil {
		return nil, fmt.Errorf("%w: %s needs time, latitude and longitude dimensions, has %v",
			domain.ErrShape, name, vg.Dimensions())
	}
	if field.Time, err = readTime(nc, timeDim); err != nil {
		return nil, err
	}

	raw, err := vg.Values()
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", name, err)
	}
	if field.Data, err = flatten(raw); err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", name, err)
	}
	unpack(field.Data, vg.Attributes())

	if err := field.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return field, nil
}

// unpack applies _FillValue/missing_value, scale_factor and add_offset in place.
func unpack(data []float64, attrs api.AttributeMap) {
	var fills []float64
	for _, key := range []string{"_FillValue", "missing_value"} {
		if v, ok := attrFloat(attrs, key); ok {
			fills = append(fills, v)
		}
	}
	scale, hasScale := attrFloat(attrs, "scale_factor")
	offset, _ := attrFloat(attrs, "add_offset")
	if !hasScale {
		scale = 1
	}

	for i, v := range data {
		if isFill(v, fills) {
			data[i] = math.NaN()
			continue
		}
		data[i] = v*scale + offset
	}
}

func isFill(v float64, fills []float64) bool {
	if math.IsNaN(v) {
		return true
	}
	for _, f := range fills {
		if v == f {
			return true
		}
	}
	return false
}

// coordValues reads a 1-D coordinate variable as float64.
func coordValues(nc api.Group, name string) ([]float64, error) {
	v, err := nc.GetVariable(name)
	if err != nil {
		return nil, fmt.Errorf("coordinate %s not found: %w", name, err)
	}
	out, err := flatten(v.Values)
	if err != nil {
		return nil, fmt.Errorf("coordinate %s: %w", name, err)
	}
	return out, nil
}

// attrFloat returns the first value of a numeric attribute.
func attrFloat(attrs api.AttributeMap, key string) (float64, bool) {
	if attrs == nil {
		return 0, false
	}
	raw, ok := attrs.Get(key)
	if !ok {
		return 0, false
	}
	vals, err := flatten(raw)
	if err != nil || len(vals) == 0 {
		return 0, false
	}
	return vals[0], true
}

// attrString returns a text attribute.
func attrString(attrs api.AttributeMap, key string) (string, bool) {
	if attrs == nil {
		return "", false
	}
	raw, ok := attrs.Get(key)
	if !ok {
		return "", false
	}
	switch s := raw.(type) {
	case string:
		return s, true
	case []byte:
		return string(s), true
	}
	return "", false
}

// flatten converts the nested typed slices returned by the NetCDF reader into
// a flat row-major float64 slice. Scalars become a single value.
func flatten(v any) ([]float64, error) {
	var out []float64
	var walk func(rv reflect.Value) error
	walk = func(rv reflect.Value) error {
		switch rv.Kind() {
		case reflect.Slice, reflect.Array:
			for i := 0; i < rv.Len(); i++ {
				if err := walk(rv.Index(i)); err != nil {
					return err
				}
			}
		case reflect.Float32, reflect.Float64:
			out = append(out, rv.Float())
		case reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64, reflect.Int:
			out = append(out, float64(rv.Int()))
		case reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uint:
			out = append(out, float64(rv.Uint()))
		default:
			return fmt.Errorf("unsupported value type %s", rv.Type())
		}
		return nil
	}
	if v == nil {
		return nil, fmt.Errorf("no values")
	}
	if err := walk(reflect.ValueOf(v)); err != nil {
		return nil, err
	}
	return out, nil
}
