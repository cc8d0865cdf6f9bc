package cmems

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/batchatco/go-native-netcdf/netcdf/api"
)

var referenceLayouts = []string{
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05Z07:00",
	"2006-01-02T15:04:05Z",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05.0",
	"2006-01-02 15:04",
	"2006-01-02",
}

// ParseUnits parses CF time units such as "hours since 1950-01-01 00:00:00"
// into the length of one unit and the reference time (UTC).
func ParseUnits(units string) (time.Duration, time.Time, error) {
	parts := strings.SplitN(strings.TrimSpace(units), " since ", 2)
	if len(parts) != 2 {
		return 0, time.Time{}, fmt.Errorf("time units %q are not of the form '<unit> since <date>'", units)
	}

	var step time.Duration
	switch strings.TrimSuffix(strings.ToLower(strings.TrimSpace(parts[0])), "s") {
	case "second", "sec":
		step = time.Second
	case "minute", "min":
		step = time.Minute
	case "hour", "hr", "h":
		step = time.Hour
	case "day", "d":
		step = 24 * time.Hour
	default:
		return 0, time.Time{}, fmt.Errorf("unsupported time unit %q", parts[0])
	}

	ref := strings.TrimSuffix(strings.TrimSpace(parts[1]), " UTC")
	for _, layout := range referenceLayouts {
		if t, err := time.ParseInLocation(layout, ref, time.UTC); err == nil {
			return step, t.UTC(), nil
		}
	}
	return 0, time.Time{}, fmt.Errorf("unsupported reference date %q", parts[1])
}

// Decode converts numeric offsets in units into absolute times.
func Decode(values []float64, step time.Duration, ref time.Time) []time.Time {
	out := make([]time.Time, len(values))
	for i, v := range values {
		// Round to the nearest second to absorb float noise in fractional units.
		secs := math.Round(v * step.Seconds())
		out[i] = ref.Add(time.Duration(secs) * time.Second)
	}
	return out
}

func readTime(nc api.Group, name string) ([]time.Time, error) {
	v, err := nc.GetVariable(name)
	if err != nil {
		return nil, fmt.Errorf("time coordinate %s not found: %w", name, err)
	}
	units, ok := attrString(v.Attributes, "units")
	if !ok {
		return nil, fmt.Errorf("time coordinate %s has no units", name)
	}
	step, ref, err := ParseUnits(units)
	if err != nil {
		return nil, err
	}
	values, err := flatten(v.Values)
	if err != nil {
		return nil, fmt.Errorf("time coordinate %s: %w", name, err)
	}
	return Decode(values, step, ref), nil
}
