// Package config loads the YAML run configuration of a forcing cycle.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"go.ngs.io/ocean-forcing/internal/domain"
)

const offsetLayout = "2006-01-02"

// Config is the run configuration.
type Config struct {
	Title     string   `yaml:"title"`
	Grid      string   `yaml:"grid"`
	Output    string   `yaml:"output"`
	SourceDir string   `yaml:"source_dir"`
	Offset    string   `yaml:"offset"` // Origin of the time axes, YYYY-MM-DD.
	Cycle     float64  `yaml:"cycle"`  // cycle_length of the time variables, days.
	OBC       string   `yaml:"obc"`    // Open boundary flags, S E N W.
	Master    string   `yaml:"master"`
	Workers   int      `yaml:"workers"`
	Variables []string `yaml:"variables"`

	// SourceNames maps a variable kind to the product variable name.
	SourceNames map[string]string     `yaml:"source_names,omitempty"`
	Scaling     map[string]Scaling    `yaml:"scaling,omitempty"`
	ValidRanges map[string]ValidRange `yaml:"valid_ranges,omitempty"`

	Vertical Vertical `yaml:"vertical"`
}

// Vertical holds the s-coordinate parameters.
type Vertical struct {
	Transform string   `yaml:"transform"`
	ThetaS    float64  `yaml:"theta_s"`
	ThetaB    float64  `yaml:"theta_b"`
	N         int      `yaml:"n"`
	Hc        float64  `yaml:"hc"`
	Dcrit     *float64 `yaml:"dcrit,omitempty"`
}

// Scaling is applied as offset + value*factor after interpolation.
type Scaling struct {
	Offset float64  `yaml:"offset"`
	Factor *float64 `yaml:"factor,omitempty"`
}

// ValidRange overrides the gap-filler range of a kind.
type ValidRange struct {
	Min float64 `yaml:"min"`
	Max float64 `yaml:"max"`
}

// Default returns a configuration with every optional field set.
func Default() *Config {
	return &Config{
		Title:     "CROCO boundary forcing",
		Output:    "croco_bry.nc",
		SourceDir: ".",
		Cycle:     0,
		OBC:       "1111",
		Master:    "temp",
		Workers:   4,
		Variables: []string{"zeta", "ubar", "vbar", "u", "v", "temp", "salt"},
		Vertical: Vertical{
			Transform: "new2008",
			ThetaS:    7,
			ThetaB:    2,
			N:         32,
			Hc:        200,
		},
	}
}

// Load reads path over the defaults, applies environment overrides and validates.
func Load(path string) (*Config, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}
	return Parse(raw)
}

// Parse decodes a YAML document over the defaults, applies environment overrides and validates.
func Parse(raw []byte) (*Config, error) {
	cfg := Default()
	dec := yaml.NewDecoder(bytes.NewReader(raw))
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	cfg.applyEnv()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// applyEnv lets the deployment override the file locations.
func (c *Config) applyEnv() {
	c.Grid = getEnv("BRY_GRID", c.Grid)
	c.Output = getEnv("BRY_OUTPUT", c.Output)
	c.SourceDir = getEnv("BRY_SOURCE_DIR", c.SourceDir)
}

// Validate reports the first configuration error.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.Grid) == "" {
		return errors.New("config.grid is required")
	}
	if strings.TrimSpace(c.Output) == "" {
		return errors.New("config.output is required")
	}
	if _, err := c.OffsetTime(); err != nil {
		return err
	}
	if c.Cycle < 0 {
		return fmt.Errorf("config.cycle must be >= 0, got %v", c.Cycle)
	}
	if _, err := domain.ParseOpenBoundaries(c.OBC); err != nil {
		return fmt.Errorf("config.obc: %w", err)
	}
	if c.Workers <= 0 {
		return fmt.Errorf("config.workers must be positive, got %d", c.Workers)
	}
	if len(c.Variables) == 0 {
		return errors.New("config.variables must be non-empty")
	}

	registry := domain.NewRegistry()
	seen := make(map[string]struct{}, len(c.Variables))
	for i, kind := range c.Variables {
		if _, err := registry.Lookup(kind); err != nil {
			return fmt.Errorf("config.variables[%d]: %w", i, err)
		}
		if _, ok := seen[kind]; ok {
			return fmt.Errorf("config.variables[%d] must be unique (duplicate %q)", i, kind)
		}
		seen[kind] = struct{}{}
	}
	if _, err := registry.Lookup(c.Master); err != nil {
		return fmt.Errorf("config.master: %w", err)
	}

	for _, kind := range sortedKeys(c.Scaling) {
		if _, err := registry.Lookup(kind); err != nil {
			return fmt.Errorf("config.scaling.%s: %w", kind, err)
		}
		if f := c.Scaling[kind].Factor; f != nil && *f == 0 {
			return fmt.Errorf("config.scaling.%s.factor must be non-zero", kind)
		}
	}
	for _, kind := range sortedKeys(c.ValidRanges) {
		if _, err := registry.Lookup(kind); err != nil {
			return fmt.Errorf("config.valid_ranges.%s: %w", kind, err)
		}
		if r := c.ValidRanges[kind]; r.Min > r.Max {
			return fmt.Errorf("config.valid_ranges.%s.min %v exceeds max %v", kind, r.Min, r.Max)
		}
	}
	for _, kind := range sortedKeys(c.SourceNames) {
		if strings.TrimSpace(c.SourceNames[kind]) == "" {
			return fmt.Errorf("config.source_names.%s must be non-empty", kind)
		}
	}

	if _, err := c.VerticalSpec(); err != nil {
		return fmt.Errorf("config.vertical: %w", err)
	}
	return nil
}

// OffsetTime parses Offset as a UTC date.
func (c *Config) OffsetTime() (time.Time, error) {
	t, err := time.Parse(offsetLayout, strings.TrimSpace(c.Offset))
	if err != nil {
		return time.Time{}, fmt.Errorf("config.offset must be a %s date, got %q", offsetLayout, c.Offset)
	}
	return t, nil
}

// OpenBoundaries returns the parsed obc flags.
func (c *Config) OpenBoundaries() (domain.OpenBoundarySet, error) {
	return domain.ParseOpenBoundaries(c.OBC)
}

// VerticalSpec converts the vertical section into a validated domain spec.
func (c *Config) VerticalSpec() (domain.VerticalCoordinateSpec, error) {
	tr, err := domain.ParseTransform(c.Vertical.Transform)
	if err != nil {
		return domain.VerticalCoordinateSpec{}, err
	}
	spec := domain.VerticalCoordinateSpec{
		Transform: tr,
		ThetaS:    c.Vertical.ThetaS,
		ThetaB:    c.Vertical.ThetaB,
		N:         c.Vertical.N,
		Hc:        c.Vertical.Hc,
		Dcrit:     domain.DefaultDcrit,
	}
	if c.Vertical.Dcrit != nil {
		spec.Dcrit = *c.Vertical.Dcrit
	}
	if err := spec.Validate(); err != nil {
		return domain.VerticalCoordinateSpec{}, err
	}
	return spec, nil
}

// Registry returns the built-in descriptor table with the configured overrides.
func (c *Config) Registry() (*domain.Registry, error) {
	r := domain.NewRegistry()
	for _, kind := range sortedKeys(c.Scaling) {
		s := c.Scaling[kind]
		factor := 1.0
		if s.Factor != nil {
			factor = *s.Factor
		}
		if err := r.SetScaling(kind, s.Offset, factor); err != nil {
			return nil, err
		}
	}
	for _, kind := range sortedKeys(c.ValidRanges) {
		vr := c.ValidRanges[kind]
		if err := r.SetValidRange(kind, domain.ValidRange{Min: vr.Min, Max: vr.Max}); err != nil {
			return nil, err
		}
	}
	return r, nil
}

// getEnv retrieves an environment variable or returns a default value.
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
