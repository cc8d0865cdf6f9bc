package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"go.ngs.io/ocean-forcing/internal/adapter/interp"
	"go.ngs.io/ocean-forcing/internal/adapter/store"
	"go.ngs.io/ocean-forcing/internal/adapter/store/bry"
	"go.ngs.io/ocean-forcing/internal/domain"
	"go.ngs.io/ocean-forcing/internal/remap"
)

// DefaultMaster is the variable whose time axis becomes the file's master axis.
const DefaultMaster = "temp"

// PipelineConfig wires a BoundaryPipeline.
type PipelineConfig struct {
	Registry   *domain.Registry
	Grid       *domain.Grid
	Coordinate *domain.VerticalCoordinate
	Open       domain.OpenBoundarySet
	Loader     store.SourceLoader
	Logger     logrus.FieldLogger
	Workers    int       // Parallel (side, time) partitions; <= 0 means 1.
	Offset     time.Time // Origin of the day-based time axes.
	Master     string    // Master variable kind; defaults to DefaultMaster.
	Title      string
	Cycle      float64
}

// BoundaryPipeline turns source fields into boundary slices for every open side.
// It holds no mutable state between runs.
type BoundaryPipeline struct {
	registry *domain.Registry
	grid     *domain.Grid
	coord    *domain.VerticalCoordinate
	sides    []domain.Side
	loader   store.SourceLoader
	log      logrus.FieldLogger
	workers  int
	offset   time.Time
	master   string
	title    string
	cycle    float64
}

// NewBoundaryPipeline validates cfg and returns a pipeline.
func NewBoundaryPipeline(cfg PipelineConfig) (*BoundaryPipeline, error) {
	if cfg.Registry == nil || cfg.Grid == nil || cfg.Coordinate == nil || cfg.Loader == nil {
		return nil, fmt.Errorf("pipeline needs a registry, grid, vertical coordinate and source loader")
	}
	if err := cfg.Grid.Validate(); err != nil {
		return nil, fmt.Errorf("invalid grid: %w", err)
	}
	sides := cfg.Open.Sides()
	if len(sides) == 0 {
		return nil, fmt.Errorf("no open boundaries selected")
	}
	p := &BoundaryPipeline{
		registry: cfg.Registry,
		grid:     cfg.Grid,
		coord:    cfg.Coordinate,
		sides:    sides,
		loader:   cfg.Loader,
		log:      cfg.Logger,
		workers:  cfg.Workers,
		offset:   cfg.Offset,
		master:   cfg.Master,
		title:    cfg.Title,
		cycle:    cfg.Cycle,
	}
	if p.log == nil {
		p.log = logrus.StandardLogger()
	}
	if p.workers <= 0 {
		p.workers = 1
	}
	if p.master == "" {
		p.master = DefaultMaster
	}
	if _, err := p.registry.Lookup(p.master); err != nil {
		return nil, fmt.Errorf("master variable: %w", err)
	}
	return p, nil
}

// Report is the outcome of one forcing cycle.
type Report struct {
	RunID      string
	MasterTime []float64
	Slices     []*domain.BoundarySlice
	Failed     map[string]error
}

// Run processes every variable kind. A failing variable is logged and recorded
// in Report.Failed without producing slices; the others still run. Only a
// missing master time axis or a cancelled context aborts the run.
func (p *BoundaryPipeline) Run(ctx context.Context, variables []string) (*Report, error) {
	report := &Report{RunID: uuid.NewString(), Failed: make(map[string]error)}
	log := p.log.WithField("run", report.RunID)

	masterField, err := p.loader.Load(p.master)
	if err != nil {
		return nil, fmt.Errorf("failed to load master variable %s: %w", p.master, err)
	}
	if len(masterField.Time) == 0 {
		return nil, fmt.Errorf("master variable %s has no time steps", p.master)
	}
	report.MasterTime = remap.DaysSince(masterField.Time, p.offset)
	for i := 1; i < len(report.MasterTime); i++ {
		if !(report.MasterTime[i] > report.MasterTime[i-1]) {
			return nil, fmt.Errorf("master time axis of %s is not strictly increasing at index %d", p.master, i)
		}
	}
	log.WithFields(logrus.Fields{
		"master": p.master,
		"steps":  len(report.MasterTime),
		"sides":  p.sides,
	}).Info("starting boundary interpolation")

	for _, kind := range variables {
		if err := ctx.Err(); err != nil {
			return report, err
		}
		vlog := log.WithField("variable", kind)

		field := masterField
		if kind != p.master {
			if field, err = p.loader.Load(kind); err != nil {
				vlog.WithError(err).Error("failed to load source field")
				report.Failed[kind] = err
				continue
			}
		}

		slices, err := p.Process(ctx, kind, field, report.MasterTime)
		if err != nil {
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
				return report, err
			}
			vlog.WithError(err).Error("variable failed")
			report.Failed[kind] = err
			continue
		}
		report.Slices = append(report.Slices, slices...)
		vlog.WithField("slices", len(slices)).Info("variable done")
	}
	return report, nil
}

// RunAndWrite runs the pipeline and hands the slices to w.
func (p *BoundaryPipeline) RunAndWrite(ctx context.Context, variables []string, w store.SliceWriter) (*Report, error) {
	report, err := p.Run(ctx, variables)
	if err != nil {
		return report, err
	}
	if len(report.Slices) == 0 {
		return report, fmt.Errorf("no boundary slices produced (%d variables failed)", len(report.Failed))
	}
	if err := w.Write(p.Header(report), report.Slices); err != nil {
		return report, fmt.Errorf("failed to write boundary file: %w", err)
	}
	return report, nil
}

// Header describes the boundary file for a finished report.
func (p *BoundaryPipeline) Header(report *Report) bry.Header {
	descs := make(map[string]domain.VariableDescriptor)
	for _, d := range p.registry.All() {
		descs[d.Kind] = d
	}
	return bry.Header{
		Title:       p.title,
		RunID:       report.RunID,
		Offset:      p.offset,
		Cycle:       p.cycle,
		XiRho:       p.grid.Rho.Cols,
		EtaRho:      p.grid.Rho.Rows,
		Coordinate:  p.coord,
		MasterTime:  report.MasterTime,
		Descriptors: descs,
	}
}

// sideJob is the per-side state shared by the time partitions of one variable.
type sideJob struct {
	line   domain.BoundaryLine
	rg     *interp.Regridder
	slice  *domain.BoundarySlice
	states [][]domain.ColumnState // [time][point], written by one partition each.
}

// Process produces one slice per open side for a source field. master is the
// master time axis in days since the offset.
func (p *BoundaryPipeline) Process(ctx context.Context, kind string, field *domain.SourceField, master []float64) ([]*domain.BoundarySlice, error) {
	desc, err := p.registry.Lookup(kind)
	if err != nil {
		return nil, err
	}
	if err := field.Validate(); err != nil {
		return nil, err
	}
	if !desc.ThreeD && len(field.Depth) != 1 {
		return nil, fmt.Errorf("%w: surface variable %s has %d depth levels", domain.ErrShape, kind, len(field.Depth))
	}

	var vertical *remap.Vertical
	levels := 0
	if desc.ThreeD {
		if vertical, err = remap.NewVertical(p.coord, field.Depth); err != nil {
			return nil, fmt.Errorf("%s: %w", kind, err)
		}
		levels = vertical.Levels()
	}

	native := remap.DaysSince(field.Time, p.offset)
	jobs := make([]*sideJob, 0, len(p.sides))
	for _, side := range p.sides {
		line, err := p.grid.Line(desc.Family, side)
		if err != nil {
			return nil, err
		}
		rg, err := interp.NewRegridder(field.Lat, field.Lon, line.Lat, line.Lon)
		if err != nil {
			return nil, fmt.Errorf("%s %s: %w", kind, side, err)
		}
		if n := rg.Outside(); n > 0 {
			p.log.WithFields(logrus.Fields{"variable": kind, "side": side, "points": n}).
				Warn("boundary points outside source extent")
		}
		jobs = append(jobs, &sideJob{
			line:   line,
			rg:     rg,
			slice:  domain.NewBoundarySlice(kind, side, native, levels, line.Len()),
			states: make([][]domain.ColumnState, len(native)),
		})
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(p.workers)
	for _, job := range jobs {
		for t := range native {
			g.Go(func() error {
				if err := gctx.Err(); err != nil {
					return err
				}
				if vertical == nil {
					return p.surfaceStep(job, field, desc, t)
				}
				return p.profileStep(job, field, desc, vertical, t)
			})
		}
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("%s: %w", kind, err)
	}

	out := make([]*domain.BoundarySlice, 0, len(jobs))
	for _, job := range jobs {
		mergeStates(job)
		if n := job.slice.Count(domain.ColumnUnfilled); n > 0 {
			p.log.WithFields(logrus.Fields{"variable": kind, "side": job.line.Side, "points": n}).
				Warn("profiles without valid samples left unfilled")
		}

		slice := job.slice
		if kind != p.master && !desc.OwnTimeAxis {
			if slice, err = remap.ResampleSlice(slice, master); err != nil {
				return nil, err
			}
		}
		for i, v := range slice.Data {
			slice.Data[i] = desc.Apply(v)
		}
		out = append(out, slice)
	}
	return out, nil
}

// surfaceStep regrids and gap-fills one time step of a 2-D variable.
func (p *BoundaryPipeline) surfaceStep(job *sideJob, field *domain.SourceField, desc domain.VariableDescriptor, t int) error {
	values, err := job.rg.Apply(field.Layer(t, 0), nil)
	if err != nil {
		return err
	}
	filled, ok := domain.FillInvalid(values, desc.Valid)

	states := make([]domain.ColumnState, job.line.Len())
	for i, m := range job.line.Mask {
		switch {
		case m == 0:
			states[i] = domain.ColumnLand
			continue
		case ok:
			states[i] = domain.ColumnComputed
		default:
			states[i] = domain.ColumnUnfilled
		}
		job.slice.Data[job.slice.Index(t, 0, i)] = filled[i]
	}
	job.states[t] = states
	return nil
}

// profileStep regrids every source level of one time step, gap-fills each level
// along the line and remaps the profiles onto the model levels.
func (p *BoundaryPipeline) profileStep(job *sideJob, field *domain.SourceField, desc domain.VariableDescriptor, vertical *remap.Vertical, t int) error {
	rows := make([][]float64, len(field.Depth))
	for k := range field.Depth {
		values, err := job.rg.Apply(field.Layer(t, k), nil)
		if err != nil {
			return err
		}
		rows[k], _ = domain.FillInvalid(values, desc.Valid)
	}

	res, err := vertical.Remap(job.line.H, rows, job.line.Mask, desc.Valid)
	if err != nil {
		return err
	}
	for k, level := range res.Data {
		for i, v := range level {
			job.slice.Data[job.slice.Index(t, k, i)] = v
		}
	}
	job.states[t] = res.Columns
	return nil
}

// mergeStates reduces per-time column states: a column is unfilled if any time
// step was, land if masked, computed otherwise.
func mergeStates(job *sideJob) {
	for i := range job.slice.Columns {
		state := domain.ColumnPending
		for _, st := range job.states {
			if st == nil {
				continue
			}
			if st[i] == domain.ColumnUnfilled || state == domain.ColumnPending {
				state = st[i]
			}
		}
		job.slice.Columns[i] = state
	}
}
