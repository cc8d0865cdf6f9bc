package main

import (
	"fmt"
	"os/signal"
	"syscall"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"go.ngs.io/ocean-forcing/internal/adapter/store/bry"
	"go.ngs.io/ocean-forcing/internal/adapter/store/cmems"
	"go.ngs.io/ocean-forcing/internal/adapter/store/grid"
	"go.ngs.io/ocean-forcing/internal/domain"
	"go.ngs.io/ocean-forcing/internal/usecase"
)

var boundaryCmd = &cobra.Command{
	Use:   "boundary",
	Short: "Interpolate the source product onto the open boundaries and write the boundary file.",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		cfg := Config
		offset, err := cfg.OffsetTime()
		if err != nil {
			return err
		}
		open, err := cfg.OpenBoundaries()
		if err != nil {
			return err
		}
		spec, err := cfg.VerticalSpec()
		if err != nil {
			return err
		}
		vc, err := domain.NewVerticalCoordinate(spec)
		if err != nil {
			return err
		}
		registry, err := cfg.Registry()
		if err != nil {
			return err
		}

		log.WithField("path", cfg.Grid).Info("loading model grid")
		g, err := grid.NewStore(cfg.Grid).Load()
		if err != nil {
			return err
		}

		pipeline, err := usecase.NewBoundaryPipeline(usecase.PipelineConfig{
			Registry:   registry,
			Grid:       g,
			Coordinate: vc,
			Open:       open,
			Loader:     cmems.NewReader(cfg.SourceDir, cfg.SourceNames),
			Logger:     log,
			Workers:    cfg.Workers,
			Offset:     offset,
			Master:     cfg.Master,
			Title:      cfg.Title,
			Cycle:      cfg.Cycle,
		})
		if err != nil {
			return err
		}

		writer := bry.NewWriter(cfg.Output)
		report, err := pipeline.RunAndWrite(ctx, cfg.Variables, writer)
		if err != nil {
			return err
		}

		for kind, ferr := range report.Failed {
			log.WithFields(logrus.Fields{"variable": kind}).WithError(ferr).Warn("variable skipped")
		}
		log.WithFields(logrus.Fields{
			"run":    report.RunID,
			"path":   writer.Path(),
			"slices": len(report.Slices),
			"failed": len(report.Failed),
		}).Info("boundary file written")
		if len(report.Failed) > 0 {
			return fmt.Errorf("%d of %d variables failed", len(report.Failed), len(cfg.Variables))
		}
		return nil
	},
}
