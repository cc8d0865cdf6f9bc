package main

import (
	"encoding/json"
	"os"

	"github.com/spf13/cobra"

	"go.ngs.io/ocean-forcing/internal/domain"
	"go.ngs.io/ocean-forcing/internal/usecase"
)

var (
	scoordDepths []float64
	scoordZeta   float64
	scoordW      bool
)

var scoordCmd = &cobra.Command{
	Use:   "scoord",
	Short: "Print the s-coordinate level depths of the configured vertical grid as JSON.",
	RunE: func(cmd *cobra.Command, args []string) error {
		spec, err := Config.VerticalSpec()
		if err != nil {
			return err
		}
		req := usecase.ScoordRequest{
			Spec:   spec,
			Depths: scoordDepths,
			Zeta:   []float64{scoordZeta},
			Point:  domain.PointRho,
		}
		if scoordW {
			req.Point = domain.PointW
		}

		resp, err := usecase.NewScoordUseCase().Compute(req)
		if err != nil {
			return err
		}
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(resp)
	},
}

func init() {
	scoordCmd.Flags().Float64SliceVar(&scoordDepths, "depth", []float64{100}, "bathymetry of each column in meters (positive down)")
	scoordCmd.Flags().Float64Var(&scoordZeta, "zeta", 0, "sea surface height in meters")
	scoordCmd.Flags().BoolVar(&scoordW, "w", false, "compute w (interface) levels instead of rho levels")
}
