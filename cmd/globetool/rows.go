package main

import (
	"fmt"
	"math"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/Faultbox/hexglobe/internal/globe/tessellate"
)

func newRowsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "rows",
		Short: "Print the latitude band row layout",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}

			g := cfg.Globe
			lb, err := tessellate.NewLatitudeBand(g.LatStep, g.Radius, g.TileRadius)
			if err != nil {
				return err
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', tabwriter.AlignRight)
			fmt.Fprintln(w, "lat\ttiles\tstep°\toffset°\tfirst\t")
			for _, r := range lb.Rows() {
				fmt.Fprintf(w, "%.2f\t%d\t%.3f\t%.3f\t%d\t\n",
					r.Lat, r.Count, r.Step*180/math.Pi, r.Offset*180/math.Pi, r.First)
			}
			fmt.Fprintf(w, "total\t%d\t\t\t\t\n", lb.CellCount())
			return w.Flush()
		},
	}
}
