package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newStatsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Build the tile set and print a summary",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, reg, err := buildRegistry(cmd)
			if err != nil {
				return err
			}
			defer reg.Dispose()

			var flatTris, extrudedTris, bytes int
			for i := range reg.Count() {
				t, err := reg.Get(i)
				if err != nil {
					return err
				}
				flatTris += t.Flat.TriangleCount()
				extrudedTris += t.Extruded.TriangleCount()
				bytes += t.Flat.SizeBytes() + t.Extruded.SizeBytes()
			}

			r := reg.LastReport()
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "strategy:   %s\n", cfg.Globe.Strategy)
			fmt.Fprintf(out, "cells:      %d\n", r.Cells)
			fmt.Fprintf(out, "tiles:      %d\n", r.Built)
			fmt.Fprintf(out, "skipped:    %d\n", r.SkippedCount())
			fmt.Fprintf(out, "build time: %s\n", r.Duration)
			fmt.Fprintf(out, "flat:       %d triangles\n", flatTris)
			fmt.Fprintf(out, "extruded:   %d triangles\n", extrudedTris)
			fmt.Fprintf(out, "mesh data:  %.1f MB\n", float64(bytes)/(1024*1024))
			return nil
		},
	}
}
