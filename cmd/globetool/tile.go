package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/Faultbox/hexglobe/internal/globe/sphere"
)

func newTileCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "tile <index>",
		Short: "Print one tile by render index",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			i, err := strconv.Atoi(args[0])
			if err != nil {
				return fmt.Errorf("tile index %q: %w", args[0], err)
			}

			_, reg, err := buildRegistry(cmd)
			if err != nil {
				return err
			}
			defer reg.Dispose()

			t, err := reg.Get(i)
			if err != nil {
				return err
			}
			printTile(cmd, t)
			return nil
		},
	}
}

func newLocateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "locate",
		Short: "Find the tile covering a geographic coordinate",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			lat, _ := cmd.Flags().GetFloat64("lat")
			lng, _ := cmd.Flags().GetFloat64("lng")

			// Validate
			if lat < -90 || lat > 90 {
				return fmt.Errorf("latitude %v must be between -90 and 90", lat)
			}
			if lng < -180 || lng > 180 {
				return fmt.Errorf("longitude %v must be between -180 and 180", lng)
			}

			cfg, reg, err := buildRegistry(cmd)
			if err != nil {
				return err
			}
			defer reg.Dispose()

			p := sphere.ToCartesian(sphere.LatLng{Lat: lat, Lng: lng}, cfg.Globe.Radius)
			i, ok := reg.Locate(p)
			if !ok {
				return fmt.Errorf("no tile at %v, %v", lat, lng)
			}
			t, err := reg.Get(i)
			if err != nil {
				return err
			}
			printTile(cmd, t)
			return nil
		},
	}

	// Required flags
	cmd.Flags().Float64("lat", 0, "Latitude (required)")
	cmd.Flags().Float64("lng", 0, "Longitude (required)")
	cmd.MarkFlagRequired("lat")
	cmd.MarkFlagRequired("lng")
	return cmd
}
