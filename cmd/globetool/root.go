package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Faultbox/hexglobe/internal/config"
	"github.com/Faultbox/hexglobe/internal/globe/tiles"
	"github.com/Faultbox/hexglobe/internal/logger"
)

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "globetool",
		Short: "Inspect hexagonal globe tessellations",
		Long: `globetool builds the same tile set as the viewer and reports on it.

Configuration is read from the viewer's config file, .env and HEXGLOBE_*
environment variables. Flags take precedence.

Examples:
  globetool stats
  globetool stats --strategy hierarchical --resolution 4
  globetool rows --lat-step 10
  globetool tile 42
  globetool locate --lat 48.85 --lng 2.35
  globetool config --save ./hexglobe.yaml`,
		SilenceUsage: true,
	}

	// Global flags
	root.PersistentFlags().String("config", "", "Path to config file")
	root.PersistentFlags().String("strategy", "", "Tessellation strategy (hierarchical, latitude_band)")
	root.PersistentFlags().Int("resolution", 0, "Hierarchical subdivision level")
	root.PersistentFlags().Float64("lat-step", 0, "Latitude band row spacing in degrees")
	root.PersistentFlags().Bool("debug", false, "Enable debug logging")

	root.AddCommand(
		newStatsCmd(),
		newRowsCmd(),
		newTileCmd(),
		newLocateCmd(),
		newConfigCmd(),
	)
	return root
}

// loadConfig loads the effective configuration: file, .env and
// environment, then flags that were explicitly set.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	path, _ := cmd.Flags().GetString("config")
	cfg, err := config.LoadFrom(path)
	if err != nil {
		return nil, err
	}

	if cmd.Flags().Changed("strategy") {
		cfg.Globe.Strategy, _ = cmd.Flags().GetString("strategy")
	}
	if cmd.Flags().Changed("resolution") {
		cfg.Globe.Resolution, _ = cmd.Flags().GetInt("resolution")
	}
	if cmd.Flags().Changed("lat-step") {
		cfg.Globe.LatStep, _ = cmd.Flags().GetFloat64("lat-step")
	}
	if debug, _ := cmd.Flags().GetBool("debug"); debug {
		cfg.Logging.Level = "debug"
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if err := logger.InitWithFileConfig(cfg.Logging.Level, cfg.LogFileConfig(), true); err != nil {
		return nil, fmt.Errorf("logger: %w", err)
	}
	return cfg, nil
}

// buildRegistry loads the configuration and builds its tile set.
func buildRegistry(cmd *cobra.Command) (*config.Config, *tiles.Registry, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, nil, err
	}
	palette, err := cfg.TilePalette()
	if err != nil {
		return nil, nil, err
	}

	reg := tiles.New(
		tiles.WithLogger(logger.Named("tiles")),
		tiles.WithPalette(palette),
	)
	if _, err := reg.Ensure(cfg.TileKey()); err != nil {
		return nil, nil, err
	}
	return cfg, reg, nil
}

func printTile(cmd *cobra.Command, t *tiles.Tile) {
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "index:    %d\n", t.Index)
	fmt.Fprintf(out, "id:       %d\n", t.ID)
	fmt.Fprintf(out, "center:   %.4f, %.4f\n", t.LatLng.Lat, t.LatLng.Lng)
	fmt.Fprintf(out, "color:    %s\n", t.Color.Hex())
	fmt.Fprintf(out, "vertices: %d\n", len(t.Boundary))
	if t.Flat != nil && t.Extruded != nil {
		fmt.Fprintf(out, "flat:     %d triangles\n", t.Flat.TriangleCount())
		fmt.Fprintf(out, "extruded: %d triangles\n", t.Extruded.TriangleCount())
	}
}
