package config

import "flag"

var (
	flagConfig     = flag.String("config", "", "Path to config file")
	flagDebug      = flag.Bool("debug", false, "Enable debug logging")
	flagStrategy   = flag.String("strategy", "", "Tessellation strategy (hierarchical, latitude_band)")
	flagResolution = flag.Int("resolution", -1, "Hierarchical subdivision level")
	flagDepth      = flag.Float64("depth", 0, "Extrusion depth of the selected tile")
	flagShrink     = flag.Float64("shrink", 0, "Tile shrink factor")
	flagLogFile    = flag.String("log-file", "", "Write logs to this file as well")
	flagWindowed   = flag.Bool("windowed", false, "Run in windowed mode")
	flagFullscreen = flag.Bool("fullscreen", false, "Run in fullscreen mode")
	flagWidth      = flag.Int("width", 0, "Window width")
	flagHeight     = flag.Int("height", 0, "Window height")
)

// ParseFlags parses command-line flags. Call this early in main().
func ParseFlags() {
	flag.Parse()
}

// ConfigPath returns the explicit config path if provided via --config flag.
func ConfigPath() string {
	return *flagConfig
}

// applyFlags applies CLI flag overrides to the config.
func applyFlags(cfg *Config) {
	if *flagDebug {
		cfg.Logging.Level = "debug"
	}
	if *flagStrategy != "" {
		cfg.Globe.Strategy = *flagStrategy
	}
	if *flagResolution >= 0 {
		cfg.Globe.Resolution = *flagResolution
	}
	if *flagDepth > 0 {
		cfg.Globe.ExtrusionDepth = *flagDepth
	}
	if *flagShrink > 0 {
		cfg.Globe.ShrinkFactor = *flagShrink
	}
	if *flagLogFile != "" {
		cfg.Logging.LogFile = *flagLogFile
	}
	if *flagWindowed {
		cfg.Graphics.Fullscreen = false
	}
	if *flagFullscreen {
		cfg.Graphics.Fullscreen = true
	}
	if *flagWidth > 0 {
		cfg.Graphics.Width = *flagWidth
	}
	if *flagHeight > 0 {
		cfg.Graphics.Height = *flagHeight
	}
}
