// Package config handles globe viewer configuration loading and management.
package config

import (
	"github.com/Faultbox/hexglobe/internal/engine/camera"
	"github.com/Faultbox/hexglobe/internal/engine/lighting"
	"github.com/Faultbox/hexglobe/internal/globe/sphere"
	"github.com/Faultbox/hexglobe/internal/globe/tessellate"
	"github.com/Faultbox/hexglobe/internal/globe/tiles"
	"github.com/Faultbox/hexglobe/internal/logger"
)

// Config holds all viewer settings.
type Config struct {
	Globe    GlobeConfig    `yaml:"globe"`
	Camera   CameraConfig   `yaml:"camera"`
	Graphics GraphicsConfig `yaml:"graphics"`
	Logging  LoggingConfig  `yaml:"logging"`
}

// GlobeConfig holds tessellation and tile geometry settings.
type GlobeConfig struct {
	Strategy       string   `yaml:"strategy"`        // hierarchical | latitude_band
	Resolution     int      `yaml:"resolution"`      // hierarchical subdivision level
	LatStep        float64  `yaml:"lat_step"`        // latitude_band row spacing, degrees
	Radius         float64  `yaml:"radius"`          // globe radius
	TileRadius     float64  `yaml:"tile_radius"`     // latitude_band hexagon circumradius
	LayerOffset    float64  `yaml:"layer_offset"`    // tile layer radius factor, > 1
	ExtrusionDepth float64  `yaml:"extrusion_depth"` // selected tile height
	ShrinkFactor   float64  `yaml:"shrink_factor"`   // 0 < f <= 1
	Palette        []string `yaml:"palette"`         // hex colors, cycled
}

// CameraConfig holds orbit camera settings.
type CameraConfig struct {
	Distance    float64 `yaml:"distance"`
	MinDistance float64 `yaml:"min_distance"`
	MaxDistance float64 `yaml:"max_distance"`
	Damping     float64 `yaml:"damping"`
	SpeedFactor float64 `yaml:"speed_factor"` // speed = factor * distance^2
	MinSpeed    float64 `yaml:"min_speed"`
	MaxSpeed    float64 `yaml:"max_speed"`
}

// GraphicsConfig holds display and rendering settings.
type GraphicsConfig struct {
	Width      int  `yaml:"width"`
	Height     int  `yaml:"height"`
	Fullscreen bool `yaml:"fullscreen"`
	VSync      bool `yaml:"vsync"`
	MSAA       int  `yaml:"msaa"`
	FPSLimit   int  `yaml:"fps_limit"`

	ScreenshotDir string `yaml:"screenshot_dir"`

	// Sun position above the globe, degrees.
	SunLat  float64 `yaml:"sun_lat"`
	SunLng  float64 `yaml:"sun_lng"`
	Ambient float64 `yaml:"ambient"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level      string `yaml:"level"`
	LogFile    string `yaml:"log_file"`
	MaxSizeMB  int    `yaml:"max_size_mb"`
	MaxBackups int    `yaml:"max_backups"`
	MaxAgeDays int    `yaml:"max_age_days"`
	Compress   bool   `yaml:"compress"`
}

// Default returns a Config with sensible default values.
func Default() *Config {
	return &Config{
		Globe: GlobeConfig{
			Strategy:       tessellate.StrategyLatitudeBand,
			Resolution:     3,
			LatStep:        3,
			Radius:         2,
			TileRadius:     tessellate.InterlockRadius(3, 2),
			LayerOffset:    1.002,
			ExtrusionDepth: 0.05,
			ShrinkFactor:   0.9,
		},
		Camera: CameraConfig{
			Distance:    3.5,
			MinDistance: 2.2,
			MaxDistance: 3.5,
			Damping:     0.1,
			SpeedFactor: camera.DefaultSpeedCurve.Factor,
			MinSpeed:    camera.DefaultSpeedCurve.Min,
			MaxSpeed:    camera.DefaultSpeedCurve.Max,
		},
		Graphics: GraphicsConfig{
			Width:      1280,
			Height:     720,
			Fullscreen: false,
			VSync:      true,
			MSAA:       4,
			FPSLimit:   0,

			ScreenshotDir: "screenshots",
			SunLat:  20,
			SunLng:  -30,
			Ambient: 0.35,
		},
		Logging: LoggingConfig{
			Level:      "info",
			LogFile:    "",
			MaxSizeMB:  50,
			MaxBackups: 3,
			MaxAgeDays: 7,
			Compress:   true,
		},
	}
}

// TileKey returns the registry build key for the globe settings.
func (c *Config) TileKey() tiles.Key {
	g := c.Globe
	return tiles.Key{
		Strategy:    g.Strategy,
		Resolution:  g.Resolution,
		LatStep:     g.LatStep,
		Radius:      g.Radius,
		TileRadius:  g.TileRadius,
		LayerOffset: g.LayerOffset,
		Depth:       g.ExtrusionDepth,
		Shrink:      g.ShrinkFactor,
	}
}

// TilePalette parses the configured palette. An empty list yields the
// default palette.
func (c *Config) TilePalette() ([]tiles.Color, error) {
	return tiles.ParsePalette(c.Globe.Palette)
}

// SpeedCurve returns the distance-to-speed mapping for the camera.
func (c *Config) SpeedCurve() camera.SpeedCurve {
	return camera.SpeedCurve{
		Factor: c.Camera.SpeedFactor,
		Min:    c.Camera.MinSpeed,
		Max:    c.Camera.MaxSpeed,
	}
}

// Orbit returns an orbit camera with the configured constraints.
func (c *Config) Orbit() *camera.OrbitCamera {
	cam := camera.NewOrbitCamera()
	cam.MinDistance = c.Camera.MinDistance
	cam.MaxDistance = c.Camera.MaxDistance
	cam.Damping = c.Camera.Damping
	cam.SetDistance(c.Camera.Distance)
	return cam
}

// Sun returns the scene light.
func (c *Config) Sun() lighting.Sun {
	return lighting.Sun{
		Position: sphere.LatLng{Lat: c.Graphics.SunLat, Lng: c.Graphics.SunLng},
		Ambient:  float32(c.Graphics.Ambient),
	}
}

// LogFileConfig returns the rotating file settings for the logger.
func (c *Config) LogFileConfig() logger.FileConfig {
	return logger.FileConfig{
		Path:       c.Logging.LogFile,
		MaxSizeMB:  c.Logging.MaxSizeMB,
		MaxBackups: c.Logging.MaxBackups,
		MaxAgeDays: c.Logging.MaxAgeDays,
		Compress:   c.Logging.Compress,
	}
}
