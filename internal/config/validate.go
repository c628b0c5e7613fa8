package config

import (
	"go.uber.org/multierr"

	"github.com/Faultbox/hexglobe/internal/globe/tessellate"
)

// Validate checks every section and returns all problems found, each a
// *tessellate.ConfigError, combined with multierr.
func (c *Config) Validate() error {
	var errs error

	g := c.Globe
	if _, err := tessellate.New(tessellate.Options{
		Strategy:   g.Strategy,
		Resolution: g.Resolution,
		LatStep:    g.LatStep,
		Radius:     g.Radius,
		TileRadius: g.TileRadius,
	}); err != nil {
		errs = multierr.Append(errs, err)
	}
	errs = multierr.Append(errs, c.TileKey().Validate())
	if _, err := c.TilePalette(); err != nil {
		errs = multierr.Append(errs, &tessellate.ConfigError{Field: "palette", Value: g.Palette, Reason: err.Error()})
	}

	cam := c.Camera
	if !(cam.MinDistance > g.Radius) {
		errs = multierr.Append(errs, invalid("camera.min_distance", cam.MinDistance, "must be outside the globe"))
	}
	if cam.MaxDistance < cam.MinDistance {
		errs = multierr.Append(errs, invalid("camera.max_distance", cam.MaxDistance, "must not be below min_distance"))
	}
	if cam.Damping < 0 || cam.Damping > 1 {
		errs = multierr.Append(errs, invalid("camera.damping", cam.Damping, "must be in [0, 1]"))
	}
	if cam.SpeedFactor < 0 {
		errs = multierr.Append(errs, invalid("camera.speed_factor", cam.SpeedFactor, "must not be negative"))
	}
	if cam.MaxSpeed > 0 && cam.MaxSpeed < cam.MinSpeed {
		errs = multierr.Append(errs, invalid("camera.max_speed", cam.MaxSpeed, "must not be below min_speed"))
	}

	if c.Graphics.Width <= 0 || c.Graphics.Height <= 0 {
		errs = multierr.Append(errs, invalid("graphics.size", [2]int{c.Graphics.Width, c.Graphics.Height}, "must be positive"))
	}
	if c.Graphics.MSAA < 0 {
		errs = multierr.Append(errs, invalid("graphics.msaa", c.Graphics.MSAA, "must not be negative"))
	}
	if c.Graphics.SunLat < -90 || c.Graphics.SunLat > 90 {
		errs = multierr.Append(errs, invalid("graphics.sun_lat", c.Graphics.SunLat, "must be in [-90, 90]"))
	}
	if c.Graphics.Ambient < 0 || c.Graphics.Ambient > 1 {
		errs = multierr.Append(errs, invalid("graphics.ambient", c.Graphics.Ambient, "must be in [0, 1]"))
	}

	return errs
}

func invalid(field string, value any, reason string) error {
	return &tessellate.ConfigError{Field: field, Value: value, Reason: reason}
}
