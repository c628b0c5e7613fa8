// Package tessellate partitions the sphere into tiles and projects each
// tile's outline into the render frame.
package tessellate

import (
	"errors"
	"fmt"

	"github.com/Faultbox/hexglobe/internal/globe/sphere"
)

// TileID identifies a cell. It is unique within one strategy instance and
// stable across rebuilds with the same parameters.
type TileID uint64

// Polygon is a cell outline in geographic coordinates.
type Polygon struct {
	Ring   []sphere.LatLng
	Center sphere.LatLng
}

// Strategy enumerates cells covering the whole sphere.
type Strategy interface {
	// Name returns the configuration name of the strategy.
	Name() string
	// Cells returns every cell id in traversal order, without duplicates.
	Cells() ([]TileID, error)
	// Polygon returns the outline of a cell returned by Cells.
	Polygon(id TileID) (Polygon, error)
}

// Strategy names accepted by New.
const (
	StrategyHierarchical = "hierarchical"
	StrategyLatitudeBand = "latitude_band"
)

// ErrUnknownTile is returned by Polygon for ids the strategy never produced.
var ErrUnknownTile = errors.New("unknown tile id")

// ConfigError reports an invalid build parameter. It is never retried.
type ConfigError struct {
	Field  string
	Value  any
	Reason string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("invalid %s %v: %s", e.Field, e.Value, e.Reason)
}

// Options selects and parameterizes a strategy.
type Options struct {
	Strategy   string
	Resolution int     // hierarchical subdivision level
	LatStep    float64 // latitude band row spacing, degrees
	Radius     float64 // globe radius
	TileRadius float64 // latitude band hexagon circumradius
}

// New builds the strategy named in opts.
func New(opts Options) (Strategy, error) {
	if opts.Radius <= 0 {
		return nil, &ConfigError{Field: "radius", Value: opts.Radius, Reason: "must be positive"}
	}

	switch opts.Strategy {
	case StrategyHierarchical, "":
		return NewHierarchical(opts.Resolution)
	case StrategyLatitudeBand:
		return NewLatitudeBand(opts.LatStep, opts.Radius, opts.TileRadius)
	default:
		return nil, &ConfigError{Field: "strategy", Value: opts.Strategy, Reason: "unknown"}
	}
}
