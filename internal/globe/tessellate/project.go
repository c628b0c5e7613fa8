package tessellate

import (
	"slices"

	"github.com/golang/geo/r3"

	"github.com/Faultbox/hexglobe/internal/globe/sphere"
)

// ProjectOptions controls how a polygon is placed in the render frame.
type ProjectOptions struct {
	Radius      float64 // nominal globe radius
	LayerOffset float64 // tile layer radius factor, > 1
	Shrink      float64 // pull toward the centroid, (0, 1]
}

// Validate reports the first invalid option.
func (o ProjectOptions) Validate() error {
	switch {
	case !(o.Radius > 0):
		return &ConfigError{Field: "radius", Value: o.Radius, Reason: "must be positive"}
	case !(o.LayerOffset > 1):
		return &ConfigError{Field: "layer_offset", Value: o.LayerOffset, Reason: "must be greater than 1"}
	case !(o.Shrink > 0) || o.Shrink > 1:
		return &ConfigError{Field: "shrink_factor", Value: o.Shrink, Reason: "must be in (0,1]"}
	}
	return nil
}

// Projected is a tile outline in the render frame.
type Projected struct {
	Boundary sphere.Boundary // at Radius*LayerOffset, shrunk, open, CCW from outside
	Center   r3.Vector       // un-shrunk centroid direction at Radius
	LatLng   sphere.LatLng   // geographic position of Center
}

// Project maps a polygon onto the tile layer. The ring is shrunk toward
// its area-weighted centroid on the unit sphere, pushed out to the tile
// layer radius, and rewound if needed so its normal faces away from the
// origin. A trailing copy of the first vertex is dropped.
func Project(poly Polygon, opts ProjectOptions) (Projected, error) {
	if err := opts.Validate(); err != nil {
		return Projected{}, err
	}

	unit := make([]r3.Vector, 0, len(poly.Ring))
	for _, ll := range poly.Ring {
		p := sphere.ToCartesian(ll, 1)
		if n := len(unit); n > 0 && unit[n-1].Sub(p).Norm() < 1e-12 {
			continue
		}
		unit = append(unit, p)
	}
	if n := len(unit); n > 1 && unit[0].Sub(unit[n-1]).Norm() < 1e-12 {
		unit = unit[:n-1]
	}

	centroid := sphere.Centroid(unit)
	dir := centroid.Normalize()
	if centroid.Norm() < 1e-12 {
		dir = sphere.ToCartesian(poly.Center, 1)
	}

	layer := opts.Radius * opts.LayerOffset
	boundary := make(sphere.Boundary, len(unit))
	for i, p := range unit {
		shrunk := centroid.Add(p.Sub(centroid).Mul(opts.Shrink))
		boundary[i] = shrunk.Normalize().Mul(layer)
	}
	if len(boundary) >= 3 && !sphere.IsOutward(boundary) {
		slices.Reverse(boundary)
	}

	center := dir.Mul(opts.Radius)
	return Projected{
		Boundary: boundary,
		Center:   center,
		LatLng:   sphere.FromCartesian(center),
	}, nil
}
