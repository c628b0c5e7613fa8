// Package lighting provides lighting utilities for the globe scene.
package lighting

import (
	"github.com/Faultbox/hexglobe/internal/globe/sphere"
)

// Sun is a directional light placed above a point on the globe.
type Sun struct {
	Position sphere.LatLng // subsolar point
	Ambient  float32       // fraction of color lit regardless of direction
}

// Direction returns the normalized direction the sunlight travels, from
// the sun toward the globe center. The subsolar point is fully lit.
func (s Sun) Direction() [3]float32 {
	v := sphere.ToCartesian(s.Position, 1).Normalize()
	return [3]float32{float32(-v.X), float32(-v.Y), float32(-v.Z)}
}
