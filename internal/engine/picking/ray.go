// Package picking turns screen clicks into globe tiles.
package picking

import (
	gomath "math"

	"github.com/golang/geo/r3"

	"github.com/Faultbox/hexglobe/pkg/math"
)

// Ray represents a ray in world space with origin and direction.
type Ray struct {
	Origin    r3.Vector
	Direction r3.Vector // Normalized direction
}

// ScreenToRay converts screen coordinates to a world-space ray.
// screenX, screenY are pixel coordinates, viewportW/H are viewport dimensions.
// invViewProj is the inverse of the view-projection matrix.
func ScreenToRay(screenX, screenY, viewportW, viewportH float32, invViewProj math.Mat4) Ray {
	// Convert screen coords to normalized device coords (-1 to 1)
	ndcX := 2.0*screenX/viewportW - 1.0
	ndcY := 1.0 - 2.0*screenY/viewportH // Flip Y

	nearWorld := unproject(invViewProj, math.Vec4{ndcX, ndcY, -1.0, 1.0})
	farWorld := unproject(invViewProj, math.Vec4{ndcX, ndcY, 1.0, 1.0})

	dir := farWorld.Sub(nearWorld)
	if dir.Norm() > 0 {
		dir = dir.Normalize()
	}
	return Ray{Origin: nearWorld, Direction: dir}
}

func unproject(invViewProj math.Mat4, p math.Vec4) r3.Vector {
	w := invViewProj.MulVec4(p)
	v := r3.Vector{X: float64(w[0]), Y: float64(w[1]), Z: float64(w[2])}
	if w[3] != 0 {
		v = v.Mul(1 / float64(w[3]))
	}
	return v
}

// At returns the point at distance t along the ray.
func (r Ray) At(t float64) r3.Vector {
	return r.Origin.Add(r.Direction.Mul(t))
}

// IntersectSphere intersects the ray with a sphere of the given radius
// centred on the origin. It returns the nearest non-negative distance; a
// ray starting inside the sphere returns the exit distance.
func (r Ray) IntersectSphere(radius float64) (t float64, hit bool) {
	o, d := r.Origin, r.Direction

	a := d.Dot(d)
	if a == 0 {
		return 0, false
	}
	b := 2 * o.Dot(d)
	c := o.Dot(o) - radius*radius
	disc := b*b - 4*a*c
	if disc < 0 {
		return 0, false
	}

	sq := gomath.Sqrt(disc)
	t0 := (-b - sq) / (2 * a)
	t1 := (-b + sq) / (2 * a)
	if t0 >= 0 {
		return t0, true
	}
	if t1 >= 0 {
		return t1, true
	}
	return 0, false
}

// Locator maps a point on the globe to a tile index.
type Locator interface {
	Locate(p r3.Vector) (int, bool)
}

// PickTile intersects the ray with the globe and returns the tile under
// the hit point.
func PickTile(r Ray, radius float64, l Locator) (int, bool) {
	t, ok := r.IntersectSphere(radius)
	if !ok {
		return 0, false
	}
	return l.Locate(r.At(t))
}
