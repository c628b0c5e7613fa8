// Package sphere converts between geographic coordinates and the render
// frame used by the globe (Y up, camera looking down -Z at lng 0).
package sphere

import (
	"math"

	"github.com/golang/geo/r3"
	"github.com/golang/geo/s2"
)

// LatLng is a geographic coordinate in degrees.
// Lat is in [-90, 90], Lng in (-180, 180].
type LatLng struct {
	Lat float64
	Lng float64
}

// Boundary is an open polygon on or above the sphere, wound
// counter-clockwise as seen from outside.
type Boundary []r3.Vector

// FromS2 converts an s2.LatLng.
func FromS2(ll s2.LatLng) LatLng {
	return LatLng{Lat: ll.Lat.Degrees(), Lng: NormalizeLng(ll.Lng.Degrees())}
}

// S2 returns the s2 representation.
func (ll LatLng) S2() s2.LatLng {
	return s2.LatLngFromDegrees(ll.Lat, ll.Lng)
}

// ToCartesian projects a coordinate onto a sphere of the given radius.
// Polar angle is 90-lat and azimuth is lng+180.
func ToCartesian(ll LatLng, radius float64) r3.Vector {
	phi := (90 - ll.Lat) * math.Pi / 180
	theta := (ll.Lng + 180) * math.Pi / 180

	return r3.Vector{
		X: -radius * math.Sin(phi) * math.Cos(theta),
		Y: radius * math.Cos(phi),
		Z: radius * math.Sin(phi) * math.Sin(theta),
	}
}

// FromCartesian is the inverse of ToCartesian. The radius is discarded.
// At the poles the longitude is reported as 0.
func FromCartesian(p r3.Vector) LatLng {
	r := p.Norm()
	if r == 0 {
		return LatLng{}
	}
	y := clamp(p.Y/r, -1, 1)
	lat := math.Asin(y) * 180 / math.Pi

	// -x = r sin(phi) cos(theta), z = r sin(phi) sin(theta)
	if math.Abs(p.X) < 1e-15 && math.Abs(p.Z) < 1e-15 {
		return LatLng{Lat: lat}
	}
	theta := math.Atan2(p.Z, -p.X)
	return LatLng{Lat: lat, Lng: NormalizeLng(theta*180/math.Pi - 180)}
}

// FromS2Point maps a unit s2.Point into the render frame at radius.
// It agrees with ToCartesian: render (x, y, z) = s2 (x, z, -y).
func FromS2Point(p s2.Point, radius float64) r3.Vector {
	return r3.Vector{X: p.X, Y: p.Z, Z: -p.Y}.Mul(radius)
}

// ToS2Point maps a render-frame vector back onto the unit s2 sphere.
func ToS2Point(v r3.Vector) s2.Point {
	return s2.Point{Vector: r3.Vector{X: v.X, Y: -v.Z, Z: v.Y}.Normalize()}
}

// NormalizeLng wraps a longitude into (-180, 180].
func NormalizeLng(lng float64) float64 {
	lng = math.Mod(lng, 360)
	if lng <= -180 {
		lng += 360
	} else if lng > 180 {
		lng -= 360
	}
	return lng
}

// Centroid returns the area-weighted centroid of a planar-ish polygon
// using a triangle fan from its first vertex. Degenerate polygons fall
// back to the vertex average.
func Centroid(poly []r3.Vector) r3.Vector {
	if len(poly) == 0 {
		return r3.Vector{}
	}
	var sum r3.Vector
	var area float64
	for i := 1; i+1 < len(poly); i++ {
		a := poly[i].Sub(poly[0]).Cross(poly[i+1].Sub(poly[0])).Norm() / 2
		c := poly[0].Add(poly[i]).Add(poly[i+1]).Mul(1.0 / 3)
		sum = sum.Add(c.Mul(a))
		area += a
	}
	if area > 1e-18 {
		return sum.Mul(1 / area)
	}

	sum = r3.Vector{}
	for _, p := range poly {
		sum = sum.Add(p)
	}
	return sum.Mul(1 / float64(len(poly)))
}

// Normal returns the (unnormalized) Newell normal of a polygon.
func Normal(poly []r3.Vector) r3.Vector {
	var n r3.Vector
	for i := range poly {
		a := poly[i]
		b := poly[(i+1)%len(poly)]
		n.X += (a.Y - b.Y) * (a.Z + b.Z)
		n.Y += (a.Z - b.Z) * (a.X + b.X)
		n.Z += (a.X - b.X) * (a.Y + b.Y)
	}
	return n
}

// IsOutward reports whether the polygon winds counter-clockwise when
// viewed from outside the sphere centered at the origin.
func IsOutward(poly []r3.Vector) bool {
	return Normal(poly).Dot(Centroid(poly)) > 0
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
