// Package camera provides the orbit camera that circles the globe and the
// driver that points it at selected tiles.
package camera

import (
	gomath "math"

	"github.com/Faultbox/hexglobe/pkg/math"
)

// Orbit is the orbit controller surface the alignment driver works with.
// It reads angles and distance and writes angles and speeds; it never
// moves the camera directly.
type Orbit interface {
	AzimuthalAngle() float64
	SetAzimuthalAngle(radians float64)
	SetPolarAngle(radians float64)
	Update()
	Distance() float64
	SetSpeeds(rotate, zoom float64)
}

// OrbitCamera orbits the origin on a sphere of variable radius.
//
// Angles follow the usual orbit-control convention: azimuth is measured
// around +Y from +Z towards +X, polar from +Y down. Drag and zoom input
// accumulate into pending deltas that Update applies with exponential
// damping.
type OrbitCamera struct {
	// Spherical coordinates
	azimuth  float64
	polar    float64
	distance float64

	// Pending input, consumed by Update
	dAzimuth float64
	dPolar   float64
	zoom     float64

	// Constraints
	MinDistance float64
	MaxDistance float64
	MinPolar    float64
	MaxPolar    float64

	// Damping is the fraction of pending input applied per Update.
	// Zero applies input immediately.
	Damping float64

	// Sensitivity
	RotateSpeed float64
	ZoomSpeed   float64
}

var _ Orbit = (*OrbitCamera)(nil)

// NewOrbitCamera creates an orbit camera looking at the globe from +Z.
func NewOrbitCamera() *OrbitCamera {
	return &OrbitCamera{
		azimuth:     0,
		polar:       gomath.Pi / 2,
		distance:    3.5,
		zoom:        1,
		MinDistance: 2.2,
		MaxDistance: 3.5,
		MinPolar:    0.01,
		MaxPolar:    gomath.Pi - 0.01,
		Damping:     0.1,
		RotateSpeed: 0.1,
		ZoomSpeed:   0.1,
	}
}

// AzimuthalAngle returns the current azimuth in radians. It is not
// wrapped and may accumulate past ±π over several revolutions.
func (c *OrbitCamera) AzimuthalAngle() float64 {
	return c.azimuth
}

// PolarAngle returns the current polar angle in radians.
func (c *OrbitCamera) PolarAngle() float64 {
	return c.polar
}

// SetAzimuthalAngle places the camera at azimuth and drops pending
// horizontal drag.
func (c *OrbitCamera) SetAzimuthalAngle(radians float64) {
	c.azimuth = radians
	c.dAzimuth = 0
}

// SetPolarAngle places the camera at polar, clamped to the polar range,
// and drops pending vertical drag.
func (c *OrbitCamera) SetPolarAngle(radians float64) {
	c.polar = clamp(radians, c.MinPolar, c.MaxPolar)
	c.dPolar = 0
}

// Distance returns the distance from the globe center.
func (c *OrbitCamera) Distance() float64 {
	return c.distance
}

// SetDistance places the camera at d, clamped to the distance range.
func (c *OrbitCamera) SetDistance(d float64) {
	c.distance = clamp(d, c.MinDistance, c.MaxDistance)
}

// SetSpeeds sets drag and zoom sensitivity.
func (c *OrbitCamera) SetSpeeds(rotate, zoom float64) {
	c.RotateSpeed = rotate
	c.ZoomSpeed = zoom
}

// HandleDrag queues a rotation from a mouse drag delta in pixels.
func (c *OrbitCamera) HandleDrag(deltaX, deltaY float32) {
	const pixelsToRadians = 2 * gomath.Pi / 1000
	c.dAzimuth -= float64(deltaX) * pixelsToRadians * c.RotateSpeed * 10
	c.dPolar -= float64(deltaY) * pixelsToRadians * c.RotateSpeed * 10
}

// HandleZoom queues a dolly from a scroll wheel delta. Positive delta
// moves closer.
func (c *OrbitCamera) HandleZoom(delta float32) {
	c.zoom *= gomath.Pow(0.95, float64(delta)*c.ZoomSpeed*10)
}

// Update applies pending input and enforces the constraints. It is called
// once per frame and after programmatic angle changes.
func (c *OrbitCamera) Update() {
	f := c.Damping
	if f <= 0 || f > 1 {
		f = 1
	}

	c.azimuth += c.dAzimuth * f
	c.polar = clamp(c.polar+c.dPolar*f, c.MinPolar, c.MaxPolar)
	c.distance = clamp(c.distance*(1+(c.zoom-1)*f), c.MinDistance, c.MaxDistance)

	c.dAzimuth *= 1 - f
	c.dPolar *= 1 - f
	c.zoom = 1 + (c.zoom-1)*(1-f)
}

// Settled reports whether no pending input remains.
func (c *OrbitCamera) Settled() bool {
	const eps = 1e-6
	return gomath.Abs(c.dAzimuth) < eps && gomath.Abs(c.dPolar) < eps && gomath.Abs(c.zoom-1) < eps
}

// Position returns the camera position in world space.
func (c *OrbitCamera) Position() math.Vec3 {
	sp, cp := gomath.Sincos(c.polar)
	sa, ca := gomath.Sincos(c.azimuth)
	return math.Vec3{
		X: float32(c.distance * sp * sa),
		Y: float32(c.distance * cp),
		Z: float32(c.distance * sp * ca),
	}
}

// ViewMatrix returns the view matrix for this camera.
func (c *OrbitCamera) ViewMatrix() math.Mat4 {
	up := math.Vec3{X: 0, Y: 1, Z: 0}
	return math.LookAt(c.Position(), math.Vec3{}, up)
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
