package camera

import (
	gomath "math"

	"github.com/golang/geo/r3"
	"go.uber.org/zap"
)

// AngleDelta returns the signed shortest rotation from current to target,
// in [-π, π). current may have accumulated any number of revolutions.
func AngleDelta(current, target float64) float64 {
	d := target - current + gomath.Pi
	d -= 2 * gomath.Pi * gomath.Floor(d/(2*gomath.Pi))
	return d - gomath.Pi
}

// TargetAngles returns the azimuth and polar angle that put a camera on
// the ray from the origin through p. ok is false for the zero vector.
func TargetAngles(p r3.Vector) (azimuth, polar float64, ok bool) {
	n := p.Norm()
	if n == 0 || gomath.IsNaN(n) {
		return 0, 0, false
	}
	azimuth = gomath.Atan2(p.X, p.Z)
	polar = gomath.Acos(clamp(p.Y/n, -1, 1))
	return azimuth, polar, true
}

// Speeds are orbit sensitivities for one frame.
type Speeds struct {
	Rotate float64
	Zoom   float64
}

// SpeedCurve maps camera distance to sensitivity: Factor·distance²,
// clamped to [Min, Max]. A zero Max leaves the top open.
type SpeedCurve struct {
	Factor float64
	Min    float64
	Max    float64
}

// DefaultSpeedCurve gives 0.1 at the default outer distance of 3.5.
var DefaultSpeedCurve = SpeedCurve{Factor: 0.1 / (3.5 * 3.5), Min: 0.01, Max: 0.5}

// Tick returns the speeds for a camera at distance. It is monotonically
// non-decreasing in distance.
func (s SpeedCurve) Tick(distance float64) Speeds {
	if distance < 0 || gomath.IsNaN(distance) {
		distance = 0
	}
	v := s.Factor * distance * distance
	if v < s.Min {
		v = s.Min
	}
	if s.Max > 0 && v > s.Max {
		v = s.Max
	}
	return Speeds{Rotate: v, Zoom: v}
}

// Aligner turns the orbit towards selected tiles and keeps its speeds in
// step with zoom.
type Aligner struct {
	orbit Orbit
	curve SpeedCurve
	log   *zap.Logger
}

// NewAligner creates an Aligner driving orbit. A nil log discards output.
func NewAligner(orbit Orbit, curve SpeedCurve, log *zap.Logger) *Aligner {
	if log == nil {
		log = zap.NewNop()
	}
	return &Aligner{orbit: orbit, curve: curve, log: log}
}

// Align points the camera at center, a point in the globe frame. The
// azimuth moves by the shortest signed delta from its current value; the
// polar angle is assigned directly. The pose change is instant; visible
// smoothing is left to the orbit's damping. It returns the applied
// azimuth delta.
func (a *Aligner) Align(center r3.Vector) (float64, bool) {
	az, polar, ok := TargetAngles(center)
	if !ok {
		return 0, false
	}
	current := a.orbit.AzimuthalAngle()
	delta := AngleDelta(current, az)

	a.orbit.SetAzimuthalAngle(current + delta)
	a.orbit.SetPolarAngle(polar)
	a.orbit.Update()

	a.log.Debug("camera aligned",
		zap.Float64("azimuth", current+delta),
		zap.Float64("delta", delta),
		zap.Float64("polar", polar),
	)
	return delta, true
}

// Frame runs once per rendered frame and writes distance-scaled speeds
// back into the orbit.
func (a *Aligner) Frame() Speeds {
	s := a.curve.Tick(a.orbit.Distance())
	a.orbit.SetSpeeds(s.Rotate, s.Zoom)
	return s
}
