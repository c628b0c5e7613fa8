package camera

import (
	gomath "math"
	"testing"

	"github.com/golang/geo/r3"
	"go.uber.org/zap/zaptest"

	"github.com/Faultbox/hexglobe/internal/globe/sphere"
	"github.com/Faultbox/hexglobe/pkg/math"
)

const eps = 1e-9

func TestAngleDeltaShortestPath(t *testing.T) {
	currents := []float64{0, 1, -1, gomath.Pi, -gomath.Pi, 7 * gomath.Pi, -13.3, 100.25}
	targets := []float64{0, 0.5, -2.5, gomath.Pi - 1e-6, -gomath.Pi + 1e-6, 3, -3}

	for _, c := range currents {
		for _, target := range targets {
			d := AngleDelta(c, target)
			if d < -gomath.Pi-eps || d > gomath.Pi+eps {
				t.Fatalf("AngleDelta(%v, %v) = %v, outside [-π, π]", c, target, d)
			}
			// c + d ≡ target (mod 2π)
			r := gomath.Remainder(c+d-target, 2*gomath.Pi)
			if gomath.Abs(r) > 1e-9 {
				t.Errorf("AngleDelta(%v, %v) = %v; lands %v off target", c, target, d, r)
			}
		}
	}
}

func TestAngleDeltaValues(t *testing.T) {
	tests := []struct {
		current, target, want float64
	}{
		{0, 0, 0},
		{0, gomath.Pi / 2, gomath.Pi / 2},
		{0, -gomath.Pi / 2, -gomath.Pi / 2},
		{3, -3, 2*gomath.Pi - 6},
		{-3, 3, 6 - 2*gomath.Pi},
		{4 * gomath.Pi, 0.25, 0.25},
	}
	for _, tt := range tests {
		if got := AngleDelta(tt.current, tt.target); gomath.Abs(got-tt.want) > 1e-12 {
			t.Errorf("AngleDelta(%v, %v) = %v, want %v", tt.current, tt.target, got, tt.want)
		}
	}
}

func TestTargetAngles(t *testing.T) {
	tests := []struct {
		p         r3.Vector
		az, polar float64
	}{
		{r3.Vector{X: 0, Y: 0, Z: 2}, 0, gomath.Pi / 2},
		{r3.Vector{X: 3, Y: 0, Z: 0}, gomath.Pi / 2, gomath.Pi / 2},
		{r3.Vector{X: 0, Y: 1, Z: 0}, 0, 0},
		{r3.Vector{X: 0, Y: -1, Z: 0}, 0, gomath.Pi},
	}
	for _, tt := range tests {
		az, polar, ok := TargetAngles(tt.p)
		if !ok || gomath.Abs(az-tt.az) > eps || gomath.Abs(polar-tt.polar) > eps {
			t.Errorf("TargetAngles(%v) = %v, %v, %v; want %v, %v", tt.p, az, polar, ok, tt.az, tt.polar)
		}
	}
	if _, _, ok := TargetAngles(r3.Vector{}); ok {
		t.Error("TargetAngles(0) should fail")
	}
}

func TestAlignFacesTile(t *testing.T) {
	cam := NewOrbitCamera()
	cam.SetAzimuthalAngle(9 * gomath.Pi) // several revolutions in
	a := NewAligner(cam, DefaultSpeedCurve, zaptest.NewLogger(t))

	for _, ll := range []sphere.LatLng{{Lat: 10, Lng: 20}, {Lat: -45, Lng: 170}, {Lat: 30, Lng: -170}, {Lat: 0, Lng: 0}} {
		center := sphere.ToCartesian(ll, 2)
		before := cam.AzimuthalAngle()

		delta, ok := a.Align(center)
		if !ok {
			t.Fatalf("Align(%v) failed", ll)
		}
		if gomath.Abs(delta) > gomath.Pi+eps {
			t.Errorf("Align(%v) rotated %v", ll, delta)
		}
		if got := cam.AzimuthalAngle(); gomath.Abs(got-(before+delta)) > eps {
			t.Errorf("azimuth = %v, want %v", got, before+delta)
		}

		pos := cam.Position()
		dir := r3.Vector{X: float64(pos.X), Y: float64(pos.Y), Z: float64(pos.Z)}.Normalize()
		if d := dir.Dot(center.Normalize()); d < 1-1e-5 {
			t.Errorf("camera at %v does not face %v (dot %v)", dir, ll, d)
		}
	}
}

func TestAlignPreservesDistance(t *testing.T) {
	cam := NewOrbitCamera()
	cam.SetDistance(2.7)
	NewAligner(cam, DefaultSpeedCurve, nil).Align(sphere.ToCartesian(sphere.LatLng{Lat: 50, Lng: 60}, 2))
	if gomath.Abs(cam.Distance()-2.7) > eps {
		t.Errorf("Distance = %v after Align, want 2.7", cam.Distance())
	}
}

func TestTickMonotone(t *testing.T) {
	curve := SpeedCurve{Factor: 0.01, Min: 0.02, Max: 0.3}
	prev := -1.0
	for d := 0.0; d <= 10; d += 0.05 {
		s := curve.Tick(d)
		if s.Rotate < prev {
			t.Fatalf("Tick(%v) = %v, below previous %v", d, s.Rotate, prev)
		}
		if s.Rotate < curve.Min || s.Rotate > curve.Max {
			t.Fatalf("Tick(%v) = %v outside bounds", d, s.Rotate)
		}
		if s.Rotate != s.Zoom {
			t.Fatalf("Tick(%v) rotate %v != zoom %v", d, s.Rotate, s.Zoom)
		}
		prev = s.Rotate
	}
	if got := curve.Tick(3).Rotate; gomath.Abs(got-0.09) > eps {
		t.Errorf("Tick(3) = %v, want 0.09", got)
	}
	if got := DefaultSpeedCurve.Tick(3.5).Rotate; gomath.Abs(got-0.1) > eps {
		t.Errorf("default Tick(3.5) = %v, want 0.1", got)
	}
}

type fakeOrbit struct {
	az, polar, dist float64
	rotate, zoom    float64
	updates         int
}

func (f *fakeOrbit) AzimuthalAngle() float64 { return f.az }
func (f *fakeOrbit) SetAzimuthalAngle(a float64) { f.az = a }
func (f *fakeOrbit) SetPolarAngle(p float64) { f.polar = p }
func (f *fakeOrbit) Update() { f.updates++ }
func (f *fakeOrbit) Distance() float64 { return f.dist }
func (f *fakeOrbit) SetSpeeds(r, z float64) { f.rotate, f.zoom = r, z }

func TestFrameWritesSpeeds(t *testing.T) {
	o := &fakeOrbit{dist: 3}
	a := NewAligner(o, SpeedCurve{Factor: 0.01}, nil)
	a.Frame()
	if gomath.Abs(o.rotate-0.09) > eps || o.rotate != o.zoom {
		t.Errorf("speeds = %v, %v", o.rotate, o.zoom)
	}
	o.dist = 2
	a.Frame()
	if gomath.Abs(o.rotate-0.04) > eps {
		t.Errorf("rotate = %v after zoom in", o.rotate)
	}
	if o.updates != 0 {
		t.Error("Frame must not move the camera")
	}
}

func TestAlignCallsUpdateOnce(t *testing.T) {
	o := &fakeOrbit{az: -3}
	NewAligner(o, DefaultSpeedCurve, nil).Align(r3.Vector{X: 0, Y: 0, Z: -1}) // azimuth π
	if o.updates != 1 {
		t.Errorf("Update called %d times", o.updates)
	}
	// From -3 the short way to π is backwards through -π.
	if want := -gomath.Pi; gomath.Abs(o.az-want) > eps {
		t.Errorf("azimuth = %v, want %v", o.az, want)
	}
	if gomath.Abs(o.polar-gomath.Pi/2) > eps {
		t.Errorf("polar = %v", o.polar)
	}
}

func TestOrbitDamping(t *testing.T) {
	cam := NewOrbitCamera()
	cam.HandleDrag(-100, 0)
	start := cam.AzimuthalAngle()

	cam.Update()
	first := cam.AzimuthalAngle() - start
	cam.Update()
	second := cam.AzimuthalAngle() - start - first
	if first <= 0 || second <= 0 || second >= first {
		t.Errorf("damped steps %v then %v; want positive and shrinking", first, second)
	}
	for range 500 {
		cam.Update()
	}
	if !cam.Settled() {
		t.Error("camera did not settle")
	}
}

func TestOrbitClamps(t *testing.T) {
	cam := NewOrbitCamera()
	cam.Damping = 0
	for range 50 {
		cam.HandleZoom(10)
		cam.Update()
	}
	if cam.Distance() != cam.MinDistance {
		t.Errorf("Distance = %v, want min %v", cam.Distance(), cam.MinDistance)
	}
	for range 50 {
		cam.HandleZoom(-10)
		cam.Update()
	}
	if cam.Distance() != cam.MaxDistance {
		t.Errorf("Distance = %v, want max %v", cam.Distance(), cam.MaxDistance)
	}

	cam.SetPolarAngle(-1)
	if cam.PolarAngle() != cam.MinPolar {
		t.Errorf("PolarAngle = %v", cam.PolarAngle())
	}
	cam.SetPolarAngle(10)
	if cam.PolarAngle() != cam.MaxPolar {
		t.Errorf("PolarAngle = %v", cam.PolarAngle())
	}
}

func TestViewMatrixLooksAtCenter(t *testing.T) {
	cam := NewOrbitCamera()
	cam.SetAzimuthalAngle(1.2)
	cam.SetPolarAngle(0.8)
	cam.Update()

	got := cam.ViewMatrix().MulVec4(math.Vec4{0, 0, 0, 1})
	want := float32(-cam.Distance())
	if gomath.Abs(float64(got[0])) > 1e-4 || gomath.Abs(float64(got[1])) > 1e-4 || gomath.Abs(float64(got[2]-want)) > 1e-4 {
		t.Errorf("globe center in view space = %v, want (0, 0, %v)", got, want)
	}
}
