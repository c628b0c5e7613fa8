package sphere

import (
	"math"
	"testing"

	"github.com/golang/geo/r3"
	"github.com/golang/geo/s2"
)

const eps = 1e-9

func near(a, b, tol float64) bool {
	return math.Abs(a-b) <= tol
}

func TestToCartesianAxes(t *testing.T) {
	tests := []struct {
		name string
		ll   LatLng
		want r3.Vector
	}{
		{"lng 0 on equator", LatLng{0, 0}, r3.Vector{X: 2, Y: 0, Z: 0}},
		{"north pole", LatLng{90, 0}, r3.Vector{X: 0, Y: 2, Z: 0}},
		{"south pole", LatLng{-90, 0}, r3.Vector{X: 0, Y: -2, Z: 0}},
		{"lng 90 on equator", LatLng{0, 90}, r3.Vector{X: 0, Y: 0, Z: -2}},
		{"lng -90 on equator", LatLng{0, -90}, r3.Vector{X: 0, Y: 0, Z: 2}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ToCartesian(tt.ll, 2)
			if got.Sub(tt.want).Norm() > eps {
				t.Errorf("ToCartesian(%v) = %v, want %v", tt.ll, got, tt.want)
			}
		})
	}
}

func TestRoundTrip(t *testing.T) {
	for lat := -89.5; lat < 90; lat += 7.25 {
		for lng := -179.0; lng <= 180; lng += 11.5 {
			ll := LatLng{Lat: lat, Lng: lng}
			got := FromCartesian(ToCartesian(ll, 3.5))
			if !near(got.Lat, lat, 1e-9) || !near(got.Lng, lng, 1e-9) {
				t.Fatalf("round trip %v -> %v", ll, got)
			}
		}
	}
}

func TestRoundTripAntimeridian(t *testing.T) {
	got := FromCartesian(ToCartesian(LatLng{Lat: 12, Lng: 180}, 1))
	if !near(got.Lng, 180, 1e-9) {
		t.Errorf("lng 180 came back as %v", got.Lng)
	}
}

func TestS2FrameAgreesWithProjection(t *testing.T) {
	for _, ll := range []LatLng{{10, 20}, {-45, 170}, {60, -120}, {-5, -179}} {
		want := ToCartesian(ll, 2)
		got := FromS2Point(s2.PointFromLatLng(ll.S2()), 2)
		if got.Sub(want).Norm() > 1e-9 {
			t.Errorf("FromS2Point(%v) = %v, want %v", ll, got, want)
		}

		back := FromS2(s2.LatLngFromPoint(ToS2Point(want)))
		if !near(back.Lat, ll.Lat, 1e-9) || !near(back.Lng, ll.Lng, 1e-9) {
			t.Errorf("ToS2Point(%v) -> %v", ll, back)
		}
	}
}

func TestNormalizeLng(t *testing.T) {
	tests := []struct {
		in, want float64
	}{
		{0, 0},
		{180, 180},
		{-180, 180},
		{190, -170},
		{-190, 170},
		{720 + 45, 45},
	}
	for _, tt := range tests {
		if got := NormalizeLng(tt.in); !near(got, tt.want, eps) {
			t.Errorf("NormalizeLng(%v) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestCentroidSquare(t *testing.T) {
	sq := []r3.Vector{{X: 1, Y: -1, Z: -1}, {X: 1, Y: 1, Z: -1}, {X: 1, Y: 1, Z: 1}, {X: 1, Y: -1, Z: 1}}
	c := Centroid(sq)
	if c.Sub(r3.Vector{X: 1}).Norm() > eps {
		t.Errorf("Centroid = %v, want (1,0,0)", c)
	}
}

func TestIsOutward(t *testing.T) {
	// CCW seen from +X (outside the sphere at lng 0)
	ccw := []r3.Vector{{X: 1, Y: -1, Z: 1}, {X: 1, Y: -1, Z: -1}, {X: 1, Y: 1, Z: -1}, {X: 1, Y: 1, Z: 1}}
	if !IsOutward(ccw) {
		t.Error("expected polygon to face outward")
	}

	cw := make([]r3.Vector, len(ccw))
	for i := range ccw {
		cw[i] = ccw[len(ccw)-1-i]
	}
	if IsOutward(cw) {
		t.Error("expected reversed polygon to face inward")
	}
}
