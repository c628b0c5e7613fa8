package mesh

import (
	"errors"
	"math"
	"testing"

	"github.com/golang/geo/r3"

	"github.com/Faultbox/hexglobe/internal/globe/sphere"
)

// ring returns an n-gon of angular radius d degrees around (lat, lng),
// counter-clockwise as seen from outside the sphere.
func ring(lat, lng, d float64, n int, radius float64) sphere.Boundary {
	out := make(sphere.Boundary, n)
	cosLat := math.Cos(lat * math.Pi / 180)
	for k := range n {
		a := 2 * math.Pi * float64(k) / float64(n)
		ll := sphere.LatLng{
			Lat: lat + d*math.Sin(a),
			Lng: lng + d*math.Cos(a)/cosLat,
		}
		out[k] = sphere.ToCartesian(ll, radius)
	}
	return out
}

func centroid32(a, b, c [3]float32) [3]float32 {
	return [3]float32{(a[0] + b[0] + c[0]) / 3, (a[1] + b[1] + c[1]) / 3, (a[2] + b[2] + c[2]) / 3}
}

func checkIndices(t *testing.T, m *Mesh) {
	t.Helper()
	for i, idx := range m.Indices {
		if int(idx) >= len(m.Vertices) {
			t.Fatalf("index %d = %d out of range [0,%d)", i, idx, len(m.Vertices))
		}
	}
}

func TestBuildFlat(t *testing.T) {
	for _, n := range []int{3, 4, 6, 9} {
		b := ring(20, 45, 2, n, 2)
		m, err := BuildFlat(b)
		if err != nil {
			t.Fatalf("BuildFlat(n=%d): %v", n, err)
		}
		if got, want := m.TriangleCount(), n-2; got != want {
			t.Errorf("n=%d: triangles = %d, want %d", n, got, want)
		}
		if len(m.Vertices) != n {
			t.Errorf("n=%d: vertices = %d, want %d", n, len(m.Vertices), n)
		}
		checkIndices(t, m)

		for tri := range m.TriangleCount() {
			a, bb, c := m.Triangle(tri)
			if dot(m.FaceNormal(tri), centroid32(a, bb, c)) <= 0 {
				t.Errorf("n=%d: triangle %d faces the sphere center", n, tri)
			}
		}
		for i, v := range m.Vertices {
			if dot(v.Normal, v.Position) <= 0 {
				t.Errorf("n=%d: vertex %d normal %v points inward", n, i, v.Normal)
			}
			l := math.Sqrt(float64(dot(v.Normal, v.Normal)))
			if math.Abs(l-1) > 1e-4 {
				t.Errorf("n=%d: vertex %d normal length %v", n, i, l)
			}
		}
	}
}

func TestBuildFlatDegenerate(t *testing.T) {
	for _, b := range []sphere.Boundary{nil, {{X: 1}}, {{X: 1}, {Y: 1}}} {
		if _, err := BuildFlat(b); !errors.Is(err, ErrDegenerate) {
			t.Errorf("BuildFlat(%d vertices) err = %v, want ErrDegenerate", len(b), err)
		}
		if _, err := BuildExtruded(b, 0.1); !errors.Is(err, ErrDegenerate) {
			t.Errorf("BuildExtruded(%d vertices) err = %v, want ErrDegenerate", len(b), err)
		}
	}
}

func TestBuildExtrudedDepth(t *testing.T) {
	b := ring(0, 0, 2, 6, 2)
	for _, depth := range []float64{0, -0.1, math.NaN()} {
		if _, err := BuildExtruded(b, depth); !errors.Is(err, ErrDepth) {
			t.Errorf("BuildExtruded(depth=%v) err = %v, want ErrDepth", depth, err)
		}
	}
}

func TestBuildExtrudedWinding(t *testing.T) {
	for _, n := range []int{3, 4, 6} {
		b := ring(-35, 170, 3, n, 2)
		m, err := BuildExtruded(b, 0.05)
		if err != nil {
			t.Fatalf("BuildExtruded(n=%d): %v", n, err)
		}
		if got, want := m.TriangleCount(), 2*(n-2)+2*n; got != want {
			t.Fatalf("n=%d: triangles = %d, want %d", n, got, want)
		}
		checkIndices(t, m)

		axis := sphere.Centroid(b).Normalize()
		caps := n - 2
		for tri := range m.TriangleCount() {
			a, bb, c := m.Triangle(tri)
			mid := centroid32(a, bb, c)
			fn := m.FaceNormal(tri)
			switch {
			case tri < caps:
				if dot(fn, mid) <= 0 {
					t.Errorf("n=%d: front triangle %d faces the sphere center", n, tri)
				}
			case tri < 2*caps:
				if dot(fn, mid) >= 0 {
					t.Errorf("n=%d: back triangle %d faces away from the prism", n, tri)
				}
			default:
				p := r3.Vector{X: float64(mid[0]), Y: float64(mid[1]), Z: float64(mid[2])}
				out := p.Sub(axis.Mul(p.Dot(axis)))
				if dot(fn, vec32(out)) <= 0 {
					t.Errorf("n=%d: side triangle %d faces the prism axis", n, tri)
				}
			}
		}
	}
}

func TestBuildExtrudedSidesJoinConsecutivePairs(t *testing.T) {
	n := 6
	b := ring(10, -60, 2, n, 2)
	m, err := BuildExtruded(b, 0.1)
	if err != nil {
		t.Fatal(err)
	}

	for i := range n {
		j := (i + 1) % n
		base := 2*n + 4*i
		wantBase := [2][3]float32{vec32(b[i]), vec32(b[j])}
		got := [2][3]float32{m.Vertices[base].Position, m.Vertices[base+1].Position}
		if got != wantBase {
			t.Errorf("side %d base = %v, want %v", i, got, wantBase)
		}
		top := m.Vertices[base+2].Position
		if top != m.Vertices[j].Position {
			t.Errorf("side %d top = %v, want front vertex %d %v", i, top, j, m.Vertices[j].Position)
		}
	}

	// Raised cap sits depth further from the origin.
	for i := range n {
		r0 := b[i].Norm()
		f := m.Vertices[i].Position
		r1 := math.Sqrt(float64(dot(f, f)))
		if math.Abs(r1-r0-0.1) > 1e-5 {
			t.Errorf("front vertex %d radius %v, want %v", i, r1, r0+0.1)
		}
	}
}

func TestBuildSphere(t *testing.T) {
	m := BuildSphere(2, 16, 32)
	if got, want := m.TriangleCount(), 16*32*2; got != want {
		t.Fatalf("triangles = %d, want %d", got, want)
	}
	checkIndices(t, m)

	for tri := range m.TriangleCount() {
		fn := m.FaceNormal(tri)
		if dot(fn, fn) < 1e-12 {
			continue // pole triangles collapse
		}
		a, b, c := m.Triangle(tri)
		if dot(fn, centroid32(a, b, c)) <= 0 {
			t.Fatalf("sphere triangle %d winds inward", tri)
		}
	}
	if m.Bounds.Max[1] < 1.999 || m.Bounds.Min[1] > -1.999 {
		t.Errorf("bounds = %+v", m.Bounds)
	}
}
