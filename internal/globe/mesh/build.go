package mesh

import (
	"fmt"
	"math"

	"github.com/golang/geo/r3"

	"github.com/Faultbox/hexglobe/internal/globe/sphere"
)

// BuildFlat triangulates a boundary as a fan from vertex 0.
// An n-vertex boundary yields exactly n-2 triangles.
func BuildFlat(boundary sphere.Boundary) (*Mesh, error) {
	n := len(boundary)
	if n < 3 {
		return nil, fmt.Errorf("flat mesh with %d vertices: %w", n, ErrDegenerate)
	}

	vertices := make([]Vertex, n)
	for i, p := range boundary {
		vertices[i].Position = vec32(p)
	}

	indices := make([]uint32, 0, (n-2)*3)
	indices = appendFan(indices, 0, n, false)

	smoothNormals(vertices, indices)

	return &Mesh{
		Vertices: vertices,
		Indices:  indices,
		Bounds:   boundsOf(vertices),
	}, nil
}

// BuildExtruded builds a closed prism over the boundary. The front cap is
// the boundary raised by depth along each vertex's radial direction, the
// back cap is the boundary itself, and the side walls join consecutive
// front/back pairs. An n-vertex boundary yields 2(n-2)+2n triangles.
func BuildExtruded(boundary sphere.Boundary, depth float64) (*Mesh, error) {
	if depth <= 0 || math.IsNaN(depth) {
		return nil, fmt.Errorf("depth %v: %w", depth, ErrDepth)
	}
	n := len(boundary)
	if n < 3 {
		return nil, fmt.Errorf("extruded mesh with %d vertices: %w", n, ErrDegenerate)
	}

	front := make([]r3.Vector, n)
	for i, p := range boundary {
		front[i] = p.Add(p.Normalize().Mul(depth))
	}

	// Layout: [0,n) front cap, [n,2n) back cap, then 4 vertices per side quad.
	vertices := make([]Vertex, 0, 6*n)
	for _, p := range front {
		vertices = append(vertices, Vertex{Position: vec32(p)})
	}
	for _, p := range boundary {
		vertices = append(vertices, Vertex{Position: vec32(p)})
	}

	indices := make([]uint32, 0, (2*(n-2)+2*n)*3)
	indices = appendFan(indices, 0, n, false)
	indices = appendFan(indices, uint32(n), n, true)

	// Caps share vertices within themselves only, so smoothing them before
	// the walls are appended keeps the wall normals flat.
	smoothNormals(vertices, indices)

	for i := range n {
		j := (i + 1) % n
		bi, bj := vec32(boundary[i]), vec32(boundary[j])
		ti, tj := vec32(front[i]), vec32(front[j])
		normal := normalize(cross(sub(bj, bi), sub(tj, bi)))

		base := uint32(len(vertices))
		vertices = append(vertices,
			Vertex{Position: bi, Normal: normal},
			Vertex{Position: bj, Normal: normal},
			Vertex{Position: tj, Normal: normal},
			Vertex{Position: ti, Normal: normal},
		)
		indices = append(indices,
			base, base+1, base+2,
			base, base+2, base+3,
		)
	}

	return &Mesh{
		Vertices: vertices,
		Indices:  indices,
		Bounds:   boundsOf(vertices),
	}, nil
}

// BuildSphere builds a UV sphere with outward winding, used as the
// background globe under the tiles.
func BuildSphere(radius float64, rings, segments int) *Mesh {
	if rings < 2 {
		rings = 2
	}
	if segments < 3 {
		segments = 3
	}

	vertices := make([]Vertex, 0, (rings+1)*(segments+1))
	for ring := 0; ring <= rings; ring++ {
		theta := float64(ring) * math.Pi / float64(rings)
		for seg := 0; seg <= segments; seg++ {
			phi := float64(seg) * 2 * math.Pi / float64(segments)
			n := r3.Vector{
				X: math.Cos(phi) * math.Sin(theta),
				Y: math.Cos(theta),
				Z: math.Sin(phi) * math.Sin(theta),
			}
			vertices = append(vertices, Vertex{
				Position: vec32(n.Mul(radius)),
				Normal:   vec32(n),
			})
		}
	}

	indices := make([]uint32, 0, rings*segments*6)
	for ring := range rings {
		for seg := range segments {
			current := uint32(ring*(segments+1) + seg)
			next := current + uint32(segments) + 1
			indices = append(indices,
				current, current+1, next,
				current+1, next+1, next,
			)
		}
	}

	return &Mesh{
		Vertices: vertices,
		Indices:  indices,
		Bounds:   boundsOf(vertices),
	}
}

// appendFan appends the fan (0,i,i+1) over n vertices starting at base.
// When reversed each triangle is emitted as (0,i+1,i).
func appendFan(indices []uint32, base uint32, n int, reversed bool) []uint32 {
	for i := 1; i <= n-2; i++ {
		a, b, c := base, base+uint32(i), base+uint32(i+1)
		if reversed {
			b, c = c, b
		}
		indices = append(indices, a, b, c)
	}
	return indices
}

// smoothNormals sets each vertex normal to the normalized sum of the
// face normals of the triangles that reference it. Larger faces weigh more.
func smoothNormals(vertices []Vertex, indices []uint32) {
	sums := make([][3]float32, len(vertices))
	for t := 0; t+2 < len(indices); t += 3 {
		a, b, c := indices[t], indices[t+1], indices[t+2]
		pa, pb, pc := vertices[a].Position, vertices[b].Position, vertices[c].Position
		fn := cross(sub(pb, pa), sub(pc, pa))
		for _, idx := range [3]uint32{a, b, c} {
			sums[idx] = add(sums[idx], fn)
		}
	}
	for i := range vertices {
		if sums[i] == ([3]float32{}) {
			continue
		}
		vertices[i].Normal = normalize(sums[i])
	}
}

// Helper functions

func boundsOf(vertices []Vertex) Bounds {
	b := Bounds{
		Min: [3]float32{math.MaxFloat32, math.MaxFloat32, math.MaxFloat32},
		Max: [3]float32{-math.MaxFloat32, -math.MaxFloat32, -math.MaxFloat32},
	}
	for _, v := range vertices {
		for k := range 3 {
			b.Min[k] = min(b.Min[k], v.Position[k])
			b.Max[k] = max(b.Max[k], v.Position[k])
		}
	}
	return b
}

func vec32(v r3.Vector) [3]float32 {
	return [3]float32{float32(v.X), float32(v.Y), float32(v.Z)}
}

func add(a, b [3]float32) [3]float32 {
	return [3]float32{a[0] + b[0], a[1] + b[1], a[2] + b[2]}
}

func sub(a, b [3]float32) [3]float32 {
	return [3]float32{a[0] - b[0], a[1] - b[1], a[2] - b[2]}
}

func cross(a, b [3]float32) [3]float32 {
	return [3]float32{
		a[1]*b[2] - a[2]*b[1],
		a[2]*b[0] - a[0]*b[2],
		a[0]*b[1] - a[1]*b[0],
	}
}

func dot(a, b [3]float32) float32 {
	return a[0]*b[0] + a[1]*b[1] + a[2]*b[2]
}

func normalize(v [3]float32) [3]float32 {
	l := float32(math.Sqrt(float64(dot(v, v))))
	if l < 1e-12 {
		return [3]float32{0, 1, 0}
	}
	return [3]float32{v[0] / l, v[1] / l, v[2] / l}
}
