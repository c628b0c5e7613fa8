// Package mesh builds renderable triangle meshes for globe tiles.
package mesh

import "errors"

// ErrDegenerate is returned for boundaries with fewer than three vertices.
var ErrDegenerate = errors.New("degenerate boundary")

// ErrDepth is returned when an extrusion depth is not positive.
var ErrDepth = errors.New("extrusion depth must be positive")

// Vertex is a mesh vertex as uploaded to the GPU.
type Vertex struct {
	Position [3]float32
	Normal   [3]float32
}

// Mesh holds triangle data ready for GPU upload. It is immutable once built.
type Mesh struct {
	Vertices []Vertex
	Indices  []uint32
	Bounds   Bounds
}

// Bounds holds the axis-aligned bounding box of a mesh.
type Bounds struct {
	Min [3]float32
	Max [3]float32
}

// TriangleCount returns the number of indexed triangles.
func (m *Mesh) TriangleCount() int {
	return len(m.Indices) / 3
}

// Triangle returns the vertex positions of triangle t.
func (m *Mesh) Triangle(t int) (a, b, c [3]float32) {
	i := m.Indices[t*3 : t*3+3]
	return m.Vertices[i[0]].Position, m.Vertices[i[1]].Position, m.Vertices[i[2]].Position
}

// FaceNormal returns the unnormalized geometric normal of triangle t,
// following its index winding.
func (m *Mesh) FaceNormal(t int) [3]float32 {
	a, b, c := m.Triangle(t)
	return cross(sub(b, a), sub(c, a))
}

// SizeBytes estimates the buffer footprint of the mesh.
func (m *Mesh) SizeBytes() int {
	return len(m.Vertices)*24 + len(m.Indices)*4
}
