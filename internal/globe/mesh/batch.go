package mesh

// BatchStride is the number of floats per batched vertex: position,
// normal and color.
const BatchStride = 9

// Range is a span of a batch's index buffer.
type Range struct {
	First int // first index
	Count int // number of indices
}

// Batch concatenates meshes into one interleaved vertex buffer and one
// index buffer so many tiles draw with a single call. Each appended mesh
// keeps a contiguous index range.
type Batch struct {
	Data    []float32
	Indices []uint32
	Ranges  []Range
}

// NewBatch creates a batch with room for about n meshes of the given
// vertex and index counts.
func NewBatch(n, vertsPer, indicesPer int) *Batch {
	return &Batch{
		Data:    make([]float32, 0, n*vertsPer*BatchStride),
		Indices: make([]uint32, 0, n*indicesPer),
		Ranges:  make([]Range, 0, n),
	}
}

// Append adds m with a uniform color and returns its slot.
func (b *Batch) Append(m *Mesh, color [3]float32) int {
	base := uint32(b.VertexCount())
	for _, v := range m.Vertices {
		b.Data = append(b.Data,
			v.Position[0], v.Position[1], v.Position[2],
			v.Normal[0], v.Normal[1], v.Normal[2],
			color[0], color[1], color[2],
		)
	}

	r := Range{First: len(b.Indices), Count: len(m.Indices)}
	for _, i := range m.Indices {
		b.Indices = append(b.Indices, base+i)
	}
	b.Ranges = append(b.Ranges, r)
	return len(b.Ranges) - 1
}

// AppendEmpty reserves a slot with no geometry so slot numbers keep
// matching the caller's indexes.
func (b *Batch) AppendEmpty() int {
	b.Ranges = append(b.Ranges, Range{First: len(b.Indices)})
	return len(b.Ranges) - 1
}

// VertexCount returns the number of batched vertices.
func (b *Batch) VertexCount() int {
	return len(b.Data) / BatchStride
}

// Except returns the index spans covering every slot but skip. A skip
// outside the batch returns the whole index buffer.
func (b *Batch) Except(skip int) []Range {
	total := Range{First: 0, Count: len(b.Indices)}
	if skip < 0 || skip >= len(b.Ranges) {
		if total.Count == 0 {
			return nil
		}
		return []Range{total}
	}

	r := b.Ranges[skip]
	var out []Range
	if r.First > 0 {
		out = append(out, Range{First: 0, Count: r.First})
	}
	if end := r.First + r.Count; end < total.Count {
		out = append(out, Range{First: end, Count: total.Count - end})
	}
	return out
}
