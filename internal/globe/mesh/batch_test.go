package mesh

import "testing"

func TestBatchAppend(t *testing.T) {
	a, err := BuildFlat(ring(0, 0, 2, 6, 2))
	if err != nil {
		t.Fatal(err)
	}
	b, err := BuildFlat(ring(10, 40, 2, 5, 2))
	if err != nil {
		t.Fatal(err)
	}

	batch := NewBatch(2, 6, 12)
	red := [3]float32{1, 0, 0}
	if slot := batch.Append(a, red); slot != 0 {
		t.Errorf("first slot = %d", slot)
	}
	if slot := batch.Append(b, [3]float32{0, 0, 1}); slot != 1 {
		t.Errorf("second slot = %d", slot)
	}

	if batch.VertexCount() != len(a.Vertices)+len(b.Vertices) {
		t.Errorf("VertexCount = %d", batch.VertexCount())
	}
	if len(batch.Indices) != len(a.Indices)+len(b.Indices) {
		t.Errorf("%d indices", len(batch.Indices))
	}

	// Second mesh indices are rebased past the first mesh's vertices.
	r := batch.Ranges[1]
	for k, idx := range batch.Indices[r.First : r.First+r.Count] {
		if want := b.Indices[k] + uint32(len(a.Vertices)); idx != want {
			t.Fatalf("index %d = %d, want %d", k, idx, want)
		}
	}

	// Interleaved layout: position, normal, color.
	v := batch.Data[:BatchStride]
	if [3]float32{v[0], v[1], v[2]} != a.Vertices[0].Position || [3]float32{v[6], v[7], v[8]} != red {
		t.Errorf("first vertex = %v", v)
	}
}

func TestBatchExcept(t *testing.T) {
	batch := NewBatch(3, 6, 12)
	for i := range 3 {
		m, err := BuildFlat(ring(0, float64(i*20), 2, 4, 2)) // 2 triangles, 6 indices
		if err != nil {
			t.Fatal(err)
		}
		batch.Append(m, [3]float32{})
	}

	tests := []struct {
		skip int
		want []Range
	}{
		{-1, []Range{{0, 18}}},
		{0, []Range{{6, 12}}},
		{1, []Range{{0, 6}, {12, 6}}},
		{2, []Range{{0, 12}}},
		{3, []Range{{0, 18}}},
	}
	for _, tt := range tests {
		got := batch.Except(tt.skip)
		if len(got) != len(tt.want) {
			t.Errorf("Except(%d) = %v, want %v", tt.skip, got, tt.want)
			continue
		}
		for i := range got {
			if got[i] != tt.want[i] {
				t.Errorf("Except(%d) = %v, want %v", tt.skip, got, tt.want)
			}
		}
	}

	if got := (&Batch{}).Except(-1); got != nil {
		t.Errorf("empty batch Except = %v", got)
	}
}

func TestBatchEmptySlotKeepsNumbering(t *testing.T) {
	batch := NewBatch(3, 6, 12)
	for i := range 3 {
		if i == 1 {
			if slot := batch.AppendEmpty(); slot != 1 {
				t.Fatalf("empty slot = %d", slot)
			}
			continue
		}
		m, err := BuildFlat(ring(0, float64(i*20), 2, 4, 2))
		if err != nil {
			t.Fatal(err)
		}
		batch.Append(m, [3]float32{})
	}

	if len(batch.Ranges) != 3 || batch.Ranges[1] != (Range{First: 6}) {
		t.Fatalf("ranges = %v", batch.Ranges)
	}
	// Skipping slot 2 hides the mesh appended third, not the second.
	if got := batch.Except(2); len(got) != 1 || got[0] != (Range{0, 6}) {
		t.Errorf("Except(2) = %v", got)
	}
	drawn := 0
	for _, r := range batch.Except(1) {
		drawn += r.Count
	}
	if drawn != 12 {
		t.Errorf("Except(1) draws %d indices, want 12", drawn)
	}
}
