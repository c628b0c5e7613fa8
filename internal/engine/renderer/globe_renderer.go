package renderer

import (
	"fmt"
	"unsafe"

	"github.com/go-gl/gl/v4.1-core/gl"
	"go.uber.org/zap"

	"github.com/Faultbox/hexglobe/internal/engine/lighting"
	"github.com/Faultbox/hexglobe/internal/engine/renderer/shaders"
	"github.com/Faultbox/hexglobe/internal/engine/shader"
	"github.com/Faultbox/hexglobe/internal/globe/mesh"
	"github.com/Faultbox/hexglobe/internal/globe/selection"
	"github.com/Faultbox/hexglobe/internal/globe/tiles"
	"github.com/Faultbox/hexglobe/internal/logger"
	"github.com/Faultbox/hexglobe/pkg/math"
)

// gpuMesh is an uploaded batch.
type gpuMesh struct {
	vao, vbo, ebo uint32
	count         int32
}

func upload(b *mesh.Batch) gpuMesh {
	var m gpuMesh
	if len(b.Indices) == 0 {
		return m
	}

	gl.GenVertexArrays(1, &m.vao)
	gl.BindVertexArray(m.vao)

	gl.GenBuffers(1, &m.vbo)
	gl.BindBuffer(gl.ARRAY_BUFFER, m.vbo)
	gl.BufferData(gl.ARRAY_BUFFER, len(b.Data)*4, unsafe.Pointer(&b.Data[0]), gl.STATIC_DRAW)

	stride := int32(mesh.BatchStride * 4)
	// Position (location 0)
	gl.VertexAttribPointerWithOffset(0, 3, gl.FLOAT, false, stride, 0)
	gl.EnableVertexAttribArray(0)
	// Normal (location 1)
	gl.VertexAttribPointerWithOffset(1, 3, gl.FLOAT, false, stride, 3*4)
	gl.EnableVertexAttribArray(1)
	// Color (location 2)
	gl.VertexAttribPointerWithOffset(2, 3, gl.FLOAT, false, stride, 6*4)
	gl.EnableVertexAttribArray(2)

	gl.GenBuffers(1, &m.ebo)
	gl.BindBuffer(gl.ELEMENT_ARRAY_BUFFER, m.ebo)
	gl.BufferData(gl.ELEMENT_ARRAY_BUFFER, len(b.Indices)*4, unsafe.Pointer(&b.Indices[0]), gl.STATIC_DRAW)

	gl.BindVertexArray(0)
	m.count = int32(len(b.Indices))
	return m
}

func (m *gpuMesh) free() {
	if m.vao != 0 {
		gl.DeleteVertexArrays(1, &m.vao)
	}
	if m.vbo != 0 {
		gl.DeleteBuffers(1, &m.vbo)
	}
	if m.ebo != 0 {
		gl.DeleteBuffers(1, &m.ebo)
	}
	*m = gpuMesh{}
}

func (m *gpuMesh) drawRange(r mesh.Range) {
	gl.DrawElementsWithOffset(gl.TRIANGLES, int32(r.Count), gl.UNSIGNED_INT, uintptr(r.First*4))
}

// GlobeRenderer draws the background sphere, the flat tiles as one
// translucent batch, and the selected tile's extruded mesh.
type GlobeRenderer struct {
	log     *zap.Logger
	program *shader.Program

	sphere gpuMesh

	tiles      gpuMesh
	batch      *mesh.Batch
	generation uint64 // registry generation the batch was built from

	selected      gpuMesh
	selectedIndex int

	cancelDispose func()
}

// NewGlobeRenderer uploads the sphere and hooks tile disposal so GPU
// buffers are freed together with the tile set they mirror.
func NewGlobeRenderer(reg *tiles.Registry, sphere *mesh.Mesh, sphereColor tiles.Color) (*GlobeRenderer, error) {
	program, err := shader.Compile(shaders.GlobeVertexShader, shaders.GlobeFragmentShader)
	if err != nil {
		return nil, fmt.Errorf("globe shader: %w", err)
	}
	if err := program.Require("uViewProj", "uLightDir", "uOpacity"); err != nil {
		program.Delete()
		return nil, err
	}

	gr := &GlobeRenderer{
		log:           logger.Named("renderer"),
		program:       program,
		selectedIndex: -1,
	}

	b := mesh.NewBatch(1, len(sphere.Vertices), len(sphere.Indices))
	b.Append(sphere, [3]float32{sphereColor.R, sphereColor.G, sphereColor.B})
	gr.sphere = upload(b)

	gr.cancelDispose = reg.OnDispose(gr.release)
	return gr, nil
}

// release frees the buffers mirroring a disposed tile set.
func (gr *GlobeRenderer) release(generation uint64) {
	if generation != gr.generation {
		return
	}
	gr.tiles.free()
	gr.selected.free()
	gr.batch = nil
	gr.generation = 0
	gr.selectedIndex = -1
	gr.log.Debug("tile buffers freed", zap.Uint64("generation", generation))
}

// Sync uploads whatever changed in the registry or the selection since
// the last frame.
func (gr *GlobeRenderer) Sync(reg *tiles.Registry, sel *selection.Controller) {
	if gen := reg.Generation(); gen != 0 && gen != gr.generation {
		gr.tiles.free()
		gr.selected.free()
		gr.selectedIndex = -1

		n := reg.Count()
		gr.batch = mesh.NewBatch(n, 7, 15)
		for i := range n {
			tile, err := reg.Get(i)
			if err != nil || tile.Flat == nil {
				gr.batch.AppendEmpty()
				continue
			}
			gr.batch.Append(tile.Flat, [3]float32{tile.Color.R, tile.Color.G, tile.Color.B})
		}
		gr.tiles = upload(gr.batch)
		gr.generation = gen

		gr.log.Info("tiles uploaded",
			zap.Uint64("generation", gen),
			zap.Int("tiles", n),
			zap.Int("vertices", gr.batch.VertexCount()),
			zap.Int("indices", len(gr.batch.Indices)),
		)
	}

	idx, ok := sel.Selected()
	if !ok {
		idx = -1
	}
	if idx == gr.selectedIndex {
		return
	}
	gr.selected.free()
	gr.selectedIndex = idx
	if idx < 0 {
		return
	}
	tile, err := reg.Get(idx)
	if err != nil || tile.Extruded == nil {
		gr.log.Warn("selected tile has no mesh", zap.Int("index", idx), zap.Error(err))
		return
	}
	b := mesh.NewBatch(1, len(tile.Extruded.Vertices), len(tile.Extruded.Indices))
	b.Append(tile.Extruded, [3]float32{tile.Color.R, tile.Color.G, tile.Color.B})
	gr.selected = upload(b)
}

// Render draws one frame of the globe.
func (gr *GlobeRenderer) Render(viewProj math.Mat4, cameraPos math.Vec3, sun lighting.Sun, sel *selection.Controller) {
	dir := sun.Direction()

	gr.program.Use()
	gl.UniformMatrix4fv(gr.program.Uniform("uViewProj"), 1, false, &viewProj[0])
	gl.Uniform3f(gr.program.Uniform("uLightDir"), dir[0], dir[1], dir[2])
	gl.Uniform3f(gr.program.Uniform("uCameraPos"), cameraPos.X, cameraPos.Y, cameraPos.Z)
	gl.Uniform1f(gr.program.Uniform("uAmbient"), sun.Ambient)

	// Opaque pass: sphere, then the selected tile.
	gl.Disable(gl.BLEND)
	gl.DepthMask(true)
	applyMaterial(gr.program, selection.SelectedMaterial)
	gr.drawAll(&gr.sphere)

	if gr.selectedIndex >= 0 && gr.selected.vao != 0 {
		applyMaterial(gr.program, sel.Material(gr.selectedIndex))
		gr.drawAll(&gr.selected)
	}

	// Translucent pass: every other tile, flat.
	if gr.tiles.vao == 0 || gr.batch == nil {
		return
	}
	gl.Enable(gl.BLEND)
	gl.DepthMask(false)
	applyMaterial(gr.program, sel.Material(selection.Unselected.Index))

	gl.BindVertexArray(gr.tiles.vao)
	for _, r := range gr.batch.Except(gr.selectedIndex) {
		gr.tiles.drawRange(r)
	}
	gl.BindVertexArray(0)

	gl.DepthMask(true)
	gl.Disable(gl.BLEND)
}

func (gr *GlobeRenderer) drawAll(m *gpuMesh) {
	if m.vao == 0 {
		return
	}
	gl.BindVertexArray(m.vao)
	m.drawRange(mesh.Range{First: 0, Count: int(m.count)})
	gl.BindVertexArray(0)
}

func applyMaterial(p *shader.Program, m selection.Material) {
	gl.Uniform1f(p.Uniform("uOpacity"), m.Opacity)
	switch m.Cull {
	case selection.CullNone:
		gl.Disable(gl.CULL_FACE)
	case selection.CullFront:
		gl.Enable(gl.CULL_FACE)
		gl.CullFace(gl.FRONT)
	default:
		gl.Enable(gl.CULL_FACE)
		gl.CullFace(gl.BACK)
	}
}

// Close frees all GPU resources and detaches from the registry.
func (gr *GlobeRenderer) Close() {
	if gr.cancelDispose != nil {
		gr.cancelDispose()
	}
	gr.sphere.free()
	gr.tiles.free()
	gr.selected.free()
	gr.program.Delete()
}
