package ebitengpu

import (
	"fmt"
	"image"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/solarlune/portal3d"
)

// MeshBuffer holds a copy of a mesh's vertices and indices, plus the scratch space its CPU vertex stage reuses from
// one Render call to the next.
type MeshBuffer struct {
	device *Device
	format portal3d.VertexFormat

	standard []portal3d.Vertex
	px       []portal3d.VertexPX
	indices  []uint32

	projected []projectedVertex
	visible   []bool
	triangles []rasterTriangle
	vertices  []ebiten.Vertex
	indexList []uint16

	terminated bool
}

func checkIndices(indices []uint32, vertexCount int) error {
	if len(indices) == 0 || len(indices)%3 != 0 {
		return fmt.Errorf("%d indices isn't a triangle list", len(indices))
	}
	for _, index := range indices {
		if int(index) >= vertexCount {
			return fmt.Errorf("index %d out of range (%d vertices)", index, vertexCount)
		}
	}
	return nil
}

func newMeshBuffer(device *Device, mesh portal3d.MeshData) (*MeshBuffer, error) {

	buffer := &MeshBuffer{device: device, format: mesh.Format()}

	switch m := mesh.(type) {
	case portal3d.Mesh:
		buffer.standard = append([]portal3d.Vertex(nil), m.Vertices...)
		buffer.indices = append([]uint32(nil), m.Indices...)
	case portal3d.MeshPX:
		buffer.px = append([]portal3d.VertexPX(nil), m.Vertices...)
		buffer.indices = append([]uint32(nil), m.Indices...)
	default:
		return nil, fmt.Errorf("mesh buffer: unsupported mesh type %T", mesh)
	}

	if err := checkIndices(buffer.indices, mesh.VertexCount()); err != nil {
		return nil, fmt.Errorf("mesh buffer: %w", err)
	}

	count := mesh.VertexCount()
	buffer.projected = make([]projectedVertex, count)
	buffer.visible = make([]bool, count)

	return buffer, nil

}

// Update replaces the MeshBuffer's vertices. The mesh must be of the same vertex format and count, or Update panics.
func (buffer *MeshBuffer) Update(mesh portal3d.MeshData) {

	if buffer.terminated {
		panic("Error: ebitengpu MeshBuffer.Update() called on a terminated mesh buffer.")
	}

	if mesh.Format() != buffer.format {
		panic(fmt.Sprintf("Error: ebitengpu MeshBuffer.Update() given a %s mesh for a %s mesh buffer.", mesh.Format(), buffer.format))
	}

	if mesh.VertexCount() != len(buffer.projected) {
		panic(fmt.Sprintf("Error: ebitengpu MeshBuffer.Update() given %d vertices for a mesh buffer of %d.", mesh.VertexCount(), len(buffer.projected)))
	}

	switch m := mesh.(type) {
	case portal3d.Mesh:
		copy(buffer.standard, m.Vertices)
	case portal3d.MeshPX:
		copy(buffer.px, m.Vertices)
	}

}

// Render runs the vertex stage for the bound shader's vertex format, then draws the surviving triangles back to front
// onto the Device's current destination.
func (buffer *MeshBuffer) Render() {

	if buffer.terminated {
		panic("Error: ebitengpu MeshBuffer.Render() called on a terminated mesh buffer.")
	}

	device := buffer.device

	shader := device.shader
	if shader == nil {
		panic("Error: ebitengpu MeshBuffer.Render() called with no shader bound.")
	}

	if shader.Format() != buffer.format {
		panic(fmt.Sprintf("Error: ebitengpu MeshBuffer.Render() called for a %s mesh with a %s shader bound.", buffer.format, shader.Format()))
	}

	dst := device.destination()
	if dst == nil {
		panic("Error: ebitengpu MeshBuffer.Render() has nothing to draw to; call Device.SetScreen() first.")
	}

	size := dst.Bounds().Size()
	dstW, dstH := float32(size.X), float32(size.Y)

	var src *texture
	var cullBack bool

	switch buffer.format {
	case portal3d.VertexFormatStandard:
		src = buffer.standardStage(dstW, dstH)
		cullBack = true
	case portal3d.VertexFormatPX:
		src = buffer.pxStage(dstW, dstH)
	}

	buffer.triangles = assembleTriangles(buffer.projected, buffer.visible, buffer.indices, cullBack, buffer.triangles[:0])
	sortBackToFront(buffer.triangles)

	device.stats.Triangles += len(buffer.triangles)
	device.stats.CulledTriangles += len(buffer.indices)/3 - len(buffer.triangles)

	srcSize := src.img.Bounds().Size()

	options := &ebiten.DrawTrianglesShaderOptions{
		Uniforms: device.psSamplers[0].uniforms(),
		Images:   [4]*ebiten.Image{src.img},
	}

	buffer.vertices, buffer.indexList = emitBatches(buffer.triangles, float32(srcSize.X), float32(srcSize.Y), buffer.vertices, buffer.indexList,
		func(vertices []ebiten.Vertex, indices []uint16) {
			dst.DrawTrianglesShader(vertices, indices, shader.shader, options)
			device.stats.DrawCalls++
		},
	)

}

func mustBufferData[T any](buffers *[MaxSlots]*ConstantBuffer, slot int, stage string) T {
	data, ok := bufferData[T](buffers, slot)
	if !ok {
		var zero T
		panic(fmt.Sprintf("Error: ebitengpu MeshBuffer.Render() needs a %T constant buffer bound to %s slot %d.", zero, stage, slot))
	}
	return data
}

func sourceImage(tex *texture, enabled int32) image.Image {
	if enabled == 0 || tex == nil {
		return nil
	}
	return tex.src
}

// standardStage transforms, displaces and lights every vertex with the standard effect's bound buffers and textures,
// and returns the texture to draw with.
func (buffer *MeshBuffer) standardStage(dstW, dstH float32) *texture {

	device := buffer.device

	transform := mustBufferData[portal3d.TransformData](&device.vsBuffers, portal3d.StandardSlotTransform, "vertex")
	light := mustBufferData[portal3d.DirectionalLight](&device.vsBuffers, portal3d.StandardSlotLight, "vertex")

	material, ok := bufferData[portal3d.Material](&device.psBuffers, portal3d.StandardSlotMaterial)
	if !ok {
		material = portal3d.NewMaterial()
	}

	settings, _ := bufferData[portal3d.SettingsBufferData](&device.vsBuffers, portal3d.StandardSlotSettings)

	lighting := vertexLighting{
		world:        transform.World.Transposed(),
		viewPosition: transform.ViewPosition,
		light:        light,
		material:     material,
		settings:     settings,
		normalMap:    sourceImage(device.psTextures[portal3d.StandardSlotNormalMap], settings.UseNormalMap),
		specMap:      sourceImage(device.psTextures[portal3d.StandardSlotSpecMap], settings.UseSpecMap),
		bumpMap:      sourceImage(device.vsTextures[portal3d.StandardSlotBumpMap], settings.UseBumpMap),
	}

	wvp := transform.WVP.Transposed()

	for i, vertex := range buffer.standard {
		position, color := lighting.shade(vertex)
		projected, visible := projectVertex(wvp, position, dstW, dstH)
		projected.U, projected.V = vertex.UV.X, vertex.UV.Y
		projected.Color = color
		buffer.projected[i] = projected
		buffer.visible[i] = visible
	}

	diffuse := device.psTextures[portal3d.StandardSlotDiffuseMap]
	if settings.UseDiffuseMap == 0 || diffuse == nil || diffuse.img == nil {
		diffuse = device.white
	}

	return diffuse

}

// pxStage projects the portal surface's vertices, and returns the portal image to draw with.
func (buffer *MeshBuffer) pxStage(dstW, dstH float32) *texture {

	device := buffer.device

	transform := mustBufferData[portal3d.PortalTransformData](&device.vsBuffers, portal3d.PortalSlotTransform, "vertex")

	target := device.psTextures[portal3d.PortalSlotTarget]
	if target == nil || target.img == nil {
		panic("Error: ebitengpu MeshBuffer.Render() needs a render target bound to pixel slot 0 to draw a portal surface.")
	}

	wvp := transform.WVP.Transposed()

	for i, vertex := range buffer.px {
		projected, visible := projectVertex(wvp, vertex.Position, dstW, dstH)
		projected.U, projected.V = vertex.UV.X, vertex.UV.Y
		projected.Color = portal3d.NewColor(1, 1, 1, 1)
		buffer.projected[i] = projected
		buffer.visible[i] = visible
	}

	return target

}

func (buffer *MeshBuffer) Terminate() {
	buffer.terminated = true
	buffer.standard = nil
	buffer.px = nil
}
