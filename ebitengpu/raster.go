package ebitengpu

import (
	"cmp"
	"slices"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/solarlune/portal3d"
)

// maxBatchVertices is the most vertices a single DrawTrianglesShader call can address with uint16 indices.
const maxBatchVertices = 65535

// projectedVertex is a vertex after the CPU vertex stage: a pixel position on the destination, its depth and the
// values the fragment shader interpolates.
type projectedVertex struct {
	X, Y  float32
	Depth float32 // z / w; 0 at the near plane and 1 at the far plane.
	U, V  float32 // Texture coordinates, 0 - 1.
	Color portal3d.Color
}

// projectVertex takes a position through the world-view-projection matrix and onto a destination of the given size.
// ok is false if the position lies on or behind the camera plane.
func projectVertex(wvp portal3d.Matrix4, position portal3d.Vector3, width, height float32) (vertex projectedVertex, ok bool) {

	clip := wvp.MultVecW(position)

	if clip.W <= 0 {
		return vertex, false
	}

	vertex.X = (clip.X/clip.W*0.5 + 0.5) * width
	vertex.Y = (0.5 - clip.Y/clip.W*0.5) * height
	vertex.Depth = clip.Z / clip.W

	return vertex, true

}

type rasterTriangle struct {
	depth    float32
	vertices [3]projectedVertex
}

// assembleTriangles groups projected vertices into triangles, dropping any that cross the near plane, lie entirely past
// the far plane, or (if cullBack is set) wind counter-clockwise on screen. visible[i] reports whether vertex i projected.
func assembleTriangles(vertices []projectedVertex, visible []bool, indices []uint32, cullBack bool, out []rasterTriangle) []rasterTriangle {

	for i := 0; i+2 < len(indices); i += 3 {

		i0, i1, i2 := indices[i], indices[i+1], indices[i+2]

		if !visible[i0] || !visible[i1] || !visible[i2] {
			continue
		}

		v0, v1, v2 := vertices[i0], vertices[i1], vertices[i2]

		if v0.Depth < 0 || v1.Depth < 0 || v2.Depth < 0 {
			continue
		}

		if v0.Depth > 1 && v1.Depth > 1 && v2.Depth > 1 {
			continue
		}

		if cullBack {
			// Front faces wind clockwise as seen by the viewer, which is a positive area with Y pointing down.
			area := (v1.X-v0.X)*(v2.Y-v0.Y) - (v2.X-v0.X)*(v1.Y-v0.Y)
			if area <= 0 {
				continue
			}
		}

		out = append(out, rasterTriangle{
			depth:    (v0.Depth + v1.Depth + v2.Depth) / 3,
			vertices: [3]projectedVertex{v0, v1, v2},
		})

	}

	return out

}

// sortBackToFront orders triangles from farthest to nearest, so that drawing them in order paints nearer triangles over farther ones.
func sortBackToFront(triangles []rasterTriangle) {
	slices.SortStableFunc(triangles, func(a, b rasterTriangle) int {
		return cmp.Compare(b.depth, a.depth)
	})
}

// emitBatches converts triangles into Ebitengine vertices and indices, with texture coordinates scaled to a source image of
// srcWidth x srcHeight pixels, and calls draw once per batch small enough for uint16 indices.
func emitBatches(triangles []rasterTriangle, srcWidth, srcHeight float32, vertexBuffer []ebiten.Vertex, indexBuffer []uint16, draw func([]ebiten.Vertex, []uint16)) ([]ebiten.Vertex, []uint16) {

	vertexBuffer = vertexBuffer[:0]
	indexBuffer = indexBuffer[:0]

	for _, tri := range triangles {

		if len(vertexBuffer)+3 > maxBatchVertices {
			draw(vertexBuffer, indexBuffer)
			vertexBuffer = vertexBuffer[:0]
			indexBuffer = indexBuffer[:0]
		}

		for _, v := range tri.vertices {
			indexBuffer = append(indexBuffer, uint16(len(vertexBuffer)))
			vertexBuffer = append(vertexBuffer, ebiten.Vertex{
				DstX:   v.X,
				DstY:   v.Y,
				SrcX:   v.U * srcWidth,
				SrcY:   v.V * srcHeight,
				ColorR: v.Color.R,
				ColorG: v.Color.G,
				ColorB: v.Color.B,
				ColorA: v.Color.A,
			})
		}

	}

	if len(vertexBuffer) > 0 {
		draw(vertexBuffer, indexBuffer)
	}

	return vertexBuffer, indexBuffer

}
