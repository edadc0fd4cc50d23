package ebitengpu

import (
	"testing"

	"github.com/chewxy/math32"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/solarlune/portal3d"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testWVP() portal3d.Matrix4 {
	view := portal3d.NewViewMatrixLH(portal3d.Vector3{}, portal3d.Vector3{Z: 1})
	proj := portal3d.NewProjectionPerspectiveLH(math32.Pi/2, 1, 1, 10)
	return view.Mult(proj)
}

func TestProjectVertex(t *testing.T) {

	wvp := testWVP()

	center, ok := projectVertex(wvp, portal3d.Vector3{Z: 5}, 100, 100)
	require.True(t, ok)
	assert.InDelta(t, 50, center.X, 1e-3)
	assert.InDelta(t, 50, center.Y, 1e-3)

	// Up and to the right lands in the upper right quadrant, as Y points down on screen.
	corner, ok := projectVertex(wvp, portal3d.Vector3{X: 1, Y: 1, Z: 2}, 100, 100)
	require.True(t, ok)
	assert.InDelta(t, 75, corner.X, 1e-3)
	assert.InDelta(t, 25, corner.Y, 1e-3)
	assert.InDelta(t, 5.0/9.0, corner.Depth, 1e-4)

	near, ok := projectVertex(wvp, portal3d.Vector3{Z: 1}, 100, 100)
	require.True(t, ok)
	assert.InDelta(t, 0, near.Depth, 1e-5)

	far, ok := projectVertex(wvp, portal3d.Vector3{Z: 10}, 100, 100)
	require.True(t, ok)
	assert.InDelta(t, 1, far.Depth, 1e-5)

	_, ok = projectVertex(wvp, portal3d.Vector3{Z: -1}, 100, 100)
	assert.False(t, ok, "a point behind the camera doesn't project")

	_, ok = projectVertex(wvp, portal3d.Vector3{X: 3}, 100, 100)
	assert.False(t, ok, "a point on the camera plane doesn't project")

}

func screenVertex(x, y, depth float32) projectedVertex {
	return projectedVertex{X: x, Y: y, Depth: depth, Color: portal3d.NewColor(1, 1, 1, 1)}
}

func TestAssembleTriangles(t *testing.T) {

	vertices := []projectedVertex{
		screenVertex(0, 0, 0.5),
		screenVertex(10, 0, 0.5),
		screenVertex(0, 10, 0.5),
	}
	visible := []bool{true, true, true}

	clockwise := []uint32{0, 1, 2}
	counterClockwise := []uint32{0, 2, 1}

	tris := assembleTriangles(vertices, visible, clockwise, true, nil)
	require.Len(t, tris, 1)
	assert.InDelta(t, 0.5, tris[0].depth, 1e-6)
	assert.Equal(t, vertices[1], tris[0].vertices[1])

	assert.Empty(t, assembleTriangles(vertices, visible, counterClockwise, true, nil), "back faces are culled")
	assert.Len(t, assembleTriangles(vertices, visible, counterClockwise, false, nil), 1, "back faces are kept without culling")

	t.Run("degenerate", func(t *testing.T) {
		flat := []projectedVertex{screenVertex(0, 0, 0.5), screenVertex(5, 5, 0.5), screenVertex(10, 10, 0.5)}
		assert.Empty(t, assembleTriangles(flat, visible, clockwise, true, nil))
	})

	t.Run("clipping", func(t *testing.T) {

		hidden := []bool{true, false, true}
		assert.Empty(t, assembleTriangles(vertices, hidden, clockwise, false, nil), "a vertex behind the camera drops the triangle")

		crossing := append([]projectedVertex(nil), vertices...)
		crossing[2].Depth = -0.1
		assert.Empty(t, assembleTriangles(crossing, visible, clockwise, false, nil), "a triangle crossing the near plane is dropped")

		partlyFar := append([]projectedVertex(nil), vertices...)
		partlyFar[0].Depth = 1.5
		assert.Len(t, assembleTriangles(partlyFar, visible, clockwise, false, nil), 1, "a triangle partly past the far plane is kept")

		allFar := append([]projectedVertex(nil), vertices...)
		for i := range allFar {
			allFar[i].Depth = 1.2
		}
		assert.Empty(t, assembleTriangles(allFar, visible, clockwise, false, nil), "a triangle entirely past the far plane is dropped")

	})

	t.Run("appends", func(t *testing.T) {
		out := make([]rasterTriangle, 1, 4)
		out = assembleTriangles(vertices, visible, []uint32{0, 1, 2, 0, 1, 2}, true, out)
		assert.Len(t, out, 3)
	})

}

func TestSortBackToFront(t *testing.T) {

	tagged := func(depth, tag float32) rasterTriangle {
		tri := rasterTriangle{depth: depth}
		tri.vertices[0].U = tag
		return tri
	}

	tris := []rasterTriangle{
		tagged(0.2, 0),
		tagged(0.8, 1),
		tagged(0.5, 2),
		tagged(0.8, 3),
	}

	sortBackToFront(tris)

	tags := []float32{}
	for _, tri := range tris {
		tags = append(tags, tri.vertices[0].U)
	}

	assert.Equal(t, []float32{1, 3, 2, 0}, tags, "farthest first, ties keep their order")

}

func TestEmitBatches(t *testing.T) {

	tri := rasterTriangle{vertices: [3]projectedVertex{
		{X: 1, Y: 2, U: 0, V: 0, Color: portal3d.NewColor(1, 0.5, 0.25, 1)},
		{X: 3, Y: 4, U: 1, V: 0, Color: portal3d.NewColor(1, 1, 1, 1)},
		{X: 5, Y: 6, U: 0.5, V: 1, Color: portal3d.NewColor(1, 1, 1, 0.5)},
	}}

	calls := 0
	var gotVertices []ebiten.Vertex
	var gotIndices []uint16

	emitBatches([]rasterTriangle{tri, tri}, 64, 32, nil, nil, func(vertices []ebiten.Vertex, indices []uint16) {
		calls++
		gotVertices = append([]ebiten.Vertex(nil), vertices...)
		gotIndices = append([]uint16(nil), indices...)
	})

	require.Equal(t, 1, calls)
	require.Len(t, gotVertices, 6)
	assert.Equal(t, []uint16{0, 1, 2, 3, 4, 5}, gotIndices)

	assert.Equal(t, ebiten.Vertex{DstX: 1, DstY: 2, SrcX: 0, SrcY: 0, ColorR: 1, ColorG: 0.5, ColorB: 0.25, ColorA: 1}, gotVertices[0])
	assert.Equal(t, float32(64), gotVertices[1].SrcX)
	assert.Equal(t, float32(32), gotVertices[2].SrcY)
	assert.Equal(t, float32(32), gotVertices[2].SrcX)
	assert.Equal(t, float32(0.5), gotVertices[2].ColorA)

	t.Run("nothing to draw", func(t *testing.T) {
		emitBatches(nil, 64, 32, nil, nil, func([]ebiten.Vertex, []uint16) {
			t.Fatal("draw called with no triangles")
		})
	})

	t.Run("split at the index limit", func(t *testing.T) {

		tris := make([]rasterTriangle, maxBatchVertices/3+1)

		sizes := []int{}
		emitBatches(tris, 1, 1, nil, nil, func(vertices []ebiten.Vertex, indices []uint16) {
			require.Equal(t, len(vertices), len(indices))
			assert.Equal(t, uint16(len(vertices)-1), indices[len(indices)-1])
			sizes = append(sizes, len(vertices))
		})

		assert.Equal(t, []int{maxBatchVertices, 3}, sizes)

	})

}

func BenchmarkRasterStages(b *testing.B) {

	b.ReportAllocs()

	cube := portal3d.NewCube(2)
	wvp := portal3d.NewMatrix4Translate(0, 0, 5).Mult(testWVP())

	projected := make([]projectedVertex, len(cube.Vertices))
	visible := make([]bool, len(cube.Vertices))
	var tris []rasterTriangle
	var vertices []ebiten.Vertex
	var indices []uint16

	for i := 0; i < b.N; i++ {
		for v, vertex := range cube.Vertices {
			projected[v], visible[v] = projectVertex(wvp, vertex.Position, 640, 480)
		}
		tris = assembleTriangles(projected, visible, cube.Indices, true, tris[:0])
		sortBackToFront(tris)
		vertices, indices = emitBatches(tris, 1, 1, vertices, indices, func([]ebiten.Vertex, []uint16) {})
	}

}
