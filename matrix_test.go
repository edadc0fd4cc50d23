package portal3d

import (
	"testing"

	"github.com/chewxy/math32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func assertVector3InDelta(t *testing.T, expected, actual Vector3, delta float64) {
	t.Helper()
	assert.InDelta(t, expected.X, actual.X, delta, "X of %v", actual)
	assert.InDelta(t, expected.Y, actual.Y, delta, "Y of %v", actual)
	assert.InDelta(t, expected.Z, actual.Z, delta, "Z of %v", actual)
}

func BenchmarkMatrixInversion(b *testing.B) {

	b.ReportAllocs()

	mat := NewMatrix4Rotate(0, 1, 0.2, 0.24).Mult(NewMatrix4Translate(1, 4, -12))

	for i := 0; i < b.N; i++ {
		mat.Inverted()
	}

}

func BenchmarkWorldViewProjection(b *testing.B) {

	b.ReportAllocs()

	camera := NewCamera(800, 600)
	camera.SetPosition(Vector3{1, 2, -10})
	world := NewTransform().Move(3, 0, 4).Matrix4()

	for i := 0; i < b.N; i++ {
		world.Mult(camera.ViewMatrix()).Mult(camera.ProjectionMatrix())
	}

}

func TestMatrixInversion(t *testing.T) {

	matrices := []Matrix4{
		NewMatrix4Rotate(0, 1, 0, 0.1),
		NewMatrix4Translate(-10, 0.1, 3232.1976),
		NewMatrix4Scale(10, 0.1, -0.45),
		NewMatrix4Translate(-1, -1, -1).Mult(NewMatrix4Rotate(1, 0, 0.1, 0.334)).Mult(NewMatrix4Scale(10, 1, 2)),
		NewViewMatrixLH(Vector3{4, 5, -6}, Vector3{0.2, -0.3, 1}),
	}

	for i, mat := range matrices {
		assert.True(t, mat.Mult(mat.Inverted()).IsIdentity(), "matrix #%d * matrix.Inverted() is not identity", i)
	}

}

func TestSingularMatrixInversionHasNaN(t *testing.T) {
	mat := NewMatrix4Scale(1, 0, 1)
	assert.Zero(t, mat.Determinant())
	assert.True(t, mat.Inverted().HasNaN())
}

func TestMatrixRowVectorConvention(t *testing.T) {

	// Scale, then rotate a quarter turn around +Y, then move.
	world := NewMatrix4Scale(2, 2, 2).
		Mult(NewMatrix4Rotate(0, 1, 0, math32.Pi/2)).
		Mult(NewMatrix4Translate(0, 0, 5))

	assertVector3InDelta(t, Vector3{0, 0, 3}, world.MultVec(Vector3{1, 0, 0}), 1e-5)
	assertVector3InDelta(t, Vector3{0, 0, -2}, world.MultDir(Vector3{1, 0, 0}), 1e-5)
	assertVector3InDelta(t, Vector3{0, 0, 5}, world.Translation(), 1e-5)

}

func TestMatrixTransposed(t *testing.T) {

	mat := NewMatrix4Translate(1, 2, 3)
	transposed := mat.Transposed()

	assert.Equal(t, Vector4{0, 0, 0, 1}, transposed.Row(3))
	assert.Equal(t, Vector4{1, 0, 0, 1}, transposed.Row(0))
	assert.Equal(t, mat, transposed.Transposed())

}

func TestMatrixSetRow(t *testing.T) {

	mat := NewMatrix4()
	mat.SetRow(3, Vector4{4, 5, 6, 1})

	assert.Equal(t, NewMatrix4Translate(4, 5, 6), mat)
	assert.Equal(t, Vector3{5, 5, 6}, mat.MultVec(Vector3{1, 0, 0}))

}

func TestViewMatrixMapsEyeToOrigin(t *testing.T) {

	positions := []Vector3{{0, 0, 0}, {1, 2, 3}, {-40, 0.5, 12}}
	directions := []Vector3{{0, 0, 1}, {1, 0, 0}, {0.3, -0.2, -1}, {0, 1, 0}, {0, -1, 0}}

	for _, pos := range positions {
		for _, dir := range directions {

			view := NewViewMatrixLH(pos, dir)
			require.False(t, view.HasNaN(), "view matrix for %v looking along %v", pos, dir)

			assertVector3InDelta(t, Vector3{}, view.MultVec(pos), 1e-4)

			// A point one unit along the view direction is one unit down +Z in view space.
			ahead := view.MultVec(pos.Add(dir.Unit()))
			assertVector3InDelta(t, Vector3{0, 0, 1}, ahead, 1e-4)

		}
	}

}

func TestViewMatrixBasisIsLeftHanded(t *testing.T) {
	view := NewViewMatrixLH(Vector3{}, WorldForward)
	assert.True(t, view.IsIdentity())
}

func TestPerspectiveProjection(t *testing.T) {

	near, far := float32(0.1), float32(100)
	proj := NewProjectionPerspectiveLH(math32.Pi/2, 2, near, far)

	assert.InDelta(t, 0.5, proj[0][0], 1e-5)
	assert.InDelta(t, 1, proj[1][1], 1e-5)
	assert.InDelta(t, far/(far-near), proj[2][2], 1e-5)
	assert.Equal(t, float32(1), proj[2][3])
	assert.InDelta(t, -near*far/(far-near), proj[3][2], 1e-5)
	assert.Zero(t, proj[3][3])

	// Depth maps into [0, 1] between the clip planes.
	nearClip := proj.MultVecW(Vector3{0, 0, near})
	farClip := proj.MultVecW(Vector3{0, 0, far})
	assert.InDelta(t, 0, nearClip.Z/nearClip.W, 1e-5)
	assert.InDelta(t, 1, farClip.Z/farClip.W, 1e-5)

	assert.NotZero(t, proj.Determinant())
	assert.True(t, proj.Mult(proj.Inverted()).IsIdentity())

	assert.Equal(t, proj, NewProjectionPerspectiveLH(math32.Pi/2, 2, near, far))

}

func TestOrthographicProjection(t *testing.T) {

	proj := NewProjectionOrthographicLH(20, 10, 1, 11)

	corner := proj.MultVecW(Vector3{10, 5, 11})
	assert.InDelta(t, 1, corner.X, 1e-5)
	assert.InDelta(t, 1, corner.Y, 1e-5)
	assert.InDelta(t, 1, corner.Z, 1e-5)
	assert.InDelta(t, 1, corner.W, 1e-5)

	nearCenter := proj.MultVecW(Vector3{0, 0, 1})
	assert.InDelta(t, 0, nearCenter.Z, 1e-5)

	assert.True(t, proj.Mult(proj.Inverted()).IsIdentity())

}

func TestDegenerateProjectionDoesNotPanic(t *testing.T) {
	assert.NotPanics(t, func() {
		assert.True(t, NewProjectionPerspectiveLH(math32.Pi/2, 1, 5, 5).HasNaN())
		assert.True(t, NewProjectionOrthographicLH(0, 10, 0.1, 100).HasNaN())
	})
}

func TestScreenSpaceMatrix(t *testing.T) {

	screen := NewScreenSpaceMatrix(800, 600)

	topLeft := screen.MultVecW(Vector3{-1, 1, 0})
	assert.InDelta(t, 0, topLeft.X, 1e-5)
	assert.InDelta(t, 0, topLeft.Y, 1e-5)

	bottomRight := screen.MultVecW(Vector3{1, -1, 0})
	assert.InDelta(t, 800, bottomRight.X, 1e-5)
	assert.InDelta(t, 600, bottomRight.Y, 1e-5)

}

func TestQuaternionMatchesAxisRotation(t *testing.T) {

	axes := []Vector3{{0, 1, 0}, {1, 0, 0}, {0, 0, 1}, {1, 2, -0.5}}
	angles := []float32{0, 0.3, math32.Pi / 2, -2}

	for _, axis := range axes {
		for _, angle := range angles {
			expected := NewMatrix4Rotate(axis.X, axis.Y, axis.Z, angle)
			actual := NewQuaternionFromAxisAngle(axis, angle).ToMatrix4()
			assert.True(t, expected.Equals(actual), "axis %v angle %f:\n%s\n!=\n%s", axis, angle, expected, actual)
		}
	}

}

func TestQuaternionSlerpEndpoints(t *testing.T) {

	a := NewQuaternionIdentity()
	b := NewQuaternionFromAxisAngle(WorldUp, 1)

	assert.True(t, a.Slerp(b, 0).ToMatrix4().Equals(a.ToMatrix4()))
	assert.True(t, a.Slerp(b, 1).ToMatrix4().Equals(b.ToMatrix4()))
	assert.True(t, a.Slerp(b, 0.5).ToMatrix4().Equals(NewMatrix4Rotate(0, 1, 0, 0.5)))

}

func TestTransformMatrix(t *testing.T) {

	transform := NewTransform()
	assert.True(t, transform.Matrix4().IsIdentity())

	transform.Scale = Vector3{2, 2, 2}
	transform = transform.Rotate(WorldUp, math32.Pi/2).Move(0, 0, 5)

	assertVector3InDelta(t, Vector3{0, 0, 3}, transform.Matrix4().MultVec(Vector3{1, 0, 0}), 1e-5)

	// An unset rotation counts as no rotation.
	transform = Transform{Position: Vector3{1, 2, 3}, Scale: Vector3{1, 1, 1}}
	assert.True(t, transform.Matrix4().Equals(NewMatrix4Translate(1, 2, 3)))

}
