package portal3d

import (
	"testing"

	"github.com/chewxy/math32"
	"github.com/stretchr/testify/assert"
)

func TestNewCameraDefaults(t *testing.T) {

	camera := NewCamera(800, 600)

	assert.Equal(t, Vector3{}, camera.Position())
	assert.Equal(t, WorldForward, camera.Direction())
	assert.Equal(t, ProjectionPerspective, camera.Mode())
	assert.Equal(t, float32(0.1), camera.Near())
	assert.Equal(t, float32(100), camera.Far())
	assert.Equal(t, float32(DefaultFieldOfView), camera.FieldOfView())
	assert.InDelta(t, 800.0/600.0, camera.AspectRatio(), 1e-6)

}

func TestCameraDirectionIsNormalized(t *testing.T) {

	camera := NewCamera(1, 1)

	camera.SetDirection(Vector3{0, 0, 10})
	assert.Equal(t, WorldForward, camera.Direction())

	camera.SetPosition(Vector3{1, 1, 1})
	camera.LookAt(Vector3{1, 1, -9})
	assert.Equal(t, Vector3{0, 0, -1}, camera.Direction())

}

func TestCameraAspectRatio(t *testing.T) {

	camera := NewCamera(400, 100)
	assert.Equal(t, float32(4), camera.AspectRatio())

	camera.SetAspectRatio(1)
	camera.SetSize(50, 10)
	assert.Equal(t, float32(1), camera.AspectRatio())

	camera.SetAspectRatio(0)
	assert.Equal(t, float32(5), camera.AspectRatio())

}

func TestCameraMatricesAreDeterministic(t *testing.T) {

	camera := NewCamera(640, 360)
	camera.SetPosition(Vector3{3, 4, -5})
	camera.SetDirection(Vector3{-0.2, 0.1, 1})

	for _, mode := range []ProjectionMode{ProjectionPerspective, ProjectionOrthographic} {

		camera.SetMode(mode)

		assert.Equal(t, camera.ViewMatrix(), camera.ViewMatrix(), mode.String())
		assert.Equal(t, camera.ProjectionMatrix(), camera.ProjectionMatrix(), mode.String())

		proj := camera.ProjectionMatrix()
		assert.False(t, proj.HasNaN(), mode.String())
		assert.NotZero(t, proj.Determinant(), mode.String())

	}

}

func TestCameraProjectionMode(t *testing.T) {

	camera := NewCamera(20, 10)
	camera.SetNearPlane(1)
	camera.SetFarPlane(11)

	assert.Equal(t, NewProjectionPerspectiveLH(DefaultFieldOfView, 2, 1, 11), camera.ProjectionMatrix())

	camera.SetMode(ProjectionOrthographic)
	assert.Equal(t, NewProjectionOrthographicLH(20, 10, 1, 11), camera.ProjectionMatrix())

	camera.SetFieldOfView(math32.Pi / 3)
	assert.Equal(t, NewProjectionOrthographicLH(20, 10, 1, 11), camera.ProjectionMatrix(), "field of view doesn't apply to orthographic cameras")

}

func TestCameraWorldToScreen(t *testing.T) {

	camera := NewCamera(800, 600)
	camera.SetPosition(Vector3{0, 0, -10})

	center := camera.WorldToScreen(Vector3{0, 0, 5}, 800, 600)
	assert.InDelta(t, 400, center.X, 1e-3)
	assert.InDelta(t, 300, center.Y, 1e-3)

	// Up in the world is up on screen, so Y shrinks.
	above := camera.WorldToScreen(Vector3{0, 1, 0}, 800, 600)
	assert.Less(t, above.Y, center.Y)

	right := camera.WorldToScreen(Vector3{1, 0, 0}, 800, 600)
	assert.Greater(t, right.X, center.X)

	clip := camera.WorldToClip(Vector3{0, 0, 0})
	assert.InDelta(t, 10, clip.W, 1e-4)

}

func TestDegenerateCameraDoesNotPanic(t *testing.T) {

	camera := NewCamera(0, 0)
	camera.SetNearPlane(1)
	camera.SetFarPlane(1)

	assert.NotPanics(t, func() {
		assert.True(t, camera.ProjectionMatrix().HasNaN())
		camera.SetMode(ProjectionOrthographic)
		assert.True(t, camera.ProjectionMatrix().HasNaN())
	})

}
