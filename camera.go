package portal3d

import (
	"github.com/chewxy/math32"
)

// ProjectionMode selects how a Camera projects the world onto its view plane.
type ProjectionMode int

const (
	ProjectionPerspective ProjectionMode = iota
	ProjectionOrthographic
)

func (mode ProjectionMode) String() string {
	switch mode {
	case ProjectionPerspective:
		return "perspective"
	case ProjectionOrthographic:
		return "orthographic"
	}
	return "unknown"
}

// DefaultFieldOfView is the vertical field of view (in radians) a new Camera starts with.
const DefaultFieldOfView = math32.Pi / 2

// Camera holds the position, orientation and projection parameters used to build view and projection matrices.
// Camera does not validate its state: keeping near < far and the size above zero is up to the caller. Degenerate
// settings yield matrices containing Inf or NaN values rather than a panic.
type Camera struct {
	position    Vector3
	direction   Vector3
	near        float32
	far         float32
	fieldOfView float32
	aspectRatio float32
	width       float32
	height      float32
	mode        ProjectionMode
}

// NewCamera creates a new perspective Camera at the origin looking down +Z, with a view size of w x h.
func NewCamera(w, h float32) *Camera {
	return &Camera{
		direction:   WorldForward,
		near:        0.1,
		far:         100,
		fieldOfView: DefaultFieldOfView,
		width:       w,
		height:      h,
		mode:        ProjectionPerspective,
	}
}

// Position returns the Camera's world position.
func (camera *Camera) Position() Vector3 {
	return camera.position
}

// SetPosition sets the Camera's world position.
func (camera *Camera) SetPosition(position Vector3) {
	camera.position = position
}

// Direction returns the (unit-length) direction the Camera is looking in.
func (camera *Camera) Direction() Vector3 {
	return camera.direction
}

// SetDirection sets the direction the Camera is looking in; the direction is normalized.
func (camera *Camera) SetDirection(direction Vector3) {
	camera.direction = direction.Unit()
}

// LookAt points the Camera from its current position towards the target position.
func (camera *Camera) LookAt(target Vector3) {
	camera.SetDirection(target.Sub(camera.position))
}

func (camera *Camera) Near() float32 {
	return camera.near
}

func (camera *Camera) SetNearPlane(near float32) {
	camera.near = near
}

func (camera *Camera) Far() float32 {
	return camera.far
}

func (camera *Camera) SetFarPlane(far float32) {
	camera.far = far
}

func (camera *Camera) Mode() ProjectionMode {
	return camera.mode
}

func (camera *Camera) SetMode(mode ProjectionMode) {
	camera.mode = mode
}

// Size returns the width and height of the Camera's view. For orthographic cameras this is the size of the
// view volume in world units; for perspective cameras it only provides the aspect ratio when none is set.
func (camera *Camera) Size() (w, h float32) {
	return camera.width, camera.height
}

func (camera *Camera) SetSize(w, h float32) {
	camera.width = w
	camera.height = h
}

// FieldOfView returns the vertical field of view of the Camera in radians.
func (camera *Camera) FieldOfView() float32 {
	return camera.fieldOfView
}

func (camera *Camera) SetFieldOfView(fovY float32) {
	camera.fieldOfView = fovY
}

// AspectRatio returns the width / height ratio used for perspective projection. If no explicit ratio
// has been set, it is derived from the Camera's size.
func (camera *Camera) AspectRatio() float32 {
	if camera.aspectRatio > 0 {
		return camera.aspectRatio
	}
	return camera.width / camera.height
}

// SetAspectRatio overrides the aspect ratio; a value <= 0 derives it from the Camera's size again.
func (camera *Camera) SetAspectRatio(aspect float32) {
	camera.aspectRatio = aspect
}

// ViewMatrix returns the Camera's view Matrix4. It is recomputed on every call.
func (camera *Camera) ViewMatrix() Matrix4 {
	return NewViewMatrixLH(camera.position, camera.direction)
}

// ProjectionMatrix returns the Camera's projection Matrix4 for its current mode. It is recomputed on every call.
func (camera *Camera) ProjectionMatrix() Matrix4 {
	if camera.mode == ProjectionOrthographic {
		return NewProjectionOrthographicLH(camera.width, camera.height, camera.near, camera.far)
	}
	return NewProjectionPerspectiveLH(camera.fieldOfView, camera.AspectRatio(), camera.near, camera.far)
}

// ViewProjectionMatrix returns ViewMatrix() * ProjectionMatrix().
func (camera *Camera) ViewProjectionMatrix() Matrix4 {
	return camera.ViewMatrix().Mult(camera.ProjectionMatrix())
}

// WorldToClip transforms a world position into homogeneous clip space.
func (camera *Camera) WorldToClip(point Vector3) Vector4 {
	return camera.ViewProjectionMatrix().MultVecW(point)
}

// WorldToScreen projects a world position into pixel coordinates on a viewport of the given size, with the origin in
// the top-left. Points behind the camera produce mirrored, out-of-viewport coordinates.
func (camera *Camera) WorldToScreen(point Vector3, viewportWidth, viewportHeight float32) Vector2 {
	v := camera.ViewProjectionMatrix().Mult(NewScreenSpaceMatrix(viewportWidth, viewportHeight)).MultVecW(point)
	return Vector2{v.X / v.W, v.Y / v.W}
}
