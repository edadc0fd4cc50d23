package portal3d

import (
	"github.com/chewxy/math32"
)

// WorldRight represents a unit vector in the global direction of +X on the left-handed, Y-up coordinate system used by portal3d.
var WorldRight = Vector3{X: 1, Y: 0, Z: 0}

// WorldUp represents a unit vector in the global direction of +Y (upwards).
var WorldUp = Vector3{X: 0, Y: 1, Z: 0}

// WorldForward represents a unit vector in the global direction of +Z (away from a default camera, into the screen).
var WorldForward = Vector3{X: 0, Y: 0, Z: 1}

// Vector3 represents a 3D Vector, which can be used for usual 3D applications (position, direction, velocity, etc).
// Any Vector3 functions that modify the calling Vector3 return copies of the modified Vector3, meaning you can do method-chaining easily.
type Vector3 struct {
	X float32 // The X (1st) component of the Vector
	Y float32 // The Y (2nd) component of the Vector
	Z float32 // The Z (3rd) component of the Vector
}

// NewVector3 creates a new Vector3 with the specified x, y, and z components.
func NewVector3(x, y, z float32) Vector3 {
	return Vector3{X: x, Y: y, Z: z}
}

// Add returns a copy of the calling vector, added together with the other Vector3 provided.
func (vec Vector3) Add(other Vector3) Vector3 {
	vec.X += other.X
	vec.Y += other.Y
	vec.Z += other.Z
	return vec
}

// Sub returns a copy of the calling Vector3, with the other Vector3 subtracted from it.
func (vec Vector3) Sub(other Vector3) Vector3 {
	vec.X -= other.X
	vec.Y -= other.Y
	vec.Z -= other.Z
	return vec
}

// Cross returns a new Vector3, indicating the cross product of the calling Vector3 and the provided Other Vector3.
func (vec Vector3) Cross(other Vector3) Vector3 {

	ogVecY := vec.Y
	ogVecZ := vec.Z

	vec.Z = vec.X*other.Y - other.X*vec.Y
	vec.Y = ogVecZ*other.X - other.Z*vec.X
	vec.X = ogVecY*other.Z - other.Y*ogVecZ

	return vec

}

// Invert returns a copy of the Vector3 with all components negated.
func (vec Vector3) Invert() Vector3 {
	vec.X = -vec.X
	vec.Y = -vec.Y
	vec.Z = -vec.Z
	return vec
}

// Magnitude returns the length of the Vector3.
func (vec Vector3) Magnitude() float32 {
	return math32.Sqrt(vec.X*vec.X + vec.Y*vec.Y + vec.Z*vec.Z)
}

// MagnitudeSquared returns the squared length of the Vector3; this is faster than Magnitude() as it avoids using math32.Sqrt().
func (vec Vector3) MagnitudeSquared() float32 {
	return vec.X*vec.X + vec.Y*vec.Y + vec.Z*vec.Z
}

func (vec Vector3) Distance(other Vector3) float32 {
	return vec.Sub(other).Magnitude()
}

// Unit returns a copy of the Vector3, normalized (set to be of unit length).
// A zero-length Vector3 is returned unchanged.
func (vec Vector3) Unit() Vector3 {
	l := vec.Magnitude()
	if l < 1e-8 {
		return vec
	}
	vec.X, vec.Y, vec.Z = vec.X/l, vec.Y/l, vec.Z/l
	return vec
}

// Scale scales a Vector3 by the given scalar.
func (vec Vector3) Scale(scalar float32) Vector3 {
	vec.X *= scalar
	vec.Y *= scalar
	vec.Z *= scalar
	return vec
}

// MultComp multiplies the Vector3 component-wise by the other Vector3.
func (vec Vector3) MultComp(other Vector3) Vector3 {
	vec.X *= other.X
	vec.Y *= other.Y
	vec.Z *= other.Z
	return vec
}

// Dot returns the dot product of a Vector3 and another Vector3.
func (vec Vector3) Dot(other Vector3) float32 {
	return vec.X*other.X + vec.Y*other.Y + vec.Z*other.Z
}

// SetY sets the Y component in the vector to the value provided.
func (vec Vector3) SetY(y float32) Vector3 {
	vec.Y = y
	return vec
}

// MirrorXZ returns a copy of the Vector3 with its X and Z components negated. This reflects a vector through a vertical axis,
// which is how a vector relative to one portal is carried over to the other side of its partner.
func (vec Vector3) MirrorXZ() Vector3 {
	vec.X = -vec.X
	vec.Z = -vec.Z
	return vec
}

// Equals returns true if the two Vectors are close enough in all values.
func (vec Vector3) Equals(other Vector3) bool {

	eps := float32(1e-6)

	if math32.Abs(vec.X-other.X) > eps || math32.Abs(vec.Y-other.Y) > eps || math32.Abs(vec.Z-other.Z) > eps {
		return false
	}

	return true

}

// IsZero returns true if the values in the Vector3 are extremely close to 0.
func (vec Vector3) IsZero() bool {
	return vec.Equals(Vector3{})
}

// Floats returns a [3]float32 array consisting of the Vector3's contents.
func (vec Vector3) Floats() [3]float32 {
	return [3]float32{vec.X, vec.Y, vec.Z}
}

// Vector2 represents a 2D Vector, used for texture coordinates.
type Vector2 struct {
	X float32
	Y float32
}

// NewVector2 creates a new Vector2 with the specified x and y components.
func NewVector2(x, y float32) Vector2 {
	return Vector2{X: x, Y: y}
}

// Vector4 represents a homogeneous 4D Vector, as produced by multiplying a point by a projection Matrix4.
type Vector4 struct {
	X, Y, Z, W float32
}

// Vector3 returns the X, Y, and Z components of the Vector4, dropping W.
func (vec Vector4) Vector3() Vector3 {
	return Vector3{X: vec.X, Y: vec.Y, Z: vec.Z}
}

// Unit returns a copy of the Vector4 (treating all four components as a vector) normalized to unit length.
func (vec Vector4) Unit() Vector4 {
	l := math32.Sqrt(vec.X*vec.X + vec.Y*vec.Y + vec.Z*vec.Z + vec.W*vec.W)
	if l < 1e-8 {
		return vec
	}
	vec.X, vec.Y, vec.Z, vec.W = vec.X/l, vec.Y/l, vec.Z/l, vec.W/l
	return vec
}

// Magnitude returns the length of the Vector4, treating all four components as a vector.
func (vec Vector4) Magnitude() float32 {
	return math32.Sqrt(vec.X*vec.X + vec.Y*vec.Y + vec.Z*vec.Z + vec.W*vec.W)
}

// Invert returns a copy of the Vector4 with all components negated.
func (vec Vector4) Invert() Vector4 {
	vec.X = -vec.X
	vec.Y = -vec.Y
	vec.Z = -vec.Z
	vec.W = -vec.W
	return vec
}
