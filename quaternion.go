package portal3d

import "github.com/chewxy/math32"

// Quaternion represents a rotation. The zero value is not a valid rotation; use NewQuaternionIdentity.
type Quaternion struct {
	X, Y, Z, W float32
}

func NewQuaternion(x, y, z, w float32) Quaternion {
	return Quaternion{x, y, z, w}
}

// NewQuaternionIdentity returns a Quaternion representing no rotation.
func NewQuaternionIdentity() Quaternion {
	return Quaternion{0, 0, 0, 1}
}

// NewQuaternionFromAxisAngle returns a Quaternion rotating by angle radians around the given axis. The rotation
// matches NewMatrix4Rotate for the same axis and angle.
func NewQuaternionFromAxisAngle(axis Vector3, angle float32) Quaternion {
	if axis.IsZero() {
		axis = WorldUp
	}
	axis = axis.Unit()
	s, c := math32.Sincos(angle / 2)
	return Quaternion{axis.X * s, axis.Y * s, axis.Z * s, c}
}

func (quat Quaternion) Dot(other Quaternion) float32 {
	return quat.X*other.X + quat.Y*other.Y + quat.Z*other.Z + quat.W*other.W
}

// Unit returns the Quaternion normalized to unit length. A zero Quaternion becomes the identity.
func (quat Quaternion) Unit() Quaternion {
	l := math32.Sqrt(quat.Dot(quat))
	if l == 0 {
		return NewQuaternionIdentity()
	}
	return Quaternion{quat.X / l, quat.Y / l, quat.Z / l, quat.W / l}
}

// Mult composes two rotations; the result rotates by quat first, then by other.
func (quat Quaternion) Mult(other Quaternion) Quaternion {
	a, b := other, quat
	return Quaternion{
		X: a.W*b.X + a.X*b.W + a.Y*b.Z - a.Z*b.Y,
		Y: a.W*b.Y - a.X*b.Z + a.Y*b.W + a.Z*b.X,
		Z: a.W*b.Z + a.X*b.Y - a.Y*b.X + a.Z*b.W,
		W: a.W*b.W - a.X*b.X - a.Y*b.Y - a.Z*b.Z,
	}
}

// Slerp spherically interpolates from quat towards other by percent (0 - 1).
func (quat Quaternion) Slerp(other Quaternion, percent float32) Quaternion {

	if percent <= 0 {
		return quat
	} else if percent >= 1 {
		return other
	}

	cosHalfTheta := quat.Dot(other)

	// Take the short way around
	if cosHalfTheta < 0 {
		other = Quaternion{-other.X, -other.Y, -other.Z, -other.W}
		cosHalfTheta = -cosHalfTheta
	}

	if cosHalfTheta >= 1 {
		return quat
	}

	sinHalfTheta := math32.Sqrt(1 - cosHalfTheta*cosHalfTheta)

	if sinHalfTheta < 0.001 {
		return Quaternion{
			quat.X*0.5 + other.X*0.5,
			quat.Y*0.5 + other.Y*0.5,
			quat.Z*0.5 + other.Z*0.5,
			quat.W*0.5 + other.W*0.5,
		}
	}

	halfTheta := math32.Atan2(sinHalfTheta, cosHalfTheta)
	ratioA := math32.Sin((1-percent)*halfTheta) / sinHalfTheta
	ratioB := math32.Sin(percent*halfTheta) / sinHalfTheta

	return Quaternion{
		quat.X*ratioA + other.X*ratioB,
		quat.Y*ratioA + other.Y*ratioB,
		quat.Z*ratioA + other.Z*ratioB,
		quat.W*ratioA + other.W*ratioB,
	}

}

// ToMatrix4 returns the rotation Matrix4 (row-vector convention) the Quaternion represents.
func (quat Quaternion) ToMatrix4() Matrix4 {

	q := quat.Unit()
	x, y, z, w := q.X, q.Y, q.Z, q.W

	return Matrix4{
		{1 - 2*(y*y+z*z), 2 * (x*y + z*w), 2 * (x*z - y*w), 0},
		{2 * (x*y - z*w), 1 - 2*(x*x+z*z), 2 * (y*z + x*w), 0},
		{2 * (x*z + y*w), 2 * (y*z - x*w), 1 - 2*(x*x+y*y), 0},
		{0, 0, 0, 1},
	}

}
