package portal3d

// Transform holds a position, rotation and scale and produces the world Matrix4 for whatever embeds it.
type Transform struct {
	Position Vector3
	Rotation Quaternion
	Scale    Vector3
}

// NewTransform returns an identity Transform: at the origin, unrotated, at unit scale.
func NewTransform() Transform {
	return Transform{
		Rotation: NewQuaternionIdentity(),
		Scale:    Vector3{1, 1, 1},
	}
}

// Matrix4 returns the world Matrix4 of the Transform, composed as scale, then rotation, then translation.
func (t Transform) Matrix4() Matrix4 {
	mat := NewMatrix4Scale(t.Scale.X, t.Scale.Y, t.Scale.Z)
	// The zero Quaternion would collapse everything, so it's read as "unrotated".
	if t.Rotation != (Quaternion{}) {
		mat = mat.Mult(t.Rotation.ToMatrix4())
	}
	return mat.Mult(NewMatrix4Translate(t.Position.X, t.Position.Y, t.Position.Z))
}

// Move returns a copy of the Transform translated by the given offset.
func (t Transform) Move(x, y, z float32) Transform {
	t.Position = t.Position.Add(Vector3{x, y, z})
	return t
}

// Rotate returns a copy of the Transform rotated by angle radians around the given axis, after its existing rotation.
func (t Transform) Rotate(axis Vector3, angle float32) Transform {
	r := t.Rotation
	if r == (Quaternion{}) {
		r = NewQuaternionIdentity()
	}
	t.Rotation = r.Mult(NewQuaternionFromAxisAngle(axis, angle))
	return t
}
