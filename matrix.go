package portal3d

import (
	"strconv"

	"github.com/chewxy/math32"
)

// Matrix4 represents a 4x4 matrix for translation, scale, rotation and projection. A Matrix4 in portal3d is row-major and
// follows the row-vector convention: a point is transformed as v * M, so the translation lives in matrix[3] and
// a world-view-projection matrix is composed as world.Mult(view).Mult(projection).
type Matrix4 [4][4]float32

// NewMatrix4 returns a new identity Matrix4.
func NewMatrix4() Matrix4 {
	return Matrix4{
		{1, 0, 0, 0},
		{0, 1, 0, 0},
		{0, 0, 1, 0},
		{0, 0, 0, 1},
	}
}

// NewMatrix4Translate returns a new identity Matrix4, but with the x, y, and z translation components set as provided.
func NewMatrix4Translate(x, y, z float32) Matrix4 {
	mat := NewMatrix4()
	mat[3][0] = x
	mat[3][1] = y
	mat[3][2] = z
	return mat
}

// NewMatrix4Scale returns a new identity Matrix4, but with the scale components set as provided. 1, 1, 1 is the default.
func NewMatrix4Scale(x, y, z float32) Matrix4 {
	mat := NewMatrix4()
	mat[0][0] = x
	mat[1][1] = y
	mat[2][2] = z
	return mat
}

// NewMatrix4Rotate returns a new Matrix4 designed to rotate by the angle given (in radians) along the axis given [x, y, z].
// Looking down the axis towards the origin, positive angles rotate clockwise, as is usual for a left-handed system.
func NewMatrix4Rotate(x, y, z, angle float32) Matrix4 {

	// Spin on +Y if there's no usable axis
	if x == 0 && y == 0 && z == 0 {
		y = 1
	}

	axis := Vector3{X: x, Y: y, Z: z}.Unit()
	s, c := math32.Sincos(angle)
	m := 1 - c

	mat := NewMatrix4()

	mat[0][0] = m*axis.X*axis.X + c
	mat[0][1] = m*axis.X*axis.Y + axis.Z*s
	mat[0][2] = m*axis.Z*axis.X - axis.Y*s

	mat[1][0] = m*axis.X*axis.Y - axis.Z*s
	mat[1][1] = m*axis.Y*axis.Y + c
	mat[1][2] = m*axis.Y*axis.Z + axis.X*s

	mat[2][0] = m*axis.Z*axis.X + axis.Y*s
	mat[2][1] = m*axis.Y*axis.Z - axis.X*s
	mat[2][2] = m*axis.Z*axis.Z + c

	return mat

}

// NewViewMatrixLH builds a left-handed view Matrix4 for an eye at position looking along direction, with +Y as the up reference.
// If direction is (anti)parallel to +Y, +Z is used as the up reference instead so the basis never collapses.
func NewViewMatrixLH(position, direction Vector3) Matrix4 {

	look := direction.Unit()

	upRef := WorldUp
	if look.Cross(upRef).IsZero() {
		upRef = WorldForward
	}

	right := upRef.Cross(look).Unit()
	up := look.Cross(right)

	return Matrix4{
		{right.X, up.X, look.X, 0},
		{right.Y, up.Y, look.Y, 0},
		{right.Z, up.Z, look.Z, 0},
		{-position.Dot(right), -position.Dot(up), -position.Dot(look), 1},
	}

}

// NewProjectionPerspectiveLH generates a left-handed perspective projection Matrix4 mapping depth into [0, 1].
// fovY is the vertical field of view in radians and aspect is width / height.
func NewProjectionPerspectiveLH(fovY, aspect, near, far float32) Matrix4 {

	h := 1 / math32.Tan(fovY/2)
	w := h / aspect
	q := far / (far - near)

	return Matrix4{
		{w, 0, 0, 0},
		{0, h, 0, 0},
		{0, 0, q, 1},
		{0, 0, -near * q, 0},
	}

}

// NewProjectionOrthographicLH generates a left-handed orthographic projection Matrix4 for a view volume of the given
// width and height centered on the view axis, mapping depth into [0, 1].
func NewProjectionOrthographicLH(width, height, near, far float32) Matrix4 {
	return Matrix4{
		{2 / width, 0, 0, 0},
		{0, 2 / height, 0, 0},
		{0, 0, 1 / (far - near), 0},
		{0, 0, near / (near - far), 1},
	}
}

// NewScreenSpaceMatrix returns a Matrix4 that maps clip-space X and Y ([-1, 1] after the divide by W) into pixel coordinates
// of a viewport of the given size, with Y flipped so that the origin is in the top-left.
func NewScreenSpaceMatrix(width, height float32) Matrix4 {
	hw := width / 2
	hh := height / 2
	return Matrix4{
		{hw, 0, 0, 0},
		{0, -hh, 0, 0},
		{0, 0, 1, 0},
		{hw, hh, 0, 1},
	}
}

// Transposed transposes a Matrix4, switching the Matrix from being Row Major to being Column Major. Shaders consume
// constant buffer matrices column-major, so matrices are transposed on their way into a buffer.
func (matrix Matrix4) Transposed() Matrix4 {

	var out Matrix4

	for i := 0; i < 4; i++ {
		for j := 0; j < 4; j++ {
			out[i][j] = matrix[j][i]
		}
	}

	return out

}

// Inverted returns an inverted version of the Matrix4, computed through the 2x2 sub-determinant expansion.
// A singular Matrix4 produces a result containing Inf or NaN values.
func (matrix Matrix4) Inverted() Matrix4 {

	a2323 := matrix[2][2]*matrix[3][3] - matrix[2][3]*matrix[3][2]
	a1323 := matrix[2][1]*matrix[3][3] - matrix[2][3]*matrix[3][1]
	a1223 := matrix[2][1]*matrix[3][2] - matrix[2][2]*matrix[3][1]
	a0323 := matrix[2][0]*matrix[3][3] - matrix[2][3]*matrix[3][0]
	a0223 := matrix[2][0]*matrix[3][2] - matrix[2][2]*matrix[3][0]
	a0123 := matrix[2][0]*matrix[3][1] - matrix[2][1]*matrix[3][0]
	a2313 := matrix[1][2]*matrix[3][3] - matrix[1][3]*matrix[3][2]
	a1313 := matrix[1][1]*matrix[3][3] - matrix[1][3]*matrix[3][1]
	a1213 := matrix[1][1]*matrix[3][2] - matrix[1][2]*matrix[3][1]
	a2312 := matrix[1][2]*matrix[2][3] - matrix[1][3]*matrix[2][2]
	a1312 := matrix[1][1]*matrix[2][3] - matrix[1][3]*matrix[2][1]
	a1212 := matrix[1][1]*matrix[2][2] - matrix[1][2]*matrix[2][1]
	a0313 := matrix[1][0]*matrix[3][3] - matrix[1][3]*matrix[3][0]
	a0213 := matrix[1][0]*matrix[3][2] - matrix[1][2]*matrix[3][0]
	a0312 := matrix[1][0]*matrix[2][3] - matrix[1][3]*matrix[2][0]
	a0212 := matrix[1][0]*matrix[2][2] - matrix[1][2]*matrix[2][0]
	a0113 := matrix[1][0]*matrix[3][1] - matrix[1][1]*matrix[3][0]
	a0112 := matrix[1][0]*matrix[2][1] - matrix[1][1]*matrix[2][0]

	invDet := 1 / matrix.determinant()

	var m Matrix4

	m[0][0] = invDet * (matrix[1][1]*a2323 - matrix[1][2]*a1323 + matrix[1][3]*a1223)
	m[0][1] = invDet * -(matrix[0][1]*a2323 - matrix[0][2]*a1323 + matrix[0][3]*a1223)
	m[0][2] = invDet * (matrix[0][1]*a2313 - matrix[0][2]*a1313 + matrix[0][3]*a1213)
	m[0][3] = invDet * -(matrix[0][1]*a2312 - matrix[0][2]*a1312 + matrix[0][3]*a1212)
	m[1][0] = invDet * -(matrix[1][0]*a2323 - matrix[1][2]*a0323 + matrix[1][3]*a0223)
	m[1][1] = invDet * (matrix[0][0]*a2323 - matrix[0][2]*a0323 + matrix[0][3]*a0223)
	m[1][2] = invDet * -(matrix[0][0]*a2313 - matrix[0][2]*a0313 + matrix[0][3]*a0213)
	m[1][3] = invDet * (matrix[0][0]*a2312 - matrix[0][2]*a0312 + matrix[0][3]*a0212)
	m[2][0] = invDet * (matrix[1][0]*a1323 - matrix[1][1]*a0323 + matrix[1][3]*a0123)
	m[2][1] = invDet * -(matrix[0][0]*a1323 - matrix[0][1]*a0323 + matrix[0][3]*a0123)
	m[2][2] = invDet * (matrix[0][0]*a1313 - matrix[0][1]*a0313 + matrix[0][3]*a0113)
	m[2][3] = invDet * -(matrix[0][0]*a1312 - matrix[0][1]*a0312 + matrix[0][3]*a0112)
	m[3][0] = invDet * -(matrix[1][0]*a1223 - matrix[1][1]*a0223 + matrix[1][2]*a0123)
	m[3][1] = invDet * (matrix[0][0]*a1223 - matrix[0][1]*a0223 + matrix[0][2]*a0123)
	m[3][2] = invDet * -(matrix[0][0]*a1213 - matrix[0][1]*a0213 + matrix[0][2]*a0113)
	m[3][3] = invDet * (matrix[0][0]*a1212 - matrix[0][1]*a0212 + matrix[0][2]*a0112)

	return m

}

// Determinant returns the determinant of the Matrix4. A Matrix4 is invertible exactly when this is non-zero.
func (matrix Matrix4) Determinant() float32 {
	return matrix.determinant()
}

func (matrix Matrix4) determinant() float32 {

	a2323 := matrix[2][2]*matrix[3][3] - matrix[2][3]*matrix[3][2]
	a1323 := matrix[2][1]*matrix[3][3] - matrix[2][3]*matrix[3][1]
	a1223 := matrix[2][1]*matrix[3][2] - matrix[2][2]*matrix[3][1]
	a0323 := matrix[2][0]*matrix[3][3] - matrix[2][3]*matrix[3][0]
	a0223 := matrix[2][0]*matrix[3][2] - matrix[2][2]*matrix[3][0]
	a0123 := matrix[2][0]*matrix[3][1] - matrix[2][1]*matrix[3][0]

	return matrix[0][0]*(matrix[1][1]*a2323-matrix[1][2]*a1323+matrix[1][3]*a1223) -
		matrix[0][1]*(matrix[1][0]*a2323-matrix[1][2]*a0323+matrix[1][3]*a0223) +
		matrix[0][2]*(matrix[1][0]*a1323-matrix[1][1]*a0323+matrix[1][3]*a0123) -
		matrix[0][3]*(matrix[1][0]*a1223-matrix[1][1]*a0223+matrix[1][2]*a0123)

}

// MultVec multiplies the point provided by the Matrix4 (as v * M, with an implicit W of 1), dropping the resulting W.
func (matrix Matrix4) MultVec(vect Vector3) Vector3 {
	return Vector3{
		X: matrix[0][0]*vect.X + matrix[1][0]*vect.Y + matrix[2][0]*vect.Z + matrix[3][0],
		Y: matrix[0][1]*vect.X + matrix[1][1]*vect.Y + matrix[2][1]*vect.Z + matrix[3][1],
		Z: matrix[0][2]*vect.X + matrix[1][2]*vect.Y + matrix[2][2]*vect.Z + matrix[3][2],
	}
}

// MultVecW multiplies the point provided by the Matrix4 (as v * M, with an implicit W of 1), keeping the homogeneous W component.
func (matrix Matrix4) MultVecW(vect Vector3) Vector4 {
	return Vector4{
		X: matrix[0][0]*vect.X + matrix[1][0]*vect.Y + matrix[2][0]*vect.Z + matrix[3][0],
		Y: matrix[0][1]*vect.X + matrix[1][1]*vect.Y + matrix[2][1]*vect.Z + matrix[3][1],
		Z: matrix[0][2]*vect.X + matrix[1][2]*vect.Y + matrix[2][2]*vect.Z + matrix[3][2],
		W: matrix[0][3]*vect.X + matrix[1][3]*vect.Y + matrix[2][3]*vect.Z + matrix[3][3],
	}
}

// MultDir rotates and scales the direction provided by the Matrix4, ignoring translation.
func (matrix Matrix4) MultDir(vect Vector3) Vector3 {
	return Vector3{
		X: matrix[0][0]*vect.X + matrix[1][0]*vect.Y + matrix[2][0]*vect.Z,
		Y: matrix[0][1]*vect.X + matrix[1][1]*vect.Y + matrix[2][1]*vect.Z,
		Z: matrix[0][2]*vect.X + matrix[1][2]*vect.Y + matrix[2][2]*vect.Z,
	}
}

// Mult multiplies a Matrix4 by another provided Matrix4 - this effectively combines them, applying matrix first and other second.
func (matrix Matrix4) Mult(other Matrix4) Matrix4 {

	var out Matrix4

	for r := 0; r < 4; r++ {
		row := matrix[r]
		out[r][0] = row[0]*other[0][0] + row[1]*other[1][0] + row[2]*other[2][0] + row[3]*other[3][0]
		out[r][1] = row[0]*other[0][1] + row[1]*other[1][1] + row[2]*other[2][1] + row[3]*other[3][1]
		out[r][2] = row[0]*other[0][2] + row[1]*other[1][2] + row[2]*other[2][2] + row[3]*other[3][2]
		out[r][3] = row[0]*other[0][3] + row[1]*other[1][3] + row[2]*other[2][3] + row[3]*other[3][3]
	}

	return out

}

// Row returns the indiced row from the Matrix4 as a Vector4.
func (matrix Matrix4) Row(rowIndex int) Vector4 {
	return Vector4{
		X: matrix[rowIndex][0],
		Y: matrix[rowIndex][1],
		Z: matrix[rowIndex][2],
		W: matrix[rowIndex][3],
	}
}

// SetRow sets the Matrix4 with the row in rowIndex set to the 4D vector passed.
func (matrix *Matrix4) SetRow(rowIndex int, vec Vector4) {
	matrix[rowIndex][0] = vec.X
	matrix[rowIndex][1] = vec.Y
	matrix[rowIndex][2] = vec.Z
	matrix[rowIndex][3] = vec.W
}

// Translation returns the translation row of the Matrix4.
func (matrix Matrix4) Translation() Vector3 {
	return Vector3{X: matrix[3][0], Y: matrix[3][1], Z: matrix[3][2]}
}

// Floats returns the Matrix4's contents as a flat [16]float32 array, in the Matrix4's own (row-major) order.
func (matrix Matrix4) Floats() [16]float32 {
	var out [16]float32
	for r := 0; r < 4; r++ {
		copy(out[r*4:r*4+4], matrix[r][:])
	}
	return out
}

// Equals returns true if the matrix equals the same values in the provided Other Matrix4.
func (matrix Matrix4) Equals(other Matrix4) bool {

	eps := float32(0.0001)
	for i := 0; i < len(matrix); i++ {
		for j := 0; j < len(matrix[i]); j++ {
			if math32.Abs(matrix[i][j]-other[i][j]) > eps {
				return false
			}
		}
	}
	return true
}

var identityMatrix = NewMatrix4()

// IsIdentity returns true if the matrix is an unmodified identity matrix.
func (matrix Matrix4) IsIdentity() bool {
	return matrix.Equals(identityMatrix)
}

// HasNaN returns true if any value in the Matrix4 is NaN or infinite, as happens with degenerate projections.
func (matrix Matrix4) HasNaN() bool {
	for i := range matrix {
		for _, v := range matrix[i] {
			if math32.IsNaN(v) || math32.IsInf(v, 0) {
				return true
			}
		}
	}
	return false
}

func (matrix Matrix4) String() string {
	s := "{"
	for i, y := range matrix {
		for _, x := range y {
			s += strconv.FormatFloat(float64(x), 'f', -1, 32) + ", "
		}
		if i < len(matrix)-1 {
			s += "\n"
		}
	}
	s += "}"
	return s
}
