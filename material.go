package portal3d

// Material describes how a surface responds to light. It is copied by value into the material constant buffer.
type Material struct {
	Ambient  Color
	Diffuse  Color
	Specular Color
	Emissive Color
	Power    float32 // Specular exponent.
	_        [3]float32
}

// NewMaterial returns a plain white Material with a moderate specular exponent.
func NewMaterial() Material {
	return Material{
		Ambient:  NewColor(1, 1, 1, 1),
		Diffuse:  NewColor(1, 1, 1, 1),
		Specular: NewColor(1, 1, 1, 1),
		Emissive: NewColor(0, 0, 0, 1),
		Power:    10,
	}
}
