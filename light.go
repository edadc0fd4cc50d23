package portal3d

// DirectionalLight is a light infinitely far away, shining along Direction. It is copied by value into the light constant buffer.
type DirectionalLight struct {
	Direction Vector3
	_         float32 // padding to a 16-byte boundary
	Ambient   Color
	Diffuse   Color
	Specular  Color
}

// NewDirectionalLight returns a white DirectionalLight shining along the given direction (which is normalized), with a dim ambient term.
func NewDirectionalLight(direction Vector3) DirectionalLight {
	return DirectionalLight{
		Direction: direction.Unit(),
		Ambient:   NewColor(0.2, 0.2, 0.2, 1),
		Diffuse:   NewColor(1, 1, 1, 1),
		Specular:  NewColor(1, 1, 1, 1),
	}
}

// Shade returns the color a surface with the given normal and Material receives from the light, ignoring specular highlights.
// It's used by backends that light geometry per-vertex.
func (light DirectionalLight) Shade(normal Vector3, material Material) Color {
	dot := normal.Unit().Dot(light.Direction.Invert())
	if dot < 0 {
		dot = 0
	}
	out := light.Ambient.Mult(material.Ambient).
		Add(light.Diffuse.Mult(material.Diffuse).ScaleRGB(dot)).
		Add(material.Emissive)
	out.A = material.Diffuse.A
	return out
}
