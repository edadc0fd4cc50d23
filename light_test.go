package portal3d

import (
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDirectionalLightShade(t *testing.T) {

	light := NewDirectionalLight(Vector3{0, -2, 0})
	assert.Equal(t, Vector3{0, -1, 0}, light.Direction)

	material := NewMaterial()
	material.Diffuse = NewColor(1, 0.5, 0, 0.75)

	// Facing the light: ambient plus full diffuse.
	lit := light.Shade(WorldUp, material)
	assert.InDelta(t, 1.2, lit.R, 1e-5)
	assert.InDelta(t, 0.7, lit.G, 1e-5)
	assert.InDelta(t, 0.2, lit.B, 1e-5)
	assert.Equal(t, float32(0.75), lit.A)

	// Facing away: ambient only.
	unlit := light.Shade(Vector3{0, -1, 0}, material)
	assert.InDelta(t, 0.2, unlit.R, 1e-5)
	assert.InDelta(t, 0.2, unlit.G, 1e-5)

	material.Emissive = NewColor(0.5, 0, 0, 1)
	assert.InDelta(t, 0.7, light.Shade(Vector3{0, -1, 0}, material).R, 1e-5)

}

func TestColor(t *testing.T) {

	c := NewColor(2, -1, 0.5, 1)
	assert.Equal(t, NewColor(1, 0, 0.5, 1), c.Clamped())

	assert.Equal(t, color.RGBA64{R: 65535, G: 0, B: 0, A: 65535}, NewColor(1, 0, 0, 1).ToRGBA64())
	assert.Equal(t, uint16(32767), NewColor(1, 1, 1, 0.5).ToRGBA64().R, "colors are premultiplied")

	assert.InDelta(t, 1, NewColorFromRGBA8(255, 0, 0, 255).R, 1e-6)
	assert.Equal(t, [4]float32{0.5, 0.25, 0, 1}, NewColor(0.5, 0.25, 0, 1).Floats())

}
