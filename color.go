package portal3d

import (
	"image/color"

	"github.com/chewxy/math32"
)

// A Color represents a linear color, containing R, G, B, and A components, each expected to range from 0 to 1.
// Colors are laid out as four float32s, matching a float4 in a constant buffer.
type Color struct {
	R, G, B, A float32
}

// NewColor returns a new Color, with the provided R, G, B, and A components expected to range from 0 to 1.
func NewColor(r, g, b, a float32) Color {
	return Color{r, g, b, a}
}

// NewColorFromRGBA8 returns a Color from 8-bit channel values (0 - 255).
func NewColorFromRGBA8(r, g, b, a uint8) Color {
	return Color{float32(r) / 255, float32(g) / 255, float32(b) / 255, float32(a) / 255}
}

// Mult returns the Color multiplied component-wise by the other Color.
func (c Color) Mult(other Color) Color {
	c.R *= other.R
	c.G *= other.G
	c.B *= other.B
	c.A *= other.A
	return c
}

// Add returns the Color with the other Color's RGB added; alpha is left alone.
func (c Color) Add(other Color) Color {
	c.R += other.R
	c.G += other.G
	c.B += other.B
	return c
}

// ScaleRGB scales the R, G, and B components of the Color by the value given.
func (c Color) ScaleRGB(value float32) Color {
	c.R *= value
	c.G *= value
	c.B *= value
	return c
}

// Clamped returns the Color with all components limited to [0, 1].
func (c Color) Clamped() Color {
	clamp := func(v float32) float32 {
		return math32.Max(0, math32.Min(1, v))
	}
	return Color{clamp(c.R), clamp(c.G), clamp(c.B), clamp(c.A)}
}

// ToRGBA64 converts the Color to an image/color.RGBA64 (premultiplied), for use with image and ebiten APIs.
func (c Color) ToRGBA64() color.RGBA64 {
	c = c.Clamped()
	return color.RGBA64{
		R: uint16(c.R * c.A * 65535),
		G: uint16(c.G * c.A * 65535),
		B: uint16(c.B * c.A * 65535),
		A: uint16(c.A * 65535),
	}
}

// Floats returns the Color's components as a [4]float32 array.
func (c Color) Floats() [4]float32 {
	return [4]float32{c.R, c.G, c.B, c.A}
}
