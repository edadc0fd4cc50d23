// package colors contains functions to quickly generate portal3d.Color instances by name (i.e. "White()", "Blue()", "Green()", etc).
package colors

import "github.com/solarlune/portal3d"

// Transparent returns a fully transparent portal3d.Color.
func Transparent() portal3d.Color {
	return portal3d.NewColor(0, 0, 0, 0)
}

func White() portal3d.Color {
	return portal3d.NewColor(1, 1, 1, 1)
}

func Black() portal3d.Color {
	return portal3d.NewColor(0, 0, 0, 1)
}

func Gray() portal3d.Color {
	return portal3d.NewColor(0.5, 0.5, 0.5, 1)
}

// AmbientGray is the dim gray used as a default ambient term for lights and materials.
func AmbientGray() portal3d.Color {
	return portal3d.NewColor(0.2, 0.2, 0.2, 1)
}

func Red() portal3d.Color {
	return portal3d.NewColor(1, 0, 0, 1)
}

func Green() portal3d.Color {
	return portal3d.NewColor(0, 1, 0, 1)
}

func Blue() portal3d.Color {
	return portal3d.NewColor(0, 0, 1, 1)
}

func Orange() portal3d.Color {
	return portal3d.NewColor(1, 0.5, 0, 1)
}

// CornflowerBlue is the classic clear color for render targets.
func CornflowerBlue() portal3d.Color {
	return portal3d.NewColor(0.392, 0.584, 0.929, 1)
}
