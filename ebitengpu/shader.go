package ebitengpu

import (
	"embed"
	"fmt"
	"io/fs"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/solarlune/portal3d"
)

//go:embed shaders/*.kage
var builtinShaders embed.FS

// Paths of the shaders built into the package, for use as StandardEffect and PortalOptions shader paths.
const (
	StandardShaderPath = "shaders/standard.kage"
	PortalShaderPath   = "shaders/portal.kage"
)

// BuiltinShaders returns the file system holding the shaders built into the package.
func BuiltinShaders() fs.FS {
	return builtinShaders
}

// Shader is a compiled Kage program. Kage has no vertex stage, so the vertex format in the ShaderDescription tells
// MeshBuffers which CPU vertex stage to run before drawing with it.
type Shader struct {
	device *Device
	desc   portal3d.ShaderDescription
	shader *ebiten.Shader
}

func newShader(device *Device, desc portal3d.ShaderDescription) (*Shader, error) {

	src, err := fs.ReadFile(device.shaderFS, desc.Path)
	if err != nil {
		return nil, fmt.Errorf("reading shader %q: %w", desc.Path, err)
	}

	shader, err := ebiten.NewShader(src)
	if err != nil {
		return nil, fmt.Errorf("compiling shader %q: %w", desc.Path, err)
	}

	portal3d.Logger().Debug("ebitengpu: shader compiled", "label", desc.Label, "path", desc.Path, "format", desc.Format)

	return &Shader{device: device, desc: desc, shader: shader}, nil

}

// Bind makes the Shader the one the next MeshBuffer.Render calls draw with.
func (shader *Shader) Bind() {
	if shader.shader == nil {
		panic("Error: ebitengpu Shader.Bind() called on a terminated shader.")
	}
	shader.device.shader = shader
}

// Format returns the vertex format the Shader was described with.
func (shader *Shader) Format() portal3d.VertexFormat {
	return shader.desc.Format
}

func (shader *Shader) Terminate() {
	if shader.shader == nil {
		return
	}
	if shader.device.shader == shader {
		shader.device.shader = nil
	}
	shader.shader.Deallocate()
	shader.shader = nil
}
