// Package ebitengpu implements portal3d's Device on top of Ebitengine.
//
// Ebitengine draws 2D triangles, so the vertex stage runs on the CPU: every MeshBuffer.Render reads the constant
// buffers bound to the Device, transforms and lights its vertices, sorts the triangles back to front and hands them to
// a Kage shader with DrawTrianglesShader. Render targets are *ebiten.Image values drawn into through a destination stack.
package ebitengpu

import (
	"fmt"
	"image"
	"image/color"
	"io/fs"

	"github.com/gogpu/gputypes"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/solarlune/portal3d"
)

// MaxSlots is the number of binding slots per shader stage.
const MaxSlots = 4

// maxTargetSize is the largest render target dimension the Device will create.
const maxTargetSize = 16384

// texture is a GPU image plus, for textures that were decoded on the CPU, the source image the vertex stage samples.
type texture struct {
	img *ebiten.Image
	src image.Image
}

// Options configures a Device.
type Options struct {
	// Width and Height are the back buffer size reported until SetScreen is first called.
	Width, Height int
	// ShaderFS is where shader paths are read from. If nil, the shaders built into the package are used.
	ShaderFS fs.FS
}

// Stats counts the work the Device has done since the last ResetStats call.
type Stats struct {
	DrawCalls       int
	Triangles       int
	CulledTriangles int
}

// Device is the Ebitengine implementation of portal3d.Device. It isn't safe for concurrent use; call it from the
// Ebitengine game loop.
type Device struct {
	width, height int
	shaderFS      fs.FS

	screen       *ebiten.Image
	destinations []*ebiten.Image

	shader     *Shader
	vsBuffers  [MaxSlots]*ConstantBuffer
	psBuffers  [MaxSlots]*ConstantBuffer
	vsTextures [MaxSlots]*texture
	psTextures [MaxSlots]*texture
	vsSamplers [MaxSlots]*Sampler
	psSamplers [MaxSlots]*Sampler

	textures *TextureCache
	white    *texture

	debugTextTexture *ebiten.Image

	stats Stats
}

var _ portal3d.Device = (*Device)(nil)

// NewDevice creates a new Device.
func NewDevice(options Options) *Device {

	shaderFS := options.ShaderFS
	if shaderFS == nil {
		shaderFS = builtinShaders
	}

	white := ebiten.NewImage(1, 1)
	white.Fill(color.White)

	device := &Device{
		width:    options.Width,
		height:   options.Height,
		shaderFS: shaderFS,
		white:    &texture{img: white, src: image.NewUniform(color.White)},
	}

	device.textures = newTextureCache(device)

	return device

}

// SetScreen sets the image the main view is drawn to; call it at the start of every Draw with Ebitengine's screen.
func (device *Device) SetScreen(screen *ebiten.Image) {
	device.screen = screen
	if screen != nil {
		size := screen.Bounds().Size()
		device.width, device.height = size.X, size.Y
	}
}

// BackBufferSize returns the size of the screen image, or the size the Device was created with if there's no screen yet.
func (device *Device) BackBufferSize() (float32, float32) {
	return float32(device.width), float32(device.height)
}

func (device *Device) TextureCache() portal3d.TextureCache {
	return device.textures
}

// Textures returns the Device's TextureCache, which can also be used as a portal3d.TextureLoader.
func (device *Device) Textures() *TextureCache {
	return device.textures
}

func (device *Device) Stats() Stats {
	return device.stats
}

func (device *Device) ResetStats() {
	device.stats = Stats{}
}

// destination returns the image draws currently land on: the innermost active render target, or the screen.
func (device *Device) destination() *ebiten.Image {
	if n := len(device.destinations); n > 0 {
		return device.destinations[n-1]
	}
	return device.screen
}

func (device *Device) pushDestination(img *ebiten.Image) {
	device.destinations = append(device.destinations, img)
}

func (device *Device) popDestination(img *ebiten.Image) {
	n := len(device.destinations)
	if n == 0 || device.destinations[n-1] != img {
		panic("Error: ebitengpu RenderTarget.EndRender() called for a render target that isn't the active destination.")
	}
	device.destinations = device.destinations[:n-1]
}

func checkSlot(kind string, slot int) {
	if slot < 0 || slot >= MaxSlots {
		panic(fmt.Sprintf("Error: ebitengpu cannot bind %s to slot %d; slots run from 0 to %d.", kind, slot, MaxSlots-1))
	}
}

func (device *Device) NewShader(desc portal3d.ShaderDescription) (portal3d.Shader, error) {

	if desc.Stages&gputypes.ShaderStageVertex == 0 || desc.Stages&gputypes.ShaderStageFragment == 0 {
		return nil, fmt.Errorf("shader %q: a vertex and fragment stage pair is required", desc.Label)
	}

	shader, err := newShader(device, desc)
	if err != nil {
		return nil, err
	}

	return shader, nil

}

func (device *Device) NewConstantBuffer(desc gputypes.BufferDescriptor) (portal3d.ConstantBuffer, error) {

	if desc.Usage&gputypes.BufferUsageUniform == 0 {
		return nil, fmt.Errorf("buffer %q: constant buffers need uniform usage", desc.Label)
	}

	if desc.Size == 0 || desc.Size%16 != 0 {
		return nil, fmt.Errorf("buffer %q: size %d isn't a non-zero multiple of 16", desc.Label, desc.Size)
	}

	portal3d.Logger().Debug("ebitengpu: constant buffer created", "label", desc.Label, "size", desc.Size)

	return &ConstantBuffer{device: device, desc: desc}, nil

}

func (device *Device) NewSampler(desc gputypes.SamplerDescriptor) (portal3d.Sampler, error) {
	return &Sampler{device: device, desc: desc}, nil
}

func (device *Device) NewRenderTarget(desc gputypes.TextureDescriptor) (portal3d.RenderTarget, error) {
	target, err := newRenderTarget(device, desc)
	if err != nil {
		return nil, err
	}
	return target, nil
}

func (device *Device) NewMeshBuffer(mesh portal3d.MeshData) (portal3d.MeshBuffer, error) {
	buffer, err := newMeshBuffer(device, mesh)
	if err != nil {
		return nil, err
	}
	return buffer, nil
}
