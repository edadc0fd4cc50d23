package portal3d

import (
	"fmt"
	"unsafe"

	"github.com/gogpu/gputypes"
)

// TextureID identifies a texture held by a TextureCache. 0 means "no texture".
type TextureID uint32

// NoTexture is the unset TextureID.
const NoTexture TextureID = 0

// ShaderDescription describes a shader program to load: the vertex and pixel stages are read from the same source.
type ShaderDescription struct {
	Label  string
	Path   string
	Format VertexFormat          // Vertex layout the vertex stage consumes.
	Stages gputypes.ShaderStages // Usually gputypes.ShaderStagesVertexFragment.
}

// Device creates GPU resources and exposes the global GPU-side state portal3d needs. Creation failures
// are returned as errors; the caller treats them as fatal.
type Device interface {
	NewShader(desc ShaderDescription) (Shader, error)
	NewConstantBuffer(desc gputypes.BufferDescriptor) (ConstantBuffer, error)
	NewSampler(desc gputypes.SamplerDescriptor) (Sampler, error)
	NewRenderTarget(desc gputypes.TextureDescriptor) (RenderTarget, error)
	NewMeshBuffer(mesh MeshData) (MeshBuffer, error)
	TextureCache() TextureCache
	// BackBufferSize returns the size, in pixels, of the surface the main view is drawn to.
	BackBufferSize() (width, height float32)
}

// Shader is a compiled vertex and pixel shader pair.
type Shader interface {
	Bind()
	Terminate()
}

// ConstantBuffer is a block of shader-visible data, updated by value.
type ConstantBuffer interface {
	Update(data any)
	BindVS(slot int)
	BindPS(slot int)
	Terminate()
}

type Sampler interface {
	BindVS(slot int)
	BindPS(slot int)
	Terminate()
}

// RenderTarget is an offscreen image that can be drawn into and then sampled as a texture.
type RenderTarget interface {
	// BeginRender makes the RenderTarget the active destination for draws and clears it.
	BeginRender()
	// EndRender restores the previously active destination.
	EndRender()
	BindPS(slot int)
	Size() (width, height int)
	Terminate()
}

// MeshBuffer owns the GPU-side vertex and index storage for a single mesh.
type MeshBuffer interface {
	// Update replaces the vertex data; the vertex count must not change.
	Update(mesh MeshData)
	// Render draws the mesh with whatever shader, buffers and textures are currently bound.
	Render()
	Terminate()
}

// TextureCache binds cached textures by TextureID. Binding NoTexture is a no-op.
type TextureCache interface {
	BindPS(id TextureID, slot int)
	BindVS(id TextureID, slot int)
}

// TypedConstantBuffer wraps a ConstantBuffer holding a single value of type T.
type TypedConstantBuffer[T any] struct {
	buffer ConstantBuffer
	label  string
}

// constantBufferSize returns the size of T rounded up to a 16-byte boundary, as constant buffers require.
func constantBufferSize[T any]() uint64 {
	var zero T
	size := uint64(unsafe.Sizeof(zero))
	return (size + 15) &^ 15
}

// NewTypedConstantBuffer allocates a constant buffer sized for T.
func NewTypedConstantBuffer[T any](device Device, label string) (*TypedConstantBuffer[T], error) {

	desc := gputypes.BufferDescriptor{
		Label: label,
		Size:  constantBufferSize[T](),
		Usage: gputypes.BufferUsageUniform | gputypes.BufferUsageCopyDst,
	}

	buffer, err := device.NewConstantBuffer(desc)
	if err != nil {
		return nil, fmt.Errorf("constant buffer %q: %w: %w", label, ErrResourceCreation, err)
	}

	Logger().Debug("constant buffer created", "label", label, "size", desc.Size)

	return &TypedConstantBuffer[T]{buffer: buffer, label: label}, nil

}

// Update copies data into the buffer.
func (cb *TypedConstantBuffer[T]) Update(data T) {
	cb.buffer.Update(data)
}

func (cb *TypedConstantBuffer[T]) BindVS(slot int) {
	cb.buffer.BindVS(slot)
}

func (cb *TypedConstantBuffer[T]) BindPS(slot int) {
	cb.buffer.BindPS(slot)
}

// Terminate releases the buffer. It's safe to call more than once.
func (cb *TypedConstantBuffer[T]) Terminate() {
	if cb == nil || cb.buffer == nil {
		return
	}
	cb.buffer.Terminate()
	cb.buffer = nil
	Logger().Debug("constant buffer released", "label", cb.label)
}

// newLinearWrapSampler returns a descriptor for linear filtering with repeating (wrapping) addressing.
func newLinearWrapSampler(label string) gputypes.SamplerDescriptor {
	desc := gputypes.LinearSamplerDescriptor()
	desc.Label = label
	desc.AddressModeU = gputypes.AddressModeRepeat
	desc.AddressModeV = gputypes.AddressModeRepeat
	desc.AddressModeW = gputypes.AddressModeRepeat
	return desc
}

// newRenderTargetDescriptor describes an RGBA8 color target that can be sampled after it is drawn into.
func newRenderTargetDescriptor(label string, width, height uint32) gputypes.TextureDescriptor {
	return gputypes.TextureDescriptor{
		Label:         label,
		Size:          gputypes.NewExtent2D(width, height),
		MipLevelCount: 1,
		SampleCount:   1,
		Dimension:     gputypes.TextureDimension2D,
		Format:        gputypes.TextureFormatRGBA8Unorm,
		Usage:         gputypes.TextureUsageRenderAttachment | gputypes.TextureUsageTextureBinding,
	}
}
