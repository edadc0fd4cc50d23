package portal3d

import (
	"fmt"

	"github.com/gogpu/gputypes"
)

// fakeDevice records every resource call made through it, so tests can check what the effects bind and upload.
type fakeDevice struct {
	log []string

	width, height float32

	shaderErr  error
	bufferErr  error
	samplerErr error
	targetErr  error
	meshErr    error
	// meshErrAfter makes NewMeshBuffer fail once this many mesh buffers exist; < 0 disables it.
	meshErrAfter int

	shaders     []*fakeShader
	buffers     []*fakeConstantBuffer
	samplers    []*fakeSampler
	targets     []*fakeRenderTarget
	meshBuffers []*fakeMeshBuffer
	textures    *fakeTextureCache
}

func newFakeDevice() *fakeDevice {
	dev := &fakeDevice{width: 800, height: 600, meshErrAfter: -1}
	dev.textures = &fakeTextureCache{dev: dev}
	return dev
}

func (dev *fakeDevice) record(format string, args ...any) {
	dev.log = append(dev.log, fmt.Sprintf(format, args...))
}

func (dev *fakeDevice) NewShader(desc ShaderDescription) (Shader, error) {
	if dev.shaderErr != nil {
		return nil, dev.shaderErr
	}
	s := &fakeShader{dev: dev, desc: desc}
	dev.shaders = append(dev.shaders, s)
	return s, nil
}

func (dev *fakeDevice) NewConstantBuffer(desc gputypes.BufferDescriptor) (ConstantBuffer, error) {
	if dev.bufferErr != nil {
		return nil, dev.bufferErr
	}
	b := &fakeConstantBuffer{dev: dev, desc: desc}
	dev.buffers = append(dev.buffers, b)
	return b, nil
}

func (dev *fakeDevice) NewSampler(desc gputypes.SamplerDescriptor) (Sampler, error) {
	if dev.samplerErr != nil {
		return nil, dev.samplerErr
	}
	s := &fakeSampler{dev: dev, desc: desc}
	dev.samplers = append(dev.samplers, s)
	return s, nil
}

func (dev *fakeDevice) NewRenderTarget(desc gputypes.TextureDescriptor) (RenderTarget, error) {
	if dev.targetErr != nil {
		return nil, dev.targetErr
	}
	t := &fakeRenderTarget{dev: dev, desc: desc}
	dev.targets = append(dev.targets, t)
	return t, nil
}

func (dev *fakeDevice) NewMeshBuffer(mesh MeshData) (MeshBuffer, error) {
	if dev.meshErr != nil {
		return nil, dev.meshErr
	}
	if dev.meshErrAfter >= 0 && len(dev.meshBuffers) >= dev.meshErrAfter {
		return nil, fmt.Errorf("out of vertex memory")
	}
	m := &fakeMeshBuffer{dev: dev, id: len(dev.meshBuffers), vertexCount: mesh.VertexCount(), last: mesh}
	dev.meshBuffers = append(dev.meshBuffers, m)
	return m, nil
}

func (dev *fakeDevice) TextureCache() TextureCache {
	return dev.textures
}

func (dev *fakeDevice) BackBufferSize() (float32, float32) {
	return dev.width, dev.height
}

func (dev *fakeDevice) buffer(label string) *fakeConstantBuffer {
	for _, b := range dev.buffers {
		if b.desc.Label == label {
			return b
		}
	}
	panic("no constant buffer labelled " + label)
}

type fakeShader struct {
	dev        *fakeDevice
	desc       ShaderDescription
	terminated bool
}

func (s *fakeShader) Bind()      { s.dev.record("shader %s bind", s.desc.Label) }
func (s *fakeShader) Terminate() { s.terminated = true }

type fakeConstantBuffer struct {
	dev        *fakeDevice
	desc       gputypes.BufferDescriptor
	updates    int
	last       any
	terminated bool
}

func (b *fakeConstantBuffer) Update(data any) {
	b.updates++
	b.last = data
	b.dev.record("%s update", b.desc.Label)
}

func (b *fakeConstantBuffer) BindVS(slot int) { b.dev.record("%s VS%d", b.desc.Label, slot) }
func (b *fakeConstantBuffer) BindPS(slot int) { b.dev.record("%s PS%d", b.desc.Label, slot) }
func (b *fakeConstantBuffer) Terminate()      { b.terminated = true }

type fakeSampler struct {
	dev        *fakeDevice
	desc       gputypes.SamplerDescriptor
	terminated bool
}

func (s *fakeSampler) BindVS(slot int) { s.dev.record("%s VS%d", s.desc.Label, slot) }
func (s *fakeSampler) BindPS(slot int) { s.dev.record("%s PS%d", s.desc.Label, slot) }
func (s *fakeSampler) Terminate()      { s.terminated = true }

type fakeRenderTarget struct {
	dev        *fakeDevice
	desc       gputypes.TextureDescriptor
	begins     int
	ends       int
	terminated bool
}

func (t *fakeRenderTarget) BeginRender() {
	t.begins++
	t.dev.record("%s begin", t.desc.Label)
}

func (t *fakeRenderTarget) EndRender() {
	t.ends++
	t.dev.record("%s end", t.desc.Label)
}

func (t *fakeRenderTarget) BindPS(slot int) { t.dev.record("%s PS%d", t.desc.Label, slot) }

func (t *fakeRenderTarget) Size() (int, int) {
	return int(t.desc.Size.Width), int(t.desc.Size.Height)
}

func (t *fakeRenderTarget) Terminate() { t.terminated = true }

type fakeMeshBuffer struct {
	dev         *fakeDevice
	id          int
	vertexCount int
	last        MeshData
	updates     int
	renders     int
	terminated  int
}

func (m *fakeMeshBuffer) Update(mesh MeshData) {
	m.updates++
	m.last = mesh
	m.dev.record("mesh %d update", m.id)
}

func (m *fakeMeshBuffer) Render() {
	m.renders++
	m.dev.record("mesh %d render", m.id)
}

func (m *fakeMeshBuffer) Terminate() { m.terminated++ }

type fakeTextureCache struct {
	dev *fakeDevice
}

func (tc *fakeTextureCache) BindPS(id TextureID, slot int) {
	if id == NoTexture {
		return
	}
	tc.dev.record("texture %d PS%d", id, slot)
}

func (tc *fakeTextureCache) BindVS(id TextureID, slot int) {
	if id == NoTexture {
		return
	}
	tc.dev.record("texture %d VS%d", id, slot)
}
