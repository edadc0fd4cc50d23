package ebitengpu

import (
	"github.com/gogpu/gputypes"
)

// ConstantBuffer holds the last value it was updated with. The CPU vertex stage reads it back by type when a
// MeshBuffer renders, so nothing is serialized.
type ConstantBuffer struct {
	device     *Device
	desc       gputypes.BufferDescriptor
	data       any
	terminated bool
}

func (buffer *ConstantBuffer) Update(data any) {
	if buffer.terminated {
		panic("Error: ebitengpu ConstantBuffer.Update() called on a terminated buffer.")
	}
	buffer.data = data
}

// Data returns the value the buffer was last updated with, or nil.
func (buffer *ConstantBuffer) Data() any {
	return buffer.data
}

func (buffer *ConstantBuffer) BindVS(slot int) {
	checkSlot("a constant buffer", slot)
	buffer.device.vsBuffers[slot] = buffer
}

func (buffer *ConstantBuffer) BindPS(slot int) {
	checkSlot("a constant buffer", slot)
	buffer.device.psBuffers[slot] = buffer
}

func (buffer *ConstantBuffer) Terminate() {
	if buffer.terminated {
		return
	}
	buffer.terminated = true
	buffer.data = nil
	for i := range MaxSlots {
		if buffer.device.vsBuffers[i] == buffer {
			buffer.device.vsBuffers[i] = nil
		}
		if buffer.device.psBuffers[i] == buffer {
			buffer.device.psBuffers[i] = nil
		}
	}
}

// bufferData returns the value held by the constant buffer bound to the slot, if it's of type T.
func bufferData[T any](buffers *[MaxSlots]*ConstantBuffer, slot int) (T, bool) {
	var zero T
	buffer := buffers[slot]
	if buffer == nil {
		return zero, false
	}
	data, ok := buffer.data.(T)
	return data, ok
}

// Sampler maps a sampler descriptor to the Wrap and Linear uniforms the built-in shaders understand.
type Sampler struct {
	device *Device
	desc   gputypes.SamplerDescriptor
}

func (sampler *Sampler) BindVS(slot int) {
	checkSlot("a sampler", slot)
	sampler.device.vsSamplers[slot] = sampler
}

func (sampler *Sampler) BindPS(slot int) {
	checkSlot("a sampler", slot)
	sampler.device.psSamplers[slot] = sampler
}

func (sampler *Sampler) Terminate() {
	for i := range MaxSlots {
		if sampler.device.vsSamplers[i] == sampler {
			sampler.device.vsSamplers[i] = nil
		}
		if sampler.device.psSamplers[i] == sampler {
			sampler.device.psSamplers[i] = nil
		}
	}
}

// Wraps returns true if the sampler repeats texture coordinates outside of 0 - 1.
func (sampler *Sampler) Wraps() bool {
	return sampler != nil && sampler.desc.AddressModeU == gputypes.AddressModeRepeat
}

// Linear returns true if the sampler filters bilinearly.
func (sampler *Sampler) Linear() bool {
	return sampler != nil && sampler.desc.MagFilter == gputypes.FilterModeLinear
}

func (sampler *Sampler) uniforms() map[string]any {
	return map[string]any{
		"Wrap":   boolToInt(sampler.Wraps()),
		"Linear": boolToInt(sampler.Linear()),
	}
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
