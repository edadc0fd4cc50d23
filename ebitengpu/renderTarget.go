package ebitengpu

import (
	"fmt"

	"github.com/gogpu/gputypes"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/solarlune/portal3d"
)

// RenderTarget is an offscreen *ebiten.Image that MeshBuffers draw into between BeginRender and EndRender.
type RenderTarget struct {
	device *Device
	desc   gputypes.TextureDescriptor
	image  *ebiten.Image
	tex    *texture
}

func validateRenderTarget(desc gputypes.TextureDescriptor) error {

	if desc.Format != gputypes.TextureFormatRGBA8Unorm {
		return fmt.Errorf("render target %q: unsupported format %s", desc.Label, desc.Format)
	}

	if desc.Dimension != gputypes.TextureDimension2D {
		return fmt.Errorf("render target %q: unsupported dimension %s", desc.Label, desc.Dimension)
	}

	if desc.Usage&gputypes.TextureUsageRenderAttachment == 0 {
		return fmt.Errorf("render target %q: render attachment usage is required", desc.Label)
	}

	w, h := desc.Size.Width, desc.Size.Height

	if w == 0 || h == 0 || w > maxTargetSize || h > maxTargetSize {
		return fmt.Errorf("render target %q: size %dx%d is outside of 1x1 - %dx%d", desc.Label, w, h, maxTargetSize, maxTargetSize)
	}

	return nil

}

func newRenderTarget(device *Device, desc gputypes.TextureDescriptor) (*RenderTarget, error) {

	if err := validateRenderTarget(desc); err != nil {
		return nil, err
	}

	img := ebiten.NewImage(int(desc.Size.Width), int(desc.Size.Height))

	portal3d.Logger().Debug("ebitengpu: render target created", "label", desc.Label, "width", desc.Size.Width, "height", desc.Size.Height)

	return &RenderTarget{
		device: device,
		desc:   desc,
		image:  img,
		tex:    &texture{img: img},
	}, nil

}

// BeginRender clears the RenderTarget and makes it the destination of subsequent draws.
func (target *RenderTarget) BeginRender() {
	if target.image == nil {
		panic("Error: ebitengpu RenderTarget.BeginRender() called on a terminated render target.")
	}
	target.image.Clear()
	target.device.pushDestination(target.image)
}

func (target *RenderTarget) EndRender() {
	target.device.popDestination(target.image)
}

func (target *RenderTarget) BindPS(slot int) {
	checkSlot("a render target", slot)
	target.device.psTextures[slot] = target.tex
}

func (target *RenderTarget) Size() (int, int) {
	return int(target.desc.Size.Width), int(target.desc.Size.Height)
}

// Image returns the RenderTarget's image, for drawing it elsewhere (e.g. in a debug view).
func (target *RenderTarget) Image() *ebiten.Image {
	return target.image
}

func (target *RenderTarget) Label() string {
	return target.desc.Label
}

func (target *RenderTarget) Terminate() {
	if target.image == nil {
		return
	}
	for i := range MaxSlots {
		if target.device.psTextures[i] == target.tex {
			target.device.psTextures[i] = nil
		}
	}
	target.image.Deallocate()
	target.image = nil
	target.tex = nil
	portal3d.Logger().Debug("ebitengpu: render target released", "label", target.desc.Label)
}
