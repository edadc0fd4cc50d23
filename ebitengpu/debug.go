package ebitengpu

import (
	"fmt"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/text"
	"github.com/solarlune/portal3d"
	"golang.org/x/image/font/basicfont"
)

// Size of each portal thumbnail drawn by DebugDrawPortals.
const debugThumbnailSize = 144

// DebugDrawText draws the text given to the screen with a dark outline, using Ebitengine's default 7x13 font.
func (device *Device) DebugDrawText(screen *ebiten.Image, txtStr string, posX, posY, textScale float64, color portal3d.Color) {

	size := text.BoundString(basicfont.Face7x13, txtStr).Size()

	if device.debugTextTexture == nil || size.X > device.debugTextTexture.Bounds().Dx() || size.Y+13 > device.debugTextTexture.Bounds().Dy() {
		if device.debugTextTexture != nil {
			device.debugTextTexture.Deallocate()
		}
		device.debugTextTexture = ebiten.NewImage(max(size.X, 1), size.Y+13)
	}

	device.debugTextTexture.Clear()

	opt := &ebiten.DrawImageOptions{}
	opt.GeoM.Translate(0, 13)
	text.DrawWithOptions(device.debugTextTexture, txtStr, basicfont.Face7x13, opt)

	dr := &ebiten.DrawImageOptions{}
	dr.ColorScale.Scale(0, 0, 0, 1)

	for y := -1; y < 2; y++ {
		for x := -1; x < 2; x++ {
			dr.GeoM.Reset()
			dr.GeoM.Translate(posX+4+float64(x), posY+4+float64(y))
			dr.GeoM.Scale(textScale, textScale)
			screen.DrawImage(device.debugTextTexture, dr)
		}
	}

	dr.ColorScale.Reset()
	dr.ColorScale.ScaleWithColor(color.ToRGBA64())

	dr.GeoM.Reset()
	dr.GeoM.Translate(posX+4, posY+4)
	dr.GeoM.Scale(textScale, textScale)

	screen.DrawImage(device.debugTextTexture, dr)

}

// DebugDrawPortals draws a thumbnail of every portal's offscreen image along the bottom of the screen, labelled with the
// portal's ID and partner, followed by the Device's draw statistics.
func (device *Device) DebugDrawPortals(screen *ebiten.Image, registry *portal3d.PortalRegistry) {

	screenHeight := float64(screen.Bounds().Dy())

	x := 8.0
	y := screenHeight - debugThumbnailSize - 8

	for id, portal := range registry.All() {

		target, ok := portal.RenderTarget().(*RenderTarget)
		if !ok || target.Image() == nil {
			continue
		}

		w, h := target.Size()

		opt := &ebiten.DrawImageOptions{}
		opt.GeoM.Scale(debugThumbnailSize/float64(w), debugThumbnailSize/float64(h))
		opt.GeoM.Translate(x, y)
		screen.DrawImage(target.Image(), opt)

		label := fmt.Sprintf("portal %d", id)
		if partner := registry.Partner(id); partner != portal3d.NoPortal {
			label += fmt.Sprintf(" -> %d", partner)
		}

		device.DebugDrawText(screen, label, x, y-20, 1, portal3d.NewColor(1, 1, 1, 1))

		x += debugThumbnailSize + 8

	}

	stats := device.Stats()

	device.DebugDrawText(screen,
		fmt.Sprintf("FPS: %.1f\nDraw calls: %d\nTriangles: %d\nCulled: %d", ebiten.ActualFPS(), stats.DrawCalls, stats.Triangles, stats.CulledTriangles),
		0, 0, 1, portal3d.NewColor(1, 1, 1, 1),
	)

}
