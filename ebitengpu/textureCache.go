package ebitengpu

import (
	"fmt"
	"image"
	"image/color"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"os"
	"path/filepath"

	"github.com/chewxy/math32"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/solarlune/portal3d"
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/webp"
)

// TextureCache holds the textures the Device draws with, keyed by TextureID. It implements both portal3d.TextureCache
// (binding) and portal3d.TextureLoader (loading), so it can be handed straight to the GLTF loader.
//
// Every texture keeps its decoded source image as well as the GPU copy, since normal, specular and bump maps are
// applied by the CPU vertex stage.
type TextureCache struct {
	device   *Device
	textures map[portal3d.TextureID]*texture
	names    map[portal3d.TextureID]string
	byName   map[string]portal3d.TextureID
	next     portal3d.TextureID
	warned   map[portal3d.TextureID]bool
}

var _ portal3d.TextureCache = (*TextureCache)(nil)
var _ portal3d.TextureLoader = (*TextureCache)(nil)

func newTextureCache(device *Device) *TextureCache {
	return &TextureCache{
		device:   device,
		textures: map[portal3d.TextureID]*texture{},
		names:    map[portal3d.TextureID]string{},
		byName:   map[string]portal3d.TextureID{},
		warned:   map[portal3d.TextureID]bool{},
	}
}

// LoadTexture decodes the PNG, JPEG, GIF, BMP or WebP file at path. A path that was already loaded returns the
// same TextureID without reading the file again.
func (cache *TextureCache) LoadTexture(path string) (portal3d.TextureID, error) {

	key := filepath.Clean(path)

	if id, ok := cache.byName[key]; ok {
		return id, nil
	}

	file, err := os.Open(path)
	if err != nil {
		return portal3d.NoTexture, fmt.Errorf("loading texture: %w", err)
	}

	defer file.Close()

	img, format, err := image.Decode(file)
	if err != nil {
		return portal3d.NoTexture, fmt.Errorf("decoding texture %q: %w", path, err)
	}

	id := cache.add(key, img)

	portal3d.Logger().Debug("ebitengpu: texture loaded", "path", path, "format", format, "id", id)

	return id, nil

}

// AddImage adds an already-decoded image under name. Adding a name twice replaces nothing; the first TextureID is returned.
func (cache *TextureCache) AddImage(name string, img image.Image) (portal3d.TextureID, error) {

	if img == nil {
		return portal3d.NoTexture, fmt.Errorf("texture %q: nil image", name)
	}

	if id, ok := cache.byName[name]; ok {
		return id, nil
	}

	return cache.add(name, img), nil

}

func (cache *TextureCache) add(name string, img image.Image) portal3d.TextureID {

	cache.next++
	id := cache.next

	cache.textures[id] = &texture{img: ebiten.NewImageFromImage(img), src: img}
	cache.names[id] = name
	cache.byName[name] = id

	return id

}

// Image returns the GPU image for the TextureID given, or nil if there's no such texture.
func (cache *TextureCache) Image(id portal3d.TextureID) *ebiten.Image {
	if tex, ok := cache.textures[id]; ok {
		return tex.img
	}
	return nil
}

// Name returns the path or name the texture was added under.
func (cache *TextureCache) Name(id portal3d.TextureID) string {
	return cache.names[id]
}

func (cache *TextureCache) Len() int {
	return len(cache.textures)
}

// Remove deallocates the texture and forgets its TextureID. TextureIDs are never reused.
func (cache *TextureCache) Remove(id portal3d.TextureID) {

	tex, ok := cache.textures[id]
	if !ok {
		return
	}

	for i := range MaxSlots {
		if cache.device.psTextures[i] == tex {
			cache.device.psTextures[i] = nil
		}
		if cache.device.vsTextures[i] == tex {
			cache.device.vsTextures[i] = nil
		}
	}

	tex.img.Deallocate()

	delete(cache.byName, cache.names[id])
	delete(cache.names, id)
	delete(cache.textures, id)

}

func (cache *TextureCache) lookup(id portal3d.TextureID) *texture {
	tex, ok := cache.textures[id]
	if !ok && !cache.warned[id] {
		portal3d.Logger().Warn("ebitengpu: binding unknown texture", "id", id)
		cache.warned[id] = true
	}
	return tex
}

// BindPS binds the texture to a pixel stage slot. Binding NoTexture does nothing, leaving the slot as it was.
func (cache *TextureCache) BindPS(id portal3d.TextureID, slot int) {
	if id == portal3d.NoTexture {
		return
	}
	checkSlot("a texture", slot)
	cache.device.psTextures[slot] = cache.lookup(id)
}

// BindVS binds the texture to a vertex stage slot. Binding NoTexture does nothing, leaving the slot as it was.
func (cache *TextureCache) BindVS(id portal3d.TextureID, slot int) {
	if id == portal3d.NoTexture {
		return
	}
	checkSlot("a texture", slot)
	cache.device.vsTextures[slot] = cache.lookup(id)
}

// sampleImage returns the color of the pixel at texture coordinate (u, v) of src, with coordinates wrapping around
// outside of 0 - 1. Colors are returned with straight alpha.
func sampleImage(src image.Image, u, v float32) portal3d.Color {

	bounds := src.Bounds()
	w, h := bounds.Dx(), bounds.Dy()

	if w == 0 || h == 0 {
		return portal3d.NewColor(1, 1, 1, 1)
	}

	u -= math32.Floor(u)
	v -= math32.Floor(v)

	x := min(int(u*float32(w)), w-1)
	y := min(int(v*float32(h)), h-1)

	c := color.NRGBAModel.Convert(src.At(bounds.Min.X+x, bounds.Min.Y+y)).(color.NRGBA)

	return portal3d.NewColorFromRGBA8(c.R, c.G, c.B, c.A)

}

// sampleNormal decodes a tangent-space normal from a normal map texel; 0.5 gray is straight out of the surface.
func sampleNormal(src image.Image, u, v float32) portal3d.Vector3 {
	c := sampleImage(src, u, v)
	return portal3d.Vector3{X: c.R*2 - 1, Y: c.G*2 - 1, Z: c.B*2 - 1}
}
