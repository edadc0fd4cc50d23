package portal3d

import (
	"fmt"

	"github.com/gogpu/gputypes"
)

// Constant buffer and texture slots the standard shader reads from.
const (
	StandardSlotTransform = 0 // vertex
	StandardSlotLight     = 1 // vertex + pixel
	StandardSlotMaterial  = 2 // pixel
	StandardSlotSettings  = 3 // vertex + pixel

	StandardSlotSampler = 0 // pixel

	StandardSlotDiffuseMap = 0 // pixel
	StandardSlotNormalMap  = 1 // pixel
	StandardSlotSpecMap    = 2 // pixel
	StandardSlotBumpMap    = 3 // vertex
)

// TransformData is the per-draw transform block. Matrices are stored transposed (column-major), as the shader reads them.
type TransformData struct {
	WVP          Matrix4
	World        Matrix4
	ViewPosition Vector3
	_            float32
}

// SettingsData holds the texture-map toggles for a batch of draws. It's passed to every Render call rather than stored
// on the effect; a map is only sampled if its toggle is on and the object being drawn actually has that texture.
type SettingsData struct {
	UseDiffuseMap bool    `toml:"use_diffuse_map"`
	UseNormalMap  bool    `toml:"use_normal_map"`
	UseSpecMap    bool    `toml:"use_spec_map"`
	UseBumpMap    bool    `toml:"use_bump_map"`
	BumpWeight    float32 `toml:"bump_weight"`
}

// DefaultSettings returns SettingsData with every map enabled and a bump weight of 1.
func DefaultSettings() SettingsData {
	return SettingsData{
		UseDiffuseMap: true,
		UseNormalMap:  true,
		UseSpecMap:    true,
		UseBumpMap:    true,
		BumpWeight:    1,
	}
}

// SettingsBufferData is the settings block as the shader reads it. Toggles are 0 or 1.
type SettingsBufferData struct {
	UseDiffuseMap int32
	UseNormalMap  int32
	UseSpecMap    int32
	UseBumpMap    int32
	BumpWeight    float32
	_             [3]float32
}

func boolToInt32(b bool) int32 {
	if b {
		return 1
	}
	return 0
}

// For returns the settings block to draw obj with: each toggle is on only if it's on in settings and obj has that map.
func (settings SettingsData) For(obj *RenderObject) SettingsBufferData {
	return SettingsBufferData{
		UseDiffuseMap: boolToInt32(settings.UseDiffuseMap && obj.DiffuseMapID != NoTexture),
		UseNormalMap:  boolToInt32(settings.UseNormalMap && obj.NormalMapID != NoTexture),
		UseSpecMap:    boolToInt32(settings.UseSpecMap && obj.SpecMapID != NoTexture),
		UseBumpMap:    boolToInt32(settings.UseBumpMap && obj.BumpMapID != NoTexture),
		BumpWeight:    settings.BumpWeight,
	}
}

type effectState int

const (
	effectUninitialized effectState = iota
	effectInitialized
	effectActive
	effectTerminated
)

func (state effectState) String() string {
	switch state {
	case effectUninitialized:
		return "uninitialized"
	case effectInitialized:
		return "initialized"
	case effectActive:
		return "active"
	case effectTerminated:
		return "terminated"
	}
	return "unknown"
}

// EffectStats counts the work an effect has done since the last ResetStats call.
type EffectStats struct {
	Draws            int
	TransformUpdates int
	LightUpdates     int
	MaterialUpdates  int
	SettingsUpdates  int
}

// StandardEffect is the main shading pass: it draws RenderObjects and RenderGroups lit by a single DirectionalLight,
// as seen by a Camera.
//
// A StandardEffect must be initialized before use, and every batch of Render calls must be bracketed by Begin and End.
// Breaking either rule, or rendering without a camera or light, panics.
type StandardEffect struct {
	device     Device
	shaderPath string

	shader          Shader
	sampler         Sampler
	transformBuffer *TypedConstantBuffer[TransformData]
	lightBuffer     *TypedConstantBuffer[DirectionalLight]
	materialBuffer  *TypedConstantBuffer[Material]
	settingsBuffer  *TypedConstantBuffer[SettingsBufferData]

	camera *Camera
	light  *DirectionalLight

	state effectState
	stats EffectStats
}

func newShader(device Device, label, path string, format VertexFormat) (Shader, error) {
	shader, err := device.NewShader(ShaderDescription{
		Label:  label,
		Path:   path,
		Format: format,
		Stages: gputypes.ShaderStagesVertexFragment,
	})
	if err != nil {
		return nil, fmt.Errorf("%s shader %q: %w: %w", label, path, ErrShaderCompile, err)
	}
	return shader, nil
}

// Initialize loads the shader at shaderPath and creates the effect's constant buffers and sampler.
func (effect *StandardEffect) Initialize(device Device, shaderPath string) error {

	if effect.state != effectUninitialized && effect.state != effectTerminated {
		panic("Error: StandardEffect.Initialize() called on an effect that is already initialized.")
	}

	effect.device = device
	effect.shaderPath = shaderPath

	var err error

	if effect.shader, err = newShader(device, "standard", shaderPath, VertexFormatStandard); err != nil {
		return err
	}

	if effect.transformBuffer, err = NewTypedConstantBuffer[TransformData](device, "standard transform"); err != nil {
		effect.release()
		return err
	}

	if effect.lightBuffer, err = NewTypedConstantBuffer[DirectionalLight](device, "standard light"); err != nil {
		effect.release()
		return err
	}

	if effect.materialBuffer, err = NewTypedConstantBuffer[Material](device, "standard material"); err != nil {
		effect.release()
		return err
	}

	if effect.settingsBuffer, err = NewTypedConstantBuffer[SettingsBufferData](device, "standard settings"); err != nil {
		effect.release()
		return err
	}

	if effect.sampler, err = device.NewSampler(newLinearWrapSampler("standard sampler")); err != nil {
		effect.release()
		return fmt.Errorf("standard sampler: %w: %w", ErrResourceCreation, err)
	}

	effect.state = effectInitialized

	Logger().Debug("standard effect initialized", "shader", shaderPath)

	return nil

}

// ReloadShader reloads the effect's shader from the path it was initialized with. On failure the previous shader is kept.
func (effect *StandardEffect) ReloadShader() error {

	if effect.state == effectUninitialized || effect.state == effectTerminated {
		panic("Error: StandardEffect.ReloadShader() called on an effect that isn't initialized.")
	}

	shader, err := newShader(effect.device, "standard", effect.shaderPath, VertexFormatStandard)
	if err != nil {
		return err
	}

	effect.shader.Terminate()
	effect.shader = shader

	Logger().Info("standard shader reloaded", "shader", effect.shaderPath)

	return nil

}

func (effect *StandardEffect) release() {
	effect.settingsBuffer.Terminate()
	effect.materialBuffer.Terminate()
	effect.lightBuffer.Terminate()
	effect.transformBuffer.Terminate()
	if effect.sampler != nil {
		effect.sampler.Terminate()
		effect.sampler = nil
	}
	if effect.shader != nil {
		effect.shader.Terminate()
		effect.shader = nil
	}
}

// Terminate releases every resource the effect created. Calling it on an effect that isn't initialized does nothing.
func (effect *StandardEffect) Terminate() {
	if effect.state == effectUninitialized || effect.state == effectTerminated {
		return
	}
	effect.release()
	effect.state = effectTerminated
	Logger().Debug("standard effect terminated")
}

// Begin binds the effect's shader, sampler and constant buffers, opening a batch of Render calls.
func (effect *StandardEffect) Begin() {

	switch effect.state {
	case effectInitialized:
	case effectActive:
		panic("Error: StandardEffect.Begin() called twice without End().")
	default:
		panic(fmt.Sprintf("Error: StandardEffect.Begin() called on an effect that is %s.", effect.state))
	}

	effect.shader.Bind()
	effect.sampler.BindPS(StandardSlotSampler)

	effect.transformBuffer.BindVS(StandardSlotTransform)

	effect.lightBuffer.BindVS(StandardSlotLight)
	effect.lightBuffer.BindPS(StandardSlotLight)

	effect.materialBuffer.BindPS(StandardSlotMaterial)

	effect.settingsBuffer.BindVS(StandardSlotSettings)
	effect.settingsBuffer.BindPS(StandardSlotSettings)

	effect.state = effectActive

}

// End closes a batch of Render calls opened by Begin.
func (effect *StandardEffect) End() {
	if effect.state != effectActive {
		panic("Error: StandardEffect.End() called without Begin().")
	}
	effect.state = effectInitialized
}

// Active returns true between Begin and End.
func (effect *StandardEffect) Active() bool {
	return effect.state == effectActive
}

func (effect *StandardEffect) checkRender(caller string) {
	if effect.state != effectActive {
		panic("Error: StandardEffect." + caller + "() called outside of Begin() / End().")
	}
	if effect.camera == nil {
		panic("Error: StandardEffect." + caller + "() requires a camera; call SetCamera() first.")
	}
	if effect.light == nil {
		panic("Error: StandardEffect." + caller + "() requires a light; call SetDirectionalLight() first.")
	}
}

func (effect *StandardEffect) updateTransform(world Matrix4) {
	final := world.Mult(effect.camera.ViewMatrix()).Mult(effect.camera.ProjectionMatrix())
	effect.transformBuffer.Update(TransformData{
		WVP:          final.Transposed(),
		World:        world.Transposed(),
		ViewPosition: effect.camera.Position(),
	})
	effect.stats.TransformUpdates++
}

func (effect *StandardEffect) updateLight() {
	effect.lightBuffer.Update(*effect.light)
	effect.stats.LightUpdates++
}

func (effect *StandardEffect) updateMaterial(obj *RenderObject) {
	effect.materialBuffer.Update(obj.Material)
	effect.stats.MaterialUpdates++
}

func (effect *StandardEffect) updateSettings(obj *RenderObject, settings SettingsData) {
	effect.settingsBuffer.Update(settings.For(obj))
	effect.stats.SettingsUpdates++
}

func (effect *StandardEffect) draw(obj *RenderObject) {

	if obj.MeshBuffer == nil {
		panic("Error: StandardEffect cannot draw a RenderObject that has no MeshBuffer; was it initialized?")
	}

	textures := effect.device.TextureCache()
	textures.BindPS(obj.DiffuseMapID, StandardSlotDiffuseMap)
	textures.BindPS(obj.NormalMapID, StandardSlotNormalMap)
	textures.BindPS(obj.SpecMapID, StandardSlotSpecMap)
	textures.BindVS(obj.BumpMapID, StandardSlotBumpMap)

	obj.MeshBuffer.Render()
	effect.stats.Draws++

}

// Render draws a single RenderObject with the given settings.
func (effect *StandardEffect) Render(obj *RenderObject, settings SettingsData) {

	effect.checkRender("Render")

	effect.updateSettings(obj, settings)
	effect.updateTransform(obj.Transform.Matrix4())
	effect.updateLight()
	effect.updateMaterial(obj)
	effect.draw(obj)

}

// RenderGroup draws every RenderObject in the group, placed by the group's Transform. The transform and light
// are uploaded once for the whole group; material and settings are uploaded per object.
func (effect *StandardEffect) RenderGroup(group *RenderGroup, settings SettingsData) {

	effect.checkRender("RenderGroup")

	effect.updateTransform(group.Transform.Matrix4())
	effect.updateLight()

	for i := range group.RenderObjects {
		obj := &group.RenderObjects[i]
		effect.updateMaterial(obj)
		effect.updateSettings(obj, settings)
		effect.draw(obj)
	}

}

// SetCamera sets the Camera the effect renders from. The effect keeps the pointer; the Camera must outlive its use.
func (effect *StandardEffect) SetCamera(camera *Camera) {
	effect.camera = camera
}

// Camera returns the Camera the effect currently renders from.
func (effect *StandardEffect) Camera() *Camera {
	return effect.camera
}

// SetDirectionalLight sets the light the effect shades with. The effect keeps the pointer; the light must outlive its use.
func (effect *StandardEffect) SetDirectionalLight(light *DirectionalLight) {
	effect.light = light
}

func (effect *StandardEffect) DirectionalLight() *DirectionalLight {
	return effect.light
}

func (effect *StandardEffect) Stats() EffectStats {
	return effect.stats
}

func (effect *StandardEffect) ResetStats() {
	effect.stats = EffectStats{}
}
