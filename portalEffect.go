package portal3d

import (
	"fmt"
)

// DefaultPortalTargetResolution is the width and height, in pixels, of a portal's offscreen render target.
const DefaultPortalTargetResolution = 4096

// Portal camera clip planes.
const (
	portalCameraNear = 0.1
	portalCameraFar  = 1000
)

// Slots the portal shader reads from.
const (
	PortalSlotTransform = 0 // vertex
	PortalSlotTarget    = 0 // pixel
	PortalSlotSampler   = 0 // pixel
)

// PortalOptions configures a PortalEffect.
type PortalOptions struct {
	// ShaderPath is the portal shader to load.
	ShaderPath string `toml:"shader"`
	// TargetResolution is the width and height of the offscreen render target. 0 means DefaultPortalTargetResolution.
	TargetResolution int `toml:"target_resolution"`
	// Size is the width and height the portal camera is given every time it's updated. 0 means 1.
	Size float32 `toml:"size"`
}

// PortalTransformData is the transform block the portal shader reads. WVP is stored transposed.
type PortalTransformData struct {
	WVP            Matrix4
	PortalPosition Vector3
	_              float32
}

// PortalEffect renders a portal: a surface that shows the scene as seen from its linked partner portal.
//
// Each frame, in order:
//  1. UpdatePortalCamera places the portal's own camera relative to the partner portal, mirroring the game camera's
//     pose relative to this portal.
//  2. UpdatePortalUV reprojects the partner's portal mesh through the game camera to recompute this portal's texture
//     coordinates, and uploads them.
//  3. BeginPortalImageRender, PortalImageRender / PortalImageRenderGroup, EndPortalImageRender draw the scene from
//     the portal camera into the portal's offscreen render target, using the shared StandardEffect.
//  4. Begin, Render, End draw the portal surface itself, sampling the offscreen render target.
//
// The camera placement is an approximation: it mirrors the viewer's offset through a vertical axis rather than
// clipping to the portal's frustum, and assumes both portals stand upright.
//
// Using a PortalEffect without a game camera, portal object, StandardEffect or linked partner panics.
type PortalEffect struct {
	device  Device
	options PortalOptions

	shader          Shader
	transformBuffer *TypedConstantBuffer[PortalTransformData]
	sampler         Sampler
	target          RenderTarget

	portalCamera Camera
	portalMesh   MeshPX
	size         float32

	gameCamera   *Camera
	portalObject *RenderObject
	standard     *StandardEffect

	registry *PortalRegistry
	id       PortalID

	state          effectState
	imageRendering bool
}

// Initialize loads the portal shader, creates the transform buffer, sampler and offscreen render target, and keeps a
// private copy of portalMesh whose texture coordinates UpdatePortalUV rewrites.
func (effect *PortalEffect) Initialize(device Device, portalMesh MeshPX, options PortalOptions) error {

	if effect.state != effectUninitialized && effect.state != effectTerminated {
		panic("Error: PortalEffect.Initialize() called on an effect that is already initialized.")
	}

	if options.TargetResolution <= 0 {
		options.TargetResolution = DefaultPortalTargetResolution
	}

	if options.Size <= 0 {
		options.Size = 1
	}

	effect.device = device
	effect.options = options
	effect.size = options.Size
	effect.portalMesh = portalMesh.Clone()

	effect.portalCamera = *NewCamera(options.Size, options.Size)
	effect.portalCamera.SetNearPlane(portalCameraNear)
	effect.portalCamera.SetFarPlane(portalCameraFar)
	effect.portalCamera.SetMode(ProjectionPerspective)

	var err error

	if effect.shader, err = newShader(device, "portal", options.ShaderPath, VertexFormatPX); err != nil {
		return err
	}

	if effect.transformBuffer, err = NewTypedConstantBuffer[PortalTransformData](device, "portal transform"); err != nil {
		effect.release()
		return err
	}

	if effect.sampler, err = device.NewSampler(newLinearWrapSampler("portal sampler")); err != nil {
		effect.release()
		return fmt.Errorf("portal sampler: %w: %w", ErrResourceCreation, err)
	}

	res := uint32(options.TargetResolution)
	if effect.target, err = device.NewRenderTarget(newRenderTargetDescriptor("portal target", res, res)); err != nil {
		effect.release()
		return fmt.Errorf("portal render target (%dx%d): %w: %w", res, res, ErrResourceCreation, err)
	}

	effect.state = effectInitialized

	Logger().Debug("portal effect initialized", "shader", options.ShaderPath, "resolution", options.TargetResolution, "vertices", len(effect.portalMesh.Vertices))

	return nil

}

func (effect *PortalEffect) release() {
	if effect.target != nil {
		effect.target.Terminate()
		effect.target = nil
	}
	if effect.sampler != nil {
		effect.sampler.Terminate()
		effect.sampler = nil
	}
	effect.transformBuffer.Terminate()
	if effect.shader != nil {
		effect.shader.Terminate()
		effect.shader = nil
	}
}

// Terminate releases every resource the effect created. Calling it on an effect that isn't initialized does nothing.
func (effect *PortalEffect) Terminate() {
	if effect.state == effectUninitialized || effect.state == effectTerminated {
		return
	}
	effect.release()
	effect.state = effectTerminated
	Logger().Debug("portal effect terminated", "id", int(effect.id))
}

// ReloadShader reloads the portal shader from the path it was initialized with. On failure the previous shader is kept.
func (effect *PortalEffect) ReloadShader() error {

	if effect.state == effectUninitialized || effect.state == effectTerminated {
		panic("Error: PortalEffect.ReloadShader() called on an effect that isn't initialized.")
	}

	shader, err := newShader(effect.device, "portal", effect.options.ShaderPath, VertexFormatPX)
	if err != nil {
		return err
	}

	effect.shader.Terminate()
	effect.shader = shader

	return nil

}

// SetGameCamera sets the main camera the scene is viewed through. The effect keeps the pointer.
func (effect *PortalEffect) SetGameCamera(camera *Camera) {
	effect.gameCamera = camera
}

// SetPortalObject sets the RenderObject that is this portal's surface in the main scene. Its MeshBuffer should have
// been created from PortalMesh(), as UpdatePortalUV uploads that mesh into it. The effect keeps the pointer.
func (effect *PortalEffect) SetPortalObject(obj *RenderObject) {
	effect.portalObject = obj
}

// SetStandardEffect sets the StandardEffect used to draw the scene into the portal's render target.
func (effect *PortalEffect) SetStandardEffect(standard *StandardEffect) {
	effect.standard = standard
}

// SetSize sets the width and height given to the portal camera.
func (effect *PortalEffect) SetSize(size float32) {
	effect.size = size
}

func (effect *PortalEffect) Size() float32 {
	return effect.size
}

// ID returns the portal's PortalID, or NoPortal if it hasn't been added to a PortalRegistry.
func (effect *PortalEffect) ID() PortalID {
	if effect.registry == nil {
		return NoPortal
	}
	return effect.id
}

// Linked returns true if the portal is registered and linked to a partner.
func (effect *PortalEffect) Linked() bool {
	return effect.registry != nil && effect.registry.Linked(effect.id)
}

// PortalCamera returns the camera the portal's image is rendered from.
func (effect *PortalEffect) PortalCamera() *Camera {
	return &effect.portalCamera
}

// PortalObject returns the portal's surface RenderObject.
func (effect *PortalEffect) PortalObject() *RenderObject {
	return effect.portalObject
}

// PortalMesh returns the portal's mesh, including the texture coordinates computed by the last UpdatePortalUV call.
// The returned MeshPX shares its storage with the effect.
func (effect *PortalEffect) PortalMesh() MeshPX {
	return effect.portalMesh
}

// RenderTarget returns the offscreen target the portal's image is drawn into.
func (effect *PortalEffect) RenderTarget() RenderTarget {
	return effect.target
}

func (effect *PortalEffect) partner(caller string) *PortalEffect {
	if effect.registry == nil {
		panic("Error: PortalEffect." + caller + "() requires the portal to be added to a PortalRegistry and linked.")
	}
	partner := effect.registry.Get(effect.registry.Partner(effect.id))
	if partner == nil {
		panic("Error: PortalEffect." + caller + "() requires a linked portal; call PortalRegistry.Link() first.")
	}
	return partner
}

func (effect *PortalEffect) requireGameCamera(caller string) *Camera {
	if effect.gameCamera == nil {
		panic("Error: PortalEffect." + caller + "() requires a game camera; call SetGameCamera() first.")
	}
	return effect.gameCamera
}

func (effect *PortalEffect) requirePortalObject(caller string) *RenderObject {
	if effect.portalObject == nil {
		panic("Error: PortalEffect." + caller + "() requires a portal object; call SetPortalObject() first.")
	}
	return effect.portalObject
}

func (effect *PortalEffect) requireStandardEffect(caller string) *StandardEffect {
	if effect.standard == nil {
		panic("Error: PortalEffect." + caller + "() requires a StandardEffect; call SetStandardEffect() first.")
	}
	return effect.standard
}

// UpdatePortalCamera places the portal camera so that looking through this portal shows what lies past the linked
// portal. The camera looks along the game camera's direction mirrored through the vertical axis (X and Z negated),
// and sits at the linked portal's position plus the game camera's offset from this portal, mirrored the same way,
// at the game camera's height. The portal camera takes the game camera's field of view and aspect ratio, so the
// portal image lines up with the coordinates UpdatePortalUV computes through the game camera. Calling it again with
// nothing changed gives the same pose.
func (effect *PortalEffect) UpdatePortalCamera() {

	game := effect.requireGameCamera("UpdatePortalCamera")
	this := effect.requirePortalObject("UpdatePortalCamera")
	linked := effect.partner("UpdatePortalCamera").requirePortalObject("UpdatePortalCamera")

	direction := game.Direction().MirrorXZ().Unit()

	offset := game.Position().Sub(this.Transform.Position).MirrorXZ()
	position := linked.Transform.Position.Add(offset).SetY(game.Position().Y)

	effect.portalCamera.SetPosition(position)
	effect.portalCamera.SetDirection(direction)
	effect.portalCamera.SetSize(effect.size, effect.size)
	effect.portalCamera.SetFieldOfView(game.FieldOfView())
	effect.portalCamera.SetAspectRatio(game.AspectRatio())

}

// UpdatePortalUV recomputes the texture coordinates of this portal's mesh so that its surface samples the portal image
// where the linked portal's mesh appears on screen. Each linked vertex position is taken through this portal's world
// transform and the game camera's view and projection into pixel coordinates on the back buffer (Y down), then divided by
// the back buffer size. Vertices are matched by index, so both meshes must have the same number of vertices; a mismatch
// panics. The results aren't clamped: vertices outside the view give coordinates outside [0, 1].
func (effect *PortalEffect) UpdatePortalUV() {

	game := effect.requireGameCamera("UpdatePortalUV")
	this := effect.requirePortalObject("UpdatePortalUV")
	linkedMesh := effect.partner("UpdatePortalUV").portalMesh

	if len(linkedMesh.Vertices) != len(effect.portalMesh.Vertices) {
		panic(fmt.Sprintf("Error: PortalEffect.UpdatePortalUV() requires linked portal meshes with matching vertex counts (this: %d, linked: %d).",
			len(effect.portalMesh.Vertices), len(linkedMesh.Vertices)))
	}

	width, height := effect.device.BackBufferSize()

	final := this.Transform.Matrix4().
		Mult(game.ViewMatrix()).
		Mult(game.ProjectionMatrix()).
		Mult(NewScreenSpaceMatrix(width, height))

	for i, linkedVertex := range linkedMesh.Vertices {
		screen := final.MultVecW(linkedVertex.Position)
		if screen.W == 0 {
			Logger().Warn("portal vertex projects to infinity", "portal", int(effect.id), "vertex", i)
		}
		effect.portalMesh.Vertices[i].UV = Vector2{
			X: (screen.X / screen.W) / width,
			Y: (screen.Y / screen.W) / height,
		}
	}

	if this.MeshBuffer != nil {
		this.MeshBuffer.Update(effect.portalMesh)
	}

}

// BeginPortalImageRender makes the portal's render target the draw destination, switches the shared StandardEffect to the
// portal camera and begins a StandardEffect batch.
func (effect *PortalEffect) BeginPortalImageRender() {

	standard := effect.requireStandardEffect("BeginPortalImageRender")
	effect.requireGameCamera("BeginPortalImageRender")
	effect.requirePortalObject("BeginPortalImageRender")
	effect.partner("BeginPortalImageRender")

	if effect.imageRendering {
		panic("Error: PortalEffect.BeginPortalImageRender() called twice without EndPortalImageRender().")
	}

	effect.target.BeginRender()
	standard.SetCamera(&effect.portalCamera)
	standard.Begin()

	effect.imageRendering = true

}

func (effect *PortalEffect) checkImageRender(caller string) *StandardEffect {
	if !effect.imageRendering {
		panic("Error: PortalEffect." + caller + "() called outside of BeginPortalImageRender() / EndPortalImageRender().")
	}
	return effect.standard
}

// PortalImageRender draws obj into the portal's render target.
func (effect *PortalEffect) PortalImageRender(obj *RenderObject, settings SettingsData) {
	standard := effect.checkImageRender("PortalImageRender")
	effect.partner("PortalImageRender")
	standard.Render(obj, settings)
}

// PortalImageRenderGroup draws group into the portal's render target.
func (effect *PortalEffect) PortalImageRenderGroup(group *RenderGroup, settings SettingsData) {
	standard := effect.checkImageRender("PortalImageRenderGroup")
	effect.partner("PortalImageRenderGroup")
	standard.RenderGroup(group, settings)
}

// EndPortalImageRender ends the StandardEffect batch, restores the previous draw destination and switches the
// StandardEffect back to the game camera. The destination and camera are restored even if ending the batch panics.
func (effect *PortalEffect) EndPortalImageRender() {

	standard := effect.checkImageRender("EndPortalImageRender")

	defer func() {
		effect.target.EndRender()
		standard.SetCamera(effect.gameCamera)
		effect.imageRendering = false
	}()

	standard.End()

}

// Begin binds the portal shader, transform buffer, render target and sampler, opening a batch of portal surface draws.
func (effect *PortalEffect) Begin() {

	switch effect.state {
	case effectInitialized:
	case effectActive:
		panic("Error: PortalEffect.Begin() called twice without End().")
	default:
		panic(fmt.Sprintf("Error: PortalEffect.Begin() called on an effect that is %s.", effect.state))
	}

	effect.shader.Bind()
	effect.transformBuffer.BindVS(PortalSlotTransform)
	effect.target.BindPS(PortalSlotTarget)
	effect.sampler.BindPS(PortalSlotSampler)

	effect.state = effectActive

}

// Render draws obj (normally the portal's own surface) as seen by the game camera, textured with the portal image.
func (effect *PortalEffect) Render(obj *RenderObject) {

	if effect.state != effectActive {
		panic("Error: PortalEffect.Render() called outside of Begin() / End().")
	}

	game := effect.requireGameCamera("Render")
	portal := effect.requirePortalObject("Render")
	effect.partner("Render")

	if obj.MeshBuffer == nil {
		panic("Error: PortalEffect cannot draw a RenderObject that has no MeshBuffer; was it initialized?")
	}

	world := obj.Transform.Matrix4()

	effect.transformBuffer.Update(PortalTransformData{
		WVP:            world.Mult(game.ViewMatrix()).Mult(game.ProjectionMatrix()).Transposed(),
		PortalPosition: portal.Transform.Position,
	})

	obj.MeshBuffer.Render()

}

// End closes a batch of portal surface draws.
func (effect *PortalEffect) End() {
	if effect.state != effectActive {
		panic("Error: PortalEffect.End() called without Begin().")
	}
	effect.state = effectInitialized
}
