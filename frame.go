package portal3d

// Frame is the per-frame render driver: it draws the main view with a StandardEffect, then runs the full portal protocol
// for every linked portal in a PortalRegistry.
//
// Portal surfaces are not part of Objects; they're drawn only in the portal pass, so a portal's image never
// contains another portal's surface.
type Frame struct {
	Standard *StandardEffect
	Registry *PortalRegistry
	Settings SettingsData
	Objects  []*RenderObject
	Groups   []*RenderGroup
}

// Render draws one frame:
//  1. every object and group through the StandardEffect, from its current camera;
//  2. for each linked portal: UpdatePortalCamera, UpdatePortalUV, then every object and group into the portal's target;
//  3. every linked portal's surface.
func (frame *Frame) Render() {

	frame.Standard.Begin()
	frame.renderScene(frame.Standard.Render, frame.Standard.RenderGroup)
	frame.Standard.End()

	if frame.Registry == nil {
		return
	}

	for _, portal := range frame.Registry.All() {

		if !portal.Linked() {
			continue
		}

		portal.UpdatePortalCamera()
		portal.UpdatePortalUV()

		portal.BeginPortalImageRender()
		frame.renderScene(portal.PortalImageRender, portal.PortalImageRenderGroup)
		portal.EndPortalImageRender()

	}

	for _, portal := range frame.Registry.All() {

		if !portal.Linked() {
			continue
		}

		portal.Begin()
		portal.Render(portal.PortalObject())
		portal.End()

	}

}

func (frame *Frame) renderScene(renderObject func(*RenderObject, SettingsData), renderGroup func(*RenderGroup, SettingsData)) {
	for _, obj := range frame.Objects {
		renderObject(obj, frame.Settings)
	}
	for _, group := range frame.Groups {
		renderGroup(group, frame.Settings)
	}
}
