package portal3d

import (
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFrameRender(t *testing.T) {

	fx := newPortalFixture(t, NewQuadPX(2, 2), NewQuadPX(2, 2))
	fx.gameCamera.SetPosition(Vector3{1, 2, -3})
	fx.gameCamera.SetDirection(Vector3{0.3, -0.1, 1})

	cube := newTestRenderObject(t, fx.dev, NewCube(1))

	model := NewModel("pair")
	model.AddPart("left", NewCube(1))
	model.AddPart("right", NewCube(1))
	group := &RenderGroup{}
	require.NoError(t, group.Initialize(fx.dev, model))

	frame := &Frame{
		Standard: fx.standard,
		Registry: fx.registry,
		Settings: DefaultSettings(),
		Objects:  []*RenderObject{cube},
		Groups:   []*RenderGroup{group},
	}

	fx.dev.log = nil
	frame.Render()

	// Each portal's camera sits at its partner plus the mirrored game camera offset, at the game camera's height.
	expected := fx.objB.Transform.Position.Add(fx.gameCamera.Position().Sub(fx.objA.Transform.Position).MirrorXZ()).SetY(fx.gameCamera.Position().Y)
	assert.Equal(t, expected, fx.a.PortalCamera().Position())
	assertVector3InDelta(t, Vector3{9, 2, 3}, fx.a.PortalCamera().Position(), 1e-5)

	assert.Same(t, fx.gameCamera, fx.standard.Camera())
	assert.False(t, fx.standard.Active())

	for i, target := range fx.dev.targets {
		assert.Equal(t, 1, target.begins, "target %d", i)
		assert.Equal(t, 1, target.ends, "target %d", i)
	}

	// Portal surfaces: UVs uploaded once, drawn once, and never part of a portal's own image.
	for _, mb := range fx.dev.meshBuffers[:2] {
		assert.Equal(t, 1, mb.updates)
		assert.Equal(t, 1, mb.renders)
	}

	// The scene is drawn three times: once on screen and once into each portal.
	for _, mb := range fx.dev.meshBuffers[2:] {
		assert.Equal(t, 3, mb.renders)
	}

	firstTarget := slices.Index(fx.dev.log, "portal target begin")
	firstSurface := slices.Index(fx.dev.log, "shader portal bind")
	require.Positive(t, firstTarget)
	require.Positive(t, firstSurface)
	assert.Greater(t, firstTarget, slices.Index(fx.dev.log, "mesh 2 render"), "the main view is drawn first")
	assert.Greater(t, firstSurface, slices.Index(fx.dev.log, "portal target end"), "portal surfaces are drawn after the portal images")

}

func TestFrameRenderSkipsUnlinkedPortals(t *testing.T) {

	fx := newPortalFixture(t, NewQuadPX(2, 2), NewQuadPX(2, 2))
	fx.registry.Unlink(fx.a.ID())

	frame := &Frame{Standard: fx.standard, Registry: fx.registry, Settings: DefaultSettings()}

	assert.NotPanics(t, frame.Render)

	for _, target := range fx.dev.targets {
		assert.Zero(t, target.begins)
	}
	for _, mb := range fx.dev.meshBuffers {
		assert.Zero(t, mb.renders)
	}

}

func TestFrameRenderWithoutRegistry(t *testing.T) {

	dev := newFakeDevice()
	standard, _, _ := newTestStandardEffect(t, dev)
	cube := newTestRenderObject(t, dev, NewCube(1))

	frame := &Frame{Standard: standard, Settings: DefaultSettings(), Objects: []*RenderObject{cube}}
	frame.Render()

	assert.Equal(t, 1, standard.Stats().Draws)

}
