package portal3d

import (
	"fmt"
)

// RenderObject is the unit the effects draw: a transformed mesh with a material and up to four textures.
// A RenderObject owns its MeshBuffer; call Terminate to release it, as nothing does so implicitly.
type RenderObject struct {
	Transform  Transform
	MeshBuffer MeshBuffer
	Material   Material

	DiffuseMapID TextureID
	NormalMapID  TextureID
	SpecMapID    TextureID
	BumpMapID    TextureID
}

// NewRenderObject returns a RenderObject with an identity Transform, a default Material and no textures.
func NewRenderObject() RenderObject {
	return RenderObject{
		Transform: NewTransform(),
		Material:  NewMaterial(),
	}
}

// Initialize uploads the mesh into a new MeshBuffer owned by the RenderObject.
func (obj *RenderObject) Initialize(device Device, mesh MeshData) error {
	buffer, err := device.NewMeshBuffer(mesh)
	if err != nil {
		return fmt.Errorf("mesh buffer (%d vertices): %w: %w", mesh.VertexCount(), ErrResourceCreation, err)
	}
	obj.MeshBuffer = buffer
	return nil
}

// Terminate releases the RenderObject's MeshBuffer. It's safe to call more than once.
func (obj *RenderObject) Terminate() {
	if obj.MeshBuffer != nil {
		obj.MeshBuffer.Terminate()
		obj.MeshBuffer = nil
	}
}

// RenderGroup is a multi-part model drawn as a unit: every RenderObject in it is placed by the group's shared Transform.
type RenderGroup struct {
	ModelID       ModelID
	Transform     Transform
	RenderObjects []RenderObject
}

// Initialize fills the RenderGroup from an in-memory Model: one RenderObject per ModelPart, each with its own MeshBuffer.
// The Model's Transform is copied into the group. If a MeshBuffer can't be created, the parts created so far are released
// and the error is returned.
func (group *RenderGroup) Initialize(device Device, model *Model) error {

	group.ModelID = model.ID()
	group.Transform = model.Transform
	group.RenderObjects = make([]RenderObject, 0, len(model.Parts))

	for i, part := range model.Parts {

		obj := NewRenderObject()
		obj.Material = part.Material
		obj.DiffuseMapID = part.DiffuseMapID
		obj.NormalMapID = part.NormalMapID
		obj.SpecMapID = part.SpecMapID
		obj.BumpMapID = part.BumpMapID

		if err := obj.Initialize(device, part.Mesh); err != nil {
			group.Terminate()
			return fmt.Errorf("model %q part %d: %w", model.Name, i, err)
		}

		group.RenderObjects = append(group.RenderObjects, obj)

	}

	Logger().Debug("render group initialized", "model", model.Name, "parts", len(group.RenderObjects))

	return nil

}

// InitializeFromFile loads the model file at path (see LoadGLTFFile) and fills the RenderGroup from it. Textures the
// model references are handed to the TextureLoader; a nil TextureLoader loads the model untextured.
func (group *RenderGroup) InitializeFromFile(device Device, path string, textures TextureLoader) error {
	model, err := LoadGLTFFile(path, textures)
	if err != nil {
		return err
	}
	return group.Initialize(device, model)
}

// Terminate releases every RenderObject in the group.
func (group *RenderGroup) Terminate() {
	for i := range group.RenderObjects {
		group.RenderObjects[i].Terminate()
	}
	group.RenderObjects = nil
}
