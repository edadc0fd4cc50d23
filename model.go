package portal3d

import (
	"hash/fnv"
)

// ModelID identifies a Model by the name (or path) it was loaded from.
type ModelID uint64

// NewModelID returns the ModelID for the given model name or path. The same name always gives the same ID.
func NewModelID(name string) ModelID {
	h := fnv.New64a()
	h.Write([]byte(name))
	return ModelID(h.Sum64())
}

// ModelPart is one mesh of a Model, along with the Material and textures it's drawn with.
type ModelPart struct {
	Name     string
	Mesh     Mesh
	Material Material

	DiffuseMapID TextureID
	NormalMapID  TextureID
	SpecMapID    TextureID
	BumpMapID    TextureID
}

// Model is an in-memory description of a multi-part model: its parts plus the Transform shared by all of them.
// RenderGroup.Initialize turns a Model into GPU resources.
type Model struct {
	Name      string
	Transform Transform
	Parts     []ModelPart
}

// NewModel returns an empty Model with an identity Transform.
func NewModel(name string) *Model {
	return &Model{
		Name:      name,
		Transform: NewTransform(),
	}
}

// ID returns the Model's ModelID.
func (model *Model) ID() ModelID {
	return NewModelID(model.Name)
}

// AddPart appends a part using the given Mesh and a default Material, and returns a pointer to it for further setup.
func (model *Model) AddPart(name string, mesh Mesh) *ModelPart {
	model.Parts = append(model.Parts, ModelPart{
		Name:     name,
		Mesh:     mesh,
		Material: NewMaterial(),
	})
	return &model.Parts[len(model.Parts)-1]
}

// VertexCount returns the total number of vertices across all of the Model's parts.
func (model *Model) VertexCount() int {
	count := 0
	for _, part := range model.Parts {
		count += part.Mesh.VertexCount()
	}
	return count
}

// RecalculateTangents recomputes per-vertex tangents for the Mesh from its positions and texture coordinates,
// averaging the tangents of every triangle a vertex is part of.
func (mesh *Mesh) RecalculateTangents() {

	accum := make([]Vector3, len(mesh.Vertices))

	for i := 0; i+2 < len(mesh.Indices); i += 3 {

		i0, i1, i2 := mesh.Indices[i], mesh.Indices[i+1], mesh.Indices[i+2]
		v0, v1, v2 := mesh.Vertices[i0], mesh.Vertices[i1], mesh.Vertices[i2]

		e1 := v1.Position.Sub(v0.Position)
		e2 := v2.Position.Sub(v0.Position)
		du1, dv1 := v1.UV.X-v0.UV.X, v1.UV.Y-v0.UV.Y
		du2, dv2 := v2.UV.X-v0.UV.X, v2.UV.Y-v0.UV.Y

		det := du1*dv2 - du2*dv1
		if det == 0 {
			continue
		}

		tangent := e1.Scale(dv2).Sub(e2.Scale(dv1)).Scale(1 / det)

		accum[i0] = accum[i0].Add(tangent)
		accum[i1] = accum[i1].Add(tangent)
		accum[i2] = accum[i2].Add(tangent)

	}

	for i := range mesh.Vertices {
		t := accum[i]
		n := mesh.Vertices[i].Normal
		// Gram-Schmidt against the normal.
		t = t.Sub(n.Scale(n.Dot(t)))
		if t.IsZero() {
			t = WorldRight
		}
		mesh.Vertices[i].Tangent = t.Unit()
	}

}
