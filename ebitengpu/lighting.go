package ebitengpu

import (
	"image"

	"github.com/chewxy/math32"
	"github.com/solarlune/portal3d"
)

// vertexLighting is what the standard vertex stage reads from the bound constant buffers and textures for one draw.
type vertexLighting struct {
	world        portal3d.Matrix4
	viewPosition portal3d.Vector3
	light        portal3d.DirectionalLight
	material     portal3d.Material
	settings     portal3d.SettingsBufferData

	// Maps are nil when their toggle is off or nothing is bound.
	normalMap image.Image
	specMap   image.Image
	bumpMap   image.Image
}

// shade returns the (possibly bump-displaced) model-space position of the vertex, and the color lighting gives it.
func (lighting *vertexLighting) shade(vertex portal3d.Vertex) (portal3d.Vector3, portal3d.Color) {

	position := vertex.Position
	u, v := vertex.UV.X, vertex.UV.Y

	if lighting.bumpMap != nil {
		height := sampleImage(lighting.bumpMap, u, v).R
		position = position.Add(vertex.Normal.Unit().Scale(height * lighting.settings.BumpWeight))
	}

	normal := lighting.world.MultDir(vertex.Normal).Unit()

	if lighting.normalMap != nil {
		tangentNormal := sampleNormal(lighting.normalMap, u, v)
		tangent := lighting.world.MultDir(vertex.Tangent).Unit()
		bitangent := normal.Cross(tangent)
		normal = tangent.Scale(tangentNormal.X).
			Add(bitangent.Scale(tangentNormal.Y)).
			Add(normal.Scale(tangentNormal.Z)).
			Unit()
	}

	color := lighting.light.Shade(normal, lighting.material)

	toLight := lighting.light.Direction.Invert()

	if normal.Dot(toLight) > 0 {

		worldPosition := lighting.world.MultVec(position)
		toEye := lighting.viewPosition.Sub(worldPosition).Unit()
		half := toEye.Add(toLight).Unit()

		specular := math32.Pow(math32.Max(normal.Dot(half), 0), lighting.material.Power)

		if lighting.specMap != nil {
			specular *= sampleImage(lighting.specMap, u, v).R
		}

		color = color.Add(lighting.light.Specular.Mult(lighting.material.Specular).ScaleRGB(specular))

	}

	color = color.Clamped()
	color.A = lighting.material.Diffuse.A

	return position, color

}
