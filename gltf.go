package portal3d

import (
	"bytes"
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"path/filepath"

	"github.com/qmuntal/gltf"
	"github.com/qmuntal/gltf/modeler"
)

// TextureLoader receives the textures a model references while it's loaded and returns the TextureIDs to draw them with.
type TextureLoader interface {
	// LoadTexture loads the image file at path.
	LoadTexture(path string) (TextureID, error)
	// AddImage adds an already-decoded image (e.g. one embedded in a .glb file) under the given name.
	AddImage(name string, img image.Image) (TextureID, error)
}

// Keys read from a GLTF material's custom properties (extras) to assign the maps GLTF has no slot for.
const (
	gltfExtraNormalMap = "normalMap"
	gltfExtraSpecMap   = "specMap"
	gltfExtraBumpMap   = "bumpMap"
	gltfExtraPower     = "specularPower"
)

// LoadGLTFFile loads a .gltf or .glb file from the filepath given into a Model. External buffers and images are
// resolved relative to the file. textures may be nil, in which case the Model is untextured.
func LoadGLTFFile(path string, textures TextureLoader) (*Model, error) {

	doc, err := gltf.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%s: %w: %w", path, ErrModelLoad, err)
	}

	return newModelFromGLTF(doc, path, filepath.Dir(path), textures)

}

// LoadGLTFData loads a .glb file (or a .gltf file with only embedded resources) from the byte data given into a Model
// named name. textures may be nil, in which case the Model is untextured.
func LoadGLTFData(data []byte, name string, textures TextureLoader) (*Model, error) {

	decoder := gltf.NewDecoder(bytes.NewReader(data))

	doc := gltf.NewDocument()

	if err := decoder.Decode(doc); err != nil {
		return nil, fmt.Errorf("%s: %w: %w", name, ErrModelLoad, err)
	}

	return newModelFromGLTF(doc, name, "", textures)

}

type gltfTextureResolver struct {
	doc    *gltf.Document
	dir    string
	loader TextureLoader
	name   string
	images map[int]TextureID
	warned bool
}

// byImage returns the TextureID for the GLTF image at the given index, loading it the first time it's asked for.
func (r *gltfTextureResolver) byImage(index int) (TextureID, error) {

	if id, ok := r.images[index]; ok {
		return id, nil
	}

	if r.loader == nil {
		if !r.warned {
			Logger().Warn("model references textures but no texture loader was given", "model", r.name)
			r.warned = true
		}
		return NoTexture, nil
	}

	gltfImage := r.doc.Images[index]

	name := gltfImage.Name
	if name == "" {
		name = fmt.Sprintf("%s#image%d", r.name, index)
	}

	var id TextureID
	var err error

	switch {

	case gltfImage.BufferView != nil:

		var imageData []byte
		if imageData, err = modeler.ReadBufferView(r.doc, r.doc.BufferViews[*gltfImage.BufferView]); err == nil {
			id, err = r.addEncoded(name, imageData)
		}

	case gltfImage.IsEmbeddedResource():
		id, err = r.addDataURI(name, gltfImage)

	default:
		id, err = r.byPath(name, gltfImage.URI)

	}

	if err != nil {
		return NoTexture, fmt.Errorf("image %d: %w", index, err)
	}

	r.images[index] = id
	return id, nil

}

func (r *gltfTextureResolver) byTexture(textureIndex int) (TextureID, error) {
	if textureIndex < 0 || textureIndex >= len(r.doc.Textures) || r.doc.Textures[textureIndex].Source == nil {
		return NoTexture, nil
	}
	return r.byImage(*r.doc.Textures[textureIndex].Source)
}

// addEncoded decodes PNG or JPEG data and hands the image to the loader.
func (r *gltfTextureResolver) addEncoded(name string, data []byte) (TextureID, error) {
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return NoTexture, err
	}
	return r.loader.AddImage(name, img)
}

func (r *gltfTextureResolver) addDataURI(name string, gltfImage *gltf.Image) (TextureID, error) {
	data, err := gltfImage.MarshalData()
	if err != nil {
		return NoTexture, err
	}
	return r.addEncoded(name, data)
}

// byPath loads uri relative to the model's directory. Base64 data URIs are decoded in place and added under name instead.
func (r *gltfTextureResolver) byPath(name, uri string) (TextureID, error) {
	if uri == "" {
		return NoTexture, nil
	}
	if r.loader == nil {
		return NoTexture, nil
	}
	if embedded := (&gltf.Image{URI: uri}); embedded.IsEmbeddedResource() {
		return r.addDataURI(name, embedded)
	}
	path := uri
	if r.dir != "" && !filepath.IsAbs(uri) {
		path = filepath.Join(r.dir, uri)
	}
	return r.loader.LoadTexture(path)
}

type gltfMaterial struct {
	material Material
	diffuse  TextureID
	normal   TextureID
	spec     TextureID
	bump     TextureID
}

func (r *gltfTextureResolver) material(index int, gltfMat *gltf.Material) (gltfMaterial, error) {

	out := gltfMaterial{material: NewMaterial()}

	if pbr := gltfMat.PBRMetallicRoughness; pbr != nil {

		color := pbr.BaseColorFactor
		out.material.Diffuse = NewColor(float32(color[0]), float32(color[1]), float32(color[2]), float32(color[3]))
		out.material.Ambient = out.material.Diffuse

		if texture := pbr.BaseColorTexture; texture != nil {
			id, err := r.byTexture(texture.Index)
			if err != nil {
				return out, err
			}
			out.diffuse = id
		}

	}

	emissive := gltfMat.EmissiveFactor
	out.material.Emissive = NewColor(float32(emissive[0]), float32(emissive[1]), float32(emissive[2]), 1)

	if dataMap, isMap := gltfMat.Extras.(map[string]any); isMap {

		for key, slot := range map[string]*TextureID{
			gltfExtraNormalMap: &out.normal,
			gltfExtraSpecMap:   &out.spec,
			gltfExtraBumpMap:   &out.bump,
		} {
			if uri, ok := dataMap[key].(string); ok {
				id, err := r.byPath(fmt.Sprintf("%s#material%d.%s", r.name, index, key), uri)
				if err != nil {
					return out, err
				}
				*slot = id
			}
		}

		if power, ok := dataMap[gltfExtraPower].(float64); ok {
			out.material.Power = float32(power)
		}

	}

	return out, nil

}

// gltfNodeTransform returns the node's local transform, converted to portal3d's left-handed space.
func gltfNodeTransform(node *gltf.Node) Transform {

	t := NewTransform()

	t.Position = Vector3{float32(node.Translation[0]), float32(node.Translation[1]), -float32(node.Translation[2])}

	s := Vector3{float32(node.Scale[0]), float32(node.Scale[1]), float32(node.Scale[2])}
	if !s.IsZero() {
		t.Scale = s
	}

	// Mirroring Z flips the rotation's X and Y axis components.
	q := Quaternion{-float32(node.Rotation[0]), -float32(node.Rotation[1]), float32(node.Rotation[2]), float32(node.Rotation[3])}
	if q != (Quaternion{}) {
		t.Rotation = q
	}

	return t

}

// gltfNodeMatrix returns the node's local matrix, converted to portal3d's left-handed space.
func gltfNodeMatrix(node *gltf.Node) Matrix4 {

	m := node.MatrixOrDefault()
	if m == gltf.DefaultMatrix {
		return gltfNodeTransform(node).Matrix4()
	}

	// Each column of GLTF's column-major, column-vector matrix is one of our rows. Mirroring Z negates the elements
	// in the third row or the third column, but not both.
	out := NewMatrix4()
	for r := 0; r < 4; r++ {
		row := Vector4{float32(m[r*4]), float32(m[r*4+1]), float32(m[r*4+2]), float32(m[r*4+3])}
		if r == 2 {
			row = Vector4{-row.X, -row.Y, row.Z, -row.W}
		} else {
			row.Z = -row.Z
		}
		out.SetRow(r, row)
	}
	return out

}

type gltfMeshNode struct {
	node  *gltf.Node
	mesh  int
	root  bool
	world Matrix4
	local Matrix4
}

// gltfMeshNodes walks the default scene's node hierarchy and returns every node holding a mesh, with its parents'
// transforms composed into world. Without a usable scene, every node that isn't another's child is a root.
func gltfMeshNodes(doc *gltf.Document) []gltfMeshNode {

	var roots []int

	if len(doc.Scenes) > 0 {
		scene := 0
		if doc.Scene != nil && *doc.Scene >= 0 && *doc.Scene < len(doc.Scenes) {
			scene = *doc.Scene
		}
		roots = doc.Scenes[scene].Nodes
	}

	if len(roots) == 0 {
		child := map[int]bool{}
		for _, node := range doc.Nodes {
			for _, c := range node.Children {
				child[c] = true
			}
		}
		for i := range doc.Nodes {
			if !child[i] {
				roots = append(roots, i)
			}
		}
	}

	out := []gltfMeshNode{}
	visited := map[int]bool{}

	var walk func(index int, parent Matrix4, root bool)
	walk = func(index int, parent Matrix4, root bool) {
		if index < 0 || index >= len(doc.Nodes) || visited[index] {
			return
		}
		visited[index] = true

		node := doc.Nodes[index]
		world := gltfNodeMatrix(node).Mult(parent)

		if node.Mesh != nil {
			out = append(out, gltfMeshNode{node: node, mesh: *node.Mesh, root: root, world: world})
		}
		for _, c := range node.Children {
			walk(c, world, false)
		}
	}

	for _, index := range roots {
		walk(index, NewMatrix4(), true)
	}

	return out

}

func newModelFromGLTF(doc *gltf.Document, name, dir string, textures TextureLoader) (*Model, error) {

	model := NewModel(name)

	resolver := &gltfTextureResolver{
		doc:    doc,
		dir:    dir,
		loader: textures,
		name:   name,
		images: map[int]TextureID{},
	}

	materials := make([]gltfMaterial, len(doc.Materials))
	for i, gltfMat := range doc.Materials {
		mat, err := resolver.material(i, gltfMat)
		if err != nil {
			return nil, fmt.Errorf("%s: material %q: %w: %w", name, gltfMat.Name, ErrModelLoad, err)
		}
		materials[i] = mat
	}

	instances := gltfMeshNodes(doc)

	// The first mesh node supplies the Model's shared Transform when it's a root placed by TRS; every mesh node is
	// baked relative to that Transform.
	if len(instances) > 0 && instances[0].root && instances[0].node.MatrixOrDefault() == gltf.DefaultMatrix {
		model.Transform = gltfNodeTransform(instances[0].node)
	}

	rootInverse := model.Transform.Matrix4().Inverted()
	for i := range instances {
		instances[i].local = instances[i].world.Mult(rootInverse)
	}

	// Files with meshes but no nodes still load, untransformed.
	if len(instances) == 0 {
		for i := range doc.Meshes {
			instances = append(instances, gltfMeshNode{mesh: i, local: NewMatrix4()})
		}
	}

	for _, instance := range instances {

		if instance.mesh < 0 || instance.mesh >= len(doc.Meshes) {
			return nil, fmt.Errorf("%s: node references mesh %d: %w", name, instance.mesh, ErrModelLoad)
		}

		gltfMesh := doc.Meshes[instance.mesh]

		for p, prim := range gltfMesh.Primitives {

			mesh, err := gltfPrimitiveMesh(doc, prim, instance.local)
			if err != nil {
				return nil, fmt.Errorf("%s: mesh %q primitive %d: %w: %w", name, gltfMesh.Name, p, ErrModelLoad, err)
			}
			mesh.Name = gltfMesh.Name

			part := model.AddPart(gltfMesh.Name, mesh)

			if prim.Material != nil && *prim.Material < len(materials) {
				mat := materials[*prim.Material]
				part.Material = mat.material
				part.DiffuseMapID = mat.diffuse
				part.NormalMapID = mat.normal
				part.SpecMapID = mat.spec
				part.BumpMapID = mat.bump
			}

		}

	}

	if len(model.Parts) == 0 {
		return nil, fmt.Errorf("%s: no meshes: %w", name, ErrModelLoad)
	}

	Logger().Info("model loaded", "model", name, "parts", len(model.Parts), "vertices", model.VertexCount())

	return model, nil

}

func gltfPrimitiveMesh(doc *gltf.Document, prim *gltf.Primitive, local Matrix4) (Mesh, error) {

	posAccessor, exists := prim.Attributes[gltf.POSITION]
	if !exists {
		return Mesh{}, fmt.Errorf("primitive has no positions")
	}

	positions, err := modeler.ReadPosition(doc, doc.Accessors[posAccessor], [][3]float32{})
	if err != nil {
		return Mesh{}, err
	}

	vertices := make([]Vertex, len(positions))

	for i, p := range positions {
		vertices[i].Position = local.MultVec(Vector3{p[0], p[1], -p[2]})
		vertices[i].Normal = WorldUp
	}

	if texCoordAccessor, texCoordExists := prim.Attributes[gltf.TEXCOORD_0]; texCoordExists {

		texCoords, err := modeler.ReadTextureCoord(doc, doc.Accessors[texCoordAccessor], [][2]float32{})
		if err != nil {
			return Mesh{}, err
		}

		for i, uv := range texCoords {
			vertices[i].UV = Vector2{uv[0], uv[1]}
		}

	}

	if normalAccessor, normalExists := prim.Attributes[gltf.NORMAL]; normalExists {

		normals, err := modeler.ReadNormal(doc, doc.Accessors[normalAccessor], [][3]float32{})
		if err != nil {
			return Mesh{}, err
		}

		for i, n := range normals {
			vertices[i].Normal = local.MultDir(Vector3{n[0], n[1], -n[2]}).Unit()
		}

	}

	var indices []uint32

	if prim.Indices != nil {
		indices, err = modeler.ReadIndices(doc, doc.Accessors[*prim.Indices], []uint32{})
		if err != nil {
			return Mesh{}, err
		}
	} else {
		indices = sequentialIndices(len(vertices))
	}

	if len(indices) == 0 || len(indices)%3 != 0 {
		return Mesh{}, fmt.Errorf("primitive has %d indices, which isn't a triangle list", len(indices))
	}

	for _, index := range indices {
		if int(index) >= len(vertices) {
			return Mesh{}, fmt.Errorf("index %d out of range (%d vertices)", index, len(vertices))
		}
	}

	mesh := NewMesh("", vertices, indices)
	mesh.RecalculateTangents()
	return mesh, nil

}
