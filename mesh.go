package portal3d

import "fmt"

// VertexFormat identifies the layout of the vertices a MeshData carries.
type VertexFormat int

const (
	// VertexFormatStandard is Vertex: position, normal, tangent and texture coordinate.
	VertexFormatStandard VertexFormat = iota
	// VertexFormatPX is VertexPX: position and texture coordinate only.
	VertexFormatPX
)

func (format VertexFormat) String() string {
	switch format {
	case VertexFormatStandard:
		return "standard"
	case VertexFormatPX:
		return "px"
	}
	return fmt.Sprintf("VertexFormat(%d)", int(format))
}

// Vertex is the vertex layout the standard effect's shader consumes.
type Vertex struct {
	Position Vector3
	Normal   Vector3
	Tangent  Vector3
	UV       Vector2
}

// VertexPX is a vertex carrying only a position and a texture coordinate, as used by portal surfaces.
type VertexPX struct {
	Position Vector3
	UV       Vector2
}

// MeshData is CPU-side geometry that can be uploaded into a MeshBuffer. It is implemented by Mesh and MeshPX;
// backends type-switch on the concrete type to read the vertices.
type MeshData interface {
	Format() VertexFormat
	VertexCount() int
	IndexCount() int
}

// Mesh is an indexed triangle list of Vertex.
type Mesh struct {
	Name     string
	Vertices []Vertex
	Indices  []uint32
}

// NewMesh creates a new Mesh from the vertices and indices given. If indices is nil, the vertices are read as a plain triangle list.
// The final index count must be greater than 0 and divisible by 3, or NewMesh will panic.
func NewMesh(name string, vertices []Vertex, indices []uint32) Mesh {

	if indices == nil {
		indices = sequentialIndices(len(vertices))
	}

	if len(indices) == 0 || len(indices)%3 != 0 {
		panic("Error: NewMesh() has not been given a correct number of indices to constitute triangles (it needs to be greater than 0 and divisible by 3).")
	}

	return Mesh{
		Name:     name,
		Vertices: vertices,
		Indices:  indices,
	}

}

func (mesh Mesh) Format() VertexFormat { return VertexFormatStandard }
func (mesh Mesh) VertexCount() int     { return len(mesh.Vertices) }
func (mesh Mesh) IndexCount() int      { return len(mesh.Indices) }

// Clone returns a deep copy of the Mesh.
func (mesh Mesh) Clone() Mesh {
	mesh.Vertices = append([]Vertex(nil), mesh.Vertices...)
	mesh.Indices = append([]uint32(nil), mesh.Indices...)
	return mesh
}

// MeshPX is an indexed triangle list of VertexPX.
type MeshPX struct {
	Vertices []VertexPX
	Indices  []uint32
}

func (mesh MeshPX) Format() VertexFormat { return VertexFormatPX }
func (mesh MeshPX) VertexCount() int     { return len(mesh.Vertices) }
func (mesh MeshPX) IndexCount() int      { return len(mesh.Indices) }

// Clone returns a deep copy of the MeshPX, so that its texture coordinates can be rewritten without touching the source.
func (mesh MeshPX) Clone() MeshPX {
	mesh.Vertices = append([]VertexPX(nil), mesh.Vertices...)
	mesh.Indices = append([]uint32(nil), mesh.Indices...)
	return mesh
}

// Positions returns the vertex positions of the MeshPX, in order.
func (mesh MeshPX) Positions() []Vector3 {
	out := make([]Vector3, len(mesh.Vertices))
	for i, v := range mesh.Vertices {
		out[i] = v.Position
	}
	return out
}

func sequentialIndices(count int) []uint32 {
	indices := make([]uint32, count)
	for i := range indices {
		indices[i] = uint32(i)
	}
	return indices
}

// NewQuadPX creates an upright width x height quad in the XY plane, centered on the origin and facing -Z. It's built from
// six unshared vertices (two triangles), which is the layout portal surfaces use.
func NewQuadPX(width, height float32) MeshPX {

	hw, hh := width/2, height/2

	topLeft := VertexPX{Position: Vector3{-hw, hh, 0}, UV: Vector2{0, 0}}
	topRight := VertexPX{Position: Vector3{hw, hh, 0}, UV: Vector2{1, 0}}
	bottomRight := VertexPX{Position: Vector3{hw, -hh, 0}, UV: Vector2{1, 1}}
	bottomLeft := VertexPX{Position: Vector3{-hw, -hh, 0}, UV: Vector2{0, 1}}

	vertices := []VertexPX{
		topLeft, topRight, bottomRight,
		topLeft, bottomRight, bottomLeft,
	}

	return MeshPX{
		Vertices: vertices,
		Indices:  sequentialIndices(len(vertices)),
	}

}

type cubeFace struct {
	normal Vector3
	up     Vector3
}

var cubeFaces = []cubeFace{
	{Vector3{0, 0, -1}, WorldUp},
	{Vector3{0, 0, 1}, WorldUp},
	{Vector3{1, 0, 0}, WorldUp},
	{Vector3{-1, 0, 0}, WorldUp},
	{Vector3{0, 1, 0}, Vector3{0, 0, 1}},
	{Vector3{0, -1, 0}, Vector3{0, 0, -1}},
}

// NewCube creates a new cube Mesh, size units along each side and centered on the origin. Each face has its own four
// vertices, so normals and tangents are flat per face; triangles wind clockwise seen from outside.
func NewCube(size float32) Mesh {

	h := size / 2
	vertices := make([]Vertex, 0, 24)
	indices := make([]uint32, 0, 36)

	for _, face := range cubeFaces {

		// The right-hand direction of someone looking at the face from outside.
		right := face.up.Cross(face.normal.Invert())
		center := face.normal.Scale(h)

		base := uint32(len(vertices))

		corner := func(rx, uy, u, v float32) Vertex {
			return Vertex{
				Position: center.Add(right.Scale(rx * h)).Add(face.up.Scale(uy * h)),
				Normal:   face.normal,
				Tangent:  right,
				UV:       Vector2{u, v},
			}
		}

		vertices = append(vertices,
			corner(-1, 1, 0, 0),
			corner(1, 1, 1, 0),
			corner(1, -1, 1, 1),
			corner(-1, -1, 0, 1),
		)

		indices = append(indices, base, base+1, base+2, base, base+2, base+3)

	}

	return NewMesh("Cube", vertices, indices)

}

// NewPlane creates a new flat width x depth plane Mesh in the XZ plane, facing +Y.
func NewPlane(width, depth float32) Mesh {

	hw, hd := width/2, depth/2

	vert := func(x, z, u, v float32) Vertex {
		return Vertex{
			Position: Vector3{x, 0, z},
			Normal:   WorldUp,
			Tangent:  WorldRight,
			UV:       Vector2{u, v},
		}
	}

	vertices := []Vertex{
		vert(-hw, hd, 0, 0),
		vert(hw, hd, 1, 0),
		vert(hw, -hd, 1, 1),
		vert(-hw, -hd, 0, 1),
	}

	return NewMesh("Plane", vertices, []uint32{0, 1, 2, 0, 2, 3})

}
