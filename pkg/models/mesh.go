// Package models provides the triangle meshes the scene picks against and
// draws, with each triangle tagged by the selectable face group it belongs to.
package models

import (
	"github.com/taigrr/cubeportal/pkg/math3d"
)

// Mesh is an indexed triangle mesh whose faces are partitioned into groups.
// A group is one selectable face of the object (for a cube, one side made of
// two triangles). Group indices are fixed once the mesh is built.
type Mesh struct {
	Name     string
	Vertices []MeshVertex
	Faces    []Face

	// Bounding box (calculated on load)
	BoundsMin math3d.Vec3
	BoundsMax math3d.Vec3
}

// MeshVertex holds vertex attributes.
type MeshVertex struct {
	Position math3d.Vec3
	Normal   math3d.Vec3
}

// Face is a triangle with vertex indices and the group it belongs to.
type Face struct {
	V     [3]int // Indices into Mesh.Vertices
	Group int    // Selectable face group
}

// NewMesh creates an empty mesh.
func NewMesh(name string) *Mesh {
	return &Mesh{
		Name:     name,
		Vertices: make([]MeshVertex, 0),
		Faces:    make([]Face, 0),
	}
}

// CalculateBounds computes the axis-aligned bounding box.
func (m *Mesh) CalculateBounds() {
	if len(m.Vertices) == 0 {
		return
	}

	m.BoundsMin = m.Vertices[0].Position
	m.BoundsMax = m.Vertices[0].Position

	for _, v := range m.Vertices[1:] {
		m.BoundsMin = m.BoundsMin.Min(v.Position)
		m.BoundsMax = m.BoundsMax.Max(v.Position)
	}
}

// Center returns the center of the bounding box.
func (m *Mesh) Center() math3d.Vec3 {
	return m.BoundsMin.Add(m.BoundsMax).Scale(0.5)
}

// Size returns the dimensions of the bounding box.
func (m *Mesh) Size() math3d.Vec3 {
	return m.BoundsMax.Sub(m.BoundsMin)
}

// TriangleCount returns the number of triangles.
func (m *Mesh) TriangleCount() int {
	return len(m.Faces)
}

// VertexCount returns the number of vertices.
func (m *Mesh) VertexCount() int {
	return len(m.Vertices)
}

// GroupCount returns one more than the highest group index, i.e. the number
// of selectable faces.
func (m *Mesh) GroupCount() int {
	n := 0
	for _, f := range m.Faces {
		if f.Group+1 > n {
			n = f.Group + 1
		}
	}
	return n
}

// Triangle returns the positions of face i's corners after applying
// transform.
func (m *Mesh) Triangle(i int, transform math3d.Mat4) (a, b, c math3d.Vec3) {
	f := m.Faces[i]
	return transform.MulVec3(m.Vertices[f.V[0]].Position),
		transform.MulVec3(m.Vertices[f.V[1]].Position),
		transform.MulVec3(m.Vertices[f.V[2]].Position)
}

// CalculateNormals assigns each face's normal to its vertices (flat shading).
func (m *Mesh) CalculateNormals() {
	for i := range m.Faces {
		f := &m.Faces[i]
		v0 := m.Vertices[f.V[0]].Position
		v1 := m.Vertices[f.V[1]].Position
		v2 := m.Vertices[f.V[2]].Position

		normal := v1.Sub(v0).Cross(v2.Sub(v0)).Normalize()

		m.Vertices[f.V[0]].Normal = normal
		m.Vertices[f.V[1]].Normal = normal
		m.Vertices[f.V[2]].Normal = normal
	}
}

// Transform applies a transformation matrix to all vertices.
func (m *Mesh) Transform(mat math3d.Mat4) {
	for i := range m.Vertices {
		m.Vertices[i].Position = mat.MulVec3(m.Vertices[i].Position)
		m.Vertices[i].Normal = mat.MulVec3Dir(m.Vertices[i].Normal).Normalize()
	}
	m.CalculateBounds()
}

// Normalize centers the mesh on the origin and scales it so its largest
// dimension equals size.
func (m *Mesh) Normalize(size float64) {
	m.CalculateBounds()
	dims := m.Size()
	maxDim := max(dims.X, dims.Y, dims.Z)
	if maxDim <= 0 {
		return
	}
	s := size / maxDim
	m.Transform(math3d.Scale(math3d.V3(s, s, s)).Mul(math3d.Translate(m.Center().Scale(-1))))
}

// RemoveDegenerateFaces removes faces with zero or near-zero area, which can
// never be hit by a ray. Returns the number of faces removed.
func (m *Mesh) RemoveDegenerateFaces() int {
	if len(m.Faces) == 0 {
		return 0
	}

	const minArea = 1e-10
	kept := make([]Face, 0, len(m.Faces))

	for _, f := range m.Faces {
		if f.V[0] == f.V[1] || f.V[1] == f.V[2] || f.V[0] == f.V[2] {
			continue
		}

		v0 := m.Vertices[f.V[0]].Position
		v1 := m.Vertices[f.V[1]].Position
		v2 := m.Vertices[f.V[2]].Position
		area := v1.Sub(v0).Cross(v2.Sub(v0)).Len() * 0.5

		if area > minArea {
			kept = append(kept, f)
		}
	}

	removed := len(m.Faces) - len(kept)
	m.Faces = kept
	return removed
}

// RemoveUnreferencedVertices compacts the vertex array to the vertices used by
// faces and rewrites face indices accordingly.
func (m *Mesh) RemoveUnreferencedVertices() {
	if len(m.Faces) == 0 || len(m.Vertices) == 0 {
		return
	}

	referenced := make([]bool, len(m.Vertices))
	for _, f := range m.Faces {
		referenced[f.V[0]] = true
		referenced[f.V[1]] = true
		referenced[f.V[2]] = true
	}

	newIndex := make([]int, len(m.Vertices))
	newVertices := make([]MeshVertex, 0, len(m.Vertices))
	for i, v := range m.Vertices {
		if referenced[i] {
			newIndex[i] = len(newVertices)
			newVertices = append(newVertices, v)
		}
	}

	for i := range m.Faces {
		m.Faces[i].V[0] = newIndex[m.Faces[i].V[0]]
		m.Faces[i].V[1] = newIndex[m.Faces[i].V[1]]
		m.Faces[i].V[2] = newIndex[m.Faces[i].V[2]]
	}

	m.Vertices = newVertices
}
