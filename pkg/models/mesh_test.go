package models

import (
	"math"
	"testing"

	"github.com/taigrr/cubeportal/pkg/math3d"
)

func TestNewCubeMeshGroups(t *testing.T) {
	mesh := NewCubeMesh(2)
	if mesh.TriangleCount() != 12 {
		t.Fatalf("TriangleCount() = %d, want 12", mesh.TriangleCount())
	}
	if mesh.GroupCount() != CubeFaceCount {
		t.Fatalf("GroupCount() = %d, want %d", mesh.GroupCount(), CubeFaceCount)
	}
	if mesh.BoundsMin != math3d.V3(-1, -1, -1) || mesh.BoundsMax != math3d.V3(1, 1, 1) {
		t.Errorf("bounds = %v..%v, want (-1,-1,-1)..(1,1,1)", mesh.BoundsMin, mesh.BoundsMax)
	}
	for i, f := range mesh.Faces {
		if want := i / 2; f.Group != want {
			t.Errorf("face %d group = %d, want %d", i, f.Group, want)
		}
	}
}

func TestNewCubeMeshWindingMatchesNormals(t *testing.T) {
	mesh := NewCubeMesh(2)
	for i, f := range mesh.Faces {
		a, b, c := mesh.Triangle(i, math3d.Identity())
		geometric := b.Sub(a).Cross(c.Sub(a)).Normalize()
		if !geometric.ApproxEqual(mesh.Vertices[f.V[0]].Normal, 1e-12) {
			t.Errorf("face %d winding normal = %v, want %v", i, geometric, mesh.Vertices[f.V[0]].Normal)
		}
	}
}

func TestNewCubeMeshSidesFaceOutward(t *testing.T) {
	tests := []struct {
		group int
		axis  math3d.Vec3
	}{
		{FacePosX, math3d.V3(1, 0, 0)},
		{FaceNegX, math3d.V3(-1, 0, 0)},
		{FacePosY, math3d.V3(0, 1, 0)},
		{FaceNegY, math3d.V3(0, -1, 0)},
		{FacePosZ, math3d.V3(0, 0, 1)},
		{FaceNegZ, math3d.V3(0, 0, -1)},
	}
	mesh := NewCubeMesh(2)
	for _, tt := range tests {
		for i, f := range mesh.Faces {
			if f.Group != tt.group {
				continue
			}
			a, b, c := mesh.Triangle(i, math3d.Identity())
			centroid := a.Add(b).Add(c).Scale(1.0 / 3)
			if math.Abs(centroid.Dot(tt.axis)-1) > 1e-12 {
				t.Errorf("group %d triangle %d centroid %v not on side %v", tt.group, i, centroid, tt.axis)
			}
		}
	}
}

func TestMeshNormalize(t *testing.T) {
	mesh := NewCubeMesh(4)
	mesh.Transform(math3d.Translate(math3d.V3(10, 0, 0)))
	mesh.Normalize(2)
	if !mesh.Center().ApproxEqual(math3d.Zero3(), 1e-12) {
		t.Errorf("Center() = %v, want origin", mesh.Center())
	}
	if !mesh.Size().ApproxEqual(math3d.V3(2, 2, 2), 1e-12) {
		t.Errorf("Size() = %v, want (2,2,2)", mesh.Size())
	}
}

func TestRemoveDegenerateFaces(t *testing.T) {
	mesh := NewMesh("test")
	mesh.Vertices = []MeshVertex{
		{Position: math3d.V3(0, 0, 0)},
		{Position: math3d.V3(1, 0, 0)},
		{Position: math3d.V3(0, 1, 0)},
		{Position: math3d.V3(0, 0, 0)}, // duplicate of vertex 0
	}
	mesh.Faces = []Face{
		{V: [3]int{0, 1, 2}}, // valid face
		{V: [3]int{0, 0, 1}}, // duplicate vertex index
		{V: [3]int{0, 1, 0}}, // duplicate vertex index
		{V: [3]int{0, 3, 1}}, // zero area
	}
	removed := mesh.RemoveDegenerateFaces()
	if removed != 3 {
		t.Errorf("RemoveDegenerateFaces() removed %d faces, want 3", removed)
	}
	if mesh.TriangleCount() != 1 {
		t.Errorf("After removal: TriangleCount = %d, want 1", mesh.TriangleCount())
	}
}

func TestRemoveUnreferencedVertices(t *testing.T) {
	mesh := NewMesh("test")
	mesh.Vertices = []MeshVertex{
		{Position: math3d.V3(0, 0, 0)},
		{Position: math3d.V3(1, 0, 0)},
		{Position: math3d.V3(2, 0, 0)}, // not used
		{Position: math3d.V3(0, 1, 0)},
	}
	mesh.Faces = []Face{
		{V: [3]int{0, 1, 3}, Group: 5},
	}
	mesh.RemoveUnreferencedVertices()
	if mesh.VertexCount() != 3 {
		t.Errorf("After removal: VertexCount = %d, want 3", mesh.VertexCount())
	}
	if mesh.Faces[0].V != [3]int{0, 1, 2} {
		t.Errorf("Face indices = %v, want [0 1 2]", mesh.Faces[0].V)
	}
	if mesh.Faces[0].Group != 5 {
		t.Errorf("Face group = %d, want 5", mesh.Faces[0].Group)
	}
}
