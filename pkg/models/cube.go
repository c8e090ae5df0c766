package models

import "github.com/taigrr/cubeportal/pkg/math3d"

// Cube face groups, in the order BoxGeometry-style cubes use.
const (
	FacePosX = iota
	FaceNegX
	FacePosY
	FaceNegY
	FacePosZ
	FaceNegZ

	CubeFaceCount
)

// cubeSide describes one side: its outward normal and two in-plane axes with
// u × v = normal, so corners listed (-u-v, +u-v, +u+v, -u+v) wind
// counter-clockwise seen from outside.
type cubeSide struct {
	normal, u, v math3d.Vec3
}

var cubeSides = [CubeFaceCount]cubeSide{
	FacePosX: {math3d.V3(1, 0, 0), math3d.V3(0, 0, -1), math3d.V3(0, 1, 0)},
	FaceNegX: {math3d.V3(-1, 0, 0), math3d.V3(0, 0, 1), math3d.V3(0, 1, 0)},
	FacePosY: {math3d.V3(0, 1, 0), math3d.V3(1, 0, 0), math3d.V3(0, 0, -1)},
	FaceNegY: {math3d.V3(0, -1, 0), math3d.V3(1, 0, 0), math3d.V3(0, 0, 1)},
	FacePosZ: {math3d.V3(0, 0, 1), math3d.V3(1, 0, 0), math3d.V3(0, 1, 0)},
	FaceNegZ: {math3d.V3(0, 0, -1), math3d.V3(-1, 0, 0), math3d.V3(0, 1, 0)},
}

// NewCubeMesh builds an axis-aligned cube with edge length size centered on
// the origin. Each side has its own four vertices and two triangles tagged
// with the side's group index.
func NewCubeMesh(size float64) *Mesh {
	half := size / 2
	mesh := NewMesh("cube")
	for group, side := range cubeSides {
		base := len(mesh.Vertices)
		center := side.normal.Scale(half)
		corners := [4]math3d.Vec3{
			center.Sub(side.u.Scale(half)).Sub(side.v.Scale(half)),
			center.Add(side.u.Scale(half)).Sub(side.v.Scale(half)),
			center.Add(side.u.Scale(half)).Add(side.v.Scale(half)),
			center.Sub(side.u.Scale(half)).Add(side.v.Scale(half)),
		}
		for _, p := range corners {
			mesh.Vertices = append(mesh.Vertices, MeshVertex{Position: p, Normal: side.normal})
		}
		mesh.Faces = append(mesh.Faces,
			Face{V: [3]int{base, base + 1, base + 2}, Group: group},
			Face{V: [3]int{base, base + 2, base + 3}, Group: group},
		)
	}
	mesh.CalculateBounds()
	return mesh
}
