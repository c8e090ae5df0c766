package universe

import (
	"github.com/taigrr/cubeportal/pkg/lifecycle"
	"github.com/taigrr/cubeportal/pkg/math3d"
	"github.com/taigrr/cubeportal/pkg/models"
	"github.com/taigrr/cubeportal/pkg/portal"
)

// Cube is the interactive object. Its geometry groups are the selectable
// faces; labels[i] names the payload behind face i.
type Cube struct {
	Position math3d.Vec3
	Rotation math3d.Vec3 // Euler XYZ, radians
	Scale    math3d.Vec3
	Opacity  float64

	mesh    *models.Mesh
	labels  []string
	machine *lifecycle.Machine
}

func newCube(mesh *models.Mesh, labels []string) *Cube {
	return &Cube{
		Scale:   math3d.One3(),
		Opacity: 1,
		mesh:    mesh,
		labels:  append([]string(nil), labels...),
		machine: lifecycle.New(),
	}
}

// Stage returns the lifecycle stage.
func (c *Cube) Stage() lifecycle.Stage {
	return c.machine.Stage()
}

// WorldMatrix returns translate * rotate * scale for the current transform.
func (c *Cube) WorldMatrix() math3d.Mat4 {
	return math3d.Compose(c.Position, c.Rotation, c.Scale)
}

// Geometry returns the mesh being picked and drawn.
func (c *Cube) Geometry() *models.Mesh {
	return c.mesh
}

// FaceCount is the number of selectable faces.
func (c *Cube) FaceCount() int {
	return c.mesh.GroupCount()
}

// Label returns the payload name for face.
func (c *Cube) Label(face int) (string, bool) {
	if face < 0 || face >= len(c.labels) {
		return "", false
	}
	return c.labels[face], true
}

// Pose returns the animated part of the cube's state.
func (c *Cube) Pose() portal.Pose {
	return portal.Pose{Position: c.Position, Rotation: c.Rotation, Scale: c.Scale, Opacity: c.Opacity}
}

// SetPose writes p back into the cube.
func (c *Cube) SetPose(p portal.Pose) {
	c.Position, c.Rotation, c.Scale, c.Opacity = p.Position, p.Rotation, p.Scale, p.Opacity
}
