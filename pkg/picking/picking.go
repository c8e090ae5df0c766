// Package picking turns pointer coordinates into world rays and resolves
// which face group of a mesh a ray hits first.
package picking

import (
	"errors"
	"fmt"

	"github.com/samber/lo"
	"github.com/taigrr/cubeportal/pkg/math3d"
	"github.com/taigrr/cubeportal/pkg/models"
)

var (
	// ErrEmptyViewport is returned when the viewport has no area.
	ErrEmptyViewport = errors.New("empty viewport")
	// ErrSingularCamera is returned when the view-projection matrix cannot
	// be inverted.
	ErrSingularCamera = errors.New("singular view-projection matrix")
)

// Camera provides the current view-projection transform.
type Camera interface {
	ViewProjectionMatrix() math3d.Mat4
}

// Viewport is the drawable area in pixels.
type Viewport struct {
	Width, Height float64
}

// NDC converts pixel coordinates to normalized device coordinates with y up.
func (vp Viewport) NDC(x, y float64) (float64, float64) {
	return 2*x/vp.Width - 1, 1 - 2*y/vp.Height
}

// NewRay builds the world-space ray under pixel (x, y) by unprojecting the
// near and far clip points through the inverse view-projection matrix.
func NewRay(x, y float64, cam Camera, vp Viewport) (math3d.Ray, error) {
	if vp.Width <= 0 || vp.Height <= 0 {
		return math3d.Ray{}, fmt.Errorf("%w: %vx%v", ErrEmptyViewport, vp.Width, vp.Height)
	}
	inv, ok := cam.ViewProjectionMatrix().InverseOK()
	if !ok {
		return math3d.Ray{}, ErrSingularCamera
	}
	ndcX, ndcY := vp.NDC(x, y)
	near := inv.MulVec4(math3d.V4(ndcX, ndcY, -1, 1)).PerspectiveDivide()
	far := inv.MulVec4(math3d.V4(ndcX, ndcY, 1, 1)).PerspectiveDivide()
	return math3d.Ray{Origin: near, Direction: far.Sub(near).Normalize()}, nil
}

// Target is anything with pickable geometry. WorldMatrix is read on every
// query so hits follow the live transform.
type Target interface {
	WorldMatrix() math3d.Mat4
	Geometry() *models.Mesh
}

// Hit is one ray/triangle intersection.
type Hit struct {
	Face     int // face group
	Triangle int
	Distance float64
	Point    math3d.Vec3
}

// IntersectAll returns every triangle of target hit by ray, in mesh order.
func IntersectAll(ray math3d.Ray, target Target) []Hit {
	mesh := target.Geometry()
	if mesh == nil {
		return nil
	}
	world := target.WorldMatrix()
	var hits []Hit
	for i, f := range mesh.Faces {
		a, b, c := mesh.Triangle(i, world)
		if t, ok := ray.IntersectTriangle(a, b, c); ok {
			hits = append(hits, Hit{Face: f.Group, Triangle: i, Distance: t, Point: ray.At(t)})
		}
	}
	return hits
}

// Nearest returns the closest hit of ray against target.
func Nearest(ray math3d.Ray, target Target) (Hit, bool) {
	hits := IntersectAll(ray, target)
	if len(hits) == 0 {
		return Hit{}, false
	}
	return lo.MinBy(hits, func(a, b Hit) bool { return a.Distance < b.Distance }), true
}

// SelectFace returns the face group nearest along ray, or ok=false when
// nothing is hit.
func SelectFace(ray math3d.Ray, target Target) (face int, ok bool) {
	hit, ok := Nearest(ray, target)
	if !ok {
		return -1, false
	}
	return hit.Face, true
}
