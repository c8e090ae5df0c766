package render

import (
	"math"

	"github.com/taigrr/cubeportal/pkg/math3d"
	"github.com/taigrr/cubeportal/pkg/models"
)

// Rasterizer draws flat-shaded, depth-tested triangles into a Framebuffer.
type Rasterizer struct {
	camera  *Camera
	fb      *Framebuffer
	zbuffer []float64

	// DisableBackfaceCulling renders both sides of every triangle.
	DisableBackfaceCulling bool
	// TrianglesDrawn counts triangles that reached the scan loop since the
	// last ClearDepth.
	TrianglesDrawn int
}

// NewRasterizer creates a rasterizer drawing through camera into fb.
func NewRasterizer(camera *Camera, fb *Framebuffer) *Rasterizer {
	r := &Rasterizer{camera: camera, fb: fb}
	r.Resize()
	return r
}

// SetFramebuffer swaps the target buffer, e.g. after a terminal resize.
func (r *Rasterizer) SetFramebuffer(fb *Framebuffer) {
	r.fb = fb
	r.Resize()
}

// Framebuffer returns the current target buffer.
func (r *Rasterizer) Framebuffer() *Framebuffer {
	return r.fb
}

// Resize reallocates the depth buffer to match the framebuffer.
func (r *Rasterizer) Resize() {
	if r.fb == nil {
		r.zbuffer = nil
		return
	}
	r.zbuffer = make([]float64, r.fb.Width*r.fb.Height)
}

// ClearDepth resets the depth buffer; call once per frame.
func (r *Rasterizer) ClearDepth() {
	r.TrianglesDrawn = 0
	n := len(r.zbuffer)
	if n == 0 {
		return
	}
	r.zbuffer[0] = math.MaxFloat64
	for i := 1; i < n; i *= 2 {
		copy(r.zbuffer[i:], r.zbuffer[:i])
	}
}

type screenVertex struct {
	X, Y, Z float64
}

// DrawTriangle rasterizes a world-space triangle with a single color.
// Alpha below 1 blends with what is already in the framebuffer.
func (r *Rasterizer) DrawTriangle(v0, v1, v2 math3d.Vec3, c Color, alpha float64) {
	if r.fb == nil || alpha <= 0 {
		return
	}
	w, h := float64(r.fb.Width), float64(r.fb.Height)
	viewProj := r.camera.ViewProjectionMatrix()

	var sv [3]screenVertex
	for i, p := range [3]math3d.Vec3{v0, v1, v2} {
		clip := viewProj.MulVec4(math3d.V4FromV3(p, 1))
		if clip.W <= 0 {
			return // no near-plane clipping, drop triangles crossing the camera
		}
		ndc := clip.PerspectiveDivide()
		sv[i] = screenVertex{
			X: (ndc.X + 1) * 0.5 * w,
			Y: (1 - ndc.Y) * 0.5 * h,
			Z: ndc.Z,
		}
	}

	// Screen Y points down, so counter-clockwise world winding has negative area.
	area := (sv[1].X-sv[0].X)*(sv[2].Y-sv[0].Y) - (sv[1].Y-sv[0].Y)*(sv[2].X-sv[0].X)
	if area == 0 || (area > 0 && !r.DisableBackfaceCulling) {
		return
	}

	minX := int(math.Max(0, math.Floor(min(sv[0].X, sv[1].X, sv[2].X))))
	maxX := int(math.Min(w-1, math.Ceil(max(sv[0].X, sv[1].X, sv[2].X))))
	minY := int(math.Max(0, math.Floor(min(sv[0].Y, sv[1].Y, sv[2].Y))))
	maxY := int(math.Min(h-1, math.Ceil(max(sv[0].Y, sv[1].Y, sv[2].Y))))
	if minX > maxX || minY > maxY {
		return
	}
	r.TrianglesDrawn++

	for y := minY; y <= maxY; y++ {
		for x := minX; x <= maxX; x++ {
			px, py := float64(x)+0.5, float64(y)+0.5
			bc := barycentric(sv, px, py, area)
			if bc.X < 0 || bc.Y < 0 || bc.Z < 0 {
				continue
			}
			z := bc.X*sv[0].Z + bc.Y*sv[1].Z + bc.Z*sv[2].Z
			if z < -1 || z > 1 {
				continue
			}
			idx := y*r.fb.Width + x
			if z >= r.zbuffer[idx] {
				continue
			}
			r.zbuffer[idx] = z
			if alpha >= 1 {
				r.fb.Pixels[idx] = c
			} else {
				r.fb.Pixels[idx] = Blend(r.fb.Pixels[idx], c, alpha)
			}
		}
	}
}

// DrawTriangleLit draws a triangle shaded by a directional light.
func (r *Rasterizer) DrawTriangleLit(v0, v1, v2 math3d.Vec3, base Color, alpha float64, lightDir math3d.Vec3) {
	normal := v1.Sub(v0).Cross(v2.Sub(v0)).Normalize()
	intensity := math.Max(0, normal.Dot(lightDir.Normalize()))
	intensity = 0.3 + 0.7*intensity // ambient + diffuse
	r.DrawTriangle(v0, v1, v2, MultiplyColor(base, intensity), alpha)
}

// DrawMesh draws every triangle of mesh transformed by transform. Each
// face is colored by palette[group % len(palette)].
func (r *Rasterizer) DrawMesh(mesh *models.Mesh, transform math3d.Mat4, palette []Color, alpha float64, lightDir math3d.Vec3) {
	if len(palette) == 0 {
		palette = []Color{ColorWhite}
	}
	for i, f := range mesh.Faces {
		a, b, c := mesh.Triangle(i, transform)
		r.DrawTriangleLit(a, b, c, palette[f.Group%len(palette)], alpha, lightDir)
	}
}

// barycentric returns the weights of (px, py) relative to the screen
// triangle with the given signed area.
func barycentric(sv [3]screenVertex, px, py, area float64) math3d.Vec3 {
	w0 := (sv[1].X-px)*(sv[2].Y-py) - (sv[1].Y-py)*(sv[2].X-px)
	w1 := (sv[2].X-px)*(sv[0].Y-py) - (sv[2].Y-py)*(sv[0].X-px)
	w2 := (sv[0].X-px)*(sv[1].Y-py) - (sv[0].Y-py)*(sv[1].X-px)
	return math3d.V3(w0/area, w1/area, w2/area)
}
