package main

import (
	"math"

	"github.com/taigrr/cubeportal/pkg/app"
	"github.com/taigrr/cubeportal/pkg/config"
	"github.com/taigrr/cubeportal/pkg/lifecycle"
	"github.com/taigrr/cubeportal/pkg/math3d"
	"github.com/taigrr/cubeportal/pkg/models"
	"github.com/taigrr/cubeportal/pkg/player"
	"github.com/taigrr/cubeportal/pkg/render"
)

var (
	background = render.RGB(18, 18, 28)
	// one color per face group, in +X, -X, +Y, -Y, +Z, -Z order
	facePalette = []render.Color{
		render.RGB(239, 71, 111),
		render.RGB(255, 209, 102),
		render.RGB(6, 214, 160),
		render.RGB(17, 138, 178),
		render.RGB(155, 93, 229),
		render.RGB(241, 91, 181),
	}
)

// scene owns everything drawn into the framebuffer.
type scene struct {
	camera     *render.Camera
	orbit      *render.OrbitControls
	view       *app.View
	fb         *render.Framebuffer
	rasterizer *render.Rasterizer
	app        *app.App
	lightDir   math3d.Vec3
}

// newScene builds a scene rendering into a width x height pixel framebuffer.
func newScene(cfg config.Config, mesh *models.Mesh, out player.Output, width, height int) *scene {
	camera := render.NewCamera()
	camera.SetFOV(math.Pi / 3)
	camera.SetClipPlanes(0.1, 100)
	camera.SetPosition(math3d.V3(0, 0, 5))
	camera.LookAt(math3d.V3(0, 0, 0))

	s := &scene{
		camera:   camera,
		orbit:    render.NewOrbitControls(camera, cfg.FPS),
		view:     &app.View{Camera: camera},
		lightDir: math3d.V3(0.5, 1, 0.8).Normalize(),
	}
	s.rasterizer = render.NewRasterizer(camera, nil)
	s.resize(width, height)
	s.app = app.New(s.view, s.orbit, cfg, mesh, out)
	return s
}

// resize replaces the framebuffer and keeps the camera aspect and picking
// viewport in step with it.
func (s *scene) resize(width, height int) {
	width, height = max(width, 1), max(height, 1)
	s.fb = render.NewFramebuffer(width, height)
	s.rasterizer.SetFramebuffer(s.fb)
	s.view.Width, s.view.Height = width, height
	s.camera.SetAspectRatio(float64(width) / float64(height))
}

// draw renders the current frame.
func (s *scene) draw() {
	s.fb.Clear(background)
	s.rasterizer.ClearDepth()
	cube := s.app.Universe.Cube()
	if cube.Stage() == lifecycle.Hidden || cube.Opacity <= 0 {
		return
	}
	s.rasterizer.DrawMesh(cube.Geometry(), cube.WorldMatrix(), facePalette, cube.Opacity, s.lightDir)
}
