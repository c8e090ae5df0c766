package render

import (
	"math"

	"github.com/charmbracelet/harmonica"
	"github.com/taigrr/cubeportal/pkg/gesture"
	"github.com/taigrr/cubeportal/pkg/math3d"
)

const maxPitch = math.Pi/2 - 0.05

// OrbitControls moves a camera on a sphere around its target. Pointer drags
// change yaw and pitch, Zoom changes the distance; both are smoothed with
// critically damped springs.
type OrbitControls struct {
	camera *Camera

	Enabled     bool
	RotateSpeed float64 // radians per pixel of drag
	ZoomStep    float64
	MinDistance float64
	MaxDistance float64

	spring harmonica.Spring

	yaw, pitch, distance          float64
	yawVel, pitchVel, distanceVel float64
	goalYaw, goalPitch, goalDist  float64

	dragging  bool
	pointerID int
	last      math3d.Vec2
}

// NewOrbitControls creates controls for camera, starting from its current
// position. fps sets the spring time step.
func NewOrbitControls(camera *Camera, fps int) *OrbitControls {
	o := &OrbitControls{
		camera:      camera,
		Enabled:     true,
		RotateSpeed: 0.01,
		ZoomStep:    0.5,
		MinDistance: 2,
		MaxDistance: 20,
		spring:      harmonica.NewSpring(harmonica.FPS(fps), 6.0, 1.0),
	}
	offset := camera.Position.Sub(camera.Target)
	o.distance = offset.Len()
	if o.distance > 0 {
		o.pitch = math.Asin(offset.Y / o.distance)
		o.yaw = math.Atan2(offset.X, offset.Z)
	}
	o.goalYaw, o.goalPitch, o.goalDist = o.yaw, o.pitch, o.distance
	return o
}

// PointerDown starts a drag. Events with non-finite coordinates are ignored.
func (o *OrbitControls) PointerDown(ev gesture.PointerEvent) {
	if !o.Enabled || !ev.Position().IsFinite() {
		return
	}
	o.dragging = true
	o.pointerID = ev.ID
	o.last = math3d.V2(ev.X, ev.Y)
}

// PointerMove orbits while a drag is in progress.
func (o *OrbitControls) PointerMove(ev gesture.PointerEvent) {
	if !o.Enabled || !o.dragging || ev.ID != o.pointerID {
		return
	}
	p := ev.Position()
	if !p.IsFinite() {
		return
	}
	d := p.Sub(o.last)
	o.last = p
	o.goalYaw -= d.X * o.RotateSpeed
	o.goalPitch = clamp(o.goalPitch+d.Y*o.RotateSpeed, -maxPitch, maxPitch)
}

// PointerUp ends the drag.
func (o *OrbitControls) PointerUp(ev gesture.PointerEvent) {
	if ev.ID == o.pointerID {
		o.dragging = false
	}
}

// Dragging reports whether a drag is in progress.
func (o *OrbitControls) Dragging() bool {
	return o.dragging
}

// Zoom moves the camera steps increments closer (positive) or further away.
func (o *OrbitControls) Zoom(steps float64) {
	if !o.Enabled {
		return
	}
	o.goalDist = clamp(o.goalDist-steps*o.ZoomStep, o.MinDistance, o.MaxDistance)
}

// Update advances the springs one frame and repositions the camera.
func (o *OrbitControls) Update() {
	o.yaw, o.yawVel = o.spring.Update(o.yaw, o.yawVel, o.goalYaw)
	o.pitch, o.pitchVel = o.spring.Update(o.pitch, o.pitchVel, o.goalPitch)
	o.distance, o.distanceVel = o.spring.Update(o.distance, o.distanceVel, o.goalDist)

	cp := math.Cos(o.pitch)
	offset := math3d.V3(cp*math.Sin(o.yaw), math.Sin(o.pitch), cp*math.Cos(o.yaw)).Scale(o.distance)
	o.camera.SetPosition(o.camera.Target.Add(offset))
}

// Reset returns to the given yaw, pitch and distance immediately and drops
// any drag in progress.
func (o *OrbitControls) Reset(yaw, pitch, distance float64) {
	o.dragging = false
	o.yaw, o.pitch, o.distance = yaw, clamp(pitch, -maxPitch, maxPitch), distance
	o.goalYaw, o.goalPitch, o.goalDist = o.yaw, o.pitch, o.distance
	o.yawVel, o.pitchVel, o.distanceVel = 0, 0, 0
	o.Update()
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}
