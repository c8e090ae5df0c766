// Package universe orchestrates the cube scene: idle motion, click versus
// drag classification, face picking and the portal open/close sequences.
//
// Everything runs on the frame loop goroutine. Pointer handlers and
// Animate must not be called concurrently.
package universe

import (
	"fmt"
	"time"

	"fortio.org/log"
	"github.com/charmbracelet/harmonica"
	"github.com/taigrr/cubeportal/pkg/config"
	"github.com/taigrr/cubeportal/pkg/gesture"
	"github.com/taigrr/cubeportal/pkg/lifecycle"
	"github.com/taigrr/cubeportal/pkg/math3d"
	"github.com/taigrr/cubeportal/pkg/models"
	"github.com/taigrr/cubeportal/pkg/picking"
	"github.com/taigrr/cubeportal/pkg/portal"
)

// View is the render side the scene reads on every frame and pointer event.
type View interface {
	picking.Camera
	ViewerPosition() math3d.Vec3
	Viewport() picking.Viewport
}

// Controls receives every pointer event unchanged, before classification.
type Controls interface {
	PointerDown(gesture.PointerEvent)
	PointerUp(gesture.PointerEvent)
	PointerMove(gesture.PointerEvent)
}

// Universe owns the cube and drives it through its lifecycle.
type Universe struct {
	cfg        config.Config
	view       View
	controls   Controls
	cube       *Cube
	classifier *gesture.Classifier
	animator   *portal.Animator

	// idle motion
	spin        math3d.Vec3
	tilt        math3d.Vec3
	tiltVel     math3d.Vec3
	tiltSpring  harmonica.Spring
	pointer     math3d.Vec2 // NDC of the last pointer move
	idleElapsed time.Duration

	openReady   func()
	closeQueued bool
	queuedReady func()
}

// New builds a scene around mesh. labels name the payload of each face.
func New(view View, controls Controls, cfg config.Config, mesh *models.Mesh, labels []string) *Universe {
	u := &Universe{
		cfg:        cfg,
		view:       view,
		controls:   controls,
		cube:       newCube(mesh, labels),
		classifier: gesture.NewClassifier(cfg.DragToleranceMinPixels, cfg.ClickMaxDuration()),
		animator: portal.NewAnimator(portal.Config{
			OpenDuration:  cfg.OpenDuration(),
			CloseDuration: cfg.CloseDuration(),
			Depth:         cfg.PortalDepth,
			Scale:         cfg.PortalScale,
			Opacity:       cfg.PortalOpacity,
		}),
		tiltSpring: harmonica.NewSpring(harmonica.FPS(max(cfg.FPS, 1)), 4.0, 1.0),
	}
	u.animator.Facing = func() math3d.Vec3 {
		return u.view.ViewerPosition().Sub(u.cube.Position)
	}
	u.cube.machine.OnTransition(func(tr lifecycle.Transition) {
		if tr.To == lifecycle.Idle {
			u.idleElapsed = 0
		}
	})
	return u
}

// Cube returns the scene's cube.
func (u *Universe) Cube() *Cube {
	return u.cube
}

// OnTransition registers fn for every accepted lifecycle transition.
func (u *Universe) OnTransition(fn func(lifecycle.Transition)) {
	u.cube.machine.OnTransition(fn)
}

// SceneReady moves the cube from hidden to idle.
func (u *Universe) SceneReady() bool {
	return u.cube.machine.Fire(lifecycle.SceneReady)
}

// Promote makes an idle cube selectable without waiting for the delay.
func (u *Universe) Promote() bool {
	return u.cube.machine.Fire(lifecycle.Promote)
}

// Animate advances the scene by dt. Idle motion runs in idle and present,
// the portal animation runs while opening or closing.
func (u *Universe) Animate(dt time.Duration) {
	switch stage := u.cube.Stage(); stage {
	case lifecycle.Idle, lifecycle.Present:
		u.idleMotion(dt)
		if stage == lifecycle.Idle {
			u.idleElapsed += dt
			if u.idleElapsed >= u.cfg.PresentDelay() {
				u.Promote()
			}
		}
	case lifecycle.OpeningPortal, lifecycle.ClosingPortal:
		u.animator.Step(dt)
	}
}

// idleMotion spins the cube and eases a tilt toward the pointer.
func (u *Universe) idleMotion(dt time.Duration) {
	s := u.cfg.IdleRotationSpeed * dt.Seconds()
	u.spin = u.spin.Add(math3d.V3(s*0.35, s, 0))

	goal := math3d.V3(-u.pointer.Y, u.pointer.X, 0).Scale(u.cfg.FollowStrength)
	u.tilt.X, u.tiltVel.X = u.tiltSpring.Update(u.tilt.X, u.tiltVel.X, goal.X)
	u.tilt.Y, u.tiltVel.Y = u.tiltSpring.Update(u.tilt.Y, u.tiltVel.Y, goal.Y)

	u.cube.Rotation = u.spin.Add(u.tilt)
}

// OnMouseDown forwards ev to the controls and starts a gesture.
func (u *Universe) OnMouseDown(ev gesture.PointerEvent) error {
	if u.controls != nil {
		u.controls.PointerDown(ev)
	}
	return u.classifier.Begin(ev)
}

// OnMouseMove forwards ev to the controls and records the pointer for the
// follow tilt.
func (u *Universe) OnMouseMove(ev gesture.PointerEvent) error {
	if u.controls != nil {
		u.controls.PointerMove(ev)
	}
	if err := ev.Validate(); err != nil {
		return fmt.Errorf("pointer move: %w", err)
	}
	if vp := u.view.Viewport(); vp.Width > 0 && vp.Height > 0 {
		x, y := vp.NDC(ev.X, ev.Y)
		u.pointer = math3d.V2(x, y)
	}
	return nil
}

// OnMouseUp forwards ev to the controls, finishes the gesture and, for a
// click while the cube is present, returns the face under the pointer.
func (u *Universe) OnMouseUp(ev gesture.PointerEvent) (face int, ok bool, err error) {
	if u.controls != nil {
		u.controls.PointerUp(ev)
	}
	res, err := u.classifier.End(ev)
	if err != nil {
		return -1, false, err
	}
	if !res.IsClick {
		log.LogVf("drag of %.1fpx over %v ignored", res.Distance, res.Elapsed)
		return -1, false, nil
	}
	if u.cube.Stage() != lifecycle.Present {
		return -1, false, nil
	}
	ray, err := picking.NewRay(ev.X, ev.Y, u.view, u.view.Viewport())
	if err != nil {
		return -1, false, fmt.Errorf("pick: %w", err)
	}
	face, ok = picking.SelectFace(ray, u.cube)
	return face, ok, nil
}

// ShowPortal starts the open sequence from idle or present. onUiReady runs
// once, right after the cube reaches portalOpen. It returns false when the
// stage does not allow opening.
func (u *Universe) ShowPortal(onUiReady func()) bool {
	if !u.cube.machine.Fire(lifecycle.Open) {
		return false
	}
	u.openReady = onUiReady
	u.animator.Open(u.cube, u.openComplete)
	return true
}

func (u *Universe) openComplete() {
	u.cube.machine.Fire(lifecycle.OpenComplete)
	ready := u.openReady
	u.openReady = nil
	if ready != nil {
		ready()
	}
	if u.closeQueued {
		queued := u.queuedReady
		u.closeQueued, u.queuedReady = false, nil
		u.HidePortal(queued)
	}
}

// HidePortal starts the close sequence from portalOpen. onUiReady runs once,
// when the close animation reaches the configured progress, and at the
// latest when it completes. A request while opening is queued and runs as
// soon as the open completes. It returns false when ignored.
func (u *Universe) HidePortal(onUiReady func()) bool {
	if u.cube.Stage() == lifecycle.OpeningPortal {
		if u.closeQueued {
			return false
		}
		u.closeQueued, u.queuedReady = true, onUiReady
		return true
	}
	if !u.cube.machine.Fire(lifecycle.Close) {
		return false
	}
	fired := false
	ready := func() {
		if fired {
			return
		}
		fired = true
		if onUiReady != nil {
			onUiReady()
		}
	}
	u.animator.Close(u.cube, func() {
		ready()
		u.cube.machine.Fire(lifecycle.CloseComplete)
	})
	u.animator.OnProgress(u.cfg.CloseReadyProgress, ready)
	return true
}

// CloseQueued reports whether a close is waiting for the open to finish.
func (u *Universe) CloseQueued() bool {
	return u.closeQueued
}

// PortalProgress returns the running animation's progress in [0, 1].
func (u *Universe) PortalProgress() float64 {
	return u.animator.Progress()
}
