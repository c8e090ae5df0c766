// Package portal animates the cube into and out of its portal pose.
package portal

import (
	"math"
	"time"

	"github.com/taigrr/cubeportal/pkg/math3d"
)

// Pose is the animated state of the target.
type Pose struct {
	Position math3d.Vec3
	Rotation math3d.Vec3 // Euler XYZ, radians
	Scale    math3d.Vec3
	Opacity  float64
}

// Lerp interpolates every component of the pose.
func (p Pose) Lerp(q Pose, t float64) Pose {
	return Pose{
		Position: p.Position.Lerp(q.Position, t),
		Rotation: p.Rotation.Lerp(q.Rotation, t),
		Scale:    p.Scale.Lerp(q.Scale, t),
		Opacity:  p.Opacity + (q.Opacity-p.Opacity)*t,
	}
}

// Target is the object being animated.
type Target interface {
	Pose() Pose
	SetPose(Pose)
}

// Config sets durations and the portal pose.
type Config struct {
	OpenDuration  time.Duration
	CloseDuration time.Duration
	Depth         float64 // distance moved toward the viewer
	Scale         float64 // scale multiplier at full open
	Opacity       float64 // opacity at full open
}

// DefaultConfig returns the stock portal look.
func DefaultConfig() Config {
	return Config{
		OpenDuration:  1200 * time.Millisecond,
		CloseDuration: 1200 * time.Millisecond,
		Depth:         2.5,
		Scale:         2.2,
		Opacity:       0.35,
	}
}

type direction int

const (
	opening direction = iota
	closing
)

type progressHook struct {
	fraction float64
	fn       func()
}

// Animator runs one open or close tween at a time, stepped by the frame
// loop. It is not safe for concurrent use.
type Animator struct {
	cfg Config
	// Facing returns the unit vector from the target toward the viewer.
	// Nil means +Z.
	Facing func() math3d.Vec3

	active   bool
	dir      direction
	target   Target
	elapsed  time.Duration
	duration time.Duration
	from, to Pose

	baseline    Pose
	hasBaseline bool

	onComplete func()
	hooks      []progressHook
}

// NewAnimator creates an idle animator.
func NewAnimator(cfg Config) *Animator {
	return &Animator{cfg: cfg}
}

// Config returns the animator settings.
func (a *Animator) Config() Config {
	return a.cfg
}

// Active reports whether a tween is running.
func (a *Animator) Active() bool {
	return a.active
}

// Opening reports whether the running tween is an open.
func (a *Animator) Opening() bool {
	return a.active && a.dir == opening
}

// Progress returns the linear progress of the running tween in [0, 1].
func (a *Animator) Progress() float64 {
	if !a.active {
		return 0
	}
	return a.progress()
}

func (a *Animator) progress() float64 {
	if a.duration <= 0 {
		return 1
	}
	return math.Min(1, float64(a.elapsed)/float64(a.duration))
}

// Open captures the target's current pose as the baseline and starts the
// tween to the portal pose. It returns false if a tween is already running.
func (a *Animator) Open(target Target, onComplete func()) bool {
	if a.active {
		return false
	}
	a.baseline = target.Pose()
	a.hasBaseline = true
	a.start(opening, target, a.portalPose(a.baseline), a.cfg.OpenDuration, onComplete)
	return true
}

// Close starts the tween back to the baseline captured by Open. It returns
// false if a tween is already running.
func (a *Animator) Close(target Target, onComplete func()) bool {
	if a.active {
		return false
	}
	to := target.Pose()
	if a.hasBaseline {
		to = a.baseline
	}
	a.start(closing, target, to, a.cfg.CloseDuration, onComplete)
	return true
}

func (a *Animator) start(dir direction, target Target, to Pose, d time.Duration, onComplete func()) {
	a.active = true
	a.dir = dir
	a.target = target
	a.elapsed = 0
	a.duration = d
	a.from = target.Pose()
	a.to = to
	a.onComplete = onComplete
	a.hooks = nil
}

// OnProgress registers fn to fire once, on the first Step whose progress
// reaches fraction. Unfired hooks fire at completion. It is a no-op when no
// tween is running.
func (a *Animator) OnProgress(fraction float64, fn func()) {
	if !a.active || fn == nil {
		return
	}
	a.hooks = append(a.hooks, progressHook{fraction: fraction, fn: fn})
}

// Step advances the running tween by dt and reports whether it finished on
// this call. The terminal pose is written exactly before any callback runs.
func (a *Animator) Step(dt time.Duration) bool {
	if !a.active {
		return false
	}
	a.elapsed += max(dt, 0)
	p := a.progress()
	done := p >= 1
	if done {
		a.target.SetPose(a.to)
	} else {
		a.target.SetPose(a.from.Lerp(a.to, EaseInOut(p)))
	}

	remaining := a.hooks[:0]
	var due []func()
	for _, h := range a.hooks {
		if done || p >= h.fraction {
			due = append(due, h.fn)
		} else {
			remaining = append(remaining, h)
		}
	}
	a.hooks = remaining

	var complete func()
	if done {
		a.active = false
		a.target = nil
		complete, a.onComplete = a.onComplete, nil
	}
	for _, fn := range due {
		fn()
	}
	if complete != nil {
		complete()
	}
	return done
}

// portalPose moves base toward the viewer, scales it up, fades it and turns
// each rotation axis to the nearest full turn so it faces the viewer square
// without spinning back through accumulated idle rotation.
func (a *Animator) portalPose(base Pose) Pose {
	facing := math3d.V3(0, 0, 1)
	if a.Facing != nil {
		if f := a.Facing(); f.LenSq() > 0 {
			facing = f.Normalize()
		}
	}
	return Pose{
		Position: base.Position.Add(facing.Scale(a.cfg.Depth)),
		Rotation: math3d.V3(nearestTurn(base.Rotation.X), nearestTurn(base.Rotation.Y), nearestTurn(base.Rotation.Z)),
		Scale:    base.Scale.Scale(a.cfg.Scale),
		Opacity:  a.cfg.Opacity,
	}
}

func nearestTurn(angle float64) float64 {
	return math.Round(angle/(2*math.Pi)) * 2 * math.Pi
}

// EaseInOut is a cubic ease-in-out curve on [0, 1].
func EaseInOut(t float64) float64 {
	switch {
	case t <= 0:
		return 0
	case t >= 1:
		return 1
	case t < 0.5:
		return 4 * t * t * t
	default:
		f := -2*t + 2
		return 1 - f*f*f/2
	}
}
