// Package panel models the sliding UI panels around the scene: header,
// footer and the player card. Each panel moves between hidden (0) and shown
// (1) over a fixed duration, stepped by the frame loop.
package panel

import (
	"time"
)

// Panel is a timed two-state slider. Callbacks passed to Show and Hide fire
// once, when the panel arrives. A request in the same direction adds its
// callback; reversing direction drops the pending ones.
type Panel struct {
	Name     string
	duration time.Duration
	progress float64
	target   float64
	pending  []func()
}

// New creates a panel that starts shown or hidden.
func New(name string, duration time.Duration, shown bool) *Panel {
	p := &Panel{Name: name, duration: duration}
	if shown {
		p.progress, p.target = 1, 1
	}
	return p
}

// Show slides the panel in.
func (p *Panel) Show(done func()) {
	p.moveTo(1, done)
}

// Hide slides the panel out.
func (p *Panel) Hide(done func()) {
	p.moveTo(0, done)
}

func (p *Panel) moveTo(target float64, done func()) {
	if target != p.target {
		p.pending = nil
		p.target = target
	}
	if done != nil {
		p.pending = append(p.pending, done)
	}
	if p.progress == p.target {
		p.arrive()
	}
}

// Update advances the panel by dt.
func (p *Panel) Update(dt time.Duration) {
	if p.progress == p.target {
		return
	}
	step := 1.0
	if p.duration > 0 {
		step = float64(dt) / float64(p.duration)
	}
	if p.progress < p.target {
		p.progress = min(p.target, p.progress+step)
	} else {
		p.progress = max(p.target, p.progress-step)
	}
	if p.progress == p.target {
		p.arrive()
	}
}

func (p *Panel) arrive() {
	callbacks := p.pending
	p.pending = nil
	for _, fn := range callbacks {
		fn()
	}
}

// Progress is 0 when fully hidden and 1 when fully shown.
func (p *Panel) Progress() float64 {
	return p.progress
}

// Offset is Progress with ease-in-out applied, for drawing.
func (p *Panel) Offset() float64 {
	t := p.progress
	return t * t * (3 - 2*t)
}

// Visible reports whether any part of the panel is on screen.
func (p *Panel) Visible() bool {
	return p.progress > 0
}

// Moving reports whether the panel is between states.
func (p *Panel) Moving() bool {
	return p.progress != p.target
}

// Shown reports whether the panel is heading to, or at, the shown state.
func (p *Panel) Shown() bool {
	return p.target == 1
}
