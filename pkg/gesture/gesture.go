// Package gesture classifies pointer-down/pointer-up pairs as clicks or
// drags.
package gesture

import (
	"errors"
	"fmt"
	"time"

	"github.com/taigrr/cubeportal/pkg/math3d"
)

// ErrInvalidPointer is wrapped by errors for events with missing or
// non-finite coordinates.
var ErrInvalidPointer = errors.New("invalid pointer event")

// Default thresholds.
const (
	DefaultDragTolerance    = 5.0
	DefaultClickMaxDuration = 300 * time.Millisecond
)

// PointerEvent is one pointer down, up or move in viewport pixels.
type PointerEvent struct {
	ID   int
	X, Y float64
	Time time.Time
}

// Position returns the event coordinates.
func (ev PointerEvent) Position() math3d.Vec2 {
	return math3d.V2(ev.X, ev.Y)
}

// Validate reports whether the event can be classified or picked.
func (ev PointerEvent) Validate() error {
	if !ev.Position().IsFinite() {
		return fmt.Errorf("%w: coordinates (%v, %v)", ErrInvalidPointer, ev.X, ev.Y)
	}
	if ev.Time.IsZero() {
		return fmt.Errorf("%w: missing timestamp", ErrInvalidPointer)
	}
	return nil
}

// Result is the outcome of a finished gesture.
type Result struct {
	IsClick  bool
	Distance float64
	Elapsed  time.Duration
}

type start struct {
	pos  math3d.Vec2
	time time.Time
}

// Classifier tracks open gestures per pointer id.
type Classifier struct {
	DragTolerance    float64
	ClickMaxDuration time.Duration

	open map[int]start
}

// NewClassifier creates a classifier with the given thresholds.
func NewClassifier(dragTolerance float64, clickMaxDuration time.Duration) *Classifier {
	return &Classifier{
		DragTolerance:    dragTolerance,
		ClickMaxDuration: clickMaxDuration,
		open:             make(map[int]start),
	}
}

// Begin records the start of a gesture, replacing any unmatched one for the
// same pointer.
func (c *Classifier) Begin(ev PointerEvent) error {
	if err := ev.Validate(); err != nil {
		return fmt.Errorf("begin gesture: %w", err)
	}
	c.open[ev.ID] = start{pos: ev.Position(), time: ev.Time}
	return nil
}

// End finishes the gesture for ev.ID. A click needs both the distance and the
// elapsed time within their thresholds. An End without a Begin is a drag.
func (c *Classifier) End(ev PointerEvent) (Result, error) {
	if err := ev.Validate(); err != nil {
		return Result{}, fmt.Errorf("end gesture: %w", err)
	}
	s, ok := c.open[ev.ID]
	if !ok {
		return Result{}, nil
	}
	delete(c.open, ev.ID)

	res := Result{
		Distance: s.pos.Distance(ev.Position()),
		Elapsed:  ev.Time.Sub(s.time),
	}
	res.IsClick = res.Distance <= c.DragTolerance && res.Elapsed <= c.ClickMaxDuration
	return res, nil
}

// Pending reports whether a gesture is open for the pointer id.
func (c *Classifier) Pending(id int) bool {
	_, ok := c.open[id]
	return ok
}
