// Package lifecycle holds the cube's stage machine. Triggers that are not
// defined for the current stage are ignored.
package lifecycle

import (
	"fortio.org/log"
	"github.com/samber/lo"
)

// Stage is the cube's interaction mode.
type Stage int

const (
	Hidden Stage = iota
	Idle
	Present
	OpeningPortal
	PortalOpen
	ClosingPortal
)

func (s Stage) String() string {
	switch s {
	case Hidden:
		return "hidden"
	case Idle:
		return "idle"
	case Present:
		return "present"
	case OpeningPortal:
		return "openingPortal"
	case PortalOpen:
		return "portalOpen"
	case ClosingPortal:
		return "closingPortal"
	default:
		return "unknown"
	}
}

// Animating reports whether the portal animation owns the cube transform.
func (s Stage) Animating() bool {
	return s == OpeningPortal || s == ClosingPortal
}

// Trigger requests a stage change.
type Trigger int

const (
	SceneReady Trigger = iota
	Promote
	Open
	OpenComplete
	Close
	CloseComplete
)

func (t Trigger) String() string {
	switch t {
	case SceneReady:
		return "sceneReady"
	case Promote:
		return "promote"
	case Open:
		return "open"
	case OpenComplete:
		return "openComplete"
	case Close:
		return "close"
	case CloseComplete:
		return "closeComplete"
	default:
		return "unknown"
	}
}

type edge struct {
	from    Stage
	trigger Trigger
}

var transitions = map[edge]Stage{
	{Hidden, SceneReady}:           Idle,
	{Idle, Promote}:                Present,
	{Idle, Open}:                   OpeningPortal,
	{Present, Open}:                OpeningPortal,
	{OpeningPortal, OpenComplete}:  PortalOpen,
	{PortalOpen, Close}:            ClosingPortal,
	{ClosingPortal, CloseComplete}: Idle,
}

// Transition describes one accepted stage change.
type Transition struct {
	From, To Stage
	Trigger  Trigger
}

// Machine is the stage machine. It is not safe for concurrent use.
type Machine struct {
	stage     Stage
	observers []func(Transition)
}

// New returns a machine in the Hidden stage.
func New() *Machine {
	return &Machine{stage: Hidden}
}

// Stage returns the current stage.
func (m *Machine) Stage() Stage {
	return m.stage
}

// Fire applies t and returns true, or returns false and leaves the stage
// unchanged when t is not defined for the current stage.
func (m *Machine) Fire(t Trigger) bool {
	to, ok := transitions[edge{m.stage, t}]
	if !ok {
		log.LogVf("lifecycle: %s ignored in %s", t, m.stage)
		return false
	}
	tr := Transition{From: m.stage, To: to, Trigger: t}
	m.stage = to
	log.Debugf("lifecycle %s -> %s (%s)", tr.From, tr.To, t)
	lo.ForEach(m.observers, func(fn func(Transition), _ int) { fn(tr) })
	return true
}

// OnTransition registers fn to run after every accepted transition.
func (m *Machine) OnTransition(fn func(Transition)) {
	m.observers = append(m.observers, fn)
}
