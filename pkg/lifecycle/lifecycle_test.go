package lifecycle

import "testing"

func TestFireTable(t *testing.T) {
	stages := []Stage{Hidden, Idle, Present, OpeningPortal, PortalOpen, ClosingPortal}
	triggers := []Trigger{SceneReady, Promote, Open, OpenComplete, Close, CloseComplete}
	want := map[Stage]map[Trigger]Stage{
		Hidden:        {SceneReady: Idle},
		Idle:          {Promote: Present, Open: OpeningPortal},
		Present:       {Open: OpeningPortal},
		OpeningPortal: {OpenComplete: PortalOpen},
		PortalOpen:    {Close: ClosingPortal},
		ClosingPortal: {CloseComplete: Idle},
	}
	for _, from := range stages {
		for _, trig := range triggers {
			t.Run(from.String()+"/"+trig.String(), func(t *testing.T) {
				m := &Machine{stage: from}
				to, defined := want[from][trig]
				if got := m.Fire(trig); got != defined {
					t.Fatalf("Fire(%s) in %s = %v, want %v", trig, from, got, defined)
				}
				if !defined {
					to = from
				}
				if m.Stage() != to {
					t.Errorf("Stage() = %s, want %s", m.Stage(), to)
				}
			})
		}
	}
}

func TestFullCycle(t *testing.T) {
	m := New()
	var seen []Transition
	m.OnTransition(func(tr Transition) { seen = append(seen, tr) })

	for _, trig := range []Trigger{SceneReady, Promote, Open, OpenComplete, Close, CloseComplete} {
		if !m.Fire(trig) {
			t.Fatalf("Fire(%s) rejected in %s", trig, m.Stage())
		}
	}
	if m.Stage() != Idle {
		t.Errorf("Stage() = %s after a full cycle, want idle", m.Stage())
	}
	if len(seen) != 6 {
		t.Fatalf("observer saw %d transitions, want 6", len(seen))
	}
	if seen[2] != (Transition{From: Present, To: OpeningPortal, Trigger: Open}) {
		t.Errorf("third transition = %+v", seen[2])
	}
}

func TestIgnoredTriggerNotObserved(t *testing.T) {
	m := New()
	calls := 0
	m.OnTransition(func(Transition) { calls++ })
	if m.Fire(Close) {
		t.Errorf("Close accepted in hidden")
	}
	if calls != 0 {
		t.Errorf("observer called %d times for ignored trigger", calls)
	}
}

func TestStageAnimating(t *testing.T) {
	for _, s := range []Stage{Hidden, Idle, Present, PortalOpen} {
		if s.Animating() {
			t.Errorf("%s.Animating() = true", s)
		}
	}
	for _, s := range []Stage{OpeningPortal, ClosingPortal} {
		if !s.Animating() {
			t.Errorf("%s.Animating() = false", s)
		}
	}
}
