package panel

import (
	"testing"
	"time"
)

const frame = 50 * time.Millisecond

func TestPanelShowReachesTerminalAndFiresOnce(t *testing.T) {
	p := New("test", 200*time.Millisecond, false)
	calls := 0
	p.Show(func() { calls++ })
	if !p.Moving() {
		t.Fatalf("Moving() = false after Show")
	}
	for range 3 {
		p.Update(frame)
	}
	if calls != 0 {
		t.Fatalf("done fired early at progress %v", p.Progress())
	}
	for range 10 {
		p.Update(frame)
	}
	if p.Progress() != 1 || p.Moving() || !p.Visible() {
		t.Errorf("after Show: progress=%v moving=%v visible=%v", p.Progress(), p.Moving(), p.Visible())
	}
	if calls != 1 {
		t.Errorf("done fired %d times, want 1", calls)
	}
}

func TestPanelHide(t *testing.T) {
	p := New("test", 100*time.Millisecond, true)
	done := false
	p.Hide(func() { done = true })
	p.Update(time.Second)
	if p.Progress() != 0 || p.Visible() || !done {
		t.Errorf("after Hide: progress=%v visible=%v done=%v", p.Progress(), p.Visible(), done)
	}
}

func TestPanelAlreadyThereFiresImmediately(t *testing.T) {
	p := New("test", 100*time.Millisecond, true)
	done := false
	p.Show(func() { done = true })
	if !done {
		t.Errorf("Show on a shown panel did not fire done")
	}
}

func TestPanelReversalDropsPending(t *testing.T) {
	p := New("test", 100*time.Millisecond, true)
	var fired []string
	p.Hide(func() { fired = append(fired, "hide") })
	p.Update(frame)
	p.Show(func() { fired = append(fired, "show") })
	p.Update(time.Second)
	if len(fired) != 1 || fired[0] != "show" {
		t.Errorf("fired = %v, want [show]", fired)
	}
}

func TestPanelSameDirectionKeepsPending(t *testing.T) {
	p := New("test", 100*time.Millisecond, false)
	calls := 0
	p.Show(func() { calls++ })
	p.Update(frame)
	p.Show(func() { calls++ })
	p.Update(time.Second)
	if calls != 2 {
		t.Errorf("calls = %d, want 2", calls)
	}
}

func TestPanelZeroDuration(t *testing.T) {
	p := New("test", 0, false)
	p.Show(nil)
	p.Update(0)
	if p.Progress() != 1 {
		t.Errorf("Progress() = %v, want 1", p.Progress())
	}
}

func TestPanelOffsetEndpoints(t *testing.T) {
	p := New("test", 0, false)
	if p.Offset() != 0 {
		t.Errorf("hidden Offset() = %v", p.Offset())
	}
	p.Show(nil)
	p.Update(0)
	if p.Offset() != 1 {
		t.Errorf("shown Offset() = %v", p.Offset())
	}
}

func TestHeaderAndFooter(t *testing.T) {
	h := NewHeader(100 * time.Millisecond)
	f := NewFooter(100 * time.Millisecond)
	h.MoveUp()
	f.Hide()
	h.Update(time.Second)
	f.Update(time.Second)
	if h.Visible() || f.Visible() {
		t.Fatalf("header/footer still visible after hiding")
	}
	lowered := false
	h.MoveDown(func() { lowered = true })
	f.Show()
	h.Update(time.Second)
	f.Update(time.Second)
	if !lowered || !h.Visible() || !f.Visible() {
		t.Errorf("MoveDown/Show: lowered=%v header=%v footer=%v", lowered, h.Visible(), f.Visible())
	}
}
