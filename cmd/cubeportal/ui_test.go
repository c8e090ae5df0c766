package main

import (
	"bytes"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/taigrr/cubeportal/pkg/config"
	"github.com/taigrr/cubeportal/pkg/models"
	"github.com/taigrr/cubeportal/pkg/player"
)

func TestPad(t *testing.T) {
	tests := []struct {
		in    string
		width int
		want  string
	}{
		{"ab", 4, "ab  "},
		{"abcd", 4, "abcd"},
		{"abcdef", 4, "abcd"},
		{"▶ é", 4, "▶ é "},
	}
	for _, tt := range tests {
		if got := pad(tt.in, tt.width); got != tt.want {
			t.Errorf("pad(%q, %d) = %q, want %q", tt.in, tt.width, got, tt.want)
		}
	}
}

func TestCardLinesWidth(t *testing.T) {
	s := newScene(config.Default(), models.NewCubeMesh(2), &player.DiscardOutput{}, 40, 40)
	defer s.app.Player.Close()
	if err := s.app.Player.SelectSong(0); err != nil {
		t.Fatalf("SelectSong() error: %v", err)
	}
	for i, line := range cardLines(s.app) {
		if n := utf8.RuneCountInString(line); n != cardWidth {
			t.Errorf("card line %d is %d runes, want %d: %q", i, n, cardWidth, line)
		}
	}
}

func TestOverlayLayout(t *testing.T) {
	s := newScene(config.Default(), models.NewCubeMesh(2), &player.DiscardOutput{}, 80, 48)
	defer s.app.Player.Close()
	s.app.Start()
	hud := NewHUD("cube", 12)

	var buf bytes.Buffer
	l := drawOverlay(&buf, s.app, hud, 80, 24)
	if !strings.Contains(buf.String(), logoText) || !strings.Contains(buf.String(), musicText) {
		t.Errorf("overlay missing header or footer: %q", buf.String())
	}
	if got := l.hit(2, 0); got != "logo" {
		t.Errorf("hit(2, 0) = %q, want logo", got)
	}
	if got := l.hit(40, 23); got != "music" {
		t.Errorf("hit(40, 23) = %q, want music", got)
	}
	if got := l.hit(40, 12); got != "" {
		t.Errorf("hit(40, 12) = %q, want scene", got)
	}

	// Open the portal through the music button and let everything settle.
	s.app.ClickMusic()
	for range 300 {
		s.app.Update(config.Default().FrameDuration())
	}
	buf.Reset()
	l = drawOverlay(&buf, s.app, hud, 80, 24)
	if l.music != (rect{}) || l.logo == (rect{}) {
		t.Errorf("portal open: music %+v logo %+v", l.music, l.logo)
	}
	if l.close == (rect{}) {
		t.Fatalf("player card close button not laid out")
	}
	if got := l.hit(l.close.x0, l.close.y0); got != "close" {
		t.Errorf("hit on close button = %q", got)
	}
	if l.close.y0 != 24-len(cardLines(s.app)) {
		t.Errorf("close button row = %d, want %d", l.close.y0, 24-len(cardLines(s.app)))
	}
}

func TestOverlayStats(t *testing.T) {
	s := newScene(config.Default(), models.NewCubeMesh(2), &player.DiscardOutput{}, 80, 48)
	defer s.app.Player.Close()
	hud := NewHUD("cube", 12)
	var buf bytes.Buffer
	drawOverlay(&buf, s.app, hud, 80, 24)
	if strings.Contains(buf.String(), "polys") {
		t.Errorf("stats drawn while disabled")
	}
	s.app.ToggleStats()
	buf.Reset()
	drawOverlay(&buf, s.app, hud, 80, 24)
	if !strings.Contains(buf.String(), "12 polys") || !strings.Contains(buf.String(), "hidden") {
		t.Errorf("stats overlay = %q", buf.String())
	}
}
