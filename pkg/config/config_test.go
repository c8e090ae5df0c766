package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestDefaultIsValid(t *testing.T) {
	if err := Default().Validate(); err != nil {
		t.Fatalf("Default().Validate() = %v", err)
	}
	if n := len(Default().Songs); n != 6 {
		t.Errorf("default catalog has %d songs, want one per cube face", n)
	}
}

func TestLoadEmptyPathReturnsDefaults(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load(\"\") error: %v", err)
	}
	if cfg.ClickMaxDuration() != 300*time.Millisecond {
		t.Errorf("ClickMaxDuration() = %v, want 300ms", cfg.ClickMaxDuration())
	}
}

func TestLoadOverridesRecognisedKeys(t *testing.T) {
	path := filepath.Join(t.TempDir(), "scene.yaml")
	data := `
dragToleranceMinPixels: 8
clickMaxDurationMs: 250
openDurationMs: 900
closeDurationMs: 700
songs:
  - title: Only
    artist: Me
    frequency: 220
`
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatal(err)
	}
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if cfg.DragToleranceMinPixels != 8 {
		t.Errorf("DragToleranceMinPixels = %v, want 8", cfg.DragToleranceMinPixels)
	}
	if cfg.ClickMaxDuration() != 250*time.Millisecond {
		t.Errorf("ClickMaxDuration() = %v, want 250ms", cfg.ClickMaxDuration())
	}
	if cfg.OpenDuration() != 900*time.Millisecond || cfg.CloseDuration() != 700*time.Millisecond {
		t.Errorf("durations = %v/%v, want 900ms/700ms", cfg.OpenDuration(), cfg.CloseDuration())
	}
	if cfg.CloseReadyProgress != 0.5 {
		t.Errorf("CloseReadyProgress = %v, want default 0.5", cfg.CloseReadyProgress)
	}
	if len(cfg.Songs) != 1 || cfg.Songs[0].Title != "Only" {
		t.Errorf("Songs = %+v, want the single configured song", cfg.Songs)
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "scene.yaml")
	want := Default()
	want.FPS = 45
	want.PortalDepth = 1.25
	want.Songs[2].File = "top.wav"
	if err := want.Save(path); err != nil {
		t.Fatalf("Save() error: %v", err)
	}
	got, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if got.FPS != 45 || got.PortalDepth != 1.25 || got.Songs[2].File != "top.wav" {
		t.Errorf("round trip = %+v", got)
	}
}

func TestLoadErrors(t *testing.T) {
	dir := t.TempDir()
	bad := filepath.Join(dir, "bad.yaml")
	if err := os.WriteFile(bad, []byte("fps: [1, 2"), 0o644); err != nil {
		t.Fatal(err)
	}
	invalid := filepath.Join(dir, "invalid.yaml")
	if err := os.WriteFile(invalid, []byte("closeReadyProgress: 1.5\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name      string
		path      string
		isInvalid bool
	}{
		{"missing file", filepath.Join(dir, "missing.yaml"), false},
		{"malformed yaml", bad, false},
		{"out of range", invalid, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(tt.path)
			if err == nil {
				t.Fatalf("Load(%s) error = nil", tt.path)
			}
			if errors.Is(err, ErrInvalid) != tt.isInvalid {
				t.Errorf("errors.Is(err, ErrInvalid) = %v, want %v (err %v)", !tt.isInvalid, tt.isInvalid, err)
			}
		})
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"negative tolerance", func(c *Config) { c.DragToleranceMinPixels = -1 }},
		{"zero fps", func(c *Config) { c.FPS = 0 }},
		{"zero portal scale", func(c *Config) { c.PortalScale = 0 }},
		{"opacity above one", func(c *Config) { c.PortalOpacity = 2 }},
		{"silent song", func(c *Config) { c.Songs[0].Frequency = 0 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(&cfg)
			if err := cfg.Validate(); !errors.Is(err, ErrInvalid) {
				t.Errorf("Validate() = %v, want ErrInvalid", err)
			}
		})
	}
}
