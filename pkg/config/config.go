// Package config loads scene tuning from a YAML file.
package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// ErrInvalid is wrapped by Validate errors.
var ErrInvalid = errors.New("invalid config")

// Song is one catalog entry. A song plays File when set, otherwise a tone
// at Frequency.
type Song struct {
	Title     string  `yaml:"title"`
	Artist    string  `yaml:"artist"`
	Frequency float64 `yaml:"frequency"`
	File      string  `yaml:"file,omitempty"`
}

// Config holds every tunable of the scene. Durations are in milliseconds in
// the file; use the accessor methods for time.Duration values.
type Config struct {
	DragToleranceMinPixels float64 `yaml:"dragToleranceMinPixels"`
	ClickMaxDurationMs     int     `yaml:"clickMaxDurationMs"`
	OpenDurationMs         int     `yaml:"openDurationMs"`
	CloseDurationMs        int     `yaml:"closeDurationMs"`
	CloseReadyProgress     float64 `yaml:"closeReadyProgress"`
	PresentDelayMs         int     `yaml:"presentDelayMs"`
	IdleRotationSpeed      float64 `yaml:"idleRotationSpeed"` // radians per second
	FollowStrength         float64 `yaml:"followStrength"`    // max tilt in radians
	PanelDurationMs        int     `yaml:"panelDurationMs"`
	PortalScale            float64 `yaml:"portalScale"`
	PortalDepth            float64 `yaml:"portalDepth"`
	PortalOpacity          float64 `yaml:"portalOpacity"`
	FPS                    int     `yaml:"fps"`
	Songs                  []Song  `yaml:"songs"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		DragToleranceMinPixels: 5,
		ClickMaxDurationMs:     300,
		OpenDurationMs:         1200,
		CloseDurationMs:        1200,
		CloseReadyProgress:     0.5,
		PresentDelayMs:         2000,
		IdleRotationSpeed:      0.35,
		FollowStrength:         0.25,
		PanelDurationMs:        400,
		PortalScale:            2.2,
		PortalDepth:            2.5,
		PortalOpacity:          0.35,
		FPS:                    30,
		Songs: []Song{
			{Title: "Right Side", Artist: "Sine Quartet", Frequency: 261.63},
			{Title: "Left Side", Artist: "Sine Quartet", Frequency: 293.66},
			{Title: "Top", Artist: "Sine Quartet", Frequency: 329.63},
			{Title: "Bottom", Artist: "Sine Quartet", Frequency: 349.23},
			{Title: "Front", Artist: "Sine Quartet", Frequency: 392.00},
			{Title: "Back", Artist: "Sine Quartet", Frequency: 440.00},
		},
	}
}

// Load reads path over the defaults. An empty path returns the defaults;
// keys missing from the file keep their default values.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

// Save writes cfg to path as YAML.
func (c Config) Save(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("encode config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}

// Validate checks ranges.
func (c Config) Validate() error {
	var errs []error
	check := func(ok bool, format string, args ...any) {
		if !ok {
			errs = append(errs, fmt.Errorf("%w: "+format, append([]any{ErrInvalid}, args...)...))
		}
	}
	check(c.DragToleranceMinPixels >= 0, "dragToleranceMinPixels %v < 0", c.DragToleranceMinPixels)
	check(c.ClickMaxDurationMs >= 0, "clickMaxDurationMs %d < 0", c.ClickMaxDurationMs)
	check(c.OpenDurationMs >= 0, "openDurationMs %d < 0", c.OpenDurationMs)
	check(c.CloseDurationMs >= 0, "closeDurationMs %d < 0", c.CloseDurationMs)
	check(c.CloseReadyProgress >= 0 && c.CloseReadyProgress <= 1, "closeReadyProgress %v outside [0, 1]", c.CloseReadyProgress)
	check(c.PresentDelayMs >= 0, "presentDelayMs %d < 0", c.PresentDelayMs)
	check(c.PanelDurationMs >= 0, "panelDurationMs %d < 0", c.PanelDurationMs)
	check(c.PortalScale > 0, "portalScale %v <= 0", c.PortalScale)
	check(c.PortalOpacity >= 0 && c.PortalOpacity <= 1, "portalOpacity %v outside [0, 1]", c.PortalOpacity)
	check(c.FPS > 0 && c.FPS <= 240, "fps %d outside (0, 240]", c.FPS)
	for i, s := range c.Songs {
		check(s.File != "" || s.Frequency > 0, "song %d (%q) needs a file or a positive frequency", i, s.Title)
	}
	return errors.Join(errs...)
}

func millis(ms int) time.Duration {
	return time.Duration(ms) * time.Millisecond
}

// ClickMaxDuration is the longest press that still counts as a click.
func (c Config) ClickMaxDuration() time.Duration { return millis(c.ClickMaxDurationMs) }

// OpenDuration is the portal open animation length.
func (c Config) OpenDuration() time.Duration { return millis(c.OpenDurationMs) }

// CloseDuration is the portal close animation length.
func (c Config) CloseDuration() time.Duration { return millis(c.CloseDurationMs) }

// PresentDelay is how long the cube idles before it becomes selectable.
func (c Config) PresentDelay() time.Duration { return millis(c.PresentDelayMs) }

// PanelDuration is the header/footer/player slide time.
func (c Config) PanelDuration() time.Duration { return millis(c.PanelDurationMs) }

// FrameDuration is the target frame interval.
func (c Config) FrameDuration() time.Duration { return time.Second / time.Duration(c.FPS) }
