// Package player is the media player revealed by the portal: a catalog of
// songs, one per cube face, an audio pipeline built on beep and the sliding
// player card.
package player

import (
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"fortio.org/log"
	"github.com/gopxl/beep"
	"github.com/gopxl/beep/effects"
	"github.com/gopxl/beep/generators"
	"github.com/gopxl/beep/wav"
	"github.com/taigrr/cubeportal/pkg/panel"
)

// ErrNoSong is returned when a face has no catalog entry.
var ErrNoSong = errors.New("no song for face")

// Song is one playable item. File takes precedence over Frequency.
type Song struct {
	Title     string
	Artist    string
	Frequency float64
	File      string
}

func (s Song) String() string {
	if s.Artist == "" {
		return s.Title
	}
	return s.Title + " - " + s.Artist
}

// Player plays the selected song in a loop. Methods are called from the
// frame loop; the audio goroutine only reads under the output lock.
type Player struct {
	catalog []Song
	out     Output
	panel   *panel.Panel

	mixer   *beep.Mixer
	ctrl    *beep.Ctrl
	closer  io.Closer
	current int
	started bool
}

// New creates a player over catalog. The player card starts hidden.
func New(catalog []Song, out Output, panelDuration time.Duration) *Player {
	return &Player{
		catalog: catalog,
		out:     out,
		panel:   panel.New("player", panelDuration, false),
		mixer:   &beep.Mixer{},
		current: -1,
	}
}

// Catalog returns the songs in face order.
func (p *Player) Catalog() []Song {
	return p.catalog
}

// Panel returns the player card.
func (p *Player) Panel() *panel.Panel {
	return p.panel
}

// Show slides the player card in.
func (p *Player) Show() { p.panel.Show(nil) }

// Hide slides the player card out.
func (p *Player) Hide() { p.panel.Hide(nil) }

// SelectSong loads the song for face and starts playing it.
func (p *Player) SelectSong(face int) error {
	if face < 0 || face >= len(p.catalog) {
		return fmt.Errorf("%w: %d (catalog has %d)", ErrNoSong, face, len(p.catalog))
	}
	song := p.catalog[face]
	stream, closer, err := openStream(song)
	if err != nil {
		return fmt.Errorf("select %q: %w", song.Title, err)
	}
	if !p.started {
		if err := p.out.Start(p.mixer); err != nil {
			if closer != nil {
				closer.Close()
			}
			return fmt.Errorf("start output: %w", err)
		}
		p.started = true
	}

	p.out.Lock()
	p.mixer.Clear()
	p.ctrl = &beep.Ctrl{Streamer: stream, Paused: false}
	p.mixer.Add(p.ctrl)
	old := p.closer
	p.closer = closer
	p.current = face
	p.out.Unlock()

	if old != nil {
		old.Close()
	}
	log.Infof("Playing %s (face %d)", song, face)
	return nil
}

// Play resumes the current song.
func (p *Player) Play() {
	p.setPaused(false)
}

// Pause pauses the current song.
func (p *Player) Pause() {
	p.setPaused(true)
}

func (p *Player) setPaused(paused bool) {
	if p.ctrl == nil {
		return
	}
	p.out.Lock()
	p.ctrl.Paused = paused
	p.out.Unlock()
}

// Playing reports whether a song is loaded and not paused.
func (p *Player) Playing() bool {
	if p.ctrl == nil {
		return false
	}
	p.out.Lock()
	defer p.out.Unlock()
	return !p.ctrl.Paused
}

// Current returns the selected song.
func (p *Player) Current() (Song, bool) {
	if p.current < 0 {
		return Song{}, false
	}
	return p.catalog[p.current], true
}

// Close stops playback and releases the open file, if any.
func (p *Player) Close() error {
	p.out.Lock()
	p.mixer.Clear()
	p.ctrl = nil
	closer := p.closer
	p.closer = nil
	p.out.Unlock()
	if closer != nil {
		return closer.Close()
	}
	return nil
}

// openStream returns a looping, volume-adjusted streamer at SampleRate.
func openStream(song Song) (beep.Streamer, io.Closer, error) {
	if song.File == "" {
		tone, err := generators.SineTone(SampleRate, song.Frequency)
		if err != nil {
			return nil, nil, fmt.Errorf("tone %v Hz: %w", song.Frequency, err)
		}
		return quieter(tone), nil, nil
	}
	f, err := os.Open(song.File)
	if err != nil {
		return nil, nil, fmt.Errorf("open song: %w", err)
	}
	decoded, format, err := wav.Decode(f)
	if err != nil {
		f.Close()
		return nil, nil, fmt.Errorf("decode %s: %w", song.File, err)
	}
	var s beep.Streamer = beep.Loop(-1, decoded)
	if format.SampleRate != SampleRate {
		s = beep.Resample(4, format.SampleRate, SampleRate, s)
	}
	return quieter(s), decoded, nil
}

func quieter(s beep.Streamer) beep.Streamer {
	return &effects.Volume{Streamer: s, Base: 2, Volume: -2}
}
