package player

import (
	"fmt"
	"sync"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/speaker"
)

// SampleRate is the rate every stream is resampled to.
const SampleRate = beep.SampleRate(44100)

// Output pulls samples from a streamer on its own goroutine. Lock and
// Unlock guard changes to streamers it is reading.
type Output interface {
	Start(s beep.Streamer) error
	Lock()
	Unlock()
}

// SpeakerOutput plays through the system audio device.
type SpeakerOutput struct {
	initialized bool
}

// Start initializes the speaker and begins playing s.
func (o *SpeakerOutput) Start(s beep.Streamer) error {
	if !o.initialized {
		if err := speaker.Init(SampleRate, SampleRate.N(time.Second/10)); err != nil {
			return fmt.Errorf("init speaker: %w", err)
		}
		o.initialized = true
	}
	speaker.Play(s)
	return nil
}

// Lock locks the speaker.
func (o *SpeakerOutput) Lock() { speaker.Lock() }

// Unlock unlocks the speaker.
func (o *SpeakerOutput) Unlock() { speaker.Unlock() }

// DiscardOutput accepts a streamer and only reads from it when drained; used
// for --mute and tests.
type DiscardOutput struct {
	mu sync.Mutex
	s  beep.Streamer
}

// Start records s.
func (o *DiscardOutput) Start(s beep.Streamer) error {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.s = s
	return nil
}

// Lock locks the output.
func (o *DiscardOutput) Lock() { o.mu.Lock() }

// Unlock unlocks the output.
func (o *DiscardOutput) Unlock() { o.mu.Unlock() }

// Drain pulls n samples from the started streamer and returns them.
func (o *DiscardOutput) Drain(n int) [][2]float64 {
	o.mu.Lock()
	defer o.mu.Unlock()
	buf := make([][2]float64, n)
	if o.s == nil {
		return buf
	}
	got, _ := o.s.Stream(buf)
	return buf[:got]
}
