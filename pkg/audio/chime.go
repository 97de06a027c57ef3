// Package audio plays short tones for simulation events. Audio is optional:
// when the speaker cannot be opened every call is a no-op.
package audio

import (
	"math"
	"sync"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/effects"
	"github.com/gopxl/beep/generators"
	"github.com/gopxl/beep/speaker"

	"github.com/opd-ai/go-orrery/pkg/event"
)

const (
	sampleRate = beep.SampleRate(44100)

	collisionDuration = 250 * time.Millisecond
	startDuration     = 80 * time.Millisecond
	releaseDuration   = 60 * time.Millisecond

	collisionFreq = 440.0
	startFreq     = 880.0
)

// Chime plays a tone when bodies collide and a short blip when the
// simulation starts.
type Chime struct {
	mu     sync.Mutex
	volume float64
	play   func(...beep.Streamer)
	opened bool
	subs   []*event.Subscription
	played int
}

// NewChime creates a silent chime. volume is a linear gain in [0, 1].
func NewChime(volume float64) *Chime {
	return &Chime{volume: math.Max(0, math.Min(1, volume))}
}

// Initialize opens the speaker. A failure leaves the chime silent.
func (c *Chime) Initialize() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.play != nil {
		return nil
	}
	if err := speaker.Init(sampleRate, sampleRate.N(time.Second/10)); err != nil {
		return err
	}
	c.play = speaker.Play
	c.opened = true
	return nil
}

// Attach subscribes the chime to bus.
func (c *Chime) Attach(bus *event.Bus) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.subs = append(c.subs,
		bus.Subscribe(event.BodiesCollided, func(event.Event) { c.PlayCollision() }),
		bus.Subscribe(event.SimulationStarted, func(event.Event) { c.PlayStart() }),
	)
}

// Close unsubscribes from every bus and silences the chime.
func (c *Chime) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()

	for _, s := range c.subs {
		s.Cancel()
	}
	c.subs = nil
	if c.opened {
		speaker.Clear()
		c.opened = false
	}
	c.play = nil
}

// PlayCollision plays a fifth over the collision tone.
func (c *Chime) PlayCollision() {
	c.enqueue(beep.Mix(
		Tone(collisionFreq, collisionDuration, 0.6),
		Tone(collisionFreq*1.5, collisionDuration, 0.3),
	))
}

// PlayStart plays a short high blip.
func (c *Chime) PlayStart() {
	c.enqueue(Tone(startFreq, startDuration, 0.5))
}

// Played returns how many sounds were queued on the speaker.
func (c *Chime) Played() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.played
}

func (c *Chime) enqueue(s beep.Streamer) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.play == nil || c.volume == 0 {
		return
	}
	c.play(gain(s, c.volume))
	c.played++
}

// Tone returns a sine tone of freq Hz lasting d with a linear fade out.
func Tone(freq float64, d time.Duration, level float64) beep.Streamer {
	sine, err := generators.SineTone(sampleRate, freq)
	if err != nil {
		return beep.Silence(sampleRate.N(d))
	}
	return &fadeOut{
		Streamer: gain(beep.Take(sampleRate.N(d), sine), level),
		total:    sampleRate.N(d),
		release:  sampleRate.N(releaseDuration),
	}
}

// gain scales a stream by a linear factor.
func gain(s beep.Streamer, level float64) beep.Streamer {
	if level <= 0 {
		return &effects.Volume{Streamer: s, Base: 2, Silent: true}
	}
	return &effects.Volume{Streamer: s, Base: 2, Volume: math.Log2(level)}
}

// fadeOut ramps the last release samples of a stream down to silence.
type fadeOut struct {
	beep.Streamer
	total   int
	release int
	pos     int
}

func (f *fadeOut) Stream(samples [][2]float64) (int, bool) {
	n, ok := f.Streamer.Stream(samples)
	start := f.total - f.release
	for i := 0; i < n; i++ {
		if f.pos >= start && f.release > 0 {
			v := float64(f.total-f.pos) / float64(f.release)
			samples[i][0] *= v
			samples[i][1] *= v
		}
		f.pos++
	}
	return n, ok
}
