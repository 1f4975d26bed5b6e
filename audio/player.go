package audio

import (
	"log"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/speaker"
	"github.com/pkg/errors"

	"github.com/lixenwraith/vi-crawler/parameter"
)

// ErrAlreadyInitialized is returned by a second Init
var ErrAlreadyInitialized = errors.New("audio: player already initialized")

// speakerInit is swapped in tests to avoid opening a device
var speakerInit = func(rate beep.SampleRate, bufferSize int) error {
	return speaker.Init(rate, bufferSize)
}

// Player mixes short effects into the speaker
// Without a working device it stays in silent mode and every call is a no-op
type Player struct {
	rate   beep.SampleRate
	volume float64
	mixer  *beep.Mixer

	mu          sync.Mutex
	initialized bool
	live        atomic.Bool
	silent      atomic.Bool
	muted       atomic.Bool
}

// NewPlayer creates an uninitialized player at the default sample rate
func NewPlayer() *Player {
	return &Player{
		rate:   beep.SampleRate(parameter.AudioSampleRate),
		volume: parameter.AudioMasterVolume,
		mixer:  &beep.Mixer{},
	}
}

// Init opens the speaker and starts the mixer
// A device failure switches to silent mode and is not reported as an error
func (p *Player) Init() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.initialized {
		return ErrAlreadyInitialized
	}
	p.initialized = true

	if err := speakerInit(p.rate, p.rate.N(parameter.AudioBufferDuration)); err != nil {
		p.silent.Store(true)
		log.Printf("audio: speaker unavailable, running silent: %v", err)
		return nil
	}

	speaker.Play(p.mixer)
	p.live.Store(true)
	return nil
}

// Silent reports whether the device failed to open
func (p *Player) Silent() bool { return p.silent.Load() }

// SetMuted drops new sounds without touching the device
func (p *Player) SetMuted(m bool) { p.muted.Store(m) }

// Rate returns the mixer sample rate
func (p *Player) Rate() beep.SampleRate { return p.rate }

// Tone plays a sine blip, returning false when nothing was queued
func (p *Player) Tone(freq float64, dur time.Duration) bool {
	if freq <= 0 || dur <= 0 {
		return false
	}
	s, err := NewTone(freq, dur, p.rate)
	if err != nil {
		return false
	}
	return p.play(s)
}

// Play queues a canned effect
func (p *Player) Play(t SoundType) bool {
	s := Effect(t, p.rate)
	if s == nil {
		return false
	}
	return p.play(s)
}

func (p *Player) play(s beep.Streamer) bool {
	if p.silent.Load() || p.muted.Load() {
		return false
	}
	s = newVolume(s, p.volume)

	if p.live.Load() {
		speaker.Lock()
		p.mixer.Add(s)
		speaker.Unlock()
		return true
	}
	p.mu.Lock()
	p.mixer.Add(s)
	p.mu.Unlock()
	return true
}

// Pending returns the number of streamers still in the mixer
func (p *Player) Pending() int {
	if p.live.Load() {
		speaker.Lock()
		defer speaker.Unlock()
		return p.mixer.Len()
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.mixer.Len()
}

// Stream pulls n mixed samples directly, for use when no speaker is driving the mixer
func (p *Player) Stream(n int) [][2]float64 {
	p.mu.Lock()
	defer p.mu.Unlock()
	return Render(p.mixer, n)
}

// Close stops playback and drops queued sounds
func (p *Player) Close() {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.live.Swap(false) {
		speaker.Clear()
		speaker.Lock()
		p.mixer.Clear()
		speaker.Unlock()
		return
	}
	p.mixer.Clear()
}
