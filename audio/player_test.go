package audio

import (
	"math"
	"testing"
	"time"

	"github.com/gopxl/beep"
	"github.com/pkg/errors"
)

// withSpeaker replaces device init for the duration of a test
func withSpeaker(t *testing.T, fn func(beep.SampleRate, int) error) {
	t.Helper()
	orig := speakerInit
	speakerInit = fn
	t.Cleanup(func() { speakerInit = orig })
}

// TestPlayerSilentFallback verifies a device failure is absorbed
func TestPlayerSilentFallback(t *testing.T) {
	withSpeaker(t, func(beep.SampleRate, int) error {
		return errors.New("no device")
	})

	p := NewPlayer()
	if err := p.Init(); err != nil {
		t.Fatalf("Expected silent fallback, got error: %v", err)
	}
	if !p.Silent() {
		t.Error("Expected silent mode after device failure")
	}
	if p.Tone(440, 50*time.Millisecond) {
		t.Error("Expected Tone to be a no-op in silent mode")
	}
	if p.Play(SoundHit) {
		t.Error("Expected Play to be a no-op in silent mode")
	}
	if p.Pending() != 0 {
		t.Errorf("Expected empty mixer, got %d", p.Pending())
	}

	if err := p.Init(); !errors.Is(err, ErrAlreadyInitialized) {
		t.Errorf("Expected ErrAlreadyInitialized, got %v", err)
	}
}

// TestPlayerToneMixes verifies a queued tone reaches the mixer output and drains
func TestPlayerToneMixes(t *testing.T) {
	p := NewPlayer()

	if !p.Tone(440, 10*time.Millisecond) {
		t.Fatal("Expected tone to be queued")
	}
	if p.Pending() != 1 {
		t.Errorf("Expected 1 pending streamer, got %d", p.Pending())
	}

	var peak float64
	for _, v := range p.Stream(p.Rate().N(20 * time.Millisecond)) {
		peak = math.Max(peak, math.Abs(v[0]))
	}
	if peak == 0 {
		t.Error("Expected audible tone output")
	}
	if peak > 1 {
		t.Errorf("Expected master volume to keep peak <= 1, got %f", peak)
	}
	if p.Pending() != 0 {
		t.Errorf("Expected tone to drain from mixer, got %d pending", p.Pending())
	}
}

// TestPlayerRejectsInvalid verifies bad tone parameters and unknown sounds
func TestPlayerRejectsInvalid(t *testing.T) {
	p := NewPlayer()
	if p.Tone(0, time.Second) {
		t.Error("Expected zero frequency to be rejected")
	}
	if p.Tone(440, 0) {
		t.Error("Expected zero duration to be rejected")
	}
	if p.Tone(30000, time.Second) {
		t.Error("Expected tone above Nyquist to be rejected")
	}
	if p.Play(soundTypeCount) {
		t.Error("Expected unknown sound to be rejected")
	}
}

// TestPlayerMuteAndClose verifies mute drops sounds and Close clears the mixer
func TestPlayerMuteAndClose(t *testing.T) {
	p := NewPlayer()

	p.SetMuted(true)
	if p.Play(SoundShoot) {
		t.Error("Expected muted player to drop sound")
	}
	p.SetMuted(false)

	p.Play(SoundShoot)
	p.Play(SoundBump)
	if p.Pending() != 2 {
		t.Errorf("Expected 2 pending, got %d", p.Pending())
	}
	p.Close()
	if p.Pending() != 0 {
		t.Errorf("Expected 0 pending after Close, got %d", p.Pending())
	}
}
