package audio

import (
	"math"
	"math/rand"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/effects"
	"github.com/gopxl/beep/generators"
	"github.com/pkg/errors"

	"github.com/lixenwraith/vi-crawler/parameter"
)

// WaveType defines oscillator wave shapes
type WaveType int

const (
	WaveSine WaveType = iota
	WaveSquare
	WaveSaw
	WaveNoise
)

// SoundType identifies a canned effect
type SoundType int

const (
	SoundHit   SoundType = iota // Something took damage
	SoundShoot                  // Projectile launched
	SoundBump                   // Walked into a wall
	SoundEat                    // Picked up a muffin
	soundTypeCount
)

// oscillator generates a fixed-length raw wave
type oscillator struct {
	freq     float64
	phase    float64
	duration int
	position int
	wave     WaveType
	rate     beep.SampleRate
}

// NewOscillator creates a streamer producing duration worth of the given wave
func NewOscillator(freq float64, duration time.Duration, wave WaveType, rate beep.SampleRate) beep.Streamer {
	return &oscillator{
		freq:     freq,
		duration: rate.N(duration),
		wave:     wave,
		rate:     rate,
	}
}

func (o *oscillator) Stream(samples [][2]float64) (n int, ok bool) {
	for i := range samples {
		if o.position >= o.duration {
			return i, i > 0
		}

		var val float64
		switch o.wave {
		case WaveSine:
			val = math.Sin(2 * math.Pi * o.phase)
		case WaveSquare:
			if o.phase < 0.5 {
				val = 1.0
			} else {
				val = -1.0
			}
		case WaveSaw:
			val = 2.0 * (o.phase - 0.5)
		case WaveNoise:
			val = rand.Float64()*2 - 1
		}

		samples[i][0] = val
		samples[i][1] = val

		o.phase += o.freq / float64(o.rate)
		o.phase -= math.Floor(o.phase) // Keep in [0, 1)
		o.position++
	}
	return len(samples), true
}

func (o *oscillator) Err() error { return nil }

// envelope applies a linear attack/release ramp to a stream
type envelope struct {
	streamer     beep.Streamer
	position     int
	attack       int
	release      int
	releaseStart int
	total        int
}

// NewEnvelope wraps s with an attack/release gain ramp over duration
func NewEnvelope(s beep.Streamer, duration, attack, release time.Duration, rate beep.SampleRate) beep.Streamer {
	total := rate.N(duration)
	att := rate.N(attack)
	rel := rate.N(release)
	sus := total - att - rel
	if sus < 0 {
		sus = 0
	}
	return &envelope{
		streamer:     s,
		attack:       att,
		release:      rel,
		releaseStart: att + sus,
		total:        total,
	}
}

func (e *envelope) Stream(samples [][2]float64) (n int, ok bool) {
	n, ok = e.streamer.Stream(samples)

	for i := 0; i < n; i++ {
		if e.position >= e.total {
			return i, i > 0
		}

		vol := 1.0
		if e.position < e.attack && e.attack > 0 {
			vol = float64(e.position) / float64(e.attack)
		}
		if e.position >= e.releaseStart && e.release > 0 {
			vol = math.Max(0, float64(e.total-e.position)/float64(e.release))
		}

		samples[i][0] *= vol
		samples[i][1] *= vol
		e.position++
	}
	return n, ok
}

func (e *envelope) Err() error { return e.streamer.Err() }

// newVolume applies linear gain; math.Log2(0) is -Inf so zero maps to Silent
func newVolume(s beep.Streamer, vol float64) beep.Streamer {
	if vol <= 0 {
		return &effects.Volume{Streamer: s, Base: 2, Silent: true}
	}
	return &effects.Volume{Streamer: s, Base: 2, Volume: math.Log2(vol)}
}

// NewTone is a short enveloped sine blip
// Frequencies at or above the Nyquist limit are rejected
func NewTone(freq float64, dur time.Duration, rate beep.SampleRate) (beep.Streamer, error) {
	sine, err := generators.SineTone(rate, freq)
	if err != nil {
		return nil, errors.Wrapf(err, "audio: tone %.1fHz", freq)
	}
	return NewEnvelope(beep.Take(rate.N(dur), sine), dur, parameter.ToneAttack, parameter.ToneRelease, rate), nil
}

func createHitSound(rate beep.SampleRate) beep.Streamer {
	osc := NewOscillator(parameter.HitSoundFreq, parameter.HitSoundDuration, WaveSquare, rate)
	return NewEnvelope(osc, parameter.HitSoundDuration, parameter.HitSoundAttack, parameter.HitSoundRelease, rate)
}

// Two falling notes
func createShootSound(rate beep.SampleRate) beep.Streamer {
	n1 := NewOscillator(parameter.ShootNote1Freq, parameter.ShootNote1Duration, WaveSaw, rate)
	n1Shaped := NewEnvelope(n1, parameter.ShootNote1Duration, parameter.ShootSoundAttack, parameter.ShootNote1Release, rate)

	n2 := NewOscillator(parameter.ShootNote2Freq, parameter.ShootNote2Duration, WaveSaw, rate)
	n2Shaped := NewEnvelope(n2, parameter.ShootNote2Duration, parameter.ShootSoundAttack, parameter.ShootNote2Release, rate)

	return beep.Seq(n1Shaped, n2Shaped)
}

func createBumpSound(rate beep.SampleRate) beep.Streamer {
	noise := NewOscillator(0, parameter.BumpSoundDuration, WaveNoise, rate)
	shaped := NewEnvelope(noise, parameter.BumpSoundDuration, parameter.BumpSoundAttack, parameter.BumpSoundRelease, rate)
	return newVolume(shaped, parameter.BumpSoundVolume)
}

// Two rising sine notes
func createEatSound(rate beep.SampleRate) beep.Streamer {
	note := func(freq float64) beep.Streamer {
		osc := NewOscillator(freq, parameter.EatNoteDuration, WaveSine, rate)
		return NewEnvelope(osc, parameter.EatNoteDuration, parameter.EatSoundAttack, parameter.EatSoundRelease, rate)
	}
	return beep.Seq(note(parameter.EatNote1Freq), note(parameter.EatNote2Freq))
}

// Effect returns the streamer for a canned sound, nil for unknown types
func Effect(t SoundType, rate beep.SampleRate) beep.Streamer {
	switch t {
	case SoundHit:
		return createHitSound(rate)
	case SoundShoot:
		return createShootSound(rate)
	case SoundBump:
		return createBumpSound(rate)
	case SoundEat:
		return createEatSound(rate)
	default:
		return nil
	}
}

// Render drains up to n samples from s, stopping early when it ends
func Render(s beep.Streamer, n int) [][2]float64 {
	out := make([][2]float64, n)
	filled := 0
	for filled < n {
		got, ok := s.Stream(out[filled:])
		filled += got
		if !ok || got == 0 {
			break
		}
	}
	return out[:filled]
}
