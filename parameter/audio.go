package parameter

import "time"

// Audio Hardware Settings
const (
	AudioSampleRate = 44100

	// AudioBufferDuration is the speaker buffer length, trading latency for underruns
	AudioBufferDuration = 100 * time.Millisecond

	// AudioMasterVolume scales every effect, 1.0 is unity gain
	AudioMasterVolume = 0.6
)

// Tone blip envelope
const (
	ToneAttack  = 3 * time.Millisecond
	ToneRelease = 30 * time.Millisecond
)

// Hit Sound
const (
	HitSoundDuration = 90 * time.Millisecond
	HitSoundFreq     = 140.0 // Hz
	HitSoundAttack   = 2 * time.Millisecond
	HitSoundRelease  = 60 * time.Millisecond
)

// Shoot Sound
const (
	ShootNote1Duration = 40 * time.Millisecond
	ShootNote2Duration = 90 * time.Millisecond
	ShootNote1Freq     = 880.0 // Hz
	ShootNote2Freq     = 587.33
	ShootSoundAttack   = 2 * time.Millisecond
	ShootNote1Release  = 20 * time.Millisecond
	ShootNote2Release  = 70 * time.Millisecond
)

// Bump Sound (walking into a wall)
const (
	BumpSoundDuration = 50 * time.Millisecond
	BumpSoundAttack   = 1 * time.Millisecond
	BumpSoundRelease  = 40 * time.Millisecond
	BumpSoundVolume   = 0.35
)

// Eat Sound (muffin pickup), two rising notes
const (
	EatNote1Freq    = 523.25 // Hz
	EatNote2Freq    = 783.99
	EatNoteDuration = 70 * time.Millisecond
	EatSoundAttack  = 3 * time.Millisecond
	EatSoundRelease = 40 * time.Millisecond
)
