package parameter

import "time"

// Goblin
const (
	// GoblinRadius is the collision sphere radius
	GoblinRadius = 0.4

	// GoblinHeight is the billboard height in world units
	GoblinHeight = 1.4

	GoblinHealth = 3

	// GoblinSightRange is how far a goblin notices the player
	GoblinSightRange = 14.0

	// InvincibilityWindow is how long a damaged entity ignores further hits
	InvincibilityWindow = 750 * time.Millisecond

	// RangedWindup is the delay between deciding to shoot and the projectile spawning
	RangedWindup = 1200 * time.Millisecond

	// GoblinReload is the pause after a shot before the next windup
	GoblinReload = 800 * time.Millisecond

	// GoblinHitFlash is how long a goblin stays tinted after taking damage
	GoblinHitFlash = 150 * time.Millisecond

	// EnemyProjectileSpeed is slower than the player's so it can be dodged
	EnemyProjectileSpeed = 5.0
)

// Muffin dropped by the carrying goblin, heals the player to full on pickup
const (
	MuffinRadius = 0.5
	MuffinHeight = 0.7

	// MuffinSolid is how long the muffin stays steady before it starts blinking
	MuffinSolid = 5 * time.Second

	// MuffinBlink is the visibility toggle period while expiring
	MuffinBlink = 250 * time.Millisecond

	// MuffinBlinks is the number of toggles before despawn
	MuffinBlinks = 16
)
