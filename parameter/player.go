package parameter

import "time"

// Player movement
const (
	// PlayerRadius is the collision sphere radius
	PlayerRadius = 0.35

	// PlayerStep is the distance covered per movement key press
	PlayerStep = 0.3

	// PlayerTurnStep is the yaw change per turn key press, degrees
	PlayerTurnStep = 7.5

	// PlayerHealth is the starting hit count
	PlayerHealth = 5

	// BumpSoundCooldown throttles the wall bump sound while sliding along a wall
	BumpSoundCooldown = 300 * time.Millisecond
)

// Player projectile
const (
	ProjectileRadius = 0.15
	ProjectileSpeed  = 9.0

	// ProjectileLifetime despawns projectiles that never hit anything
	ProjectileLifetime = 3 * time.Second

	// FireCooldown is the minimum time between player shots
	FireCooldown = 400 * time.Millisecond
)
